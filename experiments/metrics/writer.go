package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type GameRecord struct {
	ID     string // uuid
	Agent1 int    // AgentConfig.ID
	Agent2 int    // AgentConfig.ID
	GameMetric
}

type DecisionRecord struct {
	Game string // GameRecord.ID
	DecisionMetric
}

type Writer struct {
	baseDir string
}

func NewWriter(root, name string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "kind", "duration", "episodes", "cutoff", "opponents"}
	return w.write("agent_configs.csv", header, len(configs), func(i int) []string {
		config := configs[i]
		return []string{
			strconv.Itoa(config.ID),
			config.Kind,
			config.Duration.String(),
			strconv.Itoa(config.Episodes),
			strconv.Itoa(config.Cutoff),
			config.Opponents,
		}
	})
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent1", "agent2", "winner", "start_time", "end_time", "duration", "elapsed", "ticks"}
	return w.write("game_records.csv", header, len(records), func(i int) []string {
		record := records[i]
		return []string{
			record.ID,
			strconv.Itoa(record.Agent1),
			strconv.Itoa(record.Agent2),
			strconv.Itoa(record.Winner),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			record.Elapsed.String(),
			strconv.Itoa(record.Ticks),
		}
	})
}

func (w *Writer) WriteDecisionRecords(records []DecisionRecord) error {
	header := []string{"game", "step", "player", "action", "reason", "duration", "budget", "episodes", "full_playouts", "tree_size", "max_depth"}
	return w.write("decision_records.csv", header, len(records), func(i int) []string {
		record := records[i]
		return []string{
			record.Game,
			strconv.Itoa(record.Step),
			strconv.Itoa(record.Player),
			record.Action,
			record.Reason,
			record.Duration.String(),
			record.Budget.String(),
			strconv.FormatInt(record.Episodes, 10),
			strconv.FormatInt(record.FullPlayouts, 10),
			strconv.Itoa(record.TreeSize),
			strconv.Itoa(record.MaxDepth),
		}
	})
}

func (w *Writer) write(name string, header []string, n int, row func(i int) []string) error {
	// Create a file
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}

	for i := 0; i < n; i++ {
		err = writer.Write(row(i))
		if err != nil {
			return fmt.Errorf("failed to write %s row: %w", name, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
