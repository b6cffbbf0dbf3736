package experiments

import (
	"bomberman/agent"
	"bomberman/config"
	"bomberman/experiments/metrics"
	"bomberman/game"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testSettings(t *testing.T) Settings {
	t.Helper()
	return Settings{
		Root:        t.TempDir(),
		Games:       2,
		Seed:        1,
		Layout:      []string{"0...", ".#..", "...1"},
		Tick:        16 * time.Millisecond,
		MaxDuration: 300 * time.Millisecond,
		Realtime:    true,
		Planner:     config.Default().Planner,
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestNewAgentFactory(t *testing.T) {
	sc, err := game.ParseScenario([]string{"0..1"})
	require.NoError(t, err)
	planner := config.Default().Planner

	for kind, expected := range map[string]game.Agent{
		config.AgentStatic:  &game.StaticAgent{},
		config.AgentWalking: &game.WalkingAgent{},
		config.AgentMCTS:    &agent.MctsAgent{},
	} {
		factory := NewAgentFactory(metrics.AgentConfig{Kind: kind}, planner, 1)
		s := sc.NewGameState(func(_ int, s *game.GameState, p *game.Player) game.Agent {
			return factory(s, p)
		})

		require.IsType(t, expected, s.Agents[0], kind)
	}
}

func TestRunBaselineExperiment(t *testing.T) {
	s := testSettings(t)

	dir, err := RunBaselineExperiment(context.Background(), s)

	require.NoError(t, err)
	games := readCSV(t, filepath.Join(dir, "game_records.csv"))
	require.Len(t, games, 1+2*s.Games)
	require.Equal(t, "id", games[0][0])

	// Starting positions alternate within a match up
	require.Equal(t, []string{"0", "1"}, games[1][1:3])
	require.Equal(t, []string{"1", "0"}, games[2][1:3])

	decisions := readCSV(t, filepath.Join(dir, "decision_records.csv"))
	require.Greater(t, len(decisions), 1)
	configs := readCSV(t, filepath.Join(dir, "agent_configs.csv"))
	require.Len(t, configs, 4)
}

func TestRunExperimentFailsOnABadLayout(t *testing.T) {
	s := testSettings(t)
	s.Layout = []string{"0..", "1"}

	_, err := RunBaselineExperiment(context.Background(), s)

	require.Error(t, err)
}

func TestRunThroughputExperiment(t *testing.T) {
	s := testSettings(t)
	s.Games = 1

	dir, err := RunThroughputExperiment(context.Background(), s)

	require.NoError(t, err)
	records := readCSV(t, filepath.Join(dir, "decision_records.csv"))
	require.Len(t, records, 1+len(throughputBudgets))
	for _, record := range records[1:] {
		require.Equal(t, "movetime", record[4])
	}
}
