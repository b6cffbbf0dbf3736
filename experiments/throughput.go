package experiments

import (
	"bomberman/experiments/metrics"
	"bomberman/game"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

var throughputBudgets = []time.Duration{
	5 * time.Millisecond,
	10 * time.Millisecond,
	20 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
}

// RunThroughputExperiment measures how many episodes a single search fits in
// each budget. Searches start from fresh default scenarios, without playing.
func RunThroughputExperiment(ctx context.Context, s Settings) (string, error) {
	configs := []metrics.AgentConfig{}
	for i, budget := range throughputBudgets {
		configs = append(configs, metrics.AgentConfig{ID: i + 1, Kind: "mcts", Duration: budget})
	}

	records := []metrics.DecisionRecord{}

	log.Info().Msg("starting throughput experiment...")

	for _, config := range configs {
		log.Info().Msgf("starting searches for agent=%+v...", config)

		for i := 0; i < s.Games; i++ {
			seed := s.Seed + uint64(i)
			state := game.DefaultScenario(seed).NewGameState(func(_ int, _ *game.GameState, p *game.Player) game.Agent {
				return game.NewStaticAgent(p)
			})

			result := createMCTS(config, s.Planner, seed).Search(ctx, state, 0)
			records = append(records, metrics.DecisionRecord{
				Game: fmt.Sprintf("agent%d-search%d", config.ID, i+1),
				DecisionMetric: metrics.DecisionMetric{
					Step:          i + 1,
					Action:        result.Action.String(),
					Reason:        result.Reason.String(),
					SearchMetrics: result.Metrics,
				},
			})
		}
		log.Info().Msg("completed searches")
	}

	log.Info().Msg("completed throughput experiment")

	writer, err := metrics.NewWriter(s.Root, "throughput")
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteDecisionRecords(records); err != nil {
		return "", fmt.Errorf("failed to write decision records: %w", err)
	}
	return writer.Dir(), nil
}
