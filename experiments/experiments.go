package experiments

import (
	"bomberman/agent"
	"bomberman/config"
	"bomberman/engine"
	"bomberman/experiments/metrics"
	"bomberman/game"
	"bomberman/searcher"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const TimeBudget = 20 * time.Millisecond

// Settings are shared by every game of an experiment.
type Settings struct {
	Root        string // output directory
	Games       int    // per match up
	Seed        uint64
	Layout      []string // empty for a fresh default scenario per game
	Tick        time.Duration
	MaxDuration time.Duration
	Realtime    bool
	Planner     config.PlannerConfig
}

func NewSettings(cfg *config.Config, root string) Settings {
	return Settings{
		Root:        root,
		Games:       cfg.Arena.Games,
		Seed:        cfg.Arena.Seed,
		Layout:      cfg.Arena.Layout,
		Tick:        cfg.Arena.Tick,
		MaxDuration: cfg.Arena.MaxDuration,
		Realtime:    cfg.Arena.Realtime,
		Planner:     cfg.Planner,
	}
}

// RunBaselineExperiment pits the planner against the scripted agents.
func RunBaselineExperiment(ctx context.Context, s Settings) (string, error) {
	planner := metrics.AgentConfig{ID: 0, Kind: config.AgentMCTS, Duration: TimeBudget}
	configs := []metrics.AgentConfig{
		planner,
		{ID: 1, Kind: config.AgentStatic},
		{ID: 2, Kind: config.AgentWalking},
	}
	matchUps := [][]metrics.AgentConfig{
		{planner, configs[1]},
		{planner, configs[2]},
	}

	return runExperiment(ctx, "baseline", s, configs, matchUps)
}

func RunCutoffExperiment(ctx context.Context, s Settings) (string, error) {
	baseline := metrics.AgentConfig{ID: 0, Kind: config.AgentMCTS, Duration: TimeBudget, Cutoff: searcher.DefaultCutoff}
	cutoffConfigs := []metrics.AgentConfig{
		{ID: 1, Kind: config.AgentMCTS, Duration: TimeBudget, Cutoff: 2},
		{ID: 2, Kind: config.AgentMCTS, Duration: TimeBudget, Cutoff: 4},
		{ID: 3, Kind: config.AgentMCTS, Duration: TimeBudget, Cutoff: 16},
	}

	// Each matchup pairs the baseline agent against a cutoff agent
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range cutoffConfigs {
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config})
	}

	return runExperiment(ctx, "cutoff", s, append(cutoffConfigs, baseline), matchUps)
}

// RunOpponentModelExperiment compares how opponents are modelled inside the
// searched states.
func RunOpponentModelExperiment(ctx context.Context, s Settings) (string, error) {
	baseline := metrics.AgentConfig{ID: 0, Kind: config.AgentMCTS, Duration: TimeBudget, Opponents: "keep"}
	modelConfigs := []metrics.AgentConfig{
		{ID: 1, Kind: config.AgentMCTS, Duration: TimeBudget, Opponents: "static"},
		{ID: 2, Kind: config.AgentMCTS, Duration: TimeBudget, Opponents: "walking"},
	}

	matchUps := [][]metrics.AgentConfig{}
	for _, config := range modelConfigs {
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config})
	}

	return runExperiment(ctx, "opponent_model", s, append(modelConfigs, baseline), matchUps)
}

func runExperiment(ctx context.Context, name string, s Settings, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig) (string, error) {
	// Run a number of games for each matchup
	count := 0
	gameRecords := []metrics.GameRecord{}
	decisionRecords := []metrics.DecisionRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchup := range matchUps {
		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(matchUps), matchup[0], matchup[1])

		for i := 0; i < s.Games; i++ {
			// Alternate the starting positions
			config1, config2 := matchup[0], matchup[1]
			if i%2 == 1 {
				config1, config2 = config2, config1
			}

			count++
			seed := s.Seed + uint64(count)
			record, decisions, err := runGame(ctx, s, config1, config2, seed)
			if err != nil {
				return "", fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}
			gameRecords = append(gameRecords, record)
			for _, d := range decisions {
				decisionRecords = append(decisionRecords, metrics.DecisionRecord{
					Game:           record.ID,
					DecisionMetric: d,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %d", mi+1, len(matchUps), i+1, record.Winner)
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(matchUps))
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(s.Root, name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteDecisionRecords(decisionRecords); err != nil {
		return "", fmt.Errorf("failed to write decision records: %w", err)
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored experiment records")

	return writer.Dir(), nil
}

// runGame plays a single game between two agents
func runGame(ctx context.Context, s Settings, config1, config2 metrics.AgentConfig, seed uint64) (metrics.GameRecord, []metrics.DecisionMetric, error) {
	sc := game.DefaultScenario(seed)
	if len(s.Layout) > 0 {
		var err error
		if sc, err = game.ParseScenario(s.Layout); err != nil {
			return metrics.GameRecord{}, nil, err
		}
	}

	collector := metrics.NewCollector()
	factories := []engine.AgentFactory{
		NewAgentFactory(config1, s.Planner, seed, collector.Hook),
		NewAgentFactory(config2, s.Planner, seed+1, collector.Hook),
	}
	e := engine.LocalEngine(sc, factories,
		engine.WithTick(s.Tick),
		engine.WithMaxDuration(s.MaxDuration),
		engine.WithRealtime(s.Realtime),
	)

	outcome, err := e.Run(ctx)
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}

	record := metrics.GameRecord{
		ID:     uuid.New().String(),
		Agent1: config1.ID,
		Agent2: config2.ID,
		GameMetric: metrics.GameMetric{
			Winner:    outcome.Winner,
			StartTime: outcome.StartTime,
			EndTime:   outcome.EndTime,
			Duration:  outcome.EndTime.Sub(outcome.StartTime),
			Elapsed:   outcome.Elapsed,
			Ticks:     outcome.Ticks,
		},
	}
	return record, collector.Decisions(), nil
}

// NewAgentFactory creates agents of the configured kind. Planner settings in
// config override those in planner.
func NewAgentFactory(config metrics.AgentConfig, planner config.PlannerConfig, seed uint64, hooks ...agent.ResultHook) engine.AgentFactory {
	return func(s *game.GameState, p *game.Player) game.Agent {
		switch config.Kind {
		case "static":
			return game.NewStaticAgent(p)
		case "walking":
			return game.NewWalkingAgent(s, p, seed)
		}

		runnerOptions := []agent.RunnerOption{}
		for _, hook := range hooks {
			runnerOptions = append(runnerOptions, agent.WithResultHook(hook))
		}
		return agent.NewMctsAgent(s, p, agent.NewRunner(createMCTS(config, planner, seed), runnerOptions...))
	}
}

func createMCTS(config metrics.AgentConfig, planner config.PlannerConfig, seed uint64) *searcher.MCTS {
	if config.Duration > 0 {
		planner.Duration = config.Duration
	}
	if config.Episodes > 0 {
		planner.Episodes = config.Episodes
	}
	if config.Cutoff > 0 {
		planner.Cutoff = config.Cutoff
	}
	if config.Opponents != "" {
		planner.Opponents = config.Opponents
	}
	if planner.Seed == 0 {
		planner.Seed = 1
	}
	planner.Metrics = true

	options, err := planner.Options(seed)
	if err != nil {
		panic(fmt.Sprintf("invalid planner config: %v", err))
	}
	return searcher.NewMCTS(options...)
}
