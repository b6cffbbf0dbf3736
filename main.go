package main

import (
	"bomberman/agent"
	"bomberman/config"
	"bomberman/engine"
	"bomberman/experiments"
	"bomberman/experiments/metrics"
	"bomberman/export"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	mode := flag.String("mode", "arena", "arena, baseline, cutoff, opponents or throughput")
	configPath := flag.String("config", "", "config file, searched in the XDG config directories when empty")
	writeConfig := flag.Bool("write-config", false, "write the effective config to the XDG config directory and exit")
	out := flag.String("out", "experiments", "output directory of experiments")
	games := flag.Int("games", 0, "games per match up, overrides the config")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *games > 0 {
		cfg.Arena.Games = *games
	}
	level, _ := cfg.Log.ZerologLevel()
	zerolog.SetGlobalLevel(level)

	if *writeConfig {
		path, err := cfg.Save()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to save config")
		}
		fmt.Println(path)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	settings := experiments.NewSettings(cfg, *out)
	switch *mode {
	case "arena":
		err = runArena(ctx, cfg)
	case "baseline":
		_, err = experiments.RunBaselineExperiment(ctx, settings)
	case "cutoff":
		_, err = experiments.RunCutoffExperiment(ctx, settings)
	case "opponents":
		_, err = experiments.RunOpponentModelExperiment(ctx, settings)
	case "throughput":
		_, err = experiments.RunThroughputExperiment(ctx, settings)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Str("mode", *mode).Msg("run failed")
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	cfg := config.Default()
	if err := cfg.ReadFile(path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// runArena plays the configured agents against each other.
func runArena(ctx context.Context, cfg *config.Config) error {
	hooks := []agent.ResultHook{}
	if cfg.Export.Enabled {
		writer, err := export.NewWriter(cfg.Export.Dir, cfg.Export.ParsedFormat(), cfg.Export.Buffer)
		if err != nil {
			return err
		}
		defer func() {
			if err := writer.Close(); err != nil {
				log.Error().Err(err).Msg("tree export failed")
			}
			log.Info().Str("dir", writer.Dir()).Int64("dropped", writer.Dropped()).Msg("exported search trees")
		}()
		hooks = append(hooks, writer.Hook)
	}

	options := []engine.Option{
		engine.WithTick(cfg.Arena.Tick),
		engine.WithMaxDuration(cfg.Arena.MaxDuration),
		engine.WithRealtime(cfg.Arena.Realtime),
		engine.WithReporters(engine.LogReporter{}),
	}
	if cfg.Arena.Board > 0 {
		options = append(options, engine.WithBoard(os.Stdout, cfg.Arena.Board))
	}

	wins := map[int]int{}
	for i, games := 0, cfg.Arena.Games; i < games; i++ {
		sc, err := cfg.Arena.GameScenario(i)
		if err != nil {
			return err
		}

		seed := cfg.Arena.Seed + uint64(i)*uint64(len(cfg.Arena.Agents))
		factories := []engine.AgentFactory{}
		for j, kind := range cfg.Arena.Agents {
			factories = append(factories, experiments.NewAgentFactory(metrics.AgentConfig{ID: j, Kind: kind}, cfg.Planner, seed+uint64(j), hooks...))
		}

		outcome, err := engine.LocalEngine(sc, factories, options...).Run(ctx)
		if err != nil {
			return fmt.Errorf("game %d: %w", i+1, err)
		}
		wins[outcome.Winner]++
	}

	log.Info().Interface("wins", wins).Int("games", cfg.Arena.Games).Msg("arena finished")
	return nil
}
