package config

import (
	"bomberman/meta"
	"bomberman/searcher"
)

// Default is the configuration used when no config file is found.
func Default() Config {
	return Config{
		Arena: ArenaConfig{
			Seed:        1,
			Agents:      []string{AgentMCTS, AgentWalking},
			Tick:        meta.TICK,
			MaxDuration: meta.MAX_DURATION,
			Realtime:    true,
			Games:       meta.NUM_GAMES,
		},
		Planner: PlannerConfig{
			Episodes:       meta.EPISODES,
			Cutoff:         meta.WITH_CUTOFF,
			Exploration:    searcher.C_SQUARED,
			SimulationStep: meta.SIMULATION_STEP,
			Opponents:      "keep",
		},
		Export: ExportConfig{
			Dir:    meta.EXPORT_DIR,
			Format: "json",
			Buffer: meta.EXPORT_BUFFER,
		},
		Log: LogConfig{
			Level: meta.LOG_LEVEL,
		},
	}
}
