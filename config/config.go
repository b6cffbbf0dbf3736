package config

import (
	"bomberman/export"
	"bomberman/game"
	"bomberman/searcher"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var (
	cfgFile = "bomberman/config.yaml"
)

// Agent kinds accepted in ArenaConfig.Agents
const (
	AgentMCTS    = "mcts"
	AgentStatic  = "static"
	AgentWalking = "walking"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("config error: %s", e.err)
}

type ArenaConfig struct {
	Seed        uint64        `yaml:"seed"`
	Layout      []string      `yaml:"layout,omitempty"` // empty for the default scenario
	Agents      []string      `yaml:"agents"`
	Tick        time.Duration `yaml:"tick"`
	MaxDuration time.Duration `yaml:"max_duration"`
	Realtime    bool          `yaml:"realtime"`
	Board       int           `yaml:"board"` // print the board every n ticks, 0 to disable
	Games       int           `yaml:"games"`
}

type PlannerConfig struct {
	Duration       time.Duration `yaml:"duration"` // 0 to think for one tile time
	Episodes       int           `yaml:"episodes"`
	Cutoff         int           `yaml:"cutoff"`
	Exploration    float64       `yaml:"exploration"`
	SimulationStep time.Duration `yaml:"simulation_step"`
	Opponents      string        `yaml:"opponents"`
	Seed           uint64        `yaml:"seed"` // 0 to seed from the clock
	Metrics        bool          `yaml:"metrics"`
}

type ExportConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	Format  string `yaml:"format"`
	Buffer  int    `yaml:"buffer"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	Arena   ArenaConfig   `yaml:"arena"`
	Planner PlannerConfig `yaml:"planner"`
	Export  ExportConfig  `yaml:"export"`
	Log     LogConfig     `yaml:"log"`
}

// Load returns the defaults overlaid with the first config file found in the
// XDG config directories, if any.
func Load() (*Config, error) {
	config := Default()
	if absPath, err := xdg.SearchConfigFile(cfgFile); err == nil {
		if err := config.ReadFile(absPath); err != nil {
			return nil, err
		}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// ReadFile overlays the YAML file at path onto c.
func (c *Config) ReadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := c.Decode(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Decode overlays YAML from r onto c. Unknown keys are rejected.
func (c *Config) Decode(r io.Reader) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// Save writes c to the user's XDG config directory and returns the path.
func (c *Config) Save() (string, error) {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return "", fmt.Errorf("locate config: %w", err)
	}
	return absPath, c.WriteFile(absPath)
}

func (c *Config) WriteFile(path string) error {
	var b bytes.Buffer
	encoder := yaml.NewEncoder(&b)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Arena.Tick <= 0 || c.Arena.Tick > time.Second {
		return &InvalidConfig{"arena.tick must be in (0s, 1s]"}
	}
	if c.Arena.MaxDuration <= 0 {
		return &InvalidConfig{"arena.max_duration must be positive"}
	}
	if c.Arena.Games < 1 {
		return &InvalidConfig{"arena.games must be at least 1"}
	}
	sc, err := c.Arena.Scenario()
	if err != nil {
		return &InvalidConfig{fmt.Sprintf("arena.layout: %v", err)}
	}
	if len(c.Arena.Agents) != len(sc.StartPositions) {
		return &InvalidConfig{fmt.Sprintf("arena.agents lists %d agents for %d start positions",
			len(c.Arena.Agents), len(sc.StartPositions))}
	}
	for _, kind := range c.Arena.Agents {
		switch kind {
		case AgentMCTS, AgentStatic, AgentWalking:
		default:
			return &InvalidConfig{fmt.Sprintf("arena.agents: unknown agent %q", kind)}
		}
	}

	if c.Planner.Duration < 0 || c.Planner.Episodes < 0 || c.Planner.Cutoff < 1 {
		return &InvalidConfig{"planner.duration and planner.episodes must not be negative, planner.cutoff must be positive"}
	}
	if c.Planner.Exploration < 0 {
		return &InvalidConfig{"planner.exploration must not be negative"}
	}
	if c.Planner.SimulationStep <= 0 || c.Planner.SimulationStep > time.Second {
		return &InvalidConfig{"planner.simulation_step must be in (0s, 1s]"}
	}
	if _, err := searcher.ParseOpponentMode(c.Planner.Opponents); err != nil {
		return &InvalidConfig{fmt.Sprintf("planner.opponents: %v", err)}
	}

	if _, err := export.ParseFormat(c.Export.Format); err != nil {
		return &InvalidConfig{fmt.Sprintf("export.format: %v", err)}
	}
	if c.Export.Enabled && c.Export.Dir == "" {
		return &InvalidConfig{"export.dir is required when export is enabled"}
	}

	if _, err := c.Log.ZerologLevel(); err != nil {
		return &InvalidConfig{fmt.Sprintf("log.level: %v", err)}
	}
	return nil
}

// Scenario builds the arena from the layout, or the default scenario.
func (a ArenaConfig) Scenario() (game.Scenario, error) {
	if len(a.Layout) == 0 {
		return game.DefaultScenario(a.Seed), nil
	}
	return game.ParseScenario(a.Layout)
}

// GameScenario builds the arena for the game with the given index. Default
// scenarios are seeded per game so that every game gets a different map.
func (a ArenaConfig) GameScenario(index int) (game.Scenario, error) {
	a.Seed += uint64(index)
	return a.Scenario()
}

// Options converts the planner settings. seed offsets the configured seed so
// that agents sharing a config still search differently.
func (p PlannerConfig) Options(seed uint64) ([]searcher.Option, error) {
	mode, err := searcher.ParseOpponentMode(p.Opponents)
	if err != nil {
		return nil, err
	}

	options := []searcher.Option{
		searcher.WithCutoff(p.Cutoff),
		searcher.WithExploration(p.Exploration),
		searcher.WithSimulationStep(p.SimulationStep),
		searcher.WithOpponents(mode),
	}
	if p.Duration > 0 {
		options = append(options, searcher.WithDuration(p.Duration))
	}
	if p.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(p.Episodes))
	}
	if p.Seed != 0 {
		options = append(options, searcher.WithSeed(p.Seed+seed))
	}
	if p.Metrics {
		options = append(options, searcher.WithMetrics())
	}
	return options, nil
}

func (l LogConfig) ZerologLevel() (zerolog.Level, error) {
	return zerolog.ParseLevel(l.Level)
}

func (e ExportConfig) ParsedFormat() export.Format {
	format, _ := export.ParseFormat(e.Format)
	return format
}
