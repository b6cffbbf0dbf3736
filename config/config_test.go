package config

import (
	"bomberman/export"
	"bomberman/game"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	require.NoError(t, c.Validate())
	sc, err := c.Arena.Scenario()
	require.NoError(t, err)
	require.Len(t, sc.StartPositions, len(c.Arena.Agents))
}

func TestDecode(t *testing.T) {
	t.Run("overlays the defaults", func(t *testing.T) {
		c := Default()

		err := c.Decode(strings.NewReader(`
planner:
  duration: 20ms
  episodes: 100
arena:
  layout:
    - "0.x.1"
  agents: [mcts, static]
log:
  level: debug
`))

		require.NoError(t, err)
		require.Equal(t, 20*time.Millisecond, c.Planner.Duration)
		require.Equal(t, 100, c.Planner.Episodes)
		require.Equal(t, Default().Planner.Cutoff, c.Planner.Cutoff)
		require.Equal(t, []string{AgentMCTS, AgentStatic}, c.Arena.Agents)
		require.NoError(t, c.Validate())

		level, err := c.Log.ZerologLevel()
		require.NoError(t, err)
		require.Equal(t, zerolog.DebugLevel, level)
	})

	t.Run("empty input keeps the defaults", func(t *testing.T) {
		c := Default()

		require.NoError(t, c.Decode(strings.NewReader("")))
		require.Equal(t, Default(), c)
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		c := Default()

		require.Error(t, c.Decode(strings.NewReader("planner:\n  goroutines: 8\n")))
	})
}

func TestValidate(t *testing.T) {
	for name, mutate := range map[string]func(c *Config){
		"zero tick":             func(c *Config) { c.Arena.Tick = 0 },
		"no games":              func(c *Config) { c.Arena.Games = 0 },
		"ragged layout":         func(c *Config) { c.Arena.Layout = []string{"0..", "1."} },
		"too few agents":        func(c *Config) { c.Arena.Agents = []string{AgentMCTS} },
		"unknown agent":         func(c *Config) { c.Arena.Agents = []string{AgentMCTS, "human"} },
		"no cutoff":             func(c *Config) { c.Planner.Cutoff = 0 },
		"negative exploration":  func(c *Config) { c.Planner.Exploration = -1 },
		"long simulation step":  func(c *Config) { c.Planner.SimulationStep = 2 * time.Second },
		"unknown opponents":     func(c *Config) { c.Planner.Opponents = "chasing" },
		"unknown export format": func(c *Config) { c.Export.Format = "xml" },
		"export without dir":    func(c *Config) { c.Export.Enabled, c.Export.Dir = true, "" },
		"unknown log level":     func(c *Config) { c.Log.Level = "loud" },
	} {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(&c)

			var invalid *InvalidConfig
			require.ErrorAs(t, c.Validate(), &invalid)
		})
	}
}

func TestGameScenario(t *testing.T) {
	t.Run("default maps change between games", func(t *testing.T) {
		a := Default().Arena

		first, err := a.GameScenario(0)
		require.NoError(t, err)
		second, err := a.GameScenario(1)
		require.NoError(t, err)

		require.Equal(t, game.DefaultScenario(a.Seed).TileMap.String(), first.TileMap.String())
		require.Equal(t, game.DefaultScenario(a.Seed+1).TileMap.String(), second.TileMap.String())
		require.NotEqual(t, first.TileMap.String(), second.TileMap.String())
	})

	t.Run("layouts stay fixed", func(t *testing.T) {
		a := Default().Arena
		a.Layout = []string{"0.x", "..1"}

		first, err := a.GameScenario(0)
		require.NoError(t, err)
		second, err := a.GameScenario(3)
		require.NoError(t, err)

		require.Equal(t, first.TileMap.String(), second.TileMap.String())
	})
}

func TestPlannerOptions(t *testing.T) {
	t.Run("builds options", func(t *testing.T) {
		p := Default().Planner
		p.Duration = 10 * time.Millisecond
		p.Episodes = 5
		p.Seed = 3
		p.Metrics = true

		options, err := p.Options(1)

		require.NoError(t, err)
		require.Len(t, options, 8)
	})

	t.Run("rejects unknown opponents", func(t *testing.T) {
		p := Default().Planner
		p.Opponents = "chasing"

		_, err := p.Options(0)

		require.Error(t, err)
	})
}

func TestExportFormat(t *testing.T) {
	e := Default().Export
	e.Format = "parquet"

	require.Equal(t, export.FormatParquet, e.ParsedFormat())
}

func TestFiles(t *testing.T) {
	t.Run("write then read", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "config.yaml")
		c := Default()
		c.Planner.Duration = 40 * time.Millisecond
		c.Arena.Layout = []string{"0...", "...1"}
		require.NoError(t, c.WriteFile(path))

		read := Default()
		require.NoError(t, read.ReadFile(path))

		require.Equal(t, c, read)
	})

	t.Run("missing file", func(t *testing.T) {
		c := Default()

		require.Error(t, c.ReadFile(filepath.Join(t.TempDir(), "missing.yaml")))
	})

	t.Run("load searches the xdg config home", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", home)
		t.Setenv("XDG_CONFIG_DIRS", t.TempDir())
		xdg.Reload()
		t.Cleanup(xdg.Reload)

		path := filepath.Join(home, "bomberman", "config.yaml")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("arena:\n  games: 3\n"), 0o644))

		c, err := Load()

		require.NoError(t, err)
		require.Equal(t, 3, c.Arena.Games)
	})

	t.Run("load rejects an invalid file", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", home)
		t.Setenv("XDG_CONFIG_DIRS", t.TempDir())
		xdg.Reload()
		t.Cleanup(xdg.Reload)

		path := filepath.Join(home, "bomberman", "config.yaml")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("arena:\n  games: 0\n"), 0o644))

		_, err := Load()

		var invalid *InvalidConfig
		require.ErrorAs(t, err, &invalid)
	})
}
