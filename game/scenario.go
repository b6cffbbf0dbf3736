package game

import (
	"fmt"
	"slices"
	"strings"
)

const (
	ScenarioWidth  = 17
	ScenarioHeight = 11
)

// Scenario is a starting map with one start cell per player.
type Scenario struct {
	TileMap        *TileMap
	StartPositions []GridPosition
}

// NewGameState creates a game on a clone of the scenario map. create builds
// the agent for player i.
func (sc Scenario) NewGameState(create func(i int, state *GameState, p *Player) Agent) *GameState {
	state := NewGameState(sc.TileMap.Clone())
	for i, start := range sc.StartPositions {
		state.AddAgent(create(i, state, NewPlayer(state.TileMap, start)))
	}
	return state
}

// EmptyScenario is a walled arena without obstacles.
func EmptyScenario() Scenario {
	m := NewTileMap(ScenarioWidth, ScenarioHeight)
	WithBorder(m)
	return Scenario{
		TileMap:        m,
		StartPositions: []GridPosition{{Row: 5, Column: 6}, {Row: 5, Column: 15}},
	}
}

// DefaultScenario is the classic arena: pillars on even cells, random boxes
// and pickups, and room around both start cells.
func DefaultScenario(seed uint64) Scenario {
	starts := []GridPosition{{Row: 5, Column: 4}, {Row: 5, Column: 12}}
	m := NewTileMap(ScenarioWidth, ScenarioHeight)
	WithRandomFill(m, NewRand(seed))
	WithBorder(m)
	WithCheckerPattern(m)
	WithSpaceAround(m, starts...)
	return Scenario{TileMap: m, StartPositions: starts}
}

// fill probabilities of WithRandomFill, cumulative.
var fillTable = []struct {
	kind Kind
	upTo float64
}{
	{Box, 0.45},
	{Coin, 0.49},
	{BombUp, 0.52},
	{FireUp, 0.55},
	{SpeedUp, 0.57},
}

func WithRandomFill(m *TileMap, rnd *Rand) {
	for i := range m.foreground {
		r := rnd.Float64()
		for _, entry := range fillTable {
			if r < entry.upTo {
				replace(m, NewTile(entry.kind, m.position(i)))
				break
			}
		}
	}
}

func WithBorder(m *TileMap) {
	for i := range m.foreground {
		pos := m.position(i)
		if pos.Row == 0 || pos.Column == 0 || pos.Row == m.height-1 || pos.Column == m.width-1 {
			replace(m, NewWall(pos))
		}
	}
}

// WithCheckerPattern places a wall on every cell with even row and column.
func WithCheckerPattern(m *TileMap) {
	for i := range m.foreground {
		pos := m.position(i)
		if pos.Row%2 == 0 && pos.Column%2 == 0 {
			replace(m, NewWall(pos))
		}
	}
}

// WithSpaceAround clears each position and its non-wall neighbours.
func WithSpaceAround(m *TileMap, positions ...GridPosition) {
	for _, pos := range positions {
		neighbours := pos.Neighbours()
		for _, cell := range append([]GridPosition{pos}, neighbours[:]...) {
			t := m.GetTile(cell)
			if t == nil || (t.Kind == Wall && cell != pos) {
				continue
			}
			m.foreground[m.index(cell)] = nil
		}
	}
}

func replace(m *TileMap, t *Tile) {
	m.foreground[m.index(t.Position)] = t
}

var glyphKinds = func() map[byte]Kind {
	kinds := make(map[byte]Kind, len(tileGlyphs))
	for k, g := range tileGlyphs {
		kinds[g] = k
	}
	return kinds
}()

// ParseScenario builds a scenario from rows of glyphs as printed by
// TileMap.String. Digits mark start cells in player order.
func ParseScenario(rows []string) (Scenario, error) {
	rows = slices.Clone(rows)
	for r, row := range rows {
		rows[r] = strings.TrimRight(row, "\r")
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Scenario{}, fmt.Errorf("empty layout")
	}

	m := NewTileMap(len(rows[0]), len(rows))
	starts := map[int]GridPosition{}
	for r, row := range rows {
		if len(row) != m.width {
			return Scenario{}, fmt.Errorf("row %d has %d cells, expected %d", r, len(row), m.width)
		}
		for c := 0; c < len(row); c++ {
			pos := GridPosition{Row: r, Column: c}
			g := row[c]
			switch {
			case g == '.' || g == ' ':
			case g >= '0' && g <= '9':
				starts[int(g-'0')] = pos
			default:
				kind, ok := glyphKinds[g]
				if !ok {
					return Scenario{}, fmt.Errorf("unknown glyph %q at %v", g, pos)
				}
				t := NewTile(kind, pos)
				switch kind {
				case Bomb:
					t = NewBomb(pos, DefaultBombRange)
				case Explosion:
					t = NewExplosion(pos)
				}
				replace(m, t)
			}
		}
	}

	sc := Scenario{TileMap: m}
	for i := 0; i < len(starts); i++ {
		pos, ok := starts[i]
		if !ok {
			return Scenario{}, fmt.Errorf("start positions must be numbered from 0, missing %d", i)
		}
		sc.StartPositions = append(sc.StartPositions, pos)
	}
	return sc, nil
}
