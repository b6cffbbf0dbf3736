package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, rows ...string) *TileMap {
	t.Helper()
	sc, err := ParseScenario(rows)
	require.NoError(t, err)
	return sc.TileMap
}

func wallColumnMap(t *testing.T, withGap bool) *TileMap {
	rows := []string{"..#..", "..#..", "..#..", "..#..", "..#.."}
	if withGap {
		rows[4] = "....."
	}
	return mustParse(t, rows...)
}

func TestShortestDistance(t *testing.T) {
	t.Run("open map distances", func(t *testing.T) {
		m := NewTileMap(5, 5)
		origin := GridPosition{}

		require.Equal(t, 1.0, ShortestDistance(m, origin, GridPosition{Row: 0, Column: 1}, DefaultSpeed))
		require.Equal(t, 1.0, ShortestDistance(m, origin, GridPosition{Row: 1, Column: 0}, DefaultSpeed))
		require.Equal(t, 0.0, ShortestDistance(m, origin, origin, DefaultSpeed))
		require.Equal(t, 8.0, ShortestDistance(m, origin, GridPosition{Row: 4, Column: 4}, DefaultSpeed))
	})

	t.Run("open map distance equals manhattan distance", func(t *testing.T) {
		m := NewTileMap(4, 3)
		for i := range m.foreground {
			for j := range m.foreground {
				a, b := m.position(i), m.position(j)
				require.Equal(t, float64(a.ManhattanDistance(b)), ShortestDistance(m, a, b, DefaultSpeed),
					"distance from %v to %v", a, b)
			}
		}
	})

	t.Run("full wall column is unreachable", func(t *testing.T) {
		m := wallColumnMap(t, false)

		got := ShortestDistance(m, GridPosition{}, GridPosition{Row: 4, Column: 4}, DefaultSpeed)

		require.Equal(t, -1.0, got)
	})

	t.Run("wall column with a gap routes around", func(t *testing.T) {
		m := wallColumnMap(t, true)

		got := ShortestDistance(m, GridPosition{}, GridPosition{Row: 0, Column: 4}, DefaultSpeed)

		require.Equal(t, 12.0, got)
	})

	t.Run("bombs and explosions in the gap cost one step", func(t *testing.T) {
		gap := GridPosition{Row: 4, Column: 2}
		for _, tile := range []*Tile{NewBomb(gap, 1), NewExplosion(gap)} {
			m := wallColumnMap(t, true)
			require.NoError(t, m.PlaceTile(tile))

			got := ShortestDistance(m, GridPosition{}, GridPosition{Row: 0, Column: 4}, DefaultSpeed)

			require.Equal(t, 12.0, got, "gap holds %s", tile.Kind)
		}
	})

	t.Run("boxes cost the time to blow them up", func(t *testing.T) {
		m := mustParse(t, ".x.")

		got := ShortestDistance(m, GridPosition{}, GridPosition{Row: 0, Column: 2}, DefaultSpeed)

		require.InDelta(t, 2+BoxPenalty(DefaultSpeed), got, 1e-9)
		require.InDelta(t, 11.75, got, 1e-9)
	})

	t.Run("out of bounds endpoints are unreachable", func(t *testing.T) {
		m := NewTileMap(3, 3)

		require.Equal(t, -1.0, ShortestDistance(m, GridPosition{Row: -1}, GridPosition{}, DefaultSpeed))
		require.Equal(t, -1.0, ShortestDistance(m, GridPosition{}, GridPosition{Row: 3}, DefaultSpeed))
	})
}

func TestShortestPath(t *testing.T) {
	t.Run("routes through the gap in the last row", func(t *testing.T) {
		m := wallColumnMap(t, true)
		start, finish := GridPosition{}, GridPosition{Row: 0, Column: 4}

		path := ShortestPath(m, start, finish, DefaultSpeed)

		require.Len(t, path, 13)
		require.Equal(t, start, path[0])
		require.Equal(t, finish, path[len(path)-1])
		require.Contains(t, path, GridPosition{Row: 4, Column: 2})
		for i := 1; i < len(path); i++ {
			require.Equal(t, 1, path[i-1].ManhattanDistance(path[i]), "path must be contiguous")
		}
	})

	t.Run("start equals finish is a single cell path", func(t *testing.T) {
		m := NewTileMap(3, 3)
		pos := GridPosition{Row: 1, Column: 1}

		require.Equal(t, []GridPosition{pos}, ShortestPath(m, pos, pos, DefaultSpeed))
	})

	t.Run("no path iff no distance", func(t *testing.T) {
		maps := []*TileMap{
			NewTileMap(4, 4),
			wallColumnMap(t, false),
			wallColumnMap(t, true),
			mustParse(t, ".x#.", "##..", "o.*."),
		}
		for _, m := range maps {
			for i := range m.foreground {
				for j := range m.foreground {
					a, b := m.position(i), m.position(j)
					path := ShortestPath(m, a, b, DefaultSpeed)
					distance := ShortestDistance(m, a, b, DefaultSpeed)
					require.Equal(t, distance == -1, path == nil, "from %v to %v on\n%s", a, b, m)
				}
			}
		}
	})

	t.Run("repeated queries return the same path", func(t *testing.T) {
		m := mustParse(t, ".....", ".#.#.", ".....", ".#x#.", ".....")
		start, finish := GridPosition{}, GridPosition{Row: 4, Column: 4}

		first := ShortestPath(m, start, finish, DefaultSpeed)
		second := ShortestPath(m, start, finish, DefaultSpeed)

		require.NotNil(t, first)
		require.Equal(t, first, second)
	})
}

func TestMaxShortestDistance(t *testing.T) {
	t.Run("open map", func(t *testing.T) {
		require.Equal(t, 8.0, MaxShortestDistance(NewTileMap(5, 5), DefaultSpeed))
	})

	t.Run("full wall column", func(t *testing.T) {
		require.Equal(t, 5.0, MaxShortestDistance(wallColumnMap(t, false), DefaultSpeed))
	})

	t.Run("wall column with a gap", func(t *testing.T) {
		require.Equal(t, 12.0, MaxShortestDistance(wallColumnMap(t, true), DefaultSpeed))
	})

	t.Run("l shaped wall", func(t *testing.T) {
		m := mustParse(t,
			".....",
			".###.",
			"...#.",
			"...#.",
			"...#.",
		)

		require.Equal(t, 14.0, MaxShortestDistance(m, DefaultSpeed))
	})

	t.Run("only walls", func(t *testing.T) {
		require.Equal(t, -1.0, MaxShortestDistance(mustParse(t, "##", "##"), DefaultSpeed))
	})
}
