package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBombDetonation(t *testing.T) {
	t.Run("blast stops at walls and first boxes and chains bombs", func(t *testing.T) {
		m := mustParse(t,
			".......",
			"...#...",
			".......",
			"...oxx.",
			".......",
			"...o...",
			".......",
		)
		center := m.GetTile(GridPosition{Row: 3, Column: 3})
		center.Range = 2
		chained := m.GetTile(GridPosition{Row: 5, Column: 3})
		chained.Remaining = time.Hour

		m.Update(DetonateAfter)

		require.True(t, center.Detonated)
		require.True(t, chained.Detonated)
		require.Equal(t, ""+
			".......\n"+
			"...#...\n"+
			"...*...\n"+
			".****x.\n"+
			"...*...\n"+
			"..***..\n"+
			"...*...\n", m.String())
	})

	t.Run("blast never passes a wall", func(t *testing.T) {
		m := mustParse(t, "o#..")
		m.GetTile(GridPosition{}).Range = 3

		m.GetTile(GridPosition{}).Detonate(m)

		require.Equal(t, "*#..\n", m.String())
	})

	t.Run("power ups are destroyed like boxes", func(t *testing.T) {
		m := mustParse(t, "ob.")
		m.GetTile(GridPosition{}).Range = 2

		m.GetTile(GridPosition{}).Detonate(m)

		require.Equal(t, "**.\n", m.String())
	})

	t.Run("explosions and lava stop the blast", func(t *testing.T) {
		m := mustParse(t, "o~.", "*..", "...")
		m.GetTile(GridPosition{}).Range = 2

		m.GetTile(GridPosition{}).Detonate(m)

		require.Equal(t, "*~.\n*..\n...\n", m.String())
	})

	t.Run("bomb waits for its timer", func(t *testing.T) {
		m := mustParse(t, "o")

		m.Update(DetonateAfter - time.Millisecond)
		require.Equal(t, "o\n", m.String())

		m.Update(time.Millisecond)
		require.Equal(t, "*\n", m.String())
	})
}

func TestExplosion(t *testing.T) {
	t.Run("explosion expires after its duration", func(t *testing.T) {
		m := NewTileMap(1, 1)
		require.NoError(t, m.PlaceTile(NewExplosion(GridPosition{})))

		m.Update(ExplosionDuration / 2)
		require.NotNil(t, m.GetTile(GridPosition{}))

		m.Update(ExplosionDuration / 2)
		require.Nil(t, m.GetTile(GridPosition{}))
	})

	t.Run("explosion created this tick is not aged in the same tick", func(t *testing.T) {
		m := mustParse(t, "o.")

		m.Update(DetonateAfter)

		require.Equal(t, ExplosionDuration, m.GetTile(GridPosition{Column: 1}).Remaining)
	})

	t.Run("entering an explosion kills", func(t *testing.T) {
		m := NewTileMap(2, 1)
		explosion := NewExplosion(GridPosition{})
		require.NoError(t, m.PlaceTile(explosion))
		p := NewPlayer(m, GridPosition{})

		explosion.OnEntered(m, p)

		require.False(t, p.Alive())
		require.Same(t, explosion, m.GetTile(GridPosition{}), "explosions stay after hitting a player")
	})
}

func TestPowerUps(t *testing.T) {
	pos := GridPosition{}
	cases := []struct {
		kind  Kind
		check func(t *testing.T, p *Player)
	}{
		{BombUp, func(t *testing.T, p *Player) { require.Equal(t, DefaultMaxPlacedBombs+1, p.MaxPlacedBombs) }},
		{FireUp, func(t *testing.T, p *Player) { require.Equal(t, DefaultBombRange+1, p.BombRange) }},
		{SpeedUp, func(t *testing.T, p *Player) {
			require.Equal(t, DefaultSpeed+0.5, p.Speed)
			require.Equal(t, 100, p.Score)
		}},
		{Coin, func(t *testing.T, p *Player) { require.Equal(t, 10, p.Score) }},
	}

	for _, c := range cases {
		t.Run(c.kind.String(), func(t *testing.T) {
			m := NewTileMap(1, 1)
			tile := NewTile(c.kind, pos)
			require.NoError(t, m.PlaceTile(tile))
			p := NewPlayer(m, pos)

			tile.OnEntered(m, p)

			c.check(t, p)
			require.Nil(t, m.GetTile(pos), "pickups are one-shot")
			require.True(t, p.Alive())
		})
	}

	t.Run("stats are capped", func(t *testing.T) {
		m := NewTileMap(1, 1)
		p := NewPlayer(m, pos)
		for i := 0; i < 10; i++ {
			for _, kind := range []Kind{BombUp, FireUp, SpeedUp} {
				tile := NewTile(kind, pos)
				require.NoError(t, m.PlaceTile(tile))
				tile.OnEntered(m, p)
			}
		}

		require.Equal(t, MaxPlacedBombsCap, p.MaxPlacedBombs)
		require.Equal(t, MaxBombRange, p.BombRange)
		require.Equal(t, MaxSpeed, p.Speed)
	})
}

func TestBlastCells(t *testing.T) {
	m := mustParse(t, "#...", "x.o.", "....")

	cells := BlastCells(m, GridPosition{Row: 1, Column: 1}, 2)

	require.ElementsMatch(t, []GridPosition{
		{Row: 1, Column: 1},
		{Row: 2, Column: 1},
		{Row: 0, Column: 1},
		{Row: 1, Column: 0},
		{Row: 1, Column: 2},
	}, cells)
}
