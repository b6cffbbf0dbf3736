package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPlaceBomb(t *testing.T) {
	t.Run("places a bomb with the player's range", func(t *testing.T) {
		m := NewTileMap(3, 3)
		pos := GridPosition{Row: 1, Column: 1}
		p := NewPlayer(m, pos)
		p.BombRange = 3

		require.NoError(t, p.PlaceBomb())

		bomb := m.GetTile(pos)
		require.Equal(t, Bomb, bomb.Kind)
		require.Equal(t, 3, bomb.Range)
		require.Equal(t, []*Tile{bomb}, p.ActiveBombs())
		require.Equal(t, 1, p.Statistics.BombsPlaced)
	})

	t.Run("refuses at capacity without mutation", func(t *testing.T) {
		m := NewTileMap(3, 1)
		p := NewPlayer(m, GridPosition{})
		require.NoError(t, p.PlaceBomb())
		p.SetPosition(GridPosition{Column: 2}.Vector())

		err := p.PlaceBomb()

		require.ErrorIs(t, err, ErrBombCapacity)
		require.Nil(t, m.GetTile(GridPosition{Column: 2}))
		require.False(t, p.CanPlaceBomb())
	})

	t.Run("refuses on an occupied cell", func(t *testing.T) {
		m := mustParse(t, "c")
		p := NewPlayer(m, GridPosition{})

		require.ErrorIs(t, p.PlaceBomb(), ErrCellOccupied)
		require.Empty(t, p.ActiveBombs())
	})

	t.Run("dead players cannot place bombs", func(t *testing.T) {
		p := NewPlayer(NewTileMap(1, 1), GridPosition{})
		p.Damage()

		require.ErrorIs(t, p.PlaceBomb(), ErrPlayerDead)
		require.False(t, p.CanPlaceBomb())
	})

	t.Run("detonated bombs free capacity lazily", func(t *testing.T) {
		m := NewTileMap(5, 1)
		p := NewPlayer(m, GridPosition{})
		require.NoError(t, p.PlaceBomb())
		require.False(t, p.CanPlaceBomb())

		m.Update(DetonateAfter)
		m.Update(ExplosionDuration)

		require.True(t, p.CanPlaceBomb())
		require.Empty(t, p.ActiveBombs())
		require.NoError(t, p.PlaceBomb())
	})
}

func TestPlayerClone(t *testing.T) {
	m := NewTileMap(4, 1)
	p := NewPlayer(m, GridPosition{})
	p.MaxPlacedBombs = 2
	require.NoError(t, p.PlaceBomb())
	p.SetPosition(GridPosition{Column: 3}.Vector())
	p.SetMovingDirection(Left)

	cm := m.Clone()
	c := p.Clone(cm)

	require.Same(t, cm, c.TileMap())
	require.Len(t, c.ActiveBombs(), 1)
	require.Same(t, cm.GetTile(GridPosition{}), c.ActiveBombs()[0])
	require.NotSame(t, p.ActiveBombs()[0], c.ActiveBombs()[0])

	c.Update(100 * time.Millisecond)
	require.NoError(t, c.PlaceBomb())

	require.Equal(t, GridPosition{Column: 3}.Vector(), p.Position())
	require.Len(t, p.ActiveBombs(), 1)
	require.Equal(t, 1, p.Statistics.BombsPlaced)
	require.Equal(t, 2, c.Statistics.BombsPlaced)
}

func TestTileTime(t *testing.T) {
	p := NewPlayer(NewTileMap(1, 1), GridPosition{})
	p.Speed = 4

	require.Equal(t, 250*time.Millisecond, p.TileTime())
}
