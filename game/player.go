package game

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultSpeed          = 3.0 // tiles per second
	DefaultBombRange      = 1
	DefaultMaxPlacedBombs = 1

	MaxSpeed          = 4.0
	MaxBombRange      = 4
	MaxPlacedBombsCap = 3
)

var (
	ErrBombCapacity = errors.New("all bombs are placed")
	ErrCellOccupied = errors.New("cell is occupied")
	ErrPlayerDead   = errors.New("player is dead")
)

type Statistics struct {
	DistanceMoved float64 // in tiles
	BombsPlaced   int
}

// Player is a continuous position actor living on a TileMap.
type Player struct {
	tileMap   *TileMap
	position  Vector
	direction Direction
	alive     bool
	bombs     []*Tile

	Speed          float64
	BombRange      int
	MaxPlacedBombs int
	Score          int
	Statistics     Statistics
}

func NewPlayer(m *TileMap, start GridPosition) *Player {
	return &Player{
		tileMap:        m,
		position:       start.Vector(),
		alive:          true,
		Speed:          DefaultSpeed,
		BombRange:      DefaultBombRange,
		MaxPlacedBombs: DefaultMaxPlacedBombs,
	}
}

func (p *Player) TileMap() *TileMap {
	return p.tileMap
}

func (p *Player) Position() Vector {
	return p.position
}

func (p *Player) SetPosition(v Vector) {
	p.position = v
}

func (p *Player) GridPosition() GridPosition {
	return p.position.GridPosition()
}

func (p *Player) Direction() Direction {
	return p.direction
}

func (p *Player) SetMovingDirection(d Direction) {
	p.direction = d
}

func (p *Player) Alive() bool {
	return p.alive
}

// Damage kills the player. Death is permanent.
func (p *Player) Damage() {
	p.alive = false
	p.direction = None
}

// TileTime is the time needed to walk across one tile.
func (p *Player) TileTime() time.Duration {
	return time.Duration(float64(time.Second) / p.Speed)
}

// ActiveBombs returns the player's bombs that have not exploded yet.
func (p *Player) ActiveBombs() []*Tile {
	p.pruneBombs()
	return p.bombs
}

func (p *Player) pruneBombs() {
	active := p.bombs[:0]
	for _, b := range p.bombs {
		if !b.Detonated {
			active = append(active, b)
		}
	}
	clear(p.bombs[len(active):])
	p.bombs = active
}

func (p *Player) CanPlaceBomb() bool {
	if !p.alive {
		return false
	}
	p.pruneBombs()
	return len(p.bombs) < p.MaxPlacedBombs
}

// PlaceBomb places a bomb on the player's cell.
func (p *Player) PlaceBomb() error {
	if !p.alive {
		return ErrPlayerDead
	}
	p.pruneBombs()
	if len(p.bombs) >= p.MaxPlacedBombs {
		return ErrBombCapacity
	}

	pos := p.GridPosition()
	if p.tileMap.GetTile(pos) != nil {
		return fmt.Errorf("bomb at %v: %w", pos, ErrCellOccupied)
	}

	bomb := NewBomb(pos, p.BombRange)
	if err := p.tileMap.PlaceTile(bomb); err != nil {
		return fmt.Errorf("bomb at %v: %w", pos, err)
	}
	p.bombs = append(p.bombs, bomb)
	p.Statistics.BombsPlaced++
	return nil
}

// Clone copies the player onto m, which must be a clone of the player's map.
// Active bombs are re-bound to their copies on m.
func (p *Player) Clone(m *TileMap) *Player {
	c := *p
	c.tileMap = m
	c.bombs = make([]*Tile, 0, len(p.bombs))
	for _, b := range p.bombs {
		if b.Detonated {
			continue
		}
		if t := m.GetTile(b.Position); t != nil && t.Kind == Bomb {
			c.bombs = append(c.bombs, t)
		}
	}
	return &c
}
