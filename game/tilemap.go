package game

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrOutOfBounds  = errors.New("position out of bounds")
	ErrTileOccupied = errors.New("tile is occupied")
	ErrTileMissing  = errors.New("no tile at position")
	ErrTileMismatch = errors.New("a different tile occupies the position")
)

// TileMap is a two layer grid. The background holds one floor tile per cell,
// the foreground at most one occupant per cell. Both layers are flat row
// major slices.
type TileMap struct {
	width      int
	height     int
	background []Tile
	foreground []*Tile
}

// NewTileMap creates an empty map with width columns and height rows.
func NewTileMap(width, height int) *TileMap {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("invalid tile map size %dx%d", width, height))
	}

	background := make([]Tile, width*height)
	for i := range background {
		background[i] = Tile{Kind: Floor, Position: GridPosition{Row: i / width, Column: i % width}}
	}

	return &TileMap{
		width:      width,
		height:     height,
		background: background,
		foreground: make([]*Tile, width*height),
	}
}

func (m *TileMap) Width() int {
	return m.width
}

func (m *TileMap) Height() int {
	return m.height
}

func (m *TileMap) Contains(pos GridPosition) bool {
	return pos.Row >= 0 && pos.Row < m.height && pos.Column >= 0 && pos.Column < m.width
}

func (m *TileMap) index(pos GridPosition) int {
	return pos.Row*m.width + pos.Column
}

func (m *TileMap) position(i int) GridPosition {
	return GridPosition{Row: i / m.width, Column: i % m.width}
}

// GetTile returns the foreground occupant at pos, or nil if the cell is empty
// or out of bounds.
func (m *TileMap) GetTile(pos GridPosition) *Tile {
	if !m.Contains(pos) {
		return nil
	}
	return m.foreground[m.index(pos)]
}

// Background returns the floor tile at pos.
func (m *TileMap) Background(pos GridPosition) (Tile, error) {
	if !m.Contains(pos) {
		return Tile{}, fmt.Errorf("background at %v: %w", pos, ErrOutOfBounds)
	}
	return m.background[m.index(pos)], nil
}

func (m *TileMap) PlaceTile(t *Tile) error {
	if !m.Contains(t.Position) {
		return fmt.Errorf("place %s: %w", t, ErrOutOfBounds)
	}
	i := m.index(t.Position)
	if m.foreground[i] != nil {
		return fmt.Errorf("place %s over %s: %w", t, m.foreground[i].Kind, ErrTileOccupied)
	}
	m.foreground[i] = t
	return nil
}

// RemoveTile clears t's cell. It fails unless that cell holds exactly t.
func (m *TileMap) RemoveTile(t *Tile) error {
	if !m.Contains(t.Position) {
		return fmt.Errorf("remove %s: %w", t, ErrOutOfBounds)
	}
	i := m.index(t.Position)
	switch m.foreground[i] {
	case nil:
		return fmt.Errorf("remove %s: %w", t, ErrTileMissing)
	case t:
		m.foreground[i] = nil
		return nil
	default:
		return fmt.Errorf("remove %s: %w", t, ErrTileMismatch)
	}
}

// Solid reports whether movement into pos is blocked.
func (m *TileMap) Solid(pos GridPosition) bool {
	if !m.Contains(pos) {
		return true
	}
	t := m.foreground[m.index(pos)]
	return t != nil && !t.Enterable()
}

// Update ticks every timed occupant present at the start of the tick.
// Occupants created during the tick start counting on the next one.
func (m *TileMap) Update(dt time.Duration) {
	var timed []*Tile
	for _, t := range m.foreground {
		if t != nil && t.Updatable() {
			timed = append(timed, t)
		}
	}

	for _, t := range timed {
		// Chain reactions may have consumed the tile earlier in this tick.
		if m.foreground[m.index(t.Position)] != t || t.Detonated {
			continue
		}
		t.Update(m, dt)
	}
}

// Tiles returns every foreground occupant in row major order.
func (m *TileMap) Tiles() []*Tile {
	tiles := make([]*Tile, 0, len(m.foreground))
	for _, t := range m.foreground {
		if t != nil {
			tiles = append(tiles, t)
		}
	}
	return tiles
}

// Clone returns a deep copy: every occupant is copied into a new tile.
func (m *TileMap) Clone() *TileMap {
	background := make([]Tile, len(m.background))
	copy(background, m.background)

	foreground := make([]*Tile, len(m.foreground))
	occupants := make([]Tile, 0, len(m.foreground))
	for i, t := range m.foreground {
		if t == nil {
			continue
		}
		occupants = append(occupants, *t)
		foreground[i] = &occupants[len(occupants)-1]
	}

	return &TileMap{
		width:      m.width,
		height:     m.height,
		background: background,
		foreground: foreground,
	}
}

var tileGlyphs = map[Kind]byte{
	Wall:      '#',
	Box:       'x',
	Bomb:      'o',
	Explosion: '*',
	BombUp:    'b',
	FireUp:    'f',
	SpeedUp:   's',
	Coin:      'c',
	Lava:      '~',
}

// Glyph returns the ASCII character used for kind in String.
func Glyph(kind Kind) byte {
	if g, ok := tileGlyphs[kind]; ok {
		return g
	}
	return '.'
}

func (m *TileMap) String() string {
	var b strings.Builder
	b.Grow((m.width + 1) * m.height)
	for i, t := range m.foreground {
		if t == nil {
			b.WriteByte('.')
		} else {
			b.WriteByte(Glyph(t.Kind))
		}
		if (i+1)%m.width == 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
