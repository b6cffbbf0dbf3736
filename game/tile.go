package game

import (
	"fmt"
	"time"
)

const (
	DetonateAfter     = 3 * time.Second
	ExplosionDuration = 250 * time.Millisecond
)

type Kind int

const (
	Floor Kind = iota
	Wall
	Box
	Bomb
	Explosion
	BombUp
	FireUp
	SpeedUp
	Coin
	Lava
)

var kindNames = [...]string{
	Floor:     "floor",
	Wall:      "wall",
	Box:       "box",
	Bomb:      "bomb",
	Explosion: "explosion",
	BombUp:    "bomb-up",
	FireUp:    "fire-up",
	SpeedUp:   "speed-up",
	Coin:      "coin",
	Lava:      "lava",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// capabilities is the dispatch table entry of a tile kind.
type capabilities struct {
	enterable    bool // not solid, reacts when a player stands on it
	timed        bool // owns a countdown ticked by TileMap.Update
	destructible bool // absorbs one blast and becomes an explosion
	lethal       bool // kills players standing on it
}

var capabilityTable = [...]capabilities{
	Floor:     {},
	Wall:      {},
	Box:       {destructible: true},
	Bomb:      {timed: true},
	Explosion: {enterable: true, timed: true, lethal: true},
	BombUp:    {enterable: true, destructible: true},
	FireUp:    {enterable: true, destructible: true},
	SpeedUp:   {enterable: true, destructible: true},
	Coin:      {enterable: true, destructible: true},
	Lava:      {enterable: true, lethal: true},
}

// Tile is a single cell occupant. Tiles are plain values so that cloning a
// TileMap is a copy of each occupant; behaviour that needs the surrounding
// map receives it as an argument instead of holding a reference.
type Tile struct {
	Kind     Kind
	Position GridPosition

	// Remaining is the countdown of timed tiles (bombs and explosions).
	Remaining time.Duration
	// Range is the blast range of a bomb.
	Range int
	// Detonated is set once a bomb has exploded.
	Detonated bool
}

func NewTile(kind Kind, pos GridPosition) *Tile {
	return &Tile{Kind: kind, Position: pos}
}

func NewWall(pos GridPosition) *Tile {
	return NewTile(Wall, pos)
}

func NewBox(pos GridPosition) *Tile {
	return NewTile(Box, pos)
}

func NewBomb(pos GridPosition, blastRange int) *Tile {
	return &Tile{Kind: Bomb, Position: pos, Remaining: DetonateAfter, Range: blastRange}
}

func NewExplosion(pos GridPosition) *Tile {
	return NewExplosionFor(pos, ExplosionDuration)
}

func NewExplosionFor(pos GridPosition, duration time.Duration) *Tile {
	return &Tile{Kind: Explosion, Position: pos, Remaining: duration}
}

func (t *Tile) Enterable() bool {
	return capabilityTable[t.Kind].enterable
}

func (t *Tile) Updatable() bool {
	return capabilityTable[t.Kind].timed
}

func (t *Tile) Destructible() bool {
	return capabilityTable[t.Kind].destructible
}

func (t *Tile) Lethal() bool {
	return capabilityTable[t.Kind].lethal
}

// PowerUp reports whether the tile is a one-shot pickup.
func (t *Tile) PowerUp() bool {
	switch t.Kind {
	case BombUp, FireUp, SpeedUp, Coin:
		return true
	}
	return false
}

func (t *Tile) String() string {
	return fmt.Sprintf("%s%s", t.Kind, t.Position)
}

// OnEntered applies the tile's effect to a player standing on it.
func (t *Tile) OnEntered(m *TileMap, p *Player) {
	if !p.Alive() {
		return
	}

	switch t.Kind {
	case Explosion, Lava:
		p.Damage()
		return
	case BombUp:
		p.MaxPlacedBombs = min(MaxPlacedBombsCap, p.MaxPlacedBombs+1)
	case FireUp:
		p.BombRange = min(MaxBombRange, p.BombRange+1)
	case SpeedUp:
		p.Speed = min(MaxSpeed, p.Speed+0.5)
		p.Score += 100
	case Coin:
		p.Score += 10
	default:
		return
	}

	if err := m.RemoveTile(t); err != nil {
		panic(fmt.Sprintf("picking up %s: %v", t, err))
	}
}

// Update advances the tile's countdown by dt.
func (t *Tile) Update(m *TileMap, dt time.Duration) {
	switch t.Kind {
	case Bomb:
		if t.Detonated {
			return
		}
		t.Remaining -= dt
		if t.Remaining <= 0 {
			t.Detonate(m)
		}
	case Explosion:
		t.Remaining -= dt
		if t.Remaining <= 0 {
			if err := m.RemoveTile(t); err != nil {
				panic(fmt.Sprintf("expiring %s: %v", t, err))
			}
		}
	}
}

// Detonate explodes a bomb: it replaces itself with an explosion and spreads
// a cross shaped blast of t.Range cells, chaining into other bombs.
func (t *Tile) Detonate(m *TileMap) {
	if t.Kind != Bomb {
		panic(fmt.Sprintf("cannot detonate %s", t))
	}
	if t.Detonated {
		return
	}
	t.Detonated = true

	mustRemove(m, t)
	mustPlace(m, NewExplosion(t.Position))

	for _, d := range Directions {
		pos := t.Position
		for i, n := 0, t.Range; i < n; i++ {
			pos = pos.Add(d.Offset())
			if !m.Contains(pos) {
				break
			}

			occupant := m.GetTile(pos)
			if occupant == nil {
				mustPlace(m, NewExplosion(pos))
				continue
			}

			switch {
			case occupant.Kind == Bomb:
				occupant.Detonate(m)
			case occupant.Destructible():
				mustRemove(m, occupant)
				mustPlace(m, NewExplosion(pos))
			}
			// Walls, explosions and lava stop the blast as well.
			break
		}
	}
}

// BlastCells returns the cells a bomb at pos with the given range would
// cover if it detonated on the current map, its own cell included.
func BlastCells(m *TileMap, pos GridPosition, blastRange int) []GridPosition {
	cells := []GridPosition{pos}
	for _, d := range Directions {
		cur := pos
		for i := 0; i < blastRange; i++ {
			cur = cur.Add(d.Offset())
			if !m.Contains(cur) {
				break
			}
			occupant := m.GetTile(cur)
			if occupant == nil {
				cells = append(cells, cur)
				continue
			}
			if occupant.Kind == Bomb || occupant.Destructible() {
				cells = append(cells, cur)
			}
			break
		}
	}
	return cells
}

func mustPlace(m *TileMap, t *Tile) {
	if err := m.PlaceTile(t); err != nil {
		panic(fmt.Sprintf("blast: %v", err))
	}
}

func mustRemove(m *TileMap, t *Tile) {
	if err := m.RemoveTile(t); err != nil {
		panic(fmt.Sprintf("blast: %v", err))
	}
}
