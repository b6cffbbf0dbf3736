package game

import (
	"math"
	"time"
)

// Snap windows on the axis perpendicular to motion, in continuous units.
const (
	snapHorizontally = 0.25 * TileSize
	snapVertically   = 0.3 * TileSize
)

// Update moves the player for dt and applies the effect of the tile under it.
func (p *Player) Update(dt time.Duration) {
	if !p.alive {
		return
	}

	if p.direction != None && dt > 0 {
		p.move(dt)
	}

	if t := p.tileMap.GetTile(p.GridPosition()); t != nil && t.Enterable() {
		t.OnEntered(p.tileMap, p)
	}
}

func (p *Player) move(dt time.Duration) {
	p.position = p.snap(p.position)

	want := p.Speed * TileSize * dt.Seconds()
	travel := Raycast(p.tileMap, p.position, p.direction, want)
	if travel <= 0 {
		return
	}

	p.position = p.position.Add(p.direction.Unit().Scale(travel))
	p.Statistics.DistanceMoved += travel / TileSize
}

// snap aligns the coordinate perpendicular to the motion with the grid when it
// is close enough, so players slide into corridors.
func (p *Player) snap(v Vector) Vector {
	if p.direction.Horizontal() {
		v.Y = snapAxis(v.Y, snapHorizontally)
	} else {
		v.X = snapAxis(v.X, snapVertically)
	}
	return v
}

func snapAxis(coordinate, window float64) float64 {
	nearest := math.Round(coordinate/TileSize) * TileSize
	if math.Abs(coordinate-nearest) < window {
		return nearest
	}
	return coordinate
}

// Raycast returns how far (up to distance) a tile sized body at position can
// travel in direction before touching a solid cell. Out of bounds cells are solid.
func Raycast(m *TileMap, position Vector, direction Direction, distance float64) float64 {
	if direction == None || distance <= 0 {
		return 0
	}

	var lanes [2]int
	var first int
	var gap func(cell int) float64
	var cellAt func(cell, lane int) GridPosition

	switch direction {
	case Right:
		lanes = [2]int{floorCell(position.Y), ceilCell(position.Y)}
		first = ceilCell(position.X) + 1
		gap = func(c int) float64 { return float64(c)*TileSize - (position.X + TileSize) }
	case Left:
		lanes = [2]int{floorCell(position.Y), ceilCell(position.Y)}
		first = floorCell(position.X) - 1
		gap = func(c int) float64 { return position.X - float64(c+1)*TileSize }
	case Down:
		lanes = [2]int{floorCell(position.X), ceilCell(position.X)}
		first = ceilCell(position.Y) + 1
		gap = func(r int) float64 { return float64(r)*TileSize - (position.Y + TileSize) }
	case Up:
		lanes = [2]int{floorCell(position.X), ceilCell(position.X)}
		first = floorCell(position.Y) - 1
		gap = func(r int) float64 { return position.Y - float64(r+1)*TileSize }
	}

	if direction.Horizontal() {
		cellAt = func(c, lane int) GridPosition { return GridPosition{Row: lane, Column: c} }
	} else {
		cellAt = func(r, lane int) GridPosition { return GridPosition{Row: r, Column: lane} }
	}

	step := 1
	if direction == Left || direction == Up {
		step = -1
	}

	for cell := first; ; cell += step {
		g := max(gap(cell), 0)
		if g >= distance {
			return distance
		}
		if m.Solid(cellAt(cell, lanes[0])) || m.Solid(cellAt(cell, lanes[1])) {
			return g
		}
	}
}
