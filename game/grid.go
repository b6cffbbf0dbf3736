package game

import (
	"fmt"
	"math"
)

// TileSize is the edge length of one grid cell in continuous (pixel) units.
const TileSize = 32.0

// cellEpsilon absorbs floating point drift when converting continuous
// coordinates back to cell indices.
const cellEpsilon = 1e-6

// GridPosition is a cell coordinate on a TileMap.
type GridPosition struct {
	Row    int
	Column int
}

func (p GridPosition) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Column)
}

// Vector returns the continuous coordinate of the cell's top left corner.
func (p GridPosition) Vector() Vector {
	return Vector{X: float64(p.Column) * TileSize, Y: float64(p.Row) * TileSize}
}

func (p GridPosition) Add(o GridPosition) GridPosition {
	return GridPosition{Row: p.Row + o.Row, Column: p.Column + o.Column}
}

// Neighbours returns the four adjacent cells in a fixed order: down, up, left, right.
func (p GridPosition) Neighbours() [4]GridPosition {
	return [4]GridPosition{
		{Row: p.Row + 1, Column: p.Column},
		{Row: p.Row - 1, Column: p.Column},
		{Row: p.Row, Column: p.Column - 1},
		{Row: p.Row, Column: p.Column + 1},
	}
}

func (p GridPosition) ManhattanDistance(o GridPosition) int {
	return abs(p.Row-o.Row) + abs(p.Column-o.Column)
}

// Near reports whether v lies within threshold (continuous units) of the cell on both axes.
func (p GridPosition) Near(v Vector, threshold float64) bool {
	target := p.Vector()
	return math.Abs(v.X-target.X) < threshold && math.Abs(v.Y-target.Y) < threshold
}

// Vector is a continuous position in pixel units.
type Vector struct {
	X float64
	Y float64
}

// GridPosition rounds v to the nearest cell.
func (v Vector) GridPosition() GridPosition {
	return GridPosition{
		Row:    int(math.Round(v.Y / TileSize)),
		Column: int(math.Round(v.X / TileSize)),
	}
}

func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector) Scale(f float64) Vector {
	return Vector{X: v.X * f, Y: v.Y * f}
}

// Direction is a movement direction along one grid axis.
type Direction int

const (
	None Direction = iota
	Up
	Down
	Left
	Right
)

// Directions lists the four movement directions in neighbour order.
var Directions = [4]Direction{Down, Up, Left, Right}

func (d Direction) Offset() GridPosition {
	switch d {
	case Up:
		return GridPosition{Row: -1}
	case Down:
		return GridPosition{Row: 1}
	case Left:
		return GridPosition{Column: -1}
	case Right:
		return GridPosition{Column: 1}
	default:
		return GridPosition{}
	}
}

// Unit returns the unit velocity vector of the direction.
func (d Direction) Unit() Vector {
	o := d.Offset()
	return Vector{X: float64(o.Column), Y: float64(o.Row)}
}

func (d Direction) Horizontal() bool {
	return d == Left || d == Right
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

func floorCell(v float64) int {
	return int(math.Floor(v/TileSize + cellEpsilon))
}

func ceilCell(v float64) int {
	return int(math.Ceil(v/TileSize - cellEpsilon))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
