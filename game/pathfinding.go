package game

import (
	"math"

	"github.com/zyedidia/generic/heap"
)

// BoxPenalty is the extra cost of a box cell: the distance a player walking
// at speed covers while a bomb removes the box.
func BoxPenalty(speed float64) float64 {
	return (DetonateAfter + ExplosionDuration).Seconds() * speed
}

type queued struct {
	cell int
	cost float64
	seq  int
}

type costField struct {
	m      *TileMap
	cost   []float64
	parent []int
}

// dijkstra computes weighted walking costs from start. When finish is a valid
// cell index the search stops as soon as it is settled.
func dijkstra(m *TileMap, start GridPosition, speed float64, finish int) *costField {
	n := m.width * m.height
	f := &costField{m: m, cost: make([]float64, n), parent: make([]int, n)}
	for i := range f.cost {
		f.cost[i] = math.Inf(1)
		f.parent[i] = -1
	}

	penalty := BoxPenalty(speed)
	src := m.index(start)
	f.cost[src] = 0

	// Ties are popped in insertion order so repeated queries are identical.
	pq := heap.New[queued](func(a, b queued) bool {
		if a.cost != b.cost {
			return a.cost < b.cost
		}
		return a.seq < b.seq
	})
	seq := 0
	pq.Push(queued{cell: src, cost: 0, seq: seq})

	for pq.Size() > 0 {
		cur, _ := pq.Pop()
		if cur.cost > f.cost[cur.cell] {
			continue // stale entry
		}
		if cur.cell == finish {
			break
		}

		for _, next := range m.position(cur.cell).Neighbours() {
			if !m.Contains(next) {
				continue
			}
			step := 1.0
			if t := m.foreground[m.index(next)]; t != nil {
				switch t.Kind {
				case Wall:
					continue
				case Box:
					step += penalty
				}
			}

			i := m.index(next)
			cost := cur.cost + step
			if cost >= f.cost[i] {
				continue
			}
			f.cost[i] = cost
			f.parent[i] = cur.cell
			seq++
			pq.Push(queued{cell: i, cost: cost, seq: seq})
		}
	}

	return f
}

// ShortestDistance returns the weighted walking distance between two cells,
// or -1 if finish cannot be reached.
func ShortestDistance(m *TileMap, start, finish GridPosition, speed float64) float64 {
	if !m.Contains(start) || !m.Contains(finish) {
		return -1
	}
	target := m.index(finish)
	f := dijkstra(m, start, speed, target)
	if math.IsInf(f.cost[target], 1) {
		return -1
	}
	return f.cost[target]
}

// ShortestPath returns the cells from start to finish, both included, or nil
// if finish cannot be reached.
func ShortestPath(m *TileMap, start, finish GridPosition, speed float64) []GridPosition {
	if !m.Contains(start) || !m.Contains(finish) {
		return nil
	}
	if start == finish {
		return []GridPosition{start}
	}

	target := m.index(finish)
	f := dijkstra(m, start, speed, target)
	if f.parent[target] < 0 {
		return nil
	}

	var path []GridPosition
	for cell := target; cell >= 0; cell = f.parent[cell] {
		path = append(path, m.position(cell))
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// MaxShortestDistance estimates the weighted diameter of the map: the farthest
// cell from the first non-wall cell is found, then the farthest distance from
// that cell is returned. It returns -1 when the map has no non-wall cell.
func MaxShortestDistance(m *TileMap, speed float64) float64 {
	start := -1
	for i, t := range m.foreground {
		if t == nil || t.Kind != Wall {
			start = i
			break
		}
	}
	if start < 0 {
		return -1
	}

	_, far := dijkstra(m, m.position(start), speed, -1).farthest()
	diameter, _ := dijkstra(m, m.position(far), speed, -1).farthest()
	return diameter
}

func (f *costField) farthest() (float64, int) {
	best, at := -1.0, -1
	for i, c := range f.cost {
		if math.IsInf(c, 1) {
			continue
		}
		if c > best {
			best, at = c, i
		}
	}
	return best, at
}
