package searcher

import "math"

// uct scores node i for selection by its parent.
func (t *Tree) uct(i int) float64 {
	n := &t.nodes[i]
	if n.parent < 0 {
		panic("cannot compute UCT of the root node")
	}

	parentVisits := t.nodes[n.parent].visits
	if parentVisits == 0 {
		panic("node has children but no visits")
	}
	normalizer := t.c2 * math.Log(float64(parentVisits))

	return ucb1(n.rewards, n.visits, normalizer) + t.weight*n.heuristic
}

// bestChild returns the child of i with the highest uct score, the first one
// on ties. Unvisited children win immediately.
func (t *Tree) bestChild(i int) int {
	children := t.nodes[i].children
	if len(children) == 0 {
		panic("node has no children")
	}

	best := -1
	bestScore := math.Inf(-1)
	for _, c := range children {
		score := t.uct(c)
		if score == math.Inf(1) {
			return c
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}
