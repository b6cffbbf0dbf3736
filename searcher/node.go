package searcher

import (
	"bomberman/game"
	"fmt"
	"time"
)

// Status is the lifecycle of a tree node.
type Status int

const (
	Unexplored Status = iota // has untried actions
	Expanded                 // every action has a child
	Terminal                 // the node's state is terminated
)

func (s Status) String() string {
	switch s {
	case Unexplored:
		return "unexplored"
	case Expanded:
		return "expanded"
	case Terminal:
		return "terminal"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

const root = 0

type node struct {
	action    game.Action // meaningless at the root
	state     *game.GameState
	parent    int // -1 at the root
	depth     int
	children  []int
	untried   []game.Action
	visits    int
	rewards   float64
	heuristic float64
}

// Tree is a search tree stored as an arena: nodes refer to each other by
// index into nodes, and the root is nodes[0].
type Tree struct {
	nodes       []node
	agent       int
	opponent    int
	maxDistance float64
	weight      float64
	c2          float64
	step        time.Duration
	rnd         *game.Rand
}

// newTree builds a tree rooted at state, which the tree owns. The agent at
// index agent is the one whose actions are searched.
func newTree(state *game.GameState, agent int, c2 float64, step time.Duration, rnd *game.Rand) *Tree {
	if len(state.Agents) < 2 {
		panic("need at least two agents to search")
	}
	opponent := 0
	if agent == 0 {
		opponent = 1
	}

	p := state.Agents[agent].Player()
	maxDistance := game.MaxShortestDistance(state.TileMap, p.Speed)
	if maxDistance <= 0 {
		maxDistance = 1
	}

	t := &Tree{
		agent:       agent,
		opponent:    opponent,
		maxDistance: maxDistance,
		c2:          c2,
		step:        step,
		rnd:         rnd,
	}
	// Close to the opponent the static heuristic matters less than exploring.
	t.weight = Distance(state, agent, opponent, maxDistance) / 4

	t.nodes = append(t.nodes, t.newNode(state, -1, game.Stand))
	return t
}

func (t *Tree) newNode(state *game.GameState, parent int, action game.Action) node {
	n := node{
		action:    action,
		state:     state,
		parent:    parent,
		heuristic: Heuristic(state, t.agent, t.opponent, t.maxDistance),
	}
	if parent >= 0 {
		n.depth = t.nodes[parent].depth + 1
	}
	if !state.Terminated() {
		n.untried = LegalActions(state, t.agent)
	}
	return n
}

func (t *Tree) Status(i int) Status {
	n := &t.nodes[i]
	switch {
	case n.state.Terminated():
		return Terminal
	case len(n.untried) > 0:
		return Unexplored
	default:
		return Expanded
	}
}

// Size is the number of nodes in the tree.
func (t *Tree) Size() int {
	return len(t.nodes)
}

func (t *Tree) MaxDepth() int {
	depth := 0
	for i := range t.nodes {
		depth = max(depth, t.nodes[i].depth)
	}
	return depth
}

// Weight is the heuristic weight used by uct for this tree.
func (t *Tree) Weight() float64 {
	return t.weight
}

// Visits returns the visit count of the root.
func (t *Tree) Visits() int {
	return t.nodes[root].visits
}

// selectNode descends from the root through fully expanded nodes, following
// the child with the highest uct score.
func (t *Tree) selectNode() int {
	i := root
	for t.Status(i) == Expanded {
		i = t.bestChild(i)
	}
	return i
}

// expand adds a child for a random untried action of node i and returns it.
// A terminal node is returned unchanged.
func (t *Tree) expand(i int) int {
	if t.Status(i) == Terminal {
		return i
	}
	if len(t.nodes[i].untried) == 0 {
		panic("cannot expand a fully expanded node")
	}

	untried := t.nodes[i].untried
	k := t.rnd.Intn(len(untried))
	action := untried[k]
	t.nodes[i].untried = append(untried[:k:k], untried[k+1:]...)

	state := t.nodes[i].state.Clone()
	t.advance(state, action)

	child := len(t.nodes)
	t.nodes = append(t.nodes, t.newNode(state, i, action))
	t.nodes[i].children = append(t.nodes[i].children, child)
	return child
}

// advance applies action to the searched agent and simulates the time it
// needs to cross one tile.
func (t *Tree) advance(state *game.GameState, action game.Action) {
	p := state.Agents[t.agent].Player()
	_ = action.Apply(p) // a refused bomb still moves
	state.Advance(p.TileTime(), t.step)
}

// rollout plays random safe actions from node i for at most cutoff tiles or
// until the deadline, and returns the reward and whether the game ended.
func (t *Tree) rollout(i, cutoff int, deadline time.Time) (float64, bool) {
	state := t.nodes[i].state.Clone()
	start := Distance(state, t.agent, t.opponent, t.maxDistance)

	for depth := 0; depth < cutoff && !state.Terminated(); depth++ {
		if depth > 0 && !time.Now().Before(deadline) {
			break
		}
		actions := SafeActions(state, t.agent, t.opponent)
		t.advance(state, actions[t.rnd.Intn(len(actions))])
	}

	return Reward(state, t.agent, t.opponent, start, t.maxDistance), state.Terminated()
}

func (t *Tree) backpropagate(i int, reward float64) {
	for ; i >= 0; i = t.nodes[i].parent {
		t.nodes[i].visits++
		t.nodes[i].rewards += reward
	}
}

// BestAction returns the action of the root's most visited child, the first
// one on ties. Without children it stands still.
func (t *Tree) BestAction() game.Action {
	children := t.nodes[root].children
	if len(children) == 0 {
		return game.Stand
	}

	best := children[0]
	for _, c := range children[1:] {
		if t.nodes[c].visits > t.nodes[best].visits {
			best = c
		}
	}
	return t.nodes[best].action
}
