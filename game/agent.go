package game

import "time"

// TargetThreshold is how close (in continuous units) a player must be to a
// cell to count as standing on it.
const TargetThreshold = 0.1 * TileSize

// Agent drives one player.
type Agent interface {
	Player() *Player
	Update(dt time.Duration)
	// Clone returns an independent copy of the agent bound to state and player,
	// which are clones of the agent's own state and player.
	Clone(state *GameState, player *Player) Agent
}

// PassiveAgent moves its player in whatever direction was last set on it.
// Planners use it for the agent they control inside cloned states.
type PassiveAgent struct {
	player *Player
}

func NewPassiveAgent(p *Player) *PassiveAgent {
	return &PassiveAgent{player: p}
}

func (a *PassiveAgent) Player() *Player {
	return a.player
}

func (a *PassiveAgent) Update(dt time.Duration) {
	a.player.Update(dt)
}

func (a *PassiveAgent) Clone(_ *GameState, p *Player) Agent {
	return NewPassiveAgent(p)
}

// StaticAgent never moves.
type StaticAgent struct {
	player *Player
}

func NewStaticAgent(p *Player) *StaticAgent {
	p.SetMovingDirection(None)
	return &StaticAgent{player: p}
}

func (a *StaticAgent) Player() *Player {
	return a.player
}

func (a *StaticAgent) Update(dt time.Duration) {
	a.player.SetMovingDirection(None)
	a.player.Update(dt)
}

func (a *StaticAgent) Clone(_ *GameState, p *Player) Agent {
	return NewStaticAgent(p)
}

// WalkingAgent wanders: each time it reaches its target it picks a random
// empty neighbour as the next one.
type WalkingAgent struct {
	state  *GameState
	player *Player
	target GridPosition
	rnd    *Rand
}

func NewWalkingAgent(state *GameState, p *Player, seed uint64) *WalkingAgent {
	return &WalkingAgent{
		state:  state,
		player: p,
		target: p.GridPosition(),
		rnd:    NewRand(seed),
	}
}

func (a *WalkingAgent) Player() *Player {
	return a.player
}

func (a *WalkingAgent) Target() GridPosition {
	return a.target
}

func (a *WalkingAgent) Update(dt time.Duration) {
	a.player.Update(dt)
	if !a.player.Alive() || !a.target.Near(a.player.Position(), TargetThreshold) {
		return
	}

	a.player.SetPosition(a.target.Vector())

	var clear []GridPosition
	for _, n := range a.target.Neighbours() {
		if a.state.TileMap.Contains(n) && a.state.TileMap.GetTile(n) == nil {
			clear = append(clear, n)
		}
	}
	if len(clear) == 0 {
		a.player.SetMovingDirection(None)
		return
	}

	a.target = clear[a.rnd.Intn(len(clear))]
	a.player.SetMovingDirection(directionTo(a.player.GridPosition(), a.target))
}

func (a *WalkingAgent) Clone(state *GameState, p *Player) Agent {
	return &WalkingAgent{
		state:  state,
		player: p,
		target: a.target,
		rnd:    a.rnd.Clone(),
	}
}

// WalkerAgent walks a shortest path to a goal cell. It waits in front of
// explosions and reports being stuck when something solid blocks the route.
type WalkerAgent struct {
	state   *GameState
	player  *Player
	goal    GridPosition
	next    *GridPosition
	last    *Vector
	waiting bool

	Finished bool
	Stuck    bool
}

func NewWalkerAgent(state *GameState, p *Player, goal GridPosition) *WalkerAgent {
	return &WalkerAgent{state: state, player: p, goal: goal}
}

func (a *WalkerAgent) Player() *Player {
	return a.player
}

func (a *WalkerAgent) Goal() GridPosition {
	return a.goal
}

func (a *WalkerAgent) Update(dt time.Duration) {
	a.player.Update(dt)
	if a.Finished || !a.player.Alive() {
		return
	}

	if a.next != nil {
		if t := a.state.TileMap.GetTile(*a.next); t != nil && t.Kind == Explosion {
			a.waiting = true
			a.player.SetMovingDirection(None)
			return
		}
		if a.waiting {
			a.waiting = false
			a.player.SetMovingDirection(directionTo(a.player.GridPosition(), *a.next))
		}

		position := a.player.Position()
		if a.last != nil && *a.last == position {
			a.Stuck = true
			a.player.SetMovingDirection(None)
			a.next = nil
			return
		}
		a.Stuck = false
		a.last = &position

		if !a.next.Near(position, TargetThreshold) {
			return
		}
		a.player.SetPosition(a.next.Vector())
	}

	a.advance()
}

func (a *WalkerAgent) advance() {
	current := a.player.GridPosition()
	a.last = nil
	if current == a.goal {
		a.Finished = true
		a.next = nil
		a.player.SetMovingDirection(None)
		return
	}

	path := ShortestPath(a.state.TileMap, current, a.goal, a.player.Speed)
	if len(path) < 2 || a.state.TileMap.Solid(path[1]) {
		a.Stuck = true
		a.next = nil
		a.player.SetMovingDirection(None)
		return
	}

	next := path[1]
	a.next = &next
	a.player.SetMovingDirection(directionTo(current, next))
}

func (a *WalkerAgent) Clone(state *GameState, p *Player) Agent {
	c := &WalkerAgent{
		state:    state,
		player:   p,
		goal:     a.goal,
		waiting:  a.waiting,
		Finished: a.Finished,
		Stuck:    a.Stuck,
	}
	if a.next != nil {
		next := *a.next
		c.next = &next
	}
	return c
}

// directionTo returns the direction of the first differing axis from one
// cell to another, rows first.
func directionTo(from, to GridPosition) Direction {
	switch {
	case from.Row < to.Row:
		return Down
	case from.Row > to.Row:
		return Up
	case from.Column < to.Column:
		return Right
	case from.Column > to.Column:
		return Left
	default:
		return None
	}
}
