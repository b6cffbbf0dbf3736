package game

import "time"

// GameState is the aggregate root of a simulation: the map and its agents.
type GameState struct {
	TileMap *TileMap
	Agents  []Agent

	elapsed time.Duration
}

func NewGameState(m *TileMap) *GameState {
	return &GameState{TileMap: m}
}

func (s *GameState) AddAgent(a Agent) {
	if a.Player().TileMap() != s.TileMap {
		panic("agent's player lives on a different tile map")
	}
	s.Agents = append(s.Agents, a)
}

// Terminated reports whether any player is dead.
func (s *GameState) Terminated() bool {
	for _, a := range s.Agents {
		if !a.Player().Alive() {
			return true
		}
	}
	return false
}

// Winner returns the index of the only surviving agent once the game is over,
// or -1 while it runs or when nobody survived.
func (s *GameState) Winner() int {
	if !s.Terminated() {
		return -1
	}
	winner := -1
	for i, a := range s.Agents {
		if a.Player().Alive() {
			if winner >= 0 {
				return -1
			}
			winner = i
		}
	}
	return winner
}

func (s *GameState) Elapsed() time.Duration {
	return s.elapsed
}

// Update advances the simulation by dt. It does nothing once terminated.
func (s *GameState) Update(dt time.Duration) {
	if s.Terminated() {
		return
	}

	for _, a := range s.Agents {
		a.Update(dt)
	}
	s.TileMap.Update(dt)

	// Blasts placed this tick hit players already standing in them.
	for _, a := range s.Agents {
		p := a.Player()
		if !p.Alive() {
			continue
		}
		if t := s.TileMap.GetTile(p.GridPosition()); t != nil && t.Lethal() {
			p.Damage()
		}
	}

	s.elapsed += dt
}

// Advance runs Update in steps of at most step until total has elapsed.
func (s *GameState) Advance(total, step time.Duration) {
	for total > 0 && !s.Terminated() {
		dt := min(step, total)
		s.Update(dt)
		total -= dt
	}
}

// Substitute replaces an agent while cloning. Returning nil keeps the
// agent's own clone.
type Substitute func(index int, original Agent, state *GameState, player *Player) Agent

// Clone returns a deep copy sharing no mutable state with s.
func (s *GameState) Clone() *GameState {
	return s.CloneWith(nil)
}

func (s *GameState) CloneWith(substitute Substitute) *GameState {
	c := &GameState{
		TileMap: s.TileMap.Clone(),
		Agents:  make([]Agent, 0, len(s.Agents)),
		elapsed: s.elapsed,
	}
	for i, a := range s.Agents {
		p := a.Player().Clone(c.TileMap)
		var clone Agent
		if substitute != nil {
			clone = substitute(i, a, c, p)
		}
		if clone == nil {
			clone = a.Clone(c, p)
		}
		c.Agents = append(c.Agents, clone)
	}
	return c
}
