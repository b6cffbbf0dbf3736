package searcher

import (
	"bomberman/game"
	"bomberman/meta"
	"bomberman/searcher/experiments"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultSimulationStep is the sub-step used when advancing cloned states.
const DefaultSimulationStep = meta.SIMULATION_STEP

// StopReason tells why a search stopped.
type StopReason int

const (
	Movetime     StopReason = iota // the time budget elapsed
	Episodes                       // the episode limit was reached
	Interrupt                      // the context was cancelled
	StopTerminal                   // nothing to search
)

func (r StopReason) String() string {
	switch r {
	case Movetime:
		return "movetime"
	case Episodes:
		return "episodes"
	case Interrupt:
		return "interrupt"
	case StopTerminal:
		return "terminal"
	default:
		return fmt.Sprintf("stop(%d)", int(r))
	}
}

// OpponentMode selects how opponents behave inside the searched states.
type OpponentMode int

const (
	OpponentKeep    OpponentMode = iota // opponents clone themselves
	OpponentStatic                      // opponents stand still
	OpponentWalking                     // opponents wander randomly
)

func ParseOpponentMode(s string) (OpponentMode, error) {
	switch s {
	case "", "keep":
		return OpponentKeep, nil
	case "static":
		return OpponentStatic, nil
	case "walking":
		return OpponentWalking, nil
	default:
		return OpponentKeep, fmt.Errorf("unknown opponent mode %q", s)
	}
}

type Option func(mcts *MCTS)

type MCTS struct {
	duration  time.Duration
	episodes  int
	cutoff    int
	c2        float64
	step      time.Duration
	opponents OpponentMode
	rnd       *game.Rand
	metrics   experiments.MetricsCollector
}

// Result is the outcome of one search.
type Result struct {
	Action  game.Action
	Reason  StopReason
	Weight  float64
	Metrics experiments.SearchMetrics
	Tree    *Tree
}

// WithDuration fixes the time budget of every search. Without it a search
// lasts as long as the searched agent needs to cross one tile.
func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

// WithEpisodes stops a search after a number of episodes, on top of the time budget.
func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rnd = game.NewRand(seed)
	}
}

// WithExploration sets the squared exploration constant of uct.
func WithExploration(c2 float64) Option {
	return func(m *MCTS) {
		if c2 >= 0 {
			m.c2 = c2
		}
	}
}

func WithSimulationStep(step time.Duration) Option {
	return func(m *MCTS) {
		if step > 0 {
			m.step = step
		}
	}
}

func WithOpponents(mode OpponentMode) Option {
	return func(m *MCTS) {
		m.opponents = mode
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = experiments.NewMetricsCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		cutoff:  DefaultCutoff,
		c2:      C_SQUARED,
		step:    DefaultSimulationStep,
		rnd:     game.NewRand(uint64(time.Now().UnixNano())),
		metrics: experiments.NewNoMetricsCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.step > time.Second {
		panic("simulation step must not exceed one second")
	}
	return m
}

// Search plans the next action of the agent at index agent in state. It
// returns when the budget elapses, the episode limit is reached or ctx is
// done, whichever comes first. state is cloned and never modified.
func (m *MCTS) Search(ctx context.Context, state *game.GameState, agent int) Result {
	if agent < 0 || agent >= len(state.Agents) {
		panic(fmt.Sprintf("agent %d out of range", agent))
	}

	budget := m.duration
	if budget <= 0 {
		budget = state.Agents[agent].Player().TileTime()
	}
	m.metrics.Start(budget)
	deadline := time.Now().Add(budget)

	tree := newTree(m.snapshot(state, agent), agent, m.c2, m.step, m.rnd)
	reason := m.run(ctx, tree, deadline)

	action := tree.BestAction()
	metric := m.metrics.Complete(tree.Size(), tree.MaxDepth())

	log.Debug().
		Int("agent", agent).
		Int("iterations", tree.Visits()).
		Stringer("action", action).
		Stringer("reason", reason).
		Float64("weight", tree.Weight()).
		Msg("search completed")

	return Result{
		Action:  action,
		Reason:  reason,
		Weight:  tree.Weight(),
		Metrics: metric,
		Tree:    tree,
	}
}

func (m *MCTS) run(ctx context.Context, tree *Tree, deadline time.Time) StopReason {
	if tree.Status(root) == Terminal {
		return StopTerminal
	}

	for episode := 0; ; episode++ {
		if m.episodes > 0 && episode >= m.episodes {
			return Episodes
		}
		select {
		case <-ctx.Done():
			return Interrupt
		default:
		}
		if !time.Now().Before(deadline) {
			return Movetime
		}

		m.simulate(tree, deadline)
		m.metrics.AddEpisode()
	}
}

func (m *MCTS) simulate(tree *Tree, deadline time.Time) {
	newNode := tree.expand(tree.selectNode())
	reward, full := tree.rollout(newNode, m.cutoff, deadline)
	if full {
		m.metrics.AddFullPlayout()
	}
	tree.backpropagate(newNode, reward)
}

// snapshot clones state for searching: the searched agent becomes passive so
// the tree can steer it, and opponents are replaced according to the mode.
func (m *MCTS) snapshot(state *game.GameState, agent int) *game.GameState {
	return state.CloneWith(func(i int, original game.Agent, s *game.GameState, p *game.Player) game.Agent {
		if i == agent {
			p.SetMovingDirection(game.None)
			return game.NewPassiveAgent(p)
		}
		switch m.opponents {
		case OpponentStatic:
			return game.NewStaticAgent(p)
		case OpponentWalking:
			return game.NewWalkingAgent(s, p, m.rnd.Uint64())
		default:
			return nil
		}
	})
}
