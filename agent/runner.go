package agent

import (
	"bomberman/game"
	"bomberman/searcher"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrSlotFull is returned when a handoff slot that must be empty is not.
var ErrSlotFull = errors.New("handoff slot is full")

// ResultHook receives every finished search. It runs on the planner goroutine.
type ResultHook func(agent int, result searcher.Result)

type RunnerOption func(r *Runner)

func WithResultHook(hook ResultHook) RunnerOption {
	return func(r *Runner) {
		r.hooks = append(r.hooks, hook)
	}
}

// Runner connects the game loop with a planner goroutine. Snapshots travel to
// the planner and actions travel back, each through a single-slot channel, so
// the planner never sees live objects.
type Runner struct {
	planner *searcher.MCTS
	states  chan *game.GameState
	actions chan game.Action
	hooks   []ResultHook

	// Loop side only
	started  bool
	target   *game.GridPosition
	standing bool
	waited   time.Duration
}

// NewRunner wraps a planner. The planner must not be shared with another runner.
func NewRunner(planner *searcher.MCTS, options ...RunnerOption) *Runner {
	r := &Runner{
		planner: planner,
		states:  make(chan *game.GameState, 1),
		actions: make(chan game.Action, 1),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Run plans for the agent at index agent until ctx is done. It answers every
// snapshot with exactly one action.
func (r *Runner) Run(ctx context.Context, agent int) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case state := <-r.states:
			action := r.plan(ctx, state, agent)
			select {
			case r.actions <- action:
			default:
				return fmt.Errorf("agent %d: sending action: %w", agent, ErrSlotFull)
			}
		}
	}
}

func (r *Runner) plan(ctx context.Context, state *game.GameState, agent int) (action game.Action) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Int("agent", agent).Interface("panic", rec).Msg("planning cycle failed, standing still")
			action = game.Stand
		}
	}()

	result := r.planner.Search(ctx, state, agent)
	for _, hook := range r.hooks {
		hook(agent, result)
	}
	return result.Action
}

// Update is the loop side of the handoff. It must be called on every tick
// before the player moves:
//   - the first call requests a plan;
//   - an arriving action is applied and its target cell remembered;
//   - once the target is reached, one tile time has passed standing still, or
//     two tile times have passed without arriving, the player stops and a new
//     plan is requested.
func (r *Runner) Update(state *game.GameState, p *game.Player, dt time.Duration) {
	if !p.Alive() {
		return
	}
	if !r.started {
		r.started = true
		r.request(state)
		return
	}

	select {
	case action := <-r.actions:
		r.apply(p, action)
	default:
	}
	if r.target == nil {
		return
	}

	r.waited += dt
	switch {
	case r.standing:
		if r.waited >= p.TileTime() {
			r.next(state, p)
		}
	case r.target.Near(p.Position(), game.TargetThreshold):
		p.SetPosition(r.target.Vector())
		r.next(state, p)
	case r.waited >= 2*p.TileTime():
		log.Debug().Stringer("target", *r.target).Msg("target not reached, replanning")
		r.next(state, p)
	}
}

func (r *Runner) apply(p *game.Player, action game.Action) {
	if err := action.Apply(p); err != nil {
		log.Debug().Err(err).Stringer("action", action).Msg("bomb not placed")
	}
	pos := p.GridPosition()
	target := action.Target(pos)
	r.target = &target
	r.standing = target == pos
	r.waited = 0
}

func (r *Runner) next(state *game.GameState, p *game.Player) {
	p.SetMovingDirection(game.None)
	r.target = nil
	r.request(state)
}

func (r *Runner) request(state *game.GameState) {
	select {
	case r.states <- state.Clone():
	default:
		panic("state slot is full")
	}
}
