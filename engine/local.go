package engine

import (
	"bomberman/game"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// AgentFactory creates the agent for one start position.
type AgentFactory func(state *game.GameState, p *game.Player) game.Agent

type Option func(e *Local)

func WithTick(tick time.Duration) Option {
	return func(e *Local) {
		if tick > 0 {
			e.tick = tick
		}
	}
}

func WithMaxDuration(d time.Duration) Option {
	return func(e *Local) {
		if d > 0 {
			e.maxDuration = d
		}
	}
}

// WithRealtime paces ticks with the wall clock. Without it ticks run back to
// back, which only suits agents that do not plan against the clock.
func WithRealtime(realtime bool) Option {
	return func(e *Local) {
		e.realtime = realtime
	}
}

func WithReporters(reporters ...Reporter) Option {
	return func(e *Local) {
		e.reporters = append(e.reporters, reporters...)
	}
}

// WithBoard prints the board to w every given number of ticks.
func WithBoard(w io.Writer, every int) Option {
	return func(e *Local) {
		if every > 0 {
			e.board, e.boardEvery = w, every
		}
	}
}

type Local struct {
	State       *game.GameState
	tick        time.Duration
	maxDuration time.Duration
	realtime    bool
	reporters   []Reporter
	board       io.Writer
	boardEvery  int
}

func LocalEngine(sc game.Scenario, agents []AgentFactory, options ...Option) *Local {
	if len(sc.StartPositions) != len(agents) {
		panic("number of players does not match number of agents")
	}
	if len(agents) < 2 {
		panic("need at least two players")
	}

	e := &Local{
		tick:        DefaultTick,
		maxDuration: MaxDuration,
		realtime:    true,
	}
	for _, option := range options {
		option(e)
	}

	e.State = sc.NewGameState(func(i int, s *game.GameState, p *game.Player) game.Agent {
		return agents[i](s, p)
	})
	return e
}

// Run executes the entire game loop until a winner is found. Planning agents
// run on their own goroutines and are stopped before Run returns.
func (e *Local) Run(ctx context.Context) (Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for i, a := range e.State.Agents {
		i := i
		planner, ok := a.(Planner)
		if !ok {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := planner.Run(ctx); err != nil {
				log.Error().Err(err).Int("agent", i).Msg("planner stopped")
			}
		}()
	}

	outcome := Outcome{StartTime: time.Now()}
	log.Info().Int("players", len(e.State.Agents)).Msg("game started")

	err := e.loop(ctx, &outcome)
	cancel()
	wg.Wait()

	outcome.EndTime = time.Now()
	outcome.Elapsed = e.State.Elapsed()
	outcome.Winner = e.State.Winner()
	for _, a := range e.State.Agents {
		p := a.Player()
		outcome.Players = append(outcome.Players, PlayerOutcome{
			Alive:      p.Alive(),
			Score:      p.Score,
			Statistics: p.Statistics,
		})
	}

	for _, r := range e.reporters {
		r.Report(outcome)
	}
	return outcome, err
}

func (e *Local) loop(ctx context.Context, outcome *Outcome) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Int("tick", outcome.Ticks).Msg("game loop failed")
			err = fmt.Errorf("game loop panicked: %v", r)
		}
	}()

	var ticks <-chan time.Time
	if e.realtime {
		ticker := time.NewTicker(e.tick)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for !e.State.Terminated() && e.State.Elapsed() < e.maxDuration {
		if ticks == nil {
			if err := ctx.Err(); err != nil {
				return err
			}
		} else {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticks:
			}
		}

		e.State.Update(e.tick)
		outcome.Ticks++

		if e.board != nil && outcome.Ticks%e.boardEvery == 0 {
			if err := PrintBoard(e.board, e.State); err != nil {
				log.Warn().Err(err).Msg("failed to print board")
			}
		}
	}
	return nil
}
