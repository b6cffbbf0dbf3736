package engine

import (
	"bomberman/game"
	"bomberman/meta"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MaxDuration bounds a game in simulated time.
const MaxDuration = meta.MAX_DURATION

const DefaultTick = meta.TICK

type Engine interface {
	// Run plays a game till at most one player is left or the time limit is reached
	Run(ctx context.Context) (Outcome, error)
}

// Planner is an agent that thinks on its own goroutine while the game runs.
type Planner interface {
	Run(ctx context.Context) error
}

type PlayerOutcome struct {
	Alive bool
	Score int
	game.Statistics
}

type Outcome struct {
	Winner    int // -1 without a single survivor
	Ticks     int
	Elapsed   time.Duration // simulated
	StartTime time.Time
	EndTime   time.Time
	Players   []PlayerOutcome
}

// Reporter is told about every finished game.
type Reporter interface {
	Report(outcome Outcome)
}

type LogReporter struct{}

func (LogReporter) Report(o Outcome) {
	event := log.Info().
		Int("winner", o.Winner).
		Int("ticks", o.Ticks).
		Dur("elapsed", o.Elapsed).
		Dur("duration", o.EndTime.Sub(o.StartTime))
	for i, p := range o.Players {
		event.Dict(fmt.Sprintf("player%d", i), zerolog.Dict().
			Bool("alive", p.Alive).
			Int("score", p.Score).
			Float64("distance", p.DistanceMoved).
			Int("bombs", p.BombsPlaced))
	}
	event.Msg("game over")
}
