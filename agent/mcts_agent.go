package agent

import (
	"bomberman/game"
	"bomberman/utils"
	"context"
	"errors"
	"time"
)

// MctsAgent drives its player with actions planned by a Runner.
type MctsAgent struct {
	state  *game.GameState
	player *game.Player
	runner *Runner
}

func NewMctsAgent(state *game.GameState, p *game.Player, runner *Runner) *MctsAgent {
	return &MctsAgent{state: state, player: p, runner: runner}
}

func (a *MctsAgent) Player() *game.Player {
	return a.player
}

func (a *MctsAgent) Update(dt time.Duration) {
	a.runner.Update(a.state, a.player, dt)
	a.player.Update(dt)
}

// Clone returns a passive agent. Copies are for planning and must not talk to
// the runner.
func (a *MctsAgent) Clone(_ *game.GameState, p *game.Player) game.Agent {
	return game.NewPassiveAgent(p)
}

// Run plans until ctx is done. The engine calls it on its own goroutine once
// every agent has joined the state.
func (a *MctsAgent) Run(ctx context.Context) error {
	players := utils.Map(a.state.Agents, game.Agent.Player)
	index := utils.FindIndex(players, a.player)
	if index < 0 {
		return errors.New("agent is not part of its game state")
	}
	return a.runner.Run(ctx, index)
}
