package searcher

import (
	"bomberman/game"
	"time"
)

// wastedBombPenalty is subtracted from the heuristic for every placed bomb
// that threatens neither the opponent nor a box.
const wastedBombPenalty = 0.1

// LegalActions lists the actions the agent can take in state: standing, moving
// to any free or enterable neighbour, and placing a bomb before such a move.
func LegalActions(state *game.GameState, agent int) []game.Action {
	p := state.Agents[agent].Player()
	m := state.TileMap
	pos := p.GridPosition()
	canBomb := p.CanPlaceBomb() && m.GetTile(pos) == nil

	actions := []game.Action{game.Stand}
	for _, d := range [...]game.Direction{game.Up, game.Down, game.Left, game.Right} {
		target := pos.Add(d.Offset())
		if !m.Contains(target) {
			continue
		}
		if t := m.GetTile(target); t != nil && !t.Enterable() {
			continue
		}
		actions = append(actions, game.MoveAction(d))
		if canBomb {
			actions = append(actions, game.BombAction(d))
		}
	}
	return actions
}

// SafeActions is the rollout policy: legal moves that do not walk into an
// explosion, lava, or the blast of a bomb about to go off. Bombs are only
// placed where they threaten the opponent or a box. Standing is always safe.
func SafeActions(state *game.GameState, agent, opponent int) []game.Action {
	p := state.Agents[agent].Player()
	m := state.TileMap
	pos := p.GridPosition()
	danger := dangerCells(m, 2*p.TileTime())

	placeBomb := p.CanPlaceBomb() && m.GetTile(pos) == nil &&
		promisingBombPosition(m, pos, state.Agents[opponent].Player().GridPosition())

	actions := []game.Action{game.Stand}
	for _, d := range [...]game.Direction{game.Up, game.Down, game.Left, game.Right} {
		target := pos.Add(d.Offset())
		if !m.Contains(target) || danger[target] {
			continue
		}
		if t := m.GetTile(target); t != nil && (!t.Enterable() || t.Lethal()) {
			continue
		}
		actions = append(actions, game.MoveAction(d))
		if placeBomb {
			actions = append(actions, game.BombAction(d))
		}
	}
	return actions
}

// dangerCells returns the cells covered by bombs that detonate within horizon.
func dangerCells(m *game.TileMap, horizon time.Duration) map[game.GridPosition]bool {
	danger := map[game.GridPosition]bool{}
	for _, t := range m.Tiles() {
		if t.Kind != game.Bomb || t.Detonated || t.Remaining > horizon {
			continue
		}
		for _, cell := range game.BlastCells(m, t.Position, t.Range) {
			danger[cell] = true
		}
	}
	return danger
}

// promisingBombPosition reports whether a bomb at pos would be next to the
// opponent or to a box.
func promisingBombPosition(m *game.TileMap, pos, opponent game.GridPosition) bool {
	for _, n := range pos.Neighbours() {
		if n == opponent {
			return true
		}
		if t := m.GetTile(n); t != nil && t.Kind == game.Box {
			return true
		}
	}
	return false
}

// Distance is the weighted walking distance between two agents at the first
// agent's speed. Unreachable opponents count as maxDistance away.
func Distance(state *game.GameState, agent, opponent int, maxDistance float64) float64 {
	p := state.Agents[agent].Player()
	d := game.ShortestDistance(state.TileMap, p.GridPosition(),
		state.Agents[opponent].Player().GridPosition(), p.Speed)
	if d < 0 {
		return maxDistance
	}
	return d
}

// Heuristic scores how close the agent is to the opponent, in [0, 1], minus a
// penalty for active bombs placed where they cannot hurt the opponent.
func Heuristic(state *game.GameState, agent, opponent int, maxDistance float64) float64 {
	distance := Distance(state, agent, opponent, maxDistance)
	score := 1 - clamp(distance/maxDistance, 0, 1)

	opponentPosition := state.Agents[opponent].Player().GridPosition()
	for _, bomb := range state.Agents[agent].Player().ActiveBombs() {
		if !promisingBombPosition(state.TileMap, bomb.Position, opponentPosition) {
			score -= wastedBombPenalty
		}
	}
	return clamp(score, 0, 1)
}

// Reward scores the end of a rollout from the agent's point of view. Its own
// death wins over the opponent's.
func Reward(state *game.GameState, agent, opponent int, startDistance, maxDistance float64) float64 {
	if !state.Agents[agent].Player().Alive() {
		return LOSS
	}
	if !state.Agents[opponent].Player().Alive() {
		return WIN
	}

	distance := Distance(state, agent, opponent, maxDistance)
	progress := clamp(0.5+(startDistance-distance)/(2*maxDistance), 0, 1)
	return MinProgressReward + (MaxProgressReward-MinProgressReward)*progress
}
