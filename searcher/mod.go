package searcher

import (
	"bomberman/meta"
	"math"
)

// Hyperparameters for MCTS

const C_SQUARED = 2.0

// Rewards lie in [LOSS, WIN]. Rollouts that end without a death are scored
// strictly inside, between MinProgressReward and MaxProgressReward.
const WIN = 1.0
const LOSS = 0.0

const (
	MinProgressReward = 0.1
	MaxProgressReward = 0.9
)

// DefaultCutoff is the rollout depth in tiles.
const DefaultCutoff = meta.WITH_CUTOFF

func ucb1(rewards float64, visits int, c2LnN float64) float64 {
	// Prioritize unexplored nodes
	if visits == 0 {
		return math.Inf(1)
	}

	return rewards/float64(visits) + math.Sqrt(c2LnN/float64(visits))
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
