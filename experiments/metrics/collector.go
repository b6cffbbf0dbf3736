package metrics

import (
	"bomberman/searcher"
	"bomberman/searcher/experiments"
	"sync"
	"time"
)

type AgentConfig struct {
	ID        int
	Kind      string // mcts, static or walking
	Duration  time.Duration
	Episodes  int
	Cutoff    int
	Opponents string
}

type GameMetric struct {
	Winner    int // -1 without a single survivor
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration // wall clock
	Elapsed   time.Duration // simulated
	Ticks     int
}

type DecisionMetric struct {
	Step   int // per player
	Player int
	Action string
	Reason string
	experiments.SearchMetrics
}

// Collector gathers the decisions of one game. Hook may be called from any
// number of planner goroutines.
type Collector struct {
	mu        sync.Mutex
	steps     map[int]int
	decisions []DecisionMetric
}

func NewCollector() *Collector {
	return &Collector{steps: map[int]int{}}
}

func (c *Collector) Hook(agent int, result searcher.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.steps[agent]++
	c.decisions = append(c.decisions, DecisionMetric{
		Step:          c.steps[agent],
		Player:        agent,
		Action:        result.Action.String(),
		Reason:        result.Reason.String(),
		SearchMetrics: result.Metrics,
	})
}

func (c *Collector) Decisions() []DecisionMetric {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]DecisionMetric(nil), c.decisions...)
}
