package experiments

import (
	"sync/atomic"
	"time"
)

type SearchMetrics struct {
	Duration     time.Duration
	Budget       time.Duration
	Episodes     int64
	FullPlayouts int64
	TreeSize     int
	MaxDepth     int
}

type MetricsCollector interface {
	Start(budget time.Duration)
	AddFullPlayout()
	AddEpisode()
	Complete(treeSize, maxDepth int) SearchMetrics
}

type metricsCollector struct {
	startTime    time.Time
	budget       time.Duration
	episodes     atomic.Int64
	fullPlayouts atomic.Int64
}

func NewMetricsCollector() MetricsCollector {
	return &metricsCollector{}
}

func (m *metricsCollector) Start(budget time.Duration) {
	m.startTime = time.Now()
	m.budget = budget
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
}

func (m *metricsCollector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *metricsCollector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *metricsCollector) Complete(treeSize, maxDepth int) SearchMetrics {
	return SearchMetrics{
		Duration:     time.Since(m.startTime),
		Budget:       m.budget,
		Episodes:     m.episodes.Load(),
		FullPlayouts: m.fullPlayouts.Load(),
		TreeSize:     treeSize,
		MaxDepth:     maxDepth,
	}
}

type noMetricsCollector struct{}

func NewNoMetricsCollector() MetricsCollector {
	return &noMetricsCollector{}
}

func (m *noMetricsCollector) Start(time.Duration)             {}
func (m *noMetricsCollector) AddFullPlayout()                 {}
func (m *noMetricsCollector) AddEpisode()                     {}
func (m *noMetricsCollector) Complete(int, int) SearchMetrics { return SearchMetrics{} }
