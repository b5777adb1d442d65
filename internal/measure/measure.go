package measure

import (
	"sort"
	"sync"

	"go.uber.org/zap"
)

// DefaultMeasure is a Measure safe for concurrent use.
type DefaultMeasure struct {
	mu     sync.RWMutex
	stages map[string]Metric
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		stages: make(map[string]Metric),
	}
}

func (m *DefaultMeasure) AddMetric(name string, concurrent int) Metric {
	if concurrent < 1 {
		concurrent = 1
	}

	mt := &DefaultMetric{
		allTransports: make(map[string]*transport),
		concurrent:    concurrent,
	}

	m.mu.Lock()
	m.stages[name] = mt
	m.mu.Unlock()

	return mt
}

// Metric returns the metric of the named stage, or nil.
func (m *DefaultMeasure) Metric(name string) Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.stages[name]
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make(map[string]Metric, len(m.stages))
	for name, mt := range m.stages {
		res[name] = mt
	}

	return res
}

// Log writes one info line per stage of m, sorted by stage name.
func Log(logger *zap.Logger, m Measure) {
	all := m.AllMetrics()

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		mt := all[name]

		fields := []zap.Field{
			zap.String("stage", name),
			zap.Int64("items", mt.Count()),
			zap.Duration("avg", mt.AVGDuration()),
			zap.Duration("total", mt.TotalDuration()),
		}
		for input, info := range mt.AVGTransportDuration() {
			fields = append(fields, zap.Duration("wait_"+input, info.Elapsed))
		}

		logger.Info("stage timings", fields...)
	}
}

var _ Measure = (*DefaultMeasure)(nil)
