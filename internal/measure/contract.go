package measure

import "time"

// Measure holds one Metric per named stage.
type Measure interface {
	AddMetric(name string, concurrent int) Metric
	Metric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric accumulates the timings of one stage.
type Metric interface {
	// AddDuration records the time spent on one item.
	AddDuration(elapsed time.Duration)
	// AddTransportDuration records the time one item spent travelling from inputStage.
	AddTransportDuration(inputStage string, elapsed time.Duration)
	AVGDuration() time.Duration
	AVGTransportDuration() map[string]TransportInfo
	SetTotalDuration(total time.Duration)
	TotalDuration() time.Duration
	Count() int64
}
