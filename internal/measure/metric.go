package measure

import (
	"sync"
	"time"
)

// TransportInfo is the average time an item waited between two stages.
type TransportInfo struct {
	Elapsed time.Duration
	Total   int64
}

type transport struct {
	elapsed time.Duration
	total   int64
}

type DefaultMetric struct {
	mu            sync.Mutex
	allTransports map[string]*transport
	endDuration   time.Duration
	stageElapsed  time.Duration
	total         int64
	concurrent    int
}

func (mt *DefaultMetric) AddDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.total++
	mt.stageElapsed += elapsed
}

func (mt *DefaultMetric) SetTotalDuration(total time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.endDuration = total
}

func (mt *DefaultMetric) TotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.endDuration
}

func (mt *DefaultMetric) Count() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.total
}

func (mt *DefaultMetric) AddTransportDuration(inputStage string, elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.allTransports[inputStage] == nil {
		mt.allTransports[inputStage] = &transport{}
	}
	tr := mt.allTransports[inputStage]
	tr.elapsed += elapsed
	tr.total++
}

func (mt *DefaultMetric) AVGDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.total == 0 {
		return time.Duration(0)
	}

	return round(time.Duration(float64(mt.stageElapsed) / float64(mt.total)))
}

// AVGTransportDuration averages the transport time per input stage, divided across the
// concurrent workers of the stage.
func (mt *DefaultMetric) AVGTransportDuration() map[string]TransportInfo {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	res := make(map[string]TransportInfo, len(mt.allTransports))
	for name, tr := range mt.allTransports {
		info := TransportInfo{Total: tr.total}
		if tr.total > 0 {
			info.Elapsed = round(time.Duration(float64(tr.elapsed) / float64(tr.total) / float64(mt.concurrent)))
		}
		res[name] = info
	}

	return res
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		d = d.Round(time.Minute)
	case d > time.Second:
		d = d.Round(time.Second)
	case d > time.Millisecond:
		d = d.Round(time.Millisecond)
	case d > time.Microsecond:
		d = d.Round(time.Microsecond)
	}

	return d
}

var _ Metric = (*DefaultMetric)(nil)
