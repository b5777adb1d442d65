package batch

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/askiada/go-wbnm/internal/measure"
	"github.com/askiada/go-wbnm/pkg/results"
)

// Option configures an Importer.
type Option func(im *Importer)

// WithWorkers sets how many meta files are parsed at once. Values below 1 select the number
// of CPUs.
func WithWorkers(workers int) Option {
	return func(im *Importer) {
		if workers < 1 {
			workers = runtime.NumCPU()
		}
		im.workers = workers
	}
}

// WithBufferSize sets how many parsed files may wait for the sink.
func WithBufferSize(size int) Option {
	return func(im *Importer) {
		if size >= 0 {
			im.bufferSize = size
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(im *Importer) {
		if logger != nil {
			im.logger = logger
		}
	}
}

// WithMeasure records the timings of the read, parse and sink stages in m.
func WithMeasure(m measure.Measure) Option {
	return func(im *Importer) {
		im.measure = m
	}
}

// WithParseOptions passes opts to every results.Parse call.
func WithParseOptions(opts ...results.Option) Option {
	return func(im *Importer) {
		im.parseOpts = append(im.parseOpts, opts...)
	}
}
