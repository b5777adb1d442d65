package batch

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-wbnm/internal/measure"
	"github.com/askiada/go-wbnm/pkg/results"
)

// Stage names used for metrics.
const (
	StageRead  = "read"
	StageParse = "parse"
	StageSink  = "sink"
)

// Item is one parsed meta file.
type Item struct {
	// Index is the position of Path in the input list.
	Index   int
	Path    string
	Results *results.Results
}

// Sink consumes parsed meta files. Write is only ever called from one goroutine.
type Sink interface {
	Write(ctx context.Context, item Item) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, item Item) error

func (f SinkFunc) Write(ctx context.Context, item Item) error {
	return f(ctx, item)
}

type job struct {
	index int
	path  string
	sent  time.Time
}

type parsed struct {
	item Item
	sent time.Time
}

// Importer runs batch imports.
type Importer struct {
	workers    int
	bufferSize int
	logger     *zap.Logger
	measure    measure.Measure
	parseOpts  []results.Option
}

// New creates an Importer. By default it uses one worker per CPU.
func New(opts ...Option) *Importer {
	im := &Importer{
		logger: zap.NewNop(),
	}
	WithWorkers(0)(im)

	for _, opt := range opts {
		opt(im)
	}

	return im
}

// Run parses every path and writes the results to sink, in completion order. It returns the
// first error of any stage once every goroutine has stopped.
func (im *Importer) Run(ctx context.Context, paths []string, sink Sink) error {
	if sink == nil {
		return ErrSinkMustBeSet
	}

	if len(paths) == 0 {
		return ErrNoInput
	}

	start := time.Now()

	var readMetric, parseMetric, sinkMetric measure.Metric
	if im.measure != nil {
		readMetric = im.measure.AddMetric(StageRead, 1)
		parseMetric = im.measure.AddMetric(StageParse, im.workers)
		sinkMetric = im.measure.AddMetric(StageSink, 1)
	}

	errGrp, dCtx := errgroup.WithContext(ctx)
	jobs := make(chan job)
	items := make(chan parsed, im.bufferSize)

	errGrp.Go(func() error {
		defer close(jobs)

		err := im.produce(dCtx, paths, jobs, readMetric)
		if readMetric != nil {
			readMetric.SetTotalDuration(time.Since(start))
		}

		return err
	})

	errGrp.Go(func() error {
		defer close(items)

		err := im.parseAll(dCtx, jobs, items, parseMetric)
		if parseMetric != nil {
			parseMetric.SetTotalDuration(time.Since(start))
		}

		return err
	})

	errGrp.Go(func() error {
		err := im.consume(dCtx, items, sink, sinkMetric)
		if sinkMetric != nil {
			sinkMetric.SetTotalDuration(time.Since(start))
		}

		return err
	})

	err := errGrp.Wait()
	if err != nil {
		return err
	}

	im.logger.Info("batch import finished", zap.Int("files", len(paths)), zap.Duration("elapsed", time.Since(start)))

	return nil
}

func (im *Importer) produce(ctx context.Context, paths []string, jobs chan<- job, mt measure.Metric) error {
	for i, path := range paths {
		startFn := time.Now()

		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "read stage")
		case jobs <- job{index: i, path: path, sent: time.Now()}:
			if mt != nil {
				mt.AddDuration(time.Since(startFn))
			}
		}
	}

	return nil
}

func (im *Importer) parseAll(ctx context.Context, jobs <-chan job, items chan<- parsed, mt measure.Metric) error {
	errGrp, dCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(im.workers)

	for goIdx := range im.workers {
		errGrp.Go(func() error {
			return im.parseWorker(dCtx, goIdx, jobs, items, mt)
		})
	}

	return errGrp.Wait()
}

func (im *Importer) parseWorker(ctx context.Context, goIdx int, jobs <-chan job, items chan<- parsed, mt measure.Metric) error {
	for {
		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "go routine %d", goIdx)
		case j, ok := <-jobs:
			if !ok {
				return nil
			}

			waited := time.Since(j.sent)
			startFn := time.Now()

			res, err := im.parse(ctx, j.path)
			if err != nil {
				return errors.Wrapf(err, "go routine %d", goIdx)
			}

			endFn := time.Since(startFn)
			im.logger.Debug("meta file parsed",
				zap.String("path", j.path),
				zap.Int("peaks", len(res.Peaks)),
				zap.Int("hydrographs", res.Hydrographs.Len()),
				zap.Duration("elapsed", endFn))

			// the context is checked again so that no worker adds items once the import failed
			select {
			case <-ctx.Done():
				return errors.Wrapf(ctx.Err(), "go routine %d", goIdx)
			case items <- parsed{item: Item{Index: j.index, Path: j.path, Results: res}, sent: time.Now()}:
				if mt != nil {
					mt.AddDuration(endFn)
					mt.AddTransportDuration(StageRead, waited)
				}
			}
		}
	}
}

func (im *Importer) parse(ctx context.Context, path string) (*results.Results, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}
	defer file.Close()

	res, err := results.Parse(results.WithContext(ctx, results.NewScanner(file)), im.parseOpts...)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse %s", path)
	}

	return res, nil
}

func (im *Importer) consume(ctx context.Context, items <-chan parsed, sink Sink, mt measure.Metric) error {
	for {
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "sink stage")
		case p, ok := <-items:
			if !ok {
				return nil
			}

			waited := time.Since(p.sent)
			startFn := time.Now()

			err := sink.Write(ctx, p.item)
			if err != nil {
				return errors.Wrapf(err, "unable to write %s", p.item.Path)
			}

			if mt != nil {
				mt.AddDuration(time.Since(startFn))
				mt.AddTransportDuration(StageParse, waited)
			}
		}
	}
}
