package results

import "go.uber.org/zap"

type options struct {
	logger   *zap.Logger
	progress Progress
}

// Option configures Parse.
type Option func(o *options)

// WithLogger reports discarded and replaced blocks to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithProgress reports the running hydrograph count to p each time a hydrograph block closes.
func WithProgress(p Progress) Option {
	return func(o *options) {
		o.progress = p
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: zap.NewNop(), progress: ProgressFunc(func(int) {})}
	for _, opt := range opts {
		opt(o)
	}

	if o.progress == nil {
		o.progress = ProgressFunc(func(int) {})
	}

	return o
}
