package runfile

import "go.uber.org/zap"

type options struct {
	logger *zap.Logger
}

// Option configures Parse.
type Option func(o *options)

// WithLogger logs recoverable input problems, such as unterminated blocks, to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts ...Option) *options {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}

	return o
}
