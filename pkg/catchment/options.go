package catchment

import "go.uber.org/zap"

type options struct {
	logger *zap.Logger
}

// Option configures Build.
type Option func(o *options)

// WithLogger reports input-quality warnings, such as a subarea without surface, to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
