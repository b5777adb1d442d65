package batch

import "github.com/pkg/errors"

var (
	ErrSinkMustBeSet = errors.New("sink must be set")
	ErrNoInput       = errors.New("no meta file to import")
)
