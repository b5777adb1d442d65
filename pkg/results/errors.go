package results

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrUnexpectedBlockStart = errors.New("block start inside an open block of the same kind")
	ErrNumericDecode        = errors.New("numeric decode error")
	ErrIO                   = errors.New("io error")
	ErrStormCollision       = errors.New("storm key held by a different storm")
)

// StreamError locates a hard parse failure in the meta file.
type StreamError struct {
	// Line is the one-based line number of the offending line.
	Line int
	// Block describes the block open when the failure happened, if any.
	Block string
	Err   error
}

func (e *StreamError) Error() string {
	if e.Block == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}

	return fmt.Sprintf("line %d, %s: %v", e.Line, e.Block, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// ioError keeps the source error in the chain while matching ErrIO.
type ioError struct {
	err error
}

func (e *ioError) Error() string {
	return fmt.Sprintf("%v: %v", ErrIO, e.err)
}

func (e *ioError) Unwrap() error {
	return e.err
}

func (e *ioError) Is(target error) bool {
	return target == ErrIO //nolint:errorlint,goerr113
}

func streamErr(line int, block string, err error) error {
	return errors.WithStack(&StreamError{Line: line, Block: block, Err: err})
}
