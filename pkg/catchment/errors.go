package catchment

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrInvariantViolation = errors.New("invariant violation")

// InvariantError names the subarea that breaks a network invariant.
type InvariantError struct {
	Catchment string
	Reason    string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("subarea %s: %s: %v", e.Catchment, e.Reason, ErrInvariantViolation)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariantViolation
}

func violation(name, format string, args ...interface{}) error {
	return errors.WithStack(&InvariantError{Catchment: name, Reason: fmt.Sprintf(format, args...)})
}
