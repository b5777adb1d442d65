package runfile

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrMalformedSection = errors.New("malformed section")
	ErrUnknownVariant   = errors.New("unknown variant")
	ErrCountMismatch    = errors.New("count mismatch")
	ErrMissingSection   = errors.New("missing section")
	ErrIO               = errors.New("unable to read runfile")
)

// ioError keeps the read or open error in the chain while matching ErrIO.
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

// SectionError reports where in a runfile a section failed to decode.
type SectionError struct {
	Section Section
	// Line is the 1-based line number in the runfile, 0 when the failure is not tied to a line.
	Line int
	Err  error
}

func (e *SectionError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s section, line %d: %v", e.Section, e.Line, e.Err)
	}

	return fmt.Sprintf("%s section: %v", e.Section, e.Err)
}

func (e *SectionError) Unwrap() error {
	return e.Err
}

func malformed(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformedSection, format, args...)
}

func unknownVariant(what, keyword string) error {
	return errors.Wrapf(ErrUnknownVariant, "%s keyword %q", what, keyword)
}

func sectionErr(s Section, line int, err error) error {
	return &SectionError{Section: s, Line: line, Err: err}
}
