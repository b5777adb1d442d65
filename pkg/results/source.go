package results

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
)

// MaxLineSize is the longest meta file line ParseReader accepts.
const MaxLineSize = 1 << 20

// LineSource yields the lines of a meta file. *bufio.Scanner satisfies it.
type LineSource interface {
	Scan() bool
	Text() string
	Err() error
}

// NewScanner returns a line scanner over r accepting lines up to MaxLineSize.
func NewScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	return scanner
}

// ParseReader parses the meta file read from r.
func ParseReader(r io.Reader, opts ...Option) (*Results, error) {
	return Parse(NewScanner(r), opts...)
}

// ParseFile parses the meta file at path.
func ParseFile(path string, opts ...Option) (*Results, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(&ioError{err: err}, "unable to open %s", path)
	}
	defer file.Close()

	res, err := ParseReader(file, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse %s", path)
	}

	return res, nil
}

type contextSource struct {
	ctx context.Context //nolint:containedctx
	src LineSource
	err error
}

// WithContext stops src once ctx is done. Parse then fails with an error matching both ErrIO
// and the context error.
func WithContext(ctx context.Context, src LineSource) LineSource {
	return &contextSource{ctx: ctx, src: src}
}

func (s *contextSource) Scan() bool {
	if err := s.ctx.Err(); err != nil {
		s.err = err

		return false
	}

	return s.src.Scan()
}

func (s *contextSource) Text() string {
	return s.src.Text()
}

func (s *contextSource) Err() error {
	if s.err != nil {
		return s.err
	}

	return s.src.Err()
}

var _ LineSource = (*bufio.Scanner)(nil)
