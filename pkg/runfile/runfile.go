package runfile

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Runfile is the decoded content of a WBNM runfile.
type Runfile struct {
	Preamble []string
	Status   Status
	// Display is nil when the runfile has no display block.
	Display         *Display
	Topology        Topology
	Surfaces        Surfaces
	Flowpaths       Flowpaths
	LocalStructures LocalStructures
}

// Parse decodes every section found in lines. It stops at the first section that fails
// to decode and returns a *SectionError.
func Parse(lines []string, opts ...Option) (*Runfile, error) {
	o := newOptions(opts...)
	rf := &Runfile{}

	for _, section := range sections {
		block := ScanBlock(lines, section.Marker())
		if !block.Found {
			if section.Required() {
				return nil, sectionErr(section, 0, errors.WithStack(ErrMissingSection))
			}

			o.logger.Debug("section absent", zap.Stringer("section", section))

			continue
		}

		if !block.Terminated {
			o.logger.Warn("unterminated block, reading to end of file",
				zap.Stringer("section", section), zap.Int("line", block.Offset))
		}

		err := rf.decode(section, block, o)
		if err != nil {
			return nil, err
		}

		o.logger.Debug("section decoded", zap.Stringer("section", section), zap.Int("lines", len(block.Lines)))
	}

	return rf, nil
}

func (rf *Runfile) decode(section Section, block Block, o *options) error {
	var err error

	switch section {
	case SectionPreamble:
		rf.Preamble = block.Lines
	case SectionStatus:
		rf.Status, err = decodeStatus(block)
	case SectionDisplay:
		rf.Display, err = decodeDisplay(block)
	case SectionTopology:
		rf.Topology, err = decodeTopology(block)
	case SectionSurfaces:
		rf.Surfaces, err = decodeSurfaces(block)
	case SectionFlowpaths:
		rf.Flowpaths, err = decodeFlowpaths(block)
	case SectionLocalStructures:
		var unterminated []int

		rf.LocalStructures, unterminated, err = decodeLocalStructures(block)
		for _, i := range unterminated {
			o.logger.Warn("unterminated local structure, reading to end of block", zap.Int("structure", i))
		}
	}

	return err
}

// ReadLines reads r into a line sequence. Line terminators, including the carriage return
// of CRLF files, are removed.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.WithStack(&ioError{err: err})
	}

	return lines, nil
}

// ReadFile reads and parses the runfile at path.
func ReadFile(path string, opts ...Option) (*Runfile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(&ioError{err: err}, "unable to open %s", path)
	}
	defer file.Close()

	lines, err := ReadLines(file)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", path)
	}

	rf, err := Parse(lines, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse %s", path)
	}

	return rf, nil
}
