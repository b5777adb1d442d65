package results

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	peakStartRe = regexp.MustCompile(`^.+START_PEAK_SUMMARY.+::(.+)-(.+)-(.+)-(.+)\((.+)\)`)
	peakEndRe   = regexp.MustCompile(`^.+END_PEAK_SUMMARY`)
	peakRowRe   = regexp.MustCompile(`(\S+)\s+` + numericColumns(len(PeakVariables)))

	hydrographStartRe = regexp.MustCompile(`.+START_HYDROGRAPHS_(\S+)\s*::(.+)-(.+)-(.+)-(.+)\((.+)\)`)
	hydrographEndRe   = regexp.MustCompile(`#####END_HYDROGRAPHS_`)
	hydrographRowRe   = regexp.MustCompile(numericColumns(channelCount))
)

func numericColumns(n int) string {
	cols := make([]string, n)
	for i := range cols {
		cols[i] = `(\d+\.?\d*)`
	}

	return strings.Join(cols, `\s+`)
}

func stormFrom(match []string) Storm {
	return Storm{
		ID:       strings.TrimSpace(match[0]),
		AEP:      strings.TrimSpace(match[1]),
		Duration: strings.TrimSpace(match[2]),
		Ensemble: strings.TrimSpace(match[3]),
		Type:     strings.TrimSpace(match[4]),
	}
}

func parseColumn(name, token string) (float64, error) {
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrNumericDecode, "column %s value %q: %v", name, token, err)
	}

	return v, nil
}

type peakBlock struct {
	storm Storm
	start int
	rows  int
}

func (b *peakBlock) describe() string {
	return "peak summary " + b.storm.String()
}

type hydrographBuilder struct {
	subarea string
	storm   Storm
	start   int
	series  [channelCount][]float64
}

func (b *hydrographBuilder) describe() string {
	return "hydrograph " + b.subarea + " " + b.storm.String()
}

func (b *hydrographBuilder) build() *Hydrograph {
	return &Hydrograph{Subarea: b.subarea, Storm: b.storm, series: b.series}
}

type parser struct {
	opts      *options
	line      int
	peak      *peakBlock
	hydro     *hydrographBuilder
	committed int
	res       *Results
}

// Parse reads a meta file from src in a single pass.
//
// Lines outside blocks and unmatched lines inside blocks are ignored. A block header of the
// same kind as the open block fails with ErrUnexpectedBlockStart, a matched row that does not
// convert to float64 fails with ErrNumericDecode and a failing source fails with ErrIO; these
// are returned as a *StreamError carrying the line number. Peak and hydrograph blocks are
// tracked independently and may overlap.
//
// Peak rows are recorded as they are read, so a summary still open at the end of the input
// keeps its rows. A hydrograph is only recorded at its end banner; one still open at the end
// of the input is discarded with a warning. A hydrograph whose storm key is already held by a
// different storm fails with ErrStormCollision.
func Parse(src LineSource, opts ...Option) (*Results, error) {
	p := &parser{
		opts: newOptions(opts),
		res:  &Results{Hydrographs: newHydrographs()},
	}

	for src.Scan() {
		p.line++
		line := strings.TrimSuffix(src.Text(), "\r")

		err := p.peakLine(line)
		if err != nil {
			return nil, err
		}

		err = p.hydrographLine(line)
		if err != nil {
			return nil, err
		}
	}

	if err := src.Err(); err != nil {
		return nil, streamErr(p.line, p.openBlock(), &ioError{err: err})
	}

	p.closeOpen()

	return p.res, nil
}

func (p *parser) peakLine(line string) error {
	if match := peakStartRe.FindStringSubmatch(line); match != nil {
		if p.peak != nil {
			return streamErr(p.line, p.peak.describe(),
				errors.Wrapf(ErrUnexpectedBlockStart, "peak summary opened at line %d", p.peak.start))
		}

		p.peak = &peakBlock{storm: stormFrom(match[1:]), start: p.line}

		return nil
	}

	if p.peak == nil {
		return nil
	}

	if peakEndRe.MatchString(line) {
		p.opts.logger.Debug("peak summary closed",
			zap.String("storm", p.peak.storm.String()), zap.Int("rows", p.peak.rows))
		p.peak = nil

		return nil
	}

	match := peakRowRe.FindStringSubmatch(line)
	if match == nil {
		return nil
	}

	var values [len(PeakVariables)]float64
	for i, variable := range PeakVariables {
		v, err := parseColumn(string(variable), match[i+2])
		if err != nil {
			return streamErr(p.line, p.peak.describe(), err)
		}

		values[i] = v
	}

	p.peak.rows++
	for i, variable := range PeakVariables {
		p.res.Peaks = append(p.res.Peaks, Peak{
			Storm:    p.peak.storm,
			Subarea:  match[1],
			Variable: variable,
			Value:    values[i],
		})
	}

	return nil
}

func (p *parser) hydrographLine(line string) error {
	if match := hydrographStartRe.FindStringSubmatch(line); match != nil {
		if p.hydro != nil {
			return streamErr(p.line, p.hydro.describe(),
				errors.Wrapf(ErrUnexpectedBlockStart, "hydrograph opened at line %d", p.hydro.start))
		}

		p.hydro = &hydrographBuilder{subarea: match[1], storm: stormFrom(match[2:]), start: p.line}

		return nil
	}

	if p.hydro == nil {
		return nil
	}

	if hydrographEndRe.MatchString(line) {
		return p.commitHydrograph()
	}

	match := hydrographRowRe.FindStringSubmatch(line)
	if match == nil {
		return nil
	}

	var row [channelCount]float64
	for i := range row {
		v, err := parseColumn(channelNames[i], match[i+1])
		if err != nil {
			return streamErr(p.line, p.hydro.describe(), err)
		}

		row[i] = v
	}

	for i, v := range row {
		p.hydro.series[i] = append(p.hydro.series[i], v)
	}

	return nil
}

func (p *parser) commitHydrograph() error {
	h := p.hydro.build()
	block := p.hydro.describe()
	p.hydro = nil

	if prev, ok := p.res.Hydrographs.Get(h.Subarea, h.Storm.Key()); ok && prev.Storm != h.Storm {
		return streamErr(p.line, block,
			errors.Wrapf(ErrStormCollision, "storm key %s already holds %s", h.Storm.Key(), prev.Storm))
	}

	if p.res.Hydrographs.put(h) {
		p.opts.logger.Warn("hydrograph replaced",
			zap.String("subarea", h.Subarea), zap.String("storm", h.Storm.String()), zap.Int("line", p.line))
	}

	p.opts.logger.Debug("hydrograph committed",
		zap.String("subarea", h.Subarea), zap.String("storm", h.Storm.String()), zap.Int("samples", h.Len()))
	p.committed++
	p.opts.progress.Report(p.committed)

	return nil
}

func (p *parser) openBlock() string {
	switch {
	case p.hydro != nil:
		return p.hydro.describe()
	case p.peak != nil:
		return p.peak.describe()
	default:
		return ""
	}
}

func (p *parser) closeOpen() {
	if p.peak != nil {
		p.opts.logger.Warn("unterminated peak summary",
			zap.String("block", p.peak.describe()), zap.Int("line", p.peak.start), zap.Int("rows", p.peak.rows))
		p.peak = nil
	}

	if p.hydro != nil {
		p.opts.logger.Warn("unterminated block discarded",
			zap.String("block", p.hydro.describe()), zap.Int("line", p.hydro.start))
		p.hydro = nil
	}
}
