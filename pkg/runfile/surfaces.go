package runfile

import "strings"

// Surface holds the runoff parameters of one subarea.
type Surface struct {
	Name              string
	Area              float64
	PercentImpervious float64
	Lag               float64
	ImperviousLag     float64
}

// Surfaces holds the network-wide routing parameters and the per-subarea surfaces.
type Surfaces struct {
	NonlinearityExponent float64
	// SwitchDischarge is the discharge at which routing switches from linear to nonlinear.
	SwitchDischarge float64
	// Reserved is the line between the shared parameters and the subarea rows, kept verbatim.
	Reserved   string
	Catchments []Surface
	index      map[string]int
}

// Lookup returns the surface of the named subarea.
func (s Surfaces) Lookup(name string) (Surface, bool) {
	i, ok := s.index[name]
	if !ok {
		return Surface{}, false
	}

	return s.Catchments[i], true
}

const (
	surfaceTokens     = 5
	surfaceDataOffset = 2
)

func decodeSurfaces(b Block) (Surfaces, error) {
	if len(b.Lines) == 0 {
		return Surfaces{}, sectionErr(SectionSurfaces, 0, malformed("missing shared parameters line"))
	}

	shared := strings.Fields(b.Lines[0])
	if len(shared) < 2 {
		return Surfaces{}, sectionErr(SectionSurfaces, b.lineNo(0),
			malformed("expected nonlinearity exponent and switch discharge, found %d tokens", len(shared)))
	}

	params, err := parseFloats(shared[:2], "shared parameters")
	if err != nil {
		return Surfaces{}, sectionErr(SectionSurfaces, b.lineNo(0), err)
	}

	surfaces := Surfaces{
		NonlinearityExponent: params[0],
		SwitchDischarge:      params[1],
		index:                make(map[string]int),
	}
	if len(b.Lines) > 1 {
		surfaces.Reserved = b.Lines[1]
	}

	for i := surfaceDataOffset; i < len(b.Lines); i++ {
		s, err := decodeSurface(b.Lines[i])
		if err != nil {
			return Surfaces{}, sectionErr(SectionSurfaces, b.lineNo(i), err)
		}

		if _, ok := surfaces.index[s.Name]; ok {
			return Surfaces{}, sectionErr(SectionSurfaces, b.lineNo(i), malformed("duplicate subarea %q", s.Name))
		}

		surfaces.index[s.Name] = len(surfaces.Catchments)
		surfaces.Catchments = append(surfaces.Catchments, s)
	}

	return surfaces, nil
}

func decodeSurface(line string) (Surface, error) {
	toks, err := fields(line, surfaceTokens, "subarea surface")
	if err != nil {
		return Surface{}, err
	}

	values, err := parseFloats(toks[1:], "subarea "+toks[0]+" surface")
	if err != nil {
		return Surface{}, err
	}

	return Surface{
		Name:              toks[0],
		Area:              values[0],
		PercentImpervious: values[1],
		Lag:               values[2],
		ImperviousLag:     values[3],
	}, nil
}
