package runfile

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// OutletSentinel is the downstream name given to a subarea draining out of the network.
const OutletSentinel = "SINK"

var topologyHeaderRe = regexp.MustCompile(`^\s*([0-9]+)\s*(.*)$`)

// Point is an easting/northing pair.
type Point struct {
	E float64
	N float64
}

// Catchment is one subarea of the network and the name of the subarea it drains into.
type Catchment struct {
	Name       string
	Centroid   Point
	Outlet     Point
	Downstream string
}

// IsOutlet reports whether the catchment drains out of the network, either to the
// sentinel or to itself.
func (c Catchment) IsOutlet() bool {
	return c.Downstream == c.Name || strings.EqualFold(c.Downstream, OutletSentinel)
}

// Topology lists the catchments of the network in declaration order.
type Topology struct {
	// Declared is the subarea count announced by the header line.
	Declared   int
	Name       string
	Catchments []Catchment
	index      map[string]int
}

// Lookup returns the catchment with the given name.
func (t Topology) Lookup(name string) (Catchment, bool) {
	i, ok := t.index[name]
	if !ok {
		return Catchment{}, false
	}

	return t.Catchments[i], true
}

const topologyTokens = 6

func decodeTopology(b Block) (Topology, error) {
	if len(b.Lines) == 0 {
		return Topology{}, sectionErr(SectionTopology, 0, malformed("missing header line"))
	}

	match := topologyHeaderRe.FindStringSubmatch(b.Lines[0])
	if match == nil {
		return Topology{}, sectionErr(SectionTopology, b.lineNo(0),
			malformed("header %q does not start with a subarea count", strings.TrimSpace(b.Lines[0])))
	}

	declared, err := strconv.Atoi(match[1])
	if err != nil {
		return Topology{}, sectionErr(SectionTopology, b.lineNo(0),
			errors.Wrap(ErrMalformedSection, err.Error()))
	}

	topo := Topology{
		Declared:   declared,
		Name:       strings.TrimSpace(match[2]),
		Catchments: make([]Catchment, 0, len(b.Lines)-1),
		index:      make(map[string]int, len(b.Lines)-1),
	}

	for i := 1; i < len(b.Lines); i++ {
		c, err := decodeCatchment(b.Lines[i])
		if err != nil {
			return Topology{}, sectionErr(SectionTopology, b.lineNo(i), err)
		}

		if _, ok := topo.index[c.Name]; ok {
			return Topology{}, sectionErr(SectionTopology, b.lineNo(i), malformed("duplicate subarea %q", c.Name))
		}

		topo.index[c.Name] = len(topo.Catchments)
		topo.Catchments = append(topo.Catchments, c)
	}

	return topo, nil
}

func decodeCatchment(line string) (Catchment, error) {
	toks, err := fields(line, topologyTokens, "subarea topology")
	if err != nil {
		return Catchment{}, err
	}

	coords, err := parseFloats(toks[1:5], "subarea "+toks[0]+" coordinates")
	if err != nil {
		return Catchment{}, err
	}

	return Catchment{
		Name:       toks[0],
		Centroid:   Point{E: coords[0], N: coords[1]},
		Outlet:     Point{E: coords[2], N: coords[3]},
		Downstream: toks[5],
	}, nil
}
