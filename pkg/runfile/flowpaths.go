package runfile

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// RoutingKind selects how flow is carried from a subarea to the one downstream.
type RoutingKind int

const (
	RoutingLag RoutingKind = iota + 1
	RoutingDelay
	RoutingMuskingum
)

var routingKeywords = map[string]RoutingKind{
	"ROUTING": RoutingLag,
	"DELAY":   RoutingDelay,
	"MUSK":    RoutingMuskingum,
}

func (k RoutingKind) String() string {
	switch k {
	case RoutingLag:
		return "routing"
	case RoutingDelay:
		return "delay"
	case RoutingMuskingum:
		return "musk"
	default:
		return fmt.Sprintf("routing(%d)", int(k))
	}
}

// ParseRoutingKind maps a flowpath keyword line such as "#####MUSK" to its kind.
func ParseRoutingKind(line string) (RoutingKind, error) {
	kind, ok := routingKeywords[keyword(line)]
	if !ok {
		return 0, unknownVariant("routing", strings.TrimSpace(line))
	}

	return kind, nil
}

// Routing is one of Lag, Delay or Muskingum.
type Routing interface {
	Kind() RoutingKind
	isRouting()
}

// Lag routes flow through the stream with a lag parameter.
type Lag struct {
	StreamLag float64
}

// Delay shifts flow by a fixed time.
type Delay struct {
	Delay float64
}

// Muskingum routes flow with the Muskingum K and X parameters.
type Muskingum struct {
	K float64
	X float64
}

func (Lag) Kind() RoutingKind       { return RoutingLag }
func (Delay) Kind() RoutingKind     { return RoutingDelay }
func (Muskingum) Kind() RoutingKind { return RoutingMuskingum }

func (Lag) isRouting()       {}
func (Delay) isRouting()     {}
func (Muskingum) isRouting() {}

// Flowpath is the stream routing of one subarea.
type Flowpath struct {
	Name    string
	Routing Routing
}

// Flowpaths lists the subareas that have a stream, in declaration order.
type Flowpaths struct {
	Declared int
	Paths    []Flowpath
	index    map[string]int
}

// Lookup returns the flowpath of the named subarea.
func (f Flowpaths) Lookup(name string) (Flowpath, bool) {
	i, ok := f.index[name]
	if !ok {
		return Flowpath{}, false
	}

	return f.Paths[i], true
}

const flowpathGroup = 3

func decodeFlowpaths(b Block) (Flowpaths, error) {
	if len(b.Lines) == 0 {
		return Flowpaths{}, sectionErr(SectionFlowpaths, 0, malformed("missing subarea count"))
	}

	declared, err := parseCount(b.Lines[0], "subareas with stream")
	if err != nil {
		return Flowpaths{}, sectionErr(SectionFlowpaths, b.lineNo(0), err)
	}

	body := b.Lines[1:]
	if len(body)%flowpathGroup != 0 {
		return Flowpaths{}, sectionErr(SectionFlowpaths, b.lineNo(len(b.Lines)-1),
			malformed("expected groups of %d lines, %d lines left over", flowpathGroup, len(body)%flowpathGroup))
	}

	paths := Flowpaths{
		Declared: declared,
		Paths:    make([]Flowpath, 0, len(body)/flowpathGroup),
		index:    make(map[string]int, len(body)/flowpathGroup),
	}

	for g := 0; g < len(body); g += flowpathGroup {
		first := g + 1 // index of the group's name line within b.Lines
		fp, line, err := decodeFlowpath(body[g], body[g+1], body[g+2])
		if err != nil {
			return Flowpaths{}, sectionErr(SectionFlowpaths, b.lineNo(first+line), err)
		}

		if _, ok := paths.index[fp.Name]; ok {
			return Flowpaths{}, sectionErr(SectionFlowpaths, b.lineNo(first), malformed("duplicate subarea %q", fp.Name))
		}

		paths.index[fp.Name] = len(paths.Paths)
		paths.Paths = append(paths.Paths, fp)
	}

	if len(paths.Paths) != declared {
		return Flowpaths{}, sectionErr(SectionFlowpaths, b.lineNo(0),
			errors.Wrapf(ErrCountMismatch, "declared %d subareas with stream, found %d", declared, len(paths.Paths)))
	}

	return paths, nil
}

// decodeFlowpath decodes one (name, keyword, values) group. On failure it also returns
// the offset of the offending line within the group.
func decodeFlowpath(nameLine, kindLine, valueLine string) (Flowpath, int, error) {
	name := strings.TrimSpace(nameLine)
	if name == "" {
		return Flowpath{}, 0, malformed("empty subarea name")
	}

	kind, err := ParseRoutingKind(kindLine)
	if err != nil {
		return Flowpath{}, 1, err
	}

	var routing Routing

	switch kind {
	case RoutingLag, RoutingDelay:
		toks, err := fields(valueLine, 1, kind.String()+" value")
		if err != nil {
			return Flowpath{}, 2, err
		}

		v, err := parseFloat(toks[0], kind.String())
		if err != nil {
			return Flowpath{}, 2, err
		}

		if kind == RoutingLag {
			routing = Lag{StreamLag: v}
		} else {
			routing = Delay{Delay: v}
		}
	case RoutingMuskingum:
		toks, err := fields(valueLine, 2, "musk values")
		if err != nil {
			return Flowpath{}, 2, err
		}

		values, err := parseFloats(toks, "musk")
		if err != nil {
			return Flowpath{}, 2, err
		}

		routing = Muskingum{K: values[0], X: values[1]}
	}

	return Flowpath{Name: name, Routing: routing}, 0, nil
}
