package runfile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// StructureKind is the hydraulic relationship a local structure is described by.
type StructureKind int

const (
	// StructureHSQ is a tabulated head-storage-discharge relationship.
	StructureHSQ StructureKind = iota + 1
	// StructureHS is a head-discharge relationship computed from outlets.
	StructureHS
	// StructureHSTWF, StructureHSTWR and StructureHSTWC are the total-width variants of StructureHS.
	StructureHSTWF
	StructureHSTWR
	StructureHSTWC
)

var structureKeywords = map[string]StructureKind{
	"H_S_Q":    StructureHSQ,
	"H_S":      StructureHS,
	"H_S(TWF)": StructureHSTWF,
	"H_S(TWR)": StructureHSTWR,
	"H_S(TWC)": StructureHSTWC,
}

func (k StructureKind) String() string {
	switch k {
	case StructureHSQ:
		return "hsq"
	case StructureHS:
		return "hs"
	case StructureHSTWF:
		return "hs_twf"
	case StructureHSTWR:
		return "hs_twr"
	case StructureHSTWC:
		return "hs_twc"
	default:
		return fmt.Sprintf("structure(%d)", int(k))
	}
}

// ParseStructureKind maps a keyword such as "#####H_S(TWF)" to its kind.
func ParseStructureKind(tok string) (StructureKind, error) {
	kind, ok := structureKeywords[keyword(tok)]
	if !ok {
		return 0, unknownVariant("structure", strings.TrimSpace(tok))
	}

	return kind, nil
}

// OutletKind is the shape of a structure outlet.
type OutletKind int

const (
	OutletBox OutletKind = iota + 1
	OutletPipe
	OutletWeir
	OutletScour
)

var outletKeywords = map[string]OutletKind{
	"BOX":   OutletBox,
	"PIPE":  OutletPipe,
	"WEIR":  OutletWeir,
	"SCOUR": OutletScour,
}

func (k OutletKind) String() string {
	switch k {
	case OutletBox:
		return "box"
	case OutletPipe:
		return "pipe"
	case OutletWeir:
		return "weir"
	case OutletScour:
		return "scour"
	default:
		return fmt.Sprintf("outlet(%d)", int(k))
	}
}

// ParseOutletKind maps an outlet keyword line such as "#####WEIR" to its kind.
func ParseOutletKind(line string) (OutletKind, error) {
	kind, ok := outletKeywords[keyword(line)]
	if !ok {
		return 0, unknownVariant("outlet", strings.TrimSpace(line))
	}

	return kind, nil
}

// Outlet is one of Box, Pipe, Weir or Scour.
type Outlet interface {
	Kind() OutletKind
	isOutlet()
}

// Box is a set of identical box culverts.
type Box struct {
	Number int
	Width  float64
	Height float64
	Invert float64
}

// Pipe is a set of identical circular culverts.
type Pipe struct {
	Number   int
	Diameter float64
	Invert   float64
}

// Weir is a broad or sharp crested overflow.
type Weir struct {
	Length      float64
	Crest       float64
	Coefficient float64
}

// Scour is a low level scour outlet.
type Scour struct {
	Width  float64
	Invert float64
}

func (Box) Kind() OutletKind   { return OutletBox }
func (Pipe) Kind() OutletKind  { return OutletPipe }
func (Weir) Kind() OutletKind  { return OutletWeir }
func (Scour) Kind() OutletKind { return OutletScour }

func (Box) isOutlet()   {}
func (Pipe) isOutlet()  {}
func (Weir) isOutlet()  {}
func (Scour) isOutlet() {}

// StorageRow is one row of a head-storage-discharge table.
type StorageRow struct {
	Head      float64
	Storage   float64
	Discharge float64
}

// LocalStructure is a hydraulic control at the outlet of a subarea.
// Table is set for StructureHSQ, Outlets for every other kind.
type LocalStructure struct {
	Index       int
	Description string
	Subarea     string
	Kind        StructureKind
	Table       []StorageRow
	Outlets     []Outlet
}

// LocalStructures lists the numbered structures of the runfile.
type LocalStructures struct {
	Declared   int
	Structures []LocalStructure
}

// BySubarea returns the structures attached to the named subarea.
func (ls LocalStructures) BySubarea(name string) []LocalStructure {
	var out []LocalStructure

	for _, s := range ls.Structures {
		if s.Subarea == name {
			out = append(out, s)
		}
	}

	return out
}

func decodeLocalStructures(b Block) (LocalStructures, []int, error) {
	if len(b.Lines) == 0 {
		return LocalStructures{}, nil, sectionErr(SectionLocalStructures, 0, malformed("missing structure count"))
	}

	declared, err := parseCount(b.Lines[0], "local structures")
	if err != nil {
		return LocalStructures{}, nil, sectionErr(SectionLocalStructures, b.lineNo(0), err)
	}

	body := b.Lines[1:]
	out := LocalStructures{
		Declared:   declared,
		Structures: make([]LocalStructure, 0, min(declared, len(body))),
	}

	var unterminated []int

	for i := 1; i <= declared; i++ {
		sub := ScanBlock(body, localStructureMarker(i))
		if !sub.Found {
			return LocalStructures{}, nil, sectionErr(SectionLocalStructures, b.lineNo(0),
				errors.Wrapf(ErrCountMismatch, "declared %d structures, structure #%d not found", declared, i))
		}

		// rebase the nested offset onto the runfile
		sub.Offset += b.Offset + 1
		if !sub.Terminated {
			unterminated = append(unterminated, i)
		}

		ls, err := decodeLocalStructure(i, sub)
		if err != nil {
			return LocalStructures{}, nil, err
		}

		out.Structures = append(out.Structures, ls)
	}

	if extra := ScanBlock(body, localStructureMarker(declared+1)); extra.Found {
		return LocalStructures{}, nil, sectionErr(SectionLocalStructures, b.lineNo(0),
			errors.Wrapf(ErrCountMismatch, "declared %d structures, found structure #%d", declared, declared+1))
	}

	return out, unterminated, nil
}

func decodeLocalStructure(index int, b Block) (LocalStructure, error) {
	fail := func(i int, err error) error {
		return sectionErr(SectionLocalStructures, b.lineNo(i), errors.Wrapf(err, "structure #%d", index))
	}

	if len(b.Lines) < 3 {
		return LocalStructure{}, sectionErr(SectionLocalStructures, b.lineNo(0)-1,
			errors.Wrapf(malformed("expected at least 3 lines, found %d", len(b.Lines)), "structure #%d", index))
	}

	head := strings.Fields(b.Lines[0])
	if len(head) < 2 {
		return LocalStructure{}, fail(0, malformed("description line has no structure keyword"))
	}

	kind, err := ParseStructureKind(head[1])
	if err != nil {
		return LocalStructure{}, fail(0, err)
	}

	ls := LocalStructure{
		Index:       index,
		Description: strings.TrimSpace(b.Lines[0]),
		Subarea:     strings.TrimSpace(b.Lines[1]),
		Kind:        kind,
	}
	if ls.Subarea == "" {
		return LocalStructure{}, fail(1, malformed("empty subarea name"))
	}

	count, err := parseCount(b.Lines[2], kind.String()+" rows")
	if err != nil {
		return LocalStructure{}, fail(2, err)
	}

	if kind == StructureHSQ {
		ls.Table, err = decodeStorageTable(b, count, fail)
	} else {
		ls.Outlets, err = decodeOutlets(b, count, fail)
	}
	if err != nil {
		return LocalStructure{}, err
	}

	return ls, nil
}

func decodeStorageTable(b Block, rows int, fail func(int, error) error) ([]StorageRow, error) {
	const first = 3
	if rows > len(b.Lines)-first {
		return nil, fail(len(b.Lines)-1, malformed("expected %d table rows, found %d", rows, len(b.Lines)-first))
	}

	table := make([]StorageRow, rows)
	for r := 0; r < rows; r++ {
		toks, err := fields(b.Lines[first+r], 3, "head storage discharge row")
		if err != nil {
			return nil, fail(first+r, err)
		}

		values, err := parseFloats(toks, "head storage discharge row")
		if err != nil {
			return nil, fail(first+r, err)
		}

		table[r] = StorageRow{Head: values[0], Storage: values[1], Discharge: values[2]}
	}

	return table, nil
}

func decodeOutlets(b Block, count int, fail func(int, error) error) ([]Outlet, error) {
	const first = 3
	if count > (len(b.Lines)-first)/2 {
		return nil, fail(len(b.Lines)-1, malformed("expected %d outlets, found %d lines", count, len(b.Lines)-first))
	}

	outlets := make([]Outlet, count)
	for o := 0; o < count; o++ {
		kindLine := first + 2*o

		kind, err := ParseOutletKind(b.Lines[kindLine])
		if err != nil {
			return nil, fail(kindLine, err)
		}

		outlet, err := decodeOutlet(kind, b.Lines[kindLine+1])
		if err != nil {
			return nil, fail(kindLine+1, err)
		}

		outlets[o] = outlet
	}

	return outlets, nil
}

var outletTokens = map[OutletKind]int{
	OutletBox:   4,
	OutletPipe:  3,
	OutletWeir:  3,
	OutletScour: 2,
}

func decodeOutlet(kind OutletKind, line string) (Outlet, error) {
	toks, err := fields(line, outletTokens[kind], kind.String()+" geometry")
	if err != nil {
		return nil, err
	}

	switch kind {
	case OutletBox, OutletPipe:
		number, err := strconv.Atoi(toks[0])
		if err != nil || number < 1 {
			return nil, malformed("%s count: %q is not a positive integer", kind, toks[0])
		}

		values, err := parseFloats(toks[1:], kind.String()+" geometry")
		if err != nil {
			return nil, err
		}

		if kind == OutletBox {
			return Box{Number: number, Width: values[0], Height: values[1], Invert: values[2]}, nil
		}

		return Pipe{Number: number, Diameter: values[0], Invert: values[1]}, nil
	case OutletWeir:
		values, err := parseFloats(toks, "weir geometry")
		if err != nil {
			return nil, err
		}

		return Weir{Length: values[0], Crest: values[1], Coefficient: values[2]}, nil
	default:
		values, err := parseFloats(toks, "scour geometry")
		if err != nil {
			return nil, err
		}

		return Scour{Width: values[0], Invert: values[1]}, nil
	}
}
