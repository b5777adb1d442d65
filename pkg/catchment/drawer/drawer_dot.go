package drawer

import (
	"fmt"
	"html"
	"io"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-wbnm/pkg/catchment"
	"github.com/askiada/go-wbnm/pkg/runfile"
)

const (
	maxRGB     = 240
	noRouting  = "none"
	outletNode = "doublecircle"
	plainNode  = "ellipse"
)

var routingRGB = map[string][3]uint8{
	runfile.RoutingLag.String():       {31, 119, 180},
	runfile.RoutingDelay.String():     {255, 127, 14},
	runfile.RoutingMuskingum.String(): {44, 160, 44},
	noRouting:                         {127, 127, 127},
}

// DOTDrawer writes a catchment network as a Graphviz digraph. Edges are coloured by stream
// routing kind and subareas shade from blue to red as their contributing area grows.
// Subareas owning local structures are filled.
type DOTDrawer struct {
	wrt     io.Writer
	options []func(*Description)
}

// NewDOTDrawer creates a drawer writing to wrt.
func NewDOTDrawer(wrt io.Writer, options ...func(*Description)) *DOTDrawer {
	return &DOTDrawer{wrt: wrt, options: options}
}

// Draw writes the DOT description of m.
func (d *DOTDrawer) Draw(m *catchment.Model) error {
	desc, err := generateDOT(m, d.options...)
	if err != nil {
		return errors.Wrap(err, "unable to generate DOT description")
	}

	return renderDOT(d.wrt, desc)
}

// DrawFile writes the DOT description of m to path.
func DrawFile(path string, m *catchment.Model, options ...func(*Description)) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", path)
	}

	defer func() {
		closeErr := file.Close()
		if err == nil && closeErr != nil {
			err = errors.Wrapf(closeErr, "unable to close file %s", path)
		}
	}()

	err = NewDOTDrawer(file, options...).Draw(m)
	if err != nil {
		return errors.Wrapf(err, "unable to draw %s", path)
	}

	return nil
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{quote $v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{quote .Source}}" {{if .Target}}{{$.EdgeOperator}} "{{quote .Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{quote $v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}} {{range $k, $v := .SourceAttributes}}{{$k}}="{{quote $v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

// dotQuoter escapes the content of a DOT double-quoted string.
var dotQuoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Description is the DOT document rendered by the drawer. Options edit it before rendering.
// Quoted values are escaped when rendered; HTMLAttributes are written as given.
type Description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

// GraphAttribute sets a graph-level DOT attribute.
func GraphAttribute(key, value string) func(*Description) {
	return func(d *Description) {
		d.Attributes[key] = value
	}
}

func generateDOT(m *catchment.Model, options ...func(*Description)) (Description, error) {
	desc := Description{
		GraphType:    "digraph",
		Attributes:   map[string]string{"label": m.Name(), "rankdir": "TB"},
		EdgeOperator: "->",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	nodes := m.Nodes()

	areas := make(map[string]float64, len(nodes))
	maxArea := 0.0
	for _, c := range nodes {
		area, err := m.ContributingArea(c.Name)
		if err != nil {
			return desc, errors.Wrap(err, "unable to compute contributing area")
		}

		areas[c.Name] = area
		if area > maxArea {
			maxArea = area
		}
	}

	adjacencyMap, err := m.Graph().AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	for _, c := range nodes {
		stmt, err := nodeStatement(m, c, areas[c.Name], maxArea)
		if err != nil {
			return desc, err
		}
		desc.Statements = append(desc.Statements, stmt)

		// A subarea drains into at most one other.
		for target, edge := range adjacencyMap[c.Name] {
			routing := edge.Properties.Attributes[catchment.AttrRouting]

			colour, err := routingColour(routing)
			if err != nil {
				return desc, err
			}

			desc.Statements = append(desc.Statements, statement{
				Source:     c.Name,
				Target:     target,
				EdgeWeight: edge.Properties.Weight,
				EdgeAttributes: map[string]string{
					"label": routing,
					"color": colour,
				},
			})
		}
	}

	return desc, nil
}

func nodeStatement(m *catchment.Model, c runfile.Catchment, area, maxArea float64) (statement, error) {
	colour, err := areaColour(area, maxArea)
	if err != nil {
		return statement{}, err
	}

	own := 0.0
	if s, ok := m.Surface(c.Name); ok {
		own = s.Area
	}

	attrs := map[string]string{
		"color": colour,
		"shape": plainNode,
	}
	if c.IsOutlet() {
		attrs["shape"] = outletNode
	}

	if n := len(m.Structures(c.Name)); n > 0 {
		attrs["style"] = "filled"
		attrs["fillcolor"] = colour
		attrs["tooltip"] = strconv.Itoa(n) + " local structures"
	}

	return statement{
		Source: c.Name,
		HTMLAttributes: map[string]string{
			"label": fmt.Sprintf(`<%s <BR /> <FONT POINT-SIZE="12">area %s, total %s</FONT>>`,
				html.EscapeString(c.Name), formatArea(own), formatArea(area)),
		},
		SourceAttributes: attrs,
	}, nil
}

func formatArea(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func routingColour(kind string) (string, error) {
	rgb, ok := routingRGB[kind]
	if !ok {
		rgb = routingRGB[noRouting]
	}

	colour, err := colors.RGB(rgb[0], rgb[1], rgb[2]) //nolint
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}

	return colour.ToHEX().String(), nil
}

func areaColour(area, maxArea float64) (string, error) {
	fraction := 1.0
	if maxArea > 0 {
		fraction = area / maxArea
	}

	red := maxRGB * fraction
	blue := maxRGB - red

	colour, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}

	return colour.ToHEX().String(), nil
}

func renderDOT(wrt io.Writer, desc Description) error {
	tpl, err := template.New("dotTemplate").
		Funcs(template.FuncMap{"quote": dotQuoter.Replace}).
		Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "unable to parse template")
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
