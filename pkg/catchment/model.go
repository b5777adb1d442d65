package catchment

import (
	"strconv"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/go-wbnm/internal/store"
	"github.com/askiada/go-wbnm/pkg/runfile"
)

// Vertex and edge attribute keys set by Build.
const (
	AttrArea       = "area"
	AttrStructures = "structures"
	AttrRouting    = "routing"
)

// Model is a validated catchment network. It is safe for concurrent reads.
type Model struct {
	rf    *runfile.Runfile
	store *store.Catchments
	graph graph.Graph[string, runfile.Catchment]
	rank  map[string]int
}

func catchmentHash(c runfile.Catchment) string {
	return c.Name
}

// Build assembles the network described by rf and validates it. Any broken invariant is
// returned as an *InvariantError matching ErrInvariantViolation.
func Build(rf *runfile.Runfile, opts ...Option) (*Model, error) {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}

	topo := rf.Topology
	if len(topo.Catchments) != topo.Declared {
		return nil, violation(topo.Name, "header declares %d subareas, found %d", topo.Declared, len(topo.Catchments))
	}

	m := &Model{
		rf:    rf,
		store: store.NewCatchments(),
		rank:  make(map[string]int, len(topo.Catchments)),
	}
	m.graph = graph.NewWithStore(catchmentHash, m.store, graph.Directed(), graph.PreventCycles())

	err := m.addVertices(o)
	if err != nil {
		return nil, err
	}

	err = m.addEdges()
	if err != nil {
		return nil, err
	}

	err = m.checkReferences()
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Model) addVertices(o *options) error {
	for i, c := range m.rf.Topology.Catchments {
		attrs := []func(*graph.VertexProperties){
			graph.VertexAttribute(AttrStructures, strconv.Itoa(len(m.rf.LocalStructures.BySubarea(c.Name)))),
		}

		surface, ok := m.rf.Surfaces.Lookup(c.Name)
		if ok {
			attrs = append(attrs, graph.VertexAttribute(AttrArea, strconv.FormatFloat(surface.Area, 'f', -1, 64)))
		} else {
			o.logger.Warn("subarea has no surface", zap.String("subarea", c.Name))
		}

		err := m.graph.AddVertex(c, attrs...)
		if err != nil {
			return errors.Wrapf(err, "unable to add subarea %s", c.Name)
		}

		m.rank[c.Name] = i
	}

	return nil
}

func (m *Model) addEdges() error {
	for _, c := range m.rf.Topology.Catchments {
		if c.IsOutlet() {
			continue
		}

		if _, ok := m.rank[c.Downstream]; !ok {
			return violation(c.Name, "downstream subarea %q is not in the topology", c.Downstream)
		}

		routing := "none"
		if fp, ok := m.rf.Flowpaths.Lookup(c.Name); ok {
			routing = fp.Routing.Kind().String()
		}

		err := m.graph.AddEdge(c.Name, c.Downstream, graph.EdgeAttribute(AttrRouting, routing))
		if errors.Is(err, graph.ErrEdgeCreatesCycle) {
			return violation(c.Name, "draining into %s closes a cycle", c.Downstream)
		}
		if err != nil {
			return errors.Wrapf(err, "unable to link %s to %s", c.Name, c.Downstream)
		}
	}

	return nil
}

func (m *Model) checkReferences() error {
	for _, s := range m.rf.Surfaces.Catchments {
		if _, ok := m.rank[s.Name]; !ok {
			return violation(s.Name, "surface names a subarea missing from the topology")
		}
	}

	for _, fp := range m.rf.Flowpaths.Paths {
		if _, ok := m.rank[fp.Name]; !ok {
			return violation(fp.Name, "flowpath names a subarea missing from the topology")
		}
	}

	for _, ls := range m.rf.LocalStructures.Structures {
		if _, ok := m.rank[ls.Subarea]; !ok {
			return violation(ls.Subarea, "local structure #%d names a subarea missing from the topology", ls.Index)
		}
	}

	return nil
}

// Name returns the catchment name from the topology header.
func (m *Model) Name() string {
	return m.rf.Topology.Name
}

// Runfile returns the decoded runfile the model was built from.
func (m *Model) Runfile() *runfile.Runfile {
	return m.rf
}

// Graph exposes the underlying network for drawers. Callers must not mutate it.
func (m *Model) Graph() graph.Graph[string, runfile.Catchment] {
	return m.graph
}

// Nodes returns the subareas in declaration order.
func (m *Model) Nodes() []runfile.Catchment {
	res := make([]runfile.Catchment, len(m.rf.Topology.Catchments))
	copy(res, m.rf.Topology.Catchments)

	return res
}

// Node returns the subarea called name.
func (m *Model) Node(name string) (runfile.Catchment, bool) {
	return m.rf.Topology.Lookup(name)
}

// Downstream returns the subarea name drains into. ok is false for outlets and unknown names.
func (m *Model) Downstream(name string) (string, bool) {
	c, ok := m.rf.Topology.Lookup(name)
	if !ok || c.IsOutlet() {
		return "", false
	}

	return c.Downstream, true
}

// Upstream returns the subareas draining directly into name, in declaration order.
func (m *Model) Upstream(name string) []string {
	return m.store.Upstream(name)
}

// Outlets returns the subareas that leave the network, in declaration order.
func (m *Model) Outlets() []string {
	var res []string
	for _, c := range m.rf.Topology.Catchments {
		if c.IsOutlet() {
			res = append(res, c.Name)
		}
	}

	return res
}

// PathToOutlet returns name followed by every subarea downstream of it, ending at an outlet.
func (m *Model) PathToOutlet(name string) ([]string, error) {
	c, ok := m.rf.Topology.Lookup(name)
	if !ok {
		return nil, errors.Wrapf(graph.ErrVertexNotFound, "unable to find subarea %s", name)
	}

	path := []string{c.Name}
	for !c.IsOutlet() {
		c, _ = m.rf.Topology.Lookup(c.Downstream)
		path = append(path, c.Name)
	}

	return path, nil
}

// RoutingOrder returns every subarea after all of its upstream subareas. Ties keep declaration order.
func (m *Model) RoutingOrder() ([]string, error) {
	order, err := graph.StableTopologicalSort(m.graph, func(a, b string) bool {
		return m.rank[a] < m.rank[b]
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to sort subareas")
	}

	return order, nil
}

// Surface returns the surface parameters of name.
func (m *Model) Surface(name string) (runfile.Surface, bool) {
	return m.rf.Surfaces.Lookup(name)
}

// Flowpath returns the stream routing of name. Subareas without a stream have none.
func (m *Model) Flowpath(name string) (runfile.Flowpath, bool) {
	return m.rf.Flowpaths.Lookup(name)
}

// Structures returns the local structures owned by name.
func (m *Model) Structures(name string) []runfile.LocalStructure {
	return m.rf.LocalStructures.BySubarea(name)
}

// ContributingArea sums the surface area of name and of every subarea upstream of it.
func (m *Model) ContributingArea(name string) (float64, error) {
	if _, ok := m.rank[name]; !ok {
		return 0, errors.Wrapf(graph.ErrVertexNotFound, "unable to find subarea %s", name)
	}

	var total float64
	stack := []string{name}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if s, ok := m.rf.Surfaces.Lookup(current); ok {
			total += s.Area
		}

		stack = append(stack, m.store.Upstream(current)...)
	}

	return total, nil
}
