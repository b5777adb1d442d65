// Package store holds the vertex and edge storage behind a catchment network graph.
package store

import (
	"fmt"
	"sync"

	"github.com/dominikbraun/graph"

	"github.com/askiada/go-wbnm/pkg/runfile"
)

// Catchments is a graph.Store for catchment networks. Unlike the default memory store it
// lists vertices in the order they were added, which is the runfile declaration order.
type Catchments struct {
	lock             sync.RWMutex
	order            []string
	vertices         map[string]runfile.Catchment
	vertexProperties map[string]*graph.VertexProperties

	// outEdges and inEdges store all outgoing and ingoing edges for all vertices. For O(1) access,
	// these edges themselves are stored in maps whose keys are the hashes of the target vertices.
	outEdges map[string]map[string]graph.Edge[string] // upstream -> downstream
	inEdges  map[string]map[string]graph.Edge[string] // downstream -> upstream
}

// NewCatchments returns an empty store.
func NewCatchments() *Catchments {
	return &Catchments{
		vertices:         make(map[string]runfile.Catchment),
		vertexProperties: make(map[string]*graph.VertexProperties),
		outEdges:         make(map[string]map[string]graph.Edge[string]),
		inEdges:          make(map[string]map[string]graph.Edge[string]),
	}
}

func (s *Catchments) AddVertex(name string, c runfile.Catchment, p graph.VertexProperties) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.vertices[name]; ok {
		return graph.ErrVertexAlreadyExists
	}

	s.order = append(s.order, name)
	s.vertices[name] = c
	s.vertexProperties[name] = &p

	return nil
}

// ListVertices returns the vertex hashes in insertion order.
func (s *Catchments) ListVertices() ([]string, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	hashes := make([]string, len(s.order))
	copy(hashes, s.order)

	return hashes, nil
}

func (s *Catchments) VertexCount() (int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return len(s.vertices), nil
}

func (s *Catchments) Vertex(name string) (runfile.Catchment, graph.VertexProperties, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	v, ok := s.vertices[name]
	if !ok {
		return v, graph.VertexProperties{}, graph.ErrVertexNotFound
	}

	p := s.vertexProperties[name]

	return v, *p, nil
}

func (s *Catchments) RemoveVertex(name string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.vertices[name]; !ok {
		return graph.ErrVertexNotFound
	}

	if edges, ok := s.inEdges[name]; ok {
		if len(edges) > 0 {
			return graph.ErrVertexHasEdges
		}
		delete(s.inEdges, name)
	}

	if edges, ok := s.outEdges[name]; ok {
		if len(edges) > 0 {
			return graph.ErrVertexHasEdges
		}
		delete(s.outEdges, name)
	}

	for i, hash := range s.order {
		if hash == name {
			s.order = append(s.order[:i], s.order[i+1:]...)

			break
		}
	}

	delete(s.vertices, name)
	delete(s.vertexProperties, name)

	return nil
}

func (s *Catchments) AddEdge(sourceHash, targetHash string, edge graph.Edge[string]) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.outEdges[sourceHash]; !ok {
		s.outEdges[sourceHash] = make(map[string]graph.Edge[string])
	}

	s.outEdges[sourceHash][targetHash] = edge

	if _, ok := s.inEdges[targetHash]; !ok {
		s.inEdges[targetHash] = make(map[string]graph.Edge[string])
	}

	s.inEdges[targetHash][sourceHash] = edge

	return nil
}

func (s *Catchments) UpdateEdge(sourceHash, targetHash string, edge graph.Edge[string]) error {
	if _, err := s.Edge(sourceHash, targetHash); err != nil {
		return err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.outEdges[sourceHash][targetHash] = edge
	s.inEdges[targetHash][sourceHash] = edge

	return nil
}

func (s *Catchments) RemoveEdge(sourceHash, targetHash string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.inEdges[targetHash], sourceHash)
	delete(s.outEdges[sourceHash], targetHash)

	return nil
}

func (s *Catchments) Edge(sourceHash, targetHash string) (graph.Edge[string], error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	sourceEdges, ok := s.outEdges[sourceHash]
	if !ok {
		return graph.Edge[string]{}, graph.ErrEdgeNotFound
	}

	edge, ok := sourceEdges[targetHash]
	if !ok {
		return graph.Edge[string]{}, graph.ErrEdgeNotFound
	}

	return edge, nil
}

func (s *Catchments) ListEdges() ([]graph.Edge[string], error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	res := make([]graph.Edge[string], 0)
	for _, source := range s.order {
		for _, edge := range s.outEdges[source] {
			res = append(res, edge)
		}
	}

	return res, nil
}

// Upstream returns the hashes of the vertices with an edge into name, in insertion order.
func (s *Catchments) Upstream(name string) []string {
	s.lock.RLock()
	defer s.lock.RUnlock()

	in := s.inEdges[name]
	if len(in) == 0 {
		return nil
	}

	res := make([]string, 0, len(in))
	for _, hash := range s.order {
		if _, ok := in[hash]; ok {
			res = append(res, hash)
		}
	}

	return res
}

// CreatesCycle is a fastpath version of [graph.CreatesCycle] that avoids calling
// [graph.Graph.PredecessorMap], which generates large amounts of garbage to collect.
//
// Because CreatesCycle doesn't need to modify the PredecessorMap, we can use
// inEdges instead to compute the same thing without creating any copies.
func (s *Catchments) CreatesCycle(source, target string) (bool, error) {
	if _, _, err := s.Vertex(source); err != nil {
		return false, fmt.Errorf("could not get vertex with hash %v: %w", source, err)
	}

	if _, _, err := s.Vertex(target); err != nil {
		return false, fmt.Errorf("could not get vertex with hash %v: %w", target, err)
	}

	if source == target {
		return true, nil
	}

	s.lock.RLock()
	defer s.lock.RUnlock()

	stack := make([]string, 0)
	visited := make(map[string]struct{})

	stack = append(stack, source)
	for len(stack) > 0 {
		currentHash := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := visited[currentHash]; !ok {
			// If the adjacent vertex also is the target vertex, the target is a
			// parent of the source vertex. An edge would introduce a cycle.
			if currentHash == target {
				return true, nil
			}

			visited[currentHash] = struct{}{}

			for adjacency := range s.inEdges[currentHash] {
				stack = append(stack, adjacency)
			}
		}
	}

	return false, nil
}

var _ graph.Store[string, runfile.Catchment] = (*Catchments)(nil)
