package dag

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Vertex is a node in the graph. DependsOn holds the ids this vertex needs
// to come after.
type Vertex[T cmp.Ordered] struct {
	ID        T
	Order     int
	DependsOn map[T]struct{}
}

// DirectedAcyclicGraph is a set of vertices and dependency edges that never
// contains a cycle.
type DirectedAcyclicGraph[T cmp.Ordered] struct {
	Vertices map[T]*Vertex[T]
}

// CycleError is returned when an edge or a sort would close a cycle.
type CycleError[T cmp.Ordered] struct {
	Cycle []T
}

func (e *CycleError[T]) Error() string {
	parts := make([]string, len(e.Cycle))
	for i, id := range e.Cycle {
		parts[i] = fmt.Sprint(id)
	}
	return "graph contains a cycle: " + strings.Join(parts, " -> ")
}

// AsCycleError returns the CycleError wrapped in err, or nil.
func AsCycleError[T cmp.Ordered](err error) *CycleError[T] {
	var ce *CycleError[T]
	if errors.As(err, &ce) {
		return ce
	}
	return nil
}

// NewDirectedAcyclicGraph creates an empty graph.
func NewDirectedAcyclicGraph[T cmp.Ordered]() *DirectedAcyclicGraph[T] {
	return &DirectedAcyclicGraph[T]{Vertices: make(map[T]*Vertex[T])}
}

// AddVertex adds a vertex. Adding an id twice is an error.
func (d *DirectedAcyclicGraph[T]) AddVertex(id T, order int) error {
	if _, exists := d.Vertices[id]; exists {
		return fmt.Errorf("vertex %v already exists", id)
	}
	d.Vertices[id] = &Vertex[T]{ID: id, Order: order, DependsOn: make(map[T]struct{})}
	return nil
}

// AddDependencies records that from depends on every id in deps. The graph is
// left unchanged if any edge is invalid or would introduce a cycle.
func (d *DirectedAcyclicGraph[T]) AddDependencies(from T, deps []T) error {
	v, ok := d.Vertices[from]
	if !ok {
		return fmt.Errorf("vertex %v does not exist", from)
	}
	added := make([]T, 0, len(deps))
	for _, dep := range deps {
		if dep == from {
			d.rollback(v, added)
			return fmt.Errorf("vertex %v cannot depend on itself", from)
		}
		if _, ok := d.Vertices[dep]; !ok {
			d.rollback(v, added)
			return fmt.Errorf("dependency %v of %v does not exist", dep, from)
		}
		if _, dup := v.DependsOn[dep]; dup {
			continue
		}
		v.DependsOn[dep] = struct{}{}
		added = append(added, dep)
	}
	if cyclic, cycle := d.hasCycle(); cyclic {
		d.rollback(v, added)
		return &CycleError[T]{Cycle: cycle}
	}
	return nil
}

func (d *DirectedAcyclicGraph[T]) rollback(v *Vertex[T], added []T) {
	for _, dep := range added {
		delete(v.DependsOn, dep)
	}
}

// TopologicalSort returns every vertex id such that each id appears after all
// of its dependencies. Among vertices whose dependencies are satisfied, the one
// with the lowest Order comes first.
func (d *DirectedAcyclicGraph[T]) TopologicalSort() ([]T, error) {
	if cyclic, cycle := d.hasCycle(); cyclic {
		return nil, &CycleError[T]{Cycle: cycle}
	}

	remaining := make(map[T]int, len(d.Vertices))
	dependents := make(map[T][]T, len(d.Vertices))
	for id, v := range d.Vertices {
		remaining[id] = len(v.DependsOn)
		for dep := range v.DependsOn {
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var ready []*Vertex[T]
	for id, n := range remaining {
		if n == 0 {
			ready = append(ready, d.Vertices[id])
		}
	}

	out := make([]T, 0, len(d.Vertices))
	for len(ready) > 0 {
		slices.SortFunc(ready, d.compare)
		next := ready[0]
		ready = ready[1:]
		out = append(out, next.ID)
		for _, dependent := range dependents[next.ID] {
			remaining[dependent]--
			if remaining[dependent] == 0 {
				ready = append(ready, d.Vertices[dependent])
			}
		}
	}
	return out, nil
}

func (d *DirectedAcyclicGraph[T]) compare(a, b *Vertex[T]) int {
	if c := cmp.Compare(a.Order, b.Order); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// hasCycle reports whether the graph has a cycle and, if so, one cycle path.
func (d *DirectedAcyclicGraph[T]) hasCycle() (bool, []T) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[T]int, len(d.Vertices))
	var path []T

	ids := make([]T, 0, len(d.Vertices))
	for id := range d.Vertices {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var visit func(id T) []T
	visit = func(id T) []T {
		state[id] = visiting
		path = append(path, id)

		deps := make([]T, 0, len(d.Vertices[id].DependsOn))
		for dep := range d.Vertices[id].DependsOn {
			deps = append(deps, dep)
		}
		slices.Sort(deps)

		for _, dep := range deps {
			switch state[dep] {
			case visiting:
				start := slices.Index(path, dep)
				cycle := append(slices.Clone(path[start:]), dep)
				return cycle
			case unvisited:
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			}
		}
		path = path[:len(path)-1]
		state[id] = done
		return nil
	}

	for _, id := range ids {
		if state[id] == unvisited {
			if cycle := visit(id); cycle != nil {
				return true, cycle
			}
		}
	}
	return false, nil
}
