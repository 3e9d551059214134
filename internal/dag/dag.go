// Package dag implements a small generic directed acyclic graph used to order
// tasks by their dependencies.
//
// An edge a -> b means "a depends on b", so b always precedes a in the
// topological order.
package dag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is returned when the graph is not acyclic.
var ErrCycle = errors.New("cycle detected")

// CycleError lists the vertices that could not be ordered because they are
// part of (or depend on) a cycle.
type CycleError[T comparable] struct {
	Unresolved []T
}

func (e *CycleError[T]) Error() string {
	ids := make([]string, 0, len(e.Unresolved))
	for _, v := range e.Unresolved {
		ids = append(ids, fmt.Sprint(v))
	}
	return fmt.Sprintf("%s: %s", ErrCycle, strings.Join(ids, ", "))
}

func (e *CycleError[T]) Unwrap() error { return ErrCycle }

// Graph is a dependency graph. It's not safe for concurrent use.
type Graph[T comparable] struct {
	vertices   []T
	index      map[T]int
	dependsOn  map[T][]T
	dependents map[T][]T
	edges      map[[2]T]struct{}
}

// New returns an empty graph.
func New[T comparable]() *Graph[T] {
	return &Graph[T]{
		index:      map[T]int{},
		dependsOn:  map[T][]T{},
		dependents: map[T][]T{},
		edges:      map[[2]T]struct{}{},
	}
}

// AddVertex adds id and all its dependencies to the graph, recording an edge
// from id to each dependency. Repeated edges are ignored.
func (g *Graph[T]) AddVertex(id T, dependsOn ...T) {
	g.add(id)
	for _, dep := range dependsOn {
		g.add(dep)

		edge := [2]T{id, dep}
		if _, ok := g.edges[edge]; ok {
			continue
		}
		g.edges[edge] = struct{}{}
		g.dependsOn[id] = append(g.dependsOn[id], dep)
		g.dependents[dep] = append(g.dependents[dep], id)
	}
}

func (g *Graph[T]) add(id T) {
	if _, ok := g.index[id]; ok {
		return
	}
	g.index[id] = len(g.vertices)
	g.vertices = append(g.vertices, id)
}

// Has reports whether id is a vertex of the graph.
func (g *Graph[T]) Has(id T) bool {
	_, ok := g.index[id]
	return ok
}

// Vertices returns all the vertices in insertion order.
func (g *Graph[T]) Vertices() []T { return append([]T(nil), g.vertices...) }

// Dependencies returns the vertices id depends on.
func (g *Graph[T]) Dependencies(id T) []T { return append([]T(nil), g.dependsOn[id]...) }

// Dependents returns the vertices that depend on id.
func (g *Graph[T]) Dependents(id T) []T { return append([]T(nil), g.dependents[id]...) }

// TopologicalSort returns all the vertices ordered so every vertex comes after
// its dependencies. Ties are broken by insertion order.
//
// It uses Kahn's algorithm: vertices without unresolved dependencies are
// removed one by one, releasing their dependents. Any vertex left at the end
// belongs to, or depends on, a cycle.
func (g *Graph[T]) TopologicalSort() ([]T, error) {
	inDegree := make([]int, len(g.vertices))
	for i, v := range g.vertices {
		inDegree[i] = len(g.dependsOn[v])
	}

	queue := make([]T, 0, len(g.vertices))
	for i, v := range g.vertices {
		if inDegree[i] == 0 {
			queue = append(queue, v)
		}
	}

	sorted := make([]T, 0, len(g.vertices))
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		sorted = append(sorted, v)

		for _, dependent := range g.dependents[v] {
			i := g.index[dependent]
			inDegree[i]--
			if inDegree[i] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(sorted) != len(g.vertices) {
		var unresolved []T
		for i, v := range g.vertices {
			if inDegree[i] > 0 {
				unresolved = append(unresolved, v)
			}
		}
		return nil, &CycleError[T]{Unresolved: unresolved}
	}

	return sorted, nil
}
