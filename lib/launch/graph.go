// Copyright 2026 The i3minator Authors
// SPDX-License-Identifier: Apache-2.0

package launch

import (
	"fmt"
	"strings"
)

// Graph orders windows by their "after" dependencies. Node insertion
// order is remembered so that Order is deterministic: among windows
// whose dependencies are satisfied, the one declared first launches
// first.
type Graph struct {
	order      []string
	index      map[string]int
	deps       map[string][]string
	dependents map[string][]string
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		index:      make(map[string]int),
		deps:       make(map[string][]string),
		dependents: make(map[string][]string),
	}
}

// AddNode adds id. Adding an existing id is a no-op.
func (g *Graph) AddNode(id string) {
	if _, ok := g.index[id]; ok {
		return
	}
	g.index[id] = len(g.order)
	g.order = append(g.order, id)
}

// AddEdge records that id must launch after dependency. Both nodes must
// exist.
func (g *Graph) AddEdge(dependency, id string) error {
	if dependency == id {
		return fmt.Errorf("window %q cannot launch after itself", id)
	}
	if _, ok := g.index[dependency]; !ok {
		return fmt.Errorf("window %q: unknown dependency %q", id, dependency)
	}
	if _, ok := g.index[id]; !ok {
		return fmt.Errorf("unknown window %q", id)
	}
	for _, existing := range g.deps[id] {
		if existing == dependency {
			return nil
		}
	}
	g.deps[id] = append(g.deps[id], dependency)
	g.dependents[dependency] = append(g.dependents[dependency], id)
	return nil
}

// CycleError reports windows whose dependencies can never be satisfied.
type CycleError struct {
	// Nodes are the windows left unordered, in declaration order.
	Nodes []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle among windows: %s", strings.Join(e.Nodes, ", "))
}

// Order returns every node such that each appears after all of its
// dependencies. Ties go to declaration order. A cycle yields a
// *CycleError listing the nodes that could not be placed.
func (g *Graph) Order() ([]string, error) {
	remaining := make(map[string]int, len(g.order))
	for _, id := range g.order {
		remaining[id] = len(g.deps[id])
	}

	var ready []string
	for _, id := range g.order {
		if remaining[id] == 0 {
			ready = append(ready, id)
		}
	}

	ordered := make([]string, 0, len(g.order))
	for len(ready) > 0 {
		// Take the earliest-declared ready node.
		best := 0
		for i := 1; i < len(ready); i++ {
			if g.index[ready[i]] < g.index[ready[best]] {
				best = i
			}
		}
		id := ready[best]
		ready = append(ready[:best], ready[best+1:]...)
		ordered = append(ordered, id)

		for _, dependent := range g.dependents[id] {
			remaining[dependent]--
			if remaining[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(ordered) != len(g.order) {
		var stuck []string
		for _, id := range g.order {
			if remaining[id] > 0 {
				stuck = append(stuck, id)
			}
		}
		return ordered, &CycleError{Nodes: stuck}
	}
	return ordered, nil
}
