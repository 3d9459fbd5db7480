// Package graph models the dependencies between resolution steps.
//
// Nodes are kept in declaration order. An edge from A to B means "A reads B",
// so B must be declared before A.
package graph

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateNode     = errors.New("duplicate node")
	ErrUnknownDependency = errors.New("unknown dependency")
	ErrOrderViolation    = errors.New("dependency declared after dependent")
	ErrSelfDependency    = errors.New("node depends on itself")
)

type Node struct {
	Key       string
	DependsOn []string
}

type DependencyGraph struct {
	nodes []Node
	index map[string]int
}

// New builds a graph from nodes in declaration order.
func New(nodes []Node) (*DependencyGraph, error) {
	g := &DependencyGraph{index: make(map[string]int, len(nodes))}
	for _, n := range nodes {
		if _, dup := g.index[n.Key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateNode, n.Key)
		}
		g.index[n.Key] = len(g.nodes)
		g.nodes = append(g.nodes, Node{Key: n.Key, DependsOn: append([]string(nil), n.DependsOn...)})
	}
	return g, nil
}

// ValidateOrder checks that every dependency is declared strictly before its dependent.
// The first violation in declaration order is reported.
func (g *DependencyGraph) ValidateOrder() error {
	for pos, n := range g.nodes {
		for _, dep := range n.DependsOn {
			if dep == n.Key {
				return fmt.Errorf("%w: %q", ErrSelfDependency, n.Key)
			}
			depPos, ok := g.index[dep]
			if !ok {
				return fmt.Errorf("%w: %q reads %q", ErrUnknownDependency, n.Key, dep)
			}
			if depPos > pos {
				return fmt.Errorf("%w: %q (position %d) reads %q (position %d)", ErrOrderViolation, n.Key, pos, dep, depPos)
			}
		}
	}
	return nil
}

// Has reports whether key is a node of the graph.
func (g *DependencyGraph) Has(key string) bool {
	_, ok := g.index[key]
	return ok
}
