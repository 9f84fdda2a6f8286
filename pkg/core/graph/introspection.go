// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import "github.com/gomlx/looptrace/backends"

// This file defines methods that allow for introspection of the graph.
//
// The API is limited -- because we want flexibility to change the implementation without concerns on breaking
// compatibility.

// Parents returns the live nodes the given node still waits on: the producer of its output
// buffer first, then the producer of its input buffer.
// It's an "introspection" method.
func (g *Graph) Parents(id NodeId) []NodeId {
	return g.nodeOf(id).Parents()
}

// Children returns the live nodes that depend on the given node, in order of creation.
// It's an "introspection" method.
func (g *Graph) Children(id NodeId) []NodeId {
	n := g.nodeOf(id)
	children := make([]NodeId, 0, len(n.children))
	for _, child := range n.children {
		if g.IsLive(child) {
			children = append(children, child)
		}
	}
	return children
}

// Kind returns the kind of operation of the node.
// It's an "introspection" method.
func (g *Graph) Kind(id NodeId) backends.Kind {
	return g.nodeOf(id).kind
}

// Describe returns a one-line description of the node, e.g.: "Unary.Add(2) out=x".
// It's an "introspection" method.
func (g *Graph) Describe(id NodeId) string {
	return g.nodeOf(id).String()
}
