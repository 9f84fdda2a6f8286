// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package graph builds lazy computations over buffers, and either realizes them eagerly or
// linearizes them into a flat trace of backends.Instruction.
//
// Each operation call creates a node that depends on the node that last produced (wrote or
// moved) its output buffer and, for binary and reduce ops, the node that last produced its
// input buffer. Nothing is computed until the node (or the whole graph) is realized or
// linearized. Both consume the nodes: a NodeId can be used only once.
//
// Example:
//
//	g := graph.New(backend)
//	x := buffers.New("x", 1, 1, 3, 3)
//	g.Set(x, 5)
//	root := g.AddScalar(x, 2)
//	trace := g.Linearize(root)
//	err := backend.Execute(trace)  // x is now filled with 7.
//
// A Graph is not safe for concurrent use.
package graph

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/looptrace/backends"
	"github.com/gomlx/looptrace/pkg/core/buffers"
)

// NodeId identifies a node within a Graph.
//
// Slots of consumed nodes are reused with a new generation, so an id of a consumed node is
// never confused with the node that took its place.
type NodeId struct {
	index      int32
	generation uint32
}

// InvalidNodeId is the zero value of NodeId: generations start at 1.
var InvalidNodeId = NodeId{}

// String implements fmt.Stringer.
func (id NodeId) String() string {
	if id == InvalidNodeId {
		return "#invalid"
	}
	return fmt.Sprintf("#%d.%d", id.index, id.generation)
}

// Graph is an arena of pending operations over buffers.
type Graph struct {
	backend backends.Backend

	// nodes is the arena. Slots of consumed nodes are listed in freeSlots and reused.
	nodes     []node
	freeSlots []int32

	// lastProducer maps a buffer id to the last live node that wrote or moved it.
	lastProducer map[int64]NodeId

	// nextSerial numbers the nodes in order of creation.
	nextSerial int64
	numLive    int
}

// New creates an empty Graph whose eager realizations run on the given backend.
func New(backend backends.Backend) *Graph {
	if backend == nil {
		exceptions.Panicf("graph.New() requires a non-nil backend")
	}
	return &Graph{
		backend:      backend,
		lastProducer: make(map[int64]NodeId),
	}
}

// Backend used by the eager realization.
func (g *Graph) Backend() backends.Backend {
	return g.backend
}

// NumLive returns the number of nodes created and not yet realized or linearized.
func (g *Graph) NumLive() int {
	return g.numLive
}

// IsLive returns whether id refers to a node that has not been consumed yet.
func (g *Graph) IsLive(id NodeId) bool {
	if id.index < 0 || int(id.index) >= len(g.nodes) {
		return false
	}
	n := &g.nodes[id.index]
	return n.live && n.id == id
}

// nodeOf returns the node for the given id, and panics if it is not live.
func (g *Graph) nodeOf(id NodeId) *node {
	if !g.IsLive(id) {
		exceptions.Panicf("node %s is not live: it was already realized/linearized, or it belongs to another graph", id)
	}
	return &g.nodes[id.index]
}

// Live returns the ids of the live nodes in order of creation.
func (g *Graph) Live() []NodeId {
	ids := make([]NodeId, 0, g.numLive)
	for ii := range g.nodes {
		if g.nodes[ii].live {
			ids = append(ids, g.nodes[ii].id)
		}
	}
	slices.SortFunc(ids, func(a, b NodeId) int {
		return cmp.Compare(g.nodes[a.index].serial, g.nodes[b.index].serial)
	})
	return ids
}

// LastProducer returns the live node that last wrote or moved the buffer, or InvalidNodeId
// if there is none pending.
func (g *Graph) LastProducer(b *buffers.Buffer) NodeId {
	id, found := g.lastProducer[b.ID()]
	if !found {
		return InvalidNodeId
	}
	return id
}

// registerNode allocates an arena slot for n, links it to its parents and makes it the last
// producer of its output buffer.
func (g *Graph) registerNode(n node) NodeId {
	var index int32
	var generation uint32 = 1
	if numFree := len(g.freeSlots); numFree > 0 {
		index = g.freeSlots[numFree-1]
		g.freeSlots = g.freeSlots[:numFree-1]
		generation = g.nodes[index].id.generation + 1
	} else {
		index = int32(len(g.nodes))
		g.nodes = append(g.nodes, node{})
	}
	n.id = NodeId{index: index, generation: generation}
	n.serial = g.nextSerial
	n.live = true
	g.nextSerial++
	g.numLive++

	// Parents: producer of the output buffer first, then producer of the input buffer.
	if parent := g.LastProducer(n.out); parent != InvalidNodeId {
		n.addParent(parent)
	}
	if n.in != nil {
		if parent := g.LastProducer(n.in); parent != InvalidNodeId {
			n.addParent(parent)
		}
	}
	g.nodes[index] = n
	for _, parent := range n.Parents() {
		p := &g.nodes[parent.index]
		p.children = append(p.children, n.id)
	}
	g.lastProducer[n.out.ID()] = n.id
	return n.id
}

// cleanup releases a node after its effect was realized or linearized: it is removed from
// its children's parent lists, and its slot is freed for reuse.
func (g *Graph) cleanup(id NodeId) {
	n := g.nodeOf(id)
	if n.numParents > 0 {
		exceptions.Panicf("node %s freed while still depending on %v", id, n.Parents())
	}
	for _, childId := range n.children {
		if g.IsLive(childId) {
			g.nodes[childId.index].removeParent(id)
		}
	}
	if g.lastProducer[n.out.ID()] == id {
		delete(g.lastProducer, n.out.ID())
	}
	g.nodes[id.index] = node{id: id}
	g.freeSlots = append(g.freeSlots, id.index)
	g.numLive--
}

// String converts the Graph to a multiline string with a description of the live nodes.
func (g *Graph) String() string {
	if g == nil {
		return "Graph(nil)!?"
	}
	parts := []string{fmt.Sprintf("Graph: %d live nodes, backend %q", g.numLive, g.backend.Name())}
	for _, id := range g.Live() {
		n := &g.nodes[id.index]
		line := fmt.Sprintf("\t%s\t%s", id, n)
		if n.numParents > 0 {
			line += fmt.Sprintf("\tparents=%v", n.Parents())
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, "\n")
}
