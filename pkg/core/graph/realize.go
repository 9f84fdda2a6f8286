// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"github.com/gomlx/looptrace/backends"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// consume visits the node and its pending ancestors, parents first, freeing each node after
// it is visited.
//
// While the node has parents, the first one is consumed: that is the producer of the output
// buffer, if any, and then the producer of the input buffer. This gives a fixed evaluation order
// shared by Realize and Linearize.
func (g *Graph) consume(id NodeId, visit func(n *node) error) error {
	n := g.nodeOf(id)
	for n.numParents > 0 {
		if err := g.consume(n.parents[0], visit); err != nil {
			return err
		}
		n = g.nodeOf(id)
	}
	if err := visit(n); err != nil {
		return err
	}
	g.cleanup(id)
	return nil
}

// Realize eagerly executes the node and all its pending ancestors on the graph's backend, and
// frees them.
//
// Moves change the live view of their buffer; the other nodes are executed immediately, one
// instruction at a time. Realizing an already consumed node panics.
func (g *Graph) Realize(root NodeId) error {
	var numExecuted int
	err := g.consume(root, func(n *node) error {
		if n.kind == backends.KindMove {
			n.applyMove()
			return nil
		}
		instr := n.instruction()
		if err := g.backend.Execute([]backends.Instruction{instr}); err != nil {
			return errors.WithMessagef(err, "while realizing node %s (%s)", n.id, n)
		}
		numExecuted++
		return nil
	})
	if klog.V(2).Enabled() {
		klog.Infof("Realize(%s): executed %d instructions on %q", root, numExecuted, g.backend.Name())
	}
	return err
}

// RealizeAll realizes every live node, in order of creation.
func (g *Graph) RealizeAll() error {
	for _, id := range g.Live() {
		if !g.IsLive(id) {
			continue
		}
		if err := g.Realize(id); err != nil {
			return err
		}
	}
	return nil
}
