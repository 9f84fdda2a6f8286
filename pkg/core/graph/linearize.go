// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/looptrace/backends"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Linearize flattens the node and its pending ancestors into a trace of instructions, in the
// same order Realize would execute them, and frees them.
//
// Each instruction captures the views its buffers have at that point of the trace: moves are
// applied to the live buffer views as they are reached, and are not emitted. So after
// Linearize the buffers are left with their final views, and executing the trace produces
// the same contents Realize would.
//
// Linearizing an already consumed node panics, and so does reaching an instruction that
// isn't valid for the views its buffers have at that point (e.g. a binary op on views of
// different sizes), for which Realize would return an error.
func (g *Graph) Linearize(root NodeId) []backends.Instruction {
	return g.linearizeInto(nil, root)
}

// LinearizeAll linearizes every live node, in order of creation, into a single trace.
func (g *Graph) LinearizeAll() []backends.Instruction {
	var trace []backends.Instruction
	numNodes := g.numLive
	for _, id := range g.Live() {
		if g.IsLive(id) {
			trace = g.linearizeInto(trace, id)
		}
	}
	klog.V(1).Infof("LinearizeAll: %d nodes flattened into %d instructions", numNodes, len(trace))
	return trace
}

func (g *Graph) linearizeInto(trace []backends.Instruction, root NodeId) []backends.Instruction {
	start := len(trace)
	err := g.consume(root, func(n *node) error {
		if n.kind == backends.KindMove {
			n.applyMove()
			return nil
		}
		instr := n.instruction()
		if err := instr.Validate(); err != nil {
			return errors.WithMessagef(err, "node %s (%s)", n.id, n)
		}
		trace = append(trace, instr)
		return nil
	})
	if err != nil {
		exceptions.Panicf("Linearize(%s): %+v", root, err)
	}
	klog.V(1).Infof("Linearize(%s): %d instructions", root, len(trace)-start)
	return trace
}
