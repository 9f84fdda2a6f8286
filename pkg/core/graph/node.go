// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/looptrace/backends"
	"github.com/gomlx/looptrace/pkg/core/buffers"
)

// MaxParents is the maximum number of parents of a node: the producer of its output buffer
// and the producer of its input buffer.
const MaxParents = 2

// node is one pending operation. Only the sub-op matching kind is meaningful.
type node struct {
	id     NodeId
	serial int64
	live   bool

	kind   backends.Kind
	unary  backends.UnaryOp
	binary backends.BinaryOp
	reduce backends.ReduceOp
	move   backends.MoveOp
	scalar float64

	// moveArgs are the (a, z, y, x) parameters of a move.
	moveArgs buffers.Dims

	// out is the buffer written (or moved) by the node, in is the buffer read by binary and reduce ops.
	out, in *buffers.Buffer

	parents    [MaxParents]NodeId
	numParents int
	children   []NodeId
}

// addParent appends parent, unless it is already listed.
func (n *node) addParent(parent NodeId) {
	for _, p := range n.parents[:n.numParents] {
		if p == parent {
			return
		}
	}
	if n.numParents >= MaxParents {
		exceptions.Panicf("node can have at most %d parents", MaxParents)
	}
	n.parents[n.numParents] = parent
	n.numParents++
}

// removeParent removes parent from the list, shifting the later parents down.
func (n *node) removeParent(parent NodeId) {
	for ii := 0; ii < n.numParents; ii++ {
		if n.parents[ii] != parent {
			continue
		}
		copy(n.parents[ii:], n.parents[ii+1:n.numParents])
		n.numParents--
		n.parents[n.numParents] = InvalidNodeId
		return
	}
}

// Parents returns a copy of the current parents list.
func (n *node) Parents() []NodeId {
	return slices.Clone(n.parents[:n.numParents])
}

// opName returns the qualified name of the operation, e.g.: "Unary.Add".
func (n *node) opName() string {
	switch n.kind {
	case backends.KindUnary:
		return "Unary." + n.unary.String()
	case backends.KindBinary:
		return "Binary." + n.binary.String()
	case backends.KindReduce:
		return "Reduce." + n.reduce.String()
	case backends.KindMove:
		return "Move." + n.move.String()
	default:
		return n.kind.String()
	}
}

// String implements fmt.Stringer.
func (n *node) String() string {
	var sb strings.Builder
	sb.WriteString(n.opName())
	switch n.kind {
	case backends.KindUnary:
		if n.unary.UsesScalar() {
			fmt.Fprintf(&sb, "(%g)", n.scalar)
		}
		fmt.Fprintf(&sb, " out=%s", n.out.Name())
	case backends.KindBinary, backends.KindReduce:
		fmt.Fprintf(&sb, " out=%s in=%s", n.out.Name(), n.in.Name())
	case backends.KindMove:
		fmt.Fprintf(&sb, "%s buf=%s", n.moveArgs, n.out.Name())
	}
	return sb.String()
}

// instruction snapshots the node into a flat instruction, resolving the current views of its buffers.
func (n *node) instruction() backends.Instruction {
	instr := backends.Instruction{
		Kind:   n.kind,
		Unary:  n.unary,
		Binary: n.binary,
		Reduce: n.reduce,
		Scalar: n.scalar,
		Out:    backends.OperandOf(n.out),
	}
	if n.in != nil {
		instr.In = backends.OperandOf(n.in)
	}
	return instr
}

// applyMove changes the live view of the node's buffer. It panics if the new view is invalid.
func (n *node) applyMove() {
	a, z, y, x := n.moveArgs[buffers.AxisA], n.moveArgs[buffers.AxisZ], n.moveArgs[buffers.AxisY], n.moveArgs[buffers.AxisX]
	switch n.move {
	case backends.MoveReshape:
		n.out.Reshape(a, z, y, x)
	case backends.MoveResize:
		n.out.Resize(a, z, y, x)
	case backends.MoveOffset:
		n.out.Offset(a, z, y, x)
	default:
		exceptions.Panicf("invalid move op %s", n.move)
	}
}
