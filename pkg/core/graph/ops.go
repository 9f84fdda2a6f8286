// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/looptrace/backends"
	"github.com/gomlx/looptrace/pkg/core/buffers"
)

// Unary adds a node that applies `out[i] = op(out[i], scalar)` over the view of out, at the
// time the node is realized.
func (g *Graph) Unary(out *buffers.Buffer, op backends.UnaryOp, scalar float64) NodeId {
	if out == nil {
		exceptions.Panicf("Unary(%s): nil output buffer", op)
	}
	if op <= backends.UnaryInvalid || op >= backends.UnaryLast {
		exceptions.Panicf("Unary: invalid op %s", op)
	}
	return g.registerNode(node{kind: backends.KindUnary, unary: op, scalar: scalar, out: out})
}

// Binary adds a node that applies `out[i] = out[i] op in[i]` elementwise. The views of out
// and in must have the same size when the node is realized.
func (g *Graph) Binary(out, in *buffers.Buffer, op backends.BinaryOp) NodeId {
	if out == nil || in == nil {
		exceptions.Panicf("Binary(%s): nil buffer", op)
	}
	if op <= backends.BinaryInvalid || op >= backends.BinaryLast {
		exceptions.Panicf("Binary: invalid op %s", op)
	}
	return g.registerNode(node{kind: backends.KindBinary, binary: op, out: out, in: in})
}

// Reduce adds a node that reduces the whole view of in into the single element at the origin
// of the view of out, which must have size {1, 1, 1, 1} when the node is realized.
func (g *Graph) Reduce(out, in *buffers.Buffer, op backends.ReduceOp) NodeId {
	if out == nil || in == nil {
		exceptions.Panicf("Reduce(%s): nil buffer", op)
	}
	if op <= backends.ReduceInvalid || op >= backends.ReduceLast {
		exceptions.Panicf("Reduce: invalid op %s", op)
	}
	return g.registerNode(node{kind: backends.KindReduce, reduce: op, out: out, in: in})
}

// Move adds a node that changes the view of the buffer when realized. Moves are never
// emitted as instructions.
//
// Reshape volumes are checked immediately, since the inherent shape never changes.
func (g *Graph) Move(buf *buffers.Buffer, op backends.MoveOp, a, z, y, x int) NodeId {
	if buf == nil {
		exceptions.Panicf("Move(%s): nil buffer", op)
	}
	args := buffers.Dims{a, z, y, x}
	switch op {
	case backends.MoveReshape:
		if args.Volume() != buf.Inherent().Volume() {
			exceptions.Panicf("Reshape(%s) of buffer %q: volume must be preserved (%d != %d)",
				args, buf.Name(), args.Volume(), buf.Inherent().Volume())
		}
	case backends.MoveResize, backends.MoveOffset:
	default:
		exceptions.Panicf("Move: invalid op %s", op)
	}
	return g.registerNode(node{kind: backends.KindMove, move: op, moveArgs: args, out: buf})
}

// AddScalar adds scalar to every element of out.
func (g *Graph) AddScalar(out *buffers.Buffer, scalar float64) NodeId {
	return g.Unary(out, backends.UnaryAdd, scalar)
}

// SubScalar subtracts scalar from every element of out.
func (g *Graph) SubScalar(out *buffers.Buffer, scalar float64) NodeId {
	return g.Unary(out, backends.UnarySubtract, scalar)
}

// MulScalar multiplies every element of out by scalar.
func (g *Graph) MulScalar(out *buffers.Buffer, scalar float64) NodeId {
	return g.Unary(out, backends.UnaryMultiply, scalar)
}

// DivScalar divides every element of out by scalar.
func (g *Graph) DivScalar(out *buffers.Buffer, scalar float64) NodeId {
	return g.Unary(out, backends.UnaryDivide, scalar)
}

// MaxScalar sets every element of out to max(element, scalar).
func (g *Graph) MaxScalar(out *buffers.Buffer, scalar float64) NodeId {
	return g.Unary(out, backends.UnaryMax, scalar)
}

// MinScalar sets every element of out to min(element, scalar).
func (g *Graph) MinScalar(out *buffers.Buffer, scalar float64) NodeId {
	return g.Unary(out, backends.UnaryMin, scalar)
}

// Set every element of out to value.
func (g *Graph) Set(out *buffers.Buffer, value float64) NodeId {
	return g.Unary(out, backends.UnarySet, value)
}

// Zero clears every element of out.
func (g *Graph) Zero(out *buffers.Buffer) NodeId {
	return g.Unary(out, backends.UnaryZero, 0)
}

// Exp replaces every element of out by its exponential.
func (g *Graph) Exp(out *buffers.Buffer) NodeId { return g.Unary(out, backends.UnaryExp, 0) }

// Log replaces every element of out by its natural logarithm.
func (g *Graph) Log(out *buffers.Buffer) NodeId { return g.Unary(out, backends.UnaryLog, 0) }

// Square replaces every element of out by its square.
func (g *Graph) Square(out *buffers.Buffer) NodeId { return g.Unary(out, backends.UnarySquare, 0) }

// Sqrt replaces every element of out by its square root.
func (g *Graph) Sqrt(out *buffers.Buffer) NodeId { return g.Unary(out, backends.UnarySqrt, 0) }

// Reciprocal replaces every element of out by 1/element.
func (g *Graph) Reciprocal(out *buffers.Buffer) NodeId {
	return g.Unary(out, backends.UnaryReciprocal, 0)
}

// Negate flips the sign of every element of out.
func (g *Graph) Negate(out *buffers.Buffer) NodeId { return g.Unary(out, backends.UnaryNegate, 0) }

// Abs replaces every element of out by its absolute value.
func (g *Graph) Abs(out *buffers.Buffer) NodeId { return g.Unary(out, backends.UnaryAbs, 0) }

// ReLU replaces every negative element of out by 0.
func (g *Graph) ReLU(out *buffers.Buffer) NodeId { return g.Unary(out, backends.UnaryReLU, 0) }

// Add accumulates in into out.
func (g *Graph) Add(out, in *buffers.Buffer) NodeId { return g.Binary(out, in, backends.BinaryAdd) }

// Sub subtracts in from out.
func (g *Graph) Sub(out, in *buffers.Buffer) NodeId {
	return g.Binary(out, in, backends.BinarySubtract)
}

// Mul multiplies out by in, elementwise.
func (g *Graph) Mul(out, in *buffers.Buffer) NodeId {
	return g.Binary(out, in, backends.BinaryMultiply)
}

// Div divides out by in, elementwise.
func (g *Graph) Div(out, in *buffers.Buffer) NodeId { return g.Binary(out, in, backends.BinaryDivide) }

// Max sets out to the elementwise maximum of out and in.
func (g *Graph) Max(out, in *buffers.Buffer) NodeId { return g.Binary(out, in, backends.BinaryMax) }

// Min sets out to the elementwise minimum of out and in.
func (g *Graph) Min(out, in *buffers.Buffer) NodeId { return g.Binary(out, in, backends.BinaryMin) }

// Copy in into out.
func (g *Graph) Copy(out, in *buffers.Buffer) NodeId { return g.Binary(out, in, backends.BinaryCopy) }

// ReduceSum stores the sum of the elements of in at the origin of out.
func (g *Graph) ReduceSum(out, in *buffers.Buffer) NodeId {
	return g.Reduce(out, in, backends.ReduceSum)
}

// ReduceAvg stores the mean of the elements of in at the origin of out.
func (g *Graph) ReduceAvg(out, in *buffers.Buffer) NodeId {
	return g.Reduce(out, in, backends.ReduceAvg)
}

// ReduceMax stores the maximum of the elements of in at the origin of out.
func (g *Graph) ReduceMax(out, in *buffers.Buffer) NodeId {
	return g.Reduce(out, in, backends.ReduceMax)
}

// ReduceMin stores the minimum of the elements of in at the origin of out.
func (g *Graph) ReduceMin(out, in *buffers.Buffer) NodeId {
	return g.Reduce(out, in, backends.ReduceMin)
}

// Reshape the buffer to (a, z, y, x), with row-major strides. The volume must equal the
// volume of the inherent shape.
func (g *Graph) Reshape(buf *buffers.Buffer, a, z, y, x int) NodeId {
	return g.Move(buf, backends.MoveReshape, a, z, y, x)
}

// Resize the view of the buffer to (a, z, y, x), keeping the strides.
func (g *Graph) Resize(buf *buffers.Buffer, a, z, y, x int) NodeId {
	return g.Move(buf, backends.MoveResize, a, z, y, x)
}

// OffsetTo moves the origin of the view of the buffer to the coordinates (a, z, y, x).
func (g *Graph) OffsetTo(buf *buffers.Buffer, a, z, y, x int) NodeId {
	return g.Move(buf, backends.MoveOffset, a, z, y, x)
}
