// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package graph

import (
	"testing"

	"github.com/gomlx/looptrace/backends"
	"github.com/gomlx/looptrace/pkg/core/buffers"
	"github.com/gomlx/looptrace/pkg/core/graph/graphtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetThenAdd(t *testing.T) {
	graphtest.RunOnBackends(t, func(t *testing.T, backend backends.Backend) {
		// Eager.
		g := New(backend)
		x := buffers.New("x", 1, 1, 3, 3)
		g.Set(x, 5)
		require.NoError(t, g.Realize(g.AddScalar(x, 2)))
		require.Zero(t, g.NumLive())
		for _, v := range x.Values() {
			require.Equal(t, 7.0, v)
		}

		// Linearized.
		x = buffers.New("x", 1, 1, 3, 3)
		g.Set(x, 5)
		trace := g.Linearize(g.AddScalar(x, 2))
		require.Len(t, trace, 2)
		require.Zero(t, g.NumLive())
		require.Equal(t, make([]float64, 9), x.Values(), "nothing is executed by Linearize")
		require.NoError(t, backend.Execute(trace))
		for _, v := range x.Values() {
			require.Equal(t, 7.0, v)
		}
	})
}

func TestReduce(t *testing.T) {
	graphtest.RunOnBackends(t, func(t *testing.T, backend backends.Backend) {
		in := buffers.FromValues("in", []float64{1, 2, 3, 4}, 1, 1, 2, 2)
		sum := buffers.New("sum", 1, 1, 1, 1)
		avg := buffers.New("avg", 1, 1, 1, 1)
		g := New(backend)
		g.ReduceSum(sum, in)
		g.ReduceAvg(avg, in)
		trace := g.LinearizeAll()
		require.Len(t, trace, 2)
		require.NoError(t, backend.Execute(trace))
		assert.Equal(t, 10.0, sum.At(0, 0, 0, 0))
		assert.Equal(t, 2.5, avg.At(0, 0, 0, 0))

		// Eager gives the same.
		sum.Fill(0)
		g.ReduceSum(sum, in)
		require.NoError(t, g.RealizeAll())
		assert.Equal(t, 10.0, sum.At(0, 0, 0, 0))
	})
}

func TestParents(t *testing.T) {
	g := New(graphtest.BuildTestBackend())
	x := buffers.New("x", 1, 1, 2, 2)
	y := buffers.New("y", 1, 1, 2, 2)
	setX := g.Set(x, 1)
	setY := g.Set(y, 2)
	require.Empty(t, g.Parents(setX), "a node with no parents is a root")

	add := g.Add(x, y)
	require.Equal(t, []NodeId{setX, setY}, g.Parents(add), "output producer first, input producer second")
	require.Equal(t, []NodeId{add}, g.Children(setX))
	require.Equal(t, []NodeId{add}, g.Children(setY))
	require.Equal(t, add, g.LastProducer(x))
	require.Equal(t, setY, g.LastProducer(y), "reading a buffer doesn't produce it")

	// Same producer for both buffers is listed once.
	self := g.Mul(x, x)
	require.Equal(t, []NodeId{add}, g.Parents(self))

	// Realizing a parent removes it from its children's parents list.
	require.NoError(t, g.Realize(setX))
	require.Equal(t, []NodeId{setY}, g.Parents(add))
	require.False(t, g.IsLive(setX))
	require.Equal(t, 3, g.NumLive())

	require.NoError(t, g.Realize(self))
	require.Zero(t, g.NumLive())
	require.Equal(t, InvalidNodeId, g.LastProducer(x))
	require.Equal(t, []float64{9, 9, 9, 9}, x.Values())
}

func TestStaleNodeId(t *testing.T) {
	g := New(graphtest.BuildTestBackend())
	x := buffers.New("x", 1, 1, 1, 4)
	root := g.AddScalar(x, 1)
	trace := g.Linearize(root)
	require.Len(t, trace, 1)
	require.Panics(t, func() { g.Linearize(root) }, "a node is consumed exactly once")
	require.Panics(t, func() { _ = g.Realize(root) })
	require.Panics(t, func() { g.Parents(root) })

	// The slot is reused with a new generation.
	reused := g.AddScalar(x, 1)
	require.NotEqual(t, root, reused)
	require.False(t, g.IsLive(root))
	require.True(t, g.IsLive(reused))
	require.Panics(t, func() { g.Linearize(InvalidNodeId) })
}

func TestMismatchedSizes(t *testing.T) {
	g := New(graphtest.BuildTestBackend())
	x := buffers.New("x", 1, 1, 2, 2)
	y := buffers.New("y", 1, 1, 1, 4)
	root := g.Add(x, y)
	require.Panics(t, func() { g.Linearize(root) })

	g = New(graphtest.BuildTestBackend())
	root = g.Add(x, y)
	require.Error(t, g.Realize(root))
}

func TestMoves(t *testing.T) {
	g := New(graphtest.BuildTestBackend())
	values := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	x := buffers.FromValues("x", values, 1, 1, 3, 4)
	original := x.View()

	// Round trips restore the view, and don't touch the data.
	g.Reshape(x, 2, 1, 2, 3)
	g.Reshape(x, 1, 1, 3, 4)
	g.Resize(x, 1, 1, 2, 2)
	g.OffsetTo(x, 0, 0, 1, 1)
	g.OffsetTo(x, 0, 0, 0, 0)
	g.Resize(x, 1, 1, 3, 4)
	require.Equal(t, original, x.View(), "moves are lazy")
	trace := g.LinearizeAll()
	require.Empty(t, trace, "moves are not emitted")
	require.Equal(t, original, x.View())
	require.Equal(t, values, x.Values())

	// Volume-changing reshapes are rejected immediately.
	require.Panics(t, func() { g.Reshape(x, 1, 1, 3, 3) })

	// Out of bounds offsets are rejected when the move is applied.
	g.Resize(x, 1, 1, 2, 2)
	root := g.OffsetTo(x, 0, 0, 2, 0)
	require.Panics(t, func() { _ = g.Realize(root) })
}

func TestLinearizeResolvesViews(t *testing.T) {
	g := New(graphtest.BuildTestBackend())
	x := buffers.New("x", 1, 1, 1, 4)
	g.Resize(x, 1, 1, 1, 1)
	for ii := range 4 {
		g.OffsetTo(x, 0, 0, 0, ii)
		g.AddScalar(x, 1)
	}
	trace := g.LinearizeAll()
	require.Len(t, trace, 4)
	for ii, instr := range trace {
		assert.Equal(t, backends.KindUnary, instr.Kind)
		assert.Equal(t, backends.UnaryAdd, instr.Unary)
		assert.Equal(t, ii, instr.Out.View.Offset)
		assert.Equal(t, buffers.Dims{1, 1, 1, 1}, instr.Out.View.Size)
		assert.True(t, instr.Equal(&trace[0]), "instructions differ only by offset")
	}
	require.Equal(t, 3, x.View().Offset, "buffer is left with its final view")
}

func TestRealizeOrder(t *testing.T) {
	// Realizing a single root runs only its ancestors: unrelated nodes stay pending.
	g := New(graphtest.BuildTestBackend())
	x := buffers.New("x", 1, 1, 1, 1)
	y := buffers.New("y", 1, 1, 1, 1)
	g.Set(x, 3)
	g.Set(y, 4)
	root := g.MulScalar(x, 2)
	require.NoError(t, g.Realize(root))
	require.Equal(t, 6.0, x.At(0, 0, 0, 0))
	require.Equal(t, 0.0, y.At(0, 0, 0, 0))
	require.Equal(t, 1, g.NumLive())
	require.Contains(t, g.String(), "Unary.Set(4) out=y")
	require.NoError(t, g.RealizeAll())
	require.Equal(t, 4.0, y.At(0, 0, 0, 0))
}

func TestRealizeError(t *testing.T) {
	g := New(graphtest.BuildTestBackend())
	x := buffers.New("x", 1, 1, 2, 2)
	y := buffers.New("y", 1, 1, 3, 3)
	root := g.Add(x, y)
	require.Error(t, g.Realize(root), "sizes don't match")
}
