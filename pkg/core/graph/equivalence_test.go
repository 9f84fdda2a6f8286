package graph_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/gomlx/looptrace/backends"
	"github.com/gomlx/looptrace/internal/workloads"
	"github.com/gomlx/looptrace/pkg/core/graph"
	"github.com/gomlx/looptrace/pkg/core/graph/graphtest"
	"github.com/stretchr/testify/require"
)

// snapshot copies the whole storage of every buffer of the workload.
func snapshot(w *workloads.Workload) []float64 {
	var values []float64
	for _, b := range w.Outputs {
		values = append(values, b.Storage().Data()...)
	}
	return values
}

func requireBitIdentical(t *testing.T, want, got []float64, msgAndArgs ...any) {
	t.Helper()
	require.Len(t, got, len(want), msgAndArgs...)
	for ii := range want {
		if math.Float64bits(want[ii]) != math.Float64bits(got[ii]) {
			require.Failf(t, "values differ", "element %d: want %v, got %v", ii, want[ii], got[ii])
		}
	}
}

// TestLinearizeMatchesRealize checks that executing the linearized trace of a random graph
// produces exactly the same contents as realizing it eagerly.
func TestLinearizeMatchesRealize(t *testing.T) {
	graphtest.RunOnBackends(t, func(t *testing.T, backend backends.Backend) {
		for seed := range uint64(40) {
			build := func() (*graph.Graph, *workloads.Workload) {
				g := graph.New(backend)
				return g, workloads.Random(g, rand.New(rand.NewPCG(seed, 17)), 60)
			}

			g, w := build()
			require.NoError(t, g.RealizeAll(), "seed=%d", seed)
			want := snapshot(w)

			g, w = build()
			trace := g.LinearizeAll()
			require.Zero(t, g.NumLive())
			require.NoError(t, backend.Execute(trace), "seed=%d", seed)
			requireBitIdentical(t, want, snapshot(w), "seed=%d", seed)
		}
	})
}

// TestLinearizeSingleRoot checks the same for a single root: only the root and its ancestors
// are consumed, and the remaining nodes can be flushed afterwards in either mode.
func TestLinearizeSingleRoot(t *testing.T) {
	backend := graphtest.BuildTestBackend()
	for seed := range uint64(40) {
		build := func() (*graph.Graph, *workloads.Workload, graph.NodeId) {
			g := graph.New(backend)
			w := workloads.Random(g, rand.New(rand.NewPCG(seed, 3)), 40)
			live := g.Live()
			if len(live) == 0 {
				return g, w, graph.InvalidNodeId
			}
			return g, w, live[len(live)-1]
		}

		g, w, root := build()
		if root == graph.InvalidNodeId {
			continue
		}
		require.NoError(t, g.Realize(root))
		numLeft := g.NumLive()
		require.NoError(t, g.RealizeAll())
		want := snapshot(w)

		g, w, root = build()
		trace := g.Linearize(root)
		require.Equal(t, numLeft, g.NumLive(), "seed=%d", seed)
		trace = append(trace, g.LinearizeAll()...)
		require.NoError(t, backend.Execute(trace))
		requireBitIdentical(t, want, snapshot(w), "seed=%d", seed)
	}
}
