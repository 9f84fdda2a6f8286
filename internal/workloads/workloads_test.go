package workloads

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/gomlx/looptrace/backends/simplego"
	"github.com/gomlx/looptrace/pkg/core/graph"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/require"
)

func newGraph() *graph.Graph {
	return graph.New(must.M1(simplego.New("")))
}

func TestNames(t *testing.T) {
	require.Equal(t, []string{"conv", "dense", "random"}, Names())
	_, err := Build("unknown", newGraph(), rand.New(rand.NewPCG(1, 1)), 3)
	require.Error(t, err)
	_, err = Build("conv", newGraph(), rand.New(rand.NewPCG(1, 1)), 0)
	require.Error(t, err)
}

func TestConv(t *testing.T) {
	g := newGraph()
	size := 4
	w := must.M1(Build("conv", g, rand.New(rand.NewPCG(42, 0)), size))
	input, kernel := w.Inputs[0].Values(), w.Inputs[1].Values()
	require.NoError(t, g.Backend().Execute(g.LinearizeAll()))

	n := size + ConvKernelSize - 1
	got := w.Outputs[0].Values()
	for y := range size {
		for x := range size {
			var want float64
			for i := range ConvKernelSize {
				for j := range ConvKernelSize {
					want += input[(y+i)*n+x+j] * kernel[i*ConvKernelSize+j]
				}
			}
			require.InDelta(t, want, got[y*size+x], 1e-12, "output at (%d, %d)", y, x)
		}
	}
}

func TestDense(t *testing.T) {
	g := newGraph()
	size := 5
	w := must.M1(Build("dense", g, rand.New(rand.NewPCG(42, 0)), size))
	matrix, vector := w.Inputs[0].Values(), w.Inputs[1].Values()
	require.NoError(t, g.RealizeAll())
	got := w.Outputs[0].Values()
	for r := range size {
		var want float64
		for c := range size {
			want += matrix[r*size+c] * vector[c]
		}
		want = math.Max(want+0.1, 0)
		require.InDelta(t, want, got[r], 1e-12, "row %d", r)
	}
}

func TestRandomIsDeterministic(t *testing.T) {
	build := func() []float64 {
		g := newGraph()
		w := Random(g, rand.New(rand.NewPCG(7, 11)), 50)
		require.NoError(t, g.RealizeAll())
		var values []float64
		for _, b := range w.Outputs {
			values = append(values, b.Storage().Data()...)
		}
		return values
	}
	first, second := build(), build()
	require.Len(t, first, 3*32+1)
	for ii := range first {
		require.Equal(t, math.Float64bits(first[ii]), math.Float64bits(second[ii]), "element %d", ii)
	}
}
