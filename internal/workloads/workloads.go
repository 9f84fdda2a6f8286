// Package workloads builds example graphs over freshly allocated buffers: they are used by
// tests and by the looptrace command to exercise the linearizer, the compiler and the backends.
package workloads

import (
	"math/rand/v2"
	"slices"

	"github.com/gomlx/looptrace/pkg/core/buffers"
	"github.com/gomlx/looptrace/pkg/core/graph"
	"github.com/pkg/errors"
)

// Workload is a graph built on a set of buffers. The graph nodes are left pending in the Graph.
//
// Workloads write through buffers sharing the storage of their outputs, and the graph only
// tracks dependencies per buffer: use Graph.RealizeAll or Graph.LinearizeAll to run them.
type Workload struct {
	Name string

	// Inputs are filled at build time, Outputs hold the results once the graph is realized or
	// its linearized trace executed.
	Inputs, Outputs []*buffers.Buffer
}

// Builder adds the nodes of a workload of the given size to g.
type Builder func(g *graph.Graph, rng *rand.Rand, size int) *Workload

var registered = map[string]Builder{
	"conv":   Conv,
	"dense":  Dense,
	"random": Random,
}

// Names returns the names of the available workloads, sorted.
func Names() []string {
	names := make([]string, 0, len(registered))
	for name := range registered {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Build the named workload.
func Build(name string, g *graph.Graph, rng *rand.Rand, size int) (*Workload, error) {
	builder, found := registered[name]
	if !found {
		return nil, errors.Errorf("unknown workload %q, valid values are %q", name, Names())
	}
	if size <= 0 {
		return nil, errors.Errorf("invalid size %d for workload %q", size, name)
	}
	return builder(g, rng, size), nil
}

// ConvKernelSize is the size of the square kernel used by Conv.
const ConvKernelSize = 3

// Conv slides a 3x3 kernel over a (size+2)x(size+2) input, producing a size x size output.
//
// For each output position the input window is copied into a scratch buffer, multiplied by
// the kernel and reduced into the output element. This yields one group of 3 instructions
// repeated size*size times, with the window y/x loops recoverable from the offsets.
// Since every repetition reuses the scratch buffer, the repetitions are not independent.
func Conv(g *graph.Graph, rng *rand.Rand, size int) *Workload {
	n := size + ConvKernelSize - 1
	input := buffers.New("input", 1, 1, n, n)
	input.FillRandom(rng, -1, 1)
	kernel := buffers.New("kernel", 1, 1, ConvKernelSize, ConvKernelSize)
	kernel.FillRandom(rng, -1, 1)
	scratch := buffers.New("scratch", 1, 1, ConvKernelSize, ConvKernelSize)
	output := buffers.New("output", 1, 1, size, size)

	window := input.Share("window")
	g.Resize(window, 1, 1, ConvKernelSize, ConvKernelSize)
	position := output.Share("position")
	g.Resize(position, 1, 1, 1, 1)
	for y := range size {
		for x := range size {
			g.OffsetTo(window, 0, 0, y, x)
			g.Copy(scratch, window)
			g.Mul(scratch, kernel)
			g.OffsetTo(position, 0, 0, y, x)
			g.ReduceSum(position, scratch)
		}
	}
	return &Workload{
		Name:    "conv",
		Inputs:  []*buffers.Buffer{input, kernel},
		Outputs: []*buffers.Buffer{output},
	}
}

// Dense computes `relu(matrix x vector + 0.1)` for a size x size matrix, row by row: each row
// of the matrix is multiplied in place by the vector, and reduced into the corresponding output
// element, where the bias and activation are applied. Each row only touches its own elements,
// so the repetitions are independent.
func Dense(g *graph.Graph, rng *rand.Rand, size int) *Workload {
	matrix := buffers.New("matrix", 1, 1, size, size)
	matrix.FillRandom(rng, -1, 1)
	vector := buffers.New("vector", 1, 1, 1, size)
	vector.FillRandom(rng, -1, 1)
	output := buffers.New("output", 1, 1, 1, size)

	row := matrix.Share("row")
	g.Resize(row, 1, 1, 1, size)
	element := output.Share("element")
	g.Resize(element, 1, 1, 1, 1)
	for r := range size {
		g.OffsetTo(row, 0, 0, r, 0)
		g.Mul(row, vector)
		g.OffsetTo(element, 0, 0, 0, r)
		g.ReduceSum(element, row)
		g.AddScalar(element, 0.1)
		g.ReLU(element)
	}
	return &Workload{
		Name:    "dense",
		Inputs:  []*buffers.Buffer{matrix, vector},
		Outputs: []*buffers.Buffer{output, matrix},
	}
}
