package workloads

import (
	"math/rand/v2"

	"github.com/gomlx/looptrace/backends"
	"github.com/gomlx/looptrace/pkg/core/buffers"
	"github.com/gomlx/looptrace/pkg/core/graph"
)

var (
	randomShape   = buffers.Dims{1, 2, 4, 4}
	reshapedShape = buffers.Dims{1, 1, 4, 8}
)

// randomBuffer tracks the view a buffer will have once the pending moves are applied, so
// that only valid operations are generated.
type randomBuffer struct {
	buf          *buffers.Buffer
	size, coords buffers.Dims
}

func (rb *randomBuffer) resize(g *graph.Graph, size buffers.Dims) {
	g.Resize(rb.buf, size[0], size[1], size[2], size[3])
	rb.size = size
}

func (rb *randomBuffer) offsetTo(g *graph.Graph, coords buffers.Dims) {
	g.OffsetTo(rb.buf, coords[0], coords[1], coords[2], coords[3])
	rb.coords = coords
}

// Random builds a sequence of size random operations (unary, binary, reduce and moves) over
// three buffers of shape {1, 2, 4, 4} and a single element buffer. Every operation is valid,
// and the sequence is fully determined by rng.
func Random(g *graph.Graph, rng *rand.Rand, size int) *Workload {
	var bufs [3]*randomBuffer
	for ii, name := range []string{"a", "b", "c"} {
		b := buffers.New(name, randomShape[0], randomShape[1], randomShape[2], randomShape[3])
		b.FillRandom(rng, -2, 2)
		bufs[ii] = &randomBuffer{buf: b, size: randomShape}
	}
	scalar := buffers.New("s", 1, 1, 1, 1)
	scalar.FillRandom(rng, -2, 2)
	pick := func() *randomBuffer { return bufs[rng.IntN(len(bufs))] }
	randomScalar := func() float64 { return 4*rng.Float64() - 2 }

	for range size {
		switch rng.IntN(7) {
		case 0, 1:
			op := backends.UnaryOp(1 + rng.IntN(int(backends.UnaryLast)-1))
			g.Unary(pick().buf, op, randomScalar())

		case 2:
			out := pick()
			in := bufs[(indexOf(bufs, out)+1+rng.IntN(len(bufs)-1))%len(bufs)]
			if in.size != out.size {
				in.offsetTo(g, buffers.Dims{})
				in.resize(g, out.size)
			}
			op := backends.BinaryOp(1 + rng.IntN(int(backends.BinaryLast)-1))
			g.Binary(out.buf, in.buf, op)

		case 3:
			op := backends.ReduceOp(1 + rng.IntN(int(backends.ReduceLast)-1))
			g.Reduce(scalar, pick().buf, op)
			if rng.IntN(2) == 0 {
				// Feed the reduced value back into a single element.
				target := pick()
				target.resize(g, buffers.Dims{1, 1, 1, 1})
				g.Add(target.buf, scalar)
			}

		case 4:
			rb := pick()
			var newSize buffers.Dims
			for _, axis := range buffers.Axes {
				newSize[axis] = 1 + rng.IntN(randomShape[axis]-rb.coords[axis])
			}
			rb.resize(g, newSize)

		case 5:
			rb := pick()
			var coords buffers.Dims
			for _, axis := range buffers.Axes {
				coords[axis] = rng.IntN(randomShape[axis] - rb.size[axis] + 1)
			}
			rb.offsetTo(g, coords)

		case 6:
			// Reshape round trip, applying an op on the reshaped view.
			rb := pick()
			rb.offsetTo(g, buffers.Dims{})
			rb.resize(g, randomShape)
			g.Reshape(rb.buf, reshapedShape[0], reshapedShape[1], reshapedShape[2], reshapedShape[3])
			g.MulScalar(rb.buf, randomScalar())
			g.Reshape(rb.buf, randomShape[0], randomShape[1], randomShape[2], randomShape[3])
		}
	}

	all := []*buffers.Buffer{bufs[0].buf, bufs[1].buf, bufs[2].buf, scalar}
	return &Workload{
		Name:    "random",
		Inputs:  all,
		Outputs: all,
	}
}

func indexOf(bufs [3]*randomBuffer, rb *randomBuffer) int {
	for ii, b := range bufs {
		if b == rb {
			return ii
		}
	}
	return -1
}
