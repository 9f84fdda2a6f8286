package kernels

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/gomlx/looptrace/backends"
	"github.com/gomlx/looptrace/backends/simplego"
	"github.com/gomlx/looptrace/internal/workloads"
	"github.com/gomlx/looptrace/pkg/core/buffers"
	"github.com/gomlx/looptrace/pkg/core/compiler"
	"github.com/gomlx/looptrace/pkg/core/graph"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runWorkload builds the workload from a fixed seed, executes its linearized trace on the
// backend and returns the contents of its outputs.
func runWorkload(t *testing.T, backend backends.Backend, name string, seed uint64, size int) []float64 {
	g := graph.New(backend)
	w, err := workloads.Build(name, g, rand.New(rand.NewPCG(seed, 0)), size)
	require.NoError(t, err)
	require.NoError(t, backend.Execute(g.LinearizeAll()))
	var values []float64
	for _, b := range w.Outputs {
		values = append(values, b.Storage().Data()...)
	}
	return values
}

func TestMatchesInterpreter(t *testing.T) {
	reference := must.M1(simplego.New(""))
	for _, config := range []string{"", "serial", "parallelism=0", "parallelism=2,local=3", "local=1"} {
		backend, err := New(config)
		require.NoError(t, err)
		for _, name := range workloads.Names() {
			for seed := range uint64(5) {
				size := 3 + int(seed)*5
				want := runWorkload(t, reference, name, seed, size)
				got := runWorkload(t, backend, name, seed, size)
				require.Len(t, got, len(want))
				for ii := range want {
					if math.Float64bits(want[ii]) != math.Float64bits(got[ii]) {
						require.Failf(t, "values differ", "config=%q, workload=%q, seed=%d, element %d: want %v, got %v",
							config, name, seed, ii, want[ii], got[ii])
					}
				}
			}
		}
		assert.Positive(t, backend.(*Backend).NumKernels(), "config=%q", config)
	}
}

// compileWorkload returns the groups of the linearized trace of the workload.
func compileWorkload(t *testing.T, name string, size int) []compiler.Group {
	g := graph.New(must.M1(simplego.New("")))
	_, err := workloads.Build(name, g, rand.New(rand.NewPCG(1, 0)), size)
	require.NoError(t, err)
	groups, err := compiler.CompileAll(g.LinearizeAll())
	require.NoError(t, err)
	return groups
}

func TestEmitSlidingWindow(t *testing.T) {
	groups := compileWorkload(t, "conv", 3)
	require.Len(t, groups, 1)
	group := &groups[0]
	require.Equal(t, 3, group.OpNum)
	require.Equal(t, 9, group.RepeatNum)

	k, err := Emit(group, "conv")
	require.NoError(t, err)
	names := make([]string, len(k.Args))
	for ii, arg := range k.Args {
		names[ii] = arg.Name
	}
	require.Equal(t, []string{"scratch", "window", "kernel", "position"}, names)
	require.False(t, k.Parallel, "every repetition reuses the scratch buffer")
	require.Equal(t, 1, k.GlobalSize)

	src := k.Source
	assert.Contains(t, src, "__kernel void conv(__global double *scratch, __global double *window, "+
		"__global double *kernel, __global double *position)")
	assert.Contains(t, src, "for (int rep = get_global_id(0); rep < 9; rep += get_global_size(0))")
	assert.Contains(t, src, "const int in_off = 0 + 5 * (rep / 3) + 1 * (rep % 3);")
	assert.Contains(t, src, "const int out_off = 0 + 3 * (rep / 3) + 1 * (rep % 3);")
	assert.Contains(t, src, "scratch[out_off + 3 * iy + ix] = window[in_off + 5 * iy + ix];")
	assert.Contains(t, src, "scratch[out_off + 3 * iy + ix] = scratch[out_off + 3 * iy + ix] * kernel[in_off + 3 * iy + ix];")
	assert.Contains(t, src, "acc += scratch[in_off + 3 * iy + ix];")
	assert.Contains(t, src, "position[out_off] = acc;")
}

func TestParallelRows(t *testing.T) {
	groups := compileWorkload(t, "dense", 8)
	require.Len(t, groups, 1)
	k, err := Emit(&groups[0], "dense")
	require.NoError(t, err)
	require.Equal(t, 4, groups[0].OpNum)
	require.True(t, k.Parallel, "rows are independent")
	require.Equal(t, 8, k.GlobalSize)

	backend := must.M1(New("local=3,parallelism=4")).(*Backend)
	device := backend.Device().(*HostDevice)
	runWorkload(t, backend, "dense", 1, 8)
	require.Equal(t, int64(1), device.NumLaunches())
	require.Equal(t, int64(8), device.NumWorkItems())

	// Serial mode runs the same kernel with a single work-item.
	backend = must.M1(New("serial")).(*Backend)
	device = backend.Device().(*HostDevice)
	runWorkload(t, backend, "dense", 1, 8)
	require.Equal(t, int64(1), device.NumWorkItems())
	require.Contains(t, backend.Description(), "serial")
}

func TestUnsupportedFallsBack(t *testing.T) {
	backend := must.M1(New("")).(*Backend)
	g := graph.New(backend)
	x := buffers.FromValues("x", []float64{1, 5, 2, 8}, 1, 1, 1, 4)
	y := buffers.FromValues("y", []float64{4, 4, 4, 4}, 1, 1, 1, 4)
	g.Max(x, y)
	g.Max(x, y)
	trace := g.LinearizeAll()

	groups, err := compiler.CompileAll(trace)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	_, err = Emit(&groups[0], "max")
	require.ErrorIs(t, err, backends.ErrUnsupported)

	require.NoError(t, backend.Execute(trace))
	require.Equal(t, []float64{4, 5, 4, 8}, x.Values())
	require.Equal(t, int64(2), backend.NumFallbackInstructions())
	require.Zero(t, backend.NumKernels())

	// Reduce Max has no code generation either.
	s := buffers.New("s", 1, 1, 1, 1)
	g.ReduceMax(s, x)
	require.NoError(t, backend.Execute(g.LinearizeAll()))
	require.Equal(t, 8.0, s.At(0, 0, 0, 0))
	require.Equal(t, int64(3), backend.NumFallbackInstructions())
}

func TestCapabilitiesRestrictEmission(t *testing.T) {
	backend := must.M1(New("")).(*Backend)
	caps := backend.Capabilities().Clone()
	delete(caps.Unary, backends.UnaryAdd)
	caps.Binary[backends.BinaryMax] = true
	backend.SetCapabilities(caps)
	require.False(t, backend.Capabilities().Unary[backends.UnaryAdd])
	require.False(t, backend.Capabilities().Binary[backends.BinaryMax], "no code generation for Binary.Max")
	require.True(t, Capabilities.Unary[backends.UnaryAdd], "package capabilities must be untouched")

	g := graph.New(backend)
	x := buffers.FromValues("x", []float64{1, 2, 3, 4}, 1, 1, 1, 4)
	g.AddScalar(x, 1)
	g.AddScalar(x, 1)
	trace := g.LinearizeAll()
	groups, err := compiler.CompileAll(trace)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	_, err = EmitWithCapabilities(backend.Capabilities(), &groups[0], "add")
	require.ErrorIs(t, err, backends.ErrUnsupported)

	require.NoError(t, backend.Execute(trace))
	require.Equal(t, []float64{3, 4, 5, 6}, x.Values())
	require.Equal(t, int64(2), backend.NumFallbackInstructions())
	require.Zero(t, backend.NumKernels())

	// Restoring the full set emits kernels again.
	backend.SetCapabilities(Capabilities)
	g.AddScalar(x, 1)
	g.AddScalar(x, 1)
	require.NoError(t, backend.Execute(g.LinearizeAll()))
	require.Equal(t, []float64{5, 6, 7, 8}, x.Values())
	require.Equal(t, int64(2), backend.NumFallbackInstructions())
	require.Equal(t, int64(1), backend.NumKernels())
}

func TestNotAffineFallsBack(t *testing.T) {
	backend := must.M1(New("")).(*Backend)
	g := graph.New(backend)
	x := buffers.New("x", 1, 1, 1, 4)
	g.Resize(x, 1, 1, 1, 1)
	for _, offset := range []int{0, 1, 3} {
		g.OffsetTo(x, 0, 0, 0, offset)
		g.AddScalar(x, 1)
	}
	trace := g.LinearizeAll()
	groups, err := compiler.CompileAll(trace)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.False(t, groups[0].Affine)
	_, err = Emit(&groups[0], "offsets")
	require.ErrorIs(t, err, backends.ErrUnsupported)

	require.NoError(t, backend.Execute(trace))
	x.SetView(buffers.View{Size: x.Inherent(), Stride: buffers.RowMajorStrides(x.Inherent())})
	require.Equal(t, []float64{1, 1, 0, 1}, x.Values())
	require.Equal(t, int64(3), backend.NumFallbackInstructions())
}

func TestConfig(t *testing.T) {
	for _, config := range []string{"kernels:foo", "kernels:local=0", "kernels:parallelism=x",
		"kernels:parallelism=-2", "kernels:serial=1"} {
		_, err := backends.NewWithConfig(config)
		require.Error(t, err, "config=%q", config)
	}
	backend, err := backends.NewWithConfig("kernels:parallelism=2,local=4")
	require.NoError(t, err)
	require.Equal(t, BackendName, backend.Name())
	require.Equal(t, 2, backend.(*Backend).Device().(*HostDevice).Parallelism())
	require.Contains(t, backend.Description(), "local size 4")

	backend.Finalize()
	require.Error(t, backend.Execute(nil))
}

func TestLaunchErrors(t *testing.T) {
	groups := compileWorkload(t, "conv", 2)
	k, err := Emit(&groups[0], "conv")
	require.NoError(t, err)
	device := NewHostDevice(0)
	err = device.Launch(k, k.ArgStorages()[:1])
	require.Error(t, err)

	k.GlobalSize = 4
	require.Error(t, device.Launch(k, k.ArgStorages()), "repetitions are not independent")

	k.GlobalSize, k.LocalSize = 1, 1
	require.NoError(t, device.Launch(k, k.ArgStorages()))
	require.Equal(t, int64(1), device.NumLaunches())
}

// failingDevice reports an error wrapping ErrUnsupported, which must not trigger the interpreter.
type failingDevice struct{}

func (failingDevice) Name() string { return "failing" }
func (failingDevice) Launch(k *Kernel, _ []*buffers.Storage) error {
	return errors.Wrapf(backends.ErrUnsupported, "kernel %q", k.Name)
}

func TestLaunchErrorIsReturned(t *testing.T) {
	backend := must.M1(New("")).(*Backend)
	backend.SetDevice(failingDevice{})
	g := graph.New(backend)
	x := buffers.New("x", 1, 1, 1, 4)
	g.AddScalar(x, 1)
	require.ErrorIs(t, backend.Execute(g.LinearizeAll()), backends.ErrUnsupported)
	require.Zero(t, backend.NumFallbackInstructions())
	require.Equal(t, []float64{0, 0, 0, 0}, x.Values())
}

func TestCLiteral(t *testing.T) {
	assert.Equal(t, "2.0", cLiteral(2))
	assert.Equal(t, "(-0.5)", cLiteral(-0.5))
	assert.Equal(t, "1e-07", cLiteral(1e-7))
	assert.Equal(t, "NAN", cLiteral(math.NaN()))
	assert.Equal(t, "(-INFINITY)", cLiteral(math.Inf(-1)))
}

func TestArgNamer(t *testing.T) {
	n := newArgNamer()
	assert.Equal(t, "x", n.name("x"))
	assert.Equal(t, "x_2", n.name("x"))
	assert.Equal(t, "_1a", n.name("1a"))
	assert.Equal(t, "a_b", n.name("a-b"))
	assert.Equal(t, "buf_rep", n.name("rep"))
	assert.Equal(t, "buf_", n.name(""))
}
