package buffers

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequence(n int) []float64 {
	values := make([]float64, n)
	for ii := range values {
		values[ii] = float64(ii)
	}
	return values
}

func TestNew(t *testing.T) {
	b := New("x", 2, 3, 4, 5)
	require.Equal(t, "x", b.Name())
	require.Equal(t, Dims{2, 3, 4, 5}, b.Inherent())
	require.Equal(t, Dims{60, 20, 5, 1}, b.View().Stride)
	require.Equal(t, 120, b.Storage().Len())
	require.Zero(t, b.View().Offset)

	// Generated names and distinct ids.
	b2 := New("", 1, 1, 1, 1)
	require.NotEqual(t, b.ID(), b2.ID())
	require.Contains(t, b2.Name(), "buf")

	require.Panics(t, func() { New("bad", 1, 0, 1, 1) })
}

func TestReshape(t *testing.T) {
	b := FromValues("x", sequence(12), 1, 1, 3, 4)
	b.Reshape(1, 2, 2, 3)
	require.Equal(t, Dims{1, 2, 2, 3}, b.View().Size)
	require.Equal(t, Dims{12, 6, 3, 1}, b.View().Stride)
	require.Equal(t, 7.0, b.At(0, 1, 0, 1))

	// Volume must be preserved.
	require.Panics(t, func() { b.Reshape(1, 1, 3, 3) })

	// Round trip.
	original := FromValues("y", sequence(12), 1, 1, 3, 4)
	before := original.View()
	original.Reshape(3, 1, 4, 1)
	original.Reshape(1, 1, 3, 4)
	require.Equal(t, before, original.View())
}

func TestResize(t *testing.T) {
	b := FromValues("x", sequence(25), 1, 1, 5, 5)
	b.Resize(1, 1, 3, 3)
	require.Equal(t, Dims{1, 1, 3, 3}, b.View().Size)
	require.Equal(t, Dims{25, 25, 5, 1}, b.View().Stride, "strides are kept by Resize")
	require.Equal(t, []float64{0, 1, 2, 5, 6, 7, 10, 11, 12}, b.Values())

	// Resizing back exposes the original elements unchanged.
	b.Resize(1, 1, 5, 5)
	require.Equal(t, sequence(25), b.Values())

	// Views must stay within the storage.
	require.Panics(t, func() { b.Resize(1, 1, 6, 5) })
}

func TestOffset(t *testing.T) {
	b := FromValues("x", sequence(25), 1, 1, 5, 5)
	b.Resize(1, 1, 3, 3)
	b.Offset(0, 0, 1, 2)
	require.Equal(t, 7, b.View().Offset)
	require.Equal(t, []float64{7, 8, 9, 12, 13, 14, 17, 18, 19}, b.Values())

	b.Offset(0, 0, 0, 0)
	require.Equal(t, []float64{0, 1, 2, 5, 6, 7, 10, 11, 12}, b.Values())

	// Out of bounds.
	require.Panics(t, func() { b.Offset(0, 0, 3, 0) })
}

func TestCoordinates(t *testing.T) {
	testCases := []struct {
		name   string
		size   Dims
		window Dims
		coords Dims
	}{
		{"origin", Dims{1, 1, 5, 5}, Dims{1, 1, 3, 3}, Dims{0, 0, 0, 0}},
		{"window", Dims{1, 1, 5, 5}, Dims{1, 1, 3, 3}, Dims{0, 0, 2, 1}},
		{"rank4", Dims{2, 3, 4, 5}, Dims{1, 1, 1, 1}, Dims{1, 2, 3, 4}},
		{"row", Dims{1, 1, 1, 4}, Dims{1, 1, 1, 1}, Dims{0, 0, 0, 3}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := New("x", tc.size[0], tc.size[1], tc.size[2], tc.size[3])
			b.Resize(tc.window[0], tc.window[1], tc.window[2], tc.window[3])
			b.Offset(tc.coords[0], tc.coords[1], tc.coords[2], tc.coords[3])
			coords, remainder := b.View().Coordinates()
			assert.Equal(t, tc.coords, coords)
			assert.Zero(t, remainder)
			assert.Equal(t, b.View().Offset, b.View().OffsetOf(coords))
		})
	}
}

func TestShare(t *testing.T) {
	b := FromValues("x", sequence(6), 1, 1, 2, 3)
	window := b.Share("xw")
	require.NotEqual(t, b.ID(), window.ID())
	require.Same(t, b.Storage(), window.Storage())
	window.Resize(1, 1, 1, 1)
	window.Offset(0, 0, 1, 1)
	window.Set(-1, 0, 0, 0, 0)
	require.Equal(t, -1.0, b.At(0, 0, 1, 1))
	require.Equal(t, Dims{1, 1, 2, 3}, b.View().Size, "moving a shared view doesn't move the original")
}

func TestFillRandom(t *testing.T) {
	b1 := New("x", 1, 2, 3, 4)
	b2 := New("y", 1, 2, 3, 4)
	b1.FillRandom(rand.New(rand.NewPCG(42, 7)), -1, 1)
	b2.FillRandom(rand.New(rand.NewPCG(42, 7)), -1, 1)
	require.Equal(t, b1.Values(), b2.Values())
	for _, v := range b1.Values() {
		require.True(t, v >= -1 && v < 1)
	}
}

func TestIsDense(t *testing.T) {
	b := New("x", 1, 1, 4, 4)
	require.True(t, b.View().IsDense())
	b.Resize(1, 1, 2, 2)
	require.False(t, b.View().IsDense())
	b.Reshape(1, 2, 2, 4)
	require.True(t, b.View().IsDense())
}
