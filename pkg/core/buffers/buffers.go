// Package buffers defines the strided rank-4 views over flat float64 storage that every
// operation of looptrace reads and writes.
//
// A Buffer is a named View (sizes, strides and a linear offset) over a Storage. The view is
// mutated in place by the three move primitives -- Reshape, Resize and Offset -- which are the
// only indexing mechanism of the system: convolution windows, row selections and reduction
// targets are all expressed by moving the view of a buffer over its storage.
//
// ## Glossary
//
//   - Axis: one of A, Z, Y, X. A is the outermost axis and X the innermost one.
//   - Inherent shape: the shape the buffer was allocated with. It never changes.
//   - Size: the current shape of the view.
//   - Stride: distance, in elements, between consecutive indices of an axis.
//   - Offset: linear position of the view origin in the storage.
//
// Element (a, z, y, x) of a view lives at `a*Stride[A] + z*Stride[Z] + y*Stride[Y] + x*Stride[X] + Offset`.
package buffers

import (
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"github.com/gomlx/exceptions"
)

// Axis enumerates the 4 axes of a view, from the outermost (A) to the innermost (X).
type Axis int

const (
	AxisA Axis = iota
	AxisZ
	AxisY
	AxisX

	// NumAxes is the fixed rank of every view.
	NumAxes = 4
)

// Axes lists all axes in nesting order, outermost first.
var Axes = [NumAxes]Axis{AxisA, AxisZ, AxisY, AxisX}

// String implements fmt.Stringer.
func (axis Axis) String() string {
	switch axis {
	case AxisA:
		return "a"
	case AxisZ:
		return "z"
	case AxisY:
		return "y"
	case AxisX:
		return "x"
	}
	return fmt.Sprintf("Axis(%d)", int(axis))
}

// Dims holds one integer per axis, indexed by Axis.
type Dims [NumAxes]int

// Volume returns the product of the dimensions.
func (d Dims) Volume() int {
	return d[AxisA] * d[AxisZ] * d[AxisY] * d[AxisX]
}

// String implements fmt.Stringer.
func (d Dims) String() string {
	return fmt.Sprintf("{%d,%d,%d,%d}", d[AxisA], d[AxisZ], d[AxisY], d[AxisX])
}

// RowMajorStrides returns the strides of a dense row-major layout of the given sizes:
// the X axis is contiguous and A is the outermost.
func RowMajorStrides(size Dims) Dims {
	return Dims{
		size[AxisZ] * size[AxisY] * size[AxisX],
		size[AxisY] * size[AxisX],
		size[AxisX],
		1,
	}
}

// Storage is the flat array of float64 values shared by one or more buffers.
type Storage struct {
	data []float64
}

// NewStorage allocates a zeroed storage with the given number of elements.
func NewStorage(numElements int) *Storage {
	if numElements <= 0 {
		exceptions.Panicf("buffers.NewStorage(%d): storage must hold at least one element", numElements)
	}
	return &Storage{data: make([]float64, numElements)}
}

// Len returns the number of elements in the storage.
func (s *Storage) Len() int { return len(s.data) }

// Data returns the flat data. It is shared, not a copy.
func (s *Storage) Data() []float64 { return s.data }

// idCounter generates process-unique buffer ids.
var idCounter atomic.Int64

// Buffer is a named, mutable view over a Storage.
//
// Buffers are created once per logical tensor and then re-pointed over their storage with
// Reshape, Resize and Offset. They are not safe for concurrent mutation.
type Buffer struct {
	name     string
	id       int64
	inherent Dims
	view     View
	storage  *Storage
}

// New allocates a buffer with the inherent shape (a, z, y, x), zero-filled, with a dense
// row-major view of the whole storage.
//
// If name is empty one is generated from the buffer id. Names are used to name kernel
// arguments, so they should be valid C identifiers.
func New(name string, a, z, y, x int) *Buffer {
	inherent := Dims{a, z, y, x}
	for _, axis := range Axes {
		if inherent[axis] <= 0 {
			exceptions.Panicf("buffers.New(%q, %s): axis %s must have dimension > 0", name, inherent, axis)
		}
	}
	b := &Buffer{
		id:       idCounter.Add(1),
		inherent: inherent,
		storage:  NewStorage(inherent.Volume()),
	}
	b.name = name
	if b.name == "" {
		b.name = fmt.Sprintf("buf%d", b.id)
	}
	b.view = View{Size: inherent, Stride: RowMajorStrides(inherent)}
	return b
}

// FromValues allocates a buffer of inherent shape (a, z, y, x) and copies values into it.
func FromValues(name string, values []float64, a, z, y, x int) *Buffer {
	b := New(name, a, z, y, x)
	if len(values) != b.storage.Len() {
		exceptions.Panicf("buffers.FromValues(%q): got %d values for shape %s", name, len(values), b.inherent)
	}
	copy(b.storage.data, values)
	return b
}

// Share returns a new buffer, with its own name, id and view, over the same storage as b.
// The new view starts as a dense view of the whole inherent shape.
func (b *Buffer) Share(name string) *Buffer {
	shared := &Buffer{
		id:       idCounter.Add(1),
		inherent: b.inherent,
		storage:  b.storage,
	}
	shared.name = name
	if shared.name == "" {
		shared.name = fmt.Sprintf("buf%d", shared.id)
	}
	shared.view = View{Size: b.inherent, Stride: RowMajorStrides(b.inherent)}
	return shared
}

// Name of the buffer, used for kernel argument naming.
func (b *Buffer) Name() string { return b.name }

// ID is unique within the process and identifies the buffer in structural comparisons.
func (b *Buffer) ID() int64 { return b.id }

// Inherent returns the shape the buffer was allocated with.
func (b *Buffer) Inherent() Dims { return b.inherent }

// View returns a copy of the current view.
func (b *Buffer) View() View { return b.view }

// Storage returns the underlying (possibly shared) storage.
func (b *Buffer) Storage() *Storage { return b.storage }

// String implements fmt.Stringer.
func (b *Buffer) String() string {
	return fmt.Sprintf("%s%s", b.name, b.view)
}

// Reshape replaces the view size by (a, z, y, x) and recomputes row-major strides.
// The offset is kept.
//
// It panics if the new volume differs from the inherent volume.
func (b *Buffer) Reshape(a, z, y, x int) {
	size := Dims{a, z, y, x}
	if size.Volume() != b.inherent.Volume() {
		exceptions.Panicf("Reshape(%s -> %s) of buffer %q: volume must be preserved (%d != %d)",
			b.view.Size, size, b.name, size.Volume(), b.inherent.Volume())
	}
	newView := View{Size: size, Stride: RowMajorStrides(size), Offset: b.view.Offset}
	b.setView("Reshape", newView)
}

// Resize replaces the view size by (a, z, y, x) leaving the strides untouched, which windows
// a sub-region of the storage. There is no volume check, but the view must stay within the storage.
func (b *Buffer) Resize(a, z, y, x int) {
	newView := b.view
	newView.Size = Dims{a, z, y, x}
	b.setView("Resize", newView)
}

// Offset moves the view origin to the element at coordinates (a, z, y, x) of the current
// strides, i.e.: `Offset = a*Stride[A] + z*Stride[Z] + y*Stride[Y] + x*Stride[X]`.
// Size and strides are untouched.
func (b *Buffer) Offset(a, z, y, x int) {
	newView := b.view
	newView.Offset = newView.Stride.dot(Dims{a, z, y, x})
	b.setView("Offset", newView)
}

// SetView replaces the whole view. It is used to restore a view captured earlier.
func (b *Buffer) SetView(view View) {
	b.setView("SetView", view)
}

func (b *Buffer) setView(opName string, view View) {
	if err := view.Validate(b.storage.Len()); err != nil {
		exceptions.Panicf("%s on buffer %q: %v", opName, b.name, err)
	}
	b.view = view
}

// At returns the element at the given view coordinates.
func (b *Buffer) At(a, z, y, x int) float64 {
	return b.storage.data[b.view.Index(a, z, y, x)]
}

// Set the element at the given view coordinates.
func (b *Buffer) Set(value float64, a, z, y, x int) {
	b.storage.data[b.view.Index(a, z, y, x)] = value
}

// Values returns a copy of the elements of the current view, in row-major order.
func (b *Buffer) Values() []float64 {
	values := make([]float64, 0, b.view.Size.Volume())
	b.view.ForEach(func(idx int) {
		values = append(values, b.storage.data[idx])
	})
	return values
}

// Fill sets every element of the current view to value.
func (b *Buffer) Fill(value float64) {
	b.view.ForEach(func(idx int) {
		b.storage.data[idx] = value
	})
}

// FillRandom sets every element of the current view to a uniform random value in [lo, hi).
//
// The generator is explicit so that graphs can be built deterministically from a seed.
func (b *Buffer) FillRandom(rng *rand.Rand, lo, hi float64) {
	b.view.ForEach(func(idx int) {
		b.storage.data[idx] = lo + (hi-lo)*rng.Float64()
	})
}
