package buffers

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// View is the geometry of a buffer: the current size, strides and linear offset.
//
// It is a plain value, so snapshots of it (e.g. in linearized instructions) don't change when
// the buffer is moved afterwards.
type View struct {
	Size   Dims
	Stride Dims
	Offset int
}

// String implements fmt.Stringer.
func (v View) String() string {
	return fmt.Sprintf("[size=%s stride=%s offset=%d]", v.Size, v.Stride, v.Offset)
}

// Index returns the storage index of the view element at the given coordinates.
func (v View) Index(a, z, y, x int) int {
	return a*v.Stride[AxisA] + z*v.Stride[AxisZ] + y*v.Stride[AxisY] + x*v.Stride[AxisX] + v.Offset
}

// Volume is the number of elements in the view.
func (v View) Volume() int { return v.Size.Volume() }

// Last returns the largest storage index touched by the view.
func (v View) Last() int {
	last := v.Offset
	for _, axis := range Axes {
		last += (v.Size[axis] - 1) * v.Stride[axis]
	}
	return last
}

// IsDense returns whether the view covers a contiguous range of the storage in row-major order.
func (v View) IsDense() bool {
	return v.Stride == RowMajorStrides(v.Size)
}

// Validate returns an error if the view doesn't fit in a storage of storageLen elements.
func (v View) Validate(storageLen int) error {
	for _, axis := range Axes {
		if v.Size[axis] <= 0 {
			return errors.Errorf("view %s: axis %s must have size > 0", v, axis)
		}
		if v.Stride[axis] < 0 {
			return errors.Errorf("view %s: axis %s has negative stride", v, axis)
		}
	}
	if v.Offset < 0 {
		return errors.Errorf("view %s: negative offset", v)
	}
	if last := v.Last(); last >= storageLen {
		return errors.Errorf("view %s reaches element %d, storage only has %d elements", v, last, storageLen)
	}
	return nil
}

// ForEach calls fn with the storage index of every element of the view, in row-major order
// (X varies fastest).
func (v View) ForEach(fn func(idx int)) {
	for a := range v.Size[AxisA] {
		baseA := a*v.Stride[AxisA] + v.Offset
		for z := range v.Size[AxisZ] {
			baseZ := baseA + z*v.Stride[AxisZ]
			for y := range v.Size[AxisY] {
				baseY := baseZ + y*v.Stride[AxisY]
				for x := range v.Size[AxisX] {
					fn(baseY + x*v.Stride[AxisX])
				}
			}
		}
	}
}

// Coordinates decomposes the linear offset into per-axis coordinates, such that
// `Σ coords[d]*Stride[d] + remainder == Offset`.
//
// Axes are visited by decreasing stride -- ties are broken in axis order, A first -- and
// axes with zero stride get coordinate 0. For offsets set with Buffer.Offset within the
// inherent shape this recovers exactly the coordinates that were given.
func (v View) Coordinates() (coords Dims, remainder int) {
	order := v.axesByStride()
	remainder = v.Offset
	for _, axis := range order {
		stride := v.Stride[axis]
		if stride <= 0 {
			continue
		}
		coords[axis] = remainder / stride
		remainder %= stride
	}
	return
}

// axesByStride returns the axes sorted by decreasing stride, stable on axis order.
func (v View) axesByStride() [NumAxes]Axis {
	order := Axes
	sort.SliceStable(order[:], func(i, j int) bool {
		return v.Stride[order[i]] > v.Stride[order[j]]
	})
	return order
}

// dot returns Σ d[axis]*other[axis].
func (d Dims) dot(other Dims) int {
	var sum int
	for _, axis := range Axes {
		sum += d[axis] * other[axis]
	}
	return sum
}

// OffsetOf returns the linear offset of the given coordinates under the view strides.
func (v View) OffsetOf(coords Dims) int {
	return v.Stride.dot(coords)
}
