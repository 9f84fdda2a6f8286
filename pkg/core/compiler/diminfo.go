package compiler

import (
	"fmt"
	"strings"

	"github.com/gomlx/looptrace/backends"
	"github.com/gomlx/looptrace/pkg/core/buffers"
)

// DimInfo describes how the coordinate of one axis of a buffer view evolves over the
// repetitions of a group, as a loop nested in the repetition index r:
//
//	coordinate(r) = base + Stride * ((r % Reenter) / Wait)
//
// Wait is the first repetition at which the coordinate differs from the one of repetition 0,
// that is the trip count of the loops nested below this axis. Stride is the coordinate delta
// at that repetition. Reenter is the first repetition at which the coordinate is back to its
// initial value, that is the period of this axis' own loop.
//
// An axis that never changes has Stride 0 and Wait = Reenter = RepeatNum, and an axis that
// never returns to its initial value has Reenter = RepeatNum.
type DimInfo struct {
	Stride, Wait, Reenter int
}

// Coordinate returns the coordinate of the axis at repetition r, given its coordinate at repetition 0.
func (d DimInfo) Coordinate(base, r int) int {
	return base + d.Stride*((r%d.Reenter)/d.Wait)
}

// IsFixed returns whether the axis coordinate never changes.
func (d DimInfo) IsFixed() bool { return d.Stride == 0 }

// String implements fmt.Stringer.
func (d DimInfo) String() string {
	return fmt.Sprintf("{stride=%d wait=%d reenter=%d}", d.Stride, d.Wait, d.Reenter)
}

// OpInfo describes one instruction of the window of a group.
type OpInfo struct {
	// Template is the instruction at repetition 0.
	Template backends.Instruction

	// Out and In hold the dim-info per axis for the output and input views. In is only
	// meaningful for instructions that read an input (see backends.Kind.HasInput).
	Out, In [buffers.NumAxes]DimInfo

	// OutBase and InBase are the axis coordinates of the views at repetition 0, and
	// OutRemainder and InRemainder the part of their offsets not expressible in coordinates.
	OutBase, InBase           buffers.Dims
	OutRemainder, InRemainder int
}

// OutView rebuilds the output view at repetition r.
func (op *OpInfo) OutView(r int) buffers.View {
	return rebuildView(op.Template.Out.View, op.OutBase, op.OutRemainder, &op.Out, r)
}

// InView rebuilds the input view at repetition r.
func (op *OpInfo) InView(r int) buffers.View {
	return rebuildView(op.Template.In.View, op.InBase, op.InRemainder, &op.In, r)
}

// Instruction rebuilds the instruction at repetition r.
func (op *OpInfo) Instruction(r int) backends.Instruction {
	instr := op.Template
	instr.Out.View = op.OutView(r)
	if instr.HasInput() {
		instr.In.View = op.InView(r)
	}
	return instr
}

// String implements fmt.Stringer.
func (op *OpInfo) String() string {
	var sb strings.Builder
	sb.WriteString(op.Template.String())
	writeDimInfo(&sb, "out", &op.Out)
	if op.Template.HasInput() {
		writeDimInfo(&sb, "in", &op.In)
	}
	return sb.String()
}

func writeDimInfo(sb *strings.Builder, name string, dims *[buffers.NumAxes]DimInfo) {
	fmt.Fprintf(sb, "\n\t\t%s:", name)
	for _, axis := range buffers.Axes {
		fmt.Fprintf(sb, " %s=%s", axis, dims[axis])
	}
}

func rebuildView(template buffers.View, base buffers.Dims, remainder int,
	dims *[buffers.NumAxes]DimInfo, r int) buffers.View {
	var coords buffers.Dims
	for _, axis := range buffers.Axes {
		coords[axis] = dims[axis].Coordinate(base[axis], r)
	}
	view := template
	view.Offset = template.OffsetOf(coords) + remainder
	return view
}

// decomposeFn splits the offset of a view into axis coordinates and a remainder, such that
// `view.OffsetOf(coords) + remainder == view.Offset`.
type decomposeFn func(view buffers.View) (coords buffers.Dims, remainder int)

// decompositions are tried in order until one rebuilds every repetition.
//
// The nested one recovers loop nests (e.g. a sliding window moving along y and x). The
// innermost one puts the whole offset on the axis of smallest stride, which recovers views
// moving by a constant linear step even when the step crosses rows.
var decompositions = []decomposeFn{buffers.View.Coordinates, innermostCoordinates}

func innermostCoordinates(view buffers.View) (coords buffers.Dims, remainder int) {
	inner := -1
	for _, axis := range buffers.Axes {
		if stride := view.Stride[axis]; stride > 0 && (inner < 0 || stride <= view.Stride[inner]) {
			inner = int(axis)
		}
	}
	if inner < 0 {
		return coords, view.Offset
	}
	coords[inner] = view.Offset / view.Stride[inner]
	remainder = view.Offset % view.Stride[inner]
	return
}

// sideInfo is the dim-info of one side (output or input) of an instruction.
type sideInfo struct {
	base      buffers.Dims
	remainder int
	dims      [buffers.NumAxes]DimInfo
}

// deriveSide derives the dim-info of one side of an instruction, given its view at each
// repetition. It returns false if no decomposition rebuilds every observed view, in which
// case the dim-info of the first decomposition is returned.
func deriveSide(viewAt func(r int) buffers.View, repeatNum int) (sideInfo, bool) {
	var first sideInfo
	template := viewAt(0)
	for ii, decompose := range decompositions {
		var side sideInfo
		side.base, side.remainder = decompose(template)
		side.dims = deriveDimInfo(side.base, repeatNum, func(r int) buffers.Dims {
			coords, _ := decompose(viewAt(r))
			return coords
		})
		affine := true
		for r := range repeatNum {
			if rebuildView(template, side.base, side.remainder, &side.dims, r) != viewAt(r) {
				affine = false
				break
			}
		}
		if affine {
			return side, true
		}
		if ii == 0 {
			first = side
		}
	}
	return first, false
}

// newOpInfo derives the dim-info of the k-th instruction of the window. It returns whether
// the dim-info rebuilds every repetition exactly.
func newOpInfo(trace []backends.Instruction, start, k, opNum, repeatNum int) (op OpInfo, affine bool) {
	op.Template = trace[start+k]
	at := func(r int) *backends.Instruction { return &trace[start+r*opNum+k] }
	out, affine := deriveSide(func(r int) buffers.View { return at(r).Out.View }, repeatNum)
	op.OutBase, op.OutRemainder, op.Out = out.base, out.remainder, out.dims
	if op.Template.HasInput() {
		in, inAffine := deriveSide(func(r int) buffers.View { return at(r).In.View }, repeatNum)
		op.InBase, op.InRemainder, op.In = in.base, in.remainder, in.dims
		affine = affine && inAffine
	}
	return
}

// deriveDimInfo walks the repetitions, tracking for each axis when its coordinate first
// changes (wait), by how much (stride) and when it comes back to the initial value (reenter).
func deriveDimInfo(base buffers.Dims, repeatNum int, coordsAt func(r int) buffers.Dims) (dims [buffers.NumAxes]DimInfo) {
	for _, axis := range buffers.Axes {
		dims[axis] = DimInfo{Wait: repeatNum, Reenter: repeatNum}
	}
	var changed, reentered [buffers.NumAxes]bool
	for r := 1; r < repeatNum; r++ {
		coords := coordsAt(r)
		for _, axis := range buffers.Axes {
			switch {
			case !changed[axis]:
				if coords[axis] != base[axis] {
					changed[axis] = true
					dims[axis].Wait = r
					dims[axis].Stride = coords[axis] - base[axis]
				}
			case !reentered[axis]:
				if coords[axis] == base[axis] {
					reentered[axis] = true
					dims[axis].Reenter = r
				}
			}
		}
	}
	return
}
