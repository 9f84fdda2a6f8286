package simplego

import (
	"math"

	"github.com/gomlx/looptrace/backends"
	"github.com/gomlx/looptrace/pkg/core/buffers"
	"github.com/pkg/errors"
)

func init() {
	binaryFns[backends.BinaryAdd] = func(out, in float64) float64 { return out + in }
	binaryFns[backends.BinarySubtract] = func(out, in float64) float64 { return out - in }
	binaryFns[backends.BinaryMultiply] = func(out, in float64) float64 { return out * in }
	binaryFns[backends.BinaryDivide] = func(out, in float64) float64 { return out / in }
	binaryFns[backends.BinaryMax] = math.Max
	binaryFns[backends.BinaryMin] = math.Min
	binaryFns[backends.BinaryCopy] = func(_, in float64) float64 { return in }
}

// execBinary applies `out[i] = out[i] ⊕ in[i]`, iterating over the output view.
// Both views have the same size (checked by Instruction.Validate).
func execBinary(instr *backends.Instruction) error {
	fn := binaryFns[instr.Binary]
	if fn == nil {
		return errors.Wrapf(backends.ErrUnsupported, "SimpleGo: binary op %s", instr.Binary)
	}
	outData, inData := instr.Out.Storage.Data(), instr.In.Storage.Data()
	outView, inView := instr.Out.View, instr.In.View
	size := outView.Size
	for a := range size[buffers.AxisA] {
		for z := range size[buffers.AxisZ] {
			for y := range size[buffers.AxisY] {
				outIdx := outView.Index(a, z, y, 0)
				inIdx := inView.Index(a, z, y, 0)
				for range size[buffers.AxisX] {
					outData[outIdx] = fn(outData[outIdx], inData[inIdx])
					outIdx += outView.Stride[buffers.AxisX]
					inIdx += inView.Stride[buffers.AxisX]
				}
			}
		}
	}
	return nil
}
