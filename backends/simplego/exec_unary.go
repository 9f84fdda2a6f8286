package simplego

import (
	"math"

	"github.com/gomlx/looptrace/backends"
	"github.com/pkg/errors"
)

func init() {
	unaryFns[backends.UnaryAdd] = func(v, s float64) float64 { return v + s }
	unaryFns[backends.UnarySubtract] = func(v, s float64) float64 { return v - s }
	unaryFns[backends.UnaryMultiply] = func(v, s float64) float64 { return v * s }
	unaryFns[backends.UnaryDivide] = func(v, s float64) float64 { return v / s }
	unaryFns[backends.UnaryMax] = func(v, s float64) float64 { return math.Max(v, s) }
	unaryFns[backends.UnaryMin] = func(v, s float64) float64 { return math.Min(v, s) }
	unaryFns[backends.UnarySet] = func(_, s float64) float64 { return s }
	unaryFns[backends.UnaryZero] = func(_, _ float64) float64 { return 0 }
	unaryFns[backends.UnaryExp] = func(v, _ float64) float64 { return math.Exp(v) }
	unaryFns[backends.UnaryLog] = func(v, _ float64) float64 { return math.Log(v) }
	unaryFns[backends.UnarySquare] = func(v, _ float64) float64 { return v * v }
	unaryFns[backends.UnarySqrt] = func(v, _ float64) float64 { return math.Sqrt(v) }
	unaryFns[backends.UnaryReciprocal] = func(v, _ float64) float64 { return 1 / v }
	unaryFns[backends.UnaryNegate] = func(v, _ float64) float64 { return -v }
	unaryFns[backends.UnaryAbs] = func(v, _ float64) float64 { return math.Abs(v) }
	unaryFns[backends.UnaryReLU] = func(v, _ float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	}
}

// execUnary applies `out[i] = f(out[i], scalar)` to every element of the output view.
func execUnary(instr *backends.Instruction) error {
	fn := unaryFns[instr.Unary]
	if fn == nil {
		return errors.Wrapf(backends.ErrUnsupported, "SimpleGo: unary op %s", instr.Unary)
	}
	data := instr.Out.Storage.Data()
	view := instr.Out.View
	if instr.Unary == backends.UnaryZero {
		if view.IsDense() {
			clear(data[view.Offset : view.Offset+view.Volume()])
			return nil
		}
		view.ForEach(func(idx int) { data[idx] = 0 })
		return nil
	}
	scalar := instr.Scalar
	view.ForEach(func(idx int) {
		data[idx] = fn(data[idx], scalar)
	})
	return nil
}
