package simplego

import (
	"math"

	"github.com/gomlx/looptrace/backends"
	"github.com/pkg/errors"
)

func init() {
	reduceExecutors[backends.ReduceSum] = func(instr *backends.Instruction) float64 {
		return accumulate(instr, 0, func(acc, v float64) float64 { return acc + v })
	}
	reduceExecutors[backends.ReduceAvg] = func(instr *backends.Instruction) float64 {
		sum := accumulate(instr, 0, func(acc, v float64) float64 { return acc + v })
		return sum / float64(instr.In.View.Volume())
	}
	reduceExecutors[backends.ReduceMax] = func(instr *backends.Instruction) float64 {
		return accumulate(instr, math.Inf(-1), math.Max)
	}
	reduceExecutors[backends.ReduceMin] = func(instr *backends.Instruction) float64 {
		return accumulate(instr, math.Inf(1), math.Min)
	}
}

// accumulate folds every element of the input view, in row-major order, starting from initial.
func accumulate(instr *backends.Instruction, initial float64, fn func(acc, v float64) float64) float64 {
	data := instr.In.Storage.Data()
	acc := initial
	instr.In.View.ForEach(func(idx int) {
		acc = fn(acc, data[idx])
	})
	return acc
}

// execReduce reduces the whole input view into the element at the origin of the output view.
func execReduce(instr *backends.Instruction) error {
	executor := reduceExecutors[instr.Reduce]
	if executor == nil {
		return errors.Wrapf(backends.ErrUnsupported, "SimpleGo: reduce op %s", instr.Reduce)
	}
	instr.Out.Storage.Data()[instr.Out.View.Offset] = executor(instr)
	return nil
}
