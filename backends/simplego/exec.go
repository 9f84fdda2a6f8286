// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

import (
	"github.com/gomlx/looptrace/backends"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

type (
	// unaryFn computes the new value of an output element, given its current value and the scalar.
	unaryFn func(value, scalar float64) float64

	// binaryFn combines the current value of an output element with the input element.
	binaryFn func(out, in float64) float64

	// reduceExecutor reduces the input view of the instruction into a single value.
	reduceExecutor func(instr *backends.Instruction) float64
)

var (
	// unaryFns, binaryFns and reduceExecutors should be populated during initialization (`init` functions)
	// for the ops implemented. For the ops not implemented, leave it as nil, and Apply will return an error.
	unaryFns        [backends.UnaryLast]unaryFn
	binaryFns       [backends.BinaryLast]binaryFn
	reduceExecutors [backends.ReduceLast]reduceExecutor
)

// Execute the instructions of the trace in order, in place on their storages.
//
// It stops at the first failing instruction: instructions before it have already been applied.
func (b *Backend) Execute(trace []backends.Instruction) error {
	if b.isFinalized.Load() {
		return errors.Errorf("backend %q has already been finalized", BackendName)
	}
	for ii := range trace {
		if err := Apply(&trace[ii]); err != nil {
			return errors.WithMessagef(err, "while executing instruction #%d of %d", ii, len(trace))
		}
	}
	b.numExecuted.Add(int64(len(trace)))
	if klog.V(2).Enabled() {
		klog.Infof("SimpleGo: executed %d instructions", len(trace))
	}
	return nil
}

// Apply executes one instruction in place on its output storage.
//
// It returns an error (wrapping backends.ErrUnsupported for unknown operations) if the
// instruction is malformed. It is safe to call concurrently for instructions whose output
// elements don't overlap with elements read or written by the others.
func Apply(instr *backends.Instruction) error {
	if err := instr.Validate(); err != nil {
		return err
	}
	switch instr.Kind {
	case backends.KindUnary:
		return execUnary(instr)
	case backends.KindBinary:
		return execBinary(instr)
	case backends.KindReduce:
		return execReduce(instr)
	default:
		return errors.Wrapf(backends.ErrUnsupported, "SimpleGo: instruction kind %s", instr.Kind)
	}
}
