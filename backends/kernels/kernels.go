// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package kernels implements a backend that partitions traces into groups of repeating
// instructions (see package compiler), emits one OpenCL C kernel per group, and launches it on
// a Device.
//
// The default device runs the kernels on the host, executing the work-items of a kernel on a
// pool of goroutines. Groups for which no kernel can be emitted (see Emit) are interpreted one
// instruction at a time, so results are always the same as with the "go" backend.
//
// Configuration options, comma-separated, e.g. "kernels:parallelism=4,local=8":
//
//   - parallelism=N: maximum number of work-groups run concurrently. 0 runs everything inline,
//     -1 is unlimited. Default is the number of CPUs.
//   - local=N: number of work-items per work-group. Default is 16.
//   - serial: launch every kernel with a single work-item, running the repetitions in order.
package kernels

import (
	"fmt"
	"maps"
	"runtime"
	"strconv"
	"sync/atomic"

	"github.com/gomlx/looptrace/backends"
	"github.com/gomlx/looptrace/backends/simplego"
	"github.com/gomlx/looptrace/pkg/core/compiler"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// BackendName to be used in LOOPTRACE_BACKEND to specify this backend.
const BackendName = "kernels"

// DefaultLocalSize is the default number of work-items per work-group.
const DefaultLocalSize = 16

func init() {
	backends.Register(BackendName, New)
}

// Backend implements backends.Backend.
type Backend struct {
	device       Device
	localSize    int
	serial       bool
	capabilities backends.Capabilities

	numKernels, numFallbackInstructions atomic.Int64
	isFinalized                         atomic.Bool
}

// Compile-time check that kernels.Backend implements backends.Backend.
var _ backends.Backend = &Backend{}

// New constructs a new kernels Backend running on a HostDevice. See package documentation for the options.
func New(config string) (backends.Backend, error) {
	parallelism := runtime.NumCPU()
	b := &Backend{localSize: DefaultLocalSize, capabilities: Capabilities.Clone()}
	keys, values := backends.SplitConfig(config)
	for ii, key := range keys {
		value := values[ii]
		switch key {
		case "parallelism":
			n, err := strconv.Atoi(value)
			if err != nil || n < -1 {
				return nil, errors.Errorf("invalid value %q for option %q of %s backend", value, key, BackendName)
			}
			parallelism = n
		case "local":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return nil, errors.Errorf("invalid value %q for option %q of %s backend", value, key, BackendName)
			}
			b.localSize = n
		case "serial":
			if value != "" {
				return nil, errors.Errorf("option %q of %s backend takes no value, got %q", key, BackendName, value)
			}
			b.serial = true
		default:
			return nil, errors.Errorf("unknown configuration option %q for %s backend", key, BackendName)
		}
	}
	b.device = NewHostDevice(parallelism)
	return b, nil
}

// Name returns the short name of the backend.
func (b *Backend) Name() string { return BackendName }

// String implements fmt.Stringer.
func (b *Backend) String() string { return BackendName }

// Description is a longer description of the Backend that can be used to pretty-print.
func (b *Backend) Description() string {
	mode := "parallel"
	if b.serial {
		mode = "serial"
	}
	return fmt.Sprintf("Loop-detecting kernel backend (device %q, %s, local size %d)", b.device.Name(), mode, b.localSize)
}

// Capabilities returns the operations for which kernels can be emitted. Other operations are
// still executed, by the interpreter.
func (b *Backend) Capabilities() backends.Capabilities {
	return b.capabilities
}

// SetCapabilities restricts the operations for which kernels are emitted. Operations not
// listed in Capabilities can't be enabled, since there is no code generation for them.
func (b *Backend) SetCapabilities(caps backends.Capabilities) {
	caps = caps.Clone()
	maps.DeleteFunc(caps.Unary, func(op backends.UnaryOp, _ bool) bool { return !Capabilities.Unary[op] })
	maps.DeleteFunc(caps.Binary, func(op backends.BinaryOp, _ bool) bool { return !Capabilities.Binary[op] })
	maps.DeleteFunc(caps.Reduce, func(op backends.ReduceOp, _ bool) bool { return !Capabilities.Reduce[op] })
	b.capabilities = caps
}

// Device used to launch kernels.
func (b *Backend) Device() Device { return b.device }

// SetDevice replaces the device used to launch kernels.
func (b *Backend) SetDevice(device Device) { b.device = device }

// NumKernels returns the number of kernels launched so far.
func (b *Backend) NumKernels() int64 { return b.numKernels.Load() }

// NumFallbackInstructions returns the number of instructions interpreted one at a time so far,
// because no kernel could be emitted for their group.
func (b *Backend) NumFallbackInstructions() int64 { return b.numFallbackInstructions.Load() }

// Finalize releases all the associated resources immediately, and makes the backend invalid.
func (b *Backend) Finalize() {
	b.isFinalized.Store(true)
}

// Execute partitions the trace in groups and runs each one as a kernel, in order.
//
// Groups whose kernel can't be emitted (errors wrapping backends.ErrUnsupported) are
// interpreted instead.
func (b *Backend) Execute(trace []backends.Instruction) error {
	if b.isFinalized.Load() {
		return errors.Errorf("backend %q has already been finalized", BackendName)
	}
	for ii := range trace {
		if err := trace[ii].Validate(); err != nil {
			return errors.WithMessagef(err, "invalid instruction #%d of %d", ii, len(trace))
		}
	}
	groups, err := compiler.CompileAll(trace)
	if err != nil {
		return err
	}
	for groupIdx := range groups {
		group := &groups[groupIdx]
		k, err := EmitWithCapabilities(b.capabilities, group, fmt.Sprintf("group_%d", groupIdx))
		if err != nil {
			if !errors.Is(err, backends.ErrUnsupported) {
				return err
			}
			if err := b.interpret(trace, group, err); err != nil {
				return err
			}
			continue
		}
		if err := b.launch(k); err != nil {
			return err
		}
	}
	return nil
}

// interpret the instructions of a group for which no kernel could be emitted.
func (b *Backend) interpret(trace []backends.Instruction, group *compiler.Group, reason error) error {
	klog.V(1).Infof("kernels: interpreting %d instructions of group at %d: %v", group.Len(), group.Start, reason)
	for ii := group.Start; ii < group.End(); ii++ {
		if err := simplego.Apply(&trace[ii]); err != nil {
			return errors.WithMessagef(err, "while interpreting instruction #%d of %d", ii, len(trace))
		}
	}
	b.numFallbackInstructions.Add(int64(group.Len()))
	return nil
}

// launch configures the work sizes of the kernel and launches it on the device.
func (b *Backend) launch(k *Kernel) error {
	b.configure(k)
	if klog.V(2).Enabled() {
		klog.Infof("kernels: launching %q, global=%d, local=%d, parallel=%v:\n%s",
			k.Name, k.GlobalSize, k.LocalSize, k.Parallel, k.Source)
	}
	if err := b.device.Launch(k, k.ArgStorages()); err != nil {
		return errors.WithMessagef(err, "while launching kernel %q on device %q", k.Name, b.device.Name())
	}
	b.numKernels.Add(1)
	return nil
}

// configure sets the work sizes of the kernel according to the backend options.
func (b *Backend) configure(k *Kernel) {
	if b.serial || !k.Parallel {
		k.GlobalSize = 1
	}
	k.LocalSize = min(b.localSize, k.GlobalSize)
}
