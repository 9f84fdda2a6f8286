// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package kernels

import (
	"sync"
	"sync/atomic"

	"github.com/gomlx/looptrace/backends/simplego"
	"github.com/gomlx/looptrace/internal/workerspool"
	"github.com/gomlx/looptrace/pkg/core/buffers"
	"github.com/pkg/errors"
)

// Device runs kernels. It is the boundary to an accelerator runtime: an implementation
// builds Kernel.Source, binds args (one storage per Kernel.Args, in order) and dispatches
// Kernel.GlobalSize work-items in work-groups of Kernel.LocalSize.
//
// Launch returns when the kernel completed.
type Device interface {
	Name() string
	Launch(k *Kernel, args []*buffers.Storage) error
}

// HostDevice runs kernels on the CPU: work-groups are dispatched on a worker pool, and each
// work-item rebuilds the instructions of its repetitions from the group dim-info, and
// applies them with the interpreter.
type HostDevice struct {
	pool *workerspool.Pool

	numLaunches, numWorkItems atomic.Int64
}

// NewHostDevice creates a HostDevice with the given parallelism: 0 runs everything inline,
// -1 is unlimited.
func NewHostDevice(parallelism int) *HostDevice {
	d := &HostDevice{pool: workerspool.New()}
	d.pool.SetMaxParallelism(parallelism)
	return d
}

// Name implements Device.
func (d *HostDevice) Name() string { return "host" }

// Parallelism returns the maximum number of work-groups run concurrently.
func (d *HostDevice) Parallelism() int { return d.pool.MaxParallelism() }

// NumLaunches returns the number of kernels launched so far.
func (d *HostDevice) NumLaunches() int64 { return d.numLaunches.Load() }

// NumWorkItems returns the number of work-items executed so far.
func (d *HostDevice) NumWorkItems() int64 { return d.numWorkItems.Load() }

// Launch implements Device.
func (d *HostDevice) Launch(k *Kernel, args []*buffers.Storage) error {
	if len(args) != len(k.Args) {
		return errors.Errorf("kernel %q takes %d arguments, %d given", k.Name, len(k.Args), len(args))
	}
	if k.GlobalSize <= 0 || k.LocalSize <= 0 {
		return errors.Errorf("kernel %q: invalid work size global=%d, local=%d", k.Name, k.GlobalSize, k.LocalSize)
	}
	if k.GlobalSize > 1 && !k.Parallel {
		return errors.Errorf("kernel %q: repetitions are not independent, it can only run with a global size of 1",
			k.Name)
	}
	bound, err := bindArgs(k, args)
	if err != nil {
		return err
	}
	d.numLaunches.Add(1)
	d.numWorkItems.Add(int64(k.GlobalSize))

	numWorkGroups := k.NumWorkGroups()
	if numWorkGroups == 1 || !d.pool.IsEnabled() {
		for groupIdx := range numWorkGroups {
			if err := d.runWorkGroup(k, bound, groupIdx); err != nil {
				return err
			}
		}
		return nil
	}

	// Workers pull work-groups from a shared counter until exhausted, or until the first error.
	var (
		nextGroup atomic.Int64
		mu        sync.Mutex
		firstErr  error
	)
	d.pool.Saturate(func() {
		for {
			groupIdx := int(nextGroup.Add(1) - 1)
			if groupIdx >= numWorkGroups {
				return
			}
			if err := d.runWorkGroup(k, bound, groupIdx); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				nextGroup.Store(int64(numWorkGroups))
				return
			}
		}
	})
	return firstErr
}

// bindArgs returns the ops of the kernel group with their operands bound to the given storages.
func bindArgs(k *Kernel, args []*buffers.Storage) ([]boundOp, error) {
	storageOf := func(bufferID int64) (*buffers.Storage, error) {
		for ii, arg := range k.Args {
			if arg.BufferID == bufferID {
				if args[ii] == nil {
					return nil, errors.Errorf("kernel %q: argument #%d (%s) is nil", k.Name, ii, arg.Name)
				}
				return args[ii], nil
			}
		}
		return nil, errors.Errorf("kernel %q: no argument for buffer id %d", k.Name, bufferID)
	}
	ops := make([]boundOp, len(k.Group.Ops))
	for idx := range k.Group.Ops {
		template := &k.Group.Ops[idx].Template
		var err error
		if ops[idx].out, err = storageOf(template.Out.BufferID); err != nil {
			return nil, err
		}
		if template.HasInput() {
			if ops[idx].in, err = storageOf(template.In.BufferID); err != nil {
				return nil, err
			}
		}
	}
	return ops, nil
}

type boundOp struct {
	out, in *buffers.Storage
}

// runWorkGroup runs the work-items of the work-group. Each work-item runs the repetitions
// `workItem + i*GlobalSize`, like the emitted source.
func (d *HostDevice) runWorkGroup(k *Kernel, bound []boundOp, groupIdx int) error {
	group := k.Group
	first := groupIdx * k.LocalSize
	last := min(first+k.LocalSize, k.GlobalSize)
	for workItem := first; workItem < last; workItem++ {
		for rep := workItem; rep < group.RepeatNum; rep += k.GlobalSize {
			for idx := range group.Ops {
				instr := group.Ops[idx].Instruction(rep)
				instr.Out.Storage = bound[idx].out
				if instr.HasInput() {
					instr.In.Storage = bound[idx].in
				}
				if err := simplego.Apply(&instr); err != nil {
					return errors.WithMessagef(err, "kernel %q, repetition %d, op #%d", k.Name, rep, idx)
				}
			}
		}
	}
	return nil
}

// Compile-time check that HostDevice implements Device.
var _ Device = (*HostDevice)(nil)
