// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package compiler partitions a linearized trace into groups of repeating instructions.
//
// A Group is a window of OpNum instructions repeated RepeatNum times, where the repetitions
// differ only by the offsets of their buffer views. For each instruction of the window and each
// axis of its buffers, a DimInfo describes how the axis coordinate evolves over the repetitions,
// so that any repetition can be rebuilt from the first one and a linear repetition index.
// This is what a kernel generator needs to emit one parameterized kernel per group.
package compiler

import (
	"fmt"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/looptrace/backends"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Group of instructions: the window trace[Start:Start+OpNum] repeated RepeatNum times.
type Group struct {
	Start     int
	OpNum     int
	RepeatNum int

	// Ops has one entry per instruction of the window.
	Ops []OpInfo

	// Affine is true if rebuilding every repetition from Ops reproduces exactly the views
	// observed in the trace. Kernels can only be emitted for affine groups.
	Affine bool
}

// Len is the number of trace instructions covered by the group.
func (g *Group) Len() int { return g.OpNum * g.RepeatNum }

// End is the index in the trace of the first instruction after the group.
func (g *Group) End() int { return g.Start + g.Len() }

// Instruction rebuilds the k-th instruction of the window for repetition r.
func (g *Group) Instruction(r, k int) backends.Instruction {
	return g.Ops[k].Instruction(r)
}

// String implements fmt.Stringer.
func (g *Group) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Group[%d:%d] op_num=%d repeat_num=%d", g.Start, g.End(), g.OpNum, g.RepeatNum)
	if !g.Affine {
		sb.WriteString(" (not affine)")
	}
	for k := range g.Ops {
		fmt.Fprintf(&sb, "\n\t%s", &g.Ops[k])
	}
	return sb.String()
}

// Compile extracts the group starting at trace[start].
//
// It returns the group and the number of instructions it consumed, always >= 1.
func Compile(trace []backends.Instruction, start int) (group Group, consumed int, err error) {
	if start < 0 || start >= len(trace) {
		err = errors.Errorf("compiler.Compile(start=%d): out of range for trace of %d instructions", start, len(trace))
		return
	}
	group.Start = start
	group.OpNum = findPeriod(trace, start)
	group.RepeatNum = countRepeats(trace, start, group.OpNum)
	consumed = group.Len()
	if start+consumed > len(trace) {
		exceptions.Panicf("compiler.Compile(start=%d): group of %d instructions overflows trace of %d instructions",
			start, consumed, len(trace))
	}
	group.Ops = make([]OpInfo, group.OpNum)
	group.Affine = true
	for k := range group.OpNum {
		var affine bool
		group.Ops[k], affine = newOpInfo(trace, start, k, group.OpNum, group.RepeatNum)
		group.Affine = group.Affine && affine
	}
	return
}

// CompileAll partitions the whole trace into groups.
func CompileAll(trace []backends.Instruction) ([]Group, error) {
	var groups []Group
	var used int
	for used < len(trace) {
		group, consumed, err := Compile(trace, used)
		if err != nil {
			return nil, err
		}
		used += consumed
		if used > len(trace) {
			exceptions.Panicf("compiler.CompileAll: consumed %d instructions of a trace of %d", used, len(trace))
		}
		if klog.V(2).Enabled() {
			klog.Infof("compiler: %s", &group)
		}
		groups = append(groups, group)
	}
	klog.V(1).Infof("compiler: trace of %d instructions partitioned into %d groups", len(trace), len(groups))
	return groups, nil
}

// findPeriod returns the length of the first window starting at start that is immediately
// repeated, or 1 if there is none.
func findPeriod(trace []backends.Instruction, start int) int {
	for j := start + 1; j < len(trace); j++ {
		period := j - start
		if j+period > len(trace) {
			// Larger periods won't fit either.
			break
		}
		if !trace[j].Equal(&trace[start]) {
			continue
		}
		if windowRepeats(trace, start, j, period) {
			return period
		}
	}
	return 1
}

// windowRepeats returns whether trace[other:other+period] is structurally equal to trace[start:start+period].
func windowRepeats(trace []backends.Instruction, start, other, period int) bool {
	for k := range period {
		if !trace[other+k].Equal(&trace[start+k]) {
			return false
		}
	}
	return true
}

// countRepeats counts how many consecutive times the window trace[start:start+period]
// appears, starting with itself. Only complete windows are counted.
func countRepeats(trace []backends.Instruction, start, period int) int {
	repeats := 1
	for next := start + period; next+period <= len(trace); next += period {
		if !windowRepeats(trace, start, next, period) {
			break
		}
		repeats++
	}
	return repeats
}
