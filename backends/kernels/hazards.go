package kernels

import (
	"github.com/gomlx/looptrace/backends"
	"github.com/gomlx/looptrace/pkg/core/buffers"
	"github.com/gomlx/looptrace/pkg/core/compiler"
)

// noWriter marks storage elements not written by any repetition.
const noWriter = -1

// isParallelSafe returns whether the repetitions of the group can run in any order: that
// is, no repetition writes an element that a different repetition reads or writes.
//
// Buffers sharing a storage are checked against each other, since they alias.
func isParallelSafe(group *compiler.Group) bool {
	if group.RepeatNum <= 1 {
		return false
	}
	writers := make(map[*buffers.Storage][]int32)
	writersOf := func(storage *buffers.Storage) []int32 {
		w, found := writers[storage]
		if !found {
			w = make([]int32, storage.Len())
			for ii := range w {
				w[ii] = noWriter
			}
			writers[storage] = w
		}
		return w
	}

	// Pass 1: each element can be written by at most one repetition.
	for r := range group.RepeatNum {
		for k := range group.OpNum {
			instr := group.Instruction(r, k)
			w := writersOf(instr.Out.Storage)
			conflict := false
			forEachWritten(&instr, func(idx int) {
				if w[idx] != noWriter && w[idx] != int32(r) {
					conflict = true
				}
				w[idx] = int32(r)
			})
			if conflict {
				return false
			}
		}
	}

	// Pass 2: elements read by a repetition can't be written by another one.
	for r := range group.RepeatNum {
		for k := range group.OpNum {
			instr := group.Instruction(r, k)
			conflict := false
			check := func(storage *buffers.Storage) func(idx int) {
				w, found := writers[storage]
				return func(idx int) {
					if found && w[idx] != noWriter && w[idx] != int32(r) {
						conflict = true
					}
				}
			}
			// Elementwise ops read the elements they write.
			if instr.Kind != backends.KindReduce {
				instr.Out.View.ForEach(check(instr.Out.Storage))
			}
			if instr.HasInput() {
				instr.In.View.ForEach(check(instr.In.Storage))
			}
			if conflict {
				return false
			}
		}
	}
	return true
}

// forEachWritten calls fn with the storage index of every element written by the instruction.
func forEachWritten(instr *backends.Instruction, fn func(idx int)) {
	if instr.Kind == backends.KindReduce {
		fn(instr.Out.View.Offset)
		return
	}
	instr.Out.View.ForEach(fn)
}
