// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/looptrace/backends"
	"github.com/gomlx/looptrace/backends/kernels"
	"github.com/gomlx/looptrace/internal/workloads"
	"github.com/gomlx/looptrace/pkg/core/buffers"
	"github.com/gomlx/looptrace/pkg/core/compiler"
)

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)

	oddRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999")).
			PaddingLeft(1).PaddingRight(1)

	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 1, 4)
)

func newPlainTable(withHeader bool) *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if withHeader && row == 1 {
				return headerRowStyle
			}
			if row%2 == 0 {
				s = oddRowStyle
			} else {
				s = evenRowStyle
			}
			if col == 0 {
				s = s.Align(lipgloss.Right)
			} else {
				s = s.Align(lipgloss.Left)
			}
			return
		})
}

func summaryTable(w *workloads.Workload, backend backends.Backend, trace []backends.Instruction,
	groups []compiler.Group) *lgtable.Table {
	var numEmitted, numParallel, numElements int
	for ii := range groups {
		k, err := kernels.Emit(&groups[ii], "summary")
		if err != nil {
			continue
		}
		numEmitted++
		if k.Parallel {
			numParallel++
		}
	}
	for ii := range trace {
		numElements += trace[ii].Out.View.Volume()
	}
	table := newPlainTable(false)
	table.Row("workload", fmt.Sprintf("%s (size %d, seed %d)", w.Name, *flagSize, *flagSeed))
	table.Row("backend", backend.Description())
	table.Row("# instructions", humanize.Comma(int64(len(trace))))
	table.Row("# elements written", humanize.Comma(int64(numElements)))
	table.Row("# groups", humanize.Comma(int64(len(groups))))
	table.Row("# kernels", fmt.Sprintf("%d (%d parallel)", numEmitted, numParallel))
	if len(groups) > 0 {
		table.Row("compression", fmt.Sprintf("%.1fx", float64(len(trace))/float64(len(groups))))
	}
	return table
}

func traceTable(trace []backends.Instruction) *lgtable.Table {
	table := newPlainTable(true)
	table.Row("#", "Op", "Out", "In")
	for ii := range trace {
		instr := &trace[ii]
		op := instr.OpName()
		if instr.Kind == backends.KindUnary && instr.Unary.UsesScalar() {
			op = fmt.Sprintf("%s(%g)", op, instr.Scalar)
		}
		in := ""
		if instr.HasInput() {
			in = instr.In.String()
		}
		table.Row(strconv.Itoa(ii), op, instr.Out.String(), in)
	}
	return table
}

func groupsTable(groups []compiler.Group) *lgtable.Table {
	table := newPlainTable(true)
	table.Row("Group", "Trace", "op_num", "repeat_num", "Affine", "Op", "Out dim-info", "In dim-info")
	for ii := range groups {
		group := &groups[ii]
		for k := range group.Ops {
			op := &group.Ops[k]
			cols := []string{"", "", "", "", ""}
			if k == 0 {
				cols = []string{
					strconv.Itoa(ii), fmt.Sprintf("[%d:%d]", group.Start, group.End()),
					strconv.Itoa(group.OpNum), humanize.Comma(int64(group.RepeatNum)), strconv.FormatBool(group.Affine),
				}
			}
			in := ""
			if op.Template.HasInput() {
				in = dimsString(&op.In)
			}
			cols = append(cols, op.Template.OpName(), dimsString(&op.Out), in)
			table.Row(cols...)
		}
	}
	return table
}

// dimsString lists the axes that move over the repetitions, e.g.: "y(1,3,9) x(1,1,3)".
func dimsString(dims *[buffers.NumAxes]compiler.DimInfo) string {
	var parts []string
	for _, axis := range buffers.Axes {
		d := dims[axis]
		if d.IsFixed() {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s(%d,%d,%d)", axis, d.Stride, d.Wait, d.Reenter))
	}
	if len(parts) == 0 {
		return "fixed"
	}
	return strings.Join(parts, " ")
}

func resultsTable(w *workloads.Workload, backend backends.Backend, elapsed time.Duration) *lgtable.Table {
	sum, numNonFinite := checksum(w)
	table := newPlainTable(false)
	table.Row("execution time", elapsed.String())
	table.Row("checksum", fmt.Sprintf("%.6g", sum))
	if numNonFinite > 0 {
		table.Row("# non-finite", humanize.Comma(int64(numNonFinite)))
	}
	if kb, ok := backend.(*kernels.Backend); ok {
		table.Row("# kernels launched", humanize.Comma(kb.NumKernels()))
		table.Row("# interpreted", humanize.Comma(kb.NumFallbackInstructions()))
	}
	var numBytes uint64
	for _, b := range w.Outputs {
		numBytes += uint64(b.Storage().Len()) * 8
	}
	table.Row("output storage", humanize.Bytes(numBytes))
	return table
}
