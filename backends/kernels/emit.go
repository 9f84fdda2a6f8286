// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package kernels

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/template"

	"github.com/gomlx/looptrace/backends"
	"github.com/gomlx/looptrace/pkg/core/buffers"
	"github.com/gomlx/looptrace/pkg/core/compiler"
	"github.com/pkg/errors"
)

// Arg is a pointer argument of a kernel: one per distinct buffer referenced by the group.
type Arg struct {
	// Name of the kernel parameter, derived from the buffer name.
	Name string

	BufferID int64

	// Storage of the buffer at emission time.
	Storage *buffers.Storage
}

// Kernel is the source of a parameterized kernel for one group, and its dispatch parameters.
type Kernel struct {
	Name string

	// Source is the OpenCL C source of the kernel. Each work-item runs the repetitions
	// `get_global_id(0) + i*get_global_size(0)` of the group.
	Source string

	// Args in order of first occurrence in the group window, output before input.
	Args []Arg

	Group *compiler.Group

	// GlobalSize is the number of work-items, and LocalSize the number of work-items per work-group.
	GlobalSize, LocalSize int

	// Parallel is true if the repetitions of the group can run concurrently. Otherwise,
	// GlobalSize is 1 and the repetitions run in order.
	Parallel bool
}

// NumWorkGroups returns the number of work-groups needed to cover GlobalSize.
func (k *Kernel) NumWorkGroups() int {
	return (k.GlobalSize + k.LocalSize - 1) / k.LocalSize
}

// ArgStorages returns the storages of the arguments, in order.
func (k *Kernel) ArgStorages() []*buffers.Storage {
	storages := make([]*buffers.Storage, len(k.Args))
	for ii, arg := range k.Args {
		storages[ii] = arg.Storage
	}
	return storages
}

// Emit generates the kernel for the group, restricted to the package Capabilities.
//
// It returns an error wrapping backends.ErrUnsupported if the group is not affine, or if it
// contains binary or reduce Max/Min, for which there is no code generation.
func Emit(group *compiler.Group, name string) (*Kernel, error) {
	return EmitWithCapabilities(Capabilities, group, name)
}

// EmitWithCapabilities generates the kernel for the group, if every one of its operations is
// listed in caps. Otherwise it returns an error wrapping backends.ErrUnsupported.
func EmitWithCapabilities(caps backends.Capabilities, group *compiler.Group, name string) (*Kernel, error) {
	if !group.Affine {
		return nil, errors.Wrapf(backends.ErrUnsupported, "kernel %q: group at %d is not affine", name, group.Start)
	}
	k := &Kernel{Name: name, Group: group}
	argNames := newArgNamer()
	argOf := func(operand *backends.Operand) string {
		for _, arg := range k.Args {
			if arg.BufferID == operand.BufferID {
				return arg.Name
			}
		}
		arg := Arg{Name: argNames.name(operand.Name), BufferID: operand.BufferID, Storage: operand.Storage}
		k.Args = append(k.Args, arg)
		return arg.Name
	}

	data := kernelData{
		Name:      name,
		Start:     group.Start,
		End:       group.End(),
		OpNum:     group.OpNum,
		RepeatNum: group.RepeatNum,
	}
	for idx := range group.Ops {
		op := &group.Ops[idx]
		instr := &op.Template
		if !caps.Supports(instr) {
			return nil, errors.Wrapf(backends.ErrUnsupported, "kernel %q, op #%d: %s not in capabilities", name, idx, instr.OpName())
		}
		emitted := opData{Index: idx, Comment: instr.OpName()}
		emitted.Out = argOf(&instr.Out)
		emitted.OutOffset = offsetExpr(instr.Out.View, &op.Out, group.RepeatNum)
		if instr.HasInput() {
			emitted.In = argOf(&instr.In)
			emitted.InOffset = offsetExpr(instr.In.View, &op.In, group.RepeatNum)
		}
		var err error
		switch instr.Kind {
		case backends.KindUnary:
			err = emitUnary(instr, &emitted)
		case backends.KindBinary:
			err = emitBinary(instr, &emitted)
		case backends.KindReduce:
			err = emitReduce(instr, &emitted)
		default:
			err = errors.Wrapf(backends.ErrUnsupported, "instruction kind %s", instr.Kind)
		}
		if err != nil {
			return nil, errors.WithMessagef(err, "kernel %q, op #%d", name, idx)
		}
		data.Ops = append(data.Ops, emitted)
	}
	params := make([]string, len(k.Args))
	for ii, arg := range k.Args {
		params[ii] = "__global double *" + arg.Name
	}
	data.Params = strings.Join(params, ", ")

	var sb strings.Builder
	if err := kernelTemplate.Execute(&sb, data); err != nil {
		return nil, errors.Wrapf(err, "failed to generate source of kernel %q", name)
	}
	k.Source = sb.String()
	k.Parallel = isParallelSafe(group)
	k.GlobalSize, k.LocalSize = 1, 1
	if k.Parallel {
		k.GlobalSize = group.RepeatNum
	}
	return k, nil
}

type kernelData struct {
	Name, Params     string
	Start, End       int
	OpNum, RepeatNum int
	Ops              []opData
}

type opData struct {
	Index     int
	Comment   string
	Out, In   string
	OutOffset string
	InOffset  string

	// Size of the loops: of the output for elementwise ops, of the input for reductions.
	Size buffers.Dims

	// Statement is the body of the inner loop.
	Statement string

	// IsReduce ops accumulate into `acc`, starting from Init, and store Result.
	IsReduce     bool
	Init, Result string
}

var kernelTemplate = template.Must(template.New("kernel").Parse(
	`// Generated by looptrace. Don't edit it directly.
// Group [{{.Start}}:{{.End}}]: op_num={{.OpNum}}, repeat_num={{.RepeatNum}}.
__kernel void {{.Name}}({{.Params}}) {
	for (int rep = get_global_id(0); rep < {{.RepeatNum}}; rep += get_global_size(0)) {
{{- range .Ops}}
		{ // #{{.Index}} {{.Comment}}
			const int out_off = {{.OutOffset}};
{{- if .In}}
			const int in_off = {{.InOffset}};
{{- end}}
{{- if .IsReduce}}
			double acc = {{.Init}};
{{- end}}
			for (int ia = 0; ia < {{index .Size 0}}; ia++)
			for (int iz = 0; iz < {{index .Size 1}}; iz++)
			for (int iy = 0; iy < {{index .Size 2}}; iy++)
			for (int ix = 0; ix < {{index .Size 3}}; ix++) {
				{{.Statement}}
			}
{{- if .IsReduce}}
			{{.Out}}[out_off] = {{.Result}};
{{- end}}
		}
{{- end}}
	}
}
`))

// offsetExpr returns the C expression of the offset of a view at repetition `rep`, following
// compiler.DimInfo.Coordinate.
func offsetExpr(view buffers.View, dims *[buffers.NumAxes]compiler.DimInfo, repeatNum int) string {
	parts := []string{strconv.Itoa(view.Offset)}
	for _, axis := range buffers.Axes {
		d := dims[axis]
		step := d.Stride * view.Stride[axis]
		if d.IsFixed() || step == 0 {
			continue
		}
		term := "rep"
		if d.Reenter < repeatNum {
			term = fmt.Sprintf("(rep %% %d)", d.Reenter)
		}
		if d.Wait > 1 {
			term = fmt.Sprintf("(%s / %d)", term, d.Wait)
		}
		parts = append(parts, fmt.Sprintf("%d * %s", step, term))
	}
	return strings.Join(parts, " + ")
}

// indexExpr returns the C expression of the index of the current loop element in a view.
func indexExpr(base string, view buffers.View) string {
	parts := []string{base}
	loopVars := [buffers.NumAxes]string{"ia", "iz", "iy", "ix"}
	for _, axis := range buffers.Axes {
		if view.Size[axis] == 1 || view.Stride[axis] == 0 {
			continue
		}
		if view.Stride[axis] == 1 {
			parts = append(parts, loopVars[axis])
		} else {
			parts = append(parts, fmt.Sprintf("%d * %s", view.Stride[axis], loopVars[axis]))
		}
	}
	return strings.Join(parts, " + ")
}

// cLiteral formats a float64 as a C double literal.
func cLiteral(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NAN"
	case math.IsInf(v, 1):
		return "INFINITY"
	case math.IsInf(v, -1):
		return "(-INFINITY)"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	if v < 0 {
		s = "(" + s + ")"
	}
	return s
}

var unaryExprs = map[backends.UnaryOp]string{
	backends.UnaryAdd:        "%[1]s + %[2]s",
	backends.UnarySubtract:   "%[1]s - %[2]s",
	backends.UnaryMultiply:   "%[1]s * %[2]s",
	backends.UnaryDivide:     "%[1]s / %[2]s",
	backends.UnaryMax:        "fmax(%[1]s, %[2]s)",
	backends.UnaryMin:        "fmin(%[1]s, %[2]s)",
	backends.UnarySet:        "%[2]s",
	backends.UnaryExp:        "exp(%[1]s)",
	backends.UnaryLog:        "log(%[1]s)",
	backends.UnarySquare:     "%[1]s * %[1]s",
	backends.UnarySqrt:       "sqrt(%[1]s)",
	backends.UnaryReciprocal: "1.0 / %[1]s",
	backends.UnaryNegate:     "-%[1]s",
	backends.UnaryAbs:        "fabs(%[1]s)",
	backends.UnaryReLU:       "(%[1]s > 0.0 ? %[1]s : 0.0)",
}

func emitUnary(instr *backends.Instruction, op *opData) error {
	element := fmt.Sprintf("%s[%s]", op.Out, indexExpr("out_off", instr.Out.View))
	op.Size = instr.Out.View.Size
	if instr.Unary == backends.UnaryZero {
		op.Statement = element + " = 0.0;"
		return nil
	}
	format, found := unaryExprs[instr.Unary]
	if !found {
		return errors.Wrapf(backends.ErrUnsupported, "no code generation for unary op %s", instr.Unary)
	}
	op.Statement = fmt.Sprintf("%s = %s;", element, exprf(format, element, cLiteral(instr.Scalar)))
	return nil
}

var binaryExprs = map[backends.BinaryOp]string{
	backends.BinaryAdd:      "%[1]s + %[2]s",
	backends.BinarySubtract: "%[1]s - %[2]s",
	backends.BinaryMultiply: "%[1]s * %[2]s",
	backends.BinaryDivide:   "%[1]s / %[2]s",
	backends.BinaryCopy:     "%[2]s",
}

func emitBinary(instr *backends.Instruction, op *opData) error {
	format, found := binaryExprs[instr.Binary]
	if !found {
		return errors.Wrapf(backends.ErrUnsupported, "no code generation for binary op %s", instr.Binary)
	}
	outElement := fmt.Sprintf("%s[%s]", op.Out, indexExpr("out_off", instr.Out.View))
	inElement := fmt.Sprintf("%s[%s]", op.In, indexExpr("in_off", instr.In.View))
	op.Size = instr.Out.View.Size
	op.Statement = fmt.Sprintf("%s = %s;", outElement, exprf(format, outElement, inElement))
	return nil
}

func emitReduce(instr *backends.Instruction, op *opData) error {
	inElement := fmt.Sprintf("%s[%s]", op.In, indexExpr("in_off", instr.In.View))
	op.IsReduce = true
	op.Size = instr.In.View.Size
	op.Init = "0.0"
	op.Statement = fmt.Sprintf("acc += %s;", inElement)
	switch instr.Reduce {
	case backends.ReduceSum:
		op.Result = "acc"
	case backends.ReduceAvg:
		op.Result = fmt.Sprintf("acc / %s", cLiteral(float64(instr.In.View.Volume())))
	default:
		return errors.Wrapf(backends.ErrUnsupported, "no code generation for reduce op %s", instr.Reduce)
	}
	return nil
}

// exprf is fmt.Sprintf for the expression tables.
func exprf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

// reservedNames can't be used as argument names: C keywords and the kernel's own variables.
var reservedNames = map[string]bool{
	"rep": true, "ia": true, "iz": true, "iy": true, "ix": true, "acc": true, "out_off": true, "in_off": true,
	"int": true, "double": true, "float": true, "for": true, "if": true, "else": true, "return": true,
	"void": true, "const": true, "kernel": true, "global": true, "local": true, "while": true, "do": true,
}

// argNamer turns buffer names into distinct C identifiers.
type argNamer struct {
	used map[string]bool
}

func newArgNamer() *argNamer {
	return &argNamer{used: make(map[string]bool)}
}

func (n *argNamer) name(bufferName string) string {
	var sb strings.Builder
	for ii, c := range bufferName {
		switch {
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			sb.WriteRune(c)
		case c >= '0' && c <= '9':
			if ii == 0 {
				sb.WriteRune('_')
			}
			sb.WriteRune(c)
		default:
			sb.WriteRune('_')
		}
	}
	base := sb.String()
	if base == "" || reservedNames[base] || strings.HasPrefix(base, "__") {
		base = "buf_" + base
	}
	name := base
	for suffix := 2; n.used[name]; suffix++ {
		name = fmt.Sprintf("%s_%d", base, suffix)
	}
	n.used[name] = true
	return name
}
