package backends

import (
	"fmt"
	"math"
	"strings"

	"github.com/gomlx/looptrace/pkg/core/buffers"
	"github.com/pkg/errors"
)

// Operand is a buffer as seen by an instruction: its identity and storage, plus a snapshot of
// its view taken when the instruction was created.
type Operand struct {
	Name     string
	BufferID int64
	Storage  *buffers.Storage
	View     buffers.View
}

// OperandOf snapshots the current view of the buffer.
func OperandOf(b *buffers.Buffer) Operand {
	return Operand{
		Name:     b.Name(),
		BufferID: b.ID(),
		Storage:  b.Storage(),
		View:     b.View(),
	}
}

// IsValid returns whether the operand points to a storage.
func (o Operand) IsValid() bool { return o.Storage != nil }

// SameShape returns whether both operands refer to the same buffer with the same view size.
// Offsets (and strides) are not compared.
func (o Operand) SameShape(other Operand) bool {
	return o.BufferID == other.BufferID && o.View.Size == other.View.Size
}

// String implements fmt.Stringer.
func (o Operand) String() string {
	return fmt.Sprintf("%s%s", o.Name, o.View)
}

// Instruction is the flat, self-contained record of one non-move operation, as produced by the
// linearizer: the operation codes and scalar, and the resolved views of its buffers.
//
// Only the sub-op field matching Kind is meaningful.
type Instruction struct {
	Kind   Kind
	Unary  UnaryOp
	Binary BinaryOp
	Reduce ReduceOp
	Scalar float64

	// Out is the buffer written by the instruction.
	Out Operand

	// In is the buffer read by binary and reduce instructions, see Kind.HasInput.
	In Operand
}

// HasInput returns whether the instruction reads the In operand.
func (instr *Instruction) HasInput() bool { return instr.Kind.HasInput() }

// OpName returns the qualified name of the operation, e.g.: "Unary.Add".
func (instr *Instruction) OpName() string {
	switch instr.Kind {
	case KindUnary:
		return "Unary." + instr.Unary.String()
	case KindBinary:
		return "Binary." + instr.Binary.String()
	case KindReduce:
		return "Reduce." + instr.Reduce.String()
	default:
		return instr.Kind.String()
	}
}

// Equal returns whether the instructions are structurally equal: same operation and scalar,
// and the same buffers with the same view sizes. Offsets are expected to differ between
// repetitions of a loop, so they are not compared.
func (instr *Instruction) Equal(other *Instruction) bool {
	if instr.Kind != other.Kind ||
		math.Float64bits(instr.Scalar) != math.Float64bits(other.Scalar) ||
		!instr.Out.SameShape(other.Out) {
		return false
	}
	switch instr.Kind {
	case KindUnary:
		return instr.Unary == other.Unary
	case KindBinary:
		return instr.Binary == other.Binary && instr.In.SameShape(other.In)
	case KindReduce:
		return instr.Reduce == other.Reduce && instr.In.SameShape(other.In)
	default:
		return false
	}
}

// Validate checks that the instruction is well-formed and that its views fit their storage.
func (instr *Instruction) Validate() error {
	if !instr.Out.IsValid() {
		return errors.Errorf("%s: output operand has no storage", instr.OpName())
	}
	if err := instr.Out.View.Validate(instr.Out.Storage.Len()); err != nil {
		return errors.WithMessagef(err, "%s: output operand %q", instr.OpName(), instr.Out.Name)
	}
	switch instr.Kind {
	case KindUnary:
		if instr.Unary <= UnaryInvalid || instr.Unary >= UnaryLast {
			return errors.Wrapf(ErrUnsupported, "invalid unary op %s", instr.Unary)
		}
		return nil
	case KindBinary:
		if instr.Binary <= BinaryInvalid || instr.Binary >= BinaryLast {
			return errors.Wrapf(ErrUnsupported, "invalid binary op %s", instr.Binary)
		}
	case KindReduce:
		if instr.Reduce <= ReduceInvalid || instr.Reduce >= ReduceLast {
			return errors.Wrapf(ErrUnsupported, "invalid reduce op %s", instr.Reduce)
		}
	default:
		return errors.Wrapf(ErrUnsupported, "instruction of kind %s cannot be executed", instr.Kind)
	}
	if !instr.In.IsValid() {
		return errors.Errorf("%s: input operand has no storage", instr.OpName())
	}
	if err := instr.In.View.Validate(instr.In.Storage.Len()); err != nil {
		return errors.WithMessagef(err, "%s: input operand %q", instr.OpName(), instr.In.Name)
	}
	if instr.Kind == KindBinary && instr.In.View.Size != instr.Out.View.Size {
		return errors.Errorf("%s: input size %s differs from output size %s",
			instr.OpName(), instr.In.View.Size, instr.Out.View.Size)
	}
	if instr.Kind == KindReduce && instr.Out.View.Size != (buffers.Dims{1, 1, 1, 1}) {
		return errors.Errorf("%s: output must be a single element, got size %s",
			instr.OpName(), instr.Out.View.Size)
	}
	return nil
}

// String implements fmt.Stringer.
func (instr *Instruction) String() string {
	var sb strings.Builder
	sb.WriteString(instr.OpName())
	if instr.Kind == KindUnary && instr.Unary.UsesScalar() {
		fmt.Fprintf(&sb, "(%g)", instr.Scalar)
	}
	fmt.Fprintf(&sb, " out=%s", instr.Out)
	if instr.HasInput() {
		fmt.Fprintf(&sb, " in=%s", instr.In)
	}
	return sb.String()
}

// TraceString pretty-prints a trace, one instruction per line.
func TraceString(trace []Instruction) string {
	var sb strings.Builder
	for ii := range trace {
		fmt.Fprintf(&sb, "#%d\t%s\n", ii, &trace[ii])
	}
	return sb.String()
}
