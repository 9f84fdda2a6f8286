package backends

import "maps"

// Capabilities holds mappings of what is supported by a backend.
//
// For the kernels backend this lists the ops for which kernel source can be emitted;
// instructions not listed are still executed, but by the fallback interpreter.
type Capabilities struct {
	// Unary operations supported. If not listed, it's assumed to be false, hence not supported.
	Unary map[UnaryOp]bool

	// Binary operations supported.
	Binary map[BinaryOp]bool

	// Reduce operations supported.
	Reduce map[ReduceOp]bool
}

// Clone makes a deep copy of the Capabilities.
func (c Capabilities) Clone() Capabilities {
	var c2 Capabilities
	c2.Unary = make(map[UnaryOp]bool, len(c.Unary))
	maps.Copy(c2.Unary, c.Unary)
	c2.Binary = make(map[BinaryOp]bool, len(c.Binary))
	maps.Copy(c2.Binary, c.Binary)
	c2.Reduce = make(map[ReduceOp]bool, len(c.Reduce))
	maps.Copy(c2.Reduce, c.Reduce)
	return c2
}

// Supports returns whether the instruction's operation is listed in the capabilities.
func (c Capabilities) Supports(instr *Instruction) bool {
	switch instr.Kind {
	case KindUnary:
		return c.Unary[instr.Unary]
	case KindBinary:
		return c.Binary[instr.Binary]
	case KindReduce:
		return c.Reduce[instr.Reduce]
	default:
		return false
	}
}
