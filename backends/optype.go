package backends

// Kind is the family of an operation. Each family has its own enum of sub-operations.
type Kind int

//go:generate go tool enumer -type=Kind -trimprefix=Kind -output=gen_kind_enumer.go optype.go

const (
	KindInvalid Kind = iota
	KindUnary
	KindBinary
	KindReduce
	KindMove
)

// HasInput returns whether operations of this kind read a second (input) buffer.
func (k Kind) HasInput() bool {
	return k == KindBinary || k == KindReduce
}

// UnaryOp is applied in place to every element of the output view: `out[i] = f(out[i], scalar)`.
type UnaryOp int

//go:generate go tool enumer -type=UnaryOp -trimprefix=Unary -output=gen_unaryop_enumer.go optype.go

const (
	UnaryInvalid UnaryOp = iota
	UnaryAdd
	UnarySubtract
	UnaryMultiply
	UnaryDivide
	UnaryMax
	UnaryMin
	UnarySet
	UnaryZero
	UnaryExp
	UnaryLog
	UnarySquare
	UnarySqrt
	UnaryReciprocal
	UnaryNegate
	UnaryAbs
	UnaryReLU

	// UnaryLast is a marker, and it can be used to size tables indexed by UnaryOp.
	UnaryLast
)

// UsesScalar returns whether the scalar parameter is read by the op.
func (op UnaryOp) UsesScalar() bool {
	switch op {
	case UnaryAdd, UnarySubtract, UnaryMultiply, UnaryDivide, UnaryMax, UnaryMin, UnarySet:
		return true
	default:
		return false
	}
}

// BinaryOp is applied elementwise, in place: `out[i] = out[i] ⊕ in[i]`.
type BinaryOp int

//go:generate go tool enumer -type=BinaryOp -trimprefix=Binary -output=gen_binaryop_enumer.go optype.go

const (
	BinaryInvalid BinaryOp = iota
	BinaryAdd
	BinarySubtract
	BinaryMultiply
	BinaryDivide
	BinaryMax
	BinaryMin
	BinaryCopy

	// BinaryLast is a marker, and it can be used to size tables indexed by BinaryOp.
	BinaryLast
)

// ReduceOp reduces every element of the input view into the single element at the origin of the output view.
type ReduceOp int

//go:generate go tool enumer -type=ReduceOp -trimprefix=Reduce -output=gen_reduceop_enumer.go optype.go

const (
	ReduceInvalid ReduceOp = iota
	ReduceSum
	ReduceAvg
	ReduceMax
	ReduceMin

	// ReduceLast is a marker, and it can be used to size tables indexed by ReduceOp.
	ReduceLast
)

// MoveOp changes the view of a buffer. Moves are never emitted as instructions: they are
// applied to the live view of the buffer during linearization.
type MoveOp int

//go:generate go tool enumer -type=MoveOp -trimprefix=Move -output=gen_moveop_enumer.go optype.go

const (
	MoveInvalid MoveOp = iota
	MoveReshape
	MoveResize
	MoveOffset

	// MoveLast is a marker.
	MoveLast
)

