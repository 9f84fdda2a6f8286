package backends

import (
	"testing"

	"github.com/gomlx/looptrace/pkg/core/buffers"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	config string
}

func (b *fakeBackend) Name() string { return "fake" }
func (b *fakeBackend) Description() string { return "fake backend: " + b.config }
func (b *fakeBackend) Execute(_ []Instruction) error { return nil }
func (b *fakeBackend) Finalize() {}

func TestNewWithConfig(t *testing.T) {
	_, err := NewWithConfig("fake")
	require.Error(t, err, "no backends registered yet")

	Register("fake", func(config string) (Backend, error) {
		if config == "bad" {
			return nil, errors.New("bad config")
		}
		return &fakeBackend{config: config}, nil
	})
	Register("other", func(config string) (Backend, error) { return &fakeBackend{config: "other"}, nil })
	require.Equal(t, []string{"fake", "other"}, List())

	b, err := NewWithConfig("fake:opt1,opt2=x")
	require.NoError(t, err)
	require.Equal(t, "opt1,opt2=x", b.(*fakeBackend).config)

	b, err = NewWithConfig("")
	require.NoError(t, err)
	require.Equal(t, "fake", b.Name(), "the first registered backend is the default")

	_, err = NewWithConfig("fake:bad")
	require.ErrorContains(t, err, "bad config")
	_, err = NewWithConfig("unknown:x")
	require.ErrorContains(t, err, "unknown")

	t.Setenv(ConfigEnvVar, "other")
	b, err = New()
	require.NoError(t, err)
	require.Equal(t, "other", b.(*fakeBackend).config)
}

func TestSplitConfig(t *testing.T) {
	keys, values := SplitConfig(" serial, parallelism=4,,local = 8 ")
	require.Equal(t, []string{"serial", "parallelism", "local"}, keys)
	require.Equal(t, []string{"", "4", "8"}, values)

	keys, values = SplitConfig("")
	require.Empty(t, keys)
	require.Empty(t, values)
}

func TestInstruction(t *testing.T) {
	x := buffers.New("x", 1, 1, 2, 2)
	y := buffers.New("y", 1, 1, 2, 2)
	add := Instruction{Kind: KindBinary, Binary: BinaryAdd, Out: OperandOf(x), In: OperandOf(y)}
	require.NoError(t, add.Validate())
	require.Equal(t, "Binary.Add", add.OpName())

	// Equal ignores offsets.
	x.Resize(1, 1, 1, 2)
	y.Resize(1, 1, 1, 2)
	first := Instruction{Kind: KindBinary, Binary: BinaryAdd, Out: OperandOf(x), In: OperandOf(y)}
	x.Offset(0, 0, 1, 0)
	second := Instruction{Kind: KindBinary, Binary: BinaryAdd, Out: OperandOf(x), In: OperandOf(y)}
	assert.True(t, first.Equal(&second))
	third := second
	third.Binary = BinaryMultiply
	assert.False(t, first.Equal(&third))

	// Sizes must match for binary ops, and reductions write a single element.
	mismatch := Instruction{Kind: KindBinary, Binary: BinaryAdd, Out: OperandOf(x), In: OperandOf(buffers.New("z", 1, 1, 2, 2))}
	require.Error(t, mismatch.Validate())
	reduce := Instruction{Kind: KindReduce, Reduce: ReduceSum, Out: OperandOf(x), In: OperandOf(y)}
	require.Error(t, reduce.Validate())

	invalid := Instruction{Kind: KindUnary, Out: OperandOf(x)}
	require.ErrorIs(t, invalid.Validate(), ErrUnsupported)
	require.Error(t, (&Instruction{Kind: KindUnary, Unary: UnaryAdd}).Validate(), "missing storage")
}

func TestOpNames(t *testing.T) {
	assert.Equal(t, "ReLU", UnaryReLU.String())
	assert.Equal(t, "Copy", BinaryCopy.String())
	assert.Equal(t, "UnaryOp(99)", UnaryOp(99).String())
	assert.False(t, UnaryOp(99).IsAUnaryOp())

	op, err := UnaryOpString("relu")
	require.NoError(t, err)
	assert.Equal(t, UnaryReLU, op)
	reduce, err := ReduceOpString("Avg")
	require.NoError(t, err)
	assert.Equal(t, ReduceAvg, reduce)
	_, err = BinaryOpString("Exp")
	require.Error(t, err)

	assert.Len(t, UnaryOpValues(), int(UnaryLast)+1)
	assert.Equal(t, []string{"Invalid", "Unary", "Binary", "Reduce", "Move"}, KindStrings())
}

func TestCapabilities(t *testing.T) {
	c := Capabilities{
		Unary:  map[UnaryOp]bool{UnaryAdd: true},
		Binary: map[BinaryOp]bool{BinaryAdd: true, BinaryMax: true},
		Reduce: map[ReduceOp]bool{ReduceSum: true},
	}
	c2 := c.Clone()
	delete(c2.Binary, BinaryMax)
	assert.True(t, c.Supports(&Instruction{Kind: KindBinary, Binary: BinaryMax}))
	assert.False(t, c2.Supports(&Instruction{Kind: KindBinary, Binary: BinaryMax}))
	assert.True(t, c2.Supports(&Instruction{Kind: KindReduce, Reduce: ReduceSum}))
	assert.False(t, c2.Supports(&Instruction{Kind: KindMove}))
}
