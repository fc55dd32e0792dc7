package numbers_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylekit/css/numbers"
)

func TestNew(t *testing.T) {
	var tests = []struct {
		kind numbers.Kind
		v    float64
		s    string
		err  error
	}{
		{kind: numbers.Signed, v: 1.5, s: "1.5"},
		{kind: numbers.Signed, v: -1.5, s: "-1.5"},
		{kind: numbers.Signed, v: math.Copysign(0, -1), s: "0"},
		{kind: numbers.Unsigned, v: 0.25, s: "0.25"},
		{kind: numbers.Unsigned, v: -0.25, err: numbers.ErrNegative},
		{kind: numbers.Unsigned, v: math.Copysign(0, -1), s: "0"},
		{kind: numbers.SignedInteger, v: -12, s: "-12"},
		{kind: numbers.SignedInteger, v: 1.5, err: numbers.ErrNotAnInteger},
		{kind: numbers.SignedInteger, v: 1 << 40, err: numbers.ErrOutOfRange},
		{kind: numbers.UnsignedInteger, v: 4294967295, s: "4294967295"},
		{kind: numbers.UnsignedInteger, v: -1, err: numbers.ErrNegative},
		{kind: numbers.Signed, v: math.NaN(), err: numbers.ErrNotANumber},
		{kind: numbers.Signed, v: math.Inf(1), err: numbers.ErrInfinite},
		{kind: numbers.Unsigned, v: math.Inf(-1), err: numbers.ErrInfinite},
	}

	for i, tt := range tests {
		n, err := numbers.New(tt.kind, tt.v)
		if tt.err != nil {
			assert.ErrorIs(t, err, tt.err, "%d", i)
			continue
		}
		require.NoError(t, err, "%d", i)
		assert.Equal(t, tt.s, n.String(), "%d", i)
		assert.Equal(t, tt.kind, n.Kind(), "%d", i)
	}
}

func TestConstants(t *testing.T) {
	assert.Equal(t, "0", numbers.Zero(numbers.Unsigned).String())
	assert.Equal(t, "1", numbers.One(numbers.SignedInteger).String())
	assert.Equal(t, "0", numbers.Minimum(numbers.UnsignedInteger).String())
	assert.Equal(t, "-2147483648", numbers.Minimum(numbers.SignedInteger).String())
	assert.Equal(t, "2147483647", numbers.Maximum(numbers.SignedInteger).String())
	assert.Equal(t, "4294967295", numbers.Maximum(numbers.UnsignedInteger).String())
	assert.Equal(t, float64(math.MaxFloat32), numbers.Maximum(numbers.Signed).Float())
	assert.Equal(t, float64(-math.MaxFloat32), numbers.Minimum(numbers.Signed).Float())
}

func TestClamp(t *testing.T) {
	assert.True(t, numbers.Clamp(numbers.Signed, math.Inf(1)).Equal(numbers.Maximum(numbers.Signed)))
	assert.True(t, numbers.Clamp(numbers.Signed, math.Inf(-1)).Equal(numbers.Minimum(numbers.Signed)))
	assert.True(t, numbers.Clamp(numbers.Unsigned, -3).Equal(numbers.Zero(numbers.Unsigned)))
	assert.True(t, numbers.Clamp(numbers.Unsigned, math.Inf(-1)).Equal(numbers.Zero(numbers.Unsigned)))
	assert.True(t, numbers.Clamp(numbers.Signed, math.NaN()).IsZero())
	assert.Equal(t, "7", numbers.Clamp(numbers.SignedInteger, 7.9).String())
	assert.Equal(t, "2147483647", numbers.Clamp(numbers.SignedInteger, 1e12).String())
}

func TestArithmetic(t *testing.T) {
	n := func(k numbers.Kind, v float64) numbers.Number {
		x, err := numbers.New(k, v)
		require.NoError(t, err)
		return x
	}

	assert.Equal(t, "3.5", n(numbers.Signed, 1.5).Add(n(numbers.Signed, 2)).String())
	assert.Equal(t, "-0.5", n(numbers.Signed, 1.5).Sub(n(numbers.Signed, 2)).String())
	assert.Equal(t, "6", n(numbers.Unsigned, 3).Mul(n(numbers.Unsigned, 2)).String())
	assert.Equal(t, "3", n(numbers.SignedInteger, 7).Div(n(numbers.SignedInteger, 2)).String())
	assert.Equal(t, "1", n(numbers.SignedInteger, 7).Rem(n(numbers.SignedInteger, 2)).String())
	assert.Equal(t, "2", n(numbers.Signed, -1.5).Abs().Round().String())
	assert.Equal(t, "-2", n(numbers.Signed, -1.5).Round().String())
	assert.Equal(t, "1.5", n(numbers.Signed, -1.5).Neg().String())
	assert.Equal(t, "1", n(numbers.Signed, 1).Min(n(numbers.Signed, 2)).String())
	assert.Equal(t, "2", n(numbers.Signed, 1).Max(n(numbers.Signed, 2)).String())
}

// Ensure that division by zero saturates to the kind's maximum.
func TestNumber_Div_ByZero(t *testing.T) {
	for _, k := range []numbers.Kind{numbers.Signed, numbers.Unsigned, numbers.SignedInteger, numbers.UnsignedInteger} {
		got := numbers.One(k).Div(numbers.Zero(k))
		assert.True(t, got.Equal(numbers.Maximum(k)), k.String())
		assert.True(t, numbers.One(k).Rem(numbers.Zero(k)).Equal(numbers.Maximum(k)), k.String())
	}
}

// Ensure that unsigned subtraction below zero clamps to zero.
func TestNumber_Sub_Unsigned(t *testing.T) {
	for _, k := range []numbers.Kind{numbers.Unsigned, numbers.UnsignedInteger} {
		got := numbers.One(k).Sub(numbers.Clamp(k, 5))
		assert.True(t, got.Equal(numbers.Zero(k)), k.String())
		assert.True(t, numbers.One(k).Neg().IsZero(), k.String())
	}
}

func TestKind(t *testing.T) {
	assert.True(t, numbers.SignedInteger.IsInteger())
	assert.False(t, numbers.Unsigned.IsInteger())
	assert.True(t, numbers.Signed.AllowsNegative())
	assert.False(t, numbers.UnsignedInteger.AllowsNegative())
	assert.Equal(t, "unsigned integer", numbers.UnsignedInteger.String())
	assert.Equal(t, "Kind(9)", numbers.Kind(9).String())
}
