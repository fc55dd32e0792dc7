// Package numbers implements the validated numeric domains used by CSS values.
//
// A Number never holds NaN or an infinity, and never holds a negative value
// when its Kind forbids one. Arithmetic saturates instead of failing:
// division by zero yields the kind's Maximum and a result below the kind's
// Minimum is clamped.
package numbers

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/stylekit/css/printer"
)

var (
	ErrNotANumber   = errors.New("number is not a number")
	ErrInfinite     = errors.New("number is infinite")
	ErrNegative     = errors.New("number must not be negative")
	ErrNotAnInteger = errors.New("number must be an integer")
	ErrOutOfRange   = errors.New("number is out of range")
)

// Kind selects the domain of a Number.
type Kind uint8

const (
	// Signed is a single precision number that may be negative.
	Signed Kind = iota

	// Unsigned is a single precision number that is never negative.
	Unsigned

	// SignedInteger is a 32-bit signed integer.
	SignedInteger

	// UnsignedInteger is a 32-bit unsigned integer.
	UnsignedInteger
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Signed:
		return "signed"
	case Unsigned:
		return "unsigned"
	case SignedInteger:
		return "signed integer"
	case UnsignedInteger:
		return "unsigned integer"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsInteger returns true for the integer kinds.
func (k Kind) IsInteger() bool { return k == SignedInteger || k == UnsignedInteger }

// AllowsNegative returns true for the signed kinds.
func (k Kind) AllowsNegative() bool { return k == Signed || k == SignedInteger }

func (k Kind) max() float64 {
	switch k {
	case SignedInteger:
		return math.MaxInt32
	case UnsignedInteger:
		return math.MaxUint32
	}
	return math.MaxFloat32
}

func (k Kind) min() float64 {
	switch k {
	case Signed:
		return -math.MaxFloat32
	case SignedInteger:
		return math.MinInt32
	}
	return 0
}

// Number is a validated value of a Kind.
type Number struct {
	kind Kind
	v    float64
}

// New returns a number of kind k, validating v.
func New(k Kind, v float64) (Number, error) {
	switch {
	case math.IsNaN(v):
		return Number{}, ErrNotANumber
	case math.IsInf(v, 0):
		return Number{}, ErrInfinite
	case v < 0 && !k.AllowsNegative():
		return Number{}, fmt.Errorf("%w: %s", ErrNegative, strconv.FormatFloat(v, 'f', -1, 64))
	case k.IsInteger() && v != math.Trunc(v):
		return Number{}, fmt.Errorf("%w: %s", ErrNotAnInteger, strconv.FormatFloat(v, 'f', -1, 64))
	case v > k.max() || v < k.min():
		return Number{}, fmt.Errorf("%w: %s", ErrOutOfRange, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return Number{kind: k, v: normalize(k, v)}, nil
}

// normalize rounds float kinds to single precision and drops negative zero.
func normalize(k Kind, v float64) float64 {
	if v == 0 {
		return 0
	}
	if !k.IsInteger() {
		return float64(float32(v))
	}
	return v
}

// Zero returns the zero value of kind k.
func Zero(k Kind) Number { return Number{kind: k} }

// One returns the value one of kind k.
func One(k Kind) Number { return Number{kind: k, v: 1} }

// Minimum returns the smallest value of kind k.
func Minimum(k Kind) Number { return Number{kind: k, v: k.min()} }

// Maximum returns the largest value of kind k.
func Maximum(k Kind) Number { return Number{kind: k, v: k.max()} }

// Clamp converts v to kind k without failing. NaN becomes Zero, values
// beyond the range become Maximum or Minimum and a disallowed negative
// becomes Zero. Integer kinds truncate toward zero.
func Clamp(k Kind, v float64) Number {
	switch {
	case math.IsNaN(v):
		return Zero(k)
	case v < 0 && !k.AllowsNegative():
		return Zero(k)
	case v >= k.max():
		return Maximum(k)
	case v <= k.min():
		return Minimum(k)
	}
	if k.IsInteger() {
		v = math.Trunc(v)
	}
	return Number{kind: k, v: normalize(k, v)}
}

// Kind returns the domain of n.
func (n Number) Kind() Kind { return n.kind }

// Float returns the value of n.
func (n Number) Float() float64 { return n.v }

// Int returns the value of n truncated to an integer.
func (n Number) Int() int64 { return int64(n.v) }

// IsZero returns true if n is zero.
func (n Number) IsZero() bool { return n.v == 0 }

// Equal returns true if n and o have the same kind and value.
func (n Number) Equal(o Number) bool { return n.kind == o.kind && n.v == o.v }

// Convert returns n in kind k, clamping as needed.
func (n Number) Convert(k Kind) Number { return Clamp(k, n.v) }

// Add returns n+o in the kind of n.
func (n Number) Add(o Number) Number { return Clamp(n.kind, n.v+o.v) }

// Sub returns n-o in the kind of n. A negative result of an unsigned kind is Zero.
func (n Number) Sub(o Number) Number { return Clamp(n.kind, n.v-o.v) }

// Mul returns n*o in the kind of n.
func (n Number) Mul(o Number) Number { return Clamp(n.kind, n.v*o.v) }

// Div returns n/o in the kind of n. Division by zero returns Maximum.
// Integer kinds truncate the quotient toward zero.
func (n Number) Div(o Number) Number {
	if o.v == 0 {
		return Maximum(n.kind)
	}
	return Clamp(n.kind, n.v/o.v)
}

// Rem returns the remainder of n/o in the kind of n. A zero divisor returns Maximum.
func (n Number) Rem(o Number) Number {
	if o.v == 0 {
		return Maximum(n.kind)
	}
	return Clamp(n.kind, math.Mod(n.v, o.v))
}

// Neg returns -n. Negating a positive unsigned number returns Zero.
func (n Number) Neg() Number { return Clamp(n.kind, -n.v) }

// Abs returns the absolute value of n.
func (n Number) Abs() Number { return Clamp(n.kind, math.Abs(n.v)) }

// Round returns n rounded to the nearest integer, half away from zero.
func (n Number) Round() Number { return Clamp(n.kind, math.Round(n.v)) }

// Min returns the smaller of n and o.
func (n Number) Min(o Number) Number {
	if o.v < n.v {
		return Clamp(n.kind, o.v)
	}
	return n
}

// Max returns the larger of n and o.
func (n Number) Max(o Number) Number {
	if o.v > n.v {
		return Clamp(n.kind, o.v)
	}
	return n
}

// String returns the canonical text of n.
func (n Number) String() string {
	if n.kind.IsInteger() {
		return strconv.FormatInt(int64(n.v), 10)
	}
	return printer.FormatFloat(n.v)
}

// ToCSS writes the canonical text of n.
func (n Number) ToCSS(p *printer.Printer) {
	p.WriteString(n.String())
}
