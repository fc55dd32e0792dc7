package units_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylekit/css/numbers"
	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/printer"
	"github.com/stylekit/css/scanner"
	"github.com/stylekit/css/token"
	"github.com/stylekit/css/units"
)

var (
	length          = units.Options{Domain: units.LengthDomain, Kind: numbers.Signed}
	lengthOrPercent = units.Options{Domain: units.LengthDomain, Kind: numbers.Signed, AllowPercentage: true}
	unsignedLength  = units.Options{Domain: units.LengthDomain, Kind: numbers.Unsigned}
	number          = units.Options{Domain: units.NumberDomain, Kind: numbers.Signed}
)

// parse parses s as a single value and requires the input to be exhausted.
func parse(t *testing.T, s string, opts units.Options) (units.Calculable, error) {
	t.Helper()
	values, err := parser.ParseComponentValues(scanner.New(strings.NewReader(s)))
	require.NoError(t, err)

	in := parser.NewInput(values, token.Pos{})
	c, err := units.ParseOutsideCalc(in, opts)
	if err == nil {
		err = in.ExpectExhausted()
	}
	return c, err
}

// Ensure that values parse and serialize in canonical form.
func TestParseOutsideCalc(t *testing.T) {
	var tests = []struct {
		in   string
		opts units.Options
		s    string
		err  error
	}{
		{in: `10px`, opts: length, s: `10px`},
		{in: `1.5EM`, opts: length, s: `1.5em`},
		{in: `0`, opts: length, s: `0px`},
		{in: `-2.5vmin`, opts: length, s: `-2.5vmin`},
		{in: `50%`, opts: lengthOrPercent, s: `50%`},
		{in: `12.5%`, opts: lengthOrPercent, s: `12.5%`},
		{in: `2`, opts: number, s: `2`},
		{in: `2s`, opts: units.Options{Domain: units.TimeDomain}, s: `2s`},
		{in: `2x`, opts: units.Options{Domain: units.ResolutionDomain}, s: `2dppx`},
		{in: `0.25turn`, opts: units.Options{Domain: units.AngleDomain}, s: `0.25turn`},
		{in: `calc(1px + 2px)`, opts: length, s: `calc(1px + 2px)`},
		{in: `-webkit-calc( 2 * 3px )`, opts: length, s: `calc(2*3px)`},
		{in: `calc(10px / 2 - 50%)`, opts: lengthOrPercent, s: `calc(10px/2 - 50%)`},
		{in: `calc(calc(1px + 2px) * 2)`, opts: length, s: `calc((1px + 2px)*2)`},
		{in: `calc((1em - 2px) / (3 - 1))`, opts: length, s: `calc((1em - 2px)/(3 - 1))`},
		{in: `calc(-5px + 10px)`, opts: unsignedLength, s: `calc(-5px + 10px)`},
		{in: `calc(var(--x) * 2)`, opts: length, s: `calc(var(--x)*2)`},
		{in: `var(--x)`, opts: length, s: `var(--x)`},
		{in: `var(--x, 1px)`, opts: length, s: `var(--x,1px)`},
		{in: `var(--x,)`, opts: length, s: `var(--x,)`},
		{in: `attr(DATA-W px, 2px)`, opts: length, s: `attr(data-w px,2px)`},
		{in: `attr(title string)`, opts: length, s: `attr(title)`},

		{in: `1`, opts: length, err: units.ErrUnitlessValue},
		{in: `1`, opts: units.Options{Domain: units.LengthDomain, AllowUnitlessLength: true}, s: `1px`},
		{in: `50%`, opts: length, err: units.ErrUnexpectedPercentage},
		{in: `5s`, opts: length, err: units.ErrUnknownUnit},
		{in: `2px`, opts: number, err: units.ErrUnknownUnit},
		{in: `-1px`, opts: unsignedLength, err: numbers.ErrNegative},
		{in: `min(1px, 2px)`, opts: length, err: units.ErrUnknownFunction},
		{in: `red`, opts: length, err: parser.ErrUnexpectedToken},
		{in: `1px 2px`, opts: length, err: parser.ErrTrailingInput},
		{in: `calc(1px +2px)`, opts: length, err: parser.ErrTrailingInput},
		{in: `calc(1px +(2px))`, opts: length, err: units.ErrCalcWhitespace},
		{in: `calc(1px * 2px)`, opts: length, err: units.ErrCalcTypeMismatch},
		{in: `calc(1px / 2px)`, opts: length, err: units.ErrCalcTypeMismatch},
		{in: `calc(1px + 2)`, opts: length, err: units.ErrCalcTypeMismatch},
		{in: `calc(2)`, opts: length, err: units.ErrCalcTypeMismatch},
		{in: `calc(1px + )`, opts: length, err: parser.ErrUnexpectedEOF},
		{in: `var(x)`, opts: length, err: units.ErrVarNameMissingDashes},
		{in: `attr(x bogus)`, opts: length, err: units.ErrAttrType},
		{in: `attr(x,)`, opts: length, err: parser.ErrUnexpectedEOF},
	}

	for i, tt := range tests {
		c, err := parse(t, tt.in, tt.opts)
		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Errorf("%d. <%q> error: exp=%q, got=%v", i, tt.in, tt.err, err)
			}
			continue
		} else if err != nil {
			t.Errorf("%d. <%q> unexpected error: %s", i, tt.in, err)
			continue
		}
		if s := printer.String(c); s != tt.s {
			t.Errorf("%d. <%q>\n\nexp: %s\n\ngot: %s", i, tt.in, tt.s, s)
		}
	}
}

// Ensure that values evaluate to their canonical unit.
func TestCalculable_Evaluate(t *testing.T) {
	conv := &units.MapConversion{
		FontSize:        16 * units.AppUnitsPerPx,
		RootFontSize:    10 * units.AppUnitsPerPx,
		ViewportWidth:   1000 * units.AppUnitsPerPx,
		ViewportHeight:  500 * units.AppUnitsPerPx,
		PercentageBasis: 1000,
		Attributes:      map[string]string{"data-w": "4", "data-bad": "x"},
		Variables: map[string]string{
			"--w":    "2px",
			"--loop": "var(--loop)",
			"--calc": "calc(1px + 1px)",
		},
	}

	var tests = []struct {
		in   string
		opts units.Options
		v    float64
		ok   bool
	}{
		{in: `1in`, opts: length, v: 5760, ok: true},
		{in: `1px`, opts: length, v: 60, ok: true},
		{in: `12pt`, opts: length, v: 960, ok: true},
		{in: `2em`, opts: length, v: 1920, ok: true},
		{in: `1rem`, opts: length, v: 600, ok: true},
		{in: `1ex`, opts: length, v: 480, ok: true},
		{in: `10vw`, opts: length, v: 6000, ok: true},
		{in: `10vmin`, opts: length, v: 3000, ok: true},
		{in: `50%`, opts: lengthOrPercent, v: 500, ok: true},
		{in: `calc(1px + 50%)`, opts: lengthOrPercent, v: 560, ok: true},
		{in: `calc(2 * (1px + 1px))`, opts: length, v: 240, ok: true},
		{in: `var(--w)`, opts: length, v: 120, ok: true},
		{in: `var(--calc)`, opts: length, v: 120, ok: true},
		{in: `var(--missing, 3px)`, opts: length, v: 180, ok: true},
		{in: `var(--missing)`, opts: length, ok: false},
		{in: `var(--loop)`, opts: length, ok: false},
		{in: `attr(data-w px)`, opts: length, v: 240, ok: true},
		{in: `attr(data-bad px, 1px)`, opts: length, v: 60, ok: true},
		{in: `attr(data-none)`, opts: length, ok: false},
		{in: `2s`, opts: units.Options{Domain: units.TimeDomain}, v: 2000, ok: true},
		{in: `250ms`, opts: units.Options{Domain: units.TimeDomain}, v: 250, ok: true},
		{in: `96dpi`, opts: units.Options{Domain: units.ResolutionDomain}, v: 1, ok: true},
		{in: `2dppx`, opts: units.Options{Domain: units.ResolutionDomain}, v: 2, ok: true},
		{in: `1turn`, opts: units.Options{Domain: units.AngleDomain}, v: 360, ok: true},
		{in: `200grad`, opts: units.Options{Domain: units.AngleDomain}, v: 180, ok: true},
		{in: `calc(2 * 3)`, opts: number, v: 6, ok: true},
		{in: `50%`, opts: units.Options{Domain: units.NumberDomain, AllowPercentage: true}, v: 0.5, ok: true},
	}

	for i, tt := range tests {
		c, err := parse(t, tt.in, tt.opts)
		require.NoError(t, err, "%d. %s", i, tt.in)

		v, ok := c.Evaluate(conv)
		if ok != tt.ok {
			t.Errorf("%d. <%q> ok: exp=%v, got=%v", i, tt.in, tt.ok, ok)
		} else if ok && v.Float() != tt.v {
			t.Errorf("%d. <%q> value: exp=%v, got=%v", i, tt.in, tt.v, v.Float())
		}
	}
}

// Ensure that relative values cannot be evaluated without a conversion.
func TestCalculable_Evaluate_NoConversion(t *testing.T) {
	c, err := parse(t, `2em`, length)
	require.NoError(t, err)
	_, ok := c.Evaluate(nil)
	assert.False(t, ok)

	c, err = parse(t, `2cm`, length)
	require.NoError(t, err)
	v, ok := c.Evaluate(nil)
	assert.True(t, ok)
	assert.InDelta(t, 2*5760/2.54, v.Float(), 0.01)
}

// Ensure that division by zero evaluates to the maximum of the kind.
func TestCalc_DivideByZero(t *testing.T) {
	for _, in := range []string{`calc(10px / 0)`, `calc(10px / (2 - 2))`, `calc(1px / (0 * 5))`} {
		c, err := parse(t, in, length)
		require.NoError(t, err, in)

		v, ok := c.Evaluate(nil)
		require.True(t, ok, in)
		assert.True(t, v.Equal(numbers.Maximum(numbers.Signed)), "%s: got %v", in, v)
	}

	c, err := parse(t, `calc(10 / 0)`, units.Options{Domain: units.NumberDomain, Kind: numbers.UnsignedInteger})
	require.NoError(t, err)
	v, ok := c.Evaluate(nil)
	require.True(t, ok)
	assert.Equal(t, "4294967295", v.String())
}

// Ensure that subtraction below zero clamps for unsigned kinds.
func TestCalc_UnsignedSubtraction(t *testing.T) {
	c, err := parse(t, `calc(10px - 20px)`, unsignedLength)
	require.NoError(t, err)
	v, ok := c.Evaluate(nil)
	require.True(t, ok)
	assert.True(t, v.IsZero())
	assert.Equal(t, numbers.Unsigned, v.Kind())

	// A signed length keeps its sign.
	c, err = parse(t, `calc(10px - 20px)`, length)
	require.NoError(t, err)
	v, _ = c.Evaluate(nil)
	assert.Equal(t, float64(-600), v.Float())
}

func TestLookupLengthUnit(t *testing.T) {
	u, ok := units.LookupLengthUnit("VMAX")
	assert.True(t, ok)
	assert.Equal(t, units.Vmax, u)
	assert.True(t, u.IsViewportRelative())
	assert.True(t, units.Rem.IsFontRelative())
	assert.True(t, units.Q.IsAbsolute())

	_, ok = units.LookupLengthUnit("furlong")
	assert.False(t, ok)
}
