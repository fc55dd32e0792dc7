package properties_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylekit/css/ast"
	"github.com/stylekit/css/numbers"
	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/printer"
	"github.com/stylekit/css/properties"
	"github.com/stylekit/css/scanner"
	"github.com/stylekit/css/token"
	"github.com/stylekit/css/units"
)

func values(t *testing.T, s string) ast.ComponentValues {
	t.Helper()
	a, err := parser.ParseComponentValues(scanner.New(strings.NewReader(s)))
	require.NoError(t, err)
	return a
}

func declaration(t *testing.T, s string) *ast.Declaration {
	t.Helper()
	d, err := parser.ParseDeclaration(scanner.New(strings.NewReader(s)))
	require.NoError(t, err)
	return d
}

// Ensure that declarations parse and serialize in canonical form.
func TestParseDeclaration(t *testing.T) {
	var tests = []struct {
		in     string
		policy properties.ImportancePolicy
		s      string
		err    error
	}{
		{in: `color: red`, s: `color: red`},
		{in: `COLOR : Red`, s: `color: Red`},
		{in: `margin: 0  auto`, s: `margin: 0 auto`},
		{in: `font-family: "Helvetica Neue" , Arial`, s: `font-family: "Helvetica Neue",Arial`},
		{in: `color: red !important`, s: `color: red!important`},
		{in: `color: red ! IMPORTANT`, s: `color: red!important`},
		{in: `-webkit-transition: all 1s`, s: `-webkit-transition: all 1s`},
		{in: `--Main-Color: #06c`, s: `--Main-Color: #06c`},
		{in: `color: inherit`, s: `color: inherit`},
		{in: `color: INITIAL`, s: `color: initial`},
		{in: `color: inherit red`, s: `color: inherit red`},
		{in: `width: calc(100% - 10px)`, s: `width: calc(100% - 10px)`},

		{in: `color: red !important`, policy: properties.ImportanceForbidden, err: properties.ErrImportanceForbidden},
		{in: `color:`, err: properties.ErrEmptyValue},
		{in: `color: !important`, err: properties.ErrEmptyValue},
		{in: `color: red ! blue`, err: properties.ErrInvalidValue},
		{in: "content: \"abc\nx", err: properties.ErrInvalidValue},
		{in: `background: url(a b)`, err: properties.ErrInvalidValue},
		{in: `color: red)`, err: properties.ErrInvalidValue},
	}

	for i, tt := range tests {
		decl, err := properties.ParseDeclaration(declaration(t, tt.in), tt.policy)
		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Errorf("%d. <%q> error: exp=%q, got=%v", i, tt.in, tt.err, err)
			}
			continue
		} else if err != nil {
			t.Errorf("%d. <%q> unexpected error: %s", i, tt.in, err)
			continue
		}
		if s := decl.String(); s != tt.s {
			t.Errorf("%d. <%q>\n\nexp: %s\n\ngot: %s", i, tt.in, tt.s, s)
		}
	}
}

// Ensure that a CSS-wide keyword only matches when it is the whole value.
func TestParseDeclaration_CSSWideKeyword(t *testing.T) {
	decl, err := properties.ParseDeclaration(declaration(t, `color: unset`), properties.ImportanceAllowed)
	require.NoError(t, err)
	assert.Equal(t, properties.Unset, decl.Value)

	decl, err = properties.ParseDeclaration(declaration(t, `color: unset !important`), properties.ImportanceAllowed)
	require.NoError(t, err)
	assert.Equal(t, properties.Unset, decl.Value)
	assert.Equal(t, properties.Important, decl.Importance)

	decl, err = properties.ParseDeclaration(declaration(t, `color: initial blue`), properties.ImportanceAllowed)
	require.NoError(t, err)
	v, ok := decl.Value.(*properties.SpecifiedValue)
	require.True(t, ok, "expected specified value, got %T", decl.Value)
	assert.Equal(t, "initial blue", v.String())

	kw, err := properties.ParseCSSWideKeyword(parser.NewInput(values(t, `initial`), token.Pos{}))
	require.NoError(t, err)
	assert.Equal(t, properties.Initial, kw)

	_, err = properties.ParseCSSWideKeyword(parser.NewInput(values(t, `initial extra`), token.Pos{}))
	assert.ErrorIs(t, err, parser.ErrTrailingInput)
}

func TestDeclaration_Names(t *testing.T) {
	decl, err := properties.ParseDeclaration(declaration(t, `-MOZ-Box-Sizing: border-box`), properties.ImportanceAllowed)
	require.NoError(t, err)
	assert.Equal(t, properties.Moz, decl.VendorPrefix)
	assert.Equal(t, "box-sizing", decl.Name)
	assert.Equal(t, "-moz-box-sizing", decl.FullName())
	assert.False(t, decl.IsCustom())

	decl, err = properties.ParseDeclaration(declaration(t, `--Gap: 4px`), properties.ImportanceAllowed)
	require.NoError(t, err)
	assert.Equal(t, properties.NoPrefix, decl.VendorPrefix)
	assert.Equal(t, "--Gap", decl.Name)
	assert.True(t, decl.IsCustom())
}

func TestSplitVendorPrefix(t *testing.T) {
	var tests = []struct {
		in     string
		prefix properties.VendorPrefix
		name   string
	}{
		{"-webkit-keyframes", properties.Webkit, "keyframes"},
		{"-o-viewport", properties.O, "viewport"},
		{"-Servo-foo-bar", properties.Servo, "foo-bar"},
		{"-acme-widget", properties.VendorPrefix("acme"), "widget"},
		{"--custom", properties.NoPrefix, "--custom"},
		{"color", properties.NoPrefix, "color"},
		{"-x", properties.NoPrefix, "-x"},
		{"-webkit-", properties.NoPrefix, "-webkit-"},
		{"-nodash", properties.NoPrefix, "-nodash"},
	}
	for _, tt := range tests {
		prefix, name := properties.SplitVendorPrefix(tt.in)
		assert.Equal(t, tt.prefix, prefix, tt.in)
		assert.Equal(t, tt.name, name, tt.in)
	}
	assert.True(t, properties.Epub.IsKnown())
	assert.False(t, properties.VendorPrefix("acme").IsKnown())
}

// Ensure that a bad declaration is dropped and the rest of the list kept.
func TestParseDeclarations_Recovery(t *testing.T) {
	var dropped []error
	a := properties.ParseDeclarations(
		values(t, `color: red; 12: x; width: ; @media print {} ; margin: 0 !important; top: a ! b; left: 1px`),
		properties.ImportanceAllowed,
		func(err error) { dropped = append(dropped, err) },
	)

	var buf strings.Builder
	p := printer.New(&buf)
	p.Print(a)
	assert.Equal(t, `color: red;margin: 0!important;left: 1px`, buf.String())
	require.Len(t, dropped, 4)

	var atRule, empty int
	for _, err := range dropped {
		if errors.Is(err, properties.ErrUnexpectedAtRule) {
			atRule++
		}
		if errors.Is(err, properties.ErrEmptyValue) {
			empty++
		}
		_, ok := parser.PositionOf(err)
		assert.True(t, ok, "missing position: %s", err)
	}
	assert.Equal(t, 1, atRule)
	assert.Equal(t, 1, empty)

	d, ok := a.Get("margin")
	require.True(t, ok)
	assert.Equal(t, properties.Important, d.Importance)
}

// Ensure that importance is rejected where the list forbids it.
func TestParseDeclarations_ImportanceForbidden(t *testing.T) {
	var dropped []error
	a := properties.ParseDeclarations(values(t, `opacity: 0; color: red !important`), properties.ImportanceForbidden, func(err error) {
		dropped = append(dropped, err)
	})
	require.Len(t, a, 1)
	assert.Equal(t, "opacity", a[0].Name)
	require.Len(t, dropped, 1)
	assert.ErrorIs(t, dropped[0], properties.ErrImportanceForbidden)
}

func TestSpecifiedValue_References(t *testing.T) {
	decl, err := properties.ParseDeclaration(declaration(t, `margin: var(--a) calc(var(--b, 1px) * 2)`), properties.ImportanceAllowed)
	require.NoError(t, err)
	v := decl.Value.(*properties.SpecifiedValue)
	assert.Equal(t, []string{"--a", "--b"}, v.References)
}

func TestSpecifiedValue_Color(t *testing.T) {
	var tests = []struct {
		in  string
		hex string
		ok  bool
	}{
		{in: `color: red`, hex: "#ff0000", ok: true},
		{in: `color: #0f08`, hex: "#00ff0088", ok: true},
		{in: `color: rgb(0, 0, 255)`, hex: "#0000ff", ok: true},
		{in: `color: 10px`},
		{in: `color: red blue`},
		{in: `color: var(--x)`},
		{in: `color: notacolor`},
	}
	for _, tt := range tests {
		decl, err := properties.ParseDeclaration(declaration(t, tt.in), properties.ImportanceAllowed)
		require.NoError(t, err, tt.in)
		c, ok := decl.Value.(*properties.SpecifiedValue).Color()
		assert.Equal(t, tt.ok, ok, tt.in)
		if ok {
			assert.Equal(t, tt.hex, c.HexString(), tt.in)
		}
	}
}

func TestSpecifiedValue_Calculable(t *testing.T) {
	decl, err := properties.ParseDeclaration(declaration(t, `width: calc(2 * 10px)`), properties.ImportanceAllowed)
	require.NoError(t, err)

	c, err := decl.Value.(*properties.SpecifiedValue).Calculable(units.Options{Domain: units.LengthDomain, Kind: numbers.Unsigned})
	require.NoError(t, err)
	v, ok := c.Evaluate(nil)
	require.True(t, ok)
	assert.Equal(t, float64(20*units.AppUnitsPerPx), v.Float())

	_, err = decl.Value.(*properties.SpecifiedValue).Calculable(units.Options{Domain: units.TimeDomain})
	assert.ErrorIs(t, err, units.ErrCalcTypeMismatch)
}

func TestCustomIdent(t *testing.T) {
	_, err := properties.NewCustomIdent("Inherit")
	assert.ErrorIs(t, err, properties.ErrReservedIdent)
	_, err = properties.NewCustomIdent("default")
	assert.ErrorIs(t, err, properties.ErrReservedIdent)
	_, err = properties.NewCustomIdent("NONE", "none")
	assert.ErrorIs(t, err, properties.ErrReservedIdent)

	ident, err := properties.NewCustomIdent("fade-in", "none")
	require.NoError(t, err)
	assert.Equal(t, "fade-in", printer.String(ident))

	assert.True(t, properties.SpecifiedURL("#clip").IsFragment())
	assert.False(t, properties.SpecifiedURL("a.svg#clip").IsFragment())
	assert.Equal(t, `url("a b.svg")`, printer.String(properties.SpecifiedURL("a b.svg")))
}
