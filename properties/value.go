package properties

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mazznoer/csscolorparser"

	"github.com/stylekit/css/ast"
	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/printer"
	"github.com/stylekit/css/token"
	"github.com/stylekit/css/units"
)

var (
	ErrEmptyValue   = errors.New("empty value")
	ErrInvalidValue = errors.New("invalid value")
)

// Value is the value of a property declaration: a CSSWideKeyword or a
// *SpecifiedValue.
type Value interface {
	printer.CSSer
	value()
}

func (CSSWideKeyword) value()  {}
func (*SpecifiedValue) value() {}

// CSSWideKeyword is a keyword valid for every property.
type CSSWideKeyword uint8

const (
	Initial CSSWideKeyword = iota
	Inherit
	Unset
)

var cssWideKeywords = [...]string{Initial: "initial", Inherit: "inherit", Unset: "unset"}

func (k CSSWideKeyword) String() string {
	if int(k) < len(cssWideKeywords) {
		return cssWideKeywords[k]
	}
	return fmt.Sprintf("CSSWideKeyword(%d)", uint8(k))
}

func (k CSSWideKeyword) ToCSS(p *printer.Printer) { p.WriteString(k.String()) }

// ParseCSSWideKeyword parses a CSS-wide keyword which must be the whole input.
func ParseCSSWideKeyword(in *parser.Input) (CSSWideKeyword, error) {
	pos := in.Pos()
	s, err := in.ExpectIdent()
	if err != nil {
		return 0, err
	}
	for i, name := range cssWideKeywords {
		if strings.EqualFold(s, name) {
			if err := in.ExpectExhausted(); err != nil {
				return 0, err
			}
			return CSSWideKeyword(i), nil
		}
	}
	return 0, parser.Errorf(pos, parser.ErrUnexpectedToken, "expected CSS-wide keyword, got %q", s)
}

// SpecifiedValue is a property value kept as its component values. Only
// well-known shapes such as colors and unit values are parsed on request.
type SpecifiedValue struct {
	Values ast.ComponentValues

	// Names of the custom properties referenced through var().
	References []string

	Pos token.Pos
}

// ParseSpecifiedValue consumes the rest of in as a specified value. Empty
// values, bad strings, bad urls, unbalanced closing brackets and a "!"
// outside of any block are rejected.
func ParseSpecifiedValue(in *parser.Input) (*SpecifiedValue, error) {
	pos := in.Pos()
	values := ast.TrimWhitespace(in.Remaining())
	if len(values) == 0 {
		return nil, parser.Errorf(pos, ErrEmptyValue, "empty value")
	}

	v := &SpecifiedValue{Values: values, Pos: pos}
	if err := v.check(values, true); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *SpecifiedValue) check(values ast.ComponentValues, toplevel bool) error {
	for _, cv := range values {
		switch cv := cv.(type) {
		case *ast.SimpleBlock:
			if err := v.check(cv.Values, false); err != nil {
				return err
			}
		case *ast.Function:
			if strings.EqualFold(cv.Name, "var") {
				if name, ok := varName(cv); ok {
					v.References = append(v.References, name)
				}
			}
			if err := v.check(cv.Values, false); err != nil {
				return err
			}
		case *ast.Token:
			switch tok := cv.Token.(type) {
			case *token.BadString:
				return parser.Errorf(tok.Pos, ErrInvalidValue, "unterminated string")
			case *token.BadURL:
				return parser.Errorf(tok.Pos, ErrInvalidValue, "invalid url")
			case *token.RParen, *token.RBrack, *token.RBrace:
				return parser.Errorf(tok.Position(), ErrInvalidValue, "unbalanced %q", tok.String())
			case *token.Delim:
				if toplevel && tok.Value == "!" {
					return parser.Errorf(tok.Pos, ErrInvalidValue, "unexpected \"!\"")
				}
			}
		}
	}
	return nil
}

// varName returns the custom property named by a var() function.
func varName(fn *ast.Function) (string, bool) {
	in := parser.NewBlockInput(fn)
	name, err := in.ExpectIdent()
	if err != nil || !strings.HasPrefix(name, "--") {
		return "", false
	}
	return name, true
}

func (v *SpecifiedValue) ToCSS(p *printer.Printer) { p.Values(v.Values) }

func (v *SpecifiedValue) String() string { return printer.String(v) }

// Color returns the value as a color when it is a single color keyword,
// hex color or color function.
func (v *SpecifiedValue) Color() (csscolorparser.Color, bool) {
	if len(v.Values) != 1 || len(v.References) > 0 {
		return csscolorparser.Color{}, false
	}
	switch cv := v.Values[0].(type) {
	case *ast.Function:
	case *ast.Token:
		switch cv.Token.(type) {
		case *token.Ident, *token.Hash:
		default:
			return csscolorparser.Color{}, false
		}
	default:
		return csscolorparser.Color{}, false
	}
	c, err := csscolorparser.Parse(v.String())
	if err != nil {
		return csscolorparser.Color{}, false
	}
	return c, true
}

// Calculable parses the value as a single value of a unit domain.
func (v *SpecifiedValue) Calculable(opts units.Options) (units.Calculable, error) {
	in := parser.NewInput(v.Values, v.Pos)
	c, err := units.ParseOutsideCalc(in, opts)
	if err != nil {
		return nil, err
	}
	if err := in.ExpectExhausted(); err != nil {
		return nil, err
	}
	return c, nil
}
