package units

import (
	"errors"
	"strings"

	"github.com/stylekit/css/ast"
	"github.com/stylekit/css/numbers"
	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/token"
)

var (
	ErrUnknownFunction      = errors.New("unknown function")
	ErrUnknownUnit          = errors.New("unknown unit")
	ErrUnexpectedPercentage = errors.New("percentage not allowed")
	ErrUnitlessValue        = errors.New("unit required")
	ErrCalcTypeMismatch     = errors.New("calc() type mismatch")
	ErrCalcWhitespace       = errors.New("calc() operator requires whitespace")
	ErrVarNameMissingDashes = errors.New("var() name must start with --")
	ErrAttrType             = errors.New("unknown attr() type")
)

// Options control how a value of a domain is parsed.
type Options struct {
	Domain *Domain

	// Kind of the evaluated value. Values written outside calc() are
	// validated against it.
	Kind numbers.Kind

	AllowPercentage bool

	// Accept any unitless number as a px length, not only zero.
	AllowUnitlessLength bool
}

// ParseOutsideCalc parses one value of the domain: a dimension, a
// percentage, a unitless number where the domain allows one, or a calc(),
// attr() or var() function.
func ParseOutsideCalc(in *parser.Input, opts Options) (Calculable, error) {
	v, err := in.Next()
	if err != nil {
		return nil, err
	}

	switch v := v.(type) {
	case *ast.Function:
		sub := parser.NewBlockInput(v)
		switch name := strings.ToLower(v.Name); name {
		case "calc", "-webkit-calc", "-moz-calc":
			return parseCalc(sub, opts)
		case "attr":
			return parseAttr(sub, opts)
		case "var":
			return parseVar(sub, opts)
		default:
			return nil, parser.Errorf(v.Pos, ErrUnknownFunction, "unknown function %q", name)
		}

	case *ast.Token:
		switch tok := v.Token.(type) {
		case *token.Dimension:
			if err := validate(tok.Number, tok.Pos, opts); err != nil {
				return nil, err
			}
			d, ok := opts.Domain.Dimension(tok.Number, tok.Unit)
			if !ok {
				return nil, parser.Errorf(tok.Pos, ErrUnknownUnit, "unknown %s unit %q", opts.Domain.Name, tok.Unit)
			}
			return &Constant{Value: d, opts: opts}, nil

		case *token.Percentage:
			if !opts.AllowPercentage {
				return nil, parser.Errorf(tok.Pos, ErrUnexpectedPercentage, "expected %s, got %q", opts.Domain.Name, tok.Value)
			}
			if err := validate(tok.Number, tok.Pos, opts); err != nil {
				return nil, err
			}
			return &Percent{Value: Percentage(tok.Number / 100), opts: opts}, nil

		case *token.Number:
			if !opts.Domain.Unitless && !(opts.Domain == LengthDomain && (tok.Number == 0 || opts.AllowUnitlessLength)) {
				return nil, parser.Errorf(tok.Pos, ErrUnitlessValue, "expected %s, got unitless %q", opts.Domain.Name, tok.Value)
			}
			if err := validate(tok.Number, tok.Pos, opts); err != nil {
				return nil, err
			}
			return &Constant{Value: opts.Domain.zero(tok.Number), opts: opts}, nil
		}
	}
	return nil, parser.Errorf(v.Position(), parser.ErrUnexpectedToken, "expected %s, got %q", opts.Domain.Name, v.String())
}

func validate(v float64, pos token.Pos, opts Options) error {
	if _, err := numbers.New(opts.Kind, v); err != nil {
		return &parser.Error{Pos: pos, Err: err}
	}
	return nil
}

// ParseInsideCalc parses one operand of a calc() expression: a number, a
// value of the domain, a parenthesised sub-expression, a nested calc() or
// an attr() or var() function.
func ParseInsideCalc(in *parser.Input, opts Options) (Expression, error) {
	expr, _, err := parseOperand(in, opts)
	return expr, err
}

func parseAttr(in *parser.Input, opts Options) (*Attr, error) {
	name, err := in.ExpectIdent()
	if err != nil {
		return nil, err
	}
	a := &Attr{Name: strings.ToLower(name), opts: opts}

	// Optional type or unit keyword.
	if tok := in.PeekToken(); tok != nil {
		switch tok := tok.(type) {
		case *token.Ident:
			in.Next()
			typ := strings.ToLower(tok.Value)
			if !isAttrType(typ) && !opts.Domain.HasUnit(typ) {
				return nil, parser.Errorf(tok.Pos, ErrAttrType, "unknown attr() type %q", tok.Value)
			}
			if typ != "string" {
				a.TypeOrUnit = typ
			}
		case *token.Delim:
			if tok.Value == "%" {
				in.Next()
				a.TypeOrUnit = "%"
			}
		}
	}

	if in.IsExhausted() {
		return a, nil
	}
	if err := in.ExpectComma(); err != nil {
		return nil, err
	}
	a.Fallback = ast.TrimWhitespace(in.Remaining())
	if len(a.Fallback) == 0 {
		return nil, in.Errorf(parser.ErrUnexpectedEOF, "expected attr() fallback")
	}
	return a, nil
}

func isAttrType(s string) bool {
	switch s {
	case "string", "color", "url", "integer", "number", "length", "angle", "time", "frequency":
		return true
	}
	return false
}

func parseVar(in *parser.Input, opts Options) (*Var, error) {
	pos := in.Pos()
	name, err := in.ExpectIdent()
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(name, "--") {
		return nil, parser.Errorf(pos, ErrVarNameMissingDashes, "var() name must start with --, got %q", name)
	}
	v := &Var{Name: name, opts: opts}

	if in.IsExhausted() {
		return v, nil
	}
	if err := in.ExpectComma(); err != nil {
		return nil, err
	}
	v.Fallback = ast.TrimWhitespace(in.Remaining())
	if v.Fallback == nil {
		v.Fallback = ast.ComponentValues{}
	}
	return v, nil
}
