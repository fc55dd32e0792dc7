package units

import (
	"strconv"
	"strings"

	"github.com/stylekit/css/ast"
	"github.com/stylekit/css/numbers"
	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/printer"
	"github.com/stylekit/css/scanner"
	"github.com/stylekit/css/token"
)

// maxDepth bounds the nesting of attr() and var() substitutions.
const maxDepth = 16

// Calculable is a value of a unit domain which may need a Conversion to be
// evaluated: a constant, a percentage, a calc() expression or an attr() or
// var() reference.
type Calculable interface {
	printer.CSSer

	// Evaluate returns the value in the canonical unit of its domain.
	// Returns false if a relative unit, percentage, attribute or variable
	// cannot be resolved through conv.
	Evaluate(conv Conversion) (numbers.Number, bool)

	// Kind returns the number kind of the evaluated value.
	Kind() numbers.Kind

	eval(e *evaluator) (numbers.Number, bool)
}

// Constant is a dimension written directly.
type Constant struct {
	Value Dimension
	opts  Options
}

// NewConstant returns d as a value parsed with opts.
func NewConstant(d Dimension, opts Options) *Constant {
	return &Constant{Value: d, opts: opts}
}

func (c *Constant) Evaluate(conv Conversion) (numbers.Number, bool) {
	return evaluate(c, conv, c.opts)
}

func (c *Constant) Kind() numbers.Kind { return c.opts.Kind }

func (c *Constant) eval(e *evaluator) (numbers.Number, bool) {
	v, ok := c.Value.Canonical(e.conv)
	if !ok {
		return numbers.Number{}, false
	}
	return numbers.Clamp(e.opts.Kind, v), true
}

func (c *Constant) ToCSS(p *printer.Printer) { p.Print(c.Value) }

// Percent is a percentage of a value supplied by the Conversion. In a
// unitless domain the percentage evaluates to its fraction.
type Percent struct {
	Value Percentage
	opts  Options
}

func (c *Percent) Evaluate(conv Conversion) (numbers.Number, bool) {
	return evaluate(c, conv, c.opts)
}

func (c *Percent) Kind() numbers.Kind { return c.opts.Kind }

func (c *Percent) eval(e *evaluator) (numbers.Number, bool) {
	if e.opts.Domain.Unitless {
		return numbers.Clamp(e.opts.Kind, float64(c.Value)), true
	}
	if e.conv == nil {
		return numbers.Number{}, false
	}
	v, ok := e.conv.Percentage(float64(c.Value))
	if !ok {
		return numbers.Number{}, false
	}
	return numbers.Clamp(e.opts.Kind, v), true
}

func (c *Percent) ToCSS(p *printer.Printer) { p.Print(c.Value) }

// Calc is a calc() expression.
type Calc struct {
	Expr Expression
	opts Options
}

func (c *Calc) Evaluate(conv Conversion) (numbers.Number, bool) {
	return evaluate(c, conv, c.opts)
}

func (c *Calc) Kind() numbers.Kind { return c.opts.Kind }

func (c *Calc) eval(e *evaluator) (numbers.Number, bool) { return c.Expr.eval(e) }

func (c *Calc) ToCSS(p *printer.Printer) {
	p.WriteString("calc(")
	p.Print(c.Expr)
	p.WriteString(")")
}

// Attr is an attr() reference to an element attribute.
type Attr struct {
	// Lowercased attribute name.
	Name string

	// Type or unit keyword. Empty for the default string type.
	TypeOrUnit string

	// Nil when no fallback is given.
	Fallback ast.ComponentValues

	opts Options
}

func (a *Attr) Evaluate(conv Conversion) (numbers.Number, bool) {
	return evaluate(a, conv, a.opts)
}

func (a *Attr) Kind() numbers.Kind { return a.opts.Kind }

func (a *Attr) eval(e *evaluator) (numbers.Number, bool) {
	if e.conv != nil {
		if text, ok := e.conv.Attribute(a.Name); ok {
			if v, ok := a.evalText(e, text); ok {
				return v, true
			}
		}
	}
	if a.Fallback == nil {
		return numbers.Number{}, false
	}
	return e.evalValues(a.Fallback)
}

func (a *Attr) evalText(e *evaluator, text string) (numbers.Number, bool) {
	unit := a.TypeOrUnit
	if unit == "%" || e.opts.Domain.HasUnit(unit) {
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return numbers.Number{}, false
		}
		if unit == "%" {
			return (&Percent{Value: Percentage(v / 100)}).eval(e)
		}
		d, _ := e.opts.Domain.Dimension(v, unit)
		return (&Constant{Value: d}).eval(e)
	}
	return e.evalText(text)
}

func (a *Attr) ToCSS(p *printer.Printer) {
	p.WriteString("attr(")
	p.Ident(a.Name)
	if a.TypeOrUnit != "" {
		p.WriteString(" ")
		if a.TypeOrUnit == "%" {
			p.WriteString("%")
		} else {
			p.Ident(a.TypeOrUnit)
		}
	}
	if a.Fallback != nil {
		p.WriteString(",")
		p.Values(a.Fallback)
	}
	p.WriteString(")")
}

// Var is a var() reference to a custom property.
type Var struct {
	// Name including the leading dashes.
	Name string

	// Nil when no fallback is given. An empty fallback is allowed.
	Fallback ast.ComponentValues

	opts Options
}

func (v *Var) Evaluate(conv Conversion) (numbers.Number, bool) {
	return evaluate(v, conv, v.opts)
}

func (v *Var) Kind() numbers.Kind { return v.opts.Kind }

func (v *Var) eval(e *evaluator) (numbers.Number, bool) {
	if e.conv != nil {
		if text, ok := e.conv.Variable(v.Name); ok {
			if n, ok := e.evalText(text); ok {
				return n, true
			}
		}
	}
	if v.Fallback == nil {
		return numbers.Number{}, false
	}
	return e.evalValues(v.Fallback)
}

func (v *Var) ToCSS(p *printer.Printer) {
	p.WriteString("var(")
	p.Ident(v.Name)
	if v.Fallback != nil {
		p.WriteString(",")
		p.Values(v.Fallback)
	}
	p.WriteString(")")
}

type evaluator struct {
	conv  Conversion
	opts  Options
	depth int
}

func evaluate(c Calculable, conv Conversion, opts Options) (numbers.Number, bool) {
	v, ok := c.eval(&evaluator{conv: conv, opts: opts})
	if !ok {
		return numbers.Zero(opts.Kind), false
	}
	return v, true
}

// evalText parses text as a value of the evaluator's domain and evaluates it.
func (e *evaluator) evalText(text string) (numbers.Number, bool) {
	values, err := parser.ParseComponentValues(scanner.New(strings.NewReader(text)))
	if err != nil {
		return numbers.Number{}, false
	}
	return e.evalValues(values)
}

func (e *evaluator) evalValues(values ast.ComponentValues) (numbers.Number, bool) {
	if e.depth >= maxDepth {
		return numbers.Number{}, false
	}
	in := parser.NewInput(values, token.Pos{})
	c, err := ParseOutsideCalc(in, e.opts)
	if err != nil || !in.IsExhausted() {
		return numbers.Number{}, false
	}
	return c.eval(&evaluator{conv: e.conv, opts: e.opts, depth: e.depth + 1})
}
