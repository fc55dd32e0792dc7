package units

import (
	"strings"

	"github.com/stylekit/css/ast"
	"github.com/stylekit/css/numbers"
	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/printer"
	"github.com/stylekit/css/token"
)

// Expression is a node of a calc() expression.
type Expression interface {
	printer.CSSer
	eval(e *evaluator) (numbers.Number, bool)
}

// ValueExpr is an operand holding a value of the domain.
type ValueExpr struct {
	Value Calculable
}

func (x *ValueExpr) eval(e *evaluator) (numbers.Number, bool) { return x.Value.eval(e) }
func (x *ValueExpr) ToCSS(p *printer.Printer)                 { p.Print(x.Value) }

// NumberExpr is a unitless number operand.
type NumberExpr struct {
	Value float64
}

func (x *NumberExpr) eval(e *evaluator) (numbers.Number, bool) {
	return numbers.Clamp(e.opts.Kind, x.Value), true
}
func (x *NumberExpr) ToCSS(p *printer.Printer) { p.Float(x.Value) }

// ParenExpr is a parenthesised sub-expression. A nested calc() is read as one.
type ParenExpr struct {
	Expr Expression
}

func (x *ParenExpr) eval(e *evaluator) (numbers.Number, bool) { return x.Expr.eval(e) }

func (x *ParenExpr) ToCSS(p *printer.Printer) {
	p.WriteString("(")
	p.Print(x.Expr)
	p.WriteString(")")
}

// Operator is a calc() arithmetic operator.
type Operator uint8

const (
	Add Operator = iota
	Sub
	Mul
	Div
)

func (op Operator) String() string {
	switch op {
	case Add:
		return " + "
	case Sub:
		return " - "
	case Mul:
		return "*"
	}
	return "/"
}

// BinaryExpr applies an operator to two operands. Arithmetic is done in the
// kind of the value: division by zero yields the kind's maximum and an
// unsigned result below zero is clamped to zero.
type BinaryExpr struct {
	Op  Operator
	LHS Expression
	RHS Expression
}

func (x *BinaryExpr) eval(e *evaluator) (numbers.Number, bool) {
	lhs, ok := x.LHS.eval(e)
	if !ok {
		return numbers.Number{}, false
	}
	rhs, ok := x.RHS.eval(e)
	if !ok {
		return numbers.Number{}, false
	}
	switch x.Op {
	case Add:
		return lhs.Add(rhs), true
	case Sub:
		return lhs.Sub(rhs), true
	case Mul:
		return lhs.Mul(rhs), true
	}
	return lhs.Div(rhs), true
}

func (x *BinaryExpr) ToCSS(p *printer.Printer) {
	p.Print(x.LHS)
	p.WriteString(x.Op.String())
	p.Print(x.RHS)
}

// valueType tracks whether an expression resolves to a number or to a
// value of the domain. References resolve to either.
type valueType uint8

const (
	typeNumber valueType = iota
	typeValue
	typeAny
)

// parseCalc parses the arguments of a calc() function.
func parseCalc(in *parser.Input, opts Options) (*Calc, error) {
	pos := in.Pos()
	expr, typ, err := parseSum(in, opts)
	if err != nil {
		return nil, err
	}
	if err := in.ExpectExhausted(); err != nil {
		return nil, err
	}
	if typ == typeNumber && !opts.Domain.Unitless {
		return nil, parser.Errorf(pos, ErrCalcTypeMismatch, "calc() must resolve to %s, got number", opts.Domain.Name)
	}
	return &Calc{Expr: expr, opts: opts}, nil
}

func parseSum(in *parser.Input, opts Options) (Expression, valueType, error) {
	lhs, lt, err := parseProduct(in, opts)
	if err != nil {
		return nil, 0, err
	}
	for {
		op, ok, err := parseSumOperator(in)
		if err != nil {
			return nil, 0, err
		} else if !ok {
			return lhs, lt, nil
		}

		pos := in.Pos()
		rhs, rt, err := parseProduct(in, opts)
		if err != nil {
			return nil, 0, err
		}
		switch {
		case lt == typeAny:
			lt = rt
		case rt == typeAny || lt == rt:
		default:
			return nil, 0, parser.Errorf(pos, ErrCalcTypeMismatch, "cannot add a number and a %s", opts.Domain.Name)
		}
		lhs = &BinaryExpr{Op: op, LHS: lhs, RHS: rhs}
	}
}

// parseSumOperator reads a "+" or "-" which must have whitespace on both
// sides. The cursor is left unchanged when no operator follows.
func parseSumOperator(in *parser.Input) (Operator, bool, error) {
	state := in.State()
	if v, err := in.NextIncludingWhitespace(); err != nil || !ast.IsWhitespace(v) {
		in.Reset(state)
		return 0, false, nil
	}

	var op Operator
	switch tok := in.PeekToken(); {
	case token.IsDelim(tok, "+"):
		op = Add
	case token.IsDelim(tok, "-"):
		op = Sub
	default:
		in.Reset(state)
		return 0, false, nil
	}
	in.Next()

	if v, err := in.NextIncludingWhitespace(); err != nil || !ast.IsWhitespace(v) {
		return 0, false, in.Errorf(ErrCalcWhitespace, "%q in calc() must be followed by whitespace", strings.TrimSpace(op.String()))
	}
	return op, true, nil
}

func parseProduct(in *parser.Input, opts Options) (Expression, valueType, error) {
	lhs, lt, err := parseOperand(in, opts)
	if err != nil {
		return nil, 0, err
	}
	for {
		var op Operator
		switch tok := in.PeekToken(); {
		case token.IsDelim(tok, "*"):
			op = Mul
		case token.IsDelim(tok, "/"):
			op = Div
		default:
			return lhs, lt, nil
		}
		in.Next()

		pos := in.Pos()
		rhs, rt, err := parseOperand(in, opts)
		if err != nil {
			return nil, 0, err
		}
		if op == Mul {
			switch {
			case lt == typeValue && rt == typeValue:
				return nil, 0, parser.Errorf(pos, ErrCalcTypeMismatch, "cannot multiply two %s values", opts.Domain.Name)
			case lt == typeValue || rt == typeValue:
				lt = typeValue
			case lt == typeAny || rt == typeAny:
				lt = typeAny
			}
		} else if rt == typeValue {
			return nil, 0, parser.Errorf(pos, ErrCalcTypeMismatch, "cannot divide by a %s", opts.Domain.Name)
		}
		lhs = &BinaryExpr{Op: op, LHS: lhs, RHS: rhs}
	}
}

func parseOperand(in *parser.Input, opts Options) (Expression, valueType, error) {
	v := in.Peek()
	if v == nil {
		_, err := in.Next()
		return nil, 0, err
	}

	// The type of a value of a unitless domain is a number.
	valueTyp := typeValue
	if opts.Domain.Unitless {
		valueTyp = typeNumber
	}

	switch v := v.(type) {
	case *ast.SimpleBlock:
		sub, err := in.ExpectParenthesisBlock()
		if err != nil {
			return nil, 0, err
		}
		return parseParen(sub, opts)

	case *ast.Function:
		switch strings.ToLower(v.Name) {
		case "calc", "-webkit-calc", "-moz-calc":
			in.Next()
			return parseParen(parser.NewBlockInput(v), opts)
		}
		c, err := ParseOutsideCalc(in, opts)
		if err != nil {
			return nil, 0, err
		}
		typ := typeAny
		if a, ok := c.(*Attr); ok && a.TypeOrUnit != "" && isAttrUnit(a.TypeOrUnit, opts.Domain) {
			typ = valueTyp
		} else if opts.Domain.Unitless {
			typ = typeNumber
		}
		return &ValueExpr{Value: c}, typ, nil

	case *ast.Token:
		if n, ok := v.Token.(*token.Number); ok {
			in.Next()
			return &NumberExpr{Value: n.Number}, typeNumber, nil
		}
	}

	// Values inside calc() may be negative whatever the kind.
	signed := opts
	signed.Kind = numbers.Signed
	c, err := ParseOutsideCalc(in, signed)
	if err != nil {
		return nil, 0, err
	}
	setOptions(c, opts)
	return &ValueExpr{Value: c}, valueTyp, nil
}

func parseParen(in *parser.Input, opts Options) (Expression, valueType, error) {
	expr, typ, err := parseSum(in, opts)
	if err != nil {
		return nil, 0, err
	}
	if err := in.ExpectExhausted(); err != nil {
		return nil, 0, err
	}
	return &ParenExpr{Expr: expr}, typ, nil
}

func isAttrUnit(unit string, d *Domain) bool {
	return unit == "%" || d.HasUnit(unit)
}

// setOptions restores the options of a value parsed with a relaxed kind.
func setOptions(c Calculable, opts Options) {
	switch c := c.(type) {
	case *Constant:
		c.opts = opts
	case *Percent:
		c.opts = opts
	}
}
