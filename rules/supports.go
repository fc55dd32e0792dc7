package rules

import (
	"errors"
	"strings"

	"github.com/stylekit/css/ast"
	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/printer"
	"github.com/stylekit/css/properties"
	"github.com/stylekit/css/token"
)

// ErrInvalidSupportsCondition is returned for a condition mixing "and" and
// "or" without parentheses, or joined by any other keyword.
var ErrInvalidSupportsCondition = errors.New("invalid @supports condition")

// SupportsRule is an @supports rule.
type SupportsRule struct {
	Condition SupportsCondition
	Rules     Rules
	Pos       token.Pos
}

func (r *SupportsRule) ToCSS(p *printer.Printer) {
	p.WriteString("@supports ")
	p.Print(r.Condition)
	writeBlock(p, r.Rules)
}

// Evaluate returns true if the condition holds when supported reports
// which declarations are supported.
func (r *SupportsRule) Evaluate(supported func(d *properties.Declaration) bool) bool {
	return r.Condition.Evaluate(supported)
}

func parseSupportsRule(c *context, n *ast.AtRule, in *parser.Input) (Rule, error) {
	cond, err := ParseSupportsCondition(in)
	if err != nil {
		return nil, err
	}
	rules, err := c.parseRuleList(n.Block.Values)
	if err != nil {
		return nil, err
	}
	return &SupportsRule{Condition: cond, Rules: rules, Pos: n.Pos}, nil
}

// SupportsCondition is a node of an @supports condition.
type SupportsCondition interface {
	printer.CSSer
	Evaluate(supported func(d *properties.Declaration) bool) bool
}

// SupportsNot negates a condition.
type SupportsNot struct{ Condition SupportsCondition }

func (c *SupportsNot) ToCSS(p *printer.Printer) {
	p.WriteString("not ")
	p.Print(c.Condition)
}

func (c *SupportsNot) Evaluate(supported func(d *properties.Declaration) bool) bool {
	return !c.Condition.Evaluate(supported)
}

// SupportsParens is a condition written in parentheses.
type SupportsParens struct{ Condition SupportsCondition }

func (c *SupportsParens) ToCSS(p *printer.Printer) {
	p.WriteString("(")
	p.Print(c.Condition)
	p.WriteString(")")
}

func (c *SupportsParens) Evaluate(supported func(d *properties.Declaration) bool) bool {
	return c.Condition.Evaluate(supported)
}

// SupportsAnd holds when all of its conditions hold.
type SupportsAnd []SupportsCondition

func (a SupportsAnd) ToCSS(p *printer.Printer) { printer.Join(p, a, " and ") }

func (a SupportsAnd) Evaluate(supported func(d *properties.Declaration) bool) bool {
	for _, c := range a {
		if !c.Evaluate(supported) {
			return false
		}
	}
	return true
}

// SupportsOr holds when any of its conditions holds.
type SupportsOr []SupportsCondition

func (a SupportsOr) ToCSS(p *printer.Printer) { printer.Join(p, a, " or ") }

func (a SupportsOr) Evaluate(supported func(d *properties.Declaration) bool) bool {
	for _, c := range a {
		if c.Evaluate(supported) {
			return true
		}
	}
	return false
}

// SupportsDeclaration tests a single property declaration.
type SupportsDeclaration struct{ Declaration *properties.Declaration }

func (c *SupportsDeclaration) ToCSS(p *printer.Printer) {
	p.WriteString("(")
	p.Print(c.Declaration)
	p.WriteString(")")
}

func (c *SupportsDeclaration) Evaluate(supported func(d *properties.Declaration) bool) bool {
	return supported != nil && supported(c.Declaration)
}

// SupportsFutureSyntax is a function or parenthesised block which is not a
// condition or declaration. It is kept as written and never holds.
type SupportsFutureSyntax struct{ Value ast.ComponentValue }

func (c *SupportsFutureSyntax) ToCSS(p *printer.Printer) { p.Value(c.Value) }

func (c *SupportsFutureSyntax) Evaluate(func(d *properties.Declaration) bool) bool { return false }

// ParseSupportsCondition parses a complete @supports condition.
func ParseSupportsCondition(in *parser.Input) (SupportsCondition, error) {
	cond, err := parseSupportsCondition(in)
	if err != nil {
		return nil, err
	}
	return cond, in.ExpectExhausted()
}

func parseSupportsCondition(in *parser.Input) (SupportsCondition, error) {
	if in.Try(func(in *parser.Input) error { return in.ExpectIdentMatching("not") }) == nil {
		cond, err := parseSupportsInParens(in)
		if err != nil {
			return nil, err
		}
		return &SupportsNot{Condition: cond}, nil
	}

	first, err := parseSupportsInParens(in)
	if err != nil {
		return nil, err
	}
	if in.IsExhausted() {
		return first, nil
	}

	pos := in.Pos()
	keyword, err := in.ExpectIdent()
	if err != nil {
		return nil, err
	}
	keyword = strings.ToLower(keyword)
	if keyword != "and" && keyword != "or" {
		return nil, parser.Errorf(pos, ErrInvalidSupportsCondition, "unexpected %q in @supports condition", keyword)
	}

	a := []SupportsCondition{first}
	for {
		cond, err := parseSupportsInParens(in)
		if err != nil {
			return nil, err
		}
		a = append(a, cond)

		if in.Try(func(in *parser.Input) error { return in.ExpectIdentMatching(keyword) }) != nil {
			break
		}
	}
	if !in.IsExhausted() {
		return nil, in.Errorf(ErrInvalidSupportsCondition, "cannot mix \"and\" and \"or\" without parentheses")
	}
	if keyword == "and" {
		return SupportsAnd(a), nil
	}
	return SupportsOr(a), nil
}

func parseSupportsInParens(in *parser.Input) (SupportsCondition, error) {
	v, err := in.Next()
	if err != nil {
		return nil, err
	}

	switch v := v.(type) {
	case *ast.SimpleBlock:
		if _, ok := v.Token.(*token.LParen); !ok {
			return nil, parser.Unexpected(v)
		}
		if cond, err := parseSupportsConditionOrDeclaration(parser.NewBlockInput(v)); err == nil {
			return cond, nil
		}
	case *ast.Function:
	default:
		return nil, parser.Unexpected(v)
	}
	return &SupportsFutureSyntax{Value: v}, nil
}

func parseSupportsConditionOrDeclaration(in *parser.Input) (SupportsCondition, error) {
	if cond, err := parser.Try(in, ParseSupportsCondition); err == nil {
		return &SupportsParens{Condition: cond}, nil
	}

	d, err := parser.ParseDeclarationValues(in.Remaining())
	if err != nil {
		return nil, err
	}
	decl, err := properties.ParseDeclaration(d, properties.ImportanceAllowed)
	if err != nil {
		return nil, err
	}
	return &SupportsDeclaration{Declaration: decl}, nil
}
