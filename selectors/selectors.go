// Package selectors parses selector lists into compound selectors joined by
// combinators and writes them back in canonical form. Selectors are not
// matched against documents.
package selectors

import (
	"errors"
	"strings"

	"github.com/stylekit/css/ast"
	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/printer"
	"github.com/stylekit/css/token"
)

var (
	ErrEmptySelector       = errors.New("empty selector")
	ErrInvalidSelector     = errors.New("invalid selector")
	ErrUndeclaredNamespace = errors.New("undeclared namespace prefix")
)

// NamespaceResolver looks up the URL bound to a namespace prefix.
type NamespaceResolver interface {
	LookupPrefix(prefix string) (string, bool)
}

// List is a non-empty list of selectors.
type List []*Selector

// ParseList parses a comma separated list of selectors. Namespace prefixes
// must be declared in ns, which may be nil. Repeated selectors are removed.
func ParseList(in *parser.Input, ns NamespaceResolver) (List, error) {
	if in.IsExhausted() {
		return nil, in.Errorf(ErrEmptySelector, "expected selector")
	}
	a, err := parser.ParseCommaSeparated(in, func(in *parser.Input) (*Selector, error) {
		return Parse(in, ns)
	})
	if err != nil {
		return nil, err
	}
	return List(a).Deduplicate(), nil
}

// Deduplicate returns the list without selectors whose CSS text repeats an
// earlier selector.
func (a List) Deduplicate() List {
	seen := make(map[string]struct{}, len(a))
	other := make(List, 0, len(a))
	for _, sel := range a {
		s := sel.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		other = append(other, sel)
	}
	return other
}

func (a List) ToCSS(p *printer.Printer) { printer.Join(p, a, ",") }

func (a List) String() string { return printer.String(a) }

// Combinator joins two compound selectors.
type Combinator uint8

const (
	Descendant Combinator = iota
	Child
	NextSibling
	SubsequentSibling
)

func (c Combinator) String() string {
	switch c {
	case Child:
		return ">"
	case NextSibling:
		return "+"
	case SubsequentSibling:
		return "~"
	}
	return " "
}

// Selector is a complex selector: compound selectors joined by combinators.
// Combinators[i] joins Compounds[i] and Compounds[i+1].
type Selector struct {
	Compounds   []*Compound
	Combinators []Combinator
	Pos         token.Pos
}

// IsSimpleDescendantOnly returns true if the selector only uses descendant
// combinators and has no pseudo-element.
func (s *Selector) IsSimpleDescendantOnly() bool {
	for _, c := range s.Combinators {
		if c != Descendant {
			return false
		}
	}
	for _, c := range s.Compounds {
		for _, v := range c.Simples {
			if _, ok := v.(*PseudoElement); ok {
				return false
			}
		}
	}
	return true
}

func (s *Selector) ToCSS(p *printer.Printer) {
	for i, c := range s.Compounds {
		if i > 0 {
			p.WriteString(s.Combinators[i-1].String())
		}
		p.Print(c)
	}
}

func (s *Selector) String() string { return printer.String(s) }

// Parse parses a single selector which must be the whole input.
func Parse(in *parser.Input, ns NamespaceResolver) (*Selector, error) {
	in.SkipWhitespace()
	sel := &Selector{Pos: in.Pos()}
	if in.IsExhausted() {
		return nil, in.Errorf(ErrEmptySelector, "expected selector")
	}

	c, err := parseCompound(in, ns)
	if err != nil {
		return nil, err
	}
	sel.Compounds = append(sel.Compounds, c)

	for {
		space := false
		for v := in.PeekIncludingWhitespace(); v != nil && ast.IsWhitespace(v); v = in.PeekIncludingWhitespace() {
			in.NextIncludingWhitespace()
			space = true
		}
		if in.IsExhausted() {
			return sel, nil
		}

		comb := Descendant
		switch tok := in.PeekToken(); {
		case token.IsDelim(tok, ">"):
			comb = Child
		case token.IsDelim(tok, "+"):
			comb = NextSibling
		case token.IsDelim(tok, "~"):
			comb = SubsequentSibling
		default:
			if !space {
				v := in.Peek()
				return nil, parser.Errorf(v.Position(), ErrInvalidSelector, "unexpected %q in selector", v.String())
			}
		}
		if comb != Descendant {
			in.Next()
			in.SkipWhitespace()
		}

		c, err := parseCompound(in, ns)
		if err != nil {
			return nil, err
		}
		sel.Compounds = append(sel.Compounds, c)
		sel.Combinators = append(sel.Combinators, comb)
	}
}

// Compound is a sequence of simple selectors not separated by combinators.
type Compound struct {
	// Nil when no type or universal selector is written.
	Type *TypeSelector

	// ID, class, attribute, pseudo-class and pseudo-element selectors in
	// the order written.
	Simples []Simple
}

func (c *Compound) ToCSS(p *printer.Printer) {
	if c.Type != nil {
		p.Print(c.Type)
	}
	for _, v := range c.Simples {
		p.Print(v)
	}
}

func parseCompound(in *parser.Input, ns NamespaceResolver) (*Compound, error) {
	c := &Compound{}
	start := in.Pos()

	if typ, err := parser.Try(in, func(in *parser.Input) (*TypeSelector, error) {
		return parseTypeSelector(in, ns)
	}); err == nil {
		c.Type = typ
	} else if errors.Is(err, ErrUndeclaredNamespace) {
		return nil, err
	}

	for {
		v := in.PeekIncludingWhitespace()
		if v == nil || ast.IsWhitespace(v) {
			break
		}
		simple, ok, err := parseSimple(in, v, ns)
		if err != nil {
			return nil, err
		} else if !ok {
			break
		}
		c.Simples = append(c.Simples, simple)
	}

	if c.Type == nil && len(c.Simples) == 0 {
		if v := in.Peek(); v != nil {
			return nil, parser.Errorf(v.Position(), ErrInvalidSelector, "expected selector, got %q", v.String())
		}
		return nil, parser.Errorf(start, ErrInvalidSelector, "expected selector")
	}
	return c, nil
}

// parseSimple parses the simple selector starting at v. Returns false when
// v does not start one.
func parseSimple(in *parser.Input, v ast.ComponentValue, ns NamespaceResolver) (Simple, bool, error) {
	if b, ok := v.(*ast.SimpleBlock); ok {
		if _, ok := b.Token.(*token.LBrack); !ok {
			return nil, false, nil
		}
		in.NextIncludingWhitespace()
		attr, err := parseAttribute(parser.NewBlockInput(b), ns)
		return attr, err == nil, err
	}

	t, ok := v.(*ast.Token)
	if !ok {
		return nil, false, nil
	}
	switch tok := t.Token.(type) {
	case *token.Hash:
		if tok.Type != token.TypeID {
			return nil, false, parser.Errorf(tok.Pos, ErrInvalidSelector, "invalid id selector %q", tok.String())
		}
		in.NextIncludingWhitespace()
		return &IDSelector{Name: tok.Value}, true, nil

	case *token.Delim:
		if tok.Value != "." {
			return nil, false, nil
		}
		in.NextIncludingWhitespace()
		name, err := expectIdentAdjacent(in)
		if err != nil {
			return nil, false, err
		}
		return &ClassSelector{Name: name}, true, nil

	case *token.Colon:
		in.NextIncludingWhitespace()
		pseudo, err := parsePseudo(in)
		return pseudo, err == nil, err
	}
	return nil, false, nil
}

// expectIdentAdjacent consumes an identifier with no whitespace before it.
func expectIdentAdjacent(in *parser.Input) (string, error) {
	v, err := in.NextIncludingWhitespace()
	if err != nil {
		return "", err
	}
	if t, ok := v.(*ast.Token); ok {
		if ident, ok := t.Token.(*token.Ident); ok {
			return ident.Value, nil
		}
	}
	return "", parser.Errorf(v.Position(), ErrInvalidSelector, "expected identifier, got %q", v.String())
}

// Simple is a simple selector other than a type selector.
type Simple interface {
	printer.CSSer
	simple()
}

func (*IDSelector) simple()        {}
func (*ClassSelector) simple()     {}
func (*AttributeSelector) simple() {}
func (*PseudoClass) simple()       {}
func (*PseudoElement) simple()     {}

// TypeSelector is an element name or the universal selector "*", with an
// optional namespace prefix.
type TypeSelector struct {
	// Nil when no prefix is written. An empty prefix selects elements
	// without a namespace and "*" any namespace.
	Namespace *string

	Name string
}

func (s *TypeSelector) ToCSS(p *printer.Printer) {
	if s.Namespace != nil {
		writeNamespace(p, *s.Namespace)
	}
	if s.Name == "*" {
		p.WriteString("*")
	} else {
		p.Ident(s.Name)
	}
}

func writeNamespace(p *printer.Printer, prefix string) {
	if prefix == "*" {
		p.WriteString("*")
	} else {
		p.Ident(prefix)
	}
	p.WriteString("|")
}

func parseTypeSelector(in *parser.Input, ns NamespaceResolver) (*TypeSelector, error) {
	prefix, hasPrefix, err := parseNamespacePrefix(in, ns)
	if err != nil {
		return nil, err
	}

	s := &TypeSelector{}
	if hasPrefix {
		s.Namespace = &prefix
	}

	v, err := in.NextIncludingWhitespace()
	if err != nil {
		return nil, err
	}
	switch tok := tokenOf(v).(type) {
	case *token.Ident:
		s.Name = tok.Value
	case *token.Delim:
		if tok.Value != "*" {
			return nil, parser.Errorf(tok.Pos, ErrInvalidSelector, "expected type selector, got %q", tok.Value)
		}
		s.Name = "*"
	default:
		return nil, parser.Errorf(v.Position(), ErrInvalidSelector, "expected type selector, got %q", v.String())
	}
	return s, nil
}

// parseNamespacePrefix consumes "prefix|", "*|" or "|" when present.
func parseNamespacePrefix(in *parser.Input, ns NamespaceResolver) (string, bool, error) {
	state := in.State()
	v, err := in.NextIncludingWhitespace()
	if err != nil {
		return "", false, err
	}

	var prefix string
	switch tok := tokenOf(v).(type) {
	case *token.Ident:
		prefix = tok.Value
	case *token.Delim:
		switch tok.Value {
		case "*":
			prefix = "*"
		case "|":
			return "", true, nil
		default:
			in.Reset(state)
			return "", false, nil
		}
	default:
		in.Reset(state)
		return "", false, nil
	}

	if !token.IsDelim(tokenOf(in.PeekIncludingWhitespace()), "|") {
		in.Reset(state)
		return "", false, nil
	}
	in.NextIncludingWhitespace()

	if prefix != "*" {
		if ns == nil {
			return "", false, parser.Errorf(v.Position(), ErrUndeclaredNamespace, "undeclared namespace prefix %q", prefix)
		} else if _, ok := ns.LookupPrefix(prefix); !ok {
			return "", false, parser.Errorf(v.Position(), ErrUndeclaredNamespace, "undeclared namespace prefix %q", prefix)
		}
	}
	return prefix, true, nil
}

func tokenOf(v ast.ComponentValue) token.Token {
	if t, ok := v.(*ast.Token); ok {
		return t.Token
	}
	return nil
}

// IDSelector is "#name".
type IDSelector struct {
	Name string
}

func (s *IDSelector) ToCSS(p *printer.Printer) {
	p.WriteString("#")
	p.Ident(s.Name)
}

// ClassSelector is ".name".
type ClassSelector struct {
	Name string
}

func (s *ClassSelector) ToCSS(p *printer.Printer) {
	p.WriteString(".")
	p.Ident(s.Name)
}

// PseudoClass is ":name" or ":name(arguments)".
type PseudoClass struct {
	// Lowercased name.
	Name string

	// Nil for a pseudo-class without arguments.
	Args ast.ComponentValues
}

func (s *PseudoClass) ToCSS(p *printer.Printer) {
	p.WriteString(":")
	p.Ident(s.Name)
	if s.Args != nil {
		p.WriteString("(")
		p.Values(s.Args)
		p.WriteString(")")
	}
}

// PseudoElement is "::name". The legacy pseudo-elements may be written
// with a single colon, which is kept.
type PseudoElement struct {
	Name   string
	Args   ast.ComponentValues
	Legacy bool
}

func (s *PseudoElement) ToCSS(p *printer.Printer) {
	if s.Legacy {
		p.WriteString(":")
	} else {
		p.WriteString("::")
	}
	p.Ident(s.Name)
	if s.Args != nil {
		p.WriteString("(")
		p.Values(s.Args)
		p.WriteString(")")
	}
}

func isLegacyPseudoElement(name string) bool {
	switch name {
	case "before", "after", "first-line", "first-letter":
		return true
	}
	return false
}

// parsePseudo parses what follows the first colon of a pseudo-class or
// pseudo-element.
func parsePseudo(in *parser.Input) (Simple, error) {
	element := false
	if _, ok := tokenOf(in.PeekIncludingWhitespace()).(*token.Colon); ok {
		in.NextIncludingWhitespace()
		element = true
	}

	v, err := in.NextIncludingWhitespace()
	if err != nil {
		return nil, err
	}

	var name string
	var args ast.ComponentValues
	switch v := v.(type) {
	case *ast.Function:
		name, args = strings.ToLower(v.Name), ast.TrimWhitespace(v.Values)
		if args == nil {
			args = ast.ComponentValues{}
		}
	case *ast.Token:
		ident, ok := v.Token.(*token.Ident)
		if !ok {
			return nil, parser.Errorf(v.Position(), ErrInvalidSelector, "expected pseudo-class name, got %q", v.String())
		}
		name = strings.ToLower(ident.Value)
	default:
		return nil, parser.Errorf(v.Position(), ErrInvalidSelector, "expected pseudo-class name, got %q", v.String())
	}

	switch {
	case element:
		return &PseudoElement{Name: name, Args: args}, nil
	case args == nil && isLegacyPseudoElement(name):
		return &PseudoElement{Name: name, Legacy: true}, nil
	}
	return &PseudoClass{Name: name, Args: args}, nil
}

// AttributeOperator is the operator of an attribute selector.
type AttributeOperator uint8

const (
	Exists AttributeOperator = iota
	Equals
	Includes
	DashMatch
	PrefixMatch
	SuffixMatch
	SubstringMatch
)

func (op AttributeOperator) String() string {
	switch op {
	case Equals:
		return "="
	case Includes:
		return "~="
	case DashMatch:
		return "|="
	case PrefixMatch:
		return "^="
	case SuffixMatch:
		return "$="
	case SubstringMatch:
		return "*="
	}
	return ""
}

// AttributeSelector is "[name]" or "[name op value flag]".
type AttributeSelector struct {
	Namespace *string
	Name      string
	Operator  AttributeOperator
	Value     string

	// "i", "s" or empty.
	Flag string
}

func (s *AttributeSelector) ToCSS(p *printer.Printer) {
	p.WriteString("[")
	if s.Namespace != nil {
		writeNamespace(p, *s.Namespace)
	}
	p.Ident(s.Name)
	if s.Operator != Exists {
		p.WriteString(s.Operator.String())
		if s.Value != "" && printer.EscapeIdent(s.Value) == s.Value && !strings.HasPrefix(s.Value, "--") {
			p.WriteString(s.Value)
		} else {
			p.Quoted(s.Value)
		}
		if s.Flag != "" {
			p.WriteString(" " + s.Flag)
		}
	}
	p.WriteString("]")
}

func parseAttribute(in *parser.Input, ns NamespaceResolver) (*AttributeSelector, error) {
	in.SkipWhitespace()
	s := &AttributeSelector{}

	prefix, hasPrefix, err := parseNamespacePrefix(in, ns)
	if err != nil {
		return nil, err
	}
	if hasPrefix {
		s.Namespace = &prefix
	}
	if s.Name, err = expectIdentAdjacent(in); err != nil {
		return nil, err
	}

	if in.IsExhausted() {
		return s, nil
	}
	v, _ := in.Next()
	switch tok := tokenOf(v).(type) {
	case *token.Delim:
		if tok.Value != "=" {
			return nil, parser.Errorf(tok.Pos, ErrInvalidSelector, "unexpected %q in attribute selector", tok.Value)
		}
		s.Operator = Equals
	case *token.IncludeMatch:
		s.Operator = Includes
	case *token.DashMatch:
		s.Operator = DashMatch
	case *token.PrefixMatch:
		s.Operator = PrefixMatch
	case *token.SuffixMatch:
		s.Operator = SuffixMatch
	case *token.SubstringMatch:
		s.Operator = SubstringMatch
	default:
		return nil, parser.Errorf(v.Position(), ErrInvalidSelector, "unexpected %q in attribute selector", v.String())
	}

	v, err = in.Next()
	if err != nil {
		return nil, err
	}
	switch tok := tokenOf(v).(type) {
	case *token.Ident:
		s.Value = tok.Value
	case *token.String:
		s.Value = tok.Value
	default:
		return nil, parser.Errorf(v.Position(), ErrInvalidSelector, "expected attribute value, got %q", v.String())
	}

	if !in.IsExhausted() {
		pos := in.Pos()
		flag, err := in.ExpectIdent()
		if err != nil {
			return nil, err
		}
		switch flag = strings.ToLower(flag); flag {
		case "i", "s":
			s.Flag = flag
		default:
			return nil, parser.Errorf(pos, ErrInvalidSelector, "unknown attribute selector flag %q", flag)
		}
	}
	if err := in.ExpectExhausted(); err != nil {
		return nil, err
	}
	return s, nil
}
