package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stylekit/css/ast"
	"github.com/stylekit/css/token"
)

var (
	// ErrUnexpectedEOF is returned when the input ends before a construct is complete.
	ErrUnexpectedEOF = errors.New("unexpected EOF")

	// ErrUnexpectedToken is returned when a token does not fit the grammar.
	ErrUnexpectedToken = errors.New("unexpected token")

	// ErrTrailingInput is returned when input remains after a complete construct.
	ErrTrailingInput = errors.New("expected end of input")
)

// parser represents a CSS3 parser.
type parser struct {
	errors ErrorList
}

// ParseStyleSheet parses an input stream into a stylesheet.
func ParseStyleSheet(s Scanner) (*ast.StyleSheet, error) {
	var p parser
	ss := &ast.StyleSheet{}
	ss.Rules = p.consumeRules(s, true)
	return ss, p.error()
}

// ParseRules parses a list of rules.
func ParseRules(s Scanner) (ast.Rules, error) {
	var p parser
	a := p.consumeRules(s, false)
	return a, p.error()
}

// ParseRule parses a qualified rule or at-rule.
func ParseRule(s Scanner) (ast.Rule, error) {
	var p parser

	// Skip over initial whitespace.
	p.skipWhitespace(s)

	// Consume an at-rule or a qualified rule.
	var r ast.Rule
	switch tok := s.Scan().(type) {
	case *token.EOF:
		p.errors = append(p.errors, &Error{Pos: tok.Pos, Err: ErrUnexpectedEOF})
		return nil, p.error()
	case *token.AtKeyword:
		r = p.consumeAtRule(s)
	default:
		s.Unscan()
		qr := p.consumeQualifiedRule(s)
		if qr == nil {
			return nil, p.error()
		}
		r = qr
	}

	// Only whitespace may follow the rule.
	p.skipWhitespace(s)
	if tok := s.Scan(); !isEOF(tok) {
		p.errors = append(p.errors, &Error{Message: fmt.Sprintf("expected EOF, got %q", tok.String()), Pos: tok.Position(), Err: ErrTrailingInput})
		return nil, p.error()
	}
	return r, p.error()
}

// ParseDeclaration parses a name/value declaration.
func ParseDeclaration(s Scanner) (*ast.Declaration, error) {
	var p parser

	// Skip over initial whitespace.
	p.skipWhitespace(s)

	// If the next token is not an ident then return an error.
	if _, ok := s.Scan().(*token.Ident); !ok {
		p.errors = append(p.errors, &Error{Message: fmt.Sprintf("expected ident, got %q", s.Current().String()), Pos: s.Current().Position(), Err: ErrUnexpectedToken})
		return nil, p.error()
	}
	s.Unscan()

	// Consume a declaration. If nothing is returned, return syntax error.
	values := p.consumeComponentValues(s)
	d, err := consumeDeclaration(values)
	if err != nil {
		p.errors = append(p.errors, err)
	}
	return d, p.error()
}

// ParseDeclarations parses a list of declarations and at-rules.
// Malformed declarations are skipped and reported in the returned error.
func ParseDeclarations(s Scanner) (ast.Declarations, error) {
	var p parser
	a, errs := ParseDeclarationList(p.consumeComponentValues(s))
	p.errors = append(p.errors, errs...)
	return a, p.error()
}

// ParseComponentValue parses a component value.
func ParseComponentValue(s Scanner) (ast.ComponentValue, error) {
	var p parser

	// Skip over initial whitespace.
	p.skipWhitespace(s)

	// If the next token is EOF then return an error.
	if _, ok := s.Scan().(*token.EOF); ok {
		p.errors = append(p.errors, &Error{Pos: s.Current().Position(), Err: ErrUnexpectedEOF})
		return nil, p.error()
	}
	s.Unscan()

	// Consume component value.
	v := p.consumeComponentValue(s)

	// Skip over any trailing whitespace.
	p.skipWhitespace(s)

	// If we're not at EOF then return a syntax error.
	if _, ok := s.Scan().(*token.EOF); !ok {
		p.errors = append(p.errors, &Error{Message: fmt.Sprintf("expected EOF, got %q", s.Current().String()), Pos: s.Current().Position(), Err: ErrTrailingInput})
		return nil, p.error()
	}

	return v, nil
}

// ParseComponentValues parses a list of component values.
func ParseComponentValues(s Scanner) (ast.ComponentValues, error) {
	var p parser
	return p.consumeComponentValues(s), nil
}

// Errors returns the error on the parser.
// Returns nil if there are no errors.
func (p *parser) error() error {
	if len(p.errors) == 0 {
		return nil
	}
	return p.errors
}

// consumeRules consumes a list of rules from a token stream. (§5.4.1)
func (p *parser) consumeRules(s Scanner, toplevel bool) ast.Rules {
	var a ast.Rules
	for {
		tok := s.Scan()
		switch tok.(type) {
		case *token.Whitespace:
			// nop
		case *token.EOF:
			return a
		case *token.CDO, *token.CDC:
			if !toplevel {
				s.Unscan()
				if r := p.consumeQualifiedRule(s); r != nil {
					a = append(a, r)
				}
			}
		case *token.AtKeyword:
			a = append(a, p.consumeAtRule(s))
		default:
			s.Unscan()
			if r := p.consumeQualifiedRule(s); r != nil {
				a = append(a, r)
			}
		}
	}
}

// consumeAtRule consumes a single at-rule. (§5.4.2)
func (p *parser) consumeAtRule(s Scanner) *ast.AtRule {
	// Set the name to the value of the current token.
	atkeyword := s.Current().(*token.AtKeyword)
	r := &ast.AtRule{Name: atkeyword.Value, Pos: atkeyword.Pos}

	// Repeatedly consume the next token.
	for {
		tok := s.Scan()
		switch tok.(type) {
		case *token.Semicolon, *token.EOF:
			return r
		case *token.LBrace:
			r.Block = p.consumeSimpleBlock(s)
			return r
		default:
			s.Unscan()
			v := p.consumeComponentValue(s)
			r.Prelude = append(r.Prelude, v)
		}
	}
}

// consumeQualifiedRule consumes a single qualified rule. (§5.4.3)
func (p *parser) consumeQualifiedRule(s Scanner) *ast.QualifiedRule {
	r := &ast.QualifiedRule{}

	// Repeatedly consume the next token.
	for i := 0; ; i++ {
		tok := s.Scan()
		if i == 0 {
			r.Pos = tok.Position()
		}
		switch tok := tok.(type) {
		case *token.EOF:
			p.errors = append(p.errors, &Error{Message: "unexpected EOF in rule prelude", Pos: tok.Pos, Err: ErrUnexpectedEOF})
			return nil
		case *token.LBrace:
			r.Block = p.consumeSimpleBlock(s)
			return r
		default:
			s.Unscan()
			r.Prelude = append(r.Prelude, p.consumeComponentValue(s))
		}
	}
}

// consumeDeclaration consumes a single declaration. (§5.4.5)
func consumeDeclaration(values ast.ComponentValues) (*ast.Declaration, error) {
	d := &ast.Declaration{}

	// The first token must be an ident.
	ident, ok := tokenOf(values, 0).(*token.Ident)
	if !ok {
		return nil, &Error{Message: fmt.Sprintf("expected ident, got %q", valueString(values, 0)), Pos: positionOf(values, 0), Err: ErrUnexpectedToken}
	}
	d.Name, d.Pos = ident.Value, ident.Pos

	// Skip over whitespace.
	i := 1
	for i < len(values) && ast.IsWhitespace(values[i]) {
		i++
	}

	// The next token must be a colon.
	if _, ok := tokenOf(values, i).(*token.Colon); !ok {
		return nil, &Error{Message: fmt.Sprintf("expected colon, got %q", valueString(values, i)), Pos: positionOf(values, i), Err: ErrUnexpectedToken}
	}

	// The rest of the list is the declaration value.
	d.Values = ast.TrimWhitespace(values[i+1:])

	// Check last two non-whitespace tokens for "!important".
	d.Values, d.Important = cleanImportantFlag(d.Values)

	return d, nil
}

// Checks if the last two non-whitespace tokens are a case-insensitive "!important".
// If so, it removes them and returns the "important" flag set to true.
func cleanImportantFlag(values ast.ComponentValues) (ast.ComponentValues, bool) {
	values = ast.TrimWhitespace(values)
	n := len(values)
	if n == 0 || !token.IsIdent(tokenOf(values, n-1), "important") {
		return values, false
	}

	// Walk back over whitespace between the "!" and "important".
	i := n - 2
	for i >= 0 && ast.IsWhitespace(values[i]) {
		i--
	}
	if i < 0 || !token.IsDelim(tokenOf(values, i), "!") {
		return values, false
	}
	return ast.TrimWhitespace(values[:i]), true
}

// consumeComponentValue consumes a single component value. (§5.4.6)
func (p *parser) consumeComponentValue(s Scanner) ast.ComponentValue {
	tok := s.Scan()
	switch tok.(type) {
	case *token.LBrace, *token.LBrack, *token.LParen:
		return p.consumeSimpleBlock(s)
	case *token.Function:
		return p.consumeFunction(s)
	default:
		return &ast.Token{Token: tok}
	}
}

// consumeComponentValues consumes component values up to EOF.
func (p *parser) consumeComponentValues(s Scanner) ast.ComponentValues {
	var a ast.ComponentValues
	for {
		v := p.consumeComponentValue(s)

		// If the value is an EOF, then exit.
		if v, ok := v.(*ast.Token); ok {
			if _, ok := v.Token.(*token.EOF); ok {
				return a
			}
		}

		// Otherwise append to list of component values.
		a = append(a, v)
	}
}

// consumeSimpleBlock consumes a simple block. (§5.4.7)
func (p *parser) consumeSimpleBlock(s Scanner) *ast.SimpleBlock {
	b := &ast.SimpleBlock{}

	// Set the block's associated token to the current token.
	b.Token = s.Current()

	for {
		tok := s.Scan()

		// If this token is EOF or the mirror of the starting token then return.
		switch tok.(type) {
		case *token.EOF:
			return b
		case *token.RBrack:
			if _, ok := b.Token.(*token.LBrack); ok {
				return b
			}
		case *token.RBrace:
			if _, ok := b.Token.(*token.LBrace); ok {
				return b
			}
		case *token.RParen:
			if _, ok := b.Token.(*token.LParen); ok {
				return b
			}
		}

		// Otherwise consume a component value.
		s.Unscan()
		b.Values = append(b.Values, p.consumeComponentValue(s))
	}
}

// consumeFunction consumes a function. (§5.4.8)
func (p *parser) consumeFunction(s Scanner) *ast.Function {
	f := &ast.Function{}

	// Set the name to the first token.
	fn := s.Current().(*token.Function)
	f.Name, f.Pos = fn.Value, fn.Pos

	for {
		tok := s.Scan()

		// If this token is EOF or the mirror of the starting token then return.
		switch tok.(type) {
		case *token.EOF, *token.RParen:
			return f
		}

		// Otherwise consume a component value.
		s.Unscan()
		f.Values = append(f.Values, p.consumeComponentValue(s))
	}
}

// skipWhitespace skips over all contiguous whitespace tokes.
func (p *parser) skipWhitespace(s Scanner) {
	for {
		if _, ok := s.Scan().(*token.Whitespace); !ok {
			s.Unscan()
			return
		}
	}
}

// Scanner represents a type that can retrieve the next token.
type Scanner interface {
	Current() token.Token
	Scan() token.Token
	Unscan()
}

// tokenOf returns the token at index i of values.
// Returns nil if the value is a block, a function or out of range.
func tokenOf(values ast.ComponentValues, i int) token.Token {
	if i < 0 || i >= len(values) {
		return nil
	}
	if t, ok := values[i].(*ast.Token); ok {
		return t.Token
	}
	return nil
}

// valueString returns the CSS text of values[i] or "EOF" when out of range.
func valueString(values ast.ComponentValues, i int) string {
	if i < 0 || i >= len(values) {
		return "EOF"
	}
	return values[i].String()
}

// positionOf returns the position of values[i] or of the last value when out of range.
func positionOf(values ast.ComponentValues, i int) token.Pos {
	if len(values) == 0 {
		return token.Pos{}
	}
	if i >= len(values) {
		i = len(values) - 1
	}
	return values[i].Position()
}

func isEOF(tok token.Token) bool {
	_, ok := tok.(*token.EOF)
	return ok
}

// Error represents a syntax or grammar error.
type Error struct {
	Message string
	Pos     token.Pos
	Err     error
}

// Error returns the formatted string error message.
func (e *Error) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error kind.
func (e *Error) Unwrap() error { return e.Err }

// Position returns the position of the error.
func (e *Error) Position() token.Pos { return e.Pos }

// ErrorList represents a list of syntax errors.
type ErrorList []error

// Error returns the formatted string error message.
func (a ErrorList) Error() string {
	switch len(a) {
	case 0:
		return "no errors"
	case 1:
		return a[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", a[0], len(a)-1)
}

// Unwrap returns the errors in the list.
func (a ErrorList) Unwrap() []error { return a }

// Errorf returns an *Error at pos wrapping err with a formatted message.
func Errorf(pos token.Pos, err error, format string, args ...interface{}) error {
	return &Error{Message: fmt.Sprintf(format, args...), Pos: pos, Err: err}
}

// PositionOf returns the position of the first *Error in err's chain.
func PositionOf(err error) (token.Pos, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Pos, true
	}
	return token.Pos{}, false
}

// EqualFold reports whether name matches any of names, ignoring ASCII case.
func EqualFold(name string, names ...string) bool {
	for _, n := range names {
		if strings.EqualFold(name, n) {
			return true
		}
	}
	return false
}
