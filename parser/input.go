package parser

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/stylekit/css/ast"
	"github.com/stylekit/css/token"
)

// ErrIntegerOverflow is returned when an integer does not fit in 32 bits.
var ErrIntegerOverflow = errors.New("integer out of range")

// Input is a cursor over a list of component values used by the grammars
// built on top of the syntax tree. Whitespace is skipped by every method
// except NextIncludingWhitespace.
type Input struct {
	values ast.ComponentValues
	i      int
	end    token.Pos
}

// NewInput returns an input over values. The end position is reported by
// errors raised once all values are consumed.
func NewInput(values ast.ComponentValues, end token.Pos) *Input {
	return &Input{values: values, end: end}
}

// NewBlockInput returns an input over the contents of a block or function.
func NewBlockInput(v ast.ComponentValue) *Input {
	switch v := v.(type) {
	case *ast.SimpleBlock:
		return NewInput(v.Values, v.Position())
	case *ast.Function:
		return NewInput(v.Values, v.Pos)
	}
	return NewInput(nil, v.Position())
}

// State returns a snapshot of the cursor position.
func (in *Input) State() int { return in.i }

// Reset restores the cursor to a snapshot returned by State.
func (in *Input) Reset(state int) { in.i = state }

// Try runs fn and restores the cursor when it fails.
func (in *Input) Try(fn func(in *Input) error) error {
	state := in.State()
	if err := fn(in); err != nil {
		in.Reset(state)
		return err
	}
	return nil
}

// Try runs fn on in and restores the cursor when it fails.
func Try[T any](in *Input, fn func(in *Input) (T, error)) (T, error) {
	state := in.State()
	v, err := fn(in)
	if err != nil {
		in.Reset(state)
	}
	return v, err
}

// SkipWhitespace advances past whitespace tokens.
func (in *Input) SkipWhitespace() {
	for in.i < len(in.values) && ast.IsWhitespace(in.values[in.i]) {
		in.i++
	}
}

// Pos returns the position of the next non-whitespace value.
func (in *Input) Pos() token.Pos {
	if v := in.Peek(); v != nil {
		return v.Position()
	}
	return in.end
}

// Peek returns the next non-whitespace value without consuming it.
// Returns nil when the input is exhausted.
func (in *Input) Peek() ast.ComponentValue {
	for i := in.i; i < len(in.values); i++ {
		if !ast.IsWhitespace(in.values[i]) {
			return in.values[i]
		}
	}
	return nil
}

// PeekIncludingWhitespace returns the next value without consuming it.
// Returns nil when the input is exhausted.
func (in *Input) PeekIncludingWhitespace() ast.ComponentValue {
	if in.i < len(in.values) {
		return in.values[in.i]
	}
	return nil
}

// PeekToken returns the next non-whitespace token without consuming it.
// Returns nil if the next value is a block, a function or missing.
func (in *Input) PeekToken() token.Token {
	if t, ok := in.Peek().(*ast.Token); ok {
		return t.Token
	}
	return nil
}

// Next consumes and returns the next non-whitespace value.
func (in *Input) Next() (ast.ComponentValue, error) {
	in.SkipWhitespace()
	return in.NextIncludingWhitespace()
}

// NextIncludingWhitespace consumes and returns the next value.
func (in *Input) NextIncludingWhitespace() (ast.ComponentValue, error) {
	if in.i >= len(in.values) {
		return nil, &Error{Pos: in.end, Err: ErrUnexpectedEOF}
	}
	v := in.values[in.i]
	in.i++
	return v, nil
}

// NextToken consumes the next non-whitespace value which must be a token.
func (in *Input) NextToken() (token.Token, error) {
	v, err := in.Next()
	if err != nil {
		return nil, err
	}
	t, ok := v.(*ast.Token)
	if !ok {
		return nil, Unexpected(v)
	}
	return t.Token, nil
}

// IsExhausted returns true if only whitespace remains.
func (in *Input) IsExhausted() bool {
	return in.Peek() == nil
}

// ExpectExhausted returns an error if anything but whitespace remains.
func (in *Input) ExpectExhausted() error {
	if v := in.Peek(); v != nil {
		return &Error{Message: fmt.Sprintf("unexpected %q", v.String()), Pos: v.Position(), Err: ErrTrailingInput}
	}
	return nil
}

// Remaining consumes and returns all remaining values.
func (in *Input) Remaining() ast.ComponentValues {
	a := in.values[in.i:]
	in.i = len(in.values)
	return a
}

// Since returns the values consumed since the state snapshot.
func (in *Input) Since(state int) ast.ComponentValues {
	return in.values[state:in.i]
}

// Errorf returns an error at the next value's position.
func (in *Input) Errorf(err error, format string, args ...interface{}) error {
	return Errorf(in.Pos(), err, format, args...)
}

// Unexpected returns an error describing an unexpected value.
func Unexpected(v ast.ComponentValue) error {
	return &Error{Message: fmt.Sprintf("unexpected %q", v.String()), Pos: v.Position(), Err: ErrUnexpectedToken}
}

// expected returns an error describing what was expected instead of v.
func expected(what string, v ast.ComponentValue) error {
	return &Error{Message: fmt.Sprintf("expected %s, got %q", what, v.String()), Pos: v.Position(), Err: ErrUnexpectedToken}
}

// ExpectIdent consumes an identifier and returns its value.
func (in *Input) ExpectIdent() (string, error) {
	v, err := in.Next()
	if err != nil {
		return "", err
	}
	if t, ok := v.(*ast.Token); ok {
		if ident, ok := t.Token.(*token.Ident); ok {
			return ident.Value, nil
		}
	}
	return "", expected("identifier", v)
}

// ExpectIdentMatching consumes an identifier equal to name, ignoring ASCII case.
func (in *Input) ExpectIdentMatching(name string) error {
	v, err := in.Next()
	if err != nil {
		return err
	}
	if t, ok := v.(*ast.Token); ok && token.IsIdent(t.Token, name) {
		return nil
	}
	return expected(fmt.Sprintf("%q", name), v)
}

// ExpectString consumes a quoted string and returns its value.
func (in *Input) ExpectString() (string, error) {
	v, err := in.Next()
	if err != nil {
		return "", err
	}
	if t, ok := v.(*ast.Token); ok {
		if s, ok := t.Token.(*token.String); ok {
			return s.Value, nil
		}
	}
	return "", expected("string", v)
}

// ExpectURL consumes a url() token and returns its value.
func (in *Input) ExpectURL() (string, error) {
	v, err := in.Next()
	if err != nil {
		return "", err
	}
	if t, ok := v.(*ast.Token); ok {
		if u, ok := t.Token.(*token.URL); ok {
			return u.Value, nil
		}
	}
	if s, ok := quotedURL(v); ok {
		return s, nil
	}
	return "", expected("url", v)
}

// quotedURL returns the string argument of url("...").
func quotedURL(v ast.ComponentValue) (string, bool) {
	fn, ok := v.(*ast.Function)
	if !ok || !strings.EqualFold(fn.Name, "url") {
		return "", false
	}
	args := NewBlockInput(fn)
	s, err := args.ExpectString()
	if err != nil || !args.IsExhausted() {
		return "", false
	}
	return s, true
}

// ExpectURLOrString consumes a url() token or a quoted string.
func (in *Input) ExpectURLOrString() (string, error) {
	v, err := in.Next()
	if err != nil {
		return "", err
	}
	if t, ok := v.(*ast.Token); ok {
		switch tok := t.Token.(type) {
		case *token.URL:
			return tok.Value, nil
		case *token.String:
			return tok.Value, nil
		}
	}
	if s, ok := quotedURL(v); ok {
		return s, nil
	}
	return "", expected("url or string", v)
}

// ExpectNumber consumes a number token.
func (in *Input) ExpectNumber() (float64, error) {
	v, err := in.Next()
	if err != nil {
		return 0, err
	}
	if t, ok := v.(*ast.Token); ok {
		if n, ok := t.Token.(*token.Number); ok {
			return n.Number, nil
		}
	}
	return 0, expected("number", v)
}

// ExpectInteger consumes a number token written as an integer.
func (in *Input) ExpectInteger() (int32, error) {
	v, err := in.Next()
	if err != nil {
		return 0, err
	}
	if t, ok := v.(*ast.Token); ok {
		if n, ok := t.Token.(*token.Number); ok && n.IsInteger() {
			if n.Number > math.MaxInt32 || n.Number < math.MinInt32 {
				return 0, &Error{Message: fmt.Sprintf("integer out of range: %s", n.Value), Pos: n.Pos, Err: ErrIntegerOverflow}
			}
			return int32(n.Number), nil
		}
	}
	return 0, expected("integer", v)
}

// ExpectPercentage consumes a percentage token and returns it as a fraction.
func (in *Input) ExpectPercentage() (float64, error) {
	v, err := in.Next()
	if err != nil {
		return 0, err
	}
	if t, ok := v.(*ast.Token); ok {
		if p, ok := t.Token.(*token.Percentage); ok {
			return p.Number / 100, nil
		}
	}
	return 0, expected("percentage", v)
}

// ExpectColon consumes a colon.
func (in *Input) ExpectColon() error {
	v, err := in.Next()
	if err != nil {
		return err
	}
	if t, ok := v.(*ast.Token); ok {
		if _, ok := t.Token.(*token.Colon); ok {
			return nil
		}
	}
	return expected(`":"`, v)
}

// ExpectComma consumes a comma.
func (in *Input) ExpectComma() error {
	v, err := in.Next()
	if err != nil {
		return err
	}
	if t, ok := v.(*ast.Token); ok {
		if _, ok := t.Token.(*token.Comma); ok {
			return nil
		}
	}
	return expected(`","`, v)
}

// ExpectDelim consumes a delim token with the given value.
func (in *Input) ExpectDelim(value string) error {
	v, err := in.Next()
	if err != nil {
		return err
	}
	if t, ok := v.(*ast.Token); ok && token.IsDelim(t.Token, value) {
		return nil
	}
	return expected(fmt.Sprintf("%q", value), v)
}

// ExpectFunction consumes a function and returns its lowercased name and an
// input over its arguments.
func (in *Input) ExpectFunction() (string, *Input, error) {
	v, err := in.Next()
	if err != nil {
		return "", nil, err
	}
	if fn, ok := v.(*ast.Function); ok {
		return strings.ToLower(fn.Name), NewBlockInput(fn), nil
	}
	return "", nil, expected("function", v)
}

// ExpectFunctionMatching consumes a function named name, ignoring ASCII case,
// and returns an input over its arguments.
func (in *Input) ExpectFunctionMatching(name string) (*Input, error) {
	v, err := in.Next()
	if err != nil {
		return nil, err
	}
	if fn, ok := v.(*ast.Function); ok && strings.EqualFold(fn.Name, name) {
		return NewBlockInput(fn), nil
	}
	return nil, expected(name+"()", v)
}

// ExpectParenthesisBlock consumes a ()-block and returns an input over its contents.
func (in *Input) ExpectParenthesisBlock() (*Input, error) {
	return in.expectBlock(&token.LParen{}, "(")
}

// ExpectSquareBracketBlock consumes a []-block and returns an input over its contents.
func (in *Input) ExpectSquareBracketBlock() (*Input, error) {
	return in.expectBlock(&token.LBrack{}, "[")
}

func (in *Input) expectBlock(open token.Token, name string) (*Input, error) {
	v, err := in.Next()
	if err != nil {
		return nil, err
	}
	if !ast.IsBlock(v, open) {
		return nil, expected(fmt.Sprintf("%q block", name), v)
	}
	return NewBlockInput(v), nil
}

// ParseUntilBefore returns an input over the values preceding the first
// token matched by stop. The cursor is left on the stop token.
func (in *Input) ParseUntilBefore(stop func(tok token.Token) bool) *Input {
	start := in.i
	for in.i < len(in.values) {
		if t, ok := in.values[in.i].(*ast.Token); ok && stop(t.Token) {
			break
		}
		in.i++
	}
	end := in.end
	if in.i < len(in.values) {
		end = in.values[in.i].Position()
	}
	return NewInput(in.values[start:in.i], end)
}

// ParseCommaSeparated splits the remaining input on commas and parses each
// item with fn. Every item must be consumed completely.
func ParseCommaSeparated[T any](in *Input, fn func(in *Input) (T, error)) ([]T, error) {
	var a []T
	isComma := func(tok token.Token) bool {
		_, ok := tok.(*token.Comma)
		return ok
	}
	for {
		item := in.ParseUntilBefore(isComma)
		v, err := fn(item)
		if err != nil {
			return nil, err
		}
		if err := item.ExpectExhausted(); err != nil {
			return nil, err
		}
		a = append(a, v)

		// Stop at the end of input, otherwise consume the comma.
		if in.i >= len(in.values) {
			return a, nil
		}
		in.i++
	}
}
