package printer

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stylekit/css/ast"
	"github.com/stylekit/css/token"
)

// CSSer is implemented by values that can write themselves as canonical CSS.
type CSSer interface {
	ToCSS(p *Printer)
}

// Printer writes canonical, whitespace-minimal CSS to a writer.
// The first write error is kept and all later writes are skipped.
type Printer struct {
	w   io.Writer
	n   int64
	err error
}

// New returns a printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Err returns the first error that occurred while writing.
func (p *Printer) Err() error { return p.err }

// N returns the number of bytes written.
func (p *Printer) N() int64 { return p.n }

// WriteString writes s verbatim.
func (p *Printer) WriteString(s string) {
	if p.err != nil || s == "" {
		return
	}
	n, err := io.WriteString(p.w, s)
	p.n += int64(n)
	p.err = err
}

// Print writes v.
func (p *Printer) Print(v CSSer) {
	if p.err == nil {
		v.ToCSS(p)
	}
}

// Ident writes s as an escaped identifier.
func (p *Printer) Ident(s string) { p.WriteString(EscapeIdent(s)) }

// Quoted writes s as a double-quoted string.
func (p *Printer) Quoted(s string) { p.WriteString(QuoteString(s)) }

// URL writes s as a url() token.
func (p *Printer) URL(s string) { p.WriteString(FormatURL(s)) }

// Float writes v in its shortest decimal form.
func (p *Printer) Float(v float64) { p.WriteString(FormatFloat(v)) }

// Int writes v in decimal.
func (p *Printer) Int(v int64) { p.WriteString(strconv.FormatInt(v, 10)) }

// Join writes items separated by sep.
func Join[T CSSer](p *Printer, items []T, sep string) {
	for i, v := range items {
		if i > 0 {
			p.WriteString(sep)
		}
		p.Print(v)
	}
}

// String returns the CSS text of v.
func String(v CSSer) string {
	var buf bytes.Buffer
	p := New(&buf)
	p.Print(v)
	return buf.String()
}

// FormatFloat returns the shortest decimal representation of v at single
// precision. Scientific notation is never used.
func FormatFloat(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(float64(float32(v)), 'f', -1, 32)
}

// EscapeIdent serializes s as a CSS identifier.
func EscapeIdent(s string) string {
	if s == "-" {
		return `\-`
	}
	var buf strings.Builder
	runes := []rune(s)
	for i, ch := range runes {
		switch {
		case ch == 0:
			buf.WriteRune('�')
		case (ch >= 0x01 && ch <= 0x1F) || ch == 0x7F:
			fmt.Fprintf(&buf, `\%x `, ch)
		case isDigit(ch) && (i == 0 || (i == 1 && runes[0] == '-')):
			fmt.Fprintf(&buf, `\%x `, ch)
		case ch >= 0x80 || ch == '-' || ch == '_' || isDigit(ch) || isLetter(ch):
			buf.WriteRune(ch)
		default:
			buf.WriteByte('\\')
			buf.WriteRune(ch)
		}
	}
	return buf.String()
}

// escapeName serializes s as a name which, unlike an identifier, may start with a digit.
func escapeName(s string) string {
	var buf strings.Builder
	for _, ch := range s {
		switch {
		case ch == 0:
			buf.WriteRune('�')
		case (ch >= 0x01 && ch <= 0x1F) || ch == 0x7F:
			fmt.Fprintf(&buf, `\%x `, ch)
		case ch >= 0x80 || ch == '-' || ch == '_' || isDigit(ch) || isLetter(ch):
			buf.WriteRune(ch)
		default:
			buf.WriteByte('\\')
			buf.WriteRune(ch)
		}
	}
	return buf.String()
}

// QuoteString serializes s as a double-quoted CSS string.
func QuoteString(s string) string {
	var buf strings.Builder
	buf.WriteByte('"')
	for _, ch := range s {
		switch {
		case ch == 0:
			buf.WriteRune('�')
		case (ch >= 0x01 && ch <= 0x1F) || ch == 0x7F:
			fmt.Fprintf(&buf, `\%x `, ch)
		case ch == '"' || ch == '\\':
			buf.WriteByte('\\')
			buf.WriteRune(ch)
		default:
			buf.WriteRune(ch)
		}
	}
	buf.WriteByte('"')
	return buf.String()
}

// FormatURL serializes s as a url() token, quoting it when needed.
func FormatURL(s string) string {
	if strings.IndexFunc(s, needsURLQuote) >= 0 {
		return "url(" + QuoteString(s) + ")"
	}
	return "url(" + s + ")"
}

func needsURLQuote(ch rune) bool {
	switch ch {
	case ' ', '\t', '\n', '"', '\'', '(', ')', '\\':
		return true
	}
	return ch <= 0x1F || ch == 0x7F
}

// Values writes component values with whitespace collapsed to a single
// space. Whitespace next to commas and at either end is dropped, and an
// empty comment is written between tokens that would otherwise merge.
func (p *Printer) Values(a ast.ComponentValues) {
	a = ast.TrimWhitespace(a)
	var prev ast.ComponentValue
	space := false
	for _, v := range a {
		if ast.IsWhitespace(v) {
			space = true
			continue
		}
		if prev != nil {
			if space && !isComma(prev) && !isComma(v) {
				p.WriteString(" ")
			} else if !space && needsSeparator(prev, v) {
				p.WriteString("/**/")
			}
		}
		p.Value(v)
		prev, space = v, false
	}
}

// Value writes a single component value.
func (p *Printer) Value(v ast.ComponentValue) {
	switch v := v.(type) {
	case *ast.SimpleBlock:
		switch v.Token.(type) {
		case *token.LBrace:
			p.WriteString("{")
			p.Values(v.Values)
			p.WriteString("}")
		case *token.LBrack:
			p.WriteString("[")
			p.Values(v.Values)
			p.WriteString("]")
		case *token.LParen:
			p.WriteString("(")
			p.Values(v.Values)
			p.WriteString(")")
		}

	case *ast.Function:
		p.Ident(v.Name)
		p.WriteString("(")
		p.Values(v.Values)
		p.WriteString(")")

	case *ast.Token:
		p.Token(v.Token)
	}
}

// Token writes a single token.
func (p *Printer) Token(tok token.Token) {
	switch tok := tok.(type) {
	case *token.Ident:
		p.Ident(tok.Value)
	case *token.Function:
		p.Ident(tok.Value)
		p.WriteString("(")
	case *token.AtKeyword:
		p.WriteString("@" + EscapeIdent(tok.Value))
	case *token.Hash:
		if tok.Type == token.TypeID {
			p.WriteString("#" + EscapeIdent(tok.Value))
		} else {
			p.WriteString("#" + escapeName(tok.Value))
		}
	case *token.String:
		p.Quoted(tok.Value)
	case *token.URL:
		p.URL(tok.Value)
	case *token.Dimension:
		p.WriteString(strings.TrimSuffix(tok.Value, tok.Unit))
		unit := escapeName(tok.Unit)
		if looksLikeExponent(unit) {
			unit = `\` + strconv.FormatInt(int64(unit[0]), 16) + " " + unit[1:]
		}
		p.WriteString(unit)
	case *token.BadString, *token.BadURL, *token.EOF:
		// Nothing to write.
	default:
		p.WriteString(tok.String())
	}
}

// needsSeparator returns true if a and b would be read back as a single
// token when written next to each other.
func needsSeparator(a, b ast.ComponentValue) bool {
	last, ok := a.(*ast.Token)
	if !ok {
		return false
	}

	// The first token of b. Functions start with their name.
	var first token.Token
	switch b := b.(type) {
	case *ast.Token:
		first = b.Token
	case *ast.Function:
		first = &token.Ident{Value: b.Name}
	case *ast.SimpleBlock:
		first = b.Token
	}

	// A number written with a plus sign never continues a previous token.
	if startsNumber(first) && strings.HasPrefix(first.String(), "+") {
		return false
	}

	switch last := last.Token.(type) {
	case *token.Ident:
		if _, ok := first.(*token.LParen); ok {
			return true
		}
		return startsIdentOrNumber(first)
	case *token.AtKeyword, *token.Hash, *token.Dimension:
		return startsIdentOrNumber(first)
	case *token.Number:
		return startsIdentOrNumber(first) || token.IsDelim(first, "%")
	case *token.Delim:
		switch last.Value {
		case "#", "@":
			return startsIdentOrNumber(first)
		case "-":
			return startsIdentOrNumber(first)
		case "+", ".":
			return startsNumber(first)
		case "/":
			return token.IsDelim(first, "*")
		}
	}
	return false
}

func startsIdentOrNumber(tok token.Token) bool {
	switch tok.(type) {
	case *token.Ident, *token.Function, *token.URL, *token.BadURL,
		*token.Number, *token.Percentage, *token.Dimension, *token.CDC,
		*token.UnicodeRange:
		return true
	}
	return token.IsDelim(tok, "-")
}

// looksLikeExponent returns true if a unit written after a number would be
// read back as its exponent.
func looksLikeExponent(unit string) bool {
	if len(unit) < 2 || (unit[0] != 'e' && unit[0] != 'E') {
		return false
	}
	if isDigit(rune(unit[1])) {
		return true
	}
	return (unit[1] == '+' || unit[1] == '-') && len(unit) > 2 && isDigit(rune(unit[2]))
}

func startsNumber(tok token.Token) bool {
	switch tok.(type) {
	case *token.Number, *token.Percentage, *token.Dimension:
		return true
	}
	return false
}

func isComma(v ast.ComponentValue) bool {
	if t, ok := v.(*ast.Token); ok {
		_, ok = t.Token.(*token.Comma)
		return ok
	}
	return false
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func isLetter(ch rune) bool { return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') }
