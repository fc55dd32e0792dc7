package printer_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/printer"
	"github.com/stylekit/css/scanner"
)

// Ensure than the printer writes component values in canonical form.
func TestPrinter_Values(t *testing.T) {
	var tests = []struct {
		in string
		s  string
	}{
		{in: `a  b`, s: `a b`},
		{in: ` a , b `, s: `a,b`},
		{in: "1px \n  solid\tred", s: `1px solid red`},
		{in: `rgb( 1 , 2 , 3 )`, s: `rgb(1,2,3)`},
		{in: `a/**/b`, s: `a/**/b`},
		{in: `1/**/px`, s: `1/**/px`},
		{in: `a/**/(b)`, s: `a/**/(b)`},
		{in: `"x\"y"`, s: `"x\"y"`},
		{in: `'single'`, s: `"single"`},
		{in: `url("a b.png")`, s: `url("a b.png")`},
		{in: `url(a.png)`, s: `url(a.png)`},
		{in: `#fff`, s: `#fff`},
		{in: `[ a ]`, s: `[a]`},
		{in: `calc(1px + 2px)`, s: `calc(1px + 2px)`},
		{in: `U+0025-00FF`, s: `U+25-FF`},
		{in: `:not(.a)`, s: `:not(.a)`},
		{in: `10\65 3`, s: `10\65 3`},
		{in: `3em`, s: `3em`},
		{in: `2n+1`, s: `2n+1`},
		{in: `a -1`, s: `a -1`},
	}

	for i, tt := range tests {
		values, err := parser.ParseComponentValues(scanner.New(strings.NewReader(tt.in)))
		require.NoError(t, err)

		var buf bytes.Buffer
		p := printer.New(&buf)
		p.Values(values)
		if err := p.Err(); err != nil {
			t.Errorf("%d. <%q> unexpected error: %s", i, tt.in, err)
		} else if buf.String() != tt.s {
			t.Errorf("%d. <%q>\n\nexp: %s\n\ngot: %s", i, tt.in, tt.s, buf.String())
		}
	}
}

func TestEscapeIdent(t *testing.T) {
	var tests = []struct {
		in, out string
	}{
		{in: "foo", out: "foo"},
		{in: "1a", out: `\31 a`},
		{in: "-1", out: `-\31 `},
		{in: "-", out: `\-`},
		{in: "a b", out: `a\ b`},
		{in: "--x", out: "--x"},
		{in: "ünï", out: "ünï"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.out, printer.EscapeIdent(tt.in), tt.in)
	}
}

func TestQuoteString(t *testing.T) {
	assert.Equal(t, `"a\"b"`, printer.QuoteString(`a"b`))
	assert.Equal(t, `"a\a b"`, printer.QuoteString("a\nb"))
	assert.Equal(t, `"a\\b"`, printer.QuoteString(`a\b`))
	assert.Equal(t, `url(a.png)`, printer.FormatURL("a.png"))
	assert.Equal(t, `url("a(1).png")`, printer.FormatURL("a(1).png"))
}

func TestFormatFloat(t *testing.T) {
	var tests = []struct {
		in  float64
		out string
	}{
		{in: 0, out: "0"},
		{in: 0.5, out: "0.5"},
		{in: 0.1, out: "0.1"},
		{in: 100, out: "100"},
		{in: -2.25, out: "-2.25"},
		{in: 1e21, out: "1000000000000000000000"},
		{in: 0.000001, out: "0.000001"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.out, printer.FormatFloat(tt.in))
	}
}

type word string

func (w word) ToCSS(p *printer.Printer) { p.Ident(string(w)) }

func TestJoin(t *testing.T) {
	var buf bytes.Buffer
	p := printer.New(&buf)
	printer.Join(p, []word{"a", "b", "c"}, ",")
	assert.Equal(t, "a,b,c", buf.String())
	assert.Equal(t, int64(5), p.N())
	assert.Equal(t, "x", printer.String(word("x")))
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

// Ensure that the first write error is kept.
func TestPrinter_Err(t *testing.T) {
	p := printer.New(failingWriter{})
	p.WriteString("a")
	p.WriteString("b")
	assert.EqualError(t, p.Err(), "disk full")
}
