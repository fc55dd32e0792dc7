package selectors_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/scanner"
	"github.com/stylekit/css/selectors"
	"github.com/stylekit/css/token"
)

type namespaces map[string]string

func (m namespaces) LookupPrefix(prefix string) (string, bool) {
	s, ok := m[prefix]
	return s, ok
}

func parse(t *testing.T, s string, ns selectors.NamespaceResolver) (selectors.List, error) {
	t.Helper()
	values, err := parser.ParseComponentValues(scanner.New(strings.NewReader(s)))
	require.NoError(t, err)
	return selectors.ParseList(parser.NewInput(values, token.Pos{}), ns)
}

// Ensure that selector lists parse and serialize in canonical form.
func TestParseList(t *testing.T) {
	ns := namespaces{"svg": "http://www.w3.org/2000/svg"}

	var tests = []struct {
		in  string
		s   string
		err error
	}{
		{in: `.hidden #something`, s: `.hidden #something`},
		{in: `  a   b  `, s: `a b`},
		{in: `a > b + c ~ d`, s: `a>b+c~d`},
		{in: `a>b`, s: `a>b`},
		{in: `h1 , h2,h3`, s: `h1,h2,h3`},
		{in: `a, b, a`, s: `a,b`},
		{in: `*`, s: `*`},
		{in: `*.warning`, s: `*.warning`},
		{in: `div.a.b#c`, s: `div.a.b#c`},
		{in: `svg|rect`, s: `svg|rect`},
		{in: `*|rect`, s: `*|rect`},
		{in: `|rect`, s: `|rect`},
		{in: `[href]`, s: `[href]`},
		{in: `a[ href ^= "https://" ]`, s: `a[href^="https://"]`},
		{in: `[lang|=en]`, s: `[lang|=en]`},
		{in: `[type="text" i]`, s: `[type=text i]`},
		{in: `[svg|title]`, s: `[svg|title]`},
		{in: `[data-x~="a b"]`, s: `[data-x~="a b"]`},
		{in: `a:HOVER`, s: `a:hover`},
		{in: `li:nth-child( 2n+1 )`, s: `li:nth-child(2n+1)`},
		{in: `p:not(.a, .b)`, s: `p:not(.a,.b)`},
		{in: `p::first-line`, s: `p::first-line`},
		{in: `p:before`, s: `p:before`},
		{in: `::slotted(span)`, s: `::slotted(span)`},
		{in: `.a\:b`, s: `.a\:b`},

		{in: ``, err: selectors.ErrEmptySelector},
		{in: `a,`, err: selectors.ErrEmptySelector},
		{in: `a >`, err: selectors.ErrInvalidSelector},
		{in: `> a`, err: selectors.ErrInvalidSelector},
		{in: `#1a`, err: selectors.ErrInvalidSelector},
		{in: `. a`, err: selectors.ErrInvalidSelector},
		{in: `a!`, err: selectors.ErrInvalidSelector},
		{in: `html|p`, err: selectors.ErrUndeclaredNamespace},
		{in: `[html|lang]`, err: selectors.ErrUndeclaredNamespace},
		{in: `[lang=en x]`, err: selectors.ErrInvalidSelector},
		{in: `[lang=]`, err: parser.ErrUnexpectedEOF},
	}

	for i, tt := range tests {
		a, err := parse(t, tt.in, ns)
		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Errorf("%d. <%q> error: exp=%q, got=%v", i, tt.in, tt.err, err)
			}
			continue
		} else if err != nil {
			t.Errorf("%d. <%q> unexpected error: %s", i, tt.in, err)
			continue
		}
		if s := a.String(); s != tt.s {
			t.Errorf("%d. <%q>\n\nexp: %s\n\ngot: %s", i, tt.in, tt.s, s)
		}
	}
}

// Ensure that namespace prefixes are rejected without a resolver.
func TestParseList_NoNamespaces(t *testing.T) {
	_, err := parse(t, `svg|rect`, nil)
	assert.ErrorIs(t, err, selectors.ErrUndeclaredNamespace)

	a, err := parse(t, `*|rect`, nil)
	require.NoError(t, err)
	assert.Equal(t, `*|rect`, a.String())
}

func TestSelector_IsSimpleDescendantOnly(t *testing.T) {
	var tests = []struct {
		in string
		ok bool
	}{
		{in: `a`, ok: true},
		{in: `.a .b #c`, ok: true},
		{in: `a:hover span`, ok: true},
		{in: `a > b`, ok: false},
		{in: `a + b`, ok: false},
		{in: `a ~ b`, ok: false},
		{in: `p::after`, ok: false},
		{in: `p:first-letter`, ok: false},
	}
	for _, tt := range tests {
		a, err := parse(t, tt.in, nil)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.ok, a[0].IsSimpleDescendantOnly(), tt.in)
	}
}

func TestSelector_Structure(t *testing.T) {
	a, err := parse(t, `ul.menu > li:first-child`, nil)
	require.NoError(t, err)
	require.Len(t, a, 1)

	sel := a[0]
	require.Len(t, sel.Compounds, 2)
	assert.Equal(t, []selectors.Combinator{selectors.Child}, sel.Combinators)
	assert.Equal(t, "ul", sel.Compounds[0].Type.Name)
	assert.Equal(t, &selectors.ClassSelector{Name: "menu"}, sel.Compounds[0].Simples[0])
	assert.Equal(t, &selectors.PseudoClass{Name: "first-child"}, sel.Compounds[1].Simples[0])
}
