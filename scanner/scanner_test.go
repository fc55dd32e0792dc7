package scanner_test

import (
	"flag"
	"reflect"
	"strings"
	"testing"

	"github.com/stylekit/css/scanner"
	"github.com/stylekit/css/token"
)

// testiter sets the table test iteration to run in isolation.
var testiter = flag.Int("test.iter", -1, "table test number")

// Ensure than the scanner returns appropriate tokens and literals.
func TestScanner_Scan(t *testing.T) {
	var tests = []struct {
		s   string
		tok token.Token
		err string
	}{
		{s: ``, tok: &token.EOF{}},
		{s: `   `, tok: &token.Whitespace{Value: `   `}},
		{s: " \r\n", tok: &token.Whitespace{Value: " \n"}},
		{s: " \f", tok: &token.Whitespace{Value: " \n"}},

		{s: `""`, tok: &token.String{Value: ``, Ending: '"'}},
		{s: `"`, tok: &token.String{Value: ``, Ending: '"'}},
		{s: `"foo`, tok: &token.String{Value: `foo`, Ending: '"'}},
		{s: `"hello world"`, tok: &token.String{Value: `hello world`, Ending: '"'}},
		{s: `'hello world'`, tok: &token.String{Value: `hello world`, Ending: '\''}},
		{s: "'foo\\\nbar'", tok: &token.String{Value: "foobar", Ending: '\''}},
		{s: `'foo\ bar'`, tok: &token.String{Value: `foo bar`, Ending: '\''}},
		{s: `'foo\\bar'`, tok: &token.String{Value: `foo\bar`, Ending: '\''}},
		{s: `'frosty the \2603'`, tok: &token.String{Value: `frosty the ☃`, Ending: '\''}},
		{s: "'foo\nbar'", tok: &token.BadString{}},

		{s: `0`, tok: &token.Number{Type: "integer", Value: `0`, Number: 0.0}},
		{s: `1.0`, tok: &token.Number{Type: "number", Value: `1.0`, Number: 1.0}},
		{s: `1.123`, tok: &token.Number{Type: "number", Value: `1.123`, Number: 1.123}},
		{s: `.001`, tok: &token.Number{Type: "number", Value: `.001`, Number: 0.001}},
		{s: `-.001`, tok: &token.Number{Type: "number", Value: `-.001`, Number: -0.001}},
		{s: `10000`, tok: &token.Number{Type: "integer", Value: `10000`, Number: 10000}},
		{s: `10000.`, tok: &token.Number{Type: "integer", Value: `10000`, Number: 10000}},
		{s: `100E`, tok: &token.Dimension{Type: "integer", Value: `100E`, Number: 100, Unit: "E"}},
		{s: `100E+`, tok: &token.Dimension{Type: "integer", Value: `100E`, Number: 100, Unit: "E"}},
		{s: `100E-`, tok: &token.Dimension{Type: "integer", Value: `100E-`, Number: 100, Unit: "E-"}},
		{s: `1E2`, tok: &token.Number{Type: "number", Value: `1E2`, Number: 100}},
		{s: `1.5E2`, tok: &token.Number{Type: "number", Value: `1.5E2`, Number: 150}},
		{s: `1.5E+2`, tok: &token.Number{Type: "number", Value: `1.5E+2`, Number: 150}},
		{s: `1.5E-2`, tok: &token.Number{Type: "number", Value: `1.5E-2`, Number: 0.015}},
		{s: `1e30`, tok: &token.Number{Type: "number", Value: `1e30`, Number: 1e30}},
		{s: `1e30px`, tok: &token.Dimension{Type: "number", Value: `1e30px`, Number: 1e30, Unit: "px"}},
		{s: `1e-10px`, tok: &token.Dimension{Type: "number", Value: `1e-10px`, Number: 1e-10, Unit: "px"}},
		{s: `2E+12%`, tok: &token.Percentage{Type: "number", Value: `2E+12%`, Number: 2e12}},
		{s: `3e12e3`, tok: &token.Dimension{Type: "number", Value: `3e12e3`, Number: 3e12, Unit: "e3"}},
		{s: `+100`, tok: &token.Number{Type: "integer", Value: `+100`, Number: 100}},
		{s: `+1.0`, tok: &token.Number{Type: "number", Value: `+1.0`, Number: 1}},
		{s: `+.5`, tok: &token.Number{Type: "number", Value: `+.5`, Number: 0.5}},
		{s: `-100`, tok: &token.Number{Type: "integer", Value: `-100`, Number: -100}},
		{s: `-1.0`, tok: &token.Number{Type: "number", Value: `-1.0`, Number: -1}},
		{s: `-`, tok: &token.Delim{Value: `-`}},
		{s: `+`, tok: &token.Delim{Value: `+`}},
		{s: `+ 1`, tok: &token.Delim{Value: `+`}},
		{s: `.`, tok: &token.Delim{Value: `.`}},
		{s: `.foo`, tok: &token.Delim{Value: `.`}},

		{s: `url`, tok: &token.Ident{Value: `url`}},
		{s: `myIdent`, tok: &token.Ident{Value: `myIdent`}},
		{s: `my\2603`, tok: &token.Ident{Value: `my☃`}},
		{s: `-webkit-box`, tok: &token.Ident{Value: `-webkit-box`}},
		{s: `--main-color`, tok: &token.Ident{Value: `--main-color`}},
		{s: `-->`, tok: &token.CDC{}},

		{s: `url(`, tok: &token.URL{Value: ``}},
		{s: `url(foo`, tok: &token.URL{Value: `foo`}},
		{s: `url(http://foo.com#bar?baz=bat)`, tok: &token.URL{Value: `http://foo.com#bar?baz=bat`}},
		{s: `url(  foo`, tok: &token.URL{Value: `foo`}},
		{s: `url(  foo  `, tok: &token.URL{Value: `foo`}},
		{s: `url(  \2603  `, tok: &token.URL{Value: `☃`}},
		{s: `url(foo)`, tok: &token.URL{Value: `foo`}},
		{s: `URL(foo)`, tok: &token.URL{Value: `foo`}},
		{s: `url("http://foo.com#bar?baz=bat")`, tok: &token.URL{Value: `http://foo.com#bar?baz=bat`}},
		{s: `url(  "foo"  `, tok: &token.URL{Value: `foo`}},
		{s: `url("foo"  )`, tok: &token.URL{Value: `foo`}},
		{s: `url("foo")`, tok: &token.URL{Value: `foo`}},
		{s: `url("foo"x`, tok: &token.BadURL{}},
		{s: `url("foo" x`, tok: &token.BadURL{}},
		{s: `url(foo"`, tok: &token.BadURL{}, err: `invalid url code point: " (U+0022)`},
		{s: `url(foo'`, tok: &token.BadURL{}, err: `invalid url code point: ' (U+0027)`},
		{s: `url(foo(`, tok: &token.BadURL{}, err: `invalid url code point: ( (U+0028)`},
		{s: "url(foo\001", tok: &token.BadURL{}, err: "invalid url code point: \001 (U+0001)"},
		{s: "url(foo\\\n", tok: &token.BadURL{}, err: `unescaped \ in url`},

		{s: `myFunc(`, tok: &token.Function{Value: `myFunc`}},
		{s: `calc(`, tok: &token.Function{Value: `calc`}},

		{s: "u+A", tok: &token.UnicodeRange{Start: 10, End: 10}},
		{s: "u+00000A", tok: &token.UnicodeRange{Start: 10, End: 10}},
		{s: "u+000000A", tok: &token.UnicodeRange{Start: 0, End: 0}},
		{s: "u+1?", tok: &token.UnicodeRange{Start: 16, End: 31}},
		{s: "u+1?F", tok: &token.UnicodeRange{Start: 16, End: 31}},
		{s: "u+02-04", tok: &token.UnicodeRange{Start: 2, End: 4}},
		{s: "u+02-04?", tok: &token.UnicodeRange{Start: 2, End: 4}},
		{s: "u+02-0000004", tok: &token.UnicodeRange{Start: 2, End: 0}},

		{s: `100em`, tok: &token.Dimension{Type: "integer", Value: `100em`, Number: 100, Unit: "em"}},
		{s: `-1.2in`, tok: &token.Dimension{Type: "number", Value: `-1.2in`, Number: -1.2, Unit: "in"}},

		{s: `100%`, tok: &token.Percentage{Type: "integer", Value: `100%`, Number: 100}},
		{s: `-0.2%`, tok: &token.Percentage{Type: "number", Value: `-0.2%`, Number: -0.2}},

		{s: `#foo`, tok: &token.Hash{Value: `foo`, Type: "id"}},
		{s: `#foo\2603 bar`, tok: &token.Hash{Value: `foo☃bar`, Type: "id"}},
		{s: `#-x`, tok: &token.Hash{Value: `-x`, Type: "id"}},
		{s: `#_x`, tok: &token.Hash{Value: `_x`, Type: "id"}},
		{s: `#18273`, tok: &token.Hash{Value: `18273`, Type: "unrestricted"}},
		{s: `#`, tok: &token.Delim{Value: `#`}},

		{s: `/`, tok: &token.Delim{Value: `/`}},
		{s: `/* this is * a comment */#`, tok: &token.Delim{Value: "#", Pos: token.Pos{Char: 25, Line: 0}}},
		{s: "/* one\ntwo */ x", tok: &token.Whitespace{Value: " ", Pos: token.Pos{Char: 6, Line: 1}}},

		{s: `<`, tok: &token.Delim{Value: "<"}},
		{s: `<!`, tok: &token.Delim{Value: "<"}},
		{s: `<!-`, tok: &token.Delim{Value: "<"}},
		{s: `<!--`, tok: &token.CDO{}},

		{s: `@`, tok: &token.Delim{Value: "@"}},
		{s: `@foo`, tok: &token.AtKeyword{Value: "foo"}},
		{s: `@-moz-document`, tok: &token.AtKeyword{Value: "-moz-document"}},

		{s: `\2603`, tok: &token.Ident{Value: "☃"}},
		{s: `\0`, tok: &token.Ident{Value: "�"}},
		{s: `\`, tok: &token.Ident{Value: "�"}},
		{s: `\ `, tok: &token.Ident{Value: " "}},
		{s: "\\\n", tok: &token.Delim{Value: `\`}, err: "unescaped \\"},

		{s: `$=`, tok: &token.SuffixMatch{}},
		{s: `$X`, tok: &token.Delim{Value: `$`}},
		{s: `$`, tok: &token.Delim{Value: `$`}},

		{s: `*=`, tok: &token.SubstringMatch{}},
		{s: `*X`, tok: &token.Delim{Value: `*`}},
		{s: `*`, tok: &token.Delim{Value: `*`}},

		{s: `^=`, tok: &token.PrefixMatch{}},
		{s: `^X`, tok: &token.Delim{Value: `^`}},
		{s: `^`, tok: &token.Delim{Value: `^`}},

		{s: `~=`, tok: &token.IncludeMatch{}},
		{s: `~X`, tok: &token.Delim{Value: `~`}},
		{s: `~`, tok: &token.Delim{Value: `~`}},

		{s: `|=`, tok: &token.DashMatch{}},
		{s: `||`, tok: &token.Column{}},
		{s: `|X`, tok: &token.Delim{Value: `|`}},
		{s: `|`, tok: &token.Delim{Value: `|`}},

		{s: `,`, tok: &token.Comma{}},
		{s: `:`, tok: &token.Colon{}},
		{s: `;`, tok: &token.Semicolon{}},
		{s: `(`, tok: &token.LParen{}},
		{s: `)`, tok: &token.RParen{}},
		{s: `[`, tok: &token.LBrack{}},
		{s: `]`, tok: &token.RBrack{}},
		{s: `{`, tok: &token.LBrace{}},
		{s: `}`, tok: &token.RBrace{}},
	}

	for i, tt := range tests {
		// Skips over tests if test.iter is set.
		if *testiter > -1 && *testiter != i {
			continue
		}

		// Scan token.
		s := scanner.New(strings.NewReader(tt.s))
		tok := s.Scan()

		// Verify properties.
		if !reflect.DeepEqual(tok, tt.tok) {
			t.Errorf("%d. <%q> tok: => got %#v, want %#v", i, tt.s, tok, tt.tok)
		} else if tt.err != "" {
			if len(s.Errors) == 0 {
				t.Errorf("%d. <%q> error expected", i, tt.s)
			} else if len(s.Errors) > 1 {
				t.Errorf("%d. <%q> too many errors occurred", i, tt.s)
			} else if s.Errors[0].Message != tt.err {
				t.Errorf("%d. <%q> error: got %q, want %q", i, tt.s, s.Errors[0].Message, tt.err)
			}
		} else if tt.err == "" && len(s.Errors) > 0 {
			t.Errorf("%d. <%q> unexpected error: %q", i, tt.s, s.Errors[0].Message)
		}
	}
}

// Ensure that a sequence of tokens is scanned with positions.
func TestScanner_Scan_Sequence(t *testing.T) {
	s := scanner.New(strings.NewReader("a{\r\n  b: 1px\n}"))
	exp := []token.Token{
		&token.Ident{Value: "a", Pos: token.Pos{Char: 0, Line: 0}},
		&token.LBrace{Pos: token.Pos{Char: 1, Line: 0}},
		&token.Whitespace{Value: "\n  ", Pos: token.Pos{Char: 2, Line: 0}},
		&token.Ident{Value: "b", Pos: token.Pos{Char: 2, Line: 1}},
		&token.Colon{Pos: token.Pos{Char: 3, Line: 1}},
		&token.Whitespace{Value: " ", Pos: token.Pos{Char: 4, Line: 1}},
		&token.Dimension{Type: "integer", Value: "1px", Number: 1, Unit: "px", Pos: token.Pos{Char: 5, Line: 1}},
		&token.Whitespace{Value: "\n", Pos: token.Pos{Char: 8, Line: 1}},
		&token.RBrace{Pos: token.Pos{Char: 0, Line: 2}},
	}
	for i, want := range exp {
		if tok := s.Scan(); !reflect.DeepEqual(tok, want) {
			t.Fatalf("%d. got %#v, want %#v", i, tok, want)
		}
	}
	if _, ok := s.Scan().(*token.EOF); !ok {
		t.Fatalf("expected EOF, got %#v", s.Current())
	}
}

// Ensure that unscanned tokens are returned again in order.
func TestScanner_Unscan(t *testing.T) {
	s := scanner.New(strings.NewReader("a b"))
	a := s.Scan()
	ws := s.Scan()
	s.Unscan()
	s.Unscan()
	if tok := s.Scan(); tok != a {
		t.Fatalf("unexpected token: %#v", tok)
	}
	if tok := s.Current(); tok != a {
		t.Fatalf("unexpected current token: %#v", tok)
	}
	if tok := s.Scan(); tok != ws {
		t.Fatalf("unexpected token: %#v", tok)
	}
	if tok := s.Scan(); tok.String() != "b" {
		t.Fatalf("unexpected token: %#v", tok)
	}
}

// Ensure that source URL comments are captured.
func TestScanner_SourceComments(t *testing.T) {
	var tests = []struct {
		s         string
		sourceURL string
		sourceMap string
	}{
		{s: `/*# sourceURL=app.css */ a{}`, sourceURL: "app.css"},
		{s: `/*# sourceMappingURL=app.css.map */`, sourceMap: "app.css.map"},
		{s: "a{}\n/*@ sourceMappingURL=old.map */\n/*# sourceURL=x.css*/", sourceURL: "x.css", sourceMap: "old.map"},
		{s: `/* sourceURL=ignored.css */`},
		{s: `/*#sourceURL=ignored.css */`},
		{s: `/*# sourceURL= */`},
	}

	for i, tt := range tests {
		s := scanner.New(strings.NewReader(tt.s))
		for {
			if _, ok := s.Scan().(*token.EOF); ok {
				break
			}
		}
		if s.SourceURL != tt.sourceURL {
			t.Errorf("%d. <%q> source url: got %q, want %q", i, tt.s, s.SourceURL, tt.sourceURL)
		}
		if s.SourceMapURL != tt.sourceMap {
			t.Errorf("%d. <%q> source map url: got %q, want %q", i, tt.s, s.SourceMapURL, tt.sourceMap)
		}
	}
}

// Ensure that an input can be tokenized in a single call.
func TestTokenize(t *testing.T) {
	toks, errs := scanner.Tokenize(strings.NewReader(`a > b`))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	var got []string
	for _, tok := range toks {
		got = append(got, tok.String())
	}
	if exp := []string{"a", " ", ">", " ", "b"}; !reflect.DeepEqual(got, exp) {
		t.Fatalf("got %q, want %q", got, exp)
	}
}
