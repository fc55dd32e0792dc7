package css

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/stylekit/css/internal/log"
	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/printer"
	"github.com/stylekit/css/rules"
	"github.com/stylekit/css/scanner"
	"github.com/stylekit/css/selectors"
	"github.com/stylekit/css/token"
)

// ParseOptions control how a stylesheet is parsed.
type ParseOptions struct {
	// Path is reported in errors. It is not read.
	Path string

	// OnDroppedDeclaration receives every invalid declaration or descriptor
	// dropped from a declaration list. May be nil.
	OnDroppedDeclaration func(err error)

	// AllowUnitlessLength accepts unitless numbers as pixel lengths in
	// at-rule preludes and descriptors.
	AllowUnitlessLength bool
}

// Stylesheet is a parsed stylesheet.
type Stylesheet struct {
	Rules      rules.Rules
	Namespaces *rules.Namespaces

	// Values of the "/*# sourceURL=... */" and "/*# sourceMappingURL=... */"
	// comments of the source text.
	SourceURL    string
	SourceMapURL string
}

// Parse parses the text of a stylesheet.
func Parse(text string) (*Stylesheet, error) {
	return ParseReader(strings.NewReader(text), ParseOptions{})
}

// ParseBytes parses a stylesheet from b.
func ParseBytes(b []byte) (*Stylesheet, error) {
	return ParseReader(bytes.NewReader(b), ParseOptions{})
}

// ParseReader parses a stylesheet read from r. A leading byte order mark is
// removed and UTF-16 input with a byte order mark is decoded.
func ParseReader(r io.Reader, opts ParseOptions) (*Stylesheet, error) {
	r = transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	s := scanner.New(r)
	tree, err := parser.ParseStyleSheet(s)
	if err != nil {
		return nil, newError(opts.Path, err)
	}
	for _, e := range s.Errors {
		log.Debug("%s: %s", e.Pos, e.Message)
	}

	ns := rules.NewNamespaces()
	a, err := rules.ParseStylesheet(tree.Rules, ns, rules.Options{
		OnDroppedDeclaration: opts.OnDroppedDeclaration,
		AllowUnitlessLength:  opts.AllowUnitlessLength,
	})
	if err != nil {
		return nil, newError(opts.Path, err)
	}
	return &Stylesheet{
		Rules:        a,
		Namespaces:   ns,
		SourceURL:    s.SourceURL,
		SourceMapURL: s.SourceMapURL,
	}, nil
}

// ToCSS writes the stylesheet in canonical form. When includeSourceURLs is
// set the source map and source URL comments are written first, each on
// its own line.
func (ss *Stylesheet) ToCSS(w io.Writer, includeSourceURLs bool) error {
	p := printer.New(w)
	if includeSourceURLs {
		if ss.SourceMapURL != "" {
			p.WriteString("/*# sourceMappingURL=" + ss.SourceMapURL + " */\n")
		}
		if ss.SourceURL != "" {
			p.WriteString("/*# sourceURL=" + ss.SourceURL + " */\n")
		}
	}
	p.Print(ss.Rules)
	return p.Err()
}

// ToBytes returns the canonical form of the stylesheet.
func (ss *Stylesheet) ToBytes(includeSourceURLs bool) []byte {
	var buf bytes.Buffer
	_ = ss.ToCSS(&buf, includeSourceURLs)
	return buf.Bytes()
}

// String returns the canonical form without source comments.
func (ss *Stylesheet) String() string { return string(ss.ToBytes(false)) }

// ParseCSSSelector parses a selector list outside of any stylesheet. No
// namespace prefixes are declared.
func ParseCSSSelector(text string) (selectors.List, error) {
	values, err := parser.ParseComponentValues(scanner.New(strings.NewReader(text)))
	if err != nil {
		return nil, newError("", err)
	}
	in := parser.NewInput(values, token.Pos{})
	a, err := selectors.ParseList(in, nil)
	if err == nil {
		err = in.ExpectExhausted()
	}
	if err != nil {
		return nil, newError("", err)
	}
	return a, nil
}
