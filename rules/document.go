package rules

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/stylekit/css/ast"
	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/printer"
	"github.com/stylekit/css/properties"
	"github.com/stylekit/css/token"
)

// ErrInvalidURLMatcher is returned for an @document condition that is not
// a url(), url-prefix(), domain() or regexp() function.
var ErrInvalidURLMatcher = errors.New("invalid URL matching function")

// DocumentRule is an @document or @-moz-document rule.
type DocumentRule struct {
	VendorPrefix properties.VendorPrefix

	// Matches when any of the matchers does.
	Matchers []*URLMatcher

	Rules Rules
	Pos   token.Pos
}

func (r *DocumentRule) ToCSS(p *printer.Printer) {
	p.WriteString("@")
	p.Print(r.VendorPrefix)
	p.WriteString("document ")
	printer.Join(p, r.Matchers, ", ")
	writeBlock(p, r.Rules)
}

func (r *DocumentRule) Prefix() properties.VendorPrefix { return r.VendorPrefix }

// Evaluate returns true if any matcher matches d.
func (r *DocumentRule) Evaluate(d Document) bool {
	for _, m := range r.Matchers {
		if d.MatchesURL(m) {
			return true
		}
	}
	return false
}

func parseDocumentRule(c *context, n *ast.AtRule, in *parser.Input) (Rule, error) {
	matchers, err := parser.ParseCommaSeparated(in, parseURLMatcher)
	if err != nil {
		return nil, err
	}
	rules, err := c.parseRuleList(n.Block.Values)
	if err != nil {
		return nil, err
	}
	return &DocumentRule{
		VendorPrefix: vendorPrefixOf(n.Name),
		Matchers:     matchers,
		Rules:        rules,
		Pos:          n.Pos,
	}, nil
}

// URLMatchKind is the function of a URLMatcher.
type URLMatchKind uint8

const (
	MatchURL URLMatchKind = iota
	MatchURLPrefix
	MatchDomain
	MatchRegexp
)

var urlMatchFuncs = [...]string{
	MatchURL:       "url",
	MatchURLPrefix: "url-prefix",
	MatchDomain:    "domain",
	MatchRegexp:    "regexp",
}

// URLMatcher is one URL matching function of an @document condition.
type URLMatcher struct {
	Kind  URLMatchKind
	Value string
}

func (m *URLMatcher) ToCSS(p *printer.Printer) {
	if m.Kind == MatchURL {
		p.URL(m.Value)
		return
	}
	p.WriteString(urlMatchFuncs[m.Kind])
	p.WriteString("(")
	p.Quoted(m.Value)
	p.WriteString(")")
}

func parseURLMatcher(in *parser.Input) (*URLMatcher, error) {
	pos := in.Pos()
	if u, err := parser.Try(in, (*parser.Input).ExpectURL); err == nil {
		return &URLMatcher{Kind: MatchURL, Value: u}, nil
	}

	name, args, err := in.ExpectFunction()
	if err != nil {
		return nil, parser.Errorf(pos, ErrInvalidURLMatcher, "expected a URL matching function")
	}
	m := &URLMatcher{}
	switch strings.ToLower(name) {
	case "url-prefix":
		m.Kind = MatchURLPrefix
	case "domain":
		m.Kind = MatchDomain
	case "regexp":
		m.Kind = MatchRegexp
		if m.Value, err = args.ExpectString(); err != nil {
			return nil, err
		}
		return m, args.ExpectExhausted()
	default:
		return nil, parser.Errorf(pos, ErrInvalidURLMatcher, "unknown URL matching function %s()", name)
	}

	// url-prefix() and domain() take a string or the raw text of their
	// arguments.
	if s, err := parser.Try(args, (*parser.Input).ExpectString); err == nil && args.IsExhausted() {
		m.Value = s
		return m, nil
	}
	var b strings.Builder
	printer.New(&b).Values(ast.TrimWhitespace(args.Remaining()))
	m.Value = b.String()
	return m, nil
}

// Document is the document an @document rule is evaluated against.
type Document interface {
	MatchesURL(m *URLMatcher) bool
}

// DocumentURL is a Document identified by its absolute URL.
type DocumentURL string

func (u DocumentURL) MatchesURL(m *URLMatcher) bool {
	s := string(u)
	switch m.Kind {
	case MatchURL:
		return s == m.Value
	case MatchURLPrefix:
		return strings.HasPrefix(s, m.Value)
	case MatchDomain:
		parsed, err := url.Parse(s)
		if err != nil {
			return false
		}
		host := strings.ToLower(parsed.Hostname())
		domain := strings.ToLower(m.Value)
		return host == domain || strings.HasSuffix(host, "."+domain)
	case MatchRegexp:
		re, err := regexp.Compile("^(?:" + m.Value + ")$")
		if err != nil {
			return false
		}
		return re.MatchString(s)
	}
	return false
}
