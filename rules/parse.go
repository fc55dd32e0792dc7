package rules

import (
	"fmt"
	"strings"

	"github.com/stylekit/css/ast"
	"github.com/stylekit/css/numbers"
	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/properties"
	"github.com/stylekit/css/selectors"
	"github.com/stylekit/css/units"
)

// Options control rule parsing.
type Options struct {
	// OnDroppedDeclaration receives every declaration dropped from a
	// declaration list. May be nil.
	OnDroppedDeclaration func(err error)

	// AllowUnitlessLength accepts any unitless number where a length is
	// expected in preludes and descriptors.
	AllowUnitlessLength bool
}

// context is passed through the recursive descent. The namespace table is
// only written by ParseStylesheet.
type context struct {
	Options
	ns *Namespaces
}

func (c *context) lengthOptions(kind numbers.Kind, percentage bool) units.Options {
	return units.Options{
		Domain:              units.LengthDomain,
		Kind:                kind,
		AllowPercentage:     percentage,
		AllowUnitlessLength: c.AllowUnitlessLength,
	}
}

func (c *context) declarations(values ast.ComponentValues, policy properties.ImportancePolicy) properties.Declarations {
	return properties.ParseDeclarations(values, policy, c.OnDroppedDeclaration)
}

// descriptors parses a declaration list whose names are handled by fn.
func (c *context) descriptors(values ast.ComponentValues, fn func(d *ast.Declaration) error) {
	properties.ParseDeclarationList(values, fn, c.OnDroppedDeclaration)
}

// State is the position of the top-level rule parser in a stylesheet.
type State uint8

const (
	StateStart State = iota
	StateImports
	StateNamespaces
	StateBody
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateImports:
		return "imports"
	case StateNamespaces:
		return "namespaces"
	case StateBody:
		return "body"
	case StateInvalid:
		return "invalid"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Next returns the state after a rule of type t. @import is only allowed
// before any other rule and @namespace only before rules other than
// @import. A misplaced rule returns StateInvalid and false.
func (s State) Next(t RuleType) (State, bool) {
	switch t {
	case TypeImport:
		if s <= StateImports {
			return StateImports, true
		}
	case TypeNamespace:
		if s <= StateNamespaces {
			return StateNamespaces, true
		}
	default:
		if s != StateInvalid {
			return StateBody, true
		}
	}
	return StateInvalid, false
}

// ParseStylesheet converts the top-level rules of a stylesheet. Every
// @namespace rule is added to ns. The first error aborts the parse.
func ParseStylesheet(a ast.Rules, ns *Namespaces, opts Options) (Rules, error) {
	c := &context{Options: opts, ns: ns}

	var out Rules
	state := StateStart
	for _, n := range a {
		r, err := c.parseRule(n, true)
		if err != nil {
			return nil, err
		}

		next, ok := state.Next(r.Type())
		if !ok {
			return nil, parser.Errorf(r.Position(), ErrRuleOrder, "@%s is not allowed after %s rules", r.Type(), state)
		}
		state = next

		if r, ok := r.(*NamespaceRule); ok {
			ns.add(r)
		}
		out = append(out, r)
	}
	return out, nil
}

// ParseRuleList converts the contents of a container rule's block.
// @import and @namespace are not allowed. ns may be nil.
func ParseRuleList(values ast.ComponentValues, ns *Namespaces, opts Options) (Rules, error) {
	c := &context{Options: opts, ns: ns}
	return c.parseRuleList(values)
}

func (c *context) parseRuleList(values ast.ComponentValues) (Rules, error) {
	a, err := parser.ParseRuleList(values)
	if err != nil {
		return nil, err
	}
	var out Rules
	for _, n := range a {
		r, err := c.parseRule(n, false)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (c *context) parseRule(n ast.Rule, toplevel bool) (Rule, error) {
	switch n := n.(type) {
	case *ast.QualifiedRule:
		return c.parseStyleRule(n)
	case *ast.AtRule:
		return c.parseAtRule(n, toplevel)
	}
	return nil, parser.Errorf(n.Position(), parser.ErrUnexpectedToken, "unexpected %q", n.String())
}

func (c *context) parseStyleRule(n *ast.QualifiedRule) (*StyleRule, error) {
	in := parser.NewInput(n.Prelude, n.Block.Position())
	sels, err := selectors.ParseList(in, c.ns)
	if err != nil {
		return nil, err
	}
	return &StyleRule{
		Selectors:    sels,
		Declarations: c.declarations(n.Block.Values, properties.ImportanceAllowed),
		Pos:          n.Pos,
	}, nil
}

// atRuleParser returns the grammar of a lowercased at-rule name that takes
// a block.
func atRuleParser(name string) (func(c *context, r *ast.AtRule, in *parser.Input) (Rule, error), bool) {
	switch name {
	case "counter-style":
		return parseCounterStyleRule, true
	case "document", "-moz-document":
		return parseDocumentRule, true
	case "font-face":
		return parseFontFaceRule, true
	case "font-feature-values":
		return parseFontFeatureValuesRule, true
	case "keyframes", "-webkit-keyframes", "-moz-keyframes", "-o-keyframes":
		return parseKeyframesRule, true
	case "media":
		return parseMediaRule, true
	case "page":
		return parsePageRule, true
	case "supports":
		return parseSupportsRule, true
	case "viewport", "-ms-viewport", "-o-viewport":
		return parseViewportRule, true
	}
	return nil, false
}

func (c *context) parseAtRule(n *ast.AtRule, toplevel bool) (Rule, error) {
	name := strings.ToLower(n.Name)
	end := n.Pos
	if n.Block != nil {
		end = n.Block.Position()
	}
	in := parser.NewInput(n.Prelude, end)

	switch name {
	case "charset":
		return nil, parser.Errorf(n.Pos, ErrCharsetRule, "@charset is not supported")
	case "import", "namespace":
		if !toplevel {
			return nil, parser.Errorf(n.Pos, ErrRuleOrder, "@%s is not allowed in a nested rule list", name)
		}
		if n.Block != nil {
			return nil, parser.Errorf(n.Block.Position(), ErrUnexpectedBlock, "@%s must end with a semicolon", name)
		}
		if name == "import" {
			return c.parseImportRule(n, in)
		}
		return c.parseNamespaceRule(n, in)
	}

	fn, ok := atRuleParser(name)
	if !ok {
		return nil, parser.Errorf(n.Pos, ErrUnsupportedAtRule, "unsupported at-rule @%s", n.Name)
	}
	if n.Block == nil {
		return nil, parser.Errorf(n.Pos, ErrMissingBlock, "@%s requires a block", name)
	}
	return fn(c, n, in)
}

// vendorPrefixOf returns the vendor prefix of an at-rule name.
func vendorPrefixOf(name string) properties.VendorPrefix {
	prefix, _ := properties.SplitVendorPrefix(strings.ToLower(name))
	return prefix
}

// parseDescriptor parses the value of a descriptor with fn. The value must
// be consumed completely.
func parseDescriptor[T any](d *ast.Declaration, fn func(in *parser.Input) (T, error)) (T, error) {
	in := parser.NewInput(d.Values, d.Pos)
	v, err := fn(in)
	if err != nil {
		return v, err
	}
	return v, in.ExpectExhausted()
}

// setDescriptor parses a descriptor and stores it in dst. dst is left
// unchanged on error.
func setDescriptor[T any](dst *T, d *ast.Declaration, fn func(in *parser.Input) (T, error)) error {
	v, err := parseDescriptor(d, fn)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// forbidImportance returns an error if a descriptor is marked "!important".
func forbidImportance(d *ast.Declaration) error {
	if d.Important {
		return parser.Errorf(d.Pos, properties.ErrImportanceForbidden, "!important is not allowed on %q", d.Name)
	}
	return nil
}

func unsupportedDescriptor(d *ast.Declaration, rule string) error {
	return parser.Errorf(d.Pos, ErrUnsupportedDescriptor, "unsupported @%s descriptor %q", rule, d.Name)
}

// expectKeyword consumes an identifier that must be one of the keywords and
// returns it lowercased.
func expectKeyword(in *parser.Input, keywords ...string) (string, error) {
	pos := in.Pos()
	s, err := in.ExpectIdent()
	if err != nil {
		return "", err
	}
	for _, kw := range keywords {
		if strings.EqualFold(s, kw) {
			return kw, nil
		}
	}
	return "", parser.Errorf(pos, parser.ErrUnexpectedToken, "expected one of %s, got %q", strings.Join(keywords, ", "), s)
}
