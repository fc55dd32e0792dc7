// Package rules implements the typed rule tree of a stylesheet: style rules,
// the twelve at-rule grammars, the nested and top-level rule list parsers
// and the namespace table.
package rules

import (
	"errors"
	"fmt"

	"github.com/stylekit/css/printer"
	"github.com/stylekit/css/properties"
	"github.com/stylekit/css/token"
)

var (
	// ErrUnsupportedAtRule is returned for an at-rule with an unknown name.
	ErrUnsupportedAtRule = errors.New("unsupported at-rule")

	// ErrCharsetRule is returned for an @charset rule.
	ErrCharsetRule = errors.New("@charset is not supported")

	// ErrRuleOrder is returned for an @import or @namespace rule that
	// appears after a rule it must precede.
	ErrRuleOrder = errors.New("rule is not allowed here")

	// ErrMissingBlock is returned for a block at-rule written without a block.
	ErrMissingBlock = errors.New("at-rule requires a block")

	// ErrUnexpectedBlock is returned for a statement at-rule followed by a block.
	ErrUnexpectedBlock = errors.New("at-rule must end with a semicolon")

	// ErrUnsupportedDescriptor is returned for an unknown descriptor name.
	ErrUnsupportedDescriptor = errors.New("unsupported descriptor")

	// ErrImportantInKeyframe is returned for "!important" inside a keyframe.
	ErrImportantInKeyframe = properties.ErrImportanceForbidden

	// ErrIndexSize is returned by RemoveRule for an index out of range.
	ErrIndexSize = errors.New("index out of range")

	// ErrInvalidState is returned by RemoveRule when removing a namespace
	// rule that other rules may depend on.
	ErrInvalidState = errors.New("invalid state")
)

// RuleType identifies the kind of a Rule.
type RuleType uint8

const (
	TypeStyle RuleType = iota + 1
	TypeCounterStyle
	TypeDocument
	TypeFontFace
	TypeFontFeatureValues
	TypeImport
	TypeKeyframes
	TypeMedia
	TypeNamespace
	TypePage
	TypeSupports
	TypeViewport
)

var ruleTypeNames = map[RuleType]string{
	TypeStyle:             "style",
	TypeCounterStyle:      "counter-style",
	TypeDocument:          "document",
	TypeFontFace:          "font-face",
	TypeFontFeatureValues: "font-feature-values",
	TypeImport:            "import",
	TypeKeyframes:         "keyframes",
	TypeMedia:             "media",
	TypeNamespace:         "namespace",
	TypePage:              "page",
	TypeSupports:          "supports",
	TypeViewport:          "viewport",
}

func (t RuleType) String() string {
	if s, ok := ruleTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("RuleType(%d)", uint8(t))
}

// Rule is a style rule or an at-rule. The set of implementations is closed.
type Rule interface {
	printer.CSSer
	Type() RuleType
	Position() token.Pos
	rule()
}

func (*CounterStyleRule) rule()      {}
func (*DocumentRule) rule()          {}
func (*FontFaceRule) rule()          {}
func (*FontFeatureValuesRule) rule() {}
func (*ImportRule) rule()            {}
func (*KeyframesRule) rule()         {}
func (*MediaRule) rule()             {}
func (*NamespaceRule) rule()         {}
func (*PageRule) rule()              {}
func (*StyleRule) rule()             {}
func (*SupportsRule) rule()          {}
func (*ViewportRule) rule()          {}

func (*CounterStyleRule) Type() RuleType      { return TypeCounterStyle }
func (*DocumentRule) Type() RuleType          { return TypeDocument }
func (*FontFaceRule) Type() RuleType          { return TypeFontFace }
func (*FontFeatureValuesRule) Type() RuleType { return TypeFontFeatureValues }
func (*ImportRule) Type() RuleType            { return TypeImport }
func (*KeyframesRule) Type() RuleType         { return TypeKeyframes }
func (*MediaRule) Type() RuleType             { return TypeMedia }
func (*NamespaceRule) Type() RuleType         { return TypeNamespace }
func (*PageRule) Type() RuleType              { return TypePage }
func (*StyleRule) Type() RuleType             { return TypeStyle }
func (*SupportsRule) Type() RuleType          { return TypeSupports }
func (*ViewportRule) Type() RuleType          { return TypeViewport }

func (r *CounterStyleRule) Position() token.Pos      { return r.Pos }
func (r *DocumentRule) Position() token.Pos          { return r.Pos }
func (r *FontFaceRule) Position() token.Pos          { return r.Pos }
func (r *FontFeatureValuesRule) Position() token.Pos { return r.Pos }
func (r *ImportRule) Position() token.Pos            { return r.Pos }
func (r *KeyframesRule) Position() token.Pos         { return r.Pos }
func (r *MediaRule) Position() token.Pos             { return r.Pos }
func (r *NamespaceRule) Position() token.Pos         { return r.Pos }
func (r *PageRule) Position() token.Pos              { return r.Pos }
func (r *StyleRule) Position() token.Pos             { return r.Pos }
func (r *SupportsRule) Position() token.Pos          { return r.Pos }
func (r *ViewportRule) Position() token.Pos          { return r.Pos }

// Rules is an ordered list of rules.
type Rules []Rule

// ToCSS writes the rules without separators.
func (a Rules) ToCSS(p *printer.Printer) {
	for _, r := range a {
		p.Print(r)
	}
}

func (a Rules) String() string { return printer.String(a) }

// RemoveRule removes the rule at index. A namespace rule can only be
// removed while the list holds nothing but @import and @namespace rules.
func (a *Rules) RemoveRule(index int) error {
	if index < 0 || index >= len(*a) {
		return fmt.Errorf("remove rule %d of %d: %w", index, len(*a), ErrIndexSize)
	}
	if (*a)[index].Type() == TypeNamespace && !a.onlyNamespaceOrImport() {
		return fmt.Errorf("remove namespace rule %d: %w", index, ErrInvalidState)
	}
	*a = append((*a)[:index], (*a)[index+1:]...)
	return nil
}

func (a Rules) onlyNamespaceOrImport() bool {
	for _, r := range a {
		if t := r.Type(); t != TypeNamespace && t != TypeImport {
			return false
		}
	}
	return true
}

// VendorPrefixed is implemented by at-rules that may carry a vendor prefix.
type VendorPrefixed interface {
	Rule
	Prefix() properties.VendorPrefix
}

// VendorPrefixAtRules calls fn for every unprefixed at-rule that may carry
// a vendor prefix and inserts the rules it returns before that rule. The
// unprefixed rule is removed when removeUnprefixed is set and fn returned
// at least one rule.
func (a *Rules) VendorPrefixAtRules(removeUnprefixed bool, fn func(r VendorPrefixed) []Rule) {
	var out Rules
	for _, r := range *a {
		vp, ok := r.(VendorPrefixed)
		if !ok || vp.Prefix() != properties.NoPrefix {
			out = append(out, r)
			continue
		}
		inserted := fn(vp)
		out = append(out, inserted...)
		if len(inserted) == 0 || !removeUnprefixed {
			out = append(out, r)
		}
	}
	*a = out
}

// Keyword is a lowercased keyword value such as "portrait" or "auto".
type Keyword string

func (k Keyword) ToCSS(p *printer.Printer) { p.WriteString(string(k)) }

// writeBlock writes "{", the rules and "}".
func writeBlock(p *printer.Printer, a Rules) {
	p.WriteString("{")
	p.Print(a)
	p.WriteString("}")
}
