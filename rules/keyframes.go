package rules

import (
	"errors"
	"slices"

	"github.com/stylekit/css/ast"
	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/printer"
	"github.com/stylekit/css/properties"
	"github.com/stylekit/css/token"
)

// ErrKeyframePercentage is returned for a keyframe selector outside 0% to 100%.
var ErrKeyframePercentage = errors.New("keyframe percentage must be between 0% and 100%")

// KeyframesRule is an @keyframes rule, possibly vendor prefixed.
type KeyframesRule struct {
	VendorPrefix properties.VendorPrefix
	Name         KeyframesName
	Keyframes    []*Keyframe
	Pos          token.Pos
}

func (r *KeyframesRule) ToCSS(p *printer.Printer) {
	p.WriteString("@")
	p.Print(r.VendorPrefix)
	p.WriteString("keyframes ")
	p.Print(r.Name)
	p.WriteString("{")
	for _, k := range r.Keyframes {
		p.Print(k)
	}
	p.WriteString("}")
}

func (r *KeyframesRule) Prefix() properties.VendorPrefix { return r.VendorPrefix }

// FindRule returns the index of the last keyframe with the selector, or -1.
func (r *KeyframesRule) FindRule(selector KeyframeSelector) int {
	for i := len(r.Keyframes) - 1; i >= 0; i-- {
		if slices.Equal(r.Keyframes[i].Selector, selector) {
			return i
		}
	}
	return -1
}

func parseKeyframesRule(c *context, n *ast.AtRule, in *parser.Input) (Rule, error) {
	name, err := parseKeyframesName(in)
	if err != nil {
		return nil, err
	}
	if err := in.ExpectExhausted(); err != nil {
		return nil, err
	}

	r := &KeyframesRule{VendorPrefix: vendorPrefixOf(n.Name), Name: name, Pos: n.Pos}
	nested, err := parser.ParseRuleList(n.Block.Values)
	if err != nil {
		return nil, err
	}
	for _, node := range nested {
		q, ok := node.(*ast.QualifiedRule)
		if !ok {
			return nil, parser.Errorf(node.Position(), ErrUnsupportedAtRule, "unexpected at-rule in @keyframes")
		}
		sel, err := ParseKeyframeSelector(parser.NewInput(q.Prelude, q.Block.Position()))
		if err != nil {
			return nil, err
		}
		r.Keyframes = append(r.Keyframes, &Keyframe{
			Selector:     sel,
			Declarations: c.declarations(q.Block.Values, properties.ImportanceForbidden),
		})
	}
	return r, nil
}

// KeyframesName is the name of an @keyframes rule, written as an
// identifier or a string. Names compare by value.
type KeyframesName struct {
	Name   string
	Quoted bool
}

func (n KeyframesName) ToCSS(p *printer.Printer) {
	if n.Quoted {
		p.Quoted(n.Name)
		return
	}
	p.Ident(n.Name)
}

func parseKeyframesName(in *parser.Input) (KeyframesName, error) {
	if s, err := parser.Try(in, (*parser.Input).ExpectString); err == nil {
		return KeyframesName{Name: s, Quoted: true}, nil
	}
	ident, err := properties.ParseCustomIdent(in, "none")
	if err != nil {
		return KeyframesName{}, err
	}
	return KeyframesName{Name: string(ident)}, nil
}

// Keyframe is a block of declarations applied at some points of an
// animation. Its declarations are never important.
type Keyframe struct {
	Selector     KeyframeSelector
	Declarations properties.Declarations
}

func (k *Keyframe) ToCSS(p *printer.Printer) {
	p.Print(k.Selector)
	p.WriteString("{")
	p.Print(k.Declarations)
	p.WriteString("}")
}

// KeyframeSelector is the comma-separated list of points of a keyframe.
type KeyframeSelector []KeyframePercentage

func (s KeyframeSelector) ToCSS(p *printer.Printer) { printer.Join(p, s, ",") }

// ParseKeyframeSelector parses a complete keyframe selector.
func ParseKeyframeSelector(in *parser.Input) (KeyframeSelector, error) {
	return parser.ParseCommaSeparated(in, ParseKeyframePercentage)
}

// KeyframePercentage is a point of an animation as a fraction from 0 to 1.
type KeyframePercentage float64

// ToCSS writes 1 as "to" and any other point as a percentage.
func (k KeyframePercentage) ToCSS(p *printer.Printer) {
	if k == 1 {
		p.WriteString("to")
		return
	}
	p.Float(float64(k) * 100)
	p.WriteString("%")
}

// ParseKeyframePercentage parses "from", "to" or a percentage.
func ParseKeyframePercentage(in *parser.Input) (KeyframePercentage, error) {
	if in.Try(func(in *parser.Input) error { return in.ExpectIdentMatching("from") }) == nil {
		return 0, nil
	}
	if in.Try(func(in *parser.Input) error { return in.ExpectIdentMatching("to") }) == nil {
		return 1, nil
	}
	pos := in.Pos()
	v, err := in.ExpectPercentage()
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 1 {
		return 0, parser.Errorf(pos, ErrKeyframePercentage, "keyframe percentage %s%% is out of range", printer.FormatFloat(v*100))
	}
	return KeyframePercentage(v), nil
}
