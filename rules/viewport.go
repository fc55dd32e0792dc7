package rules

import (
	"strings"

	"github.com/stylekit/css/ast"
	"github.com/stylekit/css/numbers"
	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/printer"
	"github.com/stylekit/css/properties"
	"github.com/stylekit/css/token"
	"github.com/stylekit/css/units"
)

// ViewportRule is an @viewport rule, possibly vendor prefixed.
// Descriptors keep their source order.
type ViewportRule struct {
	VendorPrefix properties.VendorPrefix
	Descriptors  []*ViewportDescriptor
	Pos          token.Pos
}

func (r *ViewportRule) ToCSS(p *printer.Printer) {
	p.WriteString("@")
	p.Print(r.VendorPrefix)
	p.WriteString("viewport{")
	printer.Join(p, r.Descriptors, ";")
	p.WriteString("}")
}

func (r *ViewportRule) Prefix() properties.VendorPrefix { return r.VendorPrefix }

// Descriptor returns the last descriptor with the name.
func (r *ViewportRule) Descriptor(name string) (*ViewportDescriptor, bool) {
	for i := len(r.Descriptors) - 1; i >= 0; i-- {
		if r.Descriptors[i].Name == name {
			return r.Descriptors[i], true
		}
	}
	return nil, false
}

// ViewportDescriptor is one descriptor of an @viewport rule. The width and
// height shorthands carry a second value in Max.
type ViewportDescriptor struct {
	Name       string
	Value      printer.CSSer
	Max        printer.CSSer
	Importance properties.Importance
}

func (d *ViewportDescriptor) ToCSS(p *printer.Printer) {
	p.WriteString(d.Name)
	p.WriteString(":")
	p.Print(d.Value)
	if d.Max != nil {
		p.WriteString(" ")
		p.Print(d.Max)
	}
	p.Print(d.Importance)
}

func parseViewportRule(c *context, n *ast.AtRule, in *parser.Input) (Rule, error) {
	if err := in.ExpectExhausted(); err != nil {
		return nil, err
	}
	r := &ViewportRule{VendorPrefix: vendorPrefixOf(n.Name), Pos: n.Pos}
	c.descriptors(n.Block.Values, func(d *ast.Declaration) error {
		desc, err := c.parseViewportDescriptor(d)
		if err != nil {
			return err
		}
		r.Descriptors = append(r.Descriptors, desc)
		return nil
	})
	return r, nil
}

func (c *context) parseViewportDescriptor(d *ast.Declaration) (*ViewportDescriptor, error) {
	desc := &ViewportDescriptor{Name: strings.ToLower(d.Name), Importance: properties.Importance(d.Important)}

	var fn func(in *parser.Input) (printer.CSSer, error)
	switch desc.Name {
	case "min-width", "max-width", "min-height", "max-height":
		fn = c.parseViewportLength
	case "width", "height":
		fn = func(in *parser.Input) (printer.CSSer, error) {
			v, err := c.parseViewportLength(in)
			if err != nil {
				return nil, err
			}
			if !in.IsExhausted() {
				if desc.Max, err = c.parseViewportLength(in); err != nil {
					return nil, err
				}
			}
			return v, nil
		}
	case "zoom", "min-zoom", "max-zoom":
		fn = parseViewportZoom
	case "user-zoom":
		fn = viewportKeywords("zoom", "fixed")
	case "orientation":
		fn = viewportKeywords("auto", "portrait", "landscape")
	default:
		return nil, unsupportedDescriptor(d, "viewport")
	}

	v, err := parseDescriptor(d, fn)
	if err != nil {
		return nil, err
	}
	desc.Value = v
	return desc, nil
}

// parseViewportLength parses "auto" or a non-negative length or percentage.
func (c *context) parseViewportLength(in *parser.Input) (printer.CSSer, error) {
	if in.Try(func(in *parser.Input) error { return in.ExpectIdentMatching("auto") }) == nil {
		return Keyword("auto"), nil
	}
	return units.ParseOutsideCalc(in, c.lengthOptions(numbers.Unsigned, true))
}

// parseViewportZoom parses "auto" or a non-negative number or percentage.
func parseViewportZoom(in *parser.Input) (printer.CSSer, error) {
	if in.Try(func(in *parser.Input) error { return in.ExpectIdentMatching("auto") }) == nil {
		return Keyword("auto"), nil
	}
	return units.ParseOutsideCalc(in, units.Options{
		Domain:          units.NumberDomain,
		Kind:            numbers.Unsigned,
		AllowPercentage: true,
	})
}

func viewportKeywords(keywords ...string) func(in *parser.Input) (printer.CSSer, error) {
	return func(in *parser.Input) (printer.CSSer, error) {
		kw, err := expectKeyword(in, keywords...)
		if err != nil {
			return nil, err
		}
		return Keyword(kw), nil
	}
}
