package rules

import (
	"strings"

	"github.com/stylekit/css/ast"
	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/printer"
	"github.com/stylekit/css/properties"
	"github.com/stylekit/css/selectors"
	"github.com/stylekit/css/token"
)

// StyleRule is a list of selectors and the declarations applied to them.
type StyleRule struct {
	Selectors    selectors.List
	Declarations properties.Declarations
	Pos          token.Pos
}

func (r *StyleRule) ToCSS(p *printer.Printer) {
	p.Print(r.Selectors)
	p.WriteString("{")
	p.Print(r.Declarations)
	p.WriteString("}")
}

// PagePseudoClass restricts an @page rule to some pages.
type PagePseudoClass string

const (
	PageAll   PagePseudoClass = ""
	PageBlank PagePseudoClass = "blank"
	PageFirst PagePseudoClass = "first"
	PageLeft  PagePseudoClass = "left"
	PageRight PagePseudoClass = "right"
	PageRecto PagePseudoClass = "recto"
	PageVerso PagePseudoClass = "verso"
)

// PageRule is an @page rule.
type PageRule struct {
	PseudoClass  PagePseudoClass
	Declarations properties.Declarations
	Pos          token.Pos
}

func (r *PageRule) ToCSS(p *printer.Printer) {
	p.WriteString("@page")
	if r.PseudoClass != PageAll {
		p.WriteString(" :")
		p.WriteString(string(r.PseudoClass))
	}
	p.WriteString("{")
	p.Print(r.Declarations)
	p.WriteString("}")
}

func parsePageRule(c *context, n *ast.AtRule, in *parser.Input) (Rule, error) {
	r := &PageRule{Pos: n.Pos}
	if !in.IsExhausted() {
		if err := in.ExpectColon(); err != nil {
			return nil, err
		}
		pos := in.Pos()
		name, err := in.ExpectIdent()
		if err != nil {
			return nil, err
		}
		switch pc := PagePseudoClass(strings.ToLower(name)); pc {
		case PageBlank, PageFirst, PageLeft, PageRight, PageRecto, PageVerso:
			r.PseudoClass = pc
		default:
			return nil, parser.Errorf(pos, parser.ErrUnexpectedToken, "unknown page pseudo-class %q", name)
		}
		if err := in.ExpectExhausted(); err != nil {
			return nil, err
		}
	}
	r.Declarations = c.declarations(n.Block.Values, properties.ImportanceAllowed)
	return r, nil
}
