package properties

import (
	"errors"
	"strings"

	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/printer"
)

// ErrReservedIdent is returned when a custom identifier uses a reserved name.
var ErrReservedIdent = errors.New("reserved identifier")

// CustomIdent is an author-defined identifier such as an animation or
// counter style name.
type CustomIdent string

// NewCustomIdent returns s as a custom identifier. The CSS-wide keywords,
// "default" and the excluded names are rejected, ignoring ASCII case.
func NewCustomIdent(s string, excluding ...string) (CustomIdent, error) {
	if parser.EqualFold(s, "initial", "inherit", "unset", "default") || parser.EqualFold(s, excluding...) {
		return "", ErrReservedIdent
	}
	return CustomIdent(s), nil
}

// ParseCustomIdent consumes an identifier and validates it with NewCustomIdent.
func ParseCustomIdent(in *parser.Input, excluding ...string) (CustomIdent, error) {
	pos := in.Pos()
	s, err := in.ExpectIdent()
	if err != nil {
		return "", err
	}
	ident, err := NewCustomIdent(s, excluding...)
	if err != nil {
		return "", parser.Errorf(pos, err, "%q is a reserved identifier", s)
	}
	return ident, nil
}

func (v CustomIdent) ToCSS(p *printer.Printer) { p.Ident(string(v)) }

// SpecifiedURL is the value of a url() or a string used as a URL.
type SpecifiedURL string

// IsFragment returns true if the URL only references a fragment.
func (u SpecifiedURL) IsFragment() bool { return strings.HasPrefix(string(u), "#") }

func (u SpecifiedURL) ToCSS(p *printer.Printer) { p.URL(string(u)) }
