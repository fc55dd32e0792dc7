// Package properties implements property declarations and the declaration
// lists of style rules, page rules and keyframes.
package properties

import (
	"errors"
	"strings"

	"github.com/stylekit/css/ast"
	"github.com/stylekit/css/internal/log"
	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/printer"
	"github.com/stylekit/css/token"
)

var (
	// ErrImportanceForbidden is returned for "!important" in a list that
	// does not allow it.
	ErrImportanceForbidden = errors.New("!important is not allowed here")

	// ErrUnexpectedAtRule is returned for an at-rule inside a declaration list.
	ErrUnexpectedAtRule = errors.New("unexpected at-rule in declaration list")
)

// Importance marks a declaration as "!important".
type Importance bool

const (
	Normal    Importance = false
	Important Importance = true
)

func (i Importance) ToCSS(p *printer.Printer) {
	if i == Important {
		p.WriteString("!important")
	}
}

// ImportancePolicy decides whether the declarations of a list may be important.
type ImportancePolicy uint8

const (
	ImportanceAllowed ImportancePolicy = iota
	ImportanceForbidden
)

// Declaration is a property declaration.
type Declaration struct {
	VendorPrefix VendorPrefix

	// Lowercased name without the vendor prefix. Custom property names
	// keep their case.
	Name string

	Value      Value
	Importance Importance
	Pos        token.Pos
}

// IsCustom returns true for custom properties.
func (d *Declaration) IsCustom() bool { return strings.HasPrefix(d.Name, "--") }

// FullName returns the name including the vendor prefix.
func (d *Declaration) FullName() string {
	if d.VendorPrefix == NoPrefix {
		return d.Name
	}
	return "-" + string(d.VendorPrefix) + "-" + d.Name
}

func (d *Declaration) ToCSS(p *printer.Printer) {
	p.Print(d.VendorPrefix)
	p.Ident(d.Name)
	p.WriteString(": ")
	p.Print(d.Value)
	p.Print(d.Importance)
}

func (d *Declaration) String() string { return printer.String(d) }

// ParseDeclaration converts a syntax declaration into a property
// declaration. A CSS-wide keyword must be the whole value, otherwise the
// value is kept as a SpecifiedValue.
func ParseDeclaration(d *ast.Declaration, policy ImportancePolicy) (*Declaration, error) {
	if d.Important && policy == ImportanceForbidden {
		return nil, parser.Errorf(d.Pos, ErrImportanceForbidden, "!important is not allowed on %q", d.Name)
	}

	decl := &Declaration{Name: d.Name, Pos: d.Pos}
	if d.Important {
		decl.Importance = Important
	}
	if !decl.IsCustom() {
		decl.VendorPrefix, decl.Name = SplitVendorPrefix(strings.ToLower(d.Name))
	}

	in := parser.NewInput(d.Values, d.Pos)
	if kw, err := parser.Try(in, ParseCSSWideKeyword); err == nil {
		decl.Value = kw
		return decl, nil
	}
	v, err := ParseSpecifiedValue(in)
	if err != nil {
		return nil, err
	}
	decl.Value = v
	return decl, nil
}

// Declarations is an ordered list of property declarations.
type Declarations []*Declaration

// Get returns the last declaration with the given full name.
func (a Declarations) Get(name string) (*Declaration, bool) {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i].FullName() == name {
			return a[i], true
		}
	}
	return nil, false
}

// ToCSS writes the declarations separated by ";" without a trailing ";".
func (a Declarations) ToCSS(p *printer.Printer) { printer.Join(p, a, ";") }

// ParseDeclarations parses the contents of a declaration block. Invalid
// declarations are dropped and reported to onDropped, which may be nil.
func ParseDeclarations(values ast.ComponentValues, policy ImportancePolicy, onDropped func(error)) Declarations {
	var a Declarations
	ParseDeclarationList(values, func(d *ast.Declaration) error {
		decl, err := ParseDeclaration(d, policy)
		if err != nil {
			return err
		}
		a = append(a, decl)
		return nil
	}, onDropped)
	return a
}

// ParseDeclarationList parses the contents of a declaration block and hands
// each declaration to fn. Syntax errors, at-rules and declarations rejected
// by fn are dropped and reported to onDropped; parsing always continues.
func ParseDeclarationList(values ast.ComponentValues, fn func(d *ast.Declaration) error, onDropped func(error)) {
	drop := func(err error) {
		if pos, ok := parser.PositionOf(err); ok {
			log.Debug("dropped declaration at %s: %s", pos, err)
		} else {
			log.Debug("dropped declaration: %s", err)
		}
		if onDropped != nil {
			onDropped(err)
		}
	}

	nodes, errs := parser.ParseDeclarationList(values)
	for _, err := range errs {
		drop(err)
	}
	for _, n := range nodes {
		switch n := n.(type) {
		case *ast.Declaration:
			if err := fn(n); err != nil {
				drop(err)
			}
		case *ast.AtRule:
			drop(parser.Errorf(n.Pos, ErrUnexpectedAtRule, "unexpected at-rule @%s", n.Name))
		}
	}
}
