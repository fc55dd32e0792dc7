package rules

import (
	"github.com/stylekit/css/ast"
	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/printer"
	"github.com/stylekit/css/properties"
	"github.com/stylekit/css/token"
)

// Namespaces holds the default namespace and the prefixes declared by the
// @namespace rules of a stylesheet. It implements
// selectors.NamespaceResolver. A nil table declares nothing.
type Namespaces struct {
	Default  *properties.SpecifiedURL
	ByPrefix map[string]properties.SpecifiedURL
}

// NewNamespaces returns an empty table.
func NewNamespaces() *Namespaces {
	return &Namespaces{ByPrefix: make(map[string]properties.SpecifiedURL)}
}

// LookupPrefix returns the URL bound to prefix.
func (ns *Namespaces) LookupPrefix(prefix string) (string, bool) {
	if ns == nil {
		return "", false
	}
	u, ok := ns.ByPrefix[prefix]
	return string(u), ok
}

// DefaultNamespace returns the default namespace URL.
func (ns *Namespaces) DefaultNamespace() (string, bool) {
	if ns == nil || ns.Default == nil {
		return "", false
	}
	return string(*ns.Default), true
}

// add registers a rule. A later rule for the same prefix replaces the
// earlier one.
func (ns *Namespaces) add(r *NamespaceRule) {
	if ns == nil {
		return
	}
	if r.Prefix == "" {
		u := r.URL
		ns.Default = &u
		return
	}
	if ns.ByPrefix == nil {
		ns.ByPrefix = make(map[string]properties.SpecifiedURL)
	}
	ns.ByPrefix[r.Prefix] = r.URL
}

// NamespaceRule is an @namespace rule. An empty prefix declares the
// default namespace.
type NamespaceRule struct {
	Prefix string
	URL    properties.SpecifiedURL
	Pos    token.Pos
}

func (r *NamespaceRule) ToCSS(p *printer.Printer) {
	p.WriteString("@namespace ")
	if r.Prefix != "" {
		p.Ident(r.Prefix)
		p.WriteString(" ")
	}
	p.Print(r.URL)
	p.WriteString(";")
}

func (c *context) parseNamespaceRule(n *ast.AtRule, in *parser.Input) (*NamespaceRule, error) {
	r := &NamespaceRule{Pos: n.Pos}
	if prefix, err := parser.Try(in, (*parser.Input).ExpectIdent); err == nil {
		r.Prefix = prefix
	}
	u, err := in.ExpectURLOrString()
	if err != nil {
		return nil, err
	}
	r.URL = properties.SpecifiedURL(u)
	return r, in.ExpectExhausted()
}

// ImportRule is an @import rule.
type ImportRule struct {
	URL   properties.SpecifiedURL
	Media *MediaList
	Pos   token.Pos
}

func (r *ImportRule) ToCSS(p *printer.Printer) {
	p.WriteString("@import ")
	p.Print(r.URL)
	if r.Media != nil && len(r.Media.Queries) > 0 {
		p.WriteString(" ")
		p.Print(r.Media)
	}
	p.WriteString(";")
}

func (c *context) parseImportRule(n *ast.AtRule, in *parser.Input) (*ImportRule, error) {
	u, err := in.ExpectURLOrString()
	if err != nil {
		return nil, err
	}
	media, err := c.parseMediaList(in)
	if err != nil {
		return nil, err
	}
	return &ImportRule{URL: properties.SpecifiedURL(u), Media: media, Pos: n.Pos}, nil
}
