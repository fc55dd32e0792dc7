package ast

import (
	"bytes"
	"fmt"

	"github.com/stylekit/css/token"
)

// Node represents a node in the CSS3 abstract syntax tree.
type Node interface {
	node()
	String() string
}

func (_ *StyleSheet) node()     {}
func (_ Rules) node()           {}
func (_ *AtRule) node()         {}
func (_ *QualifiedRule) node()  {}
func (_ Declarations) node()    {}
func (_ *Declaration) node()    {}
func (_ ComponentValues) node() {}
func (_ *SimpleBlock) node()    {}
func (_ *Function) node()       {}
func (_ *Token) node()          {}

// StyleSheet represents a top-level CSS3 stylesheet.
type StyleSheet struct {
	Rules Rules

	// Source comment URLs found while scanning.
	SourceURL    string
	SourceMapURL string
}

func (s *StyleSheet) String() string {
	var buf bytes.Buffer
	for _, r := range s.Rules {
		buf.WriteString(r.String())
		buf.WriteString("\n")
	}
	return buf.String()
}

// Rules represents a list of rules.
type Rules []Rule

func (a Rules) String() string {
	var buf bytes.Buffer
	for i, r := range a {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(r.String())
	}
	return buf.String()
}

// Rule represents a qualified rule or at-rule.
type Rule interface {
	Node
	rule()
	Position() token.Pos
}

func (_ *AtRule) rule()        {}
func (_ *QualifiedRule) rule() {}

// AtRule represents a rule starting with an "@" symbol.
type AtRule struct {
	Name    string
	Prelude ComponentValues
	Block   *SimpleBlock
	Pos     token.Pos
}

func (r *AtRule) String() string {
	var buf bytes.Buffer
	buf.WriteString("@" + r.Name)
	if prelude := TrimWhitespace(r.Prelude); len(prelude) > 0 {
		buf.WriteString(" " + prelude.String())
	}
	if r.Block != nil {
		buf.WriteString(" " + r.Block.String())
	} else {
		buf.WriteString(";")
	}
	return buf.String()
}

// Position returns the position of the at-keyword.
func (r *AtRule) Position() token.Pos { return r.Pos }

// QualifiedRule represents an unnamed rule that includes a prelude and block.
type QualifiedRule struct {
	Prelude ComponentValues
	Block   *SimpleBlock
	Pos     token.Pos
}

func (r *QualifiedRule) String() string {
	return r.Prelude.String() + r.Block.String()
}

// Position returns the position of the first prelude value.
func (r *QualifiedRule) Position() token.Pos { return r.Pos }

// Declarations represents a list of declarations or at-rules.
type Declarations []Node

func (a Declarations) String() string {
	var buf bytes.Buffer
	for i, n := range a {
		if i > 0 {
			buf.WriteString("; ")
		}
		buf.WriteString(n.String())
	}
	return buf.String()
}

// Declaration represents a name/value pair.
type Declaration struct {
	Name      string
	Values    ComponentValues
	Important bool
	Pos       token.Pos
}

func (d *Declaration) String() string {
	s := d.Name + ": " + d.Values.String()
	if d.Important {
		s += " !important"
	}
	return s
}

// ComponentValues represents a list of component values.
type ComponentValues []ComponentValue

func (a ComponentValues) String() string {
	var buf bytes.Buffer
	for _, v := range a {
		buf.WriteString(v.String())
	}
	return buf.String()
}

// ComponentValue represents a component value.
type ComponentValue interface {
	Node
	componentValue()
	Position() token.Pos
}

func (_ *SimpleBlock) componentValue() {}
func (_ *Function) componentValue()    {}
func (_ *Token) componentValue()       {}

// SimpleBlock represents a {-block, [-block, or (-block.
type SimpleBlock struct {
	Token  token.Token
	Values ComponentValues
}

func (b *SimpleBlock) String() string {
	switch b.Token.(type) {
	case *token.LBrace:
		return "{" + b.Values.String() + "}"
	case *token.LBrack:
		return "[" + b.Values.String() + "]"
	case *token.LParen:
		return "(" + b.Values.String() + ")"
	}
	return "<>"
}

// Position returns the position of the opening token.
func (b *SimpleBlock) Position() token.Pos { return b.Token.Position() }

// Function represents a function call with a list of arguments.
type Function struct {
	Name   string
	Values ComponentValues
	Pos    token.Pos
}

func (f *Function) String() string {
	return fmt.Sprintf("%s(%s)", f.Name, f.Values.String())
}

// Position returns the position of the function name.
func (f *Function) Position() token.Pos { return f.Pos }

// Token represents a single token in the AST.
type Token struct {
	token.Token
}

func (t *Token) String() string {
	return t.Token.String()
}

// IsBlock returns true if v is a simple block opened by the same token type as open.
func IsBlock(v ComponentValue, open token.Token) bool {
	b, ok := v.(*SimpleBlock)
	if !ok {
		return false
	}
	switch open.(type) {
	case *token.LBrace:
		_, ok = b.Token.(*token.LBrace)
	case *token.LBrack:
		_, ok = b.Token.(*token.LBrack)
	case *token.LParen:
		_, ok = b.Token.(*token.LParen)
	default:
		ok = false
	}
	return ok
}

// IsWhitespace returns true if v is a whitespace token.
func IsWhitespace(v ComponentValue) bool {
	if t, ok := v.(*Token); ok {
		_, ok = t.Token.(*token.Whitespace)
		return ok
	}
	return false
}

// TrimWhitespace returns a without leading and trailing whitespace tokens.
func TrimWhitespace(a ComponentValues) ComponentValues {
	for len(a) > 0 && IsWhitespace(a[0]) {
		a = a[1:]
	}
	for len(a) > 0 && IsWhitespace(a[len(a)-1]) {
		a = a[:len(a)-1]
	}
	return a
}
