package ast

import (
	"testing"

	"github.com/stylekit/css/token"
)

// Ensure that all nodes implement the Node interface.
func TestNode(t *testing.T) {
	var a []Node
	a = append(a, &StyleSheet{}, &AtRule{}, &QualifiedRule{}, &Declaration{})
	a = append(a, &SimpleBlock{}, &Function{}, &Token{})
	a = append(a, Rules{}, Declarations{}, ComponentValues{})
	for _, n := range a {
		n.node()
	}
}

// Ensure that all rules implement the Rule interface.
func TestRule(t *testing.T) {
	a := []Rule{&AtRule{}, &QualifiedRule{}}
	for _, r := range a {
		r.rule()
	}
}

// Ensure that all component values implement the ComponentValue interface.
func TestComponentValue(t *testing.T) {
	a := []ComponentValue{&SimpleBlock{}, &Function{}, &Token{}}
	for _, v := range a {
		v.componentValue()
	}
}

func ws() *Token            { return &Token{&token.Whitespace{Value: " "}} }
func ident(s string) *Token { return &Token{&token.Ident{Value: s}} }

// Ensure that nodes print as CSS text.
func TestNode_String(t *testing.T) {
	block := &SimpleBlock{Token: &token.LBrace{}, Values: ComponentValues{ident("x")}}
	var tests = []struct {
		in Node
		s  string
	}{
		{in: &AtRule{Name: "media", Prelude: ComponentValues{ws(), ident("print"), ws()}, Block: block}, s: `@media print {x}`},
		{in: &AtRule{Name: "import", Prelude: ComponentValues{ws(), &Token{&token.String{Value: "a.css"}}}}, s: `@import "a.css";`},
		{in: &QualifiedRule{Prelude: ComponentValues{ident("a"), ws()}, Block: block}, s: `a {x}`},
		{in: &Declaration{Name: "color", Values: ComponentValues{ident("red")}, Important: true}, s: `color: red !important`},
		{in: Declarations{&Declaration{Name: "a", Values: ComponentValues{ident("b")}}, &Declaration{Name: "c", Values: ComponentValues{ident("d")}}}, s: `a: b; c: d`},
		{in: &Function{Name: "calc", Values: ComponentValues{ident("x")}}, s: `calc(x)`},
		{in: &SimpleBlock{Token: &token.LBrack{}, Values: ComponentValues{ident("y")}}, s: `[y]`},
		{in: &SimpleBlock{Token: &token.LParen{}}, s: `()`},
		{in: Rules{&AtRule{Name: "a"}, &AtRule{Name: "b"}}, s: "@a;\n@b;"},
	}

	for i, tt := range tests {
		if s := tt.in.String(); s != tt.s {
			t.Errorf("%d. exp=%q, got=%q", i, tt.s, s)
		}
	}
}

func TestIsBlock(t *testing.T) {
	brace := &SimpleBlock{Token: &token.LBrace{}}
	if !IsBlock(brace, &token.LBrace{}) {
		t.Error("expected a brace block")
	}
	if IsBlock(brace, &token.LParen{}) {
		t.Error("unexpected paren block")
	}
	if IsBlock(ident("a"), &token.LBrace{}) {
		t.Error("unexpected block for a token")
	}
	if IsBlock(brace, &token.Comma{}) {
		t.Error("unexpected block for a non-opening token")
	}
}

func TestTrimWhitespace(t *testing.T) {
	a := TrimWhitespace(ComponentValues{ws(), ws(), ident("a"), ws(), ident("b"), ws()})
	if s := a.String(); s != "a b" {
		t.Errorf("unexpected values: %q", s)
	}
	if a := TrimWhitespace(ComponentValues{ws()}); len(a) != 0 {
		t.Errorf("expected no values, got %d", len(a))
	}
	if IsWhitespace(&Function{}) {
		t.Error("unexpected whitespace")
	}
}
