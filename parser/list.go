package parser

import (
	"fmt"

	"github.com/stylekit/css/ast"
	"github.com/stylekit/css/token"
)

// ParseRuleList parses the contents of a {}-block as a list of rules.
// Nested rule lists have no error recovery so the first error is returned.
func ParseRuleList(values ast.ComponentValues) (ast.Rules, error) {
	var a ast.Rules
	for i := 0; i < len(values); {
		v := values[i]
		if ast.IsWhitespace(v) {
			i++
			continue
		}

		if kw, ok := tokenOf(values, i).(*token.AtKeyword); ok {
			r, n := consumeAtRuleValues(kw, values[i+1:])
			a = append(a, r)
			i += n + 1
			continue
		}

		// Anything else starts a qualified rule which runs up to a {}-block.
		r := &ast.QualifiedRule{Pos: v.Position()}
		for ; i < len(values); i++ {
			if ast.IsBlock(values[i], &token.LBrace{}) {
				r.Block = values[i].(*ast.SimpleBlock)
				i++
				break
			}
			r.Prelude = append(r.Prelude, values[i])
		}
		if r.Block == nil {
			return a, &Error{Message: "unexpected EOF in rule prelude", Pos: r.Pos, Err: ErrUnexpectedEOF}
		}
		a = append(a, r)
	}
	return a, nil
}

// ParseDeclarationList parses the contents of a {}-block as a list of
// declarations and at-rules. (§5.4.4)
//
// A malformed declaration is skipped up to the next semicolon and its error
// is appended to the returned list; parsing continues with the next one.
func ParseDeclarationList(values ast.ComponentValues) (ast.Declarations, ErrorList) {
	var a ast.Declarations
	var errs ErrorList
	for i := 0; i < len(values); {
		switch tok := tokenOf(values, i).(type) {
		case *token.Whitespace, *token.Semicolon:
			i++

		case *token.AtKeyword:
			r, n := consumeAtRuleValues(tok, values[i+1:])
			a = append(a, r)
			i += n + 1

		case *token.Ident:
			// Collect values up to the next semicolon.
			j := i
			for j < len(values) {
				if _, ok := tokenOf(values, j).(*token.Semicolon); ok {
					break
				}
				j++
			}
			if d, err := consumeDeclaration(values[i:j]); err != nil {
				errs = append(errs, err)
			} else {
				a = append(a, d)
			}
			i = j

		default:
			// Any other value is a syntax error.
			errs = append(errs, &Error{Message: fmt.Sprintf("unexpected %q", values[i].String()), Pos: values[i].Position(), Err: ErrUnexpectedToken})

			// Skip values up to the next semicolon.
			for i < len(values) {
				if _, ok := tokenOf(values, i).(*token.Semicolon); ok {
					break
				}
				i++
			}
		}
	}
	return a, errs
}

// ParseDeclarationValues parses values as a single declaration, such as the
// contents of a parenthesised @supports condition.
func ParseDeclarationValues(values ast.ComponentValues) (*ast.Declaration, error) {
	return consumeDeclaration(ast.TrimWhitespace(values))
}

// consumeAtRuleValues consumes an at-rule from the values following its
// at-keyword. It returns the rule and the number of values consumed.
func consumeAtRuleValues(kw *token.AtKeyword, values ast.ComponentValues) (*ast.AtRule, int) {
	r := &ast.AtRule{Name: kw.Value, Pos: kw.Pos}
	for i, v := range values {
		if _, ok := tokenOf(values, i).(*token.Semicolon); ok {
			return r, i + 1
		}
		if ast.IsBlock(v, &token.LBrace{}) {
			r.Block = v.(*ast.SimpleBlock)
			return r, i + 1
		}
		r.Prelude = append(r.Prelude, v)
	}
	return r, len(values)
}
