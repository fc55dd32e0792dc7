/*
Package css parses CSS stylesheets into a typed rule tree and writes them
back as minimal canonical CSS. It can be used for building tools that
validate, minify and inspect CSS text.


Basics

Parsing occurs in three steps. First the scanner breaks up a stream of code
points into tokens. The parser then builds the generic syntax tree of rules,
declarations and component values. Finally the rules package converts every
rule into its typed form: style rules with their selectors and property
declarations, and the @counter-style, @document, @font-face,
@font-feature-values, @import, @keyframes, @media, @namespace, @page,
@supports and @viewport at-rules with their own grammars.

	ss, err := css.Parse(`.hidden   #something { display : flex; }`)
	if err != nil {
		return err
	}
	fmt.Println(ss) // .hidden #something{display: flex}


Errors

Within a declaration block an invalid declaration is dropped and parsing
continues with the next one. ParseOptions.OnDroppedDeclaration receives the
dropped declarations. Any other error, such as an unknown at-rule, an
invalid at-rule prelude or an @import after a style rule, aborts the parse
and is returned as a *StylesheetError carrying the path, the position and
the reason.


Output

Stylesheet.ToCSS writes the canonical form: no comments, no optional
whitespace, no trailing semicolons and lowercased keywords. The sourceURL
and sourceMappingURL comments of the input are kept when requested.
Parsing the output again yields an equal tree.
*/
package css
