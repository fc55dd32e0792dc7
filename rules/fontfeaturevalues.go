package rules

import (
	"errors"
	"strings"

	"github.com/stylekit/css/ast"
	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/printer"
	"github.com/stylekit/css/token"
)

var (
	// ErrUnknownFeatureValueBlock is returned for a nested at-rule other
	// than the six feature value blocks.
	ErrUnknownFeatureValueBlock = errors.New("unknown feature value block")

	// ErrFeatureValueCount is returned for a feature value with the wrong
	// number of integers for its block.
	ErrFeatureValueCount = errors.New("wrong number of feature values")
)

// FontFeatureValuesRule is an @font-feature-values rule.
type FontFeatureValuesRule struct {
	Families []*FamilyName

	Swash            []*FeatureValue
	Stylistic        []*FeatureValue
	Ornaments        []*FeatureValue
	Annotation       []*FeatureValue
	CharacterVariant []*FeatureValue
	Styleset         []*FeatureValue

	Pos token.Pos
}

func (r *FontFeatureValuesRule) ToCSS(p *printer.Printer) {
	p.WriteString("@font-feature-values ")
	printer.Join(p, r.Families, ",")
	p.WriteString("{")
	for _, b := range r.blocks() {
		if len(*b.values) == 0 {
			continue
		}
		p.WriteString("@" + b.name + "{")
		printer.Join(p, *b.values, ";")
		p.WriteString("}")
	}
	p.WriteString("}")
}

// Len returns the number of feature values in all blocks.
func (r *FontFeatureValuesRule) Len() int {
	var n int
	for _, b := range r.blocks() {
		n += len(*b.values)
	}
	return n
}

type featureValueBlock struct {
	name     string
	min, max int // max of zero is unbounded
	values   *[]*FeatureValue
}

func (r *FontFeatureValuesRule) blocks() []featureValueBlock {
	return []featureValueBlock{
		{name: "swash", min: 1, max: 1, values: &r.Swash},
		{name: "stylistic", min: 1, max: 1, values: &r.Stylistic},
		{name: "ornaments", min: 1, max: 1, values: &r.Ornaments},
		{name: "annotation", min: 1, max: 1, values: &r.Annotation},
		{name: "character-variant", min: 1, max: 2, values: &r.CharacterVariant},
		{name: "styleset", min: 1, values: &r.Styleset},
	}
}

func parseFontFeatureValuesRule(c *context, n *ast.AtRule, in *parser.Input) (Rule, error) {
	families, err := parser.ParseCommaSeparated(in, parseFamilyName)
	if err != nil {
		return nil, err
	}
	r := &FontFeatureValuesRule{Families: families, Pos: n.Pos}

	nested, err := parser.ParseRuleList(n.Block.Values)
	if err != nil {
		return nil, err
	}
	for _, node := range nested {
		at, ok := node.(*ast.AtRule)
		if !ok || at.Block == nil {
			return nil, parser.Errorf(node.Position(), ErrUnknownFeatureValueBlock, "expected a feature value block")
		}
		block, ok := r.block(at.Name)
		if !ok {
			return nil, parser.Errorf(at.Pos, ErrUnknownFeatureValueBlock, "unknown feature value block @%s", at.Name)
		}
		if err := parser.NewInput(at.Prelude, at.Block.Position()).ExpectExhausted(); err != nil {
			return nil, err
		}
		c.descriptors(at.Block.Values, func(d *ast.Declaration) error {
			if err := forbidImportance(d); err != nil {
				return err
			}
			v, err := parseDescriptor(d, func(in *parser.Input) ([]uint32, error) {
				return parseFeatureValues(in, block.min, block.max)
			})
			if err != nil {
				return err
			}
			block.set(&FeatureValue{Name: d.Name, Values: v})
			return nil
		})
	}
	return r, nil
}

func (r *FontFeatureValuesRule) block(name string) (featureValueBlock, bool) {
	name = strings.ToLower(name)
	for _, b := range r.blocks() {
		if b.name == name {
			return b, true
		}
	}
	return featureValueBlock{}, false
}

// set adds v, replacing a value of the same name.
func (b featureValueBlock) set(v *FeatureValue) {
	for i, other := range *b.values {
		if other.Name == v.Name {
			(*b.values)[i] = v
			return
		}
	}
	*b.values = append(*b.values, v)
}

func parseFeatureValues(in *parser.Input, min, max int) ([]uint32, error) {
	pos := in.Pos()
	var a []uint32
	for !in.IsExhausted() {
		n, err := in.ExpectInteger()
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, in.Errorf(parser.ErrUnexpectedToken, "feature value %d must not be negative", n)
		}
		a = append(a, uint32(n))
	}
	if len(a) < min {
		return nil, parser.Errorf(pos, ErrFeatureValueCount, "expected at least %d values, got %d", min, len(a))
	}
	if max > 0 && len(a) > max {
		return nil, parser.Errorf(pos, ErrFeatureValueCount, "expected at most %d values, got %d", max, len(a))
	}
	return a, nil
}

// FeatureValue names the feature indexes of a feature value block.
type FeatureValue struct {
	Name   string
	Values []uint32
}

func (v *FeatureValue) ToCSS(p *printer.Printer) {
	p.Ident(v.Name)
	p.WriteString(":")
	for i, n := range v.Values {
		if i > 0 {
			p.WriteString(" ")
		}
		p.Int(int64(n))
	}
}
