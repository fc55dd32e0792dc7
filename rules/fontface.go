package rules

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/stylekit/css/ast"
	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/printer"
	"github.com/stylekit/css/properties"
	"github.com/stylekit/css/token"
)

var (
	ErrGenericFontFamily   = errors.New("font family can not be generic")
	ErrInvalidFontWeight   = errors.New("invalid font weight")
	ErrInvalidUnicodeRange = errors.New("invalid unicode range")
	ErrInvalidFeatureTag   = errors.New("invalid OpenType feature tag")
	ErrInvalidLanguageTag  = errors.New("invalid OpenType language tag")
)

// FontFaceRule is an @font-face rule. Unset descriptors are zero.
type FontFaceRule struct {
	Family           *FamilyName
	Sources          []*FontSource
	Style            string
	Weight           FontWeight
	Stretch          string
	Display          string
	UnicodeRange     []UnicodeRange
	FeatureSettings  *FontFeatureSettings
	LanguageOverride *LanguageOverride
	Pos              token.Pos
}

func (r *FontFaceRule) ToCSS(p *printer.Printer) {
	w := descriptorWriter{p: p}
	p.WriteString("@font-face{")
	if r.Family != nil {
		w.descriptor("font-family", r.Family)
	}
	if len(r.Sources) > 0 {
		w.name("src")
		printer.Join(p, r.Sources, ",")
	}
	if r.Style != "" {
		w.keyword("font-style", r.Style)
	}
	if r.Weight != 0 {
		w.descriptor("font-weight", r.Weight)
	}
	if r.Stretch != "" {
		w.keyword("font-stretch", r.Stretch)
	}
	if r.Display != "" {
		w.keyword("font-display", r.Display)
	}
	if len(r.UnicodeRange) > 0 {
		w.name("unicode-range")
		printer.Join(p, r.UnicodeRange, ",")
	}
	if r.FeatureSettings != nil {
		w.descriptor("font-feature-settings", r.FeatureSettings)
	}
	if r.LanguageOverride != nil {
		w.descriptor("font-language-override", r.LanguageOverride)
	}
	p.WriteString("}")
}

// FontFace returns the descriptors with defaults applied to unset ones.
func (r *FontFaceRule) FontFace() FontFace {
	f := FontFace{
		Sources:          r.Sources,
		Style:            "normal",
		Weight:           WeightNormal,
		Stretch:          "normal",
		Display:          "auto",
		UnicodeRange:     []UnicodeRange{{Start: 0, End: 0x10FFFF}},
		FeatureSettings:  FontFeatureSettings{},
		LanguageOverride: LanguageNormal,
	}
	if r.Family != nil {
		f.Family = *r.Family
	}
	if r.Style != "" {
		f.Style = r.Style
	}
	if r.Weight != 0 {
		f.Weight = r.Weight
	}
	if r.Stretch != "" {
		f.Stretch = r.Stretch
	}
	if r.Display != "" {
		f.Display = r.Display
	}
	if len(r.UnicodeRange) > 0 {
		f.UnicodeRange = r.UnicodeRange
	}
	if r.FeatureSettings != nil {
		f.FeatureSettings = *r.FeatureSettings
	}
	if r.LanguageOverride != nil {
		f.LanguageOverride = *r.LanguageOverride
	}
	return f
}

// FontFace is the computed view of an @font-face rule.
type FontFace struct {
	Family           FamilyName
	Sources          []*FontSource
	Style            string
	Weight           FontWeight
	Stretch          string
	Display          string
	UnicodeRange     []UnicodeRange
	FeatureSettings  FontFeatureSettings
	LanguageOverride LanguageOverride
}

func parseFontFaceRule(c *context, n *ast.AtRule, in *parser.Input) (Rule, error) {
	if err := in.ExpectExhausted(); err != nil {
		return nil, err
	}

	r := &FontFaceRule{Pos: n.Pos}
	c.descriptors(n.Block.Values, func(d *ast.Declaration) error {
		if err := forbidImportance(d); err != nil {
			return err
		}
		switch strings.ToLower(d.Name) {
		case "font-family":
			return setDescriptor(&r.Family, d, parseFamilyName)
		case "src":
			return setDescriptor(&r.Sources, d, func(in *parser.Input) ([]*FontSource, error) {
				return parser.ParseCommaSeparated(in, parseFontSource)
			})
		case "font-style":
			return setDescriptor(&r.Style, d, keywordParser("normal", "italic", "oblique"))
		case "font-weight":
			return setDescriptor(&r.Weight, d, parseFontWeight)
		case "font-stretch":
			return setDescriptor(&r.Stretch, d, keywordParser(
				"normal", "ultra-condensed", "extra-condensed", "condensed", "semi-condensed",
				"semi-expanded", "expanded", "extra-expanded", "ultra-expanded"))
		case "font-display":
			return setDescriptor(&r.Display, d, keywordParser("auto", "block", "swap", "fallback", "optional"))
		case "unicode-range":
			return setDescriptor(&r.UnicodeRange, d, func(in *parser.Input) ([]UnicodeRange, error) {
				return parser.ParseCommaSeparated(in, parseUnicodeRange)
			})
		case "font-feature-settings":
			return setDescriptor(&r.FeatureSettings, d, parseFontFeatureSettings)
		case "font-language-override":
			return setDescriptor(&r.LanguageOverride, d, parseLanguageOverride)
		}
		return unsupportedDescriptor(d, "font-face")
	})
	return r, nil
}

// descriptorWriter writes "name:value" pairs separated by ";".
type descriptorWriter struct {
	p     *printer.Printer
	count int
}

func (w *descriptorWriter) name(name string) {
	if w.count > 0 {
		w.p.WriteString(";")
	}
	w.count++
	w.p.WriteString(name)
	w.p.WriteString(":")
}

func (w *descriptorWriter) descriptor(name string, v printer.CSSer) {
	w.name(name)
	w.p.Print(v)
}

func (w *descriptorWriter) keyword(name, v string) {
	w.name(name)
	w.p.Ident(v)
}

// keywordParser returns a parser for one of the keywords.
func keywordParser(keywords ...string) func(in *parser.Input) (string, error) {
	return func(in *parser.Input) (string, error) { return expectKeyword(in, keywords...) }
}

// FamilyName is a font family name written as a string or as a sequence
// of identifiers.
type FamilyName struct {
	Name   string
	Quoted bool
}

func (f *FamilyName) ToCSS(p *printer.Printer) {
	if f.Quoted {
		p.Quoted(f.Name)
		return
	}
	for i, s := range strings.Split(f.Name, " ") {
		if i > 0 {
			p.WriteString(" ")
		}
		p.Ident(s)
	}
}

func parseFamilyName(in *parser.Input) (*FamilyName, error) {
	if s, err := parser.Try(in, (*parser.Input).ExpectString); err == nil {
		return &FamilyName{Name: s, Quoted: true}, nil
	}

	pos := in.Pos()
	first, err := in.ExpectIdent()
	if err != nil {
		return nil, err
	}
	if parser.EqualFold(first, "serif", "sans-serif", "cursive", "fantasy", "monospace") {
		return nil, parser.Errorf(pos, ErrGenericFontFamily, "font family %q is generic", first)
	}
	names := []string{first}

	// A CSS-wide keyword is only a family name when more identifiers follow.
	if parser.EqualFold(first, "inherit", "initial", "unset", "default") {
		s, err := in.ExpectIdent()
		if err != nil {
			return nil, err
		}
		names = append(names, s)
	}
	for {
		s, err := parser.Try(in, (*parser.Input).ExpectIdent)
		if err != nil {
			break
		}
		names = append(names, s)
	}
	return &FamilyName{Name: strings.Join(names, " ")}, nil
}

// FontSource is an entry of the src descriptor: a local() font or a URL
// with optional format hints.
type FontSource struct {
	Local   *FamilyName
	URL     properties.SpecifiedURL
	Formats []string
}

func (s *FontSource) ToCSS(p *printer.Printer) {
	if s.Local != nil {
		p.WriteString("local(")
		p.Print(s.Local)
		p.WriteString(")")
		return
	}
	p.Print(s.URL)
	if len(s.Formats) > 0 {
		p.WriteString(" format(")
		for i, f := range s.Formats {
			if i > 0 {
				p.WriteString(",")
			}
			p.Quoted(f)
		}
		p.WriteString(")")
	}
}

func parseFontSource(in *parser.Input) (*FontSource, error) {
	if args, err := parser.Try(in, func(in *parser.Input) (*parser.Input, error) {
		return in.ExpectFunctionMatching("local")
	}); err == nil {
		name, err := parseFamilyName(args)
		if err != nil {
			return nil, err
		}
		return &FontSource{Local: name}, args.ExpectExhausted()
	}

	u, err := in.ExpectURL()
	if err != nil {
		return nil, err
	}
	s := &FontSource{URL: properties.SpecifiedURL(u)}
	if args, err := parser.Try(in, func(in *parser.Input) (*parser.Input, error) {
		return in.ExpectFunctionMatching("format")
	}); err == nil {
		if s.Formats, err = parser.ParseCommaSeparated(args, (*parser.Input).ExpectString); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// FontWeight is a numeric font weight. Zero means unset.
type FontWeight uint16

const (
	WeightNormal FontWeight = 400
	WeightBold   FontWeight = 700
)

func (w FontWeight) ToCSS(p *printer.Printer) { p.Int(int64(w)) }

func parseFontWeight(in *parser.Input) (FontWeight, error) {
	if kw, err := parser.Try(in, keywordParser("normal", "bold")); err == nil {
		if kw == "bold" {
			return WeightBold, nil
		}
		return WeightNormal, nil
	}
	pos := in.Pos()
	n, err := in.ExpectInteger()
	if err != nil {
		return 0, err
	}
	if n < 100 || n > 900 || n%100 != 0 {
		return 0, parser.Errorf(pos, ErrInvalidFontWeight, "invalid font weight %d", n)
	}
	return FontWeight(n), nil
}

// UnicodeRange is an inclusive range of code points.
type UnicodeRange struct {
	Start rune
	End   rune
}

func (r UnicodeRange) ToCSS(p *printer.Printer) {
	if r.Start == r.End {
		p.WriteString(fmt.Sprintf("U+%X", r.Start))
		return
	}
	p.WriteString(fmt.Sprintf("U+%X-%X", r.Start, r.End))
}

func parseUnicodeRange(in *parser.Input) (UnicodeRange, error) {
	v, err := in.Next()
	if err != nil {
		return UnicodeRange{}, err
	}
	if t, ok := v.(*ast.Token); ok {
		if tok, ok := t.Token.(*token.UnicodeRange); ok {
			if tok.Start > tok.End || tok.End > 0x10FFFF {
				return UnicodeRange{}, parser.Errorf(tok.Pos, ErrInvalidUnicodeRange, "invalid unicode range %s", tok)
			}
			return UnicodeRange{Start: rune(tok.Start), End: rune(tok.End)}, nil
		}
	}
	return UnicodeRange{}, parser.Unexpected(v)
}

// FontFeatureSetting is an OpenType feature tag and its value.
type FontFeatureSetting struct {
	Tag   string
	Value uint32
}

// FontFeatureSettings is sorted by tag with one entry per tag. An empty
// list is "normal".
type FontFeatureSettings []FontFeatureSetting

func (a FontFeatureSettings) ToCSS(p *printer.Printer) {
	if len(a) == 0 {
		p.WriteString("normal")
		return
	}
	for i, s := range a {
		if i > 0 {
			p.WriteString(",")
		}
		p.Quoted(s.Tag)
		if s.Value != 1 {
			p.WriteString(" ")
			p.Int(int64(s.Value))
		}
	}
}

// Setting returns the value of a feature tag.
func (a FontFeatureSettings) Setting(tag string) (uint32, bool) {
	i := sort.Search(len(a), func(i int) bool { return a[i].Tag >= tag })
	if i < len(a) && a[i].Tag == tag {
		return a[i].Value, true
	}
	return 0, false
}

func parseFontFeatureSettings(in *parser.Input) (*FontFeatureSettings, error) {
	a := FontFeatureSettings{}
	if in.Try(func(in *parser.Input) error { return in.ExpectIdentMatching("normal") }) == nil {
		return &a, nil
	}
	settings, err := parser.ParseCommaSeparated(in, parseFontFeatureSetting)
	if err != nil {
		return nil, err
	}
	m := make(map[string]uint32, len(settings))
	for _, s := range settings {
		m[s.Tag] = s.Value
	}
	for tag, v := range m {
		a = append(a, FontFeatureSetting{Tag: tag, Value: v})
	}
	sort.Slice(a, func(i, j int) bool { return a[i].Tag < a[j].Tag })
	return &a, nil
}

func parseFontFeatureSetting(in *parser.Input) (FontFeatureSetting, error) {
	pos := in.Pos()
	tag, err := in.ExpectString()
	if err != nil {
		return FontFeatureSetting{}, err
	}
	if len(tag) != 4 {
		return FontFeatureSetting{}, parser.Errorf(pos, ErrInvalidFeatureTag, "feature tag %q must be four characters", tag)
	}
	for i := 0; i < len(tag); i++ {
		if tag[i] <= 0x20 || tag[i] > 0x7E {
			return FontFeatureSetting{}, parser.Errorf(pos, ErrInvalidFeatureTag, "feature tag %q must be printable ASCII", tag)
		}
	}

	if in.IsExhausted() {
		return FontFeatureSetting{Tag: tag, Value: 1}, nil
	}
	pos = in.Pos()
	if n, err := parser.Try(in, (*parser.Input).ExpectInteger); err == nil {
		if n < 0 {
			return FontFeatureSetting{}, parser.Errorf(pos, ErrInvalidFeatureTag, "feature value %d must not be negative", n)
		}
		return FontFeatureSetting{Tag: tag, Value: uint32(n)}, nil
	}
	kw, err := expectKeyword(in, "on", "off")
	if err != nil {
		return FontFeatureSetting{}, err
	}
	if kw == "off" {
		return FontFeatureSetting{Tag: tag, Value: 0}, nil
	}
	return FontFeatureSetting{Tag: tag, Value: 1}, nil
}

// LanguageOverride is an OpenType language system tag. The empty tag is
// "normal".
type LanguageOverride string

const LanguageNormal LanguageOverride = ""

func (l *LanguageOverride) ToCSS(p *printer.Printer) {
	if *l == LanguageNormal {
		p.WriteString("normal")
		return
	}
	p.Quoted(string(*l))
}

func parseLanguageOverride(in *parser.Input) (*LanguageOverride, error) {
	pos := in.Pos()
	if s, err := parser.Try(in, (*parser.Input).ExpectString); err == nil {
		if len(s) == 0 || len(s) > 4 {
			return nil, parser.Errorf(pos, ErrInvalidLanguageTag, "language tag %q must be one to four characters", s)
		}
		for i := 0; i < len(s); i++ {
			if s[i] < 0x20 || s[i] > 0x7E {
				return nil, parser.Errorf(pos, ErrInvalidLanguageTag, "language tag %q must be printable ASCII", s)
			}
		}
		l := LanguageOverride(s)
		return &l, nil
	}
	if err := in.ExpectIdentMatching("normal"); err != nil {
		return nil, err
	}
	l := LanguageNormal
	return &l, nil
}
