package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stylekit/css/ast"
	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/printer"
	"github.com/stylekit/css/token"
)

var (
	// ErrCounterStyleName is returned for "none", or for "decimal" and
	// "disc" as the name of an @counter-style rule.
	ErrCounterStyleName = errors.New("invalid counter style name")

	ErrUnknownCounterSystem = errors.New("unknown counter system")
	ErrNegativeCounterValue = errors.New("value can not be negative")
	ErrCounterRange         = errors.New("range start is greater than its end")
	ErrEmptySymbols         = errors.New("symbols can not be empty")

	// ErrAdditiveSymbolsOrder is returned when the weights of
	// additive-symbols are not strictly decreasing.
	ErrAdditiveSymbolsOrder = errors.New("additive symbol weights must be strictly decreasing")

	// ErrCounterStyleSystem is returned when the symbols of a rule do not
	// suit its system.
	ErrCounterStyleSystem = errors.New("symbols do not match the counter system")
)

// predefinedCounterStyles are the counter styles every user agent defines.
var predefinedCounterStyles = map[string]struct{}{
	"decimal": {}, "decimal-leading-zero": {}, "arabic-indic": {}, "armenian": {},
	"upper-armenian": {}, "lower-armenian": {}, "bengali": {}, "cambodian": {},
	"khmer": {}, "cjk-decimal": {}, "devanagari": {}, "georgian": {},
	"gujarati": {}, "gurmukhi": {}, "hebrew": {}, "kannada": {},
	"lao": {}, "malayalam": {}, "mongolian": {}, "myanmar": {},
	"oriya": {}, "persian": {}, "lower-roman": {}, "upper-roman": {},
	"tamil": {}, "telugu": {}, "thai": {}, "tibetan": {},
	"lower-alpha": {}, "lower-latin": {}, "upper-alpha": {}, "upper-latin": {},
	"cjk-earthly-branch": {}, "cjk-heavenly-stem": {}, "lower-greek": {}, "hiragana": {},
	"hiragana-iroha": {}, "katakana": {}, "katakana-iroha": {}, "disc": {},
	"circle": {}, "square": {}, "disclosure-open": {}, "disclosure-closed": {},
	"japanese-informal": {}, "japanese-formal": {}, "korean-hangul-formal": {}, "korean-hanja-informal": {},
	"korean-hanja-formal": {}, "simp-chinese-informal": {}, "simp-chinese-formal": {}, "trad-chinese-informal": {},
	"trad-chinese-formal": {}, "cjk-ideographic": {}, "ethiopic-numeric": {},
}

// CounterStyleName is a lowercased counter style name.
type CounterStyleName string

// IsPredefined returns true for the counter styles defined by CSS.
func (n CounterStyleName) IsPredefined() bool {
	_, ok := predefinedCounterStyles[string(n)]
	return ok
}

func (n CounterStyleName) ToCSS(p *printer.Printer) { p.Ident(string(n)) }

// ParseCounterStyleName parses any counter style name except "none".
func ParseCounterStyleName(in *parser.Input) (CounterStyleName, error) {
	pos := in.Pos()
	s, err := in.ExpectIdent()
	if err != nil {
		return "", err
	}
	s = strings.ToLower(s)
	if s == "none" {
		return "", parser.Errorf(pos, ErrCounterStyleName, "none is not a counter style name")
	}
	return CounterStyleName(s), nil
}

// CounterStyleRule is an @counter-style rule. Unset descriptors are nil.
type CounterStyleRule struct {
	Name            CounterStyleName
	System          *CounterSystem
	Negative        *Negative
	Prefix          *Symbol
	Suffix          *Symbol
	Range           CounterRanges
	Pad             *Pad
	Fallback        *CounterStyleName
	Symbols         Symbols
	AdditiveSymbols AdditiveSymbols
	SpeakAs         *SpeakAs
	Pos             token.Pos
}

func (r *CounterStyleRule) ToCSS(p *printer.Printer) {
	w := descriptorWriter{p: p}
	p.WriteString("@counter-style ")
	p.Print(r.Name)
	p.WriteString("{")
	if r.System != nil {
		w.descriptor("system", r.System)
	}
	if r.Negative != nil {
		w.descriptor("negative", r.Negative)
	}
	if r.Prefix != nil {
		w.descriptor("prefix", r.Prefix)
	}
	if r.Suffix != nil {
		w.descriptor("suffix", r.Suffix)
	}
	if r.Range != nil {
		w.descriptor("range", r.Range)
	}
	if r.Pad != nil {
		w.descriptor("pad", r.Pad)
	}
	if r.Fallback != nil {
		w.descriptor("fallback", r.Fallback)
	}
	if r.Symbols != nil {
		w.descriptor("symbols", r.Symbols)
	}
	if r.AdditiveSymbols != nil {
		w.descriptor("additive-symbols", r.AdditiveSymbols)
	}
	if r.SpeakAs != nil {
		w.descriptor("speak-as", r.SpeakAs)
	}
	p.WriteString("}")
}

// CounterStyle returns the descriptors with defaults applied to unset ones.
// Symbols and AdditiveSymbols have no default.
func (r *CounterStyleRule) CounterStyle() CounterStyle {
	s := CounterStyle{
		Name:            r.Name,
		System:          CounterSystem{Kind: SystemSymbolic},
		Negative:        Negative{Before: Symbol{Value: "-"}},
		Prefix:          Symbol{},
		Suffix:          Symbol{Value: ". "},
		Range:           CounterRanges{},
		Pad:             Pad{},
		Fallback:        "decimal",
		Symbols:         r.Symbols,
		AdditiveSymbols: r.AdditiveSymbols,
		SpeakAs:         SpeakAs{Keyword: "auto"},
	}
	if r.System != nil {
		s.System = *r.System
	}
	if r.Negative != nil {
		s.Negative = *r.Negative
	}
	if r.Prefix != nil {
		s.Prefix = *r.Prefix
	}
	if r.Suffix != nil {
		s.Suffix = *r.Suffix
	}
	if r.Range != nil {
		s.Range = r.Range
	}
	if r.Pad != nil {
		s.Pad = *r.Pad
	}
	if r.Fallback != nil {
		s.Fallback = *r.Fallback
	}
	if r.SpeakAs != nil {
		s.SpeakAs = *r.SpeakAs
	}
	return s
}

// CounterStyle is the computed view of an @counter-style rule.
type CounterStyle struct {
	Name            CounterStyleName
	System          CounterSystem
	Negative        Negative
	Prefix          Symbol
	Suffix          Symbol
	Range           CounterRanges
	Pad             Pad
	Fallback        CounterStyleName
	Symbols         Symbols
	AdditiveSymbols AdditiveSymbols
	SpeakAs         SpeakAs
}

func parseCounterStyleRule(c *context, n *ast.AtRule, in *parser.Input) (Rule, error) {
	pos := in.Pos()
	name, err := ParseCounterStyleName(in)
	if err != nil {
		return nil, err
	}
	if name == "decimal" || name == "disc" {
		return nil, parser.Errorf(pos, ErrCounterStyleName, "%s can not be redefined", name)
	}
	if err := in.ExpectExhausted(); err != nil {
		return nil, err
	}

	r := &CounterStyleRule{Name: name, Pos: n.Pos}
	dropped := make(map[string]error)
	c.descriptors(n.Block.Values, func(d *ast.Declaration) error {
		err := r.descriptor(d)
		if err != nil {
			dropped[strings.ToLower(d.Name)] = err
		}
		return err
	})

	if err := r.check(dropped); err != nil {
		return nil, parser.Errorf(n.Pos, err, "@counter-style %s: %s", name, err)
	}
	return r, nil
}

func (r *CounterStyleRule) descriptor(d *ast.Declaration) error {
	if err := forbidImportance(d); err != nil {
		return err
	}
	switch strings.ToLower(d.Name) {
	case "system":
		return setDescriptor(&r.System, d, parseCounterSystem)
	case "negative":
		return setDescriptor(&r.Negative, d, parseNegative)
	case "prefix":
		return setDescriptor(&r.Prefix, d, parseSymbolPtr)
	case "suffix":
		return setDescriptor(&r.Suffix, d, parseSymbolPtr)
	case "range":
		return setDescriptor(&r.Range, d, parseCounterRanges)
	case "pad":
		return setDescriptor(&r.Pad, d, parsePad)
	case "fallback":
		return setDescriptor(&r.Fallback, d, func(in *parser.Input) (*CounterStyleName, error) {
			name, err := ParseCounterStyleName(in)
			return &name, err
		})
	case "symbols":
		return setDescriptor(&r.Symbols, d, parseSymbols)
	case "additive-symbols":
		return setDescriptor(&r.AdditiveSymbols, d, parseAdditiveSymbols)
	case "speak-as":
		return setDescriptor(&r.SpeakAs, d, parseSpeakAs)
	}
	return unsupportedDescriptor(d, "counter-style")
}

// check verifies that the symbols suit the system. A missing descriptor
// that was dropped as invalid is reported with the reason it was dropped.
func (r *CounterStyleRule) check(dropped map[string]error) error {
	missing := func(name, format string, args ...interface{}) error {
		msg := fmt.Sprintf(format, args...)
		if cause := dropped[name]; cause != nil {
			return fmt.Errorf("%w: %s, invalid %s dropped: %w", ErrCounterStyleSystem, msg, name, cause)
		}
		return fmt.Errorf("%w: %s", ErrCounterStyleSystem, msg)
	}

	system := SystemSymbolic
	if r.System != nil {
		system = r.System.Kind
	}
	switch system {
	case SystemCyclic, SystemFixed, SystemSymbolic, SystemAlphabetic, SystemNumeric:
		if r.Symbols == nil {
			return missing("symbols", "%s requires symbols", system)
		}
		if (system == SystemAlphabetic || system == SystemNumeric) && len(r.Symbols) < 2 {
			return fmt.Errorf("%w: %s requires at least two symbols", ErrCounterStyleSystem, system)
		}
	case SystemAdditive:
		if r.AdditiveSymbols == nil {
			return missing("additive-symbols", "additive requires additive-symbols")
		}
	case SystemExtends:
		if r.Symbols != nil || r.AdditiveSymbols != nil {
			return fmt.Errorf("%w: extends can not have symbols", ErrCounterStyleSystem)
		}
	}
	return nil
}

// SystemKind is the algorithm of a counter style.
type SystemKind uint8

const (
	SystemCyclic SystemKind = iota
	SystemNumeric
	SystemAlphabetic
	SystemSymbolic
	SystemAdditive
	SystemFixed
	SystemExtends
)

var systemNames = [...]string{
	SystemCyclic:     "cyclic",
	SystemNumeric:    "numeric",
	SystemAlphabetic: "alphabetic",
	SystemSymbolic:   "symbolic",
	SystemAdditive:   "additive",
	SystemFixed:      "fixed",
	SystemExtends:    "extends",
}

func (k SystemKind) String() string { return systemNames[k] }

// CounterSystem is the value of the system descriptor.
type CounterSystem struct {
	Kind SystemKind

	// First symbol value of a fixed system. Nil when omitted.
	First *int32

	// Counter style extended by an extends system.
	Extends CounterStyleName
}

func (s *CounterSystem) ToCSS(p *printer.Printer) {
	p.WriteString(s.Kind.String())
	switch {
	case s.Kind == SystemFixed && s.First != nil:
		p.WriteString(" ")
		p.Int(int64(*s.First))
	case s.Kind == SystemExtends:
		p.WriteString(" ")
		p.Print(s.Extends)
	}
}

func parseCounterSystem(in *parser.Input) (*CounterSystem, error) {
	pos := in.Pos()
	s, err := in.ExpectIdent()
	if err != nil {
		return nil, err
	}
	for k, name := range systemNames {
		if !strings.EqualFold(s, name) {
			continue
		}
		sys := &CounterSystem{Kind: SystemKind(k)}
		switch sys.Kind {
		case SystemFixed:
			if n, err := parser.Try(in, (*parser.Input).ExpectInteger); err == nil {
				sys.First = &n
			}
		case SystemExtends:
			if sys.Extends, err = ParseCounterStyleName(in); err != nil {
				return nil, err
			}
		}
		return sys, nil
	}
	return nil, parser.Errorf(pos, ErrUnknownCounterSystem, "unknown counter system %q", s)
}

// Symbol is a counter symbol written as a string or an identifier.
type Symbol struct {
	Value string
	Ident bool
}

func (s *Symbol) ToCSS(p *printer.Printer) {
	if s.Ident {
		p.Ident(s.Value)
		return
	}
	p.Quoted(s.Value)
}

func parseSymbol(in *parser.Input) (Symbol, error) {
	v, err := in.Next()
	if err != nil {
		return Symbol{}, err
	}
	if t, ok := v.(*ast.Token); ok {
		switch tok := t.Token.(type) {
		case *token.String:
			return Symbol{Value: tok.Value}, nil
		case *token.Ident:
			return Symbol{Value: tok.Value, Ident: true}, nil
		}
	}
	return Symbol{}, parser.Unexpected(v)
}

func parseSymbolPtr(in *parser.Input) (*Symbol, error) {
	s, err := parseSymbol(in)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Negative holds the symbols written around a negative counter value.
type Negative struct {
	Before Symbol
	After  *Symbol
}

func (n *Negative) ToCSS(p *printer.Printer) {
	p.Print(&n.Before)
	if n.After != nil {
		p.WriteString(" ")
		p.Print(n.After)
	}
}

func parseNegative(in *parser.Input) (*Negative, error) {
	before, err := parseSymbol(in)
	if err != nil {
		return nil, err
	}
	n := &Negative{Before: before}
	if after, err := parser.Try(in, parseSymbol); err == nil {
		n.After = &after
	}
	return n, nil
}

// CounterRange is an inclusive range of counter values. A nil bound is
// infinite.
type CounterRange struct {
	Start *int32
	End   *int32
}

func (r CounterRange) ToCSS(p *printer.Printer) {
	writeBound(p, r.Start)
	p.WriteString(" ")
	writeBound(p, r.End)
}

func writeBound(p *printer.Printer, n *int32) {
	if n == nil {
		p.WriteString("infinite")
		return
	}
	p.Int(int64(*n))
}

// CounterRanges is the value of the range descriptor. An empty list is
// "auto".
type CounterRanges []CounterRange

func (a CounterRanges) ToCSS(p *printer.Printer) {
	if len(a) == 0 {
		p.WriteString("auto")
		return
	}
	printer.Join(p, a, ",")
}

func parseCounterRanges(in *parser.Input) (CounterRanges, error) {
	if in.Try(func(in *parser.Input) error { return in.ExpectIdentMatching("auto") }) == nil {
		return CounterRanges{}, nil
	}
	return parser.ParseCommaSeparated(in, func(in *parser.Input) (CounterRange, error) {
		pos := in.Pos()
		start, err := parseBound(in)
		if err != nil {
			return CounterRange{}, err
		}
		end, err := parseBound(in)
		if err != nil {
			return CounterRange{}, err
		}
		if start != nil && end != nil && *start > *end {
			return CounterRange{}, parser.Errorf(pos, ErrCounterRange, "range %d %d is empty", *start, *end)
		}
		return CounterRange{Start: start, End: end}, nil
	})
}

func parseBound(in *parser.Input) (*int32, error) {
	if in.Try(func(in *parser.Input) error { return in.ExpectIdentMatching("infinite") }) == nil {
		return nil, nil
	}
	n, err := in.ExpectInteger()
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Pad is the minimum length of a representation and the symbol it is
// padded with.
type Pad struct {
	MinLength uint32
	Symbol    Symbol
}

func (pad *Pad) ToCSS(p *printer.Printer) {
	p.Int(int64(pad.MinLength))
	p.WriteString(" ")
	p.Print(&pad.Symbol)
}

func parsePad(in *parser.Input) (*Pad, error) {
	sym, symErr := parser.Try(in, parseSymbol)
	pos := in.Pos()
	n, err := in.ExpectInteger()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, parser.Errorf(pos, ErrNegativeCounterValue, "pad length %d is negative", n)
	}
	if symErr != nil {
		if sym, err = parseSymbol(in); err != nil {
			return nil, err
		}
	}
	return &Pad{MinLength: uint32(n), Symbol: sym}, nil
}

// Symbols is the value of the symbols descriptor.
type Symbols []Symbol

func (a Symbols) ToCSS(p *printer.Printer) {
	for i := range a {
		if i > 0 {
			p.WriteString(" ")
		}
		p.Print(&a[i])
	}
}

func parseSymbols(in *parser.Input) (Symbols, error) {
	var a Symbols
	for {
		s, err := parser.Try(in, parseSymbol)
		if err != nil {
			break
		}
		a = append(a, s)
	}
	if len(a) == 0 {
		return nil, in.Errorf(ErrEmptySymbols, "expected at least one symbol")
	}
	return a, nil
}

// AdditiveSymbol is a weight and the symbol representing it.
type AdditiveSymbol struct {
	Weight uint32
	Symbol Symbol
}

func (s AdditiveSymbol) ToCSS(p *printer.Printer) {
	p.Int(int64(s.Weight))
	p.WriteString(" ")
	p.Print(&s.Symbol)
}

// AdditiveSymbols is the value of the additive-symbols descriptor, in
// strictly decreasing weight order.
type AdditiveSymbols []AdditiveSymbol

func (a AdditiveSymbols) ToCSS(p *printer.Printer) { printer.Join(p, a, ",") }

func parseAdditiveSymbols(in *parser.Input) (AdditiveSymbols, error) {
	pos := in.Pos()
	a, err := parser.ParseCommaSeparated(in, parseAdditiveSymbol)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(a); i++ {
		if a[i-1].Weight <= a[i].Weight {
			return nil, parser.Errorf(pos, ErrAdditiveSymbolsOrder, "weight %d follows weight %d", a[i].Weight, a[i-1].Weight)
		}
	}
	return a, nil
}

func parseAdditiveSymbol(in *parser.Input) (AdditiveSymbol, error) {
	sym, symErr := parser.Try(in, parseSymbol)
	pos := in.Pos()
	n, err := in.ExpectInteger()
	if err != nil {
		return AdditiveSymbol{}, err
	}
	if n < 0 {
		return AdditiveSymbol{}, parser.Errorf(pos, ErrNegativeCounterValue, "weight %d is negative", n)
	}
	if symErr != nil {
		if sym, err = parseSymbol(in); err != nil {
			return AdditiveSymbol{}, err
		}
	}
	return AdditiveSymbol{Weight: uint32(n), Symbol: sym}, nil
}

// SpeakAs is the value of the speak-as descriptor: a keyword or another
// counter style.
type SpeakAs struct {
	// One of auto, bullets, numbers, words or spell-out. Empty when Style
	// is set.
	Keyword string
	Style   CounterStyleName
}

func (s *SpeakAs) ToCSS(p *printer.Printer) {
	if s.Keyword != "" {
		p.WriteString(s.Keyword)
		return
	}
	p.Print(s.Style)
}

func parseSpeakAs(in *parser.Input) (*SpeakAs, error) {
	if kw, err := parser.Try(in, keywordParser("auto", "bullets", "numbers", "words", "spell-out")); err == nil {
		return &SpeakAs{Keyword: kw}, nil
	}
	name, err := ParseCounterStyleName(in)
	if err != nil {
		return nil, err
	}
	return &SpeakAs{Style: name}, nil
}
