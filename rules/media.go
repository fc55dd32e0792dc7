package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stylekit/css/ast"
	"github.com/stylekit/css/numbers"
	"github.com/stylekit/css/parser"
	"github.com/stylekit/css/printer"
	"github.com/stylekit/css/scanner"
	"github.com/stylekit/css/token"
	"github.com/stylekit/css/units"
)

var (
	ErrUnknownMediaType        = errors.New("unknown media type")
	ErrDeprecatedMediaType     = errors.New("deprecated media type")
	ErrMediaTypeRequired       = errors.New("media type required after only or not")
	ErrUnsupportedMediaFeature = errors.New("unsupported media feature")
	ErrDeprecatedMediaFeature  = errors.New("deprecated media feature")
	ErrInvalidMediaFeature     = errors.New("invalid media feature value")

	// ErrRatioZero is returned for a ratio with a zero or negative term.
	ErrRatioZero = errors.New("ratio terms must be positive")
)

// MediaRule is an @media rule.
type MediaRule struct {
	Media *MediaList
	Rules Rules
	Pos   token.Pos
}

func (r *MediaRule) ToCSS(p *printer.Printer) {
	p.WriteString("@media")
	if r.Media != nil && len(r.Media.Queries) > 0 {
		p.WriteString(" ")
		p.Print(r.Media)
	}
	writeBlock(p, r.Rules)
}

// Evaluate returns true if the media list matches d.
func (r *MediaRule) Evaluate(d Device) bool { return r.Media.Evaluate(d) }

func parseMediaRule(c *context, n *ast.AtRule, in *parser.Input) (Rule, error) {
	media, err := c.parseMediaList(in)
	if err != nil {
		return nil, err
	}
	rules, err := c.parseRuleList(n.Block.Values)
	if err != nil {
		return nil, err
	}
	return &MediaRule{Media: media, Rules: rules, Pos: n.Pos}, nil
}

// MediaList is a comma-separated list of media queries. An empty list
// matches every device.
type MediaList struct {
	Queries []*MediaQuery
}

func (l *MediaList) ToCSS(p *printer.Printer) { printer.Join(p, l.Queries, ",") }

func (l *MediaList) String() string { return printer.String(l) }

// Evaluate returns true if the list is empty or any query matches d.
func (l *MediaList) Evaluate(d Device) bool {
	if l == nil || len(l.Queries) == 0 {
		return true
	}
	for _, q := range l.Queries {
		if q.Evaluate(d) {
			return true
		}
	}
	return false
}

// AppendMedium parses medium as a media query and appends it, removing any
// equal query already in the list. Returns false if medium is invalid.
func (l *MediaList) AppendMedium(medium string) bool {
	q, err := ParseMediaQuery(medium)
	if err != nil {
		return false
	}
	l.remove(q)
	l.Queries = append(l.Queries, q)
	return true
}

// DeleteMedium removes every query equal to medium. Returns false if
// medium is invalid or was not in the list.
func (l *MediaList) DeleteMedium(medium string) bool {
	q, err := ParseMediaQuery(medium)
	if err != nil {
		return false
	}
	return l.remove(q)
}

func (l *MediaList) remove(q *MediaQuery) bool {
	s := q.String()
	var removed bool
	a := l.Queries[:0]
	for _, other := range l.Queries {
		if other.String() == s {
			removed = true
			continue
		}
		a = append(a, other)
	}
	l.Queries = a
	return removed
}

func (c *context) parseMediaList(in *parser.Input) (*MediaList, error) {
	l := &MediaList{}
	if in.IsExhausted() {
		return l, nil
	}
	a, err := parser.ParseCommaSeparated(in, c.parseMediaQuery)
	if err != nil {
		return nil, err
	}
	l.Queries = a
	return l, nil
}

// ParseMediaQuery parses a single media query.
func ParseMediaQuery(s string) (*MediaQuery, error) {
	values, err := parser.ParseComponentValues(scanner.New(strings.NewReader(s)))
	if err != nil {
		return nil, err
	}
	in := parser.NewInput(values, token.Pos{})
	var c context
	q, err := c.parseMediaQuery(in)
	if err != nil {
		return nil, err
	}
	return q, in.ExpectExhausted()
}

// MediaQualifier is the optional keyword starting a media query.
type MediaQualifier uint8

const (
	QualifierNone MediaQualifier = iota
	QualifierOnly
	QualifierNot
)

// MediaType is the media type of a query.
type MediaType uint8

const (
	MediaAll MediaType = iota
	MediaPrint
	MediaScreen
	MediaSpeech
)

func (t MediaType) String() string {
	switch t {
	case MediaAll:
		return "all"
	case MediaPrint:
		return "print"
	case MediaScreen:
		return "screen"
	case MediaSpeech:
		return "speech"
	}
	return fmt.Sprintf("MediaType(%d)", uint8(t))
}

func parseMediaType(pos token.Pos, name string) (MediaType, error) {
	switch strings.ToLower(name) {
	case "all":
		return MediaAll, nil
	case "print":
		return MediaPrint, nil
	case "screen":
		return MediaScreen, nil
	case "speech", "aural":
		return MediaSpeech, nil
	case "tty", "tv", "projection", "handheld", "braille", "embossed", "3d-glasses":
		return 0, parser.Errorf(pos, ErrDeprecatedMediaType, "deprecated media type %q", name)
	}
	return 0, parser.Errorf(pos, ErrUnknownMediaType, "unknown media type %q", name)
}

// MediaQuery is a media type and the features that must all match.
type MediaQuery struct {
	Qualifier MediaQualifier
	Type      MediaType
	Features  []*MediaFeature
}

// ToCSS omits the "all" type unless the query is qualified or has no
// features.
func (q *MediaQuery) ToCSS(p *printer.Printer) {
	switch q.Qualifier {
	case QualifierOnly:
		p.WriteString("only ")
	case QualifierNot:
		p.WriteString("not ")
	}

	writeType := q.Type != MediaAll || q.Qualifier != QualifierNone || len(q.Features) == 0
	if writeType {
		p.WriteString(q.Type.String())
	}
	for i, f := range q.Features {
		if i > 0 || writeType {
			p.WriteString(" and ")
		}
		p.Print(f)
	}
}

func (q *MediaQuery) String() string { return printer.String(q) }

// Evaluate returns true if the query matches d.
func (q *MediaQuery) Evaluate(d Device) bool {
	ok := q.Type == MediaAll || d.MatchesMediaType(q.Type)
	for _, f := range q.Features {
		if !ok {
			break
		}
		ok = d.MatchesFeature(f)
	}
	if q.Qualifier == QualifierNot {
		return !ok
	}
	return ok
}

func (c *context) parseMediaQuery(in *parser.Input) (*MediaQuery, error) {
	q := &MediaQuery{}
	if in.Try(func(in *parser.Input) error { return in.ExpectIdentMatching("only") }) == nil {
		q.Qualifier = QualifierOnly
	} else if in.Try(func(in *parser.Input) error { return in.ExpectIdentMatching("not") }) == nil {
		q.Qualifier = QualifierNot
	}

	pos := in.Pos()
	if name, err := parser.Try(in, (*parser.Input).ExpectIdent); err == nil {
		t, err := parseMediaType(pos, name)
		if err != nil {
			return nil, err
		}
		q.Type = t
	} else {
		if q.Qualifier != QualifierNone {
			return nil, parser.Errorf(pos, ErrMediaTypeRequired, "expected media type")
		}
		f, err := c.parseMediaFeature(in)
		if err != nil {
			return nil, err
		}
		q.Features = append(q.Features, f)
	}

	for !in.IsExhausted() {
		if err := in.ExpectIdentMatching("and"); err != nil {
			return nil, err
		}
		f, err := c.parseMediaFeature(in)
		if err != nil {
			return nil, err
		}
		q.Features = append(q.Features, f)
	}
	return q, nil
}

// MediaRange selects how a ranged feature compares with the device.
type MediaRange uint8

const (
	RangeExact MediaRange = iota
	RangeMin
	RangeMax
)

// MediaFeature is a parenthesised media feature test such as
// "(min-width:600px)". A nil Value tests the feature in a boolean context.
type MediaFeature struct {
	// Lowercased name without the min- or max- prefix.
	Name  string
	Range MediaRange
	Value printer.CSSer
}

func (f *MediaFeature) ToCSS(p *printer.Printer) {
	p.WriteString("(")
	switch f.Range {
	case RangeMin:
		p.WriteString("min-")
	case RangeMax:
		p.WriteString("max-")
	}
	p.WriteString(f.Name)
	if f.Value != nil {
		p.WriteString(":")
		p.Print(f.Value)
	}
	p.WriteString(")")
}

type mediaFeatureDef struct {
	ranged bool
	parse  func(c *context, in *parser.Input) (printer.CSSer, error)
}

var mediaFeatures = map[string]mediaFeatureDef{
	"width":                  {ranged: true, parse: parseMediaLength},
	"height":                 {ranged: true, parse: parseMediaLength},
	"aspect-ratio":           {ranged: true, parse: parseMediaRatio},
	"orientation":            {parse: mediaKeywords("portrait", "landscape")},
	"resolution":             {ranged: true, parse: parseMediaResolution},
	"scan":                   {parse: mediaKeywords("interlace", "progressive")},
	"grid":                   {parse: parseMediaBoolean},
	"update":                 {parse: mediaKeywords("none", "slow", "fast")},
	"overflow-block":         {parse: mediaKeywords("none", "scroll", "optional-paged", "paged")},
	"overflow-inline":        {parse: mediaKeywords("none", "scroll")},
	"color":                  {ranged: true, parse: parseMediaInteger},
	"color-index":            {ranged: true, parse: parseMediaInteger},
	"monochrome":             {ranged: true, parse: parseMediaInteger},
	"color-gamut":            {parse: mediaKeywords("srgb", "p3", "rec2020")},
	"pointer":                {parse: mediaKeywords("none", "coarse", "fine")},
	"hover":                  {parse: mediaKeywords("none", "hover")},
	"any-pointer":            {parse: mediaKeywords("none", "coarse", "fine")},
	"any-hover":              {parse: mediaKeywords("none", "hover")},
	"-webkit-transform-3d":   {parse: parseMediaBoolean},
	"prefers-color-scheme":   {parse: mediaKeywords("no-preference", "light", "dark")},
	"prefers-reduced-motion": {parse: mediaKeywords("no-preference", "reduce")},
}

func (c *context) parseMediaFeature(in *parser.Input) (*MediaFeature, error) {
	pos := in.Pos()
	block, err := in.ExpectParenthesisBlock()
	if err != nil {
		return nil, err
	}
	name, err := block.ExpectIdent()
	if err != nil {
		return nil, err
	}
	name = strings.ToLower(name)
	f := &MediaFeature{Name: name}

	// The WebKit pixel ratio features are resolutions in dppx.
	switch name {
	case "-webkit-device-pixel-ratio", "-webkit-min-device-pixel-ratio", "-webkit-max-device-pixel-ratio":
		f.Name = "resolution"
		if strings.Contains(name, "-min-") {
			f.Range = RangeMin
		} else if strings.Contains(name, "-max-") {
			f.Range = RangeMax
		}
		if err := block.ExpectColon(); err != nil {
			return nil, err
		}
		n, err := block.ExpectNumber()
		if err != nil {
			return nil, err
		}
		opts := units.Options{Domain: units.ResolutionDomain, Kind: numbers.Unsigned}
		if _, err := numbers.New(opts.Kind, n); err != nil {
			return nil, parser.Errorf(pos, err, "invalid pixel ratio: %s", err)
		}
		f.Value = &MediaResolution{Value: units.NewConstant(units.Resolution{Value: n, Unit: "dppx"}, opts)}
		return f, block.ExpectExhausted()
	}

	if strings.HasPrefix(name, "device-") || strings.HasPrefix(name, "min-device-") || strings.HasPrefix(name, "max-device-") {
		return nil, parser.Errorf(pos, ErrDeprecatedMediaFeature, "deprecated media feature %q", name)
	}
	if rest, ok := strings.CutPrefix(name, "min-"); ok {
		f.Name, f.Range = rest, RangeMin
	} else if rest, ok := strings.CutPrefix(name, "max-"); ok {
		f.Name, f.Range = rest, RangeMax
	}
	def, ok := mediaFeatures[f.Name]
	if !ok || (f.Range != RangeExact && !def.ranged) {
		return nil, parser.Errorf(pos, ErrUnsupportedMediaFeature, "unsupported media feature %q", name)
	}

	// A feature without a value is evaluated in a boolean context.
	if block.IsExhausted() && f.Range == RangeExact {
		return f, nil
	}
	if err := block.ExpectColon(); err != nil {
		return nil, err
	}
	if f.Value, err = def.parse(c, block); err != nil {
		return nil, err
	}
	return f, block.ExpectExhausted()
}

func parseMediaLength(c *context, in *parser.Input) (printer.CSSer, error) {
	return units.ParseOutsideCalc(in, c.lengthOptions(numbers.Signed, false))
}

func parseMediaRatio(c *context, in *parser.Input) (printer.CSSer, error) {
	r, err := ParseRatio(in)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func parseMediaResolution(c *context, in *parser.Input) (printer.CSSer, error) {
	if in.Try(func(in *parser.Input) error { return in.ExpectIdentMatching("auto") }) == nil {
		return &MediaResolution{Infinite: true}, nil
	}
	v, err := units.ParseOutsideCalc(in, units.Options{Domain: units.ResolutionDomain, Kind: numbers.Unsigned})
	if err != nil {
		return nil, err
	}
	return &MediaResolution{Value: v}, nil
}

func parseMediaInteger(c *context, in *parser.Input) (printer.CSSer, error) {
	pos := in.Pos()
	n, err := in.ExpectInteger()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, parser.Errorf(pos, ErrInvalidMediaFeature, "expected a non-negative integer, got %d", n)
	}
	return MediaInteger(n), nil
}

func parseMediaBoolean(c *context, in *parser.Input) (printer.CSSer, error) {
	pos := in.Pos()
	n, err := in.ExpectInteger()
	if err != nil {
		return nil, err
	}
	if n != 0 && n != 1 {
		return nil, parser.Errorf(pos, ErrInvalidMediaFeature, "expected 0 or 1, got %d", n)
	}
	return MediaBoolean(n == 1), nil
}

func mediaKeywords(keywords ...string) func(c *context, in *parser.Input) (printer.CSSer, error) {
	return func(c *context, in *parser.Input) (printer.CSSer, error) {
		kw, err := expectKeyword(in, keywords...)
		if err != nil {
			return nil, err
		}
		return Keyword(kw), nil
	}
}

// Ratio is a positive ratio kept in lowest terms.
type Ratio struct {
	Width  uint32
	Height uint32
}

// NewRatio returns width/height reduced by their greatest common divisor.
func NewRatio(width, height uint32) (Ratio, error) {
	if width == 0 || height == 0 {
		return Ratio{}, ErrRatioZero
	}
	x, y := width, height
	for y != 0 {
		x, y = y, x%y
	}
	return Ratio{Width: width / x, Height: height / x}, nil
}

// ParseRatio parses "<integer> / <integer>".
func ParseRatio(in *parser.Input) (Ratio, error) {
	pos := in.Pos()
	w, err := in.ExpectInteger()
	if err != nil {
		return Ratio{}, err
	}
	if err := in.ExpectDelim("/"); err != nil {
		return Ratio{}, err
	}
	h, err := in.ExpectInteger()
	if err != nil {
		return Ratio{}, err
	}
	if w <= 0 || h <= 0 {
		return Ratio{}, parser.Errorf(pos, ErrRatioZero, "invalid ratio %d/%d", w, h)
	}
	return NewRatio(uint32(w), uint32(h))
}

// Float returns Width divided by Height.
func (r Ratio) Float() float64 { return float64(r.Width) / float64(r.Height) }

func (r Ratio) ToCSS(p *printer.Printer) {
	p.Int(int64(r.Width))
	p.WriteString("/")
	p.Int(int64(r.Height))
}

// MediaResolution is a resolution or "auto" for an infinite resolution.
type MediaResolution struct {
	Infinite bool
	Value    units.Calculable
}

func (r *MediaResolution) ToCSS(p *printer.Printer) {
	if r.Infinite {
		p.WriteString("auto")
		return
	}
	p.Print(r.Value)
}

// MediaInteger is the value of color, color-index and monochrome.
type MediaInteger uint32

func (n MediaInteger) ToCSS(p *printer.Printer) { p.Int(int64(n)) }

// MediaBoolean is the 0 or 1 value of grid and -webkit-transform-3d.
type MediaBoolean bool

func (b MediaBoolean) ToCSS(p *printer.Printer) {
	if b {
		p.WriteString("1")
	} else {
		p.WriteString("0")
	}
}
