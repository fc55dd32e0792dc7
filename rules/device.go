package rules

import (
	"math"

	"github.com/stylekit/css/units"
)

// Device is the output device media queries are evaluated against.
type Device interface {
	MatchesMediaType(t MediaType) bool
	MatchesFeature(f *MediaFeature) bool
}

// StaticDevice is a Device with fixed characteristics.
type StaticDevice struct {
	Type MediaType

	// Viewport size in CSS pixels.
	Width  float64
	Height float64

	// Pixel density in dppx.
	Resolution float64

	Color      uint32
	ColorIndex uint32
	Monochrome uint32

	Grid        bool
	Transform3D bool

	// Values of the keyword features, such as "hover" or
	// "prefers-color-scheme". A missing keyword feature never matches.
	Keywords map[string]string

	// Default font size in CSS pixels for relative lengths. Defaults to 16.
	FontSize float64
}

var _ Device = (*StaticDevice)(nil)

func (d *StaticDevice) MatchesMediaType(t MediaType) bool { return t == d.Type }

func (d *StaticDevice) MatchesFeature(f *MediaFeature) bool {
	switch f.Name {
	case "width":
		return d.matchLength(f, d.Width)
	case "height":
		return d.matchLength(f, d.Height)
	case "aspect-ratio":
		r, ok := f.Value.(Ratio)
		if !ok {
			return d.Width > 0 && d.Height > 0
		}
		if d.Height == 0 {
			return false
		}
		return compare(f.Range, d.Width/d.Height, r.Float())
	case "orientation":
		orientation := "landscape"
		if d.Height >= d.Width {
			orientation = "portrait"
		}
		return d.matchKeyword(f, orientation)
	case "resolution":
		r, ok := f.Value.(*MediaResolution)
		if !ok {
			return d.Resolution > 0
		}
		if r.Infinite {
			return f.Range == RangeMax
		}
		v, ok := r.Value.Evaluate(nil)
		return ok && compare(f.Range, d.Resolution, v.Float())
	case "color":
		return matchInteger(f, d.Color)
	case "color-index":
		return matchInteger(f, d.ColorIndex)
	case "monochrome":
		return matchInteger(f, d.Monochrome)
	case "grid":
		return matchBoolean(f, d.Grid)
	case "-webkit-transform-3d":
		return matchBoolean(f, d.Transform3D)
	}
	kw, ok := d.Keywords[f.Name]
	if !ok {
		return false
	}
	return d.matchKeyword(f, kw)
}

func (d *StaticDevice) matchKeyword(f *MediaFeature, actual string) bool {
	v, ok := f.Value.(Keyword)
	if !ok {
		return actual != "none"
	}
	return string(v) == actual
}

func (d *StaticDevice) matchLength(f *MediaFeature, px float64) bool {
	c, ok := f.Value.(units.Calculable)
	if !ok {
		return px > 0
	}
	v, ok := c.Evaluate(d.conversion())
	if !ok {
		return false
	}
	return compare(f.Range, px*units.AppUnitsPerPx, v.Float())
}

func (d *StaticDevice) conversion() *units.MapConversion {
	fontSize := d.FontSize
	if fontSize == 0 {
		fontSize = 16
	}
	return &units.MapConversion{
		FontSize:       fontSize * units.AppUnitsPerPx,
		RootFontSize:   fontSize * units.AppUnitsPerPx,
		ViewportWidth:  d.Width * units.AppUnitsPerPx,
		ViewportHeight: d.Height * units.AppUnitsPerPx,
	}
}

func matchInteger(f *MediaFeature, actual uint32) bool {
	v, ok := f.Value.(MediaInteger)
	if !ok {
		return actual > 0
	}
	return compare(f.Range, float64(actual), float64(v))
}

func matchBoolean(f *MediaFeature, actual bool) bool {
	v, ok := f.Value.(MediaBoolean)
	if !ok {
		return actual
	}
	return bool(v) == actual
}

// compare tests actual against the value of a feature.
func compare(r MediaRange, actual, want float64) bool {
	const epsilon = 1e-6
	switch r {
	case RangeMin:
		return actual >= want-epsilon
	case RangeMax:
		return actual <= want+epsilon
	}
	return math.Abs(actual-want) <= epsilon
}
