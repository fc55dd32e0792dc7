// Package units implements the unit domains of CSS values and the calc(),
// attr() and var() expressions that may stand in for them.
//
// Every value is stored as written. Evaluate converts a value to its
// domain's canonical unit: app units for lengths, milliseconds for times,
// dots per pixel for resolutions and degrees for angles. Relative units,
// percentages, attributes and variables are resolved through a Conversion
// supplied by the caller.
package units

import (
	"math"
	"strings"

	"github.com/stylekit/css/printer"
)

// Dimension is a number paired with the unit of a domain.
type Dimension interface {
	printer.CSSer

	// Canonical returns the value in the canonical unit of its domain.
	Canonical(conv Conversion) (float64, bool)
}

// Time is a duration in seconds or milliseconds.
type Time struct {
	Value float64
	Unit  string // "s" or "ms"
}

func (t Time) Canonical(conv Conversion) (float64, bool) {
	if t.Unit == "s" {
		return t.Value * 1000, true
	}
	return t.Value, true
}

func (t Time) ToCSS(p *printer.Printer) {
	p.Float(t.Value)
	p.WriteString(t.Unit)
}

// Resolution is a pixel density in dpi, dpcm or dppx.
type Resolution struct {
	Value float64
	Unit  string
}

func (r Resolution) Canonical(conv Conversion) (float64, bool) {
	switch r.Unit {
	case "dpi":
		return r.Value / 96, true
	case "dpcm":
		return r.Value * 2.54 / 96, true
	}
	return r.Value, true
}

func (r Resolution) ToCSS(p *printer.Printer) {
	p.Float(r.Value)
	p.WriteString(r.Unit)
}

// Angle is a rotation in deg, grad, rad or turn.
type Angle struct {
	Value float64
	Unit  string
}

func (a Angle) Canonical(conv Conversion) (float64, bool) {
	switch a.Unit {
	case "grad":
		return a.Value * 0.9, true
	case "rad":
		return a.Value * 180 / math.Pi, true
	case "turn":
		return a.Value * 360, true
	}
	return a.Value, true
}

func (a Angle) ToCSS(p *printer.Printer) {
	p.Float(a.Value)
	p.WriteString(a.Unit)
}

// Number is a unitless number.
type Number float64

func (n Number) Canonical(conv Conversion) (float64, bool) { return float64(n), true }

func (n Number) ToCSS(p *printer.Printer) { p.Float(float64(n)) }

// Percentage is a fraction written as a percentage. 50% is stored as 0.5.
type Percentage float64

func (v Percentage) ToCSS(p *printer.Printer) {
	p.Float(float64(v) * 100)
	p.WriteString("%")
}

// Domain describes a family of units: which units it accepts and how a
// number written with one of them becomes a Dimension.
type Domain struct {
	Name string

	// Unitless is set for domains of plain numbers.
	Unitless bool

	units map[string]func(v float64) Dimension
}

// HasUnit returns true if unit belongs to the domain, ignoring ASCII case.
func (d *Domain) HasUnit(unit string) bool {
	_, ok := d.units[strings.ToLower(unit)]
	return ok
}

// Dimension returns v written in unit. Returns false for a foreign unit.
func (d *Domain) Dimension(v float64, unit string) (Dimension, bool) {
	if d.Unitless {
		return Number(v), unit == ""
	}
	fn, ok := d.units[strings.ToLower(unit)]
	if !ok {
		return nil, false
	}
	return fn(v), true
}

// zero returns the dimension used for a unitless number in the domain.
func (d *Domain) zero(v float64) Dimension {
	if d == LengthDomain {
		return Length{Value: v, Unit: Px}
	}
	return Number(v)
}

var (
	LengthDomain = &Domain{Name: "length", units: map[string]func(float64) Dimension{}}

	TimeDomain = &Domain{Name: "time", units: map[string]func(float64) Dimension{
		"s":  func(v float64) Dimension { return Time{Value: v, Unit: "s"} },
		"ms": func(v float64) Dimension { return Time{Value: v, Unit: "ms"} },
	}}

	ResolutionDomain = &Domain{Name: "resolution", units: map[string]func(float64) Dimension{
		"dpi":  func(v float64) Dimension { return Resolution{Value: v, Unit: "dpi"} },
		"dpcm": func(v float64) Dimension { return Resolution{Value: v, Unit: "dpcm"} },
		"dppx": func(v float64) Dimension { return Resolution{Value: v, Unit: "dppx"} },
		"x":    func(v float64) Dimension { return Resolution{Value: v, Unit: "dppx"} },
	}}

	AngleDomain = &Domain{Name: "angle", units: map[string]func(float64) Dimension{
		"deg":  func(v float64) Dimension { return Angle{Value: v, Unit: "deg"} },
		"grad": func(v float64) Dimension { return Angle{Value: v, Unit: "grad"} },
		"rad":  func(v float64) Dimension { return Angle{Value: v, Unit: "rad"} },
		"turn": func(v float64) Dimension { return Angle{Value: v, Unit: "turn"} },
	}}

	NumberDomain = &Domain{Name: "number", Unitless: true}
)

func init() {
	for i := range lengthUnitNames {
		u := LengthUnit(i)
		LengthDomain.units[u.String()] = func(v float64) Dimension { return Length{Value: v, Unit: u} }
	}
}
