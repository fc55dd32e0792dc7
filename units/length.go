package units

import (
	"fmt"
	"strings"

	"github.com/stylekit/css/printer"
)

// App units are the canonical absolute length unit.
const (
	AppUnitsPerPx   = 60
	AppUnitsPerInch = 96 * AppUnitsPerPx
)

// LengthUnit is a unit of length.
type LengthUnit uint8

const (
	Px LengthUnit = iota
	In
	Cm
	Mm
	Q
	Pt
	Pc
	Em
	Ex
	Ch
	Rem
	Vw
	Vh
	Vmin
	Vmax
)

var lengthUnitNames = [...]string{
	Px:   "px",
	In:   "in",
	Cm:   "cm",
	Mm:   "mm",
	Q:    "q",
	Pt:   "pt",
	Pc:   "pc",
	Em:   "em",
	Ex:   "ex",
	Ch:   "ch",
	Rem:  "rem",
	Vw:   "vw",
	Vh:   "vh",
	Vmin: "vmin",
	Vmax: "vmax",
}

// app units per unit for the absolute units.
var lengthUnitFactors = [...]float64{
	Px: AppUnitsPerPx,
	In: AppUnitsPerInch,
	Cm: AppUnitsPerInch / 2.54,
	Mm: AppUnitsPerInch / 25.4,
	Q:  AppUnitsPerInch / 25.4 / 4,
	Pt: AppUnitsPerInch / 72.0,
	Pc: AppUnitsPerInch / 72.0 * 12,
}

// LookupLengthUnit returns the length unit named s, ignoring ASCII case.
func LookupLengthUnit(s string) (LengthUnit, bool) {
	for i, name := range lengthUnitNames {
		if strings.EqualFold(s, name) {
			return LengthUnit(i), true
		}
	}
	return 0, false
}

func (u LengthUnit) String() string {
	if int(u) < len(lengthUnitNames) {
		return lengthUnitNames[u]
	}
	return fmt.Sprintf("LengthUnit(%d)", uint8(u))
}

// IsAbsolute returns true for units with a fixed size in app units.
func (u LengthUnit) IsAbsolute() bool { return u <= Pc }

// IsFontRelative returns true for em, ex, ch and rem.
func (u LengthUnit) IsFontRelative() bool { return u >= Em && u <= Rem }

// IsViewportRelative returns true for vw, vh, vmin and vmax.
func (u LengthUnit) IsViewportRelative() bool { return u >= Vw && u <= Vmax }

// Length is a distance with a unit.
type Length struct {
	Value float64
	Unit  LengthUnit
}

// Canonical returns the length in app units. Relative units are resolved
// through conv.
func (l Length) Canonical(conv Conversion) (float64, bool) {
	switch {
	case l.Unit.IsAbsolute():
		return l.Value * lengthUnitFactors[l.Unit], true
	case conv == nil:
		return 0, false
	case l.Unit.IsFontRelative():
		return conv.FontRelative(l.Unit, l.Value)
	default:
		return conv.ViewportRelative(l.Unit, l.Value)
	}
}

func (l Length) ToCSS(p *printer.Printer) {
	p.Float(l.Value)
	p.WriteString(l.Unit.String())
}

func (l Length) String() string { return printer.String(l) }
