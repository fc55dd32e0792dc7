package units

// FontRelativeConversion resolves em, ex, ch and rem lengths to app units.
type FontRelativeConversion interface {
	FontRelative(unit LengthUnit, v float64) (float64, bool)
}

// ViewportConversion resolves vw, vh, vmin and vmax lengths to app units.
type ViewportConversion interface {
	ViewportRelative(unit LengthUnit, v float64) (float64, bool)
}

// PercentageConversion resolves a fraction against the value it is a
// percentage of, in the canonical unit of the domain.
type PercentageConversion interface {
	Percentage(fraction float64) (float64, bool)
}

// AttributeConversion looks up the text of an element attribute.
type AttributeConversion interface {
	Attribute(name string) (string, bool)
}

// VariableConversion looks up the text of a custom property.
type VariableConversion interface {
	Variable(name string) (string, bool)
}

// Conversion is the context a value is evaluated in.
type Conversion interface {
	FontRelativeConversion
	ViewportConversion
	PercentageConversion
	AttributeConversion
	VariableConversion
}

// MapConversion is a Conversion backed by fixed sizes and maps. Sizes are
// in app units. A zero size or basis does not resolve.
type MapConversion struct {
	FontSize     float64
	RootFontSize float64

	// Default to half of FontSize when zero.
	ExHeight float64
	ChWidth  float64

	ViewportWidth  float64
	ViewportHeight float64

	// Canonical value of 100%.
	PercentageBasis float64

	Attributes map[string]string
	Variables  map[string]string
}

var _ Conversion = (*MapConversion)(nil)

func (c *MapConversion) FontRelative(unit LengthUnit, v float64) (float64, bool) {
	var size float64
	switch unit {
	case Em:
		size = c.FontSize
	case Rem:
		size = c.RootFontSize
	case Ex:
		size = c.ExHeight
		if size == 0 {
			size = c.FontSize / 2
		}
	case Ch:
		size = c.ChWidth
		if size == 0 {
			size = c.FontSize / 2
		}
	}
	if size == 0 {
		return 0, false
	}
	return v * size, true
}

func (c *MapConversion) ViewportRelative(unit LengthUnit, v float64) (float64, bool) {
	var size float64
	switch unit {
	case Vw:
		size = c.ViewportWidth
	case Vh:
		size = c.ViewportHeight
	case Vmin:
		size = min(c.ViewportWidth, c.ViewportHeight)
	case Vmax:
		size = max(c.ViewportWidth, c.ViewportHeight)
	}
	if size == 0 {
		return 0, false
	}
	return v * size / 100, true
}

func (c *MapConversion) Percentage(fraction float64) (float64, bool) {
	if c.PercentageBasis == 0 {
		return 0, false
	}
	return fraction * c.PercentageBasis, true
}

func (c *MapConversion) Attribute(name string) (string, bool) {
	s, ok := c.Attributes[name]
	return s, ok
}

func (c *MapConversion) Variable(name string) (string, bool) {
	s, ok := c.Variables[name]
	return s, ok
}
