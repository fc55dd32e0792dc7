package properties

import (
	"strings"

	"github.com/stylekit/css/printer"
)

// VendorPrefix is the vendor prefix of a property or at-rule name, without
// the dashes. The empty prefix means none.
type VendorPrefix string

const (
	NoPrefix VendorPrefix = ""
	Webkit   VendorPrefix = "webkit"
	Moz      VendorPrefix = "moz"
	Ms       VendorPrefix = "ms"
	O        VendorPrefix = "o"
	Epub     VendorPrefix = "epub"
	Servo    VendorPrefix = "servo"
)

// IsKnown returns true for the prefixes of known vendors.
func (p VendorPrefix) IsKnown() bool {
	switch p {
	case Webkit, Moz, Ms, O, Epub, Servo:
		return true
	}
	return false
}

// ToCSS writes the prefix with its surrounding dashes.
func (p VendorPrefix) ToCSS(w *printer.Printer) {
	if p != NoPrefix {
		w.WriteString("-" + string(p) + "-")
	}
}

// SplitVendorPrefix splits "-webkit-name" into its prefix and name. Names
// without a prefix, custom property names and names too short to carry a
// prefix are returned unchanged. The prefix is lowercased.
func SplitVendorPrefix(name string) (VendorPrefix, string) {
	if len(name) < 3 || name[0] != '-' || name[1] == '-' {
		return NoPrefix, name
	}
	i := strings.IndexByte(name[1:], '-')
	if i <= 0 || i+2 >= len(name) {
		return NoPrefix, name
	}
	return VendorPrefix(strings.ToLower(name[1 : i+1])), name[i+2:]
}
