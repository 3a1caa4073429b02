// internal/printer/units.go
package printer

import "strings"

// unitReplacements maps unit glyph variants to their ASCII forms, in
// application order. Multi-rune forms come before the bare superscripts
// so "m³" becomes "m3" and not "m3" twice over.
var unitReplacements = []struct {
	from string
	to   string
}{
	{"㎥", "m3"}, // ㎥ square-cube ligature
	{"立方米", "m3"},
	{"m³", "m3"},
	{"M³", "m3"},
	{"³", "3"},
	{"㎡", "m2"}, // ㎡
	{"m²", "m2"},
	{"²", "2"},
}

// NormalizeUnit rewrites cubic and square meter glyph variants into the
// ASCII "m3"/"m2" forms the thermal printer can render. Unknown unit
// strings pass through unchanged.
func NormalizeUnit(unit string) string {
	result := unit
	for _, r := range unitReplacements {
		result = strings.ReplaceAll(result, r.from, r.to)
	}
	return result
}
