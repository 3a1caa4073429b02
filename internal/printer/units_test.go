// internal/printer/units_test.go
package printer

import "testing"

func TestNormalizeUnit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"square mq symbol", "㎥", "m3"},
		{"chinese cubic meter", "立方米", "m3"},
		{"lowercase m superscript", "m³", "m3"},
		{"uppercase m superscript", "M³", "m3"},
		{"bare superscript three", "x³", "x3"},
		{"square meter symbol", "㎡", "m2"},
		{"m superscript two", "m²", "m2"},
		{"bare superscript two", "x²", "x2"},
		{"plain ascii passes through", "kg", "kg"},
		{"already normalized", "m3", "m3"},
		{"unknown unit passes through", "bags", "bags"},
		{"empty string", "", ""},
		{"embedded in longer string", "50 m³ sand", "50 m3 sand"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeUnit(tt.input); got != tt.want {
				t.Errorf("NormalizeUnit(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeUnitIdempotent(t *testing.T) {
	inputs := []string{"m³", "㎥", "立方米", "kg", "m2"}
	for _, input := range inputs {
		once := NormalizeUnit(input)
		twice := NormalizeUnit(once)
		if once != twice {
			t.Errorf("NormalizeUnit not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}
