// internal/printer/bidi_test.go
package printer

import "testing"

func TestShapeBidiTextPassThrough(t *testing.T) {
	tests := []string{
		"",
		"Hello World",
		"No: RCP-000042",
		"1500 kg",
		"TOTAL: $105.00 USD",
	}

	for _, input := range tests {
		if got := ShapeBidiText(input); got != input {
			t.Errorf("ShapeBidiText(%q) = %q, want unchanged", input, got)
		}
	}
}

func TestShapeBidiTextWholeArabic(t *testing.T) {
	// A string of only Arabic and neutral characters is reversed per
	// segment and then reversed again as a whole, which restores the
	// logical order for the printer.
	tests := []string{
		"مرحبا",
		"مرحبا عالم",
		"سعر 100",
	}

	for _, input := range tests {
		if got := ShapeBidiText(input); got != input {
			t.Errorf("ShapeBidiText(%q) = %q, want %q", input, got, input)
		}
	}
}

func TestShapeBidiTextMixed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "latin then arabic",
			input: "ABC مرحبا",
			want:  "ABC ابحرم",
		},
		{
			name:  "arabic then latin",
			input: "مرحبا X",
			want:  " ابحرمX",
		},
		{
			name:  "arabic between latin",
			input: "A مرحبا B",
			want:  "A  ابحرمB",
		},
		{
			name:  "digits stay with arabic segment",
			input: "رمل 25 kg",
			want:  " 52 لمرkg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShapeBidiText(tt.input); got != tt.want {
				t.Errorf("ShapeBidiText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestShapeBidiTextIdempotentOnASCII(t *testing.T) {
	input := "Customer: Walk-in 12.50"
	if got := ShapeBidiText(ShapeBidiText(input)); got != input {
		t.Errorf("double ShapeBidiText(%q) = %q, want unchanged", input, got)
	}
}
