// internal/printer/bidi.go
package printer

import "strings"

// ShapeBidiText rearranges text containing Arabic into the visual order
// a left-to-right ESC/POS printer expects. Arabic segments are reversed
// in place while digits and neutral punctuation stay with the segment
// they follow; a string made only of Arabic and neutral characters is
// reversed once more so the whole line reads right to left. Text
// without Arabic passes through untouched.
func ShapeBidiText(text string) string {
	if !containsArabic(text) {
		return text
	}

	var result strings.Builder
	var segment []rune
	segmentArabic := false

	flush := func() {
		if len(segment) == 0 {
			return
		}
		if segmentArabic {
			reverseInPlace(segment)
		}
		result.WriteString(string(segment))
		segment = segment[:0]
	}

	for _, r := range text {
		switch {
		case isNeutralRune(r):
			segment = append(segment, r)
		case isArabicRune(r):
			if !segmentArabic {
				flush()
			}
			segmentArabic = true
			segment = append(segment, r)
		default:
			if segmentArabic {
				flush()
			}
			segmentArabic = false
			segment = append(segment, r)
		}
	}
	flush()

	if isEntirelyArabic(text) {
		return reverseRunes(result.String())
	}
	return result.String()
}

// isArabicRune reports whether r falls in one of the Arabic blocks,
// including supplement and presentation forms.
func isArabicRune(r rune) bool {
	switch {
	case r >= 0x0600 && r <= 0x06FF:
		return true
	case r >= 0x0750 && r <= 0x077F:
		return true
	case r >= 0xFB50 && r <= 0xFDFF:
		return true
	case r >= 0xFE70 && r <= 0xFEFF:
		return true
	}
	return false
}

// isNeutralRune reports whether r has no direction of its own and stays
// inside whatever segment it lands in.
func isNeutralRune(r rune) bool {
	if r >= '0' && r <= '9' {
		return true
	}
	switch r {
	case ' ', '.', '-', ':':
		return true
	}
	return false
}

func containsArabic(text string) bool {
	for _, r := range text {
		if isArabicRune(r) {
			return true
		}
	}
	return false
}

// isEntirelyArabic reports whether text holds only Arabic and neutral
// runes, meaning the visual line order itself flips.
func isEntirelyArabic(text string) bool {
	for _, r := range text {
		if !isArabicRune(r) && !isNeutralRune(r) {
			return false
		}
	}
	return true
}

func reverseInPlace(runes []rune) {
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
}

func reverseRunes(s string) string {
	runes := []rune(s)
	reverseInPlace(runes)
	return string(runes)
}
