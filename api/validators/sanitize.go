package validators

import (
	"strings"
	"unicode"
)

// SanitizeString folds whitespace to spaces, drops other control characters, trims the result and caps it at
// maxLen runes. A non-positive maxLen disables the cap.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.TrimSpace(strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, input))
	if maxLen <= 0 {
		return cleaned
	}
	if runes := []rune(cleaned); len(runes) > maxLen {
		return strings.TrimSpace(string(runes[:maxLen]))
	}
	return cleaned
}
