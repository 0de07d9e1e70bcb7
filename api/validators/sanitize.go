package validators

import (
	"strings"
	"unicode"
)

// SanitizeString trims whitespace, drops control characters other than
// newlines and tabs, and caps the result at maxLen bytes. A maxLen of
// zero means no cap.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, strings.TrimSpace(input))

	if maxLen > 0 && len(cleaned) > maxLen {
		return cleaned[:maxLen]
	}
	return cleaned
}
