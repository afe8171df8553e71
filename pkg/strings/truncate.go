package strings

import (
	"strings"
)

// DefaultColumnMaxLen caps column values in formatted output.
const DefaultColumnMaxLen = 40

// MinTruncateLen is the smallest usable maxLen: one character plus "...".
const MinTruncateLen = 4

// Truncate collapses s to a single line of at most maxLen characters,
// appending "..." when it had to cut. It counts runes, not bytes, so a
// multi-byte character is never split. maxLen below MinTruncateLen is
// clamped.
func Truncate(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	// Fields splits on any whitespace run, including newlines and tabs.
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}

// MaskSecret renders a secret safe for display, keeping just enough of the
// edges to recognize it. Secrets of eight characters or fewer are masked
// entirely.
func MaskSecret(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
