package strings

import (
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{
			name:     "short string unchanged",
			input:    "hello",
			maxLen:   10,
			expected: "hello",
		},
		{
			name:     "exact length unchanged",
			input:    "hello",
			maxLen:   5,
			expected: "hello",
		},
		{
			name:     "long string truncated",
			input:    "hello world this is a long string",
			maxLen:   15,
			expected: "hello world ...",
		},
		{
			name:     "newlines replaced with spaces",
			input:    "hello\nworld",
			maxLen:   20,
			expected: "hello world",
		},
		{
			name:     "multiple whitespace collapsed",
			input:    "hello\n\n\t  world",
			maxLen:   20,
			expected: "hello world",
		},
		{
			name:     "unicode not split mid-rune",
			input:    "héllo wörld ünïcode",
			maxLen:   10,
			expected: "héllo w...",
		},
		{
			name:     "maxLen clamped to minimum",
			input:    "abcdefgh",
			maxLen:   1,
			expected: "a...",
		},
		{
			name:     "empty string",
			input:    "",
			maxLen:   10,
			expected: "",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := Truncate(test.input, test.maxLen)
			if result != test.expected {
				t.Errorf("Truncate(%q, %d) = %q, expected %q", test.input, test.maxLen, result, test.expected)
			}
		})
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty secret",
			input:    "",
			expected: "****",
		},
		{
			name:     "short secret fully masked",
			input:    "abc",
			expected: "****",
		},
		{
			name:     "boundary length fully masked",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "long secret keeps edges",
			input:    "pat_1234567890abcdef",
			expected: "pat_...cdef",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := MaskSecret(test.input)
			if result != test.expected {
				t.Errorf("MaskSecret(%q) = %q, expected %q", test.input, result, test.expected)
			}
		})
	}
}
