package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSingleLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{
			name:     "short message unchanged",
			input:    "connection refused",
			maxLen:   40,
			expected: "connection refused",
		},
		{
			name:     "exact length unchanged",
			input:    "timeout",
			maxLen:   7,
			expected: "timeout",
		},
		{
			name:     "long message truncated",
			input:    "unexpected status 503 from http://orders/openapi.json",
			maxLen:   21,
			expected: "unexpected status ...",
		},
		{
			name:     "multi-line error flattened",
			input:    "invalid document:\n  line 3: mapping values\n  are not allowed",
			maxLen:   80,
			expected: "invalid document: line 3: mapping values are not allowed",
		},
		{
			name:     "carriage returns and tabs",
			input:    "a\r\n\tb",
			maxLen:   10,
			expected: "a b",
		},
		{
			name:     "whitespace only becomes empty",
			input:    " \n\t ",
			maxLen:   10,
			expected: "",
		},
		{
			name:     "unicode truncation safe",
			input:    "日本語テスト文字列",
			maxLen:   6,
			expected: "日本語...",
		},
		{
			name:     "small maxLen clamped",
			input:    "hello",
			maxLen:   1,
			expected: "h...",
		},
		{
			name:     "negative maxLen clamped",
			input:    "hello",
			maxLen:   -5,
			expected: "h...",
		},
		{
			name:     "short string with small maxLen unchanged",
			input:    "hi",
			maxLen:   3,
			expected: "hi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SingleLine(tt.input, tt.maxLen))
		})
	}
}

func TestPrefix(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		n        int
		expected string
	}{
		{"shorter than n", "abc", 12, "abc"},
		{"cut to n", "0123456789abcdef", 12, "0123456789ab"},
		{"zero", "abc", 0, ""},
		{"negative", "abc", -1, ""},
		{"runes", "日本語テスト", 2, "日本"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Prefix(tt.input, tt.n))
		})
	}
}
