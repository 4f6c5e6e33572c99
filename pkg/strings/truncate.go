package strings

import (
	"strings"
)

// DefaultMessageMaxLen is the widest error or title cell printed in tables.
const DefaultMessageMaxLen = 80

// MinTruncateLen is the smallest maxLen SingleLine honours: one character
// plus "...".
const MinTruncateLen = 4

// SingleLine collapses all whitespace in s (including newlines from
// multi-line resolver errors) into single spaces and cuts the result to
// maxLen runes, ending in "..." when something was removed.
//
// maxLen values below MinTruncateLen are raised to MinTruncateLen.
func SingleLine(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}

// Prefix returns at most the first n runes of s, without an ellipsis. It is
// used for abbreviating context IDs.
func Prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
