// Package xss flags request strings that look like cross-site scripting attempts.
// It is a cheap character filter, not a sanitizer.
package xss

import (
	"fmt"
	"strings"
)

var (
	// markupChars are suspicious anywhere in the string.
	markupChars = []rune{'<', '>', '\\', '`'}
	// queryChars are suspicious only in the query part.
	queryChars = []rune{'/', ')', '('}
)

// LooksLikeXSS reports whether s contains a markup character, raw or percent-encoded
// in lowercase hex, or a path/call character inside its query string.
func LooksLikeXSS(s string) bool {
	if containsAny(s, markupChars) {
		return true
	}
	idx := strings.IndexByte(s, '?')
	if idx < 0 {
		return false
	}
	query := strings.ReplaceAll(s[idx+1:], "?", "")
	return containsAny(query, queryChars)
}

func containsAny(s string, chars []rune) bool {
	for _, c := range chars {
		if strings.ContainsRune(s, c) || strings.Contains(s, percentEncoded(c)) {
			return true
		}
	}
	return false
}

func percentEncoded(c rune) string {
	return fmt.Sprintf("%%%x", c)
}
