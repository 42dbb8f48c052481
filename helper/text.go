package helper

import "strings"

// WordCount counts whitespace separated tokens, ignoring empty ones.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ContainsAny reports whether s contains any of the given substrings.
func ContainsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
