// Package processor cleans corpus text before it is embedded.
package processor

import (
	"regexp"
	"strings"
)

var (
	whitespace = regexp.MustCompile(`\s+`)
	// Everything outside letters, digits, underscore, whitespace and the
	// retained punctuation set is replaced with a space. Unicode classes,
	// not \w: accented clinical terms must survive intact.
	disallowed = regexp.MustCompile(`[^\p{L}\p{N}_\s.,?!:;()\[\]{}\-'"]+`)
)

// Normalize collapses whitespace runs to single spaces, trims the ends
// and strips characters outside the whitelist. It never fails and is
// idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	text = whitespace.ReplaceAllString(text, " ")
	text = disallowed.ReplaceAllString(text, " ")
	// stripping can reintroduce doubled spaces
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
