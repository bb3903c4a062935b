// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package affiliation classifies author affiliation text. The parser takes a
// Matcher rather than a fixed keyword list so the heuristic can be configured
// or replaced.
package affiliation

import "strings"

// DefaultKeywords flag pharmaceutical and biotech companies.
var DefaultKeywords = []string{"pharmaceutical", "biotech"}

// Matcher reports whether an affiliation string belongs to a commercial
// (non-academic) organization.
type Matcher func(affiliation string) bool

// Keywords returns a Matcher that reports true when the affiliation contains
// any of the words, ignoring case. Blank words are ignored; with no usable
// words the Matcher never matches.
func Keywords(words ...string) Matcher {
	var lowered []string
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			lowered = append(lowered, w)
		}
	}
	return func(affiliation string) bool {
		text := strings.ToLower(affiliation)
		for _, w := range lowered {
			if strings.Contains(text, w) {
				return true
			}
		}
		return false
	}
}

// Default returns the Matcher over DefaultKeywords.
func Default() Matcher {
	return Keywords(DefaultKeywords...)
}

// ParseKeywords splits a comma-separated flag value into keywords.
func ParseKeywords(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
