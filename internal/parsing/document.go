// Package parsing prepares raw resume and job-description text for keyword search.
package parsing

import (
	"strings"
)

// Document pairs raw input text with its normalized form.
// A Document is created per request and never mutated afterwards.
type Document struct {
	Raw        string
	Normalized string
}

// NewDocument normalizes raw once and returns the immutable pair.
func NewDocument(raw string) Document {
	return Document{
		Raw:        raw,
		Normalized: Normalize(raw),
	}
}

// Normalize lowercases text for case-insensitive substring search.
// Whitespace and punctuation are kept so that multi-word and dotted keywords
// ("machine learning", "node.js") still match.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	return strings.ToLower(text)
}

// IsBlank reports whether text contains nothing but whitespace.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// FoldSet returns the lowercased members of values as a set.
func FoldSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}
