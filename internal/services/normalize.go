package services

import (
	"regexp"
	"strings"
)

// wsRE collapses all whitespace runs (including newlines).
var wsRE = regexp.MustCompile(`\s+`)

// normalizeQuestionText lowercases and whitespace-collapses question text so
// semantically identical snapshots compare equal across sessions.
func normalizeQuestionText(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	return wsRE.ReplaceAllString(s, " ")
}

// questionDedupeKey identifies a question by normalized text plus the exact
// variant list. Two snapshots with the same key are duplicates regardless of
// their per-session question identifiers.
func questionDedupeKey(text string, variants []string) string {
	parts := make([]string, 0, len(variants)+1)
	parts = append(parts, normalizeQuestionText(text))
	parts = append(parts, variants...)
	return strings.Join(parts, "\x1f")
}
