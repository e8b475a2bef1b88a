// Package htmlsanitize strips markup from free-text fields before they are
// stored, so API consumers that render them as HTML cannot be handed script.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// IsPlainText reports whether s cannot contain a tag (it lacks either '<'
// or '>').
func IsPlainText(s string) bool {
	return !strings.Contains(s, "<") || !strings.Contains(s, ">")
}

// PlainText trims s and removes every tag. Script and style bodies are
// dropped with their tags. Text without tags is returned as-is (trimmed), so
// characters like '&' are never entity-encoded.
func PlainText(s string) string {
	s = strings.TrimSpace(s)
	if IsPlainText(s) {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// PlainTextPtr applies PlainText through a nil-able pointer.
func PlainTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := PlainText(*s)
	return &v
}
