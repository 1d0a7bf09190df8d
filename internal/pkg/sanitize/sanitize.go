// Package sanitize cleans free text submitted through the back office before
// it is stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = bluemonday.StrictPolicy()
	rich   = bluemonday.UGCPolicy()
)

// Text strips every tag and returns plain text. Entities escaped by the
// policy are decoded again so "Frutas & Verduras" survives unchanged.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// RichText keeps the safe subset of HTML allowed for user-generated content
// and drops scripts, event handlers and similar.
func RichText(s string) string {
	return strings.TrimSpace(rich.Sanitize(s))
}

// URL returns s when it is an http(s) URL and "" otherwise.
func URL(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return s
	}
	return ""
}
