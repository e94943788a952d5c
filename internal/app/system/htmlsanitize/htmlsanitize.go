// Package htmlsanitize cleans user-entered text before it is shown as a
// dashboard label.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict strips every tag and attribute.
var strict = bluemonday.StrictPolicy()

// maxPasses bounds how many layers of entity escaping are peeled off.
const maxPasses = 8

// angle drops brackets left over when escaping is nested deeper than maxPasses.
var angle = strings.NewReplacer("<", "", ">", "")

// PlainText strips markup from s and returns the plain text with entities
// decoded and surrounding whitespace trimmed. Record names come from free-form
// entry forms, so anything that looks like HTML is removed, including markup
// that was stored entity-escaped.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	for i := 0; i < maxPasses; i++ {
		next := html.UnescapeString(strict.Sanitize(s))
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
	return strings.TrimSpace(angle.Replace(s))
}
