package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans user supplied text before it is stored. Policies are safe
// for concurrent use once built.
type Sanitizer struct {
	plain *bluemonday.Policy
	rich  *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	rich := bluemonday.UGCPolicy()
	rich.RequireNoFollowOnLinks(true)
	rich.AddTargetBlankToFullyQualifiedLinks(true)
	rich.AllowURLSchemes("http", "https", "mailto")

	return &Sanitizer{
		plain: bluemonday.StrictPolicy(),
		rich:  rich,
	}
}

// PlainText drops every tag and returns unescaped text, used for titles and
// comment bodies.
func (s *Sanitizer) PlainText(input string) string {
	return strings.TrimSpace(html.UnescapeString(s.plain.Sanitize(input)))
}

// RichText keeps the formatting subset allowed in post bodies.
func (s *Sanitizer) RichText(input string) string {
	return strings.TrimSpace(s.rich.Sanitize(input))
}

func (s *Sanitizer) PlainTextList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if cleaned := s.PlainText(item); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
