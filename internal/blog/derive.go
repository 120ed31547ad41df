package blog

import (
	"regexp"
	"strings"
)

const excerptLength = 150

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9 ]`)
	spaceRuns    = regexp.MustCompile(` +`)
)

// Slugify lowercases the title, drops everything but ASCII letters, digits
// and spaces, then joins the words with single hyphens. Titles with nothing
// left give an empty slug.
func Slugify(title string) string {
	s := nonSlugChars.ReplaceAllString(strings.ToLower(title), "")
	s = spaceRuns.ReplaceAllString(strings.TrimSpace(s), "-")
	return strings.Trim(s, "-")
}

// DeriveExcerpt takes the first 150 characters of content and appends an
// ellipsis, whether or not the content was cut.
func DeriveExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) > excerptLength {
		runes = runes[:excerptLength]
	}
	return string(runes) + "..."
}
