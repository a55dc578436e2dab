package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses every run of non [a-z0-9] characters into a single dash
func Slugify(s string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}

// Summarize returns s unchanged when it has at most max runes, otherwise
// its first max-3 runes followed by "...".
func Summarize(s string, max int) string {
	if max <= 3 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}
