// AngelaMos | 2026
// slug.go

// Package slug derives stable URL-safe identifiers from free text.
package slug

import (
	"regexp"
	"strings"

	gosimple "github.com/gosimple/slug"
)

// Fallback is returned for input that has no [a-z0-9] characters.
const Fallback = "item"

var (
	nonAlnum   = regexp.MustCompile(`[^a-z0-9]+`)
	wellFormed = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Make lower-cases text, collapses every run of characters outside [a-z0-9]
// into one hyphen and trims hyphens from both ends. It never returns an
// empty string.
func Make(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = nonAlnum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return Fallback
	}
	return s
}

// Valid reports whether s is a slug Make could have produced.
func Valid(s string) bool {
	return gosimple.IsSlug(s) && wellFormed.MatchString(s)
}
