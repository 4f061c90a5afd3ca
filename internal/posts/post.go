package posts

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Post is one content file. It is built per request and never mutated.
type Post struct {
	Slug         string
	Title        string
	Summary      string
	Date         time.Time
	Contents     []byte
	FilePath     string
	LastModified time.Time
}

// SlugPattern matches the slugs that can be routed to a post.
var SlugPattern = regexp.MustCompile(`^[a-z0-9\-]+$`)

// IsValidSlug reports whether value can be routed to a post.
func IsValidSlug(value string) bool {
	return SlugPattern.MatchString(value)
}

// titleFromSlug derives a display title for posts without one. A Caser is
// stateful, so each call builds its own.
func titleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' })
	return cases.Title(language.English).String(strings.Join(words, " "))
}
