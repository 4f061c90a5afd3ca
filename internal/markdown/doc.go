// Package markdown turns post bodies into HTML. It wraps goldmark with the
// blog's extensions, a syntax highlighter for fenced code, the external link
// pass and an optional bluemonday sanitiser, and parses the YAML front matter
// that precedes every post.
package markdown
