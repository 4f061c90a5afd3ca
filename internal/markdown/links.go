package markdown

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var absoluteURLPattern = regexp.MustCompile(`(?i)^https?://`)

var (
	targetAttribute = []byte("target")
	targetBlank     = []byte("_blank")
)

// IsExternalURL reports whether raw is an absolute http(s) URL pointing at a
// host other than siteHost. URLs without a parseable host are internal. Only
// the authority is parsed, so a malformed path or query does not hide the host.
func IsExternalURL(raw, siteHost string) bool {
	host := urlHost(raw)
	if host == "" {
		return false
	}
	return host != siteHost
}

// urlHost returns the host of an absolute http(s) URL, or "" when raw is not
// one or its authority cannot be parsed.
func urlHost(raw string) string {
	prefix := absoluteURLPattern.FindString(raw)
	if prefix == "" {
		return ""
	}
	authority := raw[len(prefix):]
	if end := strings.IndexAny(authority, "/?#"); end >= 0 {
		authority = authority[:end]
	}
	if authority == "" {
		return ""
	}
	parsed, err := url.Parse("//" + authority)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

// MarkExternalLinks sets target="_blank" on every link or autolink in doc
// whose destination is external to siteHost and returns how many were marked.
// source must be the markdown the tree was parsed from.
func MarkExternalLinks(doc ast.Node, source []byte, siteHost string) int {
	if doc == nil {
		return 0
	}
	marked := 0
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		destination, ok := linkDestination(node, source)
		if !ok {
			return ast.WalkContinue, nil
		}
		if IsExternalURL(destination, siteHost) {
			node.SetAttribute(targetAttribute, targetBlank)
			marked++
		}
		return ast.WalkContinue, nil
	})
	return marked
}

func linkDestination(node ast.Node, source []byte) (string, bool) {
	switch n := node.(type) {
	case *ast.Link:
		return string(n.Destination), true
	case *ast.AutoLink:
		if n.AutoLinkType == ast.AutoLinkEmail {
			return "", false
		}
		return string(n.URL(source)), true
	default:
		return "", false
	}
}

// externalLinkTransformer runs MarkExternalLinks as part of goldmark parsing.
type externalLinkTransformer struct {
	siteHost string
}

// NewExternalLinkTransformer returns a goldmark AST transformer bound to
// siteHost.
func NewExternalLinkTransformer(siteHost string) parser.ASTTransformer {
	return &externalLinkTransformer{siteHost: siteHost}
}

func (t *externalLinkTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	MarkExternalLinks(doc, reader.Source(), t.siteHost)
}
