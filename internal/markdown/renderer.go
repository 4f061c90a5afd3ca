package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	defaultHighlightStyle = "github"
	externalLinkPriority  = 100
)

// GoldmarkRenderer implements interfaces.MarkdownRenderer. It is stateless
// apart from its defaults and safe for concurrent use.
type GoldmarkRenderer struct {
	defaults  interfaces.RenderOptions
	sanitizer *bluemonday.Policy
}

// NewGoldmarkRenderer returns a renderer that applies defaults on Render.
func NewGoldmarkRenderer(defaults interfaces.RenderOptions) *GoldmarkRenderer {
	return &GoldmarkRenderer{
		defaults:  defaults,
		sanitizer: newSanitizePolicy(),
	}
}

// Defaults returns the options used by Render.
func (r *GoldmarkRenderer) Defaults() interfaces.RenderOptions {
	return r.defaults
}

func (r *GoldmarkRenderer) Render(markdown []byte) ([]byte, error) {
	return r.RenderWithOptions(markdown, r.defaults)
}

// RenderWithOptions builds a goldmark engine for opts and converts markdown.
// The engine is not shared between calls, the site host is bound into the
// external link transformer of each one.
func (r *GoldmarkRenderer) RenderWithOptions(markdown []byte, opts interfaces.RenderOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := newEngine(opts).Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	if !opts.Sanitize {
		return buf.Bytes(), nil
	}
	return r.sanitizer.SanitizeBytes(buf.Bytes()), nil
}

func newEngine(opts interfaces.RenderOptions) goldmark.Markdown {
	// The link pass always runs. An empty host marks every absolute link.
	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
		parser.WithASTTransformers(
			util.Prioritized(NewExternalLinkTransformer(strings.TrimSpace(opts.SiteHost)), externalLinkPriority),
		),
	}

	var rendererOptions []renderer.Option
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.SafeMode && !opts.Sanitize {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	extenders := collectExtensions(opts.Extensions)
	if opts.Highlight {
		style := strings.TrimSpace(opts.HighlightStyle)
		if style == "" {
			style = defaultHighlightStyle
		}
		extenders = append(extenders, highlighting.NewHighlighting(
			highlighting.WithStyle(style),
		))
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parserOptions...),
		goldmark.WithExtensions(extenders...),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

// collectExtensions resolves extension names, ignoring unknown ones. An empty
// list selects GFM.
func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM}
	}
	var extenders []goldmark.Extender
	seen := map[string]struct{}{}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := seen[key]; dup {
			continue
		}
		if ext, ok := extensionRegistry[key]; ok {
			extenders = append(extenders, ext)
			seen[key] = struct{}{}
		}
	}
	return extenders
}

var blankTarget = regexp.MustCompile(`^_blank$`)

// newSanitizePolicy starts from the UGC policy and keeps what the renderer
// itself emits: new tab targets, heading ids and highlighter styles.
func newSanitizePolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("target").Matching(blankTarget).OnElements("a")
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	policy.AllowStyles("color", "background-color", "font-weight", "font-style", "text-decoration").
		OnElements("pre", "code", "span")
	return policy
}
