package interfaces

// MarkdownRenderer converts Markdown into HTML.
type MarkdownRenderer interface {
	// Render converts Markdown using the renderer's default options.
	Render(markdown []byte) ([]byte, error)
	// RenderWithOptions converts Markdown using the supplied overrides.
	RenderWithOptions(markdown []byte, opts RenderOptions) ([]byte, error)
}

// RenderOptions customises a single render call. SiteHost drives the
// external link pass: links to any other host are opened in a new tab.
type RenderOptions struct {
	SiteHost       string
	Extensions     []string
	HardWraps      bool
	SafeMode       bool
	Sanitize       bool
	Highlight      bool
	HighlightStyle string
}
