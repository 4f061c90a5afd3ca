package markdown

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

func TestGoldmarkRenderer_Render(t *testing.T) {
	renderer := NewGoldmarkRenderer(interfaces.RenderOptions{SafeMode: true})

	html, err := renderer.Render([]byte("# Heading\n\nHello **world** and `code`"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	got := string(html)
	if !strings.Contains(got, `<h1 id="heading">Heading</h1>`) {
		t.Fatalf("expected heading with id, got %q", got)
	}
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Fatalf("expected <strong>, got %q", got)
	}
	for _, raw := range []string{"**", "# Heading", "`code`"} {
		if strings.Contains(got, raw) {
			t.Fatalf("rendered html leaks markdown syntax %q: %q", raw, got)
		}
	}
}

func TestGoldmarkRenderer_ExternalLinksOpenInNewTab(t *testing.T) {
	renderer := NewGoldmarkRenderer(interfaces.RenderOptions{SiteHost: "example.com", SafeMode: true})

	external, err := renderer.Render([]byte("[ext](https://other.com/x)"))
	if err != nil {
		t.Fatalf("Render external: %v", err)
	}
	if !strings.Contains(string(external), `<a href="https://other.com/x" target="_blank">ext</a>`) {
		t.Fatalf("expected external link to carry target, got %q", external)
	}

	escaped, err := renderer.Render([]byte("[pct](https://other.com/100%) [bad](https://other.com/%zz/page)"))
	if err != nil {
		t.Fatalf("Render escaped: %v", err)
	}
	if n := strings.Count(string(escaped), `target="_blank"`); n != 2 {
		t.Fatalf("expected links with malformed escapes to be marked, got %d in %q", n, escaped)
	}

	internal, err := renderer.Render([]byte("[home](https://example.com/x)"))
	if err != nil {
		t.Fatalf("Render internal: %v", err)
	}
	if strings.Contains(string(internal), "target=") {
		t.Fatalf("expected internal link without target, got %q", internal)
	}
}

func TestGoldmarkRenderer_LinkifiedURLs(t *testing.T) {
	renderer := NewGoldmarkRenderer(interfaces.RenderOptions{
		SiteHost:   "example.com",
		Extensions: []string{"linkify"},
	})

	html, err := renderer.Render([]byte("See https://other.com/page for details."))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(html), `target="_blank"`) {
		t.Fatalf("expected linkified URL to be marked external, got %q", html)
	}
}

func TestGoldmarkRenderer_WithoutHostMarksEveryAbsoluteLink(t *testing.T) {
	renderer := NewGoldmarkRenderer(interfaces.RenderOptions{})

	html, err := renderer.Render([]byte("[ext](https://other.com/x) [rel](/about)"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	got := string(html)
	if !strings.Contains(got, `<a href="https://other.com/x" target="_blank">ext</a>`) {
		t.Fatalf("expected absolute link to be marked without a host, got %q", got)
	}
	if !strings.Contains(got, `<a href="/about">rel</a>`) {
		t.Fatalf("expected relative link to stay unmarked, got %q", got)
	}
}

func TestGoldmarkRenderer_SafeModeOmitsRawHTML(t *testing.T) {
	renderer := NewGoldmarkRenderer(interfaces.RenderOptions{})
	source := []byte("<script>alert(1)</script>\n\ntext")

	safe, err := renderer.RenderWithOptions(source, interfaces.RenderOptions{SafeMode: true})
	if err != nil {
		t.Fatalf("Render safe: %v", err)
	}
	if strings.Contains(string(safe), "<script>") {
		t.Fatalf("expected raw html to be omitted in safe mode, got %q", safe)
	}

	unsafe, err := renderer.RenderWithOptions(source, interfaces.RenderOptions{})
	if err != nil {
		t.Fatalf("Render unsafe: %v", err)
	}
	if !strings.Contains(string(unsafe), "<script>") {
		t.Fatalf("expected raw html to pass through without safe mode, got %q", unsafe)
	}
}

func TestGoldmarkRenderer_SanitizeKeepsNewTabTarget(t *testing.T) {
	renderer := NewGoldmarkRenderer(interfaces.RenderOptions{})

	html, err := renderer.RenderWithOptions(
		[]byte("[ext](https://other.com/x) <span onclick=\"x()\">hi</span>"),
		interfaces.RenderOptions{SiteHost: "example.com", Sanitize: true},
	)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	got := string(html)
	if !strings.Contains(got, `target="_blank"`) {
		t.Fatalf("expected sanitiser to keep target, got %q", got)
	}
	if strings.Contains(got, "onclick") {
		t.Fatalf("expected sanitiser to drop event handlers, got %q", got)
	}
}

func TestGoldmarkRenderer_HighlightsFencedCode(t *testing.T) {
	renderer := NewGoldmarkRenderer(interfaces.RenderOptions{Highlight: true, HighlightStyle: "monokai"})

	html, err := renderer.Render([]byte("```go\npackage main\n```"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	got := string(html)
	if !strings.Contains(got, "<pre") || !strings.Contains(got, "style=") {
		t.Fatalf("expected highlighted block with inline styles, got %q", got)
	}
	if strings.Contains(got, "```") {
		t.Fatalf("expected fences to be consumed, got %q", got)
	}
}

func TestCollectExtensions(t *testing.T) {
	if got := collectExtensions(nil); len(got) != 1 {
		t.Fatalf("expected GFM default, got %d extensions", len(got))
	}
	got := collectExtensions([]string{"table", " Table ", "unknown", "footnote"})
	if len(got) != 2 {
		t.Fatalf("expected duplicates and unknown names to be dropped, got %d", len(got))
	}
}

func TestParseFrontMatter(t *testing.T) {
	data := readFixture(t, "testdata/links.md")

	fm, body, err := ParseFrontMatter(data)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm.Title != "Links everywhere" {
		t.Fatalf("unexpected title %q", fm.Title)
	}
	if fm.Summary != "A post that points inside and outside the site." {
		t.Fatalf("unexpected summary %q", fm.Summary)
	}
	if fm.Date.Unix() != 1700000000 {
		t.Fatalf("unexpected date %v", fm.Date)
	}
	if strings.Contains(string(body), "title:") {
		t.Fatalf("expected front matter to be stripped from body: %q", body)
	}
}

func TestParseFrontMatterRequiresDate(t *testing.T) {
	_, _, err := ParseFrontMatter(readFixture(t, "testdata/no_date.md"))
	if !errors.Is(err, ErrDateMissing) {
		t.Fatalf("expected ErrDateMissing, got %v", err)
	}
}

func TestParseDateFormats(t *testing.T) {
	cases := map[string]any{
		"int":     1700000000,
		"int64":   int64(1700000000),
		"float":   float64(1700000000),
		"digits":  "1700000000",
		"rfc3339": "2023-11-14T22:13:20Z",
	}
	for name, value := range cases {
		got, err := parseDate(value)
		if err != nil {
			t.Fatalf("%s: parseDate returned %v", name, err)
		}
		if got.Unix() != 1700000000 {
			t.Fatalf("%s: expected 1700000000, got %d", name, got.Unix())
		}
	}

	if _, err := parseDate("next tuesday"); err == nil {
		t.Fatal("expected invalid date error")
	}
	if _, err := parseDate([]string{"x"}); err == nil {
		t.Fatal("expected unsupported type error")
	}
}

func readFixture(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}
