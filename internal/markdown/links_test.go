package markdown

import (
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestIsExternalURL(t *testing.T) {
	const host = "example.com"
	cases := []struct {
		url  string
		want bool
	}{
		{"https://other.com/x", true},
		{"http://other.com", true},
		{"HTTPS://Other.com/x", true},
		{"https://sub.example.com/x", true},
		{"https://other.com/100%", true},
		{"https://other.com/%zz/page", true},
		{"https://other.com?q=%zz", true},
		{"https://user@other.com/x", true},
		{"https://example.com/100%", false},
		{"https://exa mple.com/x", false},
		{"https://example.com/x", false},
		{"http://example.com:8080/x", false},
		{"https:///no-host", false},
		{"/relative/path", false},
		{"#fragment", false},
		{"//other.com/protocol-relative", false},
		{"ftp://other.com/file", false},
		{"mailto:someone@other.com", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsExternalURL(tc.url, host); got != tc.want {
			t.Errorf("IsExternalURL(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestMarkExternalLinks(t *testing.T) {
	source := readFixture(t, "testdata/links.md")
	_, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(body))
	marked := MarkExternalLinks(doc, body, "example.com")
	if marked != 2 {
		t.Fatalf("expected 2 links marked, got %d", marked)
	}

	targets := map[string]bool{}
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		destination, ok := linkDestination(node, body)
		if !ok {
			return ast.WalkContinue, nil
		}
		value, has := node.AttributeString("target")
		if has {
			if raw, _ := value.([]byte); string(raw) != "_blank" {
				t.Fatalf("unexpected target value %v on %s", value, destination)
			}
		}
		targets[destination] = has
		return ast.WalkContinue, nil
	})

	want := map[string]bool{
		"https://other.com/docs":         true,
		"https://example.com/about":      false,
		"/archive":                       false,
		"#top":                           false,
		"mailto:me@example.com":          false,
		"https://third.example.org/page": true,
		"https://example.com/self":       false,
	}
	for destination, marked := range want {
		got, seen := targets[destination]
		if !seen {
			t.Fatalf("link %q was not found in the tree", destination)
		}
		if got != marked {
			t.Errorf("link %q marked=%v, want %v", destination, got, marked)
		}
	}
}

func TestMarkExternalLinksNilDocument(t *testing.T) {
	if got := MarkExternalLinks(nil, nil, "example.com"); got != 0 {
		t.Fatalf("expected 0 for nil document, got %d", got)
	}
}

func TestMarkExternalLinksIsIdempotent(t *testing.T) {
	body := []byte("[ext](https://other.com/x)")
	doc := goldmark.New().Parser().Parse(text.NewReader(body))

	MarkExternalLinks(doc, body, "example.com")
	MarkExternalLinks(doc, body, "example.com")

	link := doc.FirstChild().FirstChild()
	if len(link.Attributes()) != 1 {
		t.Fatalf("expected a single attribute after two passes, got %d", len(link.Attributes()))
	}
}
