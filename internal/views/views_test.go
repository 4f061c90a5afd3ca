package views

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-blog/internal/posts"
)

func testSite() Site {
	return Site{
		Title:          "Notes",
		Description:    "A personal blog",
		AuthorHandle:   "@jane",
		AtomURL:        "https://example.com/feed",
		StylesheetPath: "/assets/site.css",
	}
}

func testPosts() []*posts.Post {
	return []*posts.Post{
		{Slug: "first", Title: "First", Summary: "one", Date: time.Date(2019, 3, 7, 12, 0, 0, 0, time.UTC)},
		{Slug: "second", Title: "Second", Summary: "two", Date: time.Date(2020, 11, 21, 0, 0, 0, 0, time.UTC)},
		{Slug: "third", Title: "Third", Summary: "three", Date: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func TestFormatDate(t *testing.T) {
	got := FormatDate(time.Date(2019, 3, 7, 23, 0, 0, 0, time.UTC))
	if got != "7 March 2019" {
		t.Fatalf("expected 7 March 2019, got %q", got)
	}
	if FormatDate(time.Time{}) != "" {
		t.Fatal("expected empty string for zero time")
	}
}

func TestNewListPageMarksOnlyLastItem(t *testing.T) {
	page, err := NewListPage(testSite(), testPosts(), nil)
	if err != nil {
		t.Fatalf("NewListPage: %v", err)
	}
	if len(page.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(page.Items))
	}
	for i, item := range page.Items {
		if want := i == len(page.Items)-1; item.Last != want {
			t.Fatalf("item %d: expected Last=%v", i, want)
		}
	}
	if page.Items[0].URL != "/first" {
		t.Fatalf("unexpected url %q", page.Items[0].URL)
	}
}

func TestRenderHomeSeparatesAllButLast(t *testing.T) {
	page, _ := NewListPage(testSite(), testPosts(), nil)
	html, err := NewRenderer().RenderTemplate(TemplateHome, page)
	if err != nil {
		t.Fatalf("RenderTemplate: %v", err)
	}

	if got := strings.Count(html, "post-summary separated"); got != 2 {
		t.Fatalf("expected 2 separated items, got %d:\n%s", got, html)
	}
	if strings.Index(html, `href="/first"`) > strings.Index(html, `href="/third"`) {
		t.Fatal("expected collection order")
	}
	if !strings.Contains(html, "7 March 2019") {
		t.Fatal("expected formatted date")
	}
	if !strings.Contains(html, `type="application/atom+xml"`) {
		t.Fatal("expected feed discovery link")
	}
	if strings.Contains(html, "twitter:card") {
		t.Fatal("listing should not carry post meta")
	}
}

func TestRenderHomeEmpty(t *testing.T) {
	html, err := NewRenderer().RenderTemplate(TemplateHome, ListPage{Site: testSite()})
	if err != nil {
		t.Fatalf("RenderTemplate: %v", err)
	}
	if !strings.Contains(html, "No posts yet.") {
		t.Fatalf("expected empty state:\n%s", html)
	}
}

func TestRenderPostIncludesMetaAndRawBody(t *testing.T) {
	post := testPosts()[0]
	post.Summary = `Quotes "and" <tags>`
	page := NewPostPage(testSite(), post, `<p><a href="https://other.com" target="_blank">x</a></p>`, "https://example.com/first")

	var buf bytes.Buffer
	if _, err := NewRenderer().RenderTemplate(TemplatePost, page, &buf); err != nil {
		t.Fatalf("RenderTemplate: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		`<title>First | Notes</title>`,
		`<meta name="twitter:card" content="summary">`,
		`<meta name="twitter:site" content="@jane">`,
		`<meta name="twitter:title" content="First">`,
		`<meta property="og:title" content="First">`,
		`<meta property="og:url" content="https://example.com/first">`,
		`<a href="https://other.com" target="_blank">x</a>`,
		`content="Quotes &#34;and&#34; &lt;tags&gt;"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("post page missing %q:\n%s", want, html)
		}
	}
}

func TestRenderErrorPage(t *testing.T) {
	html, err := NewRenderer().RenderTemplate(TemplateError, ErrorPage{Site: testSite(), Status: 404, Message: "Not Found"})
	if err != nil {
		t.Fatalf("RenderTemplate: %v", err)
	}
	if !strings.Contains(html, "<h1>404</h1>") || !strings.Contains(html, "Not Found") {
		t.Fatalf("unexpected error page:\n%s", html)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, err := NewRenderer().RenderTemplate("missing", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestStylesheetEmbedded(t *testing.T) {
	if len(Stylesheet()) == 0 {
		t.Fatal("expected embedded stylesheet")
	}
}
