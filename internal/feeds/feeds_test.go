package feeds

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/routes"
)

type stubLister struct {
	items []*posts.Post
	err   error
}

func (s stubLister) List(context.Context) ([]*posts.Post, error) {
	return s.items, s.err
}

func testResolver(t *testing.T) *routes.Resolver {
	t.Helper()
	resolver, err := routes.NewResolver(routes.Config{
		BaseURL:  "https://example.com",
		AtomPath: "/feed",
		RSSPath:  "/feed.xml",
	})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return resolver
}

func samplePosts() []*posts.Post {
	return []*posts.Post{
		{Slug: "first-post", Title: "First & best", Summary: "An   intro\nline", Date: time.Unix(1700000000, 0)},
		{Slug: "second-post", Title: "Second", Date: time.Unix(1600000000, 0)},
	}
}

func TestProjectKeepsCollectionOrder(t *testing.T) {
	entries, err := Project(samplePosts(), testResolver(t), "Jane Doe")
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	first := entries[0]
	if first.ID != "first-post" || first.Title != "First & best" {
		t.Fatalf("unexpected first entry %+v", first)
	}
	if first.Link != "https://example.com/first-post" {
		t.Fatalf("unexpected link %q", first.Link)
	}
	if first.Summary != "An   intro\nline" {
		t.Fatalf("expected summary copied from the post, got %q", first.Summary)
	}
	if !first.Updated.Equal(time.Unix(1700000000, 0)) {
		t.Fatalf("expected updated to equal post date, got %s", first.Updated)
	}
	if first.Author != "Jane Doe" || entries[1].Author != "Jane Doe" {
		t.Fatal("expected fixed author on every entry")
	}
	if entries[1].ID != "second-post" {
		t.Fatalf("expected second-post second, got %q", entries[1].ID)
	}
}

func TestProjectRequiresLinks(t *testing.T) {
	if _, err := Project(samplePosts(), nil, ""); err == nil {
		t.Fatal("expected error without link builder")
	}
}

func TestBuildAtom(t *testing.T) {
	entries, _ := Project(samplePosts(), testResolver(t), "Jane Doe")
	doc := BuildAtom(Channel{
		Title:   "Blog",
		SiteURL: "https://example.com",
		SelfURL: "https://example.com/feed",
	}, entries)

	for _, want := range []string{
		`<feed xmlns="http://www.w3.org/2005/Atom">`,
		"<id>https://example.com/feed</id>",
		"<updated>2023-11-14T22:13:20Z</updated>",
		"<title>First &amp; best</title>",
		`<link rel="alternate" href="https://example.com/first-post" />`,
		"<id>first-post</id>",
		"<name>Jane Doe</name>",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("atom feed missing %q:\n%s", want, doc)
		}
	}
	if strings.Index(doc, "first-post</id>") > strings.Index(doc, "second-post</id>") {
		t.Fatal("expected entries in collection order")
	}
}

func TestBuildRSS(t *testing.T) {
	entries, _ := Project(samplePosts(), testResolver(t), "Jane Doe")
	doc := BuildRSS(Channel{Title: "Blog", SiteURL: "https://example.com", Description: "Notes"}, entries)

	for _, want := range []string{
		`<rss version="2.0"`,
		"<link>https://example.com/second-post</link>",
		`<guid isPermaLink="false">second-post</guid>`,
		"<pubDate>Sun, 13 Sep 2020 12:26:40 +0000</pubDate>",
		"<dc:creator>Jane Doe</dc:creator>",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("rss feed missing %q:\n%s", want, doc)
		}
	}
}

func TestBuildAtomWithoutEntriesUsesGeneratedTime(t *testing.T) {
	generated := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := BuildAtom(Channel{Title: "Blog", SiteURL: "https://example.com", Generated: generated}, nil)
	if !strings.Contains(doc, "<updated>2024-01-02T03:04:05Z</updated>") {
		t.Fatalf("expected generated timestamp:\n%s", doc)
	}
}

func TestGeneratorRender(t *testing.T) {
	gen := NewGenerator(stubLister{items: samplePosts()}, testResolver(t), GeneratorConfig{Title: "Blog", Author: "Jane Doe"})

	atom, err := gen.Render(context.Background(), FormatAtom)
	if err != nil {
		t.Fatalf("Render atom: %v", err)
	}
	if !strings.Contains(atom, `<link rel="self" href="https://example.com/feed" />`) {
		t.Fatalf("expected self link:\n%s", atom)
	}

	rss, err := gen.Render(context.Background(), FormatRSS)
	if err != nil {
		t.Fatalf("Render rss: %v", err)
	}
	if !strings.Contains(rss, "<link>https://example.com/</link>") && !strings.Contains(rss, "<link>https://example.com</link>") {
		t.Fatalf("expected site link:\n%s", rss)
	}

	if _, err := gen.Render(context.Background(), "json"); err == nil {
		t.Fatal("expected unknown format error")
	}
}

func TestGeneratorPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("boom")
	gen := NewGenerator(stubLister{err: boom}, testResolver(t), GeneratorConfig{})
	if _, err := gen.Render(context.Background(), FormatAtom); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}
