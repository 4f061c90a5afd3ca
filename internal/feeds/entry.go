// Package feeds projects posts into syndication entries and renders them as
// Atom and RSS documents.
package feeds

import (
	"fmt"
	"time"

	"github.com/goliatone/go-blog/internal/posts"
)

// Entry is a single syndicated post.
type Entry struct {
	ID      string
	Title   string
	Summary string
	Updated time.Time
	Link    string
	Author  string
}

// LinkBuilder resolves the absolute URL of a post.
type LinkBuilder interface {
	PostURL(slug string) (string, error)
}

// Project maps posts to entries in the order given.
func Project(items []*posts.Post, links LinkBuilder, author string) ([]Entry, error) {
	if links == nil {
		return nil, fmt.Errorf("feeds: link builder is required")
	}
	entries := make([]Entry, 0, len(items))
	for _, post := range items {
		if post == nil {
			continue
		}
		link, err := links.PostURL(post.Slug)
		if err != nil {
			return nil, fmt.Errorf("feeds: link for %q: %w", post.Slug, err)
		}
		entries = append(entries, Entry{
			ID:      post.Slug,
			Title:   post.Title,
			Summary: post.Summary,
			Updated: post.Date,
			Link:    link,
			Author:  author,
		})
	}
	return entries, nil
}
