package views

import (
	"time"

	"github.com/goliatone/go-blog/internal/posts"
)

// DateLayout renders dates as "2 January 2006".
const DateLayout = "2 January 2006"

// Site holds the values every page shares.
type Site struct {
	Title          string
	Description    string
	Author         string
	AuthorHandle   string
	AtomURL        string
	RSSURL         string
	StylesheetPath string
}

// ListItem is one row of the listing.
type ListItem struct {
	Title   string
	URL     string
	Date    string
	Summary string
	// Last suppresses the separator after the final row.
	Last bool
}

// ListPage is the home and about view model.
type ListPage struct {
	Site  Site
	Items []ListItem
}

// PostPage is the single post view model. Body is trusted renderer output.
type PostPage struct {
	Site    Site
	Slug    string
	Title   string
	Summary string
	Date    string
	URL     string
	Body    string
}

// ErrorPage is rendered for failed requests.
type ErrorPage struct {
	Site    Site
	Status  int
	Message string
}

// PathFunc resolves the site relative path of a post.
type PathFunc func(slug string) (string, error)

// FormatDate formats t in UTC using DateLayout.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}

// NewListPage builds the listing in collection order.
func NewListPage(site Site, items []*posts.Post, path PathFunc) (ListPage, error) {
	page := ListPage{Site: site, Items: make([]ListItem, 0, len(items))}
	for _, post := range items {
		if post == nil {
			continue
		}
		url := "/" + post.Slug
		if path != nil {
			resolved, err := path(post.Slug)
			if err != nil {
				return ListPage{}, err
			}
			url = resolved
		}
		page.Items = append(page.Items, ListItem{
			Title:   post.Title,
			URL:     url,
			Date:    FormatDate(post.Date),
			Summary: post.Summary,
		})
	}
	if n := len(page.Items); n > 0 {
		page.Items[n-1].Last = true
	}
	return page, nil
}

// NewPostPage builds the post view from a loaded post and its rendered body.
func NewPostPage(site Site, post *posts.Post, body, absoluteURL string) PostPage {
	return PostPage{
		Site:    site,
		Slug:    post.Slug,
		Title:   post.Title,
		Summary: post.Summary,
		Date:    FormatDate(post.Date),
		URL:     absoluteURL,
		Body:    body,
	}
}
