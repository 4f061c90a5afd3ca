package feeds

import (
	"context"
	"time"

	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/routes"
)

// PostLister returns posts in collection order.
type PostLister interface {
	List(ctx context.Context) ([]*posts.Post, error)
}

// Resolver resolves post and feed URLs.
type Resolver interface {
	LinkBuilder
	HomeURL() (string, error)
	FeedURL(route string) (string, error)
}

// GeneratorConfig carries the channel metadata shared by both formats.
type GeneratorConfig struct {
	Title       string
	Description string
	Language    string
	Author      string
}

// Generator renders feeds straight from the post store.
type Generator struct {
	posts    PostLister
	resolver Resolver
	cfg      GeneratorConfig
	now      func() time.Time
}

// NewGenerator wires a generator.
func NewGenerator(lister PostLister, resolver Resolver, cfg GeneratorConfig) *Generator {
	return &Generator{posts: lister, resolver: resolver, cfg: cfg, now: time.Now}
}

// Entries loads posts and projects them.
func (g *Generator) Entries(ctx context.Context) ([]Entry, error) {
	items, err := g.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	return Project(items, g.resolver, g.cfg.Author)
}

// Render builds the feed document for format.
func (g *Generator) Render(ctx context.Context, format string) (string, error) {
	if _, err := ContentType(format); err != nil {
		return "", err
	}
	entries, err := g.Entries(ctx)
	if err != nil {
		return "", err
	}
	channel, err := g.channel(format)
	if err != nil {
		return "", err
	}
	return Render(format, channel, entries)
}

func (g *Generator) channel(format string) (Channel, error) {
	site, err := g.resolver.HomeURL()
	if err != nil {
		return Channel{}, err
	}
	route := routes.RouteAtom
	if format == FormatRSS {
		route = routes.RouteRSS
	}
	self, err := g.resolver.FeedURL(route)
	if err != nil {
		return Channel{}, err
	}
	return Channel{
		Title:       g.cfg.Title,
		Description: g.cfg.Description,
		Language:    g.cfg.Language,
		SiteURL:     site,
		SelfURL:     self,
		Author:      g.cfg.Author,
		Generated:   g.now(),
	}, nil
}
