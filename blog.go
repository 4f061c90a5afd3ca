// Package blog serves a personal blog from a directory of markdown posts.
//
// Posts are flat files with YAML front matter. They are rendered per request,
// links to other hosts open in a new tab, and full responses can be cached
// in memory or redis according to a cache profile.
package blog

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	cachecmd "github.com/goliatone/go-blog/internal/commands/cache"
	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/feeds"
	"github.com/goliatone/go-blog/internal/httpcache"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Post exports the content model.
type Post = posts.Post

// ExecutionContext exports the cache profile execution context.
type ExecutionContext = httpcache.ExecutionContext

// Option exports the container overrides.
type Option = di.Option

var (
	WithLoggerProvider   = di.WithLoggerProvider
	WithLogWriter        = di.WithLogWriter
	WithPostsFS          = di.WithPostsFS
	WithMarkdownRenderer = di.WithMarkdownRenderer
	WithTemplateRenderer = di.WithTemplateRenderer
	WithResponseStore    = di.WithResponseStore
	WithExecutionContext = di.WithExecutionContext
	WithCommandRegistry  = di.WithCommandRegistry
	WithCronRegistrar    = di.WithCronRegistrar
	WithClock            = di.WithClock
	IsNotFound           = posts.IsNotFound
)

const (
	FeedFormatAtom = feeds.FormatAtom
	FeedFormatRSS  = feeds.FormatRSS
)

// Module is the top level blog runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a module from cfg.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// App returns the fiber app serving the blog.
func (m *Module) App() *fiber.App {
	return m.container.Server().App()
}

func (m *Module) Logger() interfaces.Logger {
	return m.container.Logger()
}

// Posts lists every post in collection order.
func (m *Module) Posts(ctx context.Context) ([]*Post, error) {
	return m.container.Posts().List(ctx)
}

// Post loads a single post. Missing and malformed posts satisfy IsNotFound.
func (m *Module) Post(ctx context.Context, slug string) (*Post, error) {
	return m.container.Posts().Get(ctx, slug)
}

// RenderPost returns the HTML body of a post.
func (m *Module) RenderPost(ctx context.Context, slug string) (string, error) {
	post, err := m.Post(ctx, slug)
	if err != nil {
		return "", err
	}
	html, err := m.container.MarkdownRenderer().RenderWithOptions(post.Contents, m.container.RenderOptions())
	if err != nil {
		return "", err
	}
	return string(html), nil
}

// Feed renders the atom or rss feed.
func (m *Module) Feed(ctx context.Context, format string) (string, error) {
	return m.container.Feeds().Render(ctx, format)
}

// ClearResponseCache empties the response cache through the clear command.
func (m *Module) ClearResponseCache(ctx context.Context, reason string) error {
	set := m.container.CacheCommands()
	if set == nil {
		return fmt.Errorf("blog: %w", cachecmd.ErrStoreNotConfigured)
	}
	return set.Clear.Execute(ctx, cachecmd.ClearResponseCacheCommand{Reason: reason})
}

// Start launches background workers without serving HTTP.
func (m *Module) Start(ctx context.Context) error {
	return m.container.Start(ctx)
}

// Serve starts the workers and blocks serving HTTP on the configured
// address until Shutdown.
func (m *Module) Serve(ctx context.Context) error {
	if err := m.Start(ctx); err != nil {
		return err
	}
	return m.container.Server().Listen(m.container.Config.Server.Addr)
}

// Shutdown stops the HTTP server and background workers.
func (m *Module) Shutdown(ctx context.Context) error {
	serverErr := m.container.Server().Shutdown(ctx)
	closeErr := m.container.Close(ctx)
	if serverErr != nil {
		return serverErr
	}
	return closeErr
}
