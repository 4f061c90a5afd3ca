// Package server exposes the blog over HTTP with fiber.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/goliatone/go-blog/internal/feeds"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/views"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// StylesheetPath is where the embedded stylesheet is served.
const StylesheetPath = "/assets/site.css"

// PostStore loads posts for a request.
type PostStore interface {
	List(ctx context.Context) ([]*posts.Post, error)
	Get(ctx context.Context, slug string) (*posts.Post, error)
}

// FeedRenderer renders a feed document.
type FeedRenderer interface {
	Render(ctx context.Context, format string) (string, error)
}

// URLResolver resolves post links.
type URLResolver interface {
	PostPath(slug string) (string, error)
	PostURL(slug string) (string, error)
}

// Config controls routing and listener behaviour.
type Config struct {
	AppName string
	Site    views.Site
	// Render is passed to the markdown renderer on every post request. Its
	// SiteHost decides which links open in a new tab.
	Render          interfaces.RenderOptions
	FeedsEnabled    bool
	AtomPath        string
	RSSPath         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Dependencies are the collaborators the handlers call.
type Dependencies struct {
	Posts    PostStore
	Markdown interfaces.MarkdownRenderer
	Views    interfaces.TemplateRenderer
	Feeds    FeedRenderer
	URLs     URLResolver
	// Cache is the response cache middleware, nil when disabled.
	Cache  fiber.Handler
	Logger interfaces.Logger
}

// Server owns the fiber app.
type Server struct {
	app    *fiber.App
	cfg    Config
	deps   Dependencies
	logger interfaces.Logger
}

// New builds the app and registers every route.
func New(cfg Config, deps Dependencies) (*Server, error) {
	if deps.Posts == nil {
		return nil, errors.New("server: post store is required")
	}
	if deps.Markdown == nil {
		return nil, errors.New("server: markdown renderer is required")
	}
	if deps.Views == nil {
		return nil, errors.New("server: view renderer is required")
	}
	if cfg.FeedsEnabled && deps.Feeds == nil {
		return nil, errors.New("server: feed renderer is required when feeds are enabled")
	}
	if cfg.Site.StylesheetPath == "" {
		cfg.Site.StylesheetPath = StylesheetPath
	}

	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: logging.Ensure(deps.Logger),
	}
	s.app = fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.app.Use(recover.New())
	s.app.Use(s.requestContext)
	if s.deps.Cache != nil {
		s.app.Use(s.deps.Cache)
	}

	s.app.Get(StylesheetPath, s.stylesheet)
	if s.cfg.FeedsEnabled {
		if s.cfg.AtomPath != "" {
			s.app.Get(s.cfg.AtomPath, s.feed(feeds.FormatAtom))
		}
		if s.cfg.RSSPath != "" {
			s.app.Get(s.cfg.RSSPath, s.feed(feeds.FormatRSS))
		}
	}
	s.app.Get("/", s.listPosts)
	s.app.Get("/about", s.listPosts)
	s.app.Get("/:slug", s.showPost)
	s.app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
}

// App exposes the fiber app, mostly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("server.listen", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.logger.Info("server.shutdown")
	return nil
}
