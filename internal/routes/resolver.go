// Package routes builds site relative and absolute URLs from named routes.
package routes

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	GroupSite = "site"

	RouteHome  = "home"
	RouteAbout = "about"
	RoutePost  = "post"
	RouteAtom  = "atom"
	RouteRSS   = "rss"
	RouteCSS   = "stylesheet"

	SlugParam = "slug"
)

var ErrBaseURLRequired = errors.New("routes: base url is required")

// Config names the public base URL and the feed paths served by the site.
type Config struct {
	BaseURL  string
	AtomPath string
	RSSPath  string
}

// Resolver resolves named site routes through a go-urlkit route manager.
type Resolver struct {
	manager *urlkit.RouteManager
	group   *urlkit.Group
}

// RouteConfig returns the urlkit configuration for the site group.
func RouteConfig(cfg Config) *urlkit.Config {
	paths := map[string]string{
		RouteHome:  "/",
		RouteAbout: "/about",
		RoutePost:  "/:" + SlugParam,
		RouteCSS:   "/assets/site.css",
	}
	if p := strings.TrimSpace(cfg.AtomPath); p != "" {
		paths[RouteAtom] = p
	}
	if p := strings.TrimSpace(cfg.RSSPath); p != "" {
		paths[RouteRSS] = p
	}
	return &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    GroupSite,
				BaseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
				Paths:   paths,
			},
		},
	}
}

// NewResolver constructs a resolver for the site group.
func NewResolver(cfg Config) (*Resolver, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrBaseURLRequired
	}
	manager := urlkit.NewRouteManager(RouteConfig(cfg))
	group, err := lookupGroup(manager, GroupSite)
	if err != nil {
		return nil, err
	}
	return &Resolver{manager: manager, group: group}, nil
}

// Manager exposes the underlying route manager.
func (r *Resolver) Manager() *urlkit.RouteManager {
	if r == nil {
		return nil
	}
	return r.manager
}

// Absolute builds the full URL for route, base URL included.
func (r *Resolver) Absolute(route string, params map[string]any) (string, error) {
	if r == nil || r.group == nil {
		return "", fmt.Errorf("routes: resolver not configured")
	}
	builder, err := safeBuilder(r.group, route)
	if err != nil {
		return "", err
	}
	for key, val := range params {
		builder.WithParam(key, val)
	}
	return builder.Build()
}

// Path builds the site relative path for route.
func (r *Resolver) Path(route string, params map[string]any) (string, error) {
	absolute, err := r.Absolute(route, params)
	if err != nil {
		return "", err
	}
	parsed, err := url.Parse(absolute)
	if err != nil {
		return "", fmt.Errorf("routes: parse %q: %w", absolute, err)
	}
	if parsed.Path == "" {
		return "/", nil
	}
	return parsed.Path, nil
}

// PostPath returns /{slug}.
func (r *Resolver) PostPath(slug string) (string, error) {
	return r.Path(RoutePost, map[string]any{SlugParam: slug})
}

// PostURL returns the absolute URL of a post.
func (r *Resolver) PostURL(slug string) (string, error) {
	return r.Absolute(RoutePost, map[string]any{SlugParam: slug})
}

// HomeURL returns the absolute URL of the listing.
func (r *Resolver) HomeURL() (string, error) {
	return r.Absolute(RouteHome, nil)
}

// FeedURL returns the absolute URL of the atom or rss feed.
func (r *Resolver) FeedURL(route string) (string, error) {
	if route != RouteAtom && route != RouteRSS {
		return "", fmt.Errorf("routes: %q is not a feed route", route)
	}
	return r.Absolute(route, nil)
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			builder = nil
			err = fmt.Errorf("routes: route %q not found: %v", route, rec)
		}
	}()
	builder = group.Builder(route)
	return builder, nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("routes: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, nil
}
