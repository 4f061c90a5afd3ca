package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	RootModule      = "blog"
	PostsModule     = "blog.posts"
	MarkdownModule  = "blog.markdown"
	HTTPCacheModule = "blog.httpcache"
	ServerModule    = "blog.server"
	FeedsModule     = "blog.feeds"
	CommandsModule  = "blog.commands"
)

const (
	fieldModule   = "module"
	fieldPostSlug = "slug"
	fieldPostPath = "path"
)

// ModuleLogger returns a logger scoped to module. A nil provider yields a
// no-op logger so callers never need to nil check.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = RootModule
	}

	var logger interfaces.Logger = noopLogger{}
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{fieldModule: module})
}

// PostsLogger returns the logger used by the content store and watcher.
func PostsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, PostsModule)
}

// MarkdownLogger returns the logger used by the renderer.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, MarkdownModule)
}

// HTTPCacheLogger returns the logger used by the response cache.
func HTTPCacheLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, HTTPCacheModule)
}

// ServerLogger returns the logger used by the HTTP server.
func ServerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, ServerModule)
}

// WithPostContext adds slug and path fields, skipping empty values.
func WithPostContext(logger interfaces.Logger, slug, path string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		fields[fieldPostSlug] = trimmed
	}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldPostPath] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that discards every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var (
	_ interfaces.Logger       = noopLogger{}
	_ interfaces.FieldsLogger = noopLogger{}
)

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger   { return n }
func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
