package httpcache

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// HeaderCacheStatus reports hit or miss on responses the middleware handled.
const HeaderCacheStatus = "X-Response-Cache"

const storeTimeout = 2 * time.Second

// replayedHeaders are copied from the original response into cache entries.
var replayedHeaders = []string{fiber.HeaderLocation, fiber.HeaderCacheControl, fiber.HeaderLastModified}

// MiddlewareConfig wires the response cache into fiber.
type MiddlewareConfig struct {
	Profile *Profile
	Store   interfaces.ResponseStore
	// Context is the execution context of the serving process.
	Context ExecutionContext
	Logger  interfaces.Logger
	// Next skips the middleware when it returns true.
	Next func(c *fiber.Ctx) bool
	Now  func() time.Time
}

// New returns a fiber handler that serves and stores full page responses
// according to the profile. Store failures are logged and the request is
// handled as a miss.
func New(cfg MiddlewareConfig) fiber.Handler {
	logger := logging.Ensure(cfg.Logger)
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}
		if cfg.Store == nil || !cfg.Profile.Enabled() {
			return c.Next()
		}

		req := Request{Method: c.Method(), Async: c.XHR()}
		if !cfg.Profile.ShouldCacheRequest(req, cfg.Context) {
			return c.Next()
		}

		key := Key(req.Method, c.Path(), cfg.Profile.CacheNameSuffix())
		log := logger.WithContext(c.UserContext())

		ctx, cancel := context.WithTimeout(c.UserContext(), storeTimeout)
		cached, ok, err := cfg.Store.Get(ctx, key)
		cancel()
		if err != nil {
			log.Warn("httpcache.store.get_failed", "path", c.Path(), "error", err)
		}
		if ok && cached != nil {
			return replay(c, cached)
		}

		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if !cfg.Profile.ShouldCacheResponse(status) {
			return nil
		}

		entry := capture(c, now())
		ctx, cancel = context.WithTimeout(c.UserContext(), storeTimeout)
		defer cancel()
		if err := cfg.Store.Put(ctx, key, entry, cfg.Profile.CacheRequestUntil()); err != nil {
			log.Warn("httpcache.store.put_failed", "path", c.Path(), "error", err)
			return nil
		}
		c.Set(HeaderCacheStatus, "miss")
		log.Debug("httpcache.stored", "path", c.Path(), "status", status)
		return nil
	}
}

func capture(c *fiber.Ctx, storedAt time.Time) *interfaces.CachedResponse {
	resp := c.Response()
	entry := &interfaces.CachedResponse{
		Status:      resp.StatusCode(),
		ContentType: string(resp.Header.ContentType()),
		Body:        append([]byte(nil), resp.Body()...),
		StoredAt:    storedAt,
	}
	for _, name := range replayedHeaders {
		if value := resp.Header.Peek(name); len(value) > 0 {
			if entry.Headers == nil {
				entry.Headers = map[string]string{}
			}
			entry.Headers[name] = string(value)
		}
	}
	return entry
}

func replay(c *fiber.Ctx, cached *interfaces.CachedResponse) error {
	for name, value := range cached.Headers {
		c.Set(name, value)
	}
	if cached.ContentType != "" {
		c.Set(fiber.HeaderContentType, cached.ContentType)
	}
	c.Set(HeaderCacheStatus, "hit")
	return c.Status(cached.Status).Send(cached.Body)
}
