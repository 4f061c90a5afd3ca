package di

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	command "github.com/goliatone/go-command"

	cachecmd "github.com/goliatone/go-blog/internal/commands/cache"
	"github.com/goliatone/go-blog/internal/feeds"
	"github.com/goliatone/go-blog/internal/httpcache"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/logging/console"
	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/posts"
	"github.com/goliatone/go-blog/internal/routes"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/internal/scheduler"
	"github.com/goliatone/go-blog/internal/server"
	"github.com/goliatone/go-blog/internal/views"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const appName = "go-blog"

// Container wires module dependencies from the runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger
	logWriter      io.Writer
	now            func() time.Time

	postsFS  fs.FS
	posts    *posts.Store
	markdown interfaces.MarkdownRenderer
	template interfaces.TemplateRenderer
	resolver *routes.Resolver
	feeds    *feeds.Generator

	profile          *httpcache.Profile
	responseStore    interfaces.ResponseStore
	executionContext *httpcache.ExecutionContext

	commandRegistry cachecmd.CommandRegistry
	cronRegistrar   scheduler.Registrar
	cron            *scheduler.Cron
	cacheCommands   *cachecmd.HandlerSet

	watcher *posts.Watcher
	server  *server.Server
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithLogWriter sets the destination of the console provider.
func WithLogWriter(w io.Writer) Option {
	return func(c *Container) {
		c.logWriter = w
	}
}

// WithPostsFS reads posts from fsys instead of the configured directory.
// The content watcher is not started for overridden filesystems.
func WithPostsFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.postsFS = fsys
	}
}

// WithMarkdownRenderer overrides the goldmark renderer.
func WithMarkdownRenderer(renderer interfaces.MarkdownRenderer) Option {
	return func(c *Container) {
		c.markdown = renderer
	}
}

// WithTemplateRenderer overrides the embedded view templates.
func WithTemplateRenderer(renderer interfaces.TemplateRenderer) Option {
	return func(c *Container) {
		c.template = renderer
	}
}

// WithResponseStore overrides the store selected by response_cache.store.
func WithResponseStore(store interfaces.ResponseStore) Option {
	return func(c *Container) {
		c.responseStore = store
	}
}

// WithExecutionContext declares how the process is running. Without it the
// process is treated as non interactive.
func WithExecutionContext(ec httpcache.ExecutionContext) Option {
	return func(c *Container) {
		c.executionContext = &ec
	}
}

// WithCommandRegistry registers the cache commands with an external
// go-command registry.
func WithCommandRegistry(reg cachecmd.CommandRegistry) Option {
	return func(c *Container) {
		c.commandRegistry = reg
	}
}

// WithCronRegistrar hands cron jobs to an external scheduler instead of the
// built in one.
func WithCronRegistrar(reg scheduler.Registrar) Option {
	return func(c *Container) {
		c.cronRegistrar = reg
	}
}

// WithClock overrides time.Now for the cache profile and stores.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		if now != nil {
			c.now = now
		}
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	steps := []func() error{
		c.configureLogger,
		c.configureContent,
		c.configureRendering,
		c.configureResponseCache,
		c.configureCommands,
		c.configureWatcher,
		c.configureServer,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Container) configureLogger() error {
	if c.loggerProvider == nil {
		provider, err := newLoggerProvider(c.Config.Logging, c.logWriter)
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, logging.RootModule)
	return nil
}

func newLoggerProvider(cfg runtimeconfig.LoggingConfig, w io.Writer) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
	default:
		return console.NewProvider(console.Options{Writer: w, Level: cfg.Level}), nil
	}
}

func (c *Container) configureContent() error {
	storeCfg := posts.StoreConfig{Pattern: c.Config.Content.Pattern}
	logger := logging.PostsLogger(c.loggerProvider)
	if c.postsFS != nil {
		c.posts = posts.NewStore(c.postsFS, storeCfg, logger)
		return nil
	}
	store, err := posts.NewDirStore(c.Config.Content.PostsDir, storeCfg, logger)
	if err != nil {
		return err
	}
	c.posts = store
	return nil
}

func (c *Container) configureRendering() error {
	if c.markdown == nil {
		c.markdown = markdown.NewGoldmarkRenderer(c.RenderOptions())
	}
	if c.template == nil {
		c.template = views.NewRenderer()
	}

	resolver, err := routes.NewResolver(routes.Config{
		BaseURL:  c.Config.Site.BaseURL,
		AtomPath: c.Config.Feeds.AtomPath,
		RSSPath:  c.Config.Feeds.RSSPath,
	})
	if err != nil {
		return err
	}
	c.resolver = resolver

	feedCfg := c.Config.Feeds
	title := firstNonEmpty(feedCfg.Title, c.Config.Site.Title)
	description := firstNonEmpty(feedCfg.Description, c.Config.Site.Description)
	c.feeds = feeds.NewGenerator(c.posts, resolver, feeds.GeneratorConfig{
		Title:       title,
		Description: description,
		Author:      c.Config.Site.Author,
	})
	return nil
}

// RenderOptions returns the markdown options derived from the config. The
// site host is always set so external links are marked.
func (c *Container) RenderOptions() interfaces.RenderOptions {
	md := c.Config.Markdown
	return interfaces.RenderOptions{
		SiteHost:       c.Config.SiteHost(),
		Extensions:     append([]string(nil), md.Extensions...),
		HardWraps:      md.HardWraps,
		SafeMode:       md.SafeMode,
		Sanitize:       md.Sanitize,
		Highlight:      md.Highlight.Enabled,
		HighlightStyle: md.Highlight.Style,
	}
}

func (c *Container) configureResponseCache() error {
	cacheCfg := c.Config.ResponseCache
	c.profile = httpcache.NewProfile(&httpcache.ProfileConfig{
		Enabled:                cacheCfg.Enabled,
		CacheLifetimeInMinutes: cacheCfg.CacheLifetimeInMinutes,
	}, httpcache.WithClock(c.now))

	if c.executionContext == nil {
		c.executionContext = &httpcache.ExecutionContext{}
	}
	c.executionContext.Testing = c.executionContext.Testing || c.Config.IsTesting()

	if c.responseStore != nil || !cacheCfg.Enabled {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(cacheCfg.Store)) {
	case runtimeconfig.StoreRedis:
		c.responseStore = httpcache.NewRedisStore(httpcache.RedisConfig{
			Addr:     cacheCfg.Redis.Addr,
			Password: cacheCfg.Redis.Password,
			DB:       cacheCfg.Redis.DB,
			Prefix:   cacheCfg.Redis.Prefix,
		})
	default:
		c.responseStore = httpcache.NewMemoryStore(c.now)
	}
	c.logger.Info("responsecache.configured",
		"store", cacheCfg.Store,
		"lifetime", cacheCfg.CacheLifetime(),
	)
	return nil
}

func (c *Container) configureCommands() error {
	if c.responseStore == nil {
		return nil
	}
	set, err := cachecmd.RegisterResponseCacheCommands(c.commandRegistry, c.responseStore, c.loggerProvider)
	if err != nil {
		return err
	}
	c.cacheCommands = set

	schedule := strings.TrimSpace(c.Config.ResponseCache.PurgeSchedule)
	if _, ok := c.responseStore.(interfaces.ExpiringStore); !ok || schedule == "" {
		return nil
	}
	registrar := c.cronRegistrar
	if registrar == nil {
		c.cron = scheduler.NewCron(scheduler.WithLogger(logging.ModuleLogger(c.loggerProvider, logging.CommandsModule)))
		registrar = c.cron.Registrar()
	}
	if err := cachecmd.RegisterPurgeCron(registrar, set.Purge, command.HandlerConfig{Expression: schedule}); err != nil {
		return fmt.Errorf("register response cache purge: %w", err)
	}
	return nil
}

func (c *Container) configureWatcher() error {
	if !c.Config.Content.Watch || c.postsFS != nil {
		return nil
	}
	logger := logging.PostsLogger(c.loggerProvider)
	c.watcher = posts.NewWatcher(c.Config.Content.PostsDir, c.onContentChange, posts.WithWatcherLogger(logger))
	return nil
}

func (c *Container) onContentChange(ctx context.Context) error {
	if c.cacheCommands == nil || !c.Config.ResponseCache.ClearOnContentChange {
		return nil
	}
	return c.cacheCommands.Clear.Execute(ctx, cachecmd.ClearResponseCacheCommand{Reason: "content changed"})
}

func (c *Container) configureServer() error {
	var atomURL, rssURL string
	if c.Config.Feeds.Enabled {
		atomURL, _ = c.resolver.FeedURL(routes.RouteAtom)
		rssURL, _ = c.resolver.FeedURL(routes.RouteRSS)
	}

	deps := server.Dependencies{
		Posts:    c.posts,
		Markdown: c.markdown,
		Views:    c.template,
		Feeds:    c.feeds,
		URLs:     c.resolver,
		Logger:   logging.ServerLogger(c.loggerProvider),
	}
	if c.responseStore != nil && c.profile.Enabled() {
		deps.Cache = httpcache.New(httpcache.MiddlewareConfig{
			Profile: c.profile,
			Store:   c.responseStore,
			Context: *c.executionContext,
			Logger:  logging.HTTPCacheLogger(c.loggerProvider),
			Next: func(ctx *fiber.Ctx) bool {
				return ctx.Path() == server.StylesheetPath
			},
			Now: c.now,
		})
	}

	site := c.Config.Site
	srv, err := server.New(server.Config{
		AppName: appName,
		Site: views.Site{
			Title:          site.Title,
			Description:    site.Description,
			Author:         site.Author,
			AuthorHandle:   site.AuthorHandle,
			AtomURL:        atomURL,
			RSSURL:         rssURL,
			StylesheetPath: server.StylesheetPath,
		},
		Render:          c.RenderOptions(),
		FeedsEnabled:    c.Config.Feeds.Enabled,
		AtomPath:        c.Config.Feeds.AtomPath,
		RSSPath:         c.Config.Feeds.RSSPath,
		ReadTimeout:     c.Config.Server.ReadTimeout,
		WriteTimeout:    c.Config.Server.WriteTimeout,
		ShutdownTimeout: c.Config.Server.ShutdownTimeout,
	}, deps)
	if err != nil {
		return err
	}
	c.server = srv
	return nil
}

// Start launches the background workers: the purge cron and the content
// watcher.
func (c *Container) Start(ctx context.Context) error {
	if c.cron != nil {
		c.cron.Start()
		c.logger.Info("scheduler.started", "jobs", c.cron.Len())
	}
	if c.watcher != nil {
		if err := c.watcher.Start(ctx); err != nil {
			return err
		}
		c.logger.Info("posts.watcher.started", "dir", c.Config.Content.PostsDir)
	}
	return nil
}

// Close stops background workers and releases the response store.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if c.watcher != nil {
		errs = append(errs, c.watcher.Close())
	}
	if c.cron != nil {
		errs = append(errs, c.cron.Stop(ctx))
	}
	if closer, ok := c.responseStore.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	return errors.Join(errs...)
}

// LoggerProvider returns the provider every module logger derives from.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

func (c *Container) Logger() interfaces.Logger {
	return c.logger
}

// Posts returns the content store.
func (c *Container) Posts() *posts.Store {
	return c.posts
}

func (c *Container) MarkdownRenderer() interfaces.MarkdownRenderer {
	return c.markdown
}

func (c *Container) TemplateRenderer() interfaces.TemplateRenderer {
	return c.template
}

func (c *Container) Resolver() *routes.Resolver {
	return c.resolver
}

func (c *Container) Feeds() *feeds.Generator {
	return c.feeds
}

func (c *Container) CacheProfile() *httpcache.Profile {
	return c.profile
}

// ResponseStore is nil when the response cache is disabled.
func (c *Container) ResponseStore() interfaces.ResponseStore {
	return c.responseStore
}

// CacheCommands is nil when the response cache is disabled.
func (c *Container) CacheCommands() *cachecmd.HandlerSet {
	return c.cacheCommands
}

// Scheduler is nil when cron jobs go to an external registrar or there is
// nothing to schedule.
func (c *Container) Scheduler() *scheduler.Cron {
	return c.cron
}

func (c *Container) Watcher() *posts.Watcher {
	return c.watcher
}

func (c *Container) Server() *server.Server {
	return c.server
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
