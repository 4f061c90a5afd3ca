package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

var ErrSiteHostRequired = errors.New("blog config: site host or base url is required")
var ErrSiteBaseURLInvalid = errors.New("blog config: site base url is invalid")
var ErrPostsDirRequired = errors.New("blog config: posts directory is required")

// ErrCacheLifetimeInvalid guards against entries that expire on write.
var ErrCacheLifetimeInvalid = errors.New("blog config: cache lifetime must be positive when the response cache is enabled")
var ErrCacheStoreUnknown = errors.New("blog config: response cache store is invalid")
var ErrCacheRedisAddrRequired = errors.New("blog config: redis address is required for the redis response cache store")
var ErrFeedPathsConflict = errors.New("blog config: atom and rss feed paths must differ")
var ErrLoggingProviderUnknown = errors.New("blog config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("blog config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("blog config: logging format is invalid")

const (
	EnvironmentProduction  = "production"
	EnvironmentDevelopment = "development"
	EnvironmentTesting     = "testing"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

var routePathPattern = regexp.MustCompile(`^/[a-z0-9\-_./]*$`)

// Config aggregates every setting the blog module reads at startup.
type Config struct {
	Environment   string              `mapstructure:"environment"`
	Site          SiteConfig          `mapstructure:"site"`
	Content       ContentConfig       `mapstructure:"content"`
	Markdown      MarkdownConfig      `mapstructure:"markdown"`
	ResponseCache ResponseCacheConfig `mapstructure:"response_cache"`
	Feeds         FeedsConfig         `mapstructure:"feeds"`
	Server        ServerConfig        `mapstructure:"server"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// SiteConfig describes the public identity of the blog. Host is compared
// against link hosts when deciding whether a link leaves the site.
type SiteConfig struct {
	Title        string `mapstructure:"title"`
	Description  string `mapstructure:"description"`
	Host         string `mapstructure:"host"`
	BaseURL      string `mapstructure:"base_url"`
	Author       string `mapstructure:"author"`
	AuthorHandle string `mapstructure:"author_handle"`
}

// ContentConfig points at the flat post files.
type ContentConfig struct {
	PostsDir string `mapstructure:"posts_dir"`
	Pattern  string `mapstructure:"pattern"`
	Watch    bool   `mapstructure:"watch"`
}

// MarkdownConfig toggles renderer behaviour.
type MarkdownConfig struct {
	Extensions []string        `mapstructure:"extensions"`
	HardWraps  bool            `mapstructure:"hard_wraps"`
	SafeMode   bool            `mapstructure:"safe_mode"`
	Sanitize   bool            `mapstructure:"sanitize"`
	Highlight  HighlightConfig `mapstructure:"highlight"`
}

// HighlightConfig controls fenced code highlighting.
type HighlightConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Style   string `mapstructure:"style"`
}

// ResponseCacheConfig configures the full page response cache.
type ResponseCacheConfig struct {
	Enabled                bool        `mapstructure:"enabled"`
	CacheLifetimeInMinutes int         `mapstructure:"cache_lifetime_in_minutes"`
	Store                  string      `mapstructure:"store"`
	Redis                  RedisConfig `mapstructure:"redis"`
	// PurgeSchedule is a cron expression for sweeping expired memory entries.
	PurgeSchedule        string `mapstructure:"purge_schedule"`
	ClearOnContentChange bool   `mapstructure:"clear_on_content_change"`
}

// RedisConfig holds connection settings for the redis response store.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// FeedsConfig configures syndication output.
type FeedsConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	AtomPath    string `mapstructure:"atom_path"`
	RSSPath     string `mapstructure:"rss_path"`
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig selects and tunes the logger provider.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// DefaultConfig returns a configuration that serves ./posts on :8080 with
// the in-memory response cache disabled.
func DefaultConfig() Config {
	return Config{
		Environment: EnvironmentProduction,
		Site: SiteConfig{
			Title:   "Blog",
			Host:    "localhost",
			BaseURL: "http://localhost:8080",
			Author:  "Anonymous",
		},
		Content: ContentConfig{
			PostsDir: "posts",
			Pattern:  "*.md",
		},
		Markdown: MarkdownConfig{
			Extensions: []string{"gfm", "linkify"},
			SafeMode:   true,
			Highlight: HighlightConfig{
				Enabled: true,
				Style:   "github",
			},
		},
		ResponseCache: ResponseCacheConfig{
			Enabled:                false,
			CacheLifetimeInMinutes: 60 * 24 * 7,
			Store:                  StoreMemory,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "blog:responsecache:",
			},
			PurgeSchedule:        "@every 5m",
			ClearOnContentChange: true,
		},
		Feeds: FeedsConfig{
			Enabled:  true,
			AtomPath: "/feed",
			RSSPath:  "/feed.xml",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate checks cross-field consistency first and then field level rules.
func (cfg Config) Validate() error {
	if cfg.SiteHost() == "" {
		return ErrSiteHostRequired
	}
	if base := strings.TrimSpace(cfg.Site.BaseURL); base != "" {
		parsed, err := url.Parse(base)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%w: %s", ErrSiteBaseURLInvalid, base)
		}
	}
	if strings.TrimSpace(cfg.Content.PostsDir) == "" {
		return ErrPostsDirRequired
	}

	if cfg.ResponseCache.Enabled {
		if cfg.ResponseCache.CacheLifetimeInMinutes <= 0 {
			return fmt.Errorf("%w: %d", ErrCacheLifetimeInvalid, cfg.ResponseCache.CacheLifetimeInMinutes)
		}
		switch store := normalize(cfg.ResponseCache.Store); store {
		case "", StoreMemory:
		case StoreRedis:
			if strings.TrimSpace(cfg.ResponseCache.Redis.Addr) == "" {
				return ErrCacheRedisAddrRequired
			}
		default:
			return fmt.Errorf("%w: %s", ErrCacheStoreUnknown, cfg.ResponseCache.Store)
		}
	}

	if cfg.Feeds.Enabled && strings.TrimSpace(cfg.Feeds.AtomPath) == strings.TrimSpace(cfg.Feeds.RSSPath) {
		return fmt.Errorf("%w: %s", ErrFeedPathsConflict, cfg.Feeds.AtomPath)
	}

	provider := normalize(cfg.Logging.Provider)
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Logging.Provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}

	return cfg.validateFields()
}

func (cfg Config) validateFields() error {
	feeds := cfg.Feeds
	server := cfg.Server
	err := validation.Errors{
		"feeds": validation.ValidateStruct(&feeds,
			validation.Field(&feeds.AtomPath, validation.When(feeds.Enabled, validation.Required, validation.Match(routePathPattern))),
			validation.Field(&feeds.RSSPath, validation.When(feeds.Enabled, validation.Required, validation.Match(routePathPattern))),
		),
		"server": validation.ValidateStruct(&server,
			validation.Field(&server.Addr, validation.Required),
			validation.Field(&server.ReadTimeout, validation.Min(time.Duration(0))),
			validation.Field(&server.WriteTimeout, validation.Min(time.Duration(0))),
			validation.Field(&server.ShutdownTimeout, validation.Min(time.Duration(0))),
		),
	}.Filter()
	if err == nil {
		return nil
	}
	return goerrors.FromOzzoValidation(err, "blog config: invalid fields").
		WithTextCode("CONFIG_INVALID")
}

// SiteHost returns the configured host, falling back to the base url host.
func (cfg Config) SiteHost() string {
	if host := strings.TrimSpace(cfg.Site.Host); host != "" {
		return host
	}
	base := strings.TrimSpace(cfg.Site.BaseURL)
	if base == "" {
		return ""
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

// IsTesting reports whether the module runs inside the test environment.
func (cfg Config) IsTesting() bool {
	return normalize(cfg.Environment) == EnvironmentTesting
}

// CacheLifetime converts the configured lifetime into a duration.
func (cfg ResponseCacheConfig) CacheLifetime() time.Duration {
	if cfg.CacheLifetimeInMinutes <= 0 {
		return 0
	}
	return time.Duration(cfg.CacheLifetimeInMinutes) * time.Minute
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
