package bootstrap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-blog"
)

// EnvPrefix namespaces environment overrides, e.g. BLOG_SITE_HOST.
const EnvPrefix = "BLOG"

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// File is an explicit config file. When empty blog.yaml is looked up in
	// SearchPaths and a missing file is not an error.
	File        string
	SearchPaths []string
}

// LoadConfig layers defaults, the config file and BLOG_ environment
// variables, in that order. It returns the file used, if any.
func LoadConfig(opts LoadOptions) (blog.Config, string, error) {
	v := viper.New()
	setDefaults(v, blog.DefaultConfig())

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		paths := opts.SearchPaths
		if len(paths) == 0 {
			paths = []string{"."}
		}
		for _, p := range paths {
			v.AddConfigPath(p)
		}
		v.SetConfigName("blog")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	used := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || opts.File != "" {
			return blog.Config{}, "", fmt.Errorf("read config: %w", err)
		}
	} else {
		used = v.ConfigFileUsed()
	}

	var cfg blog.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return blog.Config{}, used, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return blog.Config{}, used, err
	}
	return cfg, used, nil
}

// setDefaults registers every leaf key so environment overrides are seen by
// Unmarshal.
func setDefaults(v *viper.Viper, cfg blog.Config) {
	v.SetDefault("environment", cfg.Environment)

	v.SetDefault("site.title", cfg.Site.Title)
	v.SetDefault("site.description", cfg.Site.Description)
	v.SetDefault("site.host", cfg.Site.Host)
	v.SetDefault("site.base_url", cfg.Site.BaseURL)
	v.SetDefault("site.author", cfg.Site.Author)
	v.SetDefault("site.author_handle", cfg.Site.AuthorHandle)

	v.SetDefault("content.posts_dir", cfg.Content.PostsDir)
	v.SetDefault("content.pattern", cfg.Content.Pattern)
	v.SetDefault("content.watch", cfg.Content.Watch)

	v.SetDefault("markdown.extensions", cfg.Markdown.Extensions)
	v.SetDefault("markdown.hard_wraps", cfg.Markdown.HardWraps)
	v.SetDefault("markdown.safe_mode", cfg.Markdown.SafeMode)
	v.SetDefault("markdown.sanitize", cfg.Markdown.Sanitize)
	v.SetDefault("markdown.highlight.enabled", cfg.Markdown.Highlight.Enabled)
	v.SetDefault("markdown.highlight.style", cfg.Markdown.Highlight.Style)

	rc := cfg.ResponseCache
	v.SetDefault("response_cache.enabled", rc.Enabled)
	v.SetDefault("response_cache.cache_lifetime_in_minutes", rc.CacheLifetimeInMinutes)
	v.SetDefault("response_cache.store", rc.Store)
	v.SetDefault("response_cache.redis.addr", rc.Redis.Addr)
	v.SetDefault("response_cache.redis.password", rc.Redis.Password)
	v.SetDefault("response_cache.redis.db", rc.Redis.DB)
	v.SetDefault("response_cache.redis.prefix", rc.Redis.Prefix)
	v.SetDefault("response_cache.purge_schedule", rc.PurgeSchedule)
	v.SetDefault("response_cache.clear_on_content_change", rc.ClearOnContentChange)

	v.SetDefault("feeds.enabled", cfg.Feeds.Enabled)
	v.SetDefault("feeds.atom_path", cfg.Feeds.AtomPath)
	v.SetDefault("feeds.rss_path", cfg.Feeds.RSSPath)
	v.SetDefault("feeds.title", cfg.Feeds.Title)
	v.SetDefault("feeds.description", cfg.Feeds.Description)

	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", cfg.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)

	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.focus", cfg.Logging.Focus)
}
