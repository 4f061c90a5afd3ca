package runtimeconfig_test

import (
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-blog/internal/runtimeconfig"
)

func TestConfigValidate_DefaultsAreValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_RequiresSiteHost(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Site.Host = ""
	cfg.Site.BaseURL = ""

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrSiteHostRequired) {
		t.Fatalf("expected ErrSiteHostRequired, got %v", err)
	}
}

func TestConfigSiteHost_FallsBackToBaseURL(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Site.Host = " "
	cfg.Site.BaseURL = "https://blog.example.com:8443/root"

	if got := cfg.SiteHost(); got != "blog.example.com" {
		t.Fatalf("expected blog.example.com, got %q", got)
	}
}

func TestConfigValidate_RejectsRelativeBaseURL(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Site.BaseURL = "/blog"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrSiteBaseURLInvalid) {
		t.Fatalf("expected ErrSiteBaseURLInvalid, got %v", err)
	}
}

func TestConfigValidate_CacheLifetimeOnlyCheckedWhenEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.ResponseCache.CacheLifetimeInMinutes = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled cache should not validate lifetime: %v", err)
	}

	cfg.ResponseCache.Enabled = true
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrCacheLifetimeInvalid) {
		t.Fatalf("expected ErrCacheLifetimeInvalid, got %v", err)
	}
}

func TestConfigValidate_CacheStore(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.ResponseCache.Enabled = true
	cfg.ResponseCache.Store = "memcached"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrCacheStoreUnknown) {
		t.Fatalf("expected ErrCacheStoreUnknown, got %v", err)
	}

	cfg.ResponseCache.Store = "redis"
	cfg.ResponseCache.Redis.Addr = ""
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrCacheRedisAddrRequired) {
		t.Fatalf("expected ErrCacheRedisAddrRequired, got %v", err)
	}
}

func TestConfigValidate_FeedPathsMustDiffer(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Feeds.RSSPath = cfg.Feeds.AtomPath

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrFeedPathsConflict) {
		t.Fatalf("expected ErrFeedPathsConflict, got %v", err)
	}
}

func TestConfigValidate_FieldRulesReturnValidationCategory(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Feeds.AtomPath = "feed"
	cfg.Server.ShutdownTimeout = -time.Second

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsValidation(err) {
		t.Fatalf("expected validation category, got %v", err)
	}

	var typed *goerrors.Error
	if !goerrors.As(err, &typed) {
		t.Fatalf("expected go-errors value, got %T", err)
	}
	fields := typed.ValidationMap()
	if _, ok := fields["feeds.AtomPath"]; !ok {
		t.Fatalf("expected feeds.AtomPath field error, got %v", fields)
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "syslog"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestResponseCacheConfig_CacheLifetime(t *testing.T) {
	cfg := runtimeconfig.ResponseCacheConfig{CacheLifetimeInMinutes: 60}
	if got := cfg.CacheLifetime(); got != time.Hour {
		t.Fatalf("expected 1h, got %s", got)
	}
	if got := (runtimeconfig.ResponseCacheConfig{}).CacheLifetime(); got != 0 {
		t.Fatalf("expected zero lifetime, got %s", got)
	}
}
