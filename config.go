package blog

import "github.com/goliatone/go-blog/internal/runtimeconfig"

var (
	ErrSiteHostRequired       = runtimeconfig.ErrSiteHostRequired
	ErrSiteBaseURLInvalid     = runtimeconfig.ErrSiteBaseURLInvalid
	ErrPostsDirRequired       = runtimeconfig.ErrPostsDirRequired
	ErrCacheLifetimeInvalid   = runtimeconfig.ErrCacheLifetimeInvalid
	ErrCacheStoreUnknown      = runtimeconfig.ErrCacheStoreUnknown
	ErrCacheRedisAddrRequired = runtimeconfig.ErrCacheRedisAddrRequired
	ErrFeedPathsConflict      = runtimeconfig.ErrFeedPathsConflict
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config              = runtimeconfig.Config
	SiteConfig          = runtimeconfig.SiteConfig
	ContentConfig       = runtimeconfig.ContentConfig
	MarkdownConfig      = runtimeconfig.MarkdownConfig
	HighlightConfig     = runtimeconfig.HighlightConfig
	ResponseCacheConfig = runtimeconfig.ResponseCacheConfig
	RedisConfig         = runtimeconfig.RedisConfig
	FeedsConfig         = runtimeconfig.FeedsConfig
	ServerConfig        = runtimeconfig.ServerConfig
	LoggingConfig       = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
