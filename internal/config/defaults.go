package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel           = "warn"
	DefaultJSONLog            = false
	DefaultUserAgent          = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	DefaultNavigationTimeout  = 30 * time.Second
	DefaultMarkerTimeout      = 10 * time.Second
	DefaultScrollPause        = 2 * time.Second
	DefaultScrollMaxAttempts  = 50
	DefaultScrollMaxDuration  = 2 * time.Minute
	DefaultNavigationAttempts = 1
	DefaultMaxAttempts        = 10
	DefaultRateLimitRPS       = 0.5
	DefaultRateLimitBurst     = 1
	DefaultHeadless           = true
	DefaultCacheTTL           = 10 * time.Minute
	DefaultCacheMaxSizeBytes  = 32 * 1024 * 1024 // 32MB
	DefaultFormat             = "text"
	DefaultSite               = "loi"
)

// Formats accepted by --format
var Formats = []string{"text", "json", "csv", "markdown"}
