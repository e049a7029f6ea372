// Package app wires configuration, logging and the scrape pipeline together.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/law-makers/catalog/internal/cache"
	"github.com/law-makers/catalog/internal/config"
	"github.com/law-makers/catalog/internal/engine"
	"github.com/law-makers/catalog/internal/engine/dynamic"
	"github.com/law-makers/catalog/internal/engine/scroll"
	"github.com/law-makers/catalog/internal/proxy"
	"github.com/law-makers/catalog/internal/ratelimit"
	"github.com/law-makers/catalog/internal/retry"
	"github.com/law-makers/catalog/internal/scrape"
	"github.com/law-makers/catalog/internal/ui"
	urlutil "github.com/law-makers/catalog/internal/utils/url"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once per command and closed when the command returns.
type Application struct {
	Config  *config.Config
	Logger  *zerolog.Logger
	Cache   *cache.PageCache
	Limiter *ratelimit.HostLimiter
	Proxies *proxy.Pool
	Runner  *scrape.Runner

	startTime time.Time
}

// Option customizes New
type Option func(*options)

type options struct {
	sessions engine.SessionFactory
	logOut   io.Writer
}

// WithSessionFactory replaces the Chrome-backed session factory
func WithSessionFactory(f engine.SessionFactory) Option {
	return func(o *options) { o.sessions = f }
}

// WithLogOutput sends logs to w instead of stderr
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOut = w }
}

// New creates and initializes a new Application with all dependencies.
//
// It configures the global logger, then builds the page cache, the per-host
// limiter, the proxy pool and the scrape runner. No browser is started until
// the first page is scraped.
func New(cfg *config.Config, opts ...Option) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	o := options{logOut: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	logger := SetupLogging(cfg, o.logOut)

	if o.sessions == nil {
		o.sessions = chromeSessions(cfg)
	}

	pageCache := cache.New(cfg.CacheMaxSizeBytes)
	limiter := ratelimit.NewHostLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	applySiteLimits(cfg, limiter)
	proxies := proxy.NewPool(cfg.Proxies)

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.NavigationAttempts

	runner := scrape.NewRunner(o.sessions, scrape.Options{
		Proxies:  proxies,
		Limiter:  limiter,
		Cache:    pageCache,
		CacheTTL: cfg.CacheTTL,
		Scroll: scroll.Options{
			Pause:       cfg.ScrollPause,
			MaxScrolls:  cfg.ScrollMaxAttempts,
			MaxDuration: cfg.ScrollMaxDuration,
		},
		Retry: retryCfg,
	})

	logger.Debug().
		Float64("rate", cfg.RateLimitRPS).
		Int("proxies", proxies.Len()).
		Int("attempts", cfg.NavigationAttempts).
		Dur("marker_timeout", cfg.MarkerTimeout).
		Msg("Application initialized")

	return &Application{
		Config:    cfg,
		Logger:    logger,
		Cache:     pageCache,
		Limiter:   limiter,
		Proxies:   proxies,
		Runner:    runner,
		startTime: time.Now(),
	}, nil
}

// SetupLogging points the global zerolog logger at w using the configured
// level and format, and returns it
func SetupLogging(cfg *config.Config, w io.Writer) *zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.JSONLog {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
	} else {
		cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
		if f, ok := w.(*os.File); ok {
			cw.NoColor = !ui.ColorEnabled(f)
		} else {
			cw.NoColor = true
		}
		log.Logger = zerolog.New(cw).With().Timestamp().Logger()
	}

	logger := log.Logger
	logger.Debug().
		Str("level", level.String()).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")
	return &logger
}

// applySiteLimits gives the hosts of sites with their own rate a dedicated
// bucket. Hosts shared by several overriding sites take the last one.
func applySiteLimits(cfg *config.Config, limiter *ratelimit.HostLimiter) {
	for _, id := range cfg.SiteIDs() {
		s, _ := cfg.Site(id)
		if s.Rate <= 0 {
			continue
		}
		for _, u := range s.URLs {
			host := urlutil.Host(u)
			if host == "" {
				continue
			}
			limiter.SetLimit(host, s.Rate, s.Burst)
			log.Debug().
				Str("site", id).
				Str("host", host).
				Float64("rate", s.Rate).
				Msg("Site rate override")
		}
	}
}

// chromeSessions opens a dynamic.Controller per session
func chromeSessions(cfg *config.Config) engine.SessionFactory {
	return func(ctx context.Context, via string) (engine.Browser, error) {
		c, err := dynamic.NewController(ctx, dynamic.Options{
			Headless:          cfg.Headless,
			UserAgent:         cfg.UserAgent,
			Proxy:             via,
			ChromePath:        cfg.ChromePath,
			Headers:           cfg.Headers,
			NavigationTimeout: cfg.NavigationTimeout,
			MarkerTimeout:     cfg.MarkerTimeout,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// Close releases application resources and logs cache statistics
func (a *Application) Close() error {
	if a == nil {
		return nil
	}
	stats := a.Cache.Stats()
	a.Logger.Debug().
		Int("cache_entries", stats.Entries).
		Uint64("cache_hits", stats.Hits).
		Float64("cache_hit_rate", stats.HitRate()).
		Dur("uptime", a.Uptime()).
		Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
