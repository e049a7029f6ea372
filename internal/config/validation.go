package config

import (
	"fmt"
	"strings"

	"github.com/law-makers/catalog/internal/proxy"
	"github.com/law-makers/catalog/internal/selector"
	urlutil "github.com/law-makers/catalog/internal/utils/url"
)

func validate(c *Config) error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.NavigationTimeout <= 0 {
		return fmt.Errorf("navigation timeout must be > 0")
	}
	if c.MarkerTimeout <= 0 {
		return fmt.Errorf("marker timeout must be > 0")
	}
	if c.ScrollPause < 0 {
		return fmt.Errorf("scroll pause must be >= 0")
	}
	if c.ScrollMaxAttempts < 0 || c.ScrollMaxDuration < 0 {
		return fmt.Errorf("scroll bounds must be >= 0")
	}
	if c.ScrollMaxAttempts == 0 && c.ScrollMaxDuration == 0 {
		return fmt.Errorf("at least one of max-scrolls or scroll-budget must be > 0")
	}
	if c.NavigationAttempts < 1 || c.NavigationAttempts > DefaultMaxAttempts {
		return fmt.Errorf("attempts must be between 1 and %d", DefaultMaxAttempts)
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("rate must be > 0")
	}
	if c.RateLimitBurst <= 0 {
		return fmt.Errorf("burst must be > 0")
	}
	if c.CacheMaxSizeBytes <= 0 {
		return fmt.Errorf("cache max size must be > 0")
	}
	if !validFormat(c.Format) {
		return fmt.Errorf("unknown format %q (want one of %s)", c.Format, strings.Join(Formats, ", "))
	}
	if err := proxy.Validate(c.Proxies); err != nil {
		return err
	}

	if _, ok := c.Sites[c.DefaultSite]; !ok {
		return fmt.Errorf("default site %q is not configured", c.DefaultSite)
	}
	for _, id := range c.SiteOrder {
		if err := validateSite(c.Sites[id]); err != nil {
			return fmt.Errorf("site %s: %w", id, err)
		}
	}
	return nil
}

func validateSite(s *Site) error {
	if s.Rate < 0 || s.Burst < 0 {
		return fmt.Errorf("rate and burst must not be negative")
	}
	for _, u := range s.URLs {
		if err := urlutil.ValidateURL(u); err != nil {
			return fmt.Errorf("%s: %w", u, err)
		}
	}

	kind, err := selector.ParseKind(string(s.Marker.Kind))
	if s.Marker.Kind == "" {
		kind, err = selector.KindCSS, nil
	}
	if err != nil {
		return fmt.Errorf("marker: %w", err)
	}
	s.Marker.Kind = kind
	if _, err := s.Marker.Matcher(); err != nil {
		return fmt.Errorf("marker: %w", err)
	}

	return s.Layout.Validate()
}

func validFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}
