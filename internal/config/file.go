package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML file. Pointer fields distinguish "unset" from
// zero values so a file only overrides what it names.
type fileConfig struct {
	DefaultSite   string            `yaml:"default_site"`
	UserAgent     string            `yaml:"user_agent"`
	Proxies       []string          `yaml:"proxies"`
	Headers       map[string]string `yaml:"headers"`
	Headless      *bool             `yaml:"headless"`
	ChromePath    string            `yaml:"chrome_path"`
	Timeout       *time.Duration    `yaml:"timeout"`
	MarkerTimeout *time.Duration    `yaml:"marker_timeout"`
	Attempts      *int              `yaml:"attempts"`
	Rate          *float64          `yaml:"rate"`
	Burst         *int              `yaml:"burst"`
	Format        string            `yaml:"format"`

	Scroll struct {
		Pause      *time.Duration `yaml:"pause"`
		MaxScrolls *int           `yaml:"max_scrolls"`
		Budget     *time.Duration `yaml:"budget"`
	} `yaml:"scroll"`

	Cache struct {
		TTL          *time.Duration `yaml:"ttl"`
		MaxSizeBytes *int64         `yaml:"max_size_bytes"`
	} `yaml:"cache"`

	Sites yaml.Node `yaml:"sites"`
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := c.applyYAML(data); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyYAML(data []byte) error {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	if fc.DefaultSite != "" {
		c.DefaultSite = strings.ToLower(fc.DefaultSite)
	}
	if fc.UserAgent != "" {
		c.UserAgent = fc.UserAgent
	}
	if len(fc.Proxies) > 0 {
		c.Proxies = fc.Proxies
	}
	for k, v := range fc.Headers {
		c.Headers[k] = v
	}
	if fc.Headless != nil {
		c.Headless = *fc.Headless
	}
	if fc.ChromePath != "" {
		c.ChromePath = fc.ChromePath
	}
	if fc.Timeout != nil {
		c.NavigationTimeout = *fc.Timeout
	}
	if fc.MarkerTimeout != nil {
		c.MarkerTimeout = *fc.MarkerTimeout
	}
	if fc.Attempts != nil {
		c.NavigationAttempts = *fc.Attempts
	}
	if fc.Rate != nil {
		c.RateLimitRPS = *fc.Rate
	}
	if fc.Burst != nil {
		c.RateLimitBurst = *fc.Burst
	}
	if fc.Format != "" {
		c.Format = fc.Format
	}
	if fc.Scroll.Pause != nil {
		c.ScrollPause = *fc.Scroll.Pause
	}
	if fc.Scroll.MaxScrolls != nil {
		c.ScrollMaxAttempts = *fc.Scroll.MaxScrolls
	}
	if fc.Scroll.Budget != nil {
		c.ScrollMaxDuration = *fc.Scroll.Budget
	}
	if fc.Cache.TTL != nil {
		c.CacheTTL = *fc.Cache.TTL
	}
	if fc.Cache.MaxSizeBytes != nil {
		c.CacheMaxSizeBytes = *fc.Cache.MaxSizeBytes
	}

	return c.applySites(&fc.Sites)
}

// applySites walks the sites mapping in document order so the listing keeps
// the order the file uses
func (c *Config) applySites(node *yaml.Node) error {
	if node.Kind == 0 {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("sites must be a mapping of site id to site")
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		id := strings.ToLower(strings.TrimSpace(node.Content[i].Value))
		if id == "" {
			return fmt.Errorf("site at line %d has an empty id", node.Content[i].Line)
		}

		var s Site
		if err := node.Content[i+1].Decode(&s); err != nil {
			return fmt.Errorf("site %s: %w", id, err)
		}

		if existing, ok := c.Sites[id]; ok {
			if len(s.URLs) > 0 {
				existing.URLs = s.URLs
			}
			if s.Marker.Value != "" {
				existing.Marker = s.Marker
			}
			existing.Layout = s.Layout.Merge(existing.Layout)
			if s.Rate != 0 {
				existing.Rate = s.Rate
			}
			if s.Burst != 0 {
				existing.Burst = s.Burst
			}
			continue
		}

		s.ID = id
		c.addSite(&s)
	}
	return nil
}
