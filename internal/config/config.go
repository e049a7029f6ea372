package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/law-makers/catalog/internal/engine/extract"
	"github.com/law-makers/catalog/internal/selector"
	urlutil "github.com/law-makers/catalog/internal/utils/url"
	"github.com/spf13/cobra"
)

// Site is one entry of the site table: the URLs of a catalog, the marker that
// confirms a page has loaded and the product layout
type Site struct {
	ID     string            `yaml:"-"`
	URLs   []string          `yaml:"urls"`
	Marker selector.Selector `yaml:"marker"`
	Layout extract.Layout    `yaml:"layout"`

	// Rate and Burst override the global per-host limit for this site's hosts
	Rate  float64 `yaml:"rate"`
	Burst int     `yaml:"burst"`
}

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// Browser
	NavigationTimeout time.Duration
	MarkerTimeout     time.Duration
	UserAgent         string
	Proxies           []string
	Headers           map[string]string
	Headless          bool
	ChromePath        string

	// Scrolling
	ScrollPause       time.Duration
	ScrollMaxAttempts int
	ScrollMaxDuration time.Duration

	// Navigation pacing
	NavigationAttempts int
	RateLimitRPS       float64
	RateLimitBurst     int

	// Caching
	CacheTTL          time.Duration
	CacheMaxSizeBytes int64

	// Output
	Format   string
	Progress bool

	// Sites
	DefaultSite string
	SiteOrder   []string
	Sites       map[string]*Site
}

// Site returns the site with the given id
func (c *Config) Site(id string) (*Site, bool) {
	s, ok := c.Sites[strings.ToLower(id)]
	return s, ok
}

// SiteIDs returns site ids in table order
func (c *Config) SiteIDs() []string {
	return append([]string(nil), c.SiteOrder...)
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{
		LogLevel:           DefaultLogLevel,
		JSONLog:            DefaultJSONLog,
		NavigationTimeout:  DefaultNavigationTimeout,
		MarkerTimeout:      DefaultMarkerTimeout,
		UserAgent:          DefaultUserAgent,
		Headers:            map[string]string{},
		Headless:           DefaultHeadless,
		ScrollPause:        DefaultScrollPause,
		ScrollMaxAttempts:  DefaultScrollMaxAttempts,
		ScrollMaxDuration:  DefaultScrollMaxDuration,
		NavigationAttempts: DefaultNavigationAttempts,
		RateLimitRPS:       DefaultRateLimitRPS,
		RateLimitBurst:     DefaultRateLimitBurst,
		CacheTTL:           DefaultCacheTTL,
		CacheMaxSizeBytes:  DefaultCacheMaxSizeBytes,
		Format:             DefaultFormat,
		DefaultSite:        DefaultSite,
		Sites:              map[string]*Site{},
	}
	for _, s := range defaultSites() {
		cfg.addSite(s)
	}
	return cfg
}

func defaultSites() []*Site {
	return []*Site{
		{ID: "loi", Marker: selector.Selector{Kind: selector.KindCSS, Value: ".parent-element-loi"}},
		{ID: "covercompany", Marker: selector.Selector{Kind: selector.KindXPath, Value: `//*[@id="parent-element-covercompany"]`}},
		{ID: "amw", Marker: selector.Selector{Kind: selector.KindID, Value: "parent-element-amw"}},
	}
}

func (c *Config) addSite(s *Site) {
	s.ID = strings.ToLower(s.ID)
	s.Layout = s.Layout.Merge(extract.DefaultLayout())
	if _, exists := c.Sites[s.ID]; !exists {
		c.SiteOrder = append(c.SiteOrder, s.ID)
	}
	c.Sites[s.ID] = s
}

// Load builds a Config by combining defaults, an optional YAML file,
// environment variables and CLI flags, in that order of precedence.
// Caller should pass the executing *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	return load(cmd, os.LookupEnv)
}

func load(cmd *cobra.Command, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	path := ""
	if v, ok := lookup("CATALOG_CONFIG"); ok {
		path = v
	}
	if cmd != nil {
		if f := cmd.Flags().Lookup("config"); f != nil && f.Value.String() != "" {
			path = f.Value.String()
		}
	}
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	if cmd != nil {
		if err := cfg.applyFlags(cmd); err != nil {
			return nil, err
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SiteEnvKey returns the variable holding a site's URL list, e.g. LOI_URLS
func SiteEnvKey(id string) string {
	return strings.ToUpper(strings.ReplaceAll(id, "-", "_")) + "_URLS"
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	for _, id := range c.SiteOrder {
		if v, ok := lookup(SiteEnvKey(id)); ok {
			c.Sites[id].URLs = urlutil.SplitList(v)
		}
	}

	// USER_AGENT is the historical name, CATALOG_USER_AGENT wins over it
	if v, ok := lookup("USER_AGENT"); ok && v != "" {
		c.UserAgent = v
	}
	if v, ok := lookup("CATALOG_USER_AGENT"); ok && v != "" {
		c.UserAgent = v
	}
	if v, ok := lookup("CATALOG_PROXY"); ok {
		c.Proxies = urlutil.SplitList(v)
	}
	if v, ok := lookup("CATALOG_CHROME_PATH"); ok && v != "" {
		c.ChromePath = v
	}
	if v, ok := lookup("CATALOG_DEFAULT_SITE"); ok && v != "" {
		c.DefaultSite = strings.ToLower(v)
	}
	if v, ok := lookup("CATALOG_HEADLESS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid CATALOG_HEADLESS %q: %w", v, err)
		}
		c.Headless = b
	}
	return nil
}
