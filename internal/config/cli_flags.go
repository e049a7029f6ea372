package config

import (
	"fmt"
	"strings"

	"github.com/law-makers/catalog/internal/utils/headers"
	"github.com/spf13/cobra"
)

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	pf := cmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.BoolP("quiet", "q", false, "Suppress all output except errors")
	pf.Bool("json", false, "Write logs as JSON")
	pf.String("config", "", "Path to a YAML configuration file (optional)")

	pf.Duration("timeout", DefaultNavigationTimeout, "Navigation timeout per page")
	pf.String("user-agent", "", "Custom user agent string")
	pf.StringSlice("proxy", nil, "HTTP/SOCKS5 proxies, rotated per site session (comma separated)")
	pf.StringArrayP("header", "H", nil, "Extra request header \"Key: Value\" (repeatable)")
	pf.Bool("headless", DefaultHeadless, "Run Chrome headless")
	pf.String("chrome-path", "", "Path to the Chrome/Chromium executable")

	pf.Duration("scroll-pause", DefaultScrollPause, "Pause between scrolls")
	pf.Int("max-scrolls", DefaultScrollMaxAttempts, "Maximum scrolls per page (0 = bounded by --scroll-budget only)")
	pf.Duration("scroll-budget", DefaultScrollMaxDuration, "Maximum time spent scrolling a page (0 = bounded by --max-scrolls only)")
	pf.Duration("marker-timeout", DefaultMarkerTimeout, "How long to wait for the site marker")
	pf.Int("attempts", DefaultNavigationAttempts, "Navigation attempts per URL")
	pf.Float64("rate", DefaultRateLimitRPS, "Page loads per second per host")

	pf.StringP("format", "f", DefaultFormat, "Output format: "+strings.Join(Formats, ", "))
	pf.Bool("progress", false, "Show a progress bar on stderr")
}

// applyFlags copies every flag the user set explicitly
func (c *Config) applyFlags(cmd *cobra.Command) error {
	fs := cmd.Flags()
	changed := func(name string) bool {
		f := fs.Lookup(name)
		return f != nil && f.Changed
	}

	var err error
	if changed("verbose") {
		if v, _ := fs.GetBool("verbose"); v {
			c.LogLevel = "debug"
		}
	}
	if changed("quiet") {
		if v, _ := fs.GetBool("quiet"); v {
			c.LogLevel = "error"
		}
	}
	if changed("json") {
		c.JSONLog, _ = fs.GetBool("json")
	}
	if changed("timeout") {
		if c.NavigationTimeout, err = fs.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if changed("user-agent") {
		c.UserAgent, _ = fs.GetString("user-agent")
	}
	if changed("proxy") {
		c.Proxies, _ = fs.GetStringSlice("proxy")
	}
	if changed("header") {
		lines, _ := fs.GetStringArray("header")
		parsed, err := headers.Parse(lines)
		if err != nil {
			return fmt.Errorf("invalid --header: %w", err)
		}
		for k, v := range parsed {
			c.Headers[k] = v
		}
	}
	if changed("headless") {
		c.Headless, _ = fs.GetBool("headless")
	}
	if changed("chrome-path") {
		c.ChromePath, _ = fs.GetString("chrome-path")
	}
	if changed("scroll-pause") {
		c.ScrollPause, _ = fs.GetDuration("scroll-pause")
	}
	if changed("max-scrolls") {
		c.ScrollMaxAttempts, _ = fs.GetInt("max-scrolls")
	}
	if changed("scroll-budget") {
		c.ScrollMaxDuration, _ = fs.GetDuration("scroll-budget")
	}
	if changed("marker-timeout") {
		c.MarkerTimeout, _ = fs.GetDuration("marker-timeout")
	}
	if changed("attempts") {
		c.NavigationAttempts, _ = fs.GetInt("attempts")
	}
	if changed("rate") {
		c.RateLimitRPS, _ = fs.GetFloat64("rate")
	}
	if changed("format") {
		c.Format, _ = fs.GetString("format")
	}
	if changed("progress") {
		c.Progress, _ = fs.GetBool("progress")
	}
	return nil
}
