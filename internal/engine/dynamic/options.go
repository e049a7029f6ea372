package dynamic

import (
	"time"

	"github.com/chromedp/chromedp"
)

// Defaults for a catalog browsing session
const (
	DefaultMarkerTimeout     = 10 * time.Second
	DefaultNavigationTimeout = 30 * time.Second
	DefaultAcceptLanguage    = "es-ES,es;q=0.9"
	DefaultWindowSize        = "1920,1080"
)

// Options configures a browser session
type Options struct {
	Headless          bool
	UserAgent         string
	Proxy             string
	ChromePath        string
	AcceptLanguage    string
	Headers           map[string]string
	NavigationTimeout time.Duration
	MarkerTimeout     time.Duration
}

func (o Options) withDefaults() Options {
	if o.NavigationTimeout <= 0 {
		o.NavigationTimeout = DefaultNavigationTimeout
	}
	if o.MarkerTimeout <= 0 {
		o.MarkerTimeout = DefaultMarkerTimeout
	}
	if o.AcceptLanguage == "" {
		o.AcceptLanguage = DefaultAcceptLanguage
	}
	return o
}

// allocatorOptions builds the Chrome command line. enable-automation must
// stay absent.
func allocatorOptions(o Options) []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-web-security", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.Flag("allow-running-insecure-content", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("log-level", "3"),
		chromedp.Flag("lang", "es-ES"),
		chromedp.Flag("window-size", DefaultWindowSize),
	}

	if o.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(o.UserAgent))
	}

	if path := FindChrome(o.ChromePath); path != "" {
		opts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(path)}, opts...)
	}

	if o.Headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	if o.Proxy != "" {
		opts = append(opts, chromedp.ProxyServer(o.Proxy))
	} else {
		opts = append(opts, chromedp.Flag("no-proxy-server", true))
	}

	return opts
}
