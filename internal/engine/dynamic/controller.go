// internal/engine/dynamic/controller.go
package dynamic

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/law-makers/catalog/internal/engine"
	"github.com/law-makers/catalog/internal/selector"
	"github.com/law-makers/catalog/pkg/models"
	"github.com/rs/zerolog/log"
)

const (
	scrollHeightJS = `document.body.scrollHeight`
	scrollByJS     = `window.scrollBy(0, window.innerHeight)`
)

// Controller owns one headless Chrome tab and implements engine.Browser
type Controller struct {
	opts Options

	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc

	mu     sync.Mutex
	status int64
	closed bool
}

var _ engine.Browser = (*Controller)(nil)

// NewController launches Chrome and prepares the tab. Failing to start the
// browser is fatal for the caller.
func NewController(ctx context.Context, opts Options) (*Controller, error) {
	opts = opts.withDefaults()
	start := time.Now()

	log.Debug().
		Bool("headless", opts.Headless).
		Str("proxy", opts.Proxy).
		Msg("Starting browser session")

	// The allocator outlives ctx; the session ends on Close.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocatorOptions(opts)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	c := &Controller{
		opts:          opts,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
	}

	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		if e, ok := ev.(*network.EventResponseReceived); ok && e.Type == network.ResourceTypeDocument {
			c.mu.Lock()
			if c.status == 0 {
				c.status = e.Response.Status
			}
			c.mu.Unlock()
		}
	})

	headers := network.Headers{"Accept-Language": opts.AcceptLanguage}
	for k, v := range opts.Headers {
		headers[k] = v
	}

	// The first Run allocates the browser and must not carry a deadline,
	// so cancellation of ctx is forwarded by hand.
	stop := context.AfterFunc(ctx, browserCancel)
	err := chromedp.Run(browserCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(headers),
	)
	stop()
	if err != nil {
		browserCancel()
		allocCancel()
		return nil, engine.NewEngineError(engine.ErrCodeBrowserStart, "failed to start browser", err)
	}

	log.Debug().Dur("elapsed", time.Since(start)).Msg("Browser session ready")
	return c, nil
}

// Navigate loads url and waits for the load event
func (c *Controller) Navigate(ctx context.Context, url string) (int, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.status = 0
	c.mu.Unlock()

	rctx, done := c.runCtx(ctx, c.opts.NavigationTimeout)
	defer done()

	start := time.Now()
	if err := chromedp.Run(rctx, chromedp.Navigate(url)); err != nil {
		code := engine.ErrCodeNavigation
		if errors.Is(err, context.DeadlineExceeded) {
			code = engine.ErrCodeTimeout
		}
		return 0, engine.NewEngineError(code, "failed to load page", err).
			WithDetail("url", url).
			WithRetry()
	}

	c.mu.Lock()
	status := int(c.status)
	c.mu.Unlock()

	log.Debug().
		Str("url", url).
		Int("status", status).
		Dur("elapsed", time.Since(start)).
		Msg("Navigation complete")

	return status, nil
}

// ScrollHeight returns document.body.scrollHeight
func (c *Controller) ScrollHeight(ctx context.Context) (int64, error) {
	if err := c.checkOpen(); err != nil {
		return 0, err
	}
	rctx, done := c.runCtx(ctx, c.opts.NavigationTimeout)
	defer done()

	var height int64
	if err := chromedp.Run(rctx, chromedp.Evaluate(scrollHeightJS, &height)); err != nil {
		return 0, engine.NewEngineError(engine.ErrCodeScript, "failed to read scroll height", err)
	}
	return height, nil
}

// ScrollByViewport scrolls down one window height
func (c *Controller) ScrollByViewport(ctx context.Context) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	rctx, done := c.runCtx(ctx, c.opts.NavigationTimeout)
	defer done()

	if err := chromedp.Run(rctx, chromedp.Evaluate(scrollByJS, nil)); err != nil {
		return engine.NewEngineError(engine.ErrCodeScript, "failed to scroll", err)
	}
	return nil
}

// WaitForMarker waits up to the marker budget for m to be present in the DOM
func (c *Controller) WaitForMarker(ctx context.Context, m selector.Matcher) (bool, error) {
	if err := c.checkOpen(); err != nil {
		return false, err
	}
	rctx, done := c.runCtx(ctx, 0)
	defer done()

	found, err := waitWithin(rctx, c.opts.MarkerTimeout, func(wctx context.Context) error {
		return chromedp.Run(wctx, chromedp.WaitReady(m.Expression(), m.QueryOption()))
	})

	log.Debug().
		Str("kind", string(m.Kind())).
		Str("marker", m.Expression()).
		Bool("found", found).
		Msg("Marker wait finished")

	return found, err
}

// ReadMarkup returns the outer HTML of the document. Failures are reported in
// the result, not returned as errors.
func (c *Controller) ReadMarkup(ctx context.Context) models.Markup {
	if err := c.checkOpen(); err != nil {
		return models.Markup{Err: err}
	}
	rctx, done := c.runCtx(ctx, c.opts.NavigationTimeout)
	defer done()

	var markup string
	if err := chromedp.Run(rctx, chromedp.OuterHTML("html", &markup, chromedp.ByQuery)); err != nil {
		log.Warn().Err(err).Msg("An error occurred while obtaining the HTML")
		return models.Markup{Err: engine.NewEngineError(engine.ErrCodeMarkupRead, "failed to read page markup", err)}
	}
	return models.Markup{HTML: markup}
}

// Close shuts the tab and the browser process. Calls after the first are no-ops.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	err := chromedp.Cancel(c.browserCtx)
	c.browserCancel()
	c.allocCancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	log.Debug().Msg("Browser session closed")
	return nil
}

func (c *Controller) checkOpen() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return engine.ErrSessionClosed
	}
	return nil
}

// runCtx derives a chromedp context from the tab, bounded by timeout when
// positive and cancelled together with the caller's ctx.
func (c *Controller) runCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	var rctx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		rctx, cancel = context.WithTimeout(c.browserCtx, timeout)
	} else {
		rctx, cancel = context.WithCancel(c.browserCtx)
	}
	stop := context.AfterFunc(ctx, cancel)
	return rctx, func() {
		stop()
		cancel()
	}
}
