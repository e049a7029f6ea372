// Package scrape runs the per-site pipeline: one browser session per site,
// then navigate, scroll, wait for the marker, read and extract for each URL.
package scrape

import (
	"context"
	"errors"
	"time"

	"github.com/law-makers/catalog/internal/cache"
	"github.com/law-makers/catalog/internal/config"
	"github.com/law-makers/catalog/internal/engine"
	"github.com/law-makers/catalog/internal/engine/extract"
	"github.com/law-makers/catalog/internal/engine/scroll"
	"github.com/law-makers/catalog/internal/proxy"
	"github.com/law-makers/catalog/internal/ratelimit"
	"github.com/law-makers/catalog/internal/reqctx"
	"github.com/law-makers/catalog/internal/retry"
	"github.com/law-makers/catalog/internal/selector"
	"github.com/law-makers/catalog/pkg/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EmitFunc receives each page result as soon as it is ready. Returning an
// error stops the run.
type EmitFunc func(*models.PageResult) error

// Options wires the runner's collaborators. Nil Proxies, Limiter and Cache
// disable the corresponding feature.
type Options struct {
	Proxies  *proxy.Pool
	Limiter  ratelimit.Limiter
	Cache    cache.Cache
	CacheTTL time.Duration
	Scroll   scroll.Options
	Retry    retry.Config
}

// Summary counts what happened during one ScrapeSite call
type Summary struct {
	Site       string
	Pages      int
	Products   int
	Cached     int
	MarkerMiss int
	Partial    int
	Degraded   int
}

// Runner scrapes site groups sequentially
type Runner struct {
	sessions engine.SessionFactory
	opts     Options
}

// NewRunner creates a Runner that opens browser sessions with sessions
func NewRunner(sessions engine.SessionFactory, opts Options) *Runner {
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.Unlimited{}
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry = retry.DefaultConfig()
	}
	return &Runner{sessions: sessions, opts: opts}
}

// ScrapeSite processes every URL of site in order. Marker timeouts, partial
// scrolls and markup failures are logged and recorded on the page result;
// failing to start the session or to navigate stops the run.
func (r *Runner) ScrapeSite(ctx context.Context, site *config.Site, emit EmitFunc) (Summary, error) {
	sum := Summary{Site: site.ID}

	if len(site.URLs) == 0 {
		return sum, engine.NewEngineError(engine.ErrCodeNoURLs, "nothing to scrape", engine.ErrNoURLs).
			WithDetail("site", site.ID).
			WithDetail("env", config.SiteEnvKey(site.ID))
	}

	matcher, err := site.Marker.Matcher()
	if err != nil {
		return sum, engine.NewEngineError(engine.ErrCodeValidation, "invalid site marker", err).
			WithDetail("site", site.ID)
	}

	var session engine.Browser
	defer func() {
		if session != nil {
			if err := session.Close(); err != nil {
				log.Warn().Err(err).Str("site", site.ID).Msg("Failed to close browser session")
			}
		}
	}()

	for _, url := range site.URLs {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		pctx := reqctx.WithPage(ctx, site.ID, url)
		page, _ := reqctx.PageFrom(pctx)

		key := pageKey(site.ID, url)
		if cached, ok := r.fromCache(key); ok {
			cached.PageID = page.PageID
			sum.Cached++
			if err := r.record(&sum, cached, emit); err != nil {
				return sum, err
			}
			continue
		}

		if session == nil {
			session, err = r.openSession(pctx)
			if err != nil {
				return sum, reqctx.NewRequestError(pctx, err)
			}
		}

		result, err := r.scrapePage(pctx, session, site, matcher, page)
		if err != nil {
			return sum, reqctx.NewRequestError(pctx, err)
		}

		if r.opts.Cache != nil {
			r.opts.Cache.Set(key, result, r.opts.CacheTTL)
		}
		if err := r.record(&sum, result, emit); err != nil {
			return sum, err
		}
	}

	return sum, nil
}

func (r *Runner) record(sum *Summary, result *models.PageResult, emit EmitFunc) error {
	sum.Pages++
	sum.Products += len(result.Products)
	if !result.MarkerFound {
		sum.MarkerMiss++
	}
	if result.Scroll.Outcome == scroll.BoundExceeded.String() {
		sum.Partial++
	}
	if result.Markup != models.MarkupOK {
		sum.Degraded++
	}
	if emit == nil {
		return nil
	}
	return emit(result)
}

// pageKey scopes cache entries to a site: the same URL extracted with another
// site's marker and layout is a different result.
func pageKey(site, url string) string {
	return site + "|" + cache.KeyFromURL(url)
}

func (r *Runner) fromCache(key string) (*models.PageResult, bool) {
	if r.opts.Cache == nil {
		return nil, false
	}
	hit, ok := r.opts.Cache.Get(key)
	if !ok {
		return nil, false
	}
	cp := *hit
	cp.Products = append([]models.Product(nil), hit.Products...)
	cp.Cached = true
	return &cp, true
}

func (r *Runner) openSession(ctx context.Context) (engine.Browser, error) {
	var via string
	if r.opts.Proxies != nil {
		via = r.opts.Proxies.Next()
	}

	session, err := r.sessions(ctx, via)
	if err != nil {
		if r.opts.Proxies != nil {
			r.opts.Proxies.MarkFailed(via)
		}
		var ee *engine.EngineError
		if errors.As(err, &ee) {
			return nil, err
		}
		return nil, engine.NewEngineError(engine.ErrCodeBrowserStart, "failed to open browser session", err)
	}
	if r.opts.Proxies != nil {
		r.opts.Proxies.MarkHealthy(via)
	}
	return session, nil
}

func (r *Runner) scrapePage(ctx context.Context, b engine.Browser, site *config.Site, m selector.Matcher, page *reqctx.Page) (*models.PageResult, error) {
	logger := log.With().
		Str("site", site.ID).
		Str("url", page.URL).
		Str("page_id", page.PageID).
		Logger()

	result := &models.PageResult{
		PageID:   page.PageID,
		Site:     site.ID,
		URL:      page.URL,
		Products: []models.Product{},
	}

	if err := r.opts.Limiter.Wait(ctx, page.URL); err != nil {
		return nil, err
	}

	start := time.Now()
	logger.Info().Msg("Processing URL")

	err := retry.Do(ctx, r.opts.Retry, func(ctx context.Context) error {
		status, err := b.Navigate(ctx, page.URL)
		result.StatusCode = status
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := r.drainLazyContent(ctx, b, result, logger); err != nil {
		return nil, err
	}

	found, err := b.WaitForMarker(ctx, m)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn().Err(err).Msg("Marker wait failed, extracting anyway")
	} else if !found {
		logger.Warn().
			Str("marker", site.Marker.String()).
			Msg("Marker not found within timeout, extracting anyway")
	}
	result.MarkerFound = found

	markup := b.ReadMarkup(ctx)
	result.Markup = markup.Status()
	switch result.Markup {
	case models.MarkupFailed:
		result.MarkupError = markup.Err.Error()
		logger.Warn().Err(markup.Err).Msg("Markup read failed, no products for this page")
	case models.MarkupEmpty:
		logger.Warn().Msg("Page markup is empty")
	default:
		result.Products = extract.ExtractMarkup(markup.HTML, site.Layout)
	}

	result.FetchedAt = time.Now().UTC()
	result.DurationMS = time.Since(start).Milliseconds()

	logger.Info().
		Int("status", result.StatusCode).
		Int("products", len(result.Products)).
		Int64("duration_ms", result.DurationMS).
		Msg("Page scraped")

	return result, nil
}

// drainLazyContent scrolls until the page settles. A failing scroll script
// degrades to whatever content is already loaded.
func (r *Runner) drainLazyContent(ctx context.Context, b engine.Browser, result *models.PageResult, logger zerolog.Logger) error {
	res, err := scroll.ToStable(ctx, b, r.opts.Scroll)
	result.Scroll = models.ScrollSummary{
		Outcome: res.Outcome.String(),
		Scrolls: res.Scrolls,
		Height:  res.Height,
	}

	switch {
	case err != nil && ctx.Err() != nil:
		return ctx.Err()
	case err != nil:
		result.Scroll.Outcome = "failed"
		logger.Warn().Err(err).Msg("Scrolling failed, continuing with loaded content")
	case res.Outcome == scroll.BoundExceeded:
		logger.Warn().
			Int("scrolls", res.Scrolls).
			Dur("elapsed", res.Elapsed).
			Msg("Page did not stabilize within scroll bounds, content may be partial")
	default:
		logger.Debug().
			Int("scrolls", res.Scrolls).
			Int64("height", res.Height).
			Msg("Page stabilized")
	}
	return nil
}
