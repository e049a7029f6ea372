// internal/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Defaults applied when the configured rate is not positive
const (
	DefaultRate  = 0.5
	DefaultBurst = 1
)

// Limiter gates page loads before navigation
type Limiter interface {
	Wait(ctx context.Context, rawURL string) error
}

// HostLimiter keeps one token bucket per host so catalog sites on different
// hosts do not slow each other down
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewHostLimiter creates a limiter allowing perSecond page loads per host
func NewHostLimiter(perSecond float64, burst int) *HostLimiter {
	if perSecond <= 0 {
		perSecond = DefaultRate
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

// Wait blocks until a load of rawURL may proceed. URLs without a host are not
// limited; navigation reports them.
func (h *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	host := hostOf(rawURL)
	if host == "" {
		return nil
	}

	l := h.limiter(host)
	if l.Tokens() < 1 {
		log.Debug().Str("host", host).Msg("Rate limited, waiting for token")
	}
	return l.Wait(ctx)
}

// SetLimit overrides the rate for one host. A non-positive burst keeps the
// limiter's default.
func (h *HostLimiter) SetLimit(host string, perSecond float64, burst int) {
	if burst <= 0 {
		burst = h.burst
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	host = strings.ToLower(host)
	if l, ok := h.limiters[host]; ok {
		l.SetLimit(rate.Limit(perSecond))
		l.SetBurst(burst)
		return
	}
	h.limiters[host] = rate.NewLimiter(rate.Limit(perSecond), burst)
}

func (h *HostLimiter) limiter(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()

	l, ok := h.limiters[host]
	if !ok {
		l = rate.NewLimiter(h.limit, h.burst)
		h.limiters[host] = l
	}
	return l
}

// Unlimited never blocks
type Unlimited struct{}

// Wait returns ctx.Err() only
func (Unlimited) Wait(ctx context.Context, _ string) error { return ctx.Err() }

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}
