package proxy

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultCooldown is how long a failed proxy is skipped
const DefaultCooldown = 5 * time.Minute

// Pool hands out proxies round-robin, one per browser session, skipping
// proxies that recently failed to start a session
type Pool struct {
	mu       sync.Mutex
	proxies  []string
	next     int
	failed   map[string]time.Time
	cooldown time.Duration
	now      func() time.Time
}

// NewPool creates a Pool. An empty list yields a pool that always returns "".
func NewPool(proxies []string) *Pool {
	return &Pool{
		proxies:  proxies,
		failed:   make(map[string]time.Time),
		cooldown: DefaultCooldown,
		now:      time.Now,
	}
}

// Len returns the number of configured proxies
func (p *Pool) Len() int {
	return len(p.proxies)
}

// Next returns the next healthy proxy. When every proxy is cooling down the
// one that failed longest ago is returned.
func (p *Pool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return ""
	}

	now := p.now()
	oldest, oldestAt := -1, time.Time{}
	for i := 0; i < len(p.proxies); i++ {
		idx := (p.next + i) % len(p.proxies)
		proxy := p.proxies[idx]

		failedAt, ok := p.failed[proxy]
		if ok && now.Sub(failedAt) < p.cooldown {
			if oldest < 0 || failedAt.Before(oldestAt) {
				oldest, oldestAt = idx, failedAt
			}
			continue
		}
		delete(p.failed, proxy)
		p.next = (idx + 1) % len(p.proxies)
		return proxy
	}

	log.Warn().Int("proxies", len(p.proxies)).Msg("All proxies are cooling down")
	p.next = (oldest + 1) % len(p.proxies)
	return p.proxies[oldest]
}

// MarkFailed puts proxy on cooldown
func (p *Pool) MarkFailed(proxy string) {
	if proxy == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed[proxy] = p.now()
	log.Debug().Str("proxy", proxy).Msg("Proxy marked failed")
}

// MarkHealthy clears the cooldown of proxy
func (p *Pool) MarkHealthy(proxy string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failed, proxy)
}

// Validate checks that every entry is a host:port or a URL with an
// http, https, socks5 or socks5h scheme
func Validate(proxies []string) error {
	for _, raw := range proxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return fmt.Errorf("empty proxy entry")
		}
		candidate := raw
		if !strings.Contains(candidate, "://") {
			candidate = "http://" + candidate
		}
		u, err := url.Parse(candidate)
		if err != nil {
			return fmt.Errorf("invalid proxy %q: %w", raw, err)
		}
		switch u.Scheme {
		case "http", "https", "socks5", "socks5h":
		default:
			return fmt.Errorf("invalid proxy %q: unsupported scheme %q", raw, u.Scheme)
		}
		if u.Hostname() == "" {
			return fmt.Errorf("invalid proxy %q: missing host", raw)
		}
	}
	return nil
}
