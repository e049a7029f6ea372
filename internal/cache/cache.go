// internal/cache/cache.go
package cache

import (
	"container/list"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/law-makers/catalog/pkg/models"
	"github.com/rs/zerolog/log"
)

// Default limits for a PageCache
const (
	DefaultMaxSize = 32 * 1024 * 1024
	DefaultTTL     = 10 * time.Minute
)

// Cache stores page results for URLs already scraped during a run
type Cache interface {
	Get(key string) (*models.PageResult, bool)
	Set(key string, page *models.PageResult, ttl time.Duration)
	Len() int
}

type entry struct {
	key       string
	page      *models.PageResult
	size      int64
	expiresAt time.Time
}

// PageCache is an in-memory LRU of page results bounded by an estimated byte size
type PageCache struct {
	mu      sync.Mutex
	items   map[string]*list.Element
	order   *list.List
	maxSize int64
	size    int64
	now     func() time.Time

	hits   uint64
	misses uint64
}

// Stats is a snapshot of cache counters
type Stats struct {
	Entries int
	Size    int64
	MaxSize int64
	Hits    uint64
	Misses  uint64
}

// HitRate returns hits as a percentage of lookups
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// New creates a PageCache. Expired entries are dropped lazily on access and
// when room is needed.
func New(maxSizeBytes int64) *PageCache {
	if maxSizeBytes <= 0 {
		maxSizeBytes = DefaultMaxSize
	}
	return &PageCache{
		items:   make(map[string]*list.Element),
		order:   list.New(),
		maxSize: maxSizeBytes,
		now:     time.Now,
	}
}

// Get returns the cached result for key and marks it most recently used
func (c *PageCache) Get(key string) (*models.PageResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}

	e := el.Value.(*entry)
	if c.now().After(e.expiresAt) {
		c.removeElement(el)
		c.misses++
		return nil, false
	}

	c.order.MoveToFront(el)
	c.hits++
	log.Debug().Str("key", key).Msg("Cache hit")
	return e.page, true
}

// Set stores page under key, evicting least recently used entries when the
// size bound would be exceeded
func (c *PageCache) Set(key string, page *models.PageResult, ttl time.Duration) {
	if page == nil {
		return
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}

	e := &entry{
		key:       key,
		page:      page,
		size:      estimateSize(page),
		expiresAt: c.now().Add(ttl),
	}

	c.pruneExpired()
	for c.size+e.size > c.maxSize && c.order.Len() > 0 {
		oldest := c.order.Back()
		log.Debug().Str("key", oldest.Value.(*entry).key).Msg("Evicted from cache (LRU)")
		c.removeElement(oldest)
	}

	c.items[key] = c.order.PushFront(e)
	c.size += e.size

	log.Debug().
		Str("key", key).
		Dur("ttl", ttl).
		Int64("size_bytes", e.size).
		Msg("Cached page result")
}

// Len returns the number of live entries
func (c *PageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns a snapshot of the cache counters
func (c *PageCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Entries: c.order.Len(),
		Size:    c.size,
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
	}
}

// must be called with the lock held
func (c *PageCache) removeElement(el *list.Element) {
	e := el.Value.(*entry)
	c.order.Remove(el)
	delete(c.items, e.key)
	c.size -= e.size
}

// must be called with the lock held
func (c *PageCache) pruneExpired() {
	now := c.now()
	var next *list.Element
	for el := c.order.Front(); el != nil; el = next {
		next = el.Next()
		if now.After(el.Value.(*entry).expiresAt) {
			c.removeElement(el)
		}
	}
}

// estimateSize approximates the retained bytes of a page result
func estimateSize(p *models.PageResult) int64 {
	size := int64(512 + len(p.URL) + len(p.Site) + len(p.PageID) + len(p.MarkupError))
	for _, pr := range p.Products {
		size += int64(128 + len(pr.ImageURL) + len(pr.HotSaleLabel) + len(pr.Price) +
			len(pr.Currency) + len(pr.Discount) + len(pr.ProductURL) + len(pr.NameAndDescription))
	}
	return size
}

// KeyFromURL normalizes a URL into a cache key. Scheme and host are lowercased
// and the fragment is dropped; unparsable input is returned trimmed.
func KeyFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
