package engine

import (
	"context"

	"github.com/law-makers/catalog/internal/selector"
	"github.com/law-makers/catalog/pkg/models"
)

// Browser is a single browser session driven one call at a time.
// Implementations are not safe for concurrent use.
type Browser interface {
	// Navigate loads url and returns the main document HTTP status (0 if unknown)
	Navigate(ctx context.Context, url string) (int, error)

	// ScrollHeight returns the current scrollable height of the page body
	ScrollHeight(ctx context.Context) (int64, error)

	// ScrollByViewport scrolls the window down by one viewport height
	ScrollByViewport(ctx context.Context) error

	// WaitForMarker blocks until the marker appears or the marker budget runs out.
	// A timeout is reported as (false, nil).
	WaitForMarker(ctx context.Context, m selector.Matcher) (bool, error)

	// ReadMarkup returns the serialized page; it never panics or aborts the run
	ReadMarkup(ctx context.Context) models.Markup

	// Close releases the session
	Close() error
}

// SessionFactory opens a new Browser session routed through proxy ("" for direct)
type SessionFactory func(ctx context.Context, proxy string) (Browser, error)
