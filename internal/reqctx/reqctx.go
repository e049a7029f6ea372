package reqctx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

type key int

const (
	runKey key = iota
	pageKey
)

// Run identifies one invocation of the scraper
type Run struct {
	RunID     string
	StartTime time.Time
}

// Page identifies one URL being processed within a run
type Page struct {
	PageID    string
	Site      string
	URL       string
	StartTime time.Time
}

// WithRun attaches a fresh Run to ctx
func WithRun(ctx context.Context) context.Context {
	return context.WithValue(ctx, runKey, &Run{
		RunID:     generateID(),
		StartTime: time.Now(),
	})
}

// RunFrom returns the Run in ctx, or a placeholder when none is set
func RunFrom(ctx context.Context) *Run {
	if r, ok := ctx.Value(runKey).(*Run); ok {
		return r
	}
	return &Run{RunID: "unknown", StartTime: time.Now()}
}

// WithPage attaches a fresh Page for site and url to ctx
func WithPage(ctx context.Context, site, url string) context.Context {
	return context.WithValue(ctx, pageKey, &Page{
		PageID:    generateID(),
		Site:      site,
		URL:       url,
		StartTime: time.Now(),
	})
}

// PageFrom returns the Page in ctx, if any
func PageFrom(ctx context.Context) (*Page, bool) {
	p, ok := ctx.Value(pageKey).(*Page)
	return p, ok
}

func generateID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// RequestError tags an error with the run and, when known, the page it came from
type RequestError struct {
	RunID  string
	PageID string
	Err    error
}

// Error implements the error interface
func (e *RequestError) Error() string {
	if e.PageID != "" {
		return fmt.Sprintf("[%s/%s] %v", e.RunID, e.PageID, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.RunID, e.Err)
}

// Unwrap returns the underlying error
func (e *RequestError) Unwrap() error {
	return e.Err
}

// NewRequestError wraps err with the identifiers found in ctx
func NewRequestError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	re := &RequestError{RunID: RunFrom(ctx).RunID, Err: err}
	if p, ok := PageFrom(ctx); ok {
		re.PageID = p.PageID
	}
	return re
}
