// Package scroll drains lazy-loaded page content by scrolling until the page
// height stops changing.
package scroll

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Scroller is the part of a browser session the loop drives
type Scroller interface {
	ScrollHeight(ctx context.Context) (int64, error)
	ScrollByViewport(ctx context.Context) error
}

// Outcome is how the loop ended
type Outcome int

const (
	// Stabilized means two consecutive height reads were equal
	Stabilized Outcome = iota

	// BoundExceeded means the attempt or time bound ran out first; the page
	// content may be partial
	BoundExceeded
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	switch o {
	case Stabilized:
		return "stabilized"
	case BoundExceeded:
		return "bound_exceeded"
	default:
		return "unknown"
	}
}

// Options bounds the loop. At least one of MaxScrolls and MaxDuration should be
// positive; with neither set the loop only ends on convergence.
type Options struct {
	Pause       time.Duration
	MaxScrolls  int
	MaxDuration time.Duration

	// Sleep and Now default to real time when nil
	Sleep func(ctx context.Context, d time.Duration) error
	Now   func() time.Time
}

// Result summarizes a finished loop
type Result struct {
	Outcome Outcome
	Scrolls int
	Height  int64
	Elapsed time.Duration
}

// ToStable scrolls one viewport at a time, pausing after each scroll, until the
// measured height repeats or a bound in opts is reached. Errors come only from
// the Scroller or from ctx.
func ToStable(ctx context.Context, s Scroller, opts Options) (Result, error) {
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	start := now()
	res := Result{}

	last, err := s.ScrollHeight(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to read scroll height: %w", err)
	}
	res.Height = last

	for {
		if opts.MaxScrolls > 0 && res.Scrolls >= opts.MaxScrolls {
			res.Outcome = BoundExceeded
			break
		}
		if opts.MaxDuration > 0 && now().Sub(start) >= opts.MaxDuration {
			res.Outcome = BoundExceeded
			break
		}

		if err := s.ScrollByViewport(ctx); err != nil {
			res.Elapsed = now().Sub(start)
			return res, fmt.Errorf("failed to scroll: %w", err)
		}
		res.Scrolls++

		if err := sleep(ctx, opts.Pause); err != nil {
			res.Elapsed = now().Sub(start)
			return res, err
		}

		height, err := s.ScrollHeight(ctx)
		if err != nil {
			res.Elapsed = now().Sub(start)
			return res, fmt.Errorf("failed to read scroll height: %w", err)
		}
		res.Height = height

		if height == last {
			res.Outcome = Stabilized
			break
		}

		log.Debug().
			Int64("previous", last).
			Int64("height", height).
			Int("scrolls", res.Scrolls).
			Msg("Page grew after scroll")
		last = height
	}

	res.Elapsed = now().Sub(start)
	return res, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
