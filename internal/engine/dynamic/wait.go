package dynamic

import (
	"context"
	"errors"
	"time"
)

// waitWithin runs wait under a budget. It reports (true, nil) when wait
// returns nil, (false, nil) when only the budget expired, and the error
// otherwise, including cancellation of ctx itself.
func waitWithin(ctx context.Context, budget time.Duration, wait func(context.Context) error) (bool, error) {
	wctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	err := wait(wctx)
	switch {
	case err == nil:
		return true, nil
	case ctx.Err() != nil:
		return false, ctx.Err()
	case errors.Is(err, context.DeadlineExceeded) || wctx.Err() != nil:
		return false, nil
	default:
		return false, err
	}
}
