package usecase

import (
	"context"
	"time"
)

// sleepCtx blocks for d or until the context is done. Rate-limit and
// backoff delays go through here so a cancelled request stops waiting.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
