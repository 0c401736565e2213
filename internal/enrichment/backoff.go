package enrichment

import (
	"context"
	"time"
)

// withRetry runs fn up to attempts times with exponential backoff between
// tries (base, 2*base, 4*base, ...). Context cancellation interrupts both
// the wait and further attempts.
func withRetry(ctx context.Context, attempts int, base time.Duration, fn func(context.Context) error) error {
	var err error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(base << (attempt - 1))
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		if err = fn(ctx); err == nil {
			return nil
		}

		if ctx.Err() != nil {
			return err
		}
	}

	return err
}
