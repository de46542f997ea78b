package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/hamed0406/heartbeat/internal/domain"
)

// RetryProber retries a failed probe up to Attempts times in total, waiting
// Backoff between attempts. All attempts share the caller's deadline.
type RetryProber struct {
	Inner    Prober
	Attempts int
	Backoff  time.Duration
}

func (r *RetryProber) Probe(ctx context.Context, k domain.Kind) error {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 1; i <= attempts; i++ {
		if err = r.Inner.Probe(ctx, k); err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		t := time.NewTimer(r.Backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("%w (after %d attempts)", err, i)
		case <-t.C:
		}
	}
	if attempts > 1 {
		return fmt.Errorf("%w (after %d attempts)", err, attempts)
	}
	return err
}
