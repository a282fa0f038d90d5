// Package bootstrap holds the startup connection policy for the record
// store. Only the initial connection retries; once a store is handed out,
// every operation failure surfaces to its caller verbatim.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"jobcore/internal/recordstore"
)

// Defaults for Connect when the caller passes zero values.
const (
	DefaultAttempts = 3
	DefaultDelay    = time.Second
)

// Connect calls open up to attempts times, waiting delay between failures.
// It returns the first store obtained, or the last failure wrapped with the
// attempt count. Cancelling ctx stops the wait early.
func Connect(ctx context.Context, attempts int, delay time.Duration, open func(context.Context) (recordstore.Store, error)) (recordstore.Store, error) {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
		store, err := open(ctx)
		if err == nil {
			return store, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("connect storage after %d attempts: %w", attempts, lastErr)
}
