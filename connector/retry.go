package connector

import (
	"context"
	"time"

	"github.com/Konsultn-Engineering/neodb/database"
)

const (
	defaultRetryDelay = time.Second
	defaultBackoff    = 2.0
)

// retryConnect makes one attempt plus up to opts.MaxRetries retries, sleeping
// with exponential backoff in between.
func retryConnect(ctx context.Context, opts RetryConfig, connectFn func(context.Context) (database.Database, error)) (database.Database, error) {
	delay := opts.BaseDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	backoff := opts.Backoff
	if backoff < 1 {
		backoff = defaultBackoff
	}

	var err error
	for attempt := 0; ; attempt++ {
		var db database.Database
		db, err = connectFn(ctx)
		if err == nil {
			return db, nil
		}
		if attempt >= opts.MaxRetries {
			return nil, err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		delay = time.Duration(float64(delay) * backoff)
		if opts.MaxDelay > 0 && delay > opts.MaxDelay {
			delay = opts.MaxDelay
		}
	}
}
