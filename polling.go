package client

import (
	"context"
	"fmt"
	"time"
)

// pollUntilDone repeatedly fetches job status until evaluate reports completion, fetch fails,
// ctx is cancelled, or timeout elapses. The timeout is checked before every fetch, so a zero
// timeout never issues more than one poll. Fetch errors are returned immediately.
// Each wait starts after the previous fetch returns, so slow polls are never issued back to back.
func pollUntilDone[T any](ctx context.Context, operation string, timeout, interval time.Duration,
	fetch func(context.Context) (*T, error),
	evaluate func(*T) (bool, error),
) (*T, int, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	start := time.Now()

	polls := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, polls, fmt.Errorf("waiting for %s cancelled: %w", operation, err)
		}

		if elapsed := time.Since(start); elapsed > timeout {
			return nil, polls, &TimeoutError{
				Family:  operation,
				Timeout: timeout,
				Elapsed: elapsed,
				Polls:   polls,
			}
		}

		result, err := fetch(ctx)
		polls++
		if err != nil {
			return nil, polls, err
		}

		done, evalErr := evaluate(result)
		if evalErr != nil {
			return nil, polls, evalErr
		}
		if done {
			return result, polls, nil
		}

		if err := waitForNextPoll(ctx, interval, operation); err != nil {
			return nil, polls, err
		}
	}
}

// waitForNextPoll sleeps for interval or until ctx is cancelled.
func waitForNextPoll(ctx context.Context, interval time.Duration, operation string) error {
	timer := time.NewTimer(interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("waiting for %s cancelled: %w", operation, ctx.Err())
	case <-timer.C:
		return nil
	}
}
