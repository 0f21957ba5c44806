package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movvify/internal/models"
	"movvify/internal/utils/logging"
)

var (
	// ErrRateLimited is returned by fetchers when the server answered 429.
	ErrRateLimited = errors.New("rate limited by server")
	// ErrTooManyFailures aborts a batch after MaxConsecutiveFailures.
	ErrTooManyFailures = errors.New("too many consecutive failures")
)

// ItemFetcher downloads one playlist item and returns where it was saved.
type ItemFetcher interface {
	FetchItem(ctx context.Context, item models.PlaylistItem, quality models.Quality) (string, error)
}

// Result summarizes a batch run.
type Result struct {
	Saved   []string
	Aborted bool
}

// Driver downloads playlist items strictly one at a time with adaptive pacing.
type Driver struct {
	Fetcher ItemFetcher
	// Sleep waits between attempts. Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Run fetches every item in order.
//
// The current delay is waited before every attempt except the first. A rate
// limited item is retried with a longer delay; a failed item is retried until
// MaxConsecutiveFailures, which aborts the batch without touching later items.
func (d *Driver) Run(ctx context.Context, items []models.PlaylistItem, quality models.Quality) (Result, error) {
	var res Result
	state := NewBackoff()

	for i, attempt := 0, 0; i < len(items); attempt++ {
		if attempt > 0 {
			logging.D(1, "Waiting %v before next download", state.Delay)
			if err := d.sleep(ctx, state.Delay); err != nil {
				return res, err
			}
		}

		item := items[i]
		logging.I("Downloading %d / %d: %s", i+1, len(items), item.Title)

		path, err := d.Fetcher.FetchItem(ctx, item, quality)
		switch {
		case err == nil:
			state = state.OnSuccess()
			res.Saved = append(res.Saved, path)
			i++

		case errors.Is(err, ErrRateLimited):
			state = state.OnRateLimited()
			logging.W("Rate limited on %q, waiting %v before retrying", item.Title, state.Delay)

		case ctx.Err() != nil:
			return res, ctx.Err()

		default:
			var abort bool
			if state, abort = state.OnFailure(); abort {
				res.Aborted = true
				return res, fmt.Errorf("%w: stopped after %d of %d downloads: %w",
					ErrTooManyFailures, len(res.Saved), len(items), err)
			}
			logging.W("Failed %q (%d in a row), retrying in %v: %v",
				item.Title, state.ConsecutiveFailures, state.Delay, err)
		}
	}

	logging.S("Playlist download complete: %d items saved", len(res.Saved))
	return res, nil
}

func (d *Driver) sleep(ctx context.Context, delay time.Duration) error {
	if d.Sleep != nil {
		return d.Sleep(ctx, delay)
	}

	t := time.NewTimer(delay)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
