// Package poller observes a backend resource until it reaches a terminal status.
//
// The poller never changes a resource. It fetches on a fixed cadence, hands every
// snapshot to the caller in fetch order and classifies what it saw:
//
//   - terminal status (completed or failed): the final snapshot is returned with a nil error;
//   - attempt budget exhausted: the last snapshot is returned with a *TimeoutError;
//   - fetch error: polling stops at once and that error is returned unchanged.
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DefaultInterval         = 5 * time.Second
	DefaultVideoMaxAttempts = 60  // about 5 minutes at the default interval
	DefaultClipMaxAttempts  = 120 // about 10 minutes
)

// ErrTimeout matches every *TimeoutError.
var ErrTimeout = errors.New("polling timeout")

// TimeoutError reports that MaxAttempts fetches saw no terminal status.
type TimeoutError struct {
	ID       string
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("polling timeout: %s still not finished after %d attempts", e.ID, e.Attempts)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// Resource is anything whose status can be classified as terminal.
type Resource interface {
	IsTerminal() bool
}

// Options controls the poll cadence and budget.
type Options struct {
	Interval    time.Duration
	MaxAttempts int
}

// VideoOptions returns the defaults for video analysis.
func VideoOptions() Options {
	return Options{Interval: DefaultInterval, MaxAttempts: DefaultVideoMaxAttempts}
}

// ClipOptions returns the defaults for clip rendering.
func ClipOptions() Options {
	return Options{Interval: DefaultInterval, MaxAttempts: DefaultClipMaxAttempts}
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultVideoMaxAttempts
	}
	return o
}

// Poll calls fetch for id every opts.Interval until the resource is terminal, the
// attempt budget runs out, a fetch fails or ctx is done. onUpdate may be nil.
//
// The first fetch happens one interval after the call. ctx is checked before
// every fetch and before every onUpdate call, so a cancelled caller never
// receives a snapshot after cancellation.
func Poll[T Resource](ctx context.Context, id string, fetch func(ctx context.Context, id string) (T, error), onUpdate func(T), opts Options) (T, error) {
	opts = opts.withDefaults()

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	var last T
	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-ticker.C:
		}
		if err := ctx.Err(); err != nil {
			return last, err
		}

		snapshot, err := fetch(ctx, id)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return last, ctxErr
			}
			return last, err
		}
		last = snapshot

		if err := ctx.Err(); err != nil {
			return last, err
		}
		if onUpdate != nil {
			onUpdate(snapshot)
		}

		if snapshot.IsTerminal() {
			return snapshot, nil
		}

		attempts++
		if attempts >= opts.MaxAttempts {
			return snapshot, &TimeoutError{ID: id, Attempts: attempts}
		}
	}
}
