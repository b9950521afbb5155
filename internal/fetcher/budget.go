package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RequestBudget paces GitHub calls against the primary rate limit.
//
// It never retries: a call that fails still fails. It only delays the next
// call until the window resets or a Retry-After cooldown expires.
type RequestBudget struct {
	mu        sync.Mutex
	remaining int
	reset     time.Time
	now       func() time.Time
	probed    bool
	cooldown  time.Time
	notifyCh  chan struct{}
}

func NewRequestBudget() *RequestBudget {
	return &RequestBudget{
		remaining: 5000,
		reset:     time.Now().Add(1 * time.Hour),
		now:       time.Now,
		notifyCh:  make(chan struct{}),
	}
}

func (b *RequestBudget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remaining
}

// Acquire blocks until one request may be sent or ctx is done.
func (b *RequestBudget) Acquire(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("Acquire: nil context")
	}
	if b == nil {
		return fmt.Errorf("Acquire: nil RequestBudget")
	}
	if b.now == nil || b.notifyCh == nil {
		return fmt.Errorf("Acquire: RequestBudget not initialized (use NewRequestBudget)")
	}

	for {
		b.mu.Lock()
		now := b.now()
		ch := b.notifyCh

		switch {
		case now.Before(b.cooldown):
			until := b.cooldown
			b.mu.Unlock()
			if err := waitUntil(ctx, until.Sub(now), ch); err != nil {
				return err
			}
		case b.remaining > 0:
			b.remaining--
			b.mu.Unlock()
			return nil
		case !now.Before(b.reset):
			// Reset has passed but no refreshed budget was observed yet: allow
			// exactly one probe, then block until UpdateFromResponse.
			if !b.probed {
				b.probed = true
				b.mu.Unlock()
				return nil
			}
			b.mu.Unlock()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ch:
			}
		default:
			reset := b.reset
			b.mu.Unlock()
			if err := waitUntil(ctx, reset.Sub(now), ch); err != nil {
				return err
			}
		}
	}
}

func waitUntil(ctx context.Context, wait time.Duration, notify <-chan struct{}) error {
	if wait < 0 {
		wait = 0
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-notify:
		return nil
	case <-timer.C:
		return nil
	}
}

func (b *RequestBudget) signalLocked() {
	close(b.notifyCh)
	b.notifyCh = make(chan struct{})
}

// UpdateFromResponse folds X-RateLimit-* and Retry-After headers into the budget.
func (b *RequestBudget) UpdateFromResponse(resp *http.Response) {
	if resp == nil || b == nil || b.now == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	changed := false

	if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && seconds > 0 {
		until := b.now().Add(time.Duration(seconds) * time.Second)
		if until.After(b.cooldown) {
			b.cooldown = until
			changed = true
		}
	}

	if val, err := strconv.Atoi(resp.Header.Get("X-RateLimit-Remaining")); err == nil && val >= 0 && b.remaining != val {
		b.remaining = val
		changed = true
	}

	if val, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil && val > 0 {
		newReset := time.Unix(val, 0)
		if !b.reset.Equal(newReset) {
			b.reset = newReset
			changed = true
		}
	}

	if changed {
		b.probed = false
		if b.notifyCh == nil {
			b.notifyCh = make(chan struct{})
		} else {
			b.signalLocked()
		}
	}
}
