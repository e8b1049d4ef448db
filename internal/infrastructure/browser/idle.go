package browser

import (
	"context"
	"sync"
	"time"
)

const idlePollInterval = 50 * time.Millisecond

// idleTracker counts in-flight requests and remembers when the count last
// changed.
type idleTracker struct {
	mu         sync.Mutex
	inflight   map[string]struct{}
	lastChange time.Time
	now        func() time.Time
	poll       time.Duration
}

func newIdleTracker() *idleTracker {
	return &idleTracker{
		inflight:   make(map[string]struct{}),
		lastChange: time.Now(),
		now:        time.Now,
		poll:       idlePollInterval,
	}
}

func (t *idleTracker) start(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.inflight[id]; ok {
		return
	}
	t.inflight[id] = struct{}{}
	t.lastChange = t.now()
}

func (t *idleTracker) done(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.inflight[id]; !ok {
		return
	}
	delete(t.inflight, id)
	t.lastChange = t.now()
}

func (t *idleTracker) inFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inflight)
}

// idleFor is zero while any request is in flight.
func (t *idleTracker) idleFor() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.inflight) > 0 {
		return 0
	}
	return t.now().Sub(t.lastChange)
}

// wait blocks until the network has been idle for window or ctx ends.
func (t *idleTracker) wait(ctx context.Context, window time.Duration) error {
	ticker := time.NewTicker(t.poll)
	defer ticker.Stop()
	for {
		if t.idleFor() >= window {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
