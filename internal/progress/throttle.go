// Package progress rate-limits download progress forwarded to chat status
// messages and formats the progress snapshots themselves.
package progress

import (
	"sync"
	"time"
)

// DefaultInterval is the minimum spacing between forwarded progress
// updates for one job. Chat platforms throttle message edits aggressively;
// one edit per five seconds keeps well under their limits.
const DefaultInterval = 5 * time.Second

// Throttle bounds how often progress events are surfaced to the user.
// State is keyed by job id so two concurrent jobs from the same requester
// throttle independently.
type Throttle struct {
	interval time.Duration

	mu   sync.Mutex
	last map[string]time.Time
}

// NewThrottle constructs a throttle with the given minimum interval.
// A non-positive interval falls back to DefaultInterval.
func NewThrottle(interval time.Duration) *Throttle {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Throttle{interval: interval, last: make(map[string]time.Time)}
}

// ShouldForward reports whether a progress event for key observed at now
// should be surfaced. The first event for a key always forwards; later
// events forward only once at least the interval has elapsed since the
// last forwarded event. Suppressed events leave the recorded time
// untouched.
func (t *Throttle) ShouldForward(key string, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, seen := t.last[key]
	if seen && now.Sub(last) < t.interval {
		return false
	}
	t.last[key] = now
	return true
}

// Forget drops throttle state for key. Called when a job ends so the map
// does not grow with every job ever run.
func (t *Throttle) Forget(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.last, key)
}
