package capture

import (
	"sync"
	"time"
)

// Throttle enforces a minimum interval between analyzed frames. Dropping
// frames is a policy of the frame source, not of the analysis core: the
// session tolerates skipped frames, so bursts from the camera are simply
// thinned out here before analysis.
type Throttle struct {
	minInterval time.Duration
	last        time.Time
	mu          sync.Mutex
}

// NewThrottle creates a Throttle with the given minimum inter-frame
// interval. A non-positive interval disables throttling.
func NewThrottle(minInterval time.Duration) *Throttle {
	return &Throttle{minInterval: minInterval}
}

// Allow reports whether a frame observed at now should be analyzed, and
// records it as the most recent accepted frame if so.
func (t *Throttle) Allow(now time.Time) bool {
	if t.minInterval <= 0 {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.last.IsZero() && now.Sub(t.last) < t.minInterval {
		return false
	}
	t.last = now
	return true
}

// Reset forgets the last accepted frame, so the next one is always allowed.
func (t *Throttle) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = time.Time{}
}
