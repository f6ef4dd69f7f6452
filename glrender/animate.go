package glrender

import (
	"errors"
	"time"
)

// DefaultFPS is the default redraw rate cap.
const DefaultFPS = 30

// FrameLimiter caps the redraw rate of a render loop driven by a faster
// scheduling tick. The sub-interval remainder of each accepted tick is carried
// over so the long run rate does not drift below the target.
type FrameLimiter struct {
	interval time.Duration
	last     time.Duration
}

// NewFrameLimiter returns a FrameLimiter that accepts at most fps ticks per second.
func NewFrameLimiter(fps int) (*FrameLimiter, error) {
	if fps <= 0 {
		return nil, errors.New("frame rate must be positive")
	}
	return &FrameLimiter{interval: time.Second / time.Duration(fps)}, nil
}

// Interval returns the minimum time between accepted ticks.
func (fl *FrameLimiter) Interval() time.Duration { return fl.interval }

// Tick reports whether a frame should be drawn at time now, measured from
// an arbitrary fixed origin such as program start.
func (fl *FrameLimiter) Tick(now time.Duration) bool {
	delta := now - fl.last
	if delta < fl.interval {
		return false
	}
	fl.last = now - delta%fl.interval
	return true
}
