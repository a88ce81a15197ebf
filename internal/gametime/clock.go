// Package gametime provides the millisecond timestamp sources that drive battles.
package gametime

import (
	"sync"
	"time"
)

// DefaultFrameMs is the frame step used by simulations (about 60 frames per second).
const DefaultFrameMs = 16.0

// Clock is a monotonically increasing timestamp source in milliseconds.
type Clock interface {
	Now() float64
}

// RealClock reports wall-clock milliseconds since it was created.
type RealClock struct {
	startTime time.Time
}

// NewRealClock creates a clock starting at zero
func NewRealClock() *RealClock {
	return &RealClock{startTime: time.Now()}
}

// Now returns milliseconds elapsed since the clock was created.
// time.Since uses the monotonic reading, so wall clock jumps do not affect it.
func (c *RealClock) Now() float64 {
	return float64(time.Since(c.startTime).Microseconds()) / 1000
}

// ManualClock only moves when told to. It is used by tests and the batch
// simulator. Safe for concurrent use.
type ManualClock struct {
	mu  sync.RWMutex
	now float64
}

// NewManualClock creates a manual clock at the given timestamp
func NewManualClock(start float64) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current timestamp
func (c *ManualClock) Now() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Advance moves the clock forward by ms and returns the new timestamp.
// Negative steps are ignored so the clock never runs backwards.
func (c *ManualClock) Advance(ms float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ms > 0 {
		c.now += ms
	}
	return c.now
}

// Set moves the clock to ts if ts is later than the current timestamp
func (c *ManualClock) Set(ts float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ts > c.now {
		c.now = ts
	}
}
