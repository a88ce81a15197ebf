// Package antispam limits how fast a single connection may send commands.
package antispam

import (
	"sync"
	"time"
)

// Config holds command rate limit configuration
type Config struct {
	Enabled     bool          // Whether the limit is enforced
	MaxCommands int           // Max commands allowed in the time window
	TimeWindow  time.Duration // Sliding window the limit applies to
}

// DefaultConfig returns sensible defaults for a game client
func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		MaxCommands: 20,
		TimeWindow:  5 * time.Second,
	}
}

// ConfigFromYAML creates a Config from YAML-loaded values. Non-positive
// values keep the defaults.
func ConfigFromYAML(enabled bool, maxCommands, windowSeconds int) Config {
	cfg := DefaultConfig()
	cfg.Enabled = enabled
	if maxCommands > 0 {
		cfg.MaxCommands = maxCommands
	}
	if windowSeconds > 0 {
		cfg.TimeWindow = time.Duration(windowSeconds) * time.Second
	}
	return cfg
}

// Tracker tracks command activity for a single connection
type Tracker struct {
	mu     sync.Mutex
	config Config
	times  []time.Time // Timestamps of accepted commands, oldest first
	now    func() time.Time
}

// NewTracker creates a new tracker with the given config
func NewTracker(config Config) *Tracker {
	return &Tracker{
		config: config,
		times:  make([]time.Time, 0, max(config.MaxCommands, 0)),
		now:    time.Now,
	}
}

// CheckResult contains the result of a rate check
type CheckResult struct {
	Allowed     bool
	Reason      string
	WaitSeconds int // How long to wait before trying again (if not allowed)
}

// Check records a command and reports whether it is allowed. Rejected
// commands do not count against the window.
func (t *Tracker) Check() CheckResult {
	if !t.config.Enabled || t.config.MaxCommands <= 0 {
		return CheckResult{Allowed: true}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.cleanup(now)

	if len(t.times) >= t.config.MaxCommands {
		remaining := t.times[0].Add(t.config.TimeWindow).Sub(now)
		return CheckResult{
			Allowed:     false,
			Reason:      "You're sending commands too quickly. Please slow down.",
			WaitSeconds: int(remaining.Seconds()) + 1,
		}
	}

	t.times = append(t.times, now)
	return CheckResult{Allowed: true}
}

// cleanup drops timestamps that fell out of the window
func (t *Tracker) cleanup(now time.Time) {
	cutoff := now.Add(-t.config.TimeWindow)
	kept := t.times[:0]
	for _, ts := range t.times {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	t.times = kept
}

// Reset clears all tracking data
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.times = t.times[:0]
}
