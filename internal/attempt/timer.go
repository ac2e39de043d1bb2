package attempt

import "sync"

// Advisory warning thresholds in seconds remaining. Each fires once per
// attempt; below criticalBelow every tick is flagged critical.
const (
	warnAt5Min    = 300
	warnAt1Min    = 60
	criticalBelow = 10
)

// Tick is the outcome of one timer second.
type Tick struct {
	Remaining int
	Warning   bool // one-shot advisory at 300s and 60s remaining
	Critical  bool // every tick below 10s remaining
	Expired   bool
}

// Countdown tracks the remaining seconds of a timed attempt. It only holds
// the arithmetic; the Runner drives it from a ticker goroutine, and tests
// drive it directly.
type Countdown struct {
	mu        sync.Mutex
	total     int
	remaining int
	warned    map[int]bool
	expired   bool
}

// NewCountdown builds a countdown of the given total seconds. A zero or
// negative total produces a disabled countdown that never ticks.
func NewCountdown(seconds int) *Countdown {
	if seconds < 0 {
		seconds = 0
	}
	return &Countdown{
		total:     seconds,
		remaining: seconds,
		warned:    make(map[int]bool),
	}
}

// Enabled reports whether the attempt is timed at all.
func (c *Countdown) Enabled() bool {
	return c.total > 0
}

// Total returns the configured attempt length in seconds.
func (c *Countdown) Total() int {
	return c.total
}

// Remaining returns the seconds left.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Tick advances the countdown by one second. Once expired it keeps
// reporting expiry without going negative, so a straggling ticker cannot
// re-trigger anything.
func (c *Countdown) Tick() Tick {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.Enabled() || c.expired {
		return Tick{Remaining: c.remaining, Expired: c.expired}
	}

	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		c.expired = true
		return Tick{Remaining: 0, Expired: true}
	}

	t := Tick{Remaining: c.remaining}
	if (c.remaining == warnAt5Min || c.remaining == warnAt1Min) && !c.warned[c.remaining] {
		c.warned[c.remaining] = true
		t.Warning = true
	}
	if c.remaining < criticalBelow {
		t.Critical = true
	}
	return t
}
