package entity

import "time"

// Cooldown is a ready/cooling timer. A started cooldown becomes ready once at
// least Duration of ticks has elapsed.
type Cooldown struct {
	Duration  time.Duration
	Remaining time.Duration
}

// NewCooldown creates a ready cooldown of the given length
func NewCooldown(d time.Duration) Cooldown {
	return Cooldown{Duration: d}
}

// Ready reports whether the timer has run out
func (c *Cooldown) Ready() bool {
	return c.Remaining <= 0
}

// Start begins a full cooldown
func (c *Cooldown) Start() {
	c.Remaining = c.Duration
}

// Tick advances the timer by dt
func (c *Cooldown) Tick(dt time.Duration) {
	if c.Remaining <= 0 {
		return
	}
	c.Remaining -= dt
	if c.Remaining < 0 {
		c.Remaining = 0
	}
}

// Reset makes the cooldown ready immediately
func (c *Cooldown) Reset() {
	c.Remaining = 0
}

// Progress returns how far the cooldown has recovered, from 0 to 1
func (c *Cooldown) Progress() float64 {
	if c.Duration <= 0 || c.Remaining <= 0 {
		return 1
	}
	return 1 - float64(c.Remaining)/float64(c.Duration)
}
