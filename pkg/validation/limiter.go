package validation

import (
	"time"

	"github.com/opd-ai/go-tankgame/pkg/input"
)

// ActionLimiter drops repeats of the same one-shot action arriving within
// window of the last accepted one. Terminals deliver key auto-repeat as new
// presses, which would otherwise flip toggles back and forth.
type ActionLimiter struct {
	window time.Duration
	last   map[input.Action]time.Time
}

// NewActionLimiter creates a limiter with the given repeat window
func NewActionLimiter(window time.Duration) *ActionLimiter {
	return &ActionLimiter{
		window: window,
		last:   make(map[input.Action]time.Time),
	}
}

// Allow reports whether action may fire at now and records it if so
func (l *ActionLimiter) Allow(action input.Action, now time.Time) bool {
	if last, ok := l.last[action]; ok && now.Sub(last) < l.window {
		return false
	}
	l.last[action] = now
	return true
}

// Filter removes throttled bits from actions
func (l *ActionLimiter) Filter(actions input.Action, now time.Time) input.Action {
	var out input.Action
	for bit := input.Action(1); bit != 0 && bit <= actions; bit <<= 1 {
		if actions&bit != 0 && l.Allow(bit, now) {
			out |= bit
		}
	}
	return out
}

// Reset forgets every recorded action
func (l *ActionLimiter) Reset() {
	clear(l.last)
}
