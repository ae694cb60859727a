// Package validation sanitizes values that cross into the simulation: player
// input, damage amounts and positions produced by arithmetic on untrusted
// tunables. The simulation never returns errors, so bad values are clamped
// here instead.
package validation

import (
	"fmt"
	"math"
	"time"

	"github.com/opd-ai/go-tankgame/pkg/input"
	"github.com/opd-ai/go-tankgame/pkg/physics"
)

// MaxDeltaTime caps the simulated time of a single tick
const MaxDeltaTime = 100 * time.Millisecond

// DeltaTime clamps a tick duration to [0, MaxDeltaTime]
func DeltaTime(dt time.Duration) time.Duration {
	if dt < 0 {
		return 0
	}
	return min(dt, MaxDeltaTime)
}

// Damage clamps a damage amount so it can never heal
func Damage(amount int) int {
	if amount < 0 {
		return 0
	}
	return amount
}

// Axis maps an input axis onto [-1, 1]; NaN becomes 0.
func Axis(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return physics.Clamp(v, -1, 1)
}

// Input returns s with its movement vector sanitized
func Input(s input.State) input.State {
	s.Move = physics.Vector2D{X: Axis(s.Move.X), Y: Axis(s.Move.Y)}
	return s
}

// Vector returns v, or fallback when v has a NaN or infinite component
func Vector(v, fallback physics.Vector2D) physics.Vector2D {
	if v.IsFinite() {
		return v
	}
	return fallback
}

// Fraction clamps v to [0, 1]; NaN becomes 0.
func Fraction(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return physics.Clamp(v, 0, 1)
}

// ValidateViewport rejects a viewport the camera cannot use
func ValidateViewport(width, height float64) error {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return fmt.Errorf("invalid viewport %vx%v: dimensions must be positive and finite", width, height)
	}
	return nil
}
