// pkg/entity/entity.go
package entity

import (
	"github.com/opd-ai/go-tankgame/pkg/physics"
)

// ID is a unique identifier for an entity within one run
type ID uint64

// IDSource hands out monotonically increasing IDs. Each store owns one and
// resets it on restart, so there is no process-wide counter.
type IDSource struct {
	next ID
}

// Next returns a fresh ID
func (s *IDSource) Next() ID {
	s.next++
	return s.next
}

// Reset restarts numbering
func (s *IDSource) Reset() {
	s.next = 0
}

// Entity is the common view of anything with a position and a hit circle
type Entity interface {
	GetID() ID
	GetPosition() physics.Vector2D
	GetCollider() physics.Circle
}

// BaseEntity contains common functionality for all entities
type BaseEntity struct {
	ID       ID
	Position physics.Vector2D
	Velocity physics.Vector2D
	Rotation float64
	Collider physics.Circle
	Active   bool
}

// GetID returns the entity's unique identifier
func (e *BaseEntity) GetID() ID {
	return e.ID
}

// GetPosition returns the entity's position
func (e *BaseEntity) GetPosition() physics.Vector2D {
	return e.Position
}

// GetCollider returns the entity's collision shape at its current position
func (e *BaseEntity) GetCollider() physics.Circle {
	return physics.Circle{
		Center: e.Position,
		Radius: e.Collider.Radius,
	}
}

// Move advances the entity by one tick of its velocity
func (e *BaseEntity) Move() {
	e.Position = e.Position.Add(e.Velocity)
	e.Collider.Center = e.Position
}

// Nearest returns the entity closest to from that lies strictly within
// maxRange. Ties keep the earliest entity.
func Nearest[E Entity](list []E, from physics.Vector2D, maxRange float64) (E, bool) {
	var best E
	found := false
	bestDist := maxRange
	for _, e := range list {
		if d := e.GetPosition().Distance(from); d < bestDist {
			best, bestDist, found = e, d, true
		}
	}
	return best, found
}

// removeAt deletes index i from s, keeping order
func removeAt[T any](s []T, i int) []T {
	copy(s[i:], s[i+1:])
	var zero T
	s[len(s)-1] = zero
	return s[:len(s)-1]
}
