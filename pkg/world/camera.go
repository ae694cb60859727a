// Package world holds the camera and the procedurally generated ground the
// tank drives over.
package world

import (
	"math"

	"github.com/opd-ai/go-tankgame/pkg/physics"
)

// Bounds optionally clamps the camera center
type Bounds struct {
	Enabled    bool
	MinX, MaxX float64
	MinY, MaxY float64
}

// Camera follows a target with exponential smoothing and converts between
// world and screen coordinates. Screen coordinates have the viewport center
// at the camera position.
type Camera struct {
	Position   physics.Vector2D
	Smoothness float64
	Width      float64
	Height     float64
	Bounds     Bounds
}

// NewCamera creates a camera for a viewport of the given size
func NewCamera(width, height, smoothness float64) *Camera {
	return &Camera{
		Width:      width,
		Height:     height,
		Smoothness: smoothness,
	}
}

// Update moves the camera a fixed fraction of the remaining distance to target.
func (c *Camera) Update(target physics.Vector2D) {
	c.Position = physics.LerpVector(c.Position, target, c.Smoothness)
	c.clamp()
}

// SetPosition snaps the camera to p
func (c *Camera) SetPosition(p physics.Vector2D) {
	c.Position = p
	c.clamp()
}

// SetViewport resizes the visible area
func (c *Camera) SetViewport(width, height float64) {
	c.Width = width
	c.Height = height
}

// SetBounds limits the camera center to the given box
func (c *Camera) SetBounds(enabled bool, minX, maxX, minY, maxY float64) {
	c.Bounds = Bounds{Enabled: enabled, MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY}
	c.clamp()
}

func (c *Camera) clamp() {
	if !c.Bounds.Enabled {
		return
	}
	c.Position.X = physics.Clamp(c.Position.X, c.Bounds.MinX, c.Bounds.MaxX)
	c.Position.Y = physics.Clamp(c.Position.Y, c.Bounds.MinY, c.Bounds.MaxY)
}

// WorldToScreen converts a world position to viewport pixels
func (c *Camera) WorldToScreen(p physics.Vector2D) physics.Vector2D {
	return physics.Vector2D{
		X: p.X - c.Position.X + c.Width/2,
		Y: p.Y - c.Position.Y + c.Height/2,
	}
}

// ScreenToWorld converts viewport pixels to a world position
func (c *Camera) ScreenToWorld(p physics.Vector2D) physics.Vector2D {
	return physics.Vector2D{
		X: p.X + c.Position.X - c.Width/2,
		Y: p.Y + c.Position.Y - c.Height/2,
	}
}

// OnScreen reports whether p is within margin pixels of the viewport.
func (c *Camera) OnScreen(p physics.Vector2D, margin float64) bool {
	s := c.WorldToScreen(p)
	return s.X >= -margin && s.X <= c.Width+margin &&
		s.Y >= -margin && s.Y <= c.Height+margin
}

// MaxDimension returns the larger side of the viewport
func (c *Camera) MaxDimension() float64 {
	return math.Max(c.Width, c.Height)
}

// DistanceTo returns the distance from the camera center to p
func (c *Camera) DistanceTo(p physics.Vector2D) float64 {
	return c.Position.Distance(p)
}
