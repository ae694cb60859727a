// pkg/render/engo/camera.go
package engo

import (
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-tankgame/pkg/physics"
	"github.com/opd-ai/go-tankgame/pkg/world"
)

// CameraSystem projects world coordinates into the window. The game camera
// decides what is in view; the system only fits that viewport to the window
// and applies the player's zoom.
type CameraSystem struct {
	view world.Camera

	// Window size in pixels
	width  float32
	height float32

	zoom    float32
	minZoom float32
	maxZoom float32
}

// NewCameraSystem creates a camera system for a window of the given size
func NewCameraSystem(width, height float32) *CameraSystem {
	return &CameraSystem{
		width:   width,
		height:  height,
		zoom:    1.0,
		minZoom: 0.5,
		maxZoom: 2.0,
	}
}

// Add satisfies the ecs.System interface
func (cs *CameraSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(basic ecs.BasicEntity) {
}

// Priority orders the system within the world
func (cs *CameraSystem) Priority() int {
	return cameraPriority
}

// Update handles zoom input
func (cs *CameraSystem) Update(dt float32) {
	if scrollY := engo.Input.Mouse.ScrollY; scrollY != 0 {
		cs.SetZoom(cs.zoom * (1.0 + scrollY*0.1))
	}
	if engo.Input.Button("zoomIn").Down() {
		cs.SetZoom(cs.zoom * 1.02)
	}
	if engo.Input.Button("zoomOut").Down() {
		cs.SetZoom(cs.zoom * 0.98)
	}
	if engo.Input.Button("resetZoom").JustPressed() {
		cs.SetZoom(1.0)
	}
}

// Follow adopts the game camera for the next frame
func (cs *CameraSystem) Follow(view world.Camera) {
	cs.view = view
}

// Resize updates the window size
func (cs *CameraSystem) Resize(width, height float32) {
	cs.width = width
	cs.height = height
}

// Scale returns how many pixels one world unit covers
func (cs *CameraSystem) Scale() float32 {
	if cs.view.Width <= 0 || cs.view.Height <= 0 {
		return cs.zoom
	}
	fit := math.Min(float64(cs.width)/cs.view.Width, float64(cs.height)/cs.view.Height)
	return float32(fit) * cs.zoom
}

// SetZoom sets the camera zoom level
func (cs *CameraSystem) SetZoom(zoom float32) {
	cs.zoom = cs.clampZoom(zoom)
}

// GetZoom returns the current zoom level
func (cs *CameraSystem) GetZoom() float32 {
	return cs.zoom
}

func (cs *CameraSystem) clampZoom(zoom float32) float32 {
	if zoom < cs.minZoom {
		return cs.minZoom
	}
	if zoom > cs.maxZoom {
		return cs.maxZoom
	}
	return zoom
}

// SetZoomLimits sets the minimum and maximum zoom levels
func (cs *CameraSystem) SetZoomLimits(min, max float32) {
	cs.minZoom = min
	cs.maxZoom = max
	cs.zoom = cs.clampZoom(cs.zoom)
}

// WorldToScreen converts a world position to window pixels. The camera
// position maps to the window center.
func (cs *CameraSystem) WorldToScreen(p physics.Vector2D) engo.Point {
	s := cs.Scale()
	return engo.Point{
		X: float32(p.X-cs.view.Position.X)*s + cs.width/2,
		Y: float32(p.Y-cs.view.Position.Y)*s + cs.height/2,
	}
}

// ScreenToWorld converts window pixels to a world position
func (cs *CameraSystem) ScreenToWorld(pt engo.Point) physics.Vector2D {
	s := float64(cs.Scale())
	return physics.Vector2D{
		X: float64(pt.X-cs.width/2)/s + cs.view.Position.X,
		Y: float64(pt.Y-cs.height/2)/s + cs.view.Position.Y,
	}
}

// Visible reports whether a circle at p with the given world radius
// overlaps the window
func (cs *CameraSystem) Visible(p physics.Vector2D, radius float64) bool {
	pt := cs.WorldToScreen(p)
	r := float32(radius) * cs.Scale()
	return pt.X+r >= 0 && pt.X-r <= cs.width && pt.Y+r >= 0 && pt.Y-r <= cs.height
}

// SetupCameraControls sets up camera control key bindings
func SetupCameraControls() {
	engo.Input.RegisterButton("zoomIn", engo.KeyPageUp)
	engo.Input.RegisterButton("zoomOut", engo.KeyPageDown)
	engo.Input.RegisterButton("resetZoom", engo.KeyR)
}
