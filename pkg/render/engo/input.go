// pkg/render/engo/input.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-tankgame/pkg/input"
)

// binding ties a registered engo button to a game key. Held keys follow the
// button state; the others fire once per press.
type binding struct {
	button string
	key    input.Key
	held   bool
	keys   []engo.Key
}

var bindings = []binding{
	{"up", input.KeyUp, true, []engo.Key{engo.KeyW, engo.KeyArrowUp}},
	{"down", input.KeyDown, true, []engo.Key{engo.KeyS, engo.KeyArrowDown}},
	{"left", input.KeyLeft, true, []engo.Key{engo.KeyA, engo.KeyArrowLeft}},
	{"right", input.KeyRight, true, []engo.Key{engo.KeyD, engo.KeyArrowRight}},
	{"fire", input.KeyFire, true, []engo.Key{engo.KeySpace}},
	{"start", input.KeyStart, false, []engo.Key{engo.KeyEnter}},
	{"fuel", input.KeyFuel, false, []engo.Key{engo.KeyF}},
	{"electricWave", input.KeyElectricWave, false, []engo.Key{engo.KeyE}},
	{"missile", input.KeyMissile, false, []engo.Key{engo.KeyOne}},
	{"bulletTime", input.KeyBulletTime, false, []engo.Key{engo.KeyT}},
	{"autoShoot", input.KeyAutoShoot, false, []engo.Key{engo.KeyZ}},
	{"autoAim", input.KeyAutoAim, false, []engo.Key{engo.KeyX}},
	{"quit", input.KeyQuit, false, []engo.Key{engo.KeyEscape, engo.KeyQ}},
}

// ButtonReader reports whether a named button is down and whether it went
// down this frame
type ButtonReader func(name string) (down, justPressed bool)

// EngoButtons reads the global engo input manager
func EngoButtons(name string) (bool, bool) {
	b := engo.Input.Button(name)
	return b.Down(), b.JustPressed()
}

// InputSystem samples the window's buttons once per frame and exposes them
// as an input.Source
type InputSystem struct {
	buttons ButtonReader
	keys    *input.Keyboard
}

// NewInputSystem creates a new input system
func NewInputSystem(buttons ButtonReader) *InputSystem {
	return &InputSystem{
		buttons: buttons,
		keys:    input.NewKeyboard(1),
	}
}

// Add satisfies the ecs.System interface
func (is *InputSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {
}

// Priority orders the system within the world
func (is *InputSystem) Priority() int {
	return inputPriority
}

// Update samples the buttons
func (is *InputSystem) Update(dt float32) {
	for _, b := range bindings {
		down, pressed := is.buttons(b.button)
		switch {
		case b.held && down:
			is.keys.Hold(b.key)
		case b.held:
			is.keys.Release(b.key)
		case pressed:
			is.keys.Press(b.key)
		}
	}
}

// Poll implements input.Source
func (is *InputSystem) Poll() input.State {
	return is.keys.Poll()
}

// SetupInputBindings sets up the key bindings for the game
func SetupInputBindings() {
	for _, b := range bindings {
		engo.Input.RegisterButton(b.button, b.keys...)
	}
}

var _ input.Source = (*InputSystem)(nil)
