package input

import "github.com/opd-ai/go-tankgame/pkg/physics"

// Key is a logical key, independent of the device backend
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyFire
	KeyStart
	KeyFuel
	KeyElectricWave
	KeyMissile
	KeyBulletTime
	KeyAutoShoot
	KeyAutoAim
	KeyQuit
	keyCount
)

var keyActions = map[Key]Action{
	KeyStart:        ActionStart | ActionRestart,
	KeyFuel:         ActionFuel,
	KeyElectricWave: ActionElectricWave,
	KeyMissile:      ActionMissile,
	KeyBulletTime:   ActionBulletTime,
	KeyAutoShoot:    ActionToggleAutoShoot,
	KeyAutoAim:      ActionToggleAutoAim,
	KeyQuit:         ActionQuit,
}

// Keyboard accumulates key events between polls. Backends that report key
// releases call Release; backends that only report presses (terminals) rely
// on the hold window: a pressed key counts as held for HoldTicks polls unless
// pressed again.
type Keyboard struct {
	HoldTicks int
	held      [keyCount]int
	pending   Action
}

// NewKeyboard creates a key tracker with the given hold window
func NewKeyboard(holdTicks int) *Keyboard {
	if holdTicks < 1 {
		holdTicks = 1
	}
	return &Keyboard{HoldTicks: holdTicks}
}

// Press records a key press. Movement and fire keys become held; command
// keys queue their action for the next poll.
func (k *Keyboard) Press(key Key) {
	if key < 0 || key >= keyCount {
		return
	}
	if action, ok := keyActions[key]; ok {
		k.pending |= action
		return
	}
	k.held[key] = k.HoldTicks
}

// Hold marks key as held until Release
func (k *Keyboard) Hold(key Key) {
	if key < 0 || key >= keyCount {
		return
	}
	k.held[key] = -1
}

// Release clears a held key
func (k *Keyboard) Release(key Key) {
	if key < 0 || key >= keyCount {
		return
	}
	k.held[key] = 0
}

func (k *Keyboard) down(key Key) bool {
	return k.held[key] != 0
}

// Poll returns the current state, drains queued actions and ages held keys.
func (k *Keyboard) Poll() State {
	s := State{Fire: k.down(KeyFire), Actions: k.pending}
	s.Move = physics.Vector2D{
		X: axis(k.down(KeyLeft), k.down(KeyRight)),
		Y: axis(k.down(KeyUp), k.down(KeyDown)),
	}
	k.pending = 0

	for i := range k.held {
		if k.held[i] > 0 {
			k.held[i]--
		}
	}
	return s
}

func axis(negative, positive bool) float64 {
	switch {
	case negative && !positive:
		return -1
	case positive && !negative:
		return 1
	default:
		return 0
	}
}
