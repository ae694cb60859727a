// Package input defines what the simulation reads from a player each tick and
// a key-state tracker that adapters translate device events into.
package input

import "github.com/opd-ai/go-tankgame/pkg/physics"

// Action is a bitset of one-shot commands issued during a tick
type Action uint16

const (
	ActionStart Action = 1 << iota
	ActionRestart
	ActionFuel
	ActionElectricWave
	ActionMissile
	ActionBulletTime
	ActionToggleAutoShoot
	ActionToggleAutoAim
	ActionQuit
)

var actionNames = []struct {
	action Action
	name   string
}{
	{ActionStart, "start"},
	{ActionRestart, "restart"},
	{ActionFuel, "fuel"},
	{ActionElectricWave, "electric_wave"},
	{ActionMissile, "missile"},
	{ActionBulletTime, "bullet_time"},
	{ActionToggleAutoShoot, "toggle_auto_shoot"},
	{ActionToggleAutoAim, "toggle_auto_aim"},
	{ActionQuit, "quit"},
}

// String lists the set actions separated by '|'
func (a Action) String() string {
	s := ""
	for _, n := range actionNames {
		if a&n.action != 0 {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

// State is the input sampled for one tick. Move components are in {-1, 0, 1}.
type State struct {
	Move    physics.Vector2D
	Fire    bool
	Actions Action
}

// Has reports whether action was issued this tick
func (s State) Has(action Action) bool {
	return s.Actions&action != 0
}

// Source supplies input once per tick
type Source interface {
	Poll() State
}

// SourceFunc adapts a function to Source
type SourceFunc func() State

// Poll calls f
func (f SourceFunc) Poll() State {
	return f()
}

// Idle is a Source that never presses anything
var Idle Source = SourceFunc(func() State { return State{} })
