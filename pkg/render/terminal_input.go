package render

import (
	"context"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-tankgame/pkg/input"
	"github.com/opd-ai/go-tankgame/pkg/validation"
)

// Terminals only report key presses, and key auto-repeat typically starts
// after ~250ms and then fires every ~30ms. A held movement key must survive
// the initial gap.
const (
	DefaultHoldTicks    = 18
	DefaultRepeatWindow = 300 * time.Millisecond
)

var runeKeys = map[rune]input.Key{
	'w': input.KeyUp, 'W': input.KeyUp,
	's': input.KeyDown, 'S': input.KeyDown,
	'a': input.KeyLeft, 'A': input.KeyLeft,
	'd': input.KeyRight, 'D': input.KeyRight,
	' ': input.KeyFire,
	'f': input.KeyFuel, 'F': input.KeyFuel,
	'e': input.KeyElectricWave, 'E': input.KeyElectricWave,
	'1': input.KeyMissile,
	't': input.KeyBulletTime, 'T': input.KeyBulletTime,
	'z': input.KeyAutoShoot, 'Z': input.KeyAutoShoot,
	'x': input.KeyAutoAim, 'X': input.KeyAutoAim,
	'q': input.KeyQuit, 'Q': input.KeyQuit,
}

var specialKeys = map[tcell.Key]input.Key{
	tcell.KeyUp:     input.KeyUp,
	tcell.KeyDown:   input.KeyDown,
	tcell.KeyLeft:   input.KeyLeft,
	tcell.KeyRight:  input.KeyRight,
	tcell.KeyEnter:  input.KeyStart,
	tcell.KeyEscape: input.KeyQuit,
	tcell.KeyCtrlC:  input.KeyQuit,
}

// keyFor maps a tcell key to a game key
func keyFor(k tcell.Key, r rune) (input.Key, bool) {
	if k == tcell.KeyRune {
		key, ok := runeKeys[r]
		return key, ok
	}
	key, ok := specialKeys[k]
	return key, ok
}

// TerminalInput is an input.Source fed by tcell key events. Listen runs on
// its own goroutine; Poll is called by the game loop.
type TerminalInput struct {
	screen  tcell.Screen
	mu      sync.Mutex
	keys    *input.Keyboard
	limiter *validation.ActionLimiter
	now     func() time.Time
}

// NewTerminalInput creates an input source reading from screen
func NewTerminalInput(screen tcell.Screen, holdTicks int, repeatWindow time.Duration) *TerminalInput {
	return &TerminalInput{
		screen:  screen,
		keys:    input.NewKeyboard(holdTicks),
		limiter: validation.NewActionLimiter(repeatWindow),
		now:     time.Now,
	}
}

// HandleEvent feeds one tcell event into the key state. It reports whether
// the event was a recognized key.
func (t *TerminalInput) HandleEvent(ev tcell.Event) bool {
	kev, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}
	return t.press(kev.Key(), kev.Rune())
}

func (t *TerminalInput) press(k tcell.Key, r rune) bool {
	key, ok := keyFor(k, r)
	if !ok {
		return false
	}
	t.mu.Lock()
	t.keys.Press(key)
	t.mu.Unlock()
	return true
}

// Listen reads screen events until the screen is finalized or ctx is done.
func (t *TerminalInput) Listen(ctx context.Context) {
	for ctx.Err() == nil {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		t.HandleEvent(ev)
	}
}

// Poll implements input.Source. Repeated one-shot actions inside the repeat
// window are dropped.
func (t *TerminalInput) Poll() input.State {
	t.mu.Lock()
	s := t.keys.Poll()
	s.Actions = t.limiter.Filter(s.Actions, t.now())
	t.mu.Unlock()
	return s
}

var _ input.Source = (*TerminalInput)(nil)
