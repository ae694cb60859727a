package render

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-tankgame/pkg/input"
)

func TestKeyFor(t *testing.T) {
	tests := []struct {
		name   string
		key    tcell.Key
		r      rune
		want   input.Key
		wantOK bool
	}{
		{"w", tcell.KeyRune, 'w', input.KeyUp, true},
		{"shift D", tcell.KeyRune, 'D', input.KeyRight, true},
		{"arrow left", tcell.KeyLeft, 0, input.KeyLeft, true},
		{"space fires", tcell.KeyRune, ' ', input.KeyFire, true},
		{"enter starts", tcell.KeyEnter, 0, input.KeyStart, true},
		{"missile", tcell.KeyRune, '1', input.KeyMissile, true},
		{"escape quits", tcell.KeyEscape, 0, input.KeyQuit, true},
		{"unbound rune", tcell.KeyRune, 'k', 0, false},
		{"unbound key", tcell.KeyF5, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keyFor(tt.key, tt.r)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("keyFor(%v, %q) = (%v, %v), want (%v, %v)", tt.key, tt.r, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func newTestInput(t *testing.T) (*TerminalInput, *time.Time) {
	t.Helper()
	in := NewTerminalInput(newTestScreen(t), 3, DefaultRepeatWindow)
	now := time.Unix(1000, 0)
	in.now = func() time.Time { return now }
	return in, &now
}

func TestTerminalInput_HeldMovement(t *testing.T) {
	in, _ := newTestInput(t)
	in.press(tcell.KeyRune, 'd')
	in.press(tcell.KeyUp, 0)
	in.press(tcell.KeyRune, ' ')

	s := in.Poll()
	if s.Move.X != 1 || s.Move.Y != -1 || !s.Fire {
		t.Fatalf("first poll = %+v", s)
	}

	// the hold window expires without repeats
	for i := 0; i < 3; i++ {
		s = in.Poll()
	}
	if s.Move.X != 0 || s.Move.Y != 0 || s.Fire {
		t.Errorf("after hold window = %+v, want idle", s)
	}
}

func TestTerminalInput_ActionsThrottled(t *testing.T) {
	in, now := newTestInput(t)

	in.press(tcell.KeyRune, 'z')
	if s := in.Poll(); !s.Has(input.ActionToggleAutoShoot) {
		t.Fatalf("first press not delivered: %v", s.Actions)
	}

	*now = now.Add(50 * time.Millisecond)
	in.press(tcell.KeyRune, 'z')
	if s := in.Poll(); s.Has(input.ActionToggleAutoShoot) {
		t.Error("auto-repeat inside the window delivered")
	}

	*now = now.Add(DefaultRepeatWindow)
	in.press(tcell.KeyRune, 'z')
	if s := in.Poll(); !s.Has(input.ActionToggleAutoShoot) {
		t.Error("press after the window dropped")
	}
}

func TestTerminalInput_HandleEvent(t *testing.T) {
	in, _ := newTestInput(t)
	if in.HandleEvent(tcell.NewEventResize(80, 24)) {
		t.Error("resize handled as a key")
	}
	if s := in.Poll(); s != (input.State{}) {
		t.Errorf("state after resize = %+v", s)
	}
}

func TestTerminalInput_ListenStopsOnCancel(t *testing.T) {
	in, _ := newTestInput(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		in.Listen(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Listen did not return")
	}
}
