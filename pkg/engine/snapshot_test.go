package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/opd-ai/go-tankgame/pkg/entity"
	"github.com/opd-ai/go-tankgame/pkg/input"
	"github.com/opd-ai/go-tankgame/pkg/physics"
	"github.com/opd-ai/go-tankgame/pkg/world"
)

// recordingRenderer logs the sequence of sink calls
type recordingRenderer struct {
	calls   []string
	enemies int
	bullets int
	hud     entity.HUD
}

func (r *recordingRenderer) SetView(world.Camera)         { r.calls = append(r.calls, "view") }
func (r *recordingRenderer) Clear()                       { r.calls = append(r.calls, "clear") }
func (r *recordingRenderer) RenderTerrain(world.View)     { r.calls = append(r.calls, "terrain") }
func (r *recordingRenderer) RenderTank(*entity.Tank)      { r.calls = append(r.calls, "tank") }
func (r *recordingRenderer) RenderEnemy(*entity.Enemy)    { r.enemies++ }
func (r *recordingRenderer) RenderBoss(*entity.Boss)      { r.calls = append(r.calls, "boss") }
func (r *recordingRenderer) RenderBullet(*entity.Bullet)  { r.bullets++ }
func (r *recordingRenderer) RenderItem(*entity.Item)      { r.calls = append(r.calls, "item") }
func (r *recordingRenderer) RenderEffects(entity.Effects) { r.calls = append(r.calls, "effects") }
func (r *recordingRenderer) RenderHUD(h entity.HUD) {
	r.hud = h
	r.calls = append(r.calls, "hud")
}
func (r *recordingRenderer) Present() { r.calls = append(r.calls, "present") }

var _ entity.Renderer = (*recordingRenderer)(nil)

func TestGame_Snapshot(t *testing.T) {
	g := newRunningGame(t)
	e := g.Enemies.Spawn(physics.Vector2D{X: 100, Y: -400})
	g.Bosses.Spawn(g.Tank.Position, 2)
	g.Items.Spawn(physics.Vector2D{X: 300, Y: 300}, entity.TriangularBullets)
	g.Bullets.AddPlayer(physics.Vector2D{}, 0, false)

	s := g.Snapshot()
	if s.Status != GameStatusRunning {
		t.Errorf("Status = %v", s.Status)
	}
	if len(s.Enemies) != 1 || s.Enemies[0].ID != e.ID {
		t.Fatalf("Enemies = %+v", s.Enemies)
	}
	if len(s.Bosses) != 1 || s.Bosses[0].Kind != entity.HeavyArtillery {
		t.Errorf("Bosses = %+v", s.Bosses)
	}
	if len(s.Items) != 1 {
		t.Errorf("Items = %+v", s.Items)
	}
	if s.Bullets.Player != 1 {
		t.Errorf("player bullets = %d, want 1", s.Bullets.Player)
	}
	if s.Tank.HP != g.Tank.HP || !s.Support.Alive {
		t.Errorf("Tank = %+v, Support = %+v", s.Tank, s.Support)
	}
	if len(s.Weapons) != 4 {
		t.Errorf("Weapons = %d, want 4", len(s.Weapons))
	}

	s.Enemies[0].HP = 0
	s.Victory.EnemiesKilled = 99
	if e.HP == 0 || g.Victory.EnemiesKilled == 99 {
		t.Error("snapshot shares memory with the game")
	}
}

func TestGame_Render(t *testing.T) {
	g := newRunningGame(t)
	g.Enemies.Spawn(physics.Vector2D{X: 0, Y: -400})
	g.Enemies.Spawn(physics.Vector2D{X: 0, Y: 400})
	g.Bullets.AddPlayer(physics.Vector2D{}, 0, false)

	r := &recordingRenderer{}
	g.Render(r)

	if len(r.calls) == 0 || r.calls[0] != "view" || r.calls[len(r.calls)-1] != "present" {
		t.Fatalf("calls = %v", r.calls)
	}
	if r.enemies != 2 {
		t.Errorf("enemies rendered = %d, want 2", r.enemies)
	}
	if r.bullets != 1 {
		t.Errorf("bullets rendered = %d, want 1", r.bullets)
	}
	if r.hud.Phase != "running" || r.hud.TankHP != g.Tank.HP || r.hud.Enemies != 2 {
		t.Errorf("hud = %+v", r.hud)
	}
	if g.Frame != 0 || g.Enemies.Count() != 2 {
		t.Error("Render mutated the game")
	}
}

func TestGame_Run(t *testing.T) {
	t.Run("stops on cancellation", func(t *testing.T) {
		g := newRunningGame(t)
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		err := g.Run(ctx, input.Idle, &recordingRenderer{})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("Run() = %v, want deadline exceeded", err)
		}
		if g.Frame == 0 {
			t.Error("no ticks ran")
		}
	})

	t.Run("stops on quit", func(t *testing.T) {
		g := newRunningGame(t)
		quit := input.SourceFunc(func() input.State { return input.State{Actions: input.ActionQuit} })

		done := make(chan error, 1)
		go func() { done <- g.Run(context.Background(), quit, nil) }()

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Run() = %v, want nil", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not return after quit")
		}
	})
}

func TestGame_SetScale(t *testing.T) {
	g := newTestGame(t)
	base := g.Terrain.TileSize()
	g.SetScale(0.5)
	if got := g.Terrain.TileSize(); got >= base {
		t.Errorf("tile size = %v, want below %v", got, base)
	}
}
