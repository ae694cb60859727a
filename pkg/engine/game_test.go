// Package engine provides unit tests for game.go
package engine

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/opd-ai/go-tankgame/pkg/config"
	"github.com/opd-ai/go-tankgame/pkg/entity"
	"github.com/opd-ai/go-tankgame/pkg/event"
	"github.com/opd-ai/go-tankgame/pkg/input"
	"github.com/opd-ai/go-tankgame/pkg/physics"
)

func testConfig() *config.GameConfig {
	cfg := config.DefaultConfig()
	cfg.Seed = 42
	cfg.Items.DropChance = 0
	return cfg
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	g, err := NewGame(testConfig(), nil)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

func newRunningGame(t *testing.T) *Game {
	t.Helper()
	g := newTestGame(t)
	g.Start()
	return g
}

// recordEvents subscribes to types and returns the received events in order
func recordEvents(g *Game, types ...event.Type) *[]event.Event {
	var got []event.Event
	for _, typ := range types {
		g.EventBus.Subscribe(typ, func(e event.Event) {
			got = append(got, e)
		})
	}
	return &got
}

func TestNewGame_InitializesState(t *testing.T) {
	g := newTestGame(t)

	if g.Status != GameStatusNotStarted {
		t.Errorf("Status = %v, want %v", g.Status, GameStatusNotStarted)
	}
	if g.Victory.TargetKills != 30 || g.Victory.CurrentBossLevel != 1 {
		t.Errorf("Victory = %+v", g.Victory)
	}
	if g.RunID == uuid.Nil {
		t.Error("RunID not set")
	}
	if g.Tank.HP != g.Tank.MaxHP {
		t.Errorf("tank HP = %d, want %d", g.Tank.HP, g.Tank.MaxHP)
	}
}

func TestNewGame_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.GameConfig)
	}{
		{"zero viewport", func(c *config.GameConfig) { c.Viewport.Width = 0 }},
		{"no kill target", func(c *config.GameConfig) { c.Victory.TargetKills = 0 }},
		{"bad drop chance", func(c *config.GameConfig) { c.Items.DropChance = 2 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(cfg)
			if _, err := NewGame(cfg, nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGame_UpdateBeforeStart_DoesNothing(t *testing.T) {
	g := newTestGame(t)
	for i := 0; i < 120; i++ {
		g.Update(input.State{Fire: true, Move: physics.Vector2D{X: 1}})
	}
	if g.Frame != 0 {
		t.Errorf("Frame = %d, want 0", g.Frame)
	}
	if g.Enemies.Count() != 0 || g.Bullets.Count() != 0 {
		t.Errorf("entities created before start: enemies=%d bullets=%d", g.Enemies.Count(), g.Bullets.Count())
	}
	if g.Tank.Position != (physics.Vector2D{}) {
		t.Errorf("tank moved before start: %v", g.Tank.Position)
	}
}

func TestGame_StateMachine(t *testing.T) {
	g := newTestGame(t)
	events := recordEvents(g, event.GameStarted, event.GameEnded)

	steps := []struct {
		name    string
		prepare func()
		in      input.State
		want    GameStatus
	}{
		{"restart ignored before start", nil, input.State{Actions: input.ActionRestart}, GameStatusNotStarted},
		{"start", nil, input.State{Actions: input.ActionStart}, GameStatusRunning},
		{"start ignored while running", nil, input.State{Actions: input.ActionStart}, GameStatusRunning},
		{"defeat", func() { g.Tank.HP = 0 }, input.State{}, GameStatusGameOver},
		{"stays over", nil, input.State{Fire: true}, GameStatusGameOver},
		{"restart", nil, input.State{Actions: input.ActionRestart}, GameStatusRunning},
	}
	for _, s := range steps {
		t.Run(s.name, func(t *testing.T) {
			if s.prepare != nil {
				s.prepare()
			}
			g.Update(s.in)
			if g.Status != s.want {
				t.Errorf("Status = %v, want %v", g.Status, s.want)
			}
		})
	}

	want := []event.Type{event.GameStarted, event.GameEnded, event.GameStarted}
	if len(*events) != len(want) {
		t.Fatalf("got %d events, want %d", len(*events), len(want))
	}
	for i, e := range *events {
		if e.GetType() != want[i] {
			t.Errorf("event %d = %s, want %s", i, e.GetType(), want[i])
		}
	}
}

func TestGame_Defeat(t *testing.T) {
	g := newRunningGame(t)
	events := recordEvents(g, event.GameEnded)

	g.Update(input.State{})
	g.Tank.HP = 0
	g.Update(input.State{})

	if g.Status != GameStatusGameOver || g.Outcome != OutcomeDefeat {
		t.Fatalf("Status = %v, Outcome = %v", g.Status, g.Outcome)
	}
	if g.Frame != 1 {
		t.Errorf("Frame = %d, want 1 (ending tick does no work)", g.Frame)
	}
	if len(*events) != 1 {
		t.Fatalf("got %d GameEnded events", len(*events))
	}
	if ge := (*events)[0].(*event.GameEvent); ge.Outcome != "defeat" {
		t.Errorf("Outcome = %q, want defeat", ge.Outcome)
	}
}

func TestGame_VictoryLatch(t *testing.T) {
	t.Run("first time ends the game", func(t *testing.T) {
		g := newRunningGame(t)
		g.Victory.EnemiesKilled = g.Victory.TargetKills
		g.Update(input.State{})

		if g.Status != GameStatusGameOver || g.Outcome != OutcomeVictory {
			t.Fatalf("Status = %v, Outcome = %v", g.Status, g.Outcome)
		}
		if !g.Victory.GameWon {
			t.Error("GameWon not latched")
		}
	})

	t.Run("latched win does not end again", func(t *testing.T) {
		g := newRunningGame(t)
		g.Victory.EnemiesKilled = g.Victory.TargetKills
		g.Victory.GameWon = true
		g.Victory.CurrentBossLevel = 100
		g.Update(input.State{})

		if g.Status != GameStatusRunning {
			t.Errorf("Status = %v, want running", g.Status)
		}
	})

	t.Run("defeat takes precedence", func(t *testing.T) {
		g := newRunningGame(t)
		g.Victory.EnemiesKilled = g.Victory.TargetKills
		g.Tank.HP = 0
		g.Update(input.State{})

		if g.Outcome != OutcomeDefeat {
			t.Errorf("Outcome = %v, want defeat", g.Outcome)
		}
		if g.Victory.GameWon {
			t.Error("GameWon set on defeat")
		}
	})
}

// TestGame_TickOrder checks that a kill made by bullets in one tick is only
// judged by the end check at the start of the next tick.
func TestGame_TickOrder(t *testing.T) {
	g := newRunningGame(t)
	g.Victory.EnemiesKilled = g.Victory.TargetKills - 1
	g.Victory.CurrentBossLevel = 100

	e := g.Enemies.Spawn(physics.Vector2D{X: 0, Y: -200})
	e.HP = 1
	g.Bullets.AddPlayer(physics.Vector2D{X: 0, Y: -200}, -math.Pi/2, false)

	events := recordEvents(g, event.EnemyKilled, event.GameEnded)

	g.Update(input.State{})
	if g.Victory.EnemiesKilled != g.Victory.TargetKills {
		t.Fatalf("EnemiesKilled = %d, want %d", g.Victory.EnemiesKilled, g.Victory.TargetKills)
	}
	if g.Status != GameStatusRunning {
		t.Fatalf("game ended in the tick of the kill")
	}
	if g.Frame != 1 {
		t.Errorf("Frame = %d, want 1", g.Frame)
	}

	g.Update(input.State{})
	if g.Status != GameStatusGameOver || g.Outcome != OutcomeVictory {
		t.Fatalf("Status = %v, Outcome = %v", g.Status, g.Outcome)
	}
	if g.Frame != 1 {
		t.Errorf("Frame = %d, want 1", g.Frame)
	}

	if len(*events) != 2 || (*events)[0].GetType() != event.EnemyKilled || (*events)[1].GetType() != event.GameEnded {
		t.Errorf("unexpected event order: %v", *events)
	}
}

// TestGame_BulletsResolveBeforeWeapons puts a one-HP enemy under a player
// bullet, an expanding wave edge and a missile in the same tick. The bullet
// pass runs first, so the weapons never see the enemy.
func TestGame_BulletsResolveBeforeWeapons(t *testing.T) {
	g := newRunningGame(t)
	events := recordEvents(g, event.EnemyKilled)

	e := g.Enemies.Spawn(physics.Vector2D{X: 0, Y: -200})
	e.HP = 1
	g.Bullets.AddPlayer(physics.Vector2D{X: 0, Y: -200}, -math.Pi/2, false)

	// The enemy steps 2 units toward the tank before bullets move, ending
	// 100 units from the wave center, inside this tick's ring sweep.
	wave, ok := g.Weapons.ElectricWave.Fire(physics.Vector2D{X: 100, Y: -198})
	if !ok {
		t.Fatal("electric wave not ready")
	}
	wave.Radius = 100 - wave.Speed/2
	if _, ok := g.Weapons.Missile.Fire(physics.Vector2D{X: 20, Y: -198}); !ok {
		t.Fatal("missile not ready")
	}

	g.Update(input.State{})

	if g.Victory.EnemiesKilled != 1 {
		t.Fatalf("EnemiesKilled = %d, want 1", g.Victory.EnemiesKilled)
	}
	if len(*events) != 1 {
		t.Fatalf("got %d EnemyKilled events, want 1", len(*events))
	}
	if ke := (*events)[0].(*event.KillEvent); ke.Cause != string(entity.CauseBullet) {
		t.Errorf("kill cause = %q, want %q", ke.Cause, entity.CauseBullet)
	}
	if wave.HasHit(e.ID) {
		t.Error("wave touched an enemy the bullets already removed")
	}
	if n := len(g.Weapons.Missile.Missiles); n != 1 {
		t.Errorf("missiles in flight = %d, want 1", n)
	}
	if n := len(g.Weapons.Missile.Explosions); n != 0 {
		t.Errorf("missile exploded on a removed enemy (%d explosions)", n)
	}
}

// TestGame_CameraLagsTank checks the camera is updated before the tank moves.
func TestGame_CameraLagsTank(t *testing.T) {
	g := newRunningGame(t)
	right := input.State{Move: physics.Vector2D{X: 1}}

	g.Update(right)
	if g.Tank.Position.X != g.Config.Tank.Speed {
		t.Fatalf("tank X = %v, want %v", g.Tank.Position.X, g.Config.Tank.Speed)
	}
	if g.Camera.Position.X != 0 {
		t.Errorf("camera X = %v, want 0 after first tick", g.Camera.Position.X)
	}

	g.Update(right)
	want := g.Config.Tank.Speed * g.Config.World.CameraSmoothness
	if math.Abs(g.Camera.Position.X-want) > 1e-9 {
		t.Errorf("camera X = %v, want %v", g.Camera.Position.X, want)
	}
}

func TestGame_BossSpawn(t *testing.T) {
	g := newRunningGame(t)
	events := recordEvents(g, event.BossSpawned)
	g.Victory.EnemiesKilled = g.Config.Boss.SpawnInterval

	g.Update(input.State{})
	if g.Bosses.Count() != 1 {
		t.Fatalf("bosses = %d, want 1", g.Bosses.Count())
	}
	if g.Victory.CurrentBossLevel != 2 {
		t.Errorf("CurrentBossLevel = %d, want 2", g.Victory.CurrentBossLevel)
	}
	if len(*events) != 1 {
		t.Fatalf("got %d BossSpawned events", len(*events))
	}
	if want := "Boss Appeared: Tank Commander!"; g.Messages.General.Text != want {
		t.Errorf("message = %q, want %q", g.Messages.General.Text, want)
	}

	g.Update(input.State{})
	if g.Bosses.Count() != 1 {
		t.Errorf("bosses = %d after second tick, want 1", g.Bosses.Count())
	}
}

func TestGame_Actions(t *testing.T) {
	t.Run("fuel not needed", func(t *testing.T) {
		g := newRunningGame(t)
		g.Update(input.State{Actions: input.ActionFuel})
		if !g.Weapons.Fuel.Ready() {
			t.Error("fuel cooldown consumed with nothing to repair")
		}
		if g.Messages.Fuel.Text == "" {
			t.Error("no fuel message")
		}
	})

	t.Run("fuel repairs tank", func(t *testing.T) {
		g := newRunningGame(t)
		g.Tank.HP -= 5
		hp := g.Tank.HP
		g.Update(input.State{Actions: input.ActionFuel})
		if g.Tank.HP != hp+g.Config.Fuel.HealAmount {
			t.Errorf("HP = %d, want %d", g.Tank.HP, hp+g.Config.Fuel.HealAmount)
		}
		if g.Weapons.Fuel.Ready() {
			t.Error("fuel cooldown not started")
		}
	})

	t.Run("electric wave", func(t *testing.T) {
		g := newRunningGame(t)
		g.Update(input.State{Actions: input.ActionElectricWave})
		if len(g.Weapons.ElectricWave.Waves) != 1 {
			t.Errorf("waves = %d, want 1", len(g.Weapons.ElectricWave.Waves))
		}
		if g.Weapons.ElectricWave.Ready() {
			t.Error("wave still ready")
		}
	})

	t.Run("missile", func(t *testing.T) {
		g := newRunningGame(t)
		g.Update(input.State{Actions: input.ActionMissile})
		if len(g.Weapons.Missile.Missiles) != 1 {
			t.Errorf("missiles = %d, want 1", len(g.Weapons.Missile.Missiles))
		}
	})

	t.Run("bullet time", func(t *testing.T) {
		g := newRunningGame(t)
		g.Update(input.State{Actions: input.ActionBulletTime})
		if !g.Weapons.BulletTime.Active {
			t.Error("bullet time not active")
		}
		if g.Messages.BulletTime.Text == "" {
			t.Error("no bullet time message")
		}
	})

	t.Run("toggles", func(t *testing.T) {
		g := newRunningGame(t)
		aim, shoot := g.Tank.AutoAim, g.Tank.AutoShoot
		g.Update(input.State{Actions: input.ActionToggleAutoAim | input.ActionToggleAutoShoot})
		if g.Tank.AutoAim == aim || g.Tank.AutoShoot == shoot {
			t.Errorf("AutoAim = %v, AutoShoot = %v; both should flip", g.Tank.AutoAim, g.Tank.AutoShoot)
		}
	})

	t.Run("ignored before start", func(t *testing.T) {
		g := newTestGame(t)
		g.Update(input.State{Actions: input.ActionElectricWave | input.ActionMissile})
		if !g.Weapons.ElectricWave.Ready() || !g.Weapons.Missile.Ready() {
			t.Error("weapons used before start")
		}
	})
}

func TestGame_RestartResetsEverything(t *testing.T) {
	g := newRunningGame(t)
	g.Update(input.State{Actions: input.ActionElectricWave | input.ActionMissile | input.ActionBulletTime | input.ActionToggleAutoAim})
	for i := 0; i < 130; i++ {
		g.Update(input.State{Fire: true, Move: physics.Vector2D{X: 1, Y: 1}})
	}
	g.Items.Spawn(physics.Vector2D{X: 500, Y: 500}, entity.TriangularBullets)
	g.Bosses.Spawn(g.Tank.Position, 1)
	g.Victory.EnemiesKilled = 7
	g.Victory.BossesKilled = 1
	g.Tank.SetTriangularBullets(true)
	g.Tank.HP = 0
	g.Update(input.State{})
	if g.Status != GameStatusGameOver {
		t.Fatalf("Status = %v, want game over", g.Status)
	}
	oldRun := g.RunID

	g.Update(input.State{Actions: input.ActionRestart})

	if g.Status != GameStatusRunning || g.Outcome != OutcomeNone {
		t.Errorf("Status = %v, Outcome = %v", g.Status, g.Outcome)
	}
	if g.RunID == oldRun {
		t.Error("RunID not renewed")
	}
	if g.Frame != 0 {
		t.Errorf("Frame = %d", g.Frame)
	}
	if g.Enemies.Count() != 0 || len(g.Enemies.Bullets) != 0 {
		t.Errorf("enemies = %d, enemy bullets = %d", g.Enemies.Count(), len(g.Enemies.Bullets))
	}
	if g.Bosses.Count() != 0 || len(g.Bosses.Bullets) != 0 || len(g.Bosses.Explosions) != 0 {
		t.Error("boss state not cleared")
	}
	if g.Bullets.Count() != 0 || g.Items.Count() != 0 {
		t.Errorf("bullets = %d, items = %d", g.Bullets.Count(), g.Items.Count())
	}
	want := entity.NewVictory(g.Config.Victory.TargetKills)
	if g.Victory != want {
		t.Errorf("Victory = %+v, want %+v", g.Victory, want)
	}
	if g.Tank.HP != g.Tank.MaxHP || g.Tank.Position != (physics.Vector2D{}) || g.Tank.TriangularBullets {
		t.Errorf("tank not reset: hp=%d pos=%v tri=%v", g.Tank.HP, g.Tank.Position, g.Tank.TriangularBullets)
	}
	if g.Tank.AutoAim != g.Config.Tank.AutoAim {
		t.Error("auto-aim toggle survived restart")
	}
	if g.Tank.Support.HP != g.Tank.Support.MaxHP || !g.Tank.Support.Alive() {
		t.Error("support tank not reset")
	}
	for _, w := range g.Weapons.States() {
		if !w.Ready || w.Active {
			t.Errorf("weapon %s not ready after restart", w.Name)
		}
	}
	if len(g.Weapons.ElectricWave.Waves) != 0 || len(g.Weapons.Missile.Missiles) != 0 {
		t.Error("weapon effects not cleared")
	}
	if msgs := g.Messages.Active(); len(msgs) != 0 {
		t.Errorf("messages = %v", msgs)
	}
	if g.Camera.Position != g.Tank.Position {
		t.Errorf("camera = %v, want snapped to tank", g.Camera.Position)
	}
}

// TestGame_BasicKill drives a tank that holds fire at a single enemy.
func TestGame_BasicKill(t *testing.T) {
	g := newRunningGame(t)
	events := recordEvents(g, event.EnemyKilled)
	e := g.Enemies.Spawn(physics.Vector2D{X: 0, Y: -300})

	for i := 0; i < 59 && g.Victory.EnemiesKilled == 0; i++ {
		g.Update(input.State{Fire: true})
	}

	if g.Victory.EnemiesKilled != 1 {
		t.Fatalf("EnemiesKilled = %d, want 1", g.Victory.EnemiesKilled)
	}
	if e.Active {
		t.Error("killed enemy still active")
	}
	for _, other := range g.Enemies.List {
		if other == e {
			t.Error("killed enemy still listed")
		}
	}
	if len(*events) != 1 {
		t.Fatalf("got %d EnemyKilled events", len(*events))
	}
	if ke := (*events)[0].(*event.KillEvent); ke.EntityID != uint64(e.ID) {
		t.Errorf("killed id = %d, want %d", ke.EntityID, e.ID)
	}
}

func TestMessages_Tick(t *testing.T) {
	var m Messages
	m.Fuel.show("fuel", 2)
	m.General.show("hello", 1)

	if got := m.Active(); len(got) != 2 {
		t.Fatalf("Active = %v", got)
	}
	m.tick()
	if got := m.Active(); len(got) != 1 || got[0] != "fuel" {
		t.Errorf("after one tick Active = %v", got)
	}
	m.tick()
	if got := m.Active(); len(got) != 0 {
		t.Errorf("after two ticks Active = %v", got)
	}
	if m.Fuel.Text != "" {
		t.Error("expired text not cleared")
	}
}

func TestGameStatus_String(t *testing.T) {
	tests := []struct {
		s    GameStatus
		want string
	}{
		{GameStatusNotStarted, "not_started"},
		{GameStatusRunning, "running"},
		{GameStatusGameOver, "game_over"},
		{GameStatus(9), "unknown"},
	}
	for _, tc := range tests {
		if got := tc.s.String(); got != tc.want {
			t.Errorf("%d.String() = %q, want %q", tc.s, got, tc.want)
		}
	}
}
