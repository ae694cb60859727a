// pkg/engine/game.go
package engine

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/opd-ai/go-tankgame/pkg/config"
	"github.com/opd-ai/go-tankgame/pkg/entity"
	"github.com/opd-ai/go-tankgame/pkg/event"
	"github.com/opd-ai/go-tankgame/pkg/input"
	"github.com/opd-ai/go-tankgame/pkg/logging"
	"github.com/opd-ai/go-tankgame/pkg/perf"
	"github.com/opd-ai/go-tankgame/pkg/validation"
	"github.com/opd-ai/go-tankgame/pkg/world"
)

// GameStatus represents the current status of the game
type GameStatus int

const (
	GameStatusNotStarted GameStatus = iota
	GameStatusRunning
	GameStatusGameOver
)

func (s GameStatus) String() string {
	switch s {
	case GameStatusNotStarted:
		return "not_started"
	case GameStatusRunning:
		return "running"
	case GameStatusGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Outcome is how a finished run ended
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeDefeat
	OutcomeVictory
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDefeat:
		return "defeat"
	case OutcomeVictory:
		return "victory"
	default:
		return "none"
	}
}

// Message display times, in ticks
const (
	fuelMessageTicks       = 60
	bulletTimeMessageTicks = 120
	generalMessageTicks    = 120
)

// Message is a HUD line that disappears after Remaining ticks
type Message struct {
	Text      string
	Remaining int
}

func (m *Message) show(text string, ticks int) {
	m.Text = text
	m.Remaining = ticks
}

func (m *Message) tick() {
	if m.Remaining > 0 {
		m.Remaining--
		if m.Remaining == 0 {
			m.Text = ""
		}
	}
}

// Messages are the three independent HUD message slots
type Messages struct {
	Fuel       Message
	BulletTime Message
	General    Message
}

// Active returns the texts still on screen
func (m *Messages) Active() []string {
	var out []string
	for _, msg := range []*Message{&m.Fuel, &m.BulletTime, &m.General} {
		if msg.Remaining > 0 {
			out = append(out, msg.Text)
		}
	}
	return out
}

func (m *Messages) tick() {
	m.Fuel.tick()
	m.BulletTime.tick()
	m.General.tick()
}

// Game represents the state of one tank game session
type Game struct {
	Config   *config.GameConfig
	Camera   *world.Camera
	Terrain  *world.Terrain
	Tank     *entity.Tank
	Enemies  *entity.Enemies
	Bosses   *entity.Bosses
	Bullets  *entity.Bullets
	Items    *entity.Items
	Weapons  *entity.Weapons
	Victory  entity.Victory
	EventBus *event.Bus
	Perf     *perf.Monitor
	Messages Messages

	Status  GameStatus
	Outcome Outcome
	Frame   uint64
	RunID   uuid.UUID

	logger *logging.Logger
	ctx    context.Context
}

// NewGame creates a new game from cfg. A zero seed picks one from the clock.
func NewGame(cfg *config.GameConfig, logger *logging.Logger) (*Game, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}
	if err := validation.ValidateViewport(cfg.Viewport.Width, cfg.Viewport.Height); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Discard()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	terrain, err := world.NewTerrain(seed, cfg.World.TileSize, cfg.World.TileCacheSize)
	if err != nil {
		return nil, logging.WrapError(err, "failed to create terrain for seed %d", seed)
	}

	g := &Game{
		Config:   cfg,
		Camera:   world.NewCamera(cfg.Viewport.Width, cfg.Viewport.Height, cfg.World.CameraSmoothness),
		Terrain:  terrain,
		Tank:     entity.NewTank(cfg),
		Enemies:  entity.NewEnemies(cfg, rng),
		Bosses:   entity.NewBosses(cfg, rng),
		Bullets:  entity.NewBullets(cfg),
		Items:    entity.NewItems(cfg, rng),
		Weapons:  entity.NewWeapons(cfg),
		Victory:  entity.NewVictory(cfg.Victory.TargetKills),
		EventBus: event.NewEventBus(),
		Perf:     perf.NewMonitor(cfg.Performance, logger),
		Status:   GameStatusNotStarted,
		RunID:    uuid.New(),
		logger:   logger.With("component", "engine"),
	}
	g.ctx = logging.WithCorrelationID(context.Background(), g.RunID.String())
	g.registerEventHandlers()
	return g, nil
}

// registerEventHandlers sets up the engine's own reactions to events
func (g *Game) registerEventHandlers() {
	g.EventBus.Subscribe(event.BossSpawned, func(e event.Event) {
		if se, ok := e.(*event.SpawnEvent); ok {
			g.Messages.General.show(fmt.Sprintf("Boss Appeared: %s!", se.Name), generalMessageTicks)
		}
	})
	g.EventBus.Subscribe(event.BossKilled, func(e event.Event) {
		if ke, ok := e.(*event.KillEvent); ok {
			g.Messages.General.show(fmt.Sprintf("%s Destroyed!", ke.Name), generalMessageTicks)
		}
	})
	g.EventBus.Subscribe(event.ItemCollected, func(e event.Event) {
		g.Messages.General.show("Triangular Bullets!", generalMessageTicks)
	})
}

// Context returns the run-scoped context carrying the run id
func (g *Game) Context() context.Context {
	return g.ctx
}

// Start begins the game. It is a no-op unless the game has not started yet.
func (g *Game) Start() {
	if g.Status != GameStatusNotStarted {
		return
	}
	g.reset()
	g.Status = GameStatusRunning
	g.logger.Info(g.ctx, "Game started", "run_id", g.RunID.String(), "target_kills", g.Victory.TargetKills)
	g.EventBus.Publish(event.NewGameEvent(event.GameStarted, g, "", 0, g.Frame))
}

// Restart resets every store and counter and starts a fresh run
func (g *Game) Restart() {
	g.RunID = uuid.New()
	g.ctx = logging.WithCorrelationID(context.Background(), g.RunID.String())
	g.reset()
	g.Status = GameStatusRunning
	g.logger.Info(g.ctx, "Game restarted", "run_id", g.RunID.String())
	g.EventBus.Publish(event.NewGameEvent(event.GameStarted, g, "", 0, g.Frame))
}

func (g *Game) reset() {
	g.Tank.Reset()
	g.Enemies.Reset()
	g.Bosses.Reset()
	g.Bullets.Reset()
	g.Items.Reset()
	g.Weapons.Reset()
	g.Victory.Reset()
	g.Messages = Messages{}
	g.Outcome = OutcomeNone
	g.Frame = 0
	g.Camera.SetPosition(g.Tank.Position)
}

// Update advances the game by one tick of the configured tick duration
func (g *Game) Update(in input.State) {
	g.Step(in, g.Config.TickDuration())
}

// Step dispatches the tick's one-shot actions and, while running, advances
// the simulation by dt. The tick that starts or restarts a run does not
// simulate.
func (g *Game) Step(in input.State, dt time.Duration) {
	if g.handleActions(in) || g.Status != GameStatusRunning {
		return
	}
	g.step(validation.Input(in), validation.DeltaTime(dt))
}

// handleActions reports whether the run was started or restarted
func (g *Game) handleActions(in input.State) bool {
	switch g.Status {
	case GameStatusNotStarted:
		if in.Has(input.ActionStart) {
			g.Start()
			return true
		}
		return false
	case GameStatusGameOver:
		if in.Has(input.ActionRestart) {
			g.Restart()
			return true
		}
		return false
	}

	if in.Has(input.ActionFuel) {
		g.UseFuel()
	}
	if in.Has(input.ActionElectricWave) {
		g.UseElectricWave()
	}
	if in.Has(input.ActionMissile) {
		g.UseMissile()
	}
	if in.Has(input.ActionBulletTime) {
		g.UseBulletTime()
	}
	if in.Has(input.ActionToggleAutoShoot) {
		g.ToggleAutoShoot()
	}
	if in.Has(input.ActionToggleAutoAim) {
		g.ToggleAutoAim()
	}
	return false
}

// step is the fixed per-tick order:
//
//  1. end check (defeat, then victory latch)
//  2. camera
//  3. tank
//  4. enemies and their bullets
//  5. boss spawn check, bosses, boss bullets and effects
//  6. player and support bullets
//  7. items
//  8. weapons
//  9. frame counter and message timers
func (g *Game) step(in input.State, dt time.Duration) {
	if g.checkEnd() {
		return
	}
	hp := g.Tank.HP

	g.Camera.Update(g.Tank.Position)

	g.Tank.Update(in, g.Enemies.List, g.Bullets)

	if e := g.Enemies.Update(g.Frame, g.Tank, g.Camera); e != nil {
		g.logger.Debug(g.ctx, "Enemy spawned", "enemy_id", e.ID, "x", e.Position.X, "y", e.Position.Y)
		g.EventBus.Publish(event.NewSpawnEvent(event.EnemySpawned, g, uint64(e.ID), "enemy", e.Position))
	}

	g.checkBossSpawn()
	g.Bosses.Update(g.Tank, g.Camera)

	g.publishKills(g.Bullets.Update(g.targets(), g.Camera))

	for _, it := range g.Items.Update(g.Tank, g.Camera) {
		g.EventBus.Publish(event.NewItemEvent(event.ItemCollected, g, it.Kind.String(), it.Position))
	}

	g.publishKills(g.Weapons.Update(dt, in.Fire, g.Tank, g.Bullets, g.targets(), g.Camera))

	if taken := hp - g.Tank.HP; taken > 0 {
		g.EventBus.Publish(event.NewDamageEvent(g, taken, g.Tank.HP))
	}

	g.Frame++
	g.Messages.tick()
}

func (g *Game) targets() entity.Targets {
	return entity.Targets{
		Enemies: g.Enemies,
		Bosses:  g.Bosses,
		Items:   g.Items,
		Victory: &g.Victory,
	}
}

// checkEnd moves the game to GameOver on defeat or on first reaching the
// kill target. It reports whether the game ended.
func (g *Game) checkEnd() bool {
	if !g.Tank.Alive() {
		g.endGame(OutcomeDefeat)
		return true
	}
	if g.Victory.Reached() && !g.Victory.GameWon {
		g.Victory.GameWon = true
		g.endGame(OutcomeVictory)
		return true
	}
	return false
}

func (g *Game) endGame(outcome Outcome) {
	g.Status = GameStatusGameOver
	g.Outcome = outcome
	g.logger.Info(g.ctx, "Game over",
		"outcome", outcome.String(),
		"enemies_killed", g.Victory.EnemiesKilled,
		"bosses_killed", g.Victory.BossesKilled,
		"frame", g.Frame)
	g.EventBus.Publish(event.NewGameEvent(event.GameEnded, g, outcome.String(), g.Victory.EnemiesKilled, g.Frame))
}

func (g *Game) checkBossSpawn() {
	if !g.Bosses.ShouldSpawn(&g.Victory) {
		return
	}
	b := g.Bosses.Spawn(g.Tank.Position, g.Victory.CurrentBossLevel)
	g.Victory.CurrentBossLevel++
	g.logger.Info(g.ctx, "Boss spawned", "boss", b.Name, "level", b.Level, "hp", b.HP)
	g.EventBus.Publish(event.NewSpawnEvent(event.BossSpawned, g, uint64(b.ID), b.Name, b.Position))
}

func (g *Game) publishKills(kills []entity.Kill) {
	for _, k := range kills {
		typ := event.EnemyKilled
		if k.Boss {
			typ = event.BossKilled
			g.logger.Info(g.ctx, "Boss destroyed", "boss", k.Name, "cause", string(k.Cause))
		}
		g.EventBus.Publish(event.NewKillEvent(typ, g, uint64(k.ID), k.Name, k.Position, string(k.Cause)))
		if k.Drop != nil {
			g.EventBus.Publish(event.NewItemEvent(event.ItemDropped, g, k.Drop.Kind.String(), k.Drop.Position))
		}
	}
}

// UseFuel repairs the tank, or the support tank when the tank is full
func (g *Game) UseFuel() entity.FuelResult {
	res := g.Weapons.UseFuel(g.Tank)
	heal := g.Config.Fuel.HealAmount
	switch res {
	case entity.FuelHealedTank:
		g.Messages.Fuel.show(fmt.Sprintf("Tank repaired +%d", heal), fuelMessageTicks)
	case entity.FuelHealedSupport:
		g.Messages.Fuel.show(fmt.Sprintf("Support tank repaired +%d", heal), fuelMessageTicks)
	case entity.FuelNotNeeded:
		g.Messages.Fuel.show("Both tanks at full HP", fuelMessageTicks)
	}
	g.EventBus.Publish(event.NewWeaponEvent(g, g.Weapons.Fuel.Name(), res.String()))
	return res
}

// UseElectricWave releases an electric wave around the tank
func (g *Game) UseElectricWave() bool {
	ok := g.Weapons.UseElectricWave(g.Tank)
	if ok {
		g.EventBus.Publish(event.NewWeaponEvent(g, g.Weapons.ElectricWave.Name(), "fired"))
	}
	return ok
}

// UseMissile launches a homing missile from the tank
func (g *Game) UseMissile() bool {
	ok := g.Weapons.UseMissile(g.Tank)
	if ok {
		g.EventBus.Publish(event.NewWeaponEvent(g, g.Weapons.Missile.Name(), "fired"))
	}
	return ok
}

// UseBulletTime turns held fire into lasers for the bullet time duration
func (g *Game) UseBulletTime() bool {
	ok := g.Weapons.UseBulletTime()
	if ok {
		g.Messages.BulletTime.show("Bullet Time!", bulletTimeMessageTicks)
		g.EventBus.Publish(event.NewWeaponEvent(g, g.Weapons.BulletTime.Name(), "activated"))
	}
	return ok
}

// ToggleAutoShoot flips continuous fire
func (g *Game) ToggleAutoShoot() bool {
	on := g.Tank.ToggleAutoShoot()
	g.Messages.General.show("Auto Shoot: "+onOff(on), generalMessageTicks)
	return on
}

// ToggleAutoAim flips turret auto-aim
func (g *Game) ToggleAutoAim() bool {
	on := g.Tank.ToggleAutoAim()
	g.Messages.General.show("Auto Aim: "+onOff(on), generalMessageTicks)
	return on
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

// SetScale applies a display scale to the terrain and the special weapons
func (g *Game) SetScale(scale float64) {
	g.Terrain.SetScale(scale)
	g.Weapons.SetScale(scale)
}

// HUD builds the overlay state for renderers
func (g *Game) HUD() entity.HUD {
	hud := entity.HUD{
		TankHP:     g.Tank.HP,
		TankMaxHP:  g.Tank.MaxHP,
		Victory:    g.Victory,
		Weapons:    g.Weapons.States(),
		AutoAim:    g.Tank.AutoAim,
		AutoShoot:  g.Tank.AutoShoot,
		Triangular: g.Tank.TriangularBullets,
		Phase:      g.Status.String(),
		Messages:   g.Messages.Active(),
		Enemies:    g.Enemies.Count(),
		Bosses:     g.Bosses.Count(),
		FPS:        g.Perf.Stats().CurrentFPS,
	}
	if g.Outcome != OutcomeNone {
		hud.Outcome = g.Outcome.String()
	}
	if s := g.Tank.Support; s != nil {
		hud.SupportHP = s.HP
		hud.SupportMaxHP = s.MaxHP
	}
	return hud
}

// Render draws the current frame through r. Nothing is mutated.
func (g *Game) Render(r entity.Renderer) {
	r.SetView(*g.Camera)
	r.Clear()
	r.RenderTerrain(g.Terrain.Visible(g.Camera))

	for _, it := range g.Items.List {
		r.RenderItem(it)
	}
	for _, e := range g.Enemies.List {
		r.RenderEnemy(e)
	}
	for _, b := range g.Bosses.List {
		r.RenderBoss(b)
	}
	for _, list := range [][]*entity.Bullet{g.Bullets.Player, g.Bullets.Support, g.Enemies.Bullets, g.Bosses.Bullets} {
		for _, b := range list {
			r.RenderBullet(b)
		}
	}
	r.RenderTank(g.Tank)
	r.RenderEffects(entity.Effects{
		Waves:      g.Weapons.ElectricWave.Waves,
		Missiles:   g.Weapons.Missile.Missiles,
		Explosions: slices.Concat(g.Bosses.Explosions, g.Weapons.Missile.Explosions),
		Bursts:     g.Bosses.Bursts,
	})
	r.RenderHUD(g.HUD())
	r.Present()
}

// Run drives the game at the configured tick rate until src issues
// ActionQuit or ctx is cancelled. r may be nil for a headless run.
func (g *Game) Run(ctx context.Context, src input.Source, r entity.Renderer) error {
	ticker := time.NewTicker(g.Config.TickDuration())
	defer ticker.Stop()

	g.logger.Info(g.ctx, "Game loop started", "tick", g.Config.TickDuration().String())
	for {
		select {
		case <-ctx.Done():
			g.logger.Info(g.ctx, "Game loop stopped", "frame", g.Frame)
			return ctx.Err()
		case now := <-ticker.C:
			in := src.Poll()
			if in.Has(input.ActionQuit) {
				g.logger.Info(g.ctx, "Quit requested", "frame", g.Frame)
				return nil
			}
			g.Advance(in, now)
			if r != nil {
				g.Render(r)
			}
		}
	}
}

// Advance runs one tick and feeds the frame time to the performance
// monitor. Front ends that own their own loop call it once per frame.
func (g *Game) Advance(in input.State, now time.Time) {
	g.Update(in)
	g.observeFrame(now)
}

func (g *Game) observeFrame(now time.Time) {
	before := g.Perf.Scale()
	if _, changed := g.Perf.Frame(g.ctx, now); !changed {
		return
	}
	scale := g.Perf.Scale()
	g.SetScale(scale)
	if scale < before {
		g.EventBus.Publish(event.NewPerformanceEvent(g, g.Perf.Stats().AverageFPS, scale))
	}
}
