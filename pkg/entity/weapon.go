// pkg/entity/weapon.go
package entity

import (
	"math"
	"time"

	"github.com/opd-ai/go-tankgame/pkg/config"
	"github.com/opd-ai/go-tankgame/pkg/physics"
	"github.com/opd-ai/go-tankgame/pkg/world"
)

// Weapon interface defines what the HUD needs from every special weapon
type Weapon interface {
	Name() string
	Ready() bool
	Progress() float64
}

// WeaponState is a read-only snapshot of one special weapon
type WeaponState struct {
	Name     string
	Ready    bool
	Active   bool
	Progress float64
}

const (
	waveFadePerTick     = 0.02
	missileContact      = 30
	missileTrailLength  = 10
	missileOffscreenPad = 100
)

// Lower bounds for scaled weapon tunables
const (
	minWaveRadius       = 150
	minWaveSpeed        = 4
	minMissileSpeed     = 3
	minExplosionRadius  = 40
	minMissileHomingRng = 100
)

// FuelResult describes what a fuel activation did
type FuelResult int

const (
	FuelCoolingDown FuelResult = iota
	FuelHealedTank
	FuelHealedSupport
	FuelNotNeeded
)

// String returns a short description of the result
func (r FuelResult) String() string {
	switch r {
	case FuelHealedTank:
		return "healed_tank"
	case FuelHealedSupport:
		return "healed_support"
	case FuelNotNeeded:
		return "not_needed"
	default:
		return "cooling_down"
	}
}

// FuelSystem repairs the tank, then the escort
type FuelSystem struct {
	Cooldown   Cooldown
	HealAmount int
}

// Name returns the weapon name
func (f *FuelSystem) Name() string { return "fuel" }

// Ready reports whether fuel can be used
func (f *FuelSystem) Ready() bool { return f.Cooldown.Ready() }

// Progress returns the cooldown recovery fraction
func (f *FuelSystem) Progress() float64 { return f.Cooldown.Progress() }

// Use heals the main tank if it is hurt, otherwise the escort if it is alive
// and hurt. The cooldown only starts when something was healed.
func (f *FuelSystem) Use(tank *Tank) FuelResult {
	if !f.Ready() {
		return FuelCoolingDown
	}
	switch {
	case tank.Heal(f.HealAmount):
		f.Cooldown.Start()
		return FuelHealedTank
	case tank.HealSupport(f.HealAmount):
		f.Cooldown.Start()
		return FuelHealedSupport
	default:
		return FuelNotNeeded
	}
}

// ElectricWave is one expanding ring
type ElectricWave struct {
	Center    physics.Vector2D
	Radius    float64
	MaxRadius float64
	Speed     float64
	Damage    int
	Opacity   float64

	hitEnemies map[ID]struct{}
	hitBosses  map[ID]struct{}
}

// HasHit reports whether this ring already struck the enemy with id
func (w *ElectricWave) HasHit(id ID) bool {
	_, ok := w.hitEnemies[id]
	return ok
}

// crossed reports whether the ring edge passed distance d during this tick
func (w *ElectricWave) crossed(d float64) bool {
	return d <= w.Radius && d >= w.Radius-w.Speed
}

// ElectricWaveSystem fires rings that damage everything they sweep over once
type ElectricWaveSystem struct {
	Cooldown Cooldown
	Waves    []*ElectricWave

	cfg   config.ElectricWaveConfig
	scale float64
}

// Name returns the weapon name
func (e *ElectricWaveSystem) Name() string { return "electric_wave" }

// Ready reports whether a wave can be fired
func (e *ElectricWaveSystem) Ready() bool { return e.Cooldown.Ready() }

// Progress returns the cooldown recovery fraction
func (e *ElectricWaveSystem) Progress() float64 { return e.Cooldown.Progress() }

// Fire launches a ring centered on center
func (e *ElectricWaveSystem) Fire(center physics.Vector2D) (*ElectricWave, bool) {
	if !e.Ready() {
		return nil, false
	}
	w := &ElectricWave{
		Center:     center,
		MaxRadius:  math.Max(e.cfg.MaxRadius*e.scale, minWaveRadius),
		Speed:      math.Max(e.cfg.Speed*e.scale, minWaveSpeed),
		Damage:     e.cfg.Damage,
		Opacity:    1,
		hitEnemies: make(map[ID]struct{}),
		hitBosses:  make(map[ID]struct{}),
	}
	e.Waves = append(e.Waves, w)
	e.Cooldown.Start()
	return w, true
}

func (e *ElectricWaveSystem) update(t Targets, kills []Kill) []Kill {
	for i := len(e.Waves) - 1; i >= 0; i-- {
		w := e.Waves[i]
		w.Radius += w.Speed

		enemies := t.enemies()
		for j := len(enemies) - 1; j >= 0; j-- {
			en := enemies[j]
			if _, hit := w.hitEnemies[en.ID]; hit || !w.crossed(en.Position.Distance(w.Center)) {
				continue
			}
			w.hitEnemies[en.ID] = struct{}{}
			if k, ok := t.HitEnemy(en, w.Damage, CauseElectricWave); ok {
				kills = append(kills, k)
			}
		}

		bosses := t.bosses()
		for j := len(bosses) - 1; j >= 0; j-- {
			b := bosses[j]
			if _, hit := w.hitBosses[b.ID]; hit || !w.crossed(b.Position.Distance(w.Center)) {
				continue
			}
			w.hitBosses[b.ID] = struct{}{}
			if k, ok := t.HitBoss(b, w.Damage, CauseElectricWave); ok {
				kills = append(kills, k)
			}
		}

		w.Opacity -= waveFadePerTick
		if w.Radius > w.MaxRadius || w.Opacity <= 0 {
			e.Waves = removeAt(e.Waves, i)
		}
	}
	return kills
}

// Missile is a homing rocket
type Missile struct {
	physics.Kinematics
	Age   int
	Trail []physics.Vector2D
}

// MissileSystem launches homing missiles that explode on contact
type MissileSystem struct {
	Cooldown   Cooldown
	Missiles   []*Missile
	Explosions []*Explosion

	cfg   config.MissileConfig
	scale float64
}

// Name returns the weapon name
func (m *MissileSystem) Name() string { return "missile" }

// Ready reports whether a missile can be launched
func (m *MissileSystem) Ready() bool { return m.Cooldown.Ready() }

// Progress returns the cooldown recovery fraction
func (m *MissileSystem) Progress() float64 { return m.Cooldown.Progress() }

func (m *MissileSystem) speed() float64 {
	return math.Max(m.cfg.Speed*m.scale, minMissileSpeed)
}

func (m *MissileSystem) explosionRadius() float64 {
	return math.Max(m.cfg.ExplosionRadius*m.scale, minExplosionRadius)
}

func (m *MissileSystem) homingRange() float64 {
	return math.Max(m.cfg.HomingRange*m.scale, minMissileHomingRng)
}

// Fire launches a missile from pos, initially flying up the screen
func (m *MissileSystem) Fire(pos physics.Vector2D) (*Missile, bool) {
	if !m.Ready() {
		return nil, false
	}
	speed := m.speed()
	ms := &Missile{
		Kinematics: physics.Kinematics{
			Position: pos,
			Velocity: physics.Vector2D{Y: -speed},
			MaxSpeed: speed,
		},
		Trail: make([]physics.Vector2D, 0, missileTrailLength),
	}
	m.Missiles = append(m.Missiles, ms)
	m.Cooldown.Start()
	return ms, true
}

func (m *MissileSystem) update(t Targets, cam *world.Camera, kills []Kill) []Kill {
	for i := len(m.Missiles) - 1; i >= 0; i-- {
		ms := m.Missiles[i]
		ms.Age++

		if target, ok := Nearest(t.enemies(), ms.Position, m.homingRange()); ok {
			ms.Steer(target.Position, m.cfg.TurnRate)
		} else {
			ms.Advance()
		}

		if len(ms.Trail) == missileTrailLength {
			ms.Trail = removeAt(ms.Trail, 0)
		}
		ms.Trail = append(ms.Trail, ms.Position)

		if m.touching(ms, t) || ms.Age >= m.cfg.LifetimeTicks {
			kills = m.explode(ms, t, kills)
			m.Missiles = removeAt(m.Missiles, i)
			continue
		}

		if !cam.OnScreen(ms.Position, missileOffscreenPad) {
			m.Missiles = removeAt(m.Missiles, i)
		}
	}

	for i := len(m.Explosions) - 1; i >= 0; i-- {
		m.Explosions[i].Remaining--
		if m.Explosions[i].Remaining <= 0 {
			m.Explosions = removeAt(m.Explosions, i)
		}
	}
	return kills
}

func (m *MissileSystem) touching(ms *Missile, t Targets) bool {
	for _, e := range t.enemies() {
		if physics.Within(ms.Position, e.Position, missileContact) {
			return true
		}
	}
	for _, b := range t.bosses() {
		if physics.Within(ms.Position, b.Position, b.HitRadius()) {
			return true
		}
	}
	return false
}

func (m *MissileSystem) explode(ms *Missile, t Targets, kills []Kill) []Kill {
	radius := m.explosionRadius()

	enemies := t.enemies()
	for j := len(enemies) - 1; j >= 0; j-- {
		if physics.Within(ms.Position, enemies[j].Position, radius) {
			if k, ok := t.HitEnemy(enemies[j], m.cfg.Damage, CauseMissile); ok {
				kills = append(kills, k)
			}
		}
	}

	bosses := t.bosses()
	for j := len(bosses) - 1; j >= 0; j-- {
		if physics.Within(ms.Position, bosses[j].Position, radius+bosses[j].HitRadius()) {
			if k, ok := t.HitBoss(bosses[j], m.cfg.Damage, CauseMissile); ok {
				kills = append(kills, k)
			}
		}
	}

	m.Explosions = append(m.Explosions, &Explosion{
		Position:  ms.Position,
		Radius:    radius,
		Remaining: explosionLifetime,
		Lifetime:  explosionLifetime,
	})
	return kills
}

// BulletTimeSystem lets held fire emit lasers every tick for a while
type BulletTimeSystem struct {
	Active    bool
	Duration  time.Duration
	Remaining time.Duration
	Cooldown  Cooldown
}

// Name returns the weapon name
func (b *BulletTimeSystem) Name() string { return "bullet_time" }

// Ready reports whether bullet time can be activated
func (b *BulletTimeSystem) Ready() bool { return !b.Active && b.Cooldown.Ready() }

// Progress returns the remaining active fraction while active and the
// cooldown recovery fraction otherwise.
func (b *BulletTimeSystem) Progress() float64 {
	if b.Active {
		if b.Duration <= 0 {
			return 0
		}
		return float64(b.Remaining) / float64(b.Duration)
	}
	return b.Cooldown.Progress()
}

// Activate starts bullet time
func (b *BulletTimeSystem) Activate() bool {
	if !b.Ready() {
		return false
	}
	b.Active = true
	b.Remaining = b.Duration
	return true
}

func (b *BulletTimeSystem) tick(dt time.Duration) {
	if !b.Active {
		b.Cooldown.Tick(dt)
		return
	}
	b.Remaining -= dt
	if b.Remaining <= 0 {
		b.Active = false
		b.Remaining = 0
		b.Cooldown.Start()
	}
}

// Weapons groups the four special weapons
type Weapons struct {
	Fuel         FuelSystem
	ElectricWave ElectricWaveSystem
	Missile      MissileSystem
	BulletTime   BulletTimeSystem
}

// NewWeapons creates ready weapons from cfg
func NewWeapons(cfg *config.GameConfig) *Weapons {
	return &Weapons{
		Fuel: FuelSystem{
			Cooldown:   NewCooldown(config.Millis(cfg.Fuel.CooldownMS)),
			HealAmount: cfg.Fuel.HealAmount,
		},
		ElectricWave: ElectricWaveSystem{
			Cooldown: NewCooldown(config.Millis(cfg.ElectricWave.CooldownMS)),
			cfg:      cfg.ElectricWave,
			scale:    1,
		},
		Missile: MissileSystem{
			Cooldown: NewCooldown(config.Millis(cfg.Missile.CooldownMS)),
			cfg:      cfg.Missile,
			scale:    1,
		},
		BulletTime: BulletTimeSystem{
			Duration: config.Millis(cfg.BulletTime.DurationMS),
			Cooldown: NewCooldown(config.Millis(cfg.BulletTime.CooldownMS)),
		},
	}
}

// SetScale applies the display scale to ranges and speeds of new waves and
// missiles.
func (w *Weapons) SetScale(scale float64) {
	if scale <= 0 {
		scale = 1
	}
	w.ElectricWave.scale = scale
	w.Missile.scale = scale
}

// UseFuel applies fuel to the tank
func (w *Weapons) UseFuel(tank *Tank) FuelResult {
	return w.Fuel.Use(tank)
}

// UseElectricWave fires a wave from the tank
func (w *Weapons) UseElectricWave(tank *Tank) bool {
	_, ok := w.ElectricWave.Fire(tank.Position)
	return ok
}

// UseMissile launches a missile from the tank
func (w *Weapons) UseMissile(tank *Tank) bool {
	_, ok := w.Missile.Fire(tank.Position)
	return ok
}

// UseBulletTime activates bullet time
func (w *Weapons) UseBulletTime() bool {
	return w.BulletTime.Activate()
}

// Update advances waves and missiles, emits bullet-time lasers while fire is
// held and ticks every cooldown by dt.
func (w *Weapons) Update(dt time.Duration, fire bool, tank *Tank, bullets *Bullets, t Targets, cam *world.Camera) []Kill {
	var kills []Kill
	kills = w.ElectricWave.update(t, kills)
	kills = w.Missile.update(t, cam, kills)

	if w.BulletTime.Active && fire && bullets != nil {
		aim := tank.FiringAngle()
		bullets.AddLaser(tank.Position.Add(physics.FromAngle(aim, muzzleOffset)), aim)
	}

	w.Fuel.Cooldown.Tick(dt)
	w.ElectricWave.Cooldown.Tick(dt)
	w.Missile.Cooldown.Tick(dt)
	w.BulletTime.tick(dt)
	return kills
}

// States returns a snapshot of every weapon for the HUD
func (w *Weapons) States() []WeaponState {
	return []WeaponState{
		{Name: w.Fuel.Name(), Ready: w.Fuel.Ready(), Progress: w.Fuel.Progress()},
		{Name: w.ElectricWave.Name(), Ready: w.ElectricWave.Ready(), Progress: w.ElectricWave.Progress()},
		{Name: w.Missile.Name(), Ready: w.Missile.Ready(), Progress: w.Missile.Progress()},
		{Name: w.BulletTime.Name(), Ready: w.BulletTime.Ready(), Active: w.BulletTime.Active, Progress: w.BulletTime.Progress()},
	}
}

// Reset makes every weapon ready and clears all effects
func (w *Weapons) Reset() {
	w.Fuel.Cooldown.Reset()
	w.ElectricWave.Cooldown.Reset()
	clear(w.ElectricWave.Waves)
	w.ElectricWave.Waves = w.ElectricWave.Waves[:0]
	w.Missile.Cooldown.Reset()
	clear(w.Missile.Missiles)
	w.Missile.Missiles = w.Missile.Missiles[:0]
	clear(w.Missile.Explosions)
	w.Missile.Explosions = w.Missile.Explosions[:0]
	w.BulletTime.Active = false
	w.BulletTime.Remaining = 0
	w.BulletTime.Cooldown.Reset()
}

var (
	_ Weapon = (*FuelSystem)(nil)
	_ Weapon = (*ElectricWaveSystem)(nil)
	_ Weapon = (*MissileSystem)(nil)
	_ Weapon = (*BulletTimeSystem)(nil)
)
