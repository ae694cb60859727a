package entity

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/opd-ai/go-tankgame/pkg/config"
	"github.com/opd-ai/go-tankgame/pkg/physics"
	"github.com/opd-ai/go-tankgame/pkg/validation"
	"github.com/opd-ai/go-tankgame/pkg/world"
)

// BossKind selects one of the boss archetypes
type BossKind int

const (
	TankCommander BossKind = iota
	HeavyArtillery
	LightningTank
	ShieldGuardian
)

// String returns the archetype's display name
func (k BossKind) String() string {
	if k < 0 || int(k) >= len(archetypes) {
		return "Unknown Boss"
	}
	return archetypes[k].Name
}

// AbilityKind selects a boss special ability
type AbilityKind int

const (
	RapidFire AbilityKind = iota
	ExplosiveShells
	ElectricBurst
	EnergyShield
)

// String returns the ability's identifier
func (k AbilityKind) String() string {
	switch k {
	case RapidFire:
		return "rapid_fire"
	case ExplosiveShells:
		return "explosive_shells"
	case ElectricBurst:
		return "electric_burst"
	case EnergyShield:
		return "energy_shield"
	default:
		return "unknown"
	}
}

// Ability holds a special ability's tunables. Only the fields relevant to
// Kind are set. Each boss carries its own copy.
type Ability struct {
	Kind            AbilityKind
	Duration        int
	Cooldown        int
	ShootInterval   int
	Damage          int
	ExplosionRadius float64
	Range           float64
	DamageReduction float64
}

// Archetype is a boss template
type Archetype struct {
	Kind          BossKind
	Name          string
	HP            int
	Speed         float64
	Size          float64
	ShootInterval int
	Ability       Ability
}

var archetypes = [...]Archetype{
	{
		Kind: TankCommander, Name: "Tank Commander",
		HP: 50, Speed: 1.5, Size: 1.5, ShootInterval: 30,
		Ability: Ability{Kind: RapidFire, Duration: 180, Cooldown: 300, ShootInterval: 8},
	},
	{
		Kind: HeavyArtillery, Name: "Heavy Artillery",
		HP: 80, Speed: 0.8, Size: 2.0, ShootInterval: 60,
		Ability: Ability{Kind: ExplosiveShells, Damage: 3, ExplosionRadius: 60, Cooldown: 240},
	},
	{
		Kind: LightningTank, Name: "Lightning Tank",
		HP: 35, Speed: 2.5, Size: 1.2, ShootInterval: 45,
		Ability: Ability{Kind: ElectricBurst, Range: 200, Damage: 2, Cooldown: 360},
	},
	{
		Kind: ShieldGuardian, Name: "Shield Guardian",
		HP: 60, Speed: 1.0, Size: 1.8, ShootInterval: 40,
		Ability: Ability{Kind: EnergyShield, Duration: 240, Cooldown: 480, DamageReduction: 0.5},
	},
}

// Archetypes returns a copy of the archetype table
func Archetypes() []Archetype {
	return slices.Clone(archetypes[:])
}

// ArchetypeForLevel returns the archetype used at the given boss level
func ArchetypeForLevel(level int) Archetype {
	n := len(archetypes)
	return archetypes[((level-1)%n+n)%n]
}

const (
	// bossUnitSize is the sprite size of a size-1 boss
	bossUnitSize = 60

	bossContactPadding  = 30
	bossBulletDamage    = 2
	bossBulletSpeed     = 0.8
	explosionRadius     = 60
	explosionDamage     = 1
	explosionLifetime   = 30
	burstEffectLifetime = 30
)

// Boss is a large enemy with a special ability
type Boss struct {
	BaseEntity
	Kind          BossKind
	Name          string
	Level         int
	HP            int
	MaxHP         int
	Speed         float64
	Size          float64
	ShootCooldown int
	ShootInterval int
	TurretAngle   float64

	Ability         Ability
	SpecialCooldown int
	SpecialDuration int
	SpecialActive   bool
	RapidFireActive bool
	ShieldActive    bool
	ExplosiveReady  bool
}

// HitRadius is the boss's collision radius
func (b *Boss) HitRadius() float64 {
	return bossUnitSize * b.Size / 2
}

// Explosion is the blast left by an explosive shell or a missile
type Explosion struct {
	Position  physics.Vector2D
	Radius    float64
	Remaining int
	Lifetime  int
}

// BurstEffect marks an electric burst between a boss and the tank
type BurstEffect struct {
	From      physics.Vector2D
	To        physics.Vector2D
	Remaining int
}

// Bosses owns the live bosses, their bullets and their effects
type Bosses struct {
	List       []*Boss
	Bullets    []*Bullet
	Explosions []*Explosion
	Bursts     []*BurstEffect

	cfg         config.BossConfig
	bulletSpeed float64
	margin      float64
	ids         IDSource
	rng         *rand.Rand
}

// NewBosses creates an empty boss store
func NewBosses(cfg *config.GameConfig, rng *rand.Rand) *Bosses {
	return &Bosses{
		cfg:         cfg.Boss,
		bulletSpeed: cfg.Bullets.EnemySpeed * bossBulletSpeed,
		margin:      cfg.Bullets.ScreenMargin,
		rng:         rng,
	}
}

// ShouldSpawn reports whether enough kills have accrued for the next boss
func (s *Bosses) ShouldSpawn(v *Victory) bool {
	return v.EnemiesKilled >= v.CurrentBossLevel*s.cfg.SpawnInterval && len(s.List) < s.cfg.MaxBosses
}

// Spawn places a boss of the given level at a random angle around the tank
func (s *Bosses) Spawn(tank physics.Vector2D, level int) *Boss {
	a := ArchetypeForLevel(level)
	hp := int(math.Floor(float64(a.HP) * (1 + s.cfg.LevelScaling*float64(level-1))))
	pos := tank.Add(physics.FromAngle(s.rng.Float64()*2*math.Pi, s.cfg.SpawnDistance))

	b := &Boss{
		BaseEntity: BaseEntity{
			ID:       s.ids.Next(),
			Position: pos,
			Active:   true,
		},
		Kind:          a.Kind,
		Name:          a.Name,
		Level:         level,
		HP:            hp,
		MaxHP:         hp,
		Speed:         a.Speed,
		Size:          a.Size,
		ShootInterval: a.ShootInterval,
		Ability:       a.Ability,
	}
	b.Collider = physics.Circle{Center: pos, Radius: b.HitRadius()}
	s.List = append(s.List, b)
	return b
}

// Update moves, fires and runs abilities for every boss, then advances boss
// bullets and effects.
func (s *Bosses) Update(tank *Tank, cam *world.Camera) {
	for i := len(s.List) - 1; i >= 0; i-- {
		b := s.List[i]
		s.move(b, tank.Position)
		s.runAbility(b, tank)
		s.shoot(b, tank.Position)

		if physics.Within(b.Position, tank.Position, b.HitRadius()+bossContactPadding) {
			if b.Size >= 2 {
				tank.TakeDamage(3)
			} else {
				tank.TakeDamage(2)
			}
		}
	}

	s.updateBullets(tank, cam)
	s.updateEffects()
}

func (s *Bosses) move(b *Boss, target physics.Vector2D) {
	dir := target.Sub(b.Position)
	b.TurretAngle = dir.Angle()
	if dir.Length() > s.cfg.MinDistance {
		b.Velocity = dir.Normalize().Scale(b.Speed)
		b.Rotation = b.TurretAngle
		b.Move()
	} else {
		b.Velocity = physics.Vector2D{}
	}
}

func (s *Bosses) runAbility(b *Boss, tank *Tank) {
	if b.SpecialCooldown > 0 {
		b.SpecialCooldown--
	}
	if b.SpecialActive {
		b.SpecialDuration--
		if b.SpecialDuration <= 0 {
			b.SpecialActive = false
			b.RapidFireActive = false
			b.ShieldActive = false
		}
	}
	if b.SpecialCooldown > 0 || b.SpecialActive {
		return
	}

	ab := b.Ability
	switch ab.Kind {
	case RapidFire:
		b.SpecialActive, b.RapidFireActive = true, true
		b.SpecialDuration = ab.Duration
	case ExplosiveShells:
		b.ExplosiveReady = true
	case ElectricBurst:
		if b.Position.Distance(tank.Position) <= ab.Range {
			tank.TakeDamage(ab.Damage)
			s.Bursts = append(s.Bursts, &BurstEffect{From: b.Position, To: tank.Position, Remaining: burstEffectLifetime})
		}
	case EnergyShield:
		b.SpecialActive, b.ShieldActive = true, true
		b.SpecialDuration = ab.Duration
	}
	b.SpecialCooldown = ab.Cooldown
}

func (s *Bosses) shoot(b *Boss, target physics.Vector2D) {
	if b.ShootCooldown > 0 {
		b.ShootCooldown--
		return
	}

	dir := target.Sub(b.Position)
	if !dir.IsZero() {
		bullet := &Bullet{
			BaseEntity: BaseEntity{
				Position: b.Position,
				Velocity: dir.Normalize().Scale(s.bulletSpeed),
				Rotation: dir.Angle(),
				Active:   true,
			},
			Owner:  OwnerBoss,
			Damage: bossBulletDamage,
		}
		if b.ExplosiveReady {
			b.ExplosiveReady = false
			bullet.IsExplosive = true
			bullet.ExplosionRadius = b.Ability.ExplosionRadius
			if b.Ability.Damage > 0 {
				bullet.Damage = b.Ability.Damage
			}
		}
		s.Bullets = append(s.Bullets, bullet)
	}

	if b.RapidFireActive {
		b.ShootCooldown = b.Ability.ShootInterval
	} else {
		b.ShootCooldown = b.ShootInterval
	}
}

func (s *Bosses) updateBullets(tank *Tank, cam *world.Camera) {
	for i := len(s.Bullets) - 1; i >= 0; i-- {
		b := s.Bullets[i]
		b.Move()

		if physics.Within(b.Position, tank.Position, tankBulletRadius) {
			tank.TakeDamage(b.Damage)
			if b.IsExplosive {
				s.explode(b.Position, tank)
			}
			s.Bullets = removeAt(s.Bullets, i)
			continue
		}

		if !cam.OnScreen(b.Position, s.margin) {
			s.Bullets = removeAt(s.Bullets, i)
		}
	}
}

func (s *Bosses) explode(at physics.Vector2D, tank *Tank) {
	if at.Distance(tank.Position) <= explosionRadius {
		tank.TakeDamage(explosionDamage)
	}
	s.Explosions = append(s.Explosions, &Explosion{
		Position:  at,
		Radius:    explosionRadius,
		Remaining: explosionLifetime,
		Lifetime:  explosionLifetime,
	})
}

func (s *Bosses) updateEffects() {
	for i := len(s.Explosions) - 1; i >= 0; i-- {
		s.Explosions[i].Remaining--
		if s.Explosions[i].Remaining <= 0 {
			s.Explosions = removeAt(s.Explosions, i)
		}
	}
	for i := len(s.Bursts) - 1; i >= 0; i-- {
		s.Bursts[i].Remaining--
		if s.Bursts[i].Remaining <= 0 {
			s.Bursts = removeAt(s.Bursts, i)
		}
	}
}

// damage applies d to b, reduced to ceil(d × reduction) while its shield is
// up, and removes b when it dies. Only Targets.HitBoss calls it.
func (s *Bosses) damage(b *Boss, d int) bool {
	if !b.Active {
		return false
	}
	d = validation.Damage(d)
	if b.ShieldActive {
		d = int(math.Ceil(float64(d) * b.Ability.DamageReduction))
	}
	b.HP -= d
	if b.HP > 0 {
		return false
	}
	s.Remove(b)
	return true
}

// Remove deletes b from the store
func (s *Bosses) Remove(b *Boss) bool {
	for i, other := range s.List {
		if other == b {
			b.Active = false
			s.List = removeAt(s.List, i)
			return true
		}
	}
	return false
}

// Count returns the number of live bosses
func (s *Bosses) Count() int {
	return len(s.List)
}

// Reset removes every boss, bullet and effect
func (s *Bosses) Reset() {
	clear(s.List)
	s.List = s.List[:0]
	clear(s.Bullets)
	s.Bullets = s.Bullets[:0]
	clear(s.Explosions)
	s.Explosions = s.Explosions[:0]
	clear(s.Bursts)
	s.Bursts = s.Bursts[:0]
	s.ids.Reset()
}
