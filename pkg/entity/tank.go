package entity

import (
	"math"

	"github.com/opd-ai/go-tankgame/pkg/config"
	"github.com/opd-ai/go-tankgame/pkg/input"
	"github.com/opd-ai/go-tankgame/pkg/physics"
	"github.com/opd-ai/go-tankgame/pkg/validation"
)

const (
	tankRadius    = 25
	supportRadius = 20

	// muzzleOffset is how far ahead of the hull a shell appears
	muzzleOffset = 20

	// supportDeadband keeps the escort still while it is close to its slot
	supportDeadband = 10

	// defaultAim points straight up the screen
	defaultAim = -math.Pi / 2
)

var supportStart = physics.Vector2D{X: 350, Y: 350}

// Tank is the player's tank
type Tank struct {
	BaseEntity
	Speed         float64
	HP            int
	MaxHP         int
	ShootCooldown int
	ShootInterval int

	// Angle is the hull heading, TurretAngle the smoothed rendered aim.
	Angle       float64
	TurretAngle float64

	AutoAim           bool
	AutoShoot         bool
	TriangularBullets bool
	NormalizeDiagonal bool
	AutoAimRange      float64
	AimSmoothness     float64

	Support *SupportTank

	bulletSpeed float64
	autoAim     bool
	autoShoot   bool
	aimAngle    float64
}

// SupportTank is the escort that trails the player
type SupportTank struct {
	BaseEntity
	HP             int
	MaxHP          int
	Speed          float64
	FollowAngle    float64
	TargetDistance float64
	ShootCooldown  int
	ShootInterval  int
	Range          float64
	TurretAngle    float64
}

// NewTank creates the player tank and its escort from cfg
func NewTank(cfg *config.GameConfig) *Tank {
	t := &Tank{
		Speed:             cfg.Tank.Speed,
		MaxHP:             cfg.Tank.HP,
		ShootInterval:     cfg.Tank.ShootInterval,
		NormalizeDiagonal: cfg.Tank.NormalizeDiagonal,
		AutoAimRange:      cfg.Tank.AutoAimRange,
		AimSmoothness:     cfg.Tank.AutoAimSmoothness,
		autoAim:           cfg.Tank.AutoAim,
		autoShoot:         cfg.Tank.AutoShoot,
		bulletSpeed:       cfg.Bullets.Speed,
		Support: &SupportTank{
			MaxHP:          cfg.SupportTank.HP,
			Speed:          cfg.SupportTank.Speed,
			FollowAngle:    cfg.SupportTank.FollowAngle,
			TargetDistance: cfg.SupportTank.TargetDistance,
			ShootInterval:  cfg.SupportTank.ShootInterval,
			Range:          cfg.SupportTank.Range,
		},
	}
	t.Reset()
	return t
}

// Reset restores the starting stats without reallocating
func (t *Tank) Reset() {
	t.BaseEntity = BaseEntity{
		ID:       1,
		Collider: physics.Circle{Radius: tankRadius},
		Active:   true,
	}
	t.HP = t.MaxHP
	t.ShootCooldown = 0
	t.Angle = 0
	t.TurretAngle = defaultAim
	t.aimAngle = defaultAim
	t.AutoAim = t.autoAim
	t.AutoShoot = t.autoShoot
	t.TriangularBullets = false

	s := t.Support
	s.BaseEntity = BaseEntity{
		ID:       2,
		Position: supportStart,
		Collider: physics.Circle{Center: supportStart, Radius: supportRadius},
		Active:   s.MaxHP > 0,
	}
	s.HP = s.MaxHP
	s.ShootCooldown = 0
	s.TurretAngle = defaultAim
}

// SetPosition moves the tank to p
func (t *Tank) SetPosition(p physics.Vector2D) {
	t.Position = p
	t.Collider.Center = p
}

// Alive reports whether the tank has HP left
func (t *Tank) Alive() bool {
	return t.HP > 0
}

// Update moves the tank, aims, fires and runs the escort for one tick
func (t *Tank) Update(in input.State, enemies []*Enemy, bullets *Bullets) {
	in = validation.Input(in)

	dir := in.Move
	if t.NormalizeDiagonal && dir.X != 0 && dir.Y != 0 {
		dir = dir.Normalize()
	}
	t.Velocity = dir.Scale(t.Speed)
	if !dir.IsZero() {
		t.Angle = dir.Angle()
	}
	t.Move()

	aim := t.aim(enemies)
	t.aimAngle = aim
	t.TurretAngle = physics.NormalizeAngle(t.TurretAngle + physics.AngleDiff(aim, t.TurretAngle)*t.AimSmoothness)

	if (in.Fire || t.AutoShoot) && t.ShootCooldown <= 0 && bullets != nil {
		muzzle := t.Position.Add(physics.FromAngle(aim, muzzleOffset))
		bullets.AddPlayer(muzzle, aim, t.TriangularBullets)
		t.ShootCooldown = t.ShootInterval
	}
	if t.ShootCooldown > 0 {
		t.ShootCooldown--
	}

	t.Support.update(t.Position, enemies, bullets)
}

// FiringAngle is the raw aim computed by the last Update. Every shot the
// tank fires uses it; only TurretAngle lags behind.
func (t *Tank) FiringAngle() float64 {
	return t.aimAngle
}

// AimAngle returns the raw firing angle for the current enemies
func (t *Tank) AimAngle(enemies []*Enemy) float64 {
	return t.aim(enemies)
}

func (t *Tank) aim(enemies []*Enemy) float64 {
	if !t.AutoAim {
		return defaultAim
	}
	target, ok := Nearest(enemies, t.Position, t.AutoAimRange)
	if !ok {
		return defaultAim
	}
	predicted := physics.PredictIntercept(t.Position, target.Position,
		target.HeadingVelocity(t.Position), t.bulletSpeed)
	return predicted.Sub(t.Position).Angle()
}

// TakeDamage subtracts n HP, never going below zero, and reports whether this
// call destroyed the tank.
func (t *Tank) TakeDamage(n int) bool {
	was := t.HP
	t.HP = max(t.HP-validation.Damage(n), 0)
	return was > 0 && t.HP == 0
}

// Heal restores up to n HP and reports whether any HP was restored
func (t *Tank) Heal(n int) bool {
	if t.HP >= t.MaxHP || n <= 0 {
		return false
	}
	t.HP = min(t.HP+n, t.MaxHP)
	return true
}

// HealSupport heals the escort if it is alive and hurt
func (t *Tank) HealSupport(n int) bool {
	return t.Support.heal(n)
}

// ToggleAutoAim flips auto-aim and returns the new setting
func (t *Tank) ToggleAutoAim() bool {
	t.AutoAim = !t.AutoAim
	return t.AutoAim
}

// ToggleAutoShoot flips auto-fire and returns the new setting
func (t *Tank) ToggleAutoShoot() bool {
	t.AutoShoot = !t.AutoShoot
	return t.AutoShoot
}

// SetTriangularBullets switches the heavy shell power-up on or off
func (t *Tank) SetTriangularBullets(enabled bool) {
	t.TriangularBullets = enabled
}

// Alive reports whether the escort is still in play
func (s *SupportTank) Alive() bool {
	return s != nil && s.Active && s.HP > 0
}

// Slot returns where the escort wants to be relative to leader
func (s *SupportTank) Slot(leader physics.Vector2D) physics.Vector2D {
	return leader.Add(physics.FromAngle(s.FollowAngle, s.TargetDistance))
}

// TakeDamage subtracts n HP and reports whether the escort was destroyed
func (s *SupportTank) TakeDamage(n int) bool {
	if !s.Alive() {
		return false
	}
	s.HP = max(s.HP-validation.Damage(n), 0)
	if s.HP == 0 {
		s.Active = false
		return true
	}
	return false
}

func (s *SupportTank) heal(n int) bool {
	if !s.Alive() || s.HP >= s.MaxHP || n <= 0 {
		return false
	}
	s.HP = min(s.HP+n, s.MaxHP)
	return true
}

func (s *SupportTank) update(leader physics.Vector2D, enemies []*Enemy, bullets *Bullets) {
	if !s.Alive() {
		return
	}

	offset := s.Slot(leader).Sub(s.Position)
	if offset.Length() > supportDeadband {
		s.Velocity = offset.Normalize().Scale(s.Speed)
		s.Rotation = s.Velocity.Angle()
		s.Move()
	} else {
		s.Velocity = physics.Vector2D{}
	}

	if s.ShootCooldown > 0 {
		s.ShootCooldown--
		return
	}
	target, ok := Nearest(enemies, s.Position, s.Range)
	if !ok || bullets == nil {
		return
	}
	s.TurretAngle = target.Position.Sub(s.Position).Angle()
	bullets.AddSupport(s.Position.Add(physics.FromAngle(s.TurretAngle, muzzleOffset)), s.TurretAngle)
	s.ShootCooldown = s.ShootInterval
}
