package entity

import (
	"math/rand/v2"

	"github.com/opd-ai/go-tankgame/pkg/config"
	"github.com/opd-ai/go-tankgame/pkg/physics"
	"github.com/opd-ai/go-tankgame/pkg/validation"
	"github.com/opd-ai/go-tankgame/pkg/world"
)

// Radii for hits landing on the player's tanks.
const (
	tankBulletRadius    = 25
	supportBulletRadius = 20
)

// Enemy is a regular hostile tank
type Enemy struct {
	BaseEntity
	HP            int
	MaxHP         int
	Speed         float64
	ShootCooldown int
	ShootInterval int
}

// Damage subtracts n HP and reports whether the enemy is dead
func (e *Enemy) Damage(n int) bool {
	e.HP -= validation.Damage(n)
	return e.HP <= 0
}

// HeadingVelocity returns the per-tick velocity the enemy uses to chase target
func (e *Enemy) HeadingVelocity(target physics.Vector2D) physics.Vector2D {
	return target.Sub(e.Position).Normalize().Scale(e.Speed)
}

// Enemies owns the live enemies and their bullets
type Enemies struct {
	List    []*Enemy
	Bullets []*Bullet

	cfg          config.EnemyConfig
	bulletSpeed  float64
	screenMargin float64
	ids          IDSource
	rng          *rand.Rand
}

// NewEnemies creates an empty enemy store
func NewEnemies(cfg *config.GameConfig, rng *rand.Rand) *Enemies {
	return &Enemies{
		cfg:          cfg.Enemies,
		bulletSpeed:  cfg.Bullets.Speed * 0.7,
		screenMargin: cfg.Bullets.ScreenMargin,
		rng:          rng,
	}
}

// Update spawns on schedule, moves every enemy toward the tank, fires enemy
// bullets and resolves contact with the tank. It returns the enemy spawned
// this tick, if any.
func (s *Enemies) Update(frame uint64, tank *Tank, cam *world.Camera) *Enemy {
	var spawned *Enemy
	if frame > 0 && s.cfg.SpawnInterval > 0 && frame%uint64(s.cfg.SpawnInterval) == 0 {
		spawned = s.Spawn(s.spawnPoint(cam))
	}

	despawn := cam.MaxDimension() + s.cfg.DespawnMargin
	for i := len(s.List) - 1; i >= 0; i-- {
		e := s.List[i]

		e.Velocity = e.HeadingVelocity(tank.Position)
		e.Rotation = e.Velocity.Angle()
		e.Move()

		if e.ShootCooldown <= 0 {
			s.shoot(e, tank.Position)
			e.ShootCooldown = e.ShootInterval
		} else {
			e.ShootCooldown--
		}

		if cam.DistanceTo(e.Position) > despawn {
			s.removeAt(i)
			continue
		}

		if physics.Within(e.Position, tank.Position, s.cfg.ContactRadius) {
			tank.TakeDamage(1)
			s.removeAt(i)
		}
	}

	s.updateBullets(tank, cam)
	return spawned
}

// spawnPoint picks a point beyond a random viewport edge
func (s *Enemies) spawnPoint(cam *world.Camera) physics.Vector2D {
	dist := cam.MaxDimension()/2 + s.cfg.SpawnMargin
	c := cam.Position
	switch s.rng.IntN(4) {
	case 0:
		return physics.Vector2D{X: c.X + (s.rng.Float64()-0.5)*cam.Width, Y: c.Y - dist}
	case 1:
		return physics.Vector2D{X: c.X + dist, Y: c.Y + (s.rng.Float64()-0.5)*cam.Height}
	case 2:
		return physics.Vector2D{X: c.X + (s.rng.Float64()-0.5)*cam.Width, Y: c.Y + dist}
	default:
		return physics.Vector2D{X: c.X - dist, Y: c.Y + (s.rng.Float64()-0.5)*cam.Height}
	}
}

// Spawn adds a fresh enemy at pos
func (s *Enemies) Spawn(pos physics.Vector2D) *Enemy {
	e := &Enemy{
		BaseEntity: BaseEntity{
			ID:       s.ids.Next(),
			Position: pos,
			Collider: physics.Circle{Center: pos, Radius: s.cfg.HitRadius},
			Active:   true,
		},
		HP:            s.cfg.HP,
		MaxHP:         s.cfg.HP,
		Speed:         s.cfg.Speed,
		ShootInterval: s.cfg.ShootInterval,
	}
	s.List = append(s.List, e)
	return e
}

func (s *Enemies) shoot(e *Enemy, target physics.Vector2D) {
	dir := target.Sub(e.Position)
	if dir.IsZero() {
		return
	}
	s.Bullets = append(s.Bullets, &Bullet{
		BaseEntity: BaseEntity{
			Position: e.Position,
			Velocity: dir.Normalize().Scale(s.bulletSpeed),
			Rotation: dir.Angle(),
			Active:   true,
		},
		Owner:  OwnerEnemy,
		Damage: 1,
	})
}

func (s *Enemies) updateBullets(tank *Tank, cam *world.Camera) {
	for i := len(s.Bullets) - 1; i >= 0; i-- {
		b := s.Bullets[i]
		b.Move()

		if physics.Within(b.Position, tank.Position, tankBulletRadius) {
			tank.TakeDamage(b.Damage)
			s.Bullets = removeAt(s.Bullets, i)
			continue
		}

		if sup := tank.Support; sup.Alive() && physics.Within(b.Position, sup.Position, supportBulletRadius) {
			sup.TakeDamage(b.Damage)
			s.Bullets = removeAt(s.Bullets, i)
			continue
		}

		if !cam.OnScreen(b.Position, s.screenMargin) {
			s.Bullets = removeAt(s.Bullets, i)
		}
	}
}

// damage applies n damage to e and removes it when it dies. Only
// Targets.HitEnemy calls it, so removal and kill counting stay together.
func (s *Enemies) damage(e *Enemy, n int) bool {
	if !e.Active || !e.Damage(n) {
		return false
	}
	s.Remove(e)
	return true
}

// Remove deletes e from the store
func (s *Enemies) Remove(e *Enemy) bool {
	for i, other := range s.List {
		if other == e {
			s.removeAt(i)
			return true
		}
	}
	return false
}

func (s *Enemies) removeAt(i int) {
	s.List[i].Active = false
	s.List = removeAt(s.List, i)
}

// Nearest returns the closest enemy strictly within maxRange of from
func (s *Enemies) Nearest(from physics.Vector2D, maxRange float64) (*Enemy, bool) {
	return Nearest(s.List, from, maxRange)
}

// Count returns the number of live enemies
func (s *Enemies) Count() int {
	return len(s.List)
}

// Reset removes every enemy and bullet and restarts id numbering
func (s *Enemies) Reset() {
	clear(s.List)
	s.List = s.List[:0]
	clear(s.Bullets)
	s.Bullets = s.Bullets[:0]
	s.ids.Reset()
}
