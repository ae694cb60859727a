package entity

import (
	"github.com/opd-ai/go-tankgame/pkg/config"
	"github.com/opd-ai/go-tankgame/pkg/physics"
	"github.com/opd-ai/go-tankgame/pkg/world"
)

// Owner identifies who fired a bullet
type Owner int

const (
	OwnerPlayer Owner = iota
	OwnerSupport
	OwnerEnemy
	OwnerBoss
)

// String returns the owner's name
func (o Owner) String() string {
	switch o {
	case OwnerPlayer:
		return "player"
	case OwnerSupport:
		return "support"
	case OwnerEnemy:
		return "enemy"
	case OwnerBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// laserSpeedFactor scales the base bullet speed for bullet-time lasers
const laserSpeedFactor = 2

// Bullet is a single projectile
type Bullet struct {
	BaseEntity
	Owner           Owner
	Damage          int
	IsLaser         bool
	IsTriangular    bool
	IsExplosive     bool
	ExplosionRadius float64
}

func (b *Bullet) cause() Cause {
	switch {
	case b.Owner == OwnerSupport:
		return CauseSupport
	case b.IsLaser:
		return CauseLaser
	default:
		return CauseBullet
	}
}

// indexedEnemy remembers an enemy's slot so the broad phase can honor the
// store's back-to-front visiting order.
type indexedEnemy struct {
	enemy *Enemy
	order int
}

// Bullets owns the player's and the escort's bullets
type Bullets struct {
	Player  []*Bullet
	Support []*Bullet

	cfg            config.BulletConfig
	enemyHitRadius float64
	index          *physics.QuadTree[indexedEnemy]
	positions      []physics.Vector2D
}

// NewBullets creates an empty bullet store
func NewBullets(cfg *config.GameConfig) *Bullets {
	return &Bullets{
		cfg:            cfg.Bullets,
		enemyHitRadius: cfg.Enemies.HitRadius,
		index:          physics.NewQuadTree[indexedEnemy](physics.Rect{}, 8),
	}
}

func (s *Bullets) newBullet(pos physics.Vector2D, angle, speed float64, owner Owner) *Bullet {
	return &Bullet{
		BaseEntity: BaseEntity{
			Position: pos,
			Velocity: physics.FromAngle(angle, speed),
			Rotation: angle,
			Collider: physics.Circle{Center: pos, Radius: s.cfg.Radius},
			Active:   true,
		},
		Owner:  owner,
		Damage: s.cfg.Damage,
	}
}

// AddPlayer fires a player shell from pos toward angle
func (s *Bullets) AddPlayer(pos physics.Vector2D, angle float64, triangular bool) *Bullet {
	b := s.newBullet(pos, angle, s.cfg.Speed, OwnerPlayer)
	if triangular {
		b.IsTriangular = true
		b.Damage = s.cfg.TriangularDamage
	}
	s.Player = append(s.Player, b)
	return b
}

// AddSupport fires an escort shell
func (s *Bullets) AddSupport(pos physics.Vector2D, angle float64) *Bullet {
	b := s.newBullet(pos, angle, s.cfg.SupportSpeed, OwnerSupport)
	s.Support = append(s.Support, b)
	return b
}

// AddLaser fires a bullet-time laser at twice the shell speed
func (s *Bullets) AddLaser(pos physics.Vector2D, angle float64) *Bullet {
	b := s.newBullet(pos, angle, s.cfg.Speed*laserSpeedFactor, OwnerPlayer)
	b.IsLaser = true
	s.Player = append(s.Player, b)
	return b
}

// Count returns the number of live bullets
func (s *Bullets) Count() int {
	return len(s.Player) + len(s.Support)
}

// Update moves every bullet and resolves hits. Bosses are tested before
// enemies; the first overlap consumes the bullet.
func (s *Bullets) Update(t Targets, cam *world.Camera) []Kill {
	s.rebuildIndex(t.enemies())

	var kills []Kill
	s.Player, kills = s.update(s.Player, t, cam, kills)
	s.Support, kills = s.update(s.Support, t, cam, kills)
	return kills
}

func (s *Bullets) rebuildIndex(enemies []*Enemy) {
	s.positions = s.positions[:0]
	for _, e := range enemies {
		s.positions = append(s.positions, e.Position)
	}
	s.index.Clear(physics.BoundsOf(s.positions, s.enemyHitRadius+1))
	for i, e := range enemies {
		s.index.Insert(e.Position, indexedEnemy{enemy: e, order: i})
	}
}

func (s *Bullets) update(list []*Bullet, t Targets, cam *world.Camera, kills []Kill) ([]*Bullet, []Kill) {
	for i := len(list) - 1; i >= 0; i-- {
		b := list[i]
		b.Move()
		cause := b.cause()

		if boss := s.hitBoss(b, t.bosses()); boss != nil {
			if k, ok := t.HitBoss(boss, b.Damage, cause); ok {
				kills = append(kills, k)
			}
			list = removeAt(list, i)
			continue
		}

		if e := s.hitEnemy(b); e != nil {
			if k, ok := t.HitEnemy(e, b.Damage, cause); ok {
				kills = append(kills, k)
			}
			list = removeAt(list, i)
			continue
		}

		if !cam.OnScreen(b.Position, s.cfg.ScreenMargin) {
			list = removeAt(list, i)
		}
	}
	return list, kills
}

func (s *Bullets) hitBoss(b *Bullet, bosses []*Boss) *Boss {
	for i := len(bosses) - 1; i >= 0; i-- {
		if physics.Within(b.Position, bosses[i].Position, bosses[i].HitRadius()) {
			return bosses[i]
		}
	}
	return nil
}

// hitEnemy returns the overlapping live enemy latest in store order
func (s *Bullets) hitEnemy(b *Bullet) *Enemy {
	var hit *Enemy
	best := -1
	for _, c := range s.index.Query(physics.RectAround(b.Position, s.enemyHitRadius+1)) {
		if !c.enemy.Active || c.order <= best {
			continue
		}
		if physics.Within(b.Position, c.enemy.Position, s.enemyHitRadius) {
			hit, best = c.enemy, c.order
		}
	}
	return hit
}

// Reset removes every bullet
func (s *Bullets) Reset() {
	clear(s.Player)
	s.Player = s.Player[:0]
	clear(s.Support)
	s.Support = s.Support[:0]
	s.index.Clear(physics.Rect{})
}
