package engine

import (
	"github.com/opd-ai/go-tankgame/pkg/entity"
	"github.com/opd-ai/go-tankgame/pkg/physics"
)

// GameState represents a snapshot of the game state
type GameState struct {
	Frame   uint64
	Status  GameStatus
	Outcome Outcome
	Tank    TankState
	Support SupportState
	Enemies []EnemyState
	Bosses  []BossState
	Items   []ItemState
	Bullets BulletCounts
	Victory entity.Victory
	Weapons []entity.WeaponState
	HUD     entity.HUD
}

// TankState represents a snapshot of the player's tank
type TankState struct {
	Position    physics.Vector2D
	HP          int
	MaxHP       int
	Angle       float64
	TurretAngle float64
	AutoAim     bool
	AutoShoot   bool
	Triangular  bool
}

// SupportState represents a snapshot of the escort tank
type SupportState struct {
	Alive    bool
	Position physics.Vector2D
	HP       int
	MaxHP    int
}

// EnemyState represents a snapshot of a regular enemy
type EnemyState struct {
	ID       entity.ID
	Position physics.Vector2D
	HP       int
	MaxHP    int
}

// BossState represents a snapshot of a boss
type BossState struct {
	ID           entity.ID
	Name         string
	Kind         entity.BossKind
	Level        int
	Position     physics.Vector2D
	HP           int
	MaxHP        int
	HitRadius    float64
	ShieldActive bool
}

// ItemState represents a snapshot of a dropped power-up
type ItemState struct {
	ID       entity.ID
	Kind     entity.ItemKind
	Position physics.Vector2D
}

// BulletCounts is the number of live projectiles by owner
type BulletCounts struct {
	Player  int
	Support int
	Enemy   int
	Boss    int
}

// Snapshot returns a copy of the current game state. The result shares no
// memory with the game.
func (g *Game) Snapshot() *GameState {
	s := &GameState{
		Frame:   g.Frame,
		Status:  g.Status,
		Outcome: g.Outcome,
		Tank: TankState{
			Position:    g.Tank.Position,
			HP:          g.Tank.HP,
			MaxHP:       g.Tank.MaxHP,
			Angle:       g.Tank.Angle,
			TurretAngle: g.Tank.TurretAngle,
			AutoAim:     g.Tank.AutoAim,
			AutoShoot:   g.Tank.AutoShoot,
			Triangular:  g.Tank.TriangularBullets,
		},
		Enemies: make([]EnemyState, 0, len(g.Enemies.List)),
		Bosses:  make([]BossState, 0, len(g.Bosses.List)),
		Items:   make([]ItemState, 0, len(g.Items.List)),
		Bullets: BulletCounts{
			Player:  len(g.Bullets.Player),
			Support: len(g.Bullets.Support),
			Enemy:   len(g.Enemies.Bullets),
			Boss:    len(g.Bosses.Bullets),
		},
		Victory: g.Victory,
		Weapons: g.Weapons.States(),
		HUD:     g.HUD(),
	}

	if sp := g.Tank.Support; sp != nil {
		s.Support = SupportState{Alive: sp.Alive(), Position: sp.Position, HP: sp.HP, MaxHP: sp.MaxHP}
	}
	for _, e := range g.Enemies.List {
		s.Enemies = append(s.Enemies, EnemyState{ID: e.ID, Position: e.Position, HP: e.HP, MaxHP: e.MaxHP})
	}
	for _, b := range g.Bosses.List {
		s.Bosses = append(s.Bosses, BossState{
			ID:           b.ID,
			Name:         b.Name,
			Kind:         b.Kind,
			Level:        b.Level,
			Position:     b.Position,
			HP:           b.HP,
			MaxHP:        b.MaxHP,
			HitRadius:    b.HitRadius(),
			ShieldActive: b.ShieldActive,
		})
	}
	for _, it := range g.Items.List {
		s.Items = append(s.Items, ItemState{ID: it.ID, Kind: it.Kind, Position: it.Position})
	}
	return s
}
