package entity

import (
	"math/rand/v2"
	"time"

	"github.com/opd-ai/go-tankgame/pkg/config"
	"github.com/opd-ai/go-tankgame/pkg/physics"
	"github.com/opd-ai/go-tankgame/pkg/world"
)

// ItemKind identifies a power-up
type ItemKind int

const (
	TriangularBullets ItemKind = iota
)

// String returns the power-up identifier
func (k ItemKind) String() string {
	switch k {
	case TriangularBullets:
		return "triangular_bullets"
	default:
		return "unknown"
	}
}

// Item is a power-up lying on the ground
type Item struct {
	BaseEntity
	Kind      ItemKind
	CreatedAt time.Time
}

// Items owns the dropped power-ups
type Items struct {
	List []*Item

	cfg config.ItemConfig
	ids IDSource
	rng *rand.Rand
	now func() time.Time
}

// NewItems creates an empty item store
func NewItems(cfg *config.GameConfig, rng *rand.Rand) *Items {
	return &Items{cfg: cfg.Items, rng: rng, now: time.Now}
}

// Drop rolls the drop chance and, on success, places an item at pos
func (s *Items) Drop(pos physics.Vector2D, kind ItemKind) *Item {
	if s.rng.Float64() >= s.cfg.DropChance {
		return nil
	}
	return s.Spawn(pos, kind)
}

// Spawn places an item at pos unconditionally
func (s *Items) Spawn(pos physics.Vector2D, kind ItemKind) *Item {
	it := &Item{
		BaseEntity: BaseEntity{
			ID:       s.ids.Next(),
			Position: pos,
			Collider: physics.Circle{Center: pos, Radius: s.cfg.PickupRadius},
			Active:   true,
		},
		Kind:      kind,
		CreatedAt: s.now(),
	}
	s.List = append(s.List, it)
	return it
}

// Update collects items the tank touches and drops those far off screen.
// It returns the collected items.
func (s *Items) Update(tank *Tank, cam *world.Camera) []*Item {
	var collected []*Item
	for i := len(s.List) - 1; i >= 0; i-- {
		it := s.List[i]

		if physics.Within(it.Position, tank.Position, s.cfg.PickupRadius) {
			apply(it, tank)
			it.Active = false
			collected = append(collected, it)
			s.List = removeAt(s.List, i)
			continue
		}

		if !cam.OnScreen(it.Position, s.cfg.ScreenMargin) {
			it.Active = false
			s.List = removeAt(s.List, i)
		}
	}
	return collected
}

func apply(it *Item, tank *Tank) {
	switch it.Kind {
	case TriangularBullets:
		tank.SetTriangularBullets(true)
	}
}

// Count returns the number of items on the ground
func (s *Items) Count() int {
	return len(s.List)
}

// Reset removes every item
func (s *Items) Reset() {
	clear(s.List)
	s.List = s.List[:0]
	s.ids.Reset()
}
