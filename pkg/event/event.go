// pkg/event/event.go
package event

import (
	"sync"

	"github.com/opd-ai/go-tankgame/pkg/physics"
)

// Type represents the type of event
type Type string

// Gameplay event types
const (
	GameStarted    Type = "game_started"
	GameEnded      Type = "game_ended"
	EnemySpawned   Type = "enemy_spawned"
	EnemyKilled    Type = "enemy_killed"
	BossSpawned    Type = "boss_spawned"
	BossKilled     Type = "boss_killed"
	ItemDropped    Type = "item_dropped"
	ItemCollected  Type = "item_collected"
	WeaponUsed     Type = "weapon_used"
	TankDamaged    Type = "tank_damaged"
	PerformanceLow Type = "performance_low"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// SubscriptionID identifies one Subscribe call
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// Bus manages event subscriptions and dispatching. Handlers run synchronously
// on the publishing goroutine.
type Bus struct {
	handlers map[Type][]subscription
	nextID   SubscriptionID
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscription),
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: b.nextID, handler: handler})
	return b.nextID
}

// Unsubscribe removes a handler registered by Subscribe
func (b *Bus) Unsubscribe(eventType Type, id SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// GameEvent reports a change of the game state machine
type GameEvent struct {
	BaseEvent
	Outcome string
	Kills   int
	Frame   uint64
}

// NewGameEvent creates a new game event
func NewGameEvent(eventType Type, source interface{}, outcome string, kills int, frame uint64) *GameEvent {
	return &GameEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		Outcome:   outcome,
		Kills:     kills,
		Frame:     frame,
	}
}

// SpawnEvent reports an enemy or boss entering the field
type SpawnEvent struct {
	BaseEvent
	EntityID uint64
	Name     string
	Position physics.Vector2D
}

// NewSpawnEvent creates a new spawn event
func NewSpawnEvent(eventType Type, source interface{}, entityID uint64, name string, pos physics.Vector2D) *SpawnEvent {
	return &SpawnEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		EntityID:  entityID,
		Name:      name,
		Position:  pos,
	}
}

// KillEvent reports a destroyed enemy or boss
type KillEvent struct {
	BaseEvent
	EntityID uint64
	Name     string
	Position physics.Vector2D
	Cause    string
}

// NewKillEvent creates a new kill event
func NewKillEvent(eventType Type, source interface{}, entityID uint64, name string, pos physics.Vector2D, cause string) *KillEvent {
	return &KillEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		EntityID:  entityID,
		Name:      name,
		Position:  pos,
		Cause:     cause,
	}
}

// ItemEvent reports power-up drops and pickups
type ItemEvent struct {
	BaseEvent
	Kind     string
	Position physics.Vector2D
}

// NewItemEvent creates a new item event
func NewItemEvent(eventType Type, source interface{}, kind string, pos physics.Vector2D) *ItemEvent {
	return &ItemEvent{
		BaseEvent: BaseEvent{EventType: eventType, Source: source},
		Kind:      kind,
		Position:  pos,
	}
}

// WeaponEvent reports a special weapon activation
type WeaponEvent struct {
	BaseEvent
	Weapon string
	Result string
}

// NewWeaponEvent creates a new weapon event
func NewWeaponEvent(source interface{}, weapon, result string) *WeaponEvent {
	return &WeaponEvent{
		BaseEvent: BaseEvent{EventType: WeaponUsed, Source: source},
		Weapon:    weapon,
		Result:    result,
	}
}

// DamageEvent reports damage taken by the player's tank
type DamageEvent struct {
	BaseEvent
	Amount      int
	RemainingHP int
}

// NewDamageEvent creates a new damage event
func NewDamageEvent(source interface{}, amount, remaining int) *DamageEvent {
	return &DamageEvent{
		BaseEvent:   BaseEvent{EventType: TankDamaged, Source: source},
		Amount:      amount,
		RemainingHP: remaining,
	}
}

// PerformanceEvent reports an adaptive quality change
type PerformanceEvent struct {
	BaseEvent
	FPS   float64
	Scale float64
}

// NewPerformanceEvent creates a new performance event
func NewPerformanceEvent(source interface{}, fps, scale float64) *PerformanceEvent {
	return &PerformanceEvent{
		BaseEvent: BaseEvent{EventType: PerformanceLow, Source: source},
		FPS:       fps,
		Scale:     scale,
	}
}
