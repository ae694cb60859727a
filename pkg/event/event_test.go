// pkg/event/event_test.go
package event

import (
	"sync"
	"testing"

	"github.com/opd-ai/go-tankgame/pkg/physics"
)

func TestNewEventBus_Creation_ReturnsInitializedBus(t *testing.T) {
	bus := NewEventBus()
	if bus == nil {
		t.Fatal("NewEventBus() returned nil")
	}
	if bus.handlers == nil {
		t.Error("handlers map not initialized")
	}
}

func TestBus_PublishReachesSubscribersOfThatType(t *testing.T) {
	bus := NewEventBus()

	var killed, spawned int
	bus.Subscribe(EnemyKilled, func(e Event) { killed++ })
	bus.Subscribe(EnemyKilled, func(e Event) { killed++ })
	bus.Subscribe(EnemySpawned, func(e Event) { spawned++ })

	bus.Publish(NewKillEvent(EnemyKilled, "test", 3, "enemy", physics.Vector2D{}, "bullet"))

	if killed != 2 {
		t.Errorf("expected both kill handlers to run, got %d calls", killed)
	}
	if spawned != 0 {
		t.Errorf("spawn handler should not run for a kill event, got %d calls", spawned)
	}
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewEventBus()
	bus.Publish(NewWeaponEvent(nil, "fuel", "healed"))
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus()

	var first, second int
	id := bus.Subscribe(ItemCollected, func(e Event) { first++ })
	bus.Subscribe(ItemCollected, func(e Event) { second++ })

	bus.Unsubscribe(ItemCollected, id)
	bus.Publish(NewItemEvent(ItemCollected, nil, "triangular_bullets", physics.Vector2D{}))

	if first != 0 {
		t.Error("unsubscribed handler was called")
	}
	if second != 1 {
		t.Errorf("remaining handler called %d times, expected 1", second)
	}

	// Unknown ids are ignored.
	bus.Unsubscribe(ItemCollected, 999)
	bus.Unsubscribe(GameEnded, id)
}

func TestBus_SubscriptionIDsAreUnique(t *testing.T) {
	bus := NewEventBus()
	a := bus.Subscribe(GameStarted, func(Event) {})
	b := bus.Subscribe(GameEnded, func(Event) {})
	if a == b {
		t.Errorf("Subscribe() returned duplicate id %d", a)
	}
}

func TestEventConstructors(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		expected Type
	}{
		{"game", NewGameEvent(GameEnded, "core", "victory", 30, 1800), GameEnded},
		{"spawn", NewSpawnEvent(BossSpawned, "core", 4, "Tank Commander", physics.Vector2D{X: 400}), BossSpawned},
		{"kill", NewKillEvent(BossKilled, "core", 1, "Shield Guardian", physics.Vector2D{X: 1}, "missile"), BossKilled},
		{"item", NewItemEvent(ItemDropped, "core", "triangular_bullets", physics.Vector2D{}), ItemDropped},
		{"weapon", NewWeaponEvent("core", "electric_wave", "fired"), WeaponUsed},
		{"damage", NewDamageEvent("core", 2, 28), TankDamaged},
		{"performance", NewPerformanceEvent("perf", 24, 0.9), PerformanceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.event.GetType() != tt.expected {
				t.Errorf("GetType() = %v, expected %v", tt.event.GetType(), tt.expected)
			}
		})
	}

	ge := NewGameEvent(GameEnded, "core", "defeat", 4, 99)
	if ge.Outcome != "defeat" || ge.Kills != 4 || ge.Frame != 99 || ge.GetSource() != "core" {
		t.Errorf("unexpected game event %+v", ge)
	}
}

func TestBus_ConcurrentSubscribeAndPublish(t *testing.T) {
	bus := NewEventBus()
	var mu sync.Mutex
	count := 0

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Subscribe(GameStarted, func(Event) {
				mu.Lock()
				count++
				mu.Unlock()
			})
			bus.Publish(NewGameEvent(GameStarted, nil, "", 0, 0))
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if count == 0 {
		t.Error("no handler ran")
	}
}
