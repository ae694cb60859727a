package entity

import "github.com/opd-ai/go-tankgame/pkg/physics"

// Cause names what dealt a killing blow
type Cause string

const (
	CauseBullet       Cause = "bullet"
	CauseSupport      Cause = "support"
	CauseLaser        Cause = "laser"
	CauseElectricWave Cause = "electric_wave"
	CauseMissile      Cause = "missile"
)

// Kill records one destroyed enemy or boss
type Kill struct {
	ID       ID
	Boss     bool
	Name     string
	Position physics.Vector2D
	Cause    Cause
	Drop     *Item
}

// Targets bundles the stores a damage source may hit. Enemy and boss removal,
// kill counting and the item-drop roll all happen inside HitEnemy/HitBoss so
// the store and the counters can never disagree.
type Targets struct {
	Enemies *Enemies
	Bosses  *Bosses
	Items   *Items
	Victory *Victory
}

// HitEnemy damages e and, if it dies, removes it, counts the kill and rolls
// for an item drop.
func (t Targets) HitEnemy(e *Enemy, damage int, cause Cause) (Kill, bool) {
	if !t.Enemies.damage(e, damage) {
		return Kill{}, false
	}
	t.Victory.EnemiesKilled++
	k := Kill{ID: e.ID, Name: "enemy", Position: e.Position, Cause: cause}
	if t.Items != nil {
		k.Drop = t.Items.Drop(e.Position, TriangularBullets)
	}
	return k, true
}

// HitBoss damages b through its shield and, if it dies, removes it and
// counts it both as a boss kill and toward the kill target.
func (t Targets) HitBoss(b *Boss, damage int, cause Cause) (Kill, bool) {
	if !t.Bosses.damage(b, damage) {
		return Kill{}, false
	}
	t.Victory.BossesKilled++
	t.Victory.EnemiesKilled++
	k := Kill{ID: b.ID, Boss: true, Name: b.Name, Position: b.Position, Cause: cause}
	if t.Items != nil {
		k.Drop = t.Items.Drop(b.Position, TriangularBullets)
	}
	return k, true
}

func (t Targets) bosses() []*Boss {
	if t.Bosses == nil {
		return nil
	}
	return t.Bosses.List
}

func (t Targets) enemies() []*Enemy {
	if t.Enemies == nil {
		return nil
	}
	return t.Enemies.List
}
