package entity

import (
	"github.com/opd-ai/go-tankgame/pkg/world"
)

// Effects collects the transient visuals of one tick
type Effects struct {
	Waves      []*ElectricWave
	Missiles   []*Missile
	Explosions []*Explosion
	Bursts     []*BurstEffect
}

// HUD is the overlay state shown to the player
type HUD struct {
	TankHP       int
	TankMaxHP    int
	SupportHP    int
	SupportMaxHP int
	Victory      Victory
	Weapons      []WeaponState
	AutoAim      bool
	AutoShoot    bool
	Triangular   bool
	Phase        string
	Outcome      string
	Messages     []string
	Enemies      int
	Bosses       int
	FPS          float64
}

// Renderer handles rendering game entities. Implementations must treat every
// argument as read-only.
type Renderer interface {
	SetView(cam world.Camera)
	Clear()
	RenderTerrain(view world.View)
	RenderTank(tank *Tank)
	RenderEnemy(enemy *Enemy)
	RenderBoss(boss *Boss)
	RenderBullet(bullet *Bullet)
	RenderItem(item *Item)
	RenderEffects(effects Effects)
	RenderHUD(hud HUD)
	Present()
}
