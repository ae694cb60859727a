// pkg/render/engo/renderer.go
package engo

import (
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-tankgame/pkg/entity"
	"github.com/opd-ai/go-tankgame/pkg/physics"
	"github.com/opd-ai/go-tankgame/pkg/render"
	"github.com/opd-ai/go-tankgame/pkg/world"
)

// Draw order, back to front
type layer int

const (
	terrainLayer layer = iota
	itemLayer
	enemyLayer
	bulletLayer
	tankLayer
	effectLayer
	hudLayer
)

// Shapes, textures and text use different shaders, so a pooled sprite never
// changes drawable class.
type drawableClass int

const (
	shapeClass drawableClass = iota
	textureClass
	textClass
)

// Sizes in world units
const (
	tankSize       = 40
	turretLength   = 30
	turretWidth    = 6
	supportSize    = 30
	enemySize      = 30
	itemSize       = 20
	decorationSize = 8
	laserLength    = 24
	missileSize    = 8
	trailSize      = 3
	burstWidth     = 3
	waveBorder     = 3
	shieldBorder   = 4
)

// sprite is a pooled render entity
type sprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// spriteSink receives new sprites. *common.RenderSystem satisfies it.
type spriteSink interface {
	Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent)
	Remove(basic ecs.BasicEntity)
}

type poolKey struct {
	layer layer
	class drawableClass
}

// pool hands out sprites for one layer and drawable class. Sprites are
// reused every frame; the ones not drawn are hidden in Present.
type pool struct {
	sprites []*sprite
	used    int
}

// EngoRenderer implements entity.Renderer on top of engo's render system.
// Each frame redraws the whole scene from pooled sprites.
type EngoRenderer struct {
	sink   spriteSink
	camera *CameraSystem
	hud    *HUDSystem
	assets *AssetManager
	pools  map[poolKey]*pool
	frames int
}

// NewEngoRenderer creates a renderer adding its sprites to sink
func NewEngoRenderer(sink spriteSink, camera *CameraSystem, hud *HUDSystem, assets *AssetManager) *EngoRenderer {
	return &EngoRenderer{
		sink:   sink,
		camera: camera,
		hud:    hud,
		assets: assets,
		pools:  make(map[poolKey]*pool),
	}
}

// Frames returns the number of presented frames
func (r *EngoRenderer) Frames() int {
	return r.frames
}

func (r *EngoRenderer) next(l layer, class drawableClass, d common.Drawable) *sprite {
	key := poolKey{l, class}
	p, ok := r.pools[key]
	if !ok {
		p = &pool{}
		r.pools[key] = p
	}
	if p.used < len(p.sprites) {
		s := p.sprites[p.used]
		p.used++
		s.Drawable = d
		s.Hidden = false
		s.Rotation = 0
		s.Scale = engo.Point{X: 1, Y: 1}
		return s
	}

	s := &sprite{BasicEntity: ecs.NewBasic()}
	s.Drawable = d
	s.Scale = engo.Point{X: 1, Y: 1}
	s.StartZIndex = float32(l)
	r.sink.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	p.sprites = append(p.sprites, s)
	p.used++
	return s
}

// shape draws d centered on the world position p with the given world size
func (r *EngoRenderer) shape(l layer, d common.Drawable, c color.Color, p physics.Vector2D, w, h float64) *sprite {
	scale := r.camera.Scale()
	center := r.camera.WorldToScreen(p)
	s := r.next(l, shapeClass, d)
	s.Color = c
	s.Width = float32(w) * scale
	s.Height = float32(h) * scale
	s.Position = engo.Point{X: center.X - s.Width/2, Y: center.Y - s.Height/2}
	return s
}

// bar draws a rotated rectangle from p along angle. Engo rotates around the
// top-left corner, which sits on p.
func (r *EngoRenderer) bar(l layer, c color.Color, p physics.Vector2D, angle, length, width float64) {
	scale := r.camera.Scale()
	s := r.next(l, shapeClass, common.Rectangle{})
	s.Color = c
	s.Position = r.camera.WorldToScreen(p)
	s.Width = float32(length) * scale
	s.Height = float32(width) * scale
	s.Rotation = float32(angle * 180 / math.Pi)
}

// textured draws a generated sprite, falling back to a filled shape before
// the textures are uploaded
func (r *EngoRenderer) textured(l layer, kind SpriteKind, fallback common.Drawable, c color.Color, p physics.Vector2D, size float64) {
	tex, ok := r.assets.Sprite(kind)
	if !ok {
		r.shape(l, fallback, c, p, size, size)
		return
	}
	scale := r.camera.Scale()
	center := r.camera.WorldToScreen(p)
	s := r.next(l, textureClass, tex)
	s.Color = c
	s.Width = float32(size) * scale
	s.Height = float32(size) * scale
	s.Scale = engo.Point{X: s.Width / tex.Width(), Y: s.Height / tex.Height()}
	s.Position = engo.Point{X: center.X - s.Width/2, Y: center.Y - s.Height/2}
}

// SetView implements entity.Renderer.
func (r *EngoRenderer) SetView(cam world.Camera) {
	r.camera.Follow(cam)
}

// Clear implements entity.Renderer.
func (r *EngoRenderer) Clear() {
	for _, p := range r.pools {
		p.used = 0
	}
}

// RenderTerrain implements entity.Renderer.
func (r *EngoRenderer) RenderTerrain(view world.View) {
	size := view.TileSize
	for _, t := range view.Tiles {
		center := t.Origin(size).Add(physics.Vector2D{X: size / 2, Y: size / 2})
		r.shape(terrainLayer, common.Rectangle{}, render.TerrainColor(t.Type), center, size, size)
	}
	for _, d := range view.Decorations {
		r.shape(terrainLayer, common.Circle{}, render.DecorationColor(d.Type), d.Position, decorationSize, decorationSize)
	}
}

// RenderTank implements entity.Renderer.
func (r *EngoRenderer) RenderTank(tank *entity.Tank) {
	if tank == nil {
		return
	}
	if s := tank.Support; s != nil && s.Alive() {
		r.textured(tankLayer, SupportSprite, common.Circle{}, render.SupportColor, s.Position, supportSize)
		r.bar(tankLayer, render.SupportColor, s.Position, s.TurretAngle, turretLength*0.8, turretWidth*0.8)
	}
	r.textured(tankLayer, TankSprite, common.Rectangle{}, render.TankColor, tank.Position, tankSize)
	r.bar(tankLayer, render.TankTurretColor, tank.Position, tank.TurretAngle, turretLength, turretWidth)
}

// RenderEnemy implements entity.Renderer.
func (r *EngoRenderer) RenderEnemy(enemy *entity.Enemy) {
	if enemy == nil || !r.camera.Visible(enemy.Position, enemySize) {
		return
	}
	r.textured(enemyLayer, EnemySprite, common.Rectangle{}, render.EnemyColor, enemy.Position, enemySize)
}

// RenderBoss implements entity.Renderer.
func (r *EngoRenderer) RenderBoss(boss *entity.Boss) {
	if boss == nil {
		return
	}
	d := 2 * boss.HitRadius()
	r.shape(enemyLayer, common.Circle{}, render.BossColor(boss.Kind), boss.Position, d, d)
	if boss.ShieldActive {
		ring := common.Circle{BorderWidth: shieldBorder * r.camera.Scale(), BorderColor: render.ShieldColor}
		r.shape(enemyLayer, ring, color.Transparent, boss.Position, d*1.2, d*1.2)
	}
	if boss.MaxHP > 0 {
		fraction := float64(boss.HP) / float64(boss.MaxHP)
		top := boss.Position.Add(physics.Vector2D{X: -d / 2, Y: -d/2 - 12})
		r.bar(enemyLayer, render.HealthColor(fraction), top, 0, d*math.Max(fraction, 0), 6)
	}
}

// RenderBullet implements entity.Renderer.
func (r *EngoRenderer) RenderBullet(bullet *entity.Bullet) {
	if bullet == nil {
		return
	}
	c := render.BulletStyleColor(bullet)
	size := 2 * bullet.Collider.Radius
	switch {
	case bullet.IsLaser:
		angle := math.Atan2(bullet.Velocity.Y, bullet.Velocity.X)
		tail := bullet.Position.Sub(physics.FromAngle(angle, laserLength/2))
		r.bar(bulletLayer, c, tail, angle, laserLength, size/2)
	case bullet.IsTriangular:
		r.shape(bulletLayer, common.Triangle{}, c, bullet.Position, size*1.5, size*1.5)
	default:
		r.shape(bulletLayer, common.Circle{}, c, bullet.Position, size, size)
	}
}

// RenderItem implements entity.Renderer.
func (r *EngoRenderer) RenderItem(item *entity.Item) {
	if item == nil {
		return
	}
	r.textured(itemLayer, ItemSprite, common.Circle{}, render.ItemColor, item.Position, itemSize)
}

// RenderEffects implements entity.Renderer.
func (r *EngoRenderer) RenderEffects(effects entity.Effects) {
	scale := r.camera.Scale()
	for _, w := range effects.Waves {
		ring := common.Circle{BorderWidth: waveBorder * scale, BorderColor: fade(render.ElectricWaveColor, w.Opacity)}
		r.shape(effectLayer, ring, color.Transparent, w.Center, 2*w.Radius, 2*w.Radius)
	}
	for _, m := range effects.Missiles {
		for _, p := range m.Trail {
			r.shape(effectLayer, common.Circle{}, fade(render.MissileColor, 0.5), p, trailSize, trailSize)
		}
		r.shape(effectLayer, common.Circle{}, render.MissileColor, m.Position, missileSize, missileSize)
	}
	for _, e := range effects.Explosions {
		alpha := 1.0
		if e.Lifetime > 0 {
			alpha = float64(e.Remaining) / float64(e.Lifetime)
		}
		r.shape(effectLayer, common.Circle{}, fade(render.ExplosionColor, alpha), e.Position, 2*e.Radius, 2*e.Radius)
	}
	for _, b := range effects.Bursts {
		d := b.To.Sub(b.From)
		r.bar(effectLayer, render.ElectricBurstColor, b.From, math.Atan2(d.Y, d.X), d.Length(), burstWidth)
	}
}

// fade scales the alpha of c by opacity in [0, 1]
func fade(c color.RGBA, opacity float64) color.NRGBA {
	opacity = math.Max(0, math.Min(1, opacity))
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(float64(c.A) * opacity)}
}

// RenderHUD implements entity.Renderer. Text needs the font, so before
// LoadAssets only the bars are drawn.
func (r *EngoRenderer) RenderHUD(hud entity.HUD) {
	font := r.assets.Font()
	for _, item := range r.hud.Layout(hud) {
		switch item.kind {
		case hudRect:
			s := r.next(hudLayer, shapeClass, common.Rectangle{})
			s.Color = item.color
			s.Position = engo.Point{X: item.x, Y: item.y}
			s.Width = item.w
			s.Height = item.h
		case hudText:
			if font == nil {
				continue
			}
			s := r.next(hudLayer, textClass, common.Text{Font: font, Text: item.text})
			s.Color = item.color
			s.Position = engo.Point{X: item.x, Y: item.y}
		}
	}
}

// Present implements entity.Renderer.
func (r *EngoRenderer) Present() {
	for _, p := range r.pools {
		for _, s := range p.sprites[p.used:] {
			s.Hidden = true
		}
	}
	r.frames++
}

// Release removes every pooled sprite from the sink
func (r *EngoRenderer) Release() {
	for key, p := range r.pools {
		for _, s := range p.sprites {
			r.sink.Remove(s.BasicEntity)
		}
		delete(r.pools, key)
	}
}

var _ entity.Renderer = (*EngoRenderer)(nil)
