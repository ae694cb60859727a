// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-tankgame/pkg/entity"
	"github.com/opd-ai/go-tankgame/pkg/logging"
	"github.com/opd-ai/go-tankgame/pkg/world"
)

// NullRenderer is a headless implementation of entity.Renderer that logs
// what it is asked to draw.
type NullRenderer struct {
	logger *logging.Logger
	frames uint64
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &NullRenderer{
		logger: logger.With("component", "null_renderer"),
	}
}

// Frames returns the number of presented frames
func (d *NullRenderer) Frames() uint64 {
	return d.frames
}

// SetView implements entity.Renderer.
func (d *NullRenderer) SetView(cam world.Camera) {
	d.logger.Debug(context.Background(), "SetView called", "x", cam.Position.X, "y", cam.Position.Y)
}

// Clear implements entity.Renderer.
func (d *NullRenderer) Clear() {
	d.logger.Debug(context.Background(), "Clear called")
}

// Present implements entity.Renderer.
func (d *NullRenderer) Present() {
	d.frames++
	d.logger.Debug(context.Background(), "Present called", "frame", d.frames)
}

// RenderTerrain implements entity.Renderer.
func (d *NullRenderer) RenderTerrain(view world.View) {
	d.logger.Debug(context.Background(), "RenderTerrain called",
		"tiles", len(view.Tiles),
		"decorations", len(view.Decorations),
	)
}

// RenderTank implements entity.Renderer.
func (d *NullRenderer) RenderTank(tank *entity.Tank) {
	ctx := context.Background()
	if tank == nil {
		d.logger.Debug(ctx, "RenderTank called with nil tank")
		return
	}
	d.logger.Debug(ctx, "RenderTank called",
		"hp", tank.HP,
		"x", tank.Position.X,
		"y", tank.Position.Y,
	)
}

// RenderEnemy implements entity.Renderer.
func (d *NullRenderer) RenderEnemy(enemy *entity.Enemy) {
	ctx := context.Background()
	if enemy == nil {
		d.logger.Debug(ctx, "RenderEnemy called with nil enemy")
		return
	}
	d.logger.Debug(ctx, "RenderEnemy called", "enemy_id", enemy.ID, "hp", enemy.HP)
}

// RenderBoss implements entity.Renderer.
func (d *NullRenderer) RenderBoss(boss *entity.Boss) {
	ctx := context.Background()
	if boss == nil {
		d.logger.Debug(ctx, "RenderBoss called with nil boss")
		return
	}
	d.logger.Debug(ctx, "RenderBoss called",
		"boss_id", boss.ID,
		"boss", boss.Name,
		"hp", boss.HP,
	)
}

// RenderBullet implements entity.Renderer.
func (d *NullRenderer) RenderBullet(bullet *entity.Bullet) {
	ctx := context.Background()
	if bullet == nil {
		d.logger.Debug(ctx, "RenderBullet called with nil bullet")
		return
	}
	d.logger.Debug(ctx, "RenderBullet called", "owner", bullet.Owner.String())
}

// RenderItem implements entity.Renderer.
func (d *NullRenderer) RenderItem(item *entity.Item) {
	ctx := context.Background()
	if item == nil {
		d.logger.Debug(ctx, "RenderItem called with nil item")
		return
	}
	d.logger.Debug(ctx, "RenderItem called", "kind", item.Kind.String())
}

// RenderEffects implements entity.Renderer.
func (d *NullRenderer) RenderEffects(effects entity.Effects) {
	d.logger.Debug(context.Background(), "RenderEffects called",
		"waves", len(effects.Waves),
		"missiles", len(effects.Missiles),
		"explosions", len(effects.Explosions),
		"bursts", len(effects.Bursts),
	)
}

// RenderHUD implements entity.Renderer.
func (d *NullRenderer) RenderHUD(hud entity.HUD) {
	d.logger.Debug(context.Background(), "RenderHUD called",
		"phase", hud.Phase,
		"tank_hp", hud.TankHP,
		"kills", hud.Victory.EnemiesKilled,
	)
}

var _ entity.Renderer = (*NullRenderer)(nil)
