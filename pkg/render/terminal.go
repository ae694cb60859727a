package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-tankgame/pkg/entity"
	"github.com/opd-ai/go-tankgame/pkg/physics"
	"github.com/opd-ai/go-tankgame/pkg/world"
)

// hudRows is the number of screen rows reserved below the playfield
const hudRows = 3

// ringSegments is how many cells an electric wave ring is drawn with
const ringSegments = 32

var arrows = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

// TerminalRenderer draws the game on a tcell screen. The camera viewport is
// stretched over the playfield, so one cell covers Width/cols by
// Height/rows world units.
type TerminalRenderer struct {
	screen tcell.Screen
	cam    world.Camera
	cols   int
	rows   int
	base   tcell.Style
}

// NewTerminalRenderer creates a renderer drawing to screen. The caller owns
// the screen and is responsible for Init and Fini.
func NewTerminalRenderer(screen tcell.Screen) *TerminalRenderer {
	r := &TerminalRenderer{
		screen: screen,
		base:   tcell.StyleDefault.Background(rgb(BackgroundColor)).Foreground(rgb(TextColor)),
	}
	r.resize()
	return r
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (r *TerminalRenderer) resize() {
	w, h := r.screen.Size()
	r.cols = max(w, 1)
	r.rows = max(h-hudRows, 1)
}

// cell converts a world position to a playfield cell
func (r *TerminalRenderer) cell(p physics.Vector2D) (int, int, bool) {
	if r.cam.Width <= 0 || r.cam.Height <= 0 {
		return 0, 0, false
	}
	s := r.cam.WorldToScreen(p)
	x := int(math.Floor(s.X * float64(r.cols) / r.cam.Width))
	y := int(math.Floor(s.Y * float64(r.rows) / r.cam.Height))
	return x, y, x >= 0 && x < r.cols && y >= 0 && y < r.rows
}

// cellWidth is the world width covered by one column
func (r *TerminalRenderer) cellWidth() float64 {
	return r.cam.Width / float64(r.cols)
}

func (r *TerminalRenderer) put(p physics.Vector2D, ch rune, style tcell.Style) {
	if x, y, ok := r.cell(p); ok {
		r.screen.SetContent(x, y, ch, nil, style)
	}
}

func (r *TerminalRenderer) fg(c color.RGBA) tcell.Style {
	return r.base.Foreground(rgb(c))
}

func (r *TerminalRenderer) text(x, y int, s string, style tcell.Style) int {
	for _, ch := range s {
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}

// arrow returns the glyph pointing closest to angle
func arrow(angle float64) rune {
	a := physics.NormalizeAngle(angle)
	if a < 0 {
		a += 2 * math.Pi
	}
	i := int(math.Round(a/(math.Pi/4))) % len(arrows)
	return arrows[i]
}

// SetView implements entity.Renderer.
func (r *TerminalRenderer) SetView(cam world.Camera) {
	r.cam = cam
	r.resize()
}

// Clear implements entity.Renderer.
func (r *TerminalRenderer) Clear() {
	r.screen.SetStyle(r.base)
	r.screen.Clear()
}

// RenderTerrain implements entity.Renderer. Grass is the background; dirt
// and stone tiles mark their top-left cell.
func (r *TerminalRenderer) RenderTerrain(view world.View) {
	for _, t := range view.Tiles {
		switch t.Type {
		case world.Dirt:
			r.put(t.Origin(view.TileSize), '.', r.fg(DirtColor))
		case world.Stone:
			r.put(t.Origin(view.TileSize), ':', r.fg(StoneColor))
		}
	}
	for _, d := range view.Decorations {
		var ch rune
		switch d.Type {
		case world.Tree:
			ch = '♣'
		case world.Bush:
			ch = '*'
		case world.SmallRock:
			ch = 'o'
		default:
			ch = '"'
		}
		r.put(d.Position, ch, r.fg(DecorationColor(d.Type)))
	}
}

// RenderTank implements entity.Renderer.
func (r *TerminalRenderer) RenderTank(tank *entity.Tank) {
	if tank == nil {
		return
	}
	if s := tank.Support; s != nil && s.Alive() {
		r.put(s.Position, '&', r.fg(SupportColor).Bold(true))
	}
	r.put(tank.Position.Add(physics.FromAngle(tank.TurretAngle, r.cellWidth())), arrow(tank.TurretAngle), r.fg(TankTurretColor))
	r.put(tank.Position, '@', r.fg(TankColor).Bold(true))
}

// RenderEnemy implements entity.Renderer.
func (r *TerminalRenderer) RenderEnemy(enemy *entity.Enemy) {
	if enemy == nil {
		return
	}
	r.put(enemy.Position, 'E', r.fg(EnemyColor))
}

// RenderBoss implements entity.Renderer. The boss occupies its hit circle;
// the center cell shows its initial.
func (r *TerminalRenderer) RenderBoss(boss *entity.Boss) {
	if boss == nil {
		return
	}
	style := r.fg(BossColor(boss.Kind)).Bold(true)
	if boss.ShieldActive {
		style = style.Reverse(true)
	}
	radius := boss.HitRadius()
	for i := 0; i < ringSegments/2; i++ {
		a := 2 * math.Pi * float64(i) / float64(ringSegments/2)
		r.put(boss.Position.Add(physics.FromAngle(a, radius)), '#', style)
	}
	initial := 'B'
	if boss.Name != "" {
		initial = []rune(boss.Name)[0]
	}
	r.put(boss.Position, initial, style)
}

// RenderBullet implements entity.Renderer.
func (r *TerminalRenderer) RenderBullet(bullet *entity.Bullet) {
	if bullet == nil {
		return
	}
	ch := '·'
	switch {
	case bullet.IsLaser:
		ch = '|'
	case bullet.IsTriangular:
		ch = '▲'
	case bullet.Owner == entity.OwnerEnemy || bullet.Owner == entity.OwnerBoss:
		ch = 'o'
	}
	r.put(bullet.Position, ch, r.fg(BulletStyleColor(bullet)))
}

// RenderItem implements entity.Renderer.
func (r *TerminalRenderer) RenderItem(item *entity.Item) {
	if item == nil {
		return
	}
	r.put(item.Position, '◆', r.fg(ItemColor).Bold(true))
}

// RenderEffects implements entity.Renderer.
func (r *TerminalRenderer) RenderEffects(effects entity.Effects) {
	wave := r.fg(ElectricWaveColor)
	for _, w := range effects.Waves {
		for i := 0; i < ringSegments; i++ {
			a := 2 * math.Pi * float64(i) / ringSegments
			r.put(w.Center.Add(physics.FromAngle(a, w.Radius)), '~', wave)
		}
	}
	missile := r.fg(MissileColor)
	for _, m := range effects.Missiles {
		for _, p := range m.Trail {
			r.put(p, '.', missile)
		}
		r.put(m.Position, '!', missile.Bold(true))
	}
	boom := r.fg(ExplosionColor)
	for _, e := range effects.Explosions {
		r.put(e.Position, '#', boom.Bold(true))
		for i := 0; i < 8; i++ {
			a := 2 * math.Pi * float64(i) / 8
			r.put(e.Position.Add(physics.FromAngle(a, e.Radius)), '*', boom)
		}
	}
	burst := r.fg(ElectricBurstColor)
	for _, b := range effects.Bursts {
		for i := 0; i <= 8; i++ {
			r.put(physics.LerpVector(b.From, b.To, float64(i)/8), '%', burst)
		}
	}
}

// RenderHUD implements entity.Renderer.
func (r *TerminalRenderer) RenderHUD(hud entity.HUD) {
	_, h := r.screen.Size()
	top := h - hudRows
	if top < 0 {
		return
	}
	plain := r.base

	x := r.text(0, top, "HP ", plain)
	x = r.bar(x, top, hud.TankHP, hud.TankMaxHP, 10)
	if hud.SupportMaxHP > 0 {
		x = r.text(x, top, "  Support ", plain)
		x = r.bar(x, top, hud.SupportHP, hud.SupportMaxHP, 5)
	}
	v := hud.Victory
	r.text(x, top, fmt.Sprintf("  Kills %d/%d  Bosses %d  Enemies %d  FPS %.0f",
		v.EnemiesKilled, v.TargetKills, v.BossesKilled, hud.Enemies, hud.FPS), plain)

	x = 0
	for _, w := range hud.Weapons {
		label := fmt.Sprintf("[%s %3.0f%%] ", w.Name, w.Progress*100)
		style := plain.Dim(true)
		if w.Active {
			style = r.fg(LaserColor).Bold(true)
		} else if w.Ready {
			style = r.fg(HealthHighColor)
		}
		x = r.text(x, top+1, label, style)
	}
	r.text(x, top+1, fmt.Sprintf("aim:%s shoot:%s%s", onOff(hud.AutoAim), onOff(hud.AutoShoot), triangular(hud.Triangular)), plain)

	r.text(0, top+2, strings.Join(hud.Messages, " | "), r.fg(ItemColor))

	if banner := bannerText(hud); banner != "" {
		cx := max((r.cols-len([]rune(banner)))/2, 0)
		r.text(cx, r.rows/2, banner, plain.Bold(true).Reverse(true))
	}
}

func (r *TerminalRenderer) bar(x, y, value, maxValue, width int) int {
	filled := 0
	fraction := 0.0
	if maxValue > 0 {
		fraction = float64(value) / float64(maxValue)
		filled = int(math.Round(fraction * float64(width)))
	}
	style := r.fg(HealthColor(fraction))
	for i := 0; i < width; i++ {
		ch := '░'
		if i < filled {
			ch = '█'
		}
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
	return r.text(x+width, y, fmt.Sprintf(" %d/%d", value, maxValue), r.base)
}

// Present implements entity.Renderer.
func (r *TerminalRenderer) Present() {
	r.screen.Show()
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func triangular(on bool) string {
	if on {
		return " ▲"
	}
	return ""
}

func bannerText(hud entity.HUD) string {
	switch {
	case hud.Phase == "not_started":
		return " TANK GAME - press Enter to start "
	case hud.Outcome == "victory":
		return " VICTORY! - press Enter to play again "
	case hud.Outcome == "defeat":
		return " DEFEAT - press Enter to retry "
	default:
		return ""
	}
}

var _ entity.Renderer = (*TerminalRenderer)(nil)
