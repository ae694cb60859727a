// pkg/render/engo/hud.go
package engo

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-tankgame/pkg/entity"
	"github.com/opd-ai/go-tankgame/pkg/render"
)

const (
	hudMargin     = 10
	hudLineHeight = 20
	hudBarWidth   = 200
	hudBarHeight  = 12
	hudCharWidth  = 9

	// blinkPeriod is the on/off cycle of the start banner in seconds
	blinkPeriod = 1.0
)

// hudItemKind tells the renderer how to draw a HUD item
type hudItemKind int

const (
	hudText hudItemKind = iota
	hudRect
)

// hudItem is one positioned HUD element in window pixels
type hudItem struct {
	kind  hudItemKind
	text  string
	x, y  float32
	w, h  float32
	color color.Color
}

// HUDSystem lays out the heads-up display
type HUDSystem struct {
	width   float32
	height  float32
	elapsed float32
}

// NewHUDSystem creates a HUD for a window of the given size
func NewHUDSystem(width, height float32) *HUDSystem {
	return &HUDSystem{width: width, height: height}
}

// Add satisfies the ecs.System interface
func (hud *HUDSystem) Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent) {
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {
}

// Priority orders the system within the world
func (hud *HUDSystem) Priority() int {
	return hudPriority
}

// Update advances the banner blink timer
func (hud *HUDSystem) Update(dt float32) {
	hud.elapsed += dt
	for hud.elapsed >= blinkPeriod {
		hud.elapsed -= blinkPeriod
	}
}

// Resize updates the window size
func (hud *HUDSystem) Resize(width, height float32) {
	hud.width = width
	hud.height = height
}

func (hud *HUDSystem) bannerVisible() bool {
	return hud.elapsed < blinkPeriod/2
}

// Layout converts the HUD state into positioned items
func (hud *HUDSystem) Layout(h entity.HUD) []hudItem {
	var items []hudItem
	y := float32(hudMargin)

	items = append(items, text("HP", hudMargin, y, render.TextColor))
	items = append(items, bar(hudMargin+40, y+4, h.TankHP, h.TankMaxHP)...)
	items = append(items, text(fmt.Sprintf("%d/%d", h.TankHP, h.TankMaxHP), hudMargin+50+hudBarWidth, y, render.TextColor))
	if h.SupportMaxHP > 0 {
		y += hudLineHeight
		items = append(items, text("SP", hudMargin, y, render.SupportColor))
		items = append(items, bar(hudMargin+40, y+4, h.SupportHP, h.SupportMaxHP)...)
		items = append(items, text(fmt.Sprintf("%d/%d", h.SupportHP, h.SupportMaxHP), hudMargin+50+hudBarWidth, y, render.TextColor))
	}

	v := h.Victory
	y += hudLineHeight
	items = append(items, text(fmt.Sprintf("Kills %d/%d  Bosses %d", v.EnemiesKilled, v.TargetKills, v.BossesKilled), hudMargin, y, render.TextColor))

	status := fmt.Sprintf("Enemies %d  Bosses %d  FPS %.0f", h.Enemies, h.Bosses, h.FPS)
	items = append(items, text(status, hud.width-hudMargin-textWidth(status), hudMargin, render.TextColor))

	// Weapon row along the bottom edge
	x := float32(hudMargin)
	wy := hud.height - hudMargin - hudLineHeight
	for _, w := range h.Weapons {
		label := fmt.Sprintf("[%s %3.0f%%]", w.Name, w.Progress*100)
		c := color.Color(render.StoneColor)
		switch {
		case w.Active:
			c = render.LaserColor
		case w.Ready:
			c = render.HealthHighColor
		}
		items = append(items, text(label, x, wy, c))
		x += textWidth(label) + hudMargin
	}
	toggles := fmt.Sprintf("aim:%s shoot:%s", onOff(h.AutoAim), onOff(h.AutoShoot))
	if h.Triangular {
		toggles += " triangular"
	}
	items = append(items, text(toggles, x, wy, render.TextColor))

	if len(h.Messages) > 0 {
		msg := strings.Join(h.Messages, " | ")
		items = append(items, text(msg, (hud.width-textWidth(msg))/2, wy-hudLineHeight, render.ItemColor))
	}

	if banner := bannerText(h); banner != "" && (h.Phase != "not_started" || hud.bannerVisible()) {
		items = append(items, text(banner, (hud.width-textWidth(banner))/2, hud.height/2, render.TextColor))
	}
	return items
}

func text(s string, x, y float32, c color.Color) hudItem {
	return hudItem{kind: hudText, text: s, x: x, y: y, color: c}
}

// bar returns a background and a fill rectangle
func bar(x, y float32, value, maxValue int) []hudItem {
	fraction := 0.0
	if maxValue > 0 {
		fraction = min(max(float64(value)/float64(maxValue), 0), 1)
	}
	items := []hudItem{{kind: hudRect, x: x, y: y, w: hudBarWidth, h: hudBarHeight, color: render.BackgroundColor}}
	if fill := float32(fraction) * hudBarWidth; fill > 0 {
		items = append(items, hudItem{kind: hudRect, x: x, y: y, w: fill, h: hudBarHeight, color: render.HealthColor(fraction)})
	}
	return items
}

func textWidth(s string) float32 {
	return float32(len([]rune(s)) * hudCharWidth)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func bannerText(h entity.HUD) string {
	switch {
	case h.Phase == "not_started":
		return "TANK GAME - press Enter to start"
	case h.Outcome == "victory":
		return "VICTORY! - press Enter to play again"
	case h.Outcome == "defeat":
		return "DEFEAT - press Enter to retry"
	default:
		return ""
	}
}
