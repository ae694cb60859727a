package engo

import (
	"strings"
	"testing"

	"github.com/opd-ai/go-tankgame/pkg/entity"
)

func findText(items []hudItem, substr string) (hudItem, bool) {
	for _, it := range items {
		if it.kind == hudText && strings.Contains(it.text, substr) {
			return it, true
		}
	}
	return hudItem{}, false
}

func TestHUDSystem_Layout(t *testing.T) {
	hud := NewHUDSystem(1280, 720)
	items := hud.Layout(entity.HUD{
		TankHP:    15,
		TankMaxHP: 30,
		Victory:   entity.Victory{EnemiesKilled: 4, TargetKills: 30, BossesKilled: 1},
		Weapons:   []entity.WeaponState{{Name: "fuel", Ready: true, Progress: 1}},
		AutoAim:   true,
		Messages:  []string{"Boss Appeared: Lightning Tank!"},
		Phase:     "running",
	})

	tests := []struct {
		name  string
		text  string
		wantY float32
	}{
		{"hp value", "15/30", hudMargin},
		{"kills", "Kills 4/30  Bosses 1", hudMargin + hudLineHeight},
		{"weapon", "[fuel 100%]", 720 - hudMargin - hudLineHeight},
		{"toggles", "aim:on shoot:off", 720 - hudMargin - hudLineHeight},
		{"message", "Lightning Tank", 720 - hudMargin - 2*hudLineHeight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, ok := findText(items, tt.text)
			if !ok {
				t.Fatalf("no item containing %q", tt.text)
			}
			if !near(it.y, tt.wantY) {
				t.Errorf("%q at y=%v, want %v", tt.text, it.y, tt.wantY)
			}
		})
	}

	if _, ok := findText(items, "SP"); ok {
		t.Error("support row shown without a support tank")
	}
	if _, ok := findText(items, "TANK GAME"); ok {
		t.Error("banner shown while running")
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		name      string
		value     int
		maxValue  int
		wantItems int
		wantFill  float32
	}{
		{"half", 15, 30, 2, hudBarWidth / 2},
		{"full", 30, 30, 2, hudBarWidth},
		{"empty", 0, 30, 1, 0},
		{"overheal clamps", 40, 30, 2, hudBarWidth},
		{"no max", 5, 0, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := bar(0, 0, tt.value, tt.maxValue)
			if len(items) != tt.wantItems {
				t.Fatalf("got %d items, want %d", len(items), tt.wantItems)
			}
			if !near(items[0].w, hudBarWidth) {
				t.Errorf("background width = %v", items[0].w)
			}
			if tt.wantItems == 2 && !near(items[1].w, tt.wantFill) {
				t.Errorf("fill width = %v, want %v", items[1].w, tt.wantFill)
			}
		})
	}
}

func TestHUDSystem_Banner(t *testing.T) {
	tests := []struct {
		name    string
		hud     entity.HUD
		elapsed float32
		want    string
	}{
		{"start visible", entity.HUD{Phase: "not_started"}, 0.1, "press Enter to start"},
		{"start blinks off", entity.HUD{Phase: "not_started"}, 0.7, ""},
		{"victory steady", entity.HUD{Phase: "game_over", Outcome: "victory"}, 0.7, "VICTORY"},
		{"defeat", entity.HUD{Phase: "game_over", Outcome: "defeat"}, 0.1, "DEFEAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hud := NewHUDSystem(1280, 720)
			hud.Update(tt.elapsed)
			items := hud.Layout(tt.hud)
			it, ok := findText(items, "press Enter")
			if tt.want == "" {
				if ok {
					t.Errorf("banner %q shown during blink", it.text)
				}
				return
			}
			if !ok || !strings.Contains(it.text, tt.want) {
				t.Fatalf("banner = %q, want %q", it.text, tt.want)
			}
			if !near(it.y, 360) {
				t.Errorf("banner y = %v, want 360", it.y)
			}
		})
	}
}

func TestHUDSystem_UpdateWraps(t *testing.T) {
	hud := NewHUDSystem(1280, 720)
	hud.Update(2.25)
	if !near(hud.elapsed, 0.25) {
		t.Errorf("elapsed = %v, want 0.25", hud.elapsed)
	}
}
