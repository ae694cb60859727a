// pkg/render/engo/assets.go
package engo

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/opd-ai/go-tankgame/pkg/render"
)

// SpriteKind names a generated sprite
type SpriteKind int

const (
	TankSprite SpriteKind = iota
	SupportSprite
	EnemySprite
	ItemSprite
)

const (
	fontURL  = "gomono.ttf"
	fontSize = 16
)

// Sprites are drawn white and tinted by the render component color.
var spritePatterns = map[SpriteKind][]string{
	TankSprite: {
		"..####..",
		"########",
		"##.##.##",
		"########",
		"########",
		"##.##.##",
		"########",
		"..####..",
	},
	SupportSprite: {
		"...##...",
		"..####..",
		".######.",
		"########",
		"########",
		".######.",
		"..####..",
		"...##...",
	},
	EnemySprite: {
		"########",
		"#......#",
		"#.####.#",
		"#.#..#.#",
		"#.#..#.#",
		"#.####.#",
		"#......#",
		"########",
	},
	ItemSprite: {
		"...##...",
		"..####..",
		".##..##.",
		"##....##",
		"##....##",
		".##..##.",
		"..####..",
		"...##...",
	},
}

// AssetManager handles loading and managing game assets
type AssetManager struct {
	sprites map[SpriteKind]common.Drawable
	font    *common.Font
}

// NewAssetManager creates a new asset manager
func NewAssetManager() *AssetManager {
	return &AssetManager{
		sprites: make(map[SpriteKind]common.Drawable),
	}
}

// LoadAssets uploads the generated sprites and the HUD font. It needs a GL
// context and must run inside the scene.
func (am *AssetManager) LoadAssets() error {
	for kind, pattern := range spritePatterns {
		img := patternImage(pattern)
		am.sprites[kind] = common.NewTextureSingle(common.NewImageObject(img))
	}
	return am.loadFont()
}

func (am *AssetManager) loadFont() error {
	if err := engo.Files.LoadReaderData(fontURL, bytes.NewReader(gomono.TTF)); err != nil {
		return fmt.Errorf("failed to load HUD font: %w", err)
	}
	font := &common.Font{
		URL:  fontURL,
		FG:   render.TextColor,
		Size: fontSize,
	}
	if err := font.CreatePreloaded(); err != nil {
		return fmt.Errorf("failed to create HUD font: %w", err)
	}
	am.font = font
	return nil
}

// patternImage rasterizes a pattern, '#' marking an opaque pixel
func patternImage(pattern []string) *image.NRGBA {
	height := len(pattern)
	width := 0
	for _, row := range pattern {
		width = max(width, len(row))
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y, row := range pattern {
		for x, ch := range row {
			if ch == '#' {
				img.Set(x, y, color.White)
			}
		}
	}
	return img
}

// Sprite returns the sprite for kind, or false before LoadAssets
func (am *AssetManager) Sprite(kind SpriteKind) (common.Drawable, bool) {
	sprite, ok := am.sprites[kind]
	return sprite, ok
}

// Font returns the HUD font, nil before LoadAssets
func (am *AssetManager) Font() *common.Font {
	return am.font
}
