package render

import (
	"image/color"

	"golang.org/x/image/colornames"

	"github.com/opd-ai/go-tankgame/pkg/entity"
	"github.com/opd-ai/go-tankgame/pkg/world"
)

// Palette colors shared by the terminal and window renderers.
var (
	TankColor          = color.RGBA{0x4c, 0xaf, 0x50, 0xff}
	TankTurretColor    = color.RGBA{0x38, 0x8e, 0x3c, 0xff}
	SupportColor       = color.RGBA{0x21, 0x96, 0xf3, 0xff}
	EnemyColor         = color.RGBA{0xf4, 0x43, 0x36, 0xff}
	BulletColor        = color.RGBA{0xff, 0xeb, 0x3b, 0xff}
	TriangularColor    = color.RGBA{0xff, 0x6b, 0x35, 0xff}
	EnemyBulletColor   = color.RGBA{0xff, 0x57, 0x22, 0xff}
	LaserColor         = colornames.Deepskyblue
	ElectricWaveColor  = colornames.Blueviolet
	MissileColor       = EnemyBulletColor
	ExplosionColor     = colornames.Orange
	ItemColor          = colornames.Gold
	GrassColor         = color.RGBA{0x4a, 0x7c, 0x59, 0xff}
	DirtColor          = colornames.Saddlebrown
	StoneColor         = colornames.Dimgray
	TextColor          = colornames.White
	HealthHighColor    = color.RGBA{0x76, 0xff, 0x03, 0xff}
	HealthMediumColor  = BulletColor
	HealthLowColor     = EnemyColor
	BackgroundColor    = color.RGBA{0x1a, 0x1a, 0x1a, 0xff}
	ShieldColor        = colornames.Darkturquoise
	ElectricBurstColor = colornames.Gold
)

var bossColors = map[entity.BossKind]color.RGBA{
	entity.TankCommander:  colornames.Darkred,
	entity.HeavyArtillery: colornames.Indigo,
	entity.LightningTank:  colornames.Gold,
	entity.ShieldGuardian: colornames.Darkturquoise,
}

// BossColor returns the body color of a boss archetype
func BossColor(kind entity.BossKind) color.RGBA {
	if c, ok := bossColors[kind]; ok {
		return c
	}
	return EnemyColor
}

// TerrainColor returns the ground color of a terrain type
func TerrainColor(t world.TerrainType) color.RGBA {
	switch t {
	case world.Dirt:
		return DirtColor
	case world.Stone:
		return StoneColor
	default:
		return GrassColor
	}
}

// DecorationColor returns the color of a terrain prop
func DecorationColor(d world.DecorationType) color.RGBA {
	switch d {
	case world.SmallRock:
		return colornames.Darkgray
	case world.Bush:
		return colornames.Limegreen
	default:
		return colornames.Forestgreen
	}
}

// BulletStyleColor returns the color a bullet is drawn with
func BulletStyleColor(b *entity.Bullet) color.RGBA {
	switch {
	case b.IsLaser:
		return LaserColor
	case b.IsTriangular:
		return TriangularColor
	}
	switch b.Owner {
	case entity.OwnerSupport:
		return SupportColor
	case entity.OwnerEnemy, entity.OwnerBoss:
		return EnemyBulletColor
	default:
		return BulletColor
	}
}

// HealthColor picks the bar color for a fill fraction
func HealthColor(fraction float64) color.RGBA {
	switch {
	case fraction > 0.6:
		return HealthHighColor
	case fraction > 0.3:
		return HealthMediumColor
	default:
		return HealthLowColor
	}
}
