// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"
)

// GameConfig contains every tunable of a tank game run
type GameConfig struct {
	Seed         uint64             `json:"seed"`
	TickRate     int                `json:"tickRate"`
	Viewport     ViewportConfig     `json:"viewport"`
	Tank         TankConfig         `json:"tank"`
	SupportTank  SupportTankConfig  `json:"supportTank"`
	Bullets      BulletConfig       `json:"bullets"`
	Enemies      EnemyConfig        `json:"enemies"`
	Victory      VictoryConfig      `json:"victory"`
	Boss         BossConfig         `json:"boss"`
	Items        ItemConfig         `json:"items"`
	ElectricWave ElectricWaveConfig `json:"electricWave"`
	Missile      MissileConfig      `json:"missile"`
	Fuel         FuelConfig         `json:"fuel"`
	BulletTime   BulletTimeConfig   `json:"bulletTime"`
	World        WorldConfig        `json:"world"`
	Performance  PerformanceConfig  `json:"performance"`
}

// ViewportConfig is the visible area in world units
type ViewportConfig struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TankConfig contains player tank configuration
type TankConfig struct {
	Speed             float64 `json:"speed"`
	HP                int     `json:"hp"`
	ShootInterval     int     `json:"shootInterval"`
	AutoAimRange      float64 `json:"autoAimRange"`
	AutoAimSmoothness float64 `json:"autoAimSmoothness"`
	NormalizeDiagonal bool    `json:"normalizeDiagonal"`
	AutoAim           bool    `json:"autoAim"`
	AutoShoot         bool    `json:"autoShoot"`
}

// SupportTankConfig contains configuration for the escort tank
type SupportTankConfig struct {
	Speed          float64 `json:"speed"`
	HP             int     `json:"hp"`
	TargetDistance float64 `json:"targetDistance"`
	FollowAngle    float64 `json:"followAngle"`
	ShootInterval  int     `json:"shootInterval"`
	Range          float64 `json:"range"`
}

// BulletConfig contains projectile configuration
type BulletConfig struct {
	Speed            float64 `json:"speed"`
	SupportSpeed     float64 `json:"supportSpeed"`
	EnemySpeed       float64 `json:"enemySpeed"`
	Radius           float64 `json:"radius"`
	Damage           int     `json:"damage"`
	TriangularDamage int     `json:"triangularDamage"`
	ScreenMargin     float64 `json:"screenMargin"`
}

// EnemyConfig contains regular enemy configuration
type EnemyConfig struct {
	Speed         float64 `json:"speed"`
	SpawnInterval int     `json:"spawnInterval"`
	HP            int     `json:"hp"`
	ShootInterval int     `json:"shootInterval"`
	HitRadius     float64 `json:"hitRadius"`
	ContactRadius float64 `json:"contactRadius"`
	SpawnMargin   float64 `json:"spawnMargin"`
	DespawnMargin float64 `json:"despawnMargin"`
}

// VictoryConfig contains the win condition
type VictoryConfig struct {
	TargetKills int `json:"targetKills"`
}

// BossConfig contains boss spawning configuration
type BossConfig struct {
	SpawnInterval int     `json:"spawnInterval"`
	MaxBosses     int     `json:"maxBosses"`
	LevelScaling  float64 `json:"levelScaling"`
	SpawnDistance float64 `json:"spawnDistance"`
	MinDistance   float64 `json:"minDistance"`
}

// ItemConfig contains power-up configuration
type ItemConfig struct {
	DropChance   float64 `json:"dropChance"`
	PickupRadius float64 `json:"pickupRadius"`
	ScreenMargin float64 `json:"screenMargin"`
}

// ElectricWaveConfig contains electric wave weapon configuration
type ElectricWaveConfig struct {
	CooldownMS int     `json:"cooldownMs"`
	MaxRadius  float64 `json:"maxRadius"`
	Damage     int     `json:"damage"`
	Speed      float64 `json:"speed"`
}

// MissileConfig contains homing missile configuration
type MissileConfig struct {
	CooldownMS      int     `json:"cooldownMs"`
	Speed           float64 `json:"speed"`
	Damage          int     `json:"damage"`
	ExplosionRadius float64 `json:"explosionRadius"`
	HomingRange     float64 `json:"homingRange"`
	TurnRate        float64 `json:"turnRate"`
	LifetimeTicks   int     `json:"lifetimeTicks"`
}

// FuelConfig contains repair configuration
type FuelConfig struct {
	CooldownMS int `json:"cooldownMs"`
	HealAmount int `json:"healAmount"`
}

// BulletTimeConfig contains bullet time configuration
type BulletTimeConfig struct {
	DurationMS int `json:"durationMs"`
	CooldownMS int `json:"cooldownMs"`
}

// WorldConfig contains terrain and camera configuration
type WorldConfig struct {
	TileSize         float64 `json:"tileSize"`
	TileCacheSize    int     `json:"tileCacheSize"`
	CameraSmoothness float64 `json:"cameraSmoothness"`
}

// PerformanceConfig contains adaptive quality configuration
type PerformanceConfig struct {
	Adaptive  bool    `json:"adaptive"`
	MinFPS    float64 `json:"minFps"`
	MaxFPS    float64 `json:"maxFps"`
	MinScale  float64 `json:"minScale"`
	MaxScale  float64 `json:"maxScale"`
	ScaleStep float64 `json:"scaleStep"`
}

// TickDuration returns the simulated time covered by one tick
func (c *GameConfig) TickDuration() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// Millis converts a millisecond tunable into a duration
func Millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// LoadConfig loads a configuration from a file. Fields missing from the file
// keep their default values.
func LoadConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *GameConfig, path string) error {
	if config == nil {
		return errors.New("config is nil")
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports every tunable that would break the simulation
func (c *GameConfig) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}
	nonNegative := func(name string, v float64) {
		if !(v >= 0) {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %v", name, v))
		}
	}
	fraction := func(name string, v float64) {
		if !(v >= 0 && v <= 1) {
			errs = append(errs, fmt.Errorf("%s must be within [0, 1], got %v", name, v))
		}
	}

	positive("tickRate", float64(c.TickRate))
	positive("viewport.width", c.Viewport.Width)
	positive("viewport.height", c.Viewport.Height)
	positive("tank.speed", c.Tank.Speed)
	positive("tank.hp", float64(c.Tank.HP))
	nonNegative("tank.shootInterval", float64(c.Tank.ShootInterval))
	fraction("tank.autoAimSmoothness", c.Tank.AutoAimSmoothness)
	nonNegative("supportTank.hp", float64(c.SupportTank.HP))
	positive("bullets.speed", c.Bullets.Speed)
	nonNegative("bullets.damage", float64(c.Bullets.Damage))
	nonNegative("bullets.triangularDamage", float64(c.Bullets.TriangularDamage))
	positive("enemies.spawnInterval", float64(c.Enemies.SpawnInterval))
	positive("enemies.hp", float64(c.Enemies.HP))
	positive("victory.targetKills", float64(c.Victory.TargetKills))
	positive("boss.spawnInterval", float64(c.Boss.SpawnInterval))
	nonNegative("boss.maxBosses", float64(c.Boss.MaxBosses))
	nonNegative("boss.levelScaling", c.Boss.LevelScaling)
	fraction("items.dropChance", c.Items.DropChance)
	nonNegative("electricWave.cooldownMs", float64(c.ElectricWave.CooldownMS))
	positive("electricWave.speed", c.ElectricWave.Speed)
	nonNegative("missile.cooldownMs", float64(c.Missile.CooldownMS))
	positive("missile.speed", c.Missile.Speed)
	positive("missile.lifetimeTicks", float64(c.Missile.LifetimeTicks))
	nonNegative("fuel.cooldownMs", float64(c.Fuel.CooldownMS))
	nonNegative("bulletTime.durationMs", float64(c.BulletTime.DurationMS))
	nonNegative("bulletTime.cooldownMs", float64(c.BulletTime.CooldownMS))
	positive("world.tileSize", c.World.TileSize)
	positive("world.tileCacheSize", float64(c.World.TileCacheSize))
	fraction("world.cameraSmoothness", c.World.CameraSmoothness)
	if c.Performance.MinScale > c.Performance.MaxScale {
		errs = append(errs, fmt.Errorf("performance.minScale %v exceeds maxScale %v",
			c.Performance.MinScale, c.Performance.MaxScale))
	}

	return errors.Join(errs...)
}

// DefaultConfig returns the default game configuration
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Seed:     0,
		TickRate: 60,
		Viewport: ViewportConfig{
			Width:  1280,
			Height: 720,
		},
		Tank: TankConfig{
			Speed:             15,
			HP:                30,
			ShootInterval:     10,
			AutoAimRange:      1200,
			AutoAimSmoothness: 0.8,
			NormalizeDiagonal: true,
			AutoAim:           true,
			AutoShoot:         false,
		},
		SupportTank: SupportTankConfig{
			Speed:          2.5,
			HP:             5,
			TargetDistance: 80,
			FollowAngle:    math.Pi * 1.25,
			ShootInterval:  45,
			Range:          600,
		},
		Bullets: BulletConfig{
			Speed:            10,
			SupportSpeed:     8,
			EnemySpeed:       5,
			Radius:           12,
			Damage:           1,
			TriangularDamage: 5,
			ScreenMargin:     50,
		},
		Enemies: EnemyConfig{
			Speed:         2,
			SpawnInterval: 60,
			HP:            3,
			ShootInterval: 120,
			HitRadius:     30,
			ContactRadius: 50,
			SpawnMargin:   200,
			DespawnMargin: 500,
		},
		Victory: VictoryConfig{
			TargetKills: 30,
		},
		Boss: BossConfig{
			SpawnInterval: 10,
			MaxBosses:     1,
			LevelScaling:  0.3,
			SpawnDistance: 400,
			MinDistance:   150,
		},
		Items: ItemConfig{
			DropChance:   0.25,
			PickupRadius: 40,
			ScreenMargin: 100,
		},
		ElectricWave: ElectricWaveConfig{
			CooldownMS: 4000,
			MaxRadius:  600,
			Damage:     8,
			Speed:      12,
		},
		Missile: MissileConfig{
			CooldownMS:      1000,
			Speed:           6,
			Damage:          10,
			ExplosionRadius: 80,
			HomingRange:     200,
			TurnRate:        0.3,
			LifetimeTicks:   300,
		},
		Fuel: FuelConfig{
			CooldownMS: 3000,
			HealAmount: 2,
		},
		BulletTime: BulletTimeConfig{
			DurationMS: 30000,
			CooldownMS: 10000,
		},
		World: WorldConfig{
			TileSize:         40,
			TileCacheSize:    16384,
			CameraSmoothness: 0.1,
		},
		Performance: PerformanceConfig{
			Adaptive:  true,
			MinFPS:    30,
			MaxFPS:    55,
			MinScale:  0.5,
			MaxScale:  1.0,
			ScaleStep: 0.1,
		},
	}
}
