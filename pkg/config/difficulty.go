package config

import (
	"fmt"
	"sort"
)

// DifficultyPreset scales a default configuration
type DifficultyPreset struct {
	Name             string
	Description      string
	EnemySpeed       float64
	EnemyHP          int
	SpawnInterval    int
	EnemyShootEvery  int
	TankHP           int
	TargetKills      int
	BossSpawnEvery   int
	BossLevelScaling float64
}

var difficultyPresets = map[string]DifficultyPreset{
	"easy": {
		Name:             "Easy",
		Description:      "Slower, weaker enemies and a sturdier tank",
		EnemySpeed:       1.5,
		EnemyHP:          2,
		SpawnInterval:    90,
		EnemyShootEvery:  180,
		TankHP:           50,
		TargetKills:      20,
		BossSpawnEvery:   10,
		BossLevelScaling: 0.2,
	},
	"normal": {
		Name:             "Normal",
		Description:      "The standard arcade balance",
		EnemySpeed:       2,
		EnemyHP:          3,
		SpawnInterval:    60,
		EnemyShootEvery:  120,
		TankHP:           30,
		TargetKills:      30,
		BossSpawnEvery:   10,
		BossLevelScaling: 0.3,
	},
	"hard": {
		Name:             "Hard",
		Description:      "Faster waves, tougher bosses",
		EnemySpeed:       2.8,
		EnemyHP:          4,
		SpawnInterval:    40,
		EnemyShootEvery:  90,
		TankHP:           20,
		TargetKills:      50,
		BossSpawnEvery:   8,
		BossLevelScaling: 0.45,
	},
}

// GetDifficultyPreset returns the named preset, or nil when unknown
func GetDifficultyPreset(name string) *DifficultyPreset {
	preset, ok := difficultyPresets[name]
	if !ok {
		return nil
	}
	return &preset
}

// ListDifficulties returns the preset names in sorted order
func ListDifficulties() []string {
	names := make([]string, 0, len(difficultyPresets))
	for name := range difficultyPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyDifficulty overwrites the preset-controlled fields of cfg
func ApplyDifficulty(cfg *GameConfig, name string) error {
	preset := GetDifficultyPreset(name)
	if preset == nil {
		return fmt.Errorf("unknown difficulty %q (available: %v)", name, ListDifficulties())
	}

	cfg.Enemies.Speed = preset.EnemySpeed
	cfg.Enemies.HP = preset.EnemyHP
	cfg.Enemies.SpawnInterval = preset.SpawnInterval
	cfg.Enemies.ShootInterval = preset.EnemyShootEvery
	cfg.Tank.HP = preset.TankHP
	cfg.Victory.TargetKills = preset.TargetKills
	cfg.Boss.SpawnInterval = preset.BossSpawnEvery
	cfg.Boss.LevelScaling = preset.BossLevelScaling
	return nil
}
