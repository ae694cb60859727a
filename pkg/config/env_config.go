// pkg/config/env_config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Environment variable names recognized by LoadConfigFromEnv.
const (
	EnvSeed           = "TANKGAME_SEED"
	EnvTargetKills    = "TANKGAME_TARGET_KILLS"
	EnvTickRate       = "TANKGAME_TICK_RATE"
	EnvViewportWidth  = "TANKGAME_VIEWPORT_W"
	EnvViewportHeight = "TANKGAME_VIEWPORT_H"
	EnvDifficulty     = "TANKGAME_DIFFICULTY"
)

// EnvironmentConfig holds the overrides read from the environment.
// Zero values mean "not set".
type EnvironmentConfig struct {
	Seed           uint64
	TargetKills    int
	TickRate       int
	ViewportWidth  float64
	ViewportHeight float64
	Difficulty     string
}

// LoadConfigFromEnv reads the TANKGAME_* environment variables.
func LoadConfigFromEnv() (*EnvironmentConfig, error) {
	env := &EnvironmentConfig{}
	var errs []error

	if v, ok := os.LookupEnv(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvSeed, err))
		}
		env.Seed = seed
	}
	env.TargetKills = parseIntEnv(EnvTargetKills, &errs)
	env.TickRate = parseIntEnv(EnvTickRate, &errs)
	env.ViewportWidth = parseFloatEnv(EnvViewportWidth, &errs)
	env.ViewportHeight = parseFloatEnv(EnvViewportHeight, &errs)
	env.Difficulty = os.Getenv(EnvDifficulty)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	return env, nil
}

// Validate rejects overrides that are set but unusable
func (e *EnvironmentConfig) Validate() error {
	var errs []error
	if e.TargetKills < 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvTargetKills, e.TargetKills))
	}
	if e.TickRate < 0 || e.TickRate > 1000 {
		errs = append(errs, fmt.Errorf("%s must be within [1, 1000], got %d", EnvTickRate, e.TickRate))
	}
	if e.ViewportWidth < 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvViewportWidth, e.ViewportWidth))
	}
	if e.ViewportHeight < 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvViewportHeight, e.ViewportHeight))
	}
	if e.Difficulty != "" {
		if _, ok := difficultyPresets[e.Difficulty]; !ok {
			errs = append(errs, fmt.Errorf("%s: unknown difficulty %q", EnvDifficulty, e.Difficulty))
		}
	}
	return errors.Join(errs...)
}

// Apply copies every set override onto cfg
func (e *EnvironmentConfig) Apply(cfg *GameConfig) error {
	if e.Difficulty != "" {
		if err := ApplyDifficulty(cfg, e.Difficulty); err != nil {
			return err
		}
	}
	if e.Seed != 0 {
		cfg.Seed = e.Seed
	}
	if e.TargetKills > 0 {
		cfg.Victory.TargetKills = e.TargetKills
	}
	if e.TickRate > 0 {
		cfg.TickRate = e.TickRate
	}
	if e.ViewportWidth > 0 {
		cfg.Viewport.Width = e.ViewportWidth
	}
	if e.ViewportHeight > 0 {
		cfg.Viewport.Height = e.ViewportHeight
	}
	return cfg.Validate()
}

func parseIntEnv(key string, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
	}
	return n
}

func parseFloatEnv(key string, errs *[]error) float64 {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
	}
	return f
}
