// cmd/tankgame/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-tankgame/pkg/config"
	"github.com/opd-ai/go-tankgame/pkg/engine"
	"github.com/opd-ai/go-tankgame/pkg/input"
	"github.com/opd-ai/go-tankgame/pkg/logging"
	"github.com/opd-ai/go-tankgame/pkg/render"
	engorender "github.com/opd-ai/go-tankgame/pkg/render/engo"
	"github.com/opd-ai/go-tankgame/pkg/resource"
)

func main() {
	ctx := context.Background()

	configPath := flag.String("config", "config.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	mode := flag.String("renderer", "terminal", "Front end (terminal, engo, headless)")
	difficulty := flag.String("difficulty", "", fmt.Sprintf("Difficulty preset %v", config.ListDifficulties()))
	seed := flag.Uint64("seed", 0, "Random seed (0 picks one from the clock)")
	logPath := flag.String("log", "", "Write logs to this file instead of stderr")
	duration := flag.Duration("duration", time.Minute, "How long a headless run lasts")
	fullscreen := flag.Bool("fullscreen", false, "Open the engo window fullscreen")
	flag.Parse()

	logger, closeLog, err := newLogger(*mode, *logPath)
	if err != nil {
		logging.NewLogger().Error(ctx, "Failed to open log file", err, "log_path", *logPath)
		os.Exit(1)
	}
	defer closeLog()

	// Create default configuration file if requested
	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	cfg, err := loadConfig(ctx, logger, *configPath, *difficulty, *seed)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err, "config_path", *configPath)
		os.Exit(1)
	}

	if *mode == "headless" {
		cfg.Tank.AutoAim = true
		cfg.Tank.AutoShoot = true
	}

	game, err := engine.NewGame(cfg, logger)
	if err != nil {
		logger.Error(ctx, "Failed to create game", err)
		os.Exit(1)
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "terminal":
		err = runTerminal(sigCtx, game, logger)
	case "engo":
		engorender.Run(game, logger, engorender.RunOptions{Fullscreen: *fullscreen, VSync: true})
	case "headless":
		err = runHeadless(sigCtx, game, logger, *duration)
	default:
		err = fmt.Errorf("unknown renderer %q", *mode)
	}
	if err != nil {
		logger.Error(ctx, "Game exited with error", err, "renderer", *mode)
		closeLog()
		os.Exit(1)
	}
	logger.Info(ctx, "Game exited",
		"frames", game.Frame,
		"outcome", game.Outcome.String(),
	)
}

// newLogger picks the log destination. The terminal front end owns the
// screen, so without -log its logs are discarded.
func newLogger(mode, path string) (*logging.Logger, func(), error) {
	if path == "" {
		if mode == "terminal" {
			return logging.Discard(), func() {}, nil
		}
		return logging.NewLogger(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return logging.NewLoggerTo(f), sync.OnceFunc(func() { f.Close() }), nil
}

// loadConfig reads the file if present, then applies the environment and
// the command line on top
func loadConfig(ctx context.Context, logger *logging.Logger, path, difficulty string, seed uint64) (*config.GameConfig, error) {
	var cfg *config.GameConfig
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	env, err := config.LoadConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("environment configuration: %w", err)
	}
	if err := env.Apply(cfg); err != nil {
		return nil, err
	}
	if difficulty != "" {
		if err := config.ApplyDifficulty(cfg, difficulty); err != nil {
			return nil, err
		}
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	return cfg, cfg.Validate()
}

func runTerminal(ctx context.Context, game *engine.Game, logger *logging.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	fini := sync.OnceFunc(screen.Fini)
	defer fini()

	renderer := render.NewTerminalRenderer(screen)
	keys := render.NewTerminalInput(screen, render.DefaultHoldTicks, render.DefaultRepeatWindow)

	session := resource.NewSupervisor(ctx, resource.DefaultLimits(), logger)
	if err := session.Go("input", func(ctx context.Context) error {
		keys.Listen(ctx)
		return nil
	}); err != nil {
		return err
	}
	if err := session.Go("game", func(ctx context.Context) error {
		// Finalizing the screen unblocks the input listener
		defer fini()
		return game.Run(ctx, keys, renderer)
	}); err != nil {
		return err
	}
	if err := session.Monitor(); err != nil {
		return err
	}
	return session.Wait()
}

// runHeadless plays without steering until the game ends or d passes
func runHeadless(ctx context.Context, game *engine.Game, logger *logging.Logger, d time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	game.Start()

	src := input.SourceFunc(func() input.State {
		if game.Status == engine.GameStatusGameOver {
			cancel()
		}
		return input.State{}
	})
	err := game.Run(ctx, src, nil)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		err = nil
	}

	s := game.Snapshot()
	logger.Info(ctx, "Headless run finished",
		slog.Uint64("frame", s.Frame),
		slog.String("status", s.Status.String()),
		slog.String("outcome", s.Outcome.String()),
		slog.Int("kills", s.Victory.EnemiesKilled),
		slog.Int("bosses_killed", s.Victory.BossesKilled),
		slog.Int("hp", s.Tank.HP),
	)
	return err
}
