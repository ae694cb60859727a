// pkg/render/engo/scene.go
package engo

import (
	"time"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-tankgame/pkg/engine"
	"github.com/opd-ai/go-tankgame/pkg/event"
	"github.com/opd-ai/go-tankgame/pkg/input"
	"github.com/opd-ai/go-tankgame/pkg/logging"
	"github.com/opd-ai/go-tankgame/pkg/render"
)

// GameScene runs a local game inside an engo window
type GameScene struct {
	world *ecs.World
	game  *engine.Game

	logger *logging.Logger

	// Rendering components
	renderer *EngoRenderer
	assets   *AssetManager
	camera   *CameraSystem
	input    *InputSystem
	hud      *HUDSystem

	now  func() time.Time
	quit func()
}

// NewGameScene creates a new game scene
func NewGameScene(game *engine.Game, logger *logging.Logger) *GameScene {
	if logger == nil {
		logger = logging.Discard()
	}
	w, h := float32(game.Config.Viewport.Width), float32(game.Config.Viewport.Height)
	return &GameScene{
		world:  &ecs.World{},
		game:   game,
		logger: logger,
		assets: NewAssetManager(),
		camera: NewCameraSystem(w, h),
		input:  NewInputSystem(EngoButtons),
		hud:    NewHUDSystem(w, h),
		now:    time.Now,
		quit:   engo.Exit,
	}
}

// Type returns the scene type (required by Engo)
func (scene *GameScene) Type() string {
	return "GameScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *GameScene) Preload() {
	if err := scene.assets.LoadAssets(); err != nil {
		scene.logger.Error(scene.game.Context(), "Failed to load assets", err)
	}
}

// Setup is called when the scene starts (required by Engo)
func (scene *GameScene) Setup(u engo.Updater) {
	scene.world = u.(*ecs.World)
	common.SetBackground(render.GrassColor)

	renderSystem := &common.RenderSystem{}
	scene.world.AddSystem(renderSystem)

	SetupInputBindings()
	SetupCameraControls()
	scene.world.AddSystem(scene.input)
	scene.world.AddSystem(scene.camera)
	scene.world.AddSystem(scene.hud)

	scene.renderer = NewEngoRenderer(renderSystem, scene.camera, scene.hud, scene.assets)
	scene.world.AddSystem(&gameSystem{scene: scene})

	scene.subscribeToEvents()
	scene.logger.Info(scene.game.Context(), "Window scene ready",
		"width", engo.WindowWidth(), "height", engo.WindowHeight())
}

// subscribeToEvents logs the end of each run
func (scene *GameScene) subscribeToEvents() {
	scene.game.EventBus.Subscribe(event.GameEnded, func(e event.Event) {
		if ge, ok := e.(*event.GameEvent); ok {
			scene.logger.Info(scene.game.Context(), "Run finished", "outcome", ge.Outcome, "kills", ge.Kills)
		}
	})
}

// step advances the game by one frame and redraws it. It reports false once
// quit was requested.
func (scene *GameScene) step() bool {
	in := scene.input.Poll()
	if in.Has(input.ActionQuit) {
		scene.logger.Info(scene.game.Context(), "Quit requested", "frame", scene.game.Frame)
		scene.quit()
		return false
	}
	scene.game.Advance(in, scene.now())
	scene.game.Render(scene.renderer)
	return true
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *GameScene) Exit() {
	if scene.renderer == nil {
		return
	}
	scene.logger.Info(scene.game.Context(), "Window closed", "frames", scene.renderer.Frames())
	scene.renderer.Release()
}

// System priorities, highest first. The render system runs last at
// common.RenderSystemPriority.
const (
	inputPriority  = 30
	cameraPriority = 20
	hudPriority    = 10
	gamePriority   = 0
)

// gameSystem drives the game from the ECS update loop. It runs after the
// input system so each frame sees fresh button state.
type gameSystem struct {
	scene *GameScene
}

func (gs *gameSystem) Priority() int { return gamePriority }

func (gs *gameSystem) Update(dt float32) {
	gs.scene.step()
}

func (gs *gameSystem) Remove(basic ecs.BasicEntity) {}

// RunOptions configures the window
type RunOptions struct {
	Title      string
	Fullscreen bool
	VSync      bool
}

// Run opens a window and blocks until it is closed
func Run(game *engine.Game, logger *logging.Logger, opts RunOptions) {
	if opts.Title == "" {
		opts.Title = "Tank Game"
	}
	engo.Run(engo.RunOptions{
		Title:      opts.Title,
		Width:      int(game.Config.Viewport.Width),
		Height:     int(game.Config.Viewport.Height),
		Fullscreen: opts.Fullscreen,
		VSync:      opts.VSync,
		FPSLimit:   game.Config.TickRate,
	}, NewGameScene(game, logger))
}
