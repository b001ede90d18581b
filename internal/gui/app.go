package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/san-kum/circlesim/internal/audio"
	"github.com/san-kum/circlesim/internal/config"
	"github.com/san-kum/circlesim/internal/experiment"
)

// impulse that plays a collision ping at full volume
const pingFullScale = 2e5

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

type Options struct {
	Audio bool
	Log   *zap.Logger
}

type App struct {
	session *Session
	audio   *audio.Processor
	log     *zap.Logger
	width   int32
	height  int32
	err     error
}

func initWindow(width, height int32) {
	rl.InitWindow(width, height, "circlesim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// Run opens a window sized to the world and blocks until it is closed or
// Q is pressed.
func Run(registry *experiment.Registry, cfg *config.Config, opts Options) error {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	app := &App{
		log:    log,
		width:  int32(cfg.World.Width),
		height: int32(cfg.World.Height),
	}

	var pinger Pinger
	if opts.Audio {
		proc := audio.NewProcessor(pingFullScale, log)
		if err := proc.Start(); err == nil {
			app.audio = proc
			pinger = proc
			defer proc.Stop()
		}
	}

	session, err := NewSession(registry, cfg, pinger)
	if err != nil {
		return err
	}
	app.session = session

	initWindow(app.width, app.height)
	defer rl.CloseWindow()

	log.Info("window opened",
		zap.String("scene", cfg.Scene),
		zap.Int("bodies", session.World().Len()))

	app.RunLoop()
	return app.err
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

// Update polls input and steps the session. It returns false when the
// loop should stop.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) {
		return false
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.session.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if err := a.session.Reset(); err != nil {
			a.err = err
			return false
		}
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		pos := rl.GetMousePosition()
		if err := a.session.SpawnAt(float64(pos.X), float64(pos.Y)); err != nil {
			a.log.Warn("spawn rejected", zap.Error(err))
		}
	}

	if err := a.session.Frame(); err != nil {
		a.err = fmt.Errorf("frame at t=%.3f: %w", a.session.Time(), err)
		return false
	}
	return true
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawWorld()
	a.DrawHUD()

	rl.EndDrawing()
}
