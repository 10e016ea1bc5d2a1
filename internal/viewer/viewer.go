// Package viewer runs the interactive SDL loop around a demo scene.
package viewer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/softcore/internal/config"
	"github.com/Faultbox/softcore/internal/demo"
	"github.com/Faultbox/softcore/internal/input"
	"github.com/Faultbox/softcore/internal/logger"
	"github.com/Faultbox/softcore/internal/snapshot"
	"github.com/Faultbox/softcore/internal/window"
)

// maxStep caps the simulated time of a single frame.
const maxStep = 0.1

// Viewer is the interactive application.
type Viewer struct {
	config  *config.Config
	running bool
	scene   *demo.Scene
	window  *window.Window
	input   *input.Input
	capture *snapshot.Capture
	log     *zap.Logger
}

// New opens the window for an already built scene.
func New(cfg *config.Config, s *demo.Scene) (*Viewer, error) {
	v := &Viewer{
		config:  cfg,
		scene:   s,
		input:   input.New(),
		capture: snapshot.NewCapture("", "softcore", snapshot.FormatFor(cfg.Output.Snapshot)),
		log:     logger.Named("viewer"),
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:  cfg.Display.Title,
		Width:  cfg.Display.Width,
		Height: cfg.Display.Height,
		Scale:  cfg.Display.Scale,
		VSync:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	v.log.Info("viewer initialized")
	return v, nil
}

// Run starts the main loop and returns when the window closes.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting render loop")

	for v.running {
		now := time.Now()
		dt := min(float32(now.Sub(lastTime).Seconds()), maxStep)
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleInput()

		v.scene.Step(dt)
		stats, err := v.scene.Render()
		if err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		if err := v.window.Present(v.scene.Context().Framebuffer()); err != nil {
			return fmt.Errorf("present error: %w", err)
		}

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.window.SetTitle(fmt.Sprintf("%s - %d fps", v.config.Display.Title, frameCount))
			v.log.Debug("frame",
				zap.Int("fps", frameCount),
				zap.Uint32("triangles", stats.Raster.Drawn),
				zap.Uint32("pixels", stats.Raster.Pixels),
				zap.Uint32("backfaced", stats.Stage.BackFaced),
				zap.Uint32("clipped", stats.Stage.Clipped))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleInput() {
	o := v.scene.Orbit
	if v.input.Held(input.ActionOrbitLeft) {
		o.Rotate(-o.Step, 0)
	}
	if v.input.Held(input.ActionOrbitRight) {
		o.Rotate(o.Step, 0)
	}
	if v.input.Held(input.ActionOrbitUp) {
		o.Rotate(0, o.Step)
	}
	if v.input.Held(input.ActionOrbitDown) {
		o.Rotate(0, -o.Step)
	}
	if v.input.Held(input.ActionZoomIn) {
		o.Zoom(0.5)
	}
	if v.input.Held(input.ActionZoomOut) {
		o.Zoom(-0.5)
	}

	if v.input.Pressed(input.ActionNextClip) {
		if clip := v.scene.NextClip(); clip != "" {
			v.log.Info("playing clip", zap.String("clip", clip))
		}
	}
	if v.input.Pressed(input.ActionWireframe) {
		r := v.scene.Renderer
		r.SetWireframe(!r.Wireframe())
	}
	if v.input.Pressed(input.ActionSnapshot) {
		name, err := v.capture.Take(v.scene.Context(), v.config.Display.Scale)
		if err != nil {
			v.log.Warn("snapshot failed", zap.Error(err))
		} else {
			v.log.Info("snapshot saved", zap.String("path", name))
		}
	}
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")
	if v.window != nil {
		v.window.Close()
	}
}
