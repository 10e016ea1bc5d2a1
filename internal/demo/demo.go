// Package demo builds the sample scene shared by the headless renderer and
// the viewer.
package demo

import (
	"fmt"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/softcore/internal/assets"
	"github.com/Faultbox/softcore/internal/camera"
	"github.com/Faultbox/softcore/internal/config"
	"github.com/Faultbox/softcore/internal/logger"
	"github.com/Faultbox/softcore/internal/mesh"
	"github.com/Faultbox/softcore/internal/raster"
	"github.com/Faultbox/softcore/internal/renderer"
	"github.com/Faultbox/softcore/internal/scene"
	"github.com/Faultbox/softcore/internal/texture"
	"github.com/Faultbox/softcore/pkg/formats"
	"github.com/Faultbox/softcore/pkg/math"
)

// Floor checkerboard colors.
const (
	floorLight uint16 = 0x8410
	floorDark  uint16 = 0x4208
)

// SpinRate is the cube's rotation speed in radians per second.
const SpinRate float32 = 0.8

// modelSize is the bounding radius imported models are scaled to.
const modelSize float32 = 1.5

// Scene owns every store and the world for one demo run.
type Scene struct {
	World    *scene.World
	Meshes   *mesh.Store
	Textures *raster.TextureStore
	Renderer *renderer.Renderer
	Orbit    *camera.Orbit

	Camera scene.Entity
	Floor  scene.Entity
	Cube   scene.Entity
	Moon   scene.Entity // Child of Cube
	Prop   scene.Entity // OBJ model, when configured
	Model  scene.Entity // MD2 model, when configured

	frames int // MD2 keyframe count
	spin   float32
	log    *zap.Logger
}

// New builds the scene described by cfg. Asset paths are resolved through
// am.
func New(cfg *config.Config, am *assets.Manager) (*Scene, error) {
	ctx, err := raster.NewContext(cfg.Display.Width, cfg.Display.Height)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		World:    scene.NewWorld(cfg.Pools.Entities),
		Meshes:   mesh.NewStore(cfg.Pools.MeshCapacities()),
		Textures: raster.NewTextureStore(cfg.Pools.TexturePixels, cfg.Pools.Textures),
		Orbit:    camera.NewOrbit(),
		Prop:     scene.InvalidEntity,
		Model:    scene.InvalidEntity,
		log:      logger.Named("demo"),
	}
	s.Renderer = renderer.New(renderer.Config{
		ClearColor: cfg.Render.ClearColor,
		Wireframe:  cfg.Render.Wireframe,
	}, ctx, s.Meshes, s.Textures)

	if err := s.buildCamera(cfg.Render); err != nil {
		return nil, err
	}
	if err := s.buildFloor(); err != nil {
		return nil, err
	}
	if err := s.buildCubes(); err != nil {
		return nil, err
	}
	if cfg.Assets.OBJ != "" {
		if err := s.loadOBJ(am, cfg.Assets.OBJ); err != nil {
			return nil, err
		}
	}
	if cfg.Assets.MD2 != "" {
		if err := s.loadMD2(am, cfg.Assets.MD2, cfg.Assets.Skin, cfg.Assets.Clip); err != nil {
			return nil, err
		}
	}

	s.Orbit.FitRadius(math.Vec3{Y: 0.5}, 2.5)
	s.log.Info("scene built",
		zap.Int("entities", s.World.Count()),
		zap.Int("meshes", s.Meshes.SlotsInUse()),
		zap.Int("textures", s.Textures.InUse()))
	return s, nil
}

// spawn creates an entity with a MeshRenderer.
func (s *Scene) spawn(name string, h mesh.Handle) (scene.Entity, *scene.MeshRenderer, error) {
	e, err := s.World.Create(name)
	if err != nil {
		return scene.InvalidEntity, nil, err
	}
	if err := s.World.AddComponent(e, scene.CompMeshRenderer); err != nil {
		return scene.InvalidEntity, nil, err
	}
	mr, err := s.World.MeshRenderer(e)
	if err != nil {
		return scene.InvalidEntity, nil, err
	}
	mr.Mesh = h
	if info, err := s.Meshes.Info(h); err == nil {
		mr.Radius = info.Radius
	}
	return e, mr, nil
}

func (s *Scene) buildCamera(rc config.RenderConfig) error {
	e, err := s.World.Create("camera")
	if err != nil {
		return err
	}
	if err := s.World.AddComponent(e, scene.CompCamera); err != nil {
		return err
	}
	c, err := s.World.Camera(e)
	if err != nil {
		return err
	}
	c.FOV, c.Near, c.Far, c.Primary = rc.FOV, rc.Near, rc.Far, true
	s.Camera = e
	return nil
}

func (s *Scene) buildFloor() error {
	h, err := s.Meshes.CreatePlane(8, 8)
	if err != nil {
		return fmt.Errorf("creating floor: %w", err)
	}
	tex, err := s.Textures.CreateCheckerboard(floorLight, floorDark, 64)
	if err != nil {
		return fmt.Errorf("creating floor texture: %w", err)
	}
	e, mr, err := s.spawn("floor", h)
	if err != nil {
		return err
	}
	mr.Texture = tex
	s.Floor = e
	return nil
}

func (s *Scene) buildCubes() error {
	h, err := s.Meshes.CreateCube(1)
	if err != nil {
		return fmt.Errorf("creating cube: %w", err)
	}

	cube, mr, err := s.spawn("cube", h)
	if err != nil {
		return err
	}
	mr.Color = raster.RGB565(240, 160, 40)
	if err := s.World.SetPosition(cube, math.Vec3{X: -2, Y: 0.5}); err != nil {
		return err
	}

	moon, mr, err := s.spawn("moon", h)
	if err != nil {
		return err
	}
	mr.Color = raster.RGB565(80, 160, 240)
	err = multierr.Combine(
		s.World.SetPosition(moon, math.Vec3{X: 1.2, Y: 0.6}),
		s.World.SetScale(moon, math.Vec3{X: 0.3, Y: 0.3, Z: 0.3}),
		s.World.SetParent(moon, cube),
	)
	if err != nil {
		return err
	}

	s.Cube, s.Moon = cube, moon
	return nil
}

func (s *Scene) loadOBJ(am *assets.Manager, path string) error {
	data, err := am.Load(path)
	if err != nil {
		return err
	}
	h, err := s.Meshes.LoadOBJ(data)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	e, mr, err := s.spawn(filepath.Base(path), h)
	if err != nil {
		return err
	}
	mr.Color = raster.RGB565(200, 200, 200)
	if err := fitModel(s.World, e, mr.Radius, math.Vec3{X: 2}, math.Vec3{}); err != nil {
		return err
	}
	s.Prop = e
	return nil
}

func (s *Scene) loadMD2(am *assets.Manager, path, skin, clip string) error {
	data, err := am.Load(path)
	if err != nil {
		return err
	}
	h, err := s.Meshes.LoadMD2(data)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	e, mr, err := s.spawn(filepath.Base(path), h)
	if err != nil {
		return err
	}
	mr.Animated = true

	if skin != "" {
		img, err := am.Load(skin)
		if err != nil {
			return err
		}
		if mr.Texture, err = texture.LoadBytes(s.Textures, img, filepath.Base(skin)); err != nil {
			return err
		}
	} else if mr.Texture, err = s.Textures.CreateCheckerboard(raster.White, raster.Magenta, 16); err != nil {
		return err
	}

	info, err := s.Meshes.Info(h)
	if err != nil {
		return err
	}
	s.frames = info.FrameCount

	// MD2 models are Z-up.
	if err := fitModel(s.World, e, mr.Radius, math.Vec3{Y: modelSize}, math.Vec3{X: -math.Pi / 2}); err != nil {
		return err
	}

	if err := s.World.AddComponent(e, scene.CompAnimator); err != nil {
		return err
	}
	a, err := s.World.Animator(e)
	if err != nil {
		return err
	}
	a.Play(clip, true)
	s.Model = e
	return nil
}

// fitModel scales e so its bounding radius becomes modelSize.
func fitModel(w *scene.World, e scene.Entity, radius float32, pos, rot math.Vec3) error {
	k := float32(1)
	if radius > 0 {
		k = modelSize / radius
	}
	return multierr.Combine(
		w.SetPosition(e, pos),
		w.SetRotation(e, rot),
		w.SetScale(e, math.Vec3{X: k, Y: k, Z: k}),
	)
}

// Context returns the framebuffer the scene renders into.
func (s *Scene) Context() *raster.Context {
	return s.Renderer.Context()
}

// Step advances the simulation by dt seconds.
func (s *Scene) Step(dt float32) {
	s.spin += SpinRate * dt
	if err := s.World.SetRotation(s.Cube, math.Vec3{Y: s.spin}); err != nil {
		s.log.Debug("cube spin skipped", zap.Error(err))
	}
	s.World.UpdateAnimators(dt)
}

// Render aims the camera and draws one frame.
func (s *Scene) Render() (renderer.FrameStats, error) {
	if err := s.Orbit.Apply(s.World, s.Camera); err != nil {
		return renderer.FrameStats{}, err
	}
	return s.Renderer.Render(s.World)
}

// NextClip switches the MD2 model to the next clip that fits its frame
// count and returns the clip name. It returns "" when no model is loaded.
func (s *Scene) NextClip() string {
	a, err := s.World.Animator(s.Model)
	if err != nil {
		return ""
	}
	cur := -1
	for i, c := range formats.MD2Clips {
		if c.Name == a.Clip {
			cur = i
			break
		}
	}
	for n := 1; n <= len(formats.MD2Clips); n++ {
		c := formats.MD2Clips[(cur+n)%len(formats.MD2Clips)]
		if c.End < s.frames {
			a.Play(c.Name, true)
			s.log.Debug("clip changed", zap.String("clip", c.Name))
			return c.Name
		}
	}
	a.PlayRange("all", 0, max(s.frames-1, 0), true)
	return a.Clip
}
