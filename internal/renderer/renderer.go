// Package renderer draws a scene world into a software framebuffer.
package renderer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/softcore/internal/logger"
	"github.com/Faultbox/softcore/internal/mesh"
	"github.com/Faultbox/softcore/internal/pipeline"
	"github.com/Faultbox/softcore/internal/raster"
	"github.com/Faultbox/softcore/internal/scene"
	"github.com/Faultbox/softcore/pkg/math"
)

// ErrNoCamera is returned when the world has no active camera.
var ErrNoCamera = errors.New("renderer: no active camera")

// Config holds renderer configuration.
type Config struct {
	ClearColor uint16
	Wireframe  bool
}

// FrameStats summarizes one Render call.
type FrameStats struct {
	Entities int // Mesh entities considered
	Culled   int // Skipped because their bounds were behind the camera
	Stage    pipeline.Stats
	Raster   raster.Stats
}

// Renderer owns the per-frame state shared by the headless and windowed
// tools. It is not safe for concurrent use.
type Renderer struct {
	config   Config
	ctx      *raster.Context
	meshes   *mesh.Store
	textures *raster.TextureStore
	stage    *pipeline.Stage
	params   pipeline.DrawParams
	log      *zap.Logger
}

// New creates a renderer drawing into ctx.
func New(cfg Config, ctx *raster.Context, meshes *mesh.Store, textures *raster.TextureStore) *Renderer {
	return &Renderer{
		config:   cfg,
		ctx:      ctx,
		meshes:   meshes,
		textures: textures,
		stage:    pipeline.NewStage(math.Identity(), math.Identity(), ctx.Width(), ctx.Height()),
		log:      logger.Named("renderer"),
	}
}

// Context returns the target framebuffer.
func (r *Renderer) Context() *raster.Context { return r.ctx }

// SetWireframe toggles outline rendering.
func (r *Renderer) SetWireframe(on bool) { r.config.Wireframe = on }

// Wireframe reports whether outline rendering is on.
func (r *Renderer) Wireframe() bool { return r.config.Wireframe }

// Begin clears the framebuffer and resets the counters.
func (r *Renderer) Begin() {
	r.ctx.Clear(r.config.ClearColor)
	r.stage.ResetStats()
}

// Render resolves transforms and draws every active, visible mesh entity
// from the primary camera. A hierarchy cycle is logged by the world and
// the affected entities draw with their previous matrices.
func (r *Renderer) Render(w *scene.World) (FrameStats, error) {
	var fs FrameStats
	if err := w.UpdateTransforms(); err != nil && !errors.Is(err, scene.ErrHierarchyCycle) {
		return fs, err
	}

	r.Begin()
	if err := r.setCamera(w); err != nil {
		return fs, err
	}

	for e := range w.Query(scene.CompTransform | scene.CompMeshRenderer) {
		mr, err := w.MeshRenderer(e)
		if err != nil || !mr.Visible {
			continue
		}
		tr, err := w.Transform(e)
		if err != nil {
			continue
		}
		fs.Entities++
		if r.behindCamera(&tr.World, mr) {
			fs.Culled++
			continue
		}

		r.params = pipeline.DrawParams{
			Model:     tr.World,
			Texture:   r.textures.Lookup(mr.Texture),
			Color:     mr.Color,
			FrameA:    mr.FrameA,
			FrameB:    mr.FrameB,
			Lerp:      mr.Lerp,
			Wireframe: r.config.Wireframe,
		}
		if _, err := r.stage.DrawMesh(r.ctx, r.meshes, mr.Mesh, &r.params); err != nil {
			r.log.Debug("skipping mesh",
				zap.Stringer("entity", e),
				zap.Uint32("mesh", uint32(mr.Mesh)),
				zap.Error(err))
		}
	}

	fs.Stage = r.stage.Stats()
	fs.Raster = r.ctx.Stats()
	return fs, nil
}

// setCamera loads the primary camera's view and projection into the stage.
// Camera rotation is taken from its own transform; parent rotation is not
// applied.
func (r *Renderer) setCamera(w *scene.World) error {
	cam, ok := w.PrimaryCamera()
	if !ok {
		return ErrNoCamera
	}
	c, err := w.Camera(cam)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoCamera, err)
	}
	tr, err := w.Transform(cam)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoCamera, err)
	}
	aspect := float32(r.ctx.Width()) / float32(r.ctx.Height())
	r.stage.View = pipeline.ViewMatrix(w.WorldPosition(cam), tr.Rotation)
	r.stage.Proj = c.Projection(aspect)
	return nil
}

// behindCamera reports whether the mesh's bounding sphere lies entirely
// behind the near rejection plane.
func (r *Renderer) behindCamera(model *math.Mat4, mr *scene.MeshRenderer) bool {
	radius := mr.Radius
	if radius <= 0 {
		info, err := r.meshes.Info(mr.Mesh)
		if err != nil {
			return false
		}
		radius = info.Radius
	}
	if radius <= 0 {
		return false
	}
	s := max(model.Column(0).Length(), model.Column(1).Length(), model.Column(2).Length())
	center := r.stage.View.TransformPoint(model.TransformPoint(mr.Center))
	return center.Z-radius*s > pipeline.NearReject
}
