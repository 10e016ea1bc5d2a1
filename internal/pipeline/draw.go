package pipeline

import (
	"github.com/Faultbox/softcore/internal/mesh"
	"github.com/Faultbox/softcore/internal/raster"
	"github.com/Faultbox/softcore/pkg/math"
)

// DrawParams describes one mesh instance.
type DrawParams struct {
	Model     math.Mat4
	Texture   *raster.Texture // nil draws vertex lighting tinted by Color
	Color     uint16
	FrameA    int // Keyframes and blend for animated meshes
	FrameB    int
	Lerp      float32
	Wireframe bool
}

// DrawMesh draws the mesh in slot h. Static meshes use their pooled
// vertices; animated meshes are evaluated at the requested keyframes and
// use their per-corner UVs. Free slots draw nothing. It returns the number
// of triangles sent to the rasterizer.
func (s *Stage) DrawMesh(ctx *raster.Context, store *mesh.Store, h mesh.Handle, p *DrawParams) (int, error) {
	slot, err := store.Get(h)
	if err != nil {
		return 0, err
	}
	switch m := slot.(type) {
	case mesh.Static:
		return s.drawStatic(ctx, store, h, p)
	case mesh.Animated:
		return s.drawAnimated(ctx, store, h, m, p)
	case mesh.Free:
		return 0, nil
	}
	return 0, nil
}

func (s *Stage) drawStatic(ctx *raster.Context, store *mesh.Store, h mesh.Handle, p *DrawParams) (int, error) {
	verts, err := store.Vertices(h)
	if err != nil {
		return 0, err
	}
	idx, err := store.Indices(h)
	if err != nil {
		return 0, err
	}

	drawn := 0
	var sv [3]raster.ScreenVertex
	for i := 0; i+2 < len(idx); i += 3 {
		s.stats.Triangles++
		ok := true
		for j := 0; j < 3 && ok; j++ {
			vi := int(idx[i+j])
			if vi >= len(verts) {
				ok = false
				break
			}
			v := &verts[vi]
			ok = s.Project(p.Model, v.Position, v.Normal, v.UV, &sv[j])
		}
		if s.submit(ctx, &sv, ok, p) {
			drawn++
		}
	}
	return drawn, nil
}

func (s *Stage) drawAnimated(ctx *raster.Context, store *mesh.Store, h mesh.Handle, m mesh.Animated, p *DrawParams) (int, error) {
	if m.FrameCount == 0 || m.VertsPerFrame == 0 {
		return 0, nil
	}
	frame := s.frameBuffer(m.VertsPerFrame)
	if _, err := store.EvaluateFrame(h, p.FrameA, p.FrameB, p.Lerp, frame); err != nil {
		return 0, err
	}
	idx, err := store.Indices(h)
	if err != nil {
		return 0, err
	}
	uvs, err := store.UVs(h)
	if err != nil {
		return 0, err
	}

	drawn := 0
	var sv [3]raster.ScreenVertex
	for i := 0; i+2 < len(idx); i += 3 {
		s.stats.Triangles++
		ok := true
		for j := 0; j < 3 && ok; j++ {
			vi := min(int(idx[i+j]), len(frame)-1)
			var uv math.Vec2
			if i+j < len(uvs) {
				uv = uvs[i+j]
			}
			ok = s.Project(p.Model, frame[vi].Position, frame[vi].Normal, uv, &sv[j])
		}
		if s.submit(ctx, &sv, ok, p) {
			drawn++
		}
	}
	return drawn, nil
}

// submit culls and rasterizes one projected triangle.
func (s *Stage) submit(ctx *raster.Context, sv *[3]raster.ScreenVertex, projected bool, p *DrawParams) bool {
	if !projected {
		s.stats.Clipped++
		return false
	}
	if !FrontFacing(&sv[0], &sv[1], &sv[2]) {
		s.stats.BackFaced++
		return false
	}

	switch {
	case p.Wireframe:
		ctx.DrawTriangleWire(&sv[0], &sv[1], &sv[2], p.Color)
	case p.Texture != nil:
		ctx.DrawTriangle(&sv[0], &sv[1], &sv[2], p.Texture)
	default:
		for j := range sv {
			sv[j].Color = tint(p.Color, sv[j].Color)
		}
		ctx.DrawTriangle(&sv[0], &sv[1], &sv[2], nil)
	}
	return true
}

// frameBuffer returns scratch space for n evaluated vertices, growing it
// only when a larger mesh shows up.
func (s *Stage) frameBuffer(n int) []mesh.Vertex {
	if cap(s.frame) < n {
		s.frame = make([]mesh.Vertex, n)
	}
	return s.frame[:n]
}

// tint scales a base color by a grey light level.
func tint(base, light uint16) uint16 {
	l := int(light>>11) & 0x1F
	r := (int(base>>11) & 0x1F) * l / 31
	g := (int(base>>5) & 0x3F) * l / 31
	b := (int(base) & 0x1F) * l / 31
	return uint16(r<<11 | g<<5 | b)
}
