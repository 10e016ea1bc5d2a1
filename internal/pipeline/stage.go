// Package pipeline transforms mesh vertices to screen space, lights them,
// clips and culls whole triangles, and hands the survivors to the
// rasterizer.
package pipeline

import (
	"github.com/Faultbox/softcore/internal/mesh"
	"github.com/Faultbox/softcore/internal/raster"
	"github.com/Faultbox/softcore/pkg/math"
)

// Clip limits.
const (
	// NearReject rejects vertices with view z at or in front of this.
	NearReject float32 = -0.1
	// MinW rejects vertices whose clip w is at or below this.
	MinW float32 = 0.0001
	// GuardBand is the NDC x/y slack allowed before a vertex is rejected.
	GuardBand float32 = 1.5
)

// Stats counts triangles the stage dropped before rasterization.
type Stats struct {
	Triangles uint32 // Triangles considered
	Clipped   uint32 // A vertex failed the clip tests
	BackFaced uint32 // Screen winding was not clockwise
}

// Stage holds one camera's matrices and the target size.
type Stage struct {
	View   math.Mat4
	Proj   math.Mat4
	Width  int
	Height int

	stats Stats
	frame []mesh.Vertex
}

// NewStage creates a stage for a width×height target.
func NewStage(view, proj math.Mat4, width, height int) *Stage {
	return &Stage{View: view, Proj: proj, Width: width, Height: height}
}

// ViewMatrix builds the inverse camera transform Rx(-rot.x)·Ry(-rot.y)·T(-pos).
// Camera roll is ignored.
func ViewMatrix(pos, rot math.Vec3) math.Mat4 {
	return math.RotateX(-rot.X).
		Mul(math.RotateY(-rot.Y)).
		Mul(math.Translate(-pos.X, -pos.Y, -pos.Z))
}

// Stats returns the counters.
func (s *Stage) Stats() Stats { return s.stats }

// ResetStats zeroes the counters.
func (s *Stage) ResetStats() { s.stats = Stats{} }

// Project transforms a model-space vertex into out. It reports false when
// the vertex is behind the near limit, has a degenerate w, or lands
// outside the guard band or the 0..1 depth range.
func (s *Stage) Project(model math.Mat4, pos, normal math.Vec3, uv math.Vec2, out *raster.ScreenVertex) bool {
	world := model.MulVec4(math.Vec4{X: pos.X, Y: pos.Y, Z: pos.Z, W: 1})
	view := s.View.MulVec4(world)
	if view.Z >= NearReject {
		return false
	}

	clip := s.Proj.MulVec4(view)
	if clip.W <= MinW {
		return false
	}

	invW := 1 / clip.W
	nx, ny, nz := clip.X*invW, clip.Y*invW, clip.Z*invW
	if nx < -GuardBand || nx > GuardBand || ny < -GuardBand || ny > GuardBand {
		return false
	}
	if nz < 0 || nz > 1 {
		return false
	}

	out.X = int((nx*0.5 + 0.5) * float32(s.Width))
	out.Y = int((1 - (ny*0.5 + 0.5)) * float32(s.Height))
	out.Z = nz
	out.WInv = invW
	out.U, out.V = uv.X, uv.Y
	out.Color = Light(model.TransformDirection(normal).Normalize())
	return true
}

// Light returns the grey RGB565 intensity for a world-space unit normal.
// Upward faces are brightest; downward faces keep 30%.
func Light(n math.Vec3) uint16 {
	l := 0.3 + 0.7*(n.Y*0.5+0.5)
	i := min(max(int(l*31), 0), 31)
	c := uint8(i * 8)
	return raster.RGB565(c, c, c)
}

// FrontFacing reports whether the projected triangle winds clockwise on
// screen, the only orientation the rasterizer fills.
func FrontFacing(v0, v1, v2 *raster.ScreenVertex) bool {
	ax, ay := v1.X-v0.X, v1.Y-v0.Y
	bx, by := v2.X-v0.X, v2.Y-v0.Y
	return ax*by-ay*bx > 0
}
