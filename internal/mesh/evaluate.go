package mesh

import (
	"github.com/Faultbox/softcore/pkg/formats"
	"github.com/Faultbox/softcore/pkg/math"
)

// Evaluate blends vertex vi between keyframes a and b at t in [0,1].
//
// Frame and vertex indices past the end are clamped to the last valid one so
// playback at clip boundaries never fails. Identical frames return the
// decoded vertex unchanged.
func (s *Store) Evaluate(h Handle, a, b int, t float32, vi int) (pos, normal math.Vec3, err error) {
	m, err := s.Animated(h)
	if err != nil {
		return math.Vec3{}, math.Vec3{}, err
	}
	if m.FrameCount == 0 || m.VertsPerFrame == 0 {
		return math.Vec3{}, math.Up, nil
	}
	fa, fb := s.frame(m, a), s.frame(m, b)
	vi = clampIndex(vi, m.VertsPerFrame)
	pos, normal = blend(fa, fb, s.frameVerts.At(fa.VertexOffset+uint32(vi)), s.frameVerts.At(fb.VertexOffset+uint32(vi)), t)
	return pos, normal, nil
}

// EvaluateFrame blends every vertex of the mesh into dst, which must hold
// VertsPerFrame entries. It returns the number written.
func (s *Store) EvaluateFrame(h Handle, a, b int, t float32, dst []Vertex) (int, error) {
	m, err := s.Animated(h)
	if err != nil {
		return 0, err
	}
	if m.FrameCount == 0 {
		return 0, nil
	}
	fa, fb := s.frame(m, a), s.frame(m, b)
	va := s.frameVerts.Slice(fa.VertexOffset, m.VertsPerFrame)
	vb := s.frameVerts.Slice(fb.VertexOffset, m.VertsPerFrame)
	n := min(len(dst), m.VertsPerFrame)
	for i := 0; i < n; i++ {
		dst[i].Position, dst[i].Normal = blend(fa, fb, &va[i], &vb[i], t)
		dst[i].UV = math.Vec2{}
	}
	return n, nil
}

func (s *Store) frame(m Animated, i int) *Frame {
	return s.frames.At(m.FrameOffset + uint32(clampIndex(i, m.FrameCount)))
}

func blend(fa, fb *Frame, va, vb *formats.MD2Vertex, t float32) (math.Vec3, math.Vec3) {
	pa, pb := fa.Decode(*va), fb.Decode(*vb)
	na, nb := formats.MD2Normal(va.NormalIndex), formats.MD2Normal(vb.NormalIndex)
	if fa == fb {
		return pa, na
	}
	return pa.Lerp(pb, t), na.Lerp(nb, t).Normalize()
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
