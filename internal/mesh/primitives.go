package mesh

import (
	"go.uber.org/zap"

	"github.com/Faultbox/softcore/pkg/math"
)

// Front faces wind clockwise as seen from outside, which is the positive-area
// orientation for the rasterizer's y-down screen space.

// cubeFaces lists each face's outward normal and four corners, counter-clockwise
// as seen from outside, in units of the half extent.
var cubeFaces = [6]struct {
	normal  math.Vec3
	corners [4]math.Vec3
}{
	{math.Vec3{X: 0, Y: 0, Z: 1}, [4]math.Vec3{{X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: 1}}},
	{math.Vec3{X: 0, Y: 0, Z: -1}, [4]math.Vec3{{X: 1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: -1}}},
	{math.Vec3{X: 0, Y: 1, Z: 0}, [4]math.Vec3{{X: -1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: -1}}},
	{math.Vec3{X: 0, Y: -1, Z: 0}, [4]math.Vec3{{X: -1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: 1}, {X: -1, Y: -1, Z: 1}}},
	{math.Vec3{X: 1, Y: 0, Z: 0}, [4]math.Vec3{{X: 1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: 1}}},
	{math.Vec3{X: -1, Y: 0, Z: 0}, [4]math.Vec3{{X: -1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: 1}, {X: -1, Y: 1, Z: 1}, {X: -1, Y: 1, Z: -1}}},
}

var quadUVs = [4]math.Vec2{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0}}

// quadIndices splits a counter-clockwise quad into two clockwise triangles.
var quadIndices = [6]uint16{0, 2, 1, 0, 3, 2}

// CreateCube builds a 24-vertex, 36-index cube centered on the origin.
func (s *Store) CreateCube(size float32) (Handle, error) {
	h := size * 0.5
	var verts [24]Vertex
	var idx [36]uint16
	for f, face := range cubeFaces {
		for c, corner := range face.corners {
			verts[f*4+c] = Vertex{Position: corner.Scale(h), Normal: face.normal, UV: quadUVs[c]}
		}
		for i, q := range quadIndices {
			idx[f*6+i] = uint16(f*4) + q
		}
	}
	return s.addStatic("cube", verts[:], idx[:], math.Vec3{}, h*1.732)
}

// CreatePlane builds a w by d quad in the XZ plane, facing +Y.
func (s *Store) CreatePlane(w, d float32) (Handle, error) {
	hw, hd := w*0.5, d*0.5
	verts := [4]Vertex{
		{Position: math.Vec3{X: -hw, Z: -hd}, Normal: math.Up, UV: math.Vec2{X: 0, Y: 0}},
		{Position: math.Vec3{X: hw, Z: -hd}, Normal: math.Up, UV: math.Vec2{X: 1, Y: 0}},
		{Position: math.Vec3{X: hw, Z: hd}, Normal: math.Up, UV: math.Vec2{X: 1, Y: 1}},
		{Position: math.Vec3{X: -hw, Z: hd}, Normal: math.Up, UV: math.Vec2{X: 0, Y: 1}},
	}
	// Corners run clockwise seen from above.
	idx := [6]uint16{0, 1, 2, 0, 2, 3}
	return s.addStatic("plane", verts[:], idx[:], math.Vec3{}, max(hw, hd))
}

// addStatic copies generated geometry into the pools.
func (s *Store) addStatic(name string, verts []Vertex, idx []uint16, center math.Vec3, radius float32) (Handle, error) {
	h, err := s.claim()
	if err != nil {
		return InvalidHandle, err
	}
	vOff, err := s.vertices.Alloc(len(verts))
	if err != nil {
		return InvalidHandle, err
	}
	iOff, err := s.indices.Alloc(len(idx))
	if err != nil {
		s.vertices.Trim(vOff, len(verts), 0)
		return InvalidHandle, err
	}
	copy(s.vertices.Slice(vOff, len(verts)), verts)
	copy(s.indices.Slice(iOff, len(idx)), idx)

	s.log.Debug("created primitive",
		zap.String("name", name),
		zap.Uint32("handle", uint32(h)),
		zap.Int("vertices", len(verts)),
		zap.Int("indices", len(idx)))

	return s.commit(h, Static{
		VertexOffset: vOff,
		VertexCount:  len(verts),
		IndexOffset:  iOff,
		IndexCount:   len(idx),
		Center:       center,
		Radius:       radius,
	}), nil
}
