package mesh

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/softcore/pkg/formats"
	"github.com/Faultbox/softcore/pkg/math"
)

// maxStaticVertices is the most vertices a 16-bit index can address.
const maxStaticVertices = 1 << 16

// LoadOBJ loads a Wavefront OBJ text buffer as a static mesh.
//
// Every face corner becomes its own vertex, so per-face normals and UV seams
// survive. Quads are split as (0,1,2) and (0,2,3) around the first corner;
// non-convex quads are not handled.
func (s *Store) LoadOBJ(data []byte) (Handle, error) {
	obj, err := formats.ParseOBJ(data)
	if err != nil {
		return InvalidHandle, err
	}
	if obj.FaceCount*4 > maxStaticVertices {
		return InvalidHandle, fmt.Errorf("%w: %d faces exceed 16-bit indices", formats.ErrOBJTooLarge, obj.FaceCount)
	}

	h, err := s.claim()
	if err != nil {
		return InvalidHandle, err
	}

	vReserve, iReserve := obj.FaceCount*4, obj.FaceCount*6
	vOff, err := s.vertices.Alloc(vReserve)
	if err != nil {
		return InvalidHandle, err
	}
	iOff, err := s.indices.Alloc(iReserve)
	if err != nil {
		s.vertices.Trim(vOff, vReserve, 0)
		return InvalidHandle, err
	}

	verts := s.vertices.Slice(vOff, vReserve)
	idx := s.indices.Slice(iOff, iReserve)
	nv, ni := 0, 0

	err = obj.EachFace(func(f formats.OBJFace) error {
		if f.Count < 3 {
			return nil
		}
		base := nv
		for c := 0; c < f.Count; c++ {
			pos, uv, n := obj.Corner(f.Refs[c])
			verts[nv] = Vertex{Position: pos, Normal: n, UV: uv}
			nv++
		}
		b := uint16(base)
		idx[ni], idx[ni+1], idx[ni+2] = b, b+1, b+2
		ni += 3
		if f.Count == 4 {
			idx[ni], idx[ni+1], idx[ni+2] = b, b+2, b+3
			ni += 3
		}
		return nil
	})
	if err != nil {
		s.indices.Trim(iOff, iReserve, 0)
		s.vertices.Trim(vOff, vReserve, 0)
		return InvalidHandle, err
	}

	s.indices.Trim(iOff, iReserve, ni)
	s.vertices.Trim(vOff, vReserve, nv)

	center, radius := boundingSphere(verts[:nv])
	s.log.Debug("loaded OBJ",
		zap.Uint32("handle", uint32(h)),
		zap.Int("positions", len(obj.Positions)),
		zap.Int("faces", obj.FaceCount),
		zap.Int("vertices", nv),
		zap.Int("indices", ni),
		zap.Float32("radius", radius))

	return s.commit(h, Static{
		VertexOffset: vOff,
		VertexCount:  nv,
		IndexOffset:  iOff,
		IndexCount:   ni,
		Center:       center,
		Radius:       radius,
	}), nil
}

// LoadOBJFile reads and loads an OBJ file.
func (s *Store) LoadOBJFile(path string) (Handle, error) {
	data, err := readAsset(path)
	if err != nil {
		return InvalidHandle, err
	}
	h, err := s.LoadOBJ(data)
	if err != nil {
		return InvalidHandle, fmt.Errorf("loading %s: %w", path, err)
	}
	return h, nil
}

// boundingSphere centers on the AABB midpoint; the radius reaches the max
// corner.
func boundingSphere(verts []Vertex) (math.Vec3, float32) {
	if len(verts) == 0 {
		return math.Vec3{}, 0
	}
	lo, hi := verts[0].Position, verts[0].Position
	for _, v := range verts[1:] {
		lo = lo.Min(v.Position)
		hi = hi.Max(v.Position)
	}
	center := lo.Add(hi).Scale(0.5)
	return center, hi.Distance(center)
}
