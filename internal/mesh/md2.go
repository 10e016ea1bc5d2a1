package mesh

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/softcore/internal/pool"
	"github.com/Faultbox/softcore/pkg/formats"
	"github.com/Faultbox/softcore/pkg/math"
)

// LoadMD2 loads a Quake 2 MD2 buffer as an animated mesh.
//
// Texture coordinates are expanded to one pair per triangle corner so seams
// need no duplicated position data. Triangle winding is flipped to v0,v2,v1.
func (s *Store) LoadMD2(data []byte) (Handle, error) {
	md2, err := formats.ParseMD2(data)
	if err != nil {
		return InvalidHandle, err
	}
	return s.AddMD2(md2)
}

// LoadMD2File reads and loads an MD2 file.
func (s *Store) LoadMD2File(path string) (Handle, error) {
	data, err := readAsset(path)
	if err != nil {
		return InvalidHandle, err
	}
	h, err := s.LoadMD2(data)
	if err != nil {
		return InvalidHandle, fmt.Errorf("loading %s: %w", path, err)
	}
	return h, nil
}

// AddMD2 copies an already parsed model into the pools.
func (s *Store) AddMD2(md2 *formats.MD2) (Handle, error) {
	numFrames := md2.FrameCount()
	numVerts := md2.VertexCount()
	numTris := len(md2.Triangles)

	if numFrames > s.frames.Cap() {
		return InvalidHandle, fmt.Errorf("%w: %d frames exceed frame pool of %d", pool.ErrNoSpace, numFrames, s.frames.Cap())
	}

	h, err := s.claim()
	if err != nil {
		return InvalidHandle, err
	}
	uvOff, err := s.uvs.Alloc(numTris * 3)
	if err != nil {
		return InvalidHandle, err
	}
	iOff, err := s.indices.Alloc(numTris * 3)
	if err != nil {
		s.uvs.Trim(uvOff, numTris*3, 0)
		return InvalidHandle, err
	}
	fOff, err := s.frames.Alloc(numFrames)
	if err != nil {
		s.indices.Trim(iOff, numTris*3, 0)
		s.uvs.Trim(uvOff, numTris*3, 0)
		return InvalidHandle, err
	}
	fvOff, err := s.frameVerts.Alloc(numFrames * numVerts)
	if err != nil {
		s.frames.Trim(fOff, numFrames, 0)
		s.indices.Trim(iOff, numTris*3, 0)
		s.uvs.Trim(uvOff, numTris*3, 0)
		return InvalidHandle, err
	}

	sw, sh := float32(md2.Header.SkinWidth), float32(md2.Header.SkinHeight)
	if sw <= 0 {
		sw = 1
	}
	if sh <= 0 {
		sh = 1
	}

	uvs := s.uvs.Slice(uvOff, numTris*3)
	idx := s.indices.Slice(iOff, numTris*3)
	for t, tri := range md2.Triangles {
		// Flip winding: corner order 0,2,1.
		for c, src := range [3]int{0, 2, 1} {
			idx[t*3+c] = tri.Vertex[src]
			st := tri.TexCoord[src]
			if int(st) < len(md2.TexCoords) {
				tc := md2.TexCoords[st]
				uvs[t*3+c] = math.Vec2{X: float32(tc.S) / sw, Y: float32(tc.T) / sh}
			} else {
				uvs[t*3+c] = math.Vec2{}
			}
		}
	}

	var radius float32
	frames := s.frames.Slice(fOff, numFrames)
	for i := range md2.Frames {
		src := &md2.Frames[i]
		f := &frames[i]
		f.Scale = math.Vec3{X: src.Scale[0], Y: src.Scale[1], Z: src.Scale[2]}
		f.Translate = math.Vec3{X: src.Translate[0], Y: src.Translate[1], Z: src.Translate[2]}
		f.Name = [16]byte{}
		copy(f.Name[:], src.Name)
		f.VertexOffset = fvOff + uint32(i*numVerts)

		dst := s.frameVerts.Slice(f.VertexOffset, numVerts)
		copy(dst, src.Vertices)
		for _, v := range dst {
			radius = max(radius, f.Decode(v).Length())
		}
	}

	s.log.Debug("loaded MD2",
		zap.Uint32("handle", uint32(h)),
		zap.Int("frames", numFrames),
		zap.Int("vertices", numVerts),
		zap.Int("triangles", numTris),
		zap.Int32("skinWidth", md2.Header.SkinWidth),
		zap.Int32("skinHeight", md2.Header.SkinHeight))

	return s.commit(h, Animated{
		FrameOffset:   fOff,
		FrameCount:    numFrames,
		VertsPerFrame: numVerts,
		IndexOffset:   iOff,
		IndexCount:    numTris * 3,
		UVOffset:      uvOff,
		UVCount:       numTris * 3,
		Radius:        radius,
	}), nil
}
