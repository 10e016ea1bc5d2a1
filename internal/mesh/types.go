// Package mesh owns the geometry pools and the fixed mesh slot table.
// Loaders and primitive generators claim a slot plus pool ranges; nothing is
// released individually.
package mesh

import (
	"errors"

	"github.com/Faultbox/softcore/pkg/formats"
	"github.com/Faultbox/softcore/pkg/math"
)

// Handle identifies a mesh slot.
type Handle uint32

// InvalidHandle is returned with every error.
const InvalidHandle Handle = 0xFFFFFFFF

// Mesh errors.
var (
	ErrNoFreeSlot    = errors.New("mesh: no free slot")
	ErrInvalidHandle = errors.New("mesh: invalid handle")
	ErrWrongKind     = errors.New("mesh: wrong mesh kind")
)

// Vertex is a static mesh vertex.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
}

// Frame is one animation keyframe stored in the frame pool.
type Frame struct {
	Scale        math.Vec3
	Translate    math.Vec3
	Name         [16]byte
	VertexOffset uint32 // Into the animated vertex pool
}

// FrameName returns the frame name as a string.
func (f *Frame) FrameName() string {
	n := 0
	for n < len(f.Name) && f.Name[n] != 0 {
		n++
	}
	return string(f.Name[:n])
}

// Decode reconstructs a compressed vertex of this frame.
func (f *Frame) Decode(v formats.MD2Vertex) math.Vec3 {
	return math.Vec3{
		X: float32(v.X)*f.Scale.X + f.Translate.X,
		Y: float32(v.Y)*f.Scale.Y + f.Translate.Y,
		Z: float32(v.Z)*f.Scale.Z + f.Translate.Z,
	}
}

// Slot is the mesh slot variant: Free, Static or Animated.
type Slot interface {
	kind() Kind
}

// Kind names a slot variant.
type Kind uint8

const (
	KindFree Kind = iota
	KindStatic
	KindAnimated
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindFree:
		return "free"
	case KindStatic:
		return "static"
	case KindAnimated:
		return "animated"
	default:
		return "unknown"
	}
}

// Free marks an unused slot.
type Free struct{}

// Static is an indexed triangle list over the vertex pool. Indices are
// relative to VertexOffset.
type Static struct {
	VertexOffset uint32
	VertexCount  int
	IndexOffset  uint32
	IndexCount   int
	Center       math.Vec3
	Radius       float32
}

// Animated is an MD2 keyframe mesh. Indices address vertices within a frame;
// UVs are stored per triangle corner, parallel to the index range.
type Animated struct {
	FrameOffset   uint32
	FrameCount    int
	VertsPerFrame int
	IndexOffset   uint32
	IndexCount    int
	UVOffset      uint32
	UVCount       int
	Radius        float32
}

func (Free) kind() Kind     { return KindFree }
func (Static) kind() Kind   { return KindStatic }
func (Animated) kind() Kind { return KindAnimated }

// KindOf returns the variant of s; nil counts as free.
func KindOf(s Slot) Kind {
	if s == nil {
		return KindFree
	}
	return s.kind()
}

// Triangles returns the triangle count of a mesh slot.
func Triangles(s Slot) int {
	switch m := s.(type) {
	case Static:
		return m.IndexCount / 3
	case Animated:
		return m.IndexCount / 3
	default:
		return 0
	}
}
