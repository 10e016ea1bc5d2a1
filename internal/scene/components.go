package scene

import (
	"github.com/Faultbox/softcore/internal/mesh"
	"github.com/Faultbox/softcore/internal/raster"
	"github.com/Faultbox/softcore/pkg/math"
)

// Component is a bit in an entity's component mask.
type Component uint32

// Component bits.
const (
	CompTransform    Component = 1 << 0
	CompMeshRenderer Component = 1 << 1
	CompRigidBody    Component = 1 << 2
	CompCamera       Component = 1 << 3
	CompLight        Component = 1 << 4
	CompAnimator     Component = 1 << 5
	CompCollider     Component = 1 << 6
	CompAudioSource  Component = 1 << 7
)

// Transform places an entity relative to its parent. Position, rotation
// and scale are changed through the World setters so the dirty flag stays
// correct.
type Transform struct {
	Position math.Vec3
	Rotation math.Vec3 // Euler radians, applied Y then X then Z
	Scale    math.Vec3
	Parent   Entity
	Local    math.Mat4
	World    math.Mat4

	dirty bool
}

// Dirty reports whether the matrices are out of date.
func (t *Transform) Dirty() bool { return t.dirty }

func defaultTransform() Transform {
	return Transform{
		Scale:  math.Vec3{X: 1, Y: 1, Z: 1},
		Parent: InvalidEntity,
		Local:  math.Identity(),
		World:  math.Identity(),
		dirty:  true,
	}
}

// MeshRenderer draws a mesh with the entity's world matrix.
type MeshRenderer struct {
	Mesh        mesh.Handle
	Texture     raster.TextureID // raster.InvalidTexture draws vertex lighting only
	Color       uint16           // Flat color used when Texture is invalid
	Center      math.Vec3
	Radius      float32
	Visible     bool
	CastShadows bool
	Animated    bool

	// Keyframe pair and blend, kept in sync by UpdateAnimators.
	FrameA int
	FrameB int
	Lerp   float32
}

func defaultMeshRenderer() MeshRenderer {
	return MeshRenderer{
		Mesh:    mesh.InvalidHandle,
		Texture: raster.InvalidTexture,
		Color:   raster.White,
		Visible: true,
	}
}

// Camera is a perspective camera. FOV is vertical, in degrees.
type Camera struct {
	FOV     float32
	Near    float32
	Far     float32
	Primary bool
}

func defaultCamera() Camera {
	return Camera{FOV: 60, Near: 0.1, Far: 1000}
}

// Projection returns the camera's projection matrix for aspect.
func (c *Camera) Projection(aspect float32) math.Mat4 {
	return math.Perspective(math.Radians(c.FOV), aspect, c.Near, c.Far)
}

// LightType selects how a light is evaluated.
type LightType uint8

// Light types.
const (
	LightDirectional LightType = iota
	LightPoint
	LightSpot
)

// Light describes a light source.
type Light struct {
	Type      LightType
	Color     math.Vec3
	Intensity float32
	Range     float32
	SpotAngle float32 // Radians
}

func defaultLight() Light {
	return Light{
		Color:     math.Vec3{X: 1, Y: 1, Z: 1},
		Intensity: 1,
		Range:     10,
	}
}
