// Package camera provides an orbit controller for scene camera entities.
package camera

import (
	"github.com/Faultbox/softcore/internal/scene"
	"github.com/Faultbox/softcore/pkg/math"
)

// Orbit circles a center point at a fixed distance.
type Orbit struct {
	Center math.Vec3

	// Spherical coordinates
	Distance float32
	Pitch    float32 // Radians above the horizon
	Yaw      float32 // Radians around +Y, 0 looks down -Z

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Radians per step for keyboard orbiting
	Step float32
	// Fraction of the distance per zoom step
	ZoomStep float32
}

// NewOrbit creates an orbit camera with viewer defaults.
func NewOrbit() *Orbit {
	return &Orbit{
		Distance:    5,
		Pitch:       0.3,
		MinDistance: 0.5,
		MaxDistance: 500,
		MinPitch:    -1.5,
		MaxPitch:    1.5,
		Step:        0.05,
		ZoomStep:    0.1,
	}
}

// Position returns the camera position in world space.
func (c *Orbit) Position() math.Vec3 {
	cp := math.Cos(c.Pitch)
	return math.Vec3{
		X: c.Center.X + c.Distance*cp*math.Sin(c.Yaw),
		Y: c.Center.Y + c.Distance*math.Sin(c.Pitch),
		Z: c.Center.Z + c.Distance*cp*math.Cos(c.Yaw),
	}
}

// Rotation returns Euler angles that aim a scene camera at the center.
func (c *Orbit) Rotation() math.Vec3 {
	return math.Vec3{X: -c.Pitch, Y: c.Yaw}
}

// Rotate orbits by the given yaw and pitch deltas, clamping pitch.
func (c *Orbit) Rotate(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch = math.Clamp(c.Pitch+dPitch, c.MinPitch, c.MaxPitch)
}

// Zoom moves toward (positive) or away from the center.
func (c *Orbit) Zoom(steps float32) {
	c.Distance = math.Clamp(c.Distance-steps*c.Distance*c.ZoomStep, c.MinDistance, c.MaxDistance)
}

// FitRadius centers on a bounding sphere and backs off far enough to see
// all of it.
func (c *Orbit) FitRadius(center math.Vec3, radius float32) {
	c.Center = center
	c.Distance = math.Clamp(radius*3, c.MinDistance, c.MaxDistance)
}

// Apply writes the camera's position and rotation into entity e.
func (c *Orbit) Apply(w *scene.World, e scene.Entity) error {
	if err := w.SetPosition(e, c.Position()); err != nil {
		return err
	}
	return w.SetRotation(e, c.Rotation())
}
