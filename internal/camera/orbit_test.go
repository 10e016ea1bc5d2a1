package camera

import (
	"testing"

	"github.com/Faultbox/softcore/internal/scene"
	"github.com/Faultbox/softcore/pkg/math"
)

func nearVec(a, b math.Vec3) bool {
	d := a.Sub(b)
	return d.Length() < 1e-4
}

func TestOrbitPosition(t *testing.T) {
	c := NewOrbit()
	c.Pitch = 0
	c.Center = math.Vec3{X: 1, Y: 2, Z: 3}
	c.Distance = 4

	if got := c.Position(); !nearVec(got, math.Vec3{X: 1, Y: 2, Z: 7}) {
		t.Errorf("position = %v", got)
	}
	c.Yaw = math.Pi / 2
	if got := c.Position(); !nearVec(got, math.Vec3{X: 5, Y: 2, Z: 3}) {
		t.Errorf("position after yaw = %v", got)
	}
}

func TestOrbitLooksAtCenter(t *testing.T) {
	tests := []struct {
		name       string
		yaw, pitch float32
	}{
		{"front", 0, 0},
		{"above", 0, 0.6},
		{"side", 1.2, 0.3},
		{"below", -2.5, -0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := scene.NewWorld(4)
			e, err := w.Create("camera")
			if err != nil {
				t.Fatal(err)
			}
			c := NewOrbit()
			c.Center = math.Vec3{X: 1, Y: 0, Z: -2}
			c.Yaw, c.Pitch = tt.yaw, tt.pitch
			if err := c.Apply(w, e); err != nil {
				t.Fatal(err)
			}
			if err := w.UpdateTransforms(); err != nil {
				t.Fatal(err)
			}
			want := c.Center.Sub(c.Position()).Normalize()
			if got := w.Forward(e); !nearVec(got, want) {
				t.Errorf("forward = %v, want %v", got, want)
			}
		})
	}
}

func TestOrbitClamps(t *testing.T) {
	c := NewOrbit()
	c.Rotate(0, 10)
	if c.Pitch != c.MaxPitch {
		t.Errorf("pitch = %v, want %v", c.Pitch, c.MaxPitch)
	}
	c.Rotate(0, -10)
	if c.Pitch != c.MinPitch {
		t.Errorf("pitch = %v, want %v", c.Pitch, c.MinPitch)
	}

	c.Zoom(100)
	if c.Distance != c.MinDistance {
		t.Errorf("distance = %v, want %v", c.Distance, c.MinDistance)
	}
	c.FitRadius(math.Vec3{}, 1e6)
	if c.Distance != c.MaxDistance {
		t.Errorf("distance = %v, want %v", c.Distance, c.MaxDistance)
	}
}

func TestApplyStaleEntity(t *testing.T) {
	w := scene.NewWorld(2)
	e, _ := w.Create("camera")
	w.Destroy(e)
	if err := NewOrbit().Apply(w, e); err == nil {
		t.Error("expected error for destroyed entity")
	}
}
