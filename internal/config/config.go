// Package config handles engine configuration loading and management.
package config

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/softcore/internal/mesh"
)

// MaxMeshSlots is the largest mesh slot table the store supports.
const MaxMeshSlots = 64

// MaxEntities is the largest scene world.
const MaxEntities = 256

// Config holds all engine settings.
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Render  RenderConfig  `yaml:"render"`
	Pools   PoolConfig    `yaml:"pools"`
	Assets  AssetConfig   `yaml:"assets"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// DisplayConfig holds framebuffer and window settings.
type DisplayConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Scale  int    `yaml:"scale"` // Window pixels per framebuffer pixel
	Title  string `yaml:"title"`
}

// RenderConfig holds camera and rasterizer settings.
type RenderConfig struct {
	FOV        float32 `yaml:"fov"` // Vertical, degrees
	Near       float32 `yaml:"near"`
	Far        float32 `yaml:"far"`
	ClearColor uint16  `yaml:"clear_color"` // RGB565
	Wireframe  bool    `yaml:"wireframe"`
}

// PoolConfig sizes every fixed pool. Counts are in elements, not bytes.
type PoolConfig struct {
	Vertices      int `yaml:"vertices"`
	Indices       int `yaml:"indices"`
	MD2Frames     int `yaml:"md2_frames"`
	MD2Vertices   int `yaml:"md2_vertices"`
	UVs           int `yaml:"uvs"`
	TexturePixels int `yaml:"texture_pixels"`
	MeshSlots     int `yaml:"mesh_slots"`
	Textures      int `yaml:"textures"`
	Entities      int `yaml:"entities"`
}

// AssetConfig names the optional models loaded into the demo scene. Names
// that are not paths on disk are looked up in Dirs, last entry first.
type AssetConfig struct {
	Dirs []string `yaml:"dirs"`
	OBJ  string   `yaml:"obj"`
	MD2  string   `yaml:"md2"`
	Skin string   `yaml:"skin"` // TGA or PNG
	Clip string   `yaml:"clip"`
}

// OutputConfig controls headless rendering.
type OutputConfig struct {
	Snapshot string  `yaml:"snapshot"` // .webp or .png
	Frames   int     `yaml:"frames"`
	Timestep float32 `yaml:"timestep"` // Seconds per simulated frame
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the embedded-target defaults.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Width:  1240,
			Height: 680,
			Scale:  1,
			Title:  "softcore",
		},
		Render: RenderConfig{
			FOV:        60,
			Near:       0.1,
			Far:        100,
			ClearColor: 0x0000,
		},
		Pools: PoolConfig{
			Vertices:      40960,
			Indices:       81920,
			MD2Frames:     200,
			MD2Vertices:   204800,
			UVs:           204800,
			TexturePixels: 262144,
			MeshSlots:     64,
			Textures:      64,
			Entities:      256,
		},
		Assets: AssetConfig{
			Clip: "stand",
		},
		Output: OutputConfig{
			Snapshot: "frame.webp",
			Frames:   1,
			Timestep: 1.0 / 60,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			err = multierr.Append(err, fmt.Errorf(format, args...))
		}
	}

	check(c.Display.Width > 0, "display.width must be positive, got %d", c.Display.Width)
	check(c.Display.Height > 0, "display.height must be positive, got %d", c.Display.Height)
	check(c.Display.Scale >= 1, "display.scale must be at least 1, got %d", c.Display.Scale)

	check(c.Render.FOV > 0 && c.Render.FOV < 180, "render.fov must be in (0, 180), got %g", c.Render.FOV)
	check(c.Render.Near > 0, "render.near must be positive, got %g", c.Render.Near)
	check(c.Render.Far > c.Render.Near, "render.far (%g) must exceed render.near (%g)", c.Render.Far, c.Render.Near)

	p := c.Pools
	for _, f := range []struct {
		name string
		v    int
	}{
		{"vertices", p.Vertices},
		{"indices", p.Indices},
		{"md2_frames", p.MD2Frames},
		{"md2_vertices", p.MD2Vertices},
		{"uvs", p.UVs},
		{"texture_pixels", p.TexturePixels},
		{"mesh_slots", p.MeshSlots},
		{"textures", p.Textures},
		{"entities", p.Entities},
	} {
		check(f.v > 0, "pools.%s must be positive, got %d", f.name, f.v)
	}
	check(p.MeshSlots <= MaxMeshSlots, "pools.mesh_slots must be at most %d, got %d", MaxMeshSlots, p.MeshSlots)
	check(p.Entities <= MaxEntities, "pools.entities must be at most %d, got %d", MaxEntities, p.Entities)

	check(c.Output.Frames >= 1, "output.frames must be at least 1, got %d", c.Output.Frames)
	check(c.Output.Timestep > 0, "output.timestep must be positive, got %g", c.Output.Timestep)

	return err
}

// MeshCapacities converts the pool settings for mesh.NewStore.
func (p PoolConfig) MeshCapacities() mesh.Capacities {
	return mesh.Capacities{
		Vertices:      p.Vertices,
		Indices:       p.Indices,
		Frames:        p.MD2Frames,
		FrameVertices: p.MD2Vertices,
		UVs:           p.UVs,
		Slots:         p.MeshSlots,
	}
}

// Aspect returns the framebuffer aspect ratio.
func (d DisplayConfig) Aspect() float32 {
	return float32(d.Width) / float32(d.Height)
}
