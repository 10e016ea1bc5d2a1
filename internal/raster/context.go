// Package raster draws RGB565 triangles and lines into an explicit
// framebuffer with a float depth buffer.
package raster

import (
	"fmt"
	"math"
)

// Stats counts rasterizer work since the last ResetStats.
type Stats struct {
	Submitted uint32 // Triangles passed to a draw call
	Culled    uint32 // Back-facing, degenerate or off-screen
	Drawn     uint32
	Pixels    uint32 // Pixels that passed the depth test
}

// Context owns a color buffer and a depth buffer of the same size. It is
// not safe for concurrent use.
type Context struct {
	width  int
	height int
	color  []uint16
	depth  []float32
	stats  Stats
}

// NewContext allocates both buffers. The depth buffer starts cleared.
func NewContext(width, height int) (*Context, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raster: invalid size %dx%d", width, height)
	}
	c := &Context{
		width:  width,
		height: height,
		color:  make([]uint16, width*height),
		depth:  make([]float32, width*height),
	}
	c.ClearDepth()
	return c, nil
}

// Width returns the framebuffer width in pixels.
func (c *Context) Width() int { return c.width }

// Height returns the framebuffer height in pixels.
func (c *Context) Height() int { return c.height }

// Framebuffer returns the row-major color buffer. The slice aliases the
// context's storage.
func (c *Context) Framebuffer() []uint16 { return c.color }

// Clear fills the color buffer, clears depth and resets the stats.
func (c *Context) Clear(color uint16) {
	for i := range c.color {
		c.color[i] = color
	}
	c.ClearDepth()
	c.ResetStats()
}

// ClearDepth fills the depth buffer with +Inf.
func (c *Context) ClearDepth() {
	inf := float32(math.Inf(1))
	for i := range c.depth {
		c.depth[i] = inf
	}
}

// Pixel returns the color at (x, y), or 0 outside the buffer.
func (c *Context) Pixel(x, y int) uint16 {
	if !c.inside(x, y) {
		return 0
	}
	return c.color[y*c.width+x]
}

// Depth returns the stored depth at (x, y), or +Inf outside the buffer.
func (c *Context) Depth(x, y int) float32 {
	if !c.inside(x, y) {
		return float32(math.Inf(1))
	}
	return c.depth[y*c.width+x]
}

// Stats returns the counters.
func (c *Context) Stats() Stats { return c.stats }

// ResetStats zeroes the counters.
func (c *Context) ResetStats() { c.stats = Stats{} }

func (c *Context) inside(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// DrawLine draws a Bresenham line without depth testing. Pixels outside
// the buffer are skipped.
func (c *Context) DrawLine(x0, y0, x1, y1 int, color uint16) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	for {
		if c.inside(x0, y0) {
			c.color[y0*c.width+x0] = color
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
