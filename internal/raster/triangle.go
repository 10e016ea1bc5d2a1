package raster

// ScreenVertex is a projected vertex ready for rasterization.
type ScreenVertex struct {
	X, Y  int
	Z     float32 // NDC depth in [0,1]
	WInv  float32 // 1/w from the clip stage
	U, V  float32
	Color uint16 // Light color
}

// edge returns twice the signed area of (a, b, p). Positive means p is
// clockwise from a->b on a y-down screen.
func edge(ax, ay, bx, by, px, py int) int {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// bounds culls the triangle or returns its clamped bounding box and area.
func (c *Context) bounds(v0, v1, v2 *ScreenVertex) (minX, minY, maxX, maxY, area int, ok bool) {
	c.stats.Submitted++

	area = edge(v0.X, v0.Y, v1.X, v1.Y, v2.X, v2.Y)
	if area <= 0 {
		c.stats.Culled++
		return 0, 0, 0, 0, 0, false
	}

	minX = max(min(v0.X, v1.X, v2.X), 0)
	maxX = min(max(v0.X, v1.X, v2.X), c.width-1)
	minY = max(min(v0.Y, v1.Y, v2.Y), 0)
	maxY = min(max(v0.Y, v1.Y, v2.Y), c.height-1)
	if minX > maxX || minY > maxY {
		c.stats.Culled++
		return 0, 0, 0, 0, 0, false
	}
	return minX, minY, maxX, maxY, area, true
}

// DrawTriangle fills a clockwise (on screen) triangle. With a texture the
// UVs are interpolated perspective-correct and the texel is modulated by
// the interpolated light color; without one only the light color is drawn.
func (c *Context) DrawTriangle(v0, v1, v2 *ScreenVertex, tex *Texture) {
	minX, minY, maxX, maxY, area, ok := c.bounds(v0, v1, v2)
	if !ok {
		return
	}
	invArea := 1 / float32(area)

	// Per-step deltas of each edge function.
	a12, b12 := v1.Y-v2.Y, v2.X-v1.X
	a20, b20 := v2.Y-v0.Y, v0.X-v2.X
	a01, b01 := v0.Y-v1.Y, v1.X-v0.X

	w0Row := edge(v1.X, v1.Y, v2.X, v2.Y, minX, minY)
	w1Row := edge(v2.X, v2.Y, v0.X, v0.Y, minX, minY)
	w2Row := edge(v0.X, v0.Y, v1.X, v1.Y, minX, minY)

	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row
		row := y * c.width

		for x := minX; x <= maxX; x++ {
			if w0|w1|w2 >= 0 {
				b0 := float32(w0) * invArea
				b1 := float32(w1) * invArea
				b2 := float32(w2) * invArea
				z := b0*v0.Z + b1*v1.Z + b2*v2.Z

				i := row + x
				if z < c.depth[i] {
					light := lerpColor(v0.Color, v1.Color, v2.Color, b0, b1, b2)
					if tex != nil {
						pw0, pw1, pw2 := b0*v0.WInv, b1*v1.WInv, b2*v2.WInv
						inv := 1 / (pw0 + pw1 + pw2)
						u := (pw0*v0.U + pw1*v1.U + pw2*v2.U) * inv
						v := (pw0*v0.V + pw1*v1.V + pw2*v2.V) * inv
						light = modulate(tex.Sample(u, v), light)
					}
					c.depth[i] = z
					c.color[i] = light
					c.stats.Pixels++
				}
			}
			w0 += a12
			w1 += a20
			w2 += a01
		}
		w0Row += b12
		w1Row += b20
		w2Row += b01
	}
	c.stats.Drawn++
}

// DrawTriangleSolid fills a triangle with one color, depth-tested.
func (c *Context) DrawTriangleSolid(v0, v1, v2 *ScreenVertex, color uint16) {
	minX, minY, maxX, maxY, area, ok := c.bounds(v0, v1, v2)
	if !ok {
		return
	}
	invArea := 1 / float32(area)

	for y := minY; y <= maxY; y++ {
		row := y * c.width
		for x := minX; x <= maxX; x++ {
			w0 := edge(v1.X, v1.Y, v2.X, v2.Y, x, y)
			w1 := edge(v2.X, v2.Y, v0.X, v0.Y, x, y)
			w2 := edge(v0.X, v0.Y, v1.X, v1.Y, x, y)
			if w0|w1|w2 < 0 {
				continue
			}
			z := (float32(w0)*v0.Z + float32(w1)*v1.Z + float32(w2)*v2.Z) * invArea
			if i := row + x; z < c.depth[i] {
				c.depth[i] = z
				c.color[i] = color
				c.stats.Pixels++
			}
		}
	}
	c.stats.Drawn++
}

// DrawTriangleWire outlines a triangle with lines; winding is not checked.
func (c *Context) DrawTriangleWire(v0, v1, v2 *ScreenVertex, color uint16) {
	c.DrawLine(v0.X, v0.Y, v1.X, v1.Y, color)
	c.DrawLine(v1.X, v1.Y, v2.X, v2.Y, color)
	c.DrawLine(v2.X, v2.Y, v0.X, v0.Y, color)
}
