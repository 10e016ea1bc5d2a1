package raster

import "image/color"

// Common RGB565 colors.
const (
	Black   uint16 = 0x0000
	White   uint16 = 0xFFFF
	Red     uint16 = 0xF800
	Green   uint16 = 0x07E0
	Blue    uint16 = 0x001F
	Magenta uint16 = 0xF81F
)

// RGB565 packs 8-bit channels, dropping the low bits.
func RGB565(r, g, b uint8) uint16 {
	return uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b>>3)
}

// Unpack565 returns the raw 5/6/5-bit channels.
func Unpack565(c uint16) (r, g, b int) {
	return int(c>>11) & 0x1F, int(c>>5) & 0x3F, int(c) & 0x1F
}

// ToRGBA expands c to 8 bits per channel.
func ToRGBA(c uint16) color.RGBA {
	r, g, b := Unpack565(c)
	return color.RGBA{R: uint8(r << 3), G: uint8(g << 2), B: uint8(b << 3), A: 0xFF}
}

// FromColor converts any color to RGB565.
func FromColor(c color.Color) uint16 {
	r, g, b, _ := c.RGBA()
	return RGB565(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// lerpColor blends three colors by barycentric weights in channel space.
func lerpColor(c0, c1, c2 uint16, b0, b1, b2 float32) uint16 {
	r0, g0, bl0 := Unpack565(c0)
	r1, g1, bl1 := Unpack565(c1)
	r2, g2, bl2 := Unpack565(c2)

	r := int(b0*float32(r0) + b1*float32(r1) + b2*float32(r2) + 0.5)
	g := int(b0*float32(g0) + b1*float32(g1) + b2*float32(g2) + 0.5)
	b := int(b0*float32(bl0) + b1*float32(bl1) + b2*float32(bl2) + 0.5)

	r = min(max(r, 0), 31)
	g = min(max(g, 0), 63)
	b = min(max(b, 0), 31)
	return uint16(r<<11 | g<<5 | b)
}

// modulate multiplies a texel by a light color.
func modulate(texel, light uint16) uint16 {
	tr, tg, tb := Unpack565(texel)
	lr, lg, lb := Unpack565(light)
	return uint16((tr*lr)>>5<<11 | (tg*lg)>>6<<5 | (tb*lb)>>5)
}
