// Package texture decodes skin images and converts them into pooled RGB565
// textures.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png" // PNG decoder registration
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp" // BMP decoder registration
	"golang.org/x/image/draw"

	"github.com/Faultbox/softcore/internal/logger"
	"github.com/Faultbox/softcore/internal/raster"
)

// MaxSize caps each dimension of an imported texture.
const MaxSize = 512

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("texture: empty image")

// Decode decodes a TGA, PNG or BMP image. TGA has no magic number, so it is
// selected by the name's extension; other formats are sniffed.
func Decode(r io.Reader, name string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		img, err := tga.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("texture: decode TGA %s: %w", name, err)
		}
		return img, nil
	}
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", name, err)
	}
	return img, nil
}

// IsMagentaKey reports whether an 8-bit color is the magenta transparency
// key. The tolerance absorbs lossy encoders.
func IsMagentaKey(r, g, b uint8) bool {
	return r >= 250 && g <= 10 && b >= 250
}

// PowerOfTwo returns the largest power of two <= n, clamped to [1, MaxSize].
func PowerOfTwo(n int) int {
	p := 1
	for p*2 <= n && p*2 <= MaxSize {
		p *= 2
	}
	return p
}

// Fit resamples img so both sides are powers of two no larger than MaxSize.
// Images that already fit are returned unchanged.
func Fit(img image.Image) image.Image {
	b := img.Bounds()
	w, h := PowerOfTwo(b.Dx()), PowerOfTwo(b.Dy())
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// ToRGB565 converts img row by row. Magenta-keyed pixels become black when
// keyMagenta is set, since the rasterizer has no alpha.
func ToRGB565(img image.Image, keyMagenta bool) []uint16 {
	b := img.Bounds()
	out := make([]uint16, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if keyMagenta && IsMagentaKey(c.R, c.G, c.B) {
				out = append(out, raster.Black)
				continue
			}
			out = append(out, raster.RGB565(c.R, c.G, c.B))
		}
	}
	return out
}

// Import fits img and copies it into the store.
func Import(store *raster.TextureStore, img image.Image, keyMagenta bool) (raster.TextureID, error) {
	if img.Bounds().Empty() {
		return raster.InvalidTexture, ErrEmptyImage
	}
	img = Fit(img)
	b := img.Bounds()
	return store.CreateFromPixels(b.Dx(), b.Dy(), ToRGB565(img, keyMagenta))
}

// LoadBytes decodes and imports an in-memory image.
func LoadBytes(store *raster.TextureStore, data []byte, name string) (raster.TextureID, error) {
	img, err := Decode(bytes.NewReader(data), name)
	if err != nil {
		return raster.InvalidTexture, err
	}
	id, err := Import(store, img, false)
	if err != nil {
		return raster.InvalidTexture, fmt.Errorf("texture: import %s: %w", name, err)
	}

	b := img.Bounds()
	logger.Named("texture").Debug("loaded texture",
		zap.String("name", name),
		zap.Int("srcWidth", b.Dx()),
		zap.Int("srcHeight", b.Dy()),
		zap.Uint32("id", uint32(id)))
	return id, nil
}

// LoadFile reads and imports an image file.
func LoadFile(store *raster.TextureStore, path string) (raster.TextureID, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return raster.InvalidTexture, fmt.Errorf("texture: read %s: %w", path, err)
	}
	return LoadBytes(store, data, filepath.Base(path))
}
