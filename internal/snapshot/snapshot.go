// Package snapshot writes RGB565 framebuffers to WebP or PNG files.
package snapshot

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"

	"github.com/Faultbox/softcore/internal/raster"
)

// Format selects the encoder.
type Format int

// Supported formats.
const (
	WebP Format = iota
	PNG
)

// ErrSizeMismatch is returned when a framebuffer does not match its size.
var ErrSizeMismatch = errors.New("snapshot: pixel data size mismatch")

// FormatFor picks the encoder from a file extension. Anything other than
// .png is written as WebP.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return PNG
	}
	return WebP
}

// ToImage expands a row-major RGB565 framebuffer. scale > 1 enlarges it
// with nearest-neighbor sampling.
func ToImage(pixels []uint16, width, height, scale int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrSizeMismatch, width*height, len(pixels))
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := pixels[y*width : (y+1)*width]
		for x, c := range row {
			img.SetRGBA(x, y, raster.ToRGBA(c))
		}
	}
	if scale <= 1 {
		return img, nil
	}
	big := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))
	draw.NearestNeighbor.Scale(big, big.Bounds(), img, img.Bounds(), draw.Src, nil)
	return big, nil
}

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("encoding PNG: %w", err)
		}
	default:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("encoding WebP: %w", err)
		}
	}
	return nil
}

// Save writes the context's framebuffer to path, choosing the format from
// the extension.
func Save(ctx *raster.Context, path string, scale int) error {
	img, err := ToImage(ctx.Framebuffer(), ctx.Width(), ctx.Height(), scale)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := Encode(file, img, FormatFor(path)); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Capture writes timestamped snapshots into a directory.
type Capture struct {
	outputDir string
	prefix    string
	format    Format
	now       func() time.Time
}

// NewCapture creates a capture handler. An empty outputDir writes to the
// working directory.
func NewCapture(outputDir, prefix string, f Format) *Capture {
	return &Capture{outputDir: outputDir, prefix: prefix, format: f, now: time.Now}
}

// Filename returns the path the next capture would use.
func (c *Capture) Filename() string {
	ext := ".webp"
	if c.format == PNG {
		ext = ".png"
	}
	name := fmt.Sprintf("%s_%s%s", c.prefix, c.now().Format("2006-01-02_15-04-05"), ext)
	if c.outputDir != "" {
		name = filepath.Join(c.outputDir, name)
	}
	return name
}

// Take saves the context's framebuffer and returns the file name.
func (c *Capture) Take(ctx *raster.Context, scale int) (string, error) {
	name := c.Filename()
	if err := Save(ctx, name, scale); err != nil {
		return "", err
	}
	return name, nil
}
