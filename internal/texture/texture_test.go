package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/softcore/internal/logger"
	"github.com/Faultbox/softcore/internal/raster"
)

// uniformTGA builds an uncompressed 24-bit TGA filled with one color.
func uniformTGA(w, h int, r, g, b uint8) []byte {
	hdr := make([]byte, 18)
	hdr[2] = 2 // uncompressed true-color
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = 24
	data := hdr
	for i := 0; i < w*h; i++ {
		data = append(data, b, g, r)
	}
	return data
}

func uniformPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPowerOfTwo(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 1},
		{1, 1},
		{3, 2},
		{64, 64},
		{100, 64},
		{4096, MaxSize},
	}
	for _, tt := range tests {
		if got := PowerOfTwo(tt.n); got != tt.want {
			t.Errorf("PowerOfTwo(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestLoadTGA(t *testing.T) {
	store := raster.NewTextureStore(1024, 4)
	id, err := LoadBytes(store, uniformTGA(4, 4, 255, 0, 0), "skin.tga")
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	tex, err := store.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if tex.Width != 4 || tex.Height != 4 {
		t.Errorf("size = %dx%d, want 4x4", tex.Width, tex.Height)
	}
	if got := tex.At(1, 2); got != raster.Red {
		t.Errorf("texel = %#04x, want red", got)
	}
}

func TestLoadPNGResamples(t *testing.T) {
	store := raster.NewTextureStore(1024, 4)
	id, err := LoadBytes(store, uniformPNG(t, 3, 5, color.RGBA{0, 0, 255, 255}), "skin.png")
	if err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	tex := store.Lookup(id)
	if tex == nil {
		t.Fatal("texture missing")
	}
	if tex.Width != 2 || tex.Height != 4 {
		t.Errorf("size = %dx%d, want 2x4", tex.Width, tex.Height)
	}
	if got := tex.At(0, 0); got != raster.Blue {
		t.Errorf("texel = %#04x, want blue", got)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skin.tga")
	if err := os.WriteFile(path, uniformTGA(2, 2, 0, 255, 0), 0o644); err != nil {
		t.Fatal(err)
	}
	store := raster.NewTextureStore(64, 2)
	id, err := LoadFile(store, path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := store.Sample(id, 0.5, 0.5); got != raster.Green {
		t.Errorf("sample = %#04x, want green", got)
	}

	if _, err := LoadFile(store, filepath.Join(t.TempDir(), "missing.tga")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadErrors(t *testing.T) {
	store := raster.NewTextureStore(16, 2)
	if _, err := LoadBytes(store, []byte("not an image"), "skin.png"); err == nil {
		t.Error("expected decode error")
	}
	// 8x8 does not fit a 16-pixel pool.
	if _, err := LoadBytes(store, uniformTGA(8, 8, 1, 2, 3), "big.tga"); err == nil {
		t.Error("expected pool exhaustion")
	}
	if _, err := Import(store, image.NewRGBA(image.Rectangle{}), false); err != ErrEmptyImage {
		t.Errorf("empty image: got %v", err)
	}
}

func TestToRGB565MagentaKey(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{255, 0, 255, 255})
	img.Set(1, 0, color.RGBA{255, 255, 255, 255})

	keyed := ToRGB565(img, true)
	if keyed[0] != raster.Black || keyed[1] != raster.White {
		t.Errorf("keyed = %#04x", keyed)
	}
	plain := ToRGB565(img, false)
	if plain[0] != raster.Magenta {
		t.Errorf("plain = %#04x", plain)
	}
}

func TestLoadLogsUnderTextureName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "texture.log")
	cfg := logger.DefaultFileConfig(path)
	cfg.Compress = false
	cfg.JSON = true
	if err := logger.InitWithFileConfig("debug", cfg, false); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { logger.InitWithFileConfig("info", logger.FileConfig{}, false) })

	store := raster.NewTextureStore(64, 2)
	if _, err := LoadBytes(store, uniformPNG(t, 4, 4, color.White), "white.png"); err != nil {
		t.Fatal(err)
	}
	logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	out := string(data)
	for _, want := range []string{`"logger":"texture"`, "loaded texture", "white.png"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}
