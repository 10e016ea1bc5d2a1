package raster

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/softcore/internal/logger"
	"github.com/Faultbox/softcore/internal/pool"
	"github.com/Faultbox/softcore/pkg/math"
)

// TextureID addresses a texture slot.
type TextureID uint32

// InvalidTexture is returned with every failed creation.
const InvalidTexture TextureID = 0xFFFFFFFF

// Default texture store sizes.
const (
	DefaultTexturePixels = 256 * 256 * 4
	DefaultTextureSlots  = 64
)

// Texture errors.
var (
	ErrNoFreeTexture  = errors.New("no free texture slot")
	ErrTextureSize    = errors.New("texture dimensions must be powers of two")
	ErrInvalidTexture = errors.New("invalid texture id")
)

// Texture is a power-of-two RGB565 image living in the store's pixel pool.
type Texture struct {
	Width  int
	Height int
	Pixels []uint16 // Row-major, aliases the pixel pool

	wmask int
	hmask int
}

// Sample wraps (u, v) into [0,1) and returns the nearest texel.
func (t *Texture) Sample(u, v float32) uint16 {
	u -= float32(int(u))
	if u < 0 {
		u++
	}
	v -= float32(int(v))
	if v < 0 {
		v++
	}
	tx := int(u*float32(t.Width)) & t.wmask
	ty := int(v*float32(t.Height)) & t.hmask
	return t.Pixels[ty*t.Width+tx]
}

// At returns the texel at integer coordinates, wrapping with the masks.
func (t *Texture) At(x, y int) uint16 {
	return t.Pixels[(y&t.hmask)*t.Width+(x&t.wmask)]
}

// TextureStore owns the texel pool and the texture slot table. Pixel
// memory is not reclaimed by Free, only by Reset.
type TextureStore struct {
	pixels *pool.Pool[uint16]
	slots  []*Texture // nil when free
	log    *zap.Logger
}

// NewTextureStore allocates the pixel pool up front.
func NewTextureStore(pixels, slots int) *TextureStore {
	return &TextureStore{
		pixels: pool.New[uint16]("texture pixels", pixels),
		slots:  make([]*Texture, slots),
		log:    logger.Named("texture"),
	}
}

// Reset frees every texture and rewinds the pixel pool.
func (s *TextureStore) Reset() {
	clear(s.slots)
	s.pixels.Reset()
}

// create claims a slot and a pixel range; nothing is claimed on failure.
func (s *TextureStore) create(w, h int) (TextureID, *Texture, error) {
	if !math.IsPowerOfTwo(w) || !math.IsPowerOfTwo(h) {
		return InvalidTexture, nil, fmt.Errorf("%w: %dx%d", ErrTextureSize, w, h)
	}
	id := InvalidTexture
	for i, t := range s.slots {
		if t == nil {
			id = TextureID(i)
			break
		}
	}
	if id == InvalidTexture {
		return InvalidTexture, nil, fmt.Errorf("%w: all %d in use", ErrNoFreeTexture, len(s.slots))
	}
	off, err := s.pixels.Alloc(w * h)
	if err != nil {
		return InvalidTexture, nil, err
	}
	t := &Texture{
		Width:  w,
		Height: h,
		Pixels: s.pixels.Slice(off, w*h),
		wmask:  w - 1,
		hmask:  h - 1,
	}
	s.slots[id] = t
	s.log.Debug("texture created",
		zap.Uint32("id", uint32(id)),
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int("pixels_free", s.pixels.Free()))
	return id, t, nil
}

// CreateSolid creates a w×h texture of one color.
func (s *TextureStore) CreateSolid(color uint16, w, h int) (TextureID, error) {
	id, t, err := s.create(w, h)
	if err != nil {
		return InvalidTexture, err
	}
	for i := range t.Pixels {
		t.Pixels[i] = color
	}
	return id, nil
}

// CreateCheckerboard creates a size×size texture of alternating checks,
// each size/8 texels wide (at least 1). The top-left check is c2.
func (s *TextureStore) CreateCheckerboard(c1, c2 uint16, size int) (TextureID, error) {
	id, t, err := s.create(size, size)
	if err != nil {
		return InvalidTexture, err
	}
	check := max(size/8, 1)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := c2
			if (x/check+y/check)&1 == 1 {
				c = c1
			}
			t.Pixels[y*size+x] = c
		}
	}
	return id, nil
}

// CreateFromPixels copies a row-major w×h RGB565 image into the store.
func (s *TextureStore) CreateFromPixels(w, h int, pixels []uint16) (TextureID, error) {
	if len(pixels) < w*h {
		return InvalidTexture, fmt.Errorf("%w: %d pixels for %dx%d", ErrTextureSize, len(pixels), w, h)
	}
	id, t, err := s.create(w, h)
	if err != nil {
		return InvalidTexture, err
	}
	copy(t.Pixels, pixels)
	return id, nil
}

// Get returns a live texture.
func (s *TextureStore) Get(id TextureID) (*Texture, error) {
	if int64(id) >= int64(len(s.slots)) || s.slots[id] == nil {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTexture, id)
	}
	return s.slots[id], nil
}

// Lookup is Get without the error, for draw paths.
func (s *TextureStore) Lookup(id TextureID) *Texture {
	if int64(id) >= int64(len(s.slots)) {
		return nil
	}
	return s.slots[id]
}

// Free releases the slot. The pixels stay allocated until Reset.
func (s *TextureStore) Free(id TextureID) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	s.slots[id] = nil
	return nil
}

// Sample samples a texture by id; a missing texture reads as magenta.
func (s *TextureStore) Sample(id TextureID, u, v float32) uint16 {
	t := s.Lookup(id)
	if t == nil {
		return Magenta
	}
	return t.Sample(u, v)
}

// InUse returns the number of live textures.
func (s *TextureStore) InUse() int {
	n := 0
	for _, t := range s.slots {
		if t != nil {
			n++
		}
	}
	return n
}

// PoolStats reports pixel pool usage.
func (s *TextureStore) PoolStats() pool.Stats {
	return s.pixels.Stats()
}
