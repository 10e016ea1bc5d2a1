package mesh

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/softcore/internal/logger"
	"github.com/Faultbox/softcore/internal/pool"
	"github.com/Faultbox/softcore/pkg/formats"
	"github.com/Faultbox/softcore/pkg/math"
)

// Capacities sizes every pool owned by a Store.
type Capacities struct {
	Vertices      int
	Indices       int
	Frames        int
	FrameVertices int
	UVs           int
	Slots         int
}

// DefaultCapacities returns the embedded-target pool sizes.
func DefaultCapacities() Capacities {
	return Capacities{
		Vertices:      40960,
		Indices:       81920,
		Frames:        200,
		FrameVertices: 204800,
		UVs:           204800,
		Slots:         64,
	}
}

// Store owns the geometry pools and the slot table. It is not safe for
// concurrent use; loads and draws must not overlap.
type Store struct {
	vertices   *pool.Pool[Vertex]
	indices    *pool.Pool[uint16]
	frames     *pool.Pool[Frame]
	frameVerts *pool.Pool[formats.MD2Vertex]
	uvs        *pool.Pool[math.Vec2]
	slots      []Slot
	log        *zap.Logger
}

// NewStore allocates all pools up front.
func NewStore(c Capacities) *Store {
	s := &Store{
		vertices:   pool.New[Vertex]("vertices", c.Vertices),
		indices:    pool.New[uint16]("indices", c.Indices),
		frames:     pool.New[Frame]("md2 frames", c.Frames),
		frameVerts: pool.New[formats.MD2Vertex]("md2 vertices", c.FrameVertices),
		uvs:        pool.New[math.Vec2]("md2 uvs", c.UVs),
		slots:      make([]Slot, c.Slots),
		log:        logger.Named("mesh"),
	}
	for i := range s.slots {
		s.slots[i] = Free{}
	}
	return s
}

// Reset frees every slot and rewinds every pool.
func (s *Store) Reset() {
	for i := range s.slots {
		s.slots[i] = Free{}
	}
	s.vertices.Reset()
	s.indices.Reset()
	s.frames.Reset()
	s.frameVerts.Reset()
	s.uvs.Reset()
}

// claim finds a free slot. The slot stays Free until commit.
func (s *Store) claim() (Handle, error) {
	for i, slot := range s.slots {
		if KindOf(slot) == KindFree {
			return Handle(i), nil
		}
	}
	return InvalidHandle, fmt.Errorf("%w: all %d in use", ErrNoFreeSlot, len(s.slots))
}

func (s *Store) commit(h Handle, slot Slot) Handle {
	s.slots[h] = slot
	return h
}

// Get returns the slot for h.
func (s *Store) Get(h Handle) (Slot, error) {
	if int64(h) >= int64(len(s.slots)) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}
	return s.slots[h], nil
}

// Free marks the slot free. Its pool ranges are not reclaimed.
func (s *Store) Free(h Handle) error {
	if _, err := s.Get(h); err != nil {
		return err
	}
	s.slots[h] = Free{}
	return nil
}

// Static returns the descriptor of a static mesh.
func (s *Store) Static(h Handle) (Static, error) {
	slot, err := s.Get(h)
	if err != nil {
		return Static{}, err
	}
	m, ok := slot.(Static)
	if !ok {
		return Static{}, fmt.Errorf("%w: %d is %s, want static", ErrWrongKind, h, KindOf(slot))
	}
	return m, nil
}

// Animated returns the descriptor of an animated mesh.
func (s *Store) Animated(h Handle) (Animated, error) {
	slot, err := s.Get(h)
	if err != nil {
		return Animated{}, err
	}
	m, ok := slot.(Animated)
	if !ok {
		return Animated{}, fmt.Errorf("%w: %d is %s, want animated", ErrWrongKind, h, KindOf(slot))
	}
	return m, nil
}

// Vertices returns the vertex range of a static mesh.
func (s *Store) Vertices(h Handle) ([]Vertex, error) {
	m, err := s.Static(h)
	if err != nil {
		return nil, err
	}
	return s.vertices.Slice(m.VertexOffset, m.VertexCount), nil
}

// Indices returns the index range of a static or animated mesh.
func (s *Store) Indices(h Handle) ([]uint16, error) {
	slot, err := s.Get(h)
	if err != nil {
		return nil, err
	}
	switch m := slot.(type) {
	case Static:
		return s.indices.Slice(m.IndexOffset, m.IndexCount), nil
	case Animated:
		return s.indices.Slice(m.IndexOffset, m.IndexCount), nil
	case Free:
		return nil, fmt.Errorf("%w: %d is free", ErrInvalidHandle, h)
	}
	return nil, fmt.Errorf("%w: %d", ErrInvalidHandle, h)
}

// UVs returns the per-corner UVs of an animated mesh.
func (s *Store) UVs(h Handle) ([]math.Vec2, error) {
	m, err := s.Animated(h)
	if err != nil {
		return nil, err
	}
	return s.uvs.Slice(m.UVOffset, m.UVCount), nil
}

// Frames returns the keyframe descriptors of an animated mesh.
func (s *Store) Frames(h Handle) ([]Frame, error) {
	m, err := s.Animated(h)
	if err != nil {
		return nil, err
	}
	return s.frames.Slice(m.FrameOffset, m.FrameCount), nil
}

// Info summarizes a mesh slot.
type Info struct {
	Kind          Kind
	VertexCount   int // Static vertices, or vertices per frame
	IndexCount    int
	TriangleCount int
	FrameCount    int
	UVCount       int
	Radius        float32
}

// Info describes the slot h.
func (s *Store) Info(h Handle) (Info, error) {
	slot, err := s.Get(h)
	if err != nil {
		return Info{}, err
	}
	info := Info{Kind: KindOf(slot), TriangleCount: Triangles(slot)}
	switch m := slot.(type) {
	case Static:
		info.VertexCount = m.VertexCount
		info.IndexCount = m.IndexCount
		info.Radius = m.Radius
	case Animated:
		info.VertexCount = m.VertsPerFrame
		info.IndexCount = m.IndexCount
		info.FrameCount = m.FrameCount
		info.UVCount = m.UVCount
		info.Radius = m.Radius
	case Free:
	}
	return info, nil
}

// PoolStats reports usage of every pool.
func (s *Store) PoolStats() []pool.Stats {
	return []pool.Stats{
		s.vertices.Stats(),
		s.indices.Stats(),
		s.frames.Stats(),
		s.frameVerts.Stats(),
		s.uvs.Stats(),
	}
}

// SlotsInUse counts non-free slots.
func (s *Store) SlotsInUse() int {
	n := 0
	for _, slot := range s.slots {
		if KindOf(slot) != KindFree {
			n++
		}
	}
	return n
}
