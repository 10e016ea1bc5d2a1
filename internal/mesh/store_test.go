package mesh

import (
	"errors"
	"testing"

	"github.com/Faultbox/softcore/internal/pool"
)

func smallCapacities() Capacities {
	return Capacities{
		Vertices:      256,
		Indices:       512,
		Frames:        8,
		FrameVertices: 256,
		UVs:           512,
		Slots:         4,
	}
}

func TestSlotExhaustionAndReuse(t *testing.T) {
	s := NewStore(smallCapacities())

	var handles []Handle
	for i := 0; i < 4; i++ {
		h, err := s.CreatePlane(1, 1)
		if err != nil {
			t.Fatalf("CreatePlane %d: %v", i, err)
		}
		handles = append(handles, h)
	}

	h, err := s.CreatePlane(1, 1)
	if !errors.Is(err, ErrNoFreeSlot) || h != InvalidHandle {
		t.Fatalf("fifth plane: got (%d, %v), want (InvalidHandle, ErrNoFreeSlot)", h, err)
	}

	usedBefore := s.vertices.Used()
	if err := s.Free(handles[1]); err != nil {
		t.Fatalf("Free: %v", err)
	}
	if s.vertices.Used() != usedBefore {
		t.Error("Free must not reclaim pool space")
	}
	if s.SlotsInUse() != 3 {
		t.Errorf("SlotsInUse = %d, want 3", s.SlotsInUse())
	}

	h, err = s.CreateCube(1)
	if err != nil {
		t.Fatalf("CreateCube after Free: %v", err)
	}
	if h != handles[1] {
		t.Errorf("freed slot not reused: got %d, want %d", h, handles[1])
	}
}

func TestPoolExhaustion(t *testing.T) {
	c := smallCapacities()
	c.Vertices = 30
	s := NewStore(c)

	if _, err := s.CreateCube(1); err != nil {
		t.Fatalf("first cube: %v", err)
	}
	h, err := s.CreateCube(1)
	if !errors.Is(err, pool.ErrNoSpace) || h != InvalidHandle {
		t.Fatalf("second cube: got (%d, %v), want NoSpace", h, err)
	}
	if s.SlotsInUse() != 1 {
		t.Errorf("failed load must leave its slot free, SlotsInUse = %d", s.SlotsInUse())
	}
}

func TestFailedLoadReleasesPools(t *testing.T) {
	tests := []struct {
		name  string
		caps  func(*Capacities)
		first func(*Store) error
		load  func(*Store) error
	}{
		{
			name: "md2 frame pool full",
			first: func(s *Store) error {
				_, err := s.AddMD2(testModel(6, 3, 2))
				return err
			},
			load: func(s *Store) error {
				_, err := s.AddMD2(testModel(3, 3, 2))
				return err
			},
		},
		{
			name: "md2 frame vertex pool full",
			caps: func(c *Capacities) { c.FrameVertices = 20 },
			first: func(s *Store) error {
				_, err := s.AddMD2(testModel(4, 4, 2))
				return err
			},
			load: func(s *Store) error {
				_, err := s.AddMD2(testModel(2, 4, 2))
				return err
			},
		},
		{
			name: "primitive index pool full",
			caps: func(c *Capacities) { c.Indices = 40 },
			first: func(s *Store) error {
				_, err := s.CreateCube(1)
				return err
			},
			load: func(s *Store) error {
				_, err := s.CreateCube(1)
				return err
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := smallCapacities()
			if tt.caps != nil {
				tt.caps(&c)
			}
			s := NewStore(c)
			if err := tt.first(s); err != nil {
				t.Fatalf("first load: %v", err)
			}
			before := s.PoolStats()

			for i := 0; i < 3; i++ {
				if err := tt.load(s); !errors.Is(err, pool.ErrNoSpace) {
					t.Fatalf("attempt %d: err = %v, want NoSpace", i, err)
				}
			}

			after := s.PoolStats()
			for i := range before {
				if after[i] != before[i] {
					t.Errorf("pool %s: used %d after failed loads, want %d", before[i].Name, after[i].Used, before[i].Used)
				}
			}
			if s.SlotsInUse() != 1 {
				t.Errorf("SlotsInUse = %d, want 1", s.SlotsInUse())
			}
		})
	}
}

func TestHandleChecks(t *testing.T) {
	s := NewStore(smallCapacities())
	cube, _ := s.CreateCube(2)

	tests := []struct {
		name    string
		call    func() error
		wantErr error
	}{
		{"out of range", func() error { _, err := s.Get(99); return err }, ErrInvalidHandle},
		{"invalid handle", func() error { _, err := s.Indices(InvalidHandle); return err }, ErrInvalidHandle},
		{"free slot indices", func() error { _, err := s.Indices(3); return err }, ErrInvalidHandle},
		{"static as animated", func() error { _, err := s.Animated(cube); return err }, ErrWrongKind},
		{"uvs of static", func() error { _, err := s.UVs(cube); return err }, ErrWrongKind},
		{"free invalid", func() error { return s.Free(InvalidHandle) }, ErrInvalidHandle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReset(t *testing.T) {
	s := NewStore(smallCapacities())
	s.CreateCube(1)
	s.CreatePlane(2, 2)
	s.Reset()

	if s.SlotsInUse() != 0 {
		t.Errorf("SlotsInUse after Reset = %d", s.SlotsInUse())
	}
	for _, st := range s.PoolStats() {
		if st.Used != 0 {
			t.Errorf("pool %s used %d after Reset", st.Name, st.Used)
		}
	}
}

func TestPrimitives(t *testing.T) {
	s := NewStore(smallCapacities())

	cube, err := s.CreateCube(2)
	if err != nil {
		t.Fatal(err)
	}
	info, _ := s.Info(cube)
	if info.Kind != KindStatic || info.VertexCount != 24 || info.IndexCount != 36 || info.TriangleCount != 12 {
		t.Errorf("cube info: %+v", info)
	}
	if r := info.Radius; r < 1.73 || r > 1.74 {
		t.Errorf("cube radius: got %v, want ~1.732", r)
	}

	verts, _ := s.Vertices(cube)
	idx, _ := s.Indices(cube)
	for i := 0; i < len(idx); i += 3 {
		a, b, c := verts[idx[i]].Position, verts[idx[i+1]].Position, verts[idx[i+2]].Position
		n := verts[idx[i]].Normal
		// Clockwise seen from outside: the right-handed face normal points inward.
		if d := b.Sub(a).Cross(c.Sub(a)).Dot(n); d >= 0 {
			t.Errorf("cube triangle %d should wind clockwise from outside (dot %v)", i/3, d)
		}
	}

	plane, err := s.CreatePlane(4, 2)
	if err != nil {
		t.Fatal(err)
	}
	st, _ := s.Static(plane)
	if st.VertexCount != 4 || st.IndexCount != 6 || st.Radius != 2 {
		t.Errorf("plane: %+v", st)
	}
	pv, _ := s.Vertices(plane)
	for _, v := range pv {
		if v.Position.Y != 0 || v.Normal.Y != 1 {
			t.Errorf("plane vertex off the XZ plane: %+v", v)
		}
	}
}
