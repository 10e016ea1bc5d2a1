package mesh

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/softcore/pkg/formats"
	"github.com/Faultbox/softcore/pkg/math"
)

const cubeOBJ = `v 0 0 0
v 2 0 0
v 2 2 0
v 0 2 0
v 0 0 2
v 2 0 2
v 2 2 2
v 0 2 2
vn 0 0 -1
vn 0 0 1
vn -1 0 0
vn 1 0 0
vn 0 -1 0
vn 0 1 0
f 1//1 4//1 3//1 2//1
f 5//2 6//2 7//2 8//2
f 1//3 5//3 8//3 4//3
f 2//4 3//4 7//4 6//4
f 1//5 2//5 6//5 5//5
f 4//6 8//6 7//6 3//6
`

func TestLoadOBJ_Cube(t *testing.T) {
	s := NewStore(DefaultCapacities())
	h, err := s.LoadOBJ([]byte(cubeOBJ))
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}

	m, err := s.Static(h)
	if err != nil {
		t.Fatal(err)
	}
	if m.VertexCount != 24 || m.IndexCount != 36 {
		t.Errorf("got %d vertices / %d indices, want 24 / 36", m.VertexCount, m.IndexCount)
	}
	if m.Center != (math.Vec3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("center: got %v, want (1,1,1)", m.Center)
	}
	if halfDiag := math.Sqrt(12) / 2; m.Radius < halfDiag-1e-4 {
		t.Errorf("radius %v below half diagonal %v", m.Radius, halfDiag)
	}

	// The reservation tail is returned to the pools.
	if used := s.vertices.Used(); used != 24 {
		t.Errorf("vertex pool used %d, want 24", used)
	}
	if used := s.indices.Used(); used != 36 {
		t.Errorf("index pool used %d, want 36", used)
	}

	verts, _ := s.Vertices(h)
	idx, _ := s.Indices(h)
	if idx[3] != 0 || idx[4] != 2 || idx[5] != 3 {
		t.Errorf("second quad triangle: got %v, want [0 2 3]", idx[3:6])
	}
	if verts[0].Normal != (math.Vec3{X: 0, Y: 0, Z: -1}) {
		t.Errorf("normal: got %v", verts[0].Normal)
	}
	if verts[0].UV != (math.Vec2{}) {
		t.Errorf("missing texcoord should default to (0,0), got %v", verts[0].UV)
	}
}

func TestLoadOBJ_Defaults(t *testing.T) {
	s := NewStore(DefaultCapacities())
	h, err := s.LoadOBJ([]byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0.25\nf 1/1 2/1 3/1\nf 1 2\n"))
	if err != nil {
		t.Fatal(err)
	}
	verts, _ := s.Vertices(h)
	if len(verts) != 3 {
		t.Fatalf("got %d vertices, want 3 (two-corner face skipped)", len(verts))
	}
	if verts[1].Normal != math.Up {
		t.Errorf("missing normal should default to +Y, got %v", verts[1].Normal)
	}
	if verts[2].UV != (math.Vec2{X: 0, Y: 0.75}) {
		t.Errorf("uv: got %v, want (0, 0.75)", verts[2].UV)
	}
}

func TestLoadOBJ_NoVertices(t *testing.T) {
	s := NewStore(DefaultCapacities())
	h, err := s.LoadOBJ([]byte("# empty model\n"))
	if err != nil {
		t.Fatalf("zero-vertex file should load, got %v", err)
	}
	info, _ := s.Info(h)
	if info.Kind != KindStatic || info.TriangleCount != 0 {
		t.Errorf("info: %+v", info)
	}
}

func TestLoadOBJ_Errors(t *testing.T) {
	s := NewStore(smallCapacities())

	if h, err := s.LoadOBJ(nil); !errors.Is(err, formats.ErrEmptyOBJ) || h != InvalidHandle {
		t.Errorf("empty: got (%d, %v)", h, err)
	}

	// 100 faces reserve 400 vertices, more than the pool holds.
	var big []byte
	big = append(big, "v 0 0 0\nv 1 0 0\nv 0 1 0\n"...)
	for i := 0; i < 100; i++ {
		big = append(big, "f 1 2 3\n"...)
	}
	if _, err := s.LoadOBJ(big); err == nil {
		t.Error("oversized OBJ should fail")
	}
	if s.vertices.Used() != 0 || s.indices.Used() != 0 || s.SlotsInUse() != 0 {
		t.Errorf("failed load left state behind: vertices %d indices %d slots %d",
			s.vertices.Used(), s.indices.Used(), s.SlotsInUse())
	}
}

func TestLoadOBJFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.obj")
	if err := os.WriteFile(path, []byte(cubeOBJ), 0644); err != nil {
		t.Fatal(err)
	}
	s := NewStore(DefaultCapacities())
	if _, err := s.LoadOBJFile(path); err != nil {
		t.Fatalf("LoadOBJFile: %v", err)
	}
	if _, err := s.LoadOBJFile(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Error("missing file should fail")
	}
}
