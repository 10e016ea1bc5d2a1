package demo

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/Faultbox/softcore/internal/assets"
	"github.com/Faultbox/softcore/internal/config"
	"github.com/Faultbox/softcore/internal/scene"
	"github.com/Faultbox/softcore/pkg/formats"
	"github.com/Faultbox/softcore/pkg/math"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Display.Width = 80
	cfg.Display.Height = 60
	cfg.Render.ClearColor = 0x001F
	return cfg
}

// md2Bytes encodes a one-triangle model with the given number of frames.
func md2Bytes(t *testing.T, frames int) []byte {
	t.Helper()
	m := &formats.MD2{
		Header:    formats.MD2Header{SkinWidth: 4, SkinHeight: 4},
		TexCoords: []formats.MD2TexCoord{{S: 0, T: 0}, {S: 4, T: 0}, {S: 2, T: 4}},
		Triangles: []formats.MD2Triangle{{Vertex: [3]uint16{0, 1, 2}, TexCoord: [3]uint16{0, 1, 2}}},
	}
	for i := 0; i < frames; i++ {
		m.Frames = append(m.Frames, formats.MD2Frame{
			Scale:     [3]float32{0.1, 0.1, 0.1},
			Translate: [3]float32{-10, -10, 0},
			Vertices:  []formats.MD2Vertex{{X: 0, Y: 0, Z: 0}, {X: 200, Y: 0, Z: 0}, {X: 100, Y: 0, Z: 200}},
		})
	}
	data, err := formats.EncodeMD2(m)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func skinPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestNewDefaultScene(t *testing.T) {
	s, err := New(testConfig(), assets.NewManager())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := s.World.Count(); got != 4 {
		t.Errorf("entities = %d, want 4", got)
	}
	if s.Prop != scene.InvalidEntity || s.Model != scene.InvalidEntity {
		t.Error("optional models should be absent")
	}
	if got := s.World.Children(s.Cube); len(got) != 1 || got[0] != s.Moon {
		t.Errorf("cube children = %v", got)
	}

	fs, err := s.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if fs.Entities != 3 || fs.Raster.Drawn == 0 || fs.Raster.Pixels == 0 {
		t.Errorf("stats = %+v", fs)
	}
	if got := s.NextClip(); got != "" {
		t.Errorf("NextClip without model = %q", got)
	}
}

func TestStepSpinsCube(t *testing.T) {
	s, err := New(testConfig(), assets.NewManager())
	if err != nil {
		t.Fatal(err)
	}
	s.Step(0.5)
	s.Step(0.5)
	tr, err := s.World.Transform(s.Cube)
	if err != nil {
		t.Fatal(err)
	}
	if d := tr.Rotation.Y - SpinRate; d > 1e-5 || d < -1e-5 {
		t.Errorf("rotation = %v, want %v", tr.Rotation.Y, SpinRate)
	}
}

func TestSceneWithModels(t *testing.T) {
	am := assets.NewManager()
	am.AddFS(fstest.MapFS{
		"tri.obj":         {Data: []byte("v -1 0 0\nv 1 0 0\nv 0 2 0\nf 1 2 3\n")},
		"player/tris.md2": {Data: md2Bytes(t, 46)},
		"player/skin.png": {Data: skinPNG(t)},
	})

	cfg := testConfig()
	cfg.Assets.OBJ = "tri.obj"
	cfg.Assets.MD2 = "player/tris.md2"
	cfg.Assets.Skin = "player/skin.png"
	cfg.Assets.Clip = "stand"

	s, err := New(cfg, am)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Prop == scene.InvalidEntity || s.Model == scene.InvalidEntity {
		t.Fatal("models not loaded")
	}
	if s.Textures.InUse() != 2 {
		t.Errorf("textures = %d, want floor and skin", s.Textures.InUse())
	}

	// Three keyframes at 10 fps.
	s.Step(0.25)
	mr, err := s.World.MeshRenderer(s.Model)
	if err != nil {
		t.Fatal(err)
	}
	if mr.FrameA != 2 || mr.FrameB != 3 {
		t.Errorf("frames = %d,%d, want 2,3", mr.FrameA, mr.FrameB)
	}

	if _, err := s.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// 46 frames hold stand (0-39) and run (40-45) only.
	for _, want := range []string{"run", "stand", "run"} {
		if got := s.NextClip(); got != want {
			t.Errorf("NextClip = %q, want %q", got, want)
		}
	}
}

func TestSceneMissingAsset(t *testing.T) {
	cfg := testConfig()
	cfg.Assets.MD2 = "nope.md2"
	if _, err := New(cfg, assets.NewManager()); err == nil {
		t.Error("expected error for missing model")
	}
}

func TestSceneShortModelPlaysAll(t *testing.T) {
	am := assets.NewManager()
	am.AddFS(fstest.MapFS{"m.md2": {Data: md2Bytes(t, 5)}})
	cfg := testConfig()
	cfg.Assets.MD2 = "m.md2"

	s, err := New(cfg, am)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.NextClip(); got != "all" {
		t.Errorf("NextClip = %q, want all", got)
	}
	a, _ := s.World.Animator(s.Model)
	if a.Start != 0 || a.End != 4 {
		t.Errorf("range = %d-%d", a.Start, a.End)
	}
}

func TestTransformErrorsSurface(t *testing.T) {
	w := scene.NewWorld(4)
	e, err := w.Create("gone")
	if err != nil {
		t.Fatal(err)
	}
	if err := fitModel(w, e, 2, math.Vec3{}, math.Vec3{}); err != nil {
		t.Fatalf("fitModel on live entity: %v", err)
	}
	if err := w.Destroy(e); err != nil {
		t.Fatal(err)
	}
	if err := fitModel(w, e, 2, math.Vec3{}, math.Vec3{}); !errors.Is(err, scene.ErrStaleEntity) {
		t.Errorf("fitModel on destroyed entity: err = %v, want ErrStaleEntity", err)
	}

	s, err := New(testConfig(), assets.NewManager())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.World.Destroy(s.Cube); err != nil {
		t.Fatal(err)
	}
	s.Step(0.1)
	if _, err := s.Render(); err != nil {
		t.Errorf("Render after cube removal: %v", err)
	}
}
