package formats

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestParseMD2_HeaderValidation(t *testing.T) {
	valid := mustEncodeMD2(t, makeTestMD2(1, 3, 1))

	badMagic := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(badMagic[0:], 0x12345678)

	badVersion := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(badVersion[4:], 7)

	badFrames := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(badFrames[40:], 50) // num_frames

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"valid", valid, nil},
		{"invalid magic", badMagic, ErrInvalidMD2Magic},
		{"invalid version", badVersion, ErrInvalidMD2Version},
		{"empty data", []byte{}, ErrTruncatedMD2Data},
		{"header only", valid[:md2HeaderSize], ErrTruncatedMD2Data},
		{"frames beyond end", badFrames, ErrTruncatedMD2Data},
		{"truncated frame", valid[:len(valid)-1], ErrTruncatedMD2Data},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMD2(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseMD2: got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseMD2_RoundTrip(t *testing.T) {
	src := makeTestMD2(2, 4, 2)
	md2, err := ParseMD2(mustEncodeMD2(t, src))
	if err != nil {
		t.Fatalf("ParseMD2: %v", err)
	}

	if md2.FrameCount() != 2 || md2.VertexCount() != 4 {
		t.Fatalf("counts: got %d frames / %d verts, want 2 / 4", md2.FrameCount(), md2.VertexCount())
	}
	if md2.Header.SkinWidth != 64 || md2.Header.SkinHeight != 32 {
		t.Errorf("skin size: got %dx%d, want 64x32", md2.Header.SkinWidth, md2.Header.SkinHeight)
	}
	if len(md2.Skins) != 1 || md2.Skins[0] != "skin.pcx" {
		t.Errorf("skins: got %q", md2.Skins)
	}
	if md2.Triangles[1] != src.Triangles[1] {
		t.Errorf("triangle 1: got %+v, want %+v", md2.Triangles[1], src.Triangles[1])
	}
	if md2.TexCoords[2] != src.TexCoords[2] {
		t.Errorf("texcoord 2: got %+v, want %+v", md2.TexCoords[2], src.TexCoords[2])
	}

	f := md2.Frames[1]
	if f.Name != "frame1" {
		t.Errorf("frame name: got %q, want frame1", f.Name)
	}
	if f.Scale != src.Frames[1].Scale || f.Translate != src.Frames[1].Translate {
		t.Errorf("frame transform: got %v/%v", f.Scale, f.Translate)
	}
	if f.Vertices[3] != src.Frames[1].Vertices[3] {
		t.Errorf("vertex 3: got %+v, want %+v", f.Vertices[3], src.Frames[1].Vertices[3])
	}
}

func TestEncodeMD2(t *testing.T) {
	ragged := makeTestMD2(2, 3, 1)
	ragged.Frames[1].Vertices = ragged.Frames[1].Vertices[:2]

	tests := []struct {
		name     string
		model    *MD2
		wantSize int
		wantErr  bool
	}{
		{"one frame", makeTestMD2(1, 3, 1), 68 + 64 + 3*4 + 12 + (40 + 3*4), false},
		{"two frames", makeTestMD2(2, 4, 2), 68 + 64 + 4*4 + 2*12 + 2*(40+4*4), false},
		{"empty", &MD2{}, 68, false},
		{"ragged frames", ragged, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeMD2(tt.model)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(data) != tt.wantSize {
				t.Errorf("size = %d, want %d", len(data), tt.wantSize)
			}
			if end := int(binary.LittleEndian.Uint32(data[64:])); end != len(data) {
				t.Errorf("ofs_end = %d, want %d", end, len(data))
			}
		})
	}
}

func TestParseMD2_FrameSizeTooSmall(t *testing.T) {
	data := mustEncodeMD2(t, makeTestMD2(1, 3, 1))
	binary.LittleEndian.PutUint32(data[16:], 20) // frame_size
	if _, err := ParseMD2(data); !errors.Is(err, ErrTruncatedMD2Data) {
		t.Errorf("got %v, want ErrTruncatedMD2Data", err)
	}
}

func TestMD2Normal(t *testing.T) {
	if got := MD2Normal(0); got != MD2Normals[0] {
		t.Errorf("MD2Normal(0) = %v", got)
	}
	if got := MD2Normal(200); got != MD2Normals[200-MD2NormalCount] {
		t.Errorf("MD2Normal(200) should wrap, got %v", got)
	}
	for i, n := range MD2Normals {
		if l := n.Length(); l < 0.999 || l > 1.001 {
			t.Errorf("normal %d has length %v", i, l)
		}
	}
}

func TestLookupMD2Clip(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		ok         bool
	}{
		{"stand", 0, 39, true},
		{"run", 40, 45, true},
		{"death1", 178, 183, true},
		{"death3", 190, 197, true},
		{"moonwalk", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := LookupMD2Clip(tt.name)
			if ok != tt.ok || c.Start != tt.start || c.End != tt.end {
				t.Errorf("LookupMD2Clip(%q) = %+v, %v", tt.name, c, ok)
			}
		})
	}
	if c, _ := LookupMD2Clip("run"); c.Frames() != 6 {
		t.Errorf("run frames: got %d, want 6", c.Frames())
	}
}

// makeTestMD2 builds a model with distinct, predictable values per frame.
func makeTestMD2(frames, verts, tris int) *MD2 {
	m := &MD2{
		Header: MD2Header{SkinWidth: 64, SkinHeight: 32},
		Skins:  []string{"skin.pcx"},
	}
	for i := 0; i < verts; i++ {
		m.TexCoords = append(m.TexCoords, MD2TexCoord{S: int16(i * 8), T: int16(i * 4)})
	}
	for i := 0; i < tris; i++ {
		a := uint16(i % verts)
		b := uint16((i + 1) % verts)
		c := uint16((i + 2) % verts)
		m.Triangles = append(m.Triangles, MD2Triangle{Vertex: [3]uint16{a, b, c}, TexCoord: [3]uint16{a, b, c}})
	}
	for f := 0; f < frames; f++ {
		fr := MD2Frame{
			Scale:     [3]float32{0.5, 0.5, 0.5},
			Translate: [3]float32{float32(f), 0, -1},
			Name:      "frame" + string(rune('0'+f%10)),
		}
		for v := 0; v < verts; v++ {
			fr.Vertices = append(fr.Vertices, MD2Vertex{
				X: uint8(v * 10), Y: uint8(f * 20), Z: uint8(v + f),
				NormalIndex: uint8((v + f) % MD2NormalCount),
			})
		}
		m.Frames = append(m.Frames, fr)
	}
	return m
}

func mustEncodeMD2(t *testing.T, m *MD2) []byte {
	t.Helper()
	data, err := EncodeMD2(m)
	if err != nil {
		t.Fatalf("EncodeMD2: %v", err)
	}
	return data
}
