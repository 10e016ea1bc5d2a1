package formats

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// EncodeMD2 serializes m into the MD2 file layout. Header counts, offsets and
// the frame size are recomputed from the slices; SkinWidth and SkinHeight are
// taken from m.Header.
func EncodeMD2(m *MD2) ([]byte, error) {
	numVerts := 0
	if len(m.Frames) > 0 {
		numVerts = len(m.Frames[0].Vertices)
	}
	for i, f := range m.Frames {
		if len(f.Vertices) != numVerts {
			return nil, fmt.Errorf("frame %d has %d vertices, want %d", i, len(f.Vertices), numVerts)
		}
	}

	h := MD2Header{
		Magic:        MD2Magic,
		Version:      MD2Version,
		SkinWidth:    m.Header.SkinWidth,
		SkinHeight:   m.Header.SkinHeight,
		FrameSize:    int32(md2FrameHeadSize + numVerts*md2VertexSize),
		NumSkins:     int32(len(m.Skins)),
		NumVertices:  int32(numVerts),
		NumTexCoords: int32(len(m.TexCoords)),
		NumTriangles: int32(len(m.Triangles)),
		NumFrames:    int32(len(m.Frames)),
	}
	h.OffSkins = md2HeaderSize
	h.OffTexCoords = h.OffSkins + h.NumSkins*md2SkinNameSize
	h.OffTriangles = h.OffTexCoords + h.NumTexCoords*md2TexCoordSize
	h.OffFrames = h.OffTriangles + h.NumTriangles*md2TriangleSize
	h.OffGLCmds = h.OffFrames + h.NumFrames*h.FrameSize
	h.OffEnd = h.OffGLCmds

	var buf bytes.Buffer
	buf.Grow(int(h.OffEnd))
	var err error
	put := func(v any) {
		if err == nil {
			err = binary.Write(&buf, binary.LittleEndian, v)
		}
	}
	put(h)
	for _, s := range m.Skins {
		name := make([]byte, md2SkinNameSize)
		copy(name[:md2SkinNameSize-1], s)
		put(name)
	}
	put(m.TexCoords)
	put(m.Triangles)
	for _, f := range m.Frames {
		put(f.Scale)
		put(f.Translate)
		name := make([]byte, md2FrameNameBytes)
		copy(name[:md2FrameNameBytes-1], f.Name)
		put(name)
		put(f.Vertices)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding MD2: %w", err)
	}
	if buf.Len() != int(h.OffEnd) {
		return nil, fmt.Errorf("encoding MD2: wrote %d bytes, header says %d", buf.Len(), h.OffEnd)
	}
	return buf.Bytes(), nil
}
