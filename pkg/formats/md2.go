// MD2 (Quake 2 model) format parser for keyframe-animated meshes.
package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
)

// MD2 format errors.
var (
	ErrInvalidMD2Magic   = errors.New("invalid MD2 magic: expected 'IDP2'")
	ErrInvalidMD2Version = errors.New("unsupported MD2 version")
	ErrTruncatedMD2Data  = errors.New("truncated MD2 data")
)

const (
	// MD2Magic is "IDP2" read as a little-endian int32.
	MD2Magic = 844121161
	// MD2Version is the only supported version.
	MD2Version = 8

	md2HeaderSize     = 68
	md2SkinNameSize   = 64
	md2TexCoordSize   = 4
	md2TriangleSize   = 12
	md2FrameHeadSize  = 40
	md2VertexSize     = 4
	md2FrameNameBytes = 16
)

// MD2Header is the fixed 68-byte file header.
type MD2Header struct {
	Magic        int32
	Version      int32
	SkinWidth    int32
	SkinHeight   int32
	FrameSize    int32 // Bytes per frame block
	NumSkins     int32
	NumVertices  int32 // Vertices per frame
	NumTexCoords int32
	NumTriangles int32
	NumGLCmds    int32
	NumFrames    int32
	OffSkins     int32
	OffTexCoords int32
	OffTriangles int32
	OffFrames    int32
	OffGLCmds    int32
	OffEnd       int32
}

// MD2TexCoord is a texel-space coordinate shared by triangle corners.
type MD2TexCoord struct {
	S, T int16
}

// MD2Triangle references three vertices and three texcoords.
type MD2Triangle struct {
	Vertex   [3]uint16
	TexCoord [3]uint16
}

// MD2Vertex is a quantized position plus a normal table index.
type MD2Vertex struct {
	X, Y, Z     uint8
	NormalIndex uint8
}

// MD2Frame is one keyframe: position = byte*Scale + Translate.
type MD2Frame struct {
	Scale     [3]float32
	Translate [3]float32
	Name      string
	Vertices  []MD2Vertex
}

// MD2 represents a parsed MD2 file.
type MD2 struct {
	Header    MD2Header
	Skins     []string
	TexCoords []MD2TexCoord
	Triangles []MD2Triangle
	Frames    []MD2Frame
}

// ParseMD2 parses MD2 data from a byte slice.
func ParseMD2(data []byte) (*MD2, error) {
	if len(data) < md2HeaderSize {
		return nil, fmt.Errorf("%w: header needs %d bytes, have %d", ErrTruncatedMD2Data, md2HeaderSize, len(data))
	}

	var h MD2Header
	if err := binary.Read(bytes.NewReader(data[:md2HeaderSize]), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedMD2Data, err)
	}
	if h.Magic != MD2Magic {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMD2Magic, h.Magic)
	}
	if h.Version != MD2Version {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMD2Version, h.Version)
	}

	if h.NumVertices < 0 {
		return nil, fmt.Errorf("%w: negative vertex count %d", ErrTruncatedMD2Data, h.NumVertices)
	}

	md2 := &MD2{Header: h}

	skins, err := section(data, "skins", h.OffSkins, h.NumSkins, md2SkinNameSize)
	if err != nil {
		return nil, err
	}
	md2.Skins = make([]string, h.NumSkins)
	for i := range md2.Skins {
		md2.Skins[i] = cString(skins[i*md2SkinNameSize : (i+1)*md2SkinNameSize])
	}

	st, err := section(data, "texcoords", h.OffTexCoords, h.NumTexCoords, md2TexCoordSize)
	if err != nil {
		return nil, err
	}
	md2.TexCoords = make([]MD2TexCoord, h.NumTexCoords)
	if err := binary.Read(bytes.NewReader(st), binary.LittleEndian, md2.TexCoords); err != nil {
		return nil, fmt.Errorf("%w: texcoords: %v", ErrTruncatedMD2Data, err)
	}

	tris, err := section(data, "triangles", h.OffTriangles, h.NumTriangles, md2TriangleSize)
	if err != nil {
		return nil, err
	}
	md2.Triangles = make([]MD2Triangle, h.NumTriangles)
	if err := binary.Read(bytes.NewReader(tris), binary.LittleEndian, md2.Triangles); err != nil {
		return nil, fmt.Errorf("%w: triangles: %v", ErrTruncatedMD2Data, err)
	}

	if h.NumFrames > 0 && int64(h.FrameSize) < md2FrameHeadSize+int64(h.NumVertices)*md2VertexSize {
		return nil, fmt.Errorf("%w: frame size %d too small for %d vertices", ErrTruncatedMD2Data, h.FrameSize, h.NumVertices)
	}
	frames, err := section(data, "frames", h.OffFrames, h.NumFrames, int64(h.FrameSize))
	if err != nil {
		return nil, err
	}
	md2.Frames = make([]MD2Frame, h.NumFrames)
	for i := range md2.Frames {
		block := frames[int64(i)*int64(h.FrameSize):]
		md2.Frames[i] = parseMD2Frame(block, int(h.NumVertices))
	}

	return md2, nil
}

// ParseMD2File parses an MD2 file from disk.
func ParseMD2File(path string) (*MD2, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading MD2 file: %w", err)
	}
	return ParseMD2(data)
}

// section bounds-checks count records of size bytes at off.
func section(data []byte, name string, off, count int32, size int64) ([]byte, error) {
	if count < 0 || off < 0 {
		return nil, fmt.Errorf("%w: %s: negative count or offset", ErrTruncatedMD2Data, name)
	}
	end := int64(off) + int64(count)*size
	if end > int64(len(data)) {
		return nil, fmt.Errorf("%w: %s end %d beyond %d bytes", ErrTruncatedMD2Data, name, end, len(data))
	}
	return data[off:end], nil
}

func parseMD2Frame(block []byte, numVerts int) MD2Frame {
	var f MD2Frame
	for i := 0; i < 3; i++ {
		f.Scale[i] = readFloat32(block[i*4:])
		f.Translate[i] = readFloat32(block[12+i*4:])
	}
	f.Name = cString(block[24 : 24+md2FrameNameBytes])

	f.Vertices = make([]MD2Vertex, numVerts)
	v := block[md2FrameHeadSize:]
	for i := range f.Vertices {
		p := v[i*md2VertexSize:]
		f.Vertices[i] = MD2Vertex{X: p[0], Y: p[1], Z: p[2], NormalIndex: p[3]}
	}
	return f
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// cString returns b up to the first NUL byte.
func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// FrameCount returns the number of keyframes.
func (m *MD2) FrameCount() int {
	return len(m.Frames)
}

// VertexCount returns vertices per frame.
func (m *MD2) VertexCount() int {
	return int(m.Header.NumVertices)
}
