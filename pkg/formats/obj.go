// Wavefront OBJ text parser for static meshes.
package formats

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/Faultbox/softcore/pkg/math"
)

// OBJ format errors.
var (
	ErrEmptyOBJ    = errors.New("empty OBJ data")
	ErrOBJTooLarge = errors.New("OBJ exceeds attribute capacity")
)

// MaxOBJAttributes caps each of the position, texcoord and normal tables.
const MaxOBJAttributes = 2048

// MaxOBJFaceRefs is the most corners read from one face line; extra corners
// are ignored.
const MaxOBJFaceRefs = 4

// OBJRef is one resolved face corner. Indices are 0-based; -1 means the
// attribute was absent or out of range.
type OBJRef struct {
	Position int
	TexCoord int
	Normal   int
}

// OBJFace holds up to four corners of a face line.
type OBJFace struct {
	Refs  [MaxOBJFaceRefs]OBJRef
	Count int
}

// OBJ holds the attribute tables of a scanned OBJ file. Faces are not stored;
// EachFace re-reads them from the source text.
type OBJ struct {
	Positions []math.Vec3
	TexCoords []math.Vec2 // V already flipped to 1-v
	Normals   []math.Vec3 // Unit length
	FaceCount int

	data []byte
}

// ParseOBJ reads the attribute tables and counts face lines.
func ParseOBJ(data []byte) (*OBJ, error) {
	if len(data) == 0 {
		return nil, ErrEmptyOBJ
	}

	o := &OBJ{data: data}
	err := eachLine(data, func(key []byte, rest []byte) error {
		switch string(key) {
		case "v":
			if len(o.Positions) >= MaxOBJAttributes {
				return fmt.Errorf("%w: more than %d positions", ErrOBJTooLarge, MaxOBJAttributes)
			}
			f := parseFloats(rest)
			o.Positions = append(o.Positions, math.Vec3{X: f[0], Y: f[1], Z: f[2]})
		case "vt":
			if len(o.TexCoords) >= MaxOBJAttributes {
				return fmt.Errorf("%w: more than %d texcoords", ErrOBJTooLarge, MaxOBJAttributes)
			}
			f := parseFloats(rest)
			o.TexCoords = append(o.TexCoords, math.Vec2{X: f[0], Y: 1 - f[1]})
		case "vn":
			if len(o.Normals) >= MaxOBJAttributes {
				return fmt.Errorf("%w: more than %d normals", ErrOBJTooLarge, MaxOBJAttributes)
			}
			f := parseFloats(rest)
			o.Normals = append(o.Normals, math.Vec3{X: f[0], Y: f[1], Z: f[2]}.Normalize())
		case "f":
			o.FaceCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return ParseOBJ(data)
}

// EachFace walks the face lines in file order.
func (o *OBJ) EachFace(fn func(face OBJFace) error) error {
	return eachLine(o.data, func(key []byte, rest []byte) error {
		if string(key) != "f" {
			return nil
		}
		var face OBJFace
		for _, tok := range bytes.Fields(rest) {
			if face.Count == MaxOBJFaceRefs {
				break
			}
			face.Refs[face.Count] = o.parseRef(tok)
			face.Count++
		}
		return fn(face)
	})
}

// Corner returns the attributes for ref, with (0,0,0) for a missing position,
// (0,0) for a missing texcoord and +Y for a missing normal.
func (o *OBJ) Corner(ref OBJRef) (pos math.Vec3, uv math.Vec2, normal math.Vec3) {
	normal = math.Up
	if ref.Position >= 0 {
		pos = o.Positions[ref.Position]
	}
	if ref.TexCoord >= 0 {
		uv = o.TexCoords[ref.TexCoord]
	}
	if ref.Normal >= 0 {
		normal = o.Normals[ref.Normal]
	}
	return pos, uv, normal
}

// parseRef parses "p", "p/t", "p//n" or "p/t/n".
func (o *OBJ) parseRef(tok []byte) OBJRef {
	var raw [3]int
	for i := 0; i < 3 && len(tok) > 0; i++ {
		part := tok
		if j := bytes.IndexByte(tok, '/'); j >= 0 {
			part, tok = tok[:j], tok[j+1:]
		} else {
			tok = nil
		}
		if len(part) > 0 {
			raw[i], _ = strconv.Atoi(string(part))
		}
	}
	return OBJRef{
		Position: resolveIndex(raw[0], len(o.Positions)),
		TexCoord: resolveIndex(raw[1], len(o.TexCoords)),
		Normal:   resolveIndex(raw[2], len(o.Normals)),
	}
}

// resolveIndex maps a 1-based or negative (from the end) OBJ index to a
// 0-based index, or -1 when absent or out of range.
func resolveIndex(idx, count int) int {
	switch {
	case idx > 0:
		idx--
	case idx < 0:
		idx += count
	default:
		return -1
	}
	if idx < 0 || idx >= count {
		return -1
	}
	return idx
}

// eachLine calls fn with the keyword and remainder of every non-empty,
// non-comment line.
func eachLine(data []byte, fn func(key, rest []byte) error) error {
	for len(data) > 0 {
		line := data
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			data = nil
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		key, rest := line, []byte(nil)
		if i := bytes.IndexAny(line, " \t"); i >= 0 {
			key, rest = line[:i], line[i+1:]
		}
		if err := fn(key, rest); err != nil {
			return err
		}
	}
	return nil
}

// parseFloats reads up to three numbers; missing or malformed values are 0.
func parseFloats(b []byte) [3]float32 {
	var out [3]float32
	for i, f := range bytes.Fields(b) {
		if i == len(out) {
			break
		}
		v, err := strconv.ParseFloat(string(f), 32)
		if err == nil {
			out[i] = float32(v)
		}
	}
	return out
}
