// Package formats provides parsers for the mesh file formats the engine
// loads: Wavefront OBJ (static) and Quake 2 MD2 (keyframe animated).
package formats
