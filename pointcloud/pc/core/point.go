package core

import "unsafe"

// PointVertex matches the per-instance vertex layout in points.wgsl:
// @location(0) position: vec3<f32>
type PointVertex struct {
	Pos [3]float32
}

const PointVertexSize = int(unsafe.Sizeof(PointVertex{}))
