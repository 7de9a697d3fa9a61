// Package geometry generates and loads the triangle meshes displayed by the
// primview engine.
package geometry

import (
	"math"

	"github.com/skylinker5/primview/pkg/math3d"
)

// Mesh is an immutable triangle mesh: flat vertex buffers plus a bounding
// sphere computed at construction time. Meshes are generated fresh per
// primitive switch and never mutated afterwards; the render pipeline
// borrows them read-only.
type Mesh struct {
	Positions []math3d.Vec3
	Normals   []math3d.Vec3 // unit length, one per position
	UVs       []math3d.Vec2 // one per position
	Indices   []int         // triangle list, 3 per face, each < len(Positions)

	// Bounding sphere, tight around all vertices.
	Center math3d.Vec3
	Radius float64

	// DoubleSided disables back-face culling for open surfaces
	// (triangle, plane) that would otherwise vanish from behind.
	DoubleSided bool
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangle faces.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Face returns the vertex indices of triangle i.
func (m *Mesh) Face(i int) [3]int {
	return [3]int{m.Indices[i*3], m.Indices[i*3+1], m.Indices[i*3+2]}
}

// newMesh finalizes a mesh from raw buffers: computes smooth vertex
// normals, fills missing UVs with a planar fallback, and fits the
// bounding sphere.
func newMesh(positions []math3d.Vec3, uvs []math3d.Vec2, indices []int) *Mesh {
	m := &Mesh{
		Positions: positions,
		UVs:       uvs,
		Indices:   indices,
	}
	m.Normals = smoothNormals(positions, indices)
	if len(m.UVs) != len(positions) {
		m.UVs = planarUVs(positions)
	}
	m.Center, m.Radius = boundingSphere(positions)
	return m
}

// smoothNormals accumulates face normals per referenced vertex and
// normalizes the result. Degenerate vertices default to +Z.
func smoothNormals(positions []math3d.Vec3, indices []int) []math3d.Vec3 {
	normals := make([]math3d.Vec3, len(positions))

	for i := 0; i+2 < len(indices); i += 3 {
		ia, ib, ic := indices[i], indices[i+1], indices[i+2]
		a, b, c := positions[ia], positions[ib], positions[ic]
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()
		normals[ia] = normals[ia].Add(n)
		normals[ib] = normals[ib].Add(n)
		normals[ic] = normals[ic].Add(n)
	}

	for i := range normals {
		n := normals[i].Normalize()
		if n.LenSq() == 0 {
			n = math3d.V3(0, 0, 1)
		}
		normals[i] = n
	}
	return normals
}

// planarUVs projects positions onto the XY extents of the mesh. Used as
// a fallback for meshes whose generator or source file supplies no
// texture coordinates.
func planarUVs(positions []math3d.Vec3) []math3d.Vec2 {
	uvs := make([]math3d.Vec2, len(positions))
	if len(positions) == 0 {
		return uvs
	}

	min, max := positions[0], positions[0]
	for _, p := range positions[1:] {
		min = min.Min(p)
		max = max.Max(p)
	}
	size := max.Sub(min)
	sx, sy := size.X, size.Y
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}

	for i, p := range positions {
		uvs[i] = math3d.V2((p.X-min.X)/sx, (p.Y-min.Y)/sy)
	}
	return uvs
}

// boundingSphere returns a tight bounding sphere: the center of the
// axis-aligned box with the maximum vertex distance as radius. An overly
// loose bound leaves visible margin after fit-to-view; an overly tight
// one clips.
func boundingSphere(positions []math3d.Vec3) (math3d.Vec3, float64) {
	if len(positions) == 0 {
		return math3d.Zero3(), 0
	}

	min, max := positions[0], positions[0]
	for _, p := range positions[1:] {
		min = min.Min(p)
		max = max.Max(p)
	}
	center := min.Add(max).Scale(0.5)

	var r2 float64
	for _, p := range positions {
		if d := p.Sub(center).LenSq(); d > r2 {
			r2 = d
		}
	}
	return center, math.Sqrt(r2)
}
