package geometry

import (
	"math"
	"strings"

	"github.com/skylinker5/primview/pkg/math3d"
)

// Kind selects a primitive generation routine.
type Kind int

// The closed set of supported primitives.
const (
	KindTriangle Kind = iota
	KindPlane
	KindCube
	KindCylinder
	KindSphere
	KindTorus
)

// Kinds returns every supported primitive kind, in display order.
func Kinds() []Kind {
	return []Kind{KindTriangle, KindPlane, KindCube, KindCylinder, KindSphere, KindTorus}
}

// String returns the primitive's token.
func (k Kind) String() string {
	switch k {
	case KindTriangle:
		return "triangle"
	case KindPlane:
		return "plane"
	case KindCube:
		return "cube"
	case KindCylinder:
		return "cylinder"
	case KindSphere:
		return "sphere"
	case KindTorus:
		return "torus"
	}
	return "unknown"
}

// ParseKind maps a token to its Kind. The match is case-insensitive.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(s) {
	case "triangle":
		return KindTriangle, true
	case "plane":
		return KindPlane, true
	case "cube":
		return KindCube, true
	case "cylinder":
		return KindCylinder, true
	case "sphere":
		return KindSphere, true
	case "torus":
		return KindTorus, true
	}
	return 0, false
}

// Generate builds a fresh mesh for the given primitive kind. It is pure
// and deterministic: every defined kind always yields a valid mesh with
// counter-clockwise outward winding under the engine's right-handed
// coordinate system.
func Generate(k Kind) *Mesh {
	switch k {
	case KindTriangle:
		return triangle()
	case KindPlane:
		return plane(1.0)
	case KindCylinder:
		return cylinder(0.5, 1.0, 32)
	case KindSphere:
		return sphere(0.5, 32, 16)
	case KindTorus:
		return torus(0.6, 0.2, 32, 16)
	default:
		return cube(1.0)
	}
}

func triangle() *Mesh {
	positions := []math3d.Vec3{
		{X: -0.5, Y: -0.5, Z: 0},
		{X: 0.5, Y: -0.5, Z: 0},
		{X: 0, Y: 0.5, Z: 0},
	}
	uvs := []math3d.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0.5, Y: 1}}
	m := newMesh(positions, uvs, []int{0, 1, 2})
	m.DoubleSided = true
	return m
}

func plane(size float64) *Mesh {
	h := size * 0.5
	positions := []math3d.Vec3{
		{X: -h, Y: 0, Z: h},
		{X: h, Y: 0, Z: h},
		{X: h, Y: 0, Z: -h},
		{X: -h, Y: 0, Z: -h},
	}
	uvs := []math3d.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	m := newMesh(positions, uvs, []int{0, 1, 2, 0, 2, 3})
	m.DoubleSided = true
	return m
}

func cube(size float64) *Mesh {
	h := size * 0.5
	positions := []math3d.Vec3{
		{X: -h, Y: -h, Z: -h}, // 0
		{X: h, Y: -h, Z: -h},  // 1
		{X: h, Y: h, Z: -h},   // 2
		{X: -h, Y: h, Z: -h},  // 3
		{X: -h, Y: -h, Z: h},  // 4
		{X: h, Y: -h, Z: h},   // 5
		{X: h, Y: h, Z: h},    // 6
		{X: -h, Y: h, Z: h},   // 7
	}

	// Two CCW triangles per face, seen from outside the cube.
	indices := []int{
		0, 2, 1, 0, 3, 2, // back (-z)
		4, 5, 6, 4, 6, 7, // front (+z)
		0, 7, 3, 0, 4, 7, // left (-x)
		1, 6, 5, 1, 2, 6, // right (+x)
		0, 5, 4, 0, 1, 5, // bottom (-y)
		3, 6, 2, 3, 7, 6, // top (+y)
	}

	return newMesh(positions, nil, indices)
}

func cylinder(radius, height float64, segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	halfH := height * 0.5

	// Layout: 2 ring vertices per segment (bottom/top), then 2 cap centers.
	positions := make([]math3d.Vec3, 0, segments*2+2)
	uvs := make([]math3d.Vec2, 0, segments*2+2)
	for i := range segments {
		t := float64(i) * 2 * math.Pi / float64(segments)
		x := math.Cos(t) * radius
		z := math.Sin(t) * radius
		positions = append(positions,
			math3d.V3(x, -halfH, z),
			math3d.V3(x, halfH, z))
		u := float64(i) / float64(segments)
		uvs = append(uvs, math3d.V2(u, 0), math3d.V2(u, 1))
	}
	bottomCenter := segments * 2
	topCenter := segments*2 + 1
	positions = append(positions, math3d.V3(0, -halfH, 0), math3d.V3(0, halfH, 0))
	uvs = append(uvs, math3d.V2(0.5, 0.5), math3d.V2(0.5, 0.5))

	indices := make([]int, 0, segments*12)

	// Sides, two triangles per quad.
	for i := range segments {
		j := (i + 1) % segments
		b0, t0 := i*2, i*2+1
		b1, t1 := j*2, j*2+1
		indices = append(indices, b0, t1, b1, b0, t0, t1)
	}

	// Cap fans.
	for i := range segments {
		j := (i + 1) % segments
		indices = append(indices, bottomCenter, i*2, j*2)
		indices = append(indices, topCenter, j*2+1, i*2+1)
	}

	return newMesh(positions, uvs, indices)
}

func sphere(radius float64, segmentsU, segmentsV int) *Mesh {
	// longitude (u): 0..2pi, latitude (v): 0..pi
	if segmentsU < 3 {
		segmentsU = 3
	}
	if segmentsV < 2 {
		segmentsV = 2
	}
	u, v := segmentsU, segmentsV

	positions := make([]math3d.Vec3, 0, (u+1)*(v+1))
	uvs := make([]math3d.Vec2, 0, (u+1)*(v+1))
	for iy := 0; iy <= v; iy++ {
		fy := float64(iy) / float64(v)
		theta := fy * math.Pi
		st, ct := math.Sin(theta), math.Cos(theta)
		for ix := 0; ix <= u; ix++ {
			fx := float64(ix) / float64(u)
			phi := fx * 2 * math.Pi
			sp, cp := math.Sin(phi), math.Cos(phi)
			positions = append(positions, math3d.V3(cp*st*radius, ct*radius, sp*st*radius))
			uvs = append(uvs, math3d.V2(fx, fy))
		}
	}

	stride := u + 1
	indices := make([]int, 0, u*v*6)
	for iy := range v {
		for ix := range u {
			a := iy*stride + ix
			b := a + 1
			c := a + stride
			d := c + 1
			indices = append(indices, a, d, c, a, b, d)
		}
	}

	return newMesh(positions, uvs, indices)
}

func torus(majorRadius, minorRadius float64, segmentsU, segmentsV int) *Mesh {
	// u: around the hole, v: around the tube
	if segmentsU < 3 {
		segmentsU = 3
	}
	if segmentsV < 3 {
		segmentsV = 3
	}
	u, v := segmentsU, segmentsV

	positions := make([]math3d.Vec3, 0, (u+1)*(v+1))
	uvs := make([]math3d.Vec2, 0, (u+1)*(v+1))
	for iu := 0; iu <= u; iu++ {
		fu := float64(iu) / float64(u)
		theta := fu * 2 * math.Pi
		st, ct := math.Sin(theta), math.Cos(theta)
		for iv := 0; iv <= v; iv++ {
			fv := float64(iv) / float64(v)
			phi := fv * 2 * math.Pi
			sp, cp := math.Sin(phi), math.Cos(phi)
			r := majorRadius + minorRadius*cp
			positions = append(positions, math3d.V3(ct*r, minorRadius*sp, st*r))
			uvs = append(uvs, math3d.V2(fu, fv))
		}
	}

	stride := v + 1
	indices := make([]int, 0, u*v*6)
	for iu := range u {
		for iv := range v {
			a := iu*stride + iv
			b := a + 1
			c := a + stride
			d := c + 1
			indices = append(indices, a, d, c, a, b, d)
		}
	}

	return newMesh(positions, uvs, indices)
}
