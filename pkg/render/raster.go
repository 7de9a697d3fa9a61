// Package render provides the software rasterization pipeline for primview.
package render

import (
	"math"

	"github.com/skylinker5/primview/pkg/geometry"
	"github.com/skylinker5/primview/pkg/math3d"
)

// Vertex carries the attributes a triangle vertex needs for rasterization.
type Vertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
	Color    Color
}

// Triangle is a single triangle to be rasterized.
type Triangle struct {
	V [3]Vertex
}

// Rasterizer rasterizes triangles, lines and points into a framebuffer
// with z-buffering. Front faces wind counter-clockwise in world space;
// back faces are culled unless a draw call asks for both sides.
type Rasterizer struct {
	camera  *Camera
	fb      *Framebuffer
	zbuffer []float64 // row-major depth buffer
}

// NewRasterizer creates a rasterizer bound to a camera and framebuffer.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera: camera,
		fb:     fb,
	}
	r.Resize()
	return r
}

// Resize resizes the depth buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer = nil
		return
	}
	r.zbuffer = make([]float64, r.fb.Width*r.fb.Height)
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// ClearDepth clears the z-buffer (call before each frame).
func (r *Rasterizer) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

func (r *Rasterizer) getDepth(x, y int) float64 {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.Width()+x]
}

func (r *Rasterizer) setDepth(x, y int, z float64) {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return
	}
	r.zbuffer[y*r.Width()+x] = z
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y  float64 // screen coordinates
	Z     float64 // depth
	W     float64 // clip-space w, for perspective-correct interpolation
	Color Color
	UV    math3d.Vec2
}

// project transforms a world-space position to screen space. Returns
// the screen vertex and whether the point is in front of the camera.
func (r *Rasterizer) project(p math3d.Vec3) (screenVertex, bool) {
	clip := r.camera.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(p, 1))

	var sv screenVertex
	if clip.W != 0 {
		sv.X = clip.X / clip.W
		sv.Y = clip.Y / clip.W
		sv.Z = clip.Z / clip.W
	}
	sv.W = clip.W

	// NDC to screen coordinates, Y flipped.
	sv.X = (sv.X + 1) * 0.5 * float64(r.Width())
	sv.Y = (1 - sv.Y) * 0.5 * float64(r.Height())

	return sv, clip.W > 0
}

// shade computes the Gouraud lighting intensity for a vertex normal.
func shade(normal, lightDir math3d.Vec3) float64 {
	diffuse := math.Max(0, normal.Dot(lightDir))
	return 0.3 + 0.7*diffuse // ambient + diffuse
}

// backFacing reports whether the projected triangle winds as a back
// face. World-space CCW front faces wind negative in screen space
// because the Y axis is flipped during projection.
func backFacing(sv *[3]screenVertex) bool {
	e1 := math3d.V2(sv[1].X-sv[0].X, sv[1].Y-sv[0].Y)
	e2 := math3d.V2(sv[2].X-sv[0].X, sv[2].Y-sv[0].Y)
	return e1.Cross(e2) > 0
}

// DrawTriangleGouraud rasterizes a triangle with per-vertex lighting
// interpolated across the face.
func (r *Rasterizer) DrawTriangleGouraud(tri Triangle, lightDir math3d.Vec3, twoSided bool) {
	var sv [3]screenVertex
	allBehind := true

	normLight := lightDir.Normalize()
	for i := range 3 {
		v, front := r.project(tri.V[i].Position)
		if front {
			allBehind = false
		}
		intensity := shade(tri.V[i].Normal, normLight)
		v.Color = MultiplyColor(tri.V[i].Color, intensity)
		v.UV = tri.V[i].UV
		sv[i] = v
	}
	if allBehind {
		return
	}
	if !twoSided && backFacing(&sv) {
		return
	}

	r.fillTriangle(&sv, func(bc math3d.Vec3) Color {
		return interpolateColor3(sv[0].Color, sv[1].Color, sv[2].Color, bc)
	})
}

// DrawTriangleTextured rasterizes a triangle with perspective-correct
// UV interpolation, modulating the sampled texel by Gouraud lighting.
func (r *Rasterizer) DrawTriangleTextured(tri Triangle, tex *Texture, lightDir math3d.Vec3, twoSided bool) {
	var sv [3]screenVertex
	var vertexIntensity [3]float64
	allBehind := true

	normLight := lightDir.Normalize()
	for i := range 3 {
		v, front := r.project(tri.V[i].Position)
		if front {
			allBehind = false
		}
		vertexIntensity[i] = shade(tri.V[i].Normal, normLight)
		v.UV = tri.V[i].UV
		sv[i] = v
	}
	if allBehind {
		return
	}
	if !twoSided && backFacing(&sv) {
		return
	}

	var invW [3]float64
	for i := range 3 {
		if sv[i].W != 0 {
			invW[i] = 1.0 / sv[i].W
		}
	}

	r.fillTriangle(&sv, func(bc math3d.Vec3) Color {
		// Interpolate attr/w and 1/w, then divide for perspective-correct values.
		w0, w1, w2 := bc.X*invW[0], bc.Y*invW[1], bc.Z*invW[2]
		oneOverW := w0 + w1 + w2
		if oneOverW == 0 {
			return Color{}
		}
		u := (w0*sv[0].UV.X + w1*sv[1].UV.X + w2*sv[2].UV.X) / oneOverW
		v := (w0*sv[0].UV.Y + w1*sv[1].UV.Y + w2*sv[2].UV.Y) / oneOverW
		intensity := (w0*vertexIntensity[0] + w1*vertexIntensity[1] + w2*vertexIntensity[2]) / oneOverW
		return MultiplyColor(tex.Sample(u, v), intensity)
	})
}

// fillTriangle walks the screen-space bounding box of the projected
// triangle, z-tests each covered pixel, and shades it via the callback.
func (r *Rasterizer) fillTriangle(sv *[3]screenVertex, pixel func(bc math3d.Vec3) Color) {
	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5

			bc := barycentric(
				sv[0].X, sv[0].Y,
				sv[1].X, sv[1].Y,
				sv[2].X, sv[2].Y,
				px, py,
			)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z
			if z >= r.getDepth(x, y) {
				continue
			}

			r.setDepth(x, y, z)
			r.fb.SetPixel(x, y, pixel(bc))
		}
	}
}

// DrawMeshSolid renders a mesh with Gouraud shading in a single base color.
func (r *Rasterizer) DrawMeshSolid(m *geometry.Mesh, base Color, lightDir math3d.Vec3) {
	for i := 0; i < m.TriangleCount(); i++ {
		face := m.Face(i)
		tri := Triangle{
			V: [3]Vertex{
				{Position: m.Positions[face[0]], Normal: m.Normals[face[0]], Color: base},
				{Position: m.Positions[face[1]], Normal: m.Normals[face[1]], Color: base},
				{Position: m.Positions[face[2]], Normal: m.Normals[face[2]], Color: base},
			},
		}
		r.DrawTriangleGouraud(tri, lightDir, m.DoubleSided)
	}
}

// DrawMeshTextured renders a mesh with texture mapping and Gouraud shading.
func (r *Rasterizer) DrawMeshTextured(m *geometry.Mesh, tex *Texture, lightDir math3d.Vec3) {
	for i := 0; i < m.TriangleCount(); i++ {
		face := m.Face(i)
		tri := Triangle{
			V: [3]Vertex{
				{Position: m.Positions[face[0]], Normal: m.Normals[face[0]], UV: m.UVs[face[0]]},
				{Position: m.Positions[face[1]], Normal: m.Normals[face[1]], UV: m.UVs[face[1]]},
				{Position: m.Positions[face[2]], Normal: m.Normals[face[2]], UV: m.UVs[face[2]]},
			},
		}
		r.DrawTriangleTextured(tri, tex, lightDir, m.DoubleSided)
	}
}

// DrawMeshWireframe renders the mesh's triangle edges.
func (r *Rasterizer) DrawMeshWireframe(m *geometry.Mesh, c Color) {
	for i := 0; i < m.TriangleCount(); i++ {
		face := m.Face(i)
		v0 := m.Positions[face[0]]
		v1 := m.Positions[face[1]]
		v2 := m.Positions[face[2]]

		r.drawLine3D(v0, v1, c)
		r.drawLine3D(v1, v2, c)
		r.drawLine3D(v2, v0, c)
	}
}

// DrawMeshPoints renders the mesh's vertices as depth-tested points.
func (r *Rasterizer) DrawMeshPoints(m *geometry.Mesh, c Color) {
	for _, p := range m.Positions {
		sv, front := r.project(p)
		if !front {
			continue
		}
		x, y := int(sv.X), int(sv.Y)
		if sv.Z >= r.getDepth(x, y) {
			continue
		}
		r.setDepth(x, y, sv.Z)
		r.fb.SetPixel(x, y, c)
	}
}

// drawLine3D projects a world-space segment and draws it with Bresenham.
// Segments crossing the camera plane are clipped there; projecting a
// point with negative clip W mirrors it across the frame.
func (r *Rasterizer) drawLine3D(a, b math3d.Vec3, c Color) {
	const clipW = 1e-4

	sa, frontA := r.project(a)
	sb, frontB := r.project(b)

	// Skip if both endpoints are behind the camera.
	if !frontA && !frontB {
		return
	}

	if frontA != frontB {
		// Clip W is affine along the segment, so the crossing is a lerp.
		t := (sa.W - clipW) / (sa.W - sb.W)
		cut := a.Add(b.Sub(a).Scale(t))
		if frontA {
			sb, _ = r.project(cut)
		} else {
			sa, _ = r.project(cut)
		}
	}

	// Trim to the frame so Bresenham never walks far off-screen spans.
	x0, y0, x1, y1, ok := clipSegment(sa.X, sa.Y, sb.X, sb.Y,
		float64(r.Width()), float64(r.Height()))
	if !ok {
		return
	}
	r.fb.DrawLine(int(x0), int(y0), int(x1), int(y1), c)
}

// clipSegment trims a screen-space segment to [-1,w] x [-1,h]
// (Liang-Barsky). Reports false when the segment lies fully outside.
func clipSegment(x0, y0, x1, y1, w, h float64) (cx0, cy0, cx1, cy1 float64, ok bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := x1-x0, y1-y0

	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return false
			}
			if t < t1 {
				t1 = t
			}
		}
		return true
	}

	if !clip(-dx, x0+1) || !clip(dx, w-x0) || !clip(-dy, y0+1) || !clip(dy, h-y0) {
		return 0, 0, 0, 0, false
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

// barycentric calculates barycentric coordinates for point (px, py) in triangle.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	v0x, v0y := x2-x0, y2-y0
	v1x, v1y := x1-x0, y1-y0
	v2x, v2y := px-x0, py-y0

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	invDenom := 1.0 / (dot00*dot11 - dot01*dot01)
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return math3d.V3(1-u-v, v, u)
}

// interpolateColor3 interpolates between 3 colors using barycentric coords.
func interpolateColor3(c0, c1, c2 Color, bc math3d.Vec3) Color {
	return RGB(
		uint8(float64(c0.R)*bc.X+float64(c1.R)*bc.Y+float64(c2.R)*bc.Z),
		uint8(float64(c0.G)*bc.X+float64(c1.G)*bc.Y+float64(c2.G)*bc.Z),
		uint8(float64(c0.B)*bc.X+float64(c1.B)*bc.Y+float64(c2.B)*bc.Z),
	)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
