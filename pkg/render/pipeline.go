package render

import (
	"github.com/skylinker5/primview/pkg/geometry"
	"github.com/skylinker5/primview/pkg/math3d"
)

// Default frame colors. The background is a light gray; the draw colors
// were picked to stay readable against it in every render mode.
var (
	DefaultBackground = RGB(211, 211, 211)
	DefaultBaseColor  = RGB(100, 149, 237)
	DefaultWireColor  = RGB(30, 30, 30)
	DefaultPointColor = RGB(30, 30, 30)
)

// Pipeline turns a mesh and a camera into frames. It owns the
// framebuffer and rasterizer and re-renders the whole frame on every
// Render call; whole meshes outside the view frustum are rejected
// before any triangle is projected.
type Pipeline struct {
	camera *Camera
	fb     *Framebuffer
	rast   *Rasterizer
	mesh   *geometry.Mesh

	Mode       RenderMode
	Background Color
	BaseColor  Color
	WireColor  Color
	PointColor Color
	LightDir   math3d.Vec3
	Texture    *Texture
}

// NewPipeline creates a pipeline rendering into a framebuffer of the
// given dimensions, viewed through the given camera.
func NewPipeline(camera *Camera, width, height int) *Pipeline {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	camera.Resize(width, height)

	fb := NewFramebuffer(width, height)
	return &Pipeline{
		camera:     camera,
		fb:         fb,
		rast:       NewRasterizer(camera, fb),
		Mode:       RenderSolid,
		Background: DefaultBackground,
		BaseColor:  DefaultBaseColor,
		WireColor:  DefaultWireColor,
		PointColor: DefaultPointColor,
		LightDir:   math3d.V3(0.5, 1, 0.75),
	}
}

// Camera returns the pipeline's camera.
func (p *Pipeline) Camera() *Camera {
	return p.camera
}

// Mesh returns the current mesh, or nil.
func (p *Pipeline) Mesh() *geometry.Mesh {
	return p.mesh
}

// SetMesh swaps the mesh being rendered. A nil mesh leaves the pipeline
// rendering background-only frames.
func (p *Pipeline) SetMesh(m *geometry.Mesh) {
	p.mesh = m
}

// Resize rebuilds the framebuffer and depth buffer for new dimensions
// and keeps the camera's aspect ratio in sync. Non-positive dimensions
// are ignored.
func (p *Pipeline) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == p.fb.Width && height == p.fb.Height {
		return
	}
	p.fb = NewFramebuffer(width, height)
	p.rast = NewRasterizer(p.camera, p.fb)
	p.camera.Resize(width, height)
}

// Frame returns the framebuffer holding the last rendered frame.
func (p *Pipeline) Frame() *Framebuffer {
	return p.fb
}

// Render rasterizes a full frame into the framebuffer: clears color and
// depth, then draws the mesh in the current render mode.
func (p *Pipeline) Render() {
	p.fb.Clear(p.Background)
	p.rast.ClearDepth()

	if p.mesh == nil {
		return
	}

	// Reject the whole mesh when its bounding sphere misses the frustum.
	if !p.camera.GetFrustum().IntersectsSphere(p.mesh.Center, p.mesh.Radius) {
		return
	}

	switch p.Mode {
	case RenderWireframe:
		p.rast.DrawMeshWireframe(p.mesh, p.WireColor)
	case RenderPoints:
		p.rast.DrawMeshPoints(p.mesh, p.PointColor)
	case RenderTextured:
		p.rast.DrawMeshTextured(p.mesh, p.texture(), p.LightDir)
	default:
		p.rast.DrawMeshSolid(p.mesh, p.BaseColor, p.LightDir)
	}
}

// texture returns the pipeline texture, creating the default checker
// pattern on first use.
func (p *Pipeline) texture() *Texture {
	if p.Texture == nil {
		p.Texture = NewCheckerTexture(64, 64, 8, RGB(240, 240, 240), RGB(70, 70, 70))
	}
	return p.Texture
}

// Present renders a frame sized to the surface and hands it over.
func (p *Pipeline) Present(s Surface) error {
	if s == nil {
		return ErrNoSurface
	}
	w, h := s.Size()
	p.Resize(w, h)
	p.Render()
	return s.Present(p.fb)
}
