package render

import (
	"errors"
	"testing"

	"github.com/skylinker5/primview/pkg/geometry"
	"github.com/skylinker5/primview/pkg/math3d"
)

// newTestPipeline builds a pipeline showing a fitted primitive.
func newTestPipeline(kind geometry.Kind, w, h int) *Pipeline {
	cam := NewCamera()
	p := NewPipeline(cam, w, h)
	m := geometry.Generate(kind)
	p.SetMesh(m)
	cam.FitToView(m.Center, m.Radius)
	return p
}

// countNonBackground returns how many pixels differ from the background.
func countNonBackground(p *Pipeline) int {
	n := 0
	for _, px := range p.Frame().Pixels {
		if px != p.Background {
			n++
		}
	}
	return n
}

func TestRenderModesProducePixels(t *testing.T) {
	modes := []RenderMode{RenderSolid, RenderWireframe, RenderPoints, RenderTextured}

	for _, mode := range modes {
		t.Run(mode.String(), func(t *testing.T) {
			p := newTestPipeline(geometry.KindCube, 64, 64)
			p.Mode = mode
			p.Render()

			if got := countNonBackground(p); got == 0 {
				t.Errorf("no pixels drawn in %s mode", mode)
			}
		})
	}
}

func TestRenderEmptyPipeline(t *testing.T) {
	p := NewPipeline(NewCamera(), 32, 32)
	p.Render()

	if got := countNonBackground(p); got != 0 {
		t.Errorf("%d non-background pixels without a mesh, want 0", got)
	}
}

func TestRenderCullsOffscreenMesh(t *testing.T) {
	p := newTestPipeline(geometry.KindSphere, 64, 64)

	// Pan far enough that the sphere's bounding volume leaves the frustum.
	p.Camera().Pan(1000, 0)
	p.Render()

	if got := countNonBackground(p); got != 0 {
		t.Errorf("%d pixels drawn for a fully off-screen mesh, want 0", got)
	}
}

func TestSolidFillsMoreThanWireframe(t *testing.T) {
	solid := newTestPipeline(geometry.KindSphere, 96, 96)
	solid.Mode = RenderSolid
	solid.Render()

	wire := newTestPipeline(geometry.KindSphere, 96, 96)
	wire.Mode = RenderWireframe
	wire.Render()

	if countNonBackground(solid) <= countNonBackground(wire)/2 {
		t.Errorf("solid coverage (%d) suspiciously low vs wireframe (%d)",
			countNonBackground(solid), countNonBackground(wire))
	}
}

func TestSolidSphereCoversCenter(t *testing.T) {
	p := newTestPipeline(geometry.KindSphere, 64, 64)
	p.Render()

	// A fitted sphere must cover the framebuffer center.
	if px := p.Frame().GetPixel(32, 32); px == p.Background {
		t.Error("center pixel still background after rendering a fitted sphere")
	}
}

func TestResizeKeepsAspect(t *testing.T) {
	p := NewPipeline(NewCamera(), 10, 10)
	p.Resize(200, 100)

	if p.Frame().Width != 200 || p.Frame().Height != 100 {
		t.Errorf("framebuffer = %dx%d, want 200x100", p.Frame().Width, p.Frame().Height)
	}
	w, h := p.Camera().Viewport()
	if w != 200 || h != 100 {
		t.Errorf("camera viewport = %dx%d, want 200x100", w, h)
	}

	p.Resize(0, -4)
	if p.Frame().Width != 200 || p.Frame().Height != 100 {
		t.Error("non-positive resize must be ignored")
	}
}

func TestPresentToImageSurface(t *testing.T) {
	p := newTestPipeline(geometry.KindCube, 8, 8)
	s := NewImageSurface(48, 48)

	if err := p.Present(s); err != nil {
		t.Fatalf("present: %v", err)
	}

	img := s.Image()
	if img == nil {
		t.Fatal("no image after present")
	}
	if img.Bounds().Dx() != 48 || img.Bounds().Dy() != 48 {
		t.Errorf("image size = %v, want 48x48", img.Bounds())
	}
	// The pipeline resizes to the surface before rendering.
	if p.Frame().Width != 48 || p.Frame().Height != 48 {
		t.Errorf("framebuffer = %dx%d, want 48x48", p.Frame().Width, p.Frame().Height)
	}
}

func TestPresentAfterRelease(t *testing.T) {
	p := newTestPipeline(geometry.KindCube, 8, 8)
	s := NewImageSurface(16, 16)

	if err := p.Present(s); err != nil {
		t.Fatalf("present: %v", err)
	}

	s.Release()
	if err := p.Present(s); !errors.Is(err, ErrSurfaceReleased) {
		t.Errorf("err = %v, want ErrSurfaceReleased", err)
	}
	if s.Image() != nil {
		t.Error("image retained after release")
	}
}

func TestPresentWithoutSurface(t *testing.T) {
	p := newTestPipeline(geometry.KindCube, 8, 8)
	if err := p.Present(nil); !errors.Is(err, ErrNoSurface) {
		t.Errorf("err = %v, want ErrNoSurface", err)
	}
}

func TestDoubleSidedVisibleFromBehind(t *testing.T) {
	cam := NewCamera()
	p := NewPipeline(cam, 64, 64)
	m := geometry.Generate(geometry.KindPlane)
	p.SetMesh(m)

	// Look at the XZ plane from below; a single-sided quad would be culled.
	cam.FitToView(m.Center, m.Radius)
	cam.Rotate(0, -1.2)
	p.Render()

	if got := countNonBackground(p); got == 0 {
		t.Error("double-sided plane invisible from below")
	}
}

func TestBackfaceCulling(t *testing.T) {
	cam := NewCamera()
	cam.Resize(64, 64)
	fb := NewFramebuffer(64, 64)
	r := NewRasterizer(cam, fb)

	cam.FitToView(math3d.Zero3(), 1.0)
	fb.Clear(RGB(0, 0, 0))
	r.ClearDepth()

	// CCW when seen from +Z (the camera side): front-facing, drawn.
	front := Triangle{V: [3]Vertex{
		{Position: math3d.V3(-0.5, -0.5, 0), Normal: math3d.V3(0, 0, 1), Color: RGB(255, 0, 0)},
		{Position: math3d.V3(0.5, -0.5, 0), Normal: math3d.V3(0, 0, 1), Color: RGB(255, 0, 0)},
		{Position: math3d.V3(0, 0.5, 0), Normal: math3d.V3(0, 0, 1), Color: RGB(255, 0, 0)},
	}}
	r.DrawTriangleGouraud(front, math3d.V3(0, 0, 1), false)

	found := false
	for _, px := range fb.Pixels {
		if px != RGB(0, 0, 0) {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("front-facing CCW triangle was culled")
	}

	// Same triangle with reversed winding: back-facing, culled.
	fb.Clear(RGB(0, 0, 0))
	r.ClearDepth()
	back := Triangle{V: [3]Vertex{front.V[0], front.V[2], front.V[1]}}
	r.DrawTriangleGouraud(back, math3d.V3(0, 0, 1), false)

	for _, px := range fb.Pixels {
		if px != RGB(0, 0, 0) {
			t.Fatal("back-facing triangle was drawn")
		}
	}

	// Two-sided rendering draws it regardless of winding.
	fb.Clear(RGB(0, 0, 0))
	r.ClearDepth()
	r.DrawTriangleGouraud(back, math3d.V3(0, 0, 1), true)

	found = false
	for _, px := range fb.Pixels {
		if px != RGB(0, 0, 0) {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("two-sided triangle was culled")
	}
}

func TestLineBehindCameraClipped(t *testing.T) {
	cam := NewCamera()
	cam.Resize(64, 64)
	fb := NewFramebuffer(64, 64)
	r := NewRasterizer(cam, fb)

	fb.Clear(RGB(0, 0, 0))
	r.ClearDepth()

	// The default camera sits at (0,0,2). One endpoint is behind it;
	// its mirrored projection would sweep the line across the left
	// half of the frame instead of exiting through the right edge.
	r.drawLine3D(math3d.V3(0.5, 0, 0), math3d.V3(0.5, 0, 4), RGB(255, 255, 255))

	drew := false
	for y := range 64 {
		for x := range 64 {
			if fb.GetPixel(x, y) != RGB(255, 255, 255) {
				continue
			}
			drew = true
			if x < 32 {
				t.Fatalf("stray pixel at (%d,%d) past the camera plane", x, y)
			}
		}
	}
	if !drew {
		t.Fatal("clipped segment drew nothing")
	}
}

func TestClipSegment(t *testing.T) {
	// Fully inside stays untouched.
	x0, y0, x1, y1, ok := clipSegment(5, 5, 20, 20, 64, 64)
	if !ok || x0 != 5 || y0 != 5 || x1 != 20 || y1 != 20 {
		t.Errorf("inside segment changed: (%v,%v)-(%v,%v) ok=%v", x0, y0, x1, y1, ok)
	}

	// Fully outside is rejected.
	if _, _, _, _, ok := clipSegment(100, 100, 200, 200, 64, 64); ok {
		t.Error("segment outside the frame not rejected")
	}

	// A long horizontal span is trimmed at the right edge.
	_, _, x1, _, ok = clipSegment(10, 32, 1e6, 32, 64, 64)
	if !ok {
		t.Fatal("crossing segment rejected")
	}
	if x1 > 64 {
		t.Errorf("x1 = %v, want trimmed to the frame width", x1)
	}
}

func TestZBufferOrdering(t *testing.T) {
	cam := NewCamera()
	cam.Resize(64, 64)
	fb := NewFramebuffer(64, 64)
	r := NewRasterizer(cam, fb)
	cam.FitToView(math3d.Zero3(), 1.0)

	fb.Clear(RGB(0, 0, 0))
	r.ClearDepth()

	tri := func(z float64, c Color) Triangle {
		return Triangle{V: [3]Vertex{
			{Position: math3d.V3(-0.5, -0.5, z), Normal: math3d.V3(0, 0, 1), Color: c},
			{Position: math3d.V3(0.5, -0.5, z), Normal: math3d.V3(0, 0, 1), Color: c},
			{Position: math3d.V3(0, 0.5, z), Normal: math3d.V3(0, 0, 1), Color: c},
		}}
	}

	// Camera looks from +Z: the z=0.5 triangle is nearer than z=-0.5.
	light := math3d.V3(0, 0, 1)
	r.DrawTriangleGouraud(tri(0.5, RGB(255, 0, 0)), light, false)
	r.DrawTriangleGouraud(tri(-0.5, RGB(0, 0, 255)), light, false)

	center := fb.GetPixel(32, 32)
	if center.R == 0 || center.B != 0 {
		t.Errorf("center pixel = %v, want the nearer (red) triangle", center)
	}
}
