package render

import (
	"math"
	"math/rand"
	"testing"

	"github.com/skylinker5/primview/pkg/math3d"
)

func TestRotatePitchStaysClamped(t *testing.T) {
	c := NewCamera()
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		c.Rotate((rng.Float64()-0.5)*4, (rng.Float64()-0.5)*4)

		if c.Pitch <= -math.Pi/2 || c.Pitch >= math.Pi/2 {
			t.Fatalf("pitch %v escaped the clamp interval after %d rotations", c.Pitch, i+1)
		}
		if c.Yaw < 0 || c.Yaw >= 2*math.Pi {
			t.Fatalf("yaw %v outside [0, 2pi) after %d rotations", c.Yaw, i+1)
		}
	}
}

func TestRotateLargePitchClampsAtPole(t *testing.T) {
	c := NewCamera()
	c.Rotate(0, 10.0)

	want := math.Pi/2 - 0.01
	if math.Abs(c.Pitch-want) > 1e-12 {
		t.Errorf("pitch = %v, want clamped at %v", c.Pitch, want)
	}

	// Driving further into the pole absorbs the excess instead of banking it.
	c.Rotate(0, 5.0)
	if math.Abs(c.Pitch-want) > 1e-12 {
		t.Errorf("pitch = %v after second push, want %v", c.Pitch, want)
	}
	c.Rotate(0, -0.5)
	if math.Abs(c.Pitch-(want-0.5)) > 1e-12 {
		t.Errorf("pitch = %v, want %v (excess must not accumulate)", c.Pitch, want-0.5)
	}
}

func TestYawWraps(t *testing.T) {
	c := NewCamera()
	c.Rotate(2*math.Pi+0.25, 0)
	if math.Abs(c.Yaw-0.25) > 1e-12 {
		t.Errorf("yaw = %v, want 0.25", c.Yaw)
	}
	c.Rotate(-1.0, 0)
	if c.Yaw < 0 || c.Yaw >= 2*math.Pi {
		t.Errorf("yaw = %v, want in [0, 2pi)", c.Yaw)
	}
}

func TestZoomAssociativity(t *testing.T) {
	a := NewCamera()
	a.Zoom(1.5)
	a.Zoom(0.8)

	b := NewCamera()
	b.Zoom(1.5 * 0.8)

	if math.Abs(a.Distance-b.Distance) > 1e-12 {
		t.Errorf("zoom(1.5);zoom(0.8) = %v, zoom(1.2) = %v", a.Distance, b.Distance)
	}
}

func TestZoomClamps(t *testing.T) {
	c := NewCamera()

	c.Zoom(0)
	if c.Distance != 2.0 {
		t.Errorf("zoom(0) changed distance to %v", c.Distance)
	}
	c.Zoom(-3)
	if c.Distance != 2.0 {
		t.Errorf("zoom(-3) changed distance to %v", c.Distance)
	}

	c.Zoom(1e-12)
	if c.Distance < MinDistance {
		t.Errorf("distance %v below minimum %v", c.Distance, MinDistance)
	}
	c.Zoom(1e12)
	c.Zoom(1e12)
	if c.Distance > MaxDistance {
		t.Errorf("distance %v above maximum %v", c.Distance, MaxDistance)
	}
}

func TestPanRoundTrip(t *testing.T) {
	c := NewCamera()
	c.Rotate(0.7, 0.3)
	original := c.Target

	c.Pan(0.25, -0.4)
	c.Pan(-0.25, 0.4)

	if c.Target.Sub(original).Len() > 1e-12 {
		t.Errorf("target = %v after round-trip pan, want %v", c.Target, original)
	}
}

func TestPanScalesWithDistance(t *testing.T) {
	near := NewCamera()
	near.Distance = 1
	near.Pan(1, 0)

	far := NewCamera()
	far.Distance = 10
	far.Pan(1, 0)

	nearMove := near.Target.Len()
	farMove := far.Target.Len()
	if math.Abs(farMove-10*nearMove) > 1e-9 {
		t.Errorf("pan at distance 10 moved %v, want 10x the move at distance 1 (%v)",
			farMove, nearMove)
	}
}

func TestResizeAspectInProjection(t *testing.T) {
	c := NewCamera()
	c.Resize(320, 200)

	m := c.ProjectionMatrix()
	aspect := 320.0 / 200.0
	if ratio := m.Get(1, 1) / m.Get(0, 0); math.Abs(ratio-aspect) > 1e-9 {
		t.Errorf("projection aspect = %v, want %v", ratio, aspect)
	}
}

func TestResizeIgnoresNonPositive(t *testing.T) {
	c := NewCamera()
	c.Resize(320, 200)
	c.Resize(0, 100)
	c.Resize(100, -5)

	w, h := c.Viewport()
	if w != 320 || h != 200 {
		t.Errorf("viewport = %dx%d, want 320x200", w, h)
	}
}

// projectNDC runs a world point through the camera's view-projection.
func projectNDC(c *Camera, p math3d.Vec3) math3d.Vec3 {
	return c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(p, 1)).PerspectiveDivide()
}

func TestFitToViewPerspectiveExactFill(t *testing.T) {
	c := NewCamera()
	c.Resize(400, 400)

	center := math3d.V3(1, 2, 3)
	radius := 0.75
	c.FitToView(center, radius)

	if c.Target != center {
		t.Fatalf("target = %v, want %v", c.Target, center)
	}

	// The silhouette tangent point of the fitted sphere projects to the
	// top edge of the viewport exactly.
	halfFov := c.FOV / 2
	tangent := center.
		Add(math3d.Up().Scale(radius * math.Cos(halfFov))).
		Add(math3d.V3(0, 0, 1).Scale(radius * math.Sin(halfFov)))
	ndc := projectNDC(c, tangent)
	if math.Abs(ndc.Y-1) > 1e-6 {
		t.Errorf("tangent point NDC y = %v, want 1 (exact fill)", ndc.Y)
	}
}

func TestFitToViewOrthographicExactFill(t *testing.T) {
	c := NewCamera()
	c.Resize(400, 400)
	c.SetViewMode(ViewOrthographic)

	center := math3d.V3(-2, 0, 1)
	radius := 1.25
	c.FitToView(center, radius)

	// Under orthographic projection the sphere's top point lands on the
	// viewport edge.
	top := center.Add(math3d.Up().Scale(radius))
	ndc := projectNDC(c, top)
	if math.Abs(ndc.Y-1) > 1e-6 {
		t.Errorf("top point NDC y = %v, want 1 (exact fill)", ndc.Y)
	}
}

func TestFitToViewNarrowAspect(t *testing.T) {
	// On a viewport twice as tall as wide, the horizontal FOV limits the
	// fit: the sphere's side tangent hits NDC x = 1.
	c := NewCamera()
	c.Resize(200, 400)

	c.FitToView(math3d.Zero3(), 1.0)

	halfFov := math.Atan(math.Tan(c.FOV/2) * c.AspectRatio())
	tangent := math3d.V3(math.Cos(halfFov), 0, math.Sin(halfFov))
	ndc := projectNDC(c, tangent)
	if math.Abs(ndc.X-1) > 1e-6 {
		t.Errorf("side tangent NDC x = %v, want 1", ndc.X)
	}
}

func TestFitToViewPreservesOrientation(t *testing.T) {
	c := NewCamera()
	c.Rotate(1.1, 0.4)
	yaw, pitch := c.Yaw, c.Pitch

	c.FitToView(math3d.V3(5, 5, 5), 2.0)

	if c.Yaw != yaw || c.Pitch != pitch {
		t.Errorf("orientation changed: yaw %v->%v, pitch %v->%v", yaw, c.Yaw, pitch, c.Pitch)
	}
}

func TestViewMatrixNonDegenerate(t *testing.T) {
	c := NewCamera()
	c.Resize(100, 100)
	c.Rotate(0.5, 0.5)
	c.FitToView(math3d.Zero3(), 0.87)

	if d := c.ViewMatrix().Determinant(); math.Abs(d) < 1e-9 {
		t.Errorf("view matrix determinant = %v, want non-zero", d)
	}

	// Even hard against the pitch clamp the view stays valid.
	c.Rotate(0, 100)
	if d := c.ViewMatrix().Determinant(); math.Abs(d) < 1e-9 {
		t.Errorf("view matrix degenerate at pitch clamp, determinant = %v", d)
	}
}

func TestSetViewModePreservesOrbit(t *testing.T) {
	c := NewCamera()
	c.Rotate(0.9, -0.2)
	c.Zoom(1.7)
	yaw, pitch, dist := c.Yaw, c.Pitch, c.Distance

	c.SetViewMode(ViewOrthographic)
	if c.Yaw != yaw || c.Pitch != pitch || c.Distance != dist {
		t.Error("switching view mode must not move the camera")
	}
	c.SetViewMode(ViewPerspective)
	if c.Yaw != yaw || c.Pitch != pitch || c.Distance != dist {
		t.Error("switching back must not move the camera")
	}
}
