package render

import (
	"math"

	"github.com/skylinker5/primview/pkg/math3d"
)

// Camera state limits. Pitch stops just short of the poles so the view
// direction never becomes parallel to the world up vector; distance is
// clamped so zooming can neither invert through the target nor run away
// to infinity.
const (
	MinDistance = 0.05
	MaxDistance = 1e6

	maxPitch = math.Pi/2 - 0.01
)

// Camera is an orbit camera: it circles a target point at a given
// distance, described by yaw (around world Y) and pitch (elevation).
// All mutating operations clamp their results, so the camera can never
// be driven into a degenerate state.
type Camera struct {
	Target   math3d.Vec3
	Distance float64
	Yaw      float64 // radians, kept in [0, 2pi)
	Pitch    float64 // radians, kept in [-maxPitch, maxPitch]

	FOV      float64 // vertical field of view in radians
	ViewMode ViewMode

	width, height int

	// Radius of the scene, used to derive the near/far planes.
	sceneRadius float64

	// Cached matrices (computed on demand)
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
}

// NewCamera creates an orbit camera with default framing: looking at
// the origin from 2 units away with a 45 degree vertical field of view.
func NewCamera() *Camera {
	return &Camera{
		Target:      math3d.Zero3(),
		Distance:    2.0,
		Yaw:         0,
		Pitch:       0,
		FOV:         45 * math.Pi / 180,
		ViewMode:    ViewPerspective,
		width:       1,
		height:      1,
		sceneRadius: 1.0,
		viewDirty:   true,
		projDirty:   true,
	}
}

// Position returns the camera eye position in world space.
func (c *Camera) Position() math3d.Vec3 {
	cp := math.Cos(c.Pitch)
	dir := math3d.V3(
		cp*math.Sin(c.Yaw),
		math.Sin(c.Pitch),
		cp*math.Cos(c.Yaw),
	)
	return c.Target.Add(dir.Scale(c.Distance))
}

// Forward returns the unit vector from the eye towards the target.
func (c *Camera) Forward() math3d.Vec3 {
	return c.Target.Sub(c.Position()).Normalize()
}

// Right returns the camera's right vector.
func (c *Camera) Right() math3d.Vec3 {
	return c.Forward().Cross(math3d.Up()).Normalize()
}

// Up returns the camera's up vector.
func (c *Camera) Up() math3d.Vec3 {
	return c.Right().Cross(c.Forward())
}

// Rotate orbits the camera around the target. Yaw wraps around the full
// circle; pitch is clamped after accumulation, so driving the camera
// against a pole absorbs the excess rather than banking it.
func (c *Camera) Rotate(deltaYaw, deltaPitch float64) {
	c.Yaw = math.Mod(c.Yaw+deltaYaw, 2*math.Pi)
	if c.Yaw < 0 {
		c.Yaw += 2 * math.Pi
	}

	c.Pitch += deltaPitch
	if c.Pitch > maxPitch {
		c.Pitch = maxPitch
	}
	if c.Pitch < -maxPitch {
		c.Pitch = -maxPitch
	}

	c.viewDirty = true
}

// SetOrbit sets yaw and pitch directly, applying the same wrap and
// clamp rules as Rotate.
func (c *Camera) SetOrbit(yaw, pitch float64) {
	c.Yaw = 0
	c.Pitch = 0
	c.Rotate(yaw, pitch)
}

// Pan translates the target in the camera's right/up plane. Deltas are
// scaled by the orbit distance so a given gesture moves the scene by a
// constant fraction of the view regardless of zoom level.
func (c *Camera) Pan(deltaX, deltaY float64) {
	offset := c.Right().Scale(deltaX * c.Distance).
		Add(c.Up().Scale(deltaY * c.Distance))
	c.Target = c.Target.Add(offset)
	c.viewDirty = true
}

// Zoom scales the orbit distance by the given factor (>1 zooms out,
// <1 zooms in). Non-positive factors are ignored; the result is clamped
// to the camera's distance limits.
func (c *Camera) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	c.Distance = clampDistance(c.Distance * factor)
	c.viewDirty = true
	c.projDirty = true // near/far track the distance
}

// Resize updates the viewport dimensions. Non-positive dimensions are
// ignored so a collapsing window can never produce a broken projection.
func (c *Camera) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width = width
	c.height = height
	c.projDirty = true
}

// Viewport returns the current viewport dimensions.
func (c *Camera) Viewport() (width, height int) {
	return c.width, c.height
}

// AspectRatio returns width/height of the viewport.
func (c *Camera) AspectRatio() float64 {
	return float64(c.width) / float64(c.height)
}

// SetViewMode switches between perspective and orthographic projection.
// The orbit state is untouched, so toggling preserves the viewpoint.
func (c *Camera) SetViewMode(m ViewMode) {
	if c.ViewMode == m {
		return
	}
	c.ViewMode = m
	c.projDirty = true
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	if fov <= 0 || fov >= math.Pi {
		return
	}
	c.FOV = fov
	c.projDirty = true
}

// FitToView recenters the camera on a bounding sphere and sets the
// orbit distance so the sphere exactly fills the limiting viewport
// dimension. Yaw and pitch are preserved, so fitting does not change
// the viewing direction.
func (c *Camera) FitToView(center math3d.Vec3, radius float64) {
	c.Target = center
	if radius <= 0 {
		radius = 1.0
	}
	c.sceneRadius = radius

	halfFov := c.effectiveHalfFOV()
	switch c.ViewMode {
	case ViewOrthographic:
		// Half-height is distance*tan(halfFov); solve for the distance
		// that makes the limiting half-extent equal the radius.
		c.Distance = clampDistance(radius / math.Tan(halfFov))
	default:
		// Distance at which the sphere is tangent to the view cone.
		c.Distance = clampDistance(radius / math.Sin(halfFov))
	}

	c.viewDirty = true
	c.projDirty = true
}

// effectiveHalfFOV returns the half field of view of the limiting
// viewport dimension: the vertical half-FOV on wide viewports, the
// (smaller) horizontal half-FOV on narrow ones.
func (c *Camera) effectiveHalfFOV() float64 {
	halfV := c.FOV / 2
	aspect := c.AspectRatio()
	if aspect >= 1 {
		return halfV
	}
	return math.Atan(math.Tan(halfV) * aspect)
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math3d.LookAt(c.Position(), c.Target, math3d.Up())
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix for the current view
// mode. The near and far planes are derived from the orbit distance and
// the scene radius each time the projection is rebuilt, so depth
// precision follows the camera instead of being fixed at construction.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = c.computeProjection()
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewDirty || c.projDirty {
		_ = c.ViewMatrix()
		_ = c.ProjectionMatrix()
		c.viewProjMatrix = c.projMatrix.Mul(c.viewMatrix)
	}
	return c.viewProjMatrix
}

func (c *Camera) computeProjection() math3d.Mat4 {
	aspect := c.AspectRatio()
	near, far := c.clipPlanes()

	if c.ViewMode == ViewOrthographic {
		halfH := c.Distance * math.Tan(c.FOV/2)
		halfW := halfH * aspect
		return math3d.Orthographic(-halfW, halfW, -halfH, halfH, near, far)
	}
	return math3d.Perspective(c.FOV, aspect, near, far)
}

// clipPlanes derives near/far from the orbit distance and scene radius,
// with enough slack for the scene to stay visible while panning.
func (c *Camera) clipPlanes() (near, far float64) {
	r := c.sceneRadius
	if r <= 0 {
		r = 1.0
	}
	near = c.Distance - 4*r
	if near < 0.01 {
		near = 0.01
	}
	far = c.Distance + 4*r
	if far <= near {
		far = near + 1
	}
	return near, far
}

func clampDistance(d float64) float64 {
	if d < MinDistance {
		return MinDistance
	}
	if d > MaxDistance {
		return MaxDistance
	}
	return d
}
