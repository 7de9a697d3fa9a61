// Package viewer is the public facade of primview: a single-object 3D
// viewer composing mesh generation, an orbit camera and the software
// render pipeline behind a small synchronous API.
package viewer

import (
	"errors"
	"fmt"
	"math"

	"github.com/skylinker5/primview/pkg/geometry"
	"github.com/skylinker5/primview/pkg/math3d"
	"github.com/skylinker5/primview/pkg/render"
)

// Sentinel errors of the facade. Callers match them with errors.Is.
var (
	// ErrConfiguration reports an unusable construction input; the
	// viewer cannot be created.
	ErrConfiguration = errors.New("viewer: configuration error")

	// ErrInvalidArgument reports an unknown token or out-of-range
	// value. The viewer state is unchanged.
	ErrInvalidArgument = errors.New("viewer: invalid argument")

	// ErrRenderUnavailable reports that the presentation surface
	// rejected a frame. The host decides whether to rebuild the viewer.
	ErrRenderUnavailable = errors.New("viewer: render unavailable")
)

// Viewer owns the current mesh, render/view modes, camera and pipeline.
// All methods are synchronous and must be called from one goroutine;
// the host drives one Draw per state change, there is no internal frame
// loop.
type Viewer struct {
	surface  render.Surface
	camera   *render.Camera
	pipeline *render.Pipeline

	kind      geometry.Kind
	generated bool   // a built-in primitive is shown
	loaded    string // model path when showing an imported mesh
	cfg       Config
}

// New constructs a viewer presenting to the given surface, showing the
// configured default primitive framed by fit-to-view.
func New(surface render.Surface, cfg Config) (*Viewer, error) {
	if surface == nil {
		return nil, fmt.Errorf("%w: nil surface", ErrConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	w, h := surface.Size()
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}

	camera := render.NewCamera()
	camera.SetFOV(cfg.FOVDegrees * math.Pi / 180)
	viewMode, _ := render.ParseViewMode(cfg.ViewMode)
	camera.SetViewMode(viewMode)

	pipeline := render.NewPipeline(camera, w, h)
	pipeline.Background = render.RGB(cfg.Background.R, cfg.Background.G, cfg.Background.B)
	renderMode, _ := render.ParseRenderMode(cfg.RenderMode)
	pipeline.Mode = renderMode

	v := &Viewer{
		surface:  surface,
		camera:   camera,
		pipeline: pipeline,
		cfg:      cfg,
	}

	kind, _ := geometry.ParseKind(cfg.Primitive)
	v.setMesh(kind, geometry.Generate(kind), true, "")
	v.FitToView()
	return v, nil
}

func (v *Viewer) setMesh(kind geometry.Kind, m *geometry.Mesh, generated bool, path string) {
	v.kind = kind
	v.generated = generated
	v.loaded = path
	v.pipeline.SetMesh(m)
}

// SetPrimitive regenerates the displayed mesh for the named primitive.
func (v *Viewer) SetPrimitive(token string) error {
	kind, ok := geometry.ParseKind(token)
	if !ok {
		return fmt.Errorf("%w: unknown primitive %q", ErrInvalidArgument, token)
	}
	v.setMesh(kind, geometry.Generate(kind), true, "")
	return nil
}

// LoadModel replaces the displayed mesh with one imported from a glTF
// or GLB file.
func (v *Viewer) LoadModel(path string) error {
	m, err := geometry.LoadGLB(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	v.setMesh(0, m, false, path)
	return nil
}

// SetMesh replaces the displayed mesh with one built by the caller.
func (v *Viewer) SetMesh(m *geometry.Mesh) error {
	if m == nil || len(m.Positions) == 0 {
		return fmt.Errorf("%w: empty mesh", ErrInvalidArgument)
	}
	v.setMesh(0, m, false, "")
	return nil
}

// SetRenderMode switches the active render mode.
func (v *Viewer) SetRenderMode(token string) error {
	mode, ok := render.ParseRenderMode(token)
	if !ok {
		return fmt.Errorf("%w: unknown render mode %q", ErrInvalidArgument, token)
	}
	v.pipeline.Mode = mode
	return nil
}

// SetViewMode switches the projection. The orbit state is preserved, so
// toggling keeps the viewpoint.
func (v *Viewer) SetViewMode(token string) error {
	mode, ok := render.ParseViewMode(token)
	if !ok {
		return fmt.Errorf("%w: unknown view mode %q", ErrInvalidArgument, token)
	}
	v.camera.SetViewMode(mode)
	return nil
}

// Resize updates the viewport. Non-positive dimensions are ignored.
func (v *Viewer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	v.pipeline.Resize(width, height)
}

// Rotate orbits the camera by pre-scaled yaw/pitch deltas in radians.
// Non-finite deltas are ignored.
func (v *Viewer) Rotate(deltaYaw, deltaPitch float64) {
	if !finite(deltaYaw) || !finite(deltaPitch) {
		return
	}
	v.camera.Rotate(deltaYaw, deltaPitch)
}

// Pan translates the orbit target by pre-scaled deltas in view
// fractions. Non-finite deltas are ignored.
func (v *Viewer) Pan(deltaX, deltaY float64) {
	if !finite(deltaX) || !finite(deltaY) {
		return
	}
	v.camera.Pan(deltaX, deltaY)
}

// Zoom scales the orbit distance. Non-positive or non-finite factors
// are ignored; the distance is clamped by the camera.
func (v *Viewer) Zoom(factor float64) {
	if !finite(factor) {
		return
	}
	v.camera.Zoom(factor)
}

// FitToView frames the current mesh: the camera recenters on its
// bounding sphere and backs off until it exactly fills the viewport.
func (v *Viewer) FitToView() {
	m := v.pipeline.Mesh()
	if m == nil {
		v.camera.FitToView(math3d.Zero3(), 1.0)
		return
	}
	v.camera.FitToView(m.Center, m.Radius)
}

// Draw renders one frame and presents it to the surface.
func (v *Viewer) Draw() error {
	if err := v.pipeline.Present(v.surface); err != nil {
		return fmt.Errorf("%w: %v", ErrRenderUnavailable, err)
	}
	return nil
}

// Snapshot renders the current frame and writes it as a PNG file.
func (v *Viewer) Snapshot(path string) error {
	v.pipeline.Render()
	if err := v.pipeline.Frame().SavePNG(path); err != nil {
		return fmt.Errorf("%w: %v", ErrRenderUnavailable, err)
	}
	return nil
}

// Camera exposes the orbit camera for hosts that need to inspect it.
func (v *Viewer) Camera() *render.Camera {
	return v.camera
}

// Pipeline exposes the render pipeline.
func (v *Viewer) Pipeline() *render.Pipeline {
	return v.pipeline
}

// Primitive returns the current primitive kind and whether a generated
// primitive (rather than a loaded model) is being shown.
func (v *Viewer) Primitive() (geometry.Kind, bool) {
	return v.kind, v.generated
}

// ModelPath returns the path of the loaded model, or "" when a
// generated primitive is shown.
func (v *Viewer) ModelPath() string {
	return v.loaded
}

// Config returns the viewer's configuration.
func (v *Viewer) Config() Config {
	return v.cfg
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
