package render

import "strings"

// RenderMode selects how the pipeline draws the current mesh.
type RenderMode int

const (
	RenderSolid     RenderMode = iota // filled triangles, Gouraud shaded
	RenderWireframe                   // triangle edges only
	RenderPoints                      // vertices only
	RenderTextured                    // filled triangles, texture modulated
)

// String returns the mode's token.
func (m RenderMode) String() string {
	switch m {
	case RenderSolid:
		return "solid"
	case RenderWireframe:
		return "wireframe"
	case RenderPoints:
		return "points"
	case RenderTextured:
		return "textured"
	}
	return "unknown"
}

// ParseRenderMode maps a token to its RenderMode. Case-insensitive.
func ParseRenderMode(s string) (RenderMode, bool) {
	switch strings.ToLower(s) {
	case "solid":
		return RenderSolid, true
	case "wireframe", "wire":
		return RenderWireframe, true
	case "points":
		return RenderPoints, true
	case "textured", "texture":
		return RenderTextured, true
	}
	return 0, false
}

// ViewMode selects the camera projection.
type ViewMode int

const (
	ViewPerspective ViewMode = iota
	ViewOrthographic
)

// String returns the mode's token.
func (m ViewMode) String() string {
	switch m {
	case ViewPerspective:
		return "perspective"
	case ViewOrthographic:
		return "orthographic"
	}
	return "unknown"
}

// ParseViewMode maps a token to its ViewMode. Case-insensitive.
func ParseViewMode(s string) (ViewMode, bool) {
	switch strings.ToLower(s) {
	case "perspective", "persp":
		return ViewPerspective, true
	case "orthographic", "ortho":
		return ViewOrthographic, true
	}
	return 0, false
}
