package render

import (
	"errors"
	"image"
)

// ErrNoSurface is returned when a frame is presented without a
// presentation surface attached.
var ErrNoSurface = errors.New("render: no presentation surface")

// ErrSurfaceReleased is returned by Present after the surface's
// backing target has been released.
var ErrSurfaceReleased = errors.New("render: surface released")

// Surface is a presentation target for rendered frames. The pipeline
// rasterizes into its framebuffer and hands the pixels to a Surface,
// which decides how they reach the user: terminal cells, an image, etc.
type Surface interface {
	// Size returns the surface dimensions in framebuffer pixels.
	Size() (width, height int)
	// Present displays a rendered framebuffer.
	Present(fb *Framebuffer) error
	// Release frees the backing target. Present fails afterwards.
	Release()
}

// ImageSurface is an off-screen surface that keeps the last presented
// frame as an image. Used for snapshots and tests.
type ImageSurface struct {
	width, height int
	img           *image.RGBA
	released      bool
}

// NewImageSurface creates an off-screen surface with the given dimensions.
func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{width: width, height: height}
}

// Size returns the surface dimensions.
func (s *ImageSurface) Size() (width, height int) {
	return s.width, s.height
}

// Present stores the framebuffer contents as the surface's image.
func (s *ImageSurface) Present(fb *Framebuffer) error {
	if s.released {
		return ErrSurfaceReleased
	}
	s.img = fb.ToImage()
	return nil
}

// Release drops the retained frame. Subsequent Presents fail with
// ErrSurfaceReleased.
func (s *ImageSurface) Release() {
	s.released = true
	s.img = nil
}

// Image returns the last presented frame, or nil if none has been
// presented yet.
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}
