package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// TerminalSurface presents frames as terminal cells. Vertical
// resolution is doubled by drawing ▀ (upper half block) cells with the
// foreground carrying the top pixel and the background the bottom one.
type TerminalSurface struct {
	scr      uv.Screen
	area     uv.Rectangle
	released bool
}

// NewTerminalSurface creates a surface drawing into the given screen area.
func NewTerminalSurface(scr uv.Screen, area uv.Rectangle) *TerminalSurface {
	return &TerminalSurface{scr: scr, area: area}
}

// SetArea updates the screen area the surface draws into.
func (s *TerminalSurface) SetArea(area uv.Rectangle) {
	s.area = area
}

// Size returns the framebuffer dimensions backing the surface: one
// pixel per column, two pixels per terminal row.
func (s *TerminalSurface) Size() (width, height int) {
	return s.area.Dx(), s.area.Dy() * 2
}

// Present converts the framebuffer to half-block cells on the screen.
func (s *TerminalSurface) Present(fb *Framebuffer) error {
	if s.released {
		return ErrSurfaceReleased
	}
	for row := s.area.Min.Y; row < s.area.Max.Y; row++ {
		topY := (row - s.area.Min.Y) * 2
		botY := topY + 1

		for col := s.area.Min.X; col < s.area.Max.X; col++ {
			x := col - s.area.Min.X
			if x >= fb.Width {
				break
			}
			topColor := fb.GetPixel(x, topY)
			botColor := fb.GetPixel(x, botY)

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(topColor),
					Bg: rgbaToColor(botColor),
				},
			}
			s.scr.SetCell(col, row, cell)
		}
	}
	return nil
}

// Release detaches the surface from the terminal screen. Presents
// after the terminal has shut down fail with ErrSurfaceReleased.
func (s *TerminalSurface) Release() {
	s.released = true
	s.scr = nil
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}
