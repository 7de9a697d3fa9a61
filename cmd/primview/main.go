// primview - Terminal 3D Primitive Viewer
// View built-in primitives or glTF/GLB models with an orbit camera.
//
// Controls:
//
//	Left drag   - Orbit (yaw/pitch)
//	Right drag  - Pan
//	Scroll      - Zoom in/out
//	1-6         - Select primitive (triangle, plane, cube, cylinder, sphere, torus)
//	M           - Cycle render mode (solid, wireframe, points, textured)
//	V           - Toggle perspective/orthographic
//	F           - Fit object to view
//	R           - Reset camera
//	P           - Save PNG snapshot
//	?           - Toggle HUD
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/skylinker5/primview/pkg/geometry"
	"github.com/skylinker5/primview/pkg/render"
	"github.com/skylinker5/primview/pkg/viewer"
)

var (
	flagModel      string
	flagPrimitive  string
	flagRenderMode string
	flagViewMode   string
	flagConfig     string
	flagTexture    string
	flagBG         string
	flagFPS        int
	flagSnapshot   string
	flagWidth      int
	flagHeight     int
)

func main() {
	cmd := &cobra.Command{
		Use:   "primview",
		Short: "Terminal 3D primitive viewer",
		Long: "primview renders geometric primitives or glTF/GLB models in the\n" +
			"terminal with an orbit camera: drag to rotate, right-drag to pan,\n" +
			"scroll to zoom.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if flagSnapshot != "" {
				return runSnapshot(cfg)
			}
			return runInteractive(cfg)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&flagModel, "model", "", "glTF/GLB model to view instead of a primitive")
	cmd.Flags().StringVar(&flagPrimitive, "primitive", "", "primitive to show (triangle, plane, cube, cylinder, sphere, torus)")
	cmd.Flags().StringVar(&flagRenderMode, "mode", "", "render mode (solid, wireframe, points, textured)")
	cmd.Flags().StringVar(&flagViewMode, "view", "", "view mode (perspective, orthographic)")
	cmd.Flags().StringVar(&flagConfig, "config", "", "YAML config file")
	cmd.Flags().StringVar(&flagTexture, "texture", "", "PNG/JPEG image for the textured render mode")
	cmd.Flags().StringVar(&flagBG, "bg", "", "background color as R,G,B")
	cmd.Flags().IntVar(&flagFPS, "fps", 60, "target frames per second")
	cmd.Flags().StringVar(&flagSnapshot, "snapshot", "", "render a single frame to a PNG file and exit")
	cmd.Flags().IntVar(&flagWidth, "width", 800, "snapshot width in pixels")
	cmd.Flags().IntVar(&flagHeight, "height", 600, "snapshot height in pixels")

	if err := fang.Execute(context.Background(), cmd); err != nil {
		os.Exit(1)
	}
}

// loadConfig builds the effective config: file (if any) under the
// defaults, then flag overrides on top.
func loadConfig() (viewer.Config, error) {
	cfg := viewer.DefaultConfig()
	if flagConfig != "" {
		var err error
		cfg, err = viewer.LoadConfig(flagConfig)
		if err != nil {
			return cfg, err
		}
	}

	if flagPrimitive != "" {
		cfg.Primitive = flagPrimitive
	}
	if flagRenderMode != "" {
		cfg.RenderMode = flagRenderMode
	}
	if flagViewMode != "" {
		cfg.ViewMode = flagViewMode
	}
	if flagBG != "" {
		var r, g, b uint8
		if _, err := fmt.Sscanf(flagBG, "%d,%d,%d", &r, &g, &b); err != nil {
			return cfg, fmt.Errorf("invalid --bg %q: %w", flagBG, err)
		}
		cfg.Background = viewer.RGB{R: r, G: g, B: b}
	}
	return cfg, cfg.Validate()
}

// newViewer constructs a viewer on the surface and applies the model flag.
func newViewer(surface render.Surface, cfg viewer.Config) (*viewer.Viewer, error) {
	v, err := viewer.New(surface, cfg)
	if err != nil {
		return nil, err
	}
	if flagModel != "" {
		if err := v.LoadModel(flagModel); err != nil {
			return nil, err
		}
		v.FitToView()
	}
	if flagTexture != "" {
		tex, err := render.LoadTexture(flagTexture)
		if err != nil {
			return nil, err
		}
		tex.FilterMode = render.FilterBilinear
		v.Pipeline().Texture = tex
	}
	return v, nil
}

// runSnapshot renders one frame off-screen and writes it as a PNG.
func runSnapshot(cfg viewer.Config) error {
	surface := render.NewImageSurface(flagWidth, flagHeight)
	v, err := newViewer(surface, cfg)
	if err != nil {
		return err
	}
	if err := v.Snapshot(flagSnapshot); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%dx%d)\n", flagSnapshot, flagWidth, flagHeight)
	return nil
}

// orbitAxis tracks velocity for one camera axis with spring decay, so
// a drag keeps the camera coasting briefly after release.
type orbitAxis struct {
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

func newOrbitAxis(fps int) orbitAxis {
	return orbitAxis{
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update decays the velocity toward 0 and returns the step to apply.
func (a *orbitAxis) Update() float64 {
	step := a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
	return step
}

// hud renders the status overlay with lipgloss.
type hud struct {
	title     string
	visible   bool
	fps       float64
	fpsFrames int
	fpsTime   time.Time

	barStyle  lipgloss.Style
	dimStyle  lipgloss.Style
	keyStyle  lipgloss.Style
	fpsStyle  lipgloss.Style
	nameStyle lipgloss.Style
}

func newHUD(title string) *hud {
	base := lipgloss.NewStyle().Background(lipgloss.Color("235"))
	return &hud{
		title:     title,
		visible:   true,
		fpsTime:   time.Now(),
		barStyle:  base.Foreground(lipgloss.Color("250")),
		dimStyle:  base.Foreground(lipgloss.Color("243")),
		keyStyle:  base.Foreground(lipgloss.Color("214")).Bold(true),
		fpsStyle:  base.Foreground(lipgloss.Color("114")),
		nameStyle: base.Foreground(lipgloss.Color("255")).Bold(true),
	}
}

func (h *hud) updateFPS() {
	h.fpsFrames++
	if elapsed := time.Since(h.fpsTime); elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// render prints the HUD to the top and bottom terminal rows.
func (h *hud) render(v *viewer.Viewer, width, height int) {
	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}
	const clearLine = "\x1b[2K"

	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)
	if !h.visible {
		return
	}

	mesh := v.Pipeline().Mesh()
	tris := 0
	if mesh != nil {
		tris = mesh.TriangleCount()
	}

	top := h.fpsStyle.Render(fmt.Sprintf(" %.0f FPS ", h.fps)) +
		h.nameStyle.Render(" "+h.title+" ") +
		h.dimStyle.Render(fmt.Sprintf(" %d tris ", tris))
	fmt.Print(moveTo(1, 1) + top)

	cam := v.Camera()
	bottom := h.barStyle.Render(fmt.Sprintf(" %s | %s | dist %.2f ",
		v.Pipeline().Mode, cam.ViewMode, cam.Distance)) +
		h.keyStyle.Render(" 1-6 ") + h.dimStyle.Render("shape ") +
		h.keyStyle.Render("M") + h.dimStyle.Render("ode ") +
		h.keyStyle.Render("V") + h.dimStyle.Render("iew ") +
		h.keyStyle.Render("F") + h.dimStyle.Render("it ") +
		h.keyStyle.Render("R") + h.dimStyle.Render("eset ")
	fmt.Print(moveTo(height, 1) + bottom)
}

func runInteractive(cfg viewer.Config) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	// Reserve the top and bottom rows for the HUD.
	viewArea := func(w, h int) uv.Rectangle {
		if h < 3 {
			return uv.Rect(0, 0, w, h)
		}
		return uv.Rect(0, 1, w, h-2)
	}
	surface := render.NewTerminalSurface(term, viewArea(width, height))

	v, err := newViewer(surface, cfg)
	if err != nil {
		return err
	}

	title := cfg.Primitive
	if flagModel != "" {
		title = filepath.Base(flagModel)
	}
	overlay := newHUD(title)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	fps := flagFPS
	if fps < 1 {
		fps = 60
	}
	yawAxis := newOrbitAxis(fps)
	pitchAxis := newOrbitAxis(fps)

	kinds := geometry.Kinds()
	modes := []render.RenderMode{
		render.RenderSolid, render.RenderWireframe, render.RenderPoints, render.RenderTextured,
	}
	modeIdx := 0
	for i, m := range modes {
		if m == v.Pipeline().Mode {
			modeIdx = i
		}
	}

	var (
		rotating, panning      bool
		lastMouseX, lastMouseY int
	)

	selectKind := func(idx int) {
		if idx < 0 || idx >= len(kinds) {
			return
		}
		_ = v.SetPrimitive(kinds[idx].String())
		v.FitToView()
		overlay.title = kinds[idx].String()
	}

	// Event handler
	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				surface.SetArea(viewArea(width, height))

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("1"):
					selectKind(0)
				case ev.MatchString("2"):
					selectKind(1)
				case ev.MatchString("3"):
					selectKind(2)
				case ev.MatchString("4"):
					selectKind(3)
				case ev.MatchString("5"):
					selectKind(4)
				case ev.MatchString("6"):
					selectKind(5)
				case ev.MatchString("m"):
					modeIdx = (modeIdx + 1) % len(modes)
					_ = v.SetRenderMode(modes[modeIdx].String())
				case ev.MatchString("v"):
					if v.Camera().ViewMode == render.ViewPerspective {
						_ = v.SetViewMode(render.ViewOrthographic.String())
					} else {
						_ = v.SetViewMode(render.ViewPerspective.String())
					}
				case ev.MatchString("f"):
					v.FitToView()
				case ev.MatchString("r"):
					v.Camera().SetOrbit(0, 0)
					v.FitToView()
					yawAxis = newOrbitAxis(fps)
					pitchAxis = newOrbitAxis(fps)
				case ev.MatchString("p"):
					name := fmt.Sprintf("primview-%d.png", rand.Intn(100000))
					_ = v.Snapshot(name)
				case ev.MatchString("?"), ev.MatchString("shift+/"):
					overlay.visible = !overlay.visible
				}

			case uv.MouseClickEvent:
				lastMouseX, lastMouseY = ev.X, ev.Y
				if ev.Button == uv.MouseRight {
					panning = true
				} else {
					rotating = true
				}

			case uv.MouseReleaseEvent:
				rotating = false
				panning = false

			case uv.MouseMotionEvent:
				dx := ev.X - lastMouseX
				dy := ev.Y - lastMouseY
				lastMouseX, lastMouseY = ev.X, ev.Y
				switch {
				case panning:
					// Terminal cells are ~2x taller than wide; the half-block
					// framebuffer doubles rows, so scale Y accordingly.
					v.Pan(-float64(dx)*cfg.PanSpeed, float64(dy)*2*cfg.PanSpeed)
				case rotating:
					yawAxis.Velocity += float64(dx) * cfg.RotateSpeed
					pitchAxis.Velocity += float64(dy) * 2 * cfg.RotateSpeed
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					v.Zoom(1 / cfg.ZoomStep)
				case uv.MouseWheelDown:
					v.Zoom(cfg.ZoomStep)
				}
			}
		}
	}()

	targetDuration := time.Second / time.Duration(fps)

	cleanup := func() {
		surface.Release()
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		frameStart := time.Now()

		// Coast the orbit with spring-decayed velocities.
		v.Rotate(yawAxis.Update(), pitchAxis.Update())

		if err := v.Draw(); err != nil {
			cleanup()
			return err
		}
		if err := term.Display(); err != nil {
			cleanup()
			return fmt.Errorf("display: %w", err)
		}

		overlay.updateFPS()
		overlay.render(v, width, height)

		if elapsed := time.Since(frameStart); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
