package viewer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skylinker5/primview/pkg/geometry"
	"github.com/skylinker5/primview/pkg/render"
)

// RGB is a config-file color.
type RGB struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// Config holds the viewer's startup state and input tuning values. The
// speed constants scale raw input deltas before they reach the camera;
// they are presentation tuning, not camera contracts, which is why they
// live here instead of in the render package.
type Config struct {
	Primitive  string `yaml:"primitive"`
	RenderMode string `yaml:"render_mode"`
	ViewMode   string `yaml:"view_mode"`

	FOVDegrees float64 `yaml:"fov_degrees"`
	Background RGB     `yaml:"background"`

	// Input scaling, applied by the host adapter.
	RotateSpeed float64 `yaml:"rotate_speed"` // radians per input unit
	PanSpeed    float64 `yaml:"pan_speed"`    // view fractions per input unit
	ZoomStep    float64 `yaml:"zoom_step"`    // factor per wheel notch
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Primitive:   geometry.KindCube.String(),
		RenderMode:  render.RenderSolid.String(),
		ViewMode:    render.ViewPerspective.String(),
		FOVDegrees:  45,
		Background:  RGB{R: 211, G: 211, B: 211},
		RotateSpeed: 0.01,
		PanSpeed:    0.002,
		ZoomStep:    1.1,
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing file
// is not an error; invalid YAML or unknown tokens are.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks token fields and tuning ranges.
func (c Config) Validate() error {
	if _, ok := geometry.ParseKind(c.Primitive); !ok {
		return fmt.Errorf("%w: unknown primitive %q", ErrInvalidArgument, c.Primitive)
	}
	if _, ok := render.ParseRenderMode(c.RenderMode); !ok {
		return fmt.Errorf("%w: unknown render mode %q", ErrInvalidArgument, c.RenderMode)
	}
	if _, ok := render.ParseViewMode(c.ViewMode); !ok {
		return fmt.Errorf("%w: unknown view mode %q", ErrInvalidArgument, c.ViewMode)
	}
	if c.FOVDegrees <= 0 || c.FOVDegrees >= 180 {
		return fmt.Errorf("%w: fov_degrees %v out of range (0, 180)", ErrInvalidArgument, c.FOVDegrees)
	}
	if c.RotateSpeed <= 0 || c.PanSpeed <= 0 {
		return fmt.Errorf("%w: rotate_speed and pan_speed must be positive", ErrInvalidArgument)
	}
	if c.ZoomStep <= 1 {
		return fmt.Errorf("%w: zoom_step must be > 1", ErrInvalidArgument)
	}
	return nil
}
