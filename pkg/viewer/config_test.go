package viewer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults, got %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "primview.yaml")
	data := `
primitive: torus
render_mode: wireframe
view_mode: orthographic
fov_degrees: 60
background: {r: 10, g: 20, b: 30}
zoom_step: 1.25
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Primitive != "torus" {
		t.Errorf("primitive = %q, want torus", cfg.Primitive)
	}
	if cfg.RenderMode != "wireframe" {
		t.Errorf("render_mode = %q, want wireframe", cfg.RenderMode)
	}
	if cfg.ViewMode != "orthographic" {
		t.Errorf("view_mode = %q, want orthographic", cfg.ViewMode)
	}
	if cfg.FOVDegrees != 60 {
		t.Errorf("fov_degrees = %v, want 60", cfg.FOVDegrees)
	}
	if cfg.Background != (RGB{R: 10, G: 20, B: 30}) {
		t.Errorf("background = %+v, want 10,20,30", cfg.Background)
	}
	if cfg.ZoomStep != 1.25 {
		t.Errorf("zoom_step = %v, want 1.25", cfg.ZoomStep)
	}

	// Unset fields keep their defaults.
	if cfg.RotateSpeed != DefaultConfig().RotateSpeed {
		t.Errorf("rotate_speed = %v, want default", cfg.RotateSpeed)
	}
}

func TestLoadConfigRejectsBadTokens(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad primitive", "primitive: octahedron"},
		{"bad render mode", "render_mode: pbr"},
		{"bad view mode", "view_mode: fisheye"},
		{"bad fov", "fov_degrees: 400"},
		{"bad zoom step", "zoom_step: 0.5"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte(":\n  - ]["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected parse error")
	}
}
