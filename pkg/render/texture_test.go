package render

import "testing"

func TestCheckerTexture(t *testing.T) {
	tex := NewCheckerTexture(8, 8, 2, RGB(255, 255, 255), RGB(0, 0, 0))

	if got := tex.GetPixel(0, 0); got != RGB(255, 255, 255) {
		t.Errorf("pixel (0,0) = %v, want white", got)
	}
	if got := tex.GetPixel(2, 0); got != RGB(0, 0, 0) {
		t.Errorf("pixel (2,0) = %v, want black", got)
	}
	if got := tex.GetPixel(2, 2); got != RGB(255, 255, 255) {
		t.Errorf("pixel (2,2) = %v, want white", got)
	}
}

func TestSampleNearestCorners(t *testing.T) {
	tex := NewTexture(2, 2)
	tex.SetPixel(0, 0, RGB(10, 0, 0)) // image top-left
	tex.SetPixel(1, 0, RGB(20, 0, 0))
	tex.SetPixel(0, 1, RGB(30, 0, 0)) // image bottom-left
	tex.SetPixel(1, 1, RGB(40, 0, 0))

	// V=0 samples the bottom image row.
	if got := tex.Sample(0, 0); got != RGB(30, 0, 0) {
		t.Errorf("Sample(0,0) = %v, want bottom-left", got)
	}
	if got := tex.Sample(0.99, 0.99); got != RGB(20, 0, 0) {
		t.Errorf("Sample(~1,~1) = %v, want top-right", got)
	}
}

func TestSampleWrapRepeat(t *testing.T) {
	tex := NewTexture(2, 2)
	tex.SetPixel(0, 0, RGB(10, 0, 0))
	tex.SetPixel(1, 0, RGB(20, 0, 0))
	tex.SetPixel(0, 1, RGB(30, 0, 0))
	tex.SetPixel(1, 1, RGB(40, 0, 0))

	// Coordinates past 1 tile back into [0,1).
	if got, want := tex.Sample(1.25, 0.25), tex.Sample(0.25, 0.25); got != want {
		t.Errorf("wrapped sample = %v, want %v", got, want)
	}
	if got, want := tex.Sample(-0.75, 0.25), tex.Sample(0.25, 0.25); got != want {
		t.Errorf("negative wrapped sample = %v, want %v", got, want)
	}
}

func TestSampleBilinearBlends(t *testing.T) {
	tex := NewTexture(2, 1)
	tex.FilterMode = FilterBilinear
	tex.WrapU = WrapClamp
	tex.WrapV = WrapClamp
	tex.SetPixel(0, 0, RGB(0, 0, 0))
	tex.SetPixel(1, 0, RGB(200, 0, 0))

	// Midway between the two texel centers the channels average.
	got := tex.Sample(0.5, 0.5)
	if got.R < 90 || got.R > 110 {
		t.Errorf("midpoint R = %d, want ~100", got.R)
	}

	// At a texel center bilinear matches the texel.
	if got := tex.Sample(0.25, 0.5); got.R > 10 {
		t.Errorf("left texel center R = %d, want ~0", got.R)
	}
}

func TestMultiplyColor(t *testing.T) {
	c := MultiplyColor(RGB(100, 200, 50), 0.5)
	if c.R != 50 || c.G != 100 || c.B != 25 {
		t.Errorf("MultiplyColor = %v, want 50,100,25", c)
	}
	if c.A != 255 {
		t.Errorf("alpha = %d, want 255", c.A)
	}

	// Intensity above 1 saturates instead of overflowing.
	c = MultiplyColor(RGB(200, 200, 200), 2.0)
	if c.R != 255 {
		t.Errorf("saturated R = %d, want 255", c.R)
	}
}
