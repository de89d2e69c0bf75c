package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func newGradient2x2() *Texture {
	tex := NewTexture(2, 2)
	tex.SetPixel(0, 0, RGB(255, 0, 0)) // top-left
	tex.SetPixel(1, 0, RGB(0, 255, 0)) // top-right
	tex.SetPixel(0, 1, RGB(0, 0, 255)) // bottom-left
	tex.SetPixel(1, 1, RGB(255, 255, 255))
	return tex
}

func TestTextureGetPixelOutOfRange(t *testing.T) {
	tex := newGradient2x2()

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 0},
		{"negative y", 0, -1},
		{"past width", 2, 0},
		{"past height", 0, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tex.GetPixel(tc.x, tc.y); got != ColorMagenta {
				t.Errorf("GetPixel(%d,%d) = %v, want magenta", tc.x, tc.y, got)
			}
		})
	}
}

func TestTextureSampleFlipsAndClamps(t *testing.T) {
	tex := newGradient2x2()

	tests := []struct {
		name string
		u, v float64
		want Color
	}{
		{"v=1 is top row", 0.1, 0.9, RGB(255, 0, 0)},
		{"v=0 is bottom row", 0.1, 0.1, RGB(0, 0, 255)},
		{"u=1 right edge", 1, 1, RGB(0, 255, 0)},
		{"clamped above", 5, 5, RGB(0, 255, 0)},
		{"clamped below", -3, -3, RGB(0, 0, 255)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tex.Sample(tc.u, tc.v); got != tc.want {
				t.Errorf("Sample(%v,%v) = %v, want %v", tc.u, tc.v, got, tc.want)
			}
		})
	}
}

func TestTextureSampleBilinearCenter(t *testing.T) {
	tex := NewTexture(2, 1)
	tex.SetPixel(0, 0, RGB(0, 0, 0))
	tex.SetPixel(1, 0, RGB(200, 200, 200))
	tex.FilterMode = FilterBilinear

	got := tex.Sample(0.5, 0.5)
	if got.R < 99 || got.R > 101 {
		t.Errorf("bilinear center = %v, want ≈100", got)
	}
}

func TestCheckerTexture(t *testing.T) {
	tex := NewCheckerTexture(4, 4, 2, ColorWhite, ColorBlack)
	if tex.GetPixel(0, 0) != ColorWhite || tex.GetPixel(2, 0) != ColorBlack || tex.GetPixel(2, 2) != ColorWhite {
		t.Error("checker pattern mismatch")
	}
}

func TestLoadTexture(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadTexture(filepath.Join(t.TempDir(), "nope.png")); err == nil {
			t.Error("expected error for missing texture")
		}
	})

	t.Run("png", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 3, 2))
		img.Set(2, 1, color.RGBA{10, 20, 30, 255})
		path := filepath.Join(t.TempDir(), "tex.png")
		f, err := os.Create(path)
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(f, img); err != nil {
			t.Fatal(err)
		}
		f.Close()

		tex, err := LoadTexture(path)
		if err != nil {
			t.Fatalf("LoadTexture: %v", err)
		}
		if tex.Width != 3 || tex.Height != 2 {
			t.Fatalf("size = %dx%d, want 3x2", tex.Width, tex.Height)
		}
		if got := tex.GetPixel(2, 1); got != RGB(10, 20, 30) {
			t.Errorf("pixel = %v", got)
		}
	})

	t.Run("not an image", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.png")
		if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadTexture(path); err == nil {
			t.Error("expected decode error")
		}
	})
}
