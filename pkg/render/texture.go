package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"

	_ "golang.org/x/image/bmp" // Register BMP decoder
	"golang.org/x/image/draw"
)

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation (smooth)
)

// Texture holds a decoded 2D image. It is read-only after construction and
// may be shared by any number of materials.
type Texture struct {
	Width      int
	Height     int
	Pixels     []Color // Row-major, row 0 is the top of the image
	FilterMode FilterMode
}

// NewTexture creates a black texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture loads a texture from an image file (PNG, JPEG or BMP).
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage copies img into a texture. Alpha is discarded.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	tex := NewTexture(b.Dx(), b.Dy())
	for i := range tex.Pixels {
		p := dst.Pix[i*4 : i*4+3 : i*4+3]
		tex.Pixels[i] = Color{R: p[0], G: p[1], B: p[2]}
	}
	return tex
}

// NewCheckerTexture creates a checkerboard of square cells checkSize pixels
// wide, starting with c1 in the top-left corner.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for i := range tex.Pixels {
		x, y := i%width, i/width
		if (x/checkSize+y/checkSize)&1 == 0 {
			tex.Pixels[i] = c1
		} else {
			tex.Pixels[i] = c2
		}
	}
	return tex
}

func (t *Texture) inBounds(x, y int) bool {
	return x >= 0 && x < t.Width && y >= 0 && y < t.Height
}

// SetPixel sets a pixel. Out of range coordinates are ignored.
func (t *Texture) SetPixel(x, y int, c Color) {
	if t.inBounds(x, y) {
		t.Pixels[y*t.Width+x] = c
	}
}

// GetPixel returns the pixel at (x, y). Coordinates outside the image
// return ColorMagenta so bad lookups are visible in the render.
func (t *Texture) GetPixel(x, y int) Color {
	if !t.inBounds(x, y) {
		return ColorMagenta
	}
	return t.Pixels[y*t.Width+x]
}

// Sample looks up the texture at (u, v). Both are clamped to [0, 1] and
// v=1 is the top row of the image.
func (t *Texture) Sample(u, v float64) Color {
	// image rows run top-down, v runs bottom-up
	px := clamp01(u) * float64(t.Width)
	py := (1 - clamp01(v)) * float64(t.Height)

	if t.FilterMode == FilterBilinear {
		return t.bilinear(px-0.5, py-0.5)
	}
	return t.GetPixel(clampIndex(int(px), t.Width), clampIndex(int(py), t.Height))
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(0, math.Min(1, x))
}

// bilinear blends the four texels around the pixel-space point (fx, fy).
func (t *Texture) bilinear(fx, fy float64) Color {
	x0, y0 := math.Floor(fx), math.Floor(fy)
	tx, ty := fx-x0, fy-y0

	ix, iy := int(x0), int(y0)
	left, right := clampIndex(ix, t.Width), clampIndex(ix+1, t.Width)
	top, bottom := clampIndex(iy, t.Height), clampIndex(iy+1, t.Height)

	upper := lerpColor(t.GetPixel(left, top), t.GetPixel(right, top), tx)
	lower := lerpColor(t.GetPixel(left, bottom), t.GetPixel(right, bottom), tx)
	return lerpColor(upper, lower, ty)
}

func clampIndex(i, size int) int {
	return max(0, min(i, size-1))
}

func lerpColor(a, b Color, t float64) Color {
	mix := func(x, y uint8) float64 {
		return float64(x) + (float64(y)-float64(x))*t
	}
	return FromFloat(mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B))
}
