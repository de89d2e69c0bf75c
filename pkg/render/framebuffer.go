package render

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/bmp"
)

// ErrEmptyFramebuffer is returned when saving a framebuffer with no pixels.
var ErrEmptyFramebuffer = errors.New("empty framebuffer")

// Framebuffer is a 2D array of packed 0xRRGGBB pixels. When drawn to the
// terminal, two framebuffer rows share one terminal row (half-block cells).
type Framebuffer struct {
	Width  int
	Height int
	Pixels []uint32 // Row-major packed pixel data
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]uint32, width*height),
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c.Hex()
}

// GetPixel returns the color at (x, y).
// Returns black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return ColorBlack
	}
	return FromHex(fb.Pixels[y*fb.Width+x])
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := FromHex(fb.Pixels[y*fb.Width+x])
			img.SetRGBA(x, y, color.RGBA{c.R, c.G, c.B, 255})
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.ToImage())
}

// SaveBMP saves the framebuffer as an uncompressed 24-bit BMP file: a
// 54-byte header followed by bottom-up BGR rows padded to four bytes.
func (fb *Framebuffer) SaveBMP(path string) error {
	if fb.Width <= 0 || fb.Height <= 0 {
		return fmt.Errorf("save bmp %dx%d: %w", fb.Width, fb.Height, ErrEmptyFramebuffer)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	// ToImage is fully opaque, which selects the 24-bit encoding.
	if err := bmp.Encode(w, fb.ToImage()); err != nil {
		return fmt.Errorf("encode bmp: %w", err)
	}
	return w.Flush()
}
