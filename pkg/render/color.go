// Package render provides colours, textures, the camera and the framebuffer
// used to display diorama renders.
package render

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Color is an 8-bit-per-channel RGB colour. Add and Scale saturate, so a
// Color is always representable.
type Color struct {
	R, G, B uint8
}

// Colors for convenience
var (
	ColorBlack   = Color{0, 0, 0}
	ColorWhite   = Color{255, 255, 255}
	ColorMagenta = Color{255, 0, 255}
	ColorSkyDay  = Color{68, 142, 228}
	ColorSkyDusk = Color{12, 18, 44}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b}
}

// FromHex unpacks a 0xRRGGBB value.
func FromHex(hex uint32) Color {
	return Color{
		R: uint8(hex >> 16),
		G: uint8(hex >> 8),
		B: uint8(hex),
	}
}

// FromFloat converts linear channel values in [0, 255] to a Color,
// clamping anything outside the range.
func FromFloat(r, g, b float64) Color {
	return Color{clampChannel(float32(r)), clampChannel(float32(g)), clampChannel(float32(b))}
}

// Hex packs the colour as 0xRRGGBB.
func (c Color) Hex() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Add returns the channel-wise saturating sum.
func (c Color) Add(o Color) Color {
	return Color{addSat(c.R, o.R), addSat(c.G, o.G), addSat(c.B, o.B)}
}

// Scale multiplies every channel by s, clamping the result to [0, 255].
func (c Color) Scale(s float32) Color {
	if math32.IsNaN(s) || s <= 0 {
		return ColorBlack
	}
	return Color{
		clampChannel(float32(c.R) * s),
		clampChannel(float32(c.G) * s),
		clampChannel(float32(c.B) * s),
	}
}

// IsBlack reports whether all channels are zero.
func (c Color) IsBlack() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// RGBA implements color.Color with full opacity.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

func (c Color) String() string {
	return fmt.Sprintf("#%06x", c.Hex())
}

func addSat(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}

func clampChannel(v float32) uint8 {
	if math32.IsNaN(v) {
		return 0
	}
	return uint8(math32.Min(255, math32.Max(0, v)))
}
