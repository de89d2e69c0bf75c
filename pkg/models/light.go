package models

import (
	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/render"
)

// Light is a point light.
type Light struct {
	Position  math3d.Vec3
	Color     render.Color
	Intensity float32
}

// NewLight creates a point light. Negative intensities are clamped to zero.
func NewLight(pos math3d.Vec3, c render.Color, intensity float32) Light {
	return Light{Position: pos, Color: c, Intensity: max(intensity, 0)}
}

// DefaultLight is the white light used by the built-in diorama.
func DefaultLight() Light {
	return NewLight(math3d.V3(20, 20, 20), render.ColorWhite, 1)
}
