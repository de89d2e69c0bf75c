// Package models provides the scene primitives, materials and lights the
// diorama ray tracer intersects and shades, plus glTF import.
package models

import (
	"errors"
	"math"

	"github.com/taigrr/diorama/pkg/math3d"
)

// ErrDegenerateGeometry is returned when a primitive has no volume or
// non-finite coordinates.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// Intersect describes a ray/primitive hit. The zero value is not a valid
// miss; use NoHit, whose Distance compares farther than any real hit.
type Intersect struct {
	Point    math3d.Vec3
	Normal   math3d.Vec3
	Distance float64
	Material *Material
	U, V     float64
	Hit      bool
}

// NoHit returns the empty intersection.
func NoHit() Intersect {
	return Intersect{Distance: math.Inf(1)}
}

// Primitive is anything a ray can be tested against.
type Primitive interface {
	// Intersect tests the ray origin + t*dir. dir need not be normalized.
	Intersect(origin, dir math3d.Vec3) Intersect
	// Centroid is the primitive's center point.
	Centroid() math3d.Vec3
	// Extent is the radius of a sphere around Centroid enclosing the primitive.
	Extent() float64
	Surface() *Material
}
