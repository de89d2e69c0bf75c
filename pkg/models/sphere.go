package models

import (
	"fmt"
	"math"

	"github.com/taigrr/diorama/pkg/math3d"
)

// Sphere is a sphere primitive.
type Sphere struct {
	Center   math3d.Vec3
	Radius   float64
	Material *Material
}

// NewSphere creates a sphere. The radius must be positive.
func NewSphere(center math3d.Vec3, radius float64, mat *Material) (*Sphere, error) {
	if !center.IsFinite() || !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("%w: sphere radius %v", ErrDegenerateGeometry, radius)
	}
	return &Sphere{Center: center, Radius: radius, Material: mat}, nil
}

// Intersect solves |O + tD - C|² = r². Only the near root counts, and only
// when it lies in front of the origin.
func (s *Sphere) Intersect(origin, dir math3d.Vec3) Intersect {
	oc := origin.Sub(s.Center)
	a := dir.Dot(dir)
	b := 2 * oc.Dot(dir)
	c := oc.Dot(oc) - s.Radius*s.Radius

	disc := b*b - 4*a*c
	if disc <= 0 {
		return NoHit()
	}
	t := (-b - math.Sqrt(disc)) / (2 * a)
	if t <= 0 {
		return NoHit()
	}

	p := origin.Add(dir.Scale(t))
	n := p.Sub(s.Center).Div(s.Radius)
	return Intersect{
		Point:    p,
		Normal:   n,
		Distance: t,
		Material: s.Material,
		U:        0.5 + math.Atan2(n.Z, n.X)/(2*math.Pi),
		V:        0.5 - math.Asin(math.Max(-1, math.Min(1, n.Y)))/math.Pi,
		Hit:      true,
	}
}

func (s *Sphere) Centroid() math3d.Vec3 { return s.Center }
func (s *Sphere) Extent() float64       { return s.Radius }
func (s *Sphere) Surface() *Material    { return s.Material }
