package models

import (
	"fmt"
	"math"

	"github.com/taigrr/diorama/pkg/math3d"
)

// faceEpsilon is the tolerance used to decide which face a hit lies on.
const faceEpsilon = 1e-4

// Box is an axis-aligned box.
type Box struct {
	Min      math3d.Vec3
	Max      math3d.Vec3
	Material *Material
}

// NewBox creates a box from two opposite corners in any order. Corners that
// share a coordinate on any axis are rejected.
func NewBox(a, b math3d.Vec3, mat *Material) (*Box, error) {
	lo, hi := a.Min(b), a.Max(b)
	if !lo.IsFinite() || !hi.IsFinite() || lo.X == hi.X || lo.Y == hi.Y || lo.Z == hi.Z {
		return nil, fmt.Errorf("%w: box %v..%v", ErrDegenerateGeometry, a, b)
	}
	return &Box{Min: lo, Max: hi, Material: mat}, nil
}

// Intersect implements the slab test. When the origin is inside the box the
// exit point is reported.
func (b *Box) Intersect(origin, dir math3d.Vec3) Intersect {
	tmin := math.Inf(-1)
	tmax := math.Inf(1)

	for axis := range 3 {
		o, d := origin.Axis(axis), dir.Axis(axis)
		if d == 0 {
			// Parallel to the slab: the planes sit at ±Inf along the ray.
			// Testing the origin directly avoids 0/0 on a boundary.
			if o < b.Min.Axis(axis) || o > b.Max.Axis(axis) {
				return NoHit()
			}
			continue
		}
		t0 := (b.Min.Axis(axis) - o) / d
		t1 := (b.Max.Axis(axis) - o) / d
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tmax || tmin > t1 {
			return NoHit()
		}
		tmin = math.Max(tmin, t0)
		tmax = math.Min(tmax, t1)
	}

	if tmax < 0 {
		return NoHit()
	}
	t := tmin
	if t < 0 {
		t = tmax
	}

	p := origin.Add(dir.Scale(t))
	u, v := b.uv(p)
	return Intersect{
		Point:    p,
		Normal:   b.normal(p),
		Distance: t,
		Material: b.Material,
		U:        u,
		V:        v,
		Hit:      true,
	}
}

func (b *Box) normal(p math3d.Vec3) math3d.Vec3 {
	switch {
	case math.Abs(p.X-b.Min.X) < faceEpsilon:
		return math3d.V3(-1, 0, 0)
	case math.Abs(p.X-b.Max.X) < faceEpsilon:
		return math3d.V3(1, 0, 0)
	case math.Abs(p.Y-b.Min.Y) < faceEpsilon:
		return math3d.V3(0, -1, 0)
	case math.Abs(p.Y-b.Max.Y) < faceEpsilon:
		return math3d.V3(0, 1, 0)
	case math.Abs(p.Z-b.Min.Z) < faceEpsilon:
		return math3d.V3(0, 0, -1)
	default:
		return math3d.V3(0, 0, 1)
	}
}

// uv maps the hit point onto the two axes spanning its face.
func (b *Box) uv(p math3d.Vec3) (u, v float64) {
	size := b.Size()
	rel := p.Sub(b.Min)
	switch {
	case math.Abs(p.Y-b.Max.Y) < faceEpsilon, math.Abs(p.Y-b.Min.Y) < faceEpsilon:
		return rel.X / size.X, rel.Z / size.Z
	case math.Abs(p.X-b.Min.X) < faceEpsilon, math.Abs(p.X-b.Max.X) < faceEpsilon:
		return rel.Z / size.Z, rel.Y / size.Y
	default:
		return rel.X / size.X, rel.Y / size.Y
	}
}

// Size returns the box dimensions.
func (b *Box) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

func (b *Box) Centroid() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

func (b *Box) Extent() float64 {
	return b.Size().Len() * 0.5
}

func (b *Box) Surface() *Material {
	return b.Material
}
