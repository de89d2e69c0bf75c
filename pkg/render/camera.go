package render

import (
	"math"

	"github.com/taigrr/diorama/pkg/math3d"
)

// DefaultFOV is the fixed vertical field of view (60 degrees).
const DefaultFOV = math.Pi / 3

// pitchLimit keeps orbiting away from the poles, where the basis flips.
const pitchLimit = math.Pi/2 - 0.1

// Camera is an eye/center/up look-at camera. Any mutation sets a dirty flag
// that Changed consumes, so a renderer redraws at most once per change.
type Camera struct {
	Eye    math3d.Vec3 // Position in world space
	Center math3d.Vec3 // Point the camera looks at
	Up     math3d.Vec3 // World up hint
	FOV    float64     // Vertical field of view in radians

	heading math3d.Vec3 // last non-zero forward, used while Eye == Center
	changed bool
}

// NewCamera creates a camera. It starts dirty so the first frame renders.
func NewCamera(eye, center, up math3d.Vec3) *Camera {
	c := &Camera{
		Eye:     eye,
		Center:  center,
		Up:      up,
		FOV:     DefaultFOV,
		heading: math3d.V3(0, 0, -1),
		changed: true,
	}
	c.track()
	return c
}

// Forward returns the unit direction from eye to center. With the eye on the
// center it keeps the last direction the camera faced.
func (c *Camera) Forward() math3d.Vec3 {
	d := c.Center.Sub(c.Eye)
	if d.LenSq() == 0 {
		return c.heading
	}
	return d.Normalize()
}

func (c *Camera) track() {
	if d := c.Center.Sub(c.Eye); d.LenSq() > 0 {
		c.heading = d.Normalize()
	}
}

// Basis returns the orthonormal camera frame as a matrix whose columns are
// right, true up and -forward.
func (c *Camera) Basis() math3d.Mat4 {
	forward := c.Forward()
	right := forward.Cross(c.Up).Normalize()
	up := right.Cross(forward).Normalize()
	return math3d.Basis(right, up, forward.Negate())
}

// BasisChange maps a camera-space direction (looking down -Z) to world space.
func (c *Camera) BasisChange(v math3d.Vec3) math3d.Vec3 {
	return c.Basis().MulVec3Dir(v).Normalize()
}

// Orbit rotates the eye around the center on a sphere of constant radius.
// Yaw wraps at 2π; pitch is clamped short of the poles.
func (c *Camera) Orbit(deltaYaw, deltaPitch float64) {
	offset := c.Eye.Sub(c.Center)
	radius := offset.Len()

	yaw := math.Atan2(offset.Z, offset.X)
	pitch := math.Atan2(-offset.Y, math.Hypot(offset.X, offset.Z))

	yaw = math.Mod(yaw+deltaYaw, 2*math.Pi)
	pitch = math.Max(-pitchLimit, math.Min(pitchLimit, pitch+deltaPitch))

	c.Eye = c.Center.Add(math3d.V3(
		radius*math.Cos(yaw)*math.Cos(pitch),
		-radius*math.Sin(pitch),
		radius*math.Sin(yaw)*math.Cos(pitch),
	))
	c.track()
	c.changed = true
}

// Zoom moves the eye toward the center by amount (negative moves away).
// There is no minimum distance; the eye can pass through the center.
func (c *Camera) Zoom(amount float64) {
	c.Eye = c.Eye.Add(c.Forward().Scale(amount))
	c.track()
	c.changed = true
}

// SetEye moves the eye and marks the camera dirty.
func (c *Camera) SetEye(eye math3d.Vec3) {
	c.Eye = eye
	c.track()
	c.changed = true
}

// Invalidate marks the camera dirty without moving it.
func (c *Camera) Invalidate() {
	c.changed = true
}

// Changed reports whether the camera moved since the last call and clears
// the flag.
func (c *Camera) Changed() bool {
	if c.changed {
		c.changed = false
		return true
	}
	return false
}

// Distance returns the eye-to-center distance.
func (c *Camera) Distance() float64 {
	return c.Eye.Distance(c.Center)
}
