package main

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// settleThreshold is the angle below which an axis snaps to its target.
const settleThreshold = 1e-3

// OrbitAxis eases one camera angle toward a target with a critically
// damped spring. Key presses move the target; the camera is fed the
// per-frame difference so the total rotation matches the requested one.
type OrbitAxis struct {
	Position float64
	Target   float64
	velocity float64
	spring   harmonica.Spring
}

// NewOrbitAxis creates an axis stepped fps times per second.
func NewOrbitAxis(fps int) OrbitAxis {
	return OrbitAxis{
		spring: harmonica.NewSpring(harmonica.FPS(fps), 8.0, 1.0),
	}
}

// Nudge moves the target by delta radians.
func (a *OrbitAxis) Nudge(delta float64) {
	a.Target += delta
}

// Settled reports whether the axis has reached its target.
func (a *OrbitAxis) Settled() bool {
	return a.Position == a.Target
}

// Step advances the spring one frame and returns how far the axis moved.
func (a *OrbitAxis) Step() float64 {
	if a.Settled() {
		return 0
	}
	prev := a.Position
	a.Position, a.velocity = a.spring.Update(a.Position, a.velocity, a.Target)
	if math.Abs(a.Target-a.Position) < settleThreshold && math.Abs(a.velocity) < settleThreshold {
		a.Position = a.Target
		a.velocity = 0
	}
	return a.Position - prev
}

// OrbitState holds the yaw and pitch axes driving the camera.
type OrbitState struct {
	Yaw, Pitch OrbitAxis
	fps        int
}

func NewOrbitState(fps int) *OrbitState {
	return &OrbitState{
		Yaw:   NewOrbitAxis(fps),
		Pitch: NewOrbitAxis(fps),
		fps:   fps,
	}
}

// Step returns the yaw and pitch deltas for this frame.
func (o *OrbitState) Step() (yaw, pitch float64) {
	return o.Yaw.Step(), o.Pitch.Step()
}

// Settled reports whether both axes are at rest.
func (o *OrbitState) Settled() bool {
	return o.Yaw.Settled() && o.Pitch.Settled()
}

func (o *OrbitState) Reset() {
	o.Yaw = NewOrbitAxis(o.fps)
	o.Pitch = NewOrbitAxis(o.fps)
}
