// Package scene assembles primitives, materials and lighting into renderable
// scenes, either from the built-in diorama or from JSON files.
package scene

import (
	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/models"
	"github.com/taigrr/diorama/pkg/render"
)

// Sky holds the background colours and the light dimming used at night.
type Sky struct {
	Day             render.Color
	Night           render.Color
	NightLightScale float32
}

// DefaultSky pairs a clear blue day sky with a dark dusk sky.
func DefaultSky() Sky {
	return Sky{
		Day:             render.ColorSkyDay,
		Night:           render.ColorSkyDusk,
		NightLightScale: 0.25,
	}
}

// View is the initial camera placement.
type View struct {
	Eye    math3d.Vec3
	Center math3d.Vec3
	Up     math3d.Vec3
}

// DefaultView looks at the origin from ten units down +Z.
func DefaultView() View {
	return View{
		Eye:    math3d.V3(0, 0, 10),
		Center: math3d.Zero3(),
		Up:     math3d.Up(),
	}
}

// Camera creates a camera at the view.
func (v View) Camera() *render.Camera {
	return render.NewCamera(v.Eye, v.Center, v.Up)
}

// Scene is an ordered list of primitives with one point light. Primitives
// are scanned in order; earlier ones win exact distance ties.
type Scene struct {
	Name       string
	Primitives []models.Primitive
	Light      models.Light
	Sky        Sky
	View       View

	night bool
}

// New creates an empty scene with the default light, sky and view.
func New(name string) *Scene {
	return &Scene{
		Name:  name,
		Light: models.DefaultLight(),
		Sky:   DefaultSky(),
		View:  DefaultView(),
	}
}

// Add appends primitives.
func (s *Scene) Add(prims ...models.Primitive) {
	s.Primitives = append(s.Primitives, prims...)
}

// SetNight switches between the day and night sky.
func (s *Scene) SetNight(night bool) {
	s.night = night
}

// Night reports whether the night sky is active.
func (s *Scene) Night() bool {
	return s.night
}

// Background is the colour returned for rays that hit nothing.
func (s *Scene) Background() render.Color {
	if s.night {
		return s.Sky.Night
	}
	return s.Sky.Day
}

// ActiveLight is the point light dimmed for the current sky.
func (s *Scene) ActiveLight() models.Light {
	l := s.Light
	if s.night {
		l.Intensity *= s.Sky.NightLightScale
	}
	return l
}
