package raytrace

import (
	"math"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/models"
	"github.com/taigrr/diorama/pkg/render"
	"github.com/taigrr/diorama/pkg/scene"
)

// Renderer draws a scene from a camera into a framebuffer and decides when
// a new frame is needed.
type Renderer struct {
	Scene   *scene.Scene
	Camera  *render.Camera
	Sampler Sampler

	lastBackground render.Color
	lastLight      models.Light
	rendered       bool
	frames         int
}

// NewRenderer creates a renderer. sampler may be nil to skip emissive
// sampling.
func NewRenderer(s *scene.Scene, cam *render.Camera, sampler Sampler) *Renderer {
	return &Renderer{Scene: s, Camera: cam, Sampler: sampler}
}

// Tracer builds a tracer for the scene's current sky and light.
func (r *Renderer) Tracer() *Tracer {
	return NewTracer(r.Scene.Primitives, r.Scene.ActiveLight(), r.Scene.Background(), r.Sampler)
}

// Update renders only when the camera reported a change, the sky or active
// light changed, or nothing has been rendered yet. It reports whether fb was
// redrawn.
func (r *Renderer) Update(fb *render.Framebuffer) bool {
	cameraChanged := r.Camera.Changed()
	sceneChanged := r.Scene.Background() != r.lastBackground || r.Scene.ActiveLight() != r.lastLight
	if r.rendered && !cameraChanged && !sceneChanged {
		return false
	}
	r.Render(fb)
	return true
}

// Render traces every pixel of fb.
func (r *Renderer) Render(fb *render.Framebuffer) {
	tracer := r.Tracer()
	for y := range fb.Height {
		for x := range fb.Width {
			dir := PrimaryRay(r.Camera, x, y, fb.Width, fb.Height)
			fb.SetPixel(x, y, tracer.CastRay(r.Camera.Eye, dir, 0))
		}
	}
	r.lastBackground = tracer.Background
	r.lastLight = tracer.Light
	r.rendered = true
	r.frames++
}

// Frames returns how many frames have been rendered.
func (r *Renderer) Frames() int {
	return r.frames
}

// PrimaryRay returns the world-space direction through pixel (x, y).
func PrimaryRay(cam *render.Camera, x, y, width, height int) math3d.Vec3 {
	w, h := float64(width), float64(height)
	aspect := w / h
	scale := math.Tan(cam.FOV / 2)

	sx := (2*float64(x)/w - 1) * aspect * scale
	sy := (-2*float64(y)/h + 1) * scale
	return cam.BasisChange(math3d.V3(sx, sy, -1).Normalize())
}
