package raytrace

import (
	"math"
	"testing"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/models"
	"github.com/taigrr/diorama/pkg/render"
)

var sky = render.RGB(68, 142, 228)

func mustBox(t testing.TB, lo, hi math3d.Vec3, m *models.Material) *models.Box {
	t.Helper()
	b, err := models.NewBox(lo, hi, m)
	if err != nil {
		t.Fatalf("NewBox: %v", err)
	}
	return b
}

func matte(c render.Color) *models.Material {
	return models.NewMaterial(c, 0, [4]float32{1, 0, 0, 0}, 1)
}

func TestNewTracerEmitters(t *testing.T) {
	plain := matte(render.ColorWhite)
	glow := plain.WithEmission(render.ColorWhite, 1)
	unlit := plain.WithEmission(render.ColorBlack, 5)

	sphere, err := models.NewSphere(math3d.V3(5, 0, 0), 1, glow)
	if err != nil {
		t.Fatal(err)
	}
	prims := []models.Primitive{
		mustBox(t, math3d.V3(0, 0, 0), math3d.V3(1, 1, 1), plain),
		mustBox(t, math3d.V3(2, 0, 0), math3d.V3(3, 1, 1), glow),
		mustBox(t, math3d.V3(7, 0, 0), math3d.V3(8, 1, 1), unlit),
		sphere,
	}

	tr := NewTracer(prims, models.DefaultLight(), sky, nil)
	if len(tr.emitters) != 2 || tr.emitters[0] != 1 || tr.emitters[1] != 3 {
		t.Errorf("emitters = %v, want [1 3]", tr.emitters)
	}
}

func TestCastRayMissReturnsBackground(t *testing.T) {
	box := mustBox(t, math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1), matte(render.ColorWhite))

	tests := []struct {
		name  string
		prims []models.Primitive
		dir   math3d.Vec3
	}{
		{"empty scene", nil, math3d.V3(0, 0, -1)},
		{"pointing away", []models.Primitive{box}, math3d.V3(0, 0, 1)},
		{"passing above", []models.Primitive{box}, math3d.V3(0, 1, -1).Normalize()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := NewTracer(tc.prims, models.DefaultLight(), sky, nil)
			if got := tr.CastRay(math3d.V3(0, 0, 5), tc.dir, 0); got != sky {
				t.Errorf("CastRay = %v, want background %v", got, sky)
			}
		})
	}
}

func TestCastRayDepthLimit(t *testing.T) {
	box := mustBox(t, math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1), matte(render.RGB(255, 0, 0)))
	tr := NewTracer([]models.Primitive{box}, models.DefaultLight(), sky, nil)

	if got := tr.CastRay(math3d.V3(0, 0, 5), math3d.V3(0, 0, -1), MaxDepth+1); got != sky {
		t.Errorf("depth %d = %v, want background", MaxDepth+1, got)
	}
	if got := tr.CastRay(math3d.V3(0, 0, 5), math3d.V3(0, 0, -1), MaxDepth); got == sky {
		t.Errorf("depth %d should still shade", MaxDepth)
	}
}

func TestCastRayDirectDiffuse(t *testing.T) {
	box := mustBox(t, math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1), matte(render.RGB(200, 100, 50)))
	light := models.NewLight(math3d.V3(0, 0, 10), render.ColorWhite, 1)
	tr := NewTracer([]models.Primitive{box}, light, sky, nil)

	if got := tr.CastRay(math3d.V3(0, 0, 5), math3d.V3(0, 0, -1), 0); got != render.RGB(200, 100, 50) {
		t.Errorf("head-on lit face = %v, want full diffuse", got)
	}

	// Light behind the box: the front face gets nothing.
	tr.Light = models.NewLight(math3d.V3(0, 0, -10), render.ColorWhite, 1)
	if got := tr.CastRay(math3d.V3(0, 0, 5), math3d.V3(0, 0, -1), 0); !got.IsBlack() {
		t.Errorf("back-lit face = %v, want black", got)
	}
}

func TestShadowIntensity(t *testing.T) {
	floor := mustBox(t, math3d.V3(-5, -1, -5), math3d.V3(5, 0, 5), matte(render.ColorWhite))
	blocker := mustBox(t, math3d.V3(-1, 4, -1), math3d.V3(1, 5, 1), matte(render.ColorWhite))
	lamp := mustBox(t, math3d.V3(-1, 4, -1), math3d.V3(1, 5, 1), matte(render.ColorWhite).WithEmission(render.ColorWhite, 1))
	light := models.NewLight(math3d.V3(0, 10, 0), render.ColorWhite, 1)

	hit := floor.Intersect(math3d.V3(0, 5, 0.5), math3d.V3(0, -1, 0))
	if !hit.Hit {
		t.Fatal("floor not hit")
	}

	tests := []struct {
		name  string
		prims []models.Primitive
		want  float64
	}{
		{"unobstructed", []models.Primitive{floor}, 0},
		{"opaque occluder", []models.Primitive{floor, blocker}, 1},
		{"emissive occluder", []models.Primitive{floor, lamp}, 1 - 0.4*0.4},
		{"opaque wins over emissive", []models.Primitive{floor, lamp, blocker}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := NewTracer(tc.prims, light, sky, nil)
			got := float64(tr.ShadowIntensity(hit, light.Position))
			if math.Abs(got-tc.want) > 1e-3 {
				t.Errorf("ShadowIntensity = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCastRayShadowDarkens(t *testing.T) {
	floor := mustBox(t, math3d.V3(-5, -1, -5), math3d.V3(5, 0, 5), matte(render.ColorWhite))
	blocker := mustBox(t, math3d.V3(-1, 4, -1), math3d.V3(1, 5, 1), matte(render.ColorWhite))
	light := models.NewLight(math3d.V3(0, 10, 0), render.ColorWhite, 1)

	origin, dir := math3d.V3(0.5, 2, 3), math3d.V3(0, -2, -3).Normalize()
	lit := NewTracer([]models.Primitive{floor}, light, sky, nil).CastRay(origin, dir, 0)
	dark := NewTracer([]models.Primitive{floor, blocker}, light, sky, nil).CastRay(origin, dir, 0)

	if lit.IsBlack() {
		t.Fatal("unshadowed floor should be lit")
	}
	if !dark.IsBlack() {
		t.Errorf("shadowed floor = %v, want black", dark)
	}
}

func TestCastRayMirrorIsPureReflection(t *testing.T) {
	mirror := models.NewMaterial(render.ColorWhite, 50, [4]float32{0, 0, 1, 0}, 1)
	box := mustBox(t, math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1), mirror)
	// Only visible in the mirror: it sits behind the ray origin.
	target := mustBox(t, math3d.V3(-3, -3, 8), math3d.V3(3, 3, 9), matte(render.RGB(0, 180, 90)))
	light := models.NewLight(math3d.V3(0, 0, 4), render.ColorWhite, 1)
	tr := NewTracer([]models.Primitive{box, target}, light, sky, nil)

	origin, dir := math3d.V3(0, 0, 5), math3d.V3(0, 0, -1)
	hit, _ := tr.Nearest(origin, dir)
	reflected := Reflect(dir, hit.Normal).Normalize()
	want := tr.CastRay(OffsetOrigin(hit, reflected), reflected, 1)

	got := tr.CastRay(origin, dir, 0)
	if got != want {
		t.Errorf("mirror = %v, want reflected %v", got, want)
	}
	if got == sky || got.IsBlack() {
		t.Errorf("reflection should show the target, got %v", got)
	}
}

func TestRefract(t *testing.T) {
	t.Run("normal incidence passes straight", func(t *testing.T) {
		d := math3d.V3(0, 0, -1)
		in := Refract(d, math3d.V3(0, 0, 1), 1.5)
		if !in.Normalize().ApproxEqual(d, 1e-12) {
			t.Errorf("entering = %v", in)
		}
		out := Refract(in.Normalize(), math3d.V3(0, 0, -1), 1.5)
		if !out.Normalize().ApproxEqual(d, 1e-12) {
			t.Errorf("round trip = %v, want %v", out, d)
		}
	})

	t.Run("oblique slab round trip", func(t *testing.T) {
		d := math3d.V3(1, 0.3, -1).Normalize()
		in := Refract(d, math3d.V3(0, 0, 1), 1.5).Normalize()
		if in.X >= d.X {
			t.Errorf("entering ray should bend toward the normal: %v", in)
		}
		out := Refract(in, math3d.V3(0, 0, -1), 1.5).Normalize()
		if !out.ApproxEqual(d, 1e-9) {
			t.Errorf("round trip = %v, want %v", out, d)
		}
	})

	t.Run("total internal reflection", func(t *testing.T) {
		d := math3d.V3(1, 0, -0.2).Normalize()
		got := Refract(d, math3d.V3(0, 0, -1), 1.5)
		want := d.Reflect(math3d.V3(0, 0, 1))
		if !got.ApproxEqual(want, 1e-12) {
			t.Errorf("TIR = %v, want %v", got, want)
		}
	})

	t.Run("non-positive ior is vacuum", func(t *testing.T) {
		d := math3d.V3(1, 0, -1).Normalize()
		if got := Refract(d, math3d.V3(0, 0, 1), 0); !got.ApproxEqual(d, 1e-12) {
			t.Errorf("ior 0 = %v, want %v", got, d)
		}
	})
}

func TestOffsetOrigin(t *testing.T) {
	hit := models.Intersect{Point: math3d.V3(0, 0, 1), Normal: math3d.V3(0, 0, 1), Hit: true}

	if got := OffsetOrigin(hit, math3d.V3(0, 0, 1)); got != math3d.V3(0, 0, 1+OriginBias) {
		t.Errorf("outgoing = %v", got)
	}
	if got := OffsetOrigin(hit, math3d.V3(0, 0, -1)); got != math3d.V3(0, 0, 1-OriginBias) {
		t.Errorf("inward = %v", got)
	}
}

func TestCastRayThroughGlass(t *testing.T) {
	glass := models.NewMaterial(render.ColorWhite, 0, [4]float32{0, 0, 0, 1}, 1.5)
	pane := mustBox(t, math3d.V3(-2, -2, -0.5), math3d.V3(2, 2, 0.5), glass)
	wall := mustBox(t, math3d.V3(-10, -10, -6), math3d.V3(10, 10, -5), matte(render.RGB(250, 0, 0)))
	light := models.NewLight(math3d.V3(0, 0, -2), render.ColorWhite, 1)

	behind := NewTracer([]models.Primitive{wall}, light, sky, nil).CastRay(math3d.V3(0, 0, 5), math3d.V3(0, 0, -1), 2)
	through := NewTracer([]models.Primitive{pane, wall}, light, sky, nil).CastRay(math3d.V3(0, 0, 5), math3d.V3(0, 0, -1), 0)

	if through != behind {
		t.Errorf("clear pane = %v, want the wall colour %v", through, behind)
	}
}

func emissiveScene(t testing.TB) ([]models.Primitive, models.Light) {
	t.Helper()
	floor := mustBox(t, math3d.V3(-5, -1, -5), math3d.V3(5, 0, 5), matte(render.ColorWhite))
	lamp := mustBox(t, math3d.V3(-0.5, 2, -0.5), math3d.V3(0.5, 3, 0.5),
		matte(render.ColorWhite).WithEmission(render.ColorWhite, 10))
	dark := models.NewLight(math3d.V3(0, 20, 0), render.ColorWhite, 0)
	return []models.Primitive{floor, lamp}, dark
}

func TestCastRayEmission(t *testing.T) {
	prims, light := emissiveScene(t)
	origin, dir := math3d.V3(2, 5, 0), math3d.V3(0, -1, 0)

	a := NewTracer(prims, light, sky, NewSeededSampler(42)).CastRay(origin, dir, 0)
	b := NewTracer(prims, light, sky, NewSeededSampler(42)).CastRay(origin, dir, 0)
	if a != b {
		t.Errorf("same seed gave %v and %v", a, b)
	}
	if a.IsBlack() {
		t.Fatal("floor next to a lamp should receive emitted light")
	}
	if a.R != a.G || a.G != a.B {
		t.Errorf("white emitter on white floor = %v, want grey", a)
	}

	if got := NewTracer(prims, light, sky, nil).CastRay(origin, dir, 0); !got.IsBlack() {
		t.Errorf("without sampling the floor should be dark, got %v", got)
	}
}

func TestEmissionSkipsPointsBehindSurface(t *testing.T) {
	floor := mustBox(t, math3d.V3(-5, -1, -5), math3d.V3(5, 0, 5), matte(render.ColorWhite))
	// Every sample point of this lamp lies below the floor's top face.
	buried := mustBox(t, math3d.V3(-0.5, -10, -0.5), math3d.V3(0.5, -9, 0.5),
		matte(render.ColorWhite).WithEmission(render.ColorWhite, 10))
	dark := models.NewLight(math3d.V3(0, 20, 0), render.ColorWhite, 0)

	tr := NewTracer([]models.Primitive{floor, buried}, dark, sky, NewSeededSampler(3))
	if got := tr.CastRay(math3d.V3(2, 5, 0), math3d.V3(0, -1, 0), 0); !got.IsBlack() {
		t.Errorf("emitter behind the surface lit it: %v", got)
	}
}

func TestCastRayEmitterGlows(t *testing.T) {
	prims, light := emissiveScene(t)
	got := NewTracer(prims, light, sky, NewSeededSampler(1)).CastRay(math3d.V3(0, 10, 0), math3d.V3(0, -1, 0), 0)
	if got != render.ColorWhite {
		t.Errorf("lamp seen directly = %v, want white", got)
	}
}

func TestUniformSphere(t *testing.T) {
	s := NewSeededSampler(7)
	var mean math3d.Vec3
	const n = 4000
	for range n {
		d := UniformSphere(s.Get2D())
		if math.Abs(d.Len()-1) > 1e-9 {
			t.Fatalf("|%v| = %v", d, d.Len())
		}
		mean = mean.Add(d)
	}
	if mean.Scale(1.0/n).Len() > 0.05 {
		t.Errorf("mean direction %v is biased", mean.Scale(1.0/n))
	}

	if got := UniformSphere(math3d.V2(0, 0.5)); !got.ApproxEqual(math3d.V3(1, 0, 0), 1e-12) {
		t.Errorf("UniformSphere(0, 0.5) = %v", got)
	}
}

func BenchmarkCastRay(b *testing.B) {
	prims, light := emissiveScene(b)
	light.Intensity = 1
	tr := NewTracer(prims, light, sky, NewSeededSampler(1))
	origin, dir := math3d.V3(2, 5, 3), math3d.V3(0, -1, -0.5).Normalize()

	for b.Loop() {
		_ = tr.CastRay(origin, dir, 0)
	}
}
