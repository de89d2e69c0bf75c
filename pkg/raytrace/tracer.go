// Package raytrace implements the recursive shading pipeline: nearest-hit
// search, shadows, reflection, refraction and sampled emissive light.
package raytrace

import (
	"math"

	"github.com/chewxy/math32"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/models"
	"github.com/taigrr/diorama/pkg/render"
)

const (
	// MaxDepth is the deepest recursion level that still shades; deeper
	// calls return the background.
	MaxDepth = 3
	// OriginBias displaces secondary ray origins off the surface.
	OriginBias = 1e-4
	// EmissionSamples is the number of directions sampled per emitter.
	EmissionSamples = 16
)

// Tracer shades rays against a fixed primitive list. It is not safe for
// concurrent use because the sampler is stateful.
type Tracer struct {
	Primitives []models.Primitive
	Light      models.Light
	Background render.Color
	Sampler    Sampler

	emitters []int
}

// NewTracer creates a tracer. A nil sampler disables emissive sampling
// beyond the self-glow of directly hit emitters.
func NewTracer(prims []models.Primitive, light models.Light, background render.Color, sampler Sampler) *Tracer {
	t := &Tracer{
		Primitives: prims,
		Light:      light,
		Background: background,
		Sampler:    sampler,
	}
	for i, p := range prims {
		if p.Surface().IsEmissive() {
			t.emitters = append(t.emitters, i)
		}
	}
	return t
}

// Nearest returns the closest hit along the ray and the index of the
// primitive hit, or NoHit and -1.
func (t *Tracer) Nearest(origin, dir math3d.Vec3) (models.Intersect, int) {
	best := models.NoHit()
	index := -1
	for i, p := range t.Primitives {
		hit := p.Intersect(origin, dir)
		if hit.Hit && hit.Distance >= 0 && hit.Distance < best.Distance {
			best = hit
			index = i
		}
	}
	return best, index
}

// CastRay returns the colour seen along origin + t*dir. depth starts at 0.
func (t *Tracer) CastRay(origin, dir math3d.Vec3, depth int) render.Color {
	if depth > MaxDepth {
		return t.Background
	}

	hit, index := t.Nearest(origin, dir)
	if !hit.Hit {
		return t.Background
	}
	mat := hit.Material
	if mat == nil {
		mat = models.Black()
	}

	lightDir := t.Light.Position.Sub(hit.Point).Normalize()
	viewDir := origin.Sub(hit.Point).Normalize()
	reflectDir := Reflect(lightDir.Negate(), hit.Normal).Normalize()

	shadow := t.ShadowIntensity(hit, t.Light.Position)
	lightIntensity := t.Light.Intensity * (1 - shadow)

	diffuseIntensity := float32(math.Max(0, math.Min(1, hit.Normal.Dot(lightDir))))
	diffuse := mat.DiffuseAt(hit.U, hit.V).Scale(mat.Albedo[models.AlbedoDiffuse] * diffuseIntensity * lightIntensity)

	specularIntensity := math32.Pow(float32(math.Max(0, viewDir.Dot(reflectDir))), mat.Specular)
	specular := t.Light.Color.Scale(mat.Albedo[models.AlbedoSpecular] * specularIntensity * lightIntensity)

	emission := t.emission(hit, index)

	reflectColor := render.ColorBlack
	if reflectivity := mat.Reflectivity(); reflectivity > 0 {
		d := Reflect(dir, hit.Normal).Normalize()
		reflectColor = t.CastRay(OffsetOrigin(hit, d), d, depth+1)
	}

	refractColor := render.ColorBlack
	if transparency := mat.Transparency(); transparency > 0 {
		d := Refract(dir, hit.Normal, float64(mat.RefractiveIndex)).Normalize()
		refractColor = t.CastRay(OffsetOrigin(hit, d), d, depth+1)
	}

	direct := diffuse.Add(specular).Add(emission)
	return direct.Scale(mat.DirectWeight()).
		Add(reflectColor.Scale(mat.Reflectivity())).
		Add(refractColor.Scale(mat.Transparency()))
}

// ShadowIntensity reports how much of the light at target is blocked from
// the hit point: 0 is fully lit, 1 fully shadowed. Opaque occluders cast a
// full shadow; emissive occluders a partial one that fades with the square
// of their distance ratio, so glowing blocks do not black out the light.
func (t *Tracer) ShadowIntensity(hit models.Intersect, target math3d.Vec3) float32 {
	toTarget := target.Sub(hit.Point)
	dist := toTarget.Len()
	dir := toTarget.Normalize()
	origin := OffsetOrigin(hit, dir)

	var shadow float64
	for _, p := range t.Primitives {
		h := p.Intersect(origin, dir)
		if !h.Hit || h.Distance < 0 || h.Distance >= dist {
			continue
		}
		if !h.Material.IsEmissive() {
			return 1
		}
		ratio := h.Distance / dist
		shadow = math.Max(shadow, 1-math.Min(ratio*ratio, 1))
	}
	return float32(shadow)
}

// emission accumulates light from every emissive primitive other than the
// one hit, plus the hit primitive's own glow.
func (t *Tracer) emission(hit models.Intersect, hitIndex int) render.Color {
	var sum math3d.Vec3
	if hit.Material.IsEmissive() {
		glow := hit.Material.EmittedColor()
		sum = math3d.V3(float64(glow.R), float64(glow.G), float64(glow.B))
	}

	if t.Sampler != nil {
		const weight = 1.0 / EmissionSamples
		for _, i := range t.emitters {
			if i == hitIndex {
				continue
			}
			e := t.Primitives[i]
			mat := e.Surface()
			c := mat.Emission
			strength := float64(mat.EmissionStrength)
			base := math3d.V3(float64(c.R), float64(c.G), float64(c.B)).Scale(strength)

			// Each sample is a point source at the centroid pushed out along
			// a uniform sphere direction by the emitter's extent. The cosine
			// and the inverse-square falloff use the direction and distance
			// from the hit to that point, so samples behind the surface add
			// nothing.
			center, radius := e.Centroid(), e.Extent()
			for range EmissionSamples {
				point := center.Add(UniformSphere(t.Sampler.Get2D()).Scale(radius))
				toPoint := point.Sub(hit.Point)
				distSq := toPoint.LenSq()
				if distSq == 0 {
					continue
				}
				cos := hit.Normal.Dot(toPoint.Normalize())
				if cos <= 0 {
					continue
				}
				shadow := float64(t.ShadowIntensity(hit, point))
				sum = sum.Add(base.Scale(cos * weight / distSq * (1 - shadow)))
			}
		}
	}
	return render.FromFloat(sum.X, sum.Y, sum.Z)
}

// Reflect mirrors d about the normal n.
func Reflect(d, n math3d.Vec3) math3d.Vec3 {
	return d.Reflect(n)
}

// Refract bends d through a surface with normal n using Snell's law. The
// ray is entering when d opposes n (eta = 1/ior) and leaving otherwise
// (eta = ior, normal flipped). Total internal reflection returns the
// reflected direction. Non-positive ior is treated as 1.
func Refract(d, n math3d.Vec3, ior float64) math3d.Vec3 {
	if ior <= 0 {
		ior = 1
	}
	cosi := math.Max(-1, math.Min(1, d.Dot(n)))
	eta, normal := 1/ior, n
	if cosi < 0 {
		cosi = -cosi
	} else {
		eta, normal = ior, n.Negate()
	}

	k := 1 - eta*eta*(1-cosi*cosi)
	if k < 0 {
		return Reflect(d, normal)
	}
	return d.Scale(eta).Add(normal.Scale(eta*cosi - math.Sqrt(k)))
}

// OffsetOrigin nudges the hit point off the surface toward dir.
func OffsetOrigin(hit models.Intersect, dir math3d.Vec3) math3d.Vec3 {
	offset := hit.Normal.Scale(OriginBias)
	if dir.Dot(hit.Normal) < 0 {
		return hit.Point.Sub(offset)
	}
	return hit.Point.Add(offset)
}
