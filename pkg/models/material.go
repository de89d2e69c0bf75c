package models

import (
	"github.com/taigrr/diorama/pkg/render"
)

// Albedo channel indices.
const (
	AlbedoDiffuse = iota
	AlbedoSpecular
	AlbedoReflect
	AlbedoRefract
)

// Material holds per-surface shading parameters. Materials are shared by
// pointer between primitives and must not be mutated after scene setup.
type Material struct {
	Name     string
	Diffuse  render.Color // Used when Texture is nil
	Specular float32      // Phong exponent
	// Albedo weights diffuse, specular, reflection and refraction. Keep
	// Albedo[2]+Albedo[3] <= 1.
	Albedo          [4]float32
	RefractiveIndex float32
	Texture         *render.Texture

	Emission         *render.Color
	EmissionStrength float32
}

// NewMaterial creates an untextured, non-emissive material.
func NewMaterial(diffuse render.Color, specular float32, albedo [4]float32, ior float32) *Material {
	return &Material{
		Diffuse:         diffuse,
		Specular:        specular,
		Albedo:          albedo,
		RefractiveIndex: ior,
	}
}

// NewTexturedMaterial creates a material whose diffuse colour comes from tex.
func NewTexturedMaterial(tex *render.Texture, specular float32, albedo [4]float32, ior float32) *Material {
	m := NewMaterial(render.ColorWhite, specular, albedo, ior)
	m.Texture = tex
	return m
}

// Black is a material that reflects nothing.
func Black() *Material {
	return &Material{Name: "black"}
}

// WithEmission returns a copy of m that emits c scaled by strength.
func (m *Material) WithEmission(c render.Color, strength float32) *Material {
	out := *m
	out.Emission = &c
	out.EmissionStrength = strength
	return &out
}

// DiffuseAt returns the diffuse colour at surface coordinates (u, v).
func (m *Material) DiffuseAt(u, v float64) render.Color {
	if m.Texture != nil {
		return m.Texture.Sample(u, v)
	}
	return m.Diffuse
}

// IsEmissive reports whether the material is a light source. A black
// emission colour emits nothing.
func (m *Material) IsEmissive() bool {
	return m != nil && m.Emission != nil && !m.Emission.IsBlack() && m.EmissionStrength > 0
}

// EmittedColor is the emission colour scaled by its strength.
func (m *Material) EmittedColor() render.Color {
	if !m.IsEmissive() {
		return render.ColorBlack
	}
	return m.Emission.Scale(m.EmissionStrength)
}

func (m *Material) Reflectivity() float32 { return m.Albedo[AlbedoReflect] }
func (m *Material) Transparency() float32 { return m.Albedo[AlbedoRefract] }

// DirectWeight is the share left for diffuse and specular lighting.
func (m *Material) DirectWeight() float32 {
	return 1 - m.Reflectivity() - m.Transparency()
}
