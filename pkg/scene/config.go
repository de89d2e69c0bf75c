package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/models"
	"github.com/taigrr/diorama/pkg/render"
)

// Vectors decode from {"x":..,"y":..,"z":..} and colours from
// {"r":..,"g":..,"b":..}; encoding/json matches field names case-insensitively.

type CameraCfg struct {
	Eye    *math3d.Vec3 `json:"eye,omitempty"`
	Center *math3d.Vec3 `json:"center,omitempty"`
	Up     *math3d.Vec3 `json:"up,omitempty"`
}

type LightCfg struct {
	Position  math3d.Vec3   `json:"position"`
	Color     *render.Color `json:"color,omitempty"`
	Intensity *float32      `json:"intensity,omitempty"`
}

type SkyCfg struct {
	Day             *render.Color `json:"day,omitempty"`
	Night           *render.Color `json:"night,omitempty"`
	NightLightScale *float32      `json:"nightLightScale,omitempty"`
}

type MaterialCfg struct {
	Diffuse          render.Color  `json:"diffuse"`
	Specular         float32       `json:"specular"`
	Albedo           [4]float32    `json:"albedo"`
	RefractiveIndex  float32       `json:"refractiveIndex,omitempty"`
	Texture          string        `json:"texture,omitempty"`
	Filter           string        `json:"filter,omitempty"` // "nearest" or "bilinear"
	Emission         *render.Color `json:"emission,omitempty"`
	EmissionStrength float32       `json:"emissionStrength,omitempty"`
}

type BoxCfg struct {
	Min      math3d.Vec3 `json:"min"`
	Max      math3d.Vec3 `json:"max"`
	Material string      `json:"material"`
}

type SphereCfg struct {
	Center   math3d.Vec3 `json:"center"`
	Radius   float64     `json:"radius"`
	Material string      `json:"material"`
}

// ModelCfg imports a glTF/GLB file; every triangle primitive becomes its
// bounding box after scaling then translating.
type ModelCfg struct {
	Path      string      `json:"path"`
	Translate math3d.Vec3 `json:"translate"`
	Scale     float64     `json:"scale,omitempty"`    // defaults 1
	Material  string      `json:"material,omitempty"` // overrides the file's materials
}

// Config is the JSON scene description.
type Config struct {
	Name string `json:"name,omitempty"`
	// Diorama starts from the built-in house and adds the listed objects.
	Diorama   bool                   `json:"diorama,omitempty"`
	Camera    *CameraCfg             `json:"camera,omitempty"`
	Light     *LightCfg              `json:"light,omitempty"`
	Sky       *SkyCfg                `json:"sky,omitempty"`
	Night     bool                   `json:"night,omitempty"`
	Materials map[string]MaterialCfg `json:"materials,omitempty"`
	Boxes     []BoxCfg               `json:"boxes,omitempty"`
	Spheres   []SphereCfg            `json:"spheres,omitempty"`
	Models    []ModelCfg             `json:"models,omitempty"`
}

// Open builds the scene used by the command-line tools: the built-in
// diorama when path is empty, otherwise the JSON file at path. Default
// materials are always registered so files can reference them.
func Open(path, textureDir string) (*Scene, error) {
	a := NewAssets()
	if err := RegisterDefaults(a, textureDir); err != nil {
		return nil, err
	}
	if path == "" {
		return Diorama(a)
	}
	return LoadFile(path, a)
}

// LoadFile reads a JSON scene. Relative texture and model paths resolve
// against the file's directory.
func LoadFile(path string, a *Assets) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	s, err := Load(f, filepath.Dir(path), a)
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", path, err)
	}
	return s, nil
}

// Load decodes a JSON scene from r. Unknown fields are rejected.
func Load(r io.Reader, baseDir string, a *Assets) (*Scene, error) {
	var cfg Config
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return cfg.Build(baseDir, a)
}

// Build registers the config's materials in a and constructs the scene.
func (c Config) Build(baseDir string, a *Assets) (*Scene, error) {
	for name, mc := range c.Materials {
		m, err := mc.Build(baseDir, a)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", name, err)
		}
		a.AddMaterial(name, m)
	}

	var s *Scene
	if c.Diorama {
		d, err := Diorama(a)
		if err != nil {
			return nil, err
		}
		s = d
	} else {
		s = New("")
	}
	if c.Name != "" {
		s.Name = c.Name
	}

	if cam := c.Camera; cam != nil {
		if cam.Eye != nil {
			s.View.Eye = *cam.Eye
		}
		if cam.Center != nil {
			s.View.Center = *cam.Center
		}
		if cam.Up != nil {
			s.View.Up = *cam.Up
		}
	}
	if l := c.Light; l != nil {
		light := models.DefaultLight()
		light.Position = l.Position
		if l.Color != nil {
			light.Color = *l.Color
		}
		if l.Intensity != nil {
			light = models.NewLight(light.Position, light.Color, *l.Intensity)
		}
		s.Light = light
	}
	if sky := c.Sky; sky != nil {
		if sky.Day != nil {
			s.Sky.Day = *sky.Day
		}
		if sky.Night != nil {
			s.Sky.Night = *sky.Night
		}
		if sky.NightLightScale != nil {
			s.Sky.NightLightScale = *sky.NightLightScale
		}
	}
	s.SetNight(c.Night)

	for i, bc := range c.Boxes {
		box, err := bc.Build(a)
		if err != nil {
			return nil, fmt.Errorf("box %d: %w", i, err)
		}
		s.Add(box)
	}
	for i, sc := range c.Spheres {
		sphere, err := sc.Build(a)
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		s.Add(sphere)
	}
	for _, mc := range c.Models {
		boxes, err := mc.Build(baseDir, a)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", mc.Path, err)
		}
		for _, b := range boxes {
			s.Add(b)
		}
	}
	return s, nil
}

// Build creates the material, loading its texture through a.
func (mc MaterialCfg) Build(baseDir string, a *Assets) (*models.Material, error) {
	m := models.NewMaterial(mc.Diffuse, mc.Specular, mc.Albedo, mc.RefractiveIndex)
	if mc.Albedo[models.AlbedoReflect]+mc.Albedo[models.AlbedoRefract] > 1 {
		return nil, fmt.Errorf("reflectivity + transparency exceeds 1: %v", mc.Albedo)
	}
	if mc.Texture != "" {
		tex, err := a.Texture(resolve(baseDir, mc.Texture))
		if err != nil {
			return nil, err
		}
		switch mc.Filter {
		case "", "nearest":
		case "bilinear":
			// Copy so other materials sharing the image keep their filter.
			filtered := *tex
			filtered.FilterMode = render.FilterBilinear
			tex = &filtered
		default:
			return nil, fmt.Errorf("unknown filter %q", mc.Filter)
		}
		m.Texture = tex
		m.Diffuse = render.ColorWhite
	}
	if mc.Emission != nil {
		m = m.WithEmission(*mc.Emission, mc.EmissionStrength)
	}
	return m, nil
}

func (bc BoxCfg) Build(a *Assets) (*models.Box, error) {
	m, err := a.Material(bc.Material)
	if err != nil {
		return nil, err
	}
	return models.NewBox(bc.Min, bc.Max, m)
}

func (sc SphereCfg) Build(a *Assets) (*models.Sphere, error) {
	m, err := a.Material(sc.Material)
	if err != nil {
		return nil, err
	}
	return models.NewSphere(sc.Center, sc.Radius, m)
}

// Build loads the model and returns one box per mesh.
func (mc ModelCfg) Build(baseDir string, a *Assets) ([]*models.Box, error) {
	var override *models.Material
	if mc.Material != "" {
		m, err := a.Material(mc.Material)
		if err != nil {
			return nil, err
		}
		override = m
	}

	meshes, err := models.LoadGLB(resolve(baseDir, mc.Path))
	if err != nil {
		return nil, err
	}

	scale := mc.Scale
	if scale == 0 {
		scale = 1
	}
	transform := math3d.Translate(mc.Translate).Mul(math3d.ScaleUniform(scale))

	boxes := make([]*models.Box, 0, len(meshes))
	for _, mesh := range meshes {
		mesh.Transform(transform)
		if override != nil {
			mesh.Material = override
		}
		box, err := mesh.ToBox()
		if err != nil {
			return nil, fmt.Errorf("mesh %s: %w", mesh.Name, err)
		}
		boxes = append(boxes, box)
	}
	return boxes, nil
}

func resolve(baseDir, path string) string {
	if baseDir == "" || filepath.IsAbs(path) || strings.HasPrefix(path, ProceduralPrefix) {
		return path
	}
	return filepath.Join(baseDir, path)
}
