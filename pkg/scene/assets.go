package scene

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/taigrr/diorama/pkg/models"
	"github.com/taigrr/diorama/pkg/render"
)

var (
	// ErrUnknownMaterial is returned when a scene references a material
	// that was never registered.
	ErrUnknownMaterial = errors.New("unknown material")
	// ErrUnknownTexture is returned for unknown procedural texture names.
	ErrUnknownTexture = errors.New("unknown texture")
)

// Built-in material names.
const (
	MaterialWood    = "wood"
	MaterialOldWood = "oldwood"
	MaterialDoor    = "door"
	MaterialGlass   = "glass"
	MaterialStone   = "stone"
	MaterialLantern = "lantern"
	MaterialCrystal = "crystal"
	MaterialMirror  = "mirror"
)

// Assets owns every texture and material of a scene. It is built once at
// startup and passed to scene construction; textures are loaded once and
// shared by pointer.
type Assets struct {
	textures  map[string]*render.Texture
	materials map[string]*models.Material
}

// NewAssets creates an empty registry.
func NewAssets() *Assets {
	return &Assets{
		textures:  make(map[string]*render.Texture),
		materials: make(map[string]*models.Material),
	}
}

// Texture returns the texture for path, loading it on first use. Paths with
// ProceduralPrefix are generated; anything else is decoded from disk and a
// failure is returned as-is.
func (a *Assets) Texture(path string) (*render.Texture, error) {
	if tex, ok := a.textures[path]; ok {
		return tex, nil
	}

	var (
		tex *render.Texture
		err error
	)
	if name, ok := strings.CutPrefix(path, ProceduralPrefix); ok {
		tex, err = ProceduralTexture(name)
	} else {
		tex, err = render.LoadTexture(path)
	}
	if err != nil {
		return nil, err
	}
	a.AddTexture(path, tex)
	return tex, nil
}

// AddTexture registers a texture under key, replacing any previous one.
func (a *Assets) AddTexture(key string, tex *render.Texture) {
	a.textures[key] = tex
}

// Material looks up a registered material.
func (a *Assets) Material(name string) (*models.Material, error) {
	m, ok := a.materials[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownMaterial, name, strings.Join(a.MaterialNames(), ", "))
	}
	return m, nil
}

// AddMaterial registers m under name and stamps the name on it.
func (a *Assets) AddMaterial(name string, m *models.Material) {
	m.Name = name
	a.materials[name] = m
}

// MaterialNames returns the registered names in sorted order.
func (a *Assets) MaterialNames() []string {
	names := make([]string, 0, len(a.materials))
	for name := range a.materials {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// textureFiles maps built-in materials to the image names looked up in a
// texture directory.
var textureFiles = map[string]string{
	MaterialWood:    "wood.jpg",
	MaterialOldWood: "oldwood.png",
	MaterialDoor:    "door.png",
	MaterialGlass:   "glass.png",
	MaterialStone:   "cobblestone.jpg",
}

var proceduralFor = map[string]string{
	MaterialWood:    "wood",
	MaterialOldWood: "plank",
	MaterialDoor:    "door",
	MaterialGlass:   "glass",
	MaterialStone:   "stone",
}

// RegisterDefaults adds the built-in materials. With textureDir empty the
// textures are procedural; otherwise they are read from textureDir and a
// missing file is an error.
func RegisterDefaults(a *Assets, textureDir string) error {
	opaque := [4]float32{0.9, 0.1, 0, 0}

	texture := func(material string) (*render.Texture, error) {
		if textureDir == "" {
			return a.Texture(ProceduralPrefix + proceduralFor[material])
		}
		return a.Texture(filepath.Join(textureDir, textureFiles[material]))
	}

	for _, name := range []string{MaterialWood, MaterialOldWood, MaterialDoor, MaterialStone} {
		tex, err := texture(name)
		if err != nil {
			return fmt.Errorf("load %s texture: %w", name, err)
		}
		a.AddMaterial(name, models.NewTexturedMaterial(tex, 50, opaque, 0))
	}

	glassTex, err := texture(MaterialGlass)
	if err != nil {
		return fmt.Errorf("load %s texture: %w", MaterialGlass, err)
	}
	a.AddMaterial(MaterialGlass, models.NewTexturedMaterial(glassTex, 50, [4]float32{0.9, 0.1, 0, 0.5}, 1.5))

	lantern := models.NewMaterial(render.RGB(255, 214, 150), 10, [4]float32{1, 0, 0, 0}, 1)
	a.AddMaterial(MaterialLantern, lantern.WithEmission(render.RGB(255, 190, 110), 1.5))
	a.AddMaterial(MaterialCrystal, models.NewMaterial(render.RGB(220, 235, 255), 125, [4]float32{0.3, 0.6, 0.1, 0.8}, 1.5))
	a.AddMaterial(MaterialMirror, models.NewMaterial(render.ColorWhite, 1425, [4]float32{0, 10, 0.8, 0}, 1))
	return nil
}
