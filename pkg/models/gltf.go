package models

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/render"
)

var defaultMeshColor = render.RGB(200, 200, 200)

// GLTFLoader loads GLTF/GLB files as box meshes.
type GLTFLoader struct {
	// Options
	LoadTextures bool
	Specular     float32
	Albedo       [4]float32
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		LoadTextures: true,
		Specular:     10,
		Albedo:       [4]float32{0.9, 0.1, 0, 0},
	}
}

// LoadGLB loads a binary GLTF (.glb) file, one Mesh per triangle primitive.
func LoadGLB(path string) ([]*Mesh, error) {
	loader := NewGLTFLoader()
	return loader.Load(path)
}

// Load opens a GLTF or GLB file and converts it.
func (l *GLTFLoader) Load(path string) ([]*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.Convert(doc, filepath.Dir(path))
}

// Convert extracts meshes from an already decoded document. dir resolves
// external image URIs.
func (l *GLTFLoader) Convert(doc *gltf.Document, dir string) ([]*Mesh, error) {
	materials := make([]*Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		materials[i] = l.convertMaterial(doc, gm, dir)
	}

	var meshes []*Mesh
	for _, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
				// Skip non-triangle primitives (lines, points, etc)
				continue
			}

			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			positions, err := readVec3Accessor(doc, posIdx)
			if err != nil {
				return nil, fmt.Errorf("process mesh %q: read positions: %w", m.Name, err)
			}
			if len(positions) == 0 {
				continue
			}

			mesh := NewMesh(fmt.Sprintf("%s#%d", m.Name, pi))
			mesh.Positions = positions
			if prim.Material != nil && *prim.Material < len(materials) {
				mesh.Material = materials[*prim.Material]
			}
			mesh.CalculateBounds()
			meshes = append(meshes, mesh)
		}
	}
	return meshes, nil
}

// convertMaterial maps base colour and emissive factors onto a Material.
// An embedded base colour texture replaces the flat colour when it decodes.
func (l *GLTFLoader) convertMaterial(doc *gltf.Document, gm *gltf.Material, dir string) *Material {
	base := [4]float64{1, 1, 1, 1}
	var texIdx *int
	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		base = pbr.BaseColorFactorOrDefault()
		if pbr.BaseColorTexture != nil {
			texIdx = &pbr.BaseColorTexture.Index
		}
	}

	mat := NewMaterial(render.FromFloat(base[0]*255, base[1]*255, base[2]*255), l.Specular, l.Albedo, 1)
	mat.Name = gm.Name

	if l.LoadTextures && texIdx != nil {
		if tex := loadTexture(doc, *texIdx, dir); tex != nil {
			mat.Texture = tex
		}
	}

	var emissive [3]float64
	for i, c := range gm.EmissiveFactor {
		emissive[i] = float64(c)
	}
	if emissive != [3]float64{} {
		c := render.FromFloat(emissive[0]*255, emissive[1]*255, emissive[2]*255)
		mat.Emission = &c
		mat.EmissionStrength = 1
	}
	return mat
}

// loadTexture decodes the image behind a glTF texture, embedded or external.
// Undecodable images yield nil and the flat colour is kept.
func loadTexture(doc *gltf.Document, idx int, dir string) *render.Texture {
	if idx < 0 || idx >= len(doc.Textures) || doc.Textures[idx].Source == nil {
		return nil
	}
	src := *doc.Textures[idx].Source
	if src < 0 || src >= len(doc.Images) {
		return nil
	}
	img := doc.Images[src]

	var data []byte
	if img.BufferView != nil {
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if buf.Data != nil {
			start := bv.ByteOffset
			end := start + bv.ByteLength
			data = buf.Data[start:end]
		}
	} else if img.URI != "" {
		// External texture file
		b, err := os.ReadFile(filepath.Join(dir, img.URI))
		if err != nil {
			return nil
		}
		data = b
	}
	if len(data) == 0 {
		return nil
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return render.TextureFromImage(decoded)
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC3")
	}

	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
	}

	return result, nil
}

// readAccessorData reads raw data from a GLTF accessor.
func readAccessorData(doc *gltf.Document, accessor *gltf.Accessor) (any, error) {
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]

	// gltf.Open resolves external .bin URIs into Data as well.
	bufData := buffer.Data
	if bufData == nil {
		return nil, fmt.Errorf("buffer %q has no data", buffer.URI)
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	count := accessor.Count

	switch accessor.Type {
	case gltf.AccessorVec3:
		if stride == 0 {
			stride = 12 // 3 floats * 4 bytes
		}
		if count > 0 && start+(count-1)*stride+12 > len(bufData) {
			return nil, fmt.Errorf("accessor exceeds buffer")
		}
		result := make([][3]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 3 {
				result[i][j] = math.Float32frombits(binary.LittleEndian.Uint32(bufData[offset+j*4:]))
			}
		}
		return result, nil
	}

	return nil, fmt.Errorf("unsupported accessor type: %v / %v", accessor.Type, accessor.ComponentType)
}
