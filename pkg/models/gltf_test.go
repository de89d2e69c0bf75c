package models

import (
	"errors"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/render"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Fatal("NewGLTFLoader returned nil")
	}
	if !loader.LoadTextures {
		t.Error("LoadTextures should default to true")
	}
	if loader.Albedo[AlbedoReflect] != 0 || loader.Albedo[AlbedoRefract] != 0 {
		t.Error("imported materials should default to opaque, non-reflective")
	}
}

func newCubeDocument(t *testing.T) *gltf.Document {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{
		{-1, 0, -2},
		{3, 0, -2},
		{3, 2, 4},
		{-1, 2, 4},
	})

	mat := 0
	doc.Materials = []*gltf.Material{{
		Name: "lamp",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 0.5, 0, 1},
		},
		EmissiveFactor: [3]float64{1, 1, 0},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "block",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]int{gltf.POSITION: pos},
			Material:   &mat,
		}},
	}}
	return doc
}

func TestGLTFConvert(t *testing.T) {
	meshes, err := NewGLTFLoader().Convert(newCubeDocument(t), t.TempDir())
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("got %d meshes, want 1", len(meshes))
	}

	m := meshes[0]
	if len(m.Positions) != 4 {
		t.Errorf("positions = %d, want 4", len(m.Positions))
	}
	if m.BoundsMin != math3d.V3(-1, 0, -2) || m.BoundsMax != math3d.V3(3, 2, 4) {
		t.Errorf("bounds = %v..%v", m.BoundsMin, m.BoundsMax)
	}

	if m.Material == nil {
		t.Fatal("material not assigned")
	}
	if m.Material.Name != "lamp" || m.Material.Diffuse != render.RGB(255, 127, 0) {
		t.Errorf("material = %q %v", m.Material.Name, m.Material.Diffuse)
	}
	if !m.Material.IsEmissive() || *m.Material.Emission != render.RGB(255, 255, 0) {
		t.Error("emissive factor should become emission")
	}
}

func TestMeshTransformAndToBox(t *testing.T) {
	m := NewMesh("quad")
	m.Positions = []math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(1, 1, 1)}
	m.CalculateBounds()

	m.Transform(math3d.Translate(math3d.V3(5, 0, 0)).Mul(math3d.ScaleUniform(2)))
	if m.BoundsMin != math3d.V3(5, 0, 0) || m.BoundsMax != math3d.V3(7, 2, 2) {
		t.Fatalf("bounds = %v..%v", m.BoundsMin, m.BoundsMax)
	}

	box, err := m.ToBox()
	if err != nil {
		t.Fatalf("ToBox: %v", err)
	}
	if box.Material == nil || box.Material.Diffuse != defaultMeshColor {
		t.Error("mesh without material should get the default")
	}

	flat := NewMesh("flat")
	flat.Positions = []math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(1, 0, 1)}
	flat.CalculateBounds()
	if _, err := flat.ToBox(); !errors.Is(err, ErrDegenerateGeometry) {
		t.Errorf("flat mesh err = %v, want ErrDegenerateGeometry", err)
	}
}
