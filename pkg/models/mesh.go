package models

import (
	"github.com/taigrr/diorama/pkg/math3d"
)

// Mesh is the vertex cloud of one imported glTF primitive. The tracer only
// handles boxes, so a mesh is reduced to its bounding box before use.
type Mesh struct {
	Name      string
	Positions []math3d.Vec3
	Material  *Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Positions) == 0 {
		return
	}

	m.BoundsMin = m.Positions[0]
	m.BoundsMax = m.Positions[0]

	for _, p := range m.Positions[1:] {
		m.BoundsMin = m.BoundsMin.Min(p)
		m.BoundsMax = m.BoundsMax.Max(p)
	}
}

// Transform applies a transformation matrix to all vertices.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Positions {
		m.Positions[i] = mat.MulVec3(m.Positions[i])
	}
	m.CalculateBounds()
}

// ToBox returns the mesh bounding box as a primitive. Flat meshes fail with
// ErrDegenerateGeometry.
func (m *Mesh) ToBox() (*Box, error) {
	mat := m.Material
	if mat == nil {
		mat = NewMaterial(defaultMeshColor, 10, [4]float32{0.9, 0.1, 0, 0}, 1)
	}
	return NewBox(m.BoundsMin, m.BoundsMax, mat)
}
