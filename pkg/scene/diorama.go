package scene

import (
	"fmt"

	"github.com/taigrr/diorama/pkg/math3d"
	"github.com/taigrr/diorama/pkg/models"
)

// blockSize is the edge length of one diorama block.
const blockSize = 2.0

// Diorama builds the default house: four corner pillars, front and back
// walls with glass windows and a door, windowed side walls, a ring-shaped
// stone roof, a lantern by the door and a crystal sphere on the lawn.
// Materials come from a, which must hold the defaults.
func Diorama(a *Assets) (*Scene, error) {
	b := &builder{assets: a, scene: New("diorama")}

	// Corner pillars: three wooden blocks under a stone cap.
	for _, x := range []float64{-8, 8} {
		for _, z := range []float64{-1, -9} {
			for _, y := range []float64{-1, 1, 3} {
				b.block(x, y, z, MaterialOldWood)
			}
			b.block(x, 5, z, MaterialStone)
		}
	}

	// Front (z=-1) and back (z=-9) walls. The front has the door at x=0
	// and a window either side.
	for _, z := range []float64{-1, -9} {
		front := z == -1
		for x := -6.0; x <= 6; x += blockSize {
			for _, y := range []float64{-1, 1, 3} {
				switch {
				case front && x == 0 && y < 3:
					continue
				case front && (x == -4 || x == 4) && y == 1:
					b.block(x, y, z, MaterialGlass)
				default:
					b.block(x, y, z, MaterialWood)
				}
			}
		}
	}
	b.box(math3d.V3(0, -1, -1), math3d.V3(2, 3, 1), MaterialDoor)

	// Side walls between the pillars, windowed in the middle.
	for _, x := range []float64{-8, 8} {
		for _, z := range []float64{-7, -5, -3} {
			for _, y := range []float64{-1, 1, 3} {
				mat := MaterialWood
				if z == -5 && y == 1 {
					mat = MaterialGlass
				}
				b.block(x, y, z, mat)
			}
		}
	}

	// Roof ring around an open courtyard; pillar caps already fill the corners.
	for x := -8.0; x <= 8; x += blockSize {
		for z := -9.0; z <= -1; z += blockSize {
			corner := (x == -8 || x == 8) && (z == -1 || z == -9)
			courtyard := x >= -4 && x <= 4 && z >= -5 && z <= -3
			if corner || courtyard {
				continue
			}
			b.block(x, 5, z, MaterialStone)
		}
	}

	b.box(math3d.V3(2.3, 2.2, 1.1), math3d.V3(3.1, 3.0, 1.9), MaterialLantern)
	b.sphere(math3d.V3(-3, -0.2, 4), 0.8, MaterialCrystal)

	if b.err != nil {
		return nil, b.err
	}
	return b.scene, nil
}

// builder accumulates primitives and keeps the first error.
type builder struct {
	assets *Assets
	scene  *Scene
	err    error
}

// block adds a blockSize cube whose minimum corner is (x, y, z).
func (b *builder) block(x, y, z float64, mat string) {
	lo := math3d.V3(x, y, z)
	b.box(lo, lo.Add(math3d.V3(blockSize, blockSize, blockSize)), mat)
}

func (b *builder) box(lo, hi math3d.Vec3, mat string) {
	if b.err != nil {
		return
	}
	m, err := b.assets.Material(mat)
	if err != nil {
		b.err = err
		return
	}
	box, err := models.NewBox(lo, hi, m)
	if err != nil {
		b.err = fmt.Errorf("diorama block %v: %w", lo, err)
		return
	}
	b.scene.Add(box)
}

func (b *builder) sphere(center math3d.Vec3, radius float64, mat string) {
	if b.err != nil {
		return
	}
	m, err := b.assets.Material(mat)
	if err != nil {
		b.err = err
		return
	}
	s, err := models.NewSphere(center, radius, m)
	if err != nil {
		b.err = fmt.Errorf("diorama sphere: %w", err)
		return
	}
	b.scene.Add(s)
}
