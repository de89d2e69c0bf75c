package scene

import (
	"fmt"
	"maps"
	"math/rand"
	"slices"
	"strings"

	"github.com/fogleman/gg"

	"github.com/taigrr/diorama/pkg/render"
)

// ProceduralPrefix marks texture paths generated in memory instead of read
// from disk, e.g. "procedural:stone".
const ProceduralPrefix = "procedural:"

// proceduralSize is the edge length of generated textures in pixels.
const proceduralSize = 64

var painters = map[string]func(dc *gg.Context, size float64){
	"wood":  paintWood,
	"plank": paintPlank,
	"stone": paintStone,
	"glass": paintGlass,
	"door":  paintDoor,
}

// ProceduralNames lists the generated textures in sorted order.
func ProceduralNames() []string {
	return slices.Sorted(maps.Keys(painters))
}

// ProceduralTexture draws the named texture.
func ProceduralTexture(name string) (*render.Texture, error) {
	paint, ok := painters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s%s (have %s)", ErrUnknownTexture, ProceduralPrefix, name, strings.Join(ProceduralNames(), ", "))
	}
	dc := gg.NewContext(proceduralSize, proceduralSize)
	paint(dc, proceduralSize)
	return render.TextureFromImage(dc.Image()), nil
}

func paintWood(dc *gg.Context, size float64) {
	dc.SetRGB255(150, 98, 52)
	dc.Clear()
	rng := rand.New(rand.NewSource(7))
	dc.SetLineWidth(1)
	for y := 2.0; y < size; y += 4 {
		shade := 110 + rng.Intn(30)
		dc.SetRGB255(shade, shade*2/3, shade/3)
		dc.DrawLine(0, y+rng.Float64(), size, y+rng.Float64()*2)
		dc.Stroke()
	}
}

func paintPlank(dc *gg.Context, size float64) {
	dc.SetRGB255(112, 84, 58)
	dc.Clear()
	plank := size / 4
	for i := range 4 {
		y := float64(i) * plank
		dc.SetRGB255(96+i*8, 72+i*5, 48+i*3)
		dc.DrawRectangle(1, y+1, size-2, plank-2)
		dc.Fill()
		dc.SetRGB255(60, 44, 30)
		dc.DrawCircle(4, y+plank/2, 1.2)
		dc.DrawCircle(size-4, y+plank/2, 1.2)
		dc.Fill()
	}
}

func paintStone(dc *gg.Context, size float64) {
	dc.SetRGB255(70, 70, 74)
	dc.Clear()
	rng := rand.New(rand.NewSource(11))
	cell := size / 4
	for row := range 4 {
		offset := float64(row%2) * cell / 2
		for col := -1; col < 4; col++ {
			g := 105 + rng.Intn(50)
			dc.SetRGB255(g, g, g+4)
			x := float64(col)*cell + offset
			dc.DrawRoundedRectangle(x+1.5, float64(row)*cell+1.5, cell-3, cell-3, 3)
			dc.Fill()
		}
	}
}

func paintGlass(dc *gg.Context, size float64) {
	dc.SetRGB255(190, 225, 240)
	dc.Clear()
	dc.SetRGB255(235, 245, 250)
	dc.DrawLine(size*0.15, size*0.35, size*0.35, size*0.15)
	dc.DrawLine(size*0.15, size*0.55, size*0.55, size*0.15)
	dc.SetLineWidth(2)
	dc.Stroke()

	dc.SetRGB255(92, 64, 40)
	dc.SetLineWidth(4)
	dc.DrawRectangle(0, 0, size, size)
	dc.DrawLine(size/2, 0, size/2, size)
	dc.DrawLine(0, size/2, size, size/2)
	dc.Stroke()
}

func paintDoor(dc *gg.Context, size float64) {
	dc.SetRGB255(120, 72, 36)
	dc.Clear()
	dc.SetRGB255(88, 52, 26)
	dc.SetLineWidth(3)
	dc.DrawRectangle(size*0.1, size*0.08, size*0.8, size*0.38)
	dc.DrawRectangle(size*0.1, size*0.54, size*0.8, size*0.38)
	dc.Stroke()
	dc.SetRGB255(212, 175, 55)
	dc.DrawCircle(size*0.8, size*0.5, 2.5)
	dc.Fill()
}
