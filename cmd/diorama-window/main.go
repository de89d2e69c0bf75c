// diorama-window - Ray Traced Diorama in a desktop window
//
// Controls:
//
//	Left/Right  - Orbit (yaw)
//	W/S         - Orbit (pitch)
//	Up/Down     - Zoom in/out
//	Mouse drag  - Orbit
//	N/M         - Night/day
//	R           - Reset view
//	P           - Save a screenshot (diorama.bmp)
//	Esc         - Quit
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/taigrr/diorama/pkg/raytrace"
	"github.com/taigrr/diorama/pkg/render"
	"github.com/taigrr/diorama/pkg/scene"
)

const (
	windowWidth  = 800
	windowHeight = 600
	orbitStep    = math.Pi / 50
	zoomStep     = 0.5
	dragScale    = 0.01
)

var (
	scenePath  = flag.String("scene", "", "Path to a JSON scene (default: built-in diorama)")
	textureDir = flag.String("texture-dir", "", "Directory holding texture images (default: procedural textures)")
	resolution = flag.Int("scale", 2, "Window pixels per traced pixel")
	seed       = flag.Int64("seed", 1, "Seed for emissive light sampling")
	shotPath   = flag.String("screenshot", "diorama.bmp", "File written by the P key")
)

// Game traces the scene into a low resolution framebuffer that ebiten
// scales up to the window.
type Game struct {
	scene    *scene.Scene
	camera   *render.Camera
	renderer *raytrace.Renderer
	fb       *render.Framebuffer
	screen   *ebiten.Image

	dragging     bool
	lastX, lastY int
}

func NewGame(s *scene.Scene, width, height int) *Game {
	cam := s.View.Camera()
	return &Game{
		scene:    s,
		camera:   cam,
		renderer: raytrace.NewRenderer(s, cam, raytrace.NewSeededSampler(*seed)),
		fb:       render.NewFramebuffer(width, height),
		screen:   ebiten.NewImage(width, height),
	}
}

func (g *Game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.scene.SetNight(true)
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.scene.SetNight(false)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.camera.SetEye(g.scene.View.Eye)
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		if err := g.fb.SaveBMP(*shotPath); err != nil {
			log.Printf("screenshot: %v", err)
		} else {
			log.Printf("wrote %s", *shotPath)
		}
	}

	var yaw, pitch float64
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		yaw -= orbitStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		yaw += orbitStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		pitch -= orbitStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		pitch += orbitStep
	}

	x, y := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.dragging = true
		g.lastX, g.lastY = x, y
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.dragging = false
	}
	if g.dragging {
		yaw += float64(x-g.lastX) * dragScale
		pitch += float64(y-g.lastY) * dragScale
		g.lastX, g.lastY = x, y
	}

	if yaw != 0 || pitch != 0 {
		g.camera.Orbit(yaw, pitch)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.camera.Zoom(zoomStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.camera.Zoom(-zoomStep)
	}

	if g.renderer.Update(g.fb) {
		g.screen.WritePixels(g.fb.ToImage().Pix)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.screen, nil)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.fb.Width, g.fb.Height
}

func main() {
	flag.Parse()

	if *resolution < 1 {
		fmt.Fprintf(os.Stderr, "Error: invalid scale %d\n", *resolution)
		os.Exit(1)
	}

	s, err := scene.Open(*scenePath, *textureDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	game := NewGame(s, windowWidth / *resolution, windowHeight / *resolution)
	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("diorama - " + s.Name)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
