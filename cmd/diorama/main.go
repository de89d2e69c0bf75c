// diorama - Terminal Ray Traced Diorama
// Orbit a small ray traced scene in your terminal, or render it to a file.
//
// Controls:
//
//	Left/Right  - Orbit (yaw)
//	W/S         - Orbit (pitch)
//	Up/Down     - Zoom in/out
//	Mouse drag  - Orbit
//	N/D         - Night/day
//	R           - Reset view
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/diorama/pkg/raytrace"
	"github.com/taigrr/diorama/pkg/render"
	"github.com/taigrr/diorama/pkg/scene"
)

const (
	orbitStep = math.Pi / 50
	zoomStep  = 0.5
	dragScale = 0.02
)

var (
	scenePath  = flag.String("scene", "", "Path to a JSON scene (default: built-in diorama)")
	textureDir = flag.String("texture-dir", "", "Directory holding texture images (default: procedural textures)")
	targetFPS  = flag.Int("fps", 60, "Target FPS")
	outPath    = flag.String("out", "", "Render one frame to this .bmp or .png file and exit")
	outWidth   = flag.Int("width", 800, "Output width for -out")
	outHeight  = flag.Int("height", 600, "Output height for -out")
	seed       = flag.Int64("seed", 1, "Seed for emissive light sampling")
	night      = flag.Bool("night", false, "Start at night")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "diorama - Terminal Ray Traced Diorama\n\n")
		fmt.Fprintf(os.Stderr, "Usage: diorama [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Left/Right  - Orbit\n")
		fmt.Fprintf(os.Stderr, "  W/S         - Tilt\n")
		fmt.Fprintf(os.Stderr, "  Up/Down     - Zoom\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Orbit\n")
		fmt.Fprintf(os.Stderr, "  N/D         - Night/day\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	s, err := scene.Open(*scenePath, *textureDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *night {
		s.SetNight(true)
	}

	if *outPath != "" {
		err = renderFile(s, *outPath)
	} else {
		err = run(s)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// renderFile draws a single frame and writes it according to the file
// extension.
func renderFile(s *scene.Scene, path string) error {
	if *outWidth <= 0 || *outHeight <= 0 {
		return fmt.Errorf("invalid output size %dx%d", *outWidth, *outHeight)
	}

	fb := render.NewFramebuffer(*outWidth, *outHeight)
	r := raytrace.NewRenderer(s, s.View.Camera(), raytrace.NewSeededSampler(*seed))

	start := time.Now()
	r.Render(fb)
	log.Printf("rendered %s (%d primitives) at %dx%d in %v",
		s.Name, len(s.Primitives), fb.Width, fb.Height, time.Since(start).Round(time.Millisecond))

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".bmp":
		err := fb.SaveBMP(path)
		if err != nil {
			return fmt.Errorf("save bmp: %w", err)
		}
	case ".png":
		err := fb.SavePNG(path)
		if err != nil {
			return fmt.Errorf("save png: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format: %q (use .bmp or .png)", ext)
	}
	log.Printf("wrote %s", path)
	return nil
}

// HUD renders an overlay with scene info and render timing.
type HUD struct {
	name       string
	primitives int
	show       bool
	lastRender time.Duration
}

func NewHUD(name string, primitives int) *HUD {
	return &HUD{name: name, primitives: primitives, show: true}
}

// Render draws the HUD directly to the terminal.
func (h *HUD) Render(width, height int, s *scene.Scene, cam *render.Camera, frames int) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)
	if !h.show {
		return
	}

	fmt.Printf("%s%s%s %v/frame %s", moveTo(1, 1), bgBlack, fgGreen, h.lastRender.Round(time.Millisecond), reset)

	title := fmt.Sprintf("%s%s%s %s %s", bold, bgBlack, fgWhite, h.name, reset)
	titleCol := max((width-len(h.name)-2)/2, 1)
	fmt.Print(moveTo(1, titleCol) + title)

	prims := fmt.Sprintf("%s%s%s %d prims %s", bgBlack, fgCyan, bold, h.primitives, reset)
	fmt.Print(moveTo(1, max(width-12, 1)) + prims)

	mode := "day"
	if s.Night() {
		mode = "night"
	}
	status := fmt.Sprintf("%s%s %s  dist %.1f  frame %d %s", bgBlack, fgWhite, mode, cam.Distance(), frames, reset)
	fmt.Print(moveTo(height, 1) + status)

	hint := fmt.Sprintf("%s%s%s N/D: night/day %s", bgBlack, dim, fgYellow, reset)
	fmt.Print(moveTo(height, max(width-17, 1)) + hint)
}

func run(s *scene.Scene) error {
	if *targetFPS <= 0 {
		return fmt.Errorf("invalid fps %d", *targetFPS)
	}

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Button-event mouse tracking with SGR coordinates
	fmt.Fprint(os.Stdout, "\x1b[?1002h")
	fmt.Fprint(os.Stdout, "\x1b[?1006h")

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()
	fb := render.NewFramebuffer(fbWidth, fbHeight)

	camera := s.View.Camera()
	renderer := raytrace.NewRenderer(s, camera, raytrace.NewSeededSampler(*seed))
	orbit := NewOrbitState(*targetFPS)
	hud := NewHUD(s.Name, len(s.Primitives))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Events are handed to the main loop so the camera and scene are only
	// touched from one goroutine.
	events := make(chan any, 64)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	var mouseDown bool
	var lastMouseX, lastMouseY int

	handle := func(ev any) {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			width, height = ev.Width, ev.Height
			term.Erase()
			term.Resize(width, height)
			termRenderer = render.NewTerminalRenderer(term, width, height)
			fbWidth, fbHeight = termRenderer.FramebufferSize()
			fb = render.NewFramebuffer(fbWidth, fbHeight)
			camera.Invalidate()

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
				cancel()
			case ev.MatchString("left"):
				orbit.Yaw.Nudge(-orbitStep)
			case ev.MatchString("right"):
				orbit.Yaw.Nudge(orbitStep)
			case ev.MatchString("w"):
				orbit.Pitch.Nudge(-orbitStep)
			case ev.MatchString("s"):
				orbit.Pitch.Nudge(orbitStep)
			case ev.MatchString("up"):
				camera.Zoom(zoomStep)
			case ev.MatchString("down"):
				camera.Zoom(-zoomStep)
			case ev.MatchString("n"):
				s.SetNight(true)
			case ev.MatchString("d"):
				s.SetNight(false)
			case ev.MatchString("r"):
				orbit.Reset()
				camera.SetEye(s.View.Eye)
			case ev.MatchString("?"), ev.MatchString("shift+/"):
				hud.show = !hud.show
				hud.Render(width, height, s, camera, renderer.Frames())
			}

		case uv.MouseClickEvent:
			mouseDown = true
			lastMouseX, lastMouseY = ev.X, ev.Y

		case uv.MouseReleaseEvent:
			mouseDown = false

		case uv.MouseMotionEvent:
			if mouseDown {
				orbit.Yaw.Nudge(float64(ev.X-lastMouseX) * dragScale)
				orbit.Pitch.Nudge(float64(ev.Y-lastMouseY) * dragScale)
				lastMouseX, lastMouseY = ev.X, ev.Y
			}

		case uv.MouseWheelEvent:
			switch ev.Button {
			case uv.MouseWheelUp:
				camera.Zoom(zoomStep)
			case uv.MouseWheelDown:
				camera.Zoom(-zoomStep)
			}
		}
	}

	targetDuration := time.Second / time.Duration(*targetFPS)

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1002l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	for {
	drain:
		for {
			select {
			case <-ctx.Done():
				cleanup()
				return nil
			case ev := <-events:
				handle(ev)
			default:
				break drain
			}
		}

		now := time.Now()

		if !orbit.Settled() {
			camera.Orbit(orbit.Step())
		}

		if renderer.Update(fb) {
			hud.lastRender = time.Since(now)
			termRenderer.Render(fb)
			if err := termRenderer.Flush(); err != nil {
				cleanup()
				return fmt.Errorf("flush: %w", err)
			}
			hud.Render(width, height, s, camera, renderer.Frames())
		}

		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
