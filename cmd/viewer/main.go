// Command viewer hosts the software renderer in an ebiten window: it
// owns the game loop, reads keyboard input into camera movement, and
// blits the renderer's ARGB scratch buffer to the screen every frame.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"doomgo/config"
	"doomgo/engine/raycaster"
	"doomgo/internal/fixtures"
	"doomgo/texture"
	"doomgo/world"
)

const (
	moveSpeed = 200.0 // map units per second
	turnSpeed = 2.0   // radians per second
)

type game struct {
	sw    *raycaster.Software
	level *world.Level
	cam   *world.Camera
	bank  *texture.Bank

	showHUD bool
	flight  *flythrough
}

func newGame(cfg config.Config, level *world.Level, bank *texture.Bank, cam *world.Camera, w, h int, showHUD bool, flight *flythrough) *game {
	sw := raycaster.NewSoftwareWithConfig(cfg)
	sw.BeginFrame(w, h)
	return &game{sw: sw, level: level, cam: cam, bank: bank, showHUD: showHUD, flight: flight}
}

func (g *game) Update() error {
	dt := 1.0 / float64(ebiten.TPS())

	if g.flight != nil {
		g.flight.step(g.cam, dt)
	} else {
		forward, side, turn := 0.0, 0.0, 0.0
		if ebiten.IsKeyPressed(ebiten.KeyW) {
			forward += moveSpeed * dt
		}
		if ebiten.IsKeyPressed(ebiten.KeyS) {
			forward -= moveSpeed * dt
		}
		if ebiten.IsKeyPressed(ebiten.KeyA) {
			side -= moveSpeed * dt
		}
		if ebiten.IsKeyPressed(ebiten.KeyD) {
			side += moveSpeed * dt
		}
		if ebiten.IsKeyPressed(ebiten.KeyLeft) {
			turn -= turnSpeed * dt
		}
		if ebiten.IsKeyPressed(ebiten.KeyRight) {
			turn += turnSpeed * dt
		}
		g.cam.Step(forward, side)
		g.cam.Turn(turn)
	}

	if ebiten.IsKeyPressed(ebiten.KeyF1) {
		g.showHUD = true
	}
	if ebiten.IsKeyPressed(ebiten.KeyF2) {
		g.showHUD = false
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.sw.BeginFrame(g.sw.Width, g.sw.Height)
	visible := g.level.FillVisibleSubsectors(g.cam, nil)
	g.sw.DrawLevel(visible, g.level, g.cam, g.bank)

	g.sw.EndFrame(func(scratch []uint32, w, h int) {
		pix := make([]byte, len(scratch)*4)
		for i, c := range scratch {
			pix[i*4+0] = byte(c >> 16) // R
			pix[i*4+1] = byte(c >> 8)  // G
			pix[i*4+2] = byte(c)       // B
			pix[i*4+3] = byte(c >> 24) // A
		}
		screen.WritePixels(pix)
	})

	if g.showHUD {
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"FPS: %.1f\npos: (%.1f, %.1f, %.1f)\nyaw: %.2f\nF1/F2 toggles this overlay",
			ebiten.ActualFPS(), g.cam.Pos.X, g.cam.Pos.Y, g.cam.Pos.Z, g.cam.Yaw))
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.sw.Width, g.sw.Height
}

func main() {
	flythroughFlag := flag.Bool("flythrough", false, "play a scripted camera path instead of taking keyboard input")
	flag.Parse()

	dir := config.DefaultDir()
	if err := config.InitializeIfNot(dir); err != nil {
		log.Fatalf("viewer: %v", err)
	}
	cfg, err := config.Read(dir)
	if err != nil {
		log.Fatalf("viewer: %v", err)
	}

	if !cfg.ShowDebugHUD {
		log.SetOutput(os.Stdout)
	}

	bank := fixtures.CheckerBank()
	level := fixtures.SquareRoom(256, 0, 128, bank)
	cam := world.NewCamera(world.Vec3{X: 0, Y: 0, Z: 41}, 0, cfg.FOVDegrees*math.Pi/180)
	cam.NearDist = cfg.NearPlane

	var flight *flythrough
	if *flythroughFlag {
		flight = newFlythrough(level)
	}

	g := newGame(cfg, level, bank, cam, cfg.WindowWidth, cfg.WindowHeight, cfg.ShowDebugHUD, flight)

	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowTitle("doomgo viewer")
	ebiten.SetVsyncEnabled(cfg.VSync)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("viewer: %v", err)
	}
}
