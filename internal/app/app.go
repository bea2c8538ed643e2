//go:build ebiten

package app

import (
	"image/color"
	"log/slog"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/paulmach/orb"

	"physarum/internal/input"
	"physarum/internal/render"
	"physarum/internal/sims/physarum"
	"physarum/internal/ui"
)

// HUDWidth is the width of the parameter panel in screen pixels.
const HUDWidth = 240

// Game adapts a physarum world to the ebiten.Game interface.
type Game struct {
	world   *physarum.World
	pointer *input.Tracker
	painter *render.FieldPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	log     *slog.Logger

	scale    int
	hudWidth int
	tps      int
	paused   bool
	tickOnce bool
	seed     int64

	outsideW, outsideH int
}

// New constructs a Game for world. pointer receives the mouse state and must
// be the pointer the world was built with.
func New(world *physarum.World, pointer *input.Tracker, scale, tps int, showHUD bool, log *slog.Logger) *Game {
	if scale < 1 {
		scale = 1
	}
	size := world.Size()
	g := &Game{
		world:   world,
		pointer: pointer,
		painter: render.NewFieldPainter(size.W, size.H, color.RGBA{A: 255}),
		overlay: ui.NewOverlay(world, scale),
		log:     log,
		scale:   scale,
		tps:     tps,
		seed:    world.Config().Seed,
	}
	if showHUD {
		g.hudWidth = HUDWidth
		g.hud = ui.NewHUD(world, HUDWidth)
	}
	return g
}

// WindowSize returns the initial window size for the world and panel.
func (g *Game) WindowSize() (int, int) {
	size := g.world.Size()
	return size.W*g.scale + g.hudWidth, size.H * g.scale
}

// Reset reinitializes the world with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.world.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame input and advances the world.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
		if !g.paused {
			// Drop the time spent paused.
			g.world.Clock().Reset()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.world.Clear()
	}

	g.updatePointer()
	g.overlay.Update()
	g.hud.Update(g.world.Size().W * g.scale)

	switch {
	case g.tickOnce:
		g.world.StepDelta(1 / float64(max(g.tps, 1)))
		g.tickOnce = false
	case !g.paused:
		g.world.Step()
	}
	return nil
}

func (g *Game) updatePointer() {
	size := g.world.Size()
	cx, cy := ebiten.CursorPosition()
	inField := cx >= 0 && cy >= 0 && cx < size.W*g.scale && cy < size.H*g.scale
	if inField && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.pointer.Set(true, orb.Point{float64(cx) / float64(g.scale), float64(cy) / float64(g.scale)})
		return
	}
	g.pointer.Release()
}

// Draw renders the field, the overlay and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.world, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.world.Size().W*g.scale, g.scale)
	if g.paused {
		ebitenutil.DebugPrintAt(screen, "paused (space to resume, n to step)", 4, 4)
	}
}

// Layout follows the window: when its aspect changes the world is resized to
// the same width and a height matching the new aspect.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.outsideW || outsideHeight != g.outsideH {
		first := g.outsideW == 0 && g.outsideH == 0
		g.outsideW, g.outsideH = outsideWidth, outsideHeight
		if !first {
			g.follow(outsideWidth-g.hudWidth, outsideHeight)
		}
	}
	size := g.world.Size()
	return size.W*g.scale + g.hudWidth, size.H * g.scale
}

func (g *Game) follow(fieldW, fieldH int) {
	if fieldW <= 0 || fieldH <= 0 {
		return
	}
	size := g.world.Size()
	h := int(math.Round(float64(size.W) * float64(fieldH) / float64(fieldW)))
	if h < 1 || h == size.H {
		return
	}
	g.log.Debug("viewport changed", "window_w", g.outsideW, "window_h", g.outsideH)
	g.world.Resize(size.W, h)
}
