// Package ebitenhost runs a drizzle Engine in a transparent Ebitengine
// window.
//
// The window clears to transparent every frame and composites the effect
// at the overlay's current opacity, so on platforms that support
// transparent framebuffers only the precipitation is visible. Cursor
// movement, wheel, keys, mouse buttons and touches count as activity;
// window focus is treated as visibility.
package ebitenhost

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/drizzle"
)

// Options configures a Game.
type Options struct {
	Config drizzle.Config
	Title  string
	// Width and Height are the initial window size in logical pixels.
	Width, Height int
	// Passthrough lets mouse input fall through to the windows below. The
	// detector then only sees keys delivered to the focused window.
	Passthrough bool
	// Debug shows the HUD and enables per-frame engine timing logs.
	Debug bool
	// ScreenshotDir receives PNGs from F12 and script screenshot steps.
	ScreenshotDir string
	// Script, if set, is stepped once per tick.
	Script *drizzle.Script
	// ExitOnScriptDone ends the game when Script finishes.
	ExitOnScriptDone bool
	Logger           *slog.Logger
	// EngineOptions are passed to drizzle.New after the host's own.
	EngineOptions []drizzle.Option
}

// Game is an ebiten.Game hosting one Engine. It is also the engine's
// drizzle.Display.
type Game struct {
	opts    Options
	log     *slog.Logger
	engine  *drizzle.Engine
	surface *Surface
	fade    *drizzle.FadeOverlay
	input   ActivityDetector
	hud     *HUD
	shots   screenshots

	metrics drizzle.Metrics
	focused bool
}

// NewGame creates the engine and its surface. The engine starts Pending;
// nothing is drawn until the idle delay elapses.
func NewGame(opts Options) (*Game, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("ebitenhost: invalid window size %dx%d", opts.Width, opts.Height)
	}
	if opts.Title == "" {
		opts.Title = "drizzle"
	}
	if opts.ScreenshotDir == "" {
		opts.ScreenshotDir = "screenshots"
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	g := &Game{
		opts:    opts,
		log:     log,
		surface: NewSurface(),
		fade:    drizzle.NewFadeOverlay(opts.Config.FadeDuration),
		metrics: drizzle.Metrics{Width: float64(opts.Width), Height: float64(opts.Height), Density: 1},
		focused: true,
		shots:   screenshots{dir: opts.ScreenshotDir, log: log},
	}

	engineOpts := append([]drizzle.Option{
		drizzle.WithSurface(g.surface),
		drizzle.WithOverlay(g.fade),
		drizzle.WithLogger(log),
	}, opts.EngineOptions...)
	e, err := drizzle.New(opts.Config, g, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("ebitenhost: %w", err)
	}
	e.SetDebugMode(opts.Debug)
	g.engine = e

	if opts.Script != nil {
		opts.Script.OnScreenshot = g.Screenshot
	}
	if opts.Debug {
		g.hud = NewHUD()
	}
	return g, nil
}

// Engine returns the hosted engine.
func (g *Game) Engine() *drizzle.Engine {
	return g.engine
}

// Metrics implements drizzle.Display.
func (g *Game) Metrics() drizzle.Metrics {
	return g.metrics
}

// Screenshot queues a labeled capture of the next composited frame.
func (g *Game) Screenshot(label string) {
	g.shots.queue = append(g.shots.queue, label)
}

// Update implements ebiten.Game. The engine clock advances by exactly one
// tick per call.
func (g *Game) Update() error {
	if focused := ebiten.IsFocused(); focused != g.focused {
		g.focused = focused
		g.input.Reset()
		g.engine.SetVisible(focused)
	}
	if g.input.Poll() {
		g.engine.Activity()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.Screenshot("manual")
	}
	if s := g.opts.Script; s != nil {
		s.Step(g.engine)
		if s.Done() && g.opts.ExitOnScriptDone {
			for _, f := range s.Failures() {
				g.log.Error("script expectation failed", "detail", f)
			}
			return ebiten.Termination
		}
	}

	tick := time.Second / time.Duration(ebiten.TPS())
	g.fade.Update(float32(tick.Seconds()))
	g.engine.Advance(tick)
	if g.hud != nil {
		g.hud.Update(tick.Seconds(), g.engine.Stats())
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Clear()
	if img := g.surface.Image(); img != nil && g.fade.Visible() {
		op := &ebiten.DrawImageOptions{}
		op.ColorScale.ScaleAlpha(float32(g.fade.Opacity()))
		screen.DrawImage(img, op)
	}
	if g.hud != nil {
		g.hud.Draw(screen, g.metrics.Density)
	}
	g.shots.flush(screen)
}

// Layout implements ebiten.Game for hosts that ignore LayoutF.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.LayoutF(float64(outsideWidth), float64(outsideHeight))
	return int(w), int(h)
}

// LayoutF implements ebiten.LayoutFer. The screen is sized in device
// pixels; the engine keeps drawing in logical pixels.
func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	m := drizzle.Metrics{Width: outsideWidth, Height: outsideHeight, Density: scale}
	if m != g.metrics {
		g.metrics = m
		g.engine.Resize()
	}
	return outsideWidth * scale, outsideHeight * scale
}

// Run opens the overlay window and blocks until it closes. The engine is
// disposed on return.
func Run(g *Game) error {
	defer g.engine.Dispose()

	ebiten.SetWindowTitle(g.opts.Title)
	ebiten.SetWindowSize(g.opts.Width, g.opts.Height)
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetWindowMousePassthrough(g.opts.Passthrough)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGameWithOptions(g, &ebiten.RunGameOptions{ScreenTransparent: true})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
