// Package termhost runs a drizzle Engine in a terminal through tcell.
//
// The effect is rasterized at one pixel per half cell and drawn with
// half-block glyphs in true color. Keys, mouse events and pastes count as
// activity; terminal focus reports are treated as visibility. Ctrl-C
// quits.
package termhost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/drizzle"
)

const (
	// CellWidth and CellHeight are the logical size of one terminal cell.
	CellWidth  = 8
	CellHeight = 16

	// density maps CellWidth logical pixels to one raster pixel, so a cell
	// holds two raster pixels stacked vertically.
	density = 1.0 / CellWidth

	defaultTick = 16 * time.Millisecond
)

// ErrQuit is returned by Run when the user asks to quit.
var ErrQuit = errors.New("termhost: quit")

// Options configures a Host.
type Options struct {
	Config drizzle.Config
	// Tick is the frame interval; the engine clock advances by exactly Tick
	// per frame. Zero means 16ms.
	Tick time.Duration
	// Background is the color the terminal is assumed to have under the
	// effect.
	Background drizzle.Color
	// Debug enables per-frame engine timing logs.
	Debug bool
	// Script, if set, is stepped once per frame.
	Script *drizzle.Script
	// ExitOnScriptDone ends Run when Script finishes.
	ExitOnScriptDone bool
	Logger           *slog.Logger
	// EngineOptions are passed to drizzle.New after the host's own.
	EngineOptions []drizzle.Option
}

// Host drives one Engine on a tcell screen. It is also the engine's
// drizzle.Display.
type Host struct {
	opts   Options
	log    *slog.Logger
	screen tcell.Screen
	engine *drizzle.Engine
	raster *Raster
	fade   *drizzle.FadeOverlay

	cols, rows int
}

// New creates a host on an initialized screen. The engine starts Pending.
func New(screen tcell.Screen, opts Options) (*Host, error) {
	if screen == nil {
		return nil, errors.New("termhost: nil screen")
	}
	if opts.Tick <= 0 {
		opts.Tick = defaultTick
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	h := &Host{
		opts:   opts,
		log:    log,
		screen: screen,
		raster: NewRaster(),
		fade:   drizzle.NewFadeOverlay(opts.Config.FadeDuration),
	}
	h.cols, h.rows = screen.Size()

	engineOpts := append([]drizzle.Option{
		drizzle.WithSurface(h.raster),
		drizzle.WithOverlay(h.fade),
		drizzle.WithLogger(log),
	}, opts.EngineOptions...)
	e, err := drizzle.New(opts.Config, h, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("termhost: %w", err)
	}
	e.SetDebugMode(opts.Debug)
	h.engine = e

	if opts.Script != nil {
		opts.Script.OnScreenshot = h.snapshot
	}
	return h, nil
}

// Engine returns the hosted engine.
func (h *Host) Engine() *drizzle.Engine {
	return h.engine
}

// Raster returns the surface the engine draws to.
func (h *Host) Raster() *Raster {
	return h.raster
}

// Metrics implements drizzle.Display.
func (h *Host) Metrics() drizzle.Metrics {
	return drizzle.Metrics{
		Width:   float64(h.cols * CellWidth),
		Height:  float64(h.rows * CellHeight),
		Density: density,
	}
}

// Run polls screen events on a separate goroutine and renders a frame per
// tick until ctx is done, the user quits, or the script finishes. The
// engine is disposed on return. Run does not call screen.Fini.
func (h *Host) Run(ctx context.Context) error {
	h.screen.EnableMouse()
	h.screen.EnableFocus()
	h.screen.EnablePaste()
	defer h.engine.Dispose()

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(h.screen, events, done)

	ticker := time.NewTicker(h.opts.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !h.HandleEvent(ev) {
				return ErrQuit
			}
		case <-ticker.C:
			if !h.Frame() {
				return nil
			}
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or done
// is closed. Once done is closed it never blocks on a full events channel.
func pollEvents(screen tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	defer close(events)
	for {
		ev := screen.PollEvent()
		if ev == nil {
			// Fini was called.
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// HandleEvent maps one screen event onto the engine. It returns false when
// the event asks to quit.
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			return false
		}
		h.engine.Activity()
	case *tcell.EventMouse, *tcell.EventPaste:
		h.engine.Activity()
	case *tcell.EventFocus:
		h.engine.SetVisible(ev.Focused)
	case *tcell.EventResize:
		h.cols, h.rows = ev.Size()
		h.engine.Resize()
		h.screen.Sync()
		h.log.Debug("terminal resized", "cols", h.cols, "rows", h.rows)
	}
	return true
}

// Frame advances the engine by one tick and presents the raster. It
// returns false once the script is done and ExitOnScriptDone is set.
func (h *Host) Frame() bool {
	if s := h.opts.Script; s != nil {
		s.Step(h.engine)
		if s.Done() && h.opts.ExitOnScriptDone {
			if f := s.Failures(); len(f) > 0 {
				h.log.Warn("script expectations failed", "failures", f)
			}
			return false
		}
	}

	h.fade.Update(float32(h.opts.Tick.Seconds()))
	h.engine.Advance(h.opts.Tick)

	opacity := 0.0
	if h.fade.Visible() {
		opacity = h.fade.Opacity()
	}
	Present(h.screen, h.raster, opacity, h.opts.Background)
	h.screen.Show()
	return true
}

// snapshot logs how much of the raster is lit for a script screenshot step.
func (h *Host) snapshot(label string) {
	w, hh := h.raster.Size()
	lit := 0
	for y := 0; y < hh; y++ {
		for x := 0; x < w; x++ {
			if h.raster.At(x, y).A > 0 {
				lit++
			}
		}
	}
	h.log.Info("snapshot", "label", label, "lit", lit, "pixels", w*hh, "stats", h.engine.Stats())
}
