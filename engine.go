package drizzle

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of an Engine.
type State uint8

const (
	StateIdle    State = iota // stopped, no idle timer armed
	StatePending              // idle timer armed, waiting for inactivity
	StateActive               // animating
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateActive:
		return "active"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// MarshalCSV writes the state name in telemetry rows.
func (s State) MarshalCSV() (string, error) {
	return s.String(), nil
}

// Option configures an Engine.
type Option func(*Engine)

// WithSurface sets the surface the engine draws to. It can also be set
// later with SetSurface.
func WithSurface(s Surface) Option {
	return func(e *Engine) { e.surface = s }
}

// WithOverlay sets the host overlay the engine shows and fades.
func WithOverlay(o Overlay) Option {
	return func(e *Engine) { e.overlay = o }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithClock shares clock with the engine instead of creating a private one.
func WithClock(c *FrameClock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithRand sets the random source used by the particle factory.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// Engine is one idle-triggered precipitation overlay. It waits for a
// period of inactivity, then animates until the next activity signal and
// fades out.
//
// All methods must be called from the goroutine that advances the clock.
type Engine struct {
	id      string
	cfg     Config
	log     *slog.Logger
	clock   *FrameClock
	rng     *rand.Rand
	display Display
	surface Surface
	overlay Overlay

	store    *Store
	factory  *Factory
	sim      *Simulation
	renderer *Renderer

	state    State
	running  bool
	hidden   bool
	disposed bool

	stopping  bool
	stopBegan time.Duration

	idleTimer     *Timer
	frameTimer    *Timer
	finalizeTimer *Timer

	// Callbacks bound once so rescheduling does not allocate.
	onIdle     func()
	onFrame    func(now time.Duration)
	onFinalize func()

	lastFrame   time.Duration
	haveLast    bool
	activations int

	debug      bool
	frameStats debugStats
}

// New creates an Engine and arms its idle timer, leaving it Pending.
// cfg is validated first; invalid configs return an error wrapping
// ErrInvalidConfig.
func New(cfg Config, display Display, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("drizzle: new engine: %w", err)
	}
	if display == nil {
		return nil, fmt.Errorf("drizzle: new engine: %w", errors.Join(ErrInvalidConfig, errors.New("nil display")))
	}

	e := &Engine{
		id:      uuid.NewString(),
		cfg:     cfg,
		display: display,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.clock == nil {
		e.clock = NewFrameClock()
	}
	e.log = e.log.With("engine", e.id, "effect", string(cfg.Effect))

	e.store = NewStore(cfg.MaxParticles, cfg.MaxDecays)
	e.factory = NewFactory(cfg.Effect, e.rng)
	e.sim = NewSimulation(cfg, e.store, e.factory, display)
	e.renderer = NewRenderer(e.store, display, cfg.Tint)

	e.onIdle = e.idleElapsed
	e.onFrame = e.tick
	e.onFinalize = func() { e.FinalizeStop() }

	if e.surface != nil {
		m := display.Metrics()
		e.surface.Resize(m.Width, m.Height, m.Density)
	}

	e.armIdle()
	e.log.Debug("engine created", "idle_delay", cfg.IdleDelay)
	return e, nil
}

// ID returns the engine's unique instance id.
func (e *Engine) ID() string { return e.id }

// Config returns the configuration the engine was created with.
func (e *Engine) Config() Config { return e.cfg }

// State returns the current lifecycle state.
func (e *Engine) State() State { return e.state }

// Running reports whether frame ticks are being scheduled.
func (e *Engine) Running() bool { return e.running }

// Disposed reports whether Dispose was called.
func (e *Engine) Disposed() bool { return e.disposed }

// Clock returns the clock driving the engine.
func (e *Engine) Clock() *FrameClock { return e.clock }

// Store returns the particle store. It must be treated as read-only.
func (e *Engine) Store() *Store { return e.store }

// Simulation returns the engine's simulation.
func (e *Engine) Simulation() *Simulation { return e.sim }

// Advance moves the engine's clock forward by d, firing due timers and the
// pending frame.
func (e *Engine) Advance(d time.Duration) {
	e.clock.Advance(d)
}

// SetSurface replaces the drawing surface and sizes it to the display. A
// nil surface makes every frame a skipped frame.
func (e *Engine) SetSurface(s Surface) {
	e.surface = s
	if s != nil && !e.disposed {
		m := e.display.Metrics()
		s.Resize(m.Width, m.Height, m.Density)
	}
}

// Resize re-reads the display metrics and resizes the surface. Hosts call
// it when the viewport or pixel density changes.
func (e *Engine) Resize() {
	if e.surface == nil || e.disposed {
		return
	}
	m := e.display.Metrics()
	e.surface.Resize(m.Width, m.Height, m.Density)
	e.log.Debug("resized", "width", m.Width, "height", m.Height, "density", m.Density)
}

// Handle dispatches a host signal.
func (e *Engine) Handle(sig Signal) {
	switch sig {
	case SignalActivity:
		e.Activity()
	case SignalHidden:
		e.SetVisible(false)
	case SignalVisible:
		e.SetVisible(true)
	}
}

// Activity records user input: a running effect starts fading out and the
// idle timer starts over. Ignored while hidden or disposed.
func (e *Engine) Activity() {
	if e.disposed || e.hidden {
		return
	}
	e.BeginStop()
	e.armIdle()
}

// SetVisible reports host visibility. Losing visibility stops the effect
// and leaves the engine Idle; regaining it re-arms the idle timer.
func (e *Engine) SetVisible(visible bool) {
	if e.disposed {
		return
	}
	if visible {
		e.hidden = false
		e.Activity()
		return
	}
	e.hidden = true
	e.idleTimer.Stop()
	e.idleTimer = nil
	e.BeginStop()
	e.setState(StateIdle)
}

func (e *Engine) armIdle() {
	e.idleTimer.Stop()
	e.idleTimer = e.clock.AfterFunc(e.cfg.IdleDelay, e.onIdle)
	e.setState(StatePending)
}

func (e *Engine) idleElapsed() {
	e.idleTimer = nil
	e.start()
}

// start shows the overlay, populates the store and requests the first frame.
func (e *Engine) start() {
	if e.running || e.disposed || e.hidden {
		return
	}
	// A fade-out still in flight is abandoned; the store restarts fresh.
	e.finalizeTimer.Stop()
	e.finalizeTimer = nil
	e.stopping = false
	e.sim.Reset()

	e.running = true
	e.activations++
	if e.overlay != nil {
		e.overlay.SetVisible(true)
		e.overlay.SetOpacity(1)
	}
	e.sim.Populate()
	e.haveLast = false
	e.frameTimer = e.clock.RequestFrame(e.onFrame)
	e.setState(StateActive)
}

// tick runs one frame: step, render and reschedule.
func (e *Engine) tick(now time.Duration) {
	if !e.running {
		return
	}
	dt := 0.0
	if e.haveLast {
		dt = (now - e.lastFrame).Seconds()
	}
	e.lastFrame, e.haveLast = now, true

	var t0 time.Time
	if e.debug {
		t0 = time.Now()
	}
	e.sim.Step(dt)
	if e.debug {
		e.frameStats.stepTime = time.Since(t0)
		t0 = time.Now()
	}
	drawn := e.renderer.Render(e.surface)
	if e.debug {
		e.frameStats.renderTime = time.Since(t0)
		e.frameStats.drawn = drawn
		e.debugLog(e.frameStats)
	}

	if e.running && !e.disposed {
		e.frameTimer = e.clock.RequestFrame(e.onFrame)
	}
}

// BeginStop starts the fade-out: the frame handle is cancelled, the overlay
// opacity target becomes 0 and FinalizeStop is scheduled after
// FadeDuration. The engine is left Idle; Activity re-arms the idle timer
// afterwards. It returns false if the engine was not running.
func (e *Engine) BeginStop() bool {
	if !e.running {
		return false
	}
	e.running = false
	e.frameTimer.Stop()
	e.frameTimer = nil
	e.haveLast = false

	if e.overlay != nil {
		e.overlay.SetOpacity(0)
	}
	e.stopping = true
	e.stopBegan = e.clock.Now()
	e.finalizeTimer = e.clock.AfterFunc(e.cfg.FadeDuration, e.onFinalize)
	e.setState(StateIdle)
	e.log.Debug("stopping", "particles", e.store.Len(), "decays", e.store.DecayLen())
	return true
}

// FinalizeStop completes a stop once the fade-out has run for
// FadeDuration: the surface is cleared, both collections are emptied and
// the overlay is detached. It returns false if there is no stop to
// finalize or the fade has not finished.
func (e *Engine) FinalizeStop() bool {
	if e.running || !e.stopping {
		return false
	}
	if e.clock.Now()-e.stopBegan < e.cfg.FadeDuration {
		return false
	}
	e.finalizeTimer.Stop()
	e.finalizeTimer = nil
	e.stopping = false

	e.renderer.ClearSurface(e.surface)
	e.sim.Reset()
	if e.overlay != nil {
		e.overlay.SetVisible(false)
	}
	e.log.Debug("stopped")
	return true
}

// Dispose cancels every scheduled callback, clears the surface and
// empties the store. The engine ignores all further signals.
func (e *Engine) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	e.running = false
	e.stopping = false
	e.idleTimer.Stop()
	e.frameTimer.Stop()
	e.finalizeTimer.Stop()
	e.idleTimer, e.frameTimer, e.finalizeTimer = nil, nil, nil

	e.renderer.ClearSurface(e.surface)
	e.sim.Reset()
	if e.overlay != nil {
		e.overlay.SetOpacity(0)
		e.overlay.SetVisible(false)
	}
	e.setState(StateIdle)
	e.log.Debug("disposed", "stats", e.Stats())
}

// SetDebugMode enables per-frame timing logs at Debug level.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	now := e.clock.Now()
	s := Stats{
		Engine:      e.id,
		State:       e.state,
		Clock:       now,
		ClockMillis: now.Milliseconds(),
		Elapsed:     e.sim.Elapsed(),
		Particles:   e.store.Len(),
		Decays:      e.store.DecayLen(),
		Frames:      e.renderer.Frames(),
		Skipped:     e.renderer.Skipped(),
		Activations: e.activations,
	}
	s.setCounters(e.sim.Counters())
	return s
}

func (e *Engine) setState(s State) {
	if e.state == s {
		return
	}
	e.log.Debug("state", "from", e.state.String(), "to", s.String())
	e.state = s
}
