// Package drizzle is an idle-triggered rain and snow overlay engine.
//
// An [Engine] waits for a period without user input, then animates falling
// particles over the whole viewport until the next input, at which point it
// fades out. Rain drops splash when they reach the ground line; snowflakes
// leave residue that settles and slowly fades.
//
// The package has no rendering backend of its own. Hosts supply a [Surface]
// (a canvas-style 2D context), an optional [Overlay] for visibility and
// opacity, and a [Display] that reports the viewport size and pixel density.
// Ready-made hosts live in drizzle/ebitenhost (a transparent Ebitengine
// window) and drizzle/termhost (a tcell terminal).
//
// # Quick start
//
//	cfg := drizzle.DefaultConfig(drizzle.EffectSnow)
//	e, err := drizzle.New(cfg, display,
//		drizzle.WithSurface(surface),
//		drizzle.WithOverlay(overlay),
//		drizzle.WithLogger(logger),
//	)
//	if err != nil {
//		return err
//	}
//	defer e.Dispose()
//
//	// Once per display refresh:
//	e.Advance(elapsed)
//
//	// From input handlers:
//	e.Handle(drizzle.SignalActivity)
//
// # Time
//
// Nothing in the package reads the wall clock. Each Engine runs on a
// [FrameClock] that the host advances once per frame; idle timers, the
// deferred clear after a fade-out and frame ticks are all scheduled on it.
// Tests advance the clock directly, so lifecycle behavior is deterministic.
//
// # Lifecycle
//
// An Engine is Pending with its idle timer armed as soon as [New] returns.
// When the timer elapses it becomes Active: the overlay is shown, its
// opacity target set to 1, the store populated with an initial burst and
// frames start. Any activity stops the effect in two phases ([Engine.BeginStop]
// and [Engine.FinalizeStop]) and re-arms the timer. Losing visibility stops
// the effect and leaves the Engine Idle until it is visible again.
//
// # Configuration
//
// [DefaultConfig] returns the rain and snow presets. drizzle/config loads a
// [Config] from YAML and DRIZZLE_* environment variables.
package drizzle
