package drizzle

import "time"

// debugStats holds per-frame timing. Only populated when Engine.debug is true.
type debugStats struct {
	stepTime   time.Duration
	renderTime time.Duration
	drawn      bool
}

// debugLog logs frame timing and pool occupancy at Debug level.
func (e *Engine) debugLog(stats debugStats) {
	if !e.debug {
		return
	}
	e.log.Debug("frame",
		"step", stats.stepTime,
		"render", stats.renderTime,
		"total", stats.stepTime+stats.renderTime,
		"drawn", stats.drawn,
		"particles", e.store.Len(),
		"decays", e.store.DecayLen(),
	)
	if e.store.Full() {
		e.log.Debug("particle pool at capacity", "cap", e.store.Cap())
	}
}
