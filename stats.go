package drizzle

import (
	"log/slog"
	"time"
)

// Counters are lifetime particle counters of a Simulation.
type Counters struct {
	Spawned  int // particles created, including initial bursts
	Grounded int // particles removed at the ground line
	Escaped  int // particles removed past the left or right edge
	Splashes int // splash bursts emitted
	Evicted  int // decay effects dropped by FIFO eviction
}

// Stats is a snapshot of an Engine for logging and telemetry.
type Stats struct {
	Engine      string        `csv:"engine"`
	State       State         `csv:"state"`
	Clock       time.Duration `csv:"-"`
	ClockMillis int64         `csv:"clock_ms"`
	Elapsed     float64       `csv:"elapsed_s"`
	Particles   int           `csv:"particles"`
	Decays      int           `csv:"decays"`
	Frames      int           `csv:"frames"`
	Skipped     int           `csv:"skipped"`
	Activations int           `csv:"activations"`
	Spawned     int           `csv:"spawned"`
	Grounded    int           `csv:"grounded"`
	Escaped     int           `csv:"escaped"`
	Splashes    int           `csv:"splashes"`
	Evicted     int           `csv:"evicted"`
}

// LogValue implements slog.LogValuer.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("state", s.State.String()),
		slog.Duration("clock", s.Clock),
		slog.Float64("elapsed", s.Elapsed),
		slog.Int("particles", s.Particles),
		slog.Int("decays", s.Decays),
		slog.Int("frames", s.Frames),
		slog.Int("skipped", s.Skipped),
		slog.Int("activations", s.Activations),
		slog.Int("spawned", s.Spawned),
		slog.Int("grounded", s.Grounded),
		slog.Int("escaped", s.Escaped),
		slog.Int("splashes", s.Splashes),
		slog.Int("evicted", s.Evicted),
	)
}

func (s *Stats) setCounters(c Counters) {
	s.Spawned = c.Spawned
	s.Grounded = c.Grounded
	s.Escaped = c.Escaped
	s.Splashes = c.Splashes
	s.Evicted = c.Evicted
}
