package drizzle

import (
	"fmt"
	"math/rand/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Surfaces premultiply at submission time if their backend needs it.
type Color struct {
	R float64 `mapstructure:"r" yaml:"r"`
	G float64 `mapstructure:"g" yaml:"g"`
	B float64 `mapstructure:"b" yaml:"b"`
	A float64 `mapstructure:"a" yaml:"a"`
}

// WithAlpha returns c with its alpha component replaced by a.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// RGB8 builds an opaque Color from 8-bit channel values.
func RGB8(r, g, b uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, 1}
}

// Vec2 is a 2D vector in logical pixels.
type Vec2 struct {
	X, Y float64
}

// Range is a general-purpose min/max range used by the particle factory.
type Range struct {
	Min, Max float64
}

// Random returns a random float64 in [Min, Max] drawn from rng.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Lerp returns the value at fraction t between Min and Max.
func (r Range) Lerp(t float64) float64 {
	return lerp(r.Min, r.Max, t)
}

// Metrics describes the viewport in logical (CSS-like) pixels plus the
// display's pixel density. Device pixels = logical pixels * Density.
type Metrics struct {
	Width, Height float64
	Density       float64
}

// Display reports the current viewport metrics. It is queried on resize
// and each simulation step, so implementations should be cheap.
type Display interface {
	Metrics() Metrics
}

// StaticDisplay is a Display with fixed metrics. Useful for tests and for
// hosts whose viewport never changes.
type StaticDisplay Metrics

// Metrics implements Display.
func (d StaticDisplay) Metrics() Metrics {
	return Metrics(d)
}

// Effect selects which precipitation the engine simulates.
type Effect string

const (
	EffectRain Effect = "rain" // falling streaks that splash on the ground line
	EffectSnow Effect = "snow" // rotating flakes that accumulate on the ground line
)

// ParseEffect converts a name into an Effect.
func ParseEffect(name string) (Effect, error) {
	switch Effect(name) {
	case EffectRain, EffectSnow:
		return Effect(name), nil
	}
	return "", fmt.Errorf("%w: unknown effect %q", ErrInvalidConfig, name)
}

// Signal is a discrete host event consumed by the lifecycle controller.
type Signal uint8

const (
	SignalActivity Signal = iota // user input of any kind (pointer, key, scroll, touch)
	SignalHidden                 // the host view was hidden or lost focus
	SignalVisible                // the host view became visible again
)

// String returns the signal name.
func (s Signal) String() string {
	switch s {
	case SignalActivity:
		return "activity"
	case SignalHidden:
		return "hidden"
	case SignalVisible:
		return "visible"
	default:
		return fmt.Sprintf("signal(%d)", uint8(s))
	}
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// clamp01 clamps v into [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
