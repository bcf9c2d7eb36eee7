package drizzle

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidConfig is wrapped by every configuration validation error.
var ErrInvalidConfig = errors.New("drizzle: invalid config")

// Config controls the idle timing, pool sizes and simulation constants of
// an Engine. Start from DefaultConfig and adjust.
type Config struct {
	// Effect selects rain or snow.
	Effect Effect `mapstructure:"effect" yaml:"effect"`
	// IdleDelay is the inactivity window before the effect starts.
	IdleDelay time.Duration `mapstructure:"idle_delay" yaml:"idle_delay"`
	// FadeDuration is how long the overlay takes to fade in or out. The
	// store is cleared only after a fade-out of this length.
	FadeDuration time.Duration `mapstructure:"fade_duration" yaml:"fade_duration"`
	// MaxStep clamps the simulation delta, in seconds.
	MaxStep float64 `mapstructure:"max_step" yaml:"max_step"`
	// MaxParticles is the live particle capacity.
	MaxParticles int `mapstructure:"max_particles" yaml:"max_particles"`
	// InitialParticles is the burst populated on activation.
	InitialParticles int `mapstructure:"initial_particles" yaml:"initial_particles"`
	// SpawnRate is the expected number of new particles per second.
	SpawnRate float64 `mapstructure:"spawn_rate" yaml:"spawn_rate"`
	// MaxDecays is the splash/accumulation capacity (FIFO eviction).
	MaxDecays int `mapstructure:"max_decays" yaml:"max_decays"`
	// FadeRate scales how fast decay effects lose life.
	FadeRate float64 `mapstructure:"fade_rate" yaml:"fade_rate"`
	// GroundOffset moves the ground line relative to the viewport bottom.
	// Negative values put it above the bottom edge.
	GroundOffset float64 `mapstructure:"ground_offset" yaml:"ground_offset"`
	// EdgeBuffer is how far past the left or right edge a particle may
	// travel before it is removed.
	EdgeBuffer float64 `mapstructure:"edge_buffer" yaml:"edge_buffer"`
	// Tint is the base color of particles and decay effects.
	Tint Color `mapstructure:"tint" yaml:"tint"`
}

// DefaultConfig returns the preset for the given effect. Unknown effects
// get the rain preset.
func DefaultConfig(effect Effect) Config {
	cfg := Config{
		Effect:           EffectRain,
		IdleDelay:        5000 * time.Millisecond,
		FadeDuration:     800 * time.Millisecond,
		MaxStep:          0.05,
		MaxParticles:     200,
		InitialParticles: 60,
		SpawnRate:        60,
		MaxDecays:        200,
		FadeRate:         1,
		GroundOffset:     -4,
		EdgeBuffer:       50,
		Tint:             RGB8(200, 220, 255),
	}
	if effect == EffectSnow {
		cfg.Effect = EffectSnow
		cfg.MaxParticles = 150
		cfg.InitialParticles = 80
		cfg.SpawnRate = 30
		cfg.GroundOffset = 2
		cfg.Tint = RGB8(255, 255, 255)
	}
	return cfg
}

// Validate reports every out-of-range field, joined into one error.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}
	if c.Effect != EffectRain && c.Effect != EffectSnow {
		bad("unknown effect %q", c.Effect)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"max_step", c.MaxStep},
		{"spawn_rate", c.SpawnRate},
		{"fade_rate", c.FadeRate},
		{"ground_offset", c.GroundOffset},
		{"edge_buffer", c.EdgeBuffer},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			bad("%s must be finite, got %v", f.name, f.v)
		}
	}
	if c.IdleDelay <= 0 {
		bad("idle_delay must be positive, got %v", c.IdleDelay)
	}
	if c.FadeDuration < 0 {
		bad("fade_duration must not be negative, got %v", c.FadeDuration)
	}
	if c.MaxStep <= 0 {
		bad("max_step must be positive, got %v", c.MaxStep)
	}
	if c.MaxParticles <= 0 {
		bad("max_particles must be positive, got %d", c.MaxParticles)
	}
	if c.InitialParticles < 0 || c.InitialParticles > c.MaxParticles {
		bad("initial_particles must be within [0, %d], got %d", c.MaxParticles, c.InitialParticles)
	}
	if c.SpawnRate < 0 {
		bad("spawn_rate must not be negative, got %v", c.SpawnRate)
	}
	if c.MaxDecays <= 0 {
		bad("max_decays must be positive, got %d", c.MaxDecays)
	}
	if c.FadeRate <= 0 {
		bad("fade_rate must be positive, got %v", c.FadeRate)
	}
	if c.EdgeBuffer < 0 {
		bad("edge_buffer must not be negative, got %v", c.EdgeBuffer)
	}
	return errors.Join(errs...)
}
