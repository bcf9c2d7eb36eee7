package drizzle

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigPresets(t *testing.T) {
	rain := DefaultConfig(EffectRain)
	if err := rain.Validate(); err != nil {
		t.Fatalf("rain preset invalid: %v", err)
	}
	if rain.MaxParticles != 200 || rain.InitialParticles != 60 || rain.MaxDecays != 200 {
		t.Errorf("rain pools = %d/%d/%d", rain.MaxParticles, rain.InitialParticles, rain.MaxDecays)
	}
	if rain.IdleDelay != 5*time.Second || rain.FadeDuration != 800*time.Millisecond {
		t.Errorf("rain timing = %v/%v", rain.IdleDelay, rain.FadeDuration)
	}
	assertNear(t, "max step", rain.MaxStep, 0.05)

	snow := DefaultConfig(EffectSnow)
	if err := snow.Validate(); err != nil {
		t.Fatalf("snow preset invalid: %v", err)
	}
	if snow.Effect != EffectSnow || snow.MaxParticles != 150 || snow.InitialParticles != 80 {
		t.Errorf("snow preset = %+v", snow)
	}

	if DefaultConfig("fog").Effect != EffectRain {
		t.Error("unknown effect should fall back to rain")
	}
}

func TestConfigValidateCollectsErrors(t *testing.T) {
	cfg := DefaultConfig(EffectRain)
	cfg.Effect = "fog"
	cfg.IdleDelay = 0
	cfg.InitialParticles = 500
	cfg.FadeRate = -1

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
	msg := err.Error()
	for _, want := range []string{"fog", "idle_delay", "initial_particles", "fade_rate"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %s", msg, want)
		}
	}
}

func TestConfigValidateFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative fade", func(c *Config) { c.FadeDuration = -time.Second }},
		{"zero max step", func(c *Config) { c.MaxStep = 0 }},
		{"zero particles", func(c *Config) { c.MaxParticles = 0 }},
		{"negative spawn rate", func(c *Config) { c.SpawnRate = -1 }},
		{"zero decays", func(c *Config) { c.MaxDecays = 0 }},
		{"negative edge buffer", func(c *Config) { c.EdgeBuffer = -1 }},
		{"NaN max step", func(c *Config) { c.MaxStep = math.NaN() }},
		{"infinite spawn rate", func(c *Config) { c.SpawnRate = math.Inf(1) }},
		{"NaN fade rate", func(c *Config) { c.FadeRate = math.NaN() }},
		{"infinite ground offset", func(c *Config) { c.GroundOffset = math.Inf(-1) }},
		{"infinite edge buffer", func(c *Config) { c.EdgeBuffer = math.Inf(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(EffectRain)
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfigValidateNamesNonFiniteField(t *testing.T) {
	cfg := DefaultConfig(EffectSnow)
	cfg.SpawnRate = math.Inf(1)
	cfg.MaxStep = math.NaN()

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for non-finite values")
	}
	for _, want := range []string{"spawn_rate must be finite", "max_step must be finite"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}
