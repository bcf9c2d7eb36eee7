package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/phanxgames/drizzle"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drizzle.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPresetOnly(t *testing.T) {
	cfg, err := Load("", drizzle.EffectSnow)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != drizzle.DefaultConfig(drizzle.EffectSnow) {
		t.Errorf("cfg = %+v, want the snow preset", cfg)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	path := writeFile(t, `
idle_delay: 30s
fade_duration: 1.5s
max_particles: 120
tint:
  b: 0.5
`)
	cfg, err := Load(path, drizzle.EffectRain)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.IdleDelay != 30*time.Second || cfg.FadeDuration != 1500*time.Millisecond {
		t.Errorf("durations = %v/%v", cfg.IdleDelay, cfg.FadeDuration)
	}
	if cfg.MaxParticles != 120 {
		t.Errorf("MaxParticles = %d, want 120", cfg.MaxParticles)
	}
	want := drizzle.DefaultConfig(drizzle.EffectRain).Tint
	if cfg.Tint.R != want.R || cfg.Tint.B != 0.5 {
		t.Errorf("Tint = %+v, want preset red and blue 0.5", cfg.Tint)
	}
	if cfg.InitialParticles != 60 {
		t.Errorf("InitialParticles = %d, want the rain preset", cfg.InitialParticles)
	}
}

func TestLoadFileSelectsPreset(t *testing.T) {
	path := writeFile(t, "effect: snow\n")
	cfg, err := Load(path, drizzle.EffectRain)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != drizzle.DefaultConfig(drizzle.EffectSnow) {
		t.Errorf("cfg = %+v, want the snow preset", cfg)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DRIZZLE_IDLE_DELAY", "2s")
	t.Setenv("DRIZZLE_SPAWN_RATE", "90")
	t.Setenv("DRIZZLE_TINT_G", "0.25")
	cfg, err := Load("", drizzle.EffectRain)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.IdleDelay != 2*time.Second {
		t.Errorf("IdleDelay = %v, want 2s", cfg.IdleDelay)
	}
	if cfg.SpawnRate != 90 {
		t.Errorf("SpawnRate = %v, want 90", cfg.SpawnRate)
	}
	if cfg.Tint.G != 0.25 {
		t.Errorf("Tint.G = %v, want 0.25", cfg.Tint.G)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), drizzle.EffectRain); err == nil {
			t.Error("expected error")
		}
	})
	t.Run("unknown effect", func(t *testing.T) {
		path := writeFile(t, "effect: hail\n")
		_, err := Load(path, drizzle.EffectRain)
		if !errors.Is(err, drizzle.ErrInvalidConfig) {
			t.Errorf("err = %v, want ErrInvalidConfig", err)
		}
	})
	t.Run("invalid value", func(t *testing.T) {
		path := writeFile(t, "max_step: 0\n")
		_, err := Load(path, drizzle.EffectRain)
		if !errors.Is(err, drizzle.ErrInvalidConfig) {
			t.Errorf("err = %v, want ErrInvalidConfig", err)
		}
	})
}

func TestSaveRoundTrip(t *testing.T) {
	want := drizzle.DefaultConfig(drizzle.EffectSnow)
	want.IdleDelay = 12 * time.Second
	want.EdgeBuffer = 80
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path, drizzle.EffectRain)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("round trip:\n got %+v\nwant %+v", got, want)
	}
}

func TestWriteUsesDurationStrings(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, drizzle.DefaultConfig(drizzle.EffectRain)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"effect: rain", "idle_delay: 5s", "fade_duration: 800ms", "max_particles: 200"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
