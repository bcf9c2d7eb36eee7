package drizzle

import (
	"errors"
	"math/rand/v2"
	"testing"
)

// --- Range ---

func TestRangeRandomWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	r := Range{2, 5}
	for range 1000 {
		v := r.Random(rng)
		if v < 2 || v > 5 {
			t.Fatalf("Random = %f, want within [2, 5]", v)
		}
	}
}

func TestRangeDegenerate(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	if v := (Range{7, 7}).Random(rng); v != 7 {
		t.Errorf("Random = %f, want 7", v)
	}
}

func TestRangeLerp(t *testing.T) {
	r := Range{10, 50}
	assertNear(t, "t=0", r.Lerp(0), 10)
	assertNear(t, "t=0.5", r.Lerp(0.5), 30)
	assertNear(t, "t=1", r.Lerp(1), 50)
}

// --- Color ---

func TestRGB8(t *testing.T) {
	c := RGB8(255, 0, 51)
	assertNear(t, "R", c.R, 1)
	assertNear(t, "G", c.G, 0)
	assertNear(t, "B", c.B, 0.2)
	assertNear(t, "A", c.A, 1)

	w := c.WithAlpha(0.25)
	assertNear(t, "A", w.A, 0.25)
	assertNear(t, "original A", c.A, 1)
}

// --- Effect / Signal ---

func TestParseEffect(t *testing.T) {
	tests := []struct {
		name    string
		want    Effect
		wantErr bool
	}{
		{"rain", EffectRain, false},
		{"snow", EffectSnow, false},
		{"hail", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEffect(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("err = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseEffect(%q) = %q, %v", tt.name, got, err)
			}
		})
	}
}

func TestSignalString(t *testing.T) {
	if SignalActivity.String() != "activity" || SignalHidden.String() != "hidden" || SignalVisible.String() != "visible" {
		t.Error("unexpected signal names")
	}
	if Signal(9).String() != "signal(9)" {
		t.Errorf("unknown signal = %q", Signal(9).String())
	}
}

func TestStaticDisplay(t *testing.T) {
	d := StaticDisplay{Width: 320, Height: 200, Density: 2}
	if m := d.Metrics(); m.Width != 320 || m.Height != 200 || m.Density != 2 {
		t.Errorf("Metrics = %+v", m)
	}
}

func TestClamp01(t *testing.T) {
	assertNear(t, "below", clamp01(-1), 0)
	assertNear(t, "inside", clamp01(0.3), 0.3)
	assertNear(t, "above", clamp01(4), 1)
}
