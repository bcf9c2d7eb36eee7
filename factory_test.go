package drizzle

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/stat"
)

var factoryMetrics = Metrics{Width: 1000, Height: 800, Density: 1}

func newTestFactory(effect Effect) *Factory {
	return NewFactory(effect, rand.New(rand.NewPCG(7, 11)))
}

func TestFactoryDropRanges(t *testing.T) {
	f := newTestFactory(EffectRain)
	for range 2000 {
		p := f.Spawn(factoryMetrics)
		if p.Kind != KindDrop {
			t.Fatalf("Kind = %s, want drop", p.Kind)
		}
		if p.X < 0 || p.X > factoryMetrics.Width {
			t.Fatalf("X = %f outside viewport", p.X)
		}
		if p.Y != -20 {
			t.Fatalf("Y = %f, want -20", p.Y)
		}
		if p.Drop.Length < 10 || p.Drop.Length > 50 {
			t.Fatalf("Length = %f, want within [10, 50]", p.Drop.Length)
		}
		if p.VY < 200 || p.VY > 1000 {
			t.Fatalf("VY = %f, want within [200, 1000]", p.VY)
		}
		if p.Size < 0.6 || p.Size > 2.2 {
			t.Fatalf("Size = %f, want within [0.6, 2.2]", p.Size)
		}
		if p.Alpha < 0.15 || p.Alpha > 0.75 {
			t.Fatalf("Alpha = %f, want within [0.15, 0.75]", p.Alpha)
		}
		if math.Abs(p.VX) > 0.6 {
			t.Fatalf("VX = %f, want |VX| <= 0.6", p.VX)
		}
	}
}

// All drop properties derive from one depth value, so they move together.
func TestFactoryDropDepthCorrelation(t *testing.T) {
	f := newTestFactory(EffectRain)
	lengths := make([]float64, 500)
	speeds := make([]float64, 500)
	for i := range lengths {
		p := f.Spawn(factoryMetrics)
		lengths[i] = p.Drop.Length
		speeds[i] = p.VY
	}
	if c := stat.Correlation(lengths, speeds, nil); c < 0.999 {
		t.Errorf("length/speed correlation = %f, want ~1", c)
	}
}

func TestFactorySnowStyleWeights(t *testing.T) {
	f := newTestFactory(EffectSnow)
	const n = 5000
	gentle := make([]float64, n)
	for i := range gentle {
		p := f.Spawn(factoryMetrics)
		switch p.Kind {
		case KindSway:
			gentle[i] = 1
		case KindSpiral:
		default:
			t.Fatalf("snow factory produced %s", p.Kind)
		}
	}
	mean := stat.Mean(gentle, nil)
	if math.Abs(mean-0.7) > 0.03 {
		t.Errorf("gentle share = %f, want ~0.7", mean)
	}
}

func TestFactoryFlakeStyles(t *testing.T) {
	f := newTestFactory(EffectSnow)
	var gentleSize, dramaticSize []float64
	for range 3000 {
		p := f.Spawn(factoryMetrics)
		if p.Y != -2*p.Size-5 {
			t.Fatalf("Y = %f, want just above the top edge", p.Y)
		}
		if p.Kind == KindSway {
			gentleSize = append(gentleSize, p.Size)
			if p.Sway.Amplitude < 10 || p.Sway.Amplitude > 30 {
				t.Fatalf("sway amplitude = %f", p.Sway.Amplitude)
			}
		} else {
			dramaticSize = append(dramaticSize, p.Size)
			if p.Spiral.Radius < 25 || p.Spiral.Radius > 60 {
				t.Fatalf("spiral radius = %f", p.Spiral.Radius)
			}
		}
		if p.Spin.Angle < 0 || p.Spin.Angle > 2*math.Pi {
			t.Fatalf("spin angle = %f", p.Spin.Angle)
		}
	}
	if g, d := stat.Mean(gentleSize, nil), stat.Mean(dramaticSize, nil); g >= d {
		t.Errorf("gentle mean size %f should be below dramatic %f", g, d)
	}
}

func TestFactoryScatteredCoversHeight(t *testing.T) {
	f := newTestFactory(EffectRain)
	ys := make([]float64, 2000)
	for i := range ys {
		p := f.SpawnScattered(factoryMetrics)
		if p.Y < 0 || p.Y > factoryMetrics.Height {
			t.Fatalf("Y = %f outside viewport", p.Y)
		}
		ys[i] = p.Y
	}
	if mean := stat.Mean(ys, nil); math.Abs(mean-400) > 30 {
		t.Errorf("mean Y = %f, want ~400", mean)
	}
}

func TestFactorySplashBurst(t *testing.T) {
	f := newTestFactory(EffectRain)
	seen := map[int]bool{}
	for range 500 {
		s := NewStore(1, 16)
		n := f.Splash(s, 100, 598, 3, 0.5)
		if n < 3 || n > 8 {
			t.Fatalf("burst size = %d, want within [3, 8]", n)
		}
		if s.DecayLen() != n {
			t.Fatalf("DecayLen = %d, want %d", s.DecayLen(), n)
		}
		seen[n] = true
		for _, d := range s.Decays() {
			if d.Kind != DecaySplash {
				t.Fatalf("Kind = %d, want splash", d.Kind)
			}
			if d.Life <= 0 || d.Life != d.MaxLife {
				t.Fatalf("Life = %f MaxLife = %f", d.Life, d.MaxLife)
			}
			if d.Life < 0.18 || d.Life > 0.53 {
				t.Fatalf("Life = %f, want within [0.18, 0.53]", d.Life)
			}
			// Angles cluster around pi: droplets fly sideways and up-screen
			// after the rise inversion in the step.
			if d.VX > 0 {
				t.Fatalf("VX = %f, want <= 0 for angles around pi", d.VX)
			}
			if d.Alpha != 0.5 || d.X != 100 || d.Y != 598 {
				t.Fatalf("decay = %+v", d)
			}
		}
	}
	for n := 3; n <= 8; n++ {
		if !seen[n] {
			t.Errorf("burst size %d never produced", n)
		}
	}
}

func TestFactoryDrift(t *testing.T) {
	f := newTestFactory(EffectSnow)
	p := Particle{Kind: KindSway, X: 50, VX: 20, Size: 4, Alpha: 0.8}
	d := f.Drift(&p, 600)
	if d.Kind != DecayDrift {
		t.Errorf("Kind = %d, want drift", d.Kind)
	}
	if d.Y > 600 || d.Y < 597 {
		t.Errorf("Y = %f, want within 3px above the ground", d.Y)
	}
	assertNear(t, "VX", d.VX, 2)
	assertNear(t, "Radius", d.Radius, 2.4)
	if d.Life < 8 || d.Life > 15 || d.MaxLife != d.Life {
		t.Errorf("Life = %f MaxLife = %f", d.Life, d.MaxLife)
	}

	tiny := Particle{Kind: KindSway, Size: 1}
	if r := f.Drift(&tiny, 600).Radius; r != 1 {
		t.Errorf("tiny flake radius = %f, want 1", r)
	}
}

func TestNewFactoryNilRand(t *testing.T) {
	f := NewFactory(EffectSnow, nil)
	if f.Effect() != EffectSnow {
		t.Errorf("Effect = %s", f.Effect())
	}
	_ = f.Spawn(factoryMetrics)
}
