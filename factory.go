package drizzle

import (
	"math"
	"math/rand/v2"
)

// Rain drop bundle. Every property is a linear function of one depth value
// in [0, 1): near drops are longer, faster, thicker, more opaque and drift more.
var (
	dropLength    = Range{10, 50}
	dropSpeed     = Range{200, 1000}
	dropThickness = Range{0.6, 2.2}
	dropAlpha     = Range{0.15, 0.75}
)

const (
	dropSpawnY   = -20.0
	dropWindBase = 0.6
)

// Splash burst constants.
const (
	splashMinCount   = 3
	splashExtraCount = 6 // count is splashMinCount + [0, splashExtraCount)
	splashSpread     = math.Pi * 0.9
)

var (
	splashSpeed  = Range{40, 160} // the upper part scales with strength
	splashRadius = Range{1, 4}    // the upper part scales with strength
	splashLife   = Range{0.18, 0.53}
)

// flakeStyle bundles the ranges of one discrete snowflake style.
type flakeStyle struct {
	size       Range
	speed      Range
	alpha      Range
	wind       float64 // horizontal velocity spread, px/s
	drift      Range   // sway amplitude or spiral radius
	phaseSpeed Range
	spin       float64 // max absolute spin, rad/s
}

var (
	gentleFlake = flakeStyle{
		size:       Range{1.5, 3.5},
		speed:      Range{25, 55},
		alpha:      Range{0.35, 0.7},
		wind:       20,
		drift:      Range{10, 30},
		phaseSpeed: Range{0.8, 1.6},
		spin:       0.6,
	}
	dramaticFlake = flakeStyle{
		size:       Range{3.5, 7},
		speed:      Range{60, 110},
		alpha:      Range{0.6, 0.95},
		wind:       50,
		drift:      Range{25, 60},
		phaseSpeed: Range{1.5, 3},
		spin:       1.5,
	}
)

const (
	// gentleWeight is the probability a new flake uses the gentle style.
	gentleWeight = 0.7

	driftSettle     = 0.5
	driftSinkSpeed  = 6.0
	driftCarry      = 0.1 // fraction of the flake's wind kept by its residue
	driftGroundJit  = 3.0
	driftMinRadius  = 1.0
	driftSizeFactor = 0.6
)

var driftLife = Range{8, 15}

// Factory produces randomized particles and decay effects for one effect
// type. It has no state besides its random source.
type Factory struct {
	rng    *rand.Rand
	effect Effect
}

// NewFactory creates a Factory. A nil rng gets a randomly seeded PCG source.
func NewFactory(effect Effect, rng *rand.Rand) *Factory {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Factory{rng: rng, effect: effect}
}

// Effect returns the effect type this factory produces.
func (f *Factory) Effect() Effect {
	return f.effect
}

// Spawn returns a particle entering from the top of the viewport at a
// uniformly random horizontal position.
func (f *Factory) Spawn(m Metrics) Particle {
	if f.effect == EffectSnow {
		return f.flake(m)
	}
	return f.drop(m)
}

// SpawnScattered returns a particle placed uniformly over the whole
// viewport, used for the initial burst so the screen never starts empty.
func (f *Factory) SpawnScattered(m Metrics) Particle {
	p := f.Spawn(m)
	p.Y = f.rng.Float64() * m.Height
	return p
}

func (f *Factory) drop(m Metrics) Particle {
	depth := f.rng.Float64()
	return Particle{
		Kind:  KindDrop,
		X:     f.rng.Float64() * m.Width,
		Y:     dropSpawnY,
		VX:    (f.rng.Float64() - 0.5) * dropWindBase * (1 + depth),
		VY:    dropSpeed.Lerp(depth),
		Size:  dropThickness.Lerp(depth),
		Alpha: dropAlpha.Lerp(depth),
		Drop:  DropShape{Length: dropLength.Lerp(depth)},
	}
}

func (f *Factory) flake(m Metrics) Particle {
	style, kind := &gentleFlake, KindSway
	if f.rng.Float64() >= gentleWeight {
		style, kind = &dramaticFlake, KindSpiral
	}

	size := style.size.Random(f.rng)
	p := Particle{
		Kind:  kind,
		X:     f.rng.Float64() * m.Width,
		Y:     -2*size - 5,
		VX:    (f.rng.Float64() - 0.5) * style.wind,
		VY:    style.speed.Random(f.rng),
		Size:  size,
		Alpha: style.alpha.Random(f.rng),
		Spin: Spin{
			Angle: f.rng.Float64() * 2 * math.Pi,
			Speed: (f.rng.Float64()*2 - 1) * style.spin,
		},
	}

	phase := f.rng.Float64() * 2 * math.Pi
	if kind == KindSway {
		p.Sway = Sway{Phase: phase, Speed: style.phaseSpeed.Random(f.rng), Amplitude: style.drift.Random(f.rng)}
	} else {
		p.Spiral = Spiral{Phase: phase, Speed: style.phaseSpeed.Random(f.rng), Radius: style.drift.Random(f.rng)}
	}
	return p
}

// Splash adds a burst of 3 to 8 splash droplets at (x, y) to the store and
// returns how many were added. strength scales droplet speed and radius.
func (f *Factory) Splash(s *Store, x, y, strength, alpha float64) int {
	count := splashMinCount + f.rng.IntN(splashExtraCount)
	for range count {
		angle := math.Pi + (f.rng.Float64()-0.5)*splashSpread
		speed := splashSpeed.Min + f.rng.Float64()*(splashSpeed.Max-splashSpeed.Min)*strength
		life := splashLife.Random(f.rng)
		s.AddDecay(Decay{
			Kind:    DecaySplash,
			X:       x,
			Y:       y,
			VX:      math.Cos(angle) * speed,
			VY:      math.Sin(angle) * speed,
			Radius:  splashRadius.Min + f.rng.Float64()*(splashRadius.Max-splashRadius.Min)*strength,
			Alpha:   alpha,
			Life:    life,
			MaxLife: life,
		})
	}
	return count
}

// Drift returns the ground residue left by flake p landing on groundY.
func (f *Factory) Drift(p *Particle, groundY float64) Decay {
	life := driftLife.Random(f.rng)
	return Decay{
		Kind:    DecayDrift,
		X:       p.X,
		Y:       groundY - f.rng.Float64()*driftGroundJit,
		VX:      p.VX * driftCarry,
		VY:      driftSinkSpeed,
		Radius:  max(driftMinRadius, p.Size*driftSizeFactor),
		Alpha:   p.Alpha,
		Life:    life,
		MaxLife: life,
		Settle:  driftSettle,
	}
}
