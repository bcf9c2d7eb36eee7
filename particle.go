package drizzle

// ParticleKind tags which motion model a Particle follows. Only the payload
// matching the kind is meaningful; the others stay zero.
type ParticleKind uint8

const (
	KindDrop   ParticleKind = iota // rain streak: straight fall, uses Drop
	KindSway                       // gentle flake: sinusoidal drift, uses Sway and Spin
	KindSpiral                     // dramatic flake: spiral drift, uses Spiral and Spin
)

// String returns the kind name.
func (k ParticleKind) String() string {
	switch k {
	case KindDrop:
		return "drop"
	case KindSway:
		return "sway"
	case KindSpiral:
		return "spiral"
	default:
		return "unknown"
	}
}

// Particle is one live rain drop or snowflake. Positions are logical pixels,
// velocities logical pixels per second.
type Particle struct {
	X, Y   float64
	VX, VY float64
	// Size is the stroke thickness for drops and the glyph radius for flakes.
	Size  float64
	Alpha float64
	Kind  ParticleKind

	Drop   DropShape
	Sway   Sway
	Spiral Spiral
	Spin   Spin
}

// DropShape is the streak geometry of a rain drop.
type DropShape struct {
	Length float64
}

// Sway drifts a flake horizontally by sin(Phase)*Amplitude px/s.
type Sway struct {
	Phase     float64
	Speed     float64 // radians per second
	Amplitude float64
}

// Spiral drifts a flake horizontally by cos(Phase)*Radius px/s.
type Spiral struct {
	Phase  float64
	Speed  float64 // radians per second
	Radius float64
}

// Spin is a flake's glyph rotation.
type Spin struct {
	Angle float64
	Speed float64 // radians per second
}

// IsFlake reports whether the particle is drawn as a snowflake glyph.
func (p *Particle) IsFlake() bool {
	return p.Kind == KindSway || p.Kind == KindSpiral
}

// DecayKind tags the secondary effect spawned when a particle reaches the ground.
type DecayKind uint8

const (
	DecaySplash DecayKind = iota // short-lived expanding droplet
	DecayDrift                   // long-lived accumulated residue
)

// Decay is a secondary effect owned by the Store. It keeps no reference to
// the particle that produced it.
type Decay struct {
	X, Y    float64
	VX, VY  float64
	Radius  float64
	Alpha   float64
	Life    float64 // remaining lifetime in seconds
	MaxLife float64 // initial lifetime (for computing progress)
	// Settle is the remaining time a drift keeps moving before it rests.
	Settle float64
	Kind   DecayKind
}

// Remaining returns the remaining-life fraction in [0, 1].
func (d *Decay) Remaining() float64 {
	if d.MaxLife <= 0 {
		return 0
	}
	return clamp01(d.Life / d.MaxLife)
}
