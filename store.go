package drizzle

const (
	defaultMaxParticles = 200
	defaultMaxDecays    = 200
)

// Store holds the live particles and decay effects of one engine. Both
// collections are preallocated and never grow.
//
// Particle order is irrelevant: removal swaps the last live particle into
// the freed slot. Decay order is insertion order: when the decay pool is
// full the oldest entry is evicted, and removal compacts in place so the
// remaining entries keep their relative order.
type Store struct {
	particles []Particle
	alive     int

	decays  []Decay
	decayN  int
	evicted int
}

// NewStore creates a Store with the given capacities. Non-positive values
// fall back to 200.
func NewStore(maxParticles, maxDecays int) *Store {
	if maxParticles <= 0 {
		maxParticles = defaultMaxParticles
	}
	if maxDecays <= 0 {
		maxDecays = defaultMaxDecays
	}
	return &Store{
		particles: make([]Particle, maxParticles),
		decays:    make([]Decay, maxDecays),
	}
}

// Len returns the number of live particles.
func (s *Store) Len() int {
	return s.alive
}

// Cap returns the particle capacity.
func (s *Store) Cap() int {
	return len(s.particles)
}

// DecayLen returns the number of live decay effects.
func (s *Store) DecayLen() int {
	return s.decayN
}

// DecayCap returns the decay capacity.
func (s *Store) DecayCap() int {
	return len(s.decays)
}

// Evicted returns how many decay effects were dropped by FIFO eviction.
func (s *Store) Evicted() int {
	return s.evicted
}

// Full reports whether the particle pool is at capacity.
func (s *Store) Full() bool {
	return s.alive >= len(s.particles)
}

// Add inserts p. Returns false (and drops p) when the pool is full.
func (s *Store) Add(p Particle) bool {
	if s.alive >= len(s.particles) {
		return false
	}
	s.particles[s.alive] = p
	s.alive++
	return true
}

// Particle returns a pointer to the i-th live particle. The pointer is only
// valid until the next removal.
func (s *Store) Particle(i int) *Particle {
	return &s.particles[i]
}

// Particles returns the live particles. The returned slice aliases the
// store and MUST NOT be retained across steps.
func (s *Store) Particles() []Particle {
	return s.particles[:s.alive]
}

// remove swap-removes the i-th live particle.
func (s *Store) remove(i int) {
	s.alive--
	s.particles[i] = s.particles[s.alive]
	s.particles[s.alive] = Particle{}
}

// AddDecay appends d, evicting the oldest decay effect if the pool is full.
func (s *Store) AddDecay(d Decay) {
	if s.decayN == len(s.decays) {
		copy(s.decays, s.decays[1:s.decayN])
		s.decayN--
		s.evicted++
	}
	s.decays[s.decayN] = d
	s.decayN++
}

// Decays returns the live decay effects, oldest first. The returned slice
// aliases the store and MUST NOT be retained across steps.
func (s *Store) Decays() []Decay {
	return s.decays[:s.decayN]
}

// Reset empties both collections. Capacities are kept.
func (s *Store) Reset() {
	clear(s.particles[:s.alive])
	clear(s.decays[:s.decayN])
	s.alive = 0
	s.decayN = 0
}
