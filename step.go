package drizzle

import "math"

const (
	// splashStrength converts a drop's streak length into splash strength.
	splashStrength = 0.06
	// splashGroundLift places splashes slightly above the viewport bottom.
	splashGroundLift = 2.0
	// splashRise damps the vertical motion of splash droplets.
	splashRise = 0.6
)

// Simulation advances the particles and decay effects of a Store.
type Simulation struct {
	cfg     Config
	store   *Store
	factory *Factory
	display Display

	elapsed  float64
	spawnAcc float64
	spawned  int
	grounded int
	escaped  int
	splashed int
}

// NewSimulation wires a simulation over store, drawing new particles from
// factory and reading the viewport from display each step.
func NewSimulation(cfg Config, store *Store, factory *Factory, display Display) *Simulation {
	return &Simulation{
		cfg:     cfg,
		store:   store,
		factory: factory,
		display: display,
	}
}

// Store returns the simulated store.
func (s *Simulation) Store() *Store {
	return s.store
}

// Elapsed returns the total simulated time in seconds.
func (s *Simulation) Elapsed() float64 {
	return s.elapsed
}

// Counters returns the lifetime particle counters.
func (s *Simulation) Counters() Counters {
	return Counters{
		Spawned:  s.spawned,
		Grounded: s.grounded,
		Escaped:  s.escaped,
		Splashes: s.splashed,
		Evicted:  s.store.Evicted(),
	}
}

// Populate fills the store with the configured initial burst, scattered
// over the whole viewport.
func (s *Simulation) Populate() {
	m := s.display.Metrics()
	n := min(s.cfg.InitialParticles, s.store.Cap())
	for s.store.Len() < n {
		s.store.Add(s.factory.SpawnScattered(m))
		s.spawned++
	}
}

// Reset empties the store and the spawn accumulator. Counters and elapsed
// time are kept.
func (s *Simulation) Reset() {
	s.store.Reset()
	s.spawnAcc = 0
}

// Step advances the simulation by dt seconds. dt is clamped to
// [0, Config.MaxStep] so a long stall never teleports particles.
func (s *Simulation) Step(dt float64) {
	dt = clampStep(dt, s.cfg.MaxStep)
	if dt == 0 {
		return
	}
	s.elapsed += dt
	m := s.display.Metrics()

	s.spawn(dt, m)
	s.moveParticles(dt, m)
	s.updateDecays(dt, m)
}

// clampStep bounds dt to [0, maxStep]; NaN becomes 0.
func clampStep(dt, maxStep float64) float64 {
	if !(dt > 0) {
		return 0
	}
	return math.Min(dt, maxStep)
}

// spawn adds SpawnRate*dt particles on average, carrying the fractional
// remainder to the next step so density does not depend on frame rate.
// A full store drops the backlog, so one call adds at most the free
// capacity.
func (s *Simulation) spawn(dt float64, m Metrics) {
	if s.cfg.SpawnRate <= 0 {
		return
	}
	s.spawnAcc += s.cfg.SpawnRate * dt
	for s.spawnAcc >= 1.0 {
		if s.store.Full() {
			s.spawnAcc = 0
			return
		}
		s.spawnAcc -= 1.0
		s.store.Add(s.factory.Spawn(m))
		s.spawned++
	}
}

func (s *Simulation) moveParticles(dt float64, m Metrics) {
	ground := m.Height + s.cfg.GroundOffset
	left := -s.cfg.EdgeBuffer
	right := m.Width + s.cfg.EdgeBuffer

	// Reverse iteration so a swap-remove never skips a particle.
	for i := s.store.Len() - 1; i >= 0; i-- {
		p := s.store.Particle(i)
		integrate(p, dt)

		if p.X < left || p.X > right {
			s.store.remove(i)
			s.escaped++
			continue
		}
		if p.Y > ground {
			s.land(p, m)
			s.store.remove(i)
			s.grounded++
		}
	}
}

// integrate applies one explicit Euler step of p's motion model.
func integrate(p *Particle, dt float64) {
	p.X += p.VX * dt
	p.Y += p.VY * dt

	switch p.Kind {
	case KindSway:
		p.X += math.Sin(p.Sway.Phase) * p.Sway.Amplitude * dt
		p.Sway.Phase += p.Sway.Speed * dt
		p.Spin.Angle += p.Spin.Speed * dt
	case KindSpiral:
		p.X += math.Cos(p.Spiral.Phase) * p.Spiral.Radius * dt
		p.Spiral.Phase += p.Spiral.Speed * dt
		p.Spin.Angle += p.Spin.Speed * dt
	}
}

// land spawns the ground effect for p. p is still valid; the caller
// removes it afterwards.
func (s *Simulation) land(p *Particle, m Metrics) {
	switch p.Kind {
	case KindDrop:
		s.factory.Splash(s.store, p.X, m.Height-splashGroundLift, p.Drop.Length*splashStrength, p.Alpha)
		s.splashed++
	case KindSway, KindSpiral:
		s.store.AddDecay(s.factory.Drift(p, m.Height))
	}
}

func (s *Simulation) updateDecays(dt float64, m Metrics) {
	decays := s.store.decays
	n := 0
	for i := 0; i < s.store.decayN; i++ {
		d := &decays[i]
		d.Life -= dt * s.cfg.FadeRate
		if d.Life <= 0 {
			continue
		}

		switch d.Kind {
		case DecaySplash:
			d.Y -= d.VY * dt * splashRise
			d.X += d.VX * dt
		case DecayDrift:
			if d.Settle > 0 {
				d.X += d.VX * dt
				d.Y += d.VY * dt
				d.Settle -= dt
			}
			if rest := m.Height - d.Radius*0.5; d.Y > rest {
				d.Y = rest
			}
		}

		if n != i {
			decays[n] = *d
		}
		n++
	}
	clear(decays[n:s.store.decayN])
	s.store.decayN = n
}
