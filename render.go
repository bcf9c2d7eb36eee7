package drizzle

import "math"

const (
	minDropWidth = 0.8
	// dropSlant is how far (in seconds of horizontal travel) a drop streak
	// leans against its wind.
	dropSlant = 0.02

	// Flakes smaller than this are drawn as plain dots.
	flakeGlyphSize = 3.0
	flakeArms      = 6
	// Glyph proportions in units of the flake size.
	flakeBranchAt     = 0.6
	flakeBranchLength = 0.3
	flakeBranchAngle  = math.Pi / 4
	flakeCenter       = 0.2
	flakeLineWidth    = 0.15
	minFlakeLineWidth = 0.6

	splashFillAlpha = 0.6
	splashGrowth    = 0.6 // radius multiplier at the start of a splash
)

// Renderer draws a Store onto a Surface. It never mutates the store.
type Renderer struct {
	store   *Store
	display Display
	tint    Color
	frames  int
	skipped int
}

// NewRenderer creates a Renderer for store. tint is the base color; each
// particle supplies its own alpha.
func NewRenderer(store *Store, display Display, tint Color) *Renderer {
	return &Renderer{store: store, display: display, tint: tint}
}

// Frames returns how many frames were drawn.
func (r *Renderer) Frames() int {
	return r.frames
}

// Skipped returns how many frames were dropped because no surface was ready.
func (r *Renderer) Skipped() int {
	return r.skipped
}

// Render clears the viewport and draws every decay effect and particle.
// If s is nil or not ready the frame is skipped and Render returns false;
// the next frame simply tries again.
func (r *Renderer) Render(s Surface) bool {
	if s == nil || !s.Ready() {
		r.skipped++
		return false
	}
	m := r.display.Metrics()
	s.Clear(0, 0, m.Width, m.Height)

	for i := range r.store.Decays() {
		d := &r.store.decays[i]
		switch d.Kind {
		case DecaySplash:
			r.drawSplash(s, d)
		case DecayDrift:
			r.drawDrift(s, d)
		}
	}

	for i := range r.store.Len() {
		p := r.store.Particle(i)
		switch p.Kind {
		case KindDrop:
			r.drawDrop(s, p)
		case KindSway, KindSpiral:
			r.drawFlake(s, p)
		}
	}

	r.frames++
	return true
}

// ClearSurface erases the whole viewport if s is usable.
func (r *Renderer) ClearSurface(s Surface) {
	if s == nil || !s.Ready() {
		return
	}
	m := r.display.Metrics()
	s.Clear(0, 0, m.Width, m.Height)
}

func (r *Renderer) drawDrop(s Surface, p *Particle) {
	s.SetLineWidth(math.Max(minDropWidth, p.Size))
	s.SetStrokeColor(r.tint.WithAlpha(p.Alpha))
	s.BeginPath()
	s.MoveTo(p.X, p.Y)
	s.LineTo(p.X-p.VX*dropSlant, p.Y+p.Drop.Length)
	s.Stroke()
}

// drawFlake draws the glyph in unit space: translated to the flake,
// rotated by its spin and scaled by its size.
func (r *Renderer) drawFlake(s Surface, p *Particle) {
	s.Save()
	s.Translate(p.X, p.Y)
	s.Rotate(p.Spin.Angle)
	s.Scale(p.Size, p.Size)
	s.SetGlobalAlpha(p.Alpha)
	s.SetFillColor(r.tint)
	s.SetStrokeColor(r.tint)

	if p.Size < flakeGlyphSize {
		s.BeginPath()
		s.Arc(0, 0, 1, 0, 2*math.Pi)
		s.Fill()
		s.Restore()
		return
	}

	s.SetLineWidth(math.Max(minFlakeLineWidth, p.Size*flakeLineWidth) / p.Size)
	s.BeginPath()
	for k := range flakeArms {
		a := float64(k) * 2 * math.Pi / flakeArms
		sin, cos := math.Sincos(a)
		s.MoveTo(0, 0)
		s.LineTo(cos, sin)

		bx, by := cos*flakeBranchAt, sin*flakeBranchAt
		for _, side := range [2]float64{-1, 1} {
			bs, bc := math.Sincos(a + side*flakeBranchAngle)
			s.MoveTo(bx, by)
			s.LineTo(bx+bc*flakeBranchLength, by+bs*flakeBranchLength)
		}
	}
	s.Stroke()

	s.BeginPath()
	s.Arc(0, 0, flakeCenter, 0, 2*math.Pi)
	s.Fill()
	s.Restore()
}

// drawSplash draws an expanding circle that fades with remaining life.
func (r *Renderer) drawSplash(s Surface, d *Decay) {
	progress := 1 - d.Remaining()
	s.Save()
	s.SetGlobalAlpha((1 - progress) * d.Alpha)
	s.SetFillColor(r.tint.WithAlpha(d.Alpha * splashFillAlpha))
	s.BeginPath()
	s.Arc(d.X, d.Y, d.Radius*(splashGrowth+progress), 0, 2*math.Pi)
	s.Fill()
	s.Restore()
}

// drawDrift draws a fixed-size residue dot whose alpha follows its life.
func (r *Renderer) drawDrift(s Surface, d *Decay) {
	s.SetFillColor(r.tint.WithAlpha(d.Alpha * d.Remaining()))
	s.BeginPath()
	s.Arc(d.X, d.Y, d.Radius, 0, 2*math.Pi)
	s.Fill()
}
