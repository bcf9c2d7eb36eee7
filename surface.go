package drizzle

// Surface is the 2D drawing target the Renderer writes to. The method set
// mirrors a canvas 2D context closely enough that browser, GPU and
// terminal backends can all implement it.
//
// Coordinates passed to drawing calls are logical pixels. Resize installs
// a base transform that scales logical pixels to device pixels, so callers
// never deal with pixel density themselves.
type Surface interface {
	// Resize reallocates the backing store for a logical width x height
	// viewport at the given pixel density and resets the transform to
	// the density scale.
	Resize(width, height, density float64)
	// Ready reports whether the surface can currently be drawn to. A
	// surface that was never sized or has been detached returns false.
	Ready() bool

	// Clear erases the logical rectangle to transparent.
	Clear(x, y, width, height float64)

	// Save pushes the transform, global alpha, line width and colors.
	Save()
	// Restore pops the state pushed by the matching Save.
	Restore()
	Translate(x, y float64)
	Rotate(radians float64)
	Scale(sx, sy float64)
	// SetGlobalAlpha multiplies the alpha of everything drawn afterwards.
	SetGlobalAlpha(alpha float64)

	SetLineWidth(width float64)
	SetStrokeColor(c Color)
	SetFillColor(c Color)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	// Arc adds a circular arc around (x, y). Angles are in radians,
	// measured clockwise from the positive X axis in Y-down space.
	Arc(x, y, radius, startAngle, endAngle float64)
	ClosePath()
	Stroke()
	Fill()
}

// Overlay is the host-owned layer the effect is composited into. The host
// owns presentation: transitions, blending and stacking order.
type Overlay interface {
	// SetVisible attaches or detaches the overlay from the host view.
	SetVisible(visible bool)
	// SetOpacity sets the opacity the overlay should move toward.
	SetOpacity(target float64)
}

// drawState is the per-Save state of a SurfaceState.
type drawState struct {
	transform   Affine
	globalAlpha float64
	lineWidth   float64
	stroke      Color
	fill        Color
}

// SurfaceState is the canvas-style drawing state with Save/Restore stack
// semantics, plus the current path in device space. Host surfaces embed it
// to get transform, style and path bookkeeping and only implement
// Resize, Ready, Clear, Stroke and Fill.
type SurfaceState struct {
	cur   drawState
	base  Affine
	stack []drawState
	path  DevicePath
}

// ResetState drops the state stack and the current path and installs base
// as the transform.
func (s *SurfaceState) ResetState(base Affine) {
	s.base = base
	s.stack = s.stack[:0]
	s.path.Reset()
	s.cur = drawState{
		transform:   base,
		globalAlpha: 1,
		lineWidth:   1,
		stroke:      Color{0, 0, 0, 1},
		fill:        Color{0, 0, 0, 1},
	}
}

// Base returns the transform installed by the last ResetState.
func (s *SurfaceState) Base() Affine {
	return s.base
}

// Save implements Surface.
func (s *SurfaceState) Save() {
	s.stack = append(s.stack, s.cur)
}

// Restore implements Surface. An unbalanced Restore is ignored.
func (s *SurfaceState) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.cur = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

// Depth returns the number of unmatched Save calls.
func (s *SurfaceState) Depth() int {
	return len(s.stack)
}

// Translate implements Surface.
func (s *SurfaceState) Translate(x, y float64) {
	s.cur.transform = s.cur.transform.Translate(x, y)
}

// Rotate implements Surface.
func (s *SurfaceState) Rotate(radians float64) {
	s.cur.transform = s.cur.transform.Rotate(radians)
}

// Scale implements Surface.
func (s *SurfaceState) Scale(sx, sy float64) {
	s.cur.transform = s.cur.transform.Scale(sx, sy)
}

// SetGlobalAlpha implements Surface.
func (s *SurfaceState) SetGlobalAlpha(alpha float64) {
	s.cur.globalAlpha = clamp01(alpha)
}

// SetLineWidth implements Surface.
func (s *SurfaceState) SetLineWidth(width float64) {
	s.cur.lineWidth = width
}

// SetStrokeColor implements Surface.
func (s *SurfaceState) SetStrokeColor(c Color) {
	s.cur.stroke = c
}

// SetFillColor implements Surface.
func (s *SurfaceState) SetFillColor(c Color) {
	s.cur.fill = c
}

// BeginPath implements Surface.
func (s *SurfaceState) BeginPath() {
	s.path.Reset()
}

// MoveTo implements Surface.
func (s *SurfaceState) MoveTo(x, y float64) {
	dx, dy := s.cur.transform.Apply(x, y)
	s.path.add(PathSegment{Op: PathMove, X: dx, Y: dy})
}

// LineTo implements Surface.
func (s *SurfaceState) LineTo(x, y float64) {
	dx, dy := s.cur.transform.Apply(x, y)
	s.path.add(PathSegment{Op: PathLine, X: dx, Y: dy})
}

// Arc implements Surface. The transform is assumed free of skew, so the
// arc stays circular in device space.
func (s *SurfaceState) Arc(x, y, radius, startAngle, endAngle float64) {
	m := s.cur.transform
	dx, dy := m.Apply(x, y)
	rot := m.Angle()
	s.path.add(PathSegment{
		Op:     PathArc,
		X:      dx,
		Y:      dy,
		Radius: radius * m.UniformScale(),
		Start:  startAngle + rot,
		End:    endAngle + rot,
	})
}

// ClosePath implements Surface.
func (s *SurfaceState) ClosePath() {
	s.path.add(PathSegment{Op: PathClose})
}

// Path returns the current path in device space.
func (s *SurfaceState) Path() *DevicePath {
	return &s.path
}

// Transform returns the current logical-to-device transform.
func (s *SurfaceState) Transform() Affine {
	return s.cur.transform
}

// GlobalAlpha returns the current global alpha.
func (s *SurfaceState) GlobalAlpha() float64 {
	return s.cur.globalAlpha
}

// DeviceLineWidth returns the line width mapped through the transform.
func (s *SurfaceState) DeviceLineWidth() float64 {
	return s.cur.lineWidth * s.cur.transform.UniformScale()
}

// StrokeColor returns the stroke color with the global alpha applied.
func (s *SurfaceState) StrokeColor() Color {
	c := s.cur.stroke
	c.A *= s.cur.globalAlpha
	return c
}

// FillColor returns the fill color with the global alpha applied.
func (s *SurfaceState) FillColor() Color {
	c := s.cur.fill
	c.A *= s.cur.globalAlpha
	return c
}

// PathOp identifies a DevicePath segment.
type PathOp uint8

const (
	PathMove  PathOp = iota // start a new subpath at (X, Y)
	PathLine                // straight line to (X, Y)
	PathArc                 // arc around (X, Y) with Radius from Start to End
	PathClose               // close the current subpath
)

// PathSegment is one device-space path command.
type PathSegment struct {
	Op     PathOp
	X, Y   float64
	Radius float64
	Start  float64
	End    float64
}

// DevicePath is a path already mapped into device pixels.
type DevicePath struct {
	segs []PathSegment
}

// Reset empties the path, keeping its buffer.
func (p *DevicePath) Reset() {
	p.segs = p.segs[:0]
}

// Segments returns the recorded commands. The slice is reused by the next
// BeginPath.
func (p *DevicePath) Segments() []PathSegment {
	return p.segs
}

func (p *DevicePath) add(seg PathSegment) {
	p.segs = append(p.segs, seg)
}
