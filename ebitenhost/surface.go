package ebitenhost

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/drizzle"
)

// Surface is a drizzle.Surface backed by an offscreen *ebiten.Image sized
// in device pixels. Paths are rasterized with the vector package.
type Surface struct {
	drizzle.SurfaceState

	img    *ebiten.Image
	path   vector.Path
	stroke vector.StrokeOptions
	draw   vector.DrawPathOptions
	fill   vector.FillOptions
}

// NewSurface returns an unsized surface. It is not Ready until Resize.
func NewSurface() *Surface {
	s := &Surface{}
	s.stroke.LineCap = vector.LineCapRound
	s.stroke.LineJoin = vector.LineJoinRound
	s.draw.AntiAlias = true
	return s
}

// Resize implements drizzle.Surface. The backing image is reallocated only
// when the device size changes.
func (s *Surface) Resize(width, height, density float64) {
	if density <= 0 {
		density = 1
	}
	dw, dh := deviceSize(width, density), deviceSize(height, density)
	if dw <= 0 || dh <= 0 {
		s.Detach()
		return
	}
	if s.img == nil || s.img.Bounds().Dx() != dw || s.img.Bounds().Dy() != dh {
		if s.img != nil {
			s.img.Deallocate()
		}
		s.img = ebiten.NewImage(dw, dh)
	}
	s.ResetState(drizzle.Identity.Scale(density, density))
}

func deviceSize(logical, density float64) int {
	return int(math.Ceil(logical * density))
}

// Detach releases the backing image. The surface reports not Ready until
// the next Resize.
func (s *Surface) Detach() {
	if s.img != nil {
		s.img.Deallocate()
		s.img = nil
	}
	s.ResetState(drizzle.Identity)
}

// Ready implements drizzle.Surface.
func (s *Surface) Ready() bool {
	return s.img != nil
}

// Image returns the backing image, or nil when detached.
func (s *Surface) Image() *ebiten.Image {
	return s.img
}

// Clear implements drizzle.Surface.
func (s *Surface) Clear(x, y, width, height float64) {
	if s.img == nil {
		return
	}
	r := deviceRect(s.Base(), x, y, width, height).Intersect(s.img.Bounds())
	if r.Empty() {
		return
	}
	if r == s.img.Bounds() {
		s.img.Clear()
		return
	}
	s.img.SubImage(r).(*ebiten.Image).Clear()
}

// deviceRect maps a logical rectangle through base, rounding outward.
func deviceRect(base drizzle.Affine, x, y, width, height float64) image.Rectangle {
	x0, y0 := base.Apply(x, y)
	x1, y1 := base.Apply(x+width, y+height)
	return image.Rect(
		int(math.Floor(math.Min(x0, x1))),
		int(math.Floor(math.Min(y0, y1))),
		int(math.Ceil(math.Max(x0, x1))),
		int(math.Ceil(math.Max(y0, y1))),
	)
}

// Stroke implements drizzle.Surface.
func (s *Surface) Stroke() {
	if s.img == nil || !s.buildPath() {
		return
	}
	s.stroke.Width = float32(s.DeviceLineWidth())
	setColorScale(&s.draw.ColorScale, s.StrokeColor())
	vector.StrokePath(s.img, &s.path, &s.stroke, &s.draw)
}

// Fill implements drizzle.Surface.
func (s *Surface) Fill() {
	if s.img == nil || !s.buildPath() {
		return
	}
	setColorScale(&s.draw.ColorScale, s.FillColor())
	vector.FillPath(s.img, &s.path, &s.fill, &s.draw)
}

// buildPath converts the recorded device path into s.path. It reports
// false for an empty path.
func (s *Surface) buildPath() bool {
	segs := s.Path().Segments()
	if len(segs) == 0 {
		return false
	}
	s.path = vector.Path{}
	for _, seg := range segs {
		switch seg.Op {
		case drizzle.PathMove:
			s.path.MoveTo(float32(seg.X), float32(seg.Y))
		case drizzle.PathLine:
			s.path.LineTo(float32(seg.X), float32(seg.Y))
		case drizzle.PathArc:
			s.path.Arc(float32(seg.X), float32(seg.Y), float32(seg.Radius),
				float32(seg.Start), float32(seg.End), vector.Clockwise)
		case drizzle.PathClose:
			s.path.Close()
		}
	}
	return true
}

// setColorScale loads c, premultiplied, into cs.
func setColorScale(cs *ebiten.ColorScale, c drizzle.Color) {
	a := float32(c.A)
	cs.Reset()
	cs.Scale(float32(c.R)*a, float32(c.G)*a, float32(c.B)*a, a)
}
