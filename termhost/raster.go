package termhost

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/phanxgames/drizzle"
)

const (
	// minStrokeWidth widens sub-pixel strokes so they stay visible on the
	// coarse terminal grid.
	minStrokeWidth = 1.0

	// minDotRadius is the smallest filled arc radius, in raster pixels.
	minDotRadius = 0.5

	// maxArcSteps bounds arc flattening.
	maxArcSteps = 48
)

type point struct{ x, y float64 }

// subpath is a run of flattened points in Raster.pts.
type subpath struct {
	start, end int
	closed     bool
}

// Raster is a drizzle.Surface over an *image.RGBA, two pixels per terminal
// cell. Paths are flattened to polygons and scan-converted by an
// anti-aliasing vector.Rasterizer; strokes are expanded to square-capped
// quads first.
type Raster struct {
	drizzle.SurfaceState

	img *image.RGBA
	z   vector.Rasterizer
	src image.Uniform

	pts   []point
	subs  []subpath
	quads []point
}

// NewRaster returns an unsized raster. It is not Ready until Resize.
func NewRaster() *Raster {
	return &Raster{src: image.Uniform{C: color.Transparent}}
}

// Resize implements drizzle.Surface.
func (r *Raster) Resize(width, height, density float64) {
	if density <= 0 {
		density = 1
	}
	w := int(math.Ceil(width * density))
	h := int(math.Ceil(height * density))
	if w <= 0 || h <= 0 {
		r.img = nil
		r.ResetState(drizzle.Identity)
		return
	}
	if r.img == nil || r.img.Rect.Dx() != w || r.img.Rect.Dy() != h {
		r.img = image.NewRGBA(image.Rect(0, 0, w, h))
	} else {
		clear(r.img.Pix)
	}
	r.ResetState(drizzle.Identity.Scale(density, density))
}

// Ready implements drizzle.Surface.
func (r *Raster) Ready() bool {
	return r.img != nil
}

// Size returns the raster size in pixels.
func (r *Raster) Size() (int, int) {
	if r.img == nil {
		return 0, 0
	}
	return r.img.Rect.Dx(), r.img.Rect.Dy()
}

// Image returns the backing image, or nil before Resize.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// At returns the straight-alpha color at pixel (x, y).
func (r *Raster) At(x, y int) drizzle.Color {
	if r.img == nil || !image.Pt(x, y).In(r.img.Rect) {
		return drizzle.Color{}
	}
	c := r.img.RGBAAt(x, y)
	if c.A == 0 {
		return drizzle.Color{}
	}
	a := float64(c.A)
	return drizzle.Color{R: float64(c.R) / a, G: float64(c.G) / a, B: float64(c.B) / a, A: a / 255}
}

// Clear implements drizzle.Surface.
func (r *Raster) Clear(x, y, width, height float64) {
	if r.img == nil {
		return
	}
	base := r.Base()
	x0, y0 := base.Apply(x, y)
	x1, y1 := base.Apply(x+width, y+height)
	rect := image.Rect(
		int(math.Floor(x0)), int(math.Floor(y0)),
		int(math.Ceil(x1)), int(math.Ceil(y1)),
	).Intersect(r.img.Rect)
	draw.Draw(r.img, rect, image.Transparent, image.Point{}, draw.Src)
}

// Fill implements drizzle.Surface. Every subpath is closed; overlapping
// subpaths use the non-zero rule.
func (r *Raster) Fill() {
	if r.img == nil {
		return
	}
	r.flatten(minDotRadius)
	if len(r.pts) == 0 {
		return
	}
	rect, ok := r.bounds(r.pts, 1)
	if !ok {
		return
	}
	r.z.Reset(rect.Dx(), rect.Dy())
	for _, sp := range r.subs {
		if sp.end-sp.start < 3 {
			continue
		}
		r.polygon(r.pts[sp.start:sp.end], rect.Min)
	}
	r.draw(rect, r.FillColor())
}

// Stroke implements drizzle.Surface. Each segment becomes a quad of the
// device line width, extended by half the width at both ends; the quads
// are rasterized together so joints are not blended twice.
func (r *Raster) Stroke() {
	if r.img == nil {
		return
	}
	r.flatten(0)
	hw := math.Max(minStrokeWidth, r.DeviceLineWidth()) / 2

	r.quads = r.quads[:0]
	for _, sp := range r.subs {
		run := r.pts[sp.start:sp.end]
		switch {
		case len(run) == 1:
			r.quads = appendQuad(r.quads, run[0], run[0], hw)
		case len(run) > 1:
			for i := 1; i < len(run); i++ {
				r.quads = appendQuad(r.quads, run[i-1], run[i], hw)
			}
			if sp.closed {
				r.quads = appendQuad(r.quads, run[len(run)-1], run[0], hw)
			}
		}
	}
	if len(r.quads) == 0 {
		return
	}
	rect, ok := r.bounds(r.quads, 1)
	if !ok {
		return
	}
	r.z.Reset(rect.Dx(), rect.Dy())
	for i := 0; i+4 <= len(r.quads); i += 4 {
		r.polygon(r.quads[i:i+4], rect.Min)
	}
	r.draw(rect, r.StrokeColor())
}

// appendQuad appends the four corners of the square-capped segment a-b.
// All quads share one winding, so overlaps add coverage.
func appendQuad(q []point, a, b point, hw float64) []point {
	dx, dy := b.x-a.x, b.y-a.y
	ux, uy := 1.0, 0.0
	if l := math.Hypot(dx, dy); l > 0 {
		ux, uy = dx/l, dy/l
	}
	ax, ay := a.x-ux*hw, a.y-uy*hw
	bx, by := b.x+ux*hw, b.y+uy*hw
	nx, ny := -uy*hw, ux*hw
	return append(q,
		point{ax + nx, ay + ny},
		point{bx + nx, by + ny},
		point{bx - nx, by - ny},
		point{ax - nx, ay - ny},
	)
}

// flatten converts the current device path into r.pts and r.subs. Arcs
// become line runs with a radius of at least minRadius.
func (r *Raster) flatten(minRadius float64) {
	r.pts = r.pts[:0]
	r.subs = r.subs[:0]
	start, open := 0, false
	end := func(closed bool) {
		if open && len(r.pts) > start {
			r.subs = append(r.subs, subpath{start: start, end: len(r.pts), closed: closed})
		}
		open = false
	}
	begin := func() {
		if !open {
			start, open = len(r.pts), true
		}
	}
	for _, seg := range r.Path().Segments() {
		switch seg.Op {
		case drizzle.PathMove:
			end(false)
			begin()
			r.pts = append(r.pts, point{seg.X, seg.Y})
		case drizzle.PathLine:
			begin()
			r.pts = append(r.pts, point{seg.X, seg.Y})
		case drizzle.PathArc:
			begin()
			r.pts = appendArc(r.pts, seg, minRadius)
		case drizzle.PathClose:
			end(true)
		}
	}
	end(false)
}

// appendArc appends the arc as points, clockwise from Start to End.
func appendArc(pts []point, seg drizzle.PathSegment, minRadius float64) []point {
	radius := math.Max(seg.Radius, minRadius)
	sweep := seg.End - seg.Start
	if sweep < 0 {
		sweep += 2 * math.Pi * math.Ceil(-sweep/(2*math.Pi))
	}
	steps := int(math.Ceil(sweep * math.Max(radius, 1)))
	steps = min(max(steps, 8), maxArcSteps)
	for i := 0; i <= steps; i++ {
		a := seg.Start + sweep*float64(i)/float64(steps)
		sin, cos := math.Sincos(a)
		pts = append(pts, point{seg.X + cos*radius, seg.Y + sin*radius})
	}
	return pts
}

// bounds returns the pixel rectangle covering pts, padded and clipped to
// the image.
func (r *Raster) bounds(pts []point, pad int) (image.Rectangle, bool) {
	minX, minY := pts[0].x, pts[0].y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = math.Min(minX, p.x), math.Max(maxX, p.x)
		minY, maxY = math.Min(minY, p.y), math.Max(maxY, p.y)
	}
	if math.IsNaN(minX+minY+maxX+maxY) {
		return image.Rectangle{}, false
	}
	// Clamp before converting so far-off geometry cannot overflow int.
	w, h := r.img.Rect.Dx(), r.img.Rect.Dy()
	lim := func(v float64, hi int) int {
		return int(math.Max(-1, math.Min(v, float64(hi+1))))
	}
	rect := image.Rect(
		lim(math.Floor(minX), w)-pad, lim(math.Floor(minY), h)-pad,
		lim(math.Ceil(maxX), w)+pad, lim(math.Ceil(maxY), h)+pad,
	).Intersect(r.img.Rect)
	return rect, !rect.Empty()
}

// polygon adds a closed polygon to the rasterizer, relative to origin.
func (r *Raster) polygon(pts []point, origin image.Point) {
	ox, oy := float64(origin.X), float64(origin.Y)
	r.z.MoveTo(float32(pts[0].x-ox), float32(pts[0].y-oy))
	for _, p := range pts[1:] {
		r.z.LineTo(float32(p.x-ox), float32(p.y-oy))
	}
	r.z.ClosePath()
}

// draw composites c over rect through the accumulated coverage.
func (r *Raster) draw(rect image.Rectangle, c drizzle.Color) {
	if !(c.A > 0) {
		return
	}
	r.src.C = color.NRGBA64{
		R: unit16(c.R),
		G: unit16(c.G),
		B: unit16(c.B),
		A: unit16(c.A),
	}
	r.z.Draw(r.img, rect, &r.src, image.Point{})
}

func unit16(v float64) uint16 {
	return uint16(math.Round(math.Max(0, math.Min(1, v)) * 0xffff))
}
