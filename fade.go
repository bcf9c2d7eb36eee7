package drizzle

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// FadeOverlay is an Overlay that eases its opacity toward the requested
// target. Hosts call Update(dt) each frame and multiply the overlay draw by
// Opacity.
//
// Attaching (SetVisible(true)) does not change opacity on its own: the
// engine requests opacity 1 right after showing the overlay, so the layer
// fades in from transparent.
type FadeOverlay struct {
	duration float32
	fn       ease.TweenFunc

	visible bool
	opacity float64
	target  float64
	tween   *gween.Tween
}

// NewFadeOverlay creates a hidden, transparent overlay whose transitions
// take duration and follow ease.OutQuad.
func NewFadeOverlay(duration time.Duration) *FadeOverlay {
	return NewFadeOverlayEase(duration, ease.OutQuad)
}

// NewFadeOverlayEase is like NewFadeOverlay with a custom easing function.
func NewFadeOverlayEase(duration time.Duration, fn ease.TweenFunc) *FadeOverlay {
	if fn == nil {
		fn = ease.Linear
	}
	return &FadeOverlay{duration: float32(duration.Seconds()), fn: fn}
}

// SetVisible implements Overlay.
func (f *FadeOverlay) SetVisible(visible bool) {
	f.visible = visible
	if !visible {
		f.tween = nil
		f.opacity = 0
		f.target = 0
	}
}

// SetOpacity implements Overlay. A new target restarts the transition from
// the current opacity.
func (f *FadeOverlay) SetOpacity(target float64) {
	target = clamp01(target)
	if target == f.target && (f.tween != nil || f.opacity == target) {
		return
	}
	f.target = target
	if f.duration <= 0 {
		f.tween = nil
		f.opacity = target
		return
	}
	f.tween = gween.New(float32(f.opacity), float32(target), f.duration, f.fn)
}

// Update advances the transition by dt seconds.
func (f *FadeOverlay) Update(dt float32) {
	if f.tween == nil {
		return
	}
	val, finished := f.tween.Update(dt)
	f.opacity = clamp01(float64(val))
	if finished {
		f.opacity = f.target
		f.tween = nil
	}
}

// Visible reports whether the overlay is attached.
func (f *FadeOverlay) Visible() bool {
	return f.visible
}

// Opacity returns the current opacity in [0, 1].
func (f *FadeOverlay) Opacity() float64 {
	return f.opacity
}

// Target returns the opacity the overlay is moving toward.
func (f *FadeOverlay) Target() float64 {
	return f.target
}

// Fading reports whether a transition is in progress.
func (f *FadeOverlay) Fading() bool {
	return f.tween != nil
}
