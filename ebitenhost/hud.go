package ebitenhost

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/drizzle"
)

const (
	hudWidth    = 180
	hudHeight   = 112
	hudInterval = 0.5 // seconds between refreshes
	hudMargin   = 4
)

// HUD is the debug overlay: frame rate plus engine counters, refreshed
// about twice a second.
type HUD struct {
	img  *ebiten.Image
	acc  float64
	text string
}

// NewHUD creates the HUD image.
func NewHUD() *HUD {
	return &HUD{img: ebiten.NewImage(hudWidth, hudHeight), acc: hudInterval}
}

// Update advances the refresh timer by dt seconds.
func (h *HUD) Update(dt float64, st drizzle.Stats) {
	h.acc += dt
	if h.acc < hudInterval {
		return
	}
	h.acc = 0

	h.text = formatHUD(st, ebiten.ActualFPS(), ebiten.ActualTPS())
	h.img.Clear()
	// Semi-transparent background for readability
	h.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(h.img, h.text)
}

// Draw composites the HUD at the top-left corner of screen.
func (h *HUD) Draw(screen *ebiten.Image, scale float64) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(hudMargin*scale, hudMargin*scale)
	screen.DrawImage(h.img, op)
}

func formatHUD(st drizzle.Stats, fps, tps float64) string {
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nstate: %s\nparticles: %d\ndecays: %d\nsplashes: %d\nskipped: %d",
		fps, tps, st.State, st.Particles, st.Decays, st.Splashes, st.Skipped)
}
