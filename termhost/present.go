package termhost

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/phanxgames/drizzle"
)

// halfBlock paints the upper half of a cell in the foreground color and
// the lower half in the background color.
const halfBlock = '▀'

// Present composites the raster over background at the given overlay
// opacity and writes it to screen, one cell per pair of pixel rows. Cells
// with nothing drawn are reset to blanks. The caller shows the screen.
func Present(screen tcell.Screen, r *Raster, opacity float64, background drizzle.Color) {
	cols, rows := screen.Size()
	blank := tcell.StyleDefault
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			top := r.At(cx, cy*2)
			bottom := r.At(cx, cy*2+1)
			ta, ba := top.A*opacity, bottom.A*opacity
			if ta <= 0 && ba <= 0 {
				screen.SetContent(cx, cy, ' ', nil, blank)
				continue
			}
			style := tcell.StyleDefault.
				Foreground(cellColor(top, ta, background)).
				Background(cellColor(bottom, ba, background))
			screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}
}

// cellColor blends c with alpha a over an opaque background.
func cellColor(c drizzle.Color, a float64, background drizzle.Color) tcell.Color {
	a = math.Max(0, math.Min(1, a))
	return tcell.NewRGBColor(
		channel(c.R*a+background.R*(1-a)),
		channel(c.G*a+background.G*(1-a)),
		channel(c.B*a+background.B*(1-a)),
	)
}

func channel(v float64) int32 {
	return int32(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
