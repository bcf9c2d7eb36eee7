package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// inputFrame is the input observed in one tick.
type inputFrame struct {
	cursorX, cursorY int
	wheelX, wheelY   float64
	keys             int // keys pressed this tick
	buttons          int // mouse buttons pressed this tick
	touches          int // touches started this tick
}

// ActivityDetector turns raw Ebitengine input into activity signals:
// cursor movement, wheel scrolling, key presses, mouse button presses and
// new touches all count.
type ActivityDetector struct {
	prev   inputFrame
	primed bool

	keyBuf   []ebiten.Key
	touchBuf []ebiten.TouchID
}

var watchedButtons = [...]ebiten.MouseButton{
	ebiten.MouseButtonLeft,
	ebiten.MouseButtonRight,
	ebiten.MouseButtonMiddle,
}

// Poll reads the current input state and reports whether any activity
// happened since the previous Poll. Call it once per Update.
func (d *ActivityDetector) Poll() bool {
	return d.detect(d.read())
}

func (d *ActivityDetector) read() inputFrame {
	var f inputFrame
	f.cursorX, f.cursorY = ebiten.CursorPosition()
	f.wheelX, f.wheelY = ebiten.Wheel()

	d.keyBuf = inpututil.AppendJustPressedKeys(d.keyBuf[:0])
	f.keys = len(d.keyBuf)

	for _, b := range watchedButtons {
		if inpututil.IsMouseButtonJustPressed(b) {
			f.buttons++
		}
	}

	d.touchBuf = inpututil.AppendJustPressedTouchIDs(d.touchBuf[:0])
	f.touches = len(d.touchBuf)
	return f
}

// detect compares f with the previous frame. The first frame only records
// the cursor position, so a window opening under a resting cursor is not
// activity.
func (d *ActivityDetector) detect(f inputFrame) bool {
	prev, primed := d.prev, d.primed
	d.prev, d.primed = f, true
	if !primed {
		return false
	}
	switch {
	case f.cursorX != prev.cursorX || f.cursorY != prev.cursorY:
		return true
	case f.wheelX != 0 || f.wheelY != 0:
		return true
	case f.keys > 0 || f.buttons > 0 || f.touches > 0:
		return true
	}
	return false
}

// Reset forgets the previous frame, e.g. after the window regains focus.
func (d *ActivityDetector) Reset() {
	d.prev = inputFrame{}
	d.primed = false
}
