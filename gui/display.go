package gui

import (
	"github.com/guslan/xpong"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var ScreenBgColor = rl.Black

// Boot implements xpong.Display.
func (app *App) Boot() error {
	return nil
}

// Render implements xpong.Display. It runs in the board's interrupt context,
// the window loop picks the copy up on its next frame.
func (app *App) Render(frame xpong.Frame, settings xpong.ScreenSettings) error {
	app.screenMu.Lock()
	defer app.screenMu.Unlock()

	if len(app.screen) != len(frame) {
		app.screen = make(xpong.Frame, len(frame))
	}
	copy(app.screen, frame)

	return nil
}

// RenderSegments implements xpong.SegmentRenderer.
func (app *App) RenderSegments(hex [xpong.HexCount]byte) error {
	app.screenMu.Lock()
	app.hex = hex
	app.screenMu.Unlock()

	return nil
}

// segmentRect returns the bounds of segment bit (a..g) inside a digit at x, y
func segmentRect(bit int, x, y float32) rl.Rectangle {
	const w, h, t = DigitWidth, DigitHeight, SegmentThickness
	switch bit {
	case 0: // a
		return rl.NewRectangle(x+t, y, w-2*t, t)
	case 1: // b
		return rl.NewRectangle(x+w-t, y+t, t, h/2-t)
	case 2: // c
		return rl.NewRectangle(x+w-t, y+h/2, t, h/2-t)
	case 3: // d
		return rl.NewRectangle(x+t, y+h-t, w-2*t, t)
	case 4: // e
		return rl.NewRectangle(x, y+h/2, t, h/2-t)
	case 5: // f
		return rl.NewRectangle(x, y+t, t, h/2-t)
	default: // g
		return rl.NewRectangle(x+t, y+h/2-t/2, w-2*t, t)
	}
}

// drawDigit draws one active-low seven-segment pattern
func drawDigit(pattern byte, x, y float32) {
	for bit := 0; bit < 7; bit++ {
		col := SegmentOffColor
		if pattern&(1<<bit) == 0 {
			col = SegmentOnColor
		}
		rl.DrawRectangleRec(segmentRect(bit, x, y), col)
	}
}
