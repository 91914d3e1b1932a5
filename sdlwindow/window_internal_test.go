package sdlwindow

import (
	"testing"

	"github.com/guslan/xpong"
	"github.com/veandco/go-sdl2/sdl"
)

func TestSwitchForKey(t *testing.T) {
	cases := []struct {
		key sdl.Keycode
		sw  uint
		ok  bool
	}{
		{sdl.K_q, xpong.LeftUpSwitch, true},
		{sdl.K_p, xpong.RightUpSwitch, true},
		{sdl.K_0, 0, true},
		{sdl.K_7, 7, true},
		{sdl.K_a, 0, false},
	}

	for _, c := range cases {
		sw, ok := switchForKey(c.key)
		if sw != c.sw || ok != c.ok {
			t.Fatalf(`switchForKey(%d) = (%d, %v), expected (%d, %v)`, c.key, sw, ok, c.sw, c.ok)
		}
	}
}

func TestFillPixels(t *testing.T) {
	frame := xpong.Frame{xpong.ColorBall, xpong.ColorForeground}
	dst := make([]byte, len(frame)*pixelDepth)

	fillPixels(dst, frame)

	ball := xpong.RGB332(xpong.ColorBall)
	if dst[0] != ball.R || dst[1] != ball.G || dst[2] != ball.B || dst[3] != 255 {
		t.Fatalf(`ball pixel = %v, expected %v`, dst[0:4], ball)
	}
	if dst[4] != 255 || dst[5] != 255 || dst[6] != 255 {
		t.Fatalf(`foreground pixel = %v, expected white`, dst[4:8])
	}

	// a short destination is not overrun
	fillPixels(dst[:5], frame)
}

func TestWindowKeepsLastFrame(t *testing.T) {
	w := NewWindow()
	frame := make(xpong.Frame, xpong.VGAScreen.Size())
	frame[10] = xpong.ColorBall

	if err := w.Render(frame, xpong.VGAScreen); err != nil {
		t.Fatalf(`Render() returned an error %v`, err)
	}
	frame[10] = 0

	if w.screen[10] != xpong.ColorBall {
		t.Fatalf(`screen[10] = %#x, expected the copied %#x`, w.screen[10], xpong.ColorBall)
	}
}
