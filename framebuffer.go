package xpong

import (
	"image/color"
)

// Frame is a full screen of pixels, one RGB332 byte per pixel, row major
type Frame []byte

// ScreenSettings of the visible surface
type ScreenSettings struct {
	Width, Height int
}

// VGAScreen is the resolution of the board's pixel buffer
var VGAScreen = ScreenSettings{
	Width:  320,
	Height: 240,
}

// Size in bytes of a frame with these settings
func (s ScreenSettings) Size() int {
	return s.Width * s.Height
}

func newFrame(settings ScreenSettings) Frame {
	return make(Frame, settings.Size())
}

// Clone returns a copy of the frame
func (f Frame) Clone() Frame {
	c := make(Frame, len(f))
	copy(c, f)

	return c
}

func (f Frame) IsEqual(other Frame) bool {
	if len(f) != len(other) {
		return false
	}
	for i, b := range f {
		if b != other[i] {
			return false
		}
	}

	return true
}

// At returns the pixel at x, y or 0 when outside the frame
func (f Frame) At(settings ScreenSettings, x, y int) byte {
	if x < 0 || y < 0 || x >= settings.Width || y >= settings.Height {
		return 0
	}

	return f[y*settings.Width+x]
}

// RGB332 expands a 3-3-2 palette byte to a colour
func RGB332(c byte) color.RGBA {
	r := (c >> 5) & 0b111
	g := (c >> 2) & 0b111
	b := c & 0b11

	return color.RGBA{
		R: r<<5 | r<<2 | r>>1,
		G: g<<5 | g<<2 | g>>1,
		B: b<<6 | b<<4 | b<<2 | b,
		A: 0xFF,
	}
}

// FrameBuffer is the off-screen surface rendering draws into
type FrameBuffer struct {
	Settings ScreenSettings
	pixels   Frame
}

func NewFrameBuffer(settings ScreenSettings) *FrameBuffer {
	return &FrameBuffer{
		Settings: settings,
		pixels:   newFrame(settings),
	}
}

// Frame returns the backing pixels. The slice is reused by the next render.
func (fb *FrameBuffer) Frame() Frame {
	return fb.pixels
}

// SetPixel writes a pixel. Writes outside the surface are dropped.
func (fb *FrameBuffer) SetPixel(x, y int, c byte) {
	if x < 0 || y < 0 || x >= fb.Settings.Width || y >= fb.Settings.Height {
		return
	}

	fb.pixels[y*fb.Settings.Width+x] = c
}

func (fb *FrameBuffer) Clear(c byte) {
	for i := range fb.pixels {
		fb.pixels[i] = c
	}
}

// FillCell paints the grid cell at cx, cy
func (fb *FrameBuffer) FillCell(cx, cy int, c byte) {
	sx := cx * Cell
	sy := cy * Cell
	for y := 0; y < Cell; y++ {
		for x := 0; x < Cell; x++ {
			fb.SetPixel(sx+x, sy+y, c)
		}
	}
}

// FillCellRect paints cw by ch cells starting at cx, cy
func (fb *FrameBuffer) FillCellRect(cx, cy, cw, ch int, c byte) {
	for y := 0; y < ch; y++ {
		for x := 0; x < cw; x++ {
			fb.FillCell(cx+x, cy+y, c)
		}
	}
}
