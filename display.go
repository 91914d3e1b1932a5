package xpong

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Display abstraction for a visible surface
type Display interface {
	// Boot initializes the component
	Boot() error
	// Render shows a complete frame
	Render(Frame, ScreenSettings) error
}

// SegmentRenderer is implemented by displays that also show the seven-segment bank
type SegmentRenderer interface {
	RenderSegments(hex [HexCount]byte) error
}

// DummyDisplay is a display that does nothing
type DummyDisplay struct {
}

func NewDummyDisplay() *DummyDisplay {
	return &DummyDisplay{}
}

func (d DummyDisplay) Boot() error {
	return nil
}

func (d DummyDisplay) Render(frame Frame, settings ScreenSettings) error {
	return nil
}

// InMemoryDisplay keeps the last frame and segments it was given
type InMemoryDisplay struct {
	mu       sync.Mutex
	frame    Frame
	settings ScreenSettings
	hex      [HexCount]byte
	frames   uint
}

func NewInMemoryDisplay() *InMemoryDisplay {
	d := &InMemoryDisplay{}
	for i := range d.hex {
		d.hex[i] = SegmentsBlank
	}

	return d
}

// Boot implements Display.
func (d *InMemoryDisplay) Boot() error {
	return nil
}

// Render implements Display.
func (d *InMemoryDisplay) Render(frame Frame, settings ScreenSettings) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.frame) != len(frame) {
		d.frame = make(Frame, len(frame))
	}
	copy(d.frame, frame)
	d.settings = settings
	d.frames++

	return nil
}

// RenderSegments implements SegmentRenderer.
func (d *InMemoryDisplay) RenderSegments(hex [HexCount]byte) error {
	d.mu.Lock()
	d.hex = hex
	d.mu.Unlock()

	return nil
}

// Frame returns a copy of the last frame
func (d *InMemoryDisplay) Frame() (Frame, ScreenSettings) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.frame.Clone(), d.settings
}

func (d *InMemoryDisplay) Segments() [HexCount]byte {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.hex
}

// Frames is the number of frames rendered so far
func (d *InMemoryDisplay) Frames() uint {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.frames
}

const ESC = 0x1B

// TerminalDisplay draws one character pair per cell using 24-bit ANSI colours
type TerminalDisplay struct {
	terminal io.Writer
	hex      [HexCount]byte
}

func NewTerminalDisplay() *TerminalDisplay {
	return NewTerminalDisplayWithOutput(os.Stdout)
}

func NewTerminalDisplayWithOutput(out io.Writer) *TerminalDisplay {
	d := &TerminalDisplay{
		terminal: out,
	}
	for i := range d.hex {
		d.hex[i] = SegmentsBlank
	}

	return d
}

// Boot implements Display.
func (disp *TerminalDisplay) Boot() error {
	_, err := disp.terminal.Write([]byte{
		// Move cursor do start
		ESC, '[', '1', 'H',
		// clear the terminal
		ESC, '[', '0', 'J',
	})

	return err
}

// RenderSegments implements SegmentRenderer. The digits show up with the next frame.
func (disp *TerminalDisplay) RenderSegments(hex [HexCount]byte) error {
	disp.hex = hex

	return nil
}

// Render implements Display. Each cell is sampled at its centre pixel.
func (disp *TerminalDisplay) Render(frame Frame, settings ScreenSettings) error {
	cols := settings.Width / Cell
	rows := settings.Height / Cell

	buff := make([]byte, 0, cols*rows*24+rows*8+64)
	buff = append(buff, ESC, '[', '1', 'H')
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			c := RGB332(frame.At(settings, cx*Cell+Cell/2, cy*Cell+Cell/2))
			buff = fmt.Appendf(buff, "\x1b[48;2;%d;%d;%dm  ", c.R, c.G, c.B)
		}
		buff = append(buff, ESC, '[', '0', 'm', '\n')
	}

	buff = append(buff, SegmentsLine(disp.hex)...)
	buff = append(buff, '\n')

	_, err := disp.terminal.Write(buff)
	return err
}

// SegmentsLine renders the display bank as text, HEX5 first. Blank digits
// are spaces and unknown patterns show as '?'.
func SegmentsLine(hex [HexCount]byte) string {
	line := make([]byte, 0, HexCount*2)
	for n := HexCount - 1; n >= 0; n-- {
		switch d, ok := DecodeDigit(hex[n]); {
		case ok:
			line = append(line, byte('0'+d))
		case hex[n]|0x80 == SegmentsBlank:
			line = append(line, ' ')
		default:
			line = append(line, '?')
		}
		if n > 0 {
			line = append(line, ' ')
		}
	}

	return string(line)
}
