package sdlwindow

import (
	"context"
	"log/slog"
	"sync"

	"github.com/guslan/xpong"
	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"
)

// bytes per texture pixel, ABGR8888 is R, G, B, A in memory
const pixelDepth = 4

const title = "xpong"

type WindowConfig struct {
	// RateHz of the board timer
	RateHz uint32
	// Scale of a VGA pixel in window pixels
	Scale int32
}
type WindowConfigCb func(config *WindowConfig)

// Window is an SDL window around a simulated board. The title bar shows the
// seven-segment bank.
//
//	0-9  toggle that switch
//	q    toggle the left paddle switch
//	p    toggle the right paddle switch
//	r    power cycle
//	Esc  close
type Window struct {
	config  WindowConfig
	machine *xpong.Machine

	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	// mu guards screen and hex, both written from the interrupt context
	mu     sync.Mutex
	screen xpong.Frame
	hex    [xpong.HexCount]byte

	shownHex [xpong.HexCount]byte
}

func NewWindow(configs ...WindowConfigCb) *Window {
	config := &WindowConfig{
		RateHz: xpong.DefaultRateHz,
		Scale:  2,
	}
	for _, cb := range configs {
		cb(config)
	}

	w := &Window{
		config: *config,
		screen: make(xpong.Frame, xpong.VGAScreen.Size()),
	}
	for i := range w.hex {
		w.hex[i] = xpong.SegmentsBlank
	}
	w.machine = xpong.NewMachine([]xpong.Display{w}, func(mc *xpong.MachineConfig) {
		mc.RateHz = config.RateHz
		mc.Prepare = func(console *xpong.Console) {
			console.AddErrorHook(func(c *xpong.Console) {
				slog.Warn("Frame was not shown", slog.Any("error", c.LastError()))
			})
		}
	})

	return w
}

// Boot implements xpong.Display. The SDL objects are created by Run.
func (w *Window) Boot() error {
	return nil
}

// Render implements xpong.Display.
func (w *Window) Render(frame xpong.Frame, settings xpong.ScreenSettings) error {
	w.mu.Lock()
	copy(w.screen, frame)
	w.mu.Unlock()

	return nil
}

// RenderSegments implements xpong.SegmentRenderer.
func (w *Window) RenderSegments(hex [xpong.HexCount]byte) error {
	w.mu.Lock()
	w.hex = hex
	w.mu.Unlock()

	return nil
}

// Run opens the window and powers the board on. It must be called from the
// main thread and returns when the window is closed or ctx is done.
func (w *Window) Run(ctx context.Context) error {
	if err := w.open(); err != nil {
		return err
	}
	defer w.close()

	if err := w.machine.PowerOn(ctx); err != nil {
		return err
	}
	defer w.machine.PowerOff()

	pixels := make([]byte, xpong.VGAScreen.Size()*pixelDepth)
	for ctx.Err() == nil {
		for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
			if quit := w.handleEvent(ctx, ev); quit {
				return nil
			}
		}

		if err := w.present(pixels); err != nil {
			return err
		}

		sdl.Delay(16)
	}

	return nil
}

func (w *Window) open() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return errors.Wrap(err, "initialising sdl")
	}

	var err error
	w.window, err = sdl.CreateWindow(title,
		int32(sdl.WINDOWPOS_UNDEFINED), int32(sdl.WINDOWPOS_UNDEFINED),
		int32(xpong.VGAScreen.Width)*w.config.Scale, int32(xpong.VGAScreen.Height)*w.config.Scale,
		uint32(sdl.WINDOW_SHOWN))
	if err != nil {
		sdl.Quit()
		return errors.Wrap(err, "creating window")
	}

	w.renderer, err = sdl.CreateRenderer(w.window, -1, uint32(sdl.RENDERER_ACCELERATED))
	if err != nil {
		w.close()
		return errors.Wrap(err, "creating renderer")
	}

	w.texture, err = w.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888),
		int(sdl.TEXTUREACCESS_STREAMING),
		int32(xpong.VGAScreen.Width),
		int32(xpong.VGAScreen.Height))
	if err != nil {
		w.close()
		return errors.Wrap(err, "creating texture")
	}

	return nil
}

func (w *Window) close() {
	if w.texture != nil {
		w.texture.Destroy()
		w.texture = nil
	}
	if w.renderer != nil {
		w.renderer.Destroy()
		w.renderer = nil
	}
	if w.window != nil {
		w.window.Destroy()
		w.window = nil
	}
	sdl.Quit()
}

func (w *Window) handleEvent(ctx context.Context, ev sdl.Event) bool {
	switch ev := ev.(type) {
	case *sdl.QuitEvent:
		return true

	case *sdl.KeyboardEvent:
		if ev.Type != sdl.KEYDOWN || ev.Repeat != 0 {
			return false
		}

		switch ev.Keysym.Sym {
		case sdl.K_ESCAPE:
			return true

		case sdl.K_r:
			if err := w.machine.PowerCycle(ctx); err != nil {
				slog.Error("Error power cycling", slog.Any("error", err))
			}
			return false
		}

		sw, ok := switchForKey(ev.Keysym.Sym)
		if !ok {
			return false
		}
		if board := w.machine.Board(); board != nil {
			board.ToggleSwitch(sw)
		}
	}

	return false
}

// switchForKey returns the switch toggled by key
func switchForKey(key sdl.Keycode) (uint, bool) {
	switch {
	case key >= sdl.K_0 && key <= sdl.K_9:
		return uint(key - sdl.K_0), true
	case key == sdl.K_q:
		return xpong.LeftUpSwitch, true
	case key == sdl.K_p:
		return xpong.RightUpSwitch, true
	}

	return 0, false
}

// present converts the last frame into the texture and shows it
func (w *Window) present(pixels []byte) error {
	w.mu.Lock()
	fillPixels(pixels, w.screen)
	hex := w.hex
	w.mu.Unlock()

	if hex != w.shownHex {
		w.shownHex = hex
		w.window.SetTitle(title + "   " + xpong.SegmentsLine(hex))
	}

	dst, _, err := w.texture.Lock(nil)
	if err != nil {
		return errors.Wrap(err, "locking texture")
	}
	copy(dst, pixels)
	w.texture.Unlock()

	if err := w.renderer.Copy(w.texture, nil, nil); err != nil {
		return errors.Wrap(err, "copying texture")
	}
	w.renderer.Present()

	return nil
}

// fillPixels expands RGB332 pixels into RGBA bytes
func fillPixels(dst []byte, frame xpong.Frame) {
	for i, c := range frame {
		rgba := xpong.RGB332(c)
		o := i * pixelDepth
		if o+pixelDepth > len(dst) {
			return
		}
		dst[o] = rgba.R
		dst[o+1] = rgba.G
		dst[o+2] = rgba.B
		dst[o+3] = rgba.A
	}
}
