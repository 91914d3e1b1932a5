package xpong

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
)

// Board is an in-memory model of the board's peripherals: the interval
// timer, the switch bank, six seven-segment displays and the VGA pixel buffer.
// It implements Peripherals, InterruptController and SwitchBank.
//
// Registers are guarded by a mutex so that frontends can flip switches while
// the timer goroutine runs. Interrupt handlers are always called without the
// lock held and never concurrently.
type Board struct {
	mu sync.Mutex

	ClockHz  uint32
	Settings ScreenSettings

	status  uint32
	control uint32
	period  uint32
	running bool

	switches uint32
	hex      [HexCount]byte
	surface  Frame

	displays []Display

	handler   InterruptHandler
	delivered sync.Mutex
	changed   chan struct{}

	isBooted bool
}

func NewBoard(displays ...Display) *Board {
	b := &Board{
		ClockHz:  DefaultClockHz,
		Settings: VGAScreen,
		surface:  newFrame(VGAScreen),
		displays: displays,
		changed:  make(chan struct{}, 1),
	}
	for i := range b.hex {
		b.hex[i] = SegmentsBlank
	}

	return b
}

// Attach adds a display. Attach before Boot.
func (b *Board) Attach(d Display) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.displays = append(b.displays, d)
}

// Boot initializes every attached display
// If the board was already booted, this method is a noop
func (b *Board) Boot() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.isBooted {
		return nil
	}

	for i, d := range b.displays {
		if err := d.Boot(); err != nil {
			return pkgerrors.Wrapf(err, "booting display %d", i)
		}
	}

	b.isBooted = true

	return nil
}

// Read implements Peripherals.
func (b *Board) Read(r Register) uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case r == TimerStatus:
		return b.status
	case r == TimerControl:
		return b.control
	case r == TimerPeriodLow:
		return b.period & 0xFFFF
	case r == TimerPeriodHigh:
		return b.period >> 16
	case r == SwitchData:
		return b.switches & SwitchMask
	case r >= Hex0 && r <= Hex5:
		return uint32(b.hex[r-Hex0])
	}

	return 0
}

// Write implements Peripherals. Writes to unknown registers are dropped.
func (b *Board) Write(r Register, v uint32) {
	b.mu.Lock()

	switch {
	case r == TimerStatus:
		// any write clears the timeout bit
		b.status &^= StatusTimeout
	case r == TimerControl:
		b.writeControl(v)
	case r == TimerPeriodLow:
		b.period = b.period&0xFFFF0000 | v&0xFFFF
	case r == TimerPeriodHigh:
		b.period = b.period&0x0000FFFF | (v&0xFFFF)<<16
	case r >= Hex0 && r <= Hex5:
		b.hex[r-Hex0] = byte(v)
		hex := b.hex
		displays := b.displays
		b.mu.Unlock()
		b.renderSegments(displays, hex)
		return
	}

	b.mu.Unlock()
}

func (b *Board) writeControl(v uint32) {
	b.control = v & (ControlInterrupt | ControlContinuous)

	wasRunning := b.running
	if v&ControlStop != 0 {
		b.running = false
	}
	if v&ControlStart != 0 {
		b.running = true
	}

	if wasRunning != b.running {
		b.notifyChanged()
	}
}

func (b *Board) notifyChanged() {
	select {
	case b.changed <- struct{}{}:
	default:
	}
}

func (b *Board) renderSegments(displays []Display, hex [HexCount]byte) {
	for _, d := range displays {
		if sr, ok := d.(SegmentRenderer); ok {
			if err := sr.RenderSegments(hex); err != nil {
				slog.Error("Error rendering segments", slog.Any("error", err))
			}
		}
	}
}

// Flip implements Peripherals.
func (b *Board) Flip(frame Frame) error {
	b.mu.Lock()
	copy(b.surface, frame)
	surface := b.surface
	settings := b.Settings
	displays := b.displays
	b.mu.Unlock()

	var errs []error
	for _, d := range displays {
		if err := d.Render(surface, settings); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Surface returns a copy of the visible pixels
func (b *Board) Surface() Frame {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.surface.Clone()
}

// Segments returns the raw contents of the HEX registers
func (b *Board) Segments() [HexCount]byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.hex
}

// SetSwitch implements SwitchBank.
func (b *Board) SetSwitch(n uint, on bool) error {
	if n >= SwitchCount {
		return ErrSwitchOutOfRange
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if on {
		b.switches |= 1 << n
	} else {
		b.switches &^= 1 << n
	}

	return nil
}

// ToggleSwitch implements SwitchBank.
func (b *Board) ToggleSwitch(n uint) error {
	if n >= SwitchCount {
		return ErrSwitchOutOfRange
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.switches ^= 1 << n

	return nil
}

// Switches implements SwitchBank.
func (b *Board) Switches() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.switches & SwitchMask
}

// EnableInterrupts implements InterruptController.
func (b *Board) EnableInterrupts(h InterruptHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handler = h
}

// TimerRunning reports whether the interval timer is counting
func (b *Board) TimerRunning() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.running
}

// TimerPeriod is the wall time between two expiries
func (b *Board) TimerPeriod() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	return PeriodDuration(b.ClockHz, b.period)
}

// Expire runs one expiry of the interval timer: the timeout bit is set and,
// with interrupts on, the handler is called with TimerCause. It does nothing
// while the timer is stopped. Without continuous mode the timer stops.
func (b *Board) Expire() {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return
	}

	b.status |= StatusTimeout
	if b.control&ControlContinuous == 0 {
		b.running = false
	}
	raise := b.control&ControlInterrupt != 0
	b.mu.Unlock()

	if raise {
		b.Raise(TimerCause)
	}
}

// Raise delivers an interrupt with the given cause. Deliveries are serialized.
func (b *Board) Raise(cause uint) {
	b.delivered.Lock()
	defer b.delivered.Unlock()

	b.mu.Lock()
	h := b.handler
	b.mu.Unlock()

	if h != nil {
		h(cause)
	}
}

// Run drives the interval timer in real time until ctx is done
func (b *Board) Run(ctx context.Context) error {
	var ticker *time.Ticker
	var ticks <-chan time.Time

	stop := func() {
		if ticker != nil {
			ticker.Stop()
			ticker = nil
			ticks = nil
		}
	}
	defer stop()

	arm := func() {
		stop()
		if !b.TimerRunning() {
			return
		}

		period := b.TimerPeriod()
		if period <= 0 {
			return
		}
		slog.Info("Timer armed", slog.Duration("period", period))
		ticker = time.NewTicker(period)
		ticks = ticker.C
	}
	arm()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-b.changed:
			arm()

		case <-ticks:
			b.Expire()
			if !b.TimerRunning() {
				stop()
			}
		}
	}
}
