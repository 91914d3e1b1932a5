package xpong

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/pkg/term"
)

// SwitchCount is the width of the switch bank
const SwitchCount = 10

// SwitchMask keeps the bits wired to a switch
const SwitchMask uint32 = 1<<SwitchCount - 1

// Switches that steer the paddles. A switch that is on moves its paddle up,
// off moves it down.
const (
	LeftUpSwitch  uint = 9
	RightUpSwitch uint = 0
)

var ErrSwitchOutOfRange = errors.New("switch is not part of the bank")

// DecodeSwitches maps the switch register to paddle input. Other bits are ignored.
func DecodeSwitches(sw uint32) Input {
	sw &= SwitchMask

	return Input{
		LeftUp:  sw&(1<<LeftUpSwitch) != 0,
		RightUp: sw&(1<<RightUpSwitch) != 0,
	}
}

// SwitchBank is the operator side of the switches
type SwitchBank interface {
	SetSwitch(n uint, on bool) error
	ToggleSwitch(n uint) error
	Switches() uint32
}

// TerminalSwitches toggles switches from key presses on the controlling terminal.
//
//	0-9  toggle that switch
//	q    toggle the left paddle switch
//	p    toggle the right paddle switch
//	x    stop reading (Ctrl-C too)
type TerminalSwitches struct {
	Path string

	t *term.Term
}

func NewTerminalSwitches() *TerminalSwitches {
	return &TerminalSwitches{Path: "/dev/tty"}
}

// Boot puts the terminal into cbreak mode
func (ts *TerminalSwitches) Boot() error {
	if ts.t != nil {
		return nil
	}

	t, err := term.Open(ts.Path, term.CBreakMode)
	if err != nil {
		return pkgerrors.Wrapf(err, "opening terminal %s", ts.Path)
	}
	if err := t.SetReadTimeout(100 * time.Millisecond); err != nil {
		t.Restore()
		t.Close()
		return pkgerrors.Wrap(err, "setting terminal read timeout")
	}

	ts.t = t

	return nil
}

// Close restores the terminal
func (ts *TerminalSwitches) Close() error {
	if ts.t == nil {
		return nil
	}

	err := ts.t.Restore()
	if cerr := ts.t.Close(); err == nil {
		err = cerr
	}
	ts.t = nil

	return err
}

// Run reads keys until ctx is done, the terminal fails or the quit key is pressed
func (ts *TerminalSwitches) Run(ctx context.Context, bank SwitchBank) error {
	if ts.t == nil {
		return pkgerrors.New("terminal switches have not been booted")
	}

	buf := make([]byte, 1)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := ts.t.Read(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return pkgerrors.Wrap(err, "reading terminal")
		}
		if n == 0 {
			continue
		}

		sw, quit := switchForKey(buf[0])
		if quit {
			return nil
		}
		if sw < 0 {
			continue
		}

		if err := bank.ToggleSwitch(uint(sw)); err != nil {
			slog.Error("Error toggling switch", slog.Int("switch", sw), slog.Any("error", err))
		}
	}
}

// switchForKey returns the switch bound to key, -1 when there is none
func switchForKey(key byte) (sw int, quit bool) {
	switch {
	case key >= '0' && key <= '9':
		return int(key - '0'), false
	case key == 'q' || key == 'Q':
		return int(LeftUpSwitch), false
	case key == 'p' || key == 'P':
		return int(RightUpSwitch), false
	case key == 'x' || key == 'X' || key == 0x03:
		return -1, true
	}

	return -1, false
}
