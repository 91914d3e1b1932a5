package xpong_test

import (
	"testing"
	"time"

	"github.com/guslan/xpong"
)

func TestPeriodFor(t *testing.T) {
	if got := xpong.PeriodFor(30_000_000, 60); got != 499_999 {
		t.Fatalf(`PeriodFor(30MHz, 60) = %d, expected 499999`, got)
	}
	if got := xpong.PeriodFor(30_000_000, 0); got != 0 {
		t.Fatalf(`PeriodFor(30MHz, 0) = %d, expected 0`, got)
	}

	d := xpong.PeriodDuration(30_000_000, 499_999)
	if want := time.Second / 60; d != want {
		t.Fatalf(`PeriodDuration() = %v, expected %v`, d, want)
	}
}

// TestTimerStart programs the board timer
func TestTimerStart(t *testing.T) {
	board := xpong.NewBoard()
	timer := xpong.NewIntervalTimer(board)

	if timer.State() != xpong.TimerIdle {
		t.Fatalf(`timer.State() = %v, expected idle`, timer.State())
	}

	timer.Start(499_999)

	if timer.State() != xpong.TimerRunning {
		t.Fatalf(`timer.State() = %v, expected running`, timer.State())
	}
	if !board.TimerRunning() {
		t.Fatalf(`board timer is stopped, expected it to run`)
	}
	if lo, hi := board.Read(xpong.TimerPeriodLow), board.Read(xpong.TimerPeriodHigh); lo != 499_999&0xFFFF || hi != 499_999>>16 {
		t.Fatalf(`period halves = %#x %#x, expected %#x %#x`, hi, lo, 499_999>>16, 499_999&0xFFFF)
	}
	want := xpong.ControlInterrupt | xpong.ControlContinuous
	if got := board.Read(xpong.TimerControl); got != want {
		t.Fatalf(`control = %#b, expected %#b`, got, want)
	}
	if board.TimerPeriod() != time.Second/60 {
		t.Fatalf(`board.TimerPeriod() = %v, expected %v`, board.TimerPeriod(), time.Second/60)
	}
}

func TestTimerExpiredAndAcknowledge(t *testing.T) {
	board := xpong.NewBoard()
	timer := xpong.NewIntervalTimer(board)
	timer.Start(xpong.PeriodFor(xpong.DefaultClockHz, xpong.DefaultRateHz))

	if timer.Expired() {
		t.Fatalf(`timer.Expired() = true before any expiry`)
	}

	board.Expire()
	if !timer.Expired() {
		t.Fatalf(`timer.Expired() = false after an expiry`)
	}

	timer.Acknowledge()
	if timer.Expired() {
		t.Fatalf(`timer.Expired() = true after acknowledging`)
	}
}

func TestClampRate(t *testing.T) {
	cases := map[uint64]uint32{
		0:                              1,
		1:                              1,
		60:                             60,
		uint64(xpong.DefaultClockHz):   xpong.DefaultClockHz,
		uint64(xpong.DefaultClockHz)+1: xpong.DefaultClockHz,
		1 << 32:                        xpong.DefaultClockHz,
		1<<32 + 60:                     xpong.DefaultClockHz,
	}
	for in, want := range cases {
		got := xpong.ClampRate(in)
		if got != want {
			t.Fatalf(`ClampRate(%d) = %d, expected %d`, in, got, want)
		}
		if xpong.PeriodFor(xpong.DefaultClockHz, got) == 0 && got != xpong.DefaultClockHz {
			t.Fatalf(`ClampRate(%d) = %d gives a zero period`, in, got)
		}
	}
}
