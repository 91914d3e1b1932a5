package xpong

import "time"

// Interval timer control bits
const (
	ControlInterrupt  uint32 = 1 << 0
	ControlContinuous uint32 = 1 << 1
	ControlStart      uint32 = 1 << 2
	ControlStop       uint32 = 1 << 3
)

// StatusTimeout is set by the timer on every expiry
const StatusTimeout uint32 = 1 << 0

const (
	DefaultClockHz uint32 = 30_000_000
	DefaultRateHz  uint32 = 60
	// TimerCause is the interrupt cause raised by the interval timer
	TimerCause uint = 16
)

// TimerState of the interval timer driver
type TimerState byte

const (
	TimerIdle TimerState = iota
	TimerRunning
)

func (s TimerState) String() string {
	if s == TimerRunning {
		return "running"
	}

	return "idle"
}

// PeriodFor returns the reload value that makes a timer clocked at clockHz
// expire rateHz times per second. The hardware counts value+1 cycles.
func PeriodFor(clockHz, rateHz uint32) uint32 {
	if rateHz == 0 || clockHz < rateHz {
		return 0
	}

	return clockHz/rateHz - 1
}

// ClampRate bounds a requested tick rate into [1, DefaultClockHz]
func ClampRate(rateHz uint64) uint32 {
	return uint32(min(max(rateHz, 1), uint64(DefaultClockHz)))
}

// PeriodDuration converts a reload value back into wall time
func PeriodDuration(clockHz, period uint32) time.Duration {
	if clockHz == 0 {
		return 0
	}

	return time.Duration(uint64(period)+1) * time.Second / time.Duration(clockHz)
}

// IntervalTimer programs and services the periodic timer
type IntervalTimer struct {
	p     Peripherals
	state TimerState
}

func NewIntervalTimer(p Peripherals) *IntervalTimer {
	return &IntervalTimer{p: p, state: TimerIdle}
}

func (t IntervalTimer) State() TimerState {
	return t.state
}

// Start moves the timer from Idle to Running with an auto-reload period.
// Starting a running timer does nothing.
func (t *IntervalTimer) Start(period uint32) {
	if t.state == TimerRunning {
		return
	}

	t.p.Write(TimerControl, ControlStop)
	t.p.Write(TimerStatus, 0)

	t.p.Write(TimerPeriodLow, period&0xFFFF)
	t.p.Write(TimerPeriodHigh, period>>16)

	t.p.Write(TimerControl, ControlContinuous|ControlInterrupt)
	t.p.Write(TimerControl, ControlContinuous|ControlInterrupt|ControlStart)

	t.state = TimerRunning
}

// Expired reports whether the timeout status bit is set
func (t IntervalTimer) Expired() bool {
	return t.p.Read(TimerStatus)&StatusTimeout != 0
}

// Acknowledge clears the timeout status
func (t IntervalTimer) Acknowledge() {
	t.p.Write(TimerStatus, 0)
}
