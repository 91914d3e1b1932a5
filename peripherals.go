package xpong

import "fmt"

// Register names a memory-mapped peripheral register of the board
type Register byte

const (
	TimerStatus Register = iota
	TimerControl
	TimerPeriodLow
	TimerPeriodHigh
	SwitchData
	Hex0
	Hex1
	Hex2
	Hex3
	Hex4
	Hex5
)

// HexCount is the number of seven-segment displays on the board
const HexCount = 6

const (
	timerBase  = 0x04000020
	switchBase = 0x04000010
	hexBase    = 0x04000050

	// VGABase is where the visible pixel surface starts, one byte per pixel
	VGABase = 0x08000000
)

// ErrUnknownRegister is returned when a register has no address on the bus
type ErrUnknownRegister struct {
	Register Register
}

func (err ErrUnknownRegister) Error() string {
	return fmt.Sprintf("unknown register %d", err.Register)
}

// Address returns the bus address of the register
func (r Register) Address() (uint32, error) {
	switch {
	case r <= TimerPeriodHigh:
		return timerBase + uint32(r)*4, nil
	case r == SwitchData:
		return switchBase, nil
	case r >= Hex0 && r <= Hex5:
		return hexBase + uint32(r-Hex0)*0x10, nil
	}

	return 0, ErrUnknownRegister{Register: r}
}

func (r Register) String() string {
	switch {
	case r == TimerStatus:
		return "TMR_STATUS"
	case r == TimerControl:
		return "TMR_CONTROL"
	case r == TimerPeriodLow:
		return "TMR_PERIODL"
	case r == TimerPeriodHigh:
		return "TMR_PERIODH"
	case r == SwitchData:
		return "SW_DATA"
	case r >= Hex0 && r <= Hex5:
		return fmt.Sprintf("HEX%d", r-Hex0)
	}

	return fmt.Sprintf("REG(%d)", byte(r))
}

// HexRegister returns the register of the n-th seven-segment display.
// The second value is false when n is not a display on the board.
func HexRegister(n int) (Register, bool) {
	if n < 0 || n >= HexCount {
		return 0, false
	}

	return Hex0 + Register(n), true
}

// Peripherals is the capability boundary to the board hardware.
// Implementations hold no game logic.
type Peripherals interface {
	Read(r Register) uint32
	Write(r Register, v uint32)
	// Flip copies a complete frame onto the visible surface in one pass
	Flip(frame Frame) error
}

// InterruptHandler receives the cause identifier of a hardware interrupt
type InterruptHandler func(cause uint)

// InterruptController enables delivery of interrupts to a single handler
type InterruptController interface {
	EnableInterrupts(h InterruptHandler)
}
