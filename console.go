package xpong

import (
	"context"
	"errors"
	"log/slog"
)

var ErrNotSetUp = errors.New("the console has not been set up")

// ConsoleConfig for the tick processor
type ConsoleConfig struct {
	// ClockHz of the interval timer
	ClockHz uint32
	// RateHz is the number of ticks per second
	RateHz uint32
	// Cause is the interrupt cause of the timer
	Cause uint
}
type ConsoleConfigCb func(config *ConsoleConfig)

// Console owns the game and is the only writer of its state.
// After Setup every change happens inside HandleInterrupt.
type Console struct {
	State *GameState

	Peripherals Peripherals
	Interrupts  InterruptController

	config     ConsoleConfig
	fb         *FrameBuffer
	renderer   *Renderer
	scoreboard *Scoreboard
	timer      *IntervalTimer

	isSetUp   bool
	ticks     uint
	spurious  uint
	lastError error

	// Hooks that run before every tick
	beforeTickHooks []Hook
	// Hooks that run after every tick
	afterTickHooks []Hook
	// Hooks that run after a failed flip
	errorHooks []Hook
}

// Snapshot is a copy of the console taken inside the interrupt context
type Snapshot struct {
	State    GameState
	Ticks    uint
	Spurious uint
	Switches uint32
}

func NewConsole(p Peripherals, ic InterruptController, configs ...ConsoleConfigCb) *Console {
	config := ConsoleConfig{
		ClockHz: DefaultClockHz,
		RateHz:  DefaultRateHz,
		Cause:   TimerCause,
	}
	for _, cb := range configs {
		cb(&config)
	}

	fb := NewFrameBuffer(VGAScreen)

	return &Console{
		State:       NewGameState(),
		Peripherals: p,
		Interrupts:  ic,

		config:     config,
		fb:         fb,
		renderer:   NewRenderer(fb),
		scoreboard: NewScoreboard(p),
		timer:      NewIntervalTimer(p),

		beforeTickHooks: make([]Hook, 0),
		afterTickHooks:  make([]Hook, 0),
		errorHooks:      make([]Hook, 0),
	}
}

func (c Console) Config() ConsoleConfig {
	return c.config
}

func (c Console) IsSetUp() bool {
	return c.isSetUp
}

// Ticks is the number of handled timer interrupts
func (c Console) Ticks() uint {
	return c.ticks
}

// Spurious is the number of interrupts that were ignored
func (c Console) Spurious() uint {
	return c.spurious
}

func (c Console) LastError() error {
	return c.lastError
}

func (c Console) TimerState() TimerState {
	return c.timer.State()
}

// FrameBuffer is the off-screen buffer of the renderer
func (c *Console) FrameBuffer() *FrameBuffer {
	return c.fb
}

// Snapshot copies the state. Only call it from a hook or before Setup.
func (c *Console) Snapshot() Snapshot {
	return Snapshot{
		State:    *c.State,
		Ticks:    c.ticks,
		Spurious: c.spurious,
		Switches: c.Peripherals.Read(SwitchData) & SwitchMask,
	}
}

// Setup prepares the game, shows the first frame and the scoreboard, starts
// the timer and enables interrupts as its final step.
// If the console was already set up, this method is a noop
func (c *Console) Setup() error {
	if c.isSetUp {
		return nil
	}

	c.State.Reset()
	c.render()

	c.scoreboard.Blank()
	c.scoreboard.Update(c.State.ScoreLeft, c.State.ScoreRight)
	c.State.ScoreDirty = false

	period := PeriodFor(c.config.ClockHz, c.config.RateHz)
	c.timer.Start(period)
	slog.Info("Timer started",
		slog.Uint64("rate", uint64(c.config.RateHz)),
		slog.Uint64("period", uint64(period)))

	c.isSetUp = true
	c.Interrupts.EnableInterrupts(c.HandleInterrupt)

	return nil
}

// HandleInterrupt is the interrupt entry point. Anything other than an
// expired timer with the expected cause is ignored.
func (c *Console) HandleInterrupt(cause uint) {
	if !c.isSetUp || cause != c.config.Cause {
		c.spurious++
		slog.Debug("Ignoring interrupt", slog.Uint64("cause", uint64(cause)))
		return
	}

	if !c.timer.Expired() {
		c.spurious++
		slog.Debug("Ignoring interrupt without timeout", slog.Uint64("cause", uint64(cause)))
		return
	}
	c.timer.Acknowledge()

	c.runBeforeTickHooks()

	in := DecodeSwitches(c.Peripherals.Read(SwitchData))
	c.State.Simulate(in)

	if c.State.ScoreDirty {
		c.scoreboard.Update(c.State.ScoreLeft, c.State.ScoreRight)
		c.State.ScoreDirty = false
	}

	c.render()
	c.ticks++

	c.runAfterTickHooks()
}

func (c *Console) render() {
	if err := c.renderer.Render(c.State, c.Peripherals); err != nil {
		c.lastError = err
		slog.Error("Error flipping frame", slog.Any("error", err))
		c.runErrorHooks()
	}
}

// Idle parks the caller until ctx is done. All work happens in interrupts.
func (c *Console) Idle(ctx context.Context) error {
	if !c.isSetUp {
		return ErrNotSetUp
	}

	<-ctx.Done()

	return ctx.Err()
}
