package xpong

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pkg/errors"
)

// MachineConfig for a powered board
type MachineConfig struct {
	// RateHz of the board timer
	RateHz uint32
	// Prepare runs on every new console before Setup, to add hooks
	Prepare func(console *Console)
}
type MachineConfigCb func(config *MachineConfig)

// Machine is a board and its console that can be powered on and off.
// Powering on builds both from scratch, nothing survives a power off.
type Machine struct {
	config   MachineConfig
	displays []Display

	mu     sync.Mutex
	board  *Board
	cancel context.CancelFunc
	done   chan struct{}
}

func NewMachine(displays []Display, configs ...MachineConfigCb) *Machine {
	config := &MachineConfig{
		RateHz: DefaultRateHz,
	}
	for _, cb := range configs {
		cb(config)
	}

	return &Machine{
		config:   *config,
		displays: displays,
	}
}

// PowerOn boots a fresh board, runs the console start-up and starts the timer
// If the machine is already on, this method is a noop
func (m *Machine) PowerOn(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.powerOn(ctx)
}

func (m *Machine) powerOn(ctx context.Context) error {
	if m.board != nil {
		return nil
	}

	board := NewBoard()
	for _, d := range m.displays {
		board.Attach(d)
	}
	if err := board.Boot(); err != nil {
		return errors.Wrap(err, "booting board")
	}

	console := NewConsole(board, board, func(config *ConsoleConfig) {
		config.RateHz = m.config.RateHz
	})
	if m.config.Prepare != nil {
		m.config.Prepare(console)
	}
	if err := console.Setup(); err != nil {
		return errors.Wrap(err, "setting up console")
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := board.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Board stopped", slog.Any("error", err))
		}
	}()

	m.board = board
	m.cancel = cancel
	m.done = done
	slog.Info("Board powered on", slog.Uint64("rate", uint64(m.config.RateHz)))

	return nil
}

// PowerOff stops the board and waits for the running tick to finish
func (m *Machine) PowerOff() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.powerOff()
}

func (m *Machine) powerOff() {
	if m.board == nil {
		return
	}

	m.cancel()
	<-m.done

	m.board = nil
	m.cancel = nil
	m.done = nil
	slog.Info("Board powered off")
}

// PowerCycle switches the machine off and on again
func (m *Machine) PowerCycle(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.powerOff()

	return m.powerOn(ctx)
}

// Board returns the powered board, nil while the machine is off
func (m *Machine) Board() *Board {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.board
}

// Wait blocks until the running board stops or ctx is done
func (m *Machine) Wait(ctx context.Context) error {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()

	if done == nil {
		return ErrNotSetUp
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
