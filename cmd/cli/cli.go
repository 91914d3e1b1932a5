/*
 *   Copyright (c) 2026 Gustavo Lopez <git.gustavolopez.xyz@gmail.com>
 *   All rights reserved.
 */
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/guslan/xpong"
	"github.com/guslan/xpong/web"
)

func main() {
	portPtr := flag.Int("port", 0, "specify the port of the debugger, off when 0")
	noTermPtr := flag.Bool("noterm", false, "turn off the terminal display of the board")
	ratePtr := flag.Uint("rate", uint(xpong.DefaultRateHz), "tick rate of the board timer in Hz")
	ttyPtr := flag.String("tty", "/dev/tty", "terminal to read the switch keys from")

	flag.Parse()

	// the terminal belongs to the display, keep the logs out of it
	if !*noTermPtr {
		logFile, err := os.CreateTemp("", "xpong-*.log")
		if err != nil {
			log.Fatalln(err)
		}
		defer logFile.Close()
		slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{})))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var d xpong.Display
	if *noTermPtr {
		d = xpong.NewInMemoryDisplay()
	} else {
		d = xpong.NewTerminalDisplay()
	}

	var deb *web.HttpDebugger
	if *portPtr != 0 {
		deb = web.NewHttpDebugger()
	}

	machine := xpong.NewMachine([]xpong.Display{d}, func(config *xpong.MachineConfig) {
		config.RateHz = xpong.ClampRate(uint64(*ratePtr))
		if deb != nil {
			config.Prepare = deb.Attach
		}
	})
	if err := machine.PowerOn(ctx); err != nil {
		log.Fatalln(err)
	}
	defer machine.PowerOff()

	if deb != nil {
		go func(port int) {
			slog.Info("Debugger listening on port", slog.Int("port", port))
			if err := deb.Listen(ctx, port); err != nil {
				slog.Error("Debugger stopped", slog.Any("error", err))
			}
		}(*portPtr)
	}

	sw := xpong.NewTerminalSwitches()
	sw.Path = *ttyPtr
	if err := sw.Boot(); err != nil {
		log.Fatalln(err)
	}
	defer sw.Close()

	go func() {
		// x quits
		if err := sw.Run(ctx, machine.Board()); err != nil {
			slog.Error("Switches stopped", slog.Any("error", err))
		}
		cancel()
	}()

	// all the work happens in the board's interrupts
	machine.Wait(ctx)
}
