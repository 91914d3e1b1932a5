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
	"github.com/guslan/xpong/statsview"
	"github.com/guslan/xpong/web"
)

func main() {
	port := flag.Int("port", 9999, "The port of the server (default = 9999)")
	rate := flag.Uint("rate", uint(xpong.DefaultRateHz), "Tick rate of the board timer in Hz (default = 60)")
	debug := flag.Bool("debug", false, "Serve the debugger socket on /debugger (default = false)")
	static := flag.String("static", "./web/static", "Directory with the browser front-end (default = ./web/static)")
	stats := flag.String("stats", "", "Address of the runtime stats viewer, off when empty")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *stats != "" {
		viewer := statsview.New(*stats)
		go viewer.Start()
		defer viewer.Stop()
		slog.Info("Stats viewer", slog.String("url", viewer.URL()))
	}

	server := web.NewServer(func(config *web.ServerConfig) {
		config.RateHz = xpong.ClampRate(uint64(*rate))
		config.UseDebugger = *debug
		config.StaticDir = *static
	})

	if err := server.Listen(ctx, *port); err != nil {
		log.Fatalln(err)
	}
}
