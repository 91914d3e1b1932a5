package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/guslan/xpong"
	"github.com/guslan/xpong/gui"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{})))
}

func main() {
	rate := flag.Uint("rate", uint(xpong.DefaultRateHz), fmt.Sprintf("The tick rate of the board timer in Hz (defaults = %d).", xpong.DefaultRateHz))
	scale := flag.Int("scale", 2, "Window pixels per VGA pixel (defaults = 2).")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := gui.NewApp(func(config *gui.AppConfig) {
		config.RateHz = xpong.ClampRate(uint64(*rate))
		config.Scale = min(max(*scale, 1), 16)
	})

	if err := app.Run(ctx); err != nil {
		slog.Error("Exiting", slog.Any("error", err))
		os.Exit(1)
	}
}
