package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/tickerchain/config"
	"github.com/luca-patrignani/tickerchain/ticker"
)

func main() {
	cfg, err := config.Parse(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(err.Error())
		os.Exit(2)
	}

	logger := slog.New(pterm.NewSlogHandler(
		pterm.DefaultLogger.WithLevel(logLevel(cfg.Log.Level)).WithWriter(os.Stderr),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app{
		cfg:         cfg,
		source:      ticker.NewClient(cfg.Ticker.URL, ticker.WithTimeout(cfg.Ticker.Timeout)),
		logger:      logger,
		out:         os.Stdout,
		status:      os.Stdout,
		interactive: true,
	}
	if cfg.Output == "json" {
		a.status = os.Stderr
	}

	if _, err := a.run(ctx); err != nil {
		logger.Error("run failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func logLevel(level string) pterm.LogLevel {
	switch level {
	case "debug":
		return pterm.LogLevelDebug
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	default:
		return pterm.LogLevelInfo
	}
}
