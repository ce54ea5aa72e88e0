// Package main provides a CLI for forecasting mission outcome distributions.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	entrypoint "github.com/ossifrage/cadre/internal/platform/cmd"
	"github.com/ossifrage/cadre/internal/platform/config"

	forecastcmd "github.com/ossifrage/cadre/internal/cmd/forecast"
)

func main() {
	cfg, err := forecastcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceForecast, func(ctx context.Context) error {
		return forecastcmd.Run(ctx, cfg, os.Stdout, os.Stderr)
	})
	if err != nil {
		config.Exitf("Error: %v", err)
	}
}
