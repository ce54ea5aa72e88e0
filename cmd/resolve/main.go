// Package main provides a CLI for resolving one mission fixture.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	entrypoint "github.com/ossifrage/cadre/internal/platform/cmd"
	"github.com/ossifrage/cadre/internal/platform/config"

	resolvecmd "github.com/ossifrage/cadre/internal/cmd/resolve"
)

func main() {
	cfg, err := resolvecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceResolve, func(ctx context.Context) error {
		return resolvecmd.Run(ctx, cfg, os.Stdout, os.Stderr)
	})
	if err != nil {
		config.Exitf("Error: %v", err)
	}
}
