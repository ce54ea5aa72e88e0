package scenario

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/caarlos0/env/v11"

	"github.com/ossifrage/cadre/internal/scenario"
)

// Config holds scenario command configuration.
type Config struct {
	Scenario   string `env:"CADRE_SCENARIO_FILE"`
	Assertions bool   `env:"CADRE_SCENARIO_ASSERT"  envDefault:"true"`
	Verbose    bool   `env:"CADRE_SCENARIO_VERBOSE"`
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to scenario lua file")
	fs.BoolVar(&cfg.Assertions, "assert", cfg.Assertions, "enable assertions (disable to log expectations)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose logging")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the scenario command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if cfg.Scenario == "" {
		return errors.New("scenario path is required")
	}

	mode := scenario.AssertionStrict
	if !cfg.Assertions {
		mode = scenario.AssertionLogOnly
	}

	result, err := scenario.RunFile(scenario.Config{
		Assertions: mode,
		Verbose:    cfg.Verbose,
		Logger:     log.New(errOut, "", 0),
	}, cfg.Scenario)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "scenario %s: %s (progress %.2f, propaganda %.1f)\n",
		result.Name, result.Report.Outcome, result.Report.Progress, result.Report.PropagandaValue)
	return nil
}
