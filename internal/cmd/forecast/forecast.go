package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sync"

	"github.com/caarlos0/env/v11"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ossifrage/cadre/internal/mission"
	"github.com/ossifrage/cadre/internal/random"
	"github.com/ossifrage/cadre/internal/roster"
)

const tracerName = "github.com/ossifrage/cadre/internal/cmd/forecast"

// Config holds forecast command configuration.
type Config struct {
	Roster  string `env:"CADRE_ROSTER_FILE"`
	Runs    int    `env:"CADRE_FORECAST_RUNS"     envDefault:"1000"`
	Workers int    `env:"CADRE_FORECAST_WORKERS"  envDefault:"4"`
	Seed    int64  `env:"CADRE_FORECAST_SEED"`
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Roster, "roster", cfg.Roster, "path to roster yaml file")
	fs.IntVar(&cfg.Runs, "runs", cfg.Runs, "number of trial resolutions")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "worker pool size")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "base seed (0 defers to the fixture, then a random draw)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Forecast is the aggregated outcome distribution of a seed sweep. Trials
// run with seeds base, base+1, ... base+runs-1, so a forecast is
// reproducible from its base seed alone.
type Forecast struct {
	FixtureName   string         `json:"fixture_name"`
	Runs          int            `json:"runs"`
	Workers       int            `json:"workers"`
	BaseSeed      int64          `json:"base_seed"`
	Outcomes      map[string]int `json:"outcomes"`
	AvgProgress   float64        `json:"avg_progress"`
	AvgPropaganda float64        `json:"avg_propaganda"`
	BetrayalRate  float64        `json:"betrayal_rate"`
	DeathRate     float64        `json:"death_rate"`
	CaptureRate   float64        `json:"capture_rate"`
}

type trial struct {
	report mission.Report
	deltas mission.StateDeltas
	err    error
}

// Run executes the forecast command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Roster == "" {
		return errors.New("roster path is required")
	}
	if cfg.Runs < 1 {
		return fmt.Errorf("runs must be positive, got %d", cfg.Runs)
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	}

	fx, err := roster.Load(cfg.Roster)
	if err != nil {
		return err
	}

	base := cfg.Seed
	if base == 0 {
		if fx.HasSeed {
			base = fx.Seed
		} else {
			base, err = random.NewSeed()
			if err != nil {
				return fmt.Errorf("draw seed: %w", err)
			}
		}
	}

	workers := cfg.Workers
	if workers > cfg.Runs {
		workers = cfg.Runs
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "mission.forecast", trace.WithAttributes(
		attribute.String("mission.kind", fx.Brief.Kind.String()),
		attribute.Int("forecast.runs", cfg.Runs),
		attribute.Int("forecast.workers", workers),
	))
	defer span.End()

	fc, err := sweep(ctx, fx, base, cfg.Runs, workers)
	if err != nil {
		return err
	}
	fmt.Fprintf(errOut, "forecast %s: %d runs on %d workers (base seed %d)\n",
		fx.Name, fc.Runs, fc.Workers, fc.BaseSeed)
	return printJSON(out, fc)
}

// sweep resolves the fixture under runs derived seeds on a bounded worker
// pool and folds the trials into a Forecast. The brief is shared read-only;
// each trial owns its seed and source.
func sweep(ctx context.Context, fx roster.Fixture, base int64, runs, workers int) (Forecast, error) {
	jobs := make(chan int64)
	results := make(chan trial)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := range jobs {
				report, deltas, err := mission.Execute(fx.Brief, seed, fx.Tuning)
				results <- trial{report: report, deltas: deltas, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < runs; i++ {
			select {
			case jobs <- base + int64(i):
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	fc := Forecast{
		FixtureName: fx.Name,
		Runs:        runs,
		Workers:     workers,
		BaseSeed:    base,
		Outcomes:    make(map[string]int),
	}
	var firstErr error
	var betrayals, deaths, captures int
	var progressSum, propagandaSum float64
	completed := 0
	for t := range results {
		if t.err != nil {
			if firstErr == nil {
				firstErr = t.err
			}
			continue
		}
		completed++
		fc.Outcomes[t.report.Outcome.String()]++
		progressSum += t.report.Progress
		propagandaSum += t.report.PropagandaValue
		if anyBetrayal(t.report) {
			betrayals++
		}
		dead, captured := losses(t.deltas)
		if dead {
			deaths++
		}
		if captured {
			captures++
		}
	}
	if firstErr != nil {
		return Forecast{}, firstErr
	}
	if err := ctx.Err(); err != nil {
		return Forecast{}, err
	}
	if completed > 0 {
		fc.AvgProgress = progressSum / float64(completed)
		fc.AvgPropaganda = propagandaSum / float64(completed)
		fc.BetrayalRate = float64(betrayals) / float64(completed)
		fc.DeathRate = float64(deaths) / float64(completed)
		fc.CaptureRate = float64(captures) / float64(completed)
	}
	return fc, nil
}

// anyBetrayal reports whether any roster member betrayed during the trial.
func anyBetrayal(report mission.Report) bool {
	for _, perf := range report.Performance {
		if perf.Betrayed {
			return true
		}
	}
	return false
}

// losses reports whether the trial proposes any deaths and any captures.
func losses(deltas mission.StateDeltas) (dead, captured bool) {
	for _, agent := range deltas.Agents {
		if agent.Dead {
			dead = true
		}
		if agent.Captured {
			captured = true
		}
	}
	return dead, captured
}

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
