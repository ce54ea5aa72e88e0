package resolve

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/caarlos0/env/v11"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ossifrage/cadre/internal/archive"
	"github.com/ossifrage/cadre/internal/mission"
	"github.com/ossifrage/cadre/internal/platform/id"
	"github.com/ossifrage/cadre/internal/random"
	"github.com/ossifrage/cadre/internal/roster"
)

const tracerName = "github.com/ossifrage/cadre/internal/cmd/resolve"

// Config holds resolve command configuration.
type Config struct {
	Roster  string `env:"CADRE_ROSTER_FILE"`
	Seed    int64  `env:"CADRE_RESOLVE_SEED"`
	Explain bool   `env:"CADRE_RESOLVE_EXPLAIN"`
	Archive string `env:"CADRE_ARCHIVE_PATH"`
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Roster, "roster", cfg.Roster, "path to roster yaml file")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "seed override (0 defers to the fixture, then a random draw)")
	fs.BoolVar(&cfg.Explain, "explain", cfg.Explain, "print betrayal breakdowns instead of resolving")
	fs.StringVar(&cfg.Archive, "archive", cfg.Archive, "sqlite archive path (empty disables archiving)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// resolution is the document printed after a resolution run.
type resolution struct {
	FixtureName string              `json:"fixture_name"`
	Report      mission.Report      `json:"report"`
	Deltas      mission.StateDeltas `json:"deltas"`
	ArchivedAs  string              `json:"archived_as,omitempty"`
}

// Run executes the resolve command.
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

	fx, err := roster.Load(cfg.Roster)
	if err != nil {
		return err
	}

	if cfg.Explain {
		return runExplain(fx, out)
	}

	seed := cfg.Seed
	if seed == 0 {
		if fx.HasSeed {
			seed = fx.Seed
		} else {
			seed, err = random.NewSeed()
			if err != nil {
				return fmt.Errorf("draw seed: %w", err)
			}
		}
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "mission.resolve", trace.WithAttributes(
		attribute.String("mission.kind", fx.Brief.Kind.String()),
		attribute.Int64("mission.seed", seed),
	))
	report, deltas, err := mission.Execute(fx.Brief, seed, fx.Tuning)
	if err != nil {
		span.End()
		return err
	}
	span.SetAttributes(attribute.String("mission.outcome", report.Outcome.String()))
	span.End()

	doc := resolution{
		FixtureName: fx.Name,
		Report:      report,
		Deltas:      deltas,
	}

	if cfg.Archive != "" {
		archivedAs, err := save(ctx, cfg.Archive, fx.Name, fx.Brief, report, deltas)
		if err != nil {
			return err
		}
		doc.ArchivedAs = archivedAs
		fmt.Fprintf(errOut, "archived resolution %s\n", archivedAs)
	}

	return printJSON(out, doc)
}

func runExplain(fx roster.Fixture, out io.Writer) error {
	breakdowns := make([]mission.BetrayalExplain, 0, len(fx.Brief.Roster))
	for _, p := range fx.Brief.Roster {
		explain, err := mission.ExplainBetrayal(fx.Brief, p.CharacterID, fx.Tuning)
		if err != nil {
			return err
		}
		breakdowns = append(breakdowns, explain)
	}
	return printJSON(out, breakdowns)
}

func save(ctx context.Context, path, fixtureName string, b mission.Brief, report mission.Report, deltas mission.StateDeltas) (string, error) {
	store, err := archive.Open(path)
	if err != nil {
		return "", err
	}
	defer store.Close()

	resID, err := id.NewID()
	if err != nil {
		return "", fmt.Errorf("mint resolution id: %w", err)
	}
	res := archive.Resolution{
		ID:          resID,
		FixtureName: fixtureName,
		Brief:       b,
		Report:      report,
		Deltas:      deltas,
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.SaveResolution(ctx, res); err != nil {
		return "", err
	}
	return resID, nil
}

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
