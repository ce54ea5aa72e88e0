package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ossifrage/cadre/internal/mission"
)

// Config controls scenario execution.
type Config struct {
	// Assertions selects whether unmet expectations fail the run.
	Assertions AssertionMode
	// Verbose enables progress logging.
	Verbose bool
	// Logger receives progress and log-only assertion output. Defaults to
	// stderr.
	Logger *log.Logger
}

// DefaultConfig returns the runner defaults: strict assertions, quiet.
func DefaultConfig() Config {
	return Config{Assertions: AssertionStrict}
}

// Result is the resolved mission a scenario produced.
type Result struct {
	Name   string
	Report mission.Report
	Deltas mission.StateDeltas
}

// Runner resolves loaded scenarios against the mission engine in process.
type Runner struct {
	assertions Assertions
	logger     *log.Logger
	verbose    bool
}

func NewRunner(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	return &Runner{
		assertions: Assertions{Mode: cfg.Assertions, Logger: logger},
		logger:     logger,
		verbose:    cfg.Verbose,
	}
}

// RunFile loads one scenario script and runs it.
func RunFile(cfg Config, path string) (Result, error) {
	scenario, err := LoadFile(path)
	if err != nil {
		return Result{}, err
	}
	return NewRunner(cfg).Run(scenario)
}

// Run folds the scenario steps into a mission brief, resolves it, and
// evaluates the declared expectations in order.
func (r *Runner) Run(s *Scenario) (Result, error) {
	if s == nil || len(s.Steps) == 0 {
		return Result{}, errors.New("scenario has no steps")
	}
	r.logf("scenario %s: %d steps", s.Name, len(s.Steps))

	build, err := foldSteps(s.Steps)
	if err != nil {
		return Result{}, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	report, deltas, err := mission.Execute(build.brief, build.seed, build.tuning)
	if err != nil {
		return Result{}, fmt.Errorf("scenario %s: resolve mission: %w", s.Name, err)
	}
	r.logf("scenario %s: outcome=%s progress=%.3f heat=%+.3f",
		s.Name, report.Outcome, report.Progress, report.HeatDelta)

	for i, step := range build.expects {
		if err := r.checkStep(report, deltas, step); err != nil {
			return Result{}, fmt.Errorf("scenario %s: expectation %d: %w", s.Name, i+1, err)
		}
	}
	return Result{Name: s.Name, Report: report, Deltas: deltas}, nil
}

func (r *Runner) logf(format string, args ...any) {
	if r.verbose && r.logger != nil {
		r.logger.Printf(format, args...)
	}
}

// missionBuild is the folded form of a scenario: everything Execute needs
// plus the expectation steps to check afterwards.
type missionBuild struct {
	brief   mission.Brief
	tuning  mission.Tuning
	seed    int64
	expects []Step
}

func foldSteps(steps []Step) (missionBuild, error) {
	build := missionBuild{tuning: mission.DefaultTuning()}
	kindSet := false
	locationSet := false

	for _, step := range steps {
		switch step.Kind {
		case "mission":
			label := optionalString(step.Args, "kind", "")
			kind, ok := mission.ParseKind(normalizeLabel(label))
			if !ok {
				return missionBuild{}, fmt.Errorf("unknown mission kind %q", label)
			}
			build.brief.Kind = kind
			kindSet = true
			if seed, ok := readInt(step.Args, "seed"); ok {
				build.seed = int64(seed)
			}
		case "location":
			location, err := buildLocation(step.Args)
			if err != nil {
				return missionBuild{}, err
			}
			build.brief.Location = location
			locationSet = true
		case "agent":
			agent, err := buildAgent(step.Args)
			if err != nil {
				return missionBuild{}, err
			}
			build.brief.Roster = append(build.brief.Roster, agent)
		case "trust":
			build.brief.Relationships = append(build.brief.Relationships, mission.RelationshipEdge{
				FromID:  optionalString(step.Args, "from", ""),
				ToID:    optionalString(step.Args, "to", ""),
				Trust:   optionalNumber(step.Args, "trust", 0),
				Loyalty: optionalNumber(step.Args, "loyalty", 0),
			})
		case "tuning":
			if err := applyTuningOverrides(&build.tuning, step.Args); err != nil {
				return missionBuild{}, err
			}
		case "expect", "expect_agent":
			build.expects = append(build.expects, step)
		default:
			return missionBuild{}, fmt.Errorf("unknown step kind %q", step.Kind)
		}
	}

	if !kindSet {
		return missionBuild{}, errors.New("scenario declares no mission")
	}
	if !locationSet {
		return missionBuild{}, errors.New("scenario declares no location")
	}
	return build, nil
}

func buildLocation(args map[string]any) (mission.LocationProfile, error) {
	name := strings.TrimSpace(optionalString(args, "name", ""))
	if name == "" {
		return mission.LocationProfile{}, errors.New("location name is required")
	}
	label := optionalString(args, "archetype", "")
	archetype, ok := mission.ParseArchetype(normalizeLabel(label))
	if !ok {
		return mission.LocationProfile{}, fmt.Errorf("location %s: unknown archetype %q", name, label)
	}
	return mission.LocationProfile{
		Name:            name,
		Archetype:       archetype,
		Security:        optionalNumber(args, "security", 0),
		Affluence:       optionalNumber(args, "affluence", 0),
		HeatSensitivity: optionalNumber(args, "heat_sensitivity", 0),
		Heat:            optionalNumber(args, "heat", 0),
	}, nil
}

func buildAgent(args map[string]any) (mission.Participant, error) {
	id := strings.TrimSpace(optionalString(args, "id", ""))
	if id == "" {
		return mission.Participant{}, errors.New("agent id is required")
	}
	agent := mission.Participant{
		CharacterID: id,
		Name:        optionalString(args, "name", ""),
		Skills:      readRatings(args),
		Stress:      optionalNumber(args, "stress", 0),
		Fear:        optionalNumber(args, "fear", 0),
		Commitment:  optionalNumber(args, "commitment", 0),
	}
	if gear, ok := args["gear"].(map[string]any); ok {
		agent.Gear = readRatings(gear)
	}
	for _, label := range readStringSlice(args, "traits") {
		trait, ok := mission.ParseTrait(normalizeLabel(label))
		if !ok {
			return mission.Participant{}, fmt.Errorf("agent %s: unknown trait %q", id, label)
		}
		agent.Traits = append(agent.Traits, trait)
	}
	traumas, err := readTraumaList(args, id)
	if err != nil {
		return mission.Participant{}, err
	}
	agent.Traumas = traumas
	return agent, nil
}

func readRatings(args map[string]any) mission.SkillRatings {
	return mission.SkillRatings{
		Stealth:  optionalNumber(args, "stealth", 0),
		Violence: optionalNumber(args, "violence", 0),
		Tech:     optionalNumber(args, "tech", 0),
		Charisma: optionalNumber(args, "charisma", 0),
		Resolve:  optionalNumber(args, "resolve", 0),
	}
}

func readTraumaList(args map[string]any, id string) ([]mission.Trauma, error) {
	items, ok := args["traumas"].([]any)
	if !ok {
		return nil, nil
	}
	traumas := make([]mission.Trauma, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("agent %s: trauma entries must be tables", id)
		}
		label := optionalString(entry, "kind", "")
		kind, ok := mission.ParseTraumaKind(normalizeLabel(label))
		if !ok {
			return nil, fmt.Errorf("agent %s: unknown trauma kind %q", id, label)
		}
		traumas = append(traumas, mission.Trauma{
			Kind:     kind,
			Severity: optionalNumber(entry, "severity", 0),
		})
	}
	return traumas, nil
}

// applyTuningOverrides merges scenario tuning knobs onto the current tuning.
// The overrides round-trip through YAML so they use the same keys as roster
// fixtures.
func applyTuningOverrides(tun *mission.Tuning, overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}
	encoded, err := yaml.Marshal(overrides)
	if err != nil {
		return fmt.Errorf("encode tuning overrides: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(encoded))
	dec.KnownFields(true)
	if err := dec.Decode(tun); err != nil {
		return fmt.Errorf("decode tuning overrides: %w", err)
	}
	return nil
}

func (r *Runner) checkStep(report mission.Report, deltas mission.StateDeltas, step Step) error {
	switch step.Kind {
	case "expect":
		return r.checkExpect(report, step.Args)
	case "expect_agent":
		return r.checkExpectAgent(report, deltas, step.Args)
	default:
		return r.assertions.Failf("unknown expectation step %q", step.Kind)
	}
}

func (r *Runner) checkExpect(report mission.Report, args map[string]any) error {
	if label, ok := readString(args, "outcome"); ok {
		want, known := mission.ParseOutcome(normalizeLabel(label))
		if !known {
			return r.assertions.Failf("unknown outcome label %q", label)
		}
		if report.Outcome != want {
			if err := r.assertions.Assertf("outcome = %s, want %s", report.Outcome, want); err != nil {
				return err
			}
		}
	}
	if want, ok := readNumber(args, "min_progress"); ok && report.Progress < want {
		if err := r.assertions.Assertf("progress = %.3f, want >= %.3f", report.Progress, want); err != nil {
			return err
		}
	}
	if want, ok := readNumber(args, "max_progress"); ok && report.Progress > want {
		if err := r.assertions.Assertf("progress = %.3f, want <= %.3f", report.Progress, want); err != nil {
			return err
		}
	}
	if want, ok := readNumber(args, "min_propaganda"); ok && report.PropagandaValue < want {
		if err := r.assertions.Assertf("propaganda value = %.3f, want >= %.3f", report.PropagandaValue, want); err != nil {
			return err
		}
	}
	if want, ok := readNumber(args, "max_propaganda"); ok && report.PropagandaValue > want {
		if err := r.assertions.Assertf("propaganda value = %.3f, want <= %.3f", report.PropagandaValue, want); err != nil {
			return err
		}
	}
	if want, ok := readInt(args, "phases"); ok && len(report.Phases) != want {
		if err := r.assertions.Assertf("resolved %d phases, want %d", len(report.Phases), want); err != nil {
			return err
		}
	}
	tags := readStringSlice(args, "tags")
	if tag, ok := readString(args, "tag"); ok {
		tags = append(tags, tag)
	}
	for _, tag := range tags {
		if !hasTag(report.Tags, mission.Tag(tag)) {
			if err := r.assertions.Assertf("report tags %v missing %q", report.Tags, tag); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Runner) checkExpectAgent(report mission.Report, deltas mission.StateDeltas, args map[string]any) error {
	id := optionalString(args, "id", "")
	perf, ok := report.Performance[id]
	if !ok {
		return r.assertions.Failf("expectation targets unknown agent %q", id)
	}
	delta, ok := findAgentDelta(deltas, id)
	if !ok {
		return r.assertions.Failf("no state delta recorded for agent %q", id)
	}

	boolChecks := []struct {
		key string
		got bool
	}{
		{"betrayed", perf.Betrayed},
		{"heroic", perf.Heroic},
		{"dead", delta.Dead},
		{"captured", delta.Captured},
		{"injured", delta.Injured},
	}
	for _, check := range boolChecks {
		if want, ok := readBool(args, check.key); ok && check.got != want {
			if err := r.assertions.Assertf("agent %s %s = %t, want %t", id, check.key, check.got, want); err != nil {
				return err
			}
		}
	}

	if want, ok := readInt(args, "successes"); ok && perf.Successes != want {
		if err := r.assertions.Assertf("agent %s successes = %d, want %d", id, perf.Successes, want); err != nil {
			return err
		}
	}
	if want, ok := readInt(args, "failures"); ok && perf.Failures != want {
		if err := r.assertions.Assertf("agent %s failures = %d, want %d", id, perf.Failures, want); err != nil {
			return err
		}
	}
	if want, ok := readNumber(args, "min_stress_delta"); ok && delta.StressDelta < want {
		if err := r.assertions.Assertf("agent %s stress delta = %.3f, want >= %.3f", id, delta.StressDelta, want); err != nil {
			return err
		}
	}
	if want, ok := readNumber(args, "max_stress_delta"); ok && delta.StressDelta > want {
		if err := r.assertions.Assertf("agent %s stress delta = %.3f, want <= %.3f", id, delta.StressDelta, want); err != nil {
			return err
		}
	}
	if label, ok := readString(args, "trauma"); ok {
		kind, known := mission.ParseTraumaKind(normalizeLabel(label))
		if !known {
			return r.assertions.Failf("unknown trauma kind label %q", label)
		}
		if !hasTraumaKind(delta.TraumaGained, kind) {
			if err := r.assertions.Assertf("agent %s gained no %s trauma", id, kind); err != nil {
				return err
			}
		}
	}
	return nil
}

func findAgentDelta(deltas mission.StateDeltas, id string) (mission.AgentDelta, bool) {
	for _, delta := range deltas.Agents {
		if delta.CharacterID == id {
			return delta, true
		}
	}
	return mission.AgentDelta{}, false
}

func hasTag(tags []mission.Tag, want mission.Tag) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}

func hasTraumaKind(traumas []mission.Trauma, want mission.TraumaKind) bool {
	for _, trauma := range traumas {
		if trauma.Kind == want {
			return true
		}
	}
	return false
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

func optionalString(args map[string]any, key, fallback string) string {
	if value, ok := args[key].(string); ok {
		return value
	}
	return fallback
}

func readString(args map[string]any, key string) (string, bool) {
	value, ok := args[key].(string)
	return value, ok
}

func readInt(args map[string]any, key string) (int, bool) {
	switch value := args[key].(type) {
	case int:
		return value, true
	case float64:
		return int(value), true
	default:
		return 0, false
	}
}

func readNumber(args map[string]any, key string) (float64, bool) {
	switch value := args[key].(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	default:
		return 0, false
	}
}

func optionalNumber(args map[string]any, key string, fallback float64) float64 {
	if value, ok := readNumber(args, key); ok {
		return value
	}
	return fallback
}

func readBool(args map[string]any, key string) (bool, bool) {
	value, ok := args[key].(bool)
	return value, ok
}

func readStringSlice(args map[string]any, key string) []string {
	items, ok := args[key].([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}
