// Package roster decodes mission fixtures: the characters, relationship
// graph, target location, and optional tuning overrides that together make
// one resolvable mission brief. Fixtures are YAML; decoding is strict so a
// misspelled tuning knob fails loudly instead of silently keeping its
// default.
package roster

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ossifrage/cadre/internal/mission"
)

// ErrUnknownLabel marks a fixture referencing a label outside the closed
// vocabularies (mission kind, archetype, trait, trauma kind).
var ErrUnknownLabel = errors.New("roster: unknown label")

// Fixture is one fully decoded and validated mission input.
type Fixture struct {
	Name    string
	Brief   mission.Brief
	Tuning  mission.Tuning
	Seed    int64
	HasSeed bool
}

// File mirrors the on-disk fixture schema. Tuning decodes onto a copy of the
// default balance, so a fixture only names the knobs it moves.
type File struct {
	Name          string             `yaml:"name"`
	Mission       MissionSpec        `yaml:"mission"`
	Location      LocationSpec       `yaml:"location"`
	Characters    []CharacterSpec    `yaml:"characters"`
	Relationships []RelationshipSpec `yaml:"relationships"`
	Tuning        *mission.Tuning    `yaml:"tuning"`
	Seed          *int64             `yaml:"seed"`
}

// MissionSpec names the mission template to resolve.
type MissionSpec struct {
	Kind string `yaml:"kind"`
}

// LocationSpec is the target location profile.
type LocationSpec struct {
	Name            string  `yaml:"name"`
	Archetype       string  `yaml:"archetype"`
	Security        float64 `yaml:"security"`
	Affluence       float64 `yaml:"affluence"`
	HeatSensitivity float64 `yaml:"heat_sensitivity"`
	Heat            float64 `yaml:"heat"`
}

// CharacterSpec is one roster member declaration.
type CharacterSpec struct {
	ID         string               `yaml:"id"`
	Name       string               `yaml:"name"`
	Skills     mission.SkillRatings `yaml:"skills"`
	Gear       mission.SkillRatings `yaml:"gear"`
	Traits     []string             `yaml:"traits"`
	Stress     float64              `yaml:"stress"`
	Fear       float64              `yaml:"fear"`
	Commitment float64              `yaml:"commitment"`
	Traumas    []TraumaSpec         `yaml:"traumas"`
}

// TraumaSpec is one unresolved trauma declaration.
type TraumaSpec struct {
	Kind     string  `yaml:"kind"`
	Severity float64 `yaml:"severity"`
}

// RelationshipSpec is one directed trust edge declaration.
type RelationshipSpec struct {
	From    string  `yaml:"from"`
	To      string  `yaml:"to"`
	Trust   float64 `yaml:"trust"`
	Loyalty float64 `yaml:"loyalty"`
}

// Load reads and decodes a fixture file.
func Load(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	fx, err := Parse(data)
	if err != nil {
		return Fixture{}, fmt.Errorf("fixture %s: %w", filepath.Base(path), err)
	}
	return fx, nil
}

// Parse decodes fixture bytes into a validated Fixture. Unknown YAML keys
// are rejected. The brief and tuning are validated here so callers fail
// before any resolution starts.
func Parse(data []byte) (Fixture, error) {
	var file File
	tun := mission.DefaultTuning()
	file.Tuning = &tun

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	return build(file)
}

func build(f File) (Fixture, error) {
	kind, ok := mission.ParseKind(normalizeLabel(f.Mission.Kind))
	if !ok {
		return Fixture{}, fmt.Errorf("%w: mission kind %q", ErrUnknownLabel, f.Mission.Kind)
	}
	archetype, ok := mission.ParseArchetype(normalizeLabel(f.Location.Archetype))
	if !ok {
		return Fixture{}, fmt.Errorf("%w: location archetype %q", ErrUnknownLabel, f.Location.Archetype)
	}

	participants := make([]mission.Participant, 0, len(f.Characters))
	for _, c := range f.Characters {
		p, err := buildParticipant(c)
		if err != nil {
			return Fixture{}, err
		}
		participants = append(participants, p)
	}

	edges := make([]mission.RelationshipEdge, 0, len(f.Relationships))
	for _, r := range f.Relationships {
		edges = append(edges, mission.RelationshipEdge{
			FromID:  r.From,
			ToID:    r.To,
			Trust:   r.Trust,
			Loyalty: r.Loyalty,
		})
	}

	brief := mission.Brief{
		Kind: kind,
		Location: mission.LocationProfile{
			Name:            f.Location.Name,
			Security:        f.Location.Security,
			Archetype:       archetype,
			Affluence:       f.Location.Affluence,
			HeatSensitivity: f.Location.HeatSensitivity,
			Heat:            f.Location.Heat,
		},
		Roster:        participants,
		Relationships: edges,
	}
	if err := mission.Validate(brief); err != nil {
		return Fixture{}, err
	}
	if err := f.Tuning.Validate(); err != nil {
		return Fixture{}, err
	}

	fx := Fixture{
		Name:   f.Name,
		Brief:  brief,
		Tuning: *f.Tuning,
	}
	if f.Seed != nil {
		fx.Seed = *f.Seed
		fx.HasSeed = true
	}
	return fx, nil
}

func buildParticipant(c CharacterSpec) (mission.Participant, error) {
	traits := make([]mission.Trait, 0, len(c.Traits))
	for _, label := range c.Traits {
		t, ok := mission.ParseTrait(normalizeLabel(label))
		if !ok {
			return mission.Participant{}, fmt.Errorf("%w: character %s trait %q", ErrUnknownLabel, c.ID, label)
		}
		traits = append(traits, t)
	}

	traumas := make([]mission.Trauma, 0, len(c.Traumas))
	for _, spec := range c.Traumas {
		k, ok := mission.ParseTraumaKind(normalizeLabel(spec.Kind))
		if !ok {
			return mission.Participant{}, fmt.Errorf("%w: character %s trauma kind %q", ErrUnknownLabel, c.ID, spec.Kind)
		}
		traumas = append(traumas, mission.Trauma{Kind: k, Severity: spec.Severity})
	}

	return mission.Participant{
		CharacterID: c.ID,
		Name:        c.Name,
		Skills:      c.Skills,
		Gear:        c.Gear,
		Traits:      traits,
		Stress:      c.Stress,
		Fear:        c.Fear,
		Commitment:  c.Commitment,
		Traumas:     traumas,
	}, nil
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
