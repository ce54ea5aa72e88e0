package roster

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ossifrage/cadre/internal/mission"
)

const dockyardsFixture = `
name: dockyards run
mission:
  kind: sabotage
location:
  name: Harrow Dockyards
  archetype: industrial
  security: 0.6
  affluence: 0.3
  heat_sensitivity: 0.5
  heat: 0.1
characters:
  - id: alex
    name: Alex
    skills:
      stealth: 0.7
      violence: 0.6
      tech: 0.8
      charisma: 0.4
      resolve: 0.5
    gear:
      tech: 0.2
    traits: [reckless, leader]
    stress: 0.4
    fear: 0.3
    commitment: 0.7
    traumas:
      - kind: violence
        severity: 0.5
  - id: sam
    name: Sam
    skills:
      stealth: 0.8
      violence: 0.3
      tech: 0.6
      charisma: 0.7
      resolve: 0.6
    stress: 0.2
    fear: 0.1
    commitment: 0.9
relationships:
  - from: alex
    to: sam
    trust: 0.5
    loyalty: 0.6
`

func TestParse_FullFixture(t *testing.T) {
	fx, err := Parse([]byte(dockyardsFixture))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if fx.Name != "dockyards run" {
		t.Errorf("Name = %q, want %q", fx.Name, "dockyards run")
	}
	if fx.Brief.Kind != mission.KindSabotage {
		t.Errorf("Kind = %v, want %v", fx.Brief.Kind, mission.KindSabotage)
	}
	if fx.HasSeed {
		t.Error("HasSeed = true, want false when the fixture pins no seed")
	}

	loc := fx.Brief.Location
	if loc.Name != "Harrow Dockyards" || loc.Archetype != mission.ArchetypeIndustrial {
		t.Errorf("Location = %+v, want Harrow Dockyards industrial", loc)
	}
	if loc.Security != 0.6 || loc.HeatSensitivity != 0.5 || loc.Heat != 0.1 {
		t.Errorf("Location profile = %+v has wrong numbers", loc)
	}

	if len(fx.Brief.Roster) != 2 {
		t.Fatalf("roster = %d, want 2", len(fx.Brief.Roster))
	}
	alex := fx.Brief.Roster[0]
	if alex.CharacterID != "alex" || alex.Name != "Alex" {
		t.Errorf("first participant = %+v, want alex", alex)
	}
	if alex.Skills.Tech != 0.8 || alex.Gear.Tech != 0.2 || alex.Gear.Stealth != 0 {
		t.Errorf("alex ratings = skills %+v gear %+v", alex.Skills, alex.Gear)
	}
	wantTraits := []mission.Trait{mission.TraitReckless, mission.TraitLeader}
	if len(alex.Traits) != len(wantTraits) {
		t.Fatalf("alex traits = %v, want %v", alex.Traits, wantTraits)
	}
	for i, want := range wantTraits {
		if alex.Traits[i] != want {
			t.Errorf("alex traits[%d] = %v, want %v", i, alex.Traits[i], want)
		}
	}
	if len(alex.Traumas) != 1 || alex.Traumas[0].Kind != mission.TraumaViolence || alex.Traumas[0].Severity != 0.5 {
		t.Errorf("alex traumas = %v, want one violence trauma at 0.5", alex.Traumas)
	}

	if len(fx.Brief.Relationships) != 1 {
		t.Fatalf("relationships = %d, want 1", len(fx.Brief.Relationships))
	}
	edge := fx.Brief.Relationships[0]
	if edge.FromID != "alex" || edge.ToID != "sam" || edge.Trust != 0.5 || edge.Loyalty != 0.6 {
		t.Errorf("edge = %+v, want alex -> sam 0.5/0.6", edge)
	}

	if got, want := fx.Tuning.Betrayal.Base, mission.DefaultTuning().Betrayal.Base; got != want {
		t.Errorf("Tuning.Betrayal.Base = %v, want default %v", got, want)
	}
}

func TestParse_TuningOverrideMergesOntoDefaults(t *testing.T) {
	fixture := dockyardsFixture + `
tuning:
  betrayal:
    base: 0.5
`
	fx, err := Parse([]byte(fixture))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if fx.Tuning.Betrayal.Base != 0.5 {
		t.Errorf("Betrayal.Base = %v, want overridden 0.5", fx.Tuning.Betrayal.Base)
	}
	def := mission.DefaultTuning()
	if fx.Tuning.Betrayal.Cap != def.Betrayal.Cap {
		t.Errorf("Betrayal.Cap = %v, want default %v preserved", fx.Tuning.Betrayal.Cap, def.Betrayal.Cap)
	}
	if fx.Tuning.Psych != def.Psych {
		t.Errorf("Psych tuning = %+v, want untouched defaults", fx.Tuning.Psych)
	}
}

func TestParse_SeedPinned(t *testing.T) {
	fx, err := Parse([]byte(dockyardsFixture + "\nseed: 99\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !fx.HasSeed || fx.Seed != 99 {
		t.Errorf("seed = (%d, %v), want (99, true)", fx.Seed, fx.HasSeed)
	}
}

func TestParse_NormalizesLabels(t *testing.T) {
	fixture := `
mission:
  kind: " SABOTAGE"
location:
  name: Old Mill
  archetype: Residential
characters:
  - id: vera
    skills:
      stealth: 0.5
    traits: [Stoic]
    commitment: 0.5
`
	fx, err := Parse([]byte(fixture))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if fx.Brief.Kind != mission.KindSabotage {
		t.Errorf("Kind = %v, want %v", fx.Brief.Kind, mission.KindSabotage)
	}
	if fx.Brief.Location.Archetype != mission.ArchetypeResidential {
		t.Errorf("Archetype = %v, want %v", fx.Brief.Location.Archetype, mission.ArchetypeResidential)
	}
	if len(fx.Brief.Roster[0].Traits) != 1 || fx.Brief.Roster[0].Traits[0] != mission.TraitStoic {
		t.Errorf("Traits = %v, want [stoic]", fx.Brief.Roster[0].Traits)
	}
}

func TestParse_UnknownLabels(t *testing.T) {
	tests := []struct {
		name    string
		fixture string
	}{
		{
			name: "mission kind",
			fixture: `
mission:
  kind: heist
location:
  name: Vault
  archetype: commercial
characters:
  - id: a
    commitment: 0.5
`,
		},
		{
			name: "archetype",
			fixture: `
mission:
  kind: raid
location:
  name: Vault
  archetype: fortress
characters:
  - id: a
    commitment: 0.5
`,
		},
		{
			name: "trait",
			fixture: `
mission:
  kind: raid
location:
  name: Vault
  archetype: commercial
characters:
  - id: a
    traits: [brave]
    commitment: 0.5
`,
		},
		{
			name: "trauma kind",
			fixture: `
mission:
  kind: raid
location:
  name: Vault
  archetype: commercial
characters:
  - id: a
    commitment: 0.5
    traumas:
      - kind: dread
        severity: 0.5
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.fixture))
			if !errors.Is(err, ErrUnknownLabel) {
				t.Errorf("Parse() error = %v, want ErrUnknownLabel", err)
			}
		})
	}
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte(dockyardsFixture + "\nunexpected: 1\n"))
	if err == nil {
		t.Fatal("Parse() accepted a fixture with an unknown key")
	}
}

func TestParse_RejectsInvalidBrief(t *testing.T) {
	fixture := `
mission:
  kind: sabotage
location:
  name: Old Mill
  archetype: residential
characters:
  - id: vera
    stress: 2.0
    commitment: 0.5
`
	_, err := Parse([]byte(fixture))
	if !errors.Is(err, mission.ErrInvalidParticipant) {
		t.Errorf("Parse() error = %v, want ErrInvalidParticipant", err)
	}
}

func TestParse_RejectsInvalidTuningOverride(t *testing.T) {
	_, err := Parse([]byte(dockyardsFixture + `
tuning:
  betrayal:
    base: 2.0
`))
	if !errors.Is(err, mission.ErrInvalidTuning) {
		t.Errorf("Parse() error = %v, want ErrInvalidTuning", err)
	}
}

func TestParse_RejectsEmptyInput(t *testing.T) {
	if _, err := Parse(nil); err == nil {
		t.Fatal("Parse() accepted empty input")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dockyards.yaml")
	if err := os.WriteFile(path, []byte(dockyardsFixture), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	fx, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if fx.Brief.Location.Name != "Harrow Dockyards" {
		t.Errorf("Location.Name = %q, want %q", fx.Brief.Location.Name, "Harrow Dockyards")
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load() succeeded on a missing file")
	}
}
