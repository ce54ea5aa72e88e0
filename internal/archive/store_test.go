package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ossifrage/cadre/internal/mission"
)

func testBrief() mission.Brief {
	return mission.Brief{
		Kind: mission.KindSabotage,
		Location: mission.LocationProfile{
			Name:            "Granary Annex",
			Security:        0.3,
			Archetype:       mission.ArchetypeIndustrial,
			Affluence:       0.4,
			HeatSensitivity: 0.5,
		},
		Roster: []mission.Participant{
			{
				CharacterID: "vera",
				Name:        "Vera",
				Skills:      mission.SkillRatings{Stealth: 0.8, Violence: 0.5, Tech: 0.9, Charisma: 0.6, Resolve: 0.7},
				Stress:      0.2,
				Fear:        0.1,
				Commitment:  0.9,
			},
			{
				CharacterID: "milo",
				Name:        "Milo",
				Skills:      mission.SkillRatings{Stealth: 0.6, Violence: 0.7, Tech: 0.5, Charisma: 0.4, Resolve: 0.8},
				Traits:      []mission.Trait{mission.TraitLeader},
				Stress:      0.3,
				Fear:        0.2,
				Commitment:  0.8,
			},
		},
		Relationships: []mission.RelationshipEdge{
			{FromID: "vera", ToID: "milo", Trust: 0.6, Loyalty: 0.7},
		},
	}
}

func testResolution(t *testing.T, id string, seed int64, createdAt time.Time) Resolution {
	t.Helper()
	brief := testBrief()
	report, deltas, err := mission.Execute(brief, seed, mission.DefaultTuning())
	if err != nil {
		t.Fatalf("execute mission: %v", err)
	}
	return Resolution{
		ID:          id,
		FixtureName: "dockside run",
		Brief:       brief,
		Report:      report,
		Deltas:      deltas,
		CreatedAt:   createdAt,
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := store.Close(); closeErr != nil {
			t.Fatalf("close store: %v", closeErr)
		}
	})
	return store
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestSaveAndGetResolution(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	createdAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	res := testResolution(t, "res-1", 41, createdAt)

	if err := store.SaveResolution(context.Background(), res); err != nil {
		t.Fatalf("save resolution: %v", err)
	}

	got, err := store.GetResolution(context.Background(), "res-1")
	if err != nil {
		t.Fatalf("get resolution: %v", err)
	}
	if got.ID != "res-1" || got.FixtureName != "dockside run" {
		t.Errorf("identity = (%q, %q), want (res-1, dockside run)", got.ID, got.FixtureName)
	}
	if !got.CreatedAt.Equal(createdAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, createdAt)
	}
	if !bytes.Equal(mustJSON(t, got.Brief), mustJSON(t, res.Brief)) {
		t.Error("archived brief does not round-trip")
	}
	if !bytes.Equal(mustJSON(t, got.Report), mustJSON(t, res.Report)) {
		t.Error("archived report does not round-trip")
	}
	if !bytes.Equal(mustJSON(t, got.Deltas), mustJSON(t, res.Deltas)) {
		t.Error("archived deltas do not round-trip")
	}

	// The archived brief and seed must reproduce the archived report.
	replay, _, err := mission.Execute(got.Brief, got.Report.Seed, mission.DefaultTuning())
	if err != nil {
		t.Fatalf("replay archived resolution: %v", err)
	}
	if !bytes.Equal(mustJSON(t, replay), mustJSON(t, got.Report)) {
		t.Error("replay from archived brief and seed diverges from archived report")
	}
}

func TestSaveResolutionConflict(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	createdAt := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	res := testResolution(t, "res-dup", 7, createdAt)

	if err := store.SaveResolution(context.Background(), res); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.SaveResolution(context.Background(), res); !errors.Is(err, ErrConflict) {
		t.Errorf("second save error = %v, want ErrConflict", err)
	}
}

func TestGetResolutionMissing(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if _, err := store.GetResolution(context.Background(), "res-missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get error = %v, want ErrNotFound", err)
	}
}

func TestListResolutionsNewestFirst(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	base := time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC)
	saved := map[string]Resolution{}
	for i, id := range []string{"res-a", "res-b", "res-c"} {
		res := testResolution(t, id, int64(100+i), base.Add(time.Duration(i)*time.Minute))
		if err := store.SaveResolution(context.Background(), res); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
		saved[id] = res
	}

	got, err := store.ListResolutions(context.Background(), 2)
	if err != nil {
		t.Fatalf("list resolutions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("list size = %d, want 2", len(got))
	}
	if got[0].ID != "res-c" || got[1].ID != "res-b" {
		t.Fatalf("list order = [%s, %s], want [res-c, res-b]", got[0].ID, got[1].ID)
	}

	want := saved["res-c"]
	if got[0].Kind != want.Brief.Kind {
		t.Errorf("Kind = %v, want %v", got[0].Kind, want.Brief.Kind)
	}
	if got[0].Location != want.Brief.Location.Name {
		t.Errorf("Location = %q, want %q", got[0].Location, want.Brief.Location.Name)
	}
	if got[0].Outcome != want.Report.Outcome {
		t.Errorf("Outcome = %v, want %v", got[0].Outcome, want.Report.Outcome)
	}
	if got[0].Progress != want.Report.Progress {
		t.Errorf("Progress = %v, want %v", got[0].Progress, want.Report.Progress)
	}
	if got[0].Seed != want.Report.Seed {
		t.Errorf("Seed = %d, want %d", got[0].Seed, want.Report.Seed)
	}
	if !got[0].CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got[0].CreatedAt, want.CreatedAt)
	}
}

func TestSaveResolutionRejectsIncompleteRecords(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	createdAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	valid := testResolution(t, "res-ok", 5, createdAt)

	tests := []struct {
		name   string
		mutate func(r *Resolution)
	}{
		{"missing id", func(r *Resolution) { r.ID = "  " }},
		{"unclassified outcome", func(r *Resolution) { r.Report.Outcome = mission.OutcomeUnspecified }},
		{"missing created_at", func(r *Resolution) { r.CreatedAt = time.Time{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := valid
			tt.mutate(&res)
			if err := store.SaveResolution(context.Background(), res); err == nil {
				t.Error("save accepted an incomplete resolution")
			}
		})
	}
}

func TestReopenKeepsArchive(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "archive.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	createdAt := time.Date(2026, 3, 14, 13, 0, 0, 0, time.UTC)
	res := testResolution(t, "res-durable", 23, createdAt)
	if err := store.SaveResolution(context.Background(), res); err != nil {
		t.Fatalf("save resolution: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer func() {
		if closeErr := reopened.Close(); closeErr != nil {
			t.Fatalf("close reopened store: %v", closeErr)
		}
	}()

	got, err := reopened.GetResolution(context.Background(), "res-durable")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if !bytes.Equal(mustJSON(t, got.Report), mustJSON(t, res.Report)) {
		t.Error("archived report changed across reopen")
	}
}
