package mission

import (
	"testing"

	"github.com/ossifrage/cadre/internal/core/prob"
)

func TestGenerateComplications_ConsumesOneDrawPerCheck(t *testing.T) {
	tun := DefaultTuning().Complication
	tun.Base = 0
	loc := LocationProfile{Name: "Quiet Row", Security: 0, Archetype: ArchetypeResidential}

	src := prob.Script(0.5, 0.5, 0.5)
	got := generateComplications(loc, 2, 0, 0, tun, src)

	if len(got) != 0 {
		t.Fatalf("complications = %d, want 0", len(got))
	}
	if rem := src.Remaining(); rem != 0 {
		t.Errorf("remaining draws = %d, want 0 (one occurrence draw per check)", rem)
	}
}

func TestGenerateComplications_CleanPhaseDrawsMinor(t *testing.T) {
	tun := DefaultTuning().Complication
	loc := LocationProfile{Name: "Quiet Row", Security: 0, Archetype: ArchetypeResidential}

	// occurrence, severity, kind. No failures, so the ceiling stays minor.
	src := prob.Script(0.0, 0.5, 0.0)
	got := generateComplications(loc, 0, 0, 0, tun, src)

	if len(got) != 1 {
		t.Fatalf("complications = %d, want 1", len(got))
	}
	c := got[0]
	if c.Severity != SeverityMinor {
		t.Errorf("Severity = %v, want %v", c.Severity, SeverityMinor)
	}
	if c.Kind != TagPatrolEncounter {
		t.Errorf("Kind = %q, want %q", c.Kind, TagPatrolEncounter)
	}
	if c.Effect != EffectDelay {
		t.Errorf("Effect = %v, want %v", c.Effect, EffectDelay)
	}
	if !almostEqual(c.ProgressPenalty, 0.02) || !almostEqual(c.HeatDelta, 0.02) {
		t.Errorf("penalties = (%v, %v), want (0.02, 0.02)", c.ProgressPenalty, c.HeatDelta)
	}
	if c.ForcesAbort {
		t.Error("ForcesAbort = true, want false for a minor complication")
	}
	if rem := src.Remaining(); rem != 0 {
		t.Errorf("remaining draws = %d, want 0", rem)
	}
}

func TestGenerateComplications_CeilingRisesWithFailuresAndDraws(t *testing.T) {
	tun := DefaultTuning().Complication
	loc := LocationProfile{Name: "Dockyards", Security: 1, Archetype: ArchetypeIndustrial}

	// Two failures raise the first ceiling to severe; the drawn complication
	// raises the second to catastrophic. Third check misses.
	src := prob.Script(
		0.0, 0.99, 0.99, // hit, severe, reinforcements
		0.0, 0.99, 0.0, 0.99, // hit, catastrophic, patrol, abort draw misses
		0.99, // miss
	)
	got := generateComplications(loc, 2, 0, 0, tun, src)

	if len(got) != 2 {
		t.Fatalf("complications = %d, want 2", len(got))
	}
	if got[0].Severity != SeveritySevere {
		t.Errorf("first Severity = %v, want %v", got[0].Severity, SeveritySevere)
	}
	if got[0].Kind != TagReinforcements {
		t.Errorf("first Kind = %q, want %q", got[0].Kind, TagReinforcements)
	}
	if got[0].Effect != EffectInjury {
		t.Errorf("first Effect = %v, want %v", got[0].Effect, EffectInjury)
	}
	if got[1].Severity != SeverityCatastrophic {
		t.Errorf("second Severity = %v, want %v", got[1].Severity, SeverityCatastrophic)
	}
	if got[1].ForcesAbort {
		t.Error("second ForcesAbort = true, want false when the abort draw misses")
	}
	if got[1].Effect != EffectInjury {
		t.Errorf("second Effect = %v, want %v", got[1].Effect, EffectInjury)
	}
	if rem := src.Remaining(); rem != 0 {
		t.Errorf("remaining draws = %d, want 0", rem)
	}
}

func TestGenerateComplications_CatastropheCanForceAbort(t *testing.T) {
	tun := DefaultTuning().Complication
	loc := LocationProfile{Name: "Dockyards", Security: 1, Archetype: ArchetypeIndustrial}

	src := prob.Script(
		0.0, 0.99, 0.3, 0.3, // hit, catastrophic, informant tip, abort draw hits
		0.99, 0.99, 0.99, // remaining checks miss
	)
	got := generateComplications(loc, 3, 0, 0, tun, src)

	if len(got) != 1 {
		t.Fatalf("complications = %d, want 1", len(got))
	}
	c := got[0]
	if c.Severity != SeverityCatastrophic {
		t.Errorf("Severity = %v, want %v", c.Severity, SeverityCatastrophic)
	}
	if c.Kind != TagInformantTip {
		t.Errorf("Kind = %q, want %q", c.Kind, TagInformantTip)
	}
	if !c.ForcesAbort {
		t.Error("ForcesAbort = false, want true")
	}
	if c.Effect != EffectForcedAbort {
		t.Errorf("Effect = %v, want %v", c.Effect, EffectForcedAbort)
	}
	if rem := src.Remaining(); rem != 0 {
		t.Errorf("remaining draws = %d, want 0", rem)
	}
}

func TestDrawSeverity(t *testing.T) {
	tests := []struct {
		name     string
		draw     float64
		security float64
		ceiling  Severity
		want     Severity
	}{
		{name: "low draw low security", draw: 0.0, security: 0, ceiling: SeverityCatastrophic, want: SeverityMinor},
		{name: "high draw low security", draw: 0.999, security: 0, ceiling: SeverityCatastrophic, want: SeveritySevere},
		{name: "high draw high security", draw: 0.999, security: 1, ceiling: SeverityCatastrophic, want: SeverityCatastrophic},
		{name: "ceiling pins the tier", draw: 0.999, security: 1, ceiling: SeverityMinor, want: SeverityMinor},
		{name: "moderate ceiling splits the range", draw: 0.6, security: 0, ceiling: SeverityModerate, want: SeverityMinor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := prob.Script(tt.draw)
			got := drawSeverity(src, tt.security, DefaultTuning().Complication.SecuritySeverityWeight, tt.ceiling)
			if got != tt.want {
				t.Errorf("drawSeverity() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Severity should trend upward with location security when everything else is
// held fixed. The severity score adds a fixed security term to the uniform
// draw, so the tier distribution at higher security dominates the one below;
// with thousands of draws per level the sample means sort accordingly.
func TestGenerateComplications_SeverityTrendsWithSecurity(t *testing.T) {
	tun := DefaultTuning().Complication
	tun.Base = 1 // every check fires

	securities := []float64{0.1, 0.4, 0.7, 0.95}
	means := make([]float64, len(securities))

	for i, sec := range securities {
		loc := LocationProfile{Name: "Test Ward", Security: sec, Archetype: ArchetypeGovernment}
		src := prob.NewSource(99)

		var sum, count float64
		for trial := 0; trial < 1000; trial++ {
			for _, c := range generateComplications(loc, 3, 0.5, 0.5, tun, src) {
				sum += float64(c.Severity)
				count++
			}
		}
		if count == 0 {
			t.Fatalf("security %v produced no complications", sec)
		}
		means[i] = sum / count
	}

	for i := 1; i < len(means); i++ {
		if means[i] < means[i-1] {
			t.Errorf("mean severity dropped from %v to %v as security rose from %v to %v",
				means[i-1], means[i], securities[i-1], securities[i])
		}
	}
	if means[len(means)-1] <= means[0] {
		t.Errorf("mean severity %v at security %v not above %v at security %v",
			means[len(means)-1], securities[len(securities)-1], means[0], securities[0])
	}
}
