package mission

import "testing"

// A full run of successes must land on exactly 1000 per mille, so every
// profile's weights have to sum to exactly that.
func TestKindProfiles_WeightsSumToFullProgress(t *testing.T) {
	for kind, profile := range kindProfiles {
		sum := 0
		for _, w := range profile.weightsPM {
			sum += w
		}
		if sum != 1000 {
			t.Errorf("%s weights sum to %d, want 1000", kind, sum)
		}
	}
}

func TestKindProfiles_CoverEveryPhase(t *testing.T) {
	for kind, profile := range kindProfiles {
		for _, phase := range Phases() {
			i := phaseIndex(phase)
			if i < 0 || i >= len(profile.tasks) {
				t.Fatalf("%s: phase %s maps to slot %d", kind, phase, i)
			}
			if profile.tasks[i] == "" {
				t.Errorf("%s: phase %s has no task label", kind, phase)
			}
			if profile.weightsPM[i] <= 0 {
				t.Errorf("%s: phase %s has weight %d, want positive", kind, phase, profile.weightsPM[i])
			}
		}
	}
}

func TestTaskFor(t *testing.T) {
	tests := []struct {
		kind      Kind
		phase     Phase
		wantTask  string
		wantSkill Skill
	}{
		{KindSabotage, PhaseExecution, "plant_charges", SkillTech},
		{KindRaid, PhaseExtraction, "fight_clear", SkillViolence},
		{KindPropaganda, PhasePlanning, "canvass", SkillCharisma},
		{KindRescue, PhaseExtraction, "exfiltrate", SkillResolve},
		{KindSurveillance, PhaseAftermath, "lay_low", SkillResolve},
	}

	for _, tt := range tests {
		task, skill := taskFor(tt.kind, tt.phase)
		if task != tt.wantTask || skill != tt.wantSkill {
			t.Errorf("taskFor(%s, %s) = (%q, %s), want (%q, %s)",
				tt.kind, tt.phase, task, skill, tt.wantTask, tt.wantSkill)
		}
	}
}

func TestTaskDifficulty(t *testing.T) {
	tests := []struct {
		name  string
		kind  Kind
		phase Phase
		loc   LocationProfile
		want  float64
	}{
		{
			name:  "soft residential target",
			kind:  KindSabotage,
			phase: PhaseExecution,
			loc:   LocationProfile{Security: 0, Archetype: ArchetypeResidential},
			want:  0.47,
		},
		{
			name:  "security shifts difficulty up",
			kind:  KindSabotage,
			phase: PhaseExecution,
			loc:   LocationProfile{Security: 0.6, Archetype: ArchetypeIndustrial},
			want:  0.67,
		},
		{
			name:  "military sites are hardest",
			kind:  KindRescue,
			phase: PhaseExecution,
			loc:   LocationProfile{Security: 1, Archetype: ArchetypeMilitary},
			want:  0.95,
		},
		{
			name:  "government target during planning",
			kind:  KindPropaganda,
			phase: PhasePlanning,
			loc:   LocationProfile{Security: 0.4, Archetype: ArchetypeGovernment},
			want:  0.40,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := taskDifficulty(tt.kind, tt.phase, tt.loc)
			if !almostEqual(got, tt.want) {
				t.Errorf("taskDifficulty(%s, %s) = %v, want %v", tt.kind, tt.phase, got, tt.want)
			}
		})
	}
}
