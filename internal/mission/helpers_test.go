package mission

import "math"

// almostEqual compares floats with a tolerance fit for accumulated
// arithmetic, not for values derived from the per-mille progress ledger
// (those are exact).
func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// calmParticipant returns a steady, committed operative.
func calmParticipant(id string) Participant {
	return Participant{
		CharacterID: id,
		Name:        id,
		Skills:      SkillRatings{Stealth: 0.95, Violence: 0.95, Tech: 0.95, Charisma: 0.95, Resolve: 0.95},
		Gear:        SkillRatings{Stealth: 0.05, Violence: 0.05, Tech: 0.05, Charisma: 0.05, Resolve: 0.05},
		Stress:      0,
		Fear:        0,
		Commitment:  0.9,
	}
}

// quietLocation returns a soft target with no security presence.
func quietLocation() LocationProfile {
	return LocationProfile{
		Name:            "Old Granary",
		Security:        0,
		Archetype:       ArchetypeResidential,
		Affluence:       0.2,
		HeatSensitivity: 0.5,
		Heat:            0,
	}
}

// quietTuning disables the stochastic hazards so a resolution is fully
// determined by skill margins.
func quietTuning() Tuning {
	tun := DefaultTuning()
	tun.Betrayal.Base = 0
	tun.Complication.Base = 0
	return tun
}
