package mission

import "github.com/ossifrage/cadre/internal/core/prob"

// complicationKinds is the closed vocabulary of complication tags. Kind is
// flavor for the prose renderer; severity and effect carry the mechanics.
var complicationKinds = []Tag{
	TagPatrolEncounter,
	TagSilentAlarm,
	TagInformantTip,
	TagEquipmentFailure,
	TagCivilianWitness,
	TagCheckpoint,
	TagReinforcements,
}

// severityProfile fixes the mechanical payload of each severity tier.
var severityProfiles = map[Severity]struct {
	effect          Effect
	progressPenalty float64
	heatDelta       float64
}{
	SeverityMinor:        {effect: EffectDelay, progressPenalty: 0.02, heatDelta: 0.02},
	SeverityModerate:     {effect: EffectHeat, progressPenalty: 0.04, heatDelta: 0.05},
	SeveritySevere:       {effect: EffectInjury, progressPenalty: 0.06, heatDelta: 0.10},
	SeverityCatastrophic: {effect: EffectInjury, progressPenalty: 0.08, heatDelta: 0.20},
}

// generateComplications draws the adverse events for one phase.
//
// One check runs per phase plus one more per exposure failure, each an
// independent draw against a chance assembled from location security,
// accumulated heat, and the team's risk profile. The severity ceiling starts
// one tier above minor per prior failure and rises again with each drawn
// complication, so a phase that keeps going wrong trends toward catastrophe.
//
// Draw order per check: occurrence, then severity score, then kind, then the
// forced-abort draw for catastrophic results only.
func generateComplications(loc LocationProfile, failures int, heat, teamRisk float64, tun ComplicationTuning, src prob.Source) []Complication {
	chance := prob.Clamp01(tun.Base +
		tun.SecurityWeight*loc.Security +
		tun.HeatWeight*prob.Clamp01(heat) +
		tun.RiskWeight*teamRisk)

	checks := 1 + failures
	drawn := make([]Complication, 0, checks)

	for i := 0; i < checks; i++ {
		if !prob.Chance(src, chance) {
			continue
		}

		ceiling := SeverityMinor + Severity(failures+len(drawn))
		if ceiling > SeverityCatastrophic {
			ceiling = SeverityCatastrophic
		}

		severity := drawSeverity(src, loc.Security, tun.SecuritySeverityWeight, ceiling)
		kind := complicationKinds[src.Intn(len(complicationKinds))]
		profile := severityProfiles[severity]

		c := Complication{
			Severity:        severity,
			Kind:            kind,
			Effect:          profile.effect,
			ProgressPenalty: profile.progressPenalty,
			HeatDelta:       profile.heatDelta,
		}
		if severity == SeverityCatastrophic && prob.Chance(src, tun.CatastropheAbortChance) {
			c.Effect = EffectForcedAbort
			c.ForcesAbort = true
		}
		drawn = append(drawn, c)
	}
	return drawn
}

// drawSeverity maps a security-shifted uniform draw onto the tiers
// [minor, ceiling]. Holding the ceiling fixed, higher security shifts the
// score distribution upward, so mean drawn severity never decreases as
// security rises.
func drawSeverity(src prob.Source, security, securityWeight float64, ceiling Severity) Severity {
	score := (1-securityWeight)*src.Float64() + securityWeight*security
	tiers := int(ceiling) - int(SeverityMinor) + 1
	idx := int(score * float64(tiers))
	if idx >= tiers {
		idx = tiers - 1
	}
	return SeverityMinor + Severity(idx)
}
