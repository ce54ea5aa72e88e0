package mission

import "github.com/ossifrage/cadre/internal/core/prob"

// Trauma severities inflicted by mission events.
const (
	traumaInjurySeverity   = 0.4
	traumaBetrayalSeverity = 0.5
	traumaLossSeverity     = 0.6
	traumaCaptureSeverity  = 0.7
)

// Post-mission stress adjustments.
const (
	stressReliefSuccess = 0.05
	stressCostCollapse  = 0.10
	stressCostCapture   = 0.20
)

// Shared-fate relationship adjustments.
const (
	bondTrustGain       = 0.05
	bondLoyaltyGain     = 0.02
	betrayedTrustLoss   = -0.60
	betrayedLoyaltyLoss = -0.40
)

// buildDeltas enumerates the persistent changes a resolution proposes. The
// engine computes them; applying them atomically is the caller's job.
func buildDeltas(st *missionState, outcome Outcome) StateDeltas {
	successClass := outcome == OutcomeCriticalSuccess || outcome == OutcomeSuccess
	collapse := outcome == OutcomeAborted || outcome == OutcomeDisaster

	var betrayerID string
	anyDeath := false
	for _, ps := range st.parts {
		if ps.betrayed && betrayerID == "" {
			betrayerID = ps.p.CharacterID
		}
		if ps.dead {
			anyDeath = true
		}
	}

	agents := make([]AgentDelta, 0, len(st.parts))
	for _, ps := range st.parts {
		d := AgentDelta{
			CharacterID:   ps.p.CharacterID,
			Injured:       ps.injured,
			Captured:      ps.captured,
			Dead:          ps.dead,
			TraumaGained:  []Trauma{},
			Relationships: []RelationshipDelta{},
		}

		stress := ps.p.Stress - ps.entryStress
		if successClass {
			stress -= stressReliefSuccess
		}
		if collapse && !ps.dead {
			stress += stressCostCollapse
		}
		if ps.captured {
			stress += stressCostCapture
		}
		d.StressDelta = prob.Clamp(stress, -1, 1)

		if ps.injured && !ps.dead {
			d.TraumaGained = append(d.TraumaGained, Trauma{Kind: TraumaViolence, Severity: traumaInjurySeverity})
		}
		if ps.captured {
			d.TraumaGained = append(d.TraumaGained, Trauma{Kind: TraumaCapture, Severity: traumaCaptureSeverity})
		}
		if !ps.dead && !ps.betrayed {
			if betrayerID != "" {
				d.TraumaGained = append(d.TraumaGained, Trauma{Kind: TraumaBetrayal, Severity: traumaBetrayalSeverity})
				d.Relationships = append(d.Relationships, RelationshipDelta{
					TowardID:     betrayerID,
					TrustDelta:   betrayedTrustLoss,
					LoyaltyDelta: betrayedLoyaltyLoss,
				})
			}
			if anyDeath {
				d.TraumaGained = append(d.TraumaGained, Trauma{Kind: TraumaLoss, Severity: traumaLossSeverity})
			}
		}

		if successClass && ps.active() {
			for _, other := range st.parts {
				if other == ps || !other.active() {
					continue
				}
				d.Relationships = append(d.Relationships, RelationshipDelta{
					TowardID:     other.p.CharacterID,
					TrustDelta:   bondTrustGain,
					LoyaltyDelta: bondLoyaltyGain,
				})
			}
		}

		agents = append(agents, d)
	}

	// Opinion mirrors the report so downstream consumers can apply either.
	_, opinion := propagandaScores(st, outcome)

	return StateDeltas{
		Agents: agents,
		Location: LocationDelta{
			HeatDelta:    st.heat,
			OpinionDelta: opinion,
		},
	}
}
