package mission

import (
	"fmt"

	"github.com/ossifrage/cadre/internal/core/prob"
)

// Explain step codes for the betrayal probability breakdown.
const (
	StepBaseRate      = "BASE_RATE"
	StepTrustDeficit  = "TRUST_DEFICIT"
	StepLowCommitment = "LOW_COMMITMENT"
	StepHighFear      = "HIGH_FEAR"
	StepHighStress    = "HIGH_STRESS"
	StepClamp         = "CLAMP"
)

// ProbabilityStep is one component of an explained probability.
type ProbabilityStep struct {
	Code    string  `json:"code"`
	Applied bool    `json:"applied"`
	Weight  float64 `json:"weight"`
	Message string  `json:"message"`
}

// BetrayalExplain is the step-by-step breakdown of one participant's
// betrayal probability.
type BetrayalExplain struct {
	CharacterID string            `json:"character_id"`
	MinTrust    float64           `json:"min_trust"`
	Probability float64           `json:"probability"`
	Steps       []ProbabilityStep `json:"steps"`
}

// BetrayalProbability computes the per-phase betrayal probability for a
// participant. The model is additive over independent pressures and clamped
// to [0, cap]; one uniform draw against the result decides the trigger.
func BetrayalProbability(p Participant, minTrust float64, tun BetrayalTuning) float64 {
	total := 0.0
	for _, c := range betrayalComponents(p, minTrust, tun) {
		if c.Applied {
			total += c.Weight
		}
	}
	return prob.Clamp(total, 0, tun.Cap)
}

// ExplainBetrayal breaks down the betrayal probability for one roster member
// of a brief. The steps appear in evaluation order; the CLAMP step reports
// any correction applied to keep the total inside [0, cap].
func ExplainBetrayal(b Brief, characterID string, tun Tuning) (BetrayalExplain, error) {
	var target *Participant
	for i := range b.Roster {
		if b.Roster[i].CharacterID == characterID {
			target = &b.Roster[i]
			break
		}
	}
	if target == nil {
		return BetrayalExplain{}, fmt.Errorf("%w: %q", ErrUnknownCharacter, characterID)
	}

	minTrust := minTrustToTeammates(b, characterID)
	steps := betrayalComponents(*target, minTrust, tun.Betrayal)

	raw := 0.0
	for _, s := range steps {
		if s.Applied {
			raw += s.Weight
		}
	}
	clamped := prob.Clamp(raw, 0, tun.Betrayal.Cap)
	steps = append(steps, ProbabilityStep{
		Code:    StepClamp,
		Applied: clamped != raw,
		Weight:  clamped - raw,
		Message: fmt.Sprintf("probability clamped to [0, %.2f]", tun.Betrayal.Cap),
	})

	return BetrayalExplain{
		CharacterID: characterID,
		MinTrust:    minTrust,
		Probability: clamped,
		Steps:       steps,
	}, nil
}

func betrayalComponents(p Participant, minTrust float64, tun BetrayalTuning) []ProbabilityStep {
	return []ProbabilityStep{
		{
			Code:    StepBaseRate,
			Applied: true,
			Weight:  tun.Base,
			Message: fmt.Sprintf("base rate %.2f", tun.Base),
		},
		{
			Code:    StepTrustDeficit,
			Applied: minTrust < tun.TrustThreshold,
			Weight:  tun.TrustWeight,
			Message: fmt.Sprintf("minimum trust toward a teammate %.2f vs threshold %.2f", minTrust, tun.TrustThreshold),
		},
		{
			Code:    StepLowCommitment,
			Applied: p.Commitment < tun.CommitmentThreshold,
			Weight:  tun.CommitmentWeight,
			Message: fmt.Sprintf("ideological commitment %.2f vs threshold %.2f", p.Commitment, tun.CommitmentThreshold),
		},
		{
			Code:    StepHighFear,
			Applied: p.Fear > tun.FearThreshold,
			Weight:  tun.FearWeight,
			Message: fmt.Sprintf("fear %.2f vs threshold %.2f", p.Fear, tun.FearThreshold),
		},
		{
			Code:    StepHighStress,
			Applied: p.Stress > tun.StressThreshold,
			Weight:  tun.StressWeight,
			Message: fmt.Sprintf("stress %.2f vs threshold %.2f", p.Stress, tun.StressThreshold),
		},
	}
}

// minTrustToTeammates returns the lowest trust on edges from a character to
// any other roster member. A character with no outgoing edges toward the
// roster is treated as neutral.
func minTrustToTeammates(b Brief, characterID string) float64 {
	onRoster := make(map[string]bool, len(b.Roster))
	for _, p := range b.Roster {
		onRoster[p.CharacterID] = true
	}

	found := false
	min := 0.0
	for _, edge := range b.Relationships {
		if edge.FromID != characterID || edge.ToID == characterID || !onRoster[edge.ToID] {
			continue
		}
		if !found || edge.Trust < min {
			min = edge.Trust
			found = true
		}
	}
	return min
}
