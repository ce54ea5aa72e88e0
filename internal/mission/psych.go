package mission

import (
	"fmt"

	"github.com/ossifrage/cadre/internal/core/prob"
)

// pressure is the intrinsic tension of a phase. It feeds flashback chances
// during resolution and stress exposure in the state deltas.
func (p Phase) pressure() float64 {
	switch p {
	case PhasePlanning:
		return 0.1
	case PhaseInfiltration:
		return 0.5
	case PhaseExecution:
		return 0.9
	case PhaseExtraction:
		return 0.7
	case PhaseAftermath:
		return 0.2
	default:
		return 0
	}
}

// PsychModifiers is the bundle of adjustments a participant's psychological
// state imposes on a phase. The integrator computes chances; the resolver
// owns every draw.
type PsychModifiers struct {
	// Performance multiplies effective skill. Above 1.0 means the
	// participant is running hot on conviction.
	Performance float64
	// Risk is this participant's contribution to the team risk profile
	// consumed by complication generation.
	Risk float64
	// FlashbackChance is the probability the participant freezes for the
	// phase. Zero when no unresolved trauma is carried.
	FlashbackChance float64
	// PanicChance is the probability a failed action tips into panic.
	PanicChance float64
	// ChanceShift adjusts action success chance for temperament; reckless
	// participants push harder in the execution phase and slip during
	// patient work.
	ChanceShift float64
}

// ComputeModifiers derives the psychological modifiers for one participant in
// one phase. Same inputs always produce the same modifiers; out-of-range
// psychological state is an internal fault, never defaulted.
func ComputeModifiers(p Participant, phase Phase, tun PsychTuning) (PsychModifiers, error) {
	if !isUnit(p.Stress) || !isUnit(p.Fear) || !isUnit(p.Commitment) {
		return PsychModifiers{}, fmt.Errorf("%w: participant %s psych state out of range (stress=%v fear=%v commitment=%v)",
			ErrInternal, p.CharacterID, p.Stress, p.Fear, p.Commitment)
	}

	perf := 1.0
	if p.Stress > tun.StressSoftCap {
		perf -= tun.StressWeight * (p.Stress - tun.StressSoftCap)
	}
	if p.Fear > tun.FearSoftCap {
		perf -= tun.FearWeight * (p.Fear - tun.FearSoftCap)
	}
	perf += tun.CommitmentWeight * p.Commitment

	floor := tun.PerformanceFloor
	if hasTrait(p, TraitMethodical) && tun.MethodicalFloor > floor {
		floor = tun.MethodicalFloor
	}
	perf = prob.Clamp(perf, floor, tun.PerformanceCeil)

	risk := tun.RiskFearWeight*p.Fear + tun.RiskStressWeight*p.Stress
	if hasTrait(p, TraitReckless) {
		risk += tun.RecklessRisk
	}
	risk = prob.Clamp01(risk)

	maxSeverity := 0.0
	for _, tr := range p.Traumas {
		if !isUnit(tr.Severity) {
			return PsychModifiers{}, fmt.Errorf("%w: participant %s trauma severity out of range: %v",
				ErrInternal, p.CharacterID, tr.Severity)
		}
		if tr.Severity > maxSeverity {
			maxSeverity = tr.Severity
		}
	}
	flashback := prob.Clamp(maxSeverity*(p.Stress+phase.pressure())*tun.FlashbackWeight, 0, tun.FlashbackCap)

	panicChance := prob.Clamp01(tun.PanicFearWeight*p.Fear + tun.PanicStressWeight*p.Stress - tun.PanicCommitmentRelief*p.Commitment)
	if hasTrait(p, TraitStoic) {
		panicChance *= tun.StoicPanicFactor
	}

	shift := 0.0
	if hasTrait(p, TraitReckless) {
		switch phase {
		case PhaseExecution:
			shift = tun.RecklessEdge
		case PhaseInfiltration, PhaseAftermath:
			shift = -tun.RecklessEdge
		}
	}

	return PsychModifiers{
		Performance:     perf,
		Risk:            risk,
		FlashbackChance: flashback,
		PanicChance:     panicChance,
		ChanceShift:     shift,
	}, nil
}

func hasTrait(p Participant, t Trait) bool {
	for _, have := range p.Traits {
		if have == t {
			return true
		}
	}
	return false
}
