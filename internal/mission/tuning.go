package mission

import (
	"fmt"
	"math"
)

// Tuning collects every adjustable constant in the resolution model. Defaults
// are the starting balance, not interop surface; fixtures may override any
// field. Zero values are legal knob positions, so overrides decode onto a
// DefaultTuning copy rather than a zero struct.
type Tuning struct {
	Betrayal     BetrayalTuning     `yaml:"betrayal"`
	Psych        PsychTuning        `yaml:"psych"`
	Complication ComplicationTuning `yaml:"complication"`
	Classify     ClassifyTuning     `yaml:"classify"`
	Propaganda   PropagandaTuning   `yaml:"propaganda"`
}

// BetrayalTuning parameterizes the additive betrayal probability model.
type BetrayalTuning struct {
	Base                float64 `yaml:"base"`
	Cap                 float64 `yaml:"cap"`
	TrustThreshold      float64 `yaml:"trust_threshold"`
	TrustWeight         float64 `yaml:"trust_weight"`
	CommitmentThreshold float64 `yaml:"commitment_threshold"`
	CommitmentWeight    float64 `yaml:"commitment_weight"`
	FearThreshold       float64 `yaml:"fear_threshold"`
	FearWeight          float64 `yaml:"fear_weight"`
	StressThreshold     float64 `yaml:"stress_threshold"`
	StressWeight        float64 `yaml:"stress_weight"`
}

// PsychTuning parameterizes the psychological modifier model.
type PsychTuning struct {
	StressSoftCap    float64 `yaml:"stress_soft_cap"`
	StressWeight     float64 `yaml:"stress_weight"`
	FearSoftCap      float64 `yaml:"fear_soft_cap"`
	FearWeight       float64 `yaml:"fear_weight"`
	CommitmentWeight float64 `yaml:"commitment_weight"`
	PerformanceFloor float64 `yaml:"performance_floor"`
	PerformanceCeil  float64 `yaml:"performance_ceil"`
	MethodicalFloor  float64 `yaml:"methodical_floor"`
	RecklessEdge     float64 `yaml:"reckless_edge"`
	RecklessRisk     float64 `yaml:"reckless_risk"`
	LeaderBonus      float64 `yaml:"leader_bonus"`
	StoicPanicFactor float64 `yaml:"stoic_panic_factor"`

	FlashbackWeight float64 `yaml:"flashback_weight"`
	FlashbackCap    float64 `yaml:"flashback_cap"`

	PanicFearWeight       float64 `yaml:"panic_fear_weight"`
	PanicStressWeight     float64 `yaml:"panic_stress_weight"`
	PanicCommitmentRelief float64 `yaml:"panic_commitment_relief"`
	PanicStressBump       float64 `yaml:"panic_stress_bump"`

	RiskFearWeight   float64 `yaml:"risk_fear_weight"`
	RiskStressWeight float64 `yaml:"risk_stress_weight"`

	InjuryFactor    float64 `yaml:"injury_factor"`
	HeroicFearFloor float64 `yaml:"heroic_fear_floor"`
	HeroicMagnitude float64 `yaml:"heroic_magnitude"`
}

// ComplicationTuning parameterizes complication generation.
type ComplicationTuning struct {
	Base                   float64 `yaml:"base"`
	SecurityWeight         float64 `yaml:"security_weight"`
	HeatWeight             float64 `yaml:"heat_weight"`
	RiskWeight             float64 `yaml:"risk_weight"`
	SecuritySeverityWeight float64 `yaml:"security_severity_weight"`
	CatastropheAbortChance float64 `yaml:"catastrophe_abort_chance"`
	CaptureBase            float64 `yaml:"capture_base"`
	CaptureSecurityWeight  float64 `yaml:"capture_security_weight"`
	FailureHeat            float64 `yaml:"failure_heat"`
}

// ClassifyTuning parameterizes the outcome classification boundaries.
type ClassifyTuning struct {
	CriticalProgress float64 `yaml:"critical_progress"`
	SuccessProgress  float64 `yaml:"success_progress"`
	PartialProgress  float64 `yaml:"partial_progress"`
}

// PropagandaTuning parameterizes the propaganda and opinion fold.
type PropagandaTuning struct {
	CriticalSuccess float64 `yaml:"critical_success"`
	Success         float64 `yaml:"success"`
	PartialSuccess  float64 `yaml:"partial_success"`
	Failure         float64 `yaml:"failure"`
	Disaster        float64 `yaml:"disaster"`
	Aborted         float64 `yaml:"aborted"`

	HeroicBonus     float64 `yaml:"heroic_bonus"`
	BetrayalPenalty float64 `yaml:"betrayal_penalty"`
	DeathPenalty    float64 `yaml:"death_penalty"`

	OpinionPerPoint        float64 `yaml:"opinion_per_point"`
	CivilianWitnessOpinion float64 `yaml:"civilian_witness_opinion"`
}

// DefaultTuning returns the baseline balance.
func DefaultTuning() Tuning {
	return Tuning{
		Betrayal: BetrayalTuning{
			Base:                0.02,
			Cap:                 0.95,
			TrustThreshold:      -0.3,
			TrustWeight:         0.20,
			CommitmentThreshold: 0.3,
			CommitmentWeight:    0.15,
			FearThreshold:       0.7,
			FearWeight:          0.10,
			StressThreshold:     0.8,
			StressWeight:        0.10,
		},
		Psych: PsychTuning{
			StressSoftCap:    0.3,
			StressWeight:     0.5,
			FearSoftCap:      0.2,
			FearWeight:       0.35,
			CommitmentWeight: 0.15,
			PerformanceFloor: 0.15,
			PerformanceCeil:  1.25,
			MethodicalFloor:  0.45,
			RecklessEdge:     0.10,
			RecklessRisk:     0.25,
			LeaderBonus:      0.10,
			StoicPanicFactor: 0.5,

			FlashbackWeight: 0.5,
			FlashbackCap:    0.85,

			PanicFearWeight:       0.5,
			PanicStressWeight:     0.4,
			PanicCommitmentRelief: 0.25,
			PanicStressBump:       0.08,

			RiskFearWeight:   0.3,
			RiskStressWeight: 0.2,

			InjuryFactor:    0.5,
			HeroicFearFloor: 0.6,
			HeroicMagnitude: 0.8,
		},
		Complication: ComplicationTuning{
			Base:                   0.12,
			SecurityWeight:         0.35,
			HeatWeight:             0.12,
			RiskWeight:             0.10,
			SecuritySeverityWeight: 0.35,
			CatastropheAbortChance: 0.5,
			CaptureBase:            0.15,
			CaptureSecurityWeight:  0.35,
			FailureHeat:            0.03,
		},
		Classify: ClassifyTuning{
			CriticalProgress: 1.0,
			SuccessProgress:  0.7,
			PartialProgress:  0.3,
		},
		Propaganda: PropagandaTuning{
			CriticalSuccess: 8,
			Success:         5,
			PartialSuccess:  2,
			Failure:         -2,
			Disaster:        -6,
			Aborted:         -4,

			HeroicBonus:     2,
			BetrayalPenalty: 10,
			DeathPenalty:    1.5,

			OpinionPerPoint:        0.01,
			CivilianWitnessOpinion: 0.02,
		},
	}
}

// Validate reports whether every knob is inside its legal range.
func (t Tuning) Validate() error {
	checks := []struct {
		name string
		v    float64
		lo   float64
		hi   float64
	}{
		{"betrayal.base", t.Betrayal.Base, 0, 1},
		{"betrayal.cap", t.Betrayal.Cap, 0, 1},
		{"betrayal.trust_threshold", t.Betrayal.TrustThreshold, -1, 1},
		{"betrayal.trust_weight", t.Betrayal.TrustWeight, 0, 1},
		{"betrayal.commitment_threshold", t.Betrayal.CommitmentThreshold, 0, 1},
		{"betrayal.commitment_weight", t.Betrayal.CommitmentWeight, 0, 1},
		{"betrayal.fear_threshold", t.Betrayal.FearThreshold, 0, 1},
		{"betrayal.fear_weight", t.Betrayal.FearWeight, 0, 1},
		{"betrayal.stress_threshold", t.Betrayal.StressThreshold, 0, 1},
		{"betrayal.stress_weight", t.Betrayal.StressWeight, 0, 1},

		{"psych.stress_soft_cap", t.Psych.StressSoftCap, 0, 1},
		{"psych.stress_weight", t.Psych.StressWeight, 0, 2},
		{"psych.fear_soft_cap", t.Psych.FearSoftCap, 0, 1},
		{"psych.fear_weight", t.Psych.FearWeight, 0, 2},
		{"psych.commitment_weight", t.Psych.CommitmentWeight, 0, 1},
		{"psych.performance_floor", t.Psych.PerformanceFloor, 0, 1},
		{"psych.performance_ceil", t.Psych.PerformanceCeil, 1, 2},
		{"psych.methodical_floor", t.Psych.MethodicalFloor, 0, 1},
		{"psych.reckless_edge", t.Psych.RecklessEdge, 0, 0.5},
		{"psych.reckless_risk", t.Psych.RecklessRisk, 0, 1},
		{"psych.leader_bonus", t.Psych.LeaderBonus, 0, 0.5},
		{"psych.stoic_panic_factor", t.Psych.StoicPanicFactor, 0, 1},
		{"psych.flashback_weight", t.Psych.FlashbackWeight, 0, 1},
		{"psych.flashback_cap", t.Psych.FlashbackCap, 0, 1},
		{"psych.panic_fear_weight", t.Psych.PanicFearWeight, 0, 1},
		{"psych.panic_stress_weight", t.Psych.PanicStressWeight, 0, 1},
		{"psych.panic_commitment_relief", t.Psych.PanicCommitmentRelief, 0, 1},
		{"psych.panic_stress_bump", t.Psych.PanicStressBump, 0, 0.5},
		{"psych.risk_fear_weight", t.Psych.RiskFearWeight, 0, 1},
		{"psych.risk_stress_weight", t.Psych.RiskStressWeight, 0, 1},
		{"psych.injury_factor", t.Psych.InjuryFactor, 0, 1},
		{"psych.heroic_fear_floor", t.Psych.HeroicFearFloor, 0, 1},
		{"psych.heroic_magnitude", t.Psych.HeroicMagnitude, 0, 1},

		{"complication.base", t.Complication.Base, 0, 1},
		{"complication.security_weight", t.Complication.SecurityWeight, 0, 1},
		{"complication.heat_weight", t.Complication.HeatWeight, 0, 1},
		{"complication.risk_weight", t.Complication.RiskWeight, 0, 1},
		{"complication.security_severity_weight", t.Complication.SecuritySeverityWeight, 0, 1},
		{"complication.catastrophe_abort_chance", t.Complication.CatastropheAbortChance, 0, 1},
		{"complication.capture_base", t.Complication.CaptureBase, 0, 1},
		{"complication.capture_security_weight", t.Complication.CaptureSecurityWeight, 0, 1},
		{"complication.failure_heat", t.Complication.FailureHeat, 0, 1},

		{"classify.critical_progress", t.Classify.CriticalProgress, 0, 1},
		{"classify.success_progress", t.Classify.SuccessProgress, 0, 1},
		{"classify.partial_progress", t.Classify.PartialProgress, 0, 1},

		{"propaganda.opinion_per_point", t.Propaganda.OpinionPerPoint, 0, 1},
		{"propaganda.civilian_witness_opinion", t.Propaganda.CivilianWitnessOpinion, 0, 1},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || c.v < c.lo || c.v > c.hi {
			return fmt.Errorf("%w: %s = %v outside [%v, %v]", ErrInvalidTuning, c.name, c.v, c.lo, c.hi)
		}
	}

	if t.Classify.PartialProgress > t.Classify.SuccessProgress || t.Classify.SuccessProgress > t.Classify.CriticalProgress {
		return fmt.Errorf("%w: classification boundaries must be ordered partial <= success <= critical", ErrInvalidTuning)
	}
	for _, v := range []float64{
		t.Propaganda.CriticalSuccess, t.Propaganda.Success, t.Propaganda.PartialSuccess,
		t.Propaganda.Failure, t.Propaganda.Disaster, t.Propaganda.Aborted,
		t.Propaganda.HeroicBonus, t.Propaganda.BetrayalPenalty, t.Propaganda.DeathPenalty,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: propaganda weights must be finite", ErrInvalidTuning)
		}
	}
	return nil
}
