package mission

import "github.com/ossifrage/cadre/internal/core/prob"

// buildReport folds the working state into the wire report. Outcome tags are
// appended after the phase tags so tag order stays deterministic.
func buildReport(st *missionState, outcome Outcome, seed int64) Report {
	perf := make(map[string]AgentPerformance, len(st.parts))
	for _, ps := range st.parts {
		perf[ps.p.CharacterID] = AgentPerformance{
			Successes:     ps.successes,
			Failures:      ps.failures,
			PanicEpisodes: ps.panics,
			Heroic:        ps.heroic,
			Betrayed:      ps.betrayed,
		}
	}

	switch outcome {
	case OutcomeCriticalSuccess:
		st.addTag(TagFlawlessExecution)
	case OutcomeAborted:
		st.addTag(TagMissionAborted)
	}

	propaganda, opinion := propagandaScores(st, outcome)

	return Report{
		Phases:          st.phases,
		Performance:     perf,
		Outcome:         outcome,
		Progress:        float64(st.progressPM) / 1000,
		PropagandaValue: propaganda,
		Tags:            st.tags,
		HeatDelta:       st.heat,
		OpinionShift:    opinion,
		Seed:            seed,
	}
}

// propagandaScores computes the propaganda value of a resolution and the
// public opinion shift it produces.
func propagandaScores(st *missionState, outcome Outcome) (propaganda, opinion float64) {
	heroics := 0
	deaths := 0
	for _, ps := range st.parts {
		if ps.heroic {
			heroics++
		}
		if ps.dead {
			deaths++
		}
	}

	pt := st.tun.Propaganda
	propaganda = outcomePropaganda(outcome, pt) +
		float64(heroics)*pt.HeroicBonus -
		float64(st.betrayals)*pt.BetrayalPenalty -
		float64(deaths)*pt.DeathPenalty
	opinion = prob.Clamp(propaganda*pt.OpinionPerPoint-float64(st.civilianWitnesses)*pt.CivilianWitnessOpinion, -0.5, 0.5)
	return propaganda, opinion
}

func outcomePropaganda(o Outcome, pt PropagandaTuning) float64 {
	switch o {
	case OutcomeCriticalSuccess:
		return pt.CriticalSuccess
	case OutcomeSuccess:
		return pt.Success
	case OutcomePartialSuccess:
		return pt.PartialSuccess
	case OutcomeFailure:
		return pt.Failure
	case OutcomeDisaster:
		return pt.Disaster
	case OutcomeAborted:
		return pt.Aborted
	default:
		return 0
	}
}
