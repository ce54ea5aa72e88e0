package mission

import (
	"math"

	"github.com/ossifrage/cadre/internal/core/prob"
)

// participantState tracks one roster member through a resolution. The
// embedded Participant is the working copy; its psych fields drift as the
// mission lands on it. Everything here is discarded once the report and
// deltas are built.
type participantState struct {
	p        Participant
	minTrust float64

	injured  bool
	captured bool
	dead     bool
	betrayed bool

	successes int
	failures  int
	panics    int
	heroic    bool

	panickedThisPhase bool
	entryStress       float64
}

// active reports whether the participant can still act for the team.
// Injured participants act at reduced effectiveness; they are still active.
func (ps *participantState) active() bool {
	return !ps.dead && !ps.captured && !ps.betrayed
}

// missionState is the working state of one resolution.
type missionState struct {
	brief Brief
	tun   Tuning
	src   prob.Source

	parts []*participantState

	progressPM int // objective progress in per-mille, monotone, capped at 1000
	heat       float64
	phases     []PhaseOutcome

	tags    []Tag
	tagSeen map[Tag]bool

	abort             bool
	abortForced       bool
	betrayals         int
	catastrophes      int
	civilianWitnesses int
}

func (st *missionState) addTag(t Tag) {
	if st.tagSeen[t] {
		return
	}
	st.tagSeen[t] = true
	st.tags = append(st.tags, t)
}

// activeStates returns the participants able to act, in roster order.
func (st *missionState) activeStates() []*participantState {
	active := make([]*participantState, 0, len(st.parts))
	for _, ps := range st.parts {
		if ps.active() {
			active = append(active, ps)
		}
	}
	return active
}

// resolvePhase runs one phase against the working state.
//
// Draw order is fixed and is the determinism contract: per active
// participant (roster order) a flashback draw then, unless frozen, an action
// draw and a panic draw after a failure; then complication checks; then one
// betrayal draw per still-active participant (roster order, stopped by the
// first trigger, skipped entirely once the phase already forced an abort);
// then one capture draw per still-active participant when fleeing a forced
// abort. Injuries consume one draw each to pick the victim.
func resolvePhase(st *missionState, phase Phase) (PhaseOutcome, error) {
	out := PhaseOutcome{
		Phase:         phase,
		Actions:       []ActionRecord{},
		Complications: []Complication{},
	}

	active := st.activeStates()
	if len(active) == 0 {
		// Nobody left standing; the phase passes with nothing attempted.
		return out, nil
	}
	for _, ps := range active {
		ps.panickedThisPhase = false
	}

	task, skill := taskFor(st.brief.Kind, phase)
	difficulty := taskDifficulty(st.brief.Kind, phase, st.brief.Location)

	successes := 0
	failures := 0
	riskSum := 0.0
	heatRaw := 0.0
	penaltyPM := 0

	for _, ps := range active {
		mods, err := ComputeModifiers(ps.p, phase, st.tun.Psych)
		if err != nil {
			return PhaseOutcome{}, err
		}
		riskSum += mods.Risk

		if prob.Chance(st.src, mods.FlashbackChance) {
			ps.panics++
			ps.panickedThisPhase = true
			ps.failures++
			failures++
			heatRaw += st.tun.Complication.FailureHeat
			ps.p.Stress = prob.Clamp01(ps.p.Stress + st.tun.Psych.PanicStressBump)
			st.addTag(TagFlashback)
			out.Actions = append(out.Actions, ActionRecord{
				CharacterID: ps.p.CharacterID,
				Task:        task,
				Success:     false,
				Tag:         TagFlashback,
			})
			continue
		}

		effective := (ps.p.Skills.Rating(skill) + ps.p.Gear.Rating(skill)) * mods.Performance
		if ps.injured {
			effective *= st.tun.Psych.InjuryFactor
		}
		effective = prob.Clamp01(effective + leaderBonus(active, ps, st.tun.Psych.LeaderBonus))
		chance := prob.Clamp01(0.5 + effective - difficulty + mods.ChanceShift)

		u := st.src.Float64()
		if u < chance {
			ps.successes++
			successes++

			magnitude := 1.0
			if chance > 0 {
				magnitude = prob.Clamp01(1 - u/chance)
			}
			record := ActionRecord{
				CharacterID: ps.p.CharacterID,
				Task:        task,
				Success:     true,
				Magnitude:   magnitude,
			}
			if !ps.heroic && ps.p.Fear >= st.tun.Psych.HeroicFearFloor && magnitude >= st.tun.Psych.HeroicMagnitude {
				ps.heroic = true
				record.Tag = TagHeroicStand
				st.addTag(TagHeroicStand)
			}
			out.Actions = append(out.Actions, record)
			continue
		}

		ps.failures++
		failures++
		heatRaw += st.tun.Complication.FailureHeat
		if prob.Chance(st.src, mods.PanicChance) {
			ps.panics++
			ps.panickedThisPhase = true
			ps.p.Stress = prob.Clamp01(ps.p.Stress + st.tun.Psych.PanicStressBump)
		}
		out.Actions = append(out.Actions, ActionRecord{
			CharacterID: ps.p.CharacterID,
			Task:        task,
			Success:     false,
		})
	}

	teamRisk := riskSum / float64(len(active))
	runningHeat := st.brief.Location.Heat + st.heat + heatRaw

	for _, c := range generateComplications(st.brief.Location, failures, runningHeat, teamRisk, st.tun.Complication, st.src) {
		out.Complications = append(out.Complications, c)
		heatRaw += c.HeatDelta
		penaltyPM += int(math.Round(c.ProgressPenalty * 1000))
		st.addTag(c.Kind)

		if c.Kind == TagCivilianWitness {
			st.civilianWitnesses++
		}
		if c.Severity == SeverityCatastrophic {
			st.catastrophes++
		}
		switch c.Effect {
		case EffectInjury:
			st.applyInjury()
		case EffectForcedAbort:
			st.abort = true
			st.abortForced = true
		}
	}

	if !st.abort {
		for _, ps := range active {
			if !ps.active() {
				continue
			}
			p := BetrayalProbability(ps.p, ps.minTrust, st.tun.Betrayal)
			if !prob.Chance(st.src, p) {
				continue
			}

			ps.betrayed = true
			st.betrayals++
			st.abort = true
			st.abortForced = true
			st.catastrophes++
			st.addTag(TagDevastatingBetrayal)

			c := Complication{
				Severity:    SeverityCatastrophic,
				Kind:        TagDevastatingBetrayal,
				Effect:      EffectForcedAbort,
				HeatDelta:   severityProfiles[SeverityCatastrophic].heatDelta,
				ForcesAbort: true,
			}
			out.Complications = append(out.Complications, c)
			heatRaw += c.HeatDelta
			break
		}
	}

	if st.abortForced {
		captureChance := prob.Clamp01(st.tun.Complication.CaptureBase +
			st.tun.Complication.CaptureSecurityWeight*st.brief.Location.Security)
		for _, ps := range active {
			if !ps.active() {
				continue
			}
			if prob.Chance(st.src, captureChance) {
				ps.captured = true
				st.addTag(TagComradeCaptured)
			}
		}
	} else if !st.abort {
		panicked := 0
		for _, ps := range active {
			if ps.panickedThisPhase {
				panicked++
			}
		}
		if panicked*2 > len(active) {
			st.abort = true
			st.addTag(TagMassPanic)
		}
	}

	gainPM := weightPM(st.brief.Kind, phase) * successes / len(active)
	deltaPM := gainPM - penaltyPM
	if deltaPM < 0 {
		deltaPM = 0
	}
	if st.progressPM+deltaPM > 1000 {
		deltaPM = 1000 - st.progressPM
	}
	st.progressPM += deltaPM
	out.ProgressDelta = float64(deltaPM) / 1000

	heatDelta := heatRaw * (0.5 + st.brief.Location.HeatSensitivity)
	st.heat += heatDelta
	out.HeatDelta = heatDelta

	return out, nil
}

// leaderBonus returns the team bonus a participant receives from serving
// alongside a leader. Leaders do not buff themselves and the bonus does not
// stack.
func leaderBonus(active []*participantState, self *participantState, bonus float64) float64 {
	for _, other := range active {
		if other != self && hasTrait(other.p, TraitLeader) {
			return bonus
		}
	}
	return 0
}

// applyInjury picks a victim among the still-active participants and wounds
// them. A second wound kills. One draw is consumed for the pick.
func (st *missionState) applyInjury() {
	candidates := st.activeStates()
	if len(candidates) == 0 {
		return
	}
	victim := candidates[st.src.Intn(len(candidates))]
	if victim.injured {
		victim.dead = true
		st.addTag(TagMartyrMade)
		return
	}
	victim.injured = true
	victim.p.Fear = prob.Clamp01(victim.p.Fear + 0.10)
	victim.p.Stress = prob.Clamp01(victim.p.Stress + 0.10)
}
