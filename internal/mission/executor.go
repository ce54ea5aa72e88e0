package mission

import (
	"fmt"
	"math"
	"strings"

	"github.com/ossifrage/cadre/internal/core/prob"
)

// Execute resolves a mission brief with a source seeded from seed.
//
// # Determinism
//
// Execute is deterministic with respect to (brief, tuning, seed): the same
// inputs always produce the same Report and StateDeltas, byte for byte once
// marshalled. All randomness flows through the one seeded source; resolution
// performs no I/O and reads no ambient state.
//
// # Contract
//
// The brief is validated before anything runs; a rejected brief leaves no
// trace. The returned deltas are proposals: the engine never applies them,
// and callers are expected to apply a resolution's deltas atomically or not
// at all. An in-fiction abort is a classification on the report, not an
// error.
func Execute(b Brief, seed int64, tun Tuning) (Report, StateDeltas, error) {
	return execute(b, prob.NewSource(seed), seed, tun)
}

// ExecuteWithSource resolves a mission brief against a caller-owned source.
// This is the hook for scripted sources; reports produced this way carry a
// zero seed since the draw stream did not come from one.
func ExecuteWithSource(b Brief, src prob.Source, tun Tuning) (Report, StateDeltas, error) {
	if src == nil {
		return Report{}, StateDeltas{}, ErrNilSource
	}
	return execute(b, src, 0, tun)
}

func execute(b Brief, src prob.Source, seed int64, tun Tuning) (report Report, deltas StateDeltas, err error) {
	if err := Validate(b); err != nil {
		return Report{}, StateDeltas{}, err
	}
	if err := tun.Validate(); err != nil {
		return Report{}, StateDeltas{}, err
	}

	// A panicking source (exhausted script, broken caller implementation)
	// must surface as an internal error, not take the process down.
	defer func() {
		if recovered := recover(); recovered != nil {
			report, deltas = Report{}, StateDeltas{}
			err = fmt.Errorf("%w: resolution panicked: %v", ErrInternal, recovered)
		}
	}()

	st := &missionState{
		brief:   b,
		tun:     tun,
		src:     src,
		tagSeen: make(map[Tag]bool),
	}
	for i := range b.Roster {
		p := b.Roster[i]
		// The working copy must not alias caller-owned slices.
		p.Traits = append([]Trait(nil), p.Traits...)
		p.Traumas = append([]Trauma(nil), p.Traumas...)
		st.parts = append(st.parts, &participantState{
			p:           p,
			minTrust:    minTrustToTeammates(b, p.CharacterID),
			entryStress: p.Stress,
		})
	}

	for _, phase := range Phases() {
		before := st.progressPM
		out, err := resolvePhase(st, phase)
		if err != nil {
			return Report{}, StateDeltas{}, err
		}
		st.phases = append(st.phases, out)

		if st.progressPM < before || st.progressPM > 1000 {
			return Report{}, StateDeltas{}, fmt.Errorf("%w: progress moved %d -> %d during %s",
				ErrInternal, before, st.progressPM, phase)
		}
		if st.betrayals > 1 {
			return Report{}, StateDeltas{}, fmt.Errorf("%w: %d betrayals recorded in one mission",
				ErrInternal, st.betrayals)
		}
		if st.abort {
			break
		}
	}

	in := ClassifyInput{
		Progress:     float64(st.progressPM) / 1000,
		RosterSize:   len(st.parts),
		Aborted:      st.abort,
		Catastrophes: st.catastrophes,
	}
	for _, ps := range st.parts {
		switch {
		case ps.dead:
			in.Dead++
		case ps.captured:
			in.Captured++
		case ps.injured:
			in.Injured++
		}
	}

	outcome := Classify(in, tun.Classify)
	if outcome == OutcomeUnspecified {
		return Report{}, StateDeltas{}, fmt.Errorf("%w: classification produced no outcome", ErrInternal)
	}

	return buildReport(st, outcome, seed), buildDeltas(st, outcome), nil
}

// Validate checks a brief for configuration errors. The engine rejects bad
// input outright rather than substituting defaults.
func Validate(b Brief) error {
	if !knownKind(b.Kind) {
		return fmt.Errorf("%w: %d", ErrUnknownKind, b.Kind)
	}
	if err := validateLocation(b.Location); err != nil {
		return err
	}
	if len(b.Roster) == 0 {
		return ErrEmptyRoster
	}

	seen := make(map[string]bool, len(b.Roster))
	for _, p := range b.Roster {
		if err := validateParticipant(p); err != nil {
			return err
		}
		if seen[p.CharacterID] {
			return fmt.Errorf("%w: %q", ErrDuplicateCharacter, p.CharacterID)
		}
		seen[p.CharacterID] = true
	}

	for _, edge := range b.Relationships {
		if err := validateEdge(edge, seen); err != nil {
			return err
		}
	}
	return nil
}

func validateParticipant(p Participant) error {
	if strings.TrimSpace(p.CharacterID) == "" {
		return fmt.Errorf("%w: empty character id", ErrInvalidParticipant)
	}
	for _, s := range []Skill{SkillStealth, SkillViolence, SkillTech, SkillCharisma, SkillResolve} {
		if !isUnit(p.Skills.Rating(s)) {
			return fmt.Errorf("%w: %s skill %s = %v outside [0, 1]",
				ErrInvalidParticipant, p.CharacterID, s, p.Skills.Rating(s))
		}
		if !isUnit(p.Gear.Rating(s)) {
			return fmt.Errorf("%w: %s gear %s = %v outside [0, 1]",
				ErrInvalidParticipant, p.CharacterID, s, p.Gear.Rating(s))
		}
	}
	if !isUnit(p.Stress) || !isUnit(p.Fear) || !isUnit(p.Commitment) {
		return fmt.Errorf("%w: %s psych state (stress=%v fear=%v commitment=%v) outside [0, 1]",
			ErrInvalidParticipant, p.CharacterID, p.Stress, p.Fear, p.Commitment)
	}
	for _, t := range p.Traits {
		if t <= TraitUnspecified || t > TraitStoic {
			return fmt.Errorf("%w: %s has unknown trait %d", ErrInvalidParticipant, p.CharacterID, t)
		}
	}
	for _, tr := range p.Traumas {
		if tr.Kind <= TraumaUnspecified || tr.Kind > TraumaBetrayal {
			return fmt.Errorf("%w: %s has unknown trauma kind %d", ErrInvalidParticipant, p.CharacterID, tr.Kind)
		}
		if !isUnit(tr.Severity) {
			return fmt.Errorf("%w: %s trauma severity %v outside [0, 1]",
				ErrInvalidParticipant, p.CharacterID, tr.Severity)
		}
	}
	return nil
}

func validateLocation(loc LocationProfile) error {
	if loc.Archetype <= ArchetypeUnspecified || loc.Archetype > ArchetypeMilitary {
		return fmt.Errorf("%w: %d", ErrUnknownArchetype, loc.Archetype)
	}
	if strings.TrimSpace(loc.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidLocation)
	}
	if !isUnit(loc.Security) {
		return fmt.Errorf("%w: security %v outside [0, 1]", ErrInvalidLocation, loc.Security)
	}
	if !isUnit(loc.Affluence) {
		return fmt.Errorf("%w: affluence %v outside [0, 1]", ErrInvalidLocation, loc.Affluence)
	}
	if !isUnit(loc.HeatSensitivity) {
		return fmt.Errorf("%w: heat sensitivity %v outside [0, 1]", ErrInvalidLocation, loc.HeatSensitivity)
	}
	if math.IsNaN(loc.Heat) || math.IsInf(loc.Heat, 0) || loc.Heat < 0 {
		return fmt.Errorf("%w: heat %v must be finite and non-negative", ErrInvalidLocation, loc.Heat)
	}
	return nil
}

func validateEdge(edge RelationshipEdge, roster map[string]bool) error {
	if !roster[edge.FromID] || !roster[edge.ToID] {
		return fmt.Errorf("%w: %s -> %s references a character outside the roster",
			ErrInvalidRelationship, edge.FromID, edge.ToID)
	}
	if edge.FromID == edge.ToID {
		return fmt.Errorf("%w: %s points at itself", ErrInvalidRelationship, edge.FromID)
	}
	if math.IsNaN(edge.Trust) || edge.Trust < -1 || edge.Trust > 1 {
		return fmt.Errorf("%w: %s -> %s trust %v outside [-1, 1]",
			ErrInvalidRelationship, edge.FromID, edge.ToID, edge.Trust)
	}
	if !isUnit(edge.Loyalty) {
		return fmt.Errorf("%w: %s -> %s loyalty %v outside [0, 1]",
			ErrInvalidRelationship, edge.FromID, edge.ToID, edge.Loyalty)
	}
	return nil
}

// isUnit reports whether v is a finite value in [0, 1].
func isUnit(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}
