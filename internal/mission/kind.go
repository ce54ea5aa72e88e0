package mission

import "github.com/ossifrage/cadre/internal/core/prob"

// securityDifficultyWeight scales location security into task difficulty.
const securityDifficultyWeight = 0.25

// kindProfile is one mission template: per-phase task labels, the skill each
// task keys off, base difficulties, and objective progress weights.
//
// Weights are per-mille integers summing to exactly 1000 so that a fully
// successful mission lands on progress 1.0 with no float drift.
type kindProfile struct {
	tasks      [5]string
	skills     [5]Skill
	difficulty [5]float64
	weightsPM  [5]int
}

var kindProfiles = map[Kind]kindProfile{
	KindSabotage: {
		tasks:      [5]string{"recon", "approach", "plant_charges", "exfiltrate", "lay_low"},
		skills:     [5]Skill{SkillTech, SkillStealth, SkillTech, SkillStealth, SkillResolve},
		difficulty: [5]float64{0.25, 0.40, 0.50, 0.45, 0.20},
		weightsPM:  [5]int{100, 200, 450, 200, 50},
	},
	KindRaid: {
		tasks:      [5]string{"recon", "approach", "strike", "fight_clear", "lay_low"},
		skills:     [5]Skill{SkillTech, SkillStealth, SkillViolence, SkillViolence, SkillResolve},
		difficulty: [5]float64{0.25, 0.40, 0.55, 0.50, 0.25},
		weightsPM:  [5]int{100, 200, 450, 200, 50},
	},
	KindExpropriation: {
		tasks:      [5]string{"casing", "approach", "seize_funds", "exfiltrate", "lay_low"},
		skills:     [5]Skill{SkillTech, SkillStealth, SkillViolence, SkillStealth, SkillResolve},
		difficulty: [5]float64{0.25, 0.40, 0.50, 0.45, 0.20},
		weightsPM:  [5]int{100, 200, 450, 200, 50},
	},
	KindPropaganda: {
		tasks:      [5]string{"canvass", "approach", "broadcast", "exfiltrate", "lay_low"},
		skills:     [5]Skill{SkillCharisma, SkillStealth, SkillCharisma, SkillStealth, SkillResolve},
		difficulty: [5]float64{0.20, 0.35, 0.40, 0.35, 0.15},
		weightsPM:  [5]int{150, 150, 450, 150, 100},
	},
	KindSurveillance: {
		tasks:      [5]string{"recon", "approach", "observe", "exfiltrate", "lay_low"},
		skills:     [5]Skill{SkillTech, SkillStealth, SkillTech, SkillStealth, SkillResolve},
		difficulty: [5]float64{0.20, 0.35, 0.35, 0.30, 0.15},
		weightsPM:  [5]int{200, 250, 350, 150, 50},
	},
	KindRescue: {
		tasks:      [5]string{"recon", "approach", "break_out", "exfiltrate", "lay_low"},
		skills:     [5]Skill{SkillTech, SkillStealth, SkillViolence, SkillResolve, SkillResolve},
		difficulty: [5]float64{0.30, 0.45, 0.55, 0.50, 0.25},
		weightsPM:  [5]int{100, 150, 350, 350, 50},
	},
}

// knownKind reports whether k has a profile.
func knownKind(k Kind) bool {
	_, ok := kindProfiles[k]
	return ok
}

// phaseIndex maps a phase to its table slot.
func phaseIndex(p Phase) int {
	return int(p) - 1
}

// taskFor returns the task label and skill a phase keys off for a kind.
func taskFor(k Kind, p Phase) (string, Skill) {
	profile := kindProfiles[k]
	i := phaseIndex(p)
	return profile.tasks[i], profile.skills[i]
}

// weightPM returns the per-mille objective weight of a phase for a kind.
func weightPM(k Kind, p Phase) int {
	return kindProfiles[k].weightsPM[phaseIndex(p)]
}

// taskDifficulty returns the effective difficulty of a phase task at a
// location: the template base shifted by security and archetype.
func taskDifficulty(k Kind, p Phase, loc LocationProfile) float64 {
	base := kindProfiles[k].difficulty[phaseIndex(p)]
	return prob.Clamp01(base + securityDifficultyWeight*loc.Security + loc.Archetype.difficultyModifier())
}

// difficultyModifier shifts task difficulty by how hardened the location is.
func (a Archetype) difficultyModifier() float64 {
	switch a {
	case ArchetypeIndustrial:
		return 0.02
	case ArchetypeGovernment:
		return 0.10
	case ArchetypeCommercial:
		return 0.04
	case ArchetypeResidential:
		return -0.03
	case ArchetypeMilitary:
		return 0.15
	default:
		return 0
	}
}
