package mission

import (
	"encoding/json"
	"fmt"
)

// Phase identifies one stage of a mission resolution.
type Phase int

const (
	PhaseUnspecified Phase = iota
	PhasePlanning
	PhaseInfiltration
	PhaseExecution
	PhaseExtraction
	PhaseAftermath
)

// Phases returns the resolution order. An abort truncates the sequence; it
// never reorders it.
func Phases() []Phase {
	return []Phase{PhasePlanning, PhaseInfiltration, PhaseExecution, PhaseExtraction, PhaseAftermath}
}

func (p Phase) String() string {
	switch p {
	case PhasePlanning:
		return "planning"
	case PhaseInfiltration:
		return "infiltration"
	case PhaseExecution:
		return "execution"
	case PhaseExtraction:
		return "extraction"
	case PhaseAftermath:
		return "aftermath"
	default:
		return "unspecified"
	}
}

// MarshalJSON encodes the phase as its label; labels are interop surface.
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a phase label. Unknown labels are rejected so a
// corrupted document fails loudly instead of resolving to a zero phase.
func (p *Phase) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	switch label {
	case "planning":
		*p = PhasePlanning
	case "infiltration":
		*p = PhaseInfiltration
	case "execution":
		*p = PhaseExecution
	case "extraction":
		*p = PhaseExtraction
	case "aftermath":
		*p = PhaseAftermath
	case "unspecified":
		*p = PhaseUnspecified
	default:
		return fmt.Errorf("unknown phase label %q", label)
	}
	return nil
}

// Severity grades a complication from a nuisance to a mission-ender.
type Severity int

const (
	SeverityUnspecified Severity = iota
	SeverityMinor
	SeverityModerate
	SeveritySevere
	SeverityCatastrophic
)

func (s Severity) String() string {
	switch s {
	case SeverityMinor:
		return "minor"
	case SeverityModerate:
		return "moderate"
	case SeveritySevere:
		return "severe"
	case SeverityCatastrophic:
		return "catastrophic"
	default:
		return "unspecified"
	}
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity label.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	switch label {
	case "minor":
		*s = SeverityMinor
	case "moderate":
		*s = SeverityModerate
	case "severe":
		*s = SeveritySevere
	case "catastrophic":
		*s = SeverityCatastrophic
	case "unspecified":
		*s = SeverityUnspecified
	default:
		return fmt.Errorf("unknown severity label %q", label)
	}
	return nil
}

// Outcome is the final classification of a resolved mission.
type Outcome int

const (
	OutcomeUnspecified Outcome = iota
	OutcomeAborted
	OutcomeDisaster
	OutcomeCriticalSuccess
	OutcomeSuccess
	OutcomePartialSuccess
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAborted:
		return "aborted"
	case OutcomeDisaster:
		return "disaster"
	case OutcomeCriticalSuccess:
		return "critical_success"
	case OutcomeSuccess:
		return "success"
	case OutcomePartialSuccess:
		return "partial_success"
	case OutcomeFailure:
		return "failure"
	default:
		return "unspecified"
	}
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON decodes an outcome label.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	if label == "unspecified" {
		*o = OutcomeUnspecified
		return nil
	}
	parsed, ok := ParseOutcome(label)
	if !ok {
		return fmt.Errorf("unknown outcome label %q", label)
	}
	*o = parsed
	return nil
}

// ParseOutcome maps an outcome label to its Outcome. Unknown labels return
// OutcomeUnspecified and false.
func ParseOutcome(label string) (Outcome, bool) {
	switch label {
	case "aborted":
		return OutcomeAborted, true
	case "disaster":
		return OutcomeDisaster, true
	case "critical_success":
		return OutcomeCriticalSuccess, true
	case "success":
		return OutcomeSuccess, true
	case "partial_success":
		return OutcomePartialSuccess, true
	case "failure":
		return OutcomeFailure, true
	default:
		return OutcomeUnspecified, false
	}
}

// Kind identifies the mission template being attempted.
type Kind int

const (
	KindUnspecified Kind = iota
	KindSabotage
	KindRaid
	KindExpropriation
	KindPropaganda
	KindSurveillance
	KindRescue
)

func (k Kind) String() string {
	switch k {
	case KindSabotage:
		return "sabotage"
	case KindRaid:
		return "raid"
	case KindExpropriation:
		return "expropriation"
	case KindPropaganda:
		return "propaganda"
	case KindSurveillance:
		return "surveillance"
	case KindRescue:
		return "rescue"
	default:
		return "unspecified"
	}
}

// ParseKind maps a kind label to its Kind. Unknown labels return
// KindUnspecified and false.
func ParseKind(label string) (Kind, bool) {
	switch label {
	case "sabotage":
		return KindSabotage, true
	case "raid":
		return KindRaid, true
	case "expropriation":
		return KindExpropriation, true
	case "propaganda":
		return KindPropaganda, true
	case "surveillance":
		return KindSurveillance, true
	case "rescue":
		return KindRescue, true
	default:
		return KindUnspecified, false
	}
}

// Archetype describes the character of a target location.
type Archetype int

const (
	ArchetypeUnspecified Archetype = iota
	ArchetypeIndustrial
	ArchetypeGovernment
	ArchetypeCommercial
	ArchetypeResidential
	ArchetypeMilitary
)

func (a Archetype) String() string {
	switch a {
	case ArchetypeIndustrial:
		return "industrial"
	case ArchetypeGovernment:
		return "government"
	case ArchetypeCommercial:
		return "commercial"
	case ArchetypeResidential:
		return "residential"
	case ArchetypeMilitary:
		return "military"
	default:
		return "unspecified"
	}
}

// ParseArchetype maps an archetype label to its Archetype. Unknown labels
// return ArchetypeUnspecified and false.
func ParseArchetype(label string) (Archetype, bool) {
	switch label {
	case "industrial":
		return ArchetypeIndustrial, true
	case "government":
		return ArchetypeGovernment, true
	case "commercial":
		return ArchetypeCommercial, true
	case "residential":
		return ArchetypeResidential, true
	case "military":
		return ArchetypeMilitary, true
	default:
		return ArchetypeUnspecified, false
	}
}

// Skill identifies one rated aptitude.
type Skill int

const (
	SkillStealth Skill = iota
	SkillViolence
	SkillTech
	SkillCharisma
	SkillResolve
)

func (s Skill) String() string {
	switch s {
	case SkillStealth:
		return "stealth"
	case SkillViolence:
		return "violence"
	case SkillTech:
		return "tech"
	case SkillCharisma:
		return "charisma"
	case SkillResolve:
		return "resolve"
	default:
		return "unspecified"
	}
}

// SkillRatings holds the five aptitude ratings, each in [0, 1]. The same
// shape carries equipment bonuses.
type SkillRatings struct {
	Stealth  float64 `json:"stealth" yaml:"stealth"`
	Violence float64 `json:"violence" yaml:"violence"`
	Tech     float64 `json:"tech" yaml:"tech"`
	Charisma float64 `json:"charisma" yaml:"charisma"`
	Resolve  float64 `json:"resolve" yaml:"resolve"`
}

// Rating returns the rating for a skill.
func (r SkillRatings) Rating(s Skill) float64 {
	switch s {
	case SkillStealth:
		return r.Stealth
	case SkillViolence:
		return r.Violence
	case SkillTech:
		return r.Tech
	case SkillCharisma:
		return r.Charisma
	case SkillResolve:
		return r.Resolve
	default:
		return 0
	}
}

// Trait is a closed behavioral descriptor.
type Trait int

const (
	TraitUnspecified Trait = iota
	TraitReckless
	TraitMethodical
	TraitLeader
	TraitStoic
)

func (t Trait) String() string {
	switch t {
	case TraitReckless:
		return "reckless"
	case TraitMethodical:
		return "methodical"
	case TraitLeader:
		return "leader"
	case TraitStoic:
		return "stoic"
	default:
		return "unspecified"
	}
}

// ParseTrait maps a trait label to its Trait. Unknown labels return
// TraitUnspecified and false.
func ParseTrait(label string) (Trait, bool) {
	switch label {
	case "reckless":
		return TraitReckless, true
	case "methodical":
		return TraitMethodical, true
	case "leader":
		return TraitLeader, true
	case "stoic":
		return TraitStoic, true
	default:
		return TraitUnspecified, false
	}
}

// TraumaKind is a closed category of psychological wound.
type TraumaKind int

const (
	TraumaUnspecified TraumaKind = iota
	TraumaViolence
	TraumaLoss
	TraumaCapture
	TraumaBetrayal
)

func (t TraumaKind) String() string {
	switch t {
	case TraumaViolence:
		return "violence"
	case TraumaLoss:
		return "loss"
	case TraumaCapture:
		return "capture"
	case TraumaBetrayal:
		return "betrayal"
	default:
		return "unspecified"
	}
}

func (t TraumaKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a trauma kind label.
func (t *TraumaKind) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	if label == "unspecified" {
		*t = TraumaUnspecified
		return nil
	}
	parsed, ok := ParseTraumaKind(label)
	if !ok {
		return fmt.Errorf("unknown trauma kind label %q", label)
	}
	*t = parsed
	return nil
}

// ParseTraumaKind maps a trauma label to its TraumaKind. Unknown labels
// return TraumaUnspecified and false.
func ParseTraumaKind(label string) (TraumaKind, bool) {
	switch label {
	case "violence":
		return TraumaViolence, true
	case "loss":
		return TraumaLoss, true
	case "capture":
		return TraumaCapture, true
	case "betrayal":
		return TraumaBetrayal, true
	default:
		return TraumaUnspecified, false
	}
}

// Trauma is an unresolved psychological wound carried into a mission.
type Trauma struct {
	Kind     TraumaKind `json:"kind"`
	Severity float64    `json:"severity"`
}

// Effect is the dominant consequence of a complication.
type Effect int

const (
	EffectUnspecified Effect = iota
	EffectDelay
	EffectHeat
	EffectInjury
	EffectForcedAbort
)

func (e Effect) String() string {
	switch e {
	case EffectDelay:
		return "delay"
	case EffectHeat:
		return "heat"
	case EffectInjury:
		return "injury"
	case EffectForcedAbort:
		return "forced_abort"
	default:
		return "unspecified"
	}
}

func (e Effect) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// UnmarshalJSON decodes an effect label.
func (e *Effect) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	switch label {
	case "delay":
		*e = EffectDelay
	case "heat":
		*e = EffectHeat
	case "injury":
		*e = EffectInjury
	case "forced_abort":
		*e = EffectForcedAbort
	case "unspecified":
		*e = EffectUnspecified
	default:
		return fmt.Errorf("unknown effect label %q", label)
	}
	return nil
}

// Tag is a machine-readable narrative marker consumed by the prose renderer.
type Tag string

const (
	TagDevastatingBetrayal Tag = "devastating_betrayal"
	TagHeroicStand         Tag = "heroic_stand"
	TagFlawlessExecution   Tag = "flawless_execution"
	TagMissionAborted      Tag = "mission_aborted"
	TagMassPanic           Tag = "mass_panic"
	TagMartyrMade          Tag = "martyr_made"
	TagComradeCaptured     Tag = "comrade_captured"
	TagFlashback           Tag = "flashback"

	TagPatrolEncounter  Tag = "patrol_encounter"
	TagSilentAlarm      Tag = "silent_alarm"
	TagInformantTip     Tag = "informant_tip"
	TagEquipmentFailure Tag = "equipment_failure"
	TagCivilianWitness  Tag = "civilian_witness"
	TagCheckpoint       Tag = "checkpoint"
	TagReinforcements   Tag = "reinforcements"
)

// Participant is the per-mission working copy of a character. It is built
// from a persistent character record at mission start, mutated only inside a
// single resolution, and discarded once deltas are extracted.
type Participant struct {
	CharacterID string       `json:"character_id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Skills      SkillRatings `json:"skills" yaml:"skills"`
	Gear        SkillRatings `json:"gear" yaml:"gear"`
	Traits      []Trait      `json:"traits" yaml:"-"`
	Stress      float64      `json:"stress" yaml:"stress"`
	Fear        float64      `json:"fear" yaml:"fear"`
	Commitment  float64      `json:"commitment" yaml:"commitment"`
	Traumas     []Trauma     `json:"traumas" yaml:"-"`
}

// RelationshipEdge is a directed sentiment edge between two roster members.
// Edges are read-only during resolution.
type RelationshipEdge struct {
	FromID  string  `json:"from_id"`
	ToID    string  `json:"to_id"`
	Trust   float64 `json:"trust"`
	Loyalty float64 `json:"loyalty"`
}

// LocationProfile carries the risk attributes of the target location.
type LocationProfile struct {
	Name            string    `json:"name"`
	Security        float64   `json:"security"`
	Archetype       Archetype `json:"archetype"`
	Affluence       float64   `json:"affluence"`
	HeatSensitivity float64   `json:"heat_sensitivity"`
	Heat            float64   `json:"heat"`
}

// Brief is the full, immutable input to one mission resolution.
type Brief struct {
	Kind          Kind               `json:"kind"`
	Location      LocationProfile    `json:"location"`
	Roster        []Participant      `json:"roster"`
	Relationships []RelationshipEdge `json:"relationships"`
}

// Complication is an adverse event drawn during a phase.
type Complication struct {
	Severity        Severity `json:"severity"`
	Kind            Tag      `json:"kind"`
	Effect          Effect   `json:"effect"`
	ProgressPenalty float64  `json:"progress_penalty"`
	HeatDelta       float64  `json:"heat_delta"`
	ForcesAbort     bool     `json:"forces_abort"`
}

// ActionRecord captures one participant's attempt at a phase task.
type ActionRecord struct {
	CharacterID string  `json:"character_id"`
	Task        string  `json:"task"`
	Success     bool    `json:"success"`
	Magnitude   float64 `json:"magnitude"`
	Tag         Tag     `json:"tag,omitempty"`
}

// PhaseOutcome is the retained record of one resolved phase.
type PhaseOutcome struct {
	Phase         Phase          `json:"phase"`
	Actions       []ActionRecord `json:"actions"`
	Complications []Complication `json:"complications"`
	HeatDelta     float64        `json:"heat_delta"`
	ProgressDelta float64        `json:"progress_delta"`
}

// AgentPerformance summarizes one participant's mission.
type AgentPerformance struct {
	Successes     int  `json:"successes"`
	Failures      int  `json:"failures"`
	PanicEpisodes int  `json:"panic_episodes"`
	Heroic        bool `json:"heroic"`
	Betrayed      bool `json:"betrayed"`
}

// Report is the structured result of a resolved mission. Field names and
// enum labels are stable interop surface for downstream subsystems.
type Report struct {
	Phases          []PhaseOutcome              `json:"phases"`
	Performance     map[string]AgentPerformance `json:"performance"`
	Outcome         Outcome                     `json:"outcome"`
	Progress        float64                     `json:"progress"`
	PropagandaValue float64                     `json:"propaganda_value"`
	Tags            []Tag                       `json:"tags"`
	HeatDelta       float64                     `json:"heat_delta"`
	OpinionShift    float64                     `json:"opinion_shift"`
	Seed            int64                       `json:"seed"`
}

// RelationshipDelta is a proposed adjustment to a directed edge.
type RelationshipDelta struct {
	TowardID     string  `json:"toward_id"`
	TrustDelta   float64 `json:"trust_delta"`
	LoyaltyDelta float64 `json:"loyalty_delta"`
}

// AgentDelta carries the proposed persistent changes for one participant.
type AgentDelta struct {
	CharacterID   string              `json:"character_id"`
	StressDelta   float64             `json:"stress_delta"`
	Injured       bool                `json:"injured"`
	Captured      bool                `json:"captured"`
	Dead          bool                `json:"dead"`
	TraumaGained  []Trauma            `json:"trauma_gained"`
	Relationships []RelationshipDelta `json:"relationships"`
}

// LocationDelta carries the proposed persistent changes to the location.
type LocationDelta struct {
	HeatDelta    float64 `json:"heat_delta"`
	OpinionDelta float64 `json:"opinion_delta"`
}

// StateDeltas enumerates every persistent change a resolution proposes. The
// engine never applies them; the caller owns the transaction.
type StateDeltas struct {
	Agents   []AgentDelta  `json:"agents"`
	Location LocationDelta `json:"location"`
}
