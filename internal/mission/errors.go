package mission

import "errors"

// ErrEmptyRoster indicates a brief with no participants.
var ErrEmptyRoster = errors.New("mission requires at least one participant")

// ErrDuplicateCharacter indicates two roster entries share a character id.
var ErrDuplicateCharacter = errors.New("duplicate character id in roster")

// ErrUnknownKind indicates a mission kind outside the closed set.
var ErrUnknownKind = errors.New("unknown mission kind")

// ErrUnknownArchetype indicates a location archetype outside the closed set.
var ErrUnknownArchetype = errors.New("unknown location archetype")

// ErrInvalidParticipant indicates a participant with missing or out-of-range
// fields. Missing psychological state is rejected, never defaulted.
var ErrInvalidParticipant = errors.New("invalid participant")

// ErrInvalidRelationship indicates a relationship edge that is malformed or
// references a character outside the roster.
var ErrInvalidRelationship = errors.New("invalid relationship edge")

// ErrInvalidLocation indicates a location profile with out-of-range fields.
var ErrInvalidLocation = errors.New("invalid location profile")

// ErrInvalidTuning indicates tuning parameters outside their legal ranges.
var ErrInvalidTuning = errors.New("invalid tuning")

// ErrUnknownCharacter indicates a character id that is not on the roster.
var ErrUnknownCharacter = errors.New("character not in roster")

// ErrNilSource indicates ExecuteWithSource was handed a nil source.
var ErrNilSource = errors.New("nil random source")

// ErrInternal indicates a broken invariant mid-resolution. The resolution is
// abandoned; no partial report is returned.
var ErrInternal = errors.New("internal resolution invariant violated")
