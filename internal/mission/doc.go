// Package mission resolves a single tactical mission attempted by a small
// team of insurgents. Given the team's psychological and skill state, the
// target's risk profile, and the mission parameters, it produces a
// structured outcome through five sequential phases (planning,
// infiltration, execution, extraction, aftermath) with cascading
// consequences between them.
//
// The package is a pure library: it performs no I/O, reads no clocks or
// ambient randomness, and never logs. Every draw flows through one
// prob.Source owned by the executor, so a resolution is a deterministic
// function of (Brief, Tuning, seed). Callers receive a Report for
// presentation and intelligence subsystems and a StateDeltas of proposed
// persistent changes; applying the deltas atomically is the caller's
// responsibility.
//
// Aborts, betrayals, and disasters are classifications on the Report, never
// errors. Errors are reserved for rejected configuration (validated before
// any phase runs) and broken internal invariants.
package mission
