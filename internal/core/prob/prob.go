// Package prob implements the probability primitives for mission resolution.
package prob

import "math/rand"

// Source supplies the uniform draws consumed during a resolution. It is
// satisfied by *math/rand.Rand; tests and harnesses may supply a Scripted
// source instead.
type Source interface {
	// Float64 returns the next draw in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n). It panics if n <= 0.
	Intn(n int) int
}

// NewSource returns a Source seeded with the provided seed.
//
// # Determinism
//
// Two Sources created with the same seed produce the same draw sequence.
// Callers that need reproducible resolutions must route every draw through
// a single Source.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// Chance performs a single uniform draw against probability p and reports
// whether the event triggered.
//
// Exactly one draw is consumed on every call, including when p <= 0 (never
// triggers) and p >= 1 (always triggers). The draw stream therefore depends
// only on the sequence of calls, not on the probabilities passed.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Clamp01 clamps v to the closed interval [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Clamp clamps v to the closed interval [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
