package prob

import "fmt"

// Scripted is a Source that replays a fixed queue of draws. It exists so
// tests can force a specific resolution path without hunting for seeds.
//
// Float64 pops the next queued value. Intn maps the next queued value onto
// [0, n). Both panic once the queue is exhausted so a miscounted script
// fails loudly instead of drifting.
type Scripted struct {
	values []float64
	next   int
}

// Script returns a Scripted source that replays the provided values in order.
// Every value must be in [0, 1).
func Script(values ...float64) *Scripted {
	for i, v := range values {
		if v < 0 || v >= 1 {
			panic(fmt.Sprintf("prob: scripted value %d out of range [0, 1): %v", i, v))
		}
	}
	return &Scripted{values: values}
}

// Float64 returns the next scripted draw.
func (s *Scripted) Float64() float64 {
	if s.next >= len(s.values) {
		panic(fmt.Sprintf("prob: scripted source exhausted after %d draws", len(s.values)))
	}
	v := s.values[s.next]
	s.next++
	return v
}

// Intn maps the next scripted draw onto [0, n).
func (s *Scripted) Intn(n int) int {
	if n <= 0 {
		panic("prob: Intn with non-positive n")
	}
	idx := int(s.Float64() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// Remaining reports how many scripted draws are left unconsumed.
func (s *Scripted) Remaining() int {
	return len(s.values) - s.next
}
