package scenario

import (
	"fmt"
	"log"
)

// AssertionMode selects how unmet expectations are reported.
type AssertionMode int

const (
	// AssertionStrict fails the run on the first unmet expectation.
	AssertionStrict AssertionMode = iota
	// AssertionLogOnly logs unmet expectations and lets the run continue.
	AssertionLogOnly
)

func (m AssertionMode) String() string {
	if m == AssertionLogOnly {
		return "log-only"
	}
	return "strict"
}

// ParseAssertionMode maps a mode label to its AssertionMode.
func ParseAssertionMode(label string) (AssertionMode, bool) {
	switch label {
	case "strict":
		return AssertionStrict, true
	case "log-only":
		return AssertionLogOnly, true
	default:
		return AssertionStrict, false
	}
}

// Assertions reports expectation failures according to the configured mode.
type Assertions struct {
	Mode   AssertionMode
	Logger *log.Logger
}

// Failf reports a scenario defect. The mode never downgrades it.
func (a Assertions) Failf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// Assertf reports an unmet expectation. Strict mode returns an error;
// log-only mode logs it and returns nil.
func (a Assertions) Assertf(format string, args ...any) error {
	if a.Mode == AssertionLogOnly {
		if a.Logger != nil {
			a.Logger.Printf("assertion failed: "+format, args...)
		}
		return nil
	}
	return fmt.Errorf(format, args...)
}
