package mission

// ClassifyInput is the tally a finished resolution feeds the classifier.
type ClassifyInput struct {
	Progress     float64
	Injured      int
	Captured     int
	Dead         int
	RosterSize   int
	Aborted      bool
	Catastrophes int
}

// Classify maps a finished resolution onto its outcome. The policy is a
// fixed priority order; the first matching rule wins:
//
//  1. aborted: the abort flag is set, regardless of progress achieved.
//  2. disaster: a strict majority of the roster is dead or captured, or a
//     catastrophic complication landed without forcing an abort.
//  3. critical_success: progress reached the critical boundary with zero
//     losses of any kind.
//  4. success: progress reached the success boundary with nobody dead or
//     captured and at most one injury.
//  5. partial_success: progress reached the partial boundary.
//  6. failure: everything else.
func Classify(in ClassifyInput, tun ClassifyTuning) Outcome {
	losses := in.Injured + in.Captured + in.Dead
	switch {
	case in.Aborted:
		return OutcomeAborted
	case (in.Dead+in.Captured)*2 > in.RosterSize || in.Catastrophes > 0:
		return OutcomeDisaster
	case in.Progress >= tun.CriticalProgress && losses == 0:
		return OutcomeCriticalSuccess
	case in.Progress >= tun.SuccessProgress && in.Dead == 0 && in.Captured == 0 && in.Injured <= 1:
		return OutcomeSuccess
	case in.Progress >= tun.PartialProgress:
		return OutcomePartialSuccess
	default:
		return OutcomeFailure
	}
}
