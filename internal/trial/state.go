package trial

// TrialState is the mutable state of one Run. It is owned by that call
// alone and never shared.
type TrialState struct {
	// AttemptsMade equals the number of prober invocations issued so far.
	AttemptsMade int

	// FoundPassword is valid only when Found is true.
	FoundPassword string
	Found         bool

	// Remaining holds the candidates not tried yet, in order.
	Remaining []string
}

func newTrialState(passwords []string) *TrialState {
	remaining := make([]string, len(passwords))
	copy(remaining, passwords)
	return &TrialState{Remaining: remaining}
}

// next pops the next candidate.
func (s *TrialState) next() (string, bool) {
	if len(s.Remaining) == 0 {
		return "", false
	}
	candidate := s.Remaining[0]
	s.Remaining = s.Remaining[1:]
	return candidate, true
}

// Result is what a Run reports back to its caller.
type Result struct {
	// Password is the discovered password; meaningful only when Found.
	Password string

	Found bool

	// Attempts is the number of prober invocations the run issued.
	Attempts int

	// Total is the number of candidates the run was given.
	Total int
}

func (s *TrialState) result(total int) Result {
	return Result{
		Password: s.FoundPassword,
		Found:    s.Found,
		Attempts: s.AttemptsMade,
		Total:    total,
	}
}
