package model

import "time"

// AnonymousStatus records what happened to the anonymous login check of a run.
type AnonymousStatus string

const (
	// AnonymousSkipped means the check was disabled by configuration.
	AnonymousSkipped AnonymousStatus = "skipped"

	// AnonymousDenied means the check ran and did not authenticate.
	AnonymousDenied AnonymousStatus = "denied"

	// AnonymousAccepted means the server accepted an anonymous login.
	AnonymousAccepted AnonymousStatus = "accepted"
)

// AttemptRecord is one entry of the per-attempt log of a run.
// The candidate password itself is not kept here; only the found
// password is part of the report.
type AttemptRecord struct {
	// Index is the 1-based position of the candidate in the wordlist.
	Index int `json:"index"`

	// Outcome is the classification returned by the prober.
	Outcome Outcome `json:"outcome"`

	// Elapsed is the wall time the attempt took.
	Elapsed time.Duration `json:"elapsed"`
}

// RunReport summarises a single ftpbrute run against one target.
type RunReport struct {
	// ID is assigned by the history database; zero until saved.
	ID int64 `json:"id,omitempty"`

	Host     string        `json:"host"`
	Username string        `json:"username"`
	Wordlist string        `json:"wordlist,omitempty"`
	Timeout  time.Duration `json:"timeout"`
	Delay    time.Duration `json:"delay"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Anonymous AnonymousStatus `json:"anonymous"`

	// Candidates is the number of passwords loaded from the wordlist.
	Candidates int `json:"candidates"`

	// AttemptsMade counts brute-force attempts; the anonymous check is
	// not included.
	AttemptsMade int `json:"attempts_made"`

	Attempts []AttemptRecord `json:"attempts,omitempty"`

	Found         bool   `json:"found"`
	FoundPassword string `json:"found_password,omitempty"`

	// Interrupted is set when the run was cancelled before exhausting
	// the wordlist.
	Interrupted bool `json:"interrupted,omitempty"`
}

// NewRunReport creates a report for the given target and username.
func NewRunReport(host, username string) *RunReport {
	return &RunReport{
		Host:      host,
		Username:  username,
		StartedAt: time.Now(),
		Anonymous: AnonymousSkipped,
		Attempts:  make([]AttemptRecord, 0),
	}
}

// Succeeded reports whether the run ended with working access,
// either anonymously or with a discovered password.
func (r *RunReport) Succeeded() bool {
	return r.Found || r.Anonymous == AnonymousAccepted
}

// CountOutcome returns how many recorded attempts had the given outcome.
func (r *RunReport) CountOutcome(o Outcome) int {
	n := 0
	for _, a := range r.Attempts {
		if a.Outcome == o {
			n++
		}
	}
	return n
}

// Duration returns the wall time of the run, or zero if it has not finished.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
