package model

import (
	"fmt"
	"strings"
)

// Outcome is the classification of a single login attempt.
// Every attempt resolves to exactly one of the three values; transport and
// protocol errors never travel past the prober as error values.
type Outcome int

const (
	// OutcomeInconclusive means the attempt could not reach a verdict:
	// the connection was refused, timed out, the name did not resolve,
	// the server replied with a transient (4xx) or malformed response,
	// or anything else unexpected happened. It says nothing about
	// whether the credential is right.
	OutcomeInconclusive Outcome = iota

	// OutcomeRejected means the server explicitly refused the credential
	// with a permanent (5xx) reply during the login exchange.
	OutcomeRejected

	// OutcomeAuthenticated means the server accepted the credential.
	OutcomeAuthenticated
)

// String returns a lower-case name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeInconclusive:
		return "inconclusive"
	case OutcomeRejected:
		return "rejected"
	case OutcomeAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so outcomes appear by name
// in JSON reports.
func (o Outcome) MarshalText() ([]byte, error) {
	s := o.String()
	if s == "unknown" {
		return nil, fmt.Errorf("invalid outcome value %d", int(o))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(text []byte) error {
	parsed, err := ParseOutcome(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// ParseOutcome converts a name produced by String back into an Outcome.
// Matching is case-insensitive.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inconclusive":
		return OutcomeInconclusive, nil
	case "rejected":
		return OutcomeRejected, nil
	case "authenticated":
		return OutcomeAuthenticated, nil
	default:
		return OutcomeInconclusive, fmt.Errorf("unknown outcome %q", s)
	}
}
