// Package trial drives a prober.Prober across an ordered list of candidate
// passwords.
//
// A Sequencer holds only immutable settings (prober, pacing delay, observer).
// All mutable run state lives in a TrialState created by Run and discarded
// when it returns, so one Sequencer can serve any number of runs.
//
// Run tries candidates strictly in input order, stops at the first
// authenticated candidate, and waits the configured delay between
// consecutive attempts (never before the first or after the last).
// Rejected and inconclusive outcomes both continue to the next candidate;
// observers are told which one occurred.
package trial
