package report

import (
	"time"

	"github.com/nao1215/ftpbrute/internal/model"
	"github.com/nao1215/ftpbrute/internal/trial"
)

// Recorder is a trial.Observer that builds a RunReport from sequencer events.
type Recorder struct {
	report *model.RunReport
	now    func() time.Time
}

var _ trial.Observer = (*Recorder)(nil)

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithRecorderClock replaces time.Now, for tests.
func WithRecorderClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRecorder starts recording into report.
func NewRecorder(report *model.RunReport, opts ...RecorderOption) *Recorder {
	r := &Recorder{report: report, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Report returns the report being recorded.
func (r *Recorder) Report() *model.RunReport {
	return r.report
}

// Finish stamps the finish time and marks the report interrupted when the
// run stopped early. It returns the completed report.
func (r *Recorder) Finish(interrupted bool) *model.RunReport {
	r.report.FinishedAt = r.now()
	r.report.Interrupted = interrupted
	return r.report
}

// AnonymousChecked records the anonymous check result.
func (r *Recorder) AnonymousChecked(_ model.Target, accepted bool) {
	if accepted {
		r.report.Anonymous = model.AnonymousAccepted
		return
	}
	r.report.Anonymous = model.AnonymousDenied
}

// RunStarted records the candidate count.
func (r *Recorder) RunStarted(target model.Target, _ string, total int) {
	r.report.Timeout = target.Timeout
	r.report.Candidates = total
}

// AttemptStarted is a no-op; attempts are recorded when they finish.
func (r *Recorder) AttemptStarted(int, int, string) {}

// AttemptFinished appends an attempt record.
func (r *Recorder) AttemptFinished(index int, _ string, outcome model.Outcome, elapsed time.Duration) {
	r.report.Attempts = append(r.report.Attempts, model.AttemptRecord{
		Index:   index,
		Outcome: outcome,
		Elapsed: elapsed,
	})
}

// RunFinished records the attempt count and any found password.
func (r *Recorder) RunFinished(result trial.Result) {
	r.report.AttemptsMade = result.Attempts
	r.report.Found = result.Found
	if result.Found {
		r.report.FoundPassword = result.Password
	}
}
