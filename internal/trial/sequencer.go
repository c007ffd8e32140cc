package trial

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/ftpbrute/internal/model"
	"github.com/nao1215/ftpbrute/internal/prober"
)

// Sequencer runs the anonymous check and ordered password trials against a
// target through a prober.Prober.
type Sequencer struct {
	prober prober.Prober

	// delay is the idle wait between two consecutive attempts.
	delay time.Duration

	observer Observer
	logger   *slog.Logger

	// sleep waits for d or until ctx is done.
	sleep func(ctx context.Context, d time.Duration) error

	// now is the clock used to time attempts.
	now func() time.Time
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithDelay sets the pause inserted between consecutive attempts.
// Negative values are treated as zero.
func WithDelay(d time.Duration) Option {
	return func(s *Sequencer) {
		if d < 0 {
			d = 0
		}
		s.delay = d
	}
}

// WithObserver sets the observer notified of progress events.
func WithObserver(o Observer) Option {
	return func(s *Sequencer) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithLogger sets the logger used for diagnostic output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sequencer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSleeper replaces the function used to pace attempts.
// It must return ctx.Err() if ctx ends before d elapses.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Sequencer) {
		if sleep != nil {
			s.sleep = sleep
		}
	}
}

// WithClock replaces the clock used to measure attempt durations.
func WithClock(now func() time.Time) Option {
	return func(s *Sequencer) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSequencer creates a Sequencer that drives p.
func NewSequencer(p prober.Prober, opts ...Option) *Sequencer {
	s := &Sequencer{
		prober:   p,
		observer: NopObserver{},
		logger:   slog.Default(),
		sleep:    sleepContext,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Delay returns the configured pause between attempts.
func (s *Sequencer) Delay() time.Duration {
	return s.delay
}

// CheckAnonymous makes a single anonymous login attempt and reports whether
// it authenticated. Rejected and inconclusive outcomes both yield false.
// It does not pace, retry, or touch any run state.
func (s *Sequencer) CheckAnonymous(target model.Target) bool {
	outcome := s.prober.Attempt(target, model.AnonymousCredential())
	accepted := outcome == model.OutcomeAuthenticated

	s.logger.Debug("anonymous login check",
		"address", target.Address(),
		"outcome", outcome.String(),
	)
	s.observer.AnonymousChecked(target, accepted)

	return accepted
}

// Run tries passwords for username in order and stops at the first one the
// target accepts. It returns ErrNoCandidates without dialing if passwords
// is empty. When ctx is cancelled, Run stops before the next attempt and
// returns the partial result with ctx.Err(); an attempt already in flight
// always completes.
func (s *Sequencer) Run(ctx context.Context, target model.Target, username string, passwords []string) (Result, error) {
	if len(passwords) == 0 {
		return Result{}, ErrNoCandidates
	}

	total := len(passwords)
	state := newTrialState(passwords)

	s.logger.Info("starting password trials",
		"address", target.Address(),
		"user", username,
		"candidates", total,
		"delay", s.delay,
	)
	s.observer.RunStarted(target, username, total)

	err := s.run(ctx, state, target, username, total)
	result := state.result(total)

	s.observer.RunFinished(result)
	return result, err
}

func (s *Sequencer) run(ctx context.Context, state *TrialState, target model.Target, username string, total int) error {
	for index := 1; ; index++ {
		candidate, ok := state.next()
		if !ok {
			return nil
		}

		if index > 1 {
			if err := s.sleep(ctx, s.delay); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		state.AttemptsMade++
		s.observer.AttemptStarted(index, total, candidate)

		start := s.now()
		outcome := s.prober.Attempt(target, model.Credential{Username: username, Password: candidate})
		elapsed := s.now().Sub(start)

		s.observer.AttemptFinished(index, candidate, outcome, elapsed)

		switch outcome {
		case model.OutcomeAuthenticated:
			state.FoundPassword = candidate
			state.Found = true
			s.logger.Info("credential accepted", "user", username, "index", index)
			return nil
		case model.OutcomeRejected:
			s.logger.Debug("credential rejected", "index", index, "elapsed", elapsed)
		case model.OutcomeInconclusive:
			s.logger.Warn("attempt inconclusive, continuing",
				"address", target.Address(),
				"index", index,
				"elapsed", elapsed,
			)
		default:
			s.logger.Warn("unknown outcome, continuing", "index", index, "outcome", int(outcome))
		}
	}
}

// sleepContext waits for d unless ctx ends first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
