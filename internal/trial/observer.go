package trial

import (
	"time"

	"github.com/nao1215/ftpbrute/internal/model"
)

// Observer receives progress events from a Sequencer. Implementations are
// called synchronously from the sequencing goroutine.
type Observer interface {
	// AnonymousChecked reports the result of CheckAnonymous.
	AnonymousChecked(target model.Target, accepted bool)

	// RunStarted is called once before the first attempt of Run.
	RunStarted(target model.Target, username string, total int)

	// AttemptStarted is called right before attempt index (1-based) of total.
	AttemptStarted(index, total int, password string)

	// AttemptFinished is called with the classification of attempt index.
	AttemptFinished(index int, password string, outcome model.Outcome, elapsed time.Duration)

	// RunFinished is called once when Run returns, including on cancellation.
	RunFinished(result Result)
}

// NopObserver ignores every event.
type NopObserver struct{}

// AnonymousChecked does nothing.
func (NopObserver) AnonymousChecked(model.Target, bool) {}

// RunStarted does nothing.
func (NopObserver) RunStarted(model.Target, string, int) {}

// AttemptStarted does nothing.
func (NopObserver) AttemptStarted(int, int, string) {}

// AttemptFinished does nothing.
func (NopObserver) AttemptFinished(int, string, model.Outcome, time.Duration) {}

// RunFinished does nothing.
func (NopObserver) RunFinished(Result) {}

// MultiObserver fans events out to several observers in order.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver returns an Observer that forwards to all non-nil observers.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	m := &MultiObserver{}
	for _, o := range observers {
		if o != nil {
			m.observers = append(m.observers, o)
		}
	}
	return m
}

// AnonymousChecked forwards the event to every observer.
func (m *MultiObserver) AnonymousChecked(target model.Target, accepted bool) {
	for _, o := range m.observers {
		o.AnonymousChecked(target, accepted)
	}
}

// RunStarted forwards the event to every observer.
func (m *MultiObserver) RunStarted(target model.Target, username string, total int) {
	for _, o := range m.observers {
		o.RunStarted(target, username, total)
	}
}

// AttemptStarted forwards the event to every observer.
func (m *MultiObserver) AttemptStarted(index, total int, password string) {
	for _, o := range m.observers {
		o.AttemptStarted(index, total, password)
	}
}

// AttemptFinished forwards the event to every observer.
func (m *MultiObserver) AttemptFinished(index int, password string, outcome model.Outcome, elapsed time.Duration) {
	for _, o := range m.observers {
		o.AttemptFinished(index, password, outcome, elapsed)
	}
}

// RunFinished forwards the event to every observer.
func (m *MultiObserver) RunFinished(result Result) {
	for _, o := range m.observers {
		o.RunFinished(result)
	}
}
