package prober

import "github.com/nao1215/ftpbrute/internal/model"

// Prober executes exactly one authentication attempt and classifies it.
// Implementations must release every resource they acquire before
// Attempt returns, on every path.
type Prober interface {
	Attempt(target model.Target, cred model.Credential) model.Outcome
}

// Func adapts an ordinary function to the Prober interface.
type Func func(target model.Target, cred model.Credential) model.Outcome

// Attempt calls f(target, cred).
func (f Func) Attempt(target model.Target, cred model.Credential) model.Outcome {
	return f(target, cred)
}
