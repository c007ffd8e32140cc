// Package prober performs single credential attempts against an FTP service.
//
// A Prober opens a fresh control connection per attempt, runs one login
// exchange (USER, PASS and, when asked for, ACCT), classifies the reply into
// a model.Outcome and closes the connection before returning. It never
// retries; retry and pacing policy belong to the caller.
//
// # Classification
//
//   - 2xx final reply to the login exchange: model.OutcomeAuthenticated
//   - 5xx reply to USER, PASS or ACCT: model.OutcomeRejected
//   - everything else (dial failure, timeout, DNS failure, non-2xx greeting,
//     4xx reply, malformed reply, CR/LF in a credential, unexpected panic):
//     model.OutcomeInconclusive
//
// Errors never cross the Prober boundary; this is the only place in ftpbrute
// where transport and protocol errors are translated.
//
// # Usage
//
//	p := prober.NewFTPProber(prober.WithLogger(logger))
//	outcome := p.Attempt(model.NewTarget("ftp.example.com", 5*time.Second),
//	    model.Credential{Username: "admin", Password: "hunter2"})
package prober
