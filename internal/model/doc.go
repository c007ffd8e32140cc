// Package model defines the data structures shared by the ftpbrute packages.
//
// This package contains the following main types:
//   - Target: the FTP endpoint under test and its per-attempt timeout
//   - Credential: a username/password pair handed to the prober
//   - Outcome: the closed three-valued classification of one login attempt
//   - RunReport: the summary of one run, used by report writers and history
//
// The models are serializable to JSON for report output and database storage.
package model
