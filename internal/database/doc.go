// Package database stores ftpbrute run history in SQLite.
//
// RunDB keeps one row per finished run, with the full report serialized as
// JSON, plus an attempts table holding the outcome and duration of every
// attempt. Candidate passwords are not written to the attempts table; only
// a discovered password is kept, as part of its run's report.
//
// The database lives in a single file (modernc.org/sqlite, no cgo) under
// the XDG data directory by default.
package database
