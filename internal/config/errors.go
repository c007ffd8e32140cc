package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and can be matched with
// errors.Is. All of them are fatal before any connection is attempted.
var (
	// ErrNoHost is returned when no target host is given.
	ErrNoHost = errors.New("no target specified: --host is required")

	// ErrInvalidTimeout is returned when the connection timeout is not positive.
	ErrInvalidTimeout = errors.New("timeout must be greater than 0")

	// ErrInvalidDelay is returned when the delay between attempts is negative.
	// Use 0 for no delay.
	ErrInvalidDelay = errors.New("delay cannot be negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidProxyAddress is returned when the SOCKS5 proxy address is not
	// in "host:port" form.
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")
)
