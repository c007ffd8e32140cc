package config

import (
	"net"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/ftpbrute/internal/model"
)

// Default configuration values.
const (
	// DefaultUsername is the account tried when none is given.
	DefaultUsername = "admin"

	// DefaultWordlist is the wordlist path used when none is given.
	DefaultWordlist = "passwords.txt"

	// DefaultTimeout bounds connection setup and each control-channel
	// read or write of one attempt.
	DefaultTimeout = 5 * time.Second

	// DefaultDelay is the pause between consecutive attempts.
	DefaultDelay = 500 * time.Millisecond

	// AppName is the application name used for XDG directory paths.
	AppName = "ftpbrute"
)

// Config holds all options of one ftpbrute run.
// It is populated from CLI flags and the optional profile file, then passed
// down explicitly; nothing reads it from global state.
type Config struct {
	// Host is the FTP server to probe, optionally with ":port".
	Host string

	// Username is the account whose password is searched for.
	Username string

	// WordlistPath is the file holding candidate passwords, one per line.
	WordlistPath string

	// Timeout is the per-attempt connection and I/O timeout.
	Timeout time.Duration

	// Delay is the idle pause between two consecutive attempts.
	Delay time.Duration

	// SkipAnonymous disables the anonymous login check.
	SkipAnonymous bool

	// ProxyAddress is an optional SOCKS5 proxy ("host:port") to dial through.
	ProxyAddress string

	// Verbose enables debug-level logging.
	Verbose bool

	// ConfigFilePath is the explicitly requested profile file, if any.
	ConfigFilePath string

	// Profiles holds the loaded profile file. Never nil after buildConfig.
	Profiles *File

	// JSONReport writes the run report as JSON.
	JSONReport bool

	// MarkdownReport writes the run report as Markdown.
	MarkdownReport bool

	// ReportFile is where the report is written; stdout when empty.
	ReportFile string

	// DBDir is the directory of the run history database.
	DBDir string

	// SaveToDB controls whether the run is recorded in the history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Username:     DefaultUsername,
		WordlistPath: DefaultWordlist,
		Timeout:      DefaultTimeout,
		Delay:        DefaultDelay,
		Profiles:     &File{Hosts: make(map[string]Profile)},
		DBDir:        XDGDataDir(),
		SaveToDB:     true,
	}
}

// Target returns the immutable probe target described by the config.
func (c *Config) Target() model.Target {
	return model.NewTarget(c.Host, c.Timeout)
}

// XDGDataDir returns the XDG data directory for ftpbrute.
// On Linux: ~/.local/share/ftpbrute
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for ftpbrute.
// On Linux: ~/.config/ftpbrute
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.Host == "" {
		return ErrNoHost
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Delay < 0 {
		return ErrInvalidDelay
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.ProxyAddress != "" && !isValidProxyAddress(c.ProxyAddress) {
		return ErrInvalidProxyAddress
	}

	return nil
}

// isValidProxyAddress checks for a non-empty host and a port in 1..65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}

// SecondsToDuration converts a CLI seconds value to a time.Duration.
func SecondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
