package model

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// DefaultFTPPort is used when Target.Host carries no explicit port.
const DefaultFTPPort = 21

// Target identifies the FTP service under test.
// It is built once from configuration and never mutated afterwards.
type Target struct {
	// Host is a hostname or IP address, optionally with a port
	// ("ftp.example.com", "10.0.0.5:2121", "[::1]:21").
	Host string `json:"host"`

	// Timeout bounds the connection establishment and every single
	// control-channel read or write of one attempt. Must be positive;
	// the prober does not re-validate it.
	Timeout time.Duration `json:"timeout"`
}

// NewTarget returns a Target for host with the given timeout.
func NewTarget(host string, timeout time.Duration) Target {
	return Target{Host: strings.TrimSpace(host), Timeout: timeout}
}

// Address returns the "host:port" dial address of the target.
// The FTP default port is appended when Host has none.
func (t Target) Address() string {
	host := strings.TrimPrefix(t.Host, "ftp://")
	if idx := strings.Index(host, "/"); idx != -1 {
		host = host[:idx]
	}

	if h, p, err := net.SplitHostPort(host); err == nil && p != "" {
		return net.JoinHostPort(h, p)
	}

	// Bare IPv6 literal, with or without brackets.
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	return net.JoinHostPort(host, strconv.Itoa(DefaultFTPPort))
}

// Credential is a username/password pair tried in one attempt.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AnonymousUser is the conventional FTP anonymous login name.
const AnonymousUser = "anonymous"

// AnonymousCredential returns the credential used by the anonymous login check.
func AnonymousCredential() Credential {
	return Credential{Username: AnonymousUser, Password: ""}
}
