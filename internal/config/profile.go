package config

import (
	"net"
	"time"
)

// Profile holds per-host settings from the profile file. Zero values mean
// "not set" and leave the built-in default or the CLI flag in place.
type Profile struct {
	// Username overrides the account to test.
	Username string `yaml:"username,omitempty"`

	// Wordlist overrides the wordlist path.
	Wordlist string `yaml:"wordlist,omitempty"`

	// Timeout overrides the per-attempt timeout, e.g. "10s".
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Delay overrides the pause between attempts, e.g. "2s". A pointer so
	// that an explicit "0s" can be told apart from an absent value.
	Delay *time.Duration `yaml:"delay,omitempty"`

	// SkipAnonymous overrides the anonymous check switch.
	SkipAnonymous *bool `yaml:"skipAnonymous,omitempty"`

	// Proxy is a SOCKS5 proxy address for this host.
	Proxy string `yaml:"proxy,omitempty"`
}

// File represents the structure of the .ftpbrute profile file.
type File struct {
	// Hosts maps a host (with or without port) to its profile.
	Hosts map[string]Profile `yaml:"hosts,omitempty"`

	// Defaults applies to every host unless overridden in Hosts.
	Defaults Profile `yaml:"defaults,omitempty"`
}

// ProfileFor returns the merged profile for host: defaults first, then the
// entry matching host exactly, or failing that its bare hostname.
func (f *File) ProfileFor(host string) Profile {
	result := f.Defaults

	entry, ok := f.Hosts[host]
	if !ok {
		if h, _, err := net.SplitHostPort(host); err == nil {
			entry, ok = f.Hosts[h]
		}
	}
	if !ok {
		return result
	}

	if entry.Username != "" {
		result.Username = entry.Username
	}
	if entry.Wordlist != "" {
		result.Wordlist = entry.Wordlist
	}
	if entry.Timeout != 0 {
		result.Timeout = entry.Timeout
	}
	if entry.Delay != nil {
		result.Delay = entry.Delay
	}
	if entry.SkipAnonymous != nil {
		result.SkipAnonymous = entry.SkipAnonymous
	}
	if entry.Proxy != "" {
		result.Proxy = entry.Proxy
	}

	return result
}

// ApplyProfile copies the values set in p into c, except for settings the
// user gave explicitly on the command line. isSet reports whether a CLI
// flag was given; flag names are "username", "wordlist", "timeout",
// "delay", "skip-anonymous" and "proxy".
func (c *Config) ApplyProfile(p Profile, isSet func(flag string) bool) {
	if isSet == nil {
		isSet = func(string) bool { return false }
	}

	if p.Username != "" && !isSet("username") {
		c.Username = p.Username
	}
	if p.Wordlist != "" && !isSet("wordlist") {
		c.WordlistPath = p.Wordlist
	}
	if p.Timeout != 0 && !isSet("timeout") {
		c.Timeout = p.Timeout
	}
	if p.Delay != nil && !isSet("delay") {
		c.Delay = *p.Delay
	}
	if p.SkipAnonymous != nil && !isSet("skip-anonymous") {
		c.SkipAnonymous = *p.SkipAnonymous
	}
	if p.Proxy != "" && !isSet("proxy") {
		c.ProxyAddress = p.Proxy
	}
}
