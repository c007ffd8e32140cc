// Package config provides configuration structures and utilities for ftpbrute.
// It defines the run settings (target, credentials source, timing), the
// optional YAML profile file, and the XDG locations used for history data.
package config
