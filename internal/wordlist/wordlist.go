// Package wordlist loads candidate passwords from text files.
package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrNotFound is returned when the wordlist path does not exist.
	ErrNotFound = errors.New("wordlist file not found")

	// ErrNotAFile is returned when the wordlist path is a directory or
	// another non-regular file.
	ErrNotAFile = errors.New("wordlist path is not a file")

	// ErrEmpty is returned when the wordlist has no usable entries after
	// blank lines are dropped.
	ErrEmpty = errors.New("wordlist file is empty")
)

// maxLineSize bounds a single wordlist entry.
const maxLineSize = 1024 * 1024

// Load reads the wordlist at path and returns its entries in file order.
// Each line is trimmed of surrounding whitespace and blank lines are
// skipped; duplicates are kept.
func Load(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("error reading wordlist file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	f, err := os.Open(path) //nolint:gosec // User-provided wordlist path is intentional
	if err != nil {
		return nil, fmt.Errorf("error reading wordlist file: %w", err)
	}
	defer f.Close()

	passwords, err := Parse(f)
	if err != nil {
		if errors.Is(err, ErrEmpty) {
			return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
		}
		return nil, fmt.Errorf("error reading wordlist file: %w", err)
	}

	return passwords, nil
}

// Parse reads entries from r. Input is decoded as UTF-8 unless it starts
// with a UTF-16 byte order mark; byte sequences that are not valid UTF-8
// are dropped.
func Parse(r io.Reader) ([]string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())

	scanner := bufio.NewScanner(transform.NewReader(r, decoder))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	passwords := make([]string, 0)
	for scanner.Scan() {
		// The decoder turns invalid sequences into U+FFFD; drop them.
		line := strings.TrimSpace(strings.ReplaceAll(scanner.Text(), string(utf8.RuneError), ""))
		if line == "" {
			continue
		}
		passwords = append(passwords, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(passwords) == 0 {
		return nil, ErrEmpty
	}

	return passwords, nil
}
