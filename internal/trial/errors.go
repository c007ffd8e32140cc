package trial

import "errors"

// ErrNoCandidates is returned by Run when the password list is empty.
// No connection is attempted in that case.
var ErrNoCandidates = errors.New("no candidate passwords: the wordlist is empty")
