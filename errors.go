package cddb

import "errors"

var (
	// ErrSessionClosed is returned by any operation attempted after
	// Close. Terminal; never retried.
	ErrSessionClosed = errors.New("cddb: session closed")

	// ErrNotLoggedIn is returned when query or read is attempted before a
	// successful Login. The check happens before any wire traffic.
	ErrNotLoggedIn = errors.New("cddb: not logged in")

	// ErrNoMirrors is returned by NewClient when the mirror list is empty.
	ErrNoMirrors = errors.New("cddb: no mirrors configured")
)
