package session

import "errors"

// Sentinel errors surfaced to the shell so it can phrase the right toast.
var (
	// ErrLocked means another process holds the session lock.
	ErrLocked = errors.New("session file is locked by another process")
	// ErrCorrupt means the file could not be parsed or decompressed.
	ErrCorrupt = errors.New("session file is corrupt")
)
