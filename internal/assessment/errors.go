package assessment

import "errors"

// Sentinel errors returned by catalog resolution and session operations.
// Callers are expected to match them with errors.Is and map them to
// transport-level error codes.
var (
	// ErrInvalidCatalog indicates an empty or malformed question set.
	// It is fatal to session creation; no session state exists afterwards.
	ErrInvalidCatalog = errors.New("invalid question catalog")

	// ErrOutOfRange indicates a question position outside [0, len).
	// The session remains usable.
	ErrOutOfRange = errors.New("question position out of range")

	// ErrSessionClosed indicates a mutation attempted after completion.
	// The session remains in its completed state, unaffected.
	ErrSessionClosed = errors.New("session already completed")
)
