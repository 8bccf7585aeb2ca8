package snapshot

import "errors"

var (
	// ErrIntegrity indicates a structurally inconsistent document: a
	// malformed allocation table or a dangling cross-reference. Detected
	// once at adoption, never during decisions.
	ErrIntegrity = errors.New("snapshot integrity violation")

	// ErrDecode indicates a datafile that could not be unmarshaled.
	ErrDecode = errors.New("failed to decode snapshot document")
)
