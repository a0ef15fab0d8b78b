package app

import "errors"

// Sentinel errors for caller-correctable conditions. Handlers map these to
// HTTP statuses; anything not matched here is an internal failure logged
// server-side and surfaced as a stable generic message.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("authentication required")
	ErrSessionNotFound = errors.New("session not found")
	ErrSpaceNotFound   = errors.New("space not found")
	ErrFileNotFound    = errors.New("file not found")
	ErrSpaceProcessing = errors.New("files cannot be uploaded while the space is processing")

	// Authorization failures deliberately carry generic messages so the
	// response leaks neither resource existence nor path structure.
	ErrNotOwner   = errors.New("not authorized to access this space")
	ErrPathEscape = errors.New("access denied")
)
