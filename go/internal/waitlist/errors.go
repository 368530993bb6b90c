package waitlist

import "errors"

// Local precondition failures. None of these ever reaches the network.
var (
	// ErrUnauthenticated is returned when an action is attempted without a session.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrUnknownDrop is returned when the drop is not in the cache, so the
	// claim window cannot be evaluated.
	ErrUnknownDrop = errors.New("unknown drop")

	// ErrWindowClosed is returned when joining after the claim window ended.
	ErrWindowClosed = errors.New("claim window closed")

	// ErrWindowNotOpen is returned when claiming outside the open window.
	ErrWindowNotOpen = errors.New("claim window not open")
)
