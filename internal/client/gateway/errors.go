package gateway

import "errors"

// Sentinel error kinds produced at the gateway boundary. Downstream code
// matches them with errors.Is instead of probing response shapes.
var (
	// ErrUnauthenticated means there is no active session, or the backend
	// rejected the credentials. Never retried.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrNotFound means the backend reports no record. Read paths map it to
	// "absent"; it is meaningless for mutations.
	ErrNotFound = errors.New("not found")

	// ErrRemote wraps network failures and backend-reported errors. For
	// mutations it triggers rollback of optimistic state; the user may retry.
	ErrRemote = errors.New("remote failure")
)
