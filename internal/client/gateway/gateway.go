// Package gateway is the client's interface to the journaling backend: table
// reads plus the statement-level RPC functions. The backend's transaction
// semantics are assumed, not reimplemented: append is atomic server-side,
// and removing the last statement removes the entry record.
package gateway

import (
	"context"

	"github.com/arthlor/yeser/internal/client/models"
)

// TokenSource supplies the current session credentials. Every gateway call
// requires an active session; an empty token fails the call immediately with
// ErrUnauthenticated before any request is made.
type TokenSource interface {
	// AccessToken returns the bearer token of the active session, or "" when
	// no session is active.
	AccessToken() string

	// UserID returns the identifier of the session owner, or "" when no
	// session is active.
	UserID() string
}

// Gateway exposes the backend operations the stores depend on.
type Gateway interface {
	// FetchEntry returns the canonical entry for a date, or (nil, nil) when
	// the backend has no record for it.
	FetchEntry(ctx context.Context, date string) (*models.Entry, error)

	// FetchAllEntries returns every entry of the session owner, newest date
	// first.
	FetchAllEntries(ctx context.Context) ([]models.Entry, error)

	// AppendStatement atomically appends text to the entry for date, creating
	// the entry if needed, and returns the full updated entry.
	AppendStatement(ctx context.Context, date, text string) (models.Entry, error)

	// EditStatementAt replaces the statement at index. The caller re-fetches
	// to observe the canonical result.
	EditStatementAt(ctx context.Context, date string, index int, text string) error

	// RemoveStatementAt deletes the statement at index. Removing the last
	// statement removes the entry record; the caller re-fetches to observe.
	RemoveStatementAt(ctx context.Context, date string, index int) error

	// DeleteEntry removes the whole entry for a date in one atomic call.
	DeleteEntry(ctx context.Context, date string) error

	// FetchStreak runs the server-side streak calculation.
	FetchStreak(ctx context.Context) (models.Streak, error)

	// FetchProfile returns the session owner's profile.
	FetchProfile(ctx context.Context) (models.Profile, error)
}
