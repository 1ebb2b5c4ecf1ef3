// Package entries persists the entry store's cached view in a local SQLite
// database so it survives process restarts. The mirror is never the source
// of truth; the backend is.
package entries

import (
	"context"

	"github.com/arthlor/yeser/internal/client/models"
)

// Repository mirrors the per-date cache. A date maps either to an entry or
// to a recorded "absent" marker; dates never fetched have no row at all.
type Repository interface {
	// Upsert stores or replaces the cached entry for its date.
	Upsert(ctx context.Context, entry models.Entry) error

	// MarkAbsent records that the backend has no entry for the date.
	MarkAbsent(ctx context.Context, date string) error

	// Forget removes the row for a date entirely (state becomes unknown).
	Forget(ctx context.Context, date string) error

	// Load returns the whole mirror: date -> entry, or date -> nil for
	// recorded absences.
	Load(ctx context.Context) (map[string]*models.Entry, error)

	// Clear wipes the mirror, e.g. on sign-out.
	Clear(ctx context.Context) error
}
