// Package models defines the value types of the journaling client and the
// pure mutation helpers the entry store builds its optimistic updates from.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date format used as the entry key, with no time
// component. One entry exists per (owner, date).
const DateLayout = "2006-01-02"

// localIDPrefix marks entry IDs assigned client-side before the first
// successful write. The backend replaces them with its own identifier.
const localIDPrefix = "local-"

// Entry holds every gratitude statement one user wrote on one calendar date.
// Statements keep insertion order; edit and delete address them by position.
type Entry struct {
	ID         string
	OwnerID    string
	Date       string
	Statements []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewLocalEntry builds the optimistic first entry for a date, before the
// backend has ever seen it. The ID is a temporary placeholder.
func NewLocalEntry(ownerID, date, text string, now time.Time) Entry {
	return Entry{
		ID:         localIDPrefix + uuid.NewString(),
		OwnerID:    ownerID,
		Date:       date,
		Statements: []string{text},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsLocal reports whether the entry still carries a client-assigned
// placeholder ID.
func (e Entry) IsLocal() bool {
	return len(e.ID) > len(localIDPrefix) && e.ID[:len(localIDPrefix)] == localIDPrefix
}

// Clone returns a deep copy, so a captured snapshot cannot be aliased by
// later mutations.
func (e Entry) Clone() Entry {
	out := e
	out.Statements = make([]string, len(e.Statements))
	copy(out.Statements, e.Statements)
	return out
}

// WithAppended returns a copy with text appended and UpdatedAt refreshed.
func (e Entry) WithAppended(text string, now time.Time) Entry {
	out := e.Clone()
	out.Statements = append(out.Statements, text)
	out.UpdatedAt = now
	return out
}

// WithReplacedAt returns a copy with the statement at index i replaced.
// ok is false when i is out of bounds; the receiver is never modified.
func (e Entry) WithReplacedAt(i int, text string, now time.Time) (Entry, bool) {
	if i < 0 || i >= len(e.Statements) {
		return Entry{}, false
	}
	out := e.Clone()
	out.Statements[i] = text
	out.UpdatedAt = now
	return out, true
}

// WithRemovedAt returns a copy with the statement at index i removed.
// An entry is never left with zero statements: when the last statement goes,
// the caller must treat the date as absent, which is signalled by an empty
// Statements slice in the returned value.
func (e Entry) WithRemovedAt(i int, now time.Time) (Entry, bool) {
	if i < 0 || i >= len(e.Statements) {
		return Entry{}, false
	}
	out := e.Clone()
	out.Statements = append(out.Statements[:i], out.Statements[i+1:]...)
	out.UpdatedAt = now
	return out, true
}

// ParseDate checks that s is a real calendar date in DateLayout form.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid entry date %q: %w", s, err)
	}
	return t, nil
}

// Today returns the current date key in the local time zone.
func Today() string {
	return time.Now().Format(DateLayout)
}
