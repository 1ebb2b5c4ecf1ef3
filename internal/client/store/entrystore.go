// Package store holds the client's authoritative local view of journal data
// and mediates every mutation through an optimistic-apply, confirm-or-rollback
// protocol against the remote gateway.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/arthlor/yeser/internal/client/gateway"
	"github.com/arthlor/yeser/internal/client/models"
	"github.com/arthlor/yeser/internal/client/repositories/entries"
	"github.com/arthlor/yeser/internal/client/session"
	"github.com/arthlor/yeser/internal/client/validation"
	"github.com/arthlor/yeser/internal/logging"
)

// SessionSource provides the credentials for optimistic values and the
// subscription hook for sign-out resets.
type SessionSource interface {
	gateway.TokenSource
	Subscribe(fn session.Subscriber)
}

// EntryStore maps date keys to entries. A date is in one of three states:
// unknown (no map key), absent (key with nil value, backend confirmed no
// entry) or present. Mutations apply optimistically before the network round
// trip and roll back to the captured snapshot on failure, so the state for a
// date always matches either the pre-mutation snapshot or a gateway-confirmed
// canonical value.
//
// The mutex guards map integrity only; it is released across gateway calls.
// Concurrent mutations to the same date are not serialized; the last
// resolution wins, so callers serialize per date (e.g. by disabling input
// while a mutation is pending).
type EntryStore struct {
	mu        sync.Mutex
	gw        gateway.Gateway
	repo      entries.Repository
	validator *validation.Validator
	sess      SessionSource
	log       logging.Logger

	entries map[string]*models.Entry
	loading bool
	lastErr *StoreError

	now func() time.Time
}

// NewEntryStore builds a store, loads the persisted mirror, and subscribes
// to session changes so a sign-out wipes the cache.
func NewEntryStore(ctx context.Context, gw gateway.Gateway, repo entries.Repository, va *validation.Validator, sess SessionSource, log logging.Logger) *EntryStore {
	s := &EntryStore{
		gw:        gw,
		repo:      repo,
		validator: va,
		sess:      sess,
		log:       log.With("component", "entrystore"),
		entries:   make(map[string]*models.Entry),
		now:       time.Now,
	}

	if cached, err := repo.Load(ctx); err != nil {
		s.log.Warn(ctx, "could not load cached entries, starting empty", "err", err)
	} else {
		s.entries = cached
	}

	sess.Subscribe(func(e session.Event) {
		if e.Kind == session.SignedOut {
			s.Reset(context.Background())
		}
	})

	return s
}

// Entry returns a copy of the state for date. known is false when the date
// was never resolved; a (nil, true) result means backend-confirmed absent.
func (s *EntryStore) Entry(date string) (*models.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, known := s.entries[date]
	if e == nil {
		return nil, known
	}
	c := e.Clone()
	return &c, true
}

// Entries returns a copy of every known date state.
func (s *EntryStore) Entries() map[string]*models.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*models.Entry, len(s.entries))
	for date, e := range s.entries {
		if e == nil {
			out[date] = nil
			continue
		}
		c := e.Clone()
		out[date] = &c
	}
	return out
}

// Loading reports whether a fetch is in flight.
func (s *EntryStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last recorded failure, or nil. It clears on the next
// successful operation.
func (s *EntryStore) Err() *StoreError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *EntryStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *EntryStore) recordErr(e *StoreError) {
	s.mu.Lock()
	s.lastErr = e
	s.mu.Unlock()
}

// snapshot captures the current state for date. The returned entry is a
// deep copy; known is false for never-resolved dates. Caller holds mu.
func (s *EntryStore) snapshot(date string) (entry *models.Entry, known bool) {
	e, known := s.entries[date]
	if e == nil {
		return nil, known
	}
	c := e.Clone()
	return &c, true
}

// restore puts a captured snapshot back, including the transition back to
// unknown for dates that had never been resolved. Caller holds mu.
func (s *EntryStore) restore(date string, entry *models.Entry, known bool) {
	if !known {
		delete(s.entries, date)
		return
	}
	s.entries[date] = entry
}

// storeCanonical records a gateway-confirmed value (nil = absent) in memory
// and writes it through to the mirror. Mirror failures are logged, never
// surfaced: the in-memory state is already correct.
func (s *EntryStore) storeCanonical(ctx context.Context, date string, entry *models.Entry) {
	s.mu.Lock()
	s.entries[date] = entry
	s.lastErr = nil
	s.mu.Unlock()

	var err error
	if entry == nil {
		err = s.repo.MarkAbsent(ctx, date)
	} else {
		err = s.repo.Upsert(ctx, *entry)
	}
	if err != nil {
		s.log.Warn(ctx, "mirror write failed", "date", date, "err", err)
	}
}

// FetchByDate loads the canonical entry for a date. On failure the previous
// cached state for the date stays untouched. Concurrent calls for the same
// date are not deduplicated.
func (s *EntryStore) FetchByDate(ctx context.Context, date string) bool {
	if err := s.validator.CheckDateInput(date); err != nil {
		s.recordErr(translate(err))
		return false
	}

	s.setLoading(true)
	defer s.setLoading(false)

	entry, err := s.gw.FetchEntry(ctx, date)
	if err != nil {
		s.log.Warn(ctx, "fetch failed", "date", date, "err", err)
		s.recordErr(translate(err))
		return false
	}

	s.storeCanonical(ctx, date, entry)
	return true
}

// FetchAll replaces the whole cache with the backend's view.
func (s *EntryStore) FetchAll(ctx context.Context) bool {
	s.setLoading(true)
	defer s.setLoading(false)

	all, err := s.gw.FetchAllEntries(ctx)
	if err != nil {
		s.log.Warn(ctx, "fetch all failed", "err", err)
		s.recordErr(translate(err))
		return false
	}

	fresh := make(map[string]*models.Entry, len(all))
	for i := range all {
		e := all[i].Clone()
		fresh[e.Date] = &e
	}

	s.mu.Lock()
	s.entries = fresh
	s.lastErr = nil
	s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		s.log.Warn(ctx, "mirror clear failed", "err", err)
	} else {
		for _, e := range all {
			if err := s.repo.Upsert(ctx, e); err != nil {
				s.log.Warn(ctx, "mirror write failed", "date", e.Date, "err", err)
			}
		}
	}
	return true
}

// AppendStatement optimistically appends text to the entry for date, creating
// it when needed, then confirms against the gateway. On failure the snapshot
// is restored exactly, including removing an entry that only existed
// optimistically. The canonical entry is returned on success; on failure the
// error is available via Err, not via panic or a raw error value.
func (s *EntryStore) AppendStatement(ctx context.Context, date, text string) (*models.Entry, bool) {
	trimmed, err := s.validator.CheckAppendInput(date, text)
	if err != nil {
		s.recordErr(translate(err))
		return nil, false
	}

	now := s.now()

	s.mu.Lock()
	prev, known := s.snapshot(date)
	var optimistic models.Entry
	if prev == nil {
		optimistic = models.NewLocalEntry(s.sess.UserID(), date, trimmed, now)
	} else {
		optimistic = prev.WithAppended(trimmed, now)
	}
	s.entries[date] = &optimistic
	s.mu.Unlock()

	canonical, err := s.gw.AppendStatement(ctx, date, trimmed)
	if err != nil {
		s.log.Warn(ctx, "append failed, rolling back", "date", date, "err", err)
		s.mu.Lock()
		s.restore(date, prev, known)
		s.lastErr = translate(err)
		s.mu.Unlock()
		return nil, false
	}

	c := canonical.Clone()
	s.storeCanonical(ctx, date, &c)
	out := c.Clone()
	return &out, true
}

// EditStatementAt replaces the statement at index. A missing entry or an
// out-of-bounds index fails immediately with no state change and no network
// call. The gateway's edit returns nothing, so the canonical value comes from
// a re-fetch; any failure in the confirm path rolls back.
func (s *EntryStore) EditStatementAt(ctx context.Context, date string, index int, text string) (*models.Entry, bool) {
	trimmed, err := s.validator.CheckIndexedInput(date, index, text, true)
	if err != nil {
		s.recordErr(translate(err))
		return nil, false
	}

	now := s.now()

	s.mu.Lock()
	prev, known := s.snapshot(date)
	if prev == nil {
		s.lastErr = &StoreError{Kind: KindValidation, Message: "Nothing to edit for this day."}
		s.mu.Unlock()
		return nil, false
	}
	optimistic, ok := prev.WithReplacedAt(index, trimmed, now)
	if !ok {
		s.lastErr = &StoreError{Kind: KindValidation, Message: "That statement no longer exists."}
		s.mu.Unlock()
		return nil, false
	}
	s.entries[date] = &optimistic
	s.mu.Unlock()

	canonical, err := s.confirmByRefetch(ctx, date, func() error {
		return s.gw.EditStatementAt(ctx, date, index, trimmed)
	})
	if err != nil {
		s.log.Warn(ctx, "edit failed, rolling back", "date", date, "index", index, "err", err)
		s.mu.Lock()
		s.restore(date, prev, known)
		s.lastErr = translate(err)
		s.mu.Unlock()
		return nil, false
	}

	s.storeCanonical(ctx, date, canonical)
	if canonical == nil {
		return nil, true
	}
	out := canonical.Clone()
	return &out, true
}

// RemoveStatementAt deletes the statement at index. Removing the last
// statement collapses the date to absent; an entry is never stored with an
// empty statement list.
func (s *EntryStore) RemoveStatementAt(ctx context.Context, date string, index int) (*models.Entry, bool) {
	if _, err := s.validator.CheckIndexedInput(date, index, "", false); err != nil {
		s.recordErr(translate(err))
		return nil, false
	}

	now := s.now()

	s.mu.Lock()
	prev, known := s.snapshot(date)
	if prev == nil {
		s.lastErr = &StoreError{Kind: KindValidation, Message: "Nothing to remove for this day."}
		s.mu.Unlock()
		return nil, false
	}
	optimistic, ok := prev.WithRemovedAt(index, now)
	if !ok {
		s.lastErr = &StoreError{Kind: KindValidation, Message: "That statement no longer exists."}
		s.mu.Unlock()
		return nil, false
	}
	if len(optimistic.Statements) == 0 {
		s.entries[date] = nil
	} else {
		s.entries[date] = &optimistic
	}
	s.mu.Unlock()

	canonical, err := s.confirmByRefetch(ctx, date, func() error {
		return s.gw.RemoveStatementAt(ctx, date, index)
	})
	if err != nil {
		s.log.Warn(ctx, "remove failed, rolling back", "date", date, "index", index, "err", err)
		s.mu.Lock()
		s.restore(date, prev, known)
		s.lastErr = translate(err)
		s.mu.Unlock()
		return nil, false
	}

	s.storeCanonical(ctx, date, canonical)
	if canonical == nil {
		return nil, true
	}
	out := canonical.Clone()
	return &out, true
}

// DeleteEntry removes the whole entry for a date through the gateway's
// atomic delete, with the usual snapshot/rollback shape.
func (s *EntryStore) DeleteEntry(ctx context.Context, date string) bool {
	if err := s.validator.CheckDateInput(date); err != nil {
		s.recordErr(translate(err))
		return false
	}

	s.mu.Lock()
	prev, known := s.snapshot(date)
	s.entries[date] = nil
	s.mu.Unlock()

	if err := s.gw.DeleteEntry(ctx, date); err != nil {
		s.log.Warn(ctx, "delete failed, rolling back", "date", date, "err", err)
		s.mu.Lock()
		s.restore(date, prev, known)
		s.lastErr = translate(err)
		s.mu.Unlock()
		return false
	}

	s.storeCanonical(ctx, date, nil)
	return true
}

// confirmByRefetch runs a void mutation and then fetches the canonical state
// for date. The store only ever keeps snapshot or gateway-confirmed values,
// so a failure anywhere in the confirm path reports an error and the caller
// rolls back.
func (s *EntryStore) confirmByRefetch(ctx context.Context, date string, mutate func() error) (*models.Entry, error) {
	if err := mutate(); err != nil {
		return nil, err
	}
	return s.gw.FetchEntry(ctx, date)
}

// Reset drops all cached state, memory and mirror.
func (s *EntryStore) Reset(ctx context.Context) {
	s.mu.Lock()
	s.entries = make(map[string]*models.Entry)
	s.lastErr = nil
	s.loading = false
	s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		s.log.Warn(ctx, "mirror clear failed", "err", err)
	}
}
