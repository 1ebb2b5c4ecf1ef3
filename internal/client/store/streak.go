package store

import (
	"context"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/arthlor/yeser/internal/client/gateway"
	"github.com/arthlor/yeser/internal/client/models"
	"github.com/arthlor/yeser/internal/client/session"
	"github.com/arthlor/yeser/internal/logging"
)

// refreshRetryDelay is the fixed pause before the single automatic retry of
// a failed streak refresh. Statement mutations have no automatic retry; this
// is the only retry policy in the data layer.
const refreshRetryDelay = 1500 * time.Millisecond

// StreakStore caches the server-computed streak. Refresh retries exactly
// once on retryable failures, then gives up and surfaces the error.
type StreakStore struct {
	mu      sync.Mutex
	gw      gateway.Gateway
	log     logging.Logger
	streak  models.Streak
	fresh   bool
	lastErr *StoreError
}

func NewStreakStore(gw gateway.Gateway, sess SessionSource, log logging.Logger) *StreakStore {
	s := &StreakStore{gw: gw, log: log.With("component", "streakstore")}

	sess.Subscribe(func(e session.Event) {
		if e.Kind == session.SignedOut {
			s.Reset()
		}
	})

	return s
}

// Streak returns the cached streak; ok is false until the first successful
// refresh.
func (s *StreakStore) Streak() (models.Streak, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streak, s.fresh
}

// Err returns the last refresh failure, or nil.
func (s *StreakStore) Err() *StoreError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Refresh recomputes the streak via the backend RPC. Auth and validation
// failures fail immediately; remote failures get one retry after a constant
// delay.
func (s *StreakStore) Refresh(ctx context.Context) (models.Streak, bool) {
	var streak models.Streak

	backoff := retry.WithMaxRetries(1, retry.NewConstant(refreshRetryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		got, err := s.gw.FetchStreak(ctx)
		if err != nil {
			if retryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		streak = got
		return nil
	})

	if err != nil {
		s.log.Warn(ctx, "streak refresh failed", "err", err)
		s.mu.Lock()
		s.lastErr = translate(err)
		s.mu.Unlock()
		return models.Streak{}, false
	}

	s.mu.Lock()
	s.streak = streak
	s.fresh = true
	s.lastErr = nil
	s.mu.Unlock()
	return streak, true
}

// Reset clears the cached streak, e.g. after sign-out.
func (s *StreakStore) Reset() {
	s.mu.Lock()
	s.streak = models.Streak{}
	s.fresh = false
	s.lastErr = nil
	s.mu.Unlock()
}
