// Package session holds the current backend session and publishes typed
// change events so dependent stores can reset themselves explicitly instead
// of coupling through shared globals.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// EventKind classifies a session change.
type EventKind int

const (
	SignedIn EventKind = iota
	SignedOut
)

// Event is delivered to subscribers on every session change.
type Event struct {
	Kind   EventKind
	UserID string
}

// Subscriber receives session change events. Callbacks run synchronously on
// the goroutine that changed the session and must not block.
type Subscriber func(Event)

// Session keeps the current access token and the claims derived from it.
// The token is issued and verified by the backend; the client parses it
// unverified, only to read the subject and expiry.
type Session struct {
	mu          sync.RWMutex
	token       string
	userID      string
	expiresAt   time.Time
	subscribers []Subscriber
	now         func() time.Time
}

func New() *Session {
	return &Session{now: time.Now}
}

// Subscribe registers a change listener. Meant to be called once per store
// at construction time.
func (s *Session) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// SetToken installs a new access token, extracting the user id and expiry
// from its claims, and notifies subscribers.
func (s *Session) SetToken(token string) error {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return err
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return jwt.ErrTokenInvalidClaims
	}

	s.mu.Lock()
	s.token = token
	s.userID = sub
	s.expiresAt = exp.Time
	subs := make([]Subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(Event{Kind: SignedIn, UserID: sub})
	}
	return nil
}

// Clear drops the session and notifies subscribers of the sign-out.
func (s *Session) Clear() {
	s.mu.Lock()
	uid := s.userID
	s.token = ""
	s.userID = ""
	s.expiresAt = time.Time{}
	subs := make([]Subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(Event{Kind: SignedOut, UserID: uid})
	}
}

// Active reports whether a non-expired session is present.
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.now().Before(s.expiresAt)
}

// AccessToken returns the bearer token, or "" when the session is inactive.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || !s.now().Before(s.expiresAt) {
		return ""
	}
	return s.token
}

// UserID returns the session owner's identifier, or "" when inactive.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || !s.now().Before(s.expiresAt) {
		return ""
	}
	return s.userID
}
