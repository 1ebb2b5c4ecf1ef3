package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestSetToken_ExtractsClaims(t *testing.T) {
	s := New()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, s.SetToken(signedToken(t, "u1", exp)))

	assert.True(t, s.Active())
	assert.Equal(t, "u1", s.UserID())
	assert.NotEmpty(t, s.AccessToken())
}

func TestSetToken_RejectsGarbage(t *testing.T) {
	s := New()

	assert.Error(t, s.SetToken("not-a-jwt"))
	assert.False(t, s.Active())
}

func TestExpiredTokenIsInactive(t *testing.T) {
	s := New()
	require.NoError(t, s.SetToken(signedToken(t, "u1", time.Now().Add(time.Hour))))

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	assert.False(t, s.Active())
	assert.Empty(t, s.AccessToken())
	assert.Empty(t, s.UserID())
}

func TestClear_DropsSession(t *testing.T) {
	s := New()
	require.NoError(t, s.SetToken(signedToken(t, "u1", time.Now().Add(time.Hour))))

	s.Clear()

	assert.False(t, s.Active())
	assert.Empty(t, s.AccessToken())
}

func TestSubscribers_ReceiveEvents(t *testing.T) {
	s := New()
	var events []Event
	s.Subscribe(func(e Event) { events = append(events, e) })

	require.NoError(t, s.SetToken(signedToken(t, "u1", time.Now().Add(time.Hour))))
	s.Clear()

	require.Len(t, events, 2)
	assert.Equal(t, Event{Kind: SignedIn, UserID: "u1"}, events[0])
	assert.Equal(t, Event{Kind: SignedOut, UserID: "u1"}, events[1])
}
