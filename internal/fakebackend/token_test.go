package fakebackend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/padho/internal/client/models"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	key := []byte("k1")
	now := time.Now()

	tok, err := signSession("user-1", "sess-1", key, now, now.Add(time.Hour))
	require.NoError(t, err)

	sid, uid, err := parseSession(tok, key, time.Now)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", sid)
	assert.Equal(t, "user-1", uid)

	_, _, err = parseSession(tok, []byte("other"), time.Now)
	assert.Error(t, err)

	later := func() time.Time { return now.Add(2 * time.Hour) }
	_, _, err = parseSession(tok, key, later)
	assert.Error(t, err)

	_, _, err = parseSession("not-a-token", key, time.Now)
	assert.Error(t, err)
}

func TestService_LogoutRevokesSignedToken(t *testing.T) {
	s := NewService()
	_, err := s.Register("a@x.com", "secret1", "Asha", models.RoleStudent)
	require.NoError(t, err)
	_, token, err := s.Login("a@x.com", "secret1")
	require.NoError(t, err)

	_, err = s.Me(token)
	require.NoError(t, err)

	s.Logout(token)
	_, err = s.Me(token)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, s.ActiveSessions())

	// a token signed by another process is never accepted
	other := NewService()
	_, err = other.Me(token)
	assert.ErrorIs(t, err, ErrNotFound)
}
