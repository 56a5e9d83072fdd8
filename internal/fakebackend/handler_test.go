package fakebackend

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/padho/internal/client/models"
)

func newJarClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func TestBackend_LoginMeLogout(t *testing.T) {
	b := Start()
	defer b.Close()

	_, err := b.Service.Register("a@x.com", "secret1", "Asha", models.RoleInstructor)
	require.NoError(t, err)

	c := newJarClient(t)

	resp, err := c.Get(b.URL + "/api/auth/me")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = c.Post(b.URL+"/api/auth/login", "application/json",
		strings.NewReader(`{"email":"a@x.com","password":"secret1"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = c.Get(b.URL + "/api/auth/me")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = c.Post(b.URL+"/api/auth/logout", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 0, b.Service.ActiveSessions())

	require.EqualValues(t, 2, b.Handler.Hits("GET /api/auth/me"))
}

func TestService_RegisterDuplicateAndBadPassword(t *testing.T) {
	s := NewService()
	_, err := s.Register("a@x.com", "secret1", "Asha", models.RoleStudent)
	require.NoError(t, err)

	_, err = s.Register("A@x.com", "secret2", "Other", models.RoleStudent)
	require.ErrorIs(t, err, ErrAlreadyExists)

	_, _, err = s.Login("a@x.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidLogin)
}

func TestService_HandshakeIsOneShotAndCreatesStudent(t *testing.T) {
	s := NewService()
	s.AddHandshake("abc123", Identity{Email: "g@x.com", Name: "Gita"})

	u, token, err := s.Exchange("abc123")
	require.NoError(t, err)
	require.Equal(t, models.RoleStudent, u.Role)
	require.NotEmpty(t, token)

	_, _, err = s.Exchange("abc123")
	require.ErrorIs(t, err, ErrHandshakeRejected)
}

func TestService_ExpiredSessionIsRejected(t *testing.T) {
	s := NewService()
	_, err := s.Register("a@x.com", "secret1", "Asha", models.RoleStudent)
	require.NoError(t, err)
	_, token, err := s.Login("a@x.com", "secret1")
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(SessionTTL + time.Hour) }

	_, err = s.Me(token)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBackend_DevProviderRedirectsWithHandshake(t *testing.T) {
	b := Start()
	defer b.Close()

	c := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}

	resp, err := c.Get(b.URL + "/dev/provider?redirect=" +
		url.QueryEscape("http://127.0.0.1:8765/auth/callback") + "&email=g@x.com")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "/auth/callback", loc.Path)
	frag, err := url.ParseQuery(loc.Fragment)
	require.NoError(t, err)
	token := frag.Get("session_id")
	require.Len(t, token, 2*handshakeTokenBytes)

	u, _, err := b.Service.Exchange(token)
	require.NoError(t, err)
	require.Equal(t, "g@x.com", u.Email)
	require.Equal(t, DevProviderName, u.Name)

	resp, err = c.Get(b.URL + "/dev/provider?redirect=not-a-url")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
