package cli

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/padho/internal/client/guard"
	"github.com/dmitrijs2005/padho/internal/client/oauth"
	"github.com/dmitrijs2005/padho/internal/fakebackend"
)

// browse plays the browser's part: it follows the provider redirect by hand
// and forwards the fragment the way the callback page script does.
func browse(t *testing.T, providerURL string) {
	t.Helper()
	noFollow := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}

	resp, err := noFollow.Get(providerURL)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	require.Equal(t, guard.PathAuthCallback, loc.Path)

	complete := url.URL{
		Scheme:   loc.Scheme,
		Host:     loc.Host,
		Path:     guard.PathAuthCallback + "/complete",
		RawQuery: url.Values{"fragment": {loc.Fragment}}.Encode(),
	}
	resp, err = http.Get(complete.String())
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestApp_GoogleSignInThroughLoopback(t *testing.T) {
	b := fakebackend.Start()
	defer b.Close()

	out := captureOutput(t)
	a := newTestApp(t, b)
	ctx := context.Background()
	a.authService.Start(ctx)

	done := make(chan error, 1)
	go func() { done <- a.Google(ctx) }()

	var target string
	require.Eventually(t, func() bool {
		var ok bool
		target, ok = out.find(b.URL + "/dev/provider?")
		return ok
	}, 2*time.Second, 5*time.Millisecond)

	browse(t, target)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Google did not return after the redirect was handled")
	}

	assert.True(t, a.isLoggedIn())
	assert.Equal(t, fakebackend.DevProviderEmail, a.state().User.Email)
	assert.Equal(t, guard.PathStudentDashboard, a.currentLocation())
	assert.True(t, out.has("[ok] "+oauth.MsgSuccess))
	assert.EqualValues(t, 1, b.Handler.Hits("GET /api/auth/google"))
}

func TestApp_GoogleGivesUpAfterWaiting(t *testing.T) {
	orig := providerWait
	providerWait = 50 * time.Millisecond
	t.Cleanup(func() { providerWait = orig })

	b := fakebackend.Start()
	defer b.Close()

	out := captureOutput(t)
	a := newTestApp(t, b)

	err := a.Google(context.Background())
	require.ErrorIs(t, err, ErrProviderTimeout)
	assert.True(t, out.has("No answer from the identity provider, sign-in cancelled"))
	assert.False(t, a.isLoggedIn())
}

func TestApp_GoogleStopsWithContext(t *testing.T) {
	b := fakebackend.Start()
	defer b.Close()

	captureOutput(t)
	a := newTestApp(t, b)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Google(ctx) }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Google ignored cancellation")
	}
}

func TestApp_CallbackPasted(t *testing.T) {
	b := fakebackend.Start()
	defer b.Close()
	ctx := context.Background()

	t.Run("missing fragment fails without an exchange", func(t *testing.T) {
		out := captureOutput(t)
		a := newTestApp(t, b)
		a.authService.Start(ctx)

		err := a.Callback(ctx, "http://127.0.0.1:8765/auth/callback?session_id=ignored")
		require.ErrorIs(t, err, oauth.ErrMissingHandshakeToken)

		assert.True(t, out.has("[error] "+oauth.MsgFailure))
		assert.Equal(t, guard.PathHome, a.currentLocation())
		assert.EqualValues(t, 0, b.Handler.Hits("GET /api/auth/google"))
	})

	t.Run("valid fragment signs in", func(t *testing.T) {
		b.Service.AddHandshake("tok-1", fakebackend.Identity{Email: "neha@example.org", Name: "Neha"})
		out := captureOutput(t)
		a := newTestApp(t, b)
		a.authService.Start(ctx)

		require.NoError(t, a.Callback(ctx, "http://127.0.0.1:8765/auth/callback#session_id=tok-1"))

		assert.True(t, a.isLoggedIn())
		assert.True(t, out.has("== Student Dashboard =="))
		assert.True(t, strings.HasPrefix(a.getStatus(), "Neha (student)"))
	})

	t.Run("used token is rejected", func(t *testing.T) {
		out := captureOutput(t)
		a := newTestApp(t, b)
		a.authService.Start(ctx)

		err := a.Callback(ctx, "http://127.0.0.1:8765/auth/callback#session_id=tok-1")
		require.Error(t, err)
		assert.False(t, a.isLoggedIn())
		assert.True(t, out.has("[error] "+oauth.MsgFailure))
	})
}
