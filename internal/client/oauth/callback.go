// Package oauth completes the identity provider's redirect handshake.
//
// The provider is reached by a full-page navigation (see ProviderURL) and
// sends the browser back to the callback address with a one-time token in
// the URL fragment. The two sides share nothing but that URL and the session
// cookie the backend sets during the exchange; the resulting identity is
// rebuilt through CheckAuth.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/dmitrijs2005/padho/internal/client/client"
	"github.com/dmitrijs2005/padho/internal/client/guard"
	"github.com/dmitrijs2005/padho/internal/client/models"
	"github.com/dmitrijs2005/padho/internal/logging"
)

// HandshakeParam is the fragment parameter carrying the handshake token.
const HandshakeParam = "session_id"

const (
	MsgSuccess = "Login successful!"
	MsgFailure = "Authentication failed"
)

var (
	ErrMissingHandshakeToken = errors.New("missing handshake token")
	ErrCallbackInFlight      = errors.New("callback already in progress")
)

// Exchanger trades a handshake token for a backend session.
type Exchanger interface {
	ExchangeOAuthHandshake(ctx context.Context, handshakeToken string) error
}

// SessionChecker refreshes the session state after the exchange.
type SessionChecker interface {
	CheckAuth(ctx context.Context) models.AuthState
}

// Navigator moves the application to another address.
type Navigator interface {
	Navigate(path string)
}

// Notifier shows a user-visible notice.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// CallbackHandler runs the one-shot flow at the callback address.
type CallbackHandler struct {
	exchanger Exchanger
	auth      SessionChecker
	nav       Navigator
	notify    Notifier
	log       logging.Logger

	inFlight atomic.Bool
}

func NewCallbackHandler(ex Exchanger, auth SessionChecker, nav Navigator, notify Notifier, log logging.Logger) *CallbackHandler {
	return &CallbackHandler{
		exchanger: ex,
		auth:      auth,
		nav:       nav,
		notify:    notify,
		log:       log.With("component", "oauth_callback"),
	}
}

// Handle completes the handshake for callbackURL. Every path ends with a
// navigation: the role's landing view on success, the public home otherwise.
// A call made while another is running returns ErrCallbackInFlight and does
// nothing else.
func (h *CallbackHandler) Handle(ctx context.Context, callbackURL string) error {
	if !h.inFlight.CompareAndSwap(false, true) {
		return ErrCallbackInFlight
	}
	defer h.inFlight.Store(false)

	token, err := HandshakeToken(callbackURL)
	if err != nil {
		return h.fail(ctx, err)
	}

	if err := h.exchanger.ExchangeOAuthHandshake(ctx, token); err != nil {
		return h.fail(ctx, fmt.Errorf("exchange handshake: %w", err))
	}

	st := h.auth.CheckAuth(ctx)
	if st.Status != models.StatusAuthenticated {
		return h.fail(ctx, fmt.Errorf("exchange handshake: session not established: %w", client.ErrUnauthenticated))
	}

	h.log.Info(ctx, "oauth login completed", "role", st.Role())
	h.notify.Success(MsgSuccess)
	h.nav.Navigate(guard.LandingPath(st.Role()))
	return nil
}

func (h *CallbackHandler) fail(ctx context.Context, err error) error {
	h.log.Warn(ctx, "oauth callback failed", "error", err)
	h.notify.Error(MsgFailure)
	h.nav.Navigate(guard.PathHome)
	return err
}

// HandshakeToken extracts the token from the fragment of callbackURL.
// The query string is never consulted.
func HandshakeToken(callbackURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(callbackURL))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingHandshakeToken, err)
	}

	frag := u.EscapedFragment()
	if frag == "" {
		return "", ErrMissingHandshakeToken
	}
	params, err := url.ParseQuery(frag)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingHandshakeToken, err)
	}

	token := strings.TrimSpace(params.Get(HandshakeParam))
	if token == "" {
		return "", ErrMissingHandshakeToken
	}
	return token, nil
}

// ProviderURL is the address of the provider's sign-in page that redirects
// back to callbackURL.
func ProviderURL(providerBase, callbackURL string) (string, error) {
	u, err := url.Parse(providerBase)
	if err != nil {
		return "", fmt.Errorf("parse provider url: %w", err)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	q := u.Query()
	q.Set("redirect", callbackURL)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
