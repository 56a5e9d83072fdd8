// Package services contains application services for the Padho client.
// This file defines the authentication service: the state machine that
// drives the identity client and is the only writer of the session store.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/padho/internal/client/client"
	"github.com/dmitrijs2005/padho/internal/client/models"
	"github.com/dmitrijs2005/padho/internal/client/session"
	"github.com/dmitrijs2005/padho/internal/logging"
)

// AuthService defines authentication operations for the client.
//
// Contract:
//   - Start: the one automatic transition, run once at process start.
//   - CheckAuth: refresh the session state from the backend.
//   - Login: authenticate, then confirm the identity via CheckAuth.
//   - Register: create an account; never changes the session state.
//   - Logout: end the session; always leaves the state anonymous.
//   - Session: read-only access to the session store for views.
//
// When two transitions overlap, the store reflects the most recently
// started one; results of superseded transitions are discarded.
type AuthService interface {
	Start(ctx context.Context)
	CheckAuth(ctx context.Context) models.AuthState
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, req client.RegisterRequest) error
	Logout(ctx context.Context) error
	Session() session.Reader
}

// authService is the concrete AuthService backed by an identity Client.
//
// mu serializes the begin/commit decisions. Store listeners are notified
// while mu is held, so they must not call back into the service.
type authService struct {
	client client.Client
	store  *session.Store
	log    logging.Logger

	mu           sync.Mutex
	seq          uint64
	lastTerminal *models.AuthState

	// sequence numbers of the newest Login and Logout transitions
	lastLogin  uint64
	lastLogout uint64

	startOnce sync.Once
}

// NewAuthService constructs an AuthService that owns store.
func NewAuthService(c client.Client, store *session.Store, log logging.Logger) AuthService {
	return &authService{
		client: c,
		store:  store,
		log:    log.With("component", "auth"),
	}
}

func (a *authService) Session() session.Reader {
	return a.store
}

// Start runs the initial CheckAuth. Later calls do nothing.
func (a *authService) Start(ctx context.Context) {
	a.startOnce.Do(func() {
		a.CheckAuth(ctx)
	})
}

// CheckAuth moves to loading and asks the backend for the current session.
// Unauthenticated and transport failures both end in anonymous, so the
// state never stays loading. It returns the store state after the attempt.
func (a *authService) CheckAuth(ctx context.Context) models.AuthState {
	a.checkAuth(ctx)
	return a.store.State()
}

// checkAuth reports the state it tried to commit and whether it was still
// the newest transition when it finished.
func (a *authService) checkAuth(ctx context.Context) (models.AuthState, bool) {
	n, _ := a.begin()

	var next models.AuthState
	u, err := a.client.FetchSession(ctx)
	switch {
	case err == nil:
		next = models.Authenticated(u)
	case errors.Is(err, client.ErrUnauthenticated):
		next = models.Anonymous()
	default:
		a.log.Warn(ctx, "session check failed, treating as anonymous", "error", err)
		next = models.Anonymous()
	}

	return next, a.commit(ctx, n, next)
}

// Login authenticates and then re-reads the session, so the stored user is
// the one the backend confirms rather than the login response. On failure
// the state returns to what it was before the attempt.
//
// A login overtaken by a newer transition returns nil without confirming
// and leaves the store to that transition. If the newer transition was a
// Logout, the credential the login just received is dropped again.
func (a *authService) Login(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return &client.APIError{Detail: "email and password are required", Err: client.ErrValidation}
	}

	n, prev := a.begin()
	a.mu.Lock()
	a.lastLogin = n
	a.mu.Unlock()

	if _, err := a.client.Login(ctx, strings.TrimSpace(email), password); err != nil {
		a.commit(ctx, n, prev)
		return fmt.Errorf("login: %w", err)
	}

	if current, revoke := a.superseded(n); !current {
		a.log.Debug(ctx, "login superseded before confirmation", "seq", n)
		if revoke {
			if err := a.client.Logout(ctx); err != nil {
				a.log.Warn(ctx, "dropping superseded login failed", "error", err)
			}
		}
		return nil
	}

	st, current := a.checkAuth(ctx)
	if current && st.Status != models.StatusAuthenticated {
		return fmt.Errorf("login: session not established: %w", client.ErrUnauthenticated)
	}
	return nil
}

// Register delegates to the identity client. Registration does not sign the
// user in; callers follow up with Login.
func (a *authService) Register(ctx context.Context, req client.RegisterRequest) error {
	if err := a.client.Register(ctx, req); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// Logout ends the backend session and commits anonymous whatever the
// backend answered. It never returns an error.
func (a *authService) Logout(ctx context.Context) error {
	n, _ := a.begin()
	a.mu.Lock()
	a.lastLogout = n
	a.mu.Unlock()

	if err := a.client.Logout(ctx); err != nil {
		a.log.Warn(ctx, "logout request failed, clearing local session anyway", "error", err)
	}

	a.commit(ctx, n, models.Anonymous())
	return nil
}

// begin starts a transition: it takes the next sequence number and shows
// loading. It also returns the terminal state to fall back to if the
// transition fails; before the first terminal state that is anonymous.
func (a *authService) begin() (uint64, models.AuthState) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.seq++
	prev := models.Anonymous()
	if a.lastTerminal != nil {
		prev = a.lastTerminal.Clone()
	}
	a.store.Set(models.Loading())
	return a.seq, prev
}

// superseded reports whether login transition n is still the newest and,
// if not, whether a Logout started after it with no Login since.
func (a *authService) superseded(n uint64) (current, revoke bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if n == a.seq {
		return true, false
	}
	return false, a.lastLogout > n && a.lastLogout > a.lastLogin
}

// commit stores next only if transition n is still the newest one.
func (a *authService) commit(ctx context.Context, n uint64, next models.AuthState) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if n != a.seq {
		a.log.Debug(ctx, "discarding stale transition result", "seq", n, "latest", a.seq, "status", next.Status)
		return false
	}

	a.store.Set(next)
	if next.Status.Terminal() {
		st := next.Clone()
		a.lastTerminal = &st
	}
	a.log.Info(ctx, "session state changed", "status", next.Status, "role", next.Role())
	return true
}
