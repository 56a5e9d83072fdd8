package client

import (
	"context"

	"github.com/dmitrijs2005/padho/internal/client/models"
)

// Client is the stateless request/response mapping to the auth backend.
type Client interface {
	// Login checks the credential pair. On success the backend also sets
	// the session cookie.
	Login(ctx context.Context, email, password string) (models.User, error)

	// Register creates an account. It does not establish a session.
	Register(ctx context.Context, req RegisterRequest) error

	// FetchSession returns the user bound to the current session cookie.
	FetchSession(ctx context.Context) (models.User, error)

	// Logout ends the session. Callers treat it as always successful.
	Logout(ctx context.Context) error

	// ExchangeOAuthHandshake trades a one-time handshake token for a session.
	ExchangeOAuthHandshake(ctx context.Context, handshakeToken string) error
}
