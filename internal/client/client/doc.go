// Package client contains the identity client of the Padho CLI.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) for the
//     backend auth endpoints: Login, Register, FetchSession, Logout and
//     ExchangeOAuthHandshake.
//  2. A concrete HTTP implementation (see HTTPClient). The session cookie set
//     by the backend is kept in the client's cookie jar and attached to every
//     request automatically; the package never reads its value.
//  3. Client-side validation of registration requests (see RegisterRequest).
//
// # Error Handling
//
// Backend and transport failures are mapped to sentinel errors that callers
// match with errors.Is: ErrInvalidCredentials, ErrEmailTaken, ErrValidation,
// ErrUnauthenticated, ErrInvalidHandshake, ErrNetwork. When the backend sent
// a detail message, the returned error is an *APIError wrapping the sentinel.
//
// The client holds no auth state of its own; it is safe for concurrent use.
package client
