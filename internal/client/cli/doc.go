// Package cli provides the interactive Padho command-line client.
//
// The REPL stands in for the browser application: it opens views by address
// through the route guard, drives sign-in, registration and sign-out through
// the auth service, and receives the identity provider's redirect on a
// loopback address. The startup session check runs in the background, so
// the first view opened may show a loading placeholder until it settles.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and (*App).Google for details.
package cli
