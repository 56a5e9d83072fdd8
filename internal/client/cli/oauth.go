package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/padho/internal/client/oauth"
)

// providerWait bounds how long Google waits for the browser to come back.
var providerWait = 5 * time.Minute

var ErrProviderTimeout = errors.New("timed out waiting for the identity provider")

// Google starts the provider sign-in: it listens on the loopback callback
// address, prints the provider address to open in a browser and waits until
// the redirect has been handled or providerWait elapses.
func (a *App) Google(ctx context.Context) error {
	srv := oauth.NewLoopbackServer(a.config.CallbackAddr(), a.callback, a.log)
	if err := srv.Listen(); err != nil {
		printlnFn("Google sign-in unavailable:", err.Error())
		return err
	}

	target, err := oauth.ProviderURL(a.config.ProviderURL, srv.CallbackURL())
	if err != nil {
		printlnFn("Google sign-in unavailable:", err.Error())
		return err
	}

	landed := make(chan string, 1)
	a.setLanded(landed)
	defer a.setLanded(nil)

	printlnFn("Open this address in your browser to continue:")
	printlnFn(target)

	wctx, cancel := context.WithTimeout(ctx, providerWait)
	defer cancel()

	g, gctx := errgroup.WithContext(wctx)
	g.Go(func() error {
		return srv.Serve(gctx)
	})
	g.Go(func() error {
		defer cancel()
		select {
		case path := <-landed:
			a.log.Debug(ctx, "provider sign-in finished", "landed", path)
			return nil
		case <-gctx.Done():
			if errors.Is(wctx.Err(), context.DeadlineExceeded) {
				printlnFn("No answer from the identity provider, sign-in cancelled")
				return ErrProviderTimeout
			}
			return nil
		}
	})
	return g.Wait()
}

// Callback finishes a provider sign-in from a redirect URL pasted by the
// user, for when the browser cannot reach the loopback address.
func (a *App) Callback(ctx context.Context, callbackURL string) error {
	err := a.callback.Handle(ctx, callbackURL)
	if errors.Is(err, oauth.ErrCallbackInFlight) {
		printlnFn("Authentication already in progress")
	}
	if err != nil {
		a.log.Info(ctx, "callback rejected", "error", err)
		return fmt.Errorf("callback: %w", err)
	}
	return nil
}

func (a *App) setLanded(ch chan string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.landed = ch
}
