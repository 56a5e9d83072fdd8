package oauth

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/padho/internal/client/guard"
	"github.com/dmitrijs2005/padho/internal/logging"
)

const pathComplete = guard.PathAuthCallback + "/complete"

const shutdownTimeout = 3 * time.Second

// The fragment never reaches a server, so the callback page forwards it
// to the complete endpoint as a query parameter.
var callbackPage = template.Must(template.New("callback").Parse(`<!doctype html>
<html><head><title>Completing authentication...</title></head>
<body>
<p>Completing authentication...</p>
<script>
window.location.replace({{.}} + "?fragment=" + encodeURIComponent(window.location.hash.substring(1)));
</script>
</body></html>
`))

var resultPage = template.Must(template.New("result").Parse(`<!doctype html>
<html><head><title>{{.}}</title></head>
<body><p>{{.}}</p><p>You can close this window and return to the terminal.</p></body></html>
`))

// LoopbackServer receives the provider's redirect on a local address and
// hands it to a CallbackHandler.
type LoopbackServer struct {
	addr    string
	handler *CallbackHandler
	log     logging.Logger

	ln  net.Listener
	srv *http.Server
}

func NewLoopbackServer(addr string, h *CallbackHandler, log logging.Logger) *LoopbackServer {
	s := &LoopbackServer{addr: addr, handler: h, log: log.With("component", "oauth_loopback")}
	s.srv = &http.Server{Handler: s.Router(), ReadHeaderTimeout: 5 * time.Second}
	return s
}

// Router exposes the callback routes.
func (s *LoopbackServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get(guard.PathAuthCallback, s.callback)
	r.Get(pathComplete, s.complete)
	return r
}

// Listen binds the listening socket so CallbackURL is known before Serve.
func (s *LoopbackServer) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.ln = ln
	return nil
}

// CallbackURL is the address to register as the provider's redirect target.
func (s *LoopbackServer) CallbackURL() string {
	host := s.addr
	if s.ln != nil {
		host = s.ln.Addr().String()
	}
	return (&url.URL{Scheme: "http", Host: host, Path: guard.PathAuthCallback}).String()
}

// Serve runs until ctx is done, then shuts the server down.
func (s *LoopbackServer) Serve(ctx context.Context) error {
	if s.ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info(gctx, "waiting for oauth redirect", "url", s.CallbackURL())
		if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("loopback server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.srv.Shutdown(sctx)
	})
	return g.Wait()
}

func (s *LoopbackServer) callback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = callbackPage.Execute(w, pathComplete)
}

func (s *LoopbackServer) complete(w http.ResponseWriter, r *http.Request) {
	u := url.URL{Scheme: "http", Host: r.Host, Path: guard.PathAuthCallback}
	if frag := r.URL.Query().Get("fragment"); frag != "" {
		u.RawFragment = frag
		u.Fragment, _ = url.PathUnescape(frag)
	}

	// the flow must finish even if the browser goes away
	err := s.handler.Handle(context.WithoutCancel(r.Context()), u.String())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	switch {
	case errors.Is(err, ErrCallbackInFlight):
		w.WriteHeader(http.StatusConflict)
		_ = resultPage.Execute(w, "Authentication already in progress")
	case err != nil:
		w.WriteHeader(http.StatusBadRequest)
		_ = resultPage.Execute(w, MsgFailure)
	default:
		_ = resultPage.Execute(w, MsgSuccess)
	}
}
