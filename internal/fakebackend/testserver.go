package fakebackend

import "net/http/httptest"

// Backend bundles a running test server with its service and handler.
type Backend struct {
	*httptest.Server
	Service *Service
	Handler *Handler
}

// Start serves a fresh backend on a loopback port. hooks must be installed
// through configure, before the server accepts requests.
func Start(configure ...func(*Handler)) *Backend {
	svc := NewService()
	h := NewHandler(svc)
	for _, fn := range configure {
		fn(h)
	}
	return &Backend{Server: httptest.NewServer(h.Router()), Service: svc, Handler: h}
}
