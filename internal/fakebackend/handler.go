package fakebackend

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/padho/internal/client/models"
	"github.com/dmitrijs2005/padho/internal/shared"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "session_token"

// Identity the development provider signs in when the query names none.
const (
	DevProviderEmail = "dev.student@example.org"
	DevProviderName  = "Dev Student"
)

const handshakeTokenBytes = 16

// Handler exposes a Service over the /api/auth/* HTTP contract.
type Handler struct {
	svc *Service

	// Hits counts requests per route pattern, e.g. "GET /api/auth/me".
	hits map[string]*atomic.Int64

	// Hooks run before a route is served; a hook that writes a response
	// and returns true short-circuits the route. Tests use them to inject
	// failures and delays.
	hooks map[string]func(w http.ResponseWriter, r *http.Request) bool
}

var routes = []string{
	"POST /api/auth/register",
	"POST /api/auth/login",
	"GET /api/auth/google",
	"GET /api/auth/me",
	"POST /api/auth/logout",
	"GET /dev/provider",
}

func NewHandler(svc *Service) *Handler {
	h := &Handler{
		svc:   svc,
		hits:  make(map[string]*atomic.Int64, len(routes)),
		hooks: make(map[string]func(http.ResponseWriter, *http.Request) bool),
	}
	for _, r := range routes {
		h.hits[r] = &atomic.Int64{}
	}
	return h
}

// Hook installs fn for route (one of the "METHOD /path" patterns).
// It must be called before the handler starts serving.
func (h *Handler) Hook(route string, fn func(w http.ResponseWriter, r *http.Request) bool) {
	h.hooks[route] = fn
}

// Hits returns how many times route was requested.
func (h *Handler) Hits(route string) int64 {
	c, ok := h.hits[route]
	if !ok {
		return 0
	}
	return c.Load()
}

// Router builds the chi router.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/api/auth/register", h.wrap("POST /api/auth/register", h.register))
	r.Post("/api/auth/login", h.wrap("POST /api/auth/login", h.login))
	r.Get("/api/auth/google", h.wrap("GET /api/auth/google", h.exchange))
	r.Get("/api/auth/me", h.wrap("GET /api/auth/me", h.me))
	r.Post("/api/auth/logout", h.wrap("POST /api/auth/logout", h.logout))
	r.Get("/dev/provider", h.wrap("GET /dev/provider", h.provider))
	return r
}

func (h *Handler) wrap(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.hits[route].Add(1)
		if hook, ok := h.hooks[route]; ok && hook(w, r) {
			return
		}
		next(w, r)
	}
}

type registerRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "malformed body")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleStudent
	}
	if !req.Role.SelfService() {
		writeDetail(w, http.StatusBadRequest, "Invalid role")
		return
	}

	u, err := h.svc.Register(req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			writeDetail(w, http.StatusBadRequest, "Email already registered")
			return
		}
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User registered successfully", "user_id": u.ID})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "malformed body")
		return
	}
	u, token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, userResponse{Message: "Login successful", User: u})
}

func (h *Handler) exchange(w http.ResponseWriter, r *http.Request) {
	u, token, err := h.svc.Exchange(r.URL.Query().Get("session_id"))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid session")
		return
	}
	setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, userResponse{Message: "Login successful", User: u})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	u, err := h.svc.Me(c.Value)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	h.svc.Logout(c.Value)
	http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// provider stands in for the identity provider's sign-in page: it issues a
// handshake token for the identity given in the query and sends the browser
// back to redirect with the token in the fragment.
func (h *Handler) provider(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	target, err := url.Parse(q.Get("redirect"))
	if err != nil || target.Scheme == "" || target.Host == "" {
		writeDetail(w, http.StatusBadRequest, "Invalid redirect")
		return
	}

	token, err := shared.MakeRandHexString(handshakeTokenBytes)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	id := Identity{Email: q.Get("email"), Name: q.Get("name")}
	if id.Email == "" {
		id.Email = DevProviderEmail
	}
	if id.Name == "" {
		id.Name = DevProviderName
	}
	h.svc.AddHandshake(token, id)

	target.Fragment = ""
	target.RawFragment = ""
	http.Redirect(w, r, target.String()+"#session_id="+token, http.StatusFound)
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(SessionTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
