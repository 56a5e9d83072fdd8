package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/padho/internal/client/models"
	"github.com/dmitrijs2005/padho/internal/logging"
)

// RequestIDHeaderName is attached to every outgoing request.
const RequestIDHeaderName = "X-Request-ID"

const (
	pathLogin    = "/api/auth/login"
	pathRegister = "/api/auth/register"
	pathMe       = "/api/auth/me"
	pathLogout   = "/api/auth/logout"
	pathOAuth    = "/api/auth/google"
)

// maxErrorBody caps how much of an error response is read for its detail.
const maxErrorBody = 64 << 10

// HTTPClient talks to the backend over HTTP. The backend session cookie is
// stored in the client's cookie jar and sent with every request.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	jar     *sessionJar
	log     logging.Logger
}

// NewHTTPClient builds a client for the backend rooted at baseURL.
// timeout bounds each request; zero means no client-side timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend url %q: scheme must be http or https", baseURL)
	}

	jar, err := newSessionJar()
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	return &HTTPClient{
		baseURL: u,
		http:    &http.Client{Jar: jar, Timeout: timeout},
		jar:     jar,
		log:     log.With("component", "identity_client"),
	}, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User models.User `json:"user"`
}

type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// Login posts the credential pair. 401 maps to ErrInvalidCredentials.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (models.User, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, pathLogin, nil, loginRequest{Email: email, Password: password}, &resp,
		func(status int) error {
			if status == http.StatusUnauthorized {
				return ErrInvalidCredentials
			}
			return nil
		})
	if err != nil {
		return models.User{}, err
	}
	return resp.User, nil
}

// Register validates req locally and then posts it. A 400 with the backend's
// duplicate-email detail maps to ErrEmailTaken; other 400/422 map to
// ErrValidation.
func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	return c.do(ctx, http.MethodPost, pathRegister, nil, req, nil, func(status int) error {
		if status == http.StatusBadRequest || status == http.StatusUnprocessableEntity {
			return ErrValidation
		}
		return nil
	})
}

// FetchSession asks the backend who owns the current session cookie.
func (c *HTTPClient) FetchSession(ctx context.Context) (models.User, error) {
	var u models.User
	err := c.do(ctx, http.MethodGet, pathMe, nil, nil, &u, func(status int) error {
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			return ErrUnauthenticated
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Logout ends the backend session and always drops the local cookie, so a
// failed call can never leave the client holding a live credential.
// A 401 means there was no session to end and is not an error.
func (c *HTTPClient) Logout(ctx context.Context) error {
	defer c.jar.Reset()

	err := c.do(ctx, http.MethodPost, pathLogout, nil, nil, nil, func(status int) error {
		if status == http.StatusUnauthorized {
			return ErrUnauthenticated
		}
		return nil
	})
	if errors.Is(err, ErrUnauthenticated) {
		return nil
	}
	return err
}

// ExchangeOAuthHandshake trades the token delivered by the identity provider
// for a backend session.
func (c *HTTPClient) ExchangeOAuthHandshake(ctx context.Context, handshakeToken string) error {
	handshakeToken = strings.TrimSpace(handshakeToken)
	if handshakeToken == "" {
		return ErrInvalidHandshake
	}

	q := url.Values{"session_id": []string{handshakeToken}}
	return c.do(ctx, http.MethodGet, pathOAuth, q, nil, nil, func(status int) error {
		if status == http.StatusBadRequest || status == http.StatusUnauthorized {
			return ErrInvalidHandshake
		}
		return nil
	})
}

func (c *HTTPClient) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()
	return u.String()
}

// do performs one JSON round trip. classify maps a non-2xx status to a
// sentinel; returning nil lets the generic mapping decide.
func (c *HTTPClient) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
	out any,
	classify func(status int) error,
) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeaderName, requestID)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "request done",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(started),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode %s response: %v", ErrNetwork, path, err)
		}
		return nil
	}

	return mapStatus(resp, classify)
}

func mapStatus(resp *http.Response, classify func(status int) error) error {
	detail := readDetail(resp.Body)

	sentinel := classify(resp.StatusCode)
	if sentinel == nil {
		sentinel = ErrNetwork
	}
	if errors.Is(sentinel, ErrValidation) && strings.Contains(strings.ToLower(detail), "already registered") {
		sentinel = ErrEmailTaken
	}

	return &APIError{Status: resp.StatusCode, Detail: detail, Err: sentinel}
}

// readDetail extracts the FastAPI-style "detail" field. Validation errors
// carry a list there; it is returned as raw JSON text.
func readDetail(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(b) == 0 {
		return ""
	}

	var er errorResponse
	if err := json.Unmarshal(b, &er); err != nil || len(er.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(er.Detail, &s); err == nil {
		return s
	}
	return string(er.Detail)
}
