// Package fakebackend is an in-memory stand-in for the learning platform's
// auth API. It speaks the same /api/auth/* contract as the production
// backend and is used by tests and by local development (cmd/fakebackend).
package fakebackend

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/padho/internal/client/models"
	"github.com/dmitrijs2005/padho/internal/shared"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrInvalidLogin      = errors.New("invalid credentials")
	ErrHandshakeRejected = errors.New("invalid session")
)

// SessionTTL matches the production cookie lifetime.
const SessionTTL = 7 * 24 * time.Hour

type user struct {
	models.User
	passwordHash []byte
}

type session struct {
	userID    string
	expiresAt time.Time
}

// Identity is what the OAuth provider reports for a handshake token.
type Identity struct {
	Email   string
	Name    string
	Picture string
}

// Service holds users, sessions and pending handshakes. Session cookies
// are HS256 tokens signed with a per-process key; the session they name
// must still exist for the token to be accepted.
type Service struct {
	mu         sync.Mutex
	users      map[string]*user   // by email
	sessions   map[string]session // by session ID
	handshakes map[string]Identity
	signingKey []byte
	now        func() time.Time
}

func NewService() *Service {
	key, err := shared.MakeRandHexString(32)
	if err != nil {
		panic(err)
	}
	return &Service{
		users:      make(map[string]*user),
		sessions:   make(map[string]session),
		handshakes: make(map[string]Identity),
		signingKey: []byte(key),
		now:        time.Now,
	}
}

// Register creates a password account.
func (s *Service) Register(email, password, name string, role models.Role) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return models.User{}, err
	}

	key := strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[key]; ok {
		return models.User{}, ErrAlreadyExists
	}
	u := &user{
		User:         models.User{ID: uuid.NewString(), Email: email, Name: name, Role: role},
		passwordHash: hash,
	}
	s.users[key] = u
	return u.User, nil
}

// Login verifies the password and opens a session.
func (s *Service) Login(email, password string) (models.User, string, error) {
	s.mu.Lock()
	u, ok := s.users[strings.ToLower(strings.TrimSpace(email))]
	s.mu.Unlock()

	if !ok || len(u.passwordHash) == 0 {
		return models.User{}, "", ErrInvalidLogin
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return models.User{}, "", ErrInvalidLogin
	}
	token, err := s.openSession(u.ID)
	if err != nil {
		return models.User{}, "", err
	}
	return u.User, token, nil
}

// AddHandshake registers a one-time token the provider will redirect with.
func (s *Service) AddHandshake(token string, id Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handshakes[token] = id
}

// Exchange consumes a handshake token. Unknown accounts are created as
// students, the same way the production backend does for OAuth sign-ups.
func (s *Service) Exchange(token string) (models.User, string, error) {
	s.mu.Lock()
	id, ok := s.handshakes[token]
	if !ok {
		s.mu.Unlock()
		return models.User{}, "", ErrHandshakeRejected
	}
	delete(s.handshakes, token)

	key := strings.ToLower(id.Email)
	u, ok := s.users[key]
	if !ok {
		u = &user{User: models.User{
			ID:      uuid.NewString(),
			Email:   id.Email,
			Name:    id.Name,
			Picture: id.Picture,
			Role:    models.RoleStudent,
		}}
		s.users[key] = u
	}
	s.mu.Unlock()

	token, err := s.openSession(u.ID)
	if err != nil {
		return models.User{}, "", err
	}
	return u.User, token, nil
}

// Me resolves a session token to its user.
func (s *Service) Me(token string) (models.User, error) {
	sid, _, err := parseSession(token, s.signingKey, s.now)
	if err != nil {
		return models.User{}, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sid]
	if !ok {
		return models.User{}, ErrNotFound
	}
	if s.now().After(sess.expiresAt) {
		delete(s.sessions, sid)
		return models.User{}, ErrNotFound
	}
	for _, u := range s.users {
		if u.ID == sess.userID {
			return u.User, nil
		}
	}
	return models.User{}, ErrNotFound
}

// Logout deletes the session if the token names one.
func (s *Service) Logout(token string) {
	sid, _, err := parseSession(token, s.signingKey, s.now)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
}

// SetRole changes a user's role; only the backend can do this.
func (s *Service) SetRole(email string, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		return ErrNotFound
	}
	u.Role = role
	return nil
}

// ActiveSessions reports how many sessions are open.
func (s *Service) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Service) openSession(userID string) (string, error) {
	sid := uuid.NewString()
	now := s.now()
	expires := now.Add(SessionTTL)

	token, err := signSession(userID, sid, s.signingKey, now, expires)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.sessions[sid] = session{userID: userID, expiresAt: expires}
	s.mu.Unlock()
	return token, nil
}
