package fakebackend

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errInvalidToken = errors.New("invalid token")

// sessionClaims is the payload of a session cookie: Subject is the user ID
// and ID names the server-side session so logout can revoke it.
type sessionClaims struct {
	jwt.RegisteredClaims
}

func signSession(userID, sessionID string, key []byte, issuedAt, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	return token.SignedString(key)
}

// parseSession returns the session ID and user ID of a valid, unexpired
// token. now is the clock used for the expiry check.
func parseSession(tokenString string, key []byte, now func() time.Time) (string, string, error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(now))
	if err != nil {
		return "", "", err
	}
	if !token.Valid || claims.ID == "" {
		return "", "", errInvalidToken
	}
	return claims.ID, claims.Subject, nil
}
