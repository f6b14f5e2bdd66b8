// Package session holds the credential store and the bearer session for the
// movio CLI. A session is either present (authenticated) or absent; there is
// no partial state. Login and registration create it, logout, an
// identity-changing profile edit, or account deletion destroy it.
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the authenticated identity: the bearer token issued at login and
// the username it was issued for.
type Session struct {
	Token    string
	Username string
}

// Current reads the session from the store. The second return value is false
// when either the token or the username is missing.
func Current(store Store) (Session, bool) {
	token, ok := store.Get(KeyToken)
	if !ok || token == "" {
		return Session{}, false
	}

	username, ok := store.Get(KeyUser)
	if !ok || username == "" {
		return Session{}, false
	}

	return Session{Token: token, Username: username}, true
}

// Save writes the session to the store.
func Save(store Store, s Session) error {
	if err := store.Set(KeyToken, s.Token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	if err := store.Set(KeyUser, s.Username); err != nil {
		return fmt.Errorf("failed to store username: %w", err)
	}
	return nil
}

// ExpiresAt reports the expiry claim of the bearer token, if it carries one.
// The token is inspected without signature verification; only the server can
// validate it.
func (s Session) ExpiresAt() (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether the token carries an expiry claim in the past.
// Tokens without an expiry claim are never considered expired.
func (s Session) Expired(now time.Time) bool {
	expiresAt, ok := s.ExpiresAt()
	return ok && now.After(expiresAt)
}
