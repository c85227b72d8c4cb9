// Package identity supplies the authenticated owner identity that gates all
// sync activity. The production implementation reads a JWT session token
// from a file the auth flow drops into the data directory, and watches that
// file so logins and logouts from other processes are picked up live.
package identity

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrTokenExpired = errors.New("session token expired")
)

// Identity is the authenticated principal whose documents are synchronized.
type Identity struct {
	UserID string
	Email  string
}

// Claims are the session token claims: the registered set plus the email
// shown in the status output. The user id travels in the subject.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Provider exposes the current identity, or nil when logged out, plus
// change notifications.
type Provider interface {
	Current(ctx context.Context) (*Identity, error)
	Subscribe(handler func(*Identity)) func()
}
