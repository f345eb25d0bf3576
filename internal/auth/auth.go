// Package auth gates the application behind an email/password login.
// Two implementations exist: a GoTrue-compatible HTTP client and an
// in-memory bcrypt backend for development and tests.
package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
)

// User identifies an authenticated account.
type User struct {
	ID    string
	Email string
}

// Session is an authenticated session token pair.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         User
}

// Expired reports whether the access token is past its expiry.
func (s Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Service is the capability the HTTP layer depends on.
type Service interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, email, password string) (User, error)
	SignOut(ctx context.Context, accessToken string) error
	UserFromToken(ctx context.Context, accessToken string) (User, error)
}
