// Package auth is the identity boundary. It issues the opaque user id used
// as the persistence partition key and keeps the signed-in Session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrEmailTaken         = errors.New("an account already exists for this email")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnknownEmail       = errors.New("no account for this email")
	ErrInvalidResetToken  = errors.New("reset link is invalid or has expired")
	ErrNotSignedIn        = errors.New("not signed in")
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// Session is the signed-in identity. It is created by SignIn or SignUp and
// passed explicitly to the services and controllers that act for the user.
type Session struct {
	UserID    string
	Email     string
	StartedAt time.Time
}

// Provider is the set of identity operations the application consumes.
type Provider interface {
	SignUp(ctx context.Context, email, password, confirm string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	// RequestPasswordReset returns a single-use reset token for email.
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ConfirmPasswordReset(ctx context.Context, token, password, confirm string) error
	SignOut(ctx context.Context) error
	// Current returns the signed-in session or ErrNotSignedIn.
	Current(ctx context.Context) (*Session, error)
}

// NormalizeEmail trims and validates an address, returning it lower-cased.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(email), nil
}

// ValidatePassword checks length and confirmation before any storage call.
func ValidatePassword(password, confirm string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}
