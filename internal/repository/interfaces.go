package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/diarycard/internal/domain"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique constraint would be violated.
	ErrConflict = errors.New("already exists")
)

// UserProfileRepo stores users/{uid} profile documents.
type UserProfileRepo interface {
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)
	Upsert(ctx context.Context, p *domain.UserProfile) error
}

// DiaryEntryRepo stores users/{uid}/diaryEntries/{id} documents.
type DiaryEntryRepo interface {
	// Create stores e, generating an ID when e.ID is empty.
	Create(ctx context.Context, e *domain.DiaryEntry) error
	GetByID(ctx context.Context, userID, id string) (*domain.DiaryEntry, error)
	// ListRecent returns at most limit entries, most recent first.
	ListRecent(ctx context.Context, userID string, limit int) ([]*domain.DiaryEntry, error)
	Delete(ctx context.Context, userID, id string) error
}

type MedicationRepo interface {
	Create(ctx context.Context, m *domain.Medication) error
	GetByID(ctx context.Context, userID, id string) (*domain.Medication, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Medication, error)
	Delete(ctx context.Context, userID, id string) error
}

// Credential is a stored email/password login.
type Credential struct {
	UserID       string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// PasswordReset is a single-use reset token.
type PasswordReset struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	Used      bool
}

// AuthSession is the signed-in user of this installation.
type AuthSession struct {
	UserID    string
	Email     string
	StartedAt time.Time
}

type CredentialRepo interface {
	Create(ctx context.Context, c *Credential) error
	GetByEmail(ctx context.Context, email string) (*Credential, error)
	UpdatePassword(ctx context.Context, userID, hash string) error

	CreateReset(ctx context.Context, r *PasswordReset) error
	GetReset(ctx context.Context, token string) (*PasswordReset, error)
	MarkResetUsed(ctx context.Context, token string) error
}

type SessionRepo interface {
	Get(ctx context.Context) (*AuthSession, error)
	Put(ctx context.Context, s *AuthSession) error
	Clear(ctx context.Context) error
}
