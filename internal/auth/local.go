package auth

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/diarycard/internal/db"
	"github.com/alexanderramin/diarycard/internal/domain"
	"github.com/alexanderramin/diarycard/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/hkdf"
)

const resetIssuer = "diarycard/auth"

// LocalProvider implements Provider against the local SQLite store. Passwords
// are bcrypt hashed. Reset tokens are HS256 JWTs whose key is derived from the
// installation secret and the current password hash, so a token stops
// verifying once the password changes.
type LocalProvider struct {
	db       *sql.DB
	uow      db.UnitOfWork
	secret   []byte
	cost     int
	resetTTL time.Duration
	now      func() time.Time
}

// Option configures a LocalProvider.
type Option func(*LocalProvider)

// WithBcryptCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(p *LocalProvider) { p.cost = cost }
}

func WithResetTTL(d time.Duration) Option {
	return func(p *LocalProvider) { p.resetTTL = d }
}

func WithClock(now func() time.Time) Option {
	return func(p *LocalProvider) { p.now = now }
}

// NewLocalProvider creates a provider over database. secret must be at least
// 16 bytes.
func NewLocalProvider(database *sql.DB, secret []byte, opts ...Option) (*LocalProvider, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("auth secret too short (%d bytes)", len(secret))
	}
	p := &LocalProvider{
		db:       database,
		uow:      db.NewSQLiteUnitOfWork(database),
		secret:   secret,
		cost:     bcrypt.DefaultCost,
		resetTTL: time.Hour,
		now:      time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password, confirm string) (*Session, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := ValidatePassword(password, confirm); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := p.now().UTC()
	sess := &Session{UserID: uuid.New().String(), Email: email, StartedAt: now}
	err = p.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		creds := repository.NewSQLiteCredentialRepo(tx)
		if _, err := creds.GetByEmail(ctx, email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		profile := &domain.UserProfile{UserID: sess.UserID, Email: email, CreatedAt: now}
		if err := repository.NewSQLiteUserProfileRepo(tx).Upsert(ctx, profile); err != nil {
			return err
		}
		if err := creds.Create(ctx, &repository.Credential{
			UserID: sess.UserID, Email: email, PasswordHash: string(hash), CreatedAt: now,
		}); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrEmailTaken
			}
			return err
		}
		return repository.NewSQLiteSessionRepo(tx).Put(ctx, toRecord(sess))
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, ErrInvalidCredentials
	}
	cred, err := repository.NewSQLiteCredentialRepo(p.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	sess := &Session{UserID: cred.UserID, Email: cred.Email, StartedAt: p.now().UTC()}
	if err := repository.NewSQLiteSessionRepo(p.db).Put(ctx, toRecord(sess)); err != nil {
		return nil, err
	}
	return sess, nil
}

type resetClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

func (p *LocalProvider) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return "", err
	}
	creds := repository.NewSQLiteCredentialRepo(p.db)
	cred, err := creds.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUnknownEmail
		}
		return "", err
	}

	now := p.now().UTC()
	jti := uuid.New().String()
	claims := resetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   cred.UserID,
			Issuer:    resetIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.resetTTL)),
		},
		Email: cred.Email,
	}
	key, err := p.resetKey(cred.PasswordHash)
	if err != nil {
		return "", err
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("signing reset token: %w", err)
	}
	if err := creds.CreateReset(ctx, &repository.PasswordReset{
		Token: jti, UserID: cred.UserID, ExpiresAt: now.Add(p.resetTTL),
	}); err != nil {
		return "", err
	}
	return signed, nil
}

func (p *LocalProvider) ConfirmPasswordReset(ctx context.Context, token, password, confirm string) error {
	if err := ValidatePassword(password, confirm); err != nil {
		return err
	}

	creds := repository.NewSQLiteCredentialRepo(p.db)
	var claims resetClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		c, ok := t.Claims.(*resetClaims)
		if !ok {
			return nil, ErrInvalidResetToken
		}
		cred, err := creds.GetByEmail(ctx, c.Email)
		if err != nil {
			return nil, err
		}
		if cred.UserID != c.Subject {
			return nil, ErrInvalidResetToken
		}
		return p.resetKey(cred.PasswordHash)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(resetIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResetToken, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return p.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txCreds := repository.NewSQLiteCredentialRepo(tx)
		reset, err := txCreds.GetReset(ctx, claims.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrInvalidResetToken
			}
			return err
		}
		if reset.Used || reset.UserID != claims.Subject {
			return ErrInvalidResetToken
		}
		if err := txCreds.UpdatePassword(ctx, claims.Subject, string(hash)); err != nil {
			return err
		}
		return txCreds.MarkResetUsed(ctx, claims.ID)
	})
}

func (p *LocalProvider) SignOut(ctx context.Context) error {
	return repository.NewSQLiteSessionRepo(p.db).Clear(ctx)
}

func (p *LocalProvider) Current(ctx context.Context) (*Session, error) {
	rec, err := repository.NewSQLiteSessionRepo(p.db).Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotSignedIn
		}
		return nil, err
	}
	return &Session{UserID: rec.UserID, Email: rec.Email, StartedAt: rec.StartedAt}, nil
}

// resetKey derives the HMAC key for reset tokens of one password hash.
func (p *LocalProvider) resetKey(passwordHash string) ([]byte, error) {
	r := hkdf.New(sha256.New, p.secret, []byte(passwordHash), []byte("diarycard password reset"))
	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("deriving reset key: %w", err)
	}
	return key, nil
}

func toRecord(s *Session) *repository.AuthSession {
	return &repository.AuthSession{UserID: s.UserID, Email: s.Email, StartedAt: s.StartedAt}
}
