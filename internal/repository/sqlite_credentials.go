package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/diarycard/internal/db"
)

// SQLiteCredentialRepo stores email/password logins and reset tokens.
type SQLiteCredentialRepo struct {
	db db.DBTX
}

func NewSQLiteCredentialRepo(conn db.DBTX) *SQLiteCredentialRepo {
	return &SQLiteCredentialRepo{db: conn}
}

func (r *SQLiteCredentialRepo) Create(ctx context.Context, c *Credential) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO credentials (user_id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		c.UserID, strings.TrimSpace(c.Email), c.PasswordHash, formatTime(c.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("credential for %s: %w", c.Email, ErrConflict)
		}
		return fmt.Errorf("inserting credential: %w", err)
	}
	return nil
}

func (r *SQLiteCredentialRepo) GetByEmail(ctx context.Context, email string) (*Credential, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, email, password_hash, created_at FROM credentials WHERE email = ?`,
		strings.TrimSpace(email))

	var c Credential
	var createdAt string
	if err := row.Scan(&c.UserID, &c.Email, &c.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("credential for %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning credential: %w", err)
	}
	var err error
	if c.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *SQLiteCredentialRepo) UpdatePassword(ctx context.Context, userID, hash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE credentials SET password_hash = ? WHERE user_id = ?`, hash, userID)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("credential for user %s: %w", userID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteCredentialRepo) CreateReset(ctx context.Context, pr *PasswordReset) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO password_resets (token, user_id, expires_at, used) VALUES (?, ?, ?, ?)`,
		pr.Token, pr.UserID, formatTime(pr.ExpiresAt), boolToInt(pr.Used),
	)
	if err != nil {
		return fmt.Errorf("inserting password reset: %w", err)
	}
	return nil
}

func (r *SQLiteCredentialRepo) GetReset(ctx context.Context, token string) (*PasswordReset, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT token, user_id, expires_at, used FROM password_resets WHERE token = ?`, token)

	var pr PasswordReset
	var expiresAt string
	var used int
	if err := row.Scan(&pr.Token, &pr.UserID, &expiresAt, &used); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("password reset: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning password reset: %w", err)
	}
	var err error
	if pr.ExpiresAt, err = parseTime(expiresAt, "expires_at"); err != nil {
		return nil, err
	}
	pr.Used = intToBool(used)
	return &pr, nil
}

func (r *SQLiteCredentialRepo) MarkResetUsed(ctx context.Context, token string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE password_resets SET used = 1 WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("marking reset used: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("password reset: %w", ErrNotFound)
	}
	return nil
}

// SQLiteSessionRepo keeps the single signed-in session of this installation.
type SQLiteSessionRepo struct {
	db db.DBTX
}

func NewSQLiteSessionRepo(conn db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: conn}
}

func (r *SQLiteSessionRepo) Get(ctx context.Context) (*AuthSession, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, email, started_at FROM auth_session WHERE id = 'current'`)

	var s AuthSession
	var startedAt string
	if err := row.Scan(&s.UserID, &s.Email, &startedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("auth session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning auth session: %w", err)
	}
	var err error
	if s.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteSessionRepo) Put(ctx context.Context, s *AuthSession) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO auth_session (id, user_id, email, started_at) VALUES ('current', ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, email = excluded.email, started_at = excluded.started_at`,
		s.UserID, s.Email, formatTime(s.StartedAt),
	)
	if err != nil {
		return fmt.Errorf("storing auth session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM auth_session`); err != nil {
		return fmt.Errorf("clearing auth session: %w", err)
	}
	return nil
}
