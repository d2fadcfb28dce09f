package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/diarycard/internal/db"
	"github.com/alexanderramin/diarycard/internal/domain"
	"github.com/google/uuid"
)

// SQLiteDiaryEntryRepo implements DiaryEntryRepo. Each entry is stored as a
// JSON document with its partition key and ordering columns lifted out.
type SQLiteDiaryEntryRepo struct {
	db db.DBTX
}

func NewSQLiteDiaryEntryRepo(conn db.DBTX) *SQLiteDiaryEntryRepo {
	return &SQLiteDiaryEntryRepo{db: conn}
}

func (r *SQLiteDiaryEntryRepo) Create(ctx context.Context, e *domain.DiaryEntry) error {
	if e.UserID == "" {
		return fmt.Errorf("diary entry: missing user id")
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding diary entry: %w", err)
	}

	now := formatTime(time.Now())
	query := `INSERT INTO diary_entries (id, user_id, session, timestamp, schema, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		e.ID, e.UserID, string(e.Session), formatTime(e.Timestamp), e.Schema, string(payload), now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("diary entry %s: %w", e.ID, ErrConflict)
		}
		return fmt.Errorf("inserting diary entry: %w", err)
	}
	return nil
}

func (r *SQLiteDiaryEntryRepo) GetByID(ctx context.Context, userID, id string) (*domain.DiaryEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT payload FROM diary_entries WHERE user_id = ? AND id = ?`, userID, id)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("diary entry %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning diary entry: %w", err)
	}
	return decodeEntry(payload)
}

func (r *SQLiteDiaryEntryRepo) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.DiaryEntry, error) {
	if limit <= 0 {
		return []*domain.DiaryEntry{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT payload FROM diary_entries WHERE user_id = ?
		ORDER BY timestamp DESC, created_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing diary entries: %w", err)
	}
	defer rows.Close()

	entries := []*domain.DiaryEntry{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning diary entry row: %w", err)
		}
		e, err := decodeEntry(payload)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating diary entries: %w", err)
	}
	return entries, nil
}

func (r *SQLiteDiaryEntryRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM diary_entries WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("deleting diary entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("diary entry %s: %w", id, ErrNotFound)
	}
	return nil
}

func decodeEntry(payload string) (*domain.DiaryEntry, error) {
	var e domain.DiaryEntry
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		return nil, fmt.Errorf("decoding diary entry: %w", err)
	}
	return &e, nil
}
