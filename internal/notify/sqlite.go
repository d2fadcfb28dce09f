package notify

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/diarycard/internal/db"
	"github.com/alexanderramin/diarycard/internal/domain"
)

// SQLiteScheduler keeps pending requests in the reminders table, so they
// outlive the process that scheduled them.
type SQLiteScheduler struct {
	db  *sql.DB
	uow db.UnitOfWork
}

func NewSQLiteScheduler(database *sql.DB) *SQLiteScheduler {
	return &SQLiteScheduler{db: database, uow: db.NewSQLiteUnitOfWork(database)}
}

const upsertReminder = `INSERT INTO reminders (user_id, id, kind, title, body, at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(user_id, id) DO UPDATE SET
		kind = excluded.kind, title = excluded.title, body = excluded.body, at = excluded.at`

func scheduleTx(ctx context.Context, conn db.DBTX, userID string, r Reminder) error {
	if _, err := conn.ExecContext(ctx, upsertReminder, userID, r.ID, r.Kind, r.Title, r.Body, r.At.String()); err != nil {
		return fmt.Errorf("failed to schedule reminder: %w", err)
	}
	return nil
}

func clearTx(ctx context.Context, conn db.DBTX, userID string) error {
	if _, err := conn.ExecContext(ctx, `DELETE FROM reminders WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear reminders: %w", err)
	}
	return nil
}

func (s *SQLiteScheduler) Schedule(ctx context.Context, userID string, r Reminder) error {
	return scheduleTx(ctx, s.db, userID, r)
}

func (s *SQLiteScheduler) ClearAll(ctx context.Context, userID string) error {
	return clearTx(ctx, s.db, userID)
}

func (s *SQLiteScheduler) Pending(ctx context.Context, userID string) ([]Reminder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, title, body, at FROM reminders WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	out := []Reminder{}
	for rows.Next() {
		var r Reminder
		var at string
		if err := rows.Scan(&r.ID, &r.Kind, &r.Title, &r.Body, &at); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		if r.At, err = domain.ParseClockTime(at); err != nil {
			return nil, fmt.Errorf("reminder %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	SortReminders(out)
	return out, nil
}

// ReplaceAll clears and writes rs in one transaction.
func (s *SQLiteScheduler) ReplaceAll(ctx context.Context, userID string, rs []Reminder) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := clearTx(ctx, tx, userID); err != nil {
			return err
		}
		for _, r := range rs {
			if err := scheduleTx(ctx, tx, userID, r); err != nil {
				return fmt.Errorf("%s: %w", r.ID, err)
			}
		}
		return nil
	})
}
