package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/diarycard/internal/db"
	"github.com/alexanderramin/diarycard/internal/domain"
	"github.com/google/uuid"
)

// SQLiteMedicationRepo implements MedicationRepo using a SQLite database.
type SQLiteMedicationRepo struct {
	db db.DBTX
}

func NewSQLiteMedicationRepo(conn db.DBTX) *SQLiteMedicationRepo {
	return &SQLiteMedicationRepo{db: conn}
}

const medicationColumns = `id, user_id, rxcui, name, strength, dosage_form, reminder_times, created_at`

func (r *SQLiteMedicationRepo) Create(ctx context.Context, m *domain.Medication) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	times := make([]string, 0, len(m.ReminderTimes))
	for _, c := range m.ReminderTimes {
		times = append(times, c.String())
	}
	encoded, err := encodeJSON(times)
	if err != nil {
		return fmt.Errorf("encoding reminder times: %w", err)
	}

	query := `INSERT INTO medications (` + medicationColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		m.ID, m.UserID, m.RxCUI, m.Name, m.Strength, m.DosageForm, encoded, formatTime(m.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("medication %s: %w", m.ID, ErrConflict)
		}
		return fmt.Errorf("inserting medication: %w", err)
	}
	return nil
}

func (r *SQLiteMedicationRepo) GetByID(ctx context.Context, userID, id string) (*domain.Medication, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+medicationColumns+` FROM medications WHERE user_id = ? AND id = ?`, userID, id)
	m, err := scanMedication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("medication %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return m, nil
}

func (r *SQLiteMedicationRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Medication, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+medicationColumns+` FROM medications WHERE user_id = ? ORDER BY name COLLATE NOCASE, created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing medications: %w", err)
	}
	defer rows.Close()

	meds := []*domain.Medication{}
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		meds = append(meds, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating medications: %w", err)
	}
	return meds, nil
}

func (r *SQLiteMedicationRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medications WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("deleting medication: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("medication %s: %w", id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMedication(s scanner) (*domain.Medication, error) {
	var m domain.Medication
	var times, createdAt string
	if err := s.Scan(&m.ID, &m.UserID, &m.RxCUI, &m.Name, &m.Strength, &m.DosageForm, &times, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning medication: %w", err)
	}

	raw, err := decodeStrings(times, "reminder_times")
	if err != nil {
		return nil, err
	}
	for _, s := range raw {
		c, err := domain.ParseClockTime(s)
		if err != nil {
			return nil, fmt.Errorf("medication %s reminder time: %w", m.ID, err)
		}
		m.ReminderTimes = append(m.ReminderTimes, c)
	}
	if m.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &m, nil
}
