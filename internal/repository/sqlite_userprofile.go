package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/diarycard/internal/db"
	"github.com/alexanderramin/diarycard/internal/domain"
)

// SQLiteUserProfileRepo implements UserProfileRepo using a SQLite database.
type SQLiteUserProfileRepo struct {
	db db.DBTX
}

// NewSQLiteUserProfileRepo creates a new SQLiteUserProfileRepo.
func NewSQLiteUserProfileRepo(conn db.DBTX) *SQLiteUserProfileRepo {
	return &SQLiteUserProfileRepo{db: conn}
}

func (r *SQLiteUserProfileRepo) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	query := `SELECT id, email, display_name, tracked_actions, tracked_urges, tracked_emotions,
		custom_actions, custom_urges, goals, morning_reminder, evening_reminder,
		onboarding_complete, flow_schema, created_at, updated_at
		FROM users WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, userID)

	var p domain.UserProfile
	var actions, urges, emotions, customActions, customUrges, goals string
	var morning, evening sql.NullString
	var complete int
	var createdAt, updatedAt string

	err := row.Scan(
		&p.UserID, &p.Email, &p.DisplayName,
		&actions, &urges, &emotions,
		&customActions, &customUrges, &goals,
		&morning, &evening,
		&complete, &p.FlowSchema, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user profile %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user profile: %w", err)
	}

	lists := []struct {
		dst    *[]string
		raw    string
		column string
	}{
		{&p.TrackedActions, actions, "tracked_actions"},
		{&p.TrackedUrges, urges, "tracked_urges"},
		{&p.TrackedEmotions, emotions, "tracked_emotions"},
		{&p.CustomActions, customActions, "custom_actions"},
		{&p.CustomUrges, customUrges, "custom_urges"},
		{&p.Goals, goals, "goals"},
	}
	for _, l := range lists {
		v, err := decodeStrings(l.raw, l.column)
		if err != nil {
			return nil, err
		}
		*l.dst = v
	}

	p.MorningReminder = parseNullableClock(morning)
	p.EveningReminder = parseNullableClock(evening)
	p.OnboardingComplete = intToBool(complete)
	if p.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert writes the whole profile document, last write wins. CreatedAt is
// preserved for existing rows.
func (r *SQLiteUserProfileRepo) Upsert(ctx context.Context, p *domain.UserProfile) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	encoded := make([]string, 0, 6)
	for _, l := range [][]string{p.TrackedActions, p.TrackedUrges, p.TrackedEmotions, p.CustomActions, p.CustomUrges, p.Goals} {
		s, err := encodeJSON(l)
		if err != nil {
			return fmt.Errorf("encoding profile lists: %w", err)
		}
		encoded = append(encoded, s)
	}

	query := `INSERT INTO users (id, email, display_name, tracked_actions, tracked_urges, tracked_emotions,
		custom_actions, custom_urges, goals, morning_reminder, evening_reminder,
		onboarding_complete, flow_schema, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			display_name = excluded.display_name,
			tracked_actions = excluded.tracked_actions,
			tracked_urges = excluded.tracked_urges,
			tracked_emotions = excluded.tracked_emotions,
			custom_actions = excluded.custom_actions,
			custom_urges = excluded.custom_urges,
			goals = excluded.goals,
			morning_reminder = excluded.morning_reminder,
			evening_reminder = excluded.evening_reminder,
			onboarding_complete = excluded.onboarding_complete,
			flow_schema = excluded.flow_schema,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		p.UserID, p.Email, p.DisplayName,
		encoded[0], encoded[1], encoded[2], encoded[3], encoded[4], encoded[5],
		nullableClock(p.MorningReminder), nullableClock(p.EveningReminder),
		boolToInt(p.OnboardingComplete), p.FlowSchema,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting user profile: %w", err)
	}
	return nil
}
