package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/diarycard/internal/db"
	"github.com/alexanderramin/diarycard/internal/domain"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// SeedUser inserts a bare users row so rows keyed by the profile's user id
// satisfy foreign keys. List columns keep their defaults.
func SeedUser(t *testing.T, database *sql.DB, opts ...ProfileOption) *domain.UserProfile {
	t.Helper()
	p := NewTestProfile(opts...)
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := database.ExecContext(context.Background(),
		`INSERT INTO users (id, email, display_name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		p.UserID, p.Email, p.DisplayName, now, now)
	if err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return p
}

// FixedClock returns a clock function pinned to t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
