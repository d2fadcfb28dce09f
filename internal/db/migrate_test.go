package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"users", "credentials", "password_resets", "auth_session", "diary_entries", "medications", "reminders"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, idx := range []string{"idx_diary_entries_user_ts", "idx_medications_user"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_SessionCheckConstraint(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO users (id, email, created_at, updated_at) VALUES ('u', 'u@x', 'now', 'now')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO diary_entries (id, user_id, session, timestamp, schema, payload, created_at, updated_at)
		VALUES ('e', 'u', 'noon', 'ts', 'diary/v1', '{}', 'now', 'now')`)
	assert.Error(t, err, "session outside the tag set must be rejected")
}

func TestMigrate_ForeignKeysEnforced(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO medications (id, user_id, name, created_at) VALUES ('m', 'missing', 'x', 'now')`)
	assert.Error(t, err)
}
