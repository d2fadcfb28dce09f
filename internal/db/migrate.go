package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies the schema. Statements are idempotent and re-run on every
// open; ALTER TABLE additions tolerate "duplicate column name".
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// The tables mirror the document layout users/{uid} and
// users/{uid}/diaryEntries/{entryId}: diary rating clusters are kept as one
// JSON payload per entry.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                  TEXT PRIMARY KEY,
		email               TEXT NOT NULL,
		display_name        TEXT NOT NULL DEFAULT '',
		tracked_actions     TEXT NOT NULL DEFAULT '[]',
		tracked_urges       TEXT NOT NULL DEFAULT '[]',
		tracked_emotions    TEXT NOT NULL DEFAULT '[]',
		custom_actions      TEXT NOT NULL DEFAULT '[]',
		custom_urges        TEXT NOT NULL DEFAULT '[]',
		goals               TEXT NOT NULL DEFAULT '[]',
		morning_reminder    TEXT,
		evening_reminder    TEXT,
		onboarding_complete INTEGER NOT NULL DEFAULT 0,
		flow_schema         TEXT NOT NULL DEFAULT '',
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS credentials (
		user_id       TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
		password_hash TEXT NOT NULL,
		created_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS password_resets (
		token      TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		expires_at TEXT NOT NULL,
		used       INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS auth_session (
		id         TEXT PRIMARY KEY DEFAULT 'current' CHECK(id = 'current'),
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		email      TEXT NOT NULL,
		started_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS diary_entries (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		session    TEXT NOT NULL CHECK(session IN ('morning','evening','manual')),
		timestamp  TEXT NOT NULL,
		schema     TEXT NOT NULL,
		payload    TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_diary_entries_user_ts ON diary_entries(user_id, timestamp DESC)`,

	`CREATE TABLE IF NOT EXISTS medications (
		id             TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		rxcui          TEXT NOT NULL DEFAULT '',
		name           TEXT NOT NULL,
		strength       TEXT NOT NULL DEFAULT '',
		dosage_form    TEXT NOT NULL DEFAULT '',
		reminder_times TEXT NOT NULL DEFAULT '[]',
		created_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_medications_user ON medications(user_id)`,

	// Pending reminder requests. Not tied to users by a foreign key: a
	// reminder set is replaced wholesale on every sync.
	`CREATE TABLE IF NOT EXISTS reminders (
		user_id TEXT NOT NULL,
		id      TEXT NOT NULL,
		kind    TEXT NOT NULL DEFAULT '',
		title   TEXT NOT NULL DEFAULT '',
		body    TEXT NOT NULL DEFAULT '',
		at      TEXT NOT NULL,
		PRIMARY KEY (user_id, id)
	)`,
}
