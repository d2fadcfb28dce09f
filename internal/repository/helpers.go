package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/diarycard/internal/domain"
)

// timeLayout is fixed-width UTC with nanoseconds, so stored strings sort in
// time order. Parsing accepts any RFC 3339 fraction.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s, column string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", column, err)
	}
	return t, nil
}

// nullableClock converts a *ClockTime to a value suitable for SQLite storage.
func nullableClock(c *domain.ClockTime) interface{} {
	if c == nil {
		return nil
	}
	return c.String()
}

// parseNullableClock parses a sql.NullString into a *ClockTime.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableClock(s sql.NullString) *domain.ClockTime {
	if !s.Valid || s.String == "" {
		return nil
	}
	c, err := domain.ParseClockTime(s.String)
	if err != nil {
		return nil
	}
	return &c
}

// encodeJSON marshals list-valued columns. A nil slice is stored as "[]".
func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(data) == "null" {
		return "[]", nil
	}
	return string(data), nil
}

func decodeStrings(s, column string) ([]string, error) {
	var out []string
	if s == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", column, err)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}
