package formatter

import (
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/diarycard/internal/domain"
	"github.com/stretchr/testify/assert"
)

// ansiPattern matches ANSI escape sequences.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestHumanDate(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Sep 30, 2022", HumanDate(time.Date(2022, 9, 30, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, "Today", HumanDate(now.Add(-2*time.Hour), now))
	assert.Equal(t, "Yesterday", HumanDate(now.AddDate(0, 0, -1), now))
}

func TestHumanTimestamp(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"just now", now.Add(-10 * time.Second), "Just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"older", now.AddDate(0, 0, -3), "Feb 4, 2026"},
		{"future", now.Add(time.Hour), "Today"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HumanTimestamp(tt.in, now))
		})
	}
}

func TestSessionPill(t *testing.T) {
	assert.Contains(t, stripANSI(SessionPill(domain.SessionMorning)), "Morning")
	assert.Contains(t, stripANSI(SessionPill(domain.SessionEvening)), "Evening")
	assert.Contains(t, stripANSI(SessionPill(domain.SessionManual)), "Manual")
	assert.Equal(t, "weird", stripANSI(SessionPill("weird")))
}

func TestRatingCell(t *testing.T) {
	assert.Equal(t, "–", stripANSI(RatingCell(domain.Rating{})))
	assert.Equal(t, "7", stripANSI(RatingCell(domain.NewRating(7, time.Now()))))
	assert.Equal(t, "0", stripANSI(RatingCell(domain.NewRating(-2, time.Now()))))
}

func TestTruncID(t *testing.T) {
	assert.Equal(t, "abcdefgh", stripANSI(TruncID("abcdefghijkl")))
	assert.Equal(t, "abc", stripANSI(TruncID("abc")))
}

func TestRenderBox(t *testing.T) {
	out := stripANSI(RenderBox("saved", "Entry saved successfully!"))
	assert.Contains(t, out, "SAVED")
	assert.Contains(t, out, "Entry saved successfully!")
	assert.Contains(t, out, "╭")
}
