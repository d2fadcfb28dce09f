// Package notify schedules the daily local reminders: one per diary session
// and one per medication reminder time.
package notify

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/diarycard/internal/domain"
)

// Reminder identifiers are deterministic so scheduling the same reminder
// again overwrites the previous request.
const (
	DiaryMorningID = "diary-morning"
	DiaryEveningID = "diary-evening"
)

// Kinds of reminder.
const (
	KindDiary      = "diary"
	KindMedication = "medication"
)

// Reminder is a daily repeating notification request.
type Reminder struct {
	ID    string           `json:"id"`
	Kind  string           `json:"kind"`
	Title string           `json:"title"`
	Body  string           `json:"body"`
	At    domain.ClockTime `json:"at"`
}

// MedicationReminderID returns "med-<medicationID>-<HHMM>".
func MedicationReminderID(medicationID string, at domain.ClockTime) string {
	return fmt.Sprintf("med-%s-%s", medicationID, at.Compact())
}

// Scheduler stores pending reminder requests per user.
type Scheduler interface {
	// Schedule adds r, replacing any pending request with the same ID.
	Schedule(ctx context.Context, userID string, r Reminder) error
	ClearAll(ctx context.Context, userID string) error
	// Pending returns the user's requests ordered by time of day then ID.
	Pending(ctx context.Context, userID string) ([]Reminder, error)
}

// BuildReminders derives the full reminder set from a profile and its
// medication list.
func BuildReminders(p *domain.UserProfile, meds []*domain.Medication) []Reminder {
	var out []Reminder
	if p != nil {
		if p.MorningReminder != nil {
			out = append(out, Reminder{
				ID:    DiaryMorningID,
				Kind:  KindDiary,
				Title: "Morning check-in",
				Body:  "Take a moment to fill in your diary card.",
				At:    *p.MorningReminder,
			})
		}
		if p.EveningReminder != nil {
			out = append(out, Reminder{
				ID:    DiaryEveningID,
				Kind:  KindDiary,
				Title: "Evening check-in",
				Body:  "How did today go? Fill in your diary card.",
				At:    *p.EveningReminder,
			})
		}
	}
	for _, m := range meds {
		for _, at := range m.ReminderTimes {
			out = append(out, Reminder{
				ID:    MedicationReminderID(m.ID, at),
				Kind:  KindMedication,
				Title: "Medication reminder",
				Body:  "Time to take " + m.DisplayName() + ".",
				At:    at,
			})
		}
	}
	SortReminders(out)
	return out
}

// Replacer is implemented by schedulers that can clear and schedule in one
// atomic step.
type Replacer interface {
	ReplaceAll(ctx context.Context, userID string, rs []Reminder) error
}

// Reschedule clears every pending request for the user, then schedules rs.
func Reschedule(ctx context.Context, s Scheduler, userID string, rs []Reminder) error {
	if r, ok := s.(Replacer); ok {
		return r.ReplaceAll(ctx, userID, rs)
	}
	if err := s.ClearAll(ctx, userID); err != nil {
		return fmt.Errorf("clearing reminders: %w", err)
	}
	for _, r := range rs {
		if err := s.Schedule(ctx, userID, r); err != nil {
			return fmt.Errorf("scheduling %s: %w", r.ID, err)
		}
	}
	return nil
}

// LastOccurrence returns the most recent instant at or before now at which r
// fired, in now's location.
func LastOccurrence(r Reminder, now time.Time) time.Time {
	occ := r.At.On(now)
	if occ.After(now) {
		occ = r.At.On(now.AddDate(0, 0, -1))
	}
	return occ
}

// NextOccurrence returns the first instant after now at which r fires.
func NextOccurrence(r Reminder, now time.Time) time.Time {
	occ := r.At.On(now)
	if !occ.After(now) {
		occ = r.At.On(now.AddDate(0, 0, 1))
	}
	return occ
}

// Due returns the reminders that fired within window before now, inclusive
// of now.
func Due(rs []Reminder, now time.Time, window time.Duration) []Reminder {
	var out []Reminder
	for _, r := range rs {
		if now.Sub(LastOccurrence(r, now)) < window {
			out = append(out, r)
		}
	}
	SortReminders(out)
	return out
}

// SortReminders orders by time of day, then ID.
func SortReminders(rs []Reminder) {
	sort.Slice(rs, func(i, j int) bool {
		a, b := rs[i].At, rs[j].At
		if a.Hour != b.Hour {
			return a.Hour < b.Hour
		}
		if a.Minute != b.Minute {
			return a.Minute < b.Minute
		}
		return rs[i].ID < rs[j].ID
	})
}
