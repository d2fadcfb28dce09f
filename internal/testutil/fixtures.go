package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/diarycard/internal/domain"
	"github.com/alexanderramin/diarycard/internal/flow"
	"github.com/google/uuid"
)

var testUserCounter atomic.Int64

// Profile options
type ProfileOption func(*domain.UserProfile)

func WithUserID(id string) ProfileOption {
	return func(p *domain.UserProfile) {
		p.UserID = id
	}
}

func WithEmail(email string) ProfileOption {
	return func(p *domain.UserProfile) {
		p.Email = email
	}
}

func WithDisplayName(name string) ProfileOption {
	return func(p *domain.UserProfile) {
		p.DisplayName = name
	}
}

func WithGoals(goals ...string) ProfileOption {
	return func(p *domain.UserProfile) {
		p.Goals = goals
	}
}

func WithCustomActions(labels ...string) ProfileOption {
	return func(p *domain.UserProfile) {
		p.CustomActions = labels
	}
}

func WithCustomUrges(labels ...string) ProfileOption {
	return func(p *domain.UserProfile) {
		p.CustomUrges = labels
	}
}

func WithTracked(actions, urges, emotions []string) ProfileOption {
	return func(p *domain.UserProfile) {
		p.TrackedActions = actions
		p.TrackedUrges = urges
		p.TrackedEmotions = emotions
	}
}

func WithReminders(morning, evening string) ProfileOption {
	return func(p *domain.UserProfile) {
		if c, err := domain.ParseClockTime(morning); err == nil {
			p.MorningReminder = &c
		}
		if c, err := domain.ParseClockTime(evening); err == nil {
			p.EveningReminder = &c
		}
	}
}

func WithOnboardingComplete() ProfileOption {
	return func(p *domain.UserProfile) {
		p.OnboardingComplete = true
		p.FlowSchema = flow.OnboardingSchemaV1
	}
}

func NewTestProfile(opts ...ProfileOption) *domain.UserProfile {
	n := testUserCounter.Add(1)
	now := time.Now().UTC()
	p := &domain.UserProfile{
		UserID:    uuid.New().String(),
		Email:     fmt.Sprintf("user%d@example.com", n),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Medication options
type MedicationOption func(*domain.Medication)

func WithRxCUI(rxcui string) MedicationOption {
	return func(m *domain.Medication) {
		m.RxCUI = rxcui
	}
}

func WithStrength(s string) MedicationOption {
	return func(m *domain.Medication) {
		m.Strength = s
	}
}

func WithReminderTimes(times ...string) MedicationOption {
	return func(m *domain.Medication) {
		for _, s := range times {
			if c, err := domain.ParseClockTime(s); err == nil {
				m.ReminderTimes = append(m.ReminderTimes, c)
			}
		}
	}
}

func NewTestMedication(userID, name string, opts ...MedicationOption) *domain.Medication {
	m := &domain.Medication{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Entry options
type EntryOption func(*domain.DiaryEntry)

func WithTimestamp(t time.Time) EntryOption {
	return func(e *domain.DiaryEntry) {
		e.Timestamp = t.UTC()
	}
}

func WithSession(s domain.SessionTag) EntryOption {
	return func(e *domain.DiaryEntry) {
		e.Session = s
	}
}

func WithNote(note string) EntryOption {
	return func(e *domain.DiaryEntry) {
		e.Note = note
	}
}

func NewTestEntry(userID string, opts ...EntryOption) *domain.DiaryEntry {
	e := domain.NewDiaryEntry(&domain.UserProfile{UserID: userID}, nil,
		domain.SessionManual, flow.DiarySchemaV1, time.Now())
	for _, o := range opts {
		o(e)
	}
	return e
}
