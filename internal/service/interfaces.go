package service

import (
	"context"
	"time"

	"github.com/alexanderramin/diarycard/internal/domain"
	"github.com/alexanderramin/diarycard/internal/notify"
	"github.com/alexanderramin/diarycard/internal/rxnorm"
)

// DiaryService stores and reads diary cards. It satisfies entry.EntrySaver
// and entry.HistoryFetcher.
type DiaryService interface {
	Save(ctx context.Context, e *domain.DiaryEntry) error
	FetchHistory(ctx context.Context, userID string, limit int) ([]*domain.DiaryEntry, error)
	Get(ctx context.Context, userID, id string) (*domain.DiaryEntry, error)
	Delete(ctx context.Context, userID, id string) error
}

// ProfileService satisfies entry.ProfileSaver.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)
	CompleteOnboarding(ctx context.Context, p *domain.UserProfile, meds []*domain.Medication) error
	SaveProfile(ctx context.Context, p *domain.UserProfile, meds []*domain.Medication) error
	SetReminders(ctx context.Context, userID string, morning, evening *domain.ClockTime) error
}

type MedicationService interface {
	Search(ctx context.Context, text string) ([]rxnorm.Drug, error)
	Formulations(ctx context.Context, rxcui string) ([]rxnorm.Formulation, error)
	Add(ctx context.Context, m *domain.Medication) error
	List(ctx context.Context, userID string) ([]*domain.Medication, error)
	Remove(ctx context.Context, userID, id string) error
}

type ReminderService interface {
	// Sync rebuilds the user's pending reminders from the stored profile and
	// medication list.
	Sync(ctx context.Context, userID string) ([]notify.Reminder, error)
	Pending(ctx context.Context, userID string) ([]notify.Reminder, error)
	Due(ctx context.Context, userID string, now time.Time, window time.Duration) ([]notify.Reminder, error)
}
