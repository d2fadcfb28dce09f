package entry

import (
	"context"

	"github.com/alexanderramin/diarycard/internal/domain"
)

// EntrySaver stores a completed diary entry. Save may assign e.ID.
type EntrySaver interface {
	Save(ctx context.Context, e *domain.DiaryEntry) error
}

// HistoryFetcher returns a user's entries, most recent first.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, userID string, limit int) ([]*domain.DiaryEntry, error)
}

// ProfileSaver stores the profile collected by onboarding together with the
// medications added during the flow.
type ProfileSaver interface {
	SaveProfile(ctx context.Context, p *domain.UserProfile, meds []*domain.Medication) error
}

// EntrySaverFunc adapts a function to EntrySaver.
type EntrySaverFunc func(ctx context.Context, e *domain.DiaryEntry) error

func (f EntrySaverFunc) Save(ctx context.Context, e *domain.DiaryEntry) error { return f(ctx, e) }

// ProfileSaverFunc adapts a function to ProfileSaver.
type ProfileSaverFunc func(ctx context.Context, p *domain.UserProfile, meds []*domain.Medication) error

func (f ProfileSaverFunc) SaveProfile(ctx context.Context, p *domain.UserProfile, meds []*domain.Medication) error {
	return f(ctx, p, meds)
}
