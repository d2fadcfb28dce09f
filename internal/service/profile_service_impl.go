package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/diarycard/internal/db"
	"github.com/alexanderramin/diarycard/internal/domain"
	"github.com/alexanderramin/diarycard/internal/flow"
	"github.com/alexanderramin/diarycard/internal/repository"
)

type profileService struct {
	profiles  repository.UserProfileRepo
	uow       db.UnitOfWork
	reminders ReminderService
	observer  UseCaseObserver
}

// NewProfileService creates the profile use cases. reminders may be nil, in
// which case saving a profile does not touch the reminder schedule.
func NewProfileService(profiles repository.UserProfileRepo, uow db.UnitOfWork, reminders ReminderService, observers ...UseCaseObserver) ProfileService {
	return &profileService{
		profiles:  profiles,
		uow:       uow,
		reminders: reminders,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *profileService) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return s.profiles.Get(ctx, userID)
}

// CompleteOnboarding writes the profile and replaces the user's medication
// list with meds in one transaction, then resyncs reminders. A reminder
// failure does not undo the save; it is reported through the observer.
func (s *profileService) CompleteOnboarding(ctx context.Context, p *domain.UserProfile, meds []*domain.Medication) (err error) {
	fields := map[string]any{"medications": len(meds)}
	defer observe(ctx, s.observer, "complete-onboarding", time.Now(), fields, &err)

	p.OnboardingComplete = true
	if p.FlowSchema == "" {
		p.FlowSchema = flow.OnboardingSchemaV1
	}
	if err = p.Validate(); err != nil {
		return err
	}
	for _, m := range meds {
		m.UserID = p.UserID
		if err = m.Validate(); err != nil {
			return err
		}
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProfiles := repository.NewSQLiteUserProfileRepo(tx)
		txMeds := repository.NewSQLiteMedicationRepo(tx)

		if err := txProfiles.Upsert(ctx, p); err != nil {
			return fmt.Errorf("saving profile: %w", err)
		}
		return replaceMedications(ctx, txMeds, p.UserID, meds)
	})
	if err != nil {
		return err
	}

	s.resync(ctx, p.UserID, fields)
	return nil
}

func (s *profileService) SaveProfile(ctx context.Context, p *domain.UserProfile, meds []*domain.Medication) error {
	return s.CompleteOnboarding(ctx, p, meds)
}

func (s *profileService) SetReminders(ctx context.Context, userID string, morning, evening *domain.ClockTime) (err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "set-reminders", time.Now(), fields, &err)

	var p *domain.UserProfile
	p, err = s.profiles.Get(ctx, userID)
	if err != nil {
		return err
	}
	p.MorningReminder = morning
	p.EveningReminder = evening
	if err = s.profiles.Upsert(ctx, p); err != nil {
		return fmt.Errorf("saving reminders: %w", err)
	}
	s.resync(ctx, userID, fields)
	return nil
}

func (s *profileService) resync(ctx context.Context, userID string, fields map[string]any) {
	if s.reminders == nil {
		return
	}
	rs, err := s.reminders.Sync(ctx, userID)
	if err != nil {
		fields["reminder_error"] = err.Error()
		return
	}
	fields["reminders"] = len(rs)
}

// replaceMedications makes the stored list for userID equal to meds, keyed by
// medication ID.
func replaceMedications(ctx context.Context, repo repository.MedicationRepo, userID string, meds []*domain.Medication) error {
	existing, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("listing medications: %w", err)
	}
	keep := make(map[string]bool, len(meds))
	for _, m := range meds {
		keep[m.ID] = true
	}
	stored := make(map[string]bool, len(existing))
	for _, m := range existing {
		stored[m.ID] = true
		if !keep[m.ID] {
			if err := repo.Delete(ctx, userID, m.ID); err != nil {
				return fmt.Errorf("removing medication %s: %w", m.ID, err)
			}
		}
	}
	for _, m := range meds {
		if m.ID != "" && stored[m.ID] {
			continue
		}
		if err := repo.Create(ctx, m); err != nil {
			return fmt.Errorf("adding medication %s: %w", m.Name, err)
		}
	}
	return nil
}
