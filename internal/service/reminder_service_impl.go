package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/diarycard/internal/domain"
	"github.com/alexanderramin/diarycard/internal/notify"
	"github.com/alexanderramin/diarycard/internal/repository"
)

type reminderService struct {
	profiles  repository.UserProfileRepo
	meds      repository.MedicationRepo
	scheduler notify.Scheduler
	observer  UseCaseObserver
}

func NewReminderService(profiles repository.UserProfileRepo, meds repository.MedicationRepo, scheduler notify.Scheduler, observers ...UseCaseObserver) ReminderService {
	return &reminderService{
		profiles:  profiles,
		meds:      meds,
		scheduler: scheduler,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *reminderService) Sync(ctx context.Context, userID string) (rs []notify.Reminder, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "sync-reminders", time.Now(), fields, &err)

	profile, err := s.profiles.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		profile, err = &domain.UserProfile{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	meds, err := s.meds.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading medications: %w", err)
	}

	rs = notify.BuildReminders(profile, meds)
	if err = notify.Reschedule(ctx, s.scheduler, userID, rs); err != nil {
		return nil, err
	}
	fields["reminders"] = len(rs)
	return rs, nil
}

func (s *reminderService) Pending(ctx context.Context, userID string) ([]notify.Reminder, error) {
	return s.scheduler.Pending(ctx, userID)
}

func (s *reminderService) Due(ctx context.Context, userID string, now time.Time, window time.Duration) ([]notify.Reminder, error) {
	pending, err := s.scheduler.Pending(ctx, userID)
	if err != nil {
		return nil, err
	}
	return notify.Due(pending, now, window), nil
}
