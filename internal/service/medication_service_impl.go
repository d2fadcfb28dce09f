package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/diarycard/internal/domain"
	"github.com/alexanderramin/diarycard/internal/repository"
	"github.com/alexanderramin/diarycard/internal/rxnorm"
	"github.com/alexanderramin/diarycard/internal/search"
)

type medicationService struct {
	meds      repository.MedicationRepo
	lookup    rxnorm.Lookup
	reminders ReminderService
	observer  UseCaseObserver
}

func NewMedicationService(meds repository.MedicationRepo, lookup rxnorm.Lookup, reminders ReminderService, observers ...UseCaseObserver) MedicationService {
	return &medicationService{
		meds:      meds,
		lookup:    lookup,
		reminders: reminders,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *medicationService) Search(ctx context.Context, text string) (drugs []rxnorm.Drug, err error) {
	fields := map[string]any{"query": text}
	defer observe(ctx, s.observer, "search-medication", time.Now(), fields, &err)

	drugs, err = search.Search(ctx, s.lookup, text)
	fields["results"] = len(drugs)
	return drugs, err
}

func (s *medicationService) Formulations(ctx context.Context, rxcui string) ([]rxnorm.Formulation, error) {
	return s.lookup.Formulations(ctx, rxcui)
}

func (s *medicationService) Add(ctx context.Context, m *domain.Medication) (err error) {
	fields := map[string]any{"rxcui": m.RxCUI}
	defer observe(ctx, s.observer, "add-medication", time.Now(), fields, &err)

	if err = m.Validate(); err != nil {
		return err
	}
	if err = s.meds.Create(ctx, m); err != nil {
		return fmt.Errorf("adding medication: %w", err)
	}
	s.resync(ctx, m.UserID, fields)
	return nil
}

func (s *medicationService) List(ctx context.Context, userID string) ([]*domain.Medication, error) {
	return s.meds.ListByUser(ctx, userID)
}

func (s *medicationService) Remove(ctx context.Context, userID, id string) (err error) {
	fields := map[string]any{"medication_id": id}
	defer observe(ctx, s.observer, "remove-medication", time.Now(), fields, &err)

	if err = s.meds.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.resync(ctx, userID, fields)
	return nil
}

func (s *medicationService) resync(ctx context.Context, userID string, fields map[string]any) {
	if s.reminders == nil {
		return
	}
	if _, err := s.reminders.Sync(ctx, userID); err != nil {
		fields["reminder_error"] = err.Error()
	}
}
