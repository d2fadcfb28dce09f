package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/diarycard/internal/domain"
	"github.com/alexanderramin/diarycard/internal/repository"
)

type diaryService struct {
	entries  repository.DiaryEntryRepo
	observer UseCaseObserver
}

func NewDiaryService(entries repository.DiaryEntryRepo, observers ...UseCaseObserver) DiaryService {
	return &diaryService{entries: entries, observer: useCaseObserverOrNoop(observers)}
}

func (s *diaryService) Save(ctx context.Context, e *domain.DiaryEntry) (err error) {
	fields := map[string]any{"session": string(e.Session)}
	defer observe(ctx, s.observer, "save-entry", time.Now(), fields, &err)

	if err = s.entries.Create(ctx, e); err != nil {
		return fmt.Errorf("saving diary entry: %w", err)
	}
	fields["entry_id"] = e.ID
	return nil
}

func (s *diaryService) FetchHistory(ctx context.Context, userID string, limit int) ([]*domain.DiaryEntry, error) {
	entries, err := s.entries.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}
	return entries, nil
}

func (s *diaryService) Get(ctx context.Context, userID, id string) (*domain.DiaryEntry, error) {
	return s.entries.GetByID(ctx, userID, id)
}

func (s *diaryService) Delete(ctx context.Context, userID, id string) error {
	return s.entries.Delete(ctx, userID, id)
}
