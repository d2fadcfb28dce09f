package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/diarycard/internal/notify"
	"github.com/alexanderramin/diarycard/internal/repository"
	"github.com/alexanderramin/diarycard/internal/rxnorm"
	"github.com/alexanderramin/diarycard/internal/testutil"
)

type testServices struct {
	db        *sql.DB
	profiles  *repository.SQLiteUserProfileRepo
	entries   *repository.SQLiteDiaryEntryRepo
	meds      *repository.SQLiteMedicationRepo
	scheduler *notify.MemoryScheduler
	observer  *recordingObserver
	reminders ReminderService
}

func setupServices(t *testing.T) *testServices {
	t.Helper()
	database := testutil.NewTestDB(t)
	ts := &testServices{
		db:        database,
		profiles:  repository.NewSQLiteUserProfileRepo(database),
		entries:   repository.NewSQLiteDiaryEntryRepo(database),
		meds:      repository.NewSQLiteMedicationRepo(database),
		scheduler: notify.NewMemoryScheduler(),
		observer:  &recordingObserver{},
	}
	ts.reminders = NewReminderService(ts.profiles, ts.meds, ts.scheduler, ts.observer)
	return ts
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last(name string) (UseCaseEvent, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.events) - 1; i >= 0; i-- {
		if o.events[i].Name == name {
			return o.events[i], true
		}
	}
	return UseCaseEvent{}, false
}

type fakeLookup struct {
	drugs   []rxnorm.Drug
	forms   []rxnorm.Formulation
	err     error
	queries []string
}

func (f *fakeLookup) Search(_ context.Context, name string) ([]rxnorm.Drug, error) {
	f.queries = append(f.queries, name)
	return f.drugs, f.err
}

func (f *fakeLookup) Formulations(_ context.Context, _ string) ([]rxnorm.Formulation, error) {
	return f.forms, f.err
}

func (f *fakeLookup) Properties(_ context.Context, rxcui string) (*rxnorm.Concept, error) {
	return &rxnorm.Concept{RxCUI: rxcui}, f.err
}

// failingScheduler refuses every write.
type failingScheduler struct {
	notify.MemoryScheduler
	err error
}

func (f *failingScheduler) Schedule(context.Context, string, notify.Reminder) error { return f.err }
func (f *failingScheduler) ClearAll(context.Context, string) error                  { return f.err }
