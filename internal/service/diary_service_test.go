package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/diarycard/internal/domain"
	"github.com/alexanderramin/diarycard/internal/entry"
	"github.com/alexanderramin/diarycard/internal/repository"
	"github.com/alexanderramin/diarycard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ entry.EntrySaver     = DiaryService(nil)
	_ entry.HistoryFetcher = DiaryService(nil)
	_ entry.ProfileSaver   = ProfileService(nil)
)

func TestDiaryService_SaveAndHistory(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ts.db)
	svc := NewDiaryService(ts.entries, ts.observer)

	base := time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		e := testutil.NewTestEntry(user.UserID, testutil.WithTimestamp(base.AddDate(0, 0, i)))
		require.NoError(t, svc.Save(ctx, e))
		assert.NotEmpty(t, e.ID)
	}

	history, err := svc.FetchHistory(ctx, user.UserID, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].Timestamp.After(history[1].Timestamp), "most recent first")

	got, err := svc.Get(ctx, user.UserID, history[0].ID)
	require.NoError(t, err)
	assert.Equal(t, history[0].ID, got.ID)

	ev, ok := ts.observer.last("save-entry")
	require.True(t, ok)
	assert.True(t, ev.Success)
	assert.Equal(t, "manual", ev.Fields["session"])
}

func TestDiaryService_Delete(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ts.db)
	svc := NewDiaryService(ts.entries)

	e := testutil.NewTestEntry(user.UserID)
	require.NoError(t, svc.Save(ctx, e))
	require.NoError(t, svc.Delete(ctx, user.UserID, e.ID))

	_, err := svc.Get(ctx, user.UserID, e.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDiaryService_SaveFailureIsObserved(t *testing.T) {
	ts := setupServices(t)
	svc := NewDiaryService(ts.entries, ts.observer)

	// No users row: the foreign key rejects the insert.
	err := svc.Save(context.Background(), testutil.NewTestEntry("ghost"))
	require.Error(t, err)

	ev, ok := ts.observer.last("save-entry")
	require.True(t, ok)
	assert.False(t, ev.Success)
	assert.Error(t, ev.Err)
}

func TestDiaryController_PersistsThroughService(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ts.db)
	svc := NewDiaryService(ts.entries)

	e := domain.NewDiaryEntry(user, nil, domain.SessionEvening, "diary/v1", time.Now())
	ctrl, err := entry.NewDiaryController(e, svc)
	require.NoError(t, err)

	require.NoError(t, ctrl.Apply(domain.SetRating(domain.UrgeSelfHarm, 13)))
	require.NoError(t, ctrl.Apply(domain.SetNote("long day")))
	require.NoError(t, ctrl.Submit(ctx))
	assert.Equal(t, entry.MsgEntrySaved, ctrl.SaveMessage())

	history, err := svc.FetchHistory(ctx, user.UserID, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 10, history[0].Rating(domain.UrgeSelfHarm).Value)
	assert.Equal(t, "long day", history[0].Note)
	assert.Equal(t, domain.SessionEvening, history[0].Session)
}
