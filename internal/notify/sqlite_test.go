package notify

import (
	"context"
	"testing"

	"github.com/alexanderramin/diarycard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteScheduler_Contract(t *testing.T) {
	runSchedulerContract(t, NewSQLiteScheduler(testutil.NewTestDB(t)))
}

func TestSQLiteScheduler_SurvivesNewInstance(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	rs := []Reminder{
		{ID: DiaryEveningID, Kind: KindDiary, Title: "Evening check-in", Body: "Fill in your card.", At: at("20:30")},
		{ID: MedicationReminderID("m1", at("09:00")), Kind: KindMedication, Title: "Medication reminder", At: at("09:00")},
	}
	require.NoError(t, Reschedule(ctx, NewSQLiteScheduler(database), "u1", rs))

	pending, err := NewSQLiteScheduler(database).Pending(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, rs[1], pending[0])
	assert.Equal(t, rs[0], pending[1])
}

func TestSQLiteScheduler_ReplaceAllRollsBack(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	s := NewSQLiteScheduler(database)
	require.NoError(t, s.Schedule(ctx, "u1", Reminder{ID: DiaryMorningID, At: at("08:00")}))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, s.ReplaceAll(cancelled, "u1", nil))

	pending, err := s.Pending(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
