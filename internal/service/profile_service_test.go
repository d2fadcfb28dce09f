package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/diarycard/internal/domain"
	"github.com/alexanderramin/diarycard/internal/flow"
	"github.com/alexanderramin/diarycard/internal/notify"
	"github.com/alexanderramin/diarycard/internal/repository"
	"github.com/alexanderramin/diarycard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onboardedProfile() *domain.UserProfile {
	return testutil.NewTestProfile(
		testutil.WithDisplayName("Sam"),
		testutil.WithTracked(
			[]string{"selfHarm", "isolating", "lashingOut"},
			[]string{"selfHarmUrges", "suicidalUrges", "bingeUrges"},
			[]string{"sadness", "anger", "shame"},
		),
		testutil.WithGoals("walk daily"),
		testutil.WithReminders("08:00", "21:00"),
	)
}

func TestCompleteOnboarding_WritesProfileMedsAndReminders(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()
	svc := NewProfileService(ts.profiles, testutil.NewTestUoW(ts.db), ts.reminders, ts.observer)

	p := onboardedProfile()
	med := testutil.NewTestMedication("", "sertraline", testutil.WithReminderTimes("09:00"))
	require.NoError(t, svc.CompleteOnboarding(ctx, p, []*domain.Medication{med}))

	stored, err := svc.Get(ctx, p.UserID)
	require.NoError(t, err)
	assert.True(t, stored.OnboardingComplete)
	assert.Equal(t, flow.OnboardingSchemaV1, stored.FlowSchema)
	assert.Equal(t, []string{"sadness", "anger", "shame"}, stored.TrackedEmotions)

	meds, err := ts.meds.ListByUser(ctx, p.UserID)
	require.NoError(t, err)
	require.Len(t, meds, 1)
	assert.Equal(t, p.UserID, meds[0].UserID)

	pending, err := ts.scheduler.Pending(ctx, p.UserID)
	require.NoError(t, err)
	ids := make([]string, 0, len(pending))
	for _, r := range pending {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{notify.DiaryMorningID, notify.MedicationReminderID(med.ID, med.ReminderTimes[0]), notify.DiaryEveningID}, ids)

	ev, ok := ts.observer.last("complete-onboarding")
	require.True(t, ok)
	assert.True(t, ev.Success)
	assert.Equal(t, 3, ev.Fields["reminders"])
}

func TestCompleteOnboarding_ReplacesMedicationList(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()
	svc := NewProfileService(ts.profiles, testutil.NewTestUoW(ts.db), nil)

	p := onboardedProfile()
	keep := testutil.NewTestMedication(p.UserID, "lithium")
	drop := testutil.NewTestMedication(p.UserID, "quetiapine")
	require.NoError(t, svc.CompleteOnboarding(ctx, p, []*domain.Medication{keep, drop}))

	added := testutil.NewTestMedication(p.UserID, "lamotrigine")
	require.NoError(t, svc.CompleteOnboarding(ctx, p, []*domain.Medication{keep, added}))

	meds, err := ts.meds.ListByUser(ctx, p.UserID)
	require.NoError(t, err)
	names := []string{}
	for _, m := range meds {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"lamotrigine", "lithium"}, names)
}

func TestCompleteOnboarding_RollsBackOnFailure(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()
	uow := &testutil.WriteFaultUoW{DB: ts.db, FailAt: 2, Err: errors.New("disk full")}
	svc := NewProfileService(ts.profiles, uow, ts.reminders)

	p := onboardedProfile()
	med := testutil.NewTestMedication(p.UserID, "sertraline")
	err := svc.CompleteOnboarding(ctx, p, []*domain.Medication{med})
	require.Error(t, err)
	assert.Equal(t, 2, uow.Writes())

	_, err = ts.profiles.Get(ctx, p.UserID)
	assert.ErrorIs(t, err, repository.ErrNotFound, "profile write must roll back")
}

func TestCompleteOnboarding_RejectsInvalidProfile(t *testing.T) {
	ts := setupServices(t)
	svc := NewProfileService(ts.profiles, testutil.NewTestUoW(ts.db), nil)

	p := onboardedProfile()
	p.CustomUrges = []string{"a", "b", "c"}
	assert.Error(t, svc.CompleteOnboarding(context.Background(), p, nil))
}

func TestCompleteOnboarding_ReminderFailureIsNotFatal(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()
	sched := &failingScheduler{err: errors.New("scheduler offline")}
	reminders := NewReminderService(ts.profiles, ts.meds, sched)
	svc := NewProfileService(ts.profiles, testutil.NewTestUoW(ts.db), reminders, ts.observer)

	p := onboardedProfile()
	require.NoError(t, svc.CompleteOnboarding(ctx, p, nil))

	ev, ok := ts.observer.last("complete-onboarding")
	require.True(t, ok)
	assert.True(t, ev.Success)
	assert.Contains(t, ev.Fields["reminder_error"], "scheduler offline")
}

func TestSetReminders(t *testing.T) {
	ts := setupServices(t)
	ctx := context.Background()
	svc := NewProfileService(ts.profiles, testutil.NewTestUoW(ts.db), ts.reminders)

	p := onboardedProfile()
	require.NoError(t, svc.CompleteOnboarding(ctx, p, nil))

	evening, err := domain.ParseClockTime("22:15")
	require.NoError(t, err)
	require.NoError(t, svc.SetReminders(ctx, p.UserID, nil, &evening))

	pending, err := ts.scheduler.Pending(ctx, p.UserID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, notify.DiaryEveningID, pending[0].ID)
	assert.Equal(t, evening, pending[0].At)
}

func TestSetReminders_UnknownUser(t *testing.T) {
	ts := setupServices(t)
	svc := NewProfileService(ts.profiles, testutil.NewTestUoW(ts.db), nil)
	err := svc.SetReminders(context.Background(), "nobody", nil, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
