package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/diarycard/internal/domain"
	"github.com/alexanderramin/diarycard/internal/entry"
	"github.com/alexanderramin/diarycard/internal/flow"
	"github.com/alexanderramin/diarycard/internal/rxnorm"
	"github.com/alexanderramin/diarycard/internal/search"
	"github.com/alexanderramin/diarycard/internal/teatest"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedProfile struct {
	profile *domain.UserProfile
	meds    []*domain.Medication
	fail    bool
}

func (c *capturedProfile) SaveProfile(_ context.Context, p *domain.UserProfile, meds []*domain.Medication) error {
	if c.fail {
		return errors.New("offline")
	}
	c.profile, c.meds = p, meds
	return nil
}

func newOnboardingDriver(t *testing.T, saver entry.ProfileSaver) (*teatest.Driver, *onboardingModel, *entry.OnboardingController) {
	t.Helper()
	ctrl, err := entry.NewOnboardingController(&domain.UserProfile{UserID: "u1", Email: "sam@example.com"}, nil, saver)
	require.NoError(t, err)
	m := newOnboardingModel(context.Background(), ctrl, nil, 0)
	d := teatest.New(t, m, teatest.WithSize(100, 40))
	d.DrainInit()
	return d, m, ctrl
}

func TestOnboardingModel_FullFlow(t *testing.T) {
	saver := &capturedProfile{}
	d, m, ctrl := newOnboardingDriver(t, saver)
	assert.Contains(t, d.View(), "Hi sam!")

	d.PressCtrlN() // welcome
	m.name = "Sam"
	d.PressCtrlN() // profile

	require.Equal(t, flow.StepActions, ctrl.Current().ID)
	d.PressCtrlN()
	assert.Equal(t, flow.StepActions, ctrl.Current().ID, "gate holds with nothing selected")
	assert.Contains(t, d.View(), "selection incomplete")

	m.selected = []string{"selfHarm", "isolating", "lashingOut"}
	m.extras = "Doomscrolling at night"
	d.PressCtrlN()
	require.Equal(t, flow.StepUrges, ctrl.Current().ID)

	m.selected = []string{"selfHarmUrges", "suicidalUrges", "bingeUrges"}
	d.PressCtrlN()
	m.selected = []string{"sadness", "joy", "anger"}
	d.PressCtrlN()
	require.Equal(t, flow.StepGoals, ctrl.Current().ID)

	m.goals = "Walk daily\nCall mum"
	d.PressCtrlN()
	require.Equal(t, flow.StepMedications, ctrl.Current().ID)

	d.Send(searchResultMsg{result: search.Result{Drugs: []rxnorm.Drug{
		{RxCUI: "312940", Name: "sertraline 50 MG Oral Tablet"},
		{RxCUI: "312941", Name: "sertraline 100 MG Oral Tablet"},
	}}})
	assert.Contains(t, d.View(), "sertraline 100 MG Oral Tablet")
	d.PressDown()
	d.PressEnter()
	require.Len(t, ctrl.Medications(), 1)
	assert.Equal(t, "100 MG", ctrl.Medications()[0].Strength)
	assert.Contains(t, d.View(), "Added")

	d.PressCtrlN()
	require.Equal(t, flow.StepReminders, ctrl.Current().ID)
	m.morning = "08:00"
	m.evening = "21:00"
	d.PressCtrlN()
	require.Equal(t, flow.StepFinish, ctrl.Current().ID)
	assert.Contains(t, onboardingSummary(ctrl.Profile(), ctrl.Medications()), "Walk daily")

	d.PressCtrlN()
	require.True(t, d.Quitting)
	assert.Equal(t, entry.StateSaved, ctrl.State())

	require.NotNil(t, saver.profile)
	p := saver.profile
	assert.Equal(t, "Sam", p.DisplayName)
	assert.True(t, p.OnboardingComplete)
	assert.Equal(t, []string{"Doomscrolling at night"}, p.CustomActions)
	assert.Equal(t, []string{"Walk daily", "Call mum"}, p.Goals)
	require.NotNil(t, p.EveningReminder)
	assert.Equal(t, "21:00", p.EveningReminder.String())
	require.Len(t, saver.meds, 1)
	assert.Equal(t, "312941", saver.meds[0].RxCUI)
}

func TestOnboardingModel_RejectsInvalidInput(t *testing.T) {
	d, m, ctrl := newOnboardingDriver(t, &capturedProfile{})
	d.PressCtrlN()
	d.PressCtrlN()

	m.selected = []string{"selfHarm", "isolating", "lashingOut"}
	m.extras = "a, b, c, d"
	d.PressCtrlN()
	assert.Equal(t, flow.StepActions, ctrl.Current().ID)
	assert.Contains(t, d.View(), "at most 3 custom actions")

	d.PressCtrlP()
	assert.Equal(t, flow.StepActions, ctrl.Current().ID, "back is blocked by the same invalid value")
}

func presetSelections(t *testing.T, ctrl *entry.OnboardingController) {
	t.Helper()
	require.NoError(t, ctrl.SetSelection(flow.StepActions, []string{"selfHarm", "isolating", "lashingOut"}))
	require.NoError(t, ctrl.SetSelection(flow.StepUrges, []string{"selfHarmUrges", "suicidalUrges", "bingeUrges"}))
	require.NoError(t, ctrl.SetSelection(flow.StepEmotions, []string{"sadness", "joy", "anger"}))
}

func TestOnboardingModel_PickerAddsTypedName(t *testing.T) {
	d, _, ctrl := newOnboardingDriver(t, &capturedProfile{})
	presetSelections(t, ctrl)
	for ctrl.Current().ID != flow.StepMedications {
		d.PressCtrlN()
	}

	d.Type("lithium")
	d.PressEnter()
	require.Len(t, ctrl.Medications(), 1)
	assert.Equal(t, "lithium", ctrl.Medications()[0].Name)

	d.Type("lithium")
	d.PressEnter()
	assert.Len(t, ctrl.Medications(), 1)
	assert.Contains(t, d.View(), "already added")

	d.PressCtrlX()
	assert.Empty(t, ctrl.Medications())
}

func TestOnboardingModel_FinishFailureAllowsRetry(t *testing.T) {
	saver := &capturedProfile{fail: true}
	d, _, ctrl := newOnboardingDriver(t, saver)
	presetSelections(t, ctrl)
	for !ctrl.IsLast() {
		d.PressCtrlN()
	}

	d.PressCtrlN()
	assert.False(t, d.Quitting)
	assert.Equal(t, entry.StateFailed, ctrl.State())
	assert.Contains(t, d.View(), entry.MsgProfileFailed)

	saver.fail = false
	d.PressCtrlN()
	assert.True(t, d.Quitting)
	assert.Equal(t, entry.StateSaved, ctrl.State())
}

func TestOnboardingModel_CloseReleasesResultWait(t *testing.T) {
	ctrl, err := entry.NewOnboardingController(&domain.UserProfile{UserID: "u1"}, nil, &capturedProfile{})
	require.NoError(t, err)
	m := newOnboardingModel(context.Background(), ctrl, &fakeLookup{}, time.Hour)

	cmd := m.waitForResult()
	require.NotNil(t, cmd)
	assert.Nil(t, m.waitForResult(), "one wait at a time")

	got := make(chan tea.Msg, 1)
	go func() { got <- cmd() }()
	m.close()
	m.close()

	select {
	case msg := <-got:
		assert.Nil(t, msg)
	case <-time.After(time.Second):
		t.Fatal("result wait still blocked after close")
	}
}

func TestOnboardingModel_ContextEndReleasesResultWait(t *testing.T) {
	ctrl, err := entry.NewOnboardingController(&domain.UserProfile{UserID: "u1"}, nil, &capturedProfile{})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	m := newOnboardingModel(ctx, ctrl, &fakeLookup{}, time.Hour)
	defer m.close()

	cmd := m.waitForResult()
	require.NotNil(t, cmd)
	cancel()
	assert.Nil(t, cmd())
}
