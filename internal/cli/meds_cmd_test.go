package cli

import (
	"context"
	"testing"

	"github.com/alexanderramin/diarycard/internal/rxnorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedsCmd_SearchAndForms(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "meds", "search", "sert")
	require.NoError(t, err)
	assert.Contains(t, out, "sertraline")
	assert.Contains(t, out, "Zoloft")

	out, err = executeCmd(t, app, "meds", "forms", "36437")
	require.NoError(t, err)
	assert.Contains(t, out, "50 MG")
	assert.Contains(t, out, "Oral Tablet")
}

func TestMedsCmd_SearchErrors(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "meds", "search", "s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 characters")

	app.Lookup.(*fakeLookup).err = rxnorm.ErrUnavailable
	_, err = executeCmd(t, app, "meds", "search", "sertraline")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unable to reach the medication database")
}

func TestMedsCmd_AddListRemove(t *testing.T) {
	app := testApp(t)
	sess := signUp(t, app)
	ctx := context.Background()

	out, err := executeCmd(t, app, "meds", "add", "--rxcui", "312940", "--at", "07:30", "--at", "21:00")
	require.NoError(t, err)
	assert.Contains(t, out, "Added")

	meds, err := app.Meds.List(ctx, sess.UserID)
	require.NoError(t, err)
	require.Len(t, meds, 1)
	assert.Equal(t, "sertraline 50 MG Oral Tablet", meds[0].Name)
	assert.Equal(t, "50 MG", meds[0].Strength)
	assert.Equal(t, "312940", meds[0].RxCUI)
	assert.Len(t, meds[0].ReminderTimes, 2)

	pending, err := app.Reminders.Pending(ctx, sess.UserID)
	require.NoError(t, err)
	assert.Len(t, pending, 2, "adding a medication resyncs reminders")

	out, err = executeCmd(t, app, "meds", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "07:30, 21:00")

	out, err = executeCmd(t, app, "meds", "remove", meds[0].ID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "Removed")

	pending, err = app.Reminders.Pending(ctx, sess.UserID)
	require.NoError(t, err)
	assert.Empty(t, pending)

	out, err = executeCmd(t, app, "meds", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No medications on your list.")
}

func TestMedsCmd_AddValidation(t *testing.T) {
	app := testApp(t)
	signUp(t, app)

	_, err := executeCmd(t, app, "meds", "add")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--name or --rxcui is required")

	_, err = executeCmd(t, app, "meds", "add", "--name", "lithium", "--at", "8am")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--at")

	_, err = executeCmd(t, app, "meds", "add", "--name", "lithium", "--at", "08:00", "--at", "08:00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate reminder time")

	_, err = executeCmd(t, app, "meds", "remove", "nothing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no medication matching")
}
