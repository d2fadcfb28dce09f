package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemas_Valid(t *testing.T) {
	require.NoError(t, DiaryFlow.Validate())
	require.NoError(t, OnboardingFlow.Validate())
	assert.Equal(t, 7, DiaryFlow.Len())
	assert.Equal(t, 9, OnboardingFlow.Len())
}

func TestLookup(t *testing.T) {
	s, err := Lookup(DiarySchemaV1)
	require.NoError(t, err)
	assert.Equal(t, DiaryFlow.ID, s.ID)

	_, err = Lookup("diary/v0")
	assert.Error(t, err)
}

func TestNavigator_NextPreviousRoundTrip(t *testing.T) {
	for _, schema := range []Schema{DiaryFlow, OnboardingFlow} {
		// From every non-terminal, non-initial step, next then previous
		// returns to the original step.
		for i := 1; i < schema.Len()-1; i++ {
			nav := NewNavigator(schema)
			require.True(t, nav.GoTo(schema.Steps[i].ID))
			orig := nav.Current()

			_, ok := nav.Next()
			require.True(t, ok)
			back, ok := nav.Previous()
			require.True(t, ok)
			assert.Equal(t, orig, back, "schema=%s step=%s", schema.ID, orig.ID)
		}
	}
}

func TestNavigator_ClampsAtEnds(t *testing.T) {
	nav := NewNavigator(DiaryFlow)
	assert.True(t, nav.IsFirst())

	_, ok := nav.Previous()
	assert.False(t, ok)
	_, ok = nav.Previous()
	assert.False(t, ok)
	assert.Equal(t, StepActions, nav.Current().ID, "previous at first step is idempotent")

	for i := 0; i < DiaryFlow.Len()+3; i++ {
		nav.Next()
	}
	assert.True(t, nav.IsLast())
	assert.Equal(t, StepNote, nav.Current().ID)

	_, ok = nav.Next()
	assert.False(t, ok)
	assert.Equal(t, StepNote, nav.Current().ID, "next at last step is idempotent")
}

func TestNavigator_Progress(t *testing.T) {
	nav := NewNavigator(DiaryFlow)
	n := float64(DiaryFlow.Len())
	assert.InDelta(t, 1/n, nav.Progress(), 1e-9)

	nav.Next()
	assert.InDelta(t, 2/n, nav.Progress(), 1e-9)

	nav.GoTo(StepNote)
	assert.Equal(t, 1.0, nav.Progress())
	assert.Equal(t, nav.Progress(), DiaryFlow.Progress(StepNote))
}

func TestNavigator_GoToUnknownKeepsPosition(t *testing.T) {
	nav := NewNavigator(OnboardingFlow)
	nav.Next()
	assert.False(t, nav.GoTo("nope"))
	assert.Equal(t, StepProfile, nav.Current().ID)
}

func TestSchema_ValidateRejectsDuplicates(t *testing.T) {
	s := Schema{ID: "x/v1", Steps: []Step{{ID: "a"}, {ID: "a"}}}
	assert.ErrorContains(t, s.Validate(), "duplicate")
	assert.Error(t, Schema{ID: "x/v1"}.Validate())
	assert.Error(t, Schema{Steps: []Step{{ID: "a"}}}.Validate())
}

func TestNewNavigator_PanicsOnEmptySchema(t *testing.T) {
	assert.Panics(t, func() { NewNavigator(Schema{ID: "empty"}) })
}
