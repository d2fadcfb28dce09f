package flow

import "fmt"

// Diary card steps.
const (
	StepActions     StepID = "actions"
	StepUrges       StepID = "urges"
	StepEmotions    StepID = "emotions"
	StepSkills      StepID = "skills"
	StepMedications StepID = "medications"
	StepGoals       StepID = "goals"
	StepNote        StepID = "note"
)

// Onboarding steps. Actions, urges, emotions, goals and medications reuse the
// diary identities above.
const (
	StepWelcome   StepID = "welcome"
	StepProfile   StepID = "profile"
	StepReminders StepID = "reminders"
	StepFinish    StepID = "finish"
)

// Schema identifiers. Entries and profiles record the schema they were
// captured with.
const (
	DiarySchemaV1      = "diary/v1"
	OnboardingSchemaV1 = "onboarding/v1"
)

// DiaryFlow is the canonical daily diary card sequence.
var DiaryFlow = Schema{
	ID: DiarySchemaV1,
	Steps: []Step{
		{ID: StepActions, Title: "Actions", Description: "Did you act on any target behaviours today?", Icon: "✋"},
		{ID: StepUrges, Title: "Urges", Description: "Rate the strength of each urge from 0 to 10.", Icon: "🌊"},
		{ID: StepEmotions, Title: "Emotions", Description: "Rate how intensely you felt each emotion.", Icon: "💭"},
		{ID: StepSkills, Title: "Skills", Description: "How much did you use each skill module?", Icon: "🧰"},
		{ID: StepMedications, Title: "Medications", Description: "Mark the medications you took as prescribed.", Icon: "💊"},
		{ID: StepGoals, Title: "Goals", Description: "Check off the goals you worked on.", Icon: "🎯"},
		{ID: StepNote, Title: "Daily Note", Description: "Anything else worth remembering about today?", Icon: "📝"},
	},
}

// OnboardingFlow is the canonical onboarding sequence.
var OnboardingFlow = Schema{
	ID: OnboardingSchemaV1,
	Steps: []Step{
		{ID: StepWelcome, Title: "Welcome", Description: "Your diary card tracks urges, actions, emotions and skills each day.", Icon: "👋"},
		{ID: StepProfile, Title: "About You", Description: "What should we call you?", Icon: "🙂"},
		{ID: StepActions, Title: "Target Actions", Description: "Choose exactly 3 behaviours to track.", Icon: "✋"},
		{ID: StepUrges, Title: "Urges", Description: "Choose exactly 3 urges to rate daily.", Icon: "🌊"},
		{ID: StepEmotions, Title: "Emotions", Description: "Choose exactly 3 emotions to rate daily.", Icon: "💭"},
		{ID: StepGoals, Title: "Goals", Description: "Add up to 3 personal goals.", Icon: "🎯"},
		{ID: StepMedications, Title: "Medications", Description: "Add medications you want reminders for.", Icon: "💊"},
		{ID: StepReminders, Title: "Reminders", Description: "When should we remind you to fill in your card?", Icon: "⏰"},
		{ID: StepFinish, Title: "All Set", Description: "Review and finish setting up.", Icon: "✅"},
	},
}

var schemas = map[string]Schema{
	DiarySchemaV1:      DiaryFlow,
	OnboardingSchemaV1: OnboardingFlow,
}

// Lookup resolves a schema by identifier.
func Lookup(id string) (Schema, error) {
	s, ok := schemas[id]
	if !ok {
		return Schema{}, fmt.Errorf("unknown flow schema %q", id)
	}
	return s, nil
}
