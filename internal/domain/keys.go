package domain

// RatingKey identifies one catalog rating field on a DiaryEntry. Keys can only
// be constructed inside this package, so every key outside it is one of the
// exported values below or the zero value, which updates reject.
type RatingKey struct {
	cluster Cluster
	name    string
	label   string
	field   func(*DiaryEntry) *Rating
}

// Name is the stable storage name, e.g. "selfHarmUrges".
func (k RatingKey) Name() string { return k.name }

// Label is the human-readable name.
func (k RatingKey) Label() string { return k.label }

// Cluster is the step cluster the key belongs to.
func (k RatingKey) Cluster() Cluster { return k.cluster }

// IsZero reports whether k is the zero key.
func (k RatingKey) IsZero() bool { return k.field == nil }

// ActionKey identifies one catalog yes/no action field on a DiaryEntry.
type ActionKey struct {
	name  string
	label string
	field func(*DiaryEntry) *bool
}

func (k ActionKey) Name() string  { return k.name }
func (k ActionKey) Label() string { return k.label }
func (k ActionKey) IsZero() bool  { return k.field == nil }

// Urge keys.
var (
	UrgeSelfHarm    = RatingKey{ClusterUrges, "selfHarmUrges", "Self-harm", func(e *DiaryEntry) *Rating { return &e.Urges.SelfHarm }}
	UrgeSuicidal    = RatingKey{ClusterUrges, "suicidalUrges", "Suicide", func(e *DiaryEntry) *Rating { return &e.Urges.Suicidal }}
	UrgeSubstance   = RatingKey{ClusterUrges, "substanceUrges", "Substance use", func(e *DiaryEntry) *Rating { return &e.Urges.Substance }}
	UrgeQuitTherapy = RatingKey{ClusterUrges, "quitTherapyUrges", "Quit therapy", func(e *DiaryEntry) *Rating { return &e.Urges.QuitTherapy }}
	UrgeBinge       = RatingKey{ClusterUrges, "bingeUrges", "Binge or purge", func(e *DiaryEntry) *Rating { return &e.Urges.Binge }}
)

// Emotion keys.
var (
	EmotionSadness    = RatingKey{ClusterEmotions, "sadness", "Sadness", func(e *DiaryEntry) *Rating { return &e.Emotions.Sadness }}
	EmotionAnger      = RatingKey{ClusterEmotions, "anger", "Anger", func(e *DiaryEntry) *Rating { return &e.Emotions.Anger }}
	EmotionFear       = RatingKey{ClusterEmotions, "fear", "Fear", func(e *DiaryEntry) *Rating { return &e.Emotions.Fear }}
	EmotionShame      = RatingKey{ClusterEmotions, "shame", "Shame", func(e *DiaryEntry) *Rating { return &e.Emotions.Shame }}
	EmotionGuilt      = RatingKey{ClusterEmotions, "guilt", "Guilt", func(e *DiaryEntry) *Rating { return &e.Emotions.Guilt }}
	EmotionJoy        = RatingKey{ClusterEmotions, "joy", "Joy", func(e *DiaryEntry) *Rating { return &e.Emotions.Joy }}
	EmotionAnxiety    = RatingKey{ClusterEmotions, "anxiety", "Anxiety", func(e *DiaryEntry) *Rating { return &e.Emotions.Anxiety }}
	EmotionLoneliness = RatingKey{ClusterEmotions, "loneliness", "Loneliness", func(e *DiaryEntry) *Rating { return &e.Emotions.Loneliness }}
)

// Skill keys.
var (
	SkillMindfulness       = RatingKey{ClusterSkills, "mindfulness", "Mindfulness", func(e *DiaryEntry) *Rating { return &e.Skills.Mindfulness }}
	SkillDistressTolerance = RatingKey{ClusterSkills, "distressTolerance", "Distress tolerance", func(e *DiaryEntry) *Rating { return &e.Skills.DistressTolerance }}
	SkillEmotionRegulation = RatingKey{ClusterSkills, "emotionRegulation", "Emotion regulation", func(e *DiaryEntry) *Rating { return &e.Skills.EmotionRegulation }}
	SkillInterpersonal     = RatingKey{ClusterSkills, "interpersonalEffectiveness", "Interpersonal effectiveness", func(e *DiaryEntry) *Rating { return &e.Skills.Interpersonal }}
)

// Action keys.
var (
	ActionSelfHarm       = ActionKey{"selfHarm", "Self-harm", func(e *DiaryEntry) *bool { return &e.Actions.SelfHarm }}
	ActionSubstanceUse   = ActionKey{"substanceUse", "Substance use", func(e *DiaryEntry) *bool { return &e.Actions.SubstanceUse }}
	ActionBingePurge     = ActionKey{"bingePurge", "Binge or purge", func(e *DiaryEntry) *bool { return &e.Actions.BingePurge }}
	ActionLashingOut     = ActionKey{"lashingOut", "Lashing out", func(e *DiaryEntry) *bool { return &e.Actions.LashingOut }}
	ActionIsolating      = ActionKey{"isolating", "Isolating", func(e *DiaryEntry) *bool { return &e.Actions.Isolating }}
	ActionSkippedTherapy = ActionKey{"skippedTherapy", "Skipped therapy", func(e *DiaryEntry) *bool { return &e.Actions.SkippedTherapy }}
)

var ratingCatalog = map[Cluster][]RatingKey{
	ClusterUrges:    {UrgeSelfHarm, UrgeSuicidal, UrgeSubstance, UrgeQuitTherapy, UrgeBinge},
	ClusterEmotions: {EmotionSadness, EmotionAnger, EmotionFear, EmotionShame, EmotionGuilt, EmotionJoy, EmotionAnxiety, EmotionLoneliness},
	ClusterSkills:   {SkillMindfulness, SkillDistressTolerance, SkillEmotionRegulation, SkillInterpersonal},
}

var actionCatalog = []ActionKey{
	ActionSelfHarm, ActionSubstanceUse, ActionBingePurge, ActionLashingOut, ActionIsolating, ActionSkippedTherapy,
}

// RatingKeys returns the catalog keys of a cluster in display order.
func RatingKeys(c Cluster) []RatingKey {
	keys := ratingCatalog[c]
	out := make([]RatingKey, len(keys))
	copy(out, keys)
	return out
}

// LookupRatingKey resolves a stored key name within a cluster.
func LookupRatingKey(c Cluster, name string) (RatingKey, bool) {
	for _, k := range ratingCatalog[c] {
		if k.name == name {
			return k, true
		}
	}
	return RatingKey{}, false
}

// ActionKeys returns the action catalog in display order.
func ActionKeys() []ActionKey {
	out := make([]ActionKey, len(actionCatalog))
	copy(out, actionCatalog)
	return out
}

// LookupActionKey resolves a stored action name.
func LookupActionKey(name string) (ActionKey, bool) {
	for _, k := range actionCatalog {
		if k.name == name {
			return k, true
		}
	}
	return ActionKey{}, false
}
