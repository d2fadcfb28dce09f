package domain

import (
	"time"

	"github.com/google/uuid"
)

type ActionRecord struct {
	SelfHarm       bool            `json:"selfHarm"`
	SubstanceUse   bool            `json:"substanceUse"`
	BingePurge     bool            `json:"bingePurge"`
	LashingOut     bool            `json:"lashingOut"`
	Isolating      bool            `json:"isolating"`
	SkippedTherapy bool            `json:"skippedTherapy"`
	Custom         []LabeledAction `json:"custom,omitempty"`
}

type UrgeRatings struct {
	SelfHarm    Rating          `json:"selfHarmUrges"`
	Suicidal    Rating          `json:"suicidalUrges"`
	Substance   Rating          `json:"substanceUrges"`
	QuitTherapy Rating          `json:"quitTherapyUrges"`
	Binge       Rating          `json:"bingeUrges"`
	Custom      []LabeledRating `json:"custom,omitempty"`
}

type EmotionRatings struct {
	Sadness    Rating `json:"sadness"`
	Anger      Rating `json:"anger"`
	Fear       Rating `json:"fear"`
	Shame      Rating `json:"shame"`
	Guilt      Rating `json:"guilt"`
	Joy        Rating `json:"joy"`
	Anxiety    Rating `json:"anxiety"`
	Loneliness Rating `json:"loneliness"`
}

type SkillRatings struct {
	Mindfulness       Rating `json:"mindfulness"`
	DistressTolerance Rating `json:"distressTolerance"`
	EmotionRegulation Rating `json:"emotionRegulation"`
	Interpersonal     Rating `json:"interpersonalEffectiveness"`
}

// MedicationDose records adherence for one medication on one entry.
type MedicationDose struct {
	MedicationID string `json:"medicationId"`
	Name         string `json:"name"`
	Strength     string `json:"strength,omitempty"`
	Taken        bool   `json:"taken"`
}

type GoalProgress struct {
	Goal string `json:"goal"`
	Done bool   `json:"done"`
}

// DiaryEntry is one diary card, stored as users/{uid}/diaryEntries/{id}.
type DiaryEntry struct {
	ID          string           `json:"id"`
	UserID      string           `json:"userId"`
	Session     SessionTag       `json:"session"`
	Timestamp   time.Time        `json:"timestamp"`
	Schema      string           `json:"schema"`
	Actions     ActionRecord     `json:"actions"`
	Urges       UrgeRatings      `json:"urges"`
	Emotions    EmotionRatings   `json:"emotions"`
	Skills      SkillRatings     `json:"skills"`
	Medications []MedicationDose `json:"medications"`
	Goals       []GoalProgress   `json:"goals"`
	Note        string           `json:"note"`
}

// NewDiaryEntry builds the zero-valued entry a diary flow starts from. Custom
// labels, goals and medications are seeded from the profile and medication
// list so every step has a slot to write into.
func NewDiaryEntry(profile *UserProfile, meds []*Medication, session SessionTag, schema string, now time.Time) *DiaryEntry {
	e := &DiaryEntry{
		ID:          uuid.New().String(),
		Session:     session,
		Timestamp:   now.UTC(),
		Schema:      schema,
		Medications: []MedicationDose{},
		Goals:       []GoalProgress{},
	}
	if profile != nil {
		e.UserID = profile.UserID
		for i, label := range profile.CustomActions {
			if i >= MaxCustomActions {
				break
			}
			e.Actions.Custom = append(e.Actions.Custom, LabeledAction{Label: label})
		}
		for i, label := range profile.CustomUrges {
			if i >= MaxCustomUrges {
				break
			}
			e.Urges.Custom = append(e.Urges.Custom, LabeledRating{Label: label})
		}
		for _, g := range profile.Goals {
			e.Goals = append(e.Goals, GoalProgress{Goal: g})
		}
	}
	for _, m := range meds {
		e.Medications = append(e.Medications, MedicationDose{
			MedicationID: m.ID,
			Name:         m.Name,
			Strength:     m.Strength,
		})
	}
	return e
}

// Rating returns the value held for a catalog key. The zero key yields the
// zero rating.
func (e *DiaryEntry) Rating(k RatingKey) Rating {
	if k.IsZero() {
		return Rating{}
	}
	return *k.field(e)
}

// Acted returns the value held for a catalog action.
func (e *DiaryEntry) Acted(k ActionKey) bool {
	if k.IsZero() {
		return false
	}
	return *k.field(e)
}

// CustomUrge returns the rating for a custom urge label.
func (e *DiaryEntry) CustomUrge(label string) (Rating, bool) {
	for _, c := range e.Urges.Custom {
		if c.Label == label {
			return c.Rating, true
		}
	}
	return Rating{}, false
}

// CustomAction returns the record for a custom action label.
func (e *DiaryEntry) CustomAction(label string) (bool, bool) {
	for _, c := range e.Actions.Custom {
		if c.Label == label {
			return c.Acted, true
		}
	}
	return false, false
}

// ActedCount returns how many catalog and custom actions were marked.
func (e *DiaryEntry) ActedCount() int {
	n := 0
	for _, k := range actionCatalog {
		if *k.field(e) {
			n++
		}
	}
	for _, c := range e.Actions.Custom {
		if c.Acted {
			n++
		}
	}
	return n
}

// MaxUrge returns the highest urge rating on the entry, custom urges included.
func (e *DiaryEntry) MaxUrge() int {
	highest := 0
	for _, k := range ratingCatalog[ClusterUrges] {
		if v := k.field(e).Value; v > highest {
			highest = v
		}
	}
	for _, c := range e.Urges.Custom {
		if c.Rating.Value > highest {
			highest = c.Rating.Value
		}
	}
	return highest
}

// Clone returns a deep copy so a persisted entry can be handed off without
// sharing slices with the in-flight model.
func (e *DiaryEntry) Clone() *DiaryEntry {
	c := *e
	c.Actions.Custom = append([]LabeledAction(nil), e.Actions.Custom...)
	c.Urges.Custom = append([]LabeledRating(nil), e.Urges.Custom...)
	c.Medications = append([]MedicationDose{}, e.Medications...)
	c.Goals = append([]GoalProgress{}, e.Goals...)
	return &c
}
