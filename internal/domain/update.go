package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownField is returned when an update targets a field the entry does
// not hold: the zero key, or a custom label, medication or goal that was not
// seeded into the entry.
var ErrUnknownField = errors.New("unknown diary field")

// Update is a single field change to a DiaryEntry. The set of updates is
// closed: values are only produced by the constructors in this file.
type Update interface {
	apply(e *DiaryEntry, now time.Time) error
	// Cluster names the step cluster the update writes to.
	Cluster() string
}

// Apply applies u to the entry. Rating values are clamped to [0,10].
func (e *DiaryEntry) Apply(u Update, now time.Time) error {
	return u.apply(e, now)
}

type ratingUpdate struct {
	key   RatingKey
	value int
}

// SetRating sets a catalog rating.
func SetRating(k RatingKey, v int) Update { return ratingUpdate{key: k, value: v} }

func (u ratingUpdate) apply(e *DiaryEntry, now time.Time) error {
	if u.key.IsZero() {
		return fmt.Errorf("rating: %w", ErrUnknownField)
	}
	*u.key.field(e) = NewRating(u.value, now)
	return nil
}

func (u ratingUpdate) Cluster() string { return string(u.key.cluster) }

type actionUpdate struct {
	key   ActionKey
	acted bool
}

// SetAction marks a catalog action.
func SetAction(k ActionKey, acted bool) Update { return actionUpdate{key: k, acted: acted} }

func (u actionUpdate) apply(e *DiaryEntry, _ time.Time) error {
	if u.key.IsZero() {
		return fmt.Errorf("action: %w", ErrUnknownField)
	}
	*u.key.field(e) = u.acted
	return nil
}

func (u actionUpdate) Cluster() string { return string(ClusterActions) }

type customUrgeUpdate struct {
	label string
	value int
}

// SetCustomUrge rates a custom urge seeded from the profile.
func SetCustomUrge(label string, v int) Update { return customUrgeUpdate{label: label, value: v} }

func (u customUrgeUpdate) apply(e *DiaryEntry, now time.Time) error {
	for i := range e.Urges.Custom {
		if e.Urges.Custom[i].Label == u.label {
			e.Urges.Custom[i].Rating = NewRating(u.value, now)
			return nil
		}
	}
	return fmt.Errorf("custom urge %q: %w", u.label, ErrUnknownField)
}

func (u customUrgeUpdate) Cluster() string { return string(ClusterUrges) }

type customActionUpdate struct {
	label string
	acted bool
}

// SetCustomAction marks a custom action seeded from the profile.
func SetCustomAction(label string, acted bool) Update {
	return customActionUpdate{label: label, acted: acted}
}

func (u customActionUpdate) apply(e *DiaryEntry, _ time.Time) error {
	for i := range e.Actions.Custom {
		if e.Actions.Custom[i].Label == u.label {
			e.Actions.Custom[i].Acted = u.acted
			return nil
		}
	}
	return fmt.Errorf("custom action %q: %w", u.label, ErrUnknownField)
}

func (u customActionUpdate) Cluster() string { return string(ClusterActions) }

type medicationUpdate struct {
	medicationID string
	taken        bool
}

// SetMedicationTaken records adherence for a medication on the entry.
func SetMedicationTaken(medicationID string, taken bool) Update {
	return medicationUpdate{medicationID: medicationID, taken: taken}
}

func (u medicationUpdate) apply(e *DiaryEntry, _ time.Time) error {
	for i := range e.Medications {
		if e.Medications[i].MedicationID == u.medicationID {
			e.Medications[i].Taken = u.taken
			return nil
		}
	}
	return fmt.Errorf("medication %q: %w", u.medicationID, ErrUnknownField)
}

func (u medicationUpdate) Cluster() string { return "medications" }

type goalUpdate struct {
	goal string
	done bool
}

// SetGoalDone checks off a goal seeded from the profile.
func SetGoalDone(goal string, done bool) Update { return goalUpdate{goal: goal, done: done} }

func (u goalUpdate) apply(e *DiaryEntry, _ time.Time) error {
	for i := range e.Goals {
		if e.Goals[i].Goal == u.goal {
			e.Goals[i].Done = u.done
			return nil
		}
	}
	return fmt.Errorf("goal %q: %w", u.goal, ErrUnknownField)
}

func (u goalUpdate) Cluster() string { return "goals" }

type noteUpdate struct{ text string }

// SetNote replaces the daily note.
func SetNote(text string) Update { return noteUpdate{text: text} }

func (u noteUpdate) apply(e *DiaryEntry, _ time.Time) error {
	e.Note = u.text
	return nil
}

func (u noteUpdate) Cluster() string { return "note" }
