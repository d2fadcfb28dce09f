// Package flow holds the linear step sequences shared by onboarding and the
// daily diary card: the ordered step definitions, a clamped navigator over
// them, and the counted selection sets that gate some onboarding screens.
package flow

import "fmt"

// StepID is the symbolic name of a step.
type StepID string

// Step is one named stage in a linear flow. The display fields are constant
// per identity.
type Step struct {
	ID          StepID
	Title       string
	Description string
	Icon        string
}

// Schema is a versioned, ordered list of steps. A schema is defined once and
// never mutated; a changed flow gets a new schema ID instead.
type Schema struct {
	ID    string
	Steps []Step
}

// Len returns the number of steps.
func (s Schema) Len() int { return len(s.Steps) }

// Index returns the ordinal position of id, or -1 when the schema does not
// contain it.
func (s Schema) Index(id StepID) int {
	for i, st := range s.Steps {
		if st.ID == id {
			return i
		}
	}
	return -1
}

// Step returns the step with the given id.
func (s Schema) Step(id StepID) (Step, bool) {
	i := s.Index(id)
	if i < 0 {
		return Step{}, false
	}
	return s.Steps[i], true
}

// Progress returns (index+1)/len for id, or 0 when id is not in the schema.
func (s Schema) Progress(id StepID) float64 {
	i := s.Index(id)
	if i < 0 || len(s.Steps) == 0 {
		return 0
	}
	return float64(i+1) / float64(len(s.Steps))
}

// Validate checks that the schema is non-empty and that step IDs are unique.
func (s Schema) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("flow schema: missing id")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("flow schema %s: no steps", s.ID)
	}
	seen := make(map[StepID]bool, len(s.Steps))
	for _, st := range s.Steps {
		if st.ID == "" {
			return fmt.Errorf("flow schema %s: step with empty id", s.ID)
		}
		if seen[st.ID] {
			return fmt.Errorf("flow schema %s: duplicate step %q", s.ID, st.ID)
		}
		seen[st.ID] = true
	}
	return nil
}
