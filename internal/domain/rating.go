package domain

import "time"

const (
	MinRating = 0
	MaxRating = 10
)

// ClampRating forces v into [MinRating, MaxRating].
func ClampRating(v int) int {
	if v < MinRating {
		return MinRating
	}
	if v > MaxRating {
		return MaxRating
	}
	return v
}

// Rating is a 0–10 self-rating with the time it was captured. A rating that
// has never been set has a nil CapturedAt.
type Rating struct {
	Value      int        `json:"value"`
	CapturedAt *time.Time `json:"capturedAt,omitempty"`
}

// NewRating returns a clamped rating captured at the given time.
func NewRating(v int, at time.Time) Rating {
	at = at.UTC()
	return Rating{Value: ClampRating(v), CapturedAt: &at}
}

// IsSet reports whether the rating has been captured.
func (r Rating) IsSet() bool { return r.CapturedAt != nil }

// LabeledRating is a rating for a user-defined label.
type LabeledRating struct {
	Label  string `json:"label"`
	Rating Rating `json:"rating"`
}

// LabeledAction is a yes/no record for a user-defined action.
type LabeledAction struct {
	Label string `json:"label"`
	Acted bool   `json:"acted"`
}
