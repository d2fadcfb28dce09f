package entry

import "errors"

var (
	// ErrSubmitInFlight is returned when a submission is already running.
	ErrSubmitInFlight = errors.New("submission already in progress")

	// ErrAlreadySaved is returned when a saved model is edited or submitted again.
	ErrAlreadySaved = errors.New("already saved")

	// ErrSelectionIncomplete is returned when a gated step does not hold
	// exactly its target number of selections.
	ErrSelectionIncomplete = errors.New("selection incomplete")
)

// User-facing submission messages.
const (
	MsgEntrySaved      = "Entry saved successfully!"
	MsgEntrySaveFailed = "Failed to save entry. Please try again."
	MsgProfileSaved    = "Profile saved!"
	MsgProfileFailed   = "Failed to save profile. Please try again."
)

// SubmitState is the submission state machine shared by both controllers:
// Idle -> Submitting -> Saved, or Submitting -> Failed -> Submitting on retry.
type SubmitState int

const (
	StateIdle SubmitState = iota
	StateSubmitting
	StateSaved
	StateFailed
)

func (s SubmitState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSaved:
		return "saved"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
