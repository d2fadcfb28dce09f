package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alexanderramin/diarycard/internal/rxnorm"
)

// MinQueryLength is the shortest trimmed query that is sent to the lookup.
const MinQueryLength = 2

// DefaultDelay is the quiet interval before a typed query is dispatched.
const DefaultDelay = 800 * time.Millisecond

// ErrQueryTooShort is reported for queries under MinQueryLength characters.
var ErrQueryTooShort = fmt.Errorf("query must be at least %d characters", MinQueryLength)

// Result is delivered once per dispatched query, or immediately for queries
// that are too short to dispatch.
type Result struct {
	Query string
	Drugs []rxnorm.Drug
	Err   error
}

// Message returns the user-facing text for r.Err.
func (r Result) Message() string {
	return Message(r.Err)
}

// Message maps search errors, including lookup errors, to user-facing text.
func Message(err error) string {
	if errors.Is(err, ErrQueryTooShort) {
		return fmt.Sprintf("Enter at least %d characters to search.", MinQueryLength)
	}
	return rxnorm.UserMessage(err)
}

// MedicationSearch is search-as-you-type over a drug lookup.
type MedicationSearch struct {
	lookup   rxnorm.Lookup
	debounce *Debouncer
	onResult func(Result)
}

// NewMedicationSearch creates a search that reports to onResult. onResult is
// called from a background goroutine for dispatched queries and must not block
// for long.
func NewMedicationSearch(lookup rxnorm.Lookup, delay time.Duration, onResult func(Result)) *MedicationSearch {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &MedicationSearch{
		lookup:   lookup,
		debounce: NewDebouncer(delay),
		onResult: onResult,
	}
}

// Query records a keystroke. Queries under MinQueryLength cancel any pending
// lookup and report an empty result at once; longer ones are debounced.
func (s *MedicationSearch) Query(text string) {
	q := strings.TrimSpace(text)
	if utf8.RuneCountInString(q) < MinQueryLength {
		s.debounce.Cancel()
		r := Result{Query: q, Drugs: []rxnorm.Drug{}}
		if q != "" {
			r.Err = ErrQueryTooShort
		}
		s.onResult(r)
		return
	}
	s.debounce.Trigger(func(ctx context.Context, current func() bool) {
		drugs, err := s.lookup.Search(ctx, q)
		if !current() {
			return
		}
		if drugs == nil {
			drugs = []rxnorm.Drug{}
		}
		s.onResult(Result{Query: q, Drugs: drugs, Err: err})
	})
}

// Close cancels pending lookups and waits for a running one to finish.
func (s *MedicationSearch) Close() {
	s.debounce.Stop()
}

// Search runs one lookup immediately, applying the same length rule.
func Search(ctx context.Context, lookup rxnorm.Lookup, text string) ([]rxnorm.Drug, error) {
	q := strings.TrimSpace(text)
	if utf8.RuneCountInString(q) < MinQueryLength {
		return []rxnorm.Drug{}, ErrQueryTooShort
	}
	return lookup.Search(ctx, q)
}
