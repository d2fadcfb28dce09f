package rxnorm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractStrength(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"sertraline 50 MG Oral Tablet", "50 MG"},
		{"amoxicillin 250 MG/5ML Oral Suspension", "250 MG/5ML"},
		{"lorazepam 0.5 MG Oral Tablet", "0.5 MG"},
		{"insulin glargine 100 UNT/ML Injectable Solution", "100 UNT/ML"},
		{"acetaminophen 325 MG / oxycodone hydrochloride 5 MG Oral Tablet", "325 MG / 5 MG"},
		{"hydrocortisone 1 % Topical Cream", "1 %"},
		{"24 HR venlafaxine 75 MG Extended Release Oral Capsule", "75 MG"},
		{"aspirin", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractStrength(tt.name))
		})
	}
}

func TestExtractDosageForm(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"sertraline 50 MG Oral Tablet", "Oral Tablet"},
		{"24 HR venlafaxine 75 MG Extended Release Oral Capsule", "Extended Release Oral Capsule"},
		{"lamotrigine 25 MG Disintegrating Oral Tablet", "Disintegrating Oral Tablet"},
		{"nicotine 14 MG/24HR Transdermal System", "Transdermal System"},
		{"fluticasone 0.05 MG/ACTUAT Nasal Spray", "Nasal Spray"},
		{"sertraline", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDosageForm(tt.name))
		})
	}
}

func TestUserMessage_ClosedSet(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "No medications found. Try a different spelling.", UserMessage(fmt.Errorf("q: %w", ErrNoResults)))
	assert.Equal(t, "The medication search timed out. Please try again.", UserMessage(ErrTimeout))
	assert.Equal(t, "Something went wrong. Please try again.", UserMessage(errors.New("boom")))

	seen := map[string]bool{}
	for _, err := range []error{ErrEmptyQuery, ErrUnavailable, ErrTimeout, ErrBadStatus, ErrDecode, ErrNoResults} {
		msg := UserMessage(err)
		assert.NotEmpty(t, msg)
		assert.False(t, seen[msg], "duplicate message %q", msg)
		seen[msg] = true
	}
}
