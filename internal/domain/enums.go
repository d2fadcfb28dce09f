package domain

import (
	"fmt"
	"strings"
	"time"
)

// SessionTag records when a diary entry was captured.
type SessionTag string

const (
	SessionMorning SessionTag = "morning"
	SessionEvening SessionTag = "evening"
	SessionManual  SessionTag = "manual"
)

// ValidSessionTags is the canonical set of accepted session tag strings.
var ValidSessionTags = map[string]bool{
	"morning": true, "evening": true, "manual": true,
}

// ParseSessionTag parses a session tag, case-insensitively.
func ParseSessionTag(s string) (SessionTag, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if !ValidSessionTags[v] {
		return "", fmt.Errorf("invalid session %q (want morning, evening or manual)", s)
	}
	return SessionTag(v), nil
}

// SessionFor picks morning before 15:00 local time and evening after.
func SessionFor(t time.Time) SessionTag {
	if t.Hour() < 15 {
		return SessionMorning
	}
	return SessionEvening
}

// Cluster groups diary fields by the step that captures them.
type Cluster string

const (
	ClusterActions  Cluster = "actions"
	ClusterUrges    Cluster = "urges"
	ClusterEmotions Cluster = "emotions"
	ClusterSkills   Cluster = "skills"
)

// Limits on user-defined labels.
const (
	MaxCustomActions = 3
	MaxCustomUrges   = 2
	MaxGoals         = 3
)

// Onboarding selection targets: each selection screen requires exactly this
// many catalog items before it can be continued.
const (
	TrackedActionsTarget  = 3
	TrackedUrgesTarget    = 3
	TrackedEmotionsTarget = 3
)
