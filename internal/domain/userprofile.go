package domain

import (
	"fmt"
	"strings"
	"time"
)

// UserProfile is the onboarding-collected profile stored as users/{uid}.
type UserProfile struct {
	UserID             string
	Email              string
	DisplayName        string
	TrackedActions     []string // ActionKey names
	TrackedUrges       []string // RatingKey names in ClusterUrges
	TrackedEmotions    []string // RatingKey names in ClusterEmotions
	CustomActions      []string
	CustomUrges        []string
	Goals              []string
	MorningReminder    *ClockTime
	EveningReminder    *ClockTime
	OnboardingComplete bool
	FlowSchema         string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Greeting returns the display name, falling back to the email local part.
func (p *UserProfile) Greeting() string {
	local, _, _ := strings.Cut(p.Email, "@")
	return CoalesceStr(p.DisplayName, local, "there")
}

// Validate checks label caps and that tracked items exist in the catalogs.
func (p *UserProfile) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("profile: missing user id")
	}
	if len(p.CustomActions) > MaxCustomActions {
		return fmt.Errorf("profile: at most %d custom actions", MaxCustomActions)
	}
	if len(p.CustomUrges) > MaxCustomUrges {
		return fmt.Errorf("profile: at most %d custom urges", MaxCustomUrges)
	}
	if len(p.Goals) > MaxGoals {
		return fmt.Errorf("profile: at most %d goals", MaxGoals)
	}
	for _, name := range p.TrackedActions {
		if _, ok := LookupActionKey(name); !ok {
			return fmt.Errorf("profile: unknown action %q", name)
		}
	}
	for _, name := range p.TrackedUrges {
		if _, ok := LookupRatingKey(ClusterUrges, name); !ok {
			return fmt.Errorf("profile: unknown urge %q", name)
		}
	}
	for _, name := range p.TrackedEmotions {
		if _, ok := LookupRatingKey(ClusterEmotions, name); !ok {
			return fmt.Errorf("profile: unknown emotion %q", name)
		}
	}
	return nil
}

// TrackedActionKeys resolves TrackedActions, dropping unknown names. An
// empty tracked list means every catalog action.
func (p *UserProfile) TrackedActionKeys() []ActionKey {
	if len(p.TrackedActions) == 0 {
		return ActionKeys()
	}
	keys := make([]ActionKey, 0, len(p.TrackedActions))
	for _, name := range p.TrackedActions {
		if k, ok := LookupActionKey(name); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// TrackedRatingKeys resolves the tracked names of a cluster. Skills are
// always tracked in full; an empty list means the whole catalog.
func (p *UserProfile) TrackedRatingKeys(c Cluster) []RatingKey {
	var names []string
	switch c {
	case ClusterUrges:
		names = p.TrackedUrges
	case ClusterEmotions:
		names = p.TrackedEmotions
	}
	if len(names) == 0 {
		return RatingKeys(c)
	}
	keys := make([]RatingKey, 0, len(names))
	for _, name := range names {
		if k, ok := LookupRatingKey(c, name); ok {
			keys = append(keys, k)
		}
	}
	return keys
}
