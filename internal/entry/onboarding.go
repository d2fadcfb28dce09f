package entry

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/diarycard/internal/domain"
	"github.com/alexanderramin/diarycard/internal/flow"
	"github.com/google/uuid"
)

// OnboardingController collects a UserProfile draft across the onboarding
// flow. The actions, urges and emotions steps are gated: Next refuses to
// leave them until exactly the target number of items is selected.
type OnboardingController struct {
	mu      sync.Mutex
	profile *domain.UserProfile
	meds    []*domain.Medication
	nav     *flow.Navigator
	gates   map[flow.StepID]*flow.Selection
	saver   ProfileSaver
	now     func() time.Time

	state   SubmitState
	message string
	lastErr error
}

// NewOnboardingController starts onboarding from p, which must carry the
// signed-in user's id. Existing tracked selections and medications pre-fill
// the draft so onboarding can be re-run.
func NewOnboardingController(p *domain.UserProfile, meds []*domain.Medication, saver ProfileSaver) (*OnboardingController, error) {
	if p == nil || p.UserID == "" {
		return nil, fmt.Errorf("onboarding controller: profile without user id")
	}
	if saver == nil {
		return nil, fmt.Errorf("onboarding controller: nil saver")
	}
	draft := cloneProfile(p)
	c := &OnboardingController{
		profile: draft,
		meds:    append([]*domain.Medication(nil), meds...),
		nav:     flow.NewNavigator(flow.OnboardingFlow),
		saver:   saver,
		now:     time.Now,
		gates: map[flow.StepID]*flow.Selection{
			flow.StepActions:  flow.NewSelection(domain.TrackedActionsTarget, draft.TrackedActions...),
			flow.StepUrges:    flow.NewSelection(domain.TrackedUrgesTarget, draft.TrackedUrges...),
			flow.StepEmotions: flow.NewSelection(domain.TrackedEmotionsTarget, draft.TrackedEmotions...),
		},
	}
	return c, nil
}

func cloneProfile(p *domain.UserProfile) *domain.UserProfile {
	cp := *p
	cp.TrackedActions = append([]string(nil), p.TrackedActions...)
	cp.TrackedUrges = append([]string(nil), p.TrackedUrges...)
	cp.TrackedEmotions = append([]string(nil), p.TrackedEmotions...)
	cp.CustomActions = append([]string(nil), p.CustomActions...)
	cp.CustomUrges = append([]string(nil), p.CustomUrges...)
	cp.Goals = append([]string(nil), p.Goals...)
	if p.MorningReminder != nil {
		m := *p.MorningReminder
		cp.MorningReminder = &m
	}
	if p.EveningReminder != nil {
		e := *p.EveningReminder
		cp.EveningReminder = &e
	}
	return &cp
}

func (c *OnboardingController) Current() flow.Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav.Current()
}

func (c *OnboardingController) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav.Progress()
}

func (c *OnboardingController) Position() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav.Position(), c.nav.Schema().Len()
}

func (c *OnboardingController) IsLast() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav.IsLast()
}

// CanContinue reports whether the current step allows moving forward.
func (c *OnboardingController) CanContinue() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canContinueLocked()
}

func (c *OnboardingController) canContinueLocked() bool {
	if sel, ok := c.gates[c.nav.Current().ID]; ok {
		return sel.Ready()
	}
	return true
}

// Next advances one step. It returns ErrSelectionIncomplete on a gated step
// that is not ready. On the last step it is a no-op returning that step.
func (c *OnboardingController) Next() (flow.Step, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.canContinueLocked() {
		cur := c.nav.Current()
		sel := c.gates[cur.ID]
		return cur, fmt.Errorf("%s: %d of %d selected: %w", cur.ID, sel.Len(), sel.Target(), ErrSelectionIncomplete)
	}
	if step, ok := c.nav.Next(); ok {
		return step, nil
	}
	return c.nav.Current(), nil
}

// Previous moves back one step; it is never gated.
func (c *OnboardingController) Previous() (flow.Step, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav.Previous()
}

// Selection returns the selected names of a gated step and its target.
// Ungated steps return nil and 0.
func (c *OnboardingController) Selection(step flow.StepID) ([]string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sel, ok := c.gates[step]
	if !ok {
		return nil, 0
	}
	return sel.Items(), sel.Target()
}

// Toggle flips one catalog item on a gated step and reports whether it is
// selected afterwards. Selecting beyond the target leaves the set unchanged.
func (c *OnboardingController) Toggle(step flow.StepID, name string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sel, err := c.gateLocked(step, name)
	if err != nil {
		return false, err
	}
	return sel.Toggle(name), nil
}

// SetSelection replaces a gated step's selection, keeping at most the
// target count in the given order.
func (c *OnboardingController) SetSelection(step flow.StepID, names []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range names {
		if _, err := c.gateLocked(step, n); err != nil {
			return err
		}
	}
	sel, ok := c.gates[step]
	if !ok {
		return fmt.Errorf("step %s has no selection", step)
	}
	sel.Replace(names)
	return nil
}

func (c *OnboardingController) gateLocked(step flow.StepID, name string) (*flow.Selection, error) {
	sel, ok := c.gates[step]
	if !ok {
		return nil, fmt.Errorf("step %s has no selection", step)
	}
	var known bool
	switch step {
	case flow.StepActions:
		_, known = domain.LookupActionKey(name)
	case flow.StepUrges:
		_, known = domain.LookupRatingKey(domain.ClusterUrges, name)
	case flow.StepEmotions:
		_, known = domain.LookupRatingKey(domain.ClusterEmotions, name)
	}
	if !known {
		return nil, fmt.Errorf("%s %q: %w", step, name, domain.ErrUnknownField)
	}
	return sel, nil
}

func (c *OnboardingController) SetDisplayName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile.DisplayName = strings.TrimSpace(name)
}

// SetCustomActions replaces the custom action labels. Blank labels are
// dropped; more than MaxCustomActions is an error.
func (c *OnboardingController) SetCustomActions(labels []string) error {
	clean := cleanLabels(labels)
	if len(clean) > domain.MaxCustomActions {
		return fmt.Errorf("at most %d custom actions", domain.MaxCustomActions)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile.CustomActions = clean
	return nil
}

// SetCustomUrges replaces the custom urge labels, at most MaxCustomUrges.
func (c *OnboardingController) SetCustomUrges(labels []string) error {
	clean := cleanLabels(labels)
	if len(clean) > domain.MaxCustomUrges {
		return fmt.Errorf("at most %d custom urges", domain.MaxCustomUrges)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile.CustomUrges = clean
	return nil
}

// SetGoals replaces the weekly goals, at most MaxGoals.
func (c *OnboardingController) SetGoals(goals []string) error {
	clean := cleanLabels(goals)
	if len(clean) > domain.MaxGoals {
		return fmt.Errorf("at most %d goals", domain.MaxGoals)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile.Goals = clean
	return nil
}

func cleanLabels(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[strings.ToLower(s)] {
			continue
		}
		seen[strings.ToLower(s)] = true
		out = append(out, s)
	}
	return out
}

// SetReminders sets the diary reminder times; nil disables a reminder.
func (c *OnboardingController) SetReminders(morning, evening *domain.ClockTime) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile.MorningReminder = morning
	c.profile.EveningReminder = evening
}

// AddMedication appends a medication to the draft list.
func (c *OnboardingController) AddMedication(m *domain.Medication) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.UserID = c.profile.UserID
	if m.CreatedAt.IsZero() {
		m.CreatedAt = c.now().UTC()
	}
	if err := m.Validate(); err != nil {
		return err
	}
	for _, existing := range c.meds {
		if strings.EqualFold(existing.DisplayName(), m.DisplayName()) {
			return fmt.Errorf("medication %s already added", m.DisplayName())
		}
	}
	c.meds = append(c.meds, m)
	return nil
}

// RemoveMedication drops a draft medication by id.
func (c *OnboardingController) RemoveMedication(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, m := range c.meds {
		if m.ID == id {
			c.meds = append(c.meds[:i], c.meds[i+1:]...)
			return true
		}
	}
	return false
}

func (c *OnboardingController) Medications() []*domain.Medication {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*domain.Medication(nil), c.meds...)
}

// Profile returns a copy of the draft with the current selections applied.
func (c *OnboardingController) Profile() *domain.UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *OnboardingController) snapshotLocked() *domain.UserProfile {
	p := cloneProfile(c.profile)
	p.TrackedActions = c.gates[flow.StepActions].Items()
	p.TrackedUrges = c.gates[flow.StepUrges].Items()
	p.TrackedEmotions = c.gates[flow.StepEmotions].Items()
	return p
}

func (c *OnboardingController) State() SubmitState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *OnboardingController) SaveMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

func (c *OnboardingController) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Finish validates every gate, marks onboarding complete and saves the
// profile with its medications. It shares the submission guard of
// DiaryController.Submit.
func (c *OnboardingController) Finish(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()
		return ErrSubmitInFlight
	case StateSaved:
		c.mu.Unlock()
		return ErrAlreadySaved
	}
	for _, id := range []flow.StepID{flow.StepActions, flow.StepUrges, flow.StepEmotions} {
		if sel := c.gates[id]; !sel.Ready() {
			c.mu.Unlock()
			return fmt.Errorf("%s: %d of %d selected: %w", id, sel.Len(), sel.Target(), ErrSelectionIncomplete)
		}
	}
	p := c.snapshotLocked()
	p.OnboardingComplete = true
	p.FlowSchema = c.nav.Schema().ID
	if err := p.Validate(); err != nil {
		c.mu.Unlock()
		return err
	}
	meds := append([]*domain.Medication(nil), c.meds...)
	c.state = StateSubmitting
	c.message = ""
	c.mu.Unlock()

	err := c.saver.SaveProfile(ctx, p, meds)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateFailed
		c.message = MsgProfileFailed
		c.lastErr = err
		return fmt.Errorf("saving profile: %w", err)
	}
	c.state = StateSaved
	c.message = MsgProfileSaved
	c.lastErr = nil
	c.profile = p
	return nil
}
