package entry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/diarycard/internal/domain"
	"github.com/alexanderramin/diarycard/internal/flow"
)

// DiaryController is the single mutation point for one diary entry while its
// flow is open. All methods are safe for concurrent use.
type DiaryController struct {
	mu      sync.Mutex
	entry   *domain.DiaryEntry
	nav     *flow.Navigator
	saver   EntrySaver
	now     func() time.Time
	onSaved func(*domain.DiaryEntry)

	state   SubmitState
	message string
	lastErr error
}

// DiaryOption configures a DiaryController.
type DiaryOption func(*DiaryController)

// WithClock sets the clock used to stamp rating capture times.
func WithClock(now func() time.Time) DiaryOption {
	return func(c *DiaryController) { c.now = now }
}

// OnSaved registers a callback fired once after a successful save.
func OnSaved(fn func(*domain.DiaryEntry)) DiaryOption {
	return func(c *DiaryController) { c.onSaved = fn }
}

// NewDiaryController takes ownership of e. The navigator follows the schema
// recorded on the entry, defaulting to the current diary flow.
func NewDiaryController(e *domain.DiaryEntry, saver EntrySaver, opts ...DiaryOption) (*DiaryController, error) {
	if e == nil {
		return nil, fmt.Errorf("diary controller: nil entry")
	}
	if saver == nil {
		return nil, fmt.Errorf("diary controller: nil saver")
	}
	if e.Schema == "" {
		e.Schema = flow.DiarySchemaV1
	}
	schema, err := flow.Lookup(e.Schema)
	if err != nil {
		return nil, fmt.Errorf("diary controller: %w", err)
	}
	c := &DiaryController{
		entry: e,
		nav:   flow.NewNavigator(schema),
		saver: saver,
		now:   time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Apply writes one field change into the entry. Edits are rejected while a
// submission is in flight and after the entry has been saved.
func (c *DiaryController) Apply(u domain.Update) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateSubmitting:
		return ErrSubmitInFlight
	case StateSaved:
		return ErrAlreadySaved
	}
	return c.entry.Apply(u, c.now())
}

// Rating returns the held rating for k.
func (c *DiaryController) Rating(k domain.RatingKey) domain.Rating {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry.Rating(k)
}

// Action reports whether the action k is marked.
func (c *DiaryController) Action(k domain.ActionKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry.Acted(k)
}

func (c *DiaryController) CustomUrges() []domain.LabeledRating {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.LabeledRating(nil), c.entry.Urges.Custom...)
}

func (c *DiaryController) CustomActions() []domain.LabeledAction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.LabeledAction(nil), c.entry.Actions.Custom...)
}

func (c *DiaryController) Medications() []domain.MedicationDose {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.MedicationDose(nil), c.entry.Medications...)
}

func (c *DiaryController) Goals() []domain.GoalProgress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.GoalProgress(nil), c.entry.Goals...)
}

func (c *DiaryController) Note() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry.Note
}

// Entry returns a copy of the entry as currently held.
func (c *DiaryController) Entry() *domain.DiaryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entry.Clone()
}

// Current returns the step being displayed.
func (c *DiaryController) Current() flow.Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav.Current()
}

// Next advances the flow; see flow.Navigator.Next.
func (c *DiaryController) Next() (flow.Step, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav.Next()
}

// Previous moves the flow back; see flow.Navigator.Previous.
func (c *DiaryController) Previous() (flow.Step, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav.Previous()
}

func (c *DiaryController) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav.Progress()
}

func (c *DiaryController) Position() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav.Position(), c.nav.Schema().Len()
}

func (c *DiaryController) IsLast() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav.IsLast()
}

func (c *DiaryController) State() SubmitState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsSubmitting reports whether a save is in flight.
func (c *DiaryController) IsSubmitting() bool {
	return c.State() == StateSubmitting
}

// SaveMessage returns the message of the last submission, or "".
func (c *DiaryController) SaveMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// Err returns the error of the last failed submission.
func (c *DiaryController) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Submit hands a snapshot of the entry to the saver. Only one submission may
// run at a time; a failed submission leaves the entry intact so Submit can be
// called again.
func (c *DiaryController) Submit(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()
		return ErrSubmitInFlight
	case StateSaved:
		c.mu.Unlock()
		return ErrAlreadySaved
	}
	c.state = StateSubmitting
	c.message = ""
	snapshot := c.entry.Clone()
	c.mu.Unlock()

	err := c.saver.Save(ctx, snapshot)

	c.mu.Lock()
	if err != nil {
		c.state = StateFailed
		c.message = MsgEntrySaveFailed
		c.lastErr = err
		c.mu.Unlock()
		return fmt.Errorf("saving diary entry: %w", err)
	}
	c.state = StateSaved
	c.message = MsgEntrySaved
	c.lastErr = nil
	c.entry.ID = snapshot.ID
	cb := c.onSaved
	c.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
	return nil
}
