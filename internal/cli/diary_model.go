package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/alexanderramin/diarycard/internal/cli/formatter"
	"github.com/alexanderramin/diarycard/internal/domain"
	"github.com/alexanderramin/diarycard/internal/entry"
	"github.com/alexanderramin/diarycard/internal/flow"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// stepKeys are the flow bindings shared by the diary and onboarding models.
// They are checked before the form sees the key.
type stepKeys struct {
	Next   key.Binding
	Back   key.Binding
	Cancel key.Binding
}

var flowKeys = stepKeys{
	Next:   key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next")),
	Back:   key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "back")),
	Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
}

func (k stepKeys) help(last bool) string {
	next := k.Next.Help()
	if last {
		next.Desc = "save"
	}
	parts := []string{
		next.Key + " " + next.Desc,
		k.Back.Help().Key + " " + k.Back.Help().Desc,
		k.Cancel.Help().Key + " " + k.Cancel.Help().Desc,
	}
	return formatter.Dim(strings.Join(parts, " · "))
}

// submitResultMsg carries the outcome of a background save.
type submitResultMsg struct{ err error }

const customPrefix = "custom:"

// diaryModel renders one huh form per diary step on top of a
// DiaryController. Values bound to the form are written back into the
// controller whenever the step changes.
type diaryModel struct {
	ctx     context.Context
	ctrl    *entry.DiaryController
	profile *domain.UserProfile

	form   *huh.Form
	commit func() error

	// Form-bound values for the current step.
	ratings  map[string]*int
	custom   map[string]*int
	selected []string
	note     string

	submitting bool
	saved      bool
	cancelled  bool
	status     string
}

func newDiaryModel(ctx context.Context, ctrl *entry.DiaryController, profile *domain.UserProfile) *diaryModel {
	if profile == nil {
		profile = &domain.UserProfile{}
	}
	m := &diaryModel{ctx: ctx, ctrl: ctrl, profile: profile}
	m.buildStep()
	return m
}

// unrated is the select value of a rating the user has not picked yet. It
// is offered only until a rating is set.
const unrated = -1

func ratingOptions(set bool) []huh.Option[int] {
	opts := make([]huh.Option[int], 0, domain.MaxRating+2)
	if !set {
		opts = append(opts, huh.NewOption("–", unrated))
	}
	for v := domain.MinRating; v <= domain.MaxRating; v++ {
		opts = append(opts, huh.NewOption(strconv.Itoa(v), v))
	}
	return opts
}

// buildStep creates the form for the controller's current step and the
// commit function that writes its values back.
func (m *diaryModel) buildStep() {
	m.ratings = map[string]*int{}
	m.custom = map[string]*int{}
	m.selected = nil
	m.note = m.ctrl.Note()

	var fields []huh.Field
	step := m.ctrl.Current()
	switch step.ID {
	case flow.StepActions:
		var opts []huh.Option[string]
		for _, k := range m.profile.TrackedActionKeys() {
			acted := m.ctrl.Action(k)
			opts = append(opts, huh.NewOption(k.Label(), k.Name()).Selected(acted))
			if acted {
				m.selected = append(m.selected, k.Name())
			}
		}
		for _, c := range m.ctrl.CustomActions() {
			opts = append(opts, huh.NewOption(c.Label, customPrefix+c.Label).Selected(c.Acted))
			if c.Acted {
				m.selected = append(m.selected, customPrefix+c.Label)
			}
		}
		fields = append(fields, huh.NewMultiSelect[string]().
			Title("Which did you act on?").
			Options(opts...).
			Value(&m.selected))
		m.commit = m.commitActions

	case flow.StepUrges, flow.StepEmotions, flow.StepSkills:
		for _, k := range m.profile.TrackedRatingKeys(domain.Cluster(step.ID)) {
			v := ratingValue(m.ctrl.Rating(k))
			m.ratings[k.Name()] = &v
			fields = append(fields, ratingSelect(k.Label(), &v))
		}
		if step.ID == flow.StepUrges {
			for _, c := range m.ctrl.CustomUrges() {
				v := ratingValue(c.Rating)
				m.custom[c.Label] = &v
				fields = append(fields, ratingSelect(c.Label, &v))
			}
		}
		m.commit = m.commitRatings

	case flow.StepMedications:
		var opts []huh.Option[string]
		for _, d := range m.ctrl.Medications() {
			label := d.Name
			if d.Strength != "" {
				label += " (" + d.Strength + ")"
			}
			opts = append(opts, huh.NewOption(label, d.MedicationID).Selected(d.Taken))
			if d.Taken {
				m.selected = append(m.selected, d.MedicationID)
			}
		}
		if len(opts) > 0 {
			fields = append(fields, huh.NewMultiSelect[string]().
				Title("Taken as prescribed").
				Options(opts...).
				Value(&m.selected))
		}
		m.commit = m.commitMedications

	case flow.StepGoals:
		var opts []huh.Option[string]
		for _, g := range m.ctrl.Goals() {
			opts = append(opts, huh.NewOption(g.Goal, g.Goal).Selected(g.Done))
			if g.Done {
				m.selected = append(m.selected, g.Goal)
			}
		}
		if len(opts) > 0 {
			fields = append(fields, huh.NewMultiSelect[string]().
				Title("Worked on today").
				Options(opts...).
				Value(&m.selected))
		}
		m.commit = m.commitGoals

	case flow.StepNote:
		fields = append(fields, huh.NewText().
			Title("Note").
			Placeholder("optional").
			Value(&m.note))
		m.commit = func() error { return m.ctrl.Apply(domain.SetNote(m.note)) }
	}

	if len(fields) == 0 {
		fields = append(fields, huh.NewNote().Title("Nothing to record").Description("Press ctrl+n to continue.").Next(true))
		m.commit = func() error { return nil }
	}
	m.form = huh.NewForm(huh.NewGroup(fields...)).WithTheme(diarycardHuhTheme()).WithShowHelp(false)
}

func ratingValue(r domain.Rating) int {
	if !r.IsSet() {
		return unrated
	}
	return r.Value
}

func ratingSelect(title string, v *int) *huh.Select[int] {
	return huh.NewSelect[int]().
		Title(title).
		Options(ratingOptions(*v != unrated)...).
		Inline(true).
		Value(v)
}

func (m *diaryModel) commitActions() error {
	chosen := make(map[string]bool, len(m.selected))
	for _, s := range m.selected {
		chosen[s] = true
	}
	for _, k := range m.profile.TrackedActionKeys() {
		if err := m.ctrl.Apply(domain.SetAction(k, chosen[k.Name()])); err != nil {
			return err
		}
	}
	for _, c := range m.ctrl.CustomActions() {
		if err := m.ctrl.Apply(domain.SetCustomAction(c.Label, chosen[customPrefix+c.Label])); err != nil {
			return err
		}
	}
	return nil
}

// commitRatings writes every picked rating. A rating left on the unrated
// option stays unset, so an explicit 0 is kept apart from a skipped field.
func (m *diaryModel) commitRatings() error {
	step := m.ctrl.Current()
	for _, k := range m.profile.TrackedRatingKeys(domain.Cluster(step.ID)) {
		v, ok := m.ratings[k.Name()]
		if !ok || *v == unrated {
			continue
		}
		if err := m.ctrl.Apply(domain.SetRating(k, *v)); err != nil {
			return err
		}
	}
	for _, c := range m.ctrl.CustomUrges() {
		v, ok := m.custom[c.Label]
		if !ok || *v == unrated {
			continue
		}
		if err := m.ctrl.Apply(domain.SetCustomUrge(c.Label, *v)); err != nil {
			return err
		}
	}
	return nil
}

func (m *diaryModel) commitMedications() error {
	chosen := make(map[string]bool, len(m.selected))
	for _, s := range m.selected {
		chosen[s] = true
	}
	for _, d := range m.ctrl.Medications() {
		if err := m.ctrl.Apply(domain.SetMedicationTaken(d.MedicationID, chosen[d.MedicationID])); err != nil {
			return err
		}
	}
	return nil
}

func (m *diaryModel) commitGoals() error {
	chosen := make(map[string]bool, len(m.selected))
	for _, s := range m.selected {
		chosen[s] = true
	}
	for _, g := range m.ctrl.Goals() {
		if err := m.ctrl.Apply(domain.SetGoalDone(g.Goal, chosen[g.Goal])); err != nil {
			return err
		}
	}
	return nil
}

func (m *diaryModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m *diaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submitResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.status = formatter.Failure(m.ctrl.SaveMessage())
			m.buildStep()
			return m, m.form.Init()
		}
		m.saved = true
		m.status = formatter.Success(m.ctrl.SaveMessage())
		return m, tea.Quit

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch {
		case key.Matches(msg, flowKeys.Cancel):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, flowKeys.Next):
			return m.advance()
		case key.Matches(msg, flowKeys.Back):
			return m.back()
		}
	}

	if m.submitting {
		return m, nil
	}
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m.advance()
	}
	return m, cmd
}

// advance commits the step, then moves forward or submits on the last step.
func (m *diaryModel) advance() (tea.Model, tea.Cmd) {
	if err := m.commit(); err != nil {
		m.status = formatter.Failure(err.Error())
		return m, nil
	}
	m.status = ""
	if m.ctrl.IsLast() {
		m.submitting = true
		ctx, ctrl := m.ctx, m.ctrl
		return m, func() tea.Msg { return submitResultMsg{err: ctrl.Submit(ctx)} }
	}
	m.ctrl.Next()
	m.buildStep()
	return m, m.form.Init()
}

func (m *diaryModel) back() (tea.Model, tea.Cmd) {
	if err := m.commit(); err != nil && !errors.Is(err, entry.ErrAlreadySaved) {
		m.status = formatter.Failure(err.Error())
		return m, nil
	}
	if _, ok := m.ctrl.Previous(); !ok {
		return m, nil
	}
	m.status = ""
	m.buildStep()
	return m, m.form.Init()
}

func (m *diaryModel) View() string {
	if m.saved {
		return m.status + "\n"
	}
	if m.cancelled {
		return ""
	}
	pos, total := m.ctrl.Position()
	var b strings.Builder
	b.WriteString(formatter.RenderStepHeader(m.ctrl.Current(), pos, total, m.ctrl.Progress()))
	b.WriteString("\n")
	b.WriteString(m.form.View())
	b.WriteString("\n")
	if m.submitting {
		b.WriteString(formatter.Dim("Saving…") + "\n")
	}
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString(flowKeys.help(m.ctrl.IsLast()))
	return b.String()
}
