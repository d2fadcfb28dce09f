package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/diarycard/internal/cli/formatter"
	"github.com/alexanderramin/diarycard/internal/domain"
	"github.com/alexanderramin/diarycard/internal/entry"
	"github.com/alexanderramin/diarycard/internal/flow"
	"github.com/alexanderramin/diarycard/internal/rxnorm"
	"github.com/alexanderramin/diarycard/internal/search"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// searchResultMsg wraps a medication search result delivered from the
// debouncer goroutine.
type searchResultMsg struct{ result search.Result }

// medPicker is the search-as-you-type list on the medications step.
type medPicker struct {
	input   textinput.Model
	results []rxnorm.Drug
	cursor  int
	message string
	query   string
}

var pickerKeys = struct {
	Up, Down, Add, Remove key.Binding
}{
	Up:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
	Down:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
	Add:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
	Remove: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "remove last")),
}

// onboardingModel walks an OnboardingController through its steps. Every
// step except medications is a huh form; medications uses a live search.
type onboardingModel struct {
	ctx  context.Context
	ctrl *entry.OnboardingController

	form   *huh.Form
	commit func() error

	// Form-bound values for the current step.
	name     string
	selected []string
	extras   string
	goals    string
	morning  string
	evening  string

	picker  medPicker
	search  *search.MedicationSearch
	results chan search.Result
	done    chan struct{}
	once    sync.Once
	waiting bool

	submitting bool
	saved      bool
	cancelled  bool
	status     string
}

func newOnboardingModel(ctx context.Context, ctrl *entry.OnboardingController, lookup rxnorm.Lookup, delay time.Duration) *onboardingModel {
	m := &onboardingModel{
		ctx:     ctx,
		ctrl:    ctrl,
		results: make(chan search.Result, 1),
		done:    make(chan struct{}),
	}
	ti := textinput.New()
	ti.Placeholder = "Start typing a medication name"
	ti.Prompt = "› "
	ti.CharLimit = 80
	m.picker.input = ti
	if lookup != nil {
		m.search = search.NewMedicationSearch(lookup, delay, m.deliver)
	}
	m.buildStep()
	return m
}

// deliver keeps only the newest undelivered result so the debouncer never
// blocks on a slow UI.
func (m *onboardingModel) deliver(r search.Result) {
	select {
	case m.results <- r:
		return
	default:
	}
	select {
	case <-m.results:
	default:
	}
	select {
	case m.results <- r:
	default:
	}
}

func (m *onboardingModel) waitForResult() tea.Cmd {
	if m.search == nil || m.waiting {
		return nil
	}
	m.waiting = true
	ctx, ch, done := m.ctx, m.results, m.done
	return func() tea.Msg {
		select {
		case r := <-ch:
			return searchResultMsg{result: r}
		case <-done:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

// close stops the search and releases a pending waitForResult.
func (m *onboardingModel) close() {
	m.once.Do(func() {
		if m.search != nil {
			m.search.Close()
		}
		close(m.done)
	})
}

func (m *onboardingModel) buildStep() {
	m.form = nil
	p := m.ctrl.Profile()
	step := m.ctrl.Current()

	var fields []huh.Field
	switch step.ID {
	case flow.StepWelcome:
		fields = append(fields, huh.NewNote().
			Title("Hi "+p.Greeting()+"!").
			Description("A few questions set up your card. Use ctrl+n to move on and ctrl+p to go back.").
			Next(true))
		m.commit = func() error { return nil }

	case flow.StepProfile:
		m.name = p.DisplayName
		fields = append(fields, huh.NewInput().
			Title("Display name").
			Placeholder(p.Greeting()).
			Value(&m.name))
		m.commit = func() error {
			m.ctrl.SetDisplayName(m.name)
			return nil
		}

	case flow.StepActions:
		m.selected, _ = m.ctrl.Selection(step.ID)
		var opts []huh.Option[string]
		for _, k := range domain.ActionKeys() {
			opts = append(opts, huh.NewOption(k.Label(), k.Name()))
		}
		m.extras = strings.Join(p.CustomActions, ", ")
		fields = append(fields,
			gatedSelect("Behaviours to track", opts, domain.TrackedActionsTarget, &m.selected),
			huh.NewInput().
				Title(fmt.Sprintf("Custom actions (optional, up to %d)", domain.MaxCustomActions)).
				Placeholder("comma-separated").
				Value(&m.extras).
				Validate(maxLabels(domain.MaxCustomActions)),
		)
		m.commit = func() error {
			if err := m.ctrl.SetSelection(flow.StepActions, m.selected); err != nil {
				return err
			}
			return m.ctrl.SetCustomActions(splitLabels(m.extras))
		}

	case flow.StepUrges:
		m.selected, _ = m.ctrl.Selection(step.ID)
		m.extras = strings.Join(p.CustomUrges, ", ")
		fields = append(fields,
			gatedSelect("Urges to rate", ratingKeyOptions(domain.ClusterUrges), domain.TrackedUrgesTarget, &m.selected),
			huh.NewInput().
				Title(fmt.Sprintf("Custom urges (optional, up to %d)", domain.MaxCustomUrges)).
				Placeholder("comma-separated").
				Value(&m.extras).
				Validate(maxLabels(domain.MaxCustomUrges)),
		)
		m.commit = func() error {
			if err := m.ctrl.SetSelection(flow.StepUrges, m.selected); err != nil {
				return err
			}
			return m.ctrl.SetCustomUrges(splitLabels(m.extras))
		}

	case flow.StepEmotions:
		m.selected, _ = m.ctrl.Selection(step.ID)
		fields = append(fields,
			gatedSelect("Emotions to rate", ratingKeyOptions(domain.ClusterEmotions), domain.TrackedEmotionsTarget, &m.selected))
		m.commit = func() error { return m.ctrl.SetSelection(flow.StepEmotions, m.selected) }

	case flow.StepGoals:
		m.goals = strings.Join(p.Goals, "\n")
		fields = append(fields, huh.NewText().
			Title(fmt.Sprintf("Goals, one per line (up to %d)", domain.MaxGoals)).
			Value(&m.goals).
			Validate(maxLabels(domain.MaxGoals)))
		m.commit = func() error { return m.ctrl.SetGoals(splitLabels(m.goals)) }

	case flow.StepMedications:
		m.picker.input.Focus()
		m.commit = func() error { return nil }
		return

	case flow.StepReminders:
		m.morning, m.evening = clockString(p.MorningReminder), clockString(p.EveningReminder)
		fields = append(fields,
			huh.NewInput().Title("Morning reminder (HH:MM, blank for none)").Placeholder("08:00").Value(&m.morning).Validate(validateOptionalClock),
			huh.NewInput().Title("Evening reminder (HH:MM, blank for none)").Placeholder("20:00").Value(&m.evening).Validate(validateOptionalClock),
		)
		m.commit = func() error {
			morning, err := parseOptionalClock(m.morning)
			if err != nil {
				return err
			}
			evening, err := parseOptionalClock(m.evening)
			if err != nil {
				return err
			}
			m.ctrl.SetReminders(morning, evening)
			return nil
		}

	case flow.StepFinish:
		fields = append(fields, huh.NewNote().
			Title("Review").
			Description(onboardingSummary(p, m.ctrl.Medications())).
			Next(true).
			NextLabel("Save"))
		m.commit = func() error { return nil }
	}

	m.form = huh.NewForm(huh.NewGroup(fields...)).WithTheme(diarycardHuhTheme()).WithShowHelp(false)
}

func gatedSelect(title string, opts []huh.Option[string], target int, value *[]string) *huh.MultiSelect[string] {
	return huh.NewMultiSelect[string]().
		Title(fmt.Sprintf("%s (choose %d)", title, target)).
		Options(opts...).
		Limit(target).
		Value(value).
		Validate(func(s []string) error {
			if len(s) != target {
				return fmt.Errorf("choose exactly %d", target)
			}
			return nil
		})
}

func ratingKeyOptions(c domain.Cluster) []huh.Option[string] {
	var opts []huh.Option[string]
	for _, k := range domain.RatingKeys(c) {
		opts = append(opts, huh.NewOption(k.Label(), k.Name()))
	}
	return opts
}

func maxLabels(n int) func(string) error {
	return func(s string) error {
		if len(splitLabels(s)) > n {
			return fmt.Errorf("at most %d", n)
		}
		return nil
	}
}

func clockString(c *domain.ClockTime) string {
	if c == nil {
		return ""
	}
	return c.String()
}

// onboardingSummary renders the draft as key/value lines.
func onboardingSummary(p *domain.UserProfile, meds []*domain.Medication) string {
	labels := func(c domain.Cluster) string {
		var out []string
		for _, k := range p.TrackedRatingKeys(c) {
			out = append(out, k.Label())
		}
		return strings.Join(out, ", ")
	}
	var actions []string
	for _, k := range p.TrackedActionKeys() {
		actions = append(actions, k.Label())
	}
	actions = append(actions, p.CustomActions...)
	var medNames []string
	for _, med := range meds {
		medNames = append(medNames, med.DisplayName())
	}
	reminders := strings.Join([]string{orNone(clockString(p.MorningReminder)), orNone(clockString(p.EveningReminder))}, " / ")

	return formatter.RenderKeyValues([][2]string{
		{"Name", p.Greeting()},
		{"Actions", strings.Join(actions, ", ")},
		{"Urges", strings.Join(append([]string{labels(domain.ClusterUrges)}, p.CustomUrges...), ", ")},
		{"Emotions", labels(domain.ClusterEmotions)},
		{"Goals", orNone(strings.Join(p.Goals, ", "))},
		{"Medications", orNone(strings.Join(medNames, ", "))},
		{"Reminders", reminders},
	})
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func (m *onboardingModel) Init() tea.Cmd {
	if m.form == nil {
		return textinput.Blink
	}
	return m.form.Init()
}

func (m *onboardingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submitResultMsg:
		m.submitting = false
		if msg.err != nil {
			if errors.Is(msg.err, entry.ErrSelectionIncomplete) {
				m.status = formatter.Failure(msg.err.Error())
			} else {
				m.status = formatter.Failure(m.ctrl.SaveMessage())
			}
			m.buildStep()
			return m, m.Init()
		}
		m.saved = true
		m.status = formatter.Success(m.ctrl.SaveMessage())
		m.close()
		return m, tea.Quit

	case searchResultMsg:
		m.waiting = false
		m.onSearchResult(msg.result)
		return m, m.waitForResult()

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch {
		case key.Matches(msg, flowKeys.Cancel):
			m.cancelled = true
			m.close()
			return m, tea.Quit
		case key.Matches(msg, flowKeys.Next):
			return m.advance()
		case key.Matches(msg, flowKeys.Back):
			return m.back()
		}
		if m.form == nil {
			return m.updatePicker(msg)
		}
	}

	if m.submitting {
		return m, nil
	}
	if m.form == nil {
		var cmd tea.Cmd
		m.picker.input, cmd = m.picker.input.Update(msg)
		return m, cmd
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

func (m *onboardingModel) onSearchResult(r search.Result) {
	// Results for a query the user has since edited away are dropped.
	if r.Query != strings.TrimSpace(m.picker.input.Value()) {
		return
	}
	m.picker.results = r.Drugs
	m.picker.cursor = 0
	m.picker.message = r.Message()
	if r.Err == nil && len(r.Drugs) == 0 && r.Query != "" {
		m.picker.message = rxnorm.UserMessage(rxnorm.ErrNoResults)
	}
}

func (m *onboardingModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &m.picker
	switch {
	case key.Matches(msg, pickerKeys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
		return m, nil
	case key.Matches(msg, pickerKeys.Down):
		if p.cursor < len(p.results)-1 {
			p.cursor++
		}
		return m, nil
	case key.Matches(msg, pickerKeys.Add):
		m.addPicked()
		return m, nil
	case key.Matches(msg, pickerKeys.Remove):
		meds := m.ctrl.Medications()
		if len(meds) > 0 {
			last := meds[len(meds)-1]
			m.ctrl.RemoveMedication(last.ID)
			m.status = formatter.Dim("Removed " + last.DisplayName() + ".")
		}
		return m, nil
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if q := p.input.Value(); q != p.query {
		p.query = q
		if m.search != nil {
			m.search.Query(q)
			return m, tea.Batch(cmd, m.waitForResult())
		}
	}
	return m, cmd
}

// addPicked adds the highlighted search hit, or the typed name when there
// are no hits.
func (m *onboardingModel) addPicked() {
	p := &m.picker
	var med *domain.Medication
	switch {
	case len(p.results) > 0:
		d := p.results[p.cursor]
		med = &domain.Medication{
			RxCUI:      d.RxCUI,
			Name:       d.Name,
			Strength:   rxnorm.ExtractStrength(d.Name),
			DosageForm: rxnorm.ExtractDosageForm(d.Name),
		}
	case len(strings.TrimSpace(p.input.Value())) >= search.MinQueryLength:
		med = &domain.Medication{Name: strings.TrimSpace(p.input.Value())}
	default:
		return
	}
	if err := m.ctrl.AddMedication(med); err != nil {
		m.status = formatter.Failure(err.Error())
		return
	}
	m.status = formatter.Success("Added " + med.DisplayName() + ".")
	p.input.SetValue("")
	p.query = ""
	p.results = nil
	p.cursor = 0
	p.message = ""
}

func (m *onboardingModel) advance() (tea.Model, tea.Cmd) {
	if err := m.commit(); err != nil {
		m.status = formatter.Failure(err.Error())
		return m, nil
	}
	if m.ctrl.IsLast() {
		m.status = ""
		m.submitting = true
		ctx, ctrl := m.ctx, m.ctrl
		return m, func() tea.Msg { return submitResultMsg{err: ctrl.Finish(ctx)} }
	}
	if _, err := m.ctrl.Next(); err != nil {
		m.status = formatter.Failure(err.Error())
		m.buildStep()
		return m, m.Init()
	}
	m.status = ""
	m.picker.input.Blur()
	m.buildStep()
	if m.form == nil {
		return m, tea.Batch(textinput.Blink, m.waitForResult())
	}
	return m, m.form.Init()
}

func (m *onboardingModel) back() (tea.Model, tea.Cmd) {
	if err := m.commit(); err != nil {
		m.status = formatter.Failure(err.Error())
		return m, nil
	}
	if _, ok := m.ctrl.Previous(); !ok {
		return m, nil
	}
	m.status = ""
	m.picker.input.Blur()
	m.buildStep()
	return m, m.Init()
}

func (m *onboardingModel) View() string {
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
	if m.form != nil {
		b.WriteString(m.form.View())
	} else {
		b.WriteString(m.pickerView())
	}
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

func (m *onboardingModel) pickerView() string {
	p := m.picker
	var b strings.Builder
	b.WriteString(p.input.View())
	b.WriteString("\n")
	if p.message != "" {
		b.WriteString(formatter.Dim(p.message) + "\n")
	}
	for i, d := range p.results {
		cursor := "  "
		if i == p.cursor {
			cursor = formatter.StyleHeader.Render("> ")
		}
		b.WriteString(cursor + d.Name + "\n")
	}
	if meds := m.ctrl.Medications(); len(meds) > 0 {
		b.WriteString("\n" + formatter.Header("Added") + "\n")
		for _, med := range meds {
			b.WriteString("  • " + med.DisplayName() + "\n")
		}
	}
	keys := []key.Binding{pickerKeys.Up, pickerKeys.Down, pickerKeys.Add, pickerKeys.Remove}
	var help []string
	for _, k := range keys {
		help = append(help, k.Help().Key+" "+k.Help().Desc)
	}
	b.WriteString(formatter.Dim(strings.Join(help, " · ")) + "\n")
	return b.String()
}
