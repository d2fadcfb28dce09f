package cli

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

var errCancelled = errors.New("cancelled")

// formModel hosts a single huh.Form as a standalone program. It quits when
// the form completes or is aborted; Esc cancels.
type formModel struct {
	form      *huh.Form
	cancelled bool
}

func newFormModel(form *huh.Form) *formModel {
	return &formModel{form: form}
}

func (m *formModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m *formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && (keyMsg.Type == tea.KeyEsc || keyMsg.Type == tea.KeyCtrlC) {
		m.cancelled = true
		return m, tea.Quit
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, tea.Quit
	case huh.StateAborted:
		m.cancelled = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m *formModel) View() string {
	if m.form.State != huh.StateNormal {
		return ""
	}
	return m.form.View()
}

// runForm runs form through the App's program runner.
func (a *App) runForm(form *huh.Form) error {
	final, err := a.run(newFormModel(form.WithTheme(diarycardHuhTheme()).WithShowHelp(false)))
	if err != nil {
		return err
	}
	if fm, ok := final.(*formModel); ok && fm.cancelled {
		return errCancelled
	}
	return nil
}
