package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/diarycard/internal/auth"
	"github.com/alexanderramin/diarycard/internal/rxnorm"
	"github.com/alexanderramin/diarycard/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// App holds the services and settings used by CLI commands.
type App struct {
	Auth      auth.Provider
	Diary     service.DiaryService
	Profiles  service.ProfileService
	Meds      service.MedicationService
	Reminders service.ReminderService

	// Lookup backs search-as-you-type in the onboarding medication step.
	Lookup      rxnorm.Lookup
	SearchDelay time.Duration

	HistoryLimit int
	DueWindow    time.Duration

	Now           func() time.Time
	IsInteractive func() bool
	// RunModel runs a bubbletea model to completion and returns its final
	// state. Nil means a real tea.Program.
	RunModel func(m tea.Model) (tea.Model, error)
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) run(m tea.Model) (tea.Model, error) {
	if a.RunModel != nil {
		return a.RunModel(m)
	}
	return tea.NewProgram(m).Run()
}

// session returns the signed-in user or a hint to sign in.
func (a *App) session(ctx context.Context) (*auth.Session, error) {
	s, err := a.Auth.Current(ctx)
	if errors.Is(err, auth.ErrNotSignedIn) {
		return nil, fmt.Errorf("not signed in; run `diarycard signin` first")
	}
	return s, err
}

// NewRootCmd creates the top-level "diarycard" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "diarycard",
		Short:         "DBT diary card: daily urges, actions, emotions and skills",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newSignUpCmd(app),
		newSignInCmd(app),
		newSignOutCmd(app),
		newWhoAmICmd(app),
		newResetPasswordCmd(app),
		newOnboardCmd(app),
		newDiaryCmd(app),
		newMedsCmd(app),
		newRemindCmd(app),
	)

	return root
}
