package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/diarycard/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newRemindCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remind",
		Aliases: []string{"reminders"},
		Short:   "Inspect and manage scheduled reminders",
	}

	cmd.AddCommand(
		newRemindListCmd(app),
		newRemindSyncCmd(app),
		newRemindDueCmd(app),
		newRemindSetCmd(app),
	)

	return cmd
}

func newRemindListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List pending reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := app.session(ctx)
			if err != nil {
				return err
			}
			rs, err := app.Reminders.Pending(ctx, sess.UserID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReminders(rs, app.now()))
			return nil
		},
	}
}

func newRemindSyncCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Rebuild reminders from your profile and medications",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := app.session(ctx)
			if err != nil {
				return err
			}
			rs, err := app.Reminders.Sync(ctx, sess.UserID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("%d reminders scheduled.", len(rs))))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReminders(rs, app.now()))
			return nil
		},
	}
}

func newRemindDueCmd(app *App) *cobra.Command {
	var window time.Duration

	cmd := &cobra.Command{
		Use:   "due",
		Short: "Show reminders that fired within the window",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := app.session(ctx)
			if err != nil {
				return err
			}
			if window <= 0 {
				window = app.DueWindow
			}
			rs, err := app.Reminders.Due(ctx, sess.UserID, app.now(), window)
			if err != nil {
				return err
			}
			if len(rs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Nothing due."))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDue(rs))
			return nil
		},
	}

	cmd.Flags().DurationVar(&window, "window", 0, "look-back window, e.g. 15m")
	return cmd
}

func newRemindSetCmd(app *App) *cobra.Command {
	var morning, evening string
	var clearMorning, clearEvening bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the diary reminder times",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := app.session(ctx)
			if err != nil {
				return err
			}
			p, err := app.Profiles.Get(ctx, sess.UserID)
			if err != nil {
				return err
			}
			m, e := p.MorningReminder, p.EveningReminder
			if morning != "" {
				if m, err = parseOptionalClock(morning); err != nil {
					return fmt.Errorf("--morning: %w", err)
				}
			}
			if evening != "" {
				if e, err = parseOptionalClock(evening); err != nil {
					return fmt.Errorf("--evening: %w", err)
				}
			}
			if clearMorning {
				m = nil
			}
			if clearEvening {
				e = nil
			}
			if err := app.Profiles.SetReminders(ctx, sess.UserID, m, e); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Reminders: morning %s, evening %s.",
				orNone(clockString(m)), orNone(clockString(e)))))
			return nil
		},
	}

	cmd.Flags().StringVar(&morning, "morning", "", "morning reminder time, HH:MM")
	cmd.Flags().StringVar(&evening, "evening", "", "evening reminder time, HH:MM")
	cmd.Flags().BoolVar(&clearMorning, "no-morning", false, "turn the morning reminder off")
	cmd.Flags().BoolVar(&clearEvening, "no-evening", false, "turn the evening reminder off")
	return cmd
}
