package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/diarycard/internal/cli/formatter"
	"github.com/alexanderramin/diarycard/internal/domain"
	"github.com/alexanderramin/diarycard/internal/rxnorm"
	"github.com/alexanderramin/diarycard/internal/search"
	"github.com/spf13/cobra"
)

func newMedsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "meds",
		Aliases: []string{"med"},
		Short:   "Search drugs and manage your medication list",
	}

	cmd.AddCommand(
		newMedsSearchCmd(app),
		newMedsFormsCmd(app),
		newMedsAddCmd(app),
		newMedsListCmd(app),
		newMedsRemoveCmd(app),
	)

	return cmd
}

// lookupMessage turns a lookup error into an error carrying the user-facing
// text.
func lookupMessage(err error) error {
	return fmt.Errorf("%s", search.Message(err))
}

func newMedsSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <name>",
		Short: "Search the drug database by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Searching…")
			}
			drugs, err := app.Meds.Search(context.Background(), strings.Join(args, " "))
			stop()
			if err != nil {
				return lookupMessage(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDrugs(drugs))
			return nil
		},
	}
}

func newMedsFormsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "forms <rxcui>",
		Short: "List strengths and dosage forms for a drug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			forms, err := app.Meds.Formulations(context.Background(), args[0])
			if err != nil {
				return lookupMessage(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFormulations(forms))
			return nil
		},
	}
}

func newMedsAddCmd(app *App) *cobra.Command {
	var name, rxcui, strength, form string
	var at []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a medication to your list",
		Long: `Add a medication by name, or by RxCUI from "meds search" / "meds forms".
Strength and dosage form are read from the drug name when not given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := app.session(ctx)
			if err != nil {
				return err
			}
			if name == "" && rxcui == "" {
				return fmt.Errorf("--name or --rxcui is required")
			}
			if name == "" {
				concept, err := app.Lookup.Properties(ctx, rxcui)
				if err != nil {
					return lookupMessage(err)
				}
				name = concept.Name
			}
			times, err := parseClockList(strings.Join(at, ","))
			if err != nil {
				return fmt.Errorf("--at: %w", err)
			}

			m := &domain.Medication{
				UserID:        sess.UserID,
				RxCUI:         rxcui,
				Name:          name,
				Strength:      domain.CoalesceStr(strength, rxnorm.ExtractStrength(name)),
				DosageForm:    domain.CoalesceStr(form, rxnorm.ExtractDosageForm(name)),
				ReminderTimes: times,
			}
			if err := app.Meds.Add(ctx, m); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Added "+formatter.Bold(m.DisplayName())+" "+formatter.TruncID(m.ID)+"."))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "medication name")
	cmd.Flags().StringVar(&rxcui, "rxcui", "", "RxNorm concept id")
	cmd.Flags().StringVar(&strength, "strength", "", "strength, e.g. \"50 MG\"")
	cmd.Flags().StringVar(&form, "form", "", "dosage form, e.g. \"Oral Tablet\"")
	cmd.Flags().StringArrayVar(&at, "at", nil, "reminder time HH:MM (repeatable)")
	return cmd
}

func newMedsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your medications",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := app.session(ctx)
			if err != nil {
				return err
			}
			meds, err := app.Meds.List(ctx, sess.UserID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMedications(meds))
			return nil
		},
	}
}

func newMedsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a medication and its reminders",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := app.session(ctx)
			if err != nil {
				return err
			}
			meds, err := app.Meds.List(ctx, sess.UserID)
			if err != nil {
				return err
			}
			var match *domain.Medication
			for _, m := range meds {
				if m.ID == args[0] || strings.HasPrefix(m.ID, args[0]) || strings.EqualFold(m.Name, args[0]) {
					if match != nil {
						return fmt.Errorf("medication %q is ambiguous", args[0])
					}
					match = m
				}
			}
			if match == nil {
				return fmt.Errorf("no medication matching %q on your list", args[0])
			}
			if err := app.Meds.Remove(ctx, sess.UserID, match.ID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Removed "+formatter.Bold(match.DisplayName())+"."))
			return nil
		},
	}
}
