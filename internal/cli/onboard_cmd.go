package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/diarycard/internal/cli/formatter"
	"github.com/alexanderramin/diarycard/internal/domain"
	"github.com/alexanderramin/diarycard/internal/entry"
	"github.com/alexanderramin/diarycard/internal/flow"
	"github.com/alexanderramin/diarycard/internal/repository"
	"github.com/spf13/cobra"
)

// onboardFlags are the non-interactive inputs of `onboard`.
type onboardFlags struct {
	name          string
	actions       []string
	urges         []string
	emotions      []string
	customActions []string
	customUrges   []string
	goals         []string
	meds          []string
	morning       string
	evening       string
}

func (f *onboardFlags) empty() bool {
	return f.name == "" && len(f.actions) == 0 && len(f.urges) == 0 && len(f.emotions) == 0 &&
		len(f.customActions) == 0 && len(f.customUrges) == 0 && len(f.goals) == 0 &&
		len(f.meds) == 0 && f.morning == "" && f.evening == ""
}

func newOnboardCmd(app *App) *cobra.Command {
	var f onboardFlags

	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Set up what your diary card tracks",
		Long: `Choose exactly 3 actions, 3 urges and 3 emotions to track, add goals,
medications and reminder times. Runs as a step-by-step flow on a terminal;
pass flags to set everything at once.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := app.session(ctx)
			if err != nil {
				return err
			}
			profile, err := app.Profiles.Get(ctx, sess.UserID)
			if errors.Is(err, repository.ErrNotFound) {
				profile = &domain.UserProfile{UserID: sess.UserID, Email: sess.Email}
			} else if err != nil {
				return err
			}
			meds, err := app.Meds.List(ctx, sess.UserID)
			if err != nil {
				return err
			}
			ctrl, err := entry.NewOnboardingController(profile, meds, app.Profiles)
			if err != nil {
				return err
			}

			if f.empty() && app.interactive() {
				m := newOnboardingModel(ctx, ctrl, app.Lookup, app.SearchDelay)
				defer m.close()
				final, err := app.run(m)
				if err != nil {
					return err
				}
				if fm, ok := final.(*onboardingModel); ok && fm.cancelled {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled. Your profile was not changed."))
					return nil
				}
			} else {
				if err := applyOnboardFlags(ctrl, &f); err != nil {
					return err
				}
				if err := ctrl.Finish(ctx); err != nil {
					return err
				}
			}

			if ctrl.State() != entry.StateSaved {
				return fmt.Errorf("profile was not saved")
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(ctrl.SaveMessage()))
			fmt.Fprint(cmd.OutOrStdout(), onboardingSummary(ctrl.Profile(), ctrl.Medications()))
			if pending, err := app.Reminders.Pending(ctx, sess.UserID); err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim(fmt.Sprintf("%d reminders scheduled.", len(pending))))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&f.name, "name", "", "display name")
	cmd.Flags().StringSliceVar(&f.actions, "actions", nil, "exactly 3 actions to track, by name or label")
	cmd.Flags().StringSliceVar(&f.urges, "urges", nil, "exactly 3 urges to rate, by name or label")
	cmd.Flags().StringSliceVar(&f.emotions, "emotions", nil, "exactly 3 emotions to rate, by name or label")
	cmd.Flags().StringArrayVar(&f.customActions, "custom-action", nil, "custom action label (repeatable)")
	cmd.Flags().StringArrayVar(&f.customUrges, "custom-urge", nil, "custom urge label (repeatable)")
	cmd.Flags().StringArrayVar(&f.goals, "goal", nil, "personal goal (repeatable)")
	cmd.Flags().StringArrayVar(&f.meds, "med", nil, "medication name (repeatable)")
	cmd.Flags().StringVar(&f.morning, "morning", "", "morning reminder time, HH:MM")
	cmd.Flags().StringVar(&f.evening, "evening", "", "evening reminder time, HH:MM")
	return cmd
}

// applyOnboardFlags fills the controller from flags. Flags left unset keep
// the values already on the profile.
func applyOnboardFlags(ctrl *entry.OnboardingController, f *onboardFlags) error {
	if f.name != "" {
		ctrl.SetDisplayName(f.name)
	}

	gated := []struct {
		step  flow.StepID
		input []string
	}{
		{flow.StepActions, f.actions},
		{flow.StepUrges, f.urges},
		{flow.StepEmotions, f.emotions},
	}
	for _, g := range gated {
		if len(g.input) == 0 {
			continue
		}
		names := make([]string, 0, len(g.input))
		for _, in := range g.input {
			name, err := catalogName(g.step, in)
			if err != nil {
				return err
			}
			names = append(names, name)
		}
		if err := ctrl.SetSelection(g.step, names); err != nil {
			return err
		}
		if got, target := ctrl.Selection(g.step); len(got) != target || len(names) != target {
			return fmt.Errorf("--%s: choose exactly %d (got %d): %w", g.step, target, len(names), entry.ErrSelectionIncomplete)
		}
	}

	if len(f.customActions) > 0 {
		if err := ctrl.SetCustomActions(f.customActions); err != nil {
			return err
		}
	}
	if len(f.customUrges) > 0 {
		if err := ctrl.SetCustomUrges(f.customUrges); err != nil {
			return err
		}
	}
	if len(f.goals) > 0 {
		if err := ctrl.SetGoals(f.goals); err != nil {
			return err
		}
	}

	if f.morning != "" || f.evening != "" {
		current := ctrl.Profile()
		morning, evening := current.MorningReminder, current.EveningReminder
		var err error
		if f.morning != "" {
			if morning, err = parseOptionalClock(f.morning); err != nil {
				return fmt.Errorf("--morning: %w", err)
			}
		}
		if f.evening != "" {
			if evening, err = parseOptionalClock(f.evening); err != nil {
				return fmt.Errorf("--evening: %w", err)
			}
		}
		ctrl.SetReminders(morning, evening)
	}

	for _, name := range f.meds {
		if err := ctrl.AddMedication(&domain.Medication{Name: strings.TrimSpace(name)}); err != nil {
			return err
		}
	}
	return nil
}

// catalogName resolves a catalog item on a gated step by stored name or by
// its label, case-insensitively.
func catalogName(step flow.StepID, in string) (string, error) {
	in = strings.TrimSpace(in)
	if step == flow.StepActions {
		for _, k := range domain.ActionKeys() {
			if strings.EqualFold(k.Name(), in) || strings.EqualFold(k.Label(), in) {
				return k.Name(), nil
			}
		}
		return "", fmt.Errorf("unknown action %q: %w", in, domain.ErrUnknownField)
	}
	for _, k := range domain.RatingKeys(domain.Cluster(step)) {
		if strings.EqualFold(k.Name(), in) || strings.EqualFold(k.Label(), in) {
			return k.Name(), nil
		}
	}
	return "", fmt.Errorf("unknown %s %q: %w", strings.TrimSuffix(string(step), "s"), in, domain.ErrUnknownField)
}
