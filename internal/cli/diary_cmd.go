package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/diarycard/internal/cli/formatter"
	"github.com/alexanderramin/diarycard/internal/domain"
	"github.com/alexanderramin/diarycard/internal/entry"
	"github.com/alexanderramin/diarycard/internal/flow"
	"github.com/alexanderramin/diarycard/internal/repository"
	"github.com/spf13/cobra"
)

func newDiaryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "diary",
		Aliases: []string{"card"},
		Short:   "Fill in and review diary cards",
	}

	cmd.AddCommand(
		newDiaryNewCmd(app),
		newDiaryHistoryCmd(app),
		newDiaryShowCmd(app),
		newDiaryDeleteCmd(app),
	)

	return cmd
}

// diaryFlags are the non-interactive inputs of `diary new`.
type diaryFlags struct {
	session  string
	ratings  []string
	acted    []string
	taken    []string
	goalDone []string
	note     string
}

func (f *diaryFlags) empty() bool {
	return len(f.ratings) == 0 && len(f.acted) == 0 && len(f.taken) == 0 &&
		len(f.goalDone) == 0 && f.note == ""
}

func newDiaryNewCmd(app *App) *cobra.Command {
	var f diaryFlags

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Fill in today's diary card",
		Long: `Fill in a diary card step by step on a terminal, or pass values as flags.

Ratings use the field name, e.g. --rating selfHarmUrges=3 --rating joy=7.
Custom urges are rated by label and custom actions are marked by label.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := app.session(ctx)
			if err != nil {
				return err
			}

			profile, err := app.Profiles.Get(ctx, sess.UserID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			if profile == nil {
				profile = &domain.UserProfile{UserID: sess.UserID, Email: sess.Email}
			}
			meds, err := app.Meds.List(ctx, sess.UserID)
			if err != nil {
				return err
			}

			now := app.now()
			tag := domain.SessionFor(now)
			if f.session != "" {
				if tag, err = domain.ParseSessionTag(f.session); err != nil {
					return err
				}
			}

			e := domain.NewDiaryEntry(profile, meds, tag, flow.DiarySchemaV1, now)
			e.UserID = sess.UserID
			ctrl, err := entry.NewDiaryController(e, app.Diary, entry.WithClock(app.now))
			if err != nil {
				return err
			}

			if f.empty() && app.interactive() {
				final, err := app.run(newDiaryModel(ctx, ctrl, profile))
				if err != nil {
					return err
				}
				if m, ok := final.(*diaryModel); ok && m.cancelled {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled. Nothing was saved."))
					return nil
				}
			} else {
				if err := applyDiaryFlags(ctrl, &f); err != nil {
					return err
				}
				if err := ctrl.Submit(ctx); err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Failure(ctrl.SaveMessage()))
					return err
				}
			}

			if ctrl.State() != entry.StateSaved {
				return fmt.Errorf("diary entry was not saved")
			}
			saved := ctrl.Entry()
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(ctrl.SaveMessage()))
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n",
				formatter.SessionPill(saved.Session),
				formatter.TruncID(saved.ID),
				formatter.HumanTimestamp(saved.Timestamp, now))
			return nil
		},
	}

	cmd.Flags().StringVar(&f.session, "session", "", "morning, evening or manual (default: by time of day)")
	cmd.Flags().StringArrayVar(&f.ratings, "rating", nil, "rating as name=value, 0-10 (repeatable)")
	cmd.Flags().StringArrayVar(&f.acted, "acted", nil, "action acted on, by name or custom label (repeatable)")
	cmd.Flags().StringArrayVar(&f.taken, "taken", nil, "medication taken, by id or name (repeatable)")
	cmd.Flags().StringArrayVar(&f.goalDone, "goal-done", nil, "goal worked on (repeatable)")
	cmd.Flags().StringVar(&f.note, "note", "", "daily note")
	return cmd
}

// applyDiaryFlags turns flag values into controller updates.
func applyDiaryFlags(ctrl *entry.DiaryController, f *diaryFlags) error {
	for _, r := range f.ratings {
		name, raw, ok := strings.Cut(r, "=")
		if !ok {
			return fmt.Errorf("invalid --rating %q (want name=value)", r)
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid --rating %q: value must be a number", r)
		}
		u, err := ratingUpdate(ctrl, strings.TrimSpace(name), v)
		if err != nil {
			return err
		}
		if err := ctrl.Apply(u); err != nil {
			return err
		}
	}

	for _, name := range f.acted {
		var u domain.Update
		if k, ok := domain.LookupActionKey(name); ok {
			u = domain.SetAction(k, true)
		} else {
			u = domain.SetCustomAction(name, true)
		}
		if err := ctrl.Apply(u); err != nil {
			return fmt.Errorf("--acted %s: %w", name, err)
		}
	}

	for _, ref := range f.taken {
		id, err := medicationRef(ctrl.Medications(), ref)
		if err != nil {
			return err
		}
		if err := ctrl.Apply(domain.SetMedicationTaken(id, true)); err != nil {
			return err
		}
	}

	for _, g := range f.goalDone {
		if err := ctrl.Apply(domain.SetGoalDone(g, true)); err != nil {
			return fmt.Errorf("--goal-done %s: %w", g, err)
		}
	}

	if f.note != "" {
		return ctrl.Apply(domain.SetNote(f.note))
	}
	return nil
}

// ratingUpdate resolves a rating name across the urge, emotion and skill
// catalogs, then the entry's custom urges.
func ratingUpdate(ctrl *entry.DiaryController, name string, v int) (domain.Update, error) {
	for _, c := range []domain.Cluster{domain.ClusterUrges, domain.ClusterEmotions, domain.ClusterSkills} {
		if k, ok := domain.LookupRatingKey(c, name); ok {
			return domain.SetRating(k, v), nil
		}
	}
	for _, c := range ctrl.CustomUrges() {
		if strings.EqualFold(c.Label, name) {
			return domain.SetCustomUrge(c.Label, v), nil
		}
	}
	return nil, fmt.Errorf("unknown rating %q", name)
}

func medicationRef(doses []domain.MedicationDose, ref string) (string, error) {
	for _, d := range doses {
		if d.MedicationID == ref || (len(ref) >= 8 && strings.HasPrefix(d.MedicationID, ref)) {
			return d.MedicationID, nil
		}
	}
	for _, d := range doses {
		if strings.EqualFold(d.Name, ref) {
			return d.MedicationID, nil
		}
	}
	return "", fmt.Errorf("no medication matching %q on your list", ref)
}

func newDiaryHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent diary cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := app.session(ctx)
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = app.HistoryLimit
			}
			entries, err := app.Diary.FetchHistory(ctx, sess.UserID, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(entries, app.now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of cards to show")
	return cmd
}

func newDiaryShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one diary card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := app.session(ctx)
			if err != nil {
				return err
			}
			e, err := resolveEntry(ctx, app, sess.UserID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEntry(e, app.now()))
			return nil
		},
	}
}

func newDiaryDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a diary card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := app.session(ctx)
			if err != nil {
				return err
			}
			e, err := resolveEntry(ctx, app, sess.UserID, args[0])
			if err != nil {
				return err
			}
			if err := app.Diary.Delete(ctx, sess.UserID, e.ID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Deleted entry "+formatter.TruncID(e.ID)+"."))
			return nil
		},
	}
}

// prefixSearchLimit bounds how many recent entries a short id is matched against.
const prefixSearchLimit = 500

// resolveEntry accepts a full id or the short prefix shown in history.
func resolveEntry(ctx context.Context, app *App, userID, ref string) (*domain.DiaryEntry, error) {
	e, err := app.Diary.Get(ctx, userID, ref)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	entries, err := app.Diary.FetchHistory(ctx, userID, prefixSearchLimit)
	if err != nil {
		return nil, err
	}
	var match *domain.DiaryEntry
	for _, e := range entries {
		if strings.HasPrefix(e.ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("entry id %q is ambiguous", ref)
			}
			match = e
		}
	}
	if match == nil {
		return nil, fmt.Errorf("entry %s: %w", ref, repository.ErrNotFound)
	}
	return match, nil
}
