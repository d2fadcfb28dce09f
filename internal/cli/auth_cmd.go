package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/diarycard/internal/auth"
	"github.com/alexanderramin/diarycard/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// credentialFields are the values shared by the sign-up, sign-in and reset
// commands. Missing values are prompted for on a terminal.
type credentialFields struct {
	email    string
	password string
	confirm  string
}

func (f *credentialFields) prompt(app *App, withEmail, withConfirm bool) error {
	missingEmail := withEmail && f.email == ""
	missingConfirm := withConfirm && f.confirm == ""
	if !missingEmail && f.password != "" && !missingConfirm {
		return nil
	}
	if !app.interactive() {
		switch {
		case missingEmail:
			return fmt.Errorf("--email is required")
		case f.password == "":
			return fmt.Errorf("--password is required")
		default:
			return fmt.Errorf("--confirm is required")
		}
	}

	var fields []huh.Field
	if withEmail {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Value(&f.email).
			Validate(func(s string) error {
				_, err := auth.NormalizeEmail(s)
				return err
			}))
	}
	fields = append(fields, huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(&f.password))
	if withConfirm {
		fields = append(fields, huh.NewInput().
			Title("Confirm password").
			EchoMode(huh.EchoModePassword).
			Value(&f.confirm))
	}
	return app.runForm(huh.NewForm(huh.NewGroup(fields...)))
}

func (f *credentialFields) bind(cmd *cobra.Command, withConfirm bool) {
	cmd.Flags().StringVar(&f.email, "email", "", "account email")
	cmd.Flags().StringVar(&f.password, "password", "", "password (prompted when omitted)")
	if withConfirm {
		cmd.Flags().StringVar(&f.confirm, "confirm", "", "repeat the password")
	}
}

func newSignUpCmd(app *App) *cobra.Command {
	var f credentialFields

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.prompt(app, true, true); err != nil {
				return err
			}
			sess, err := app.Auth.SignUp(context.Background(), f.email, f.password, f.confirm)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Account created for "+formatter.Bold(sess.Email)+"."))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Next: run `diarycard onboard` to set up your card."))
			return nil
		},
	}
	f.bind(cmd, true)
	return cmd
}

func newSignInCmd(app *App) *cobra.Command {
	var f credentialFields

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in to an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.prompt(app, true, false); err != nil {
				return err
			}
			ctx := context.Background()
			sess, err := app.Auth.SignIn(ctx, f.email, f.password)
			if err != nil {
				return err
			}
			greeting := sess.Email
			if p, err := app.Profiles.Get(ctx, sess.UserID); err == nil {
				greeting = p.Greeting()
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Welcome back, "+formatter.Bold(greeting)+"."))
			return nil
		},
	}
	f.bind(cmd, false)
	return cmd
}

func newSignOutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Auth.SignOut(context.Background()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Signed out."))
			return nil
		},
	}
}

func newWhoAmICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := app.session(ctx)
			if err != nil {
				return err
			}
			pairs := [][2]string{
				{"Email", sess.Email},
				{"User ID", sess.UserID},
				{"Signed in", formatter.HumanTimestamp(sess.StartedAt, app.now())},
			}
			if p, err := app.Profiles.Get(ctx, sess.UserID); err == nil {
				pairs = append(pairs,
					[2]string{"Name", p.Greeting()},
					[2]string{"Onboarded", formatter.Check(p.OnboardingComplete)},
				)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderKeyValues(pairs))
			return nil
		},
	}
}

func newResetPasswordCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset a forgotten password",
	}
	cmd.AddCommand(
		newResetRequestCmd(app),
		newResetConfirmCmd(app),
	)
	return cmd
}

func newResetRequestCmd(app *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Issue a password reset token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			token, err := app.Auth.RequestPasswordReset(context.Background(), email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Reset token issued. It can be used once."))
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func newResetConfirmCmd(app *App) *cobra.Command {
	var token string
	var f credentialFields

	cmd := &cobra.Command{
		Use:   "confirm",
		Short: "Set a new password with a reset token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return fmt.Errorf("--token is required")
			}
			if err := f.prompt(app, false, true); err != nil {
				return err
			}
			if err := app.Auth.ConfirmPasswordReset(context.Background(), token, f.password, f.confirm); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Password updated. Sign in with your new password."))
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "reset token from `reset-password request`")
	cmd.Flags().StringVar(&f.password, "password", "", "new password (prompted when omitted)")
	cmd.Flags().StringVar(&f.confirm, "confirm", "", "repeat the new password")
	return cmd
}
