package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raysh454/fraudeye/internal/app"
	"github.com/raysh454/fraudeye/internal/model"
)

var errCredentialsRequired = errors.New("--email and --password are required")

// NewLoginCmd creates the login command.
func NewLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Long: `Login signs in against the backend, stores the session for later commands and
hands the token to the extension, exactly as signing in on the dashboard does.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			if email == "" || password == "" {
				return errCredentialsRequired
			}
			return withApp(cmd, func(ctx context.Context, a *app.Application) error {
				user, err := a.Panel.Login(ctx, email, password)
				if err != nil {
					return err
				}
				printSignedIn(cmd, user)
				return nil
			})
		},
	}
	cmd.Flags().StringP("email", "e", "", "Account email")
	cmd.Flags().StringP("password", "p", "", "Account password")
	return cmd
}

// NewRegisterCmd creates the register command.
func NewRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			if email == "" || password == "" {
				return errCredentialsRequired
			}
			return withApp(cmd, func(ctx context.Context, a *app.Application) error {
				user, err := a.Panel.Register(ctx, name, email, password)
				if err != nil {
					return err
				}
				printSignedIn(cmd, user)
				return nil
			})
		},
	}
	cmd.Flags().StringP("name", "n", "", "Display name")
	cmd.Flags().StringP("email", "e", "", "Account email")
	cmd.Flags().StringP("password", "p", "", "Account password")
	return cmd
}

// NewLogoutCmd creates the logout command.
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.Application) error {
				if err := a.Panel.Logout(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
				return nil
			})
		},
	}
}

// NewWhoamiCmd creates the whoami command.
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app.Application) error {
				sess := a.Auth.Session()
				if sess.Anonymous() {
					fmt.Fprintln(cmd.OutOrStdout(), "You are not signed in. Scans will be anonymous.")
					return nil
				}
				printSignedIn(cmd, sess.User)
				return nil
			})
		},
	}
}

func printSignedIn(cmd *cobra.Command, u *model.User) {
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as: %s <%s>\n", u.Name, u.Email)
}
