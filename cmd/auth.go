package cmd

import (
	"errors"
	"fmt"

	"github.com/jon4hz/modhub/internal/auth"
	"github.com/spf13/cobra"
)

var loginFlags struct {
	Email    string
	Password string
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the marketplace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := newCLI(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()

		user, err := c.session.Login(cmd.Context(), loginFlags.Email, loginFlags.Password)
		if err != nil {
			return authFailure(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", user.Username, user.Role)
		return nil
	},
}

var registerFlags struct {
	Username string
	Email    string
	Password string
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a marketplace account and sign in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := newCLI(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()

		user, err := c.session.Register(cmd.Context(), registerFlags.Username, registerFlags.Email, registerFlags.Password)
		if err != nil {
			return authFailure(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s\n", user.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := newCLI(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()

		if err := c.session.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := newCLI(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()

		user := c.session.User()
		if user == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (%s)\n", user.Username, user.Email, user.Role)
		return nil
	},
}

// authFailure keeps the user facing message and adds the underlying cause when there is one.
func authFailure(err error) error {
	var aErr *auth.Error
	if errors.As(err, &aErr) && aErr.Err != nil {
		return fmt.Errorf("%s: %w", aErr.Message, aErr.Err)
	}
	return err
}

func init() {
	loginCmd.Flags().StringVarP(&loginFlags.Email, "email", "e", "", "Account email")
	loginCmd.Flags().StringVarP(&loginFlags.Password, "password", "p", "", "Account password")

	registerCmd.Flags().StringVarP(&registerFlags.Username, "username", "u", "", "Display name")
	registerCmd.Flags().StringVarP(&registerFlags.Email, "email", "e", "", "Account email")
	registerCmd.Flags().StringVarP(&registerFlags.Password, "password", "p", "", fmt.Sprintf("Account password (at least %d characters)", auth.MinPasswordLength))

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}
