package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/mandate/store"
)

func newLoginCmd(rc *RootConfig) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the mandate platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rc.BuildApp()
			if err != nil {
				return err
			}
			defer app.Close()

			in := bufio.NewReader(cmd.InOrStdin())
			if email == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Email: ")
				line, err := in.ReadString('\n')
				if err != nil {
					return err
				}
				email = strings.TrimSpace(line)
			}
			fmt.Fprint(cmd.OutOrStdout(), "Password: ")
			line, err := in.ReadString('\n')
			if err != nil {
				return err
			}
			password := strings.TrimSpace(line)

			user, err := app.Gateway.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	return cmd
}

func newLogoutCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rc.BuildApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Gateway.Logout(cmd.Context()); err != nil {
				return err
			}
			// session-scoped hints die with the session
			app.Hints.Delete(store.KeyOAuthState)
			app.Hints.Delete(store.KeyLastWizardEntry)
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newContactCmd(rc *RootConfig) *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "contact [message]",
		Short: "Send a message to support",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rc.BuildApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Gateway.Contact(cmd.Context(), subject, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Message sent.")
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "support request", "Message subject")
	return cmd
}

func newEnvCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Show or persist the backend base URL",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the resolved backend base URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rc.BuildApp()
			if err != nil {
				return err
			}
			defer app.Close()
			fmt.Fprintln(cmd.OutOrStdout(), app.Gateway.BaseURL())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-override <url>",
		Short: "Persist a backend base URL override",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rc.BuildApp()
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.Hints.Set(store.KeyBaseURLOverride, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Override persisted: %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear-override",
		Short: "Remove the persisted base URL override",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rc.BuildApp()
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.Hints.Delete(store.KeyBaseURLOverride); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Override cleared.")
			return nil
		},
	})

	return cmd
}
