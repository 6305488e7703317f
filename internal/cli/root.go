// Package cli is the mandate command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:           "mandate",
		Short:         "Mandate — onboarding, dashboards, and broker management for the trading-mandate platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global / persistent flags
	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.BaseURL, "base-url", "", "Backend base URL override")
	cmd.PersistentFlags().StringVar(&rc.Environment, "env", "", "Backend environment: local|production")
	cmd.PersistentFlags().StringVar(&rc.StorePath, "store", "", "Path to the local hint store")
	cmd.PersistentFlags().StringVar(&rc.Jurisdiction, "jurisdiction", "EU", "Consent jurisdiction")

	// Subcommands
	cmd.AddCommand(
		newLoginCmd(rc),
		newLogoutCmd(rc),
		newWizardCmd(rc),
		newDashboardCmd(rc),
		newBrokersCmd(rc),
		newStrategiesCmd(rc),
		newDecisionsCmd(rc),
		newUpdateCmd(rc),
		newRevokeCmd(rc),
		newWatchCmd(rc),
		newContactCmd(rc),
		newEnvCmd(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("mandate (dev)")
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
