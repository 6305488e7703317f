package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/mandate/gateway"
	"github.com/rustyeddy/mandate/store"
	"github.com/rustyeddy/mandate/views"
)

func newDashboardCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the active mandate and its history",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rc.BuildApp()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			if _, err := app.RequireSession(ctx); err != nil {
				return err
			}

			d := views.NewDashboard(app.Gateway)
			if err := d.Load(ctx); err != nil {
				return err
			}
			d.Render(cmd.OutOrStdout())
			return nil
		},
	}
}

func newBrokersCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brokers",
		Short: "List connected broker accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rc.BuildApp()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			if _, err := app.RequireSession(ctx); err != nil {
				return err
			}

			v := views.NewBrokers(app.Gateway)
			if err := v.Load(ctx); err != nil {
				return err
			}
			v.Render(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "connect",
		Short: "Start the broker OAuth connect flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rc.BuildApp()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			if _, err := app.RequireSession(ctx); err != nil {
				return err
			}

			cfg, err := app.Gateway.FetchOAuthConfig(ctx)
			if err != nil {
				return err
			}
			state, err := app.Gateway.GenerateOAuthState(ctx)
			if err != nil {
				return err
			}
			// the callback handler checks the state on return
			if err := app.Hints.Set(store.KeyOAuthState, state); err != nil {
				return err
			}

			q := url.Values{}
			q.Set("client_id", cfg.ClientID)
			q.Set("redirect_uri", cfg.RedirectURI)
			q.Set("state", state)
			q.Set("scope", strings.Join(cfg.Scopes, " "))
			fmt.Fprintln(cmd.OutOrStdout(), "Open this URL in a browser to connect your broker account:")
			fmt.Fprintf(cmd.OutOrStdout(), "\n  %s?%s\n", cfg.AuthorizeURL, q.Encode())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "disconnect <account-id>",
		Short: "Disconnect a broker account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rc.BuildApp()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			if _, err := app.RequireSession(ctx); err != nil {
				return err
			}

			v := views.NewBrokers(app.Gateway)
			return v.Disconnect(ctx, args[0], cmd.InOrStdin(), cmd.OutOrStdout())
		},
	})

	return cmd
}

func newStrategiesCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "Browse the strategy catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rc.BuildApp()
			if err != nil {
				return err
			}
			defer app.Close()

			c := views.NewCatalog(app.Gateway)
			if err := c.Load(cmd.Context()); err != nil {
				return err
			}
			c.Render(cmd.OutOrStdout())
			return nil
		},
	}
}

func newDecisionsCmd(rc *RootConfig) *cobra.Command {
	var q gateway.DecisionQuery

	cmd := &cobra.Command{
		Use:   "decisions",
		Short: "Query the decision/report history",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rc.BuildApp()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			if _, err := app.RequireSession(ctx); err != nil {
				return err
			}

			return views.RenderDecisions(ctx, app.Gateway, q, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&q.StrategyID, "strategy", "", "Filter by strategy id")
	cmd.Flags().StringVar(&q.Symbol, "symbol", "", "Filter by symbol")
	cmd.Flags().IntVar(&q.Limit, "limit", 50, "Maximum rows")
	return cmd
}

func newRevokeCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke",
		Short: "Revoke the active mandate and stop trading",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rc.BuildApp()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			if _, err := app.RequireSession(ctx); err != nil {
				return err
			}

			active, ok, err := app.Gateway.ActiveMandate(ctx)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No active mandate to revoke.")
				return nil
			}

			return views.Revoke(ctx, app.Gateway, active.MandateID, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
