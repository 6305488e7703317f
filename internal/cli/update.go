package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/mandate/mandate"
)

// update creates a new version of the active mandate with adjusted risk
// limits. The portfolio itself is untouched; changing strategies or markets
// means revoking and running the wizard again.
func newUpdateCmd(rc *RootConfig) *cobra.Command {
	var (
		perTrade     float64
		monthlyCap   float64
		maxPositions int
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Adjust the risk limits of the active mandate",
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
				return fmt.Errorf("no active mandate to update")
			}

			draft := mandate.Draft{Portfolio: active.Portfolio, Risk: active.Risk}
			if draft.Risk.PerStrategy == nil {
				draft.Risk.PerStrategy = map[string]mandate.StrategyRisk{}
			}

			for id, risk := range draft.Risk.PerStrategy {
				if cmd.Flags().Changed("per-trade") {
					if perTrade < mandate.MinPerTradePercent || perTrade > mandate.MaxPerTradePercent {
						return fmt.Errorf("per-trade risk must be between %.2f%% and %.2f%%",
							mandate.MinPerTradePercent, mandate.MaxPerTradePercent)
					}
					risk.RiskPerTradeBps = mandate.PercentToBps(mandate.RoundPercent(perTrade))
				}
				if cmd.Flags().Changed("max-positions") {
					risk.MaxPositions = maxPositions
				}
				draft.Risk.PerStrategy[id] = risk
			}
			if cmd.Flags().Changed("monthly") {
				if monthlyCap < mandate.MinMonthlyPercent || monthlyCap > mandate.MaxMonthlyPercent {
					return fmt.Errorf("monthly risk cap must be between %.2f%% and %.2f%%",
						mandate.MinMonthlyPercent, mandate.MaxMonthlyPercent)
				}
				draft.Risk.OmegaRiskCapBps = mandate.PercentToBps(mandate.RoundPercent(monthlyCap))
			}

			if err := draft.Validate(); err != nil {
				return err
			}

			updated, err := app.Gateway.UpdateMandate(ctx, active.MandateID, draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Mandate %s updated to version %d.\n", updated.MandateID, updated.Version)
			return nil
		},
	}

	cmd.Flags().Float64Var(&perTrade, "per-trade", 0, "New per-trade risk percent")
	cmd.Flags().Float64Var(&monthlyCap, "monthly", 0, "New monthly risk cap percent")
	cmd.Flags().IntVar(&maxPositions, "max-positions", 0, "New max open positions")
	return cmd
}
