package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/mandate/mandate"
	"github.com/rustyeddy/mandate/store"
	"github.com/rustyeddy/mandate/views"
	"github.com/rustyeddy/mandate/wizard"
)

func newWizardCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "wizard",
		Short: "Run the mandate onboarding wizard",
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

			s, err := wizard.New(ctx, app.Gateway, rc.Jurisdiction)
			if errors.Is(err, wizard.ErrAlreadyActive) {
				// straight to the dashboard instead
				fmt.Fprintln(cmd.OutOrStdout(), "You already have an active mandate.")
				d := views.NewDashboard(app.Gateway)
				if err := d.Load(ctx); err != nil {
					return err
				}
				d.Render(cmd.OutOrStdout())
				return nil
			}
			if err != nil {
				return err
			}
			defer s.Abandon()

			runner := &wizardRunner{
				s:   s,
				in:  bufio.NewReader(cmd.InOrStdin()),
				out: cmd.OutOrStdout(),
				app: app,
			}
			return runner.run(cmd)
		},
	}
}

type wizardRunner struct {
	s   *wizard.Session
	in  *bufio.Reader
	out io.Writer
	app *App
}

func (r *wizardRunner) run(cmd *cobra.Command) error {
	ctx := cmd.Context()

	for r.s.Step() != wizard.StepSuccess {
		r.app.Hints.Set(store.KeyLastWizardEntry, r.s.Step().String())

		var err error
		switch r.s.Step() {
		case wizard.StepStrategy:
			err = r.strategyStep(ctx)
		case wizard.StepMarkets:
			err = r.marketsStep(ctx)
		case wizard.StepRisk:
			err = r.riskStep(ctx)
		case wizard.StepConsent:
			err = r.consentStep(ctx)
		case wizard.StepActivation:
			err = r.activationStep(ctx)
		}
		if err != nil {
			return err
		}
	}

	r.app.Hints.Delete(store.KeyLastWizardEntry)
	issued := r.s.Issued()
	fmt.Fprintf(r.out, "\nMandate %s issued — your strategies are now live.\n", issued.MandateID)
	return nil
}

func (r *wizardRunner) prompt(label string) (string, error) {
	fmt.Fprint(r.out, label)
	line, err := r.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (r *wizardRunner) strategyStep(ctx context.Context) error {
	fmt.Fprintln(r.out, "\n-- Step 1 of 5: choose a strategy --")
	for _, st := range r.s.Catalog() {
		fmt.Fprintf(r.out, "  %-20s %s\n", st.ID, st.Name)
	}

	for {
		id, err := r.prompt("Strategy id: ")
		if err != nil {
			return err
		}
		if err := r.s.SelectStrategy(id); err != nil {
			fmt.Fprintln(r.out, err)
			continue
		}
		return r.s.Next(ctx)
	}
}

func (r *wizardRunner) marketsStep(ctx context.Context) error {
	fmt.Fprintln(r.out, "\n-- Step 2 of 5: choose markets --")
	choices := r.s.MarketChoices()
	for _, class := range []mandate.MarketClass{mandate.MarketForex, mandate.MarketVolatility, mandate.MarketOTC, mandate.MarketOther} {
		if symbols, ok := choices[class]; ok {
			fmt.Fprintf(r.out, "  %-12s %s\n", class, strings.Join(symbols, " "))
		}
	}

	for {
		line, err := r.prompt("Symbols (space-separated): ")
		if err != nil {
			return err
		}
		for _, sym := range strings.Fields(line) {
			r.s.ToggleMarket(sym)
		}
		if err := r.s.Next(ctx); err != nil {
			fmt.Fprintln(r.out, err)
			continue
		}
		return nil
	}
}

func (r *wizardRunner) riskStep(ctx context.Context) error {
	fmt.Fprintln(r.out, "\n-- Step 3 of 5: risk limits --")

	for {
		if v, err := r.promptFloat("Per-trade risk % (0.01-5.00): "); err != nil {
			return err
		} else {
			r.s.SetPerTradeRisk(v)
		}
		if v, err := r.promptFloat("Monthly risk cap % (0.01-10.00): "); err != nil {
			return err
		} else {
			r.s.SetMonthlyCap(v)
		}
		if line, err := r.prompt("Max open positions [3]: "); err != nil {
			return err
		} else if line != "" {
			if n, err := strconv.Atoi(line); err == nil {
				r.s.SetMaxPositions(n)
			}
		}
		if line, err := r.prompt("Adaptive risk? [y/N]: "); err != nil {
			return err
		} else {
			r.s.SetAdaptiveRisk(strings.EqualFold(line, "y") || strings.EqualFold(line, "yes"))
		}

		if err := r.s.Next(ctx); err != nil {
			fmt.Fprintln(r.out, err)
			continue
		}

		if p := r.s.Preview(); p != nil {
			fmt.Fprintf(r.out, "\nRisk outlook: %s", p.Level.Label())
			if w := p.FirstWarning(); w != "" {
				fmt.Fprintf(r.out, " — %s", w)
			}
			fmt.Fprintln(r.out)
		}
		return nil
	}
}

func (r *wizardRunner) promptFloat(label string) (float64, error) {
	for {
		line, err := r.prompt(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			fmt.Fprintln(r.out, "enter a number")
			continue
		}
		return v, nil
	}
}

func (r *wizardRunner) consentStep(ctx context.Context) error {
	consent := r.s.Consent()
	fmt.Fprintf(r.out, "\n-- Step 4 of 5: consent (version %s, %s) --\n\n", consent.Version, consent.Jurisdiction)
	fmt.Fprintln(r.out, consent.Text)

	for {
		line, err := r.prompt("\nAccept the terms above? [y/N]: ")
		if err != nil {
			return err
		}
		r.s.AcceptConsent(strings.EqualFold(line, "y") || strings.EqualFold(line, "yes"))
		if err := r.s.Next(ctx); err != nil {
			fmt.Fprintln(r.out, err)
			continue
		}
		return nil
	}
}

func (r *wizardRunner) activationStep(ctx context.Context) error {
	fmt.Fprintln(r.out, "\n-- Step 5 of 5: activation --")
	d := r.s.Draft()
	e := d.Portfolio[0]
	risk := d.Risk.PerStrategy[e.StrategyID]
	fmt.Fprintf(r.out, "Strategy %s on %s, %.2f%% per trade, %.2f%% monthly cap\n",
		e.StrategyID, strings.Join(e.Symbols, ","),
		mandate.BpsToPercent(risk.RiskPerTradeBps), mandate.BpsToPercent(d.Risk.OmegaRiskCapBps))

	for {
		line, err := r.prompt("Activate now? [y/N]: ")
		if err != nil {
			return err
		}
		if !strings.EqualFold(line, "y") && !strings.EqualFold(line, "yes") {
			return fmt.Errorf("activation declined, mandate not issued")
		}

		if err := r.s.Activate(ctx); err != nil {
			fmt.Fprintf(r.out, "Activation failed: %s\n", r.s.Overlay())
			r.s.DismissOverlay()
			continue // the button re-enables; retry is safe
		}
		return nil
	}
}
