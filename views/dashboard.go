// Package views renders the read-oriented surfaces: the mandate dashboard,
// the broker account list, the strategy catalog, and the decision history.
// Each view loads its data set, renders the whole thing, and re-renders in
// full after any mutation.
package views

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/rustyeddy/mandate/gateway"
	"github.com/rustyeddy/mandate/mandate"
)

// DashboardBackend is the gateway slice the dashboard reads from.
type DashboardBackend interface {
	ActiveMandate(ctx context.Context) (mandate.Active, bool, error)
	MandateHistory(ctx context.Context) ([]mandate.Active, error)
}

// Dashboard shows the active mandate summary and its version history.
type Dashboard struct {
	backend DashboardBackend

	active  mandate.Active
	hasOne  bool
	history []mandate.Active
}

func NewDashboard(backend DashboardBackend) *Dashboard {
	return &Dashboard{backend: backend}
}

// Load refreshes the cached snapshot. History is enrichment: its failure
// leaves the summary usable.
func (d *Dashboard) Load(ctx context.Context) error {
	active, ok, err := d.backend.ActiveMandate(ctx)
	if err != nil {
		return fmt.Errorf("load active mandate: %w", err)
	}
	d.active, d.hasOne = active, ok

	history, err := d.backend.MandateHistory(ctx)
	if err == nil {
		d.history = history
	}
	return nil
}

// Render writes the dashboard. Call Load first.
func (d *Dashboard) Render(w io.Writer) {
	if !d.hasOne {
		fmt.Fprintln(w, "No active mandate. Run the onboarding wizard to create one.")
		return
	}

	m := d.active
	fmt.Fprintf(w, "Mandate %s (v%d) — %s\n", m.MandateID, m.Version, m.Status)
	fmt.Fprintf(w, "Issued %s, last modified %s\n\n",
		m.IssuedAt.Format("2006-01-02 15:04"), m.ModifiedAt.Format("2006-01-02 15:04"))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tMARKETS\tACCOUNT\tRISK/TRADE\tMAX POS")
	for _, e := range m.Portfolio {
		risk := m.Risk.PerStrategy[e.StrategyID]
		fmt.Fprintf(tw, "%s\t%s\t%s/%s\t%.2f%%\t%d\n",
			e.StrategyID, joinSymbols(e.Symbols), e.Account.Broker, e.Account.AccountID,
			mandate.BpsToPercent(risk.RiskPerTradeBps), risk.MaxPositions)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nMonthly omega cap: %.2f%%\n", mandate.BpsToPercent(m.Risk.OmegaRiskCapBps))

	if len(d.history) > 0 {
		fmt.Fprintf(w, "\nHistory (%d versions):\n", len(d.history))
		for _, h := range d.history {
			fmt.Fprintf(w, "  v%d  %s  %s\n", h.Version, h.Status, h.ModifiedAt.Format("2006-01-02 15:04"))
		}
	}
}

func joinSymbols(symbols []string) string {
	out := ""
	for i, s := range symbols {
		if i > 0 {
			out += ","
		}
		out += s
	}
	return out
}

// DecisionBackend supplies decision/report history.
type DecisionBackend interface {
	QueryDecisions(ctx context.Context, q gateway.DecisionQuery) ([]mandate.DecisionRecord, error)
}

// RenderDecisions fetches and writes the decision history for a query.
func RenderDecisions(ctx context.Context, backend DecisionBackend, q gateway.DecisionQuery, w io.Writer) error {
	recs, err := backend.QueryDecisions(ctx, q)
	if err != nil {
		return fmt.Errorf("query decisions: %w", err)
	}
	if len(recs) == 0 {
		fmt.Fprintln(w, "No decisions recorded.")
		return nil
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].DecidedAt.After(recs[j].DecidedAt) })

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tSTRATEGY\tSYMBOL\tACTION\tREASON")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.DecidedAt.Format("2006-01-02 15:04"), r.StrategyID, r.Symbol, r.Action, r.Reason)
	}
	return tw.Flush()
}
