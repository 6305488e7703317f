package wizard

import (
	"context"
	"fmt"

	"github.com/rustyeddy/mandate/mandate"
)

const (
	defaultMaxPositions = 3
	defaultPerTradePct  = 1.00
)

// Fallback market list shown when a strategy carries no symbol lists of its
// own.
var defaultSymbols = []string{"EURUSD", "GBPUSD", "USDJPY", "1HZ100V", "R_100"}

// SelectStrategy picks the single catalog strategy the mandate will run.
func (s *Session) SelectStrategy(id string) error {
	for _, st := range s.catalog {
		if st.ID == id {
			if s.selectedStrategy != id {
				s.selectedStrategy = id
				// a different strategy has different compatible markets
				s.selectedMarkets = nil
				s.preview = nil
			}
			return nil
		}
	}
	return fmt.Errorf("strategy %q is not in the catalog", id)
}

// SelectedStrategy returns the chosen strategy id, empty when none.
func (s *Session) SelectedStrategy() string { return s.selectedStrategy }

// MarketChoices returns the symbols offered at the markets step: the
// strategy's compatible list when the backend provides one, else its
// defaults, else the built-in list, grouped by market class.
func (s *Session) MarketChoices() map[mandate.MarketClass][]string {
	var symbols []string
	for _, st := range s.catalog {
		if st.ID == s.selectedStrategy {
			symbols = st.CompatibleSymbols
			if len(symbols) == 0 {
				symbols = st.DefaultSymbols
			}
			break
		}
	}
	if len(symbols) == 0 {
		symbols = defaultSymbols
	}
	return mandate.GroupByClass(symbols)
}

// ToggleMarket adds or removes a symbol from the selection.
func (s *Session) ToggleMarket(symbol string) {
	for i, m := range s.selectedMarkets {
		if m == symbol {
			s.selectedMarkets = append(s.selectedMarkets[:i], s.selectedMarkets[i+1:]...)
			s.preview = nil
			return
		}
	}
	s.selectedMarkets = append(s.selectedMarkets, symbol)
	s.preview = nil
}

// SelectedMarkets returns the chosen symbols in selection order.
func (s *Session) SelectedMarkets() []string { return s.selectedMarkets }

// SetPerTradeRisk records the per-trade risk percentage, clamped into the
// allowed range the way a bounded number input clamps while typing. The step
// gate still re-validates whatever is stored; a value never entered at all
// stays zero and is rejected there.
func (s *Session) SetPerTradeRisk(pct float64) {
	s.perTradePercent = mandate.ClampPercent(pct, mandate.MinPerTradePercent, mandate.MaxPerTradePercent)
	s.preview = nil
}

// SetMonthlyCap records the monthly omega cap percentage, clamped like
// SetPerTradeRisk.
func (s *Session) SetMonthlyCap(pct float64) {
	s.monthlyCapPercent = mandate.ClampPercent(pct, mandate.MinMonthlyPercent, mandate.MaxMonthlyPercent)
	s.preview = nil
}

// SetMaxPositions clamps into [1,10]; out-of-range input is pulled to the
// nearest bound rather than rejected.
func (s *Session) SetMaxPositions(n int) {
	if n < 1 {
		n = 1
	}
	if n > 10 {
		n = 10
	}
	s.maxPositions = n
}

// SetAdaptiveRisk toggles adaptive risk for the portfolio entry.
func (s *Session) SetAdaptiveRisk(on bool) { s.adaptiveRisk = on }

// AcceptConsent records acceptance of the document shown at entry.
func (s *Session) AcceptConsent(accepted bool) { s.consentAccepted = accepted }

// Next advances one step if the current step's gate passes. Gate failures
// return a user-facing error and leave the step unchanged. Moving from Risk
// to Consent also kicks the advisory preview; its failure never blocks the
// transition.
func (s *Session) Next(ctx context.Context) error {
	switch s.step {
	case StepStrategy:
		if s.selectedStrategy == "" {
			return fmt.Errorf("select a strategy to continue")
		}
		s.step = StepMarkets

	case StepMarkets:
		if len(s.selectedMarkets) == 0 {
			return fmt.Errorf("select at least one market to continue")
		}
		s.step = StepRisk

	case StepRisk:
		if s.perTradePercent < mandate.MinPerTradePercent || s.perTradePercent > mandate.MaxPerTradePercent {
			return fmt.Errorf("per-trade risk must be between %.2f%% and %.2f%%",
				mandate.MinPerTradePercent, mandate.MaxPerTradePercent)
		}
		if s.monthlyCapPercent < mandate.MinMonthlyPercent || s.monthlyCapPercent > mandate.MaxMonthlyPercent {
			return fmt.Errorf("monthly risk cap must be between %.2f%% and %.2f%%",
				mandate.MinMonthlyPercent, mandate.MaxMonthlyPercent)
		}
		s.perTradePercent = mandate.RoundPercent(s.perTradePercent)
		s.monthlyCapPercent = mandate.RoundPercent(s.monthlyCapPercent)
		s.step = StepConsent
		s.RefreshPreview(ctx)

	case StepConsent:
		if !s.consentAccepted {
			return fmt.Errorf("the consent document must be accepted to continue")
		}
		s.step = StepActivation

	case StepActivation:
		return fmt.Errorf("use Activate to complete the wizard")

	case StepSuccess:
		return fmt.Errorf("the wizard is already complete")

	default:
		return fmt.Errorf("wizard is in an unknown step")
	}
	return nil
}

// Back moves one step toward the start. State entered on later steps is
// kept so going forward again is cheap.
func (s *Session) Back() {
	if s.step > StepStrategy && s.step < StepSuccess {
		s.step--
	}
}

// Draft assembles the mandate draft from the session state. Risk values are
// converted to canonical basis points here, exactly once.
func (s *Session) Draft() mandate.Draft {
	return mandate.Draft{
		Portfolio: []mandate.PortfolioEntry{{
			StrategyID:   s.selectedStrategy,
			Symbols:      append([]string(nil), s.selectedMarkets...),
			Account:      s.account,
			AdaptiveRisk: s.adaptiveRisk,
		}},
		Risk: mandate.RiskConfig{
			PerStrategy: map[string]mandate.StrategyRisk{
				s.selectedStrategy: {
					RiskPerTradeBps: mandate.PercentToBps(s.perTradePercent),
					MaxPositions:    s.maxPositions,
				},
			},
			OmegaRiskCapBps: mandate.PercentToBps(s.monthlyCapPercent),
		},
	}
}
