package wizard

import (
	"context"

	"github.com/rustyeddy/mandate/mandate"
)

// RefreshPreview asks the backend for a non-binding risk projection of the
// current draft. The call is advisory only: it needs a strategy and at
// least one market, coerces malformed risk inputs to safe defaults, and
// swallows every failure; the previous preview (or none) simply stays up.
func (s *Session) RefreshPreview(ctx context.Context) {
	if s.selectedStrategy == "" || len(s.selectedMarkets) == 0 {
		return
	}

	draft := s.Draft()
	risk := draft.Risk.PerStrategy[s.selectedStrategy]
	if risk.RiskPerTradeBps < mandate.MinPerTradeBps || risk.RiskPerTradeBps > mandate.MaxPerTradeBps {
		risk.RiskPerTradeBps = mandate.PercentToBps(defaultPerTradePct)
	}
	if risk.MaxPositions < 1 || risk.MaxPositions > 10 {
		risk.MaxPositions = defaultMaxPositions
	}
	draft.Risk.PerStrategy[s.selectedStrategy] = risk
	if draft.Risk.OmegaRiskCapBps < mandate.MinMonthlyBps || draft.Risk.OmegaRiskCapBps > mandate.MaxMonthlyBps {
		draft.Risk.OmegaRiskCapBps = mandate.MaxMonthlyBps
	}

	epoch := s.epoch
	preview, err := s.backend.CalculateRiskImplications(ctx, draft)
	if err != nil {
		return
	}
	// The session may have been abandoned while the call was in flight.
	if epoch != s.epoch || s.abandoned {
		return
	}
	s.preview = &preview
}
