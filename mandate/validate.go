package mandate

import "fmt"

// Validate checks the structural invariants the backend will also enforce.
// Running it locally keeps an invalid draft from ever reaching the issue
// endpoint.
func (d Draft) Validate() error {
	if len(d.Portfolio) == 0 {
		return fmt.Errorf("draft has no portfolio entries")
	}
	for i, e := range d.Portfolio {
		if e.StrategyID == "" {
			return fmt.Errorf("portfolio[%d]: strategy_id is required", i)
		}
		if len(e.Symbols) == 0 {
			return fmt.Errorf("portfolio[%d]: at least one symbol is required", i)
		}
		if e.Account.Broker == "" || e.Account.AccountID == "" {
			return fmt.Errorf("portfolio[%d]: broker account reference is incomplete", i)
		}
		// Every referenced strategy must carry risk limits.
		r, ok := d.Risk.PerStrategy[e.StrategyID]
		if !ok {
			return fmt.Errorf("risk.per_strategy missing entry for %q", e.StrategyID)
		}
		if r.RiskPerTradeBps < MinPerTradeBps || r.RiskPerTradeBps > MaxPerTradeBps {
			return fmt.Errorf("risk.per_strategy[%q].risk_per_trade_bps %d out of range [%d,%d]",
				e.StrategyID, r.RiskPerTradeBps, MinPerTradeBps, MaxPerTradeBps)
		}
		if r.MaxPositions < 1 || r.MaxPositions > 10 {
			return fmt.Errorf("risk.per_strategy[%q].max_positions %d out of range [1,10]",
				e.StrategyID, r.MaxPositions)
		}
	}
	if d.Risk.OmegaRiskCapBps < MinMonthlyBps || d.Risk.OmegaRiskCapBps > MaxMonthlyBps {
		return fmt.Errorf("risk.omega_risk_cap_bps %d out of range [%d,%d]",
			d.Risk.OmegaRiskCapBps, MinMonthlyBps, MaxMonthlyBps)
	}
	return nil
}
