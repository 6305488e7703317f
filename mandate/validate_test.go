package mandate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() Draft {
	return Draft{
		Portfolio: []PortfolioEntry{{
			StrategyID: "momentum_surge",
			Symbols:    []string{"EURUSD", "1HZ100V"},
			Account:    BrokerAccountRef{Broker: "deriv", AccountID: "CR123"},
		}},
		Risk: RiskConfig{
			PerStrategy: map[string]StrategyRisk{
				"momentum_surge": {RiskPerTradeBps: 150, MaxPositions: 3},
			},
			OmegaRiskCapBps: 500,
		},
	}
}

func TestDraftValidate(t *testing.T) {
	require.NoError(t, validDraft().Validate())

	t.Run("empty portfolio", func(t *testing.T) {
		d := validDraft()
		d.Portfolio = nil
		assert.Error(t, d.Validate())
	})

	t.Run("missing strategy id", func(t *testing.T) {
		d := validDraft()
		d.Portfolio[0].StrategyID = ""
		assert.Error(t, d.Validate())
	})

	t.Run("no symbols", func(t *testing.T) {
		d := validDraft()
		d.Portfolio[0].Symbols = nil
		assert.Error(t, d.Validate())
	})

	t.Run("incomplete account ref", func(t *testing.T) {
		d := validDraft()
		d.Portfolio[0].Account.AccountID = ""
		assert.Error(t, d.Validate())
	})

	t.Run("missing per-strategy risk", func(t *testing.T) {
		d := validDraft()
		d.Risk.PerStrategy = map[string]StrategyRisk{}
		err := d.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "momentum_surge")
	})

	t.Run("per-trade bps out of range", func(t *testing.T) {
		d := validDraft()
		d.Risk.PerStrategy["momentum_surge"] = StrategyRisk{RiskPerTradeBps: 501, MaxPositions: 3}
		assert.Error(t, d.Validate())
	})

	t.Run("max positions out of range", func(t *testing.T) {
		d := validDraft()
		d.Risk.PerStrategy["momentum_surge"] = StrategyRisk{RiskPerTradeBps: 150, MaxPositions: 11}
		assert.Error(t, d.Validate())
	})

	t.Run("omega cap out of range", func(t *testing.T) {
		d := validDraft()
		d.Risk.OmegaRiskCapBps = 1001
		assert.Error(t, d.Validate())
	})
}

func TestRiskLevelLabel(t *testing.T) {
	assert.Equal(t, "Looking Good!", RiskLow.Label())
	assert.Equal(t, "Balanced Risk", RiskModerate.Label())
	assert.Equal(t, "High Exposure", RiskHigh.Label())
	assert.Equal(t, "Very High Risk!", RiskExtreme.Label())
	assert.Equal(t, "weird", RiskLevel("weird").Label())
}

func TestRiskPreviewFirstWarning(t *testing.T) {
	assert.Equal(t, "", RiskPreview{}.FirstWarning())
	p := RiskPreview{Warnings: []string{"a", "b", "c"}}
	assert.Equal(t, "a", p.FirstWarning())
}
