package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/mandate/mandate"
)

func sampleDraft() mandate.Draft {
	return mandate.Draft{
		Portfolio: []mandate.PortfolioEntry{{
			StrategyID: "momentum_surge",
			Symbols:    []string{"EURUSD", "1HZ100V"},
			Account:    mandate.BrokerAccountRef{Broker: "deriv", AccountID: "CR1"},
		}},
		Risk: mandate.RiskConfig{
			PerStrategy: map[string]mandate.StrategyRisk{
				"momentum_surge": {RiskPerTradeBps: 150, MaxPositions: 3},
			},
			OmegaRiskCapBps: 500,
		},
	}
}

func TestValidateDraft(t *testing.T) {
	var received mandate.Draft
	mux := csrfAwareMux(t, nil)
	mux.HandleFunc("/api/mandates/draft", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(DraftVerdict{Valid: true})
	})

	c := newTestClient(t, mux)
	verdict, err := c.ValidateDraft(context.Background(), sampleDraft())
	require.NoError(t, err)
	assert.True(t, verdict.Valid)
	assert.Equal(t, 150, received.Risk.PerStrategy["momentum_surge"].RiskPerTradeBps)
	assert.Equal(t, 500, received.Risk.OmegaRiskCapBps)
}

func TestDraftVerdictFirstProblem(t *testing.T) {
	assert.Equal(t, "", DraftVerdict{}.FirstProblem())
	assert.Equal(t, "w1", DraftVerdict{Warnings: []string{"w1", "w2"}}.FirstProblem())
	assert.Equal(t, "e1", DraftVerdict{
		Errors:   []string{"e1"},
		Warnings: []string{"w1"},
	}.FirstProblem())
}

func TestIssueMandate(t *testing.T) {
	var received IssueRequest
	mux := csrfAwareMux(t, nil)
	mux.HandleFunc("/api/mandates", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(mandate.Active{
			MandateID: "m-1",
			Version:   1,
			Status:    mandate.StatusActive,
			IssuedAt:  time.Now().UTC(),
		})
	})

	c := newTestClient(t, mux)
	issued, err := c.IssueMandate(context.Background(), IssueRequest{
		Draft:          sampleDraft(),
		ConsentVersion: "v3",
		ConsentHash:    "abc123",
		Jurisdiction:   "EU",
	})
	require.NoError(t, err)
	assert.Equal(t, "m-1", issued.MandateID)
	assert.Equal(t, "v3", received.ConsentVersion)
	assert.Equal(t, "abc123", received.ConsentHash)
}

func TestUpdateMandate(t *testing.T) {
	var received mandate.Draft
	mux := csrfAwareMux(t, nil)
	mux.HandleFunc("/api/mandates/m-1/update", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(mandate.Active{MandateID: "m-1", Version: 2, Status: mandate.StatusActive})
	})

	c := newTestClient(t, mux)
	updated, err := c.UpdateMandate(context.Background(), "m-1", sampleDraft())
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, 500, received.Risk.OmegaRiskCapBps)
}

func TestMandateHistory(t *testing.T) {
	mux := csrfAwareMux(t, nil)
	mux.HandleFunc("/api/mandates/history", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"mandates": [{"mandate_id": "m-1", "version": 2}, {"mandate_id": "m-1", "version": 1}]}`))
	})

	c := newTestClient(t, mux)
	history, err := c.MandateHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2, history[0].Version)
}

func TestActiveMandate(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		mux := csrfAwareMux(t, nil)
		mux.HandleFunc("/api/mandates/active", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"mandate": {"mandate_id": "m-9", "version": 2, "status": "paused"}}`))
		})

		c := newTestClient(t, mux)
		m, ok, err := c.ActiveMandate(context.Background())
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "m-9", m.MandateID)
		assert.Equal(t, mandate.StatusPaused, m.Status)
	})

	t.Run("absent", func(t *testing.T) {
		mux := csrfAwareMux(t, nil)
		mux.HandleFunc("/api/mandates/active", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"mandate": null}`))
		})

		c := newTestClient(t, mux)
		_, ok, err := c.ActiveMandate(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestRevokeMandate_PathEscaping(t *testing.T) {
	called := false
	mux := csrfAwareMux(t, nil)
	mux.HandleFunc("/api/mandates/m-1/revoke", func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte(`{}`))
	})

	c := newTestClient(t, mux)
	require.NoError(t, c.RevokeMandate(context.Background(), "m-1"))
	assert.True(t, called)
}

func TestCalculateRiskImplications(t *testing.T) {
	mux := csrfAwareMux(t, nil)
	mux.HandleFunc("/api/mandates/calculate-risk-implications", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(mandate.RiskPreview{
			Level: mandate.RiskModerate,
			Summary: mandate.RiskPreviewSummary{
				WorstCaseRiskPercent:   4.5,
				TotalExpectedPositions: 3,
			},
			Warnings: []string{"first", "second"},
		})
	})

	c := newTestClient(t, mux)
	preview, err := c.CalculateRiskImplications(context.Background(), sampleDraft())
	require.NoError(t, err)
	assert.Equal(t, mandate.RiskModerate, preview.Level)
	assert.Equal(t, "first", preview.FirstWarning())
}

func TestQueryDecisions(t *testing.T) {
	mux := csrfAwareMux(t, nil)
	mux.HandleFunc("/api/decisions/query", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "momentum_surge", r.URL.Query().Get("strategy_id"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"decisions": [{"id": "d1", "action": "open", "symbol": "EURUSD"}]}`))
	})

	c := newTestClient(t, mux)
	recs, err := c.QueryDecisions(context.Background(), DecisionQuery{
		StrategyID: "momentum_surge",
		Limit:      50,
	})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "d1", recs[0].ID)
}

func TestNormalizeStrategies(t *testing.T) {
	t.Run("wrapped object", func(t *testing.T) {
		got, err := normalizeStrategies([]byte(`{"strategies": [{"id": "s1"}]}`))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "s1", got[0].ID)
	})

	t.Run("bare array", func(t *testing.T) {
		got, err := normalizeStrategies([]byte(`[{"id": "s2"}]`))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "s2", got[0].ID)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := normalizeStrategies([]byte(`42`))
		assert.Error(t, err)
	})
}

func TestDisconnectBrokerAccount(t *testing.T) {
	mux := csrfAwareMux(t, nil)
	mux.HandleFunc("/api/broker_accounts/acc-1/disconnect", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(DisconnectResult{RemainingAccounts: 0, MandateCanceled: true})
	})

	c := newTestClient(t, mux)
	res, err := c.DisconnectBrokerAccount(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, 0, res.RemainingAccounts)
	assert.True(t, res.MandateCanceled)
}
