package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rustyeddy/mandate/mandate"
)

// DraftVerdict is the backend's non-mutating judgement of a draft.
type DraftVerdict struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// FirstProblem returns the first error, then the first warning, for the
// single-message surfacing the activation flow uses.
func (v DraftVerdict) FirstProblem() string {
	if len(v.Errors) > 0 {
		return v.Errors[0]
	}
	if len(v.Warnings) > 0 {
		return v.Warnings[0]
	}
	return ""
}

// ValidateDraft runs a draft past the backend without issuing anything.
// Side-effect-free and safe to repeat.
func (c *Client) ValidateDraft(ctx context.Context, draft mandate.Draft) (DraftVerdict, error) {
	var verdict DraftVerdict
	if err := c.post(ctx, "/api/mandates/draft", draft, &verdict); err != nil {
		return DraftVerdict{}, err
	}
	return verdict, nil
}

// IssueRequest carries the draft plus proof of which consent document the
// user saw. Version and hash must match what was captured at load time.
type IssueRequest struct {
	Draft          mandate.Draft `json:"draft"`
	ConsentVersion string        `json:"consent_version"`
	ConsentHash    string        `json:"consent_hash"`
	Jurisdiction   string        `json:"jurisdiction"`
}

// IssueMandate issues a mandate from a validated draft.
func (c *Client) IssueMandate(ctx context.Context, req IssueRequest) (mandate.Active, error) {
	var issued mandate.Active
	if err := c.post(ctx, "/api/mandates", req, &issued); err != nil {
		return mandate.Active{}, err
	}
	return issued, nil
}

// UpdateMandate creates a new version of an existing mandate.
func (c *Client) UpdateMandate(ctx context.Context, mandateID string, draft mandate.Draft) (mandate.Active, error) {
	var updated mandate.Active
	path := fmt.Sprintf("/api/mandates/%s/update", url.PathEscape(mandateID))
	if err := c.post(ctx, path, draft, &updated); err != nil {
		return mandate.Active{}, err
	}
	return updated, nil
}

// RevokeMandate stops trading under a mandate. Irreversible; callers gate
// this behind the typed confirmation.
func (c *Client) RevokeMandate(ctx context.Context, mandateID string) error {
	path := fmt.Sprintf("/api/mandates/%s/revoke", url.PathEscape(mandateID))
	return c.post(ctx, path, nil, nil)
}

// ActiveMandate returns the current mandate, or ok=false when none exists.
func (c *Client) ActiveMandate(ctx context.Context) (mandate.Active, bool, error) {
	var resp struct {
		Mandate *mandate.Active `json:"mandate"`
	}
	if err := c.get(ctx, "/api/mandates/active", nil, &resp); err != nil {
		return mandate.Active{}, false, err
	}
	if resp.Mandate == nil {
		return mandate.Active{}, false, nil
	}
	return *resp.Mandate, true, nil
}

// MandateHistory lists prior mandate versions, newest first.
func (c *Client) MandateHistory(ctx context.Context) ([]mandate.Active, error) {
	var resp struct {
		Mandates []mandate.Active `json:"mandates"`
	}
	if err := c.get(ctx, "/api/mandates/history", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Mandates, nil
}

// CalculateRiskImplications requests the advisory projection for a draft.
// Purely advisory: callers are expected to swallow failures.
func (c *Client) CalculateRiskImplications(ctx context.Context, draft mandate.Draft) (mandate.RiskPreview, error) {
	var preview mandate.RiskPreview
	if err := c.post(ctx, "/api/mandates/calculate-risk-implications", draft, &preview); err != nil {
		return mandate.RiskPreview{}, err
	}
	return preview, nil
}

// DecisionQuery filters the decision/report history.
type DecisionQuery struct {
	StrategyID string
	Symbol     string
	Limit      int
}

// QueryDecisions returns decision/report history rows matching the query.
func (c *Client) QueryDecisions(ctx context.Context, q DecisionQuery) ([]mandate.DecisionRecord, error) {
	params := url.Values{}
	if q.StrategyID != "" {
		params.Set("strategy_id", q.StrategyID)
	}
	if q.Symbol != "" {
		params.Set("symbol", q.Symbol)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	var resp struct {
		Decisions []mandate.DecisionRecord `json:"decisions"`
	}
	if err := c.get(ctx, "/api/decisions/query", params, &resp); err != nil {
		return nil, err
	}
	return resp.Decisions, nil
}
