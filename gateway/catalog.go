package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rustyeddy/mandate/mandate"
)

// Strategies fetches the strategy catalog. The backend has shipped both a
// bare array and a wrapped object over time; both shapes normalize to one
// slice here so nothing downstream cares.
func (c *Client) Strategies(ctx context.Context) ([]mandate.StrategyInfo, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/strategies", nil, &raw); err != nil {
		return nil, err
	}
	return normalizeStrategies(raw)
}

func normalizeStrategies(raw json.RawMessage) ([]mandate.StrategyInfo, error) {
	var wrapped struct {
		Strategies []mandate.StrategyInfo `json:"strategies"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Strategies != nil {
		return wrapped.Strategies, nil
	}

	var bare []mandate.StrategyInfo
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, nil
	}

	return nil, fmt.Errorf("unrecognized strategies response shape")
}

// ConsentDocument fetches the consent text for a jurisdiction. The returned
// record is immutable for the session: its version and hash must be echoed
// back verbatim at activation.
func (c *Client) ConsentDocument(ctx context.Context, jurisdiction string) (mandate.ConsentRecord, error) {
	params := url.Values{}
	if jurisdiction != "" {
		params.Set("jurisdiction", jurisdiction)
	}
	var rec mandate.ConsentRecord
	if err := c.get(ctx, "/api/consent/documents", params, &rec); err != nil {
		return mandate.ConsentRecord{}, err
	}
	return rec, nil
}

// BrokerAccounts returns the user's connected broker accounts.
func (c *Client) BrokerAccounts(ctx context.Context) ([]mandate.BrokerAccount, error) {
	var resp struct {
		Accounts []mandate.BrokerAccount `json:"accounts"`
	}
	if err := c.get(ctx, "/api/broker_accounts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

// DisconnectResult reports the aftermath of removing a broker account.
// RemainingAccounts == 0 means the backend also canceled the user's mandate.
type DisconnectResult struct {
	RemainingAccounts int  `json:"remaining_accounts"`
	MandateCanceled   bool `json:"mandate_canceled"`
}

// DisconnectBrokerAccount removes a broker account from the platform.
func (c *Client) DisconnectBrokerAccount(ctx context.Context, accountID string) (DisconnectResult, error) {
	path := fmt.Sprintf("/api/broker_accounts/%s/disconnect", url.PathEscape(accountID))
	var res DisconnectResult
	if err := c.post(ctx, path, nil, &res); err != nil {
		return DisconnectResult{}, err
	}
	return res, nil
}
