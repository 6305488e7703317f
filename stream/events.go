package stream

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event is the envelope every push message arrives in.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Event types seen on the channels.
const (
	EventBalance  = "balance"
	EventPosition = "position"
	EventActivity = "activity"
)

// BalanceUpdate reports a broker account balance change.
type BalanceUpdate struct {
	AccountID string  `json:"account_id"`
	Balance   float64 `json:"balance"`
	Currency  string  `json:"currency"`
}

// PositionUpdate reports an open-position change under the mandate.
type PositionUpdate struct {
	StrategyID string  `json:"strategy_id"`
	Symbol     string  `json:"symbol"`
	Direction  string  `json:"direction"`
	OpenPnL    float64 `json:"open_pnl"`
}

// ActivityEvent is a human-readable activity line.
type ActivityEvent struct {
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// ParseEvent decodes a raw channel message into its envelope.
func ParseEvent(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("parse event: %w", err)
	}
	if ev.Type == "" {
		return Event{}, fmt.Errorf("parse event: missing type")
	}
	return ev, nil
}
