package mandate

import "time"

// Status is the lifecycle state of an issued mandate. The backend owns the
// transitions; the client only ever reads these.
type Status string

const (
	StatusActive  Status = "active"
	StatusPaused  Status = "paused"
	StatusRevoked Status = "revoked"
)

// BrokerAccountRef identifies a broker account inside a portfolio entry.
type BrokerAccountRef struct {
	Broker    string `json:"broker"`
	AccountID string `json:"account_id"`
}

// PortfolioEntry binds one strategy to a symbol set on one broker account.
type PortfolioEntry struct {
	StrategyID   string           `json:"strategy_id"`
	Symbols      []string         `json:"symbols"`
	Account      BrokerAccountRef `json:"broker_account_ref"`
	AdaptiveRisk bool             `json:"adaptive_risk"`
}

// StrategyRisk holds the per-strategy risk limits in canonical units.
// Basis points throughout; percent exists only at the UI boundary.
type StrategyRisk struct {
	RiskPerTradeBps int `json:"risk_per_trade_bps"`
	MaxPositions    int `json:"max_positions"`
}

// RiskConfig is the risk section of a draft or issued mandate.
type RiskConfig struct {
	PerStrategy     map[string]StrategyRisk `json:"per_strategy"`
	OmegaRiskCapBps int                     `json:"omega_risk_cap_bps"`
}

// Draft is an unissued, client-assembled candidate mandate. It is created
// fresh per wizard session and discarded on navigation away or activation.
type Draft struct {
	Portfolio []PortfolioEntry `json:"portfolio"`
	Risk      RiskConfig       `json:"risk"`
}

// Active is the read-only projection of an issued mandate. The backend owns
// it; the client holds a possibly-stale copy refreshed on demand.
type Active struct {
	MandateID  string           `json:"mandate_id"`
	Version    int              `json:"version"`
	Portfolio  []PortfolioEntry `json:"portfolio"`
	Risk       RiskConfig       `json:"risk"`
	IssuedAt   time.Time        `json:"issued_at"`
	ModifiedAt time.Time        `json:"modified_at"`
	Status     Status           `json:"status"`
}

// ConsentRecord is the legal consent document shown during onboarding.
// Version and hash must be echoed back verbatim at activation so the backend
// can verify which exact text was agreed to.
type ConsentRecord struct {
	Version      string `json:"version"`
	ContentHash  string `json:"content_hash"`
	Jurisdiction string `json:"jurisdiction"`
	Text         string `json:"text"`
}

// RiskLevel is the qualitative tier returned by the advisory projection.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskExtreme  RiskLevel = "extreme"
)

// Label returns the fixed user-facing label for a risk tier. Unknown tiers
// fall back to the raw value so a new backend tier still renders.
func (l RiskLevel) Label() string {
	switch l {
	case RiskLow:
		return "Looking Good!"
	case RiskModerate:
		return "Balanced Risk"
	case RiskHigh:
		return "High Exposure"
	case RiskExtreme:
		return "Very High Risk!"
	default:
		return string(l)
	}
}

// RiskPreview is a non-binding projection for an in-progress draft. It is
// recomputed on every material draft change and never cached across edits.
type RiskPreview struct {
	Level    RiskLevel          `json:"risk_level"`
	Summary  RiskPreviewSummary `json:"summary"`
	Warnings []string           `json:"warnings"`
}

type RiskPreviewSummary struct {
	WorstCaseRiskPercent   float64 `json:"worst_case_risk_percent"`
	TotalExpectedPositions int     `json:"total_expected_positions"`
}

// FirstWarning returns the single warning the UI is allowed to surface.
func (p RiskPreview) FirstWarning() string {
	if len(p.Warnings) == 0 {
		return ""
	}
	return p.Warnings[0]
}

// AccountStatus is the connection state of a broker account.
type AccountStatus string

const (
	AccountConnected    AccountStatus = "connected"
	AccountDisconnected AccountStatus = "disconnected"
)

// BrokerAccount is a refreshable snapshot of a connected broker account.
type BrokerAccount struct {
	ID                 string        `json:"id"`
	Broker             string        `json:"broker"`
	AccountID          string        `json:"account_id"`
	Status             AccountStatus `json:"status"`
	Balance            float64       `json:"balance"`
	Currency           string        `json:"currency"`
	AssignedStrategies []string      `json:"assigned_strategies"`
}

// StrategyInfo is one catalog entry. UserCount is best-effort enrichment and
// may be zero when the count lookup fails.
type StrategyInfo struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	CompatibleSymbols []string `json:"compatible_symbols"`
	DefaultSymbols    []string `json:"default_symbols"`
	UserCount         int      `json:"user_count"`
}

// DecisionRecord is one row of the backend's decision/report history.
type DecisionRecord struct {
	ID         string    `json:"id"`
	StrategyID string    `json:"strategy_id"`
	Symbol     string    `json:"symbol"`
	Action     string    `json:"action"`
	Reason     string    `json:"reason"`
	DecidedAt  time.Time `json:"decided_at"`
}
