// Package wizard drives the mandate onboarding flow: a six-step state
// machine that assembles a draft, previews its risk, and runs the
// validate-then-issue protocol against the backend.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rustyeddy/mandate/gateway"
	"github.com/rustyeddy/mandate/mandate"
)

// Step is a wizard position. Transitions only ever move one step at a time
// and every forward move is gated.
type Step int

const (
	StepStrategy Step = iota + 1
	StepMarkets
	StepRisk
	StepConsent
	StepActivation
	StepSuccess
)

func (s Step) String() string {
	switch s {
	case StepStrategy:
		return "strategy"
	case StepMarkets:
		return "markets"
	case StepRisk:
		return "risk"
	case StepConsent:
		return "consent"
	case StepActivation:
		return "activation"
	case StepSuccess:
		return "success"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Backend is the slice of the gateway the wizard uses.
type Backend interface {
	ActiveMandate(ctx context.Context) (mandate.Active, bool, error)
	Strategies(ctx context.Context) ([]mandate.StrategyInfo, error)
	BrokerAccounts(ctx context.Context) ([]mandate.BrokerAccount, error)
	ConsentDocument(ctx context.Context, jurisdiction string) (mandate.ConsentRecord, error)
	ValidateDraft(ctx context.Context, draft mandate.Draft) (gateway.DraftVerdict, error)
	IssueMandate(ctx context.Context, req gateway.IssueRequest) (mandate.Active, error)
	CalculateRiskImplications(ctx context.Context, draft mandate.Draft) (mandate.RiskPreview, error)
}

// ErrAlreadyActive means the user already has an active mandate; the caller
// should show the dashboard instead of the wizard.
var ErrAlreadyActive = errors.New("an active mandate already exists")

// ErrNoBrokerAccount means onboarding cannot start: there is no connected
// broker account to bind the portfolio to.
var ErrNoBrokerAccount = errors.New("no connected broker account")

// Session is one onboarding run. It is single-owner: one session per
// invocation, never shared, discarded after success or abandonment.
type Session struct {
	id      string
	backend Backend

	step     Step
	catalog  []mandate.StrategyInfo
	accounts []mandate.BrokerAccount
	consent  mandate.ConsentRecord

	selectedStrategy string
	selectedMarkets  []string
	account          mandate.BrokerAccountRef

	perTradePercent   float64
	monthlyCapPercent float64
	maxPositions      int
	adaptiveRisk      bool

	consentAccepted bool

	preview *mandate.RiskPreview
	issued  *mandate.Active

	overlay string // error overlay text; empty when hidden

	epoch     int // bumped on abandonment; stale async results are dropped
	abandoned bool
	activate  bool // activation in flight, the button is disabled
}

// New starts a wizard session: it checks for an existing active mandate
// (short-circuiting if one exists), loads the catalog and broker accounts,
// and captures the consent document whose version and hash will travel
// unchanged to activation. The check happens once here, not per step.
func New(ctx context.Context, backend Backend, jurisdiction string) (*Session, error) {
	if active, ok, err := backend.ActiveMandate(ctx); err != nil {
		return nil, fmt.Errorf("check active mandate: %w", err)
	} else if ok && active.Status == mandate.StatusActive {
		return nil, ErrAlreadyActive
	}

	catalog, err := backend.Strategies(ctx)
	if err != nil {
		return nil, fmt.Errorf("load strategy catalog: %w", err)
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("strategy catalog is empty")
	}

	accounts, err := backend.BrokerAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load broker accounts: %w", err)
	}
	var ref mandate.BrokerAccountRef
	for _, a := range accounts {
		if a.Status == mandate.AccountConnected {
			ref = mandate.BrokerAccountRef{Broker: a.Broker, AccountID: a.AccountID}
			break
		}
	}
	if ref.AccountID == "" {
		return nil, ErrNoBrokerAccount
	}

	consent, err := backend.ConsentDocument(ctx, jurisdiction)
	if err != nil {
		return nil, fmt.Errorf("load consent document: %w", err)
	}

	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return &Session{
		id:           ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String(),
		backend:      backend,
		step:         StepStrategy,
		catalog:      catalog,
		accounts:     accounts,
		consent:      consent,
		account:      ref,
		maxPositions: defaultMaxPositions,
	}, nil
}

// ID is the session's ULID, used only for log correlation.
func (s *Session) ID() string { return s.id }

// Step returns the current wizard position.
func (s *Session) Step() Step { return s.step }

// Catalog returns the strategies fetched at entry.
func (s *Session) Catalog() []mandate.StrategyInfo { return s.catalog }

// Consent returns the document captured at session start.
func (s *Session) Consent() mandate.ConsentRecord { return s.consent }

// Preview returns the latest advisory projection, or nil when none has
// arrived yet.
func (s *Session) Preview() *mandate.RiskPreview { return s.preview }

// Issued returns the mandate created on success, nil before then.
func (s *Session) Issued() *mandate.Active { return s.issued }

// Overlay returns the current error overlay text, empty when hidden.
func (s *Session) Overlay() string { return s.overlay }

// DismissOverlay hides the error overlay. The underlying step never moved,
// so dismissal simply returns the user where they were.
func (s *Session) DismissOverlay() { s.overlay = "" }

// Abandon marks the session dead. Any in-flight async result that lands
// afterwards is dropped by the epoch check.
func (s *Session) Abandon() {
	s.abandoned = true
	s.epoch++
}
