package wizard

import (
	"context"
	"fmt"

	"github.com/rustyeddy/mandate/gateway"
)

// Activate runs the validate-then-issue protocol. Two independent calls
// with no client-side transaction: a crash between them issues nothing, and
// a retry just re-validates before attempting issuance again. On any
// failure the step stays at Activation with the error overlay set, and the
// protocol can be retried.
func (s *Session) Activate(ctx context.Context) error {
	if s.step != StepActivation {
		return fmt.Errorf("activation is only available at the activation step")
	}
	if s.activate {
		return fmt.Errorf("activation already in progress")
	}
	s.activate = true
	defer func() { s.activate = false }()

	draft := s.Draft()

	// Local invariants first: a structurally broken draft never reaches
	// the backend at all.
	if err := draft.Validate(); err != nil {
		s.overlay = err.Error()
		return err
	}

	verdict, err := s.backend.ValidateDraft(ctx, draft)
	if err != nil {
		s.overlay = "could not validate the mandate draft, please retry"
		return fmt.Errorf("validate draft: %w", err)
	}
	if !verdict.Valid {
		msg := verdict.FirstProblem()
		if msg == "" {
			msg = "the mandate draft was rejected"
		}
		s.overlay = msg
		return fmt.Errorf("draft rejected: %s", msg)
	}

	// The consent version and hash captured at session start travel
	// unchanged, even if the document has since changed server-side. The
	// backend judges acceptance validity, not the client.
	issued, err := s.backend.IssueMandate(ctx, s.issueRequest())
	if err != nil {
		s.overlay = "could not issue the mandate, please retry"
		return fmt.Errorf("issue mandate: %w", err)
	}

	s.issued = &issued
	s.overlay = ""
	s.step = StepSuccess
	return nil
}

func (s *Session) issueRequest() gateway.IssueRequest {
	return gateway.IssueRequest{
		Draft:          s.Draft(),
		ConsentVersion: s.consent.Version,
		ConsentHash:    s.consent.ContentHash,
		Jurisdiction:   s.consent.Jurisdiction,
	}
}
