// Package session validates the user's session up front and exposes the
// resulting identity to the rest of the client.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/rustyeddy/mandate/gateway"
)

// ErrNotAuthenticated means there is no valid session; the caller should
// send the user to login rather than continue.
var ErrNotAuthenticated = errors.New("not authenticated")

// Guard holds the verified session for one run. Construct it once at start;
// components read identity and status flags from it instead of re-verifying.
type Guard struct {
	gw     *gateway.Client
	status gateway.SessionStatus
}

// Verify checks the current session against the backend. An invalid or
// expired session returns ErrNotAuthenticated; transport failures pass
// through unchanged.
func Verify(ctx context.Context, gw *gateway.Client) (*Guard, error) {
	status, err := gw.VerifyToken(ctx)
	if err != nil {
		if gateway.IsAuthError(err) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("verify session: %w", err)
	}
	if !status.Valid {
		return nil, ErrNotAuthenticated
	}
	return &Guard{gw: gw, status: status}, nil
}

// User returns the verified identity.
func (g *Guard) User() gateway.User { return g.status.User }

// HasActiveMandate reports the status flag captured at verification time.
func (g *Guard) HasActiveMandate() bool { return g.status.HasActiveMandate }

// HasBrokerAccount reports whether any broker account was connected at
// verification time.
func (g *Guard) HasBrokerAccount() bool { return g.status.HasBrokerAccount }

// RefreshCSRF drops the gateway's cached anti-forgery token so the next
// mutation fetches a fresh one.
func (g *Guard) RefreshCSRF() { g.gw.InvalidateCSRF() }
