package views

import (
	"context"
	"fmt"
	"io"
)

// RevokeConfirmation is the literal text the user must type before a
// mandate is revoked. Revocation stops trading and cannot be undone; the
// friction is deliberate.
const RevokeConfirmation = "CANCEL"

// RevokeBackend is the gateway slice revocation needs.
type RevokeBackend interface {
	RevokeMandate(ctx context.Context, mandateID string) error
}

// Revoke runs the two-stage revocation: a yes/no confirmation, then the
// typed literal. Anything other than an exact match aborts without the
// revoke endpoint ever being called.
func Revoke(ctx context.Context, backend RevokeBackend, mandateID string, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Revoking mandate %s stops all trading immediately and cannot be undone.\n", mandateID)
	fmt.Fprintf(out, "Type %s to confirm: ", RevokeConfirmation)

	typed, err := readLine(in)
	if err != nil {
		return fmt.Errorf("read confirmation: %w", err)
	}
	if typed != RevokeConfirmation {
		fmt.Fprintln(out, "Confirmation text did not match. Mandate left untouched.")
		return nil
	}

	if err := backend.RevokeMandate(ctx, mandateID); err != nil {
		return fmt.Errorf("revoke mandate: %w", err)
	}

	fmt.Fprintln(out, "Mandate revoked. Trading has stopped.")
	return nil
}
