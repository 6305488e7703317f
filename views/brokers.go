package views

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rustyeddy/mandate/gateway"
	"github.com/rustyeddy/mandate/mandate"
)

// BrokerBackend is the gateway slice the broker view uses.
type BrokerBackend interface {
	BrokerAccounts(ctx context.Context) ([]mandate.BrokerAccount, error)
	DisconnectBrokerAccount(ctx context.Context, accountID string) (gateway.DisconnectResult, error)
}

// Brokers lists connected broker accounts and handles disconnection.
type Brokers struct {
	backend  BrokerBackend
	accounts []mandate.BrokerAccount
}

func NewBrokers(backend BrokerBackend) *Brokers {
	return &Brokers{backend: backend}
}

func (b *Brokers) Load(ctx context.Context) error {
	accounts, err := b.backend.BrokerAccounts(ctx)
	if err != nil {
		return fmt.Errorf("load broker accounts: %w", err)
	}
	b.accounts = accounts
	return nil
}

func (b *Brokers) Render(w io.Writer) {
	if len(b.accounts) == 0 {
		fmt.Fprintln(w, "No broker accounts connected.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBROKER\tACCOUNT\tSTATUS\tBALANCE\tSTRATEGIES")
	for _, a := range b.accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f %s\t%s\n",
			a.ID, a.Broker, a.AccountID, a.Status, a.Balance, a.Currency,
			strings.Join(a.AssignedStrategies, ","))
	}
	tw.Flush()
}

// Disconnect removes a broker account after an explicit confirmation read
// from in. Declining leaves the backend untouched. After the call, the view
// reloads and reports whether the backend canceled the mandate because the
// last account is gone.
func (b *Brokers) Disconnect(ctx context.Context, accountID string, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Disconnect broker account %s? [y/N]: ", accountID)
	answer, err := readLine(in)
	if err != nil {
		return fmt.Errorf("read confirmation: %w", err)
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(out, "Disconnect canceled.")
		return nil
	}

	res, err := b.backend.DisconnectBrokerAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("disconnect account: %w", err)
	}

	if res.RemainingAccounts == 0 {
		fmt.Fprintln(out, "Account disconnected. This was your last broker account: your mandate was canceled as a consequence.")
	} else {
		fmt.Fprintf(out, "Account disconnected. %d account(s) remain.\n", res.RemainingAccounts)
	}

	// full re-render after the mutation
	if err := b.Load(ctx); err != nil {
		return err
	}
	b.Render(out)
	return nil
}

func readLine(in io.Reader) (string, error) {
	r := bufio.NewReader(in)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
