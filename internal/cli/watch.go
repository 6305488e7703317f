package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/mandate/gateway"
	"github.com/rustyeddy/mandate/stream"
)

func newWatchCmd(rc *RootConfig) *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream live balance, position, and activity updates",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rc.BuildApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if recent > 0 {
				return printRecent(app, recent, cmd.OutOrStdout())
			}

			ctx := cmd.Context()
			if _, err := app.RequireSession(ctx); err != nil {
				return err
			}

			policy := stream.ReconnectPolicy{
				MaxAttempts:    app.Config.Stream.MaxAttempts,
				InitialBackoff: app.Config.Stream.InitialBackoff.D(),
				MaxBackoff:     app.Config.Stream.MaxBackoff.D(),
			}
			wsBase := gateway.WSBaseURL(app.Gateway.BaseURL())

			signal := stream.NewChannel("signal", wsBase, stream.SignalPath, app.Gateway, policy)
			activity := stream.NewChannel("activity", wsBase, stream.ActivityPath, app.Gateway, policy)

			out := cmd.OutOrStdout()
			record := func(channel string) stream.Handler {
				return func(data []byte) {
					app.Hints.RecordActivity(channel, data)
					printEvent(out, data)
				}
			}

			errc := make(chan error, 2)
			go func() { errc <- signal.Run(ctx, record("signal")) }()
			go func() { errc <- activity.Run(ctx, record("activity")) }()

			// first channel to stop ends the watch; the other is torn
			// down by ctx when the command returns
			err = <-errc
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().IntVar(&recent, "recent", 0, "Print the last N recorded events instead of streaming")
	return cmd
}

func printRecent(app *App, n int, w io.Writer) error {
	records, err := app.Hints.RecentActivity(n)
	if err != nil {
		return err
	}
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		fmt.Fprintf(w, "%s %-8s ", rec.ReceivedAt.Format("2006-01-02 15:04:05"), rec.Channel)
		printEvent(w, []byte(rec.Payload))
	}
	return nil
}

func printEvent(w io.Writer, data []byte) {
	ev, err := stream.ParseEvent(data)
	if err != nil {
		return // malformed push messages are dropped, not fatal
	}

	switch ev.Type {
	case stream.EventBalance:
		var b stream.BalanceUpdate
		if json.Unmarshal(ev.Payload, &b) == nil {
			fmt.Fprintf(w, "[balance] %s: %.2f %s\n", b.AccountID, b.Balance, b.Currency)
		}
	case stream.EventPosition:
		var p stream.PositionUpdate
		if json.Unmarshal(ev.Payload, &p) == nil {
			fmt.Fprintf(w, "[position] %s %s %s pnl %.2f\n", p.StrategyID, p.Symbol, p.Direction, p.OpenPnL)
		}
	case stream.EventActivity:
		var a stream.ActivityEvent
		if json.Unmarshal(ev.Payload, &a) == nil {
			fmt.Fprintf(w, "[activity] %s\n", a.Message)
		}
	default:
		fmt.Fprintf(w, "[%s] %s\n", ev.Type, string(ev.Payload))
	}
}
