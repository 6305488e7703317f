package stream

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

// Paths of the two push channels.
const (
	SignalPath   = "/ws/signal"
	ActivityPath = "/activity-ws"
)

// TokenSource supplies the short-lived auth token a channel dials with.
// The gateway client satisfies this.
type TokenSource interface {
	WSToken(ctx context.Context) (string, error)
}

// Handler receives each raw message from a channel.
type Handler func(data []byte)

// Channel is one long-lived push connection with reconnection handled by
// the shared policy.
type Channel struct {
	Name   string // for log lines
	URL    string // ws(s) URL without the token query param
	Tokens TokenSource
	Policy ReconnectPolicy

	dialer *websocket.Dialer
}

// NewChannel builds a channel for a ws base URL ("wss://host") and path.
func NewChannel(name, wsBase, path string, tokens TokenSource, policy ReconnectPolicy) *Channel {
	return &Channel{
		Name:   name,
		URL:    wsBase + path,
		Tokens: tokens,
		Policy: policy,
		dialer: &websocket.Dialer{HandshakeTimeout: 15 * time.Second},
	}
}

// Run connects and pumps messages to handle until the server closes
// normally (returns nil), ctx is cancelled (returns ctx.Err()), or the
// reconnect budget runs out (returns the last error). Each successful
// connection resets the attempt counter.
func (ch *Channel) Run(ctx context.Context, handle Handler) error {
	attempt := 0
	var lastErr error

	for {
		if ch.Policy.Exhausted(attempt) {
			return fmt.Errorf("%s: reconnect attempts exhausted: %w", ch.Name, lastErr)
		}
		if attempt > 0 {
			delay := ch.Policy.Backoff(attempt - 1)
			log.Printf("[WARN] %s: reconnecting in %s (attempt %d/%d)", ch.Name, delay, attempt, ch.Policy.MaxAttempts)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		connected, normal, err := ch.runOnce(ctx, handle)
		if normal {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if connected {
			// a healthy connection restores the full reconnect budget
			attempt = 0
		}
		lastErr = err
		attempt++
	}
}

// runOnce dials, reads until the connection drops, and reports whether the
// dial succeeded and whether the closure was a normal one.
func (ch *Channel) runOnce(ctx context.Context, handle Handler) (connected, normal bool, err error) {
	token, err := ch.Tokens.WSToken(ctx)
	if err != nil {
		return false, false, fmt.Errorf("fetch ws token: %w", err)
	}

	u := ch.URL + "?token=" + url.QueryEscape(token)
	conn, resp, err := ch.dialer.DialContext(ctx, u, nil)
	if err != nil {
		if resp != nil {
			return false, false, fmt.Errorf("dial %s: http %d: %w", ch.Name, resp.StatusCode, err)
		}
		return false, false, fmt.Errorf("dial %s: %w", ch.Name, err)
	}
	defer conn.Close()

	// Tear the read loop down when ctx goes away.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return true, true, nil
			}
			return true, false, fmt.Errorf("read %s: %w", ch.Name, err)
		}
		handle(data)
	}
}
