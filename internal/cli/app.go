package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/rustyeddy/mandate/config"
	"github.com/rustyeddy/mandate/gateway"
	"github.com/rustyeddy/mandate/session"
	"github.com/rustyeddy/mandate/store"
)

// RootConfig carries the persistent flags shared by every subcommand.
type RootConfig struct {
	ConfigPath   string
	BaseURL      string
	Environment  string
	StorePath    string
	Jurisdiction string
}

// App is the constructed per-run context: config, hint store, and gateway.
// Built once per command invocation, torn down by Close.
type App struct {
	Config  *config.Config
	Hints   *store.Hints
	Gateway *gateway.Client
}

// BuildApp resolves config and wires the gateway. Flag values override the
// config file; the persisted base-URL override sits between them.
func (rc *RootConfig) BuildApp() (*App, error) {
	cfg := config.Default()
	if rc.ConfigPath != "" {
		loaded, err := config.LoadFromFile(rc.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if rc.Environment != "" {
		cfg.Backend.Environment = rc.Environment
	}
	if rc.StorePath != "" {
		cfg.Store.Path = rc.StorePath
	}

	hints, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open hint store: %w", err)
	}

	explicit := rc.BaseURL
	if explicit == "" {
		explicit = cfg.Backend.BaseURL
	}
	baseURL, err := gateway.ResolveBaseURL(explicit, cfg.Backend.Environment, hints)
	if err != nil {
		hints.Close()
		return nil, err
	}

	gw, err := gateway.New(baseURL, cfg.Backend.Timeout.D())
	if err != nil {
		hints.Close()
		return nil, err
	}

	return &App{Config: cfg, Hints: hints, Gateway: gw}, nil
}

func (a *App) Close() {
	if a.Hints != nil {
		a.Hints.Close()
	}
}

// RequireSession verifies the session and translates an auth failure into a
// login prompt.
func (a *App) RequireSession(ctx context.Context) (*session.Guard, error) {
	guard, err := session.Verify(ctx, a.Gateway)
	if errors.Is(err, session.ErrNotAuthenticated) {
		return nil, fmt.Errorf("not logged in — run 'mandate login' first")
	}
	return guard, err
}
