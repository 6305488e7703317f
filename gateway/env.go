package gateway

import (
	"fmt"
	"strings"
)

const (
	// LocalURL is the local development backend.
	LocalURL = "http://localhost:8001"
	// ProductionURL is the fixed production backend host.
	ProductionURL = "https://api.omegamandate.com"
)

// OverrideStore is the persisted base-URL override, usually the hint store.
type OverrideStore interface {
	Get(key string) (string, bool, error)
}

// The hint key the persisted override lives under.
const OverrideKey = "base_url_override"

// ResolveBaseURL picks the backend base URL, resolved once per run.
// Precedence: explicit override, persisted override, named environment.
func ResolveBaseURL(explicit, environment string, overrides OverrideStore) (string, error) {
	if explicit != "" {
		return strings.TrimRight(explicit, "/"), nil
	}

	if overrides != nil {
		v, ok, err := overrides.Get(OverrideKey)
		if err != nil {
			return "", fmt.Errorf("read persisted base URL override: %w", err)
		}
		if ok && v != "" {
			return strings.TrimRight(v, "/"), nil
		}
	}

	switch strings.ToLower(strings.TrimSpace(environment)) {
	case "local", "dev":
		return LocalURL, nil
	case "production", "prod", "":
		return ProductionURL, nil
	default:
		return "", fmt.Errorf("unknown environment %q (want local|production)", environment)
	}
}

// WSBaseURL derives the WebSocket origin from an HTTP base URL.
func WSBaseURL(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	default:
		return baseURL
	}
}
