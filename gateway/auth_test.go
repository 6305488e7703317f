package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginDropsCachedCSRF(t *testing.T) {
	fetches := 0
	mux := csrfAwareMux(t, &fetches)
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u@example.com", body.Email)
		json.NewEncoder(w).Encode(map[string]any{"user": User{ID: "u1", Email: body.Email}})
	})
	mux.HandleFunc("/api/logout", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	c := newTestClient(t, mux)
	ctx := context.Background()

	user, err := c.Login(ctx, "u@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, 1, fetches)

	// the pre-login token was invalidated, so the next mutation re-fetches
	require.NoError(t, c.Logout(ctx))
	assert.Equal(t, 2, fetches)
}

func TestFetchOAuthConfig(t *testing.T) {
	mux := csrfAwareMux(t, nil)
	mux.HandleFunc("/api/oauth_config", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(OAuthConfig{
			AuthorizeURL: "https://broker.example/authorize",
			ClientID:     "client-1",
			RedirectURI:  "https://app.example/callback",
			Scopes:       []string{"read", "trade"},
		})
	})

	c := newTestClient(t, mux)
	cfg, err := c.FetchOAuthConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://broker.example/authorize", cfg.AuthorizeURL)
	assert.Equal(t, []string{"read", "trade"}, cfg.Scopes)
}

func TestGenerateOAuthState(t *testing.T) {
	mux := csrfAwareMux(t, nil)
	mux.HandleFunc("/api/generate_oauth_state", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		json.NewEncoder(w).Encode(map[string]string{"state": "state-xyz"})
	})

	c := newTestClient(t, mux)
	state, err := c.GenerateOAuthState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "state-xyz", state)
}
