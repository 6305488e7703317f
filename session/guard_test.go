package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/mandate/gateway"
)

func guardClient(t *testing.T, verify http.HandlerFunc) *gateway.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/csrf_token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"csrf_token": "tok"})
	})
	mux.HandleFunc("/api/verify_token", verify)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	c, err := gateway.New(server.URL, 5*time.Second)
	require.NoError(t, err)
	return c
}

func TestVerify_ValidSession(t *testing.T) {
	c := guardClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(gateway.SessionStatus{
			Valid:            true,
			User:             gateway.User{ID: "u1", Email: "u@example.com"},
			HasActiveMandate: true,
			HasBrokerAccount: true,
		})
	})

	g, err := Verify(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, "u1", g.User().ID)
	assert.True(t, g.HasActiveMandate())
	assert.True(t, g.HasBrokerAccount())
}

func TestVerify_AuthFailureMapsToSentinel(t *testing.T) {
	c := guardClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "session expired"}`))
	})

	_, err := Verify(context.Background(), c)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestVerify_InvalidFlagMapsToSentinel(t *testing.T) {
	c := guardClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(gateway.SessionStatus{Valid: false})
	})

	_, err := Verify(context.Background(), c)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestVerify_TransportFailurePassesThrough(t *testing.T) {
	c := guardClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "db down"}`))
	})

	_, err := Verify(context.Background(), c)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotAuthenticated)
	assert.Contains(t, err.Error(), "db down")
}
