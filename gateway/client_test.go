package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := New(server.URL, 5*time.Second)
	require.NoError(t, err)
	return c
}

func csrfAwareMux(t *testing.T, fetches *int) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/csrf_token", func(w http.ResponseWriter, r *http.Request) {
		if fetches != nil {
			*fetches++
		}
		json.NewEncoder(w).Encode(map[string]string{"csrf_token": "tok-1"})
	})
	return mux
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New("", time.Second)
	assert.Error(t, err)
}

func TestMutatingCallCarriesCSRFHeaders(t *testing.T) {
	fetches := 0
	mux := csrfAwareMux(t, &fetches)
	mux.HandleFunc("/api/logout", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok-1", r.Header.Get("X-CSRF-Token"))
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		// bodyless POST must not declare a content type
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	})

	c := newTestClient(t, mux)
	require.NoError(t, c.Logout(context.Background()))
}

func TestCSRFTokenCachedUntilInvalidated(t *testing.T) {
	fetches := 0
	mux := csrfAwareMux(t, &fetches)
	mux.HandleFunc("/api/contact", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{}`))
	})

	c := newTestClient(t, mux)
	ctx := context.Background()

	require.NoError(t, c.Contact(ctx, "s", "m"))
	require.NoError(t, c.Contact(ctx, "s", "m"))
	assert.Equal(t, 1, fetches, "token should be fetched once and cached")

	c.InvalidateCSRF()
	require.NoError(t, c.Contact(ctx, "s", "m"))
	assert.Equal(t, 2, fetches, "invalidation should force a refetch")
}

func TestErrorBodyParsing(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail field", `{"detail": "draft rejected"}`, "draft rejected"},
		{"message field", `{"message": "nope"}`, "nope"},
		{"detail wins over message", `{"detail": "a", "message": "b"}`, "a"},
		{"not json", `<html>boom</html>`, "request failed"},
		{"empty body", ``, "request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/api/mandates/active", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tt.body))
			})

			c := newTestClient(t, mux)
			_, _, err := c.ActiveMandate(context.Background())
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			assert.Equal(t, tt.want, apiErr.Message)
		})
	}
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, IsAuthError(&APIError{StatusCode: http.StatusUnauthorized}))
	assert.True(t, IsAuthError(&APIError{StatusCode: http.StatusForbidden}))
	assert.False(t, IsAuthError(&APIError{StatusCode: http.StatusBadRequest}))
	assert.False(t, IsAuthError(context.Canceled))
	assert.False(t, IsAuthError(nil))
}

func TestVerifyToken(t *testing.T) {
	mux := csrfAwareMux(t, nil)
	mux.HandleFunc("/api/verify_token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		json.NewEncoder(w).Encode(SessionStatus{
			Valid:            true,
			User:             User{ID: "u1", Email: "a@b.c"},
			HasActiveMandate: true,
		})
	})

	c := newTestClient(t, mux)
	status, err := c.VerifyToken(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Valid)
	assert.True(t, status.HasActiveMandate)
	assert.Equal(t, "u1", status.User.ID)
}

func TestVerifyToken_AuthFailure(t *testing.T) {
	mux := csrfAwareMux(t, nil)
	mux.HandleFunc("/api/verify_token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "session expired"}`))
	})

	c := newTestClient(t, mux)
	_, err := c.VerifyToken(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
}

func TestWSToken(t *testing.T) {
	mux := csrfAwareMux(t, nil)
	mux.HandleFunc("/api/ws_token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": "ws-abc"})
	})

	c := newTestClient(t, mux)
	tok, err := c.WSToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ws-abc", tok)
}
