package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Hints {
	t.Helper()
	h, err := Open(filepath.Join(t.TempDir(), "hints.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestSetGet(t *testing.T) {
	h := openTemp(t)

	_, ok, err := h.Get(KeyBaseURLOverride)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, h.Set(KeyBaseURLOverride, "http://localhost:8001"))

	v, ok, err := h.Get(KeyBaseURLOverride)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:8001", v)
}

func TestSetReplaces(t *testing.T) {
	h := openTemp(t)

	require.NoError(t, h.Set(KeyOAuthState, "first"))
	require.NoError(t, h.Set(KeyOAuthState, "second"))

	v, ok, err := h.Get(KeyOAuthState)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", v)
}

func TestDelete(t *testing.T) {
	h := openTemp(t)

	require.NoError(t, h.Set(KeyLastWizardEntry, "markets"))
	require.NoError(t, h.Delete(KeyLastWizardEntry))

	_, ok, err := h.Get(KeyLastWizardEntry)
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting again is fine
	require.NoError(t, h.Delete(KeyLastWizardEntry))
}
