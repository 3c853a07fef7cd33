package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCredentials = `{
	"installed": {
		"client_id": "test-client-id.apps.googleusercontent.com",
		"client_secret": "test-secret",
		"auth_uri": "https://accounts.google.com/o/oauth2/auth",
		"token_uri": "https://oauth2.googleapis.com/token",
		"redirect_uris": ["http://localhost"]
	}
}`

func newTestManager(t *testing.T, redirectURL string) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()

	credsFile := filepath.Join(dir, "credentials.json")
	require.NoError(t, os.WriteFile(credsFile, []byte(testCredentials), 0600))

	tokenFile := filepath.Join(dir, "token.json")
	m, err := NewManager(credsFile, tokenFile, redirectURL)
	require.NoError(t, err)
	return m, tokenFile
}

func TestNewManager(t *testing.T) {
	t.Run("missing credentials file", func(t *testing.T) {
		_, err := NewManager(filepath.Join(t.TempDir(), "nope.json"), "token.json", "")
		assert.Error(t, err)
	})

	t.Run("malformed credentials file", func(t *testing.T) {
		dir := t.TempDir()
		credsFile := filepath.Join(dir, "credentials.json")
		require.NoError(t, os.WriteFile(credsFile, []byte("not json"), 0600))

		_, err := NewManager(credsFile, "token.json", "")
		assert.Error(t, err)
	})

	t.Run("redirect url override", func(t *testing.T) {
		m, _ := newTestManager(t, "http://localhost:8000/auth/callback")
		assert.Contains(t, m.AuthURL(), "redirect_uri=http%3A%2F%2Flocalhost%3A8000%2Fauth%2Fcallback")
	})
}

func TestAuthURL(t *testing.T) {
	m, _ := newTestManager(t, "")
	url := m.AuthURL()

	assert.Contains(t, url, "https://accounts.google.com/o/oauth2/auth")
	assert.Contains(t, url, "client_id=test-client-id.apps.googleusercontent.com")
	assert.Contains(t, url, "access_type=offline")
	assert.Contains(t, url, "gmail.readonly")
}

func TestTokenLifecycle(t *testing.T) {
	t.Run("no stored token", func(t *testing.T) {
		m, _ := newTestManager(t, "")

		assert.False(t, m.HasToken())
		_, err := m.Client(context.Background())
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("stored token is picked up", func(t *testing.T) {
		m, tokenFile := newTestManager(t, "")
		token := `{"access_token":"abc","token_type":"Bearer","refresh_token":"def"}`
		require.NoError(t, os.WriteFile(tokenFile, []byte(token), 0600))

		assert.True(t, m.HasToken())
		client, err := m.Client(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("corrupt token file", func(t *testing.T) {
		m, tokenFile := newTestManager(t, "")
		require.NoError(t, os.WriteFile(tokenFile, []byte("{broken"), 0600))

		assert.False(t, m.HasToken())
	})
}
